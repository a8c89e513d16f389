package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/x/deal"
	"github.com/iov-one/dealchain/x/token"
)

func cmdInitDeal(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction opening a deal. The initializer locks an amount of asset
A in the deal vault and asks for an amount of asset B in return.

The transaction must be signed by the initializer.
`)
		fl.PrintDefaults()
	}
	var (
		initializerFl = flAddress(fl, "initializer", "", "Address of the account opening the deal. Required.")
		sourceFl      = flAddress(fl, "source", "", "Token account holding asset A. Defaults to the associated account of the initializer.")
		mintAFl       = flAddress(fl, "mint-a", "", "Mint of the offered asset. Required.")
		mintBFl       = flAddress(fl, "mint-b", "", "Mint of the asset expected in return. Required.")
		amountFl      = fl.Uint64("amount", 0, "Amount of asset A to lock.")
		expectedFl    = fl.Uint64("expected", 0, "Amount of asset B expected in return.")
		seedFl        = fl.Uint64("seed", 0, "Seed distinguishing deals of the same initializer.")
	)
	fl.Parse(args)

	if initializerFl.IsZero() || mintAFl.IsZero() || mintBFl.IsZero() {
		return errors.New("initializer, mint-a and mint-b are required")
	}
	source := *sourceFl
	if source.IsZero() {
		ata, err := token.AssociatedAddress(*initializerFl, *mintAFl)
		if err != nil {
			return fmt.Errorf("cannot derive source account: %s", err)
		}
		source = ata
	}

	ix, err := deal.NewInitInstruction(deal.DefaultConfiguration(), deal.InitParams{
		Initializer:    *initializerFl,
		Source:         source,
		MintA:          *mintAFl,
		MintB:          *mintBFl,
		AmountToTrade:  *amountFl,
		AmountExpected: *expectedFl,
		Seed:           *seedFl,
	})
	if err != nil {
		return fmt.Errorf("cannot create instruction: %s", err)
	}
	tx := &dealchain.Tx{Instructions: []*dealchain.Instruction{ix}}
	_, err = writeTx(output, tx)
	return err
}

func cmdExchange(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction completing an open deal. The taker pays the expected
amount of asset B to the initializer and receives the locked asset A.

The transaction must be signed by the taker.
`)
		fl.PrintDefaults()
	}
	var (
		takerFl       = flAddress(fl, "taker", "", "Address of the account accepting the deal. Required.")
		initializerFl = flAddress(fl, "initializer", "", "Address of the account that opened the deal. Required.")
		sourceFl      = flAddress(fl, "source", "", "Token account holding asset B. Defaults to the associated account of the taker.")
		mintAFl       = flAddress(fl, "mint-a", "", "Mint of the offered asset. Required.")
		mintBFl       = flAddress(fl, "mint-b", "", "Mint of the asset expected in return. Required.")
		amountFl      = fl.Uint64("amount", 0, "Amount of asset B the deal expects.")
		seedFl        = fl.Uint64("seed", 0, "Seed the deal was opened with.")
	)
	fl.Parse(args)

	if takerFl.IsZero() || initializerFl.IsZero() || mintAFl.IsZero() || mintBFl.IsZero() {
		return errors.New("taker, initializer, mint-a and mint-b are required")
	}
	source := *sourceFl
	if source.IsZero() {
		ata, err := token.AssociatedAddress(*takerFl, *mintBFl)
		if err != nil {
			return fmt.Errorf("cannot derive source account: %s", err)
		}
		source = ata
	}

	ix, err := deal.NewExchangeInstruction(deal.DefaultConfiguration(), deal.ExchangeParams{
		Taker:       *takerFl,
		Initializer: *initializerFl,
		Seed:        *seedFl,
		Source:      source,
		MintA:       *mintAFl,
		MintB:       *mintBFl,
		Amount:      *amountFl,
	})
	if err != nil {
		return fmt.Errorf("cannot create instruction: %s", err)
	}
	tx := &dealchain.Tx{Instructions: []*dealchain.Instruction{ix}}
	_, err = writeTx(output, tx)
	return err
}
