package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/client"
)

func cmdDeals(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List open deals as JSON, one deal per line. Without any filter all open deals
are listed.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl      = fl.String("tm", env("DEALCLI_TM_ADDR", defaultTmAddr), tmAddrUsage)
		initializerFl = flAddress(fl, "initializer", "", "Only list deals opened by this address.")
		dealFl        = flAddress(fl, "deal", "", "Only show the deal stored under this address.")
	)
	fl.Parse(args)

	c := newClient(*tmAddrFl)
	if !dealFl.IsZero() {
		d, err := c.Deal(*dealFl)
		if err != nil {
			return fmt.Errorf("cannot get deal: %s", err)
		}
		return writeDeal(output, newDealJSON(d))
	}

	deals, err := c.OpenDeals(*initializerFl)
	if err != nil {
		return fmt.Errorf("cannot list deals: %s", err)
	}
	for _, d := range deals {
		if err := writeDeal(output, newDealJSON(d)); err != nil {
			return err
		}
	}
	return nil
}

type dealJSON struct {
	Address        dealchain.Address `json:"address"`
	Open           bool              `json:"open"`
	Initializer    dealchain.Address `json:"initializer"`
	AssetA         dealchain.Address `json:"asset_a"`
	AssetB         dealchain.Address `json:"asset_b"`
	ExpectedAmount uint64            `json:"expected_amount"`
	Seed           uint64            `json:"seed"`
}

func newDealJSON(d *client.Deal) dealJSON {
	return dealJSON{
		Address:        d.Address,
		Open:           d.IsOpen,
		Initializer:    d.Initializer,
		AssetA:         d.AssetA,
		AssetB:         d.AssetB,
		ExpectedAmount: d.ExpectedAmount,
		Seed:           d.Seed,
	}
}

func writeDeal(w io.Writer, d dealJSON) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the token balance of the associated account of the owner.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("DEALCLI_TM_ADDR", defaultTmAddr), tmAddrUsage)
		ownerFl  = flAddress(fl, "owner", "", "Owner of the token account. Required.")
		mintFl   = flAddress(fl, "mint", "", "Mint of the token. Required.")
	)
	fl.Parse(args)

	if ownerFl.IsZero() || mintFl.IsZero() {
		return errors.New("owner and mint are required")
	}
	amount, err := newClient(*tmAddrFl).TokenBalance(*ownerFl, *mintFl)
	if err != nil {
		return fmt.Errorf("cannot get balance: %s", err)
	}
	_, err = fmt.Fprintln(output, amount)
	return err
}
