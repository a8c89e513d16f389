package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/app"
	"github.com/iov-one/dealchain/x/deal"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input, submit it and wait
until it is included in a block.

The transaction id and height are written out, followed by the result of
each instruction that returned one. Opening a deal returns the address of the
deal.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", env("DEALCLI_TM_ADDR", defaultTmAddr), tmAddrUsage)
		timeoutFl = fl.Duration("timeout", 30*time.Second, "Maximum time to wait for the transaction to be included in a block.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	defer cancel()
	res, err := newClient(*tmAddrFl).CommitTx(ctx, tx)
	if err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	if res.Err != nil {
		return fmt.Errorf("transaction %X failed: %s", res.ID, res.Err)
	}
	fmt.Fprintf(output, "%X %d\n", res.ID, res.Height)

	results, err := app.InstructionResults(res.Result.Data)
	if err != nil {
		return fmt.Errorf("cannot extract response: %s", err)
	}
	for i, data := range results {
		if len(data) == 0 || i >= len(tx.Instructions) {
			continue
		}
		fmt.Fprintln(output, formatResult(tx.Instructions[i], data))
	}
	return nil
}

// formatResult returns a human readable representation of the data returned
// by an instruction.
func formatResult(ix *dealchain.Instruction, data []byte) string {
	if bytes.Equal(ix.ProgramID, deal.ProgramID[:]) && len(data) == dealchain.AddressLength {
		return dealchain.MustNewAddress(data).String()
	}
	return fmt.Sprintf("%X", data)
}
