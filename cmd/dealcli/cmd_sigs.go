package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain id and the signer sequence are fetched from the node.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", env("DEALCLI_TM_ADDR", defaultTmAddr), tmAddrUsage)
		keyPathFl = fl.String("key", defaultKeyPath(), keyPathUsage)
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := newClient(*tmAddrFl).SignTx(ctx, tx, key); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	_, err = writeTx(output, tx)
	return err
}
