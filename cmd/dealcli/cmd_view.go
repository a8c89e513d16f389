package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/dealchain"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display transaction summary. This command is helpful when reciving a
binary representation of a transaction. Before signing you should check what
kind of operation are you authorizing.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	view, err := newTxView(tx)
	if err != nil {
		return fmt.Errorf("cannot decode transaction: %s", err)
	}
	pretty, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

type txView struct {
	Memo         string              `json:"memo,omitempty"`
	Instructions []instructionView   `json:"instructions"`
	Signers      []dealchain.Address `json:"signers,omitempty"`
}

type instructionView struct {
	Program  dealchain.Address `json:"program"`
	Accounts []accountView     `json:"accounts"`
	Data     string            `json:"data"`
}

type accountView struct {
	Address  dealchain.Address `json:"address"`
	Signer   bool              `json:"signer,omitempty"`
	Writable bool              `json:"writable,omitempty"`
}

func newTxView(tx *dealchain.Tx) (*txView, error) {
	view := txView{Memo: tx.Memo}
	for _, ix := range tx.Instructions {
		program, err := ix.Program()
		if err != nil {
			return nil, err
		}
		iv := instructionView{Program: program, Data: hex.EncodeToString(ix.Data)}
		for _, m := range ix.Accounts {
			addr, err := m.Address()
			if err != nil {
				return nil, err
			}
			iv.Accounts = append(iv.Accounts, accountView{Address: addr, Signer: m.IsSigner, Writable: m.IsWritable})
		}
		view.Instructions = append(view.Instructions, iv)
	}
	for _, sig := range tx.Signatures {
		addr, err := dealchain.NewAddress(sig.PubKey)
		if err != nil {
			return nil, err
		}
		view.Signers = append(view.Signers, addr)
	}
	return &view, nil
}
