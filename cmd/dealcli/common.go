package main

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/client"
)

// writeTx serializes the transaction, prefixed with its size, so that
// several transactions can be streamed through a pipe.
func writeTx(w io.Writer, tx *dealchain.Tx) (int, error) {
	b, err := dealchain.MarshalTx(tx)
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

// readTx is the opposite of writeTx.
func readTx(r io.Reader) (*dealchain.Tx, int, error) {
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, err
	}
	tx, err := dealchain.UnmarshalTx(raw)
	if err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return tx, int(msgSize + txHeaderSize), nil
}

const txHeaderSize = 4

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// newClient connects to the node at given address. Tests replace it with an
// in-process application.
var newClient = func(addr string) *client.Client {
	return client.NewClient(client.NewHTTPConnection(addr))
}

const (
	defaultTmAddr = "http://localhost:26657"
	tmAddrUsage   = "Tendermint node address. You can use DEALCLI_TM_ADDR environment variable to set it."
)
