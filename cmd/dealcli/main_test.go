package main

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/client"
	dealchaind "github.com/iov-one/dealchain/cmd/dealchaind/app"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "dealcli-test"

// withApp points all commands to a new in-process application loaded with
// given genesis.
func withApp(t testing.TB, genesis interface{}) func() {
	t.Helper()
	home, err := ioutil.TempDir("", "dealcli")
	if err != nil {
		t.Fatalf("cannot create home: %s", err)
	}
	application, err := dealchaind.NewApp(home, log.NewNopLogger(), true, nil)
	if err != nil {
		t.Fatalf("cannot create application: %s", err)
	}
	raw, err := json.Marshal(genesis)
	if err != nil {
		t.Fatalf("cannot serialize genesis: %s", err)
	}
	conn := client.NewAppConnection(application, testChainID)
	if err := conn.InitChain(raw); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}

	prev := newClient
	newClient = func(string) *client.Client { return client.NewClient(conn) }
	return func() {
		newClient = prev
		os.RemoveAll(home)
	}
}

// newKeyFile generates a key in a temporary directory and returns the path
// of the key file and the address of the key.
func newKeyFile(t testing.TB) (string, dealchain.Address) {
	t.Helper()
	dir, err := ioutil.TempDir("", "dealcli-key")
	if err != nil {
		t.Fatalf("cannot create directory: %s", err)
	}
	path := filepath.Join(dir, "priv.key")
	var out bytes.Buffer
	if err := cmdKeygen(nil, &out, []string{"-key", path}); err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	addr, err := dealchain.ParseAddress(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("keygen printed an invalid address: %s", err)
	}
	return path, addr
}

// run executes a command and returns its output.
func run(t testing.TB, cmd func(io.Reader, io.Writer, []string) error, input []byte, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := cmd(bytes.NewReader(input), &out, args); err != nil {
		t.Fatalf("command failed: %s", err)
	}
	return out.Bytes()
}

func mustCreateFile(t testing.TB, content []byte) string {
	t.Helper()
	fd, err := ioutil.TempFile("", "dealcli")
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	if _, err := fd.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}
	return fd.Name()
}
