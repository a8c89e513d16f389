package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/dealchain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupHome creates a home directory holding a tendermint genesis without
// app_state.
func setupHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "dealchaind-init")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	genesis := `{"genesis_time": "2021-01-01T00:00:00Z", "chain_id": "test-chain-1"}`
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config", "genesis.json"), []byte(genesis), 0600))
	return home, func() { os.RemoveAll(home) }
}

func readAppState(t *testing.T, home string) string {
	t.Helper()
	raw, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return string(doc[appStateKey])
}

func TestInitCmd(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	var gotArgs []string
	gen := func(args []string) (json.RawMessage, error) {
		gotArgs = args
		return json.RawMessage(`{"value":1}`), nil
	}

	err := InitCmd(gen, log.NewNopLogger(), home, []string{"alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, gotArgs)
	assert.JSONEq(t, `{"value":1}`, readAppState(t, home))

	gen2 := func([]string) (json.RawMessage, error) {
		return json.RawMessage(`{"value":2}`), nil
	}
	err = InitCmd(gen2, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrDuplicate.Is(err))
	assert.JSONEq(t, `{"value":1}`, readAppState(t, home))

	err = InitCmd(gen2, log.NewNopLogger(), home, []string{"-f"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":2}`, readAppState(t, home))
}

func TestInitCmdWithoutGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "dealchaind-init")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	gen := func([]string) (json.RawMessage, error) { return json.RawMessage(`{}`), nil }
	err = InitCmd(gen, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}
