package app

import (
	"context"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/orm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const testChainID = "test-chain-1"

func newTestApp(t *testing.T, prog dealchain.Program) (BaseApp, func()) {
	t.Helper()
	kv, cleanup := chaintest.CommitKVStore(t)

	qr := dealchain.NewQueryRouter()
	orm.RegisterQuery(qr)

	r := NewRouter()
	r.Handle(dealchain.ProgramID("test"), prog)

	store := NewStoreApp("test", kv, qr, context.Background()).
		WithInit(keyInitializer{key: "genesis"})
	return NewBaseApp(store, dealchain.UnmarshalTx, r, false), cleanup
}

func TestStoreAppLifecycle(t *testing.T) {
	prog := &chaintest.Program{Write: []byte("stored")}
	base, cleanup := newTestApp(t, prog)
	defer cleanup()

	runner := chaintest.NewChainRunner(t, base, testChainID)
	runner.InitChain(map[string]string{"genesis": "loaded"})

	assert.Equal(t, testChainID, base.GetChainID())
	assert.Equal(t, []byte("loaded"), runner.Get([]byte("genesis")))

	id := dealchain.ProgramID("test")
	changed := runner.InBlock(func(app chaintest.ChainApp) error {
		return app.DeliverTx(chaintest.Tx(chaintest.Instruction(id, []byte("hello"))))
	})
	assert.True(t, changed)
	assert.Equal(t, []byte("stored"), runner.Get([]byte("hello")))

	info := base.Info(abci.RequestInfo{})
	assert.Equal(t, int64(2), info.LastBlockHeight)
	assert.Equal(t, "test", info.Data)

	// check does not modify the state
	changed = runner.InBlock(func(app chaintest.ChainApp) error {
		return app.CheckTx(chaintest.Tx(chaintest.Instruction(id, []byte("checked"))))
	})
	assert.False(t, changed)
	assert.Nil(t, runner.Get([]byte("checked")))
}

func TestStoreAppRejectsSecondGenesis(t *testing.T) {
	base, cleanup := newTestApp(t, &chaintest.Program{})
	defer cleanup()

	runner := chaintest.NewChainRunner(t, base, testChainID)
	runner.InitChain(map[string]string{"genesis": "loaded"})

	assert.Panics(t, func() {
		base.InitChain(abci.RequestInitChain{
			ChainId:       testChainID,
			AppStateBytes: []byte(`{"genesis": "again"}`),
		})
	})
}

func TestStoreAppEmptyGenesis(t *testing.T) {
	base, cleanup := newTestApp(t, &chaintest.Program{})
	defer cleanup()

	assert.Panics(t, func() {
		base.InitChain(abci.RequestInitChain{ChainId: testChainID})
	})
}

func TestBaseAppErrors(t *testing.T) {
	prog := &chaintest.Program{DeliverErr: errors.ErrInsufficientAmount}
	base, cleanup := newTestApp(t, prog)
	defer cleanup()

	runner := chaintest.NewChainRunner(t, base, testChainID)
	runner.InitChain(map[string]string{"genesis": "loaded"})

	res := base.DeliverTx([]byte("not a transaction"))
	assert.NotEqual(t, errors.SuccessABCICode, res.Code)

	tx := chaintest.Tx(chaintest.Instruction(dealchain.ProgramID("test"), []byte("k")))
	runner.InBlock(func(app chaintest.ChainApp) error {
		err := app.DeliverTx(tx)
		assert.True(t, errors.ErrInsufficientAmount.Is(err))
		return nil
	})

	tx = chaintest.Tx(chaintest.Instruction(dealchain.ProgramID("unknown"), []byte("k")))
	err := runner.CheckTx(tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestQuery(t *testing.T) {
	prog := &chaintest.Program{Write: []byte("v")}
	base, cleanup := newTestApp(t, prog)
	defer cleanup()

	runner := chaintest.NewChainRunner(t, base, testChainID)
	runner.InitChain(map[string]string{"genesis": "loaded"})
	id := dealchain.ProgramID("test")
	runner.InBlock(func(app chaintest.ChainApp) error {
		return app.DeliverTx(chaintest.Tx(
			chaintest.Instruction(id, []byte("key:1")),
			chaintest.Instruction(id, []byte("key:2")),
		))
	})

	models, err := runner.Query("/?prefix", []byte("key:"))
	require.NoError(t, err)
	assert.Equal(t, 2, len(models))
	assert.Equal(t, []byte("key:1"), models[0].Key)

	_, err = runner.Query("/unknown", nil)
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = runner.Query("/?range", nil)
	assert.True(t, errors.ErrInput.Is(err))

	abciStore := NewABCIStore(base)
	v, err := abciStore.Get([]byte("key:2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := abciStore.Has([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, has)

	itr, err := abciStore.ReverseIterator(nil, nil)
	require.NoError(t, err)
	models, err = orm.ConsumeIterator(itr)
	require.NoError(t, err)
	assert.Equal(t, []byte("key:2"), models[0].Key)

	_, err = abciStore.Iterator([]byte("a"), nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantPath string
		wantMod  string
	}{
		"raw":    {"/", "/", ""},
		"prefix": {"/deals?prefix", "/deals", "prefix"},
		"nested": {"/a/b?x?y", "/a/b", "x?y"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path, mod := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}
