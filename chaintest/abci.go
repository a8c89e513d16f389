package chaintest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	amino "github.com/tendermint/go-amino"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// ChainRunner provides a translation layer between an ABCI interface and
// the ledger transaction API. It takes care of serializing transactions and
// creating blocks.
type ChainRunner struct {
	chainID string
	height  int64
	t       Tester
	app     abci.Application
	now     time.Time
}

// NewChainRunner creates a ChainRunner instance that can be used to process
// deliver and check transaction requests. Block creation failures result
// in test failure, transaction errors are returned.
func NewChainRunner(t Tester, app abci.Application, chainID string) *ChainRunner {
	return &ChainRunner{
		chainID: chainID,
		t:       t,
		app:     app,
		now:     time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ChainApp is the minimal interface that transaction producing test code
// needs.
type ChainApp interface {
	DeliverTx(*dealchain.Tx) error
	CheckTx(*dealchain.Tx) error
}

var _ ChainApp = (*ChainRunner)(nil)

// InitChain serialize to JSON given genesis and loads it. Loading a genesis is
// causing a block creation.
func (w *ChainRunner) InitChain(genesis interface{}) {
	w.t.Helper()
	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		w.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}

	changed := w.InBlock(func(ChainApp) error {
		w.app.InitChain(abci.RequestInitChain{
			Time:          w.now,
			ChainId:       w.chainID,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		w.t.Fatalf("genesis did not change the state")
	}
}

// CheckTx translates given transaction into ABCI interface and executes.
func (w *ChainRunner) CheckTx(tx *dealchain.Tx) error {
	raw, err := dealchain.MarshalTx(tx)
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	resp := w.app.CheckTx(raw)
	return responseError(resp.Code, resp.Log)
}

// DeliverTx translates given transaction into ABCI interface and executes.
func (w *ChainRunner) DeliverTx(tx *dealchain.Tx) error {
	raw, err := dealchain.MarshalTx(tx)
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	resp := w.app.DeliverTx(raw)
	return responseError(resp.Code, resp.Log)
}

// responseError rebuilds a registered error from the ABCI response so that
// callers can test for it.
func responseError(code uint32, log string) error {
	if code == errors.SuccessABCICode {
		return nil
	}
	if e, ok := errors.Registered(code); ok {
		return errors.Wrap(e, log)
	}
	return errors.Wrapf(errors.ErrHuman, "unknown code %d: %s", code, log)
}

// InBlock begins a block and runs given function. All transactions executed
// withing given function are part of newly created block. Upon success the
// block is finished and changes commited.
// InBlock returns true if the application state was modified.
//
// Any error returned by executeTx is ending the test instantly.
func (w *ChainRunner) InBlock(executeTx func(ChainApp) error) bool {
	w.t.Helper()

	w.height++
	w.now = w.now.Add(5 * time.Second)

	initialHash := w.app.Info(abci.RequestInfo{}).LastBlockAppHash

	w.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: w.chainID,
			Height:  w.height,
			Time:    w.now,
		},
	})

	if err := executeTx(w); err != nil {
		w.t.Fatalf("operation failed with %+v", err)
	}

	w.app.EndBlock(abci.RequestEndBlock{
		Height: w.height,
	})

	// Commit data contains the new app hash. It differs from the initial
	// hash only if the state was modified.
	finalHash := w.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}

// resultSet mirrors the encoding of app.ResultSet.
type resultSet struct {
	Results [][]byte
}

var cdc = amino.NewCodec()

// Query runs an ABCI query and returns the found models.
func (w *ChainRunner) Query(path string, data []byte) ([]dealchain.Model, error) {
	resp := w.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if err := responseError(resp.Code, resp.Log); err != nil {
		return nil, err
	}
	var keys, values resultSet
	if err := unmarshalResults(resp.Key, &keys); err != nil {
		return nil, err
	}
	if err := unmarshalResults(resp.Value, &values); err != nil {
		return nil, err
	}
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys, %d values", len(keys.Results), len(values.Results))
	}
	models := make([]dealchain.Model, len(keys.Results))
	for i := range keys.Results {
		models[i] = dealchain.Pair(keys.Results[i], values.Results[i])
	}
	return models, nil
}

// Get returns the raw value stored under given key in the committed state.
func (w *ChainRunner) Get(key []byte) []byte {
	w.t.Helper()
	models, err := w.Query("/", key)
	if err != nil {
		w.t.Fatalf("cannot query %X: %+v", key, err)
	}
	if len(models) == 0 {
		return nil
	}
	return models[0].Value
}

// unmarshalResults decodes a result set. Empty input is an empty set.
func unmarshalResults(raw []byte, rs *resultSet) error {
	if len(raw) == 0 {
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, rs); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
