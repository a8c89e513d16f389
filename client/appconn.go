package client

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/dealchain/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/p2p"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// AppConnection serves an abci application in-process, without consensus.
// Every accepted transaction is committed in its own block, so results are
// available as soon as the broadcast returns.
//
// Only the calls made by Client for status, queries and committing
// transactions are served. Subscriptions never fire. Any other call panics.
type AppConnection struct {
	rpcclient.Client

	mu      sync.Mutex
	app     abci.Application
	chainID string
	height  int64
	now     time.Time
	txs     map[string]*ctypes.ResultTx
}

// NewAppConnection wraps given application. Call InitChain before use.
func NewAppConnection(app abci.Application, chainID string) *AppConnection {
	return &AppConnection{
		app:     app,
		chainID: chainID,
		now:     time.Now().UTC(),
		txs:     make(map[string]*ctypes.ResultTx),
	}
}

// InitChain loads the genesis app state in the first block. A rejected
// genesis is returned as an error.
func (a *AppConnection) InitChain(appState []byte) (err error) {
	defer errors.Recover(&err)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.block(func() {
		a.app.InitChain(abci.RequestInitChain{
			Time:          a.now,
			ChainId:       a.chainID,
			AppStateBytes: appState,
		})
	})
	return nil
}

// block runs fn between BeginBlock and Commit of the next block.
func (a *AppConnection) block(fn func()) {
	a.height++
	a.now = a.now.Add(time.Second)
	a.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: a.chainID,
			Height:  a.height,
			Time:    a.now,
		},
	})
	fn()
	a.app.EndBlock(abci.RequestEndBlock{Height: a.height})
	a.app.Commit()
}

func (a *AppConnection) Status() (*ctypes.ResultStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &ctypes.ResultStatus{
		NodeInfo: p2p.DefaultNodeInfo{Network: a.chainID},
		SyncInfo: ctypes.SyncInfo{
			LatestBlockHeight: a.height,
			LatestBlockTime:   a.now,
		},
	}, nil
}

func (a *AppConnection) ABCIQueryWithOptions(path string, data cmn.HexBytes, opts rpcclient.ABCIQueryOptions) (*ctypes.ResultABCIQuery, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data, Height: opts.Height, Prove: opts.Prove})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}

// BroadcastTxSync checks the transaction and, when accepted, commits it in
// a new block.
func (a *AppConnection) BroadcastTxSync(tx tmtypes.Tx) (*ctypes.ResultBroadcastTx, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	check := a.app.CheckTx(tx)
	if check.Code != errors.SuccessABCICode {
		return &ctypes.ResultBroadcastTx{Code: check.Code, Log: check.Log, Hash: tx.Hash()}, nil
	}
	var deliver abci.ResponseDeliverTx
	a.block(func() {
		deliver = a.app.DeliverTx(tx)
	})
	a.txs[string(tx.Hash())] = &ctypes.ResultTx{
		Hash:     tx.Hash(),
		Height:   a.height,
		TxResult: deliver,
		Tx:       tx,
	}
	return &ctypes.ResultBroadcastTx{Data: check.Data, Log: check.Log, Hash: tx.Hash()}, nil
}

func (a *AppConnection) Tx(hash []byte, prove bool) (*ctypes.ResultTx, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if res, ok := a.txs[string(hash)]; ok {
		return res, nil
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "tx %X", hash)
}

func (a *AppConnection) Subscribe(ctx context.Context, subscriber, query string, outCapacity ...int) (<-chan ctypes.ResultEvent, error) {
	return make(chan ctypes.ResultEvent), nil
}

func (a *AppConnection) Unsubscribe(ctx context.Context, subscriber, query string) error {
	return nil
}
