package app

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder dealchain.TxDecoder
	handler dealchain.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder dealchain.TxDecoder,
	handler dealchain.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return dealchain.DeliverTxError(err, b.debug)
	}

	ctx := dealchain.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"programs", tx.Programs())

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return dealchain.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return dealchain.CheckTxError(err, b.debug)
	}

	ctx := dealchain.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"programs", tx.Programs())

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return dealchain.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx *dealchain.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	if err == nil && tx == nil {
		err = errors.Wrap(errors.ErrInput, "no transaction")
	}
	return tx, err
}
