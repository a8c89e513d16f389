package utils

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	"github.com/tendermint/tendermint/libs/common"
)

// writeHandler writes the key, value pair and returns the error (may be nil)
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ dealchain.Handler = writeHandler{}

func (h writeHandler) Check(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx) (*dealchain.CheckResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &dealchain.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx) (*dealchain.DeliverResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &dealchain.DeliverResult{}, h.err
}

// writeDecorator writes the key, value pair.
// either before or after calling the handlers
type writeDecorator struct {
	key   []byte
	value []byte
	after bool
}

var _ dealchain.Decorator = writeDecorator{}

func (d writeDecorator) Check(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Checker) (*dealchain.CheckResult, error) {
	if !d.after {
		_ = store.Set(d.key, d.value)
	}
	res, err := next.Check(ctx, store, tx)
	if d.after && err == nil {
		_ = store.Set(d.key, d.value)
	}
	return res, err
}

func (d writeDecorator) Deliver(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx, next dealchain.Deliverer) (*dealchain.DeliverResult, error) {
	if !d.after {
		_ = store.Set(d.key, d.value)
	}
	res, err := next.Deliver(ctx, store, tx)
	if d.after && err == nil {
		_ = store.Set(d.key, d.value)
	}
	return res, err
}

func newTagHandler(key, value []byte, err error) dealchain.Handler {
	return &chaintest.Handler{
		CheckErr:   err,
		DeliverErr: err,
		DeliverResult: dealchain.DeliverResult{
			Tags: []common.KVPair{
				{Key: key, Value: value},
			},
		},
	}
}

type panicHandler struct{}

var _ dealchain.Handler = panicHandler{}

func (p panicHandler) Check(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx) (*dealchain.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx dealchain.Context, store dealchain.KVStore, tx *dealchain.Tx) (*dealchain.DeliverResult, error) {
	panic("deliver panic")
}
