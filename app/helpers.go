package app

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is the query side of an abci application. Both abci.Application
// and the rpc client implement it.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. It reads
// the committed state through the raw "/" query path, so the application
// must register orm.RegisterQuery.
type ABCIStore struct {
	app Querier
}

var _ dealchain.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore wraps given application.
func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "%d values for a single key", len(models))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}

// Iterator attempts to do a range iteration over the store.
// Only the entire range is supported.
func (a *ABCIStore) Iterator(start, end []byte) (dealchain.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "iterator only implemented for entire range")
	}
	models, err := a.query("/?prefix", nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator iterates the entire range from the last key.
func (a *ABCIStore) ReverseIterator(start, end []byte) (dealchain.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "iterator only implemented for entire range")
	}
	models, err := a.query("/?prefix", nil)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) query(path string, data []byte) ([]dealchain.Model, error) {
	return QueryModels(a.app, path, data)
}

// QueryModels runs a query and joins the returned key and value result sets.
// A failure code is turned back into the matching registered error.
func QueryModels(q Querier, path string, data []byte) ([]dealchain.Model, error) {
	res := q.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, err
	}
	return toModels(res.Key, res.Value)
}

func toModels(keys, values []byte) ([]dealchain.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
