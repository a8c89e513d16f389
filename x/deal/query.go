package deal

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x/system"
)

// QueryHandler serves the records of open deals.
//
// With the key mod, data is a deal storage address. With the prefix mod,
// data is either empty, listing every open deal, or an initializer address,
// listing the open deals of that initializer.
type QueryHandler struct {
	bucket system.Bucket
}

var _ dealchain.QueryHandler = QueryHandler{}

// NewQueryHandler returns a handler reading deal storage accounts from the
// system account bucket.
func NewQueryHandler(bucket system.Bucket) QueryHandler {
	return QueryHandler{bucket: bucket}
}

// Query returns deal storage addresses with their serialized records.
func (q QueryHandler) Query(db dealchain.ReadOnlyKVStore, mod string, data []byte) ([]dealchain.Model, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	switch mod {
	case dealchain.KeyQueryMod:
		addr, err := dealchain.NewAddress(data)
		if err != nil {
			return nil, err
		}
		obj, err := q.bucket.Get(db, addr.Bytes())
		if err != nil {
			return nil, err
		}
		acct := system.AsAccount(obj)
		if acct == nil || acct.Owner != conf.ProgramID {
			return nil, nil
		}
		return openDeals([]dealchain.Address{addr}, []*system.Account{acct}, dealchain.ZeroAddress), nil
	case dealchain.PrefixQueryMod:
		initializer := dealchain.ZeroAddress
		if len(data) > 0 {
			if initializer, err = dealchain.NewAddress(data); err != nil {
				return nil, err
			}
		}
		addrs, accts, err := q.bucket.ByOwner(db, conf.ProgramID)
		if err != nil {
			return nil, err
		}
		return openDeals(addrs, accts, initializer), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// openDeals filters out closed or malformed records and, unless zero,
// records of other initializers.
func openDeals(addrs []dealchain.Address, accts []*system.Account, initializer dealchain.Address) []dealchain.Model {
	var res []dealchain.Model
	for i, acct := range accts {
		rec, err := UnmarshalRecord(acct.Data)
		if err != nil || !rec.IsOpen {
			continue
		}
		if !initializer.IsZero() && rec.Initializer != initializer {
			continue
		}
		res = append(res, dealchain.Pair(addrs[i].Bytes(), acct.Data))
	}
	return res
}
