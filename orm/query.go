package orm

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr dealchain.Iterator) ([]dealchain.Model, error) {
	defer itr.Close()

	var res []dealchain.Model
	for itr.Valid() {
		res = append(res, dealchain.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func queryPrefix(db dealchain.ReadOnlyKVStore, prefix []byte) ([]dealchain.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into a (start, end) range. The end is
// exclusive, nil end means no upper limit.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}

// RegisterQuery exposes the raw key value store under "/". A key query
// returns the single value stored under the key, a prefix query lists all
// entries starting with given bytes.
func RegisterQuery(qr dealchain.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

var _ dealchain.QueryHandler = rawQuery{}

func (rawQuery) Query(db dealchain.ReadOnlyKVStore, mod string, data []byte) ([]dealchain.Model, error) {
	switch mod {
	case dealchain.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []dealchain.Model{dealchain.Pair(data, value)}, nil
	case dealchain.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
