package orm

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
)

// Index is a non unique secondary index. Each entry is stored under the
// index value followed by the primary key, so a prefix scan over the index
// value lists all referenced objects.
type Index struct {
	prefix []byte
	index  Indexer
}

var _ dealchain.QueryHandler = Index{}

// NewIndex creates an index with given name.
func NewIndex(name string, indexer Indexer) Index {
	return Index{
		prefix: append([]byte("_i."+name), ':'),
		index:  indexer,
	}
}

// IndexKeyLength is the length of all index values. Indexes are built over
// addresses.
const IndexKeyLength = dealchain.AddressLength

func (i Index) entry(value, key []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value)+len(key))
	out = append(out, i.prefix...)
	out = append(out, value...)
	return append(out, key...)
}

// Update removes the entry of prev and writes the one of save. Either may
// be nil.
func (i Index) Update(db dealchain.KVStore, key []byte, prev, save Object) error {
	var prevVal, saveVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.value(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if saveVal, err = i.value(save); err != nil {
			return err
		}
	}
	if prevVal != nil && string(prevVal) == string(saveVal) {
		return nil
	}
	if prevVal != nil {
		if err := db.Delete(i.entry(prevVal, key)); err != nil {
			return err
		}
	}
	if saveVal != nil {
		return db.Set(i.entry(saveVal, key), []byte{1})
	}
	return nil
}

func (i Index) value(obj Object) ([]byte, error) {
	val, err := i.index(obj)
	if err != nil {
		return nil, err
	}
	if val != nil && len(val) != IndexKeyLength {
		return nil, errors.Wrapf(ErrInvalidIndex, "index value must be %d bytes", IndexKeyLength)
	}
	return val, nil
}

// GetAt returns the primary keys of all objects with given index value.
func (i Index) GetAt(db dealchain.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	if len(value) != IndexKeyLength {
		return nil, errors.Wrapf(ErrInvalidIndex, "index value must be %d bytes", IndexKeyLength)
	}
	prefix := i.entry(value, nil)
	models, err := queryPrefix(db, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(models))
	for n, m := range models {
		keys[n] = m.Key[len(prefix):]
	}
	return keys, nil
}

// Query returns the primary keys referenced by the index value as model
// values.
func (i Index) Query(db dealchain.ReadOnlyKVStore, mod string, data []byte) ([]dealchain.Model, error) {
	if mod != dealchain.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	keys, err := i.GetAt(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]dealchain.Model, len(keys))
	for n, k := range keys {
		res[n] = dealchain.Pair(i.entry(data, k), k)
	}
	return res, nil
}
