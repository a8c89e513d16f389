package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/dealchain/errors"
)

// ascendBtree returns all cached items within [start, end) in ascending
// order. Nil start or end means no limit.
func ascendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var res []btree.Item
	add := func(item btree.Item) bool {
		res = append(res, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(bkey{end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, add)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, add)
	}
	return res
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	us
	parent
	both
)

// cacheIter combines the cached items with the parent iterator, taking into
// consideration overwrites and deletes.
type cacheIter struct {
	// items are ordered in the direction of the iteration
	items   []btree.Item
	parent  Iterator
	reverse bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(items []btree.Item, parent Iterator, reverse bool) (*cacheIter, error) {
	it := &cacheIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// Valid implements Iterator and returns true iff it can be read
func (i *cacheIter) Valid() bool {
	return i.first() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *cacheIter) Next() error {
	switch i.first() {
	case us:
		i.items = i.items[1:]
	case both:
		i.items = i.items[1:]
		if err := i.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		return errors.Wrap(errors.ErrHuman, "iterator is exhausted")
	}
	return i.skipDeleted()
}

// Key returns the key of the cursor.
func (i *cacheIter) Key() []byte {
	switch i.first() {
	case us, both:
		return i.items[0].(keyer).Key()
	case parent:
		return i.parent.Key()
	default:
		panic("read after end of iterator")
	}
}

// Value returns the value of the cursor.
func (i *cacheIter) Value() []byte {
	switch i.first() {
	case us, both:
		return i.items[0].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("read after end of iterator")
	}
}

// Close releases the Iterator.
func (i *cacheIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// skipDeleted jumps over all cached deletes, advancing the parent as well
// if it holds the deleted key.
func (i *cacheIter) skipDeleted() error {
	for {
		src := i.first()
		if src != us && src != both {
			return nil
		}
		if _, ok := i.items[0].(deletedItem); !ok {
			return nil
		}
		i.items = i.items[1:]
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// first selects the source holding the next key in iteration order.
func (i *cacheIter) first() source {
	ours := len(i.items) > 0
	theirs := i.parent != nil && i.parent.Valid()
	switch {
	case !ours && !theirs:
		return none
	case !theirs:
		return us
	case !ours:
		return parent
	}

	cmp := bytes.Compare(i.items[0].(keyer).Key(), i.parent.Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}
