package store

import (
	"testing"

	"github.com/iov-one/dealchain/chaintest/assert"
)

func memStoreSuite() *TestSuite {
	return NewTestSuite(func() (CacheableKVStore, func()) {
		return MemStore(), func() {}
	})
}

func TestBTreeCacheWrap(t *testing.T) {
	suite := memStoreSuite()
	t.Run("ledger writes", suite.LedgerWrites)
	t.Run("balance conflicts", suite.BalanceConflicts)
	t.Run("bucket iterator", suite.BucketIterator)
	t.Run("reaped accounts", suite.ReapedAccounts)
}

func TestCacheIteratorClose(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	assert.Nil(t, db.Set([]byte("b"), []byte("B")))
	cache := db.CacheWrap()
	assert.Nil(t, cache.Delete([]byte("a")))

	it, err := cache.ReverseIterator([]byte("a"), []byte("z"))
	assert.Nil(t, err)
	assert.Equal(t, true, it.Valid())
	assert.Equal(t, []byte("b"), it.Key())
	assert.Nil(t, it.Next())
	// "a" is deleted in the cache
	assert.Equal(t, false, it.Valid())
	it.Close()

	// closed iterator does not block writes
	assert.Nil(t, db.Delete([]byte("a")))
}
