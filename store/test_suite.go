package store

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"sort"
	"testing"

	"github.com/iov-one/dealchain/chaintest/assert"
)

// TestSuite runs the same ledger shaped scenarios against any
// CacheableKVStore implementation, so the btree cache and the iavl adapter
// are held to identical behavior.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh, empty store and a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// Bucket prefixes as written by the orm. Accounts and nonces share the
// store, iteration over one must never reach into the other.
var (
	acctPrefix  = []byte("acct:")
	noncePrefix = []byte("sigs:")
)

// accountKey is the storage key of the account at a 32 byte address.
func accountKey(addr []byte) []byte {
	return append(append([]byte{}, acctPrefix...), addr...)
}

// accountValue serializes an account as balance(u64 LE) owner data.
func accountValue(balance uint64, owner []byte, dataLen int) []byte {
	out := make([]byte, 8+len(owner)+dataLen)
	binary.LittleEndian.PutUint64(out, balance)
	copy(out[8:], owner)
	return out
}

// LedgerWrites follows the store writes of a deal: a funded initializer, an
// Init that fails and is discarded, an Init that succeeds and an Exchange
// that reaps the deal accounts.
func (s *TestSuite) LedgerWrites(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	system, program := randBytes(32), randBytes(32)
	initializer := accountKey(randBytes(32))
	storage := accountKey(randBytes(32))
	vault := accountKey(randBytes(32))

	funded := accountValue(1000000, system, 0)
	s.AssertGetHas(t, base, initializer, nil, false)
	assert.Nil(t, base.Set(initializer, funded))
	s.AssertGetHas(t, base, initializer, funded, true)

	// a failed Init is discarded as a whole
	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(initializer, accountValue(990000, system, 0)))
	assert.Nil(t, failed.Set(storage, accountValue(9000, program, 114)))
	s.AssertGetHas(t, failed, storage, accountValue(9000, program, 114), true)
	s.AssertGetHas(t, base, storage, nil, false)
	failed.Discard()
	s.AssertGetHas(t, base, initializer, funded, true)
	s.AssertGetHas(t, base, storage, nil, false)

	// a successful Init becomes visible on write
	opened := base.CacheWrap()
	assert.Nil(t, opened.Set(initializer, accountValue(990000, system, 0)))
	assert.Nil(t, opened.Set(storage, accountValue(9000, program, 114)))
	assert.Nil(t, opened.Set(vault, accountValue(1000, program, 73)))
	s.AssertGetHas(t, base, vault, nil, false)
	assert.Nil(t, opened.Write())
	s.AssertGetHas(t, base, storage, accountValue(9000, program, 114), true)
	s.AssertGetHas(t, base, vault, accountValue(1000, program, 73), true)

	// Exchange reaps both deal accounts and refunds the initializer
	closed := base.CacheWrap()
	assert.Nil(t, closed.Delete(vault))
	assert.Nil(t, closed.Delete(storage))
	assert.Nil(t, closed.Set(initializer, funded))
	s.AssertGetHas(t, closed, storage, nil, false)
	s.AssertGetHas(t, base, storage, accountValue(9000, program, 114), true)
	assert.Nil(t, closed.Write())

	s.AssertGetHas(t, base, initializer, funded, true)
	s.AssertGetHas(t, base, storage, nil, false)
	s.AssertGetHas(t, base, vault, nil, false)
}

// BalanceConflicts checks a cache layered over accounts that it updates,
// reaps and creates.
func (s *TestSuite) BalanceConflicts(t *testing.T) {
	owner := randBytes(32)
	a, b, c := accountKey(randBytes(32)), accountKey(randBytes(32)), accountKey(randBytes(32))

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model
	}{
		"debit one, reap another, create a third": {
			parentOps: []Op{
				SetOp(a, accountValue(50, owner, 0)),
				SetOp(b, accountValue(7, owner, 0)),
			},
			childOps: []Op{
				SetOp(a, accountValue(43, owner, 0)),
				DelOp(b),
				SetOp(c, accountValue(7, owner, 0)),
			},
			parentQueries: []Model{
				Pair(a, accountValue(50, owner, 0)),
				Pair(b, accountValue(7, owner, 0)),
				Pair(c, nil),
			},
			childQueries: []Model{
				Pair(a, accountValue(43, owner, 0)),
				Pair(b, nil),
				Pair(c, accountValue(7, owner, 0)),
			},
		},
		"reaped account created again": {
			parentOps: []Op{SetOp(a, accountValue(1, owner, 0))},
			childOps: []Op{
				DelOp(a),
				SetOp(a, accountValue(9, owner, 16)),
			},
			parentQueries: []Model{Pair(a, accountValue(1, owner, 0))},
			childQueries:  []Model{Pair(a, accountValue(9, owner, 16))},
		},
		"reap of a never existing account": {
			childOps:      []Op{DelOp(c)},
			parentQueries: []Model{Pair(c, nil)},
			childQueries:  []Model{Pair(c, nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// BucketIterator fills the account and nonce buckets with random entries,
// reaps some accounts in a cache and iterates the account bucket in both
// directions.
func (s *TestSuite) BucketIterator(t *testing.T) {
	const size = 40

	accounts := randAccounts(size)
	reaped := randAccounts(10)
	nonces := randNonces(size)
	expect := sortModels(accounts)

	parentAccounts := randAccounts(size)
	both := sortModels(append(accounts, parentAccounts...))

	childOps := append(makeSetOps(accounts...), makeDelOps(reaped...)...)
	childOps = append(childOps, makeSetOps(nonces...)...)
	parentOps := append(makeSetOps(parentAccounts...), makeSetOps(reaped...)...)
	parentOps = append(parentOps, makeSetOps(randNonces(size)...)...)

	start, end := acctPrefix, []byte("acct;")

	cases := map[string]iterCase{
		"accounts written to a child over an empty parent": {
			child: childOps,
			queries: []rangeQuery{
				{start, end, false, expect},
				{expect[10].Key, end, false, expect[10:]},
				{start, expect[size-8].Key, false, expect[:size-8]},
				{expect[17].Key, expect[28].Key, false, expect[17:28]},

				{start, end, true, reverse(expect)},
				{expect[34].Key, end, true, reverse(expect[34:])},
				{start, expect[19].Key, true, reverse(expect[:19])},
				{expect[6].Key, expect[26].Key, true, reverse(expect[6:26])},
			},
		},
		"child accounts merged with parent accounts, reaped skipped": {
			pre:   parentOps,
			child: childOps,
			queries: []rangeQuery{
				{start, end, false, both},
				{both[10].Key, end, false, both[10:]},
				{start, both[size-8].Key, false, both[:size-8]},
				{both[17].Key, both[68].Key, false, both[17:68]},

				{start, end, true, reverse(both)},
				{both[34].Key, end, true, reverse(both[34:])},
				{start, both[19].Key, true, reverse(both[:19])},
				{both[6].Key, both[56].Key, true, reverse(both[6:56])},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// ReapedAccounts covers iteration over accounts whose balance changed or
// that were removed in the cache layer.
func (s *TestSuite) ReapedAccounts(t *testing.T) {
	ms := randAccounts(6)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	// a2 and b2 are new balances of a and b
	a2.Key = a.Key
	b2.Key = b.Key

	expect0 := sortModels([]Model{a, b, c})
	expect1 := sortModels([]Model{a2, b2, c, d})
	expect2 := []Model{c}

	cases := map[string]iterCase{
		"accounts in child only": {
			child: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reverse(expect0)},
			},
		},
		"accounts in parent only": {
			pre: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reverse(expect0)},
			},
		},
		"accounts split between layers": {
			pre:   makeSetOps(a, b),
			child: makeSetOps(c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reverse(expect0)},
			},
		},
		"updated balances shadow the parent": {
			pre:   makeSetOps(a, b, c),
			child: makeSetOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, false, expect1},
				{expect1[1].Key, expect1[3].Key, false, expect1[1:3]},
				{nil, nil, true, reverse(expect1)},
			},
		},
		"reaped accounts are skipped": {
			pre:   makeSetOps(a, c, d),
			child: makeDelOps(a, b, d),
			queries: []rangeQuery{
				{nil, nil, false, expect2},
				// the end is exclusive
				{nil, c.Key, false, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// AssertGetHas checks both Get and Has of a key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

//nolint
func randBytes(length int) []byte {
	res := make([]byte, length)
	rand.Read(res)
	return res
}

// randAccounts returns count system accounts at random addresses.
func randAccounts(count int) []Model {
	owner := randBytes(32)
	models := make([]Model, count)
	for i := range models {
		var raw [8]byte
		rand.Read(raw[:])
		models[i] = Pair(accountKey(randBytes(32)), accountValue(binary.LittleEndian.Uint64(raw[:]), owner, i%3*8))
	}
	return models
}

// randNonces returns count nonce entries of the signature bucket.
func randNonces(count int) []Model {
	models := make([]Model, count)
	for i := range models {
		key := append(append([]byte{}, noncePrefix...), randBytes(32)...)
		models[i] = Pair(key, []byte{0x08, byte(i + 1)})
	}
	return models
}

type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}
	child := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range i.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		for n, want := range q.expected {
			if !iter.Valid() {
				t.Fatalf("iterator exhausted after %d of %d", n, len(q.expected))
			}
			if !bytes.Equal(want.Key, iter.Key()) {
				t.Fatalf("want key %X at %d, got %X", want.Key, n, iter.Key())
			}
			assert.Equal(t, want.Value, iter.Value())
			assert.Nil(t, iter.Next())
		}
		if iter.Valid() {
			t.Fatalf("iterator not done, got key %X", iter.Key())
		}
		iter.Close()
	}
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
