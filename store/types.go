package store

import "github.com/iov-one/dealchain"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = dealchain.ReadOnlyKVStore
	SetDeleter       = dealchain.SetDeleter
	KVStore          = dealchain.KVStore
	Batch            = dealchain.Batch
	Iterator         = dealchain.Iterator
	CacheableKVStore = dealchain.CacheableKVStore
	KVCacheWrap      = dealchain.KVCacheWrap
	CommitKVStore    = dealchain.CommitKVStore
	CommitID         = dealchain.CommitID
	Model            = dealchain.Model
)

// Pair constructs a model from a key-value pair
var Pair = dealchain.Pair
