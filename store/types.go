package store

import "github.com/iov-one/tst"

// Move references for all storage types into this package for shorter names
// everywhere.

type ReadOnlyKVStore = tst.ReadOnlyKVStore
type SetDeleter = tst.SetDeleter
type KVStore = tst.KVStore
type Batch = tst.Batch
type Iterator = tst.Iterator
type CacheableKVStore = tst.CacheableKVStore
type KVCacheWrap = tst.KVCacheWrap
type CommitKVStore = tst.CommitKVStore
type CommitID = tst.CommitID

// Model groups together key and value to return.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
