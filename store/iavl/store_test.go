package iavl

import (
	"testing"

	"github.com/iov-one/tst/store"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestCommitStoreSuite(t *testing.T) {
	suite := store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		return NewMemCommitStore().CacheWrap(), func() {}
	})
	t.Run("get set", suite.GetSet)
	t.Run("cache conflicts", suite.CacheConflicts)
	t.Run("iterate", suite.Iterate)
}

func TestCommitAndReload(t *testing.T) {
	db := dbm.NewMemDB()
	s := NewCommitStoreFromDB(db)

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("free"), []byte("1000")))
	require.NoError(t, cache.Set([]byte("deposited"), []byte("1000")))
	require.NoError(t, cache.Write())

	id, err := s.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(1), id.Version)
	require.NotEmpty(t, id.Hash)

	cache = s.CacheWrap()
	require.NoError(t, cache.Delete([]byte("deposited")))
	require.NoError(t, cache.Write())
	id2, err := s.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(2), id2.Version)
	require.NotEqual(t, id.Hash, id2.Hash)

	reloaded := NewCommitStoreFromDB(db)
	require.NoError(t, reloaded.LoadLatestVersion())
	latest, err := reloaded.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, id2, latest)

	v, err := reloaded.Get([]byte("free"))
	require.NoError(t, err)
	require.Equal(t, []byte("1000"), v)
	has, err := reloaded.Has([]byte("deposited"))
	require.NoError(t, err)
	require.False(t, has)
}
