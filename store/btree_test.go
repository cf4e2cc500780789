package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeStore(t *testing.T) {
	suite := NewTestSuite(makeBase)
	t.Run("get set", suite.GetSet)
	t.Run("cache conflicts", suite.CacheConflicts)
	t.Run("iterate", suite.Iterate)
}

func TestNestedCacheWrapDiscardKeepsParent(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set([]byte("b"), []byte("2")))

	inner := outer.CacheWrap()
	require.NoError(t, inner.Set([]byte("c"), []byte("3")))
	require.NoError(t, inner.Delete([]byte("a")))
	inner.Discard()

	v, err := outer.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	has, err := outer.Has([]byte("c"))
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, outer.Write())
	v, err = base.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), v)
}

func TestNonAtomicBatchOrder(t *testing.T) {
	base := MemStore()
	b := NewNonAtomicBatch(base)
	require.NoError(t, b.Set([]byte("k"), []byte("first")))
	require.NoError(t, b.Delete([]byte("k")))
	require.NoError(t, b.Set([]byte("k"), []byte("last")))
	require.Len(t, b.ShowOps(), 3)

	require.NoError(t, b.Write())
	require.Empty(t, b.ShowOps())

	v, err := base.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("last"), v)
}
