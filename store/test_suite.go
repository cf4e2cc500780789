package store

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/weavetest/assert"
)

// TestSuite provides KVStore behaviour checks that can be called from
// package-specific test code. Only the store constructor is customized, the
// rest of the logic is generic to the CacheableKVStore interface.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet does basic sanity checks of reads, writes and cache layering.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("deposit"), []byte("2100")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// Writing more data is only visible in the cache.
	k2, v2 := []byte("collateral"), []byte("1000")
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// A discarded cache leaves no trace.
	k3, v3 := []byte("share"), []byte("40")
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Set(k3, v3))
	assert.Nil(t, c2.Delete(k))
	c2.Discard()
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k3, nil, false)

	c3 := base.CacheWrap()
	assert.Nil(t, c3.Delete(k))
	assert.Nil(t, c3.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that we can handle overwriting values and deleting
// underlying values.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := seqKeys("k", 4)
	vs := seqKeys("v", 12)

	parent, cleanup := s.makeBase()
	defer cleanup()

	assert.Nil(t, parent.Set(ks[1], vs[1]))
	assert.Nil(t, parent.Set(ks[2], vs[2]))

	child := parent.CacheWrap()
	assert.Nil(t, child.Set(ks[1], vs[11]))
	assert.Nil(t, child.Set(ks[3], vs[7]))
	assert.Nil(t, child.Delete(ks[2]))

	s.AssertGetHas(t, parent, ks[1], vs[1], true)
	s.AssertGetHas(t, parent, ks[2], vs[2], true)
	s.AssertGetHas(t, parent, ks[3], nil, false)

	want := []Model{Pair(ks[1], vs[11]), Pair(ks[2], nil), Pair(ks[3], vs[7])}
	for _, q := range want {
		s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
	}

	assert.Nil(t, child.Write())
	for _, q := range want {
		s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
	}
}

// Iterate checks that iterators combine the parent content with the changes
// of a cache layer, in both directions and with all kinds of range limits.
func (s *TestSuite) Iterate(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	keys := seqKeys("key", 10)
	for i := 0; i < 6; i++ {
		assert.Nil(t, base.Set(keys[i], []byte("parent")))
	}

	child := base.CacheWrap()
	assert.Nil(t, child.Delete(keys[1]))
	assert.Nil(t, child.Set(keys[2], []byte("child")))
	for i := 6; i < 10; i++ {
		assert.Nil(t, child.Set(keys[i], []byte("child")))
	}

	all := []Model{
		Pair(keys[0], []byte("parent")),
		Pair(keys[2], []byte("child")),
		Pair(keys[3], []byte("parent")),
		Pair(keys[4], []byte("parent")),
		Pair(keys[5], []byte("parent")),
		Pair(keys[6], []byte("child")),
		Pair(keys[7], []byte("child")),
		Pair(keys[8], []byte("child")),
		Pair(keys[9], []byte("child")),
	}

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"everything":            {want: all},
		"from start":            {start: keys[3], want: all[2:]},
		"until end":             {end: keys[6], want: all[:5]},
		"range":                 {start: keys[1], end: keys[8], want: all[1:7]},
		"reverse everything":    {reverse: true, want: reversed(all)},
		"reverse range":         {start: keys[2], end: keys[7], reverse: true, want: reversed(all[1:6])},
		"empty range":           {start: keys[1], end: keys[2], want: nil},
		"reverse until the end": {end: keys[3], reverse: true, want: reversed(all[:2])},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Release()

			var got []Model
			for {
				k, v, err := it.Next()
				if errors.ErrIteratorDone.Is(err) {
					break
				}
				assert.Nil(t, err)
				got = append(got, Pair(k, v))
			}
			if len(got) != len(tc.want) {
				t.Fatalf("want %d items, got %d", len(tc.want), len(got))
			}
			for i := range got {
				if !bytes.Equal(got[i].Key, tc.want[i].Key) || !bytes.Equal(got[i].Value, tc.want[i].Value) {
					t.Fatalf("item %d: want %s=%s, got %s=%s", i, tc.want[i].Key, tc.want[i].Value, got[i].Key, got[i].Value)
				}
			}
		})
	}
}

// AssertGetHas makes sure that Get and Has return the expected values.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("%q: want value %q, got %q", key, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	if has != exists {
		t.Fatalf("%q: want has %v, got %v", key, has, exists)
	}
}

func seqKeys(prefix string, n int) [][]byte {
	res := make([][]byte, n)
	for i := range res {
		res[i] = []byte(fmt.Sprintf("%s-%03d", prefix, i))
	}
	return res
}

func reversed(ms []Model) []Model {
	res := make([]Model, len(ms))
	for i, m := range ms {
		res[len(ms)-1-i] = m
	}
	return res
}
