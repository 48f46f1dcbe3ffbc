package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreSetGetDelete(t *testing.T) {
	db := MemStore()

	val, err := db.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("a")))
	has, err = db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, 0, db.Len())
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("keep"), []byte("old")))
	require.NoError(t, db.Set([]byte("drop"), []byte("old")))

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("keep"), []byte("new")))
	require.NoError(t, cache.Delete([]byte("drop")))
	require.NoError(t, cache.Set([]byte("fresh"), []byte("new")))

	// cache sees its own writes
	val, err := cache.Get([]byte("keep"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), val)
	has, err := cache.Has([]byte("drop"))
	require.NoError(t, err)
	assert.False(t, has)

	// parent is untouched until write
	val, err = db.Get([]byte("keep"))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), val)

	require.NoError(t, cache.Write())

	val, err = db.Get([]byte("keep"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), val)
	has, err = db.Has([]byte("drop"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = db.Has([]byte("fresh"))
	require.NoError(t, err)
	assert.True(t, has)

	discarded := db.CacheWrap()
	require.NoError(t, discarded.Set([]byte("keep"), []byte("ignored")))
	discarded.Discard()
	val, err = db.Get([]byte("keep"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), val)
}

func TestNestedCacheWrap(t *testing.T) {
	db := MemStore()
	outer := db.CacheWrap()
	require.NoError(t, outer.Set([]byte("k"), []byte("outer")))

	inner := outer.CacheWrap()
	val, err := inner.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("outer"), val)

	require.NoError(t, inner.Set([]byte("k"), []byte("inner")))
	require.NoError(t, inner.Write())

	val, err = db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, outer.Write())
	val, err = db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("inner"), val)
}
