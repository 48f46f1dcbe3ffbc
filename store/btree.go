package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// MemStore returns a simple in-memory store. All data lives in a btree and
// is gone once the process exits.
func MemStore() *BTreeStore {
	free := btree.NewFreeList(DefaultFreeListSize)
	return &BTreeStore{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
	}
}

// BTreeStore is the root, in-memory store. Writes are applied directly.
// Use CacheWrap to isolate a set of changes that can later be written or
// discarded together.
type BTreeStore struct {
	bt   *btree.BTree
	free *btree.FreeList
}

var _ heirloom.CacheableKVStore = (*BTreeStore)(nil)

// Get returns the value stored under given key or nil.
func (s *BTreeStore) Get(key []byte) ([]byte, error) {
	if key == nil {
		panic("nil key")
	}
	if res, ok := s.bt.Get(bkey{key}).(setItem); ok {
		return res.value, nil
	}
	return nil, nil
}

// Has returns true if a value is stored under given key.
func (s *BTreeStore) Has(key []byte) (bool, error) {
	if key == nil {
		panic("nil key")
	}
	return s.bt.Has(bkey{key}), nil
}

// Set stores the value under given key.
func (s *BTreeStore) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	s.bt.ReplaceOrInsert(newSetItem(key, value))
	return nil
}

// Delete removes the key.
func (s *BTreeStore) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	s.bt.Delete(bkey{key})
	return nil
}

// Len returns the number of stored keys.
func (s *BTreeStore) Len() int {
	return s.bt.Len()
}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back
func (s *BTreeStore) CacheWrap() heirloom.KVCacheWrap {
	return NewBTreeCacheWrap(s, s.free)
}

///////////////////////////////////////////////
// Actual CacheWrap implementation

// BTreeCacheWrap places a btree cache over a KVStore. All reads check the
// cache first, all writes are buffered until Write is called.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	free *btree.FreeList
	back heirloom.KVStore
	// ops keeps the order of the writes so that they can be replayed on
	// the backing store.
	ops *[]op
}

var _ heirloom.KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this
// kv store.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(kv heirloom.KVStore, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
		back: kv,
		ops:  &[]op{},
	}
}

// CacheWrap layers another BTree on top of this one.
func (b BTreeCacheWrap) CacheWrap() heirloom.KVCacheWrap {
	return NewBTreeCacheWrap(b, b.free)
}

// Write syncs with the underlying store.
// And then cleans up
func (b BTreeCacheWrap) Write() error {
	for _, o := range *b.ops {
		var err error
		if o.delete {
			err = b.back.Delete(o.key)
		} else {
			err = b.back.Set(o.key, o.value)
		}
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	b.Discard()
	return nil
}

// Discard invalidates this CacheWrap and releases all data
func (b BTreeCacheWrap) Discard() {
	// clean up the btree -> freelist
	for stop := false; !stop; {
		rem := b.bt.DeleteMin()
		stop = (rem == nil)
	}
	*b.ops = (*b.ops)[:0]
}

// Set writes to the BTree and records the operation.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	*b.ops = append(*b.ops, op{key: key, value: value})
	return nil
}

// Delete marks the key as deleted in the BTree and records the operation.
func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	*b.ops = append(*b.ops, op{key: key, delete: true})
	return nil
}

// Get reads from btree if there, else backing store
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch t := res.(type) {
		case setItem:
			return t.value, nil
		case deletedItem:
			return nil, nil
		default:
			return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
		}
	}
	return b.back.Get(key)
}

// Has reads from btree if there, else backing store
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch res.(type) {
		case setItem:
			return true, nil
		case deletedItem:
			return false, nil
		default:
			return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
		}
	}
	return b.back.Has(key)
}

type op struct {
	key    []byte
	value  []byte
	delete bool
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}
