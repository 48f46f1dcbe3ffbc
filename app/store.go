package app

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/store"
)

// CommitStore keeps the committed state in memory and maintains separate
// cache wraps for the deliver and check phases.
type CommitStore struct {
	committed *store.BTreeStore
	deliver   heirloom.KVCacheWrap
	check     heirloom.KVCacheWrap
	height    int64
}

// NewCommitStore returns a store on top of given committed state.
func NewCommitStore(committed *store.BTreeStore) *CommitStore {
	return &CommitStore{
		committed: committed,
		deliver:   committed.CacheWrap(),
		check:     committed.CacheWrap(),
	}
}

// Height returns the height of the last commit.
func (cs *CommitStore) Height() int64 {
	return cs.height
}

// Commit flushes the deliver cache to the committed state and discards all
// pending check state. New caches are created for the next block.
func (cs *CommitStore) Commit() (int64, error) {
	if err := cs.deliver.Write(); err != nil {
		return cs.height, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	cs.height++
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return cs.height, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() heirloom.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() heirloom.CacheableKVStore {
	return cs.deliver
}

// QueryStore returns a read only view of the committed state.
func (cs *CommitStore) QueryStore() heirloom.ReadOnlyKVStore {
	return cs.committed
}

// _hl: is a prefix for internal data
const chainIDKey = "_hl:chainID"

// loadChainID returns the chain id stored if any.
func loadChainID(kv heirloom.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv heirloom.KVStore, chainID string) error {
	if !heirloom.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
