package utils

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// Savepoint runs the rest of the stack on a cache wrap of the store. The
// cache is written only when the call succeeds, so a failing transaction
// leaves no trace in the state.
//
// A zero Savepoint does nothing. Use OnCheck and OnDeliver to select the
// phases it isolates.
type Savepoint struct {
	check   bool
	deliver bool
}

var _ heirloom.Decorator = Savepoint{}

// NewSavepoint returns a savepoint that is not enabled for any phase.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy of the savepoint that isolates CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

// OnDeliver returns a copy of the savepoint that isolates DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Checker) (*heirloom.CheckResult, error) {
	if !s.check {
		return next.Check(ctx, db, tx)
	}
	var res *heirloom.CheckResult
	err := isolate(db, func(kv heirloom.KVStore) (err error) {
		res, err = next.Check(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Deliverer) (*heirloom.DeliverResult, error) {
	if !s.deliver {
		return next.Deliver(ctx, db, tx)
	}
	var res *heirloom.DeliverResult
	err := isolate(db, func(kv heirloom.KVStore) (err error) {
		res, err = next.Deliver(ctx, kv, tx)
		return err
	})
	if err != nil {
		if errors.ErrDatabase.Is(err) {
			heirloom.GetLogger(ctx).Error("savepoint not written", "err", err)
		}
		return nil, err
	}
	return res, nil
}

// isolate calls fn with a cache wrap of db. Stores that cannot be wrapped are
// passed through unchanged.
func isolate(db heirloom.KVStore, fn func(heirloom.KVStore) error) error {
	cacheable, ok := db.(heirloom.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
