package freeze

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/orm"
	"github.com/iov-one/heirloom/x/wallet"
)

// Guard owns the freeze entries of all wallets. A single instance is shared
// by every wallet of the application.
type Guard struct {
	bucket orm.ModelBucket
}

var _ wallet.Guard = (*Guard)(nil)

// NewGuard returns a guard using the freeze bucket.
func NewGuard() *Guard {
	return &Guard{bucket: newBucket()}
}

// entry returns nil if the wallet was never frozen.
func (g *Guard) entry(db heirloom.ReadOnlyKVStore, walletID []byte) (*Entry, error) {
	var e Entry
	switch err := g.bucket.One(db, walletID, &e); {
	case err == nil:
		return &e, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrapf(err, "freeze entry of wallet %X", walletID)
	}
}

// IsFrozen returns true if the block time is before the unfreeze time of the
// wallet.
func (g *Guard) IsFrozen(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, walletID []byte) (bool, error) {
	e, err := g.entry(db, walletID)
	if err != nil {
		return false, err
	}
	return e.isFrozen(heirloom.Now(ctx)), nil
}

// RemainingFreezeTime returns how long the wallet stays frozen, or zero if
// it is not frozen.
func (g *Guard) RemainingFreezeTime(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, walletID []byte) (heirloom.UnixDuration, error) {
	e, err := g.entry(db, walletID)
	if err != nil {
		return 0, err
	}
	return remaining(e, heirloom.Now(ctx)), nil
}

func remaining(e *Entry, now heirloom.UnixTime) heirloom.UnixDuration {
	if !e.isFrozen(now) {
		return 0
	}
	return e.FrozenUntil.Sub(now)
}

// UnfreezeTime returns the stored unfreeze time. The returned flag is false
// if the wallet was never frozen.
func (g *Guard) UnfreezeTime(db heirloom.ReadOnlyKVStore, walletID []byte) (heirloom.UnixTime, bool, error) {
	e, err := g.entry(db, walletID)
	if err != nil || e == nil {
		return 0, false, err
	}
	return e.FrozenUntil, true, nil
}

// Hook rejects controller initiated operations of a frozen wallet. Any other
// kind of call succeeds without side effects.
func (g *Guard) Hook(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, call wallet.GuardCall) error {
	switch call.Kind {
	case wallet.GuardCheckOperation:
		e, err := g.entry(db, call.WalletID)
		if err != nil {
			return err
		}
		if now := heirloom.Now(ctx); e.isFrozen(now) {
			return errors.Wrapf(ErrWalletIsFrozen, "wallet %X at %d, frozen until %d",
				call.WalletID, now, e.FrozenUntil)
		}
		return nil
	case wallet.GuardCheckAfterExecution:
		return nil
	default:
		heirloom.GetLogger(ctx).Debug("unknown guard call ignored", "kind", call.Kind)
		return nil
	}
}
