package freeze

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x"
	"github.com/iov-one/heirloom/x/wallet"
)

const freezeCost int64 = 10

// RegisterRoutes will instantiate and register all handlers in this package.
// The handler writes to the entries of given guard.
func RegisterRoutes(r heirloom.Registry, auth x.Authenticator, g *Guard) {
	r.Handle(&FreezeMsg{}, FreezeHandler{auth: auth, guard: g})
}

// FreezeHandler stores a new unfreeze time of a wallet.
type FreezeHandler struct {
	auth  x.Authenticator
	guard *Guard
}

var _ heirloom.Handler = FreezeHandler{}

func (h FreezeHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: freezeCost}, nil
}

func (h FreezeHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	msg, prev, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	e := &Entry{
		Metadata:    &heirloom.Metadata{Schema: 1},
		WalletID:    msg.WalletID,
		FrozenUntil: msg.Until,
	}
	if _, err := h.guard.bucket.Put(db, msg.WalletID, e); err != nil {
		return nil, errors.Wrap(err, "cannot store freeze entry")
	}

	var ev heirloom.Event
	if now := heirloom.Now(ctx); prev.isFrozen(now) {
		ev = heirloom.NewEvent("freeze_period_updated").
			With("wallet", msg.WalletID).
			With("old", prev.FrozenUntil).
			With("new", msg.Until)
	} else {
		ev = heirloom.NewEvent("wallet_frozen").
			With("wallet", msg.WalletID).
			With("until", msg.Until)
	}
	heirloom.GetLogger(ctx).Debug("wallet frozen", "wallet", msg.WalletID, "until", msg.Until)
	return &heirloom.DeliverResult{Events: []heirloom.Event{ev}}, nil
}

func (h FreezeHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*FreezeMsg, *Entry, error) {
	var msg FreezeMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, wallet.Condition(msg.WalletID).Address()) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "wallet %X authority required", msg.WalletID)
	}
	if now := heirloom.Now(ctx); msg.Until <= now {
		return nil, nil, errors.Wrapf(ErrFreezeTimeInPast, "%d is not after %d", msg.Until, now)
	}
	prev, err := h.guard.entry(db, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, prev, nil
}
