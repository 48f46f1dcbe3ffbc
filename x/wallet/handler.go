package wallet

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x"
)

const (
	createWalletCost int64 = 100
	updateWalletCost int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r heirloom.Registry, auth x.Authenticator) {
	bucket := NewBucket()
	r.Handle(&CreateWalletMsg{}, CreateWalletHandler{auth: auth, bucket: bucket})
	r.Handle(&SwapControllerMsg{}, SwapControllerHandler{auth: auth, bucket: bucket})
	r.Handle(&SetPluginMsg{}, SetPluginHandler{auth: auth, bucket: bucket})
	r.Handle(&SetGuardMsg{}, SetGuardHandler{auth: auth, bucket: bucket})
}

// CreateWalletHandler creates a new wallet.
type CreateWalletHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ heirloom.Handler = CreateWalletHandler{}

func (h CreateWalletHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: createWalletCost}, nil
}

func (h CreateWalletHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	w := &Wallet{
		Metadata:    msg.Metadata,
		Controllers: msg.Controllers,
		Plugins:     msg.Plugins,
		Guard:       msg.Guard,
	}
	id, err := h.bucket.Put(db, nil, w)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}
	ev := heirloom.NewEvent("wallet_created").
		With("wallet", id).
		With("controllers", len(w.Controllers)).
		With("guard", w.Guard)
	return &heirloom.DeliverResult{Data: id, Events: []heirloom.Event{ev}}, nil
}

func (h CreateWalletHandler) validate(ctx heirloom.Context, tx heirloom.Tx) (*CreateWalletMsg, error) {
	var msg CreateWalletMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, ok := x.AnySigner(ctx, h.auth, msg.Controllers); !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "wallet must be created by one of its controllers")
	}
	return &msg, nil
}

// SwapControllerHandler replaces a controller of a wallet.
type SwapControllerHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ heirloom.Handler = SwapControllerHandler{}

func (h SwapControllerHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: updateWalletCost}, nil
}

func (h SwapControllerHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w.Controllers[indexOf(w.Controllers, msg.Old)] = msg.New
	if _, err := h.bucket.Put(db, msg.WalletID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}
	ev := heirloom.NewEvent("wallet_controller_swapped").
		With("wallet", msg.WalletID).
		With("old", msg.Old).
		With("new", msg.New)
	return &heirloom.DeliverResult{Events: []heirloom.Event{ev}}, nil
}

func (h SwapControllerHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*SwapControllerMsg, *Wallet, error) {
	var msg SwapControllerMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadAuthorized(ctx, db, h.auth, h.bucket, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	if !w.HasController(msg.Old) {
		return nil, nil, errors.Wrapf(ErrUnknownController, "%s", msg.Old)
	}
	if w.HasController(msg.New) {
		return nil, nil, errors.Wrapf(ErrDuplicateController, "%s", msg.New)
	}
	return &msg, w, nil
}

// SetPluginHandler enables or disables a plug-in.
type SetPluginHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ heirloom.Handler = SetPluginHandler{}

func (h SetPluginHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: updateWalletCost}, nil
}

func (h SetPluginHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	switch idx := indexOf(w.Plugins, msg.Plugin); {
	case msg.Enabled && idx < 0:
		w.Plugins = append(w.Plugins, msg.Plugin)
	case !msg.Enabled && idx >= 0:
		w.Plugins = append(w.Plugins[:idx], w.Plugins[idx+1:]...)
	default:
		// Nothing changes.
		return &heirloom.DeliverResult{}, nil
	}
	if _, err := h.bucket.Put(db, msg.WalletID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}
	ev := heirloom.NewEvent("wallet_plugin_set").
		With("wallet", msg.WalletID).
		With("plugin", msg.Plugin).
		With("enabled", msg.Enabled)
	return &heirloom.DeliverResult{Events: []heirloom.Event{ev}}, nil
}

func (h SetPluginHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*SetPluginMsg, *Wallet, error) {
	var msg SetPluginMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadAuthorized(ctx, db, h.auth, h.bucket, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, w, nil
}

// SetGuardHandler enables or disables consulting the guard.
type SetGuardHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ heirloom.Handler = SetGuardHandler{}

func (h SetGuardHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{GasAllocated: updateWalletCost}, nil
}

func (h SetGuardHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if w.Guard == msg.Enabled {
		return &heirloom.DeliverResult{}, nil
	}
	w.Guard = msg.Enabled
	if _, err := h.bucket.Put(db, msg.WalletID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}
	ev := heirloom.NewEvent("wallet_guard_set").
		With("wallet", msg.WalletID).
		With("enabled", msg.Enabled)
	return &heirloom.DeliverResult{Events: []heirloom.Event{ev}}, nil
}

func (h SetGuardHandler) validate(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*SetGuardMsg, *Wallet, error) {
	var msg SetGuardMsg
	if err := heirloom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := loadAuthorized(ctx, db, h.auth, h.bucket, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, w, nil
}

// loadAuthorized returns the wallet if the context carries its authority.
func loadAuthorized(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, auth x.Authenticator, b Bucket, walletID []byte) (*Wallet, error) {
	if !auth.HasAddress(ctx, Condition(walletID).Address()) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "wallet %X authority required", walletID)
	}
	return b.Load(db, walletID)
}
