package wallet

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x"
)

// Decorator authenticates controller initiated operations and grants wallet
// authority to the wrapped handler.
type Decorator struct {
	auth   x.Authenticator
	bucket Bucket
	guard  Guard
}

var _ heirloom.Decorator = Decorator{}

// NewDecorator returns a wallet decorator. Guard may be nil, in which case
// the guard flag of wallets is ignored.
func NewDecorator(auth x.Authenticator, guard Guard) Decorator {
	return Decorator{
		auth:   auth,
		bucket: NewBucket(),
		guard:  guard,
	}
}

// Check runs the guarded operation in check mode.
func (d Decorator) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Checker) (*heirloom.CheckResult, error) {
	call, w, err := d.prepare(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return next.Check(ctx, db, tx)
	}
	if err := d.hook(ctx, db, w, call, GuardCheckOperation); err != nil {
		return nil, err
	}
	res, err := next.Check(withWallet(ctx, call.WalletID), db, tx)
	if err != nil {
		return nil, err
	}
	if err := d.hook(ctx, db, w, call, GuardCheckAfterExecution); err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver runs the guarded operation.
func (d Decorator) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Deliverer) (*heirloom.DeliverResult, error) {
	call, w, err := d.prepare(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return next.Deliver(ctx, db, tx)
	}
	if err := d.hook(ctx, db, w, call, GuardCheckOperation); err != nil {
		return nil, err
	}
	res, err := next.Deliver(withWallet(ctx, call.WalletID), db, tx)
	if err != nil {
		return nil, err
	}
	if err := d.hook(ctx, db, w, call, GuardCheckAfterExecution); err != nil {
		return nil, err
	}
	return res, nil
}

// prepare returns a nil wallet if the transaction is not a wallet
// operation.
func (d Decorator) prepare(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (GuardCall, *Wallet, error) {
	wtx, ok := tx.(WalletTx)
	if !ok {
		return GuardCall{}, nil, nil
	}
	walletID := wtx.GetWalletID()
	if len(walletID) == 0 {
		return GuardCall{}, nil, nil
	}
	w, err := d.bucket.Load(db, walletID)
	if err != nil {
		return GuardCall{}, nil, err
	}
	caller, ok := x.AnySigner(ctx, d.auth, w.Controllers)
	if !ok {
		return GuardCall{}, nil, errors.Wrapf(errors.ErrUnauthorized, "no controller of wallet %X signed", walletID)
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return GuardCall{}, nil, errors.Wrap(err, "cannot get transaction message")
	}
	call := GuardCall{WalletID: walletID, Caller: caller, Msg: msg}
	return call, w, nil
}

func (d Decorator) hook(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, w *Wallet, call GuardCall, kind string) error {
	if d.guard == nil || !w.Guard {
		return nil
	}
	call.Kind = kind
	if err := d.guard.Hook(ctx, db, call); err != nil {
		return errors.Wrapf(err, "guard %s", kind)
	}
	return nil
}
