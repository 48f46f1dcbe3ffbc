package wallet

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// Controller is the interface other extensions use to interact with
// wallets.
type Controller interface {
	// Controllers returns the current controllers of a wallet.
	Controllers(db heirloom.ReadOnlyKVStore, walletID []byte) ([]heirloom.Address, error)
	// IsController returns true if given address is a controller of the
	// wallet.
	IsController(db heirloom.ReadOnlyKVStore, walletID []byte, a heirloom.Address) (bool, error)
	// ExecuteAsPlugin executes given message with wallet authority. The
	// plug-in condition must be enabled on the wallet. The message does
	// not pass through the Decorator, so the guard is not consulted.
	ExecuteAsPlugin(ctx heirloom.Context, db heirloom.KVStore, walletID []byte, plugin heirloom.Condition, msg heirloom.Msg) (*heirloom.DeliverResult, error)
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
	exec   heirloom.Executor
}

var _ Controller = (*BaseController)(nil)

// NewController returns a controller that executes plug-in messages using
// given executor. Usually this is the application router.
func NewController(exec heirloom.Executor) *BaseController {
	return &BaseController{
		bucket: NewBucket(),
		exec:   exec,
	}
}

func (c *BaseController) Controllers(db heirloom.ReadOnlyKVStore, walletID []byte) ([]heirloom.Address, error) {
	w, err := c.bucket.Load(db, walletID)
	if err != nil {
		return nil, err
	}
	return w.Controllers, nil
}

func (c *BaseController) IsController(db heirloom.ReadOnlyKVStore, walletID []byte, a heirloom.Address) (bool, error) {
	w, err := c.bucket.Load(db, walletID)
	if err != nil {
		return false, err
	}
	return w.HasController(a), nil
}

func (c *BaseController) ExecuteAsPlugin(ctx heirloom.Context, db heirloom.KVStore, walletID []byte, plugin heirloom.Condition, msg heirloom.Msg) (*heirloom.DeliverResult, error) {
	w, err := c.bucket.Load(db, walletID)
	if err != nil {
		return nil, err
	}
	if !w.HasPlugin(plugin.Address()) {
		return nil, errors.Wrapf(ErrPluginNotEnabled, "%s on wallet %X", plugin, walletID)
	}
	heirloom.GetLogger(ctx).Debug("execute as plugin",
		"wallet", walletID, "plugin", plugin.String(), "path", msg.Path())
	return c.exec(withWallet(ctx, walletID), db, msg)
}
