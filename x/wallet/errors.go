package wallet

import (
	"github.com/iov-one/heirloom/errors"
)

// x/wallet reserves 200 ~ 209.
var (
	ErrDuplicateController = errors.Register(200, "duplicate controller")
	ErrUnknownController   = errors.Register(201, "unknown controller")
	ErrPluginNotEnabled    = errors.Register(202, "plugin not enabled")
	ErrNoControllers       = errors.Register(203, "no controllers")
)
