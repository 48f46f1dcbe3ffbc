package freeze

import (
	"github.com/iov-one/heirloom/errors"
)

// x/freeze reserves 230 ~ 239.
var (
	ErrInvalidFreezeTime = errors.Register(230, "invalid freeze time")
	ErrFreezeTimeInPast  = errors.Register(231, "freeze time in the past")
	ErrWalletIsFrozen    = errors.Register(232, "wallet is frozen")
)
