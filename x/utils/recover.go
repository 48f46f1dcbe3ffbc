package utils

import (
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// Recovery converts a panic anywhere below it in the stack into an
// ErrPanic error, so a single broken transaction cannot halt the chain.
type Recovery struct{}

var _ heirloom.Decorator = Recovery{}

// NewRecovery returns a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Checker) (res *heirloom.CheckResult, err error) {
	defer logPanic(ctx, "check", &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Deliverer) (res *heirloom.DeliverResult, err error) {
	defer logPanic(ctx, "deliver", &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// logPanic must be deferred before errors.Recover so that it observes the
// recovered error.
func logPanic(ctx heirloom.Context, phase string, err *error) {
	if errors.ErrPanic.Is(*err) {
		heirloom.GetLogger(ctx).Error("recovered from panic", "phase", phase, "err", *err)
	}
}
