package utils

import (
	"time"

	"github.com/iov-one/heirloom"
)

// Logging writes one log entry per transaction with its message path, the
// time it took and the result. Failures are logged at error level,
// deliveries at info and checks at debug.
type Logging struct{}

var _ heirloom.Decorator = Logging{}

// NewLogging returns a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Checker) (*heirloom.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	entry := txLog{tx: tx, took: time.Since(start), err: err}
	if err == nil {
		entry.msg = res.Log
	}
	entry.write(ctx, false)
	return res, err
}

func (Logging) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Deliverer) (*heirloom.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	entry := txLog{tx: tx, took: time.Since(start), err: err}
	if err == nil {
		entry.msg = res.Log
		entry.events = len(res.Events)
	}
	entry.write(ctx, true)
	return res, err
}

type txLog struct {
	tx     heirloom.Tx
	took   time.Duration
	msg    string
	events int
	err    error
}

func (l txLog) write(ctx heirloom.Context, deliver bool) {
	logger := heirloom.GetLogger(ctx).With("took_us", int64(l.took/time.Microsecond))
	if l.tx != nil {
		logger = logger.With("path", heirloom.GetPath(l.tx))
	}
	switch {
	case l.err != nil:
		logger.Error(l.msg, "err", l.err)
	case deliver:
		logger.Info(l.msg, "events", l.events)
	default:
		logger.Debug(l.msg)
	}
}
