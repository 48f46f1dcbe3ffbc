package heirloomtest

import "github.com/iov-one/heirloom"

// Decorator is a counting heirloom.Decorator. A set CheckErr or DeliverErr is
// returned without calling the next handler. Every call is counted, failed
// ones included.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	calls counter
}

var _ heirloom.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Checker) (*heirloom.CheckResult, error) {
	d.calls.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Deliverer) (*heirloom.DeliverResult, error) {
	d.calls.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.calls.check }
func (d *Decorator) DeliverCallCount() int { return d.calls.deliver }
func (d *Decorator) CallCount() int        { return d.calls.total() }

type counter struct {
	check   int
	deliver int
}

func (c counter) total() int {
	return c.check + c.deliver
}

// Decorate returns a handler that passes every call through d before
// reaching h.
func Decorate(h heirloom.Handler, d heirloom.Decorator) heirloom.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   heirloom.Handler
	decorator heirloom.Decorator
}

func (d decorated) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
