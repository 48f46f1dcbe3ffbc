package app

import (
	"reflect"

	"github.com/iov-one/heirloom"
)

// Decorators is an ordered stack of decorators that still needs a final
// handler. The first decorator is the outermost one.
type Decorators struct {
	chain []heirloom.Decorator
}

// ChainDecorators returns a stack of given decorators. Nil values are
// skipped, so optional decorators can be passed unconditionally.
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//     wallet.NewDecorator(auth, guard),
//     utils.NewSavepoint().OnDeliver(),
//   ).WithHandler(router)
func ChainDecorators(chain ...heirloom.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with given decorators appended. The receiver is
// not modified.
func (d Decorators) Chain(chain ...heirloom.Decorator) Decorators {
	next := make([]heirloom.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(next, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNilDecorator(d heirloom.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler that runs every decorator of the stack, in
// order, before calling h.
func (d Decorators) WithHandler(h heirloom.Handler) heirloom.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{decorator: d.chain[i], next: h}
	}
	return h
}

// step binds a decorator to the handler it wraps.
type step struct {
	decorator heirloom.Decorator
	next      heirloom.Handler
}

var _ heirloom.Handler = step{}

func (s step) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	return s.decorator.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	return s.decorator.Deliver(ctx, db, tx, s.next)
}
