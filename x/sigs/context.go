package sigs

import (
	"context"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx heirloom.Context, signers []heirloom.Condition) heirloom.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gets/sets conditions on the context
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx heirloom.Context) []heirloom.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]heirloom.Condition)
	return val
}

// HasAddress returns true if the given address signed the current Context.
func (a Authenticate) HasAddress(ctx heirloom.Context, addr heirloom.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
