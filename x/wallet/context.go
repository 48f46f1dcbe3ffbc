package wallet

import (
	"context"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/x"
)

type contextKey int

const (
	// private type creates an interface key for Context that cannot be accessed by any other package
	contextKeyWallet contextKey = iota
)

func withWallet(ctx heirloom.Context, walletID []byte) heirloom.Context {
	val, _ := ctx.Value(contextKeyWallet).([]heirloom.Condition)
	return context.WithValue(ctx, contextKeyWallet, append(val, Condition(walletID)))
}

// Authenticate gets the wallet authority conditions granted by the
// Decorator or by the Controller.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns conditions previously set on this context.
func (a Authenticate) GetConditions(ctx heirloom.Context) []heirloom.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyWallet).([]heirloom.Condition)
	return val
}

// HasAddress returns true iff this address is in GetConditions.
func (a Authenticate) HasAddress(ctx heirloom.Context, addr heirloom.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
