package x

import (
	"github.com/iov-one/heirloom"
)

// Authenticator reveals who authorized the current call. Extensions receive
// one in their constructors, so the source of authority (signatures, wallet
// authority, plug-in authority) is decided when the application is wired.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled in the context.
	GetConditions(heirloom.Context) []heirloom.Condition
	// HasAddress returns true if any fulfilled condition has this address.
	HasAddress(heirloom.Context, heirloom.Address) bool
}

// MultiAuth is an Authenticator that combines several others.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an Authenticator that accepts what any of impls accepts.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns the conditions of all authenticators, in order and
// without duplicates.
func (m MultiAuth) GetConditions(ctx heirloom.Context) []heirloom.Condition {
	var res []heirloom.Condition
	for _, impl := range m {
	conditions:
		for _, c := range impl.GetConditions(ctx) {
			for _, seen := range res {
				if seen.Equals(c) {
					continue conditions
				}
			}
			res = append(res, c)
		}
	}
	return res
}

func (m MultiAuth) HasAddress(ctx heirloom.Context, addr heirloom.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first fulfilled condition, or nil.
func MainSigner(ctx heirloom.Context, auth Authenticator) heirloom.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

// AnySigner returns the first of candidates that is authenticated in the
// context. It is used to learn which controller of a wallet authorized the
// call.
func AnySigner(ctx heirloom.Context, auth Authenticator, candidates []heirloom.Address) (heirloom.Address, bool) {
	for _, c := range candidates {
		if auth.HasAddress(ctx, c) {
			return c, true
		}
	}
	return nil, false
}
