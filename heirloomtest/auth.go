package heirloomtest

import (
	"context"
	"fmt"

	"github.com/iov-one/heirloom"
)

// Auth is an x.Authenticator that always reports a fixed set of conditions,
// regardless of the context. Signer and Signers are combined.
type Auth struct {
	Signer  heirloom.Condition
	Signers []heirloom.Condition
}

func (a *Auth) GetConditions(heirloom.Context) []heirloom.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]heirloom.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) HasAddress(ctx heirloom.Context, addr heirloom.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator that reads conditions from the context.
// Use SetConditions to build a context for the call being tested. Two
// instances with a different Key do not see each other's conditions.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context that authenticates given conditions.
func (a *CtxAuth) SetConditions(ctx heirloom.Context, conds ...heirloom.Condition) heirloom.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx heirloom.Context) []heirloom.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []heirloom.Condition:
		return v
	default:
		panic(fmt.Sprintf("conditions stored as %T", v))
	}
}

func (a *CtxAuth) HasAddress(ctx heirloom.Context, addr heirloom.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []heirloom.Condition, addr heirloom.Address) bool {
	for _, c := range conds {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
