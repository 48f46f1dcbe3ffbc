package wallet

import (
	"github.com/iov-one/heirloom"
)

const (
	// GuardCheckOperation is consulted before a controller initiated
	// operation is executed.
	GuardCheckOperation = "check_operation"
	// GuardCheckAfterExecution is consulted after a controller initiated
	// operation was executed.
	GuardCheckAfterExecution = "check_after_execution"
)

// GuardCall describes a single consultation of the guard.
type GuardCall struct {
	// Kind tells which hook is called. Guards must treat unknown kinds
	// as a successful no-op.
	Kind     string
	WalletID []byte
	// Caller is the controller that signed the operation.
	Caller heirloom.Address
	// Msg is the operation.
	Msg heirloom.Msg
}

// Guard is consulted by the Decorator around every controller initiated
// operation of a wallet that has the guard enabled.
type Guard interface {
	Hook(ctx heirloom.Context, db heirloom.ReadOnlyKVStore, call GuardCall) error
}
