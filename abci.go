package heirloom

import (
	"github.com/iov-one/heirloom/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DeliverResult is returned by a successful Deliver call. Failures are
// always reported with an error instead.
type DeliverResult struct {
	// Data is a machine readable value, for example the ID of a created
	// wallet.
	Data []byte
	// Log is a human readable message.
	Log string
	// Events describe every state change made by the transaction. This is
	// the audit trail of a wallet and it is indexed by tendermint as tags.
	Events []Event
	// GasUsed is reported to tendermint as is.
	GasUsed int64
}

// ToABCI returns the tendermint representation of this result.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    EventTags(d.Events),
		GasUsed: d.GasUsed,
	}
}

// CheckResult is returned by a successful Check call.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the upper bound of work the transaction may perform
	// when delivered.
	GasAllocated int64
}

// ToABCI returns the tendermint representation of this result.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverOrError returns the ABCI response of a Deliver call.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the ABCI response of a Check call.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError returns a failed DeliverTx response. Errors without an ABCI
// code are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := failure("cannot deliver tx", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError returns a failed CheckTx response. Errors without an ABCI
// code are redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := failure("cannot check tx", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func failure(prefix string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, prefix + ": " + log
}
