package deadman

import (
	"github.com/iov-one/heirloom/errors"
)

// x/deadman reserves 210 ~ 229.
var (
	ErrNotController           = errors.Register(210, "not a controller")
	ErrNotBeneficiary          = errors.Register(211, "not the beneficiary")
	ErrNotExpired              = errors.Register(212, "heartbeat not expired")
	ErrNotReady                = errors.Register(213, "claim not ready")
	ErrInvalidParty            = errors.Register(214, "invalid party")
	ErrInvalidInterval         = errors.Register(215, "invalid heartbeat interval")
	ErrInvalidPeriod           = errors.Register(216, "invalid challenge period")
	ErrZeroAddress             = errors.Register(217, "zero address")
	ErrSameBeneficiary         = errors.Register(218, "same beneficiary")
	ErrBeneficiaryIsController = errors.Register(219, "beneficiary is a controller")
	ErrClaimInProgress         = errors.Register(220, "claim in progress")
	ErrAlreadyInitialized      = errors.Register(221, "already initialized")
	ErrExecutionFailed         = errors.Register(222, "wallet execution failed")
	ErrNoController            = errors.Register(223, "wallet has no controller")
)
