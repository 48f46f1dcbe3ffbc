package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the code of a successful ABCI response.
	SuccessABCICode = 0

	// Errors that were not registered are reported with this code and,
	// outside of debug mode, with a generic log.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log of an ABCI response for given
// error. A nil error is a success. Only registered errors expose their
// message, unless debug is set, in which case the full error including the
// stack trace is returned.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from an ABCI response, as seen by a client.
// The result is of the registered kind for the code, so Is can be used.
func ABCIError(code uint32, log string) error {
	if kind, ok := usedCodes[code]; ok && kind != nil {
		return Wrap(kind, log)
	}
	return Wrapf(ErrHuman, "unknown code %d: %s", code, log)
}

// Redact hides the details of every error that is not registered, or that
// was created from a recovered panic. In debug mode the error is returned
// unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that
// declares one.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	code := internalABCICode
	walk(err, func(e error) bool {
		if c, ok := e.(coder); ok {
			code = c.ABCICode()
			return true
		}
		return false
	})
	return code
}

// errIsNil handles typed nil pointers stored in an error interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
