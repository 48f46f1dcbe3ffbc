package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned whenever an event is invalid and cannot be
	// handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned whenever a message is invalid and cannot
	// be used (ie. persisted).
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has the same
	// unique key/index used
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrImmutable is returned when something that is considered immutable
	// gets modified
	ErrImmutable = Register(8, "cannot be modified")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an object is in invalid state
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected
	ErrType = Register(11, "invalid type")

	// ErrMetadata is returned when a metadata header is missing or invalid
	ErrMetadata = Register(12, "invalid metadata")

	// ErrInput stands for general input problems indication
	ErrInput = Register(14, "invalid input")

	// ErrExpired stands for expired entities, normally has to do with block height expirations
	ErrExpired = Register(15, "expired")

	// ErrOverflow s returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the underlying store fails.
	ErrDatabase = Register(17, "database")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error with a code unique in the whole
// application. Extensions register their errors in package variables, so a
// duplicated code panics at startup.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		var taken string
		if prev != nil {
			taken = prev.desc
		}
		panic(fmt.Sprintf("error code %d is already taken by %q", code, taken))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// usedCodes maps every registered code to its error. Code 1 is reserved for
// errors that were not registered.
var usedCodes = map[uint32]*Error{
	internalABCICode: nil,
}

// Error is a root error kind. Errors returned at runtime wrap one of the
// registered kinds, so that the caller can test them with Is and the client
// receives a stable ABCI code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code this error was registered with.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns an error of this kind with given description. It is the same
// as Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is returns true if err is of this kind, directly or through any number
// of wrapping layers. A nil kind matches only a nil error.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return errIsNil(err)
	}
	return walk(err, func(e error) bool { return e == kind })
}

// Wrap returns err extended with a description. The ABCI code of err is
// preserved. A stack trace is recorded by the innermost Wrap call. A nil err
// gives nil, so a function can end with "return errors.Wrap(err, ...)".
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace of the innermost error for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.msg, e.parent)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover turns a panic into an ErrPanic assigned to err. It must be called
// with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found in the cause chain of
// err, or nil.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	walk(err, func(e error) bool {
		if t, ok := e.(stackTracer); ok {
			st = t.StackTrace()
			return true
		}
		return false
	})
	return st
}

// walk calls fn for err and every error it wraps, until fn returns true.
// It reports whether fn returned true.
func walk(err error, fn func(error) bool) bool {
	for err != nil {
		if fn(err) {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
