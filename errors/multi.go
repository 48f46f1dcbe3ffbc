package errors

import (
	"fmt"
	"strings"
)

// Append combines all non nil errors into a single error. The result exposes
// the ABCI code and the cause of the first error, consistent with a fail-fast
// approach.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

type multiErr []error

func (m multiErr) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

// Cause returns the first error so that Is can test the root cause.
func (m multiErr) Cause() error {
	return m[0]
}

// Contains returns true if any of the combined errors is of the given kind.
// Wrapped combined errors are unwrapped first.
func Contains(err error, kind *Error) bool {
	for e := err; e != nil; {
		if m, ok := e.(multiErr); ok {
			for _, e := range m {
				if kind.Is(e) {
					return true
				}
			}
			return false
		}
		c, ok := e.(causer)
		if !ok {
			break
		}
		e = c.Cause()
	}
	return kind.Is(err)
}
