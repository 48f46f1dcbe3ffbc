package assert

import (
	"reflect"

	"github.com/iov-one/heirloom/errors"
)

// Tester is the part of testing.TB used by this package.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil, including typed nil pointers,
// maps, slices and channels.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or, when want is a registered
// error, got is of the kind of want.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(*errors.Error); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// ContainsErr fails the test unless err, or any of the errors combined with
// errors.Append, is of the given kind.
func ContainsErr(t Tester, err error, want *errors.Error) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %q, got no error", want)
		return
	}
	if !errors.Contains(err, want) {
		t.Fatalf("want %q to be contained, got %+v", want, err)
	}
}
