package eval

import (
	"fmt"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// thrownError lets a Hemlock-level thrown value travel as a Go error
// through expression evaluation without losing its original identity
// (a thrown object or array must reach the catch clause unchanged, not
// re-stringified).
type thrownError struct{ Val value.Value }

func (t *thrownError) Error() string { return t.Val.String() }

func throwValue(v value.Value) error { return &thrownError{Val: v} }

// ThrowValue is throwValue exported for callers outside this package
// that need to re-raise a value that already unwound once — e.g.
// package task re-throwing a task's stored exception value from join.
func ThrowValue(v value.Value) error { return &thrownError{Val: v} }

func throwf(format string, args ...interface{}) error {
	return &thrownError{Val: value.NewString(fmt.Sprintf(format, args...))}
}

// signalFromErr converts any error surfacing from expression evaluation
// into a Throw signal, per spec §7: every error kind (TypeError,
// NameError, IndexError, ConstViolation, ModuleError, IOError,
// Cancelled) "surfaces as Throw". A *thrownError carries its original
// value through unchanged; any other error's message becomes the
// thrown string.
func signalFromErr(err error) Signal {
	if te, ok := err.(*thrownError); ok {
		return Signal{Kind: SigThrow, Value: te.Val}
	}
	return Signal{Kind: SigThrow, Value: value.NewString(err.Error())}
}
