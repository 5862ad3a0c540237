package env

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineAndLookup(t *testing.T) {
	e := New()
	e.Define("x", value.NewInt(1), false)
	v, ok := e.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.(*value.Int).I)
}

func TestLookupWalksParentChain(t *testing.T) {
	outer := New()
	outer.Define("x", value.NewInt(1), false)
	inner := NewEnclosed(outer)
	v, ok := inner.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.(*value.Int).I)
}

func TestShadowing(t *testing.T) {
	outer := New()
	outer.Define("x", value.NewInt(1), false)
	inner := NewEnclosed(outer)
	inner.Define("x", value.NewInt(2), false)

	v, _ := inner.Lookup("x")
	assert.Equal(t, int64(2), v.(*value.Int).I)
	v, _ = outer.Lookup("x")
	assert.Equal(t, int64(1), v.(*value.Int).I)
}

func TestAssignMutatesNearestEnclosingBinding(t *testing.T) {
	outer := New()
	outer.Define("x", value.NewInt(1), false)
	inner := NewEnclosed(outer)

	err := inner.Assign("x", value.NewInt(99))
	require.NoError(t, err)

	v, _ := outer.Lookup("x")
	assert.Equal(t, int64(99), v.(*value.Int).I)
}

func TestAssignUnboundFails(t *testing.T) {
	e := New()
	err := e.Assign("missing", value.NewInt(1))
	var unbound *ErrUnbound
	assert.ErrorAs(t, err, &unbound)
}

func TestAssignConstViolation(t *testing.T) {
	e := New()
	e.Define("x", value.NewInt(1), true)
	err := e.Assign("x", value.NewInt(2))
	var violation *ErrConstViolation
	assert.ErrorAs(t, err, &violation)
}

func TestBreakCyclesClearsSelfReferencingClosure(t *testing.T) {
	// let f = fn() { f() }; f  — evaluated but f never called.
	scope := New()
	fn := &value.Function{Name: "f"}
	fn.Closure = scope
	scope.Define("f", fn, false)

	BreakCycles(scope)

	assert.Nil(t, fn.Closure)
}

func TestBreakCyclesLeavesUnrelatedClosureAlone(t *testing.T) {
	scope := New()
	other := New()
	fn := &value.Function{Name: "g"}
	fn.Closure = other
	scope.Define("g", fn, false)

	BreakCycles(scope)

	assert.Equal(t, other, fn.Closure)
}
