package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntNarrowestWidth(t *testing.T) {
	small := NewInt(42)
	assert.Equal(t, W32, small.Width)

	big := NewInt(1 << 40)
	assert.Equal(t, W64, big.Width)
}

func TestIntWrappingOverflow(t *testing.T) {
	v := NewIntWidth(127+1, W8, true)
	assert.Equal(t, int64(-128), v.I)
}

func TestTruthiness(t *testing.T) {
	assert.False(t, Truthy(NullValue))
	assert.False(t, Truthy(False))
	assert.False(t, Truthy(NewInt(0)))
	assert.True(t, Truthy(NewInt(1)))
	// spec §4.1: empty containers are truthy, not falsy.
	assert.True(t, Truthy(NewString("")))
	assert.True(t, Truthy(NewArray(nil)))
	assert.True(t, Truthy(NewObject()))
}

func TestAddStringConcat(t *testing.T) {
	r, err := Add(NewString("foo"), NewString("bar"))
	require.NoError(t, err)
	assert.Equal(t, "foobar", r.String())
}

func TestAddArrayConcat(t *testing.T) {
	r, err := Add(NewArray([]Value{NewInt(1)}), NewArray([]Value{NewInt(2)}))
	require.NoError(t, err)
	arr := r.(*Array)
	assert.Len(t, arr.Elems, 2)
}

func TestAddMixedIntFloatPromotes(t *testing.T) {
	r, err := Add(NewInt(1), NewFloat(2.5))
	require.NoError(t, err)
	_, ok := r.(*Float)
	assert.True(t, ok)
}

func TestEqualityReferenceForArrays(t *testing.T) {
	a := NewArray([]Value{NewInt(1)})
	b := NewArray([]Value{NewInt(1)})
	assert.False(t, Equals(a, b))
	assert.True(t, Equals(a, a))
	assert.True(t, DeepEqual(a, b))
}

func TestIndexOutOfRangeReturnsNull(t *testing.T) {
	arr := NewArray([]Value{NewInt(1)})
	v, err := Index(arr, NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, NullValue, v)
}

func TestStringIndexOutOfRangeRaises(t *testing.T) {
	_, err := Index(NewString("ab"), NewInt(5))
	assert.Error(t, err)
}

func TestPushTypedArrayCoercionFails(t *testing.T) {
	arr := &Array{ElemType: "i32", Elems: []Value{NewInt(1), NewInt(2), NewInt(3)}}
	err := Push(arr, NewString("hello"))
	assert.Error(t, err)
}

func TestRefcountDestroysOnZero(t *testing.T) {
	mgr := NewManager()
	var destroyed bool
	mgr.SetDestructorCallback(func(v Value) { destroyed = true })

	s := NewString("x")
	mgr.Retain(s)
	mgr.Retain(s)
	assert.Equal(t, 2, s.RefCount())
	mgr.Release(s)
	assert.False(t, destroyed)
	mgr.Release(s)
	assert.True(t, destroyed)
}

func TestManuallyFreedSet(t *testing.T) {
	mgr := NewManager()
	p := &Ptr{Addr: 0x1000}
	assert.False(t, mgr.WasManuallyFreed(p.Addr))
	mgr.MarkManuallyFreed(p.Addr)
	assert.True(t, mgr.WasManuallyFreed(p.Addr))
	mgr.ClearManuallyFreed()
	assert.False(t, mgr.WasManuallyFreed(p.Addr))
}

func TestCoercePrimitiveRangeCheck(t *testing.T) {
	_, err := CoercePrimitive(NewInt(1000), "i8")
	assert.Error(t, err)

	v, err := CoercePrimitive(NewInt(100), "i8")
	require.NoError(t, err)
	assert.Equal(t, int64(100), v.(*Int).I)
}
