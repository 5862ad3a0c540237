package builtins

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/hemlock-lang/hemlock/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) *eval.Evaluator {
	t.Helper()
	prog, err := parser.Parse("t.hml", src)
	require.NoError(t, err)
	ev := eval.New("t.hml")
	Register(ev, nil)
	sig, err := ev.Run(prog)
	if sig.Kind == eval.SigThrow {
		t.Fatalf("uncaught throw: %v", sig.Value)
	}
	require.NoError(t, err)
	return ev
}

func TestMathBuiltins(t *testing.T) {
	ev := run(t, `let result = sqrt(16.0) + abs(-3) + pi();`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.InDelta(t, 4.0+3.0+3.14159265, v.(*value.Float).F, 0.0001)
}

func TestStringBuiltinsAndMethods(t *testing.T) {
	ev := run(t, `
		let s = "  Hello World  ";
		let trimmed = trim(s);
		let loud = trimmed.upper();
		let parts = split("a,b,c", ",");
		let first = parts[0];
	`)
	trimmed, _ := ev.Globals.Lookup("trimmed")
	assert.Equal(t, "Hello World", trimmed.(*value.String).String())
	loud, _ := ev.Globals.Lookup("loud")
	assert.Equal(t, "HELLO WORLD", loud.(*value.String).String())
	first, _ := ev.Globals.Lookup("first")
	assert.Equal(t, "a", first.(*value.String).String())
}

func TestArrayPushMethodCoercesTypedElement(t *testing.T) {
	ev := run(t, `
		let a: array<i32> = [1, 2];
		a.push(3);
		let result = a;
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	arr := v.(*value.Array)
	require.Len(t, arr.Elems, 3)
	assert.Equal(t, int64(3), arr.Elems[2].(*value.Int).I)
}

func TestArrayPushTypeMismatchThrows(t *testing.T) {
	prog, err := parser.Parse("t.hml", `
		let a: array<i32> = [1, 2, 3];
		a.push("hello");
	`)
	require.NoError(t, err)
	ev := eval.New("t.hml")
	Register(ev, nil)
	sig, _ := ev.Run(prog)
	assert.Equal(t, eval.SigThrow, sig.Kind)
}

func TestArrayMapFilterReduce(t *testing.T) {
	ev := run(t, `
		let doubled = map([1, 2, 3], fn(x) { return x * 2; });
		let evens = filter([1, 2, 3, 4], fn(x) { return x % 2 == 0; });
		let total = reduce([1, 2, 3, 4], fn(acc, x) { return acc + x; }, 0);
	`)
	doubled, _ := ev.Globals.Lookup("doubled")
	arr := doubled.(*value.Array)
	require.Len(t, arr.Elems, 3)
	assert.Equal(t, int64(4), arr.Elems[1].(*value.Int).I)

	evens, _ := ev.Globals.Lookup("evens")
	assert.Len(t, evens.(*value.Array).Elems, 2)

	total, _ := ev.Globals.Lookup("total")
	assert.Equal(t, int64(10), total.(*value.Int).I)
}

func TestArrayMethodMapOnReceiver(t *testing.T) {
	ev := run(t, `
		let arr = [1, 2, 3];
		let squared = arr.map(fn(x) { return x * x; });
	`)
	squared, _ := ev.Globals.Lookup("squared")
	arr := squared.(*value.Array)
	require.Len(t, arr.Elems, 3)
	assert.Equal(t, int64(9), arr.Elems[2].(*value.Int).I)
}

func TestTypeofAndConversions(t *testing.T) {
	ev := run(t, `
		let a = typeof(1);
		let b = to_string(42);
		let c = to_int("7");
		let d = to_bool(0);
	`)
	a, _ := ev.Globals.Lookup("a")
	assert.Equal(t, "i32", a.(*value.String).String())
	b, _ := ev.Globals.Lookup("b")
	assert.Equal(t, "42", b.(*value.String).String())
	c, _ := ev.Globals.Lookup("c")
	assert.Equal(t, int64(7), c.(*value.Int).I)
	d, _ := ev.Globals.Lookup("d")
	assert.Equal(t, false, d.(*value.Bool).Value)
}

func TestDeepEqualVsReferenceEquality(t *testing.T) {
	ev := run(t, `
		let a = [1, 2, 3];
		let b = [1, 2, 3];
		let refEq = a == b;
		let structEq = deep_equal(a, b);
	`)
	refEq, _ := ev.Globals.Lookup("refEq")
	assert.False(t, refEq.(*value.Bool).Value)
	structEq, _ := ev.Globals.Lookup("structEq")
	assert.True(t, structEq.(*value.Bool).Value)
}

func TestSpawnWithoutRuntimeThrows(t *testing.T) {
	prog, err := parser.Parse("t.hml", `
		let t = spawn(fn() { return 1; });
	`)
	require.NoError(t, err)
	ev := eval.New("t.hml")
	Register(ev, nil)
	sig, _ := ev.Run(prog)
	assert.Equal(t, eval.SigThrow, sig.Kind)
}

func TestBuiltinShadowingStillApplies(t *testing.T) {
	ev := run(t, `
		let viaBuiltin = abs(-5);
		let abs = fn(x) { return 999; };
		let viaShadow = abs(-5);
	`)
	viaBuiltin, _ := ev.Globals.Lookup("viaBuiltin")
	assert.Equal(t, int64(5), viaBuiltin.(*value.Int).I)
	viaShadow, _ := ev.Globals.Lookup("viaShadow")
	assert.Equal(t, int64(999), viaShadow.(*value.Int).I)
}
