package eval

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/hemlock-lang/hemlock/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (Signal, *Evaluator) {
	t.Helper()
	prog, err := parser.Parse("t.hml", src)
	require.NoError(t, err)
	ev := New("t.hml")
	sig, err := ev.Run(prog)
	if sig.Kind != SigThrow {
		require.NoError(t, err)
	}
	return sig, ev
}

func TestFibonacciRecursion(t *testing.T) {
	_, ev := run(t, `
		let fib = fn(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		};
		let result = fib(10);
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(55), v.(*value.Int).I)
}

func TestLexicalScopeCapturesBindingNotName(t *testing.T) {
	_, ev := run(t, `
		let x = 1;
		let g = fn() { x };
		let x = 2;
		let result = g();
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.(*value.Int).I)
}

func TestClosureSeesLaterMutation(t *testing.T) {
	_, ev := run(t, `
		let counter = fn() {
			let n = 0;
			return fn() {
				n = n + 1;
				return n;
			};
		};
		let c = counter();
		c();
		c();
		let result = c();
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.(*value.Int).I)
}

func TestStringInterpolation(t *testing.T) {
	_, ev := run(t, `let n = 21; let result = "count: ${n * 2}";`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, "count: 42", v.(*value.String).String())
}

func TestOptionalChainOnNull(t *testing.T) {
	_, ev := run(t, `
		let o = null;
		let result = o?.name;
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, "null", v.Type())
}

func TestTypedArrayIndexAssignThrowsOnMismatch(t *testing.T) {
	sig, _ := run(t, `
		let a: array<i32> = [1, 2, 3];
		a[0] = "oops";
	`)
	assert.Equal(t, SigThrow, sig.Kind)
}

func TestTypedArrayAssignment(t *testing.T) {
	_, ev := run(t, `
		let a: array<i32> = [1, 2, 3];
	`)
	v, ok := ev.Globals.Lookup("a")
	require.True(t, ok)
	arr := v.(*value.Array)
	assert.Equal(t, "i32", arr.ElemType)
	assert.Equal(t, int64(1), arr.Elems[0].(*value.Int).I)
}

func TestTryCatchFinally(t *testing.T) {
	_, ev := run(t, `
		let log = [];
		try {
			throw "boom";
		} catch (e) {
			log = log + [e];
		} finally {
			log = log + ["finally"];
		}
		let result = log;
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	arr := v.(*value.Array)
	require.Len(t, arr.Elems, 2)
	assert.Equal(t, "boom", arr.Elems[0].(*value.String).String())
	assert.Equal(t, "finally", arr.Elems[1].(*value.String).String())
}

func TestUncaughtThrowPropagatesToTopLevel(t *testing.T) {
	sig, _ := run(t, `throw "unhandled";`)
	assert.Equal(t, SigThrow, sig.Kind)
	assert.Equal(t, "unhandled", sig.Value.(*value.String).String())
}

func TestSwitchFirstMatchNoFallthrough(t *testing.T) {
	_, ev := run(t, `
		let x = 2;
		let result = 0;
		switch (x) {
			case 1: result = 10;
			case 2: result = 20;
			case 3: result = 30;
			default: result = -1;
		}
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(20), v.(*value.Int).I)
}

func TestSwitchDefaultOnNoMatch(t *testing.T) {
	_, ev := run(t, `
		let x = 99;
		let result = 0;
		switch (x) {
			case 1: result = 10;
			default: result = -1;
		}
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(-1), v.(*value.Int).I)
}

func TestEnumAutoIncrementAndOverride(t *testing.T) {
	_, ev := run(t, `
		enum Color { Red, Green = 5, Blue }
	`)
	v, ok := ev.Globals.Lookup("Color")
	require.True(t, ok)
	obj := v.(*value.Object)
	red, _ := obj.Get("Red")
	green, _ := obj.Get("Green")
	blue, _ := obj.Get("Blue")
	assert.Equal(t, int64(0), red.(*value.Int).I)
	assert.Equal(t, int64(5), green.(*value.Int).I)
	assert.Equal(t, int64(6), blue.(*value.Int).I)
}

func TestForInWithKeyAndValue(t *testing.T) {
	_, ev := run(t, `
		let total = 0;
		for (let k, v in [10, 20, 30]) {
			total = total + k + v;
		}
		let result = total;
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(63), v.(*value.Int).I)
}

func TestDeferRunsLIFOAtFunctionExit(t *testing.T) {
	_, ev := run(t, `
		let log = [];
		let f = fn() {
			defer (log = log + ["first"]);
			defer (log = log + ["second"]);
			log = log + ["body"];
		};
		f();
		let result = log;
	`)
	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	arr := v.(*value.Array)
	got := make([]string, len(arr.Elems))
	for i, e := range arr.Elems {
		got[i] = e.(*value.String).String()
	}
	assert.Equal(t, []string{"body", "second", "first"}, got)
}

func TestDefineObjectCoercionAllowsExtraFields(t *testing.T) {
	_, ev := run(t, `
		type Point { x: i32, y: i32 }
		let p: Point = { x: 1, y: 2, label: "origin" };
	`)
	v, ok := ev.Globals.Lookup("p")
	require.True(t, ok)
	obj := v.(*value.Object)
	assert.Equal(t, "Point", obj.Tag)
	label, ok := obj.Get("label")
	require.True(t, ok)
	assert.Equal(t, "origin", label.(*value.String).String())
}

func TestDefineObjectCoercionMissingRequiredFieldThrows(t *testing.T) {
	sig, _ := run(t, `
		type Point { x: i32, y: i32 }
		let p: Point = { x: 1 };
	`)
	assert.Equal(t, SigThrow, sig.Kind)
}

func TestBuiltinShadowingRule(t *testing.T) {
	ev := New("t.hml")
	ev.Builtins["double"] = func(args []value.Value) (value.Value, error) {
		return value.NewInt(args[0].(*value.Int).I * 2), nil
	}
	prog, err := parser.Parse("t.hml", `
		let viaBuiltin = double(5);
		let double = fn(x) { return x + 100; };
		let viaShadow = double(5);
	`)
	require.NoError(t, err)
	_, err = ev.Run(prog)
	require.NoError(t, err)
	v1, _ := ev.Globals.Lookup("viaBuiltin")
	v2, _ := ev.Globals.Lookup("viaShadow")
	assert.Equal(t, int64(10), v1.(*value.Int).I)
	assert.Equal(t, int64(105), v2.(*value.Int).I)
}
