package codegen

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, prefix, src string) string {
	t.Helper()
	prog, err := parser.Parse("gen.hml", src)
	require.NoError(t, err)
	out, err := New(prefix).Generate(prog)
	require.NoError(t, err)
	return out
}

func TestTopLevelFunctionGetsMangledNameAndNullEnv(t *testing.T) {
	out := generate(t, "_main_", `
fn add(a, b) {
	return a + b;
}
`)
	assert.Contains(t, out, "Value _main_add(ClosureEnv* env, Value p_a, Value p_b)")
	assert.Contains(t, out, "hml_add(p_a, p_b)")
}

func TestTopLevelFunctionHasAnonymousTrampoline(t *testing.T) {
	out := generate(t, "_main_", `
fn add(a, b) {
	return a + b;
}
`)
	assert.Contains(t, out, "Value _main_add_call(ClosureEnv* env, Value* args, int argc)")
	assert.Contains(t, out, "_main_add((ClosureEnv*)env")
}

func TestModulePrefixMangling(t *testing.T) {
	out := generate(t, "mod_math_", `
fn sq(x) {
	return x * x;
}
`)
	assert.Contains(t, out, "Value mod_math_sq(")
	assert.NotContains(t, out, "_main_")
}

func TestClosureCapturesFreeVariableIntoHeapEnv(t *testing.T) {
	out := generate(t, "_main_", `
fn makeCounter() {
	let count = 0;
	let inc = fn() {
		count = count + 1;
		return count;
	};
	return inc;
}
`)
	assert.Contains(t, out, "typedef struct")
	assert.Contains(t, out, "Value count;")
	assert.Contains(t, out, "hml_alloc(sizeof(")
	assert.Contains(t, out, "hml_make_closure(")
}

func TestDeferTeardownRunsBeforeEveryReturn(t *testing.T) {
	out := generate(t, "_main_", `
fn withCleanup() {
	defer cleanup();
	if (true) {
		return 1;
	}
	return 2;
}
`)
	assert.Contains(t, out, "hml_defer_push(")
	// Both the early return and the fallthrough exit run the stack.
	assert.GreaterOrEqual(t, countOccurrences(out, "hml_defer_run_all("), 2)
}

func TestTopLevelBindingInitializedInInitFunction(t *testing.T) {
	out := generate(t, "_main_", `
let total = 1 + 2;
`)
	assert.Contains(t, out, "Value _main_total;")
	assert.Contains(t, out, "void _main_init(void) {")
	assert.Contains(t, out, "_main_total = hml_add(")
}

func TestClosureWithTryCatchAndNoFinallyComputesFreeVars(t *testing.T) {
	out := generate(t, "_main_", `
fn makeHandler() {
	let log = 0;
	let handle = fn() {
		try {
			log = log + 1;
		} catch (e) {
			log = log - 1;
		}
		return log;
	};
	return handle;
}
`)
	assert.Contains(t, out, "Value log;")
	assert.Contains(t, out, "hml_setjmp_try()")
}

func TestDefineObjectAndImportProduceNoRuntimeCode(t *testing.T) {
	out := generate(t, "_main_", `
type Point {
	x: i64,
	y?: i64,
}
import { sq } from "./math";
`)
	assert.NotContains(t, out, "Point")
	assert.NotContains(t, out, "sq")
}

func countOccurrences(haystack, needle string) int {
	n := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			n++
			i += len(needle) - 1
		}
	}
	return n
}
