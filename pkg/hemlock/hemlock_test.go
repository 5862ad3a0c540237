package hemlock

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	e, err := New(WithStdout(&buf))
	require.NoError(t, err)
	return e, &buf
}

func TestEvalReturnsLastExpressionValue(t *testing.T) {
	e, _ := newTestEngine(t)
	v, err := e.Eval("1 + 2;")
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())
}

func TestEvalPrintGoesToConfiguredOutput(t *testing.T) {
	e, buf := newTestEngine(t)
	_, err := e.Eval(`print("hello");`)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, buf.String())
}

// TestLexicalScopeCapturesByReference is the spec's own worked example
// (§8): a closure sees the enclosing binding's *later* value, not a
// snapshot frozen at definition time.
func TestLexicalScopeCapturesByReference(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Eval(`
		let x = 1;
		let g = fn() { return x; };
		x = 2;
	`)
	require.NoError(t, err)
	v, err := e.Eval(`g();`)
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())
}

// TestClosureMutationIsVisibleAcrossCalls: a closure over a mutable
// counter keeps seeing its own updates (§8).
func TestClosureMutationIsVisibleAcrossCalls(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Eval(`
		let c = 0;
		let inc = fn() {
			c = c + 1;
			return c;
		};
	`)
	require.NoError(t, err)

	first, err := e.Eval(`inc();`)
	require.NoError(t, err)
	assert.Equal(t, "1", first.String())

	second, err := e.Eval(`inc();`)
	require.NoError(t, err)
	assert.Equal(t, "2", second.String())
}

// TestSelfReferentialClosureDoesNotHang: `let f = fn() { return f; }; f` must
// not deadlock or panic at teardown, even though f's closure keeps a
// reference to f's own binding cycle (§8 "cycle safety").
func TestSelfReferentialClosureDoesNotHang(t *testing.T) {
	e, _ := newTestEngine(t)
	v, err := e.Eval(`
		let f = fn() { return f; };
		f;
	`)
	require.NoError(t, err)
	assert.Equal(t, "function", v.Type())
}

func TestUncaughtThrowSurfacesAsError(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Eval(`throw "boom";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestParseErrorIsADiagnosticWithCaret(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Compile("bad.hml", "let = ;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ParseError")
}

func TestCompileToBytecodeProducesCompiledFile(t *testing.T) {
	e, _ := newTestEngine(t)
	data, err := e.CompileToBytecode("prog.hml", "let x = 40 + 2;\nx;", false)
	require.NoError(t, err)
	assert.True(t, isCompiledFile(data))
}

func TestEngineKeepsRootGlobalsAcrossEvalCalls(t *testing.T) {
	e, _ := newTestEngine(t)
	// Two independent Eval calls against the same Engine must still
	// agree on a shared binding — the root evaluator's Globals persist
	// call to call, which only holds if the engine isn't rebuilding its
	// wiring per Eval.
	_, err := e.Eval(`let shared = 10;`)
	require.NoError(t, err)
	v, err := e.Eval(`shared + 5;`)
	require.NoError(t, err)
	assert.Equal(t, "15", v.String())
}
