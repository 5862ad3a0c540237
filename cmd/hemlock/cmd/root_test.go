package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hemlock-lang/hemlock/pkg/hemlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, out *bytes.Buffer) *hemlock.Engine {
	t.Helper()
	e, err := hemlock.New(hemlock.WithStdout(out))
	require.NoError(t, err)
	return e
}

func TestRunEvalSucceedsOnExpression(t *testing.T) {
	var stdout bytes.Buffer
	engine := newEngine(t, &stdout)

	err := runEval(engine, "1 + 2;")
	require.NoError(t, err)
}

func TestRunEvalReturnsErrorOnThrow(t *testing.T) {
	var stdout bytes.Buffer
	engine := newEngine(t, &stdout)

	err := runEval(engine, `throw "boom";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunFileRunsScriptAndExposesArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.hml")
	require.NoError(t, os.WriteFile(path, []byte(`print(args[0]);`), 0o644))

	var stdout bytes.Buffer
	engine := newEngine(t, &stdout)

	err := runFile(engine, path, []string{"hello"})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "hello")
}

func TestRunCompileWritesDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.hml")
	require.NoError(t, os.WriteFile(path, []byte(`let x = 1 + 2;`), 0o644))

	oldOut, oldDebug := outputFile, debugInfo
	defer func() { outputFile, debugInfo = oldOut, oldDebug }()
	outputFile = ""
	debugInfo = false

	var stdout bytes.Buffer
	engine := newEngine(t, &stdout)

	err := runCompile(engine, []string{path})
	require.NoError(t, err)

	compiled := filepath.Join(dir, "script.hmlc")
	data, err := os.ReadFile(compiled)
	require.NoError(t, err)
	assert.Equal(t, "HMLC", string(data[:4]))
}

func TestRunCompileRejectsWrongArgCount(t *testing.T) {
	var stdout bytes.Buffer
	engine := newEngine(t, &stdout)

	err := runCompile(engine, nil)
	assert.Error(t, err)

	err = runCompile(engine, []string{"a.hml", "b.hml"})
	assert.Error(t, err)
}

func TestResolveStdlibRootPrefersExplicitFlag(t *testing.T) {
	old := stdlibRoot
	defer func() { stdlibRoot = old }()
	stdlibRoot = "/explicit/root"

	assert.Equal(t, "/explicit/root", resolveStdlibRoot([]string{"script.hml"}))
}

func TestResolveStdlibRootReadsProjectConfig(t *testing.T) {
	old := stdlibRoot
	defer func() { stdlibRoot = old }()
	stdlibRoot = ""

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hemlock.yaml"), []byte("stdlib_root: vendor/stdlib\n"), 0o644))
	scriptPath := filepath.Join(dir, "main.hml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`let x = 1;`), 0o644))

	got := resolveStdlibRoot([]string{scriptPath})
	assert.Equal(t, filepath.Join(dir, "vendor/stdlib"), got)
}

func TestResolveStdlibRootWithNoConfigReturnsEmpty(t *testing.T) {
	old := stdlibRoot
	defer func() { stdlibRoot = old }()
	stdlibRoot = ""

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "main.hml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`let x = 1;`), 0o644))

	assert.Equal(t, "", resolveStdlibRoot([]string{scriptPath}))
}
