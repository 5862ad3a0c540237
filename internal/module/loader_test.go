package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hemlock-lang/hemlock/internal/builtins"
	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/hemlock-lang/hemlock/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(stdlibRoot string) *Loader {
	var l *Loader
	factory := func() *eval.Evaluator {
		ev := eval.New("")
		builtins.Register(ev, nil)
		ev.Loader = l
		return ev
	}
	l = New(stdlibRoot, factory)
	return l
}

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestImportExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math_util.hml", `
		export let double = fn(x) { return x * 2; };
	`)
	mainPath := writeFile(t, dir, "main.hml", `
		import { double } from "./math_util";
		let result = double(21);
	`)

	l := newLoader(dir)
	ev := l.NewEvaluator()
	ev.FilePath = mainPath

	prog, err := parser.Parse(mainPath, readFile(t, mainPath))
	require.NoError(t, err)
	sig, err := ev.Run(prog)
	require.NoError(t, err)
	require.NotEqual(t, eval.SigThrow, sig.Kind)

	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.(*value.Int).I)
}

func TestImportCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hml", `import { x } from "./b";`)
	writeFile(t, dir, "b.hml", `import { y } from "./a";`)
	entryPath := filepath.Join(dir, "a.hml")

	l := newLoader(dir)
	_, err := l.Compile("", entryPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestLoadedModuleIsCachedNotReParsed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.hml", `
		export let value = 7;
	`)
	writeFile(t, dir, "a.hml", `import { value as av } from "./shared";`)
	writeFile(t, dir, "b.hml", `import { value as bv } from "./shared";`)

	l := newLoader(dir)
	exportsA, err := l.Compile("", filepath.Join(dir, "a.hml"))
	require.NoError(t, err)
	_ = exportsA

	sharedAbs, err := filepath.Abs(filepath.Join(dir, "shared.hml"))
	require.NoError(t, err)
	prefix1, ok := l.Prefix(sharedAbs)
	require.True(t, ok)

	_, err = l.Compile("", filepath.Join(dir, "b.hml"))
	require.NoError(t, err)

	prefix2, ok := l.Prefix(sharedAbs)
	require.True(t, ok)
	assert.Equal(t, prefix1, prefix2)
}

func TestStdlibSpecifierResolvesUnderStdlibRoot(t *testing.T) {
	dir := t.TempDir()
	stdlib := filepath.Join(dir, "stdlib")
	require.NoError(t, os.MkdirAll(stdlib, 0o755))
	writeFile(t, stdlib, "math.hml", `export let pi_approx = 3;`)

	l := newLoader(stdlib)
	exports, err := l.Compile("", "@stdlib/math")
	require.NoError(t, err)
	v, ok := exports["pi_approx"]
	require.True(t, ok)
	assert.Equal(t, int64(3), v.(*value.Int).I)
}

func TestManifestSideCarWrittenAndReadable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.hml", `
		export let value = 7;
		export let helper = fn(x) { return x; };
	`)
	writeFile(t, dir, "a.hml", `import { value } from "./shared";`)

	l := newLoader(dir)
	_, err := l.Compile("", filepath.Join(dir, "a.hml"))
	require.NoError(t, err)

	sharedAbs, err := filepath.Abs(filepath.Join(dir, "shared.hml"))
	require.NoError(t, err)
	names, ok := ManifestExportNames(sharedAbs)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"value", "helper"}, names)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
