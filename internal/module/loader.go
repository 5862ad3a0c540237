// Package module implements Hemlock's module loader (spec §4.4): path
// resolution for `@stdlib/x`, absolute, and relative import specifiers,
// a load-state cache with cycle detection, and mangled-name bookkeeping
// for the C transpiler. It implements eval.ModuleLoader, so
// internal/eval depends only on that interface and this package is
// free to depend on internal/eval directly to run a compiled module's
// top-level statements.
//
// The teacher's own module-equivalent package (internal/units) was
// retrieved with only test files, no implementation, so the state
// machine here is grounded instead on the teacher's other
// cache-by-key registries (internal/interp/types/class_registry.go,
// function_registry.go: a map guarded by a mutex, entries transitioning
// through explicit states) generalized to the load/loading/loaded
// states spec.md §4.4 spells out directly.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/hemlock-lang/hemlock/internal/value"
)

const stdlibPrefix = "@stdlib/"
const hmlExt = ".hml"

type loadState int

const (
	unloaded loadState = iota
	loading
	loadedState
)

type record struct {
	state   loadState
	prefix  string // "_mod<N>_", spec §4.4 "Name mangling"
	exports map[string]value.Value
}

// Loader resolves and compiles Hemlock import specifiers. NewEvaluator
// must return a fresh *eval.Evaluator with Builtins/Methods/Tasks
// already populated (typically by calling internal/builtins.Register
// and setting Tasks to an internal/task.Scheduler) — this package does
// not import internal/builtins to avoid coupling the loader to one
// particular builtin set; pkg/hemlock supplies the factory.
type Loader struct {
	StdlibRoot   string
	NewEvaluator func() *eval.Evaluator

	mu      sync.Mutex
	cache   map[string]*record
	counter int
}

// New creates a Loader rooted at stdlibRoot (used to resolve `@stdlib/x`
// specifiers). newEvaluator is called once per module file to compile.
func New(stdlibRoot string, newEvaluator func() *eval.Evaluator) *Loader {
	return &Loader{
		StdlibRoot:   stdlibRoot,
		NewEvaluator: newEvaluator,
		cache:        make(map[string]*record),
	}
}

// Compile implements eval.ModuleLoader, following spec §4.4's six
// numbered steps: cache hit on LOADED returns immediately; a hit on
// LOADING is a cycle; otherwise the file is parsed and its top-level
// statements are run in a fresh module-scoped evaluator, whose nested
// import statements recurse back into Compile (so imports are resolved
// depth-first, deepest first, before their importer's remaining
// statements run — the topological order spec.md §4.4 calls for falls
// out naturally from tree-walking execution order).
func (l *Loader) Compile(importerPath, specifier string) (map[string]value.Value, error) {
	abs, err := l.resolve(importerPath, specifier)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if rec, ok := l.cache[abs]; ok {
		switch rec.state {
		case loadedState:
			l.mu.Unlock()
			return rec.exports, nil
		case loading:
			l.mu.Unlock()
			return nil, fmt.Errorf("ModuleError: import cycle detected at %q", abs)
		}
	}
	l.counter++
	rec := &record{state: loading, prefix: fmt.Sprintf("_mod%d_", l.counter)}
	l.cache[abs] = rec
	l.mu.Unlock()

	src, err := os.ReadFile(abs)
	if err != nil {
		l.forget(abs)
		return nil, fmt.Errorf("ModuleError: cannot read %q: %s", abs, err)
	}
	prog, err := parser.Parse(abs, string(src))
	if err != nil {
		l.forget(abs)
		return nil, fmt.Errorf("ModuleError: parse failure in %q: %s", abs, err)
	}

	modEv := l.NewEvaluator()
	modEv.FilePath = abs
	modEv.Loader = l

	sig, err := modEv.Run(prog)
	if err != nil {
		l.forget(abs)
		return nil, fmt.Errorf("ModuleError: %s: %s", abs, err)
	}
	if sig.Kind == eval.SigThrow {
		l.forget(abs)
		return nil, eval.ThrowValue(sig.Value)
	}

	l.mu.Lock()
	rec.state = loadedState
	rec.exports = modEv.Exports
	l.mu.Unlock()

	// Best-effort only: a missing/stale manifest just means the next
	// tool invocation re-derives export names the slow way, not a
	// correctness problem for Compile itself.
	_ = writeManifest(abs, exportNameList(modEv.Exports))
	return rec.exports, nil
}

// Prefix returns the mangled-name prefix assigned to the module at
// absolute path abs, for internal/codegen's use; the evaluator itself
// never needs it (spec §4.4: "mangling matters only for the C
// transpiler").
func (l *Loader) Prefix(abs string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.cache[abs]
	if !ok {
		return "", false
	}
	return rec.prefix, true
}

func (l *Loader) forget(abs string) {
	l.mu.Lock()
	delete(l.cache, abs)
	l.mu.Unlock()
}

// resolve implements spec §4.4's path resolution rules in order:
// `@stdlib/x`, absolute, then relative-to-importer (or the current
// directory if importerPath is empty, i.e. the main file has no
// importer). The result is canonicalized via filepath.Abs plus
// EvalSymlinks when the target already exists.
func (l *Loader) resolve(importerPath, specifier string) (string, error) {
	var raw string
	switch {
	case strings.HasPrefix(specifier, stdlibPrefix):
		rel := strings.TrimPrefix(specifier, stdlibPrefix)
		raw = filepath.Join(l.StdlibRoot, withHmlExt(rel))
	case filepath.IsAbs(specifier):
		raw = withHmlExt(specifier)
	default:
		dir := "."
		if importerPath != "" {
			dir = filepath.Dir(importerPath)
		}
		raw = filepath.Join(dir, withHmlExt(specifier))
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("ModuleError: cannot resolve %q: %s", specifier, err)
	}
	if canon, err := filepath.EvalSymlinks(abs); err == nil {
		abs = canon
	}
	return abs, nil
}

func withHmlExt(path string) string {
	if filepath.Ext(path) == hmlExt {
		return path
	}
	return path + hmlExt
}
