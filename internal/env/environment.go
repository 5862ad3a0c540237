// Package env implements Hemlock's lexically nested name-to-Value
// environments (spec §3.2, §4.2), including const-violation tracking
// and the cycle-breaking teardown closures require.
//
// Grounded on the teacher's internal/interp/runtime/environment.go
// chained-scope design, generalized from DWScript's case-insensitive
// identifiers to Hemlock's case-sensitive ones (see DESIGN.md).
package env

import (
	"fmt"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// ErrUnbound is returned by Assign when no binding for the name exists
// in the scope chain.
type ErrUnbound struct{ Name string }

func (e *ErrUnbound) Error() string { return fmt.Sprintf("NameError: undefined variable: %s", e.Name) }

// ErrConstViolation is returned by Assign when the target binding was
// declared const.
type ErrConstViolation struct{ Name string }

func (e *ErrConstViolation) Error() string {
	return fmt.Sprintf("ConstViolation: cannot assign to const %s", e.Name)
}

type binding struct {
	value   value.Value
	isConst bool
}

// Environment is a name->Value mapping with a parent pointer forming a
// lexical chain (spec §3.2).
type Environment struct {
	store map[string]*binding
	outer *Environment
}

// New creates a root environment with no outer scope.
func New() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

// NewEnclosed creates a new scope nested inside outer (used for
// blocks, loop bodies, and function-call frames).
func NewEnclosed(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer}
}

// Outer returns the parent scope, or nil at the root.
func (e *Environment) Outer() *Environment { return e.outer }

// Define creates (or shadows) a binding in this scope, per spec §3.2:
// "New bindings (let, const) always add to the innermost environment".
func (e *Environment) Define(name string, v value.Value, isConst bool) {
	e.store[name] = &binding{value: v, isConst: isConst}
}

// Lookup walks the scope chain outward, returning (value, true) on a
// hit.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// GetLocal looks up name only in this scope, without walking parents
// — used to detect shadowing.
func (e *Environment) GetLocal(name string) (value.Value, bool) {
	if b, ok := e.store[name]; ok {
		return b.value, true
	}
	return nil, false
}

// Assign mutates the nearest enclosing binding for name, per spec
// §3.2: "assignment mutates the nearest enclosing binding that defines
// the name, failing if none exists". Assigning to a const binding is
// an ErrConstViolation.
func (e *Environment) Assign(name string, v value.Value) error {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			if b.isConst {
				return &ErrConstViolation{Name: name}
			}
			b.value = v
			return nil
		}
	}
	return &ErrUnbound{Name: name}
}

// Range iterates over the bindings defined directly in this scope
// (not outer scopes), used by BreakCycles.
func (e *Environment) Range(f func(name string, v value.Value) bool) {
	for name, b := range e.store {
		if !f(name, b.value) {
			return
		}
	}
}

// Size returns the number of bindings in this scope only.
func (e *Environment) Size() int { return len(e.store) }

// chainContains reports whether target appears anywhere in env's
// outer chain (including env itself).
func chainContains(env, target *Environment) bool {
	for e := env; e != nil; e = e.outer {
		if e == target {
			return true
		}
	}
	return false
}

// BreakCycles walks env's own bindings and, for every function value
// whose captured closure environment transitively includes env,
// clears that closure's environment pointer (spec §4.2
// "break_cycles"). This must run before env itself becomes
// unreachable; it is the single-pass substitute for tracing-GC cycle
// collection that ref-counted heap values need (spec §3.1 "Cycle
// breaking").
//
// Safe because, per spec: "the function is about to become
// unreachable" once its defining environment is released — a
// closure's back-pointer to its own (doomed) environment is the only
// cycle Hemlock's value model can form.
func BreakCycles(e *Environment) {
	e.Range(func(_ string, v value.Value) bool {
		fn, ok := v.(*value.Function)
		if !ok || fn.Closure == nil {
			return true
		}
		closureEnv, ok := fn.Closure.(*Environment)
		if ok && chainContains(closureEnv, e) {
			fn.Closure = nil
		}
		return true
	})
}
