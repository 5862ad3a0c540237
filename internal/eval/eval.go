// Package eval implements Hemlock's tree-walking evaluator (spec §4.3):
// a single-threaded, direct recursive walk over the internal/ast tree,
// producing control signals from statements and values from
// expressions.
//
// Grounded on the teacher's internal/interp/evaluator package: a
// Result/signal sum type threaded as an explicit second return value
// (here, Signal), one file per syntactic area, and a builtin-dispatch
// table consulted only when no lexical binding shadows the name.
package eval

import (
	"fmt"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/env"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// ModuleLoader resolves and compiles an import specifier relative to
// an importing file, returning its export table. internal/module
// implements this; internal/eval only depends on the interface, so
// the module loader can in turn depend on internal/eval to execute a
// compiled module's top-level statements without an import cycle.
type ModuleLoader interface {
	Compile(importerPath, specifier string) (exports map[string]value.Value, err error)
}

// TaskJoiner blocks the calling goroutine until a spawned task
// completes, re-throwing if the task terminated via throw (spec
// §4.5 "join"). internal/task implements this.
type TaskJoiner interface {
	Join(t *value.Task) (value.Value, error)
}

// MethodFunc is a builtin dispatched via `receiver.name(args...)` call
// syntax rather than a free function — e.g. `a.push(v)` (spec §8
// scenario 6). Keyed by the receiver's Type() and method name so
// array/string/channel methods don't crowd the free-function namespace.
type MethodFunc func(receiver value.Value, args []value.Value) (value.Value, error)

// Evaluator holds the cross-cutting state shared by every statement
// and expression evaluation: the builtin dispatch table, registered
// object-type shapes (for let/const coercion), the module loader and
// task joiner collaborators, and the running module's export table.
type Evaluator struct {
	Globals  *env.Environment
	Builtins map[string]value.BuiltinFunc
	Methods  map[string]map[string]MethodFunc
	Types    map[string][]ast.ObjectField
	Loader   ModuleLoader
	Tasks    TaskJoiner
	FilePath string
	Exports  map[string]value.Value

	// LastExprValue holds the most recently evaluated expression
	// statement's value, anywhere in the evaluation (not just at top
	// level). A REPL/-c embedder (pkg/hemlock) reads it after Run
	// returns with a Normal signal to decide what to print — the
	// language core itself (spec.md §1, which scopes the REPL loop out
	// entirely) assigns it no meaning.
	LastExprValue value.Value
}

// New creates an Evaluator with an empty global environment and
// builtin table. Callers populate Builtins/Methods (internal/builtins)
// and the Loader/Tasks collaborators before running a program.
func New(filePath string) *Evaluator {
	return &Evaluator{
		Globals:  env.New(),
		Builtins: make(map[string]value.BuiltinFunc),
		Methods:  make(map[string]map[string]MethodFunc),
		Types:    make(map[string][]ast.ObjectField),
		FilePath: filePath,
		Exports:  make(map[string]value.Value),
	}
}

// callFrame tracks the defer stack for one function-call activation
// (spec §4.3 "Defer": LIFO, scoped to the enclosing function body, not
// to nested blocks).
type callFrame struct {
	Defers []ast.Expr
}

// Run evaluates every top-level statement of prog in the evaluator's
// global environment, honoring top-level defers the same way a
// function body would.
func (ev *Evaluator) Run(prog *ast.Program) (Signal, error) {
	frame := &callFrame{}
	sig := ev.evalBlockStmts(prog.Statements, ev.Globals, frame)
	if err := ev.runDefers(frame, ev.Globals); err != nil {
		return signalFromErr(err), err
	}
	if sig.Kind == SigThrow {
		return sig, &thrownError{Val: sig.Value}
	}
	return sig, nil
}

// runDefers executes frame's registered defer expressions in LIFO
// order. A defer that throws aborts the remaining defers and
// propagates (spec §4.3 "Defer").
func (ev *Evaluator) runDefers(frame *callFrame, e *env.Environment) error {
	for i := len(frame.Defers) - 1; i >= 0; i-- {
		if _, err := ev.evalExpr(frame.Defers[i], e); err != nil {
			return err
		}
	}
	return nil
}

// evalBlockStmts runs stmts in sequence within e, stopping at the
// first non-Normal signal.
func (ev *Evaluator) evalBlockStmts(stmts []ast.Stmt, e *env.Environment, frame *callFrame) Signal {
	for _, s := range stmts {
		sig := ev.evalStmt(s, e, frame)
		if sig.Kind != SigNormal {
			return sig
		}
	}
	return normal()
}

// evalBlock runs a *ast.BlockStmt in a freshly nested environment,
// breaking any closure cycles rooted in that environment once it goes
// out of scope (spec §4.2 "break_cycles").
func (ev *Evaluator) evalBlock(b *ast.BlockStmt, outer *env.Environment, frame *callFrame) Signal {
	blockEnv := env.NewEnclosed(outer)
	sig := ev.evalBlockStmts(b.Statements, blockEnv, frame)
	env.BreakCycles(blockEnv)
	return sig
}

func (ev *Evaluator) evalStmt(stmt ast.Stmt, e *env.Environment, frame *callFrame) Signal {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return ev.evalLetOrConst(s.Name, s.Type, s.Value, false, e)
	case *ast.ConstStmt:
		return ev.evalLetOrConst(s.Name, s.Type, s.Value, true, e)
	case *ast.ExprStmt:
		v, err := ev.evalExpr(s.X, e)
		if err != nil {
			return signalFromErr(err)
		}
		ev.LastExprValue = v
		// A bare named function literal statement (`fn foo() {...}`,
		// including the `export fn foo() {...}` form) also binds its
		// name, matching the implicit binding a `let` would give it.
		if fn, ok := s.X.(*ast.FunctionLit); ok && fn.Name != "" {
			e.Define(fn.Name, v, false)
		}
		return normal()
	case *ast.BlockStmt:
		return ev.evalBlock(s, e, frame)
	case *ast.IfStmt:
		return ev.evalIf(s, e, frame)
	case *ast.WhileStmt:
		return ev.evalWhile(s, e, frame)
	case *ast.ForStmt:
		return ev.evalFor(s, e, frame)
	case *ast.ForInStmt:
		return ev.evalForIn(s, e, frame)
	case *ast.ReturnStmt:
		return ev.evalReturn(s, e)
	case *ast.BreakStmt:
		return Signal{Kind: SigBreak}
	case *ast.ContinueStmt:
		return Signal{Kind: SigContinue}
	case *ast.TryStmt:
		return ev.evalTry(s, e, frame)
	case *ast.ThrowStmt:
		return ev.evalThrow(s, e)
	case *ast.SwitchStmt:
		return ev.evalSwitch(s, e, frame)
	case *ast.DeferStmt:
		frame.Defers = append(frame.Defers, s.Call)
		return normal()
	case *ast.EnumStmt:
		return ev.evalEnum(s, e)
	case *ast.DefineObjectStmt:
		ev.Types[s.Name] = s.Fields
		return normal()
	case *ast.ImportStmt:
		return ev.evalImport(s, e)
	case *ast.ExportStmt:
		return ev.evalExport(s, e, frame)
	case *ast.ImportFFIStmt:
		// Native library loading is an external collaborator outside
		// this module's scope; the alias binds to null so programs
		// that only conditionally use FFI still parse and run.
		if s.Alias != "" {
			e.Define(s.Alias, value.NullValue, true)
		}
		return normal()
	case *ast.ExternFnStmt:
		e.Define(s.Name, &value.Function{
			Name: s.Name,
			Builtin: func([]value.Value) (value.Value, error) {
				return nil, throwf("IOError: FFI function %q is not available", s.Name)
			},
		}, true)
		return normal()
	default:
		return signalFromErr(fmt.Errorf("RuntimeError: unhandled statement type %T", stmt))
	}
}

func (ev *Evaluator) evalLetOrConst(name string, typ ast.TypeExpr, valExpr ast.Expr, isConst bool, e *env.Environment) Signal {
	val, err := ev.evalExpr(valExpr, e)
	if err != nil {
		return signalFromErr(err)
	}
	if typ != nil {
		val, err = ev.coerceToType(val, typ)
		if err != nil {
			return signalFromErr(err)
		}
	}
	e.Define(name, val, isConst)
	return normal()
}

func (ev *Evaluator) evalIf(s *ast.IfStmt, e *env.Environment, frame *callFrame) Signal {
	cond, err := ev.evalExpr(s.Cond, e)
	if err != nil {
		return signalFromErr(err)
	}
	if value.Truthy(cond) {
		return ev.evalBlock(s.Then, e, frame)
	}
	if s.Else != nil {
		return ev.evalStmt(s.Else, e, frame)
	}
	return normal()
}

func (ev *Evaluator) evalWhile(s *ast.WhileStmt, e *env.Environment, frame *callFrame) Signal {
	for {
		cond, err := ev.evalExpr(s.Cond, e)
		if err != nil {
			return signalFromErr(err)
		}
		if !value.Truthy(cond) {
			return normal()
		}
		sig := ev.evalBlock(s.Body, e, frame)
		switch sig.Kind {
		case SigBreak:
			return normal()
		case SigContinue, SigNormal:
			// fall through to next iteration
		default:
			return sig
		}
	}
}

func (ev *Evaluator) evalFor(s *ast.ForStmt, outer *env.Environment, frame *callFrame) Signal {
	forEnv := env.NewEnclosed(outer)
	defer env.BreakCycles(forEnv)
	if s.Init != nil {
		sig := ev.evalStmt(s.Init, forEnv, frame)
		if sig.Kind != SigNormal {
			return sig
		}
	}
	for {
		if s.Cond != nil {
			cond, err := ev.evalExpr(s.Cond, forEnv)
			if err != nil {
				return signalFromErr(err)
			}
			if !value.Truthy(cond) {
				break
			}
		}
		sig := ev.evalBlock(s.Body, forEnv, frame)
		switch sig.Kind {
		case SigBreak:
			return normal()
		case SigNormal, SigContinue:
			// proceed to post clause
		default:
			return sig
		}
		if s.Post != nil {
			sig := ev.evalStmt(s.Post, forEnv, frame)
			if sig.Kind != SigNormal {
				return sig
			}
		}
	}
	return normal()
}

func (ev *Evaluator) evalForIn(s *ast.ForInStmt, outer *env.Environment, frame *callFrame) Signal {
	iterable, err := ev.evalExpr(s.Iterable, outer)
	if err != nil {
		return signalFromErr(err)
	}
	arr, ok := iterable.(*value.Array)
	if !ok {
		return signalFromErr(throwf("TypeError: for-in requires an array, got %s", iterable.Type()))
	}
	for i, elem := range arr.Elems {
		iterEnv := env.NewEnclosed(outer)
		if s.KeyName != "" {
			iterEnv.Define(s.KeyName, value.NewInt(int64(i)), false)
		}
		iterEnv.Define(s.ValueName, elem, false)
		sig := ev.evalBlock(s.Body, iterEnv, frame)
		switch sig.Kind {
		case SigBreak:
			return normal()
		case SigNormal, SigContinue:
			continue
		default:
			return sig
		}
	}
	return normal()
}

func (ev *Evaluator) evalReturn(s *ast.ReturnStmt, e *env.Environment) Signal {
	if s.Value == nil {
		return Signal{Kind: SigReturn, Value: value.NullValue}
	}
	v, err := ev.evalExpr(s.Value, e)
	if err != nil {
		return signalFromErr(err)
	}
	return Signal{Kind: SigReturn, Value: v}
}

func (ev *Evaluator) evalThrow(s *ast.ThrowStmt, e *env.Environment) Signal {
	v, err := ev.evalExpr(s.Value, e)
	if err != nil {
		return signalFromErr(err)
	}
	return Signal{Kind: SigThrow, Value: v}
}

// evalTry implements spec §4.3's try/catch/finally composition
// exactly: evaluate A, on Throw run the catch with e bound, then
// always run C in the original environment, with C's non-Normal
// signal superseding whatever A/B produced.
func (ev *Evaluator) evalTry(s *ast.TryStmt, e *env.Environment, frame *callFrame) Signal {
	sig := ev.evalBlock(s.Try, e, frame)
	if sig.Kind == SigThrow && s.Catch != nil {
		catchEnv := env.NewEnclosed(e)
		catchEnv.Define(s.Catch.Name, sig.Value, false)
		sig = ev.evalBlockStmts(s.Catch.Body.Statements, catchEnv, frame)
		env.BreakCycles(catchEnv)
	}
	if s.Finally != nil {
		finallySig := ev.evalBlock(s.Finally, e, frame)
		if finallySig.Kind != SigNormal {
			return finallySig
		}
	}
	return sig
}

func (ev *Evaluator) evalSwitch(s *ast.SwitchStmt, e *env.Environment, frame *callFrame) Signal {
	disc, err := ev.evalExpr(s.Discriminant, e)
	if err != nil {
		return signalFromErr(err)
	}
	var defaultCase *ast.SwitchCase
	for _, c := range s.Cases {
		if len(c.Values) == 0 {
			defaultCase = c
			continue
		}
		for _, valExpr := range c.Values {
			cv, err := ev.evalExpr(valExpr, e)
			if err != nil {
				return signalFromErr(err)
			}
			if value.Equals(disc, cv) {
				return ev.runSwitchCase(c, e, frame)
			}
		}
	}
	if defaultCase != nil {
		return ev.runSwitchCase(defaultCase, e, frame)
	}
	return normal()
}

func (ev *Evaluator) runSwitchCase(c *ast.SwitchCase, outer *env.Environment, frame *callFrame) Signal {
	caseEnv := env.NewEnclosed(outer)
	sig := ev.evalBlockStmts(c.Body, caseEnv, frame)
	env.BreakCycles(caseEnv)
	if sig.Kind == SigBreak {
		return normal()
	}
	return sig
}

// evalEnum builds an object mapping member names to auto-incrementing
// integers, restarting from an explicit override + 1 (spec §4.3
// "Enums").
func (ev *Evaluator) evalEnum(s *ast.EnumStmt, e *env.Environment) Signal {
	obj := value.NewObject()
	var next int64
	for _, m := range s.Members {
		var n int64
		if m.Value != nil {
			v, err := ev.evalExpr(m.Value, e)
			if err != nil {
				return signalFromErr(err)
			}
			iv, ok := v.(*value.Int)
			if !ok {
				return signalFromErr(throwf("TypeError: enum member %q must be an integer", m.Name))
			}
			n = iv.I
		} else {
			n = next
		}
		obj.Set(m.Name, value.NewInt(n))
		next = n + 1
	}
	e.Define(s.Name, obj, true)
	return normal()
}

func (ev *Evaluator) evalImport(s *ast.ImportStmt, e *env.Environment) Signal {
	if ev.Loader == nil {
		return signalFromErr(throwf("ModuleError: module loading is not configured"))
	}
	exports, err := ev.Loader.Compile(ev.FilePath, s.Source)
	if err != nil {
		return signalFromErr(err)
	}
	for _, spec := range s.Specifiers {
		v, ok := exports[spec.Original]
		if !ok {
			return signalFromErr(throwf("ModuleError: %q has no export %q", s.Source, spec.Original))
		}
		e.Define(spec.Local, v, false)
	}
	return normal()
}

func (ev *Evaluator) evalExport(s *ast.ExportStmt, e *env.Environment, frame *callFrame) Signal {
	sig := ev.evalStmt(s.Decl, e, frame)
	if sig.Kind != SigNormal {
		return sig
	}
	name := exportedName(s.Decl)
	if name == "" {
		return normal()
	}
	v, ok := e.Lookup(name)
	if ok {
		ev.Exports[name] = v
	}
	return normal()
}

// exportedName extracts the binding name introduced by decl, covering
// the two forms spec.md allows after `export`: a let/const, or a
// named function literal wrapped in an expression statement.
func exportedName(decl ast.Stmt) string {
	switch d := decl.(type) {
	case *ast.LetStmt:
		return d.Name
	case *ast.ConstStmt:
		return d.Name
	case *ast.ExprStmt:
		if fn, ok := d.X.(*ast.FunctionLit); ok {
			return fn.Name
		}
	}
	return ""
}
