// Package hemlock is the public facade: the single entry point an
// embedder or cmd/hemlock links against to parse, run, and compile
// Hemlock source without reaching into internal/*.
//
// Grounded on the teacher's pkg/dwscript Engine: a functional-options
// constructor (New(opts ...Option)), an Engine exposing Eval/Compile/Run
// plus an output sink and FFI registration, and a Program wrapping a
// parsed unit with AST()/Symbols() accessors. pkg/dwscript itself ships
// only test files in this pack, so the shape below is read off its own
// test suite (TestIntegration_ParseASTSymbols, basic_ffi_test.go,
// compile_mode_test.go) rather than an implementation file.
package hemlock

import (
	"fmt"
	"io"
	"os"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/builtins"
	"github.com/hemlock-lang/hemlock/internal/diag"
	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/hmlc"
	"github.com/hemlock-lang/hemlock/internal/module"
	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/hemlock-lang/hemlock/internal/task"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// Engine runs Hemlock programs. One Engine owns one task scheduler
// (spec §4.5's single-GIL cooperative runtime) shared by the root
// evaluator and every module it imports, so spawn/join/channel
// operations anywhere in the program serialize against the same lock —
// see DESIGN.md's "pkg/hemlock wiring" entry for why a single shared
// Scheduler is correct even though each module gets its own Globals.
type Engine struct {
	stdout     io.Writer
	stdlibRoot string
	root       *eval.Evaluator
	scheduler  *task.Scheduler
	loader     *module.Loader
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithStdout redirects the builtins that write program output (print,
// etc.) away from os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithStdlibRoot sets the directory `@stdlib/...` imports resolve
// against (spec §4.4). Defaults to no stdlib support (stdlib imports
// fail to resolve) when unset.
func WithStdlibRoot(dir string) Option {
	return func(e *Engine) { e.stdlibRoot = dir }
}

// New constructs an Engine with its builtins, task scheduler, and
// module loader fully wired: the loader's evaluator factory produces a
// fresh *eval.Evaluator per module file (its own Globals, per spec
// §4.4 module scoping) but always points Tasks at the one Scheduler
// bound to the Engine's root evaluator, and always registers the same
// builtin set.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{stdout: os.Stdout}
	for _, opt := range opts {
		opt(e)
	}

	e.root = eval.New("")
	e.scheduler = task.New(e.root)
	builtins.Register(e.root, e.scheduler)
	e.root.Tasks = e.scheduler
	installStdout(e.root, e.stdout)

	e.loader = module.New(e.stdlibRoot, func() *eval.Evaluator {
		modEv := eval.New("")
		builtins.Register(modEv, e.scheduler)
		modEv.Tasks = e.scheduler
		installStdout(modEv, e.stdout)
		return modEv
	})
	e.root.Loader = e.loader

	return e, nil
}

// installStdout overrides the `print`/`println` builtins registered by
// internal/builtins to write to w instead of the process's real
// stdout, mirroring the teacher's Engine.SetOutput.
func installStdout(ev *eval.Evaluator, w io.Writer) {
	ev.Builtins["print"] = func(args []value.Value) (value.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, a.String())
		}
		fmt.Fprintln(w)
		return value.NullValue, nil
	}
	ev.Builtins["println"] = ev.Builtins["print"]
}

// SetOutput redirects subsequent output the way WithStdout does at
// construction time; useful for tests that build one Engine and want a
// fresh buffer per case.
func (e *Engine) SetOutput(w io.Writer) {
	e.stdout = w
	installStdout(e.root, w)
}

// Program is a parsed, not-yet-executed compilation unit: the result of
// Engine.Compile, re-runnable via Engine.Run without re-parsing.
type Program struct {
	path string
	ast  *ast.Program
	src  string
}

// AST exposes the parsed tree, e.g. for internal/codegen or
// internal/hmlc callers that only need the Program for its structure.
func (p *Program) AST() *ast.Program { return p.ast }

// Source returns the original text Compile parsed.
func (p *Program) Source() string { return p.src }

// Compile parses src (attributing positions to path, which may be a
// synthetic name like "<eval>") without running it.
func (e *Engine) Compile(path, src string) (*Program, error) {
	prog, err := parser.Parse(path, src)
	if err != nil {
		return nil, toParseDiagnostic(err, src)
	}
	return &Program{path: path, ast: prog, src: src}, nil
}

// Run executes a previously compiled Program's top-level statements in
// the Engine's root evaluator, returning the last expression
// statement's value the way a REPL line does (an explicit top-level
// `return` wins; otherwise the last bare expression statement's value,
// if any; null if the program ends on neither).
func (e *Engine) Run(p *Program) (value.Value, error) {
	e.root.FilePath = p.path
	e.root.LastExprValue = nil
	sig, err := e.root.Run(p.ast)
	if err != nil {
		return nil, wrapRuntimeError(p.path, err)
	}
	return e.resultValue(sig), nil
}

// resultValue picks the value Run/RunFile hand back to the caller: an
// explicit top-level return, else whatever the program's last bare
// expression statement evaluated to (spec.md §1 scopes REPL display
// semantics out of the language core, leaving this to the embedder).
func (e *Engine) resultValue(sig eval.Signal) value.Value {
	if sig.Kind == eval.SigReturn {
		return sig.Value
	}
	if e.root.LastExprValue != nil {
		return e.root.LastExprValue
	}
	return value.NullValue
}

// Eval parses and runs src in one step (the `hemlock -c CODE` / REPL
// path, spec §6).
func (e *Engine) Eval(src string) (value.Value, error) {
	prog, err := e.Compile("<eval>", src)
	if err != nil {
		return nil, err
	}
	return e.Run(prog)
}

// RunFile loads path (a `.hml` source file or a `.hmlc` precompiled
// bytecode file, told apart by the file's leading "HMLC" magic bytes
// rather than its extension, spec §4.6/§6) and runs it, exposing
// args to the script's top-level `args` binding.
func (e *Engine) RunFile(path string, args []string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IOError: %s", err)
	}

	var prog *ast.Program
	if isCompiledFile(data) {
		prog, err = hmlc.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("IOError: %s: %s", path, err)
		}
	} else {
		prog, err = parser.Parse(path, string(data))
		if err != nil {
			return nil, toParseDiagnostic(err, string(data))
		}
	}

	argv := make([]value.Value, len(args))
	for i, a := range args {
		argv[i] = value.NewString(a)
	}
	e.root.Globals.Define("args", value.NewArray(argv), false)

	e.root.FilePath = path
	e.root.LastExprValue = nil
	sig, err := e.root.Run(prog)
	if err != nil {
		return nil, wrapRuntimeError(path, err)
	}
	return e.resultValue(sig), nil
}

// CompileToBytecode serializes src's AST to the §4.6 wire format
// (`hemlock --compile`).
func (e *Engine) CompileToBytecode(path, src string, debug bool) ([]byte, error) {
	p, err := e.Compile(path, src)
	if err != nil {
		return nil, err
	}
	return hmlc.Encode(p.ast, debug)
}

func isCompiledFile(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "HMLC"
}

// toParseDiagnostic upgrades a parser.ParseError to a diag.Diagnostic
// carrying the offending source line, so CLI/REPL callers can render
// the caret view (spec §7); any other parse-path error degrades to its
// plain message.
func toParseDiagnostic(err error, src string) error {
	if pe, ok := err.(*parser.ParseError); ok {
		return diag.New(diag.ParseError, pe.Pos, pe.Msg, src)
	}
	return err
}

// wrapRuntimeError attaches the file to an uncaught exception the way
// the REPL/CLI want to print it (spec §7: "printed with stack trace").
// internal/eval's thrownError doesn't carry position information for
// an arbitrary thrown value, so this degrades to a plain message
// rather than a full diag.Diagnostic, which needs a token.Position the
// evaluator doesn't attach to thrown values today.
func wrapRuntimeError(path string, err error) error {
	return fmt.Errorf("RuntimeError in %s: %s", path, err)
}
