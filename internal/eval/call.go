package eval

import (
	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/env"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// Call invokes a Hemlock function value from outside the evaluator,
// e.g. a builtin like array.map or spawn that needs to run a callback
// argument. It is the same call path evalCall uses internally.
func (ev *Evaluator) Call(fn *value.Function, args []value.Value) (value.Value, error) {
	return ev.callFunction(fn, args)
}

// callFunction implements the function-call contract of spec §4.3:
// builtins dispatch directly; user functions get a fresh environment
// enclosing their captured closure (not the caller's environment),
// positional parameters bind left to right, missing trailing
// arguments fall back to a default expression (evaluated in the new
// call environment) or null, and registered defers run LIFO after the
// body finishes and before the result propagates.
func (ev *Evaluator) callFunction(fn *value.Function, args []value.Value) (value.Value, error) {
	if fn.Builtin != nil {
		return fn.Builtin(args)
	}
	body, ok := fn.Body.(*ast.FunctionLit)
	if !ok {
		return nil, throwf("RuntimeError: function %q has no body", fn.Name)
	}
	closureEnv := ev.Globals
	if fn.Closure != nil {
		if ce, ok := fn.Closure.(*env.Environment); ok {
			closureEnv = ce
		}
	}
	callEnv := env.NewEnclosed(closureEnv)
	for i, param := range body.Params {
		var v value.Value
		switch {
		case i < len(args):
			v = args[i]
		case param.Default != nil:
			dv, err := ev.evalExpr(param.Default, callEnv)
			if err != nil {
				return nil, err
			}
			v = dv
		default:
			v = value.NullValue
		}
		callEnv.Define(param.Name, v, false)
	}

	frame := &callFrame{}
	sig := ev.evalBlockStmts(body.Body.Statements, callEnv, frame)
	if err := ev.runDefers(frame, callEnv); err != nil {
		env.BreakCycles(callEnv)
		return nil, err
	}
	env.BreakCycles(callEnv)

	switch sig.Kind {
	case SigReturn:
		return sig.Value, nil
	case SigThrow:
		return nil, throwValue(sig.Value)
	default:
		return value.NullValue, nil
	}
}
