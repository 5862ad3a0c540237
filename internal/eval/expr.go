package eval

import (
	"strconv"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/env"
	"github.com/hemlock-lang/hemlock/internal/value"
)

func (ev *Evaluator) evalExpr(expr ast.Expr, e *env.Environment) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.NullLit:
		return value.NullValue, nil
	case *ast.BoolLit:
		return value.NewBool(x.Value), nil
	case *ast.IntLit:
		n, err := strconv.ParseInt(x.Literal, 10, 64)
		if err != nil {
			return nil, throwf("ParseError: invalid integer literal %q", x.Literal)
		}
		return value.NewInt(n), nil
	case *ast.FloatLit:
		f, err := strconv.ParseFloat(x.Literal, 64)
		if err != nil {
			return nil, throwf("ParseError: invalid float literal %q", x.Literal)
		}
		return value.NewFloat(f), nil
	case *ast.StringLit:
		return value.NewString(x.Value), nil
	case *ast.RuneLit:
		return value.NewRune(x.Value), nil
	case *ast.Identifier:
		return ev.lookupIdentifier(x.Name, e)
	case *ast.InterpStringExpr:
		return ev.evalInterpString(x, e)
	case *ast.ArrayLit:
		return ev.evalArrayLit(x, e)
	case *ast.ObjectLit:
		return ev.evalObjectLit(x, e)
	case *ast.FunctionLit:
		return ev.evalFunctionLit(x, e), nil
	case *ast.UnaryExpr:
		return ev.evalUnary(x, e)
	case *ast.BinaryExpr:
		return ev.evalBinary(x, e)
	case *ast.TernaryExpr:
		return ev.evalTernary(x, e)
	case *ast.NullCoalesceExpr:
		return ev.evalNullCoalesce(x, e)
	case *ast.AssignExpr:
		return ev.evalAssign(x, e)
	case *ast.IncDecExpr:
		return ev.evalIncDec(x, e)
	case *ast.CallExpr:
		return ev.evalCall(x, e)
	case *ast.PropertyExpr:
		return ev.evalProperty(x, e)
	case *ast.IndexExpr:
		return ev.evalIndex(x, e)
	case *ast.AwaitExpr:
		return ev.evalAwait(x, e)
	default:
		return nil, throwf("RuntimeError: unhandled expression type %T", expr)
	}
}

// lookupIdentifier resolves a name per spec §9's shadowing rule: any
// local, enclosing, or imported binding shadows a builtin of the same
// name; the builtin table is consulted only on a lexical miss.
func (ev *Evaluator) lookupIdentifier(name string, e *env.Environment) (value.Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	if b, ok := ev.Builtins[name]; ok {
		return &value.Function{Name: name, Builtin: b}, nil
	}
	return nil, &env.ErrUnbound{Name: name}
}

func (ev *Evaluator) evalInterpString(x *ast.InterpStringExpr, e *env.Environment) (value.Value, error) {
	var sb strings.Builder
	for i, part := range x.Parts {
		sb.WriteString(part)
		if i < len(x.Exprs) {
			v, err := ev.evalExpr(x.Exprs[i], e)
			if err != nil {
				return nil, err
			}
			sb.WriteString(v.String())
		}
	}
	return value.NewString(sb.String()), nil
}

func (ev *Evaluator) evalArrayLit(x *ast.ArrayLit, e *env.Environment) (value.Value, error) {
	elems := make([]value.Value, len(x.Elements))
	for i, el := range x.Elements {
		v, err := ev.evalExpr(el, e)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return value.NewArray(elems), nil
}

func (ev *Evaluator) evalObjectLit(x *ast.ObjectLit, e *env.Environment) (value.Value, error) {
	obj := value.NewObject()
	for _, f := range x.Fields {
		v, err := ev.evalExpr(f.Value, e)
		if err != nil {
			return nil, err
		}
		obj.Set(f.Key, v)
	}
	return obj, nil
}

// evalFunctionLit captures the current environment by reference (spec
// §4.3 "Closures"): later Define calls on e (such as the let binding
// this literal is the value of) remain visible to the closure because
// e itself, not a snapshot of it, is stored.
func (ev *Evaluator) evalFunctionLit(x *ast.FunctionLit, e *env.Environment) value.Value {
	required := 0
	for _, p := range x.Params {
		if p.Default == nil {
			required++
		}
	}
	return &value.Function{
		Name:         x.Name,
		Body:         x,
		Closure:      e,
		Arity:        len(x.Params),
		RequiredArgs: required,
		IsAsync:      x.IsAsync,
	}
}

func (ev *Evaluator) evalUnary(x *ast.UnaryExpr, e *env.Environment) (value.Value, error) {
	v, err := ev.evalExpr(x.X, e)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "!":
		return value.NewBool(!value.Truthy(v)), nil
	case "-":
		switch n := v.(type) {
		case *value.Int:
			return value.NewIntWidth(-n.I, n.Width, n.Signed), nil
		case *value.Float:
			if n.Width == value.W32 {
				return value.NewFloat32(float32(-n.F)), nil
			}
			return value.NewFloat(-n.F), nil
		}
		return nil, throwf("TypeError: cannot negate %s", v.Type())
	}
	return nil, throwf("RuntimeError: unknown unary operator %q", x.Op)
}

func (ev *Evaluator) evalBinary(x *ast.BinaryExpr, e *env.Environment) (value.Value, error) {
	// Logical operators short-circuit, so the right operand is only
	// evaluated when needed.
	if x.Op == "&&" || x.Op == "||" {
		l, err := ev.evalExpr(x.Left, e)
		if err != nil {
			return nil, err
		}
		if x.Op == "&&" && !value.Truthy(l) {
			return value.NewBool(false), nil
		}
		if x.Op == "||" && value.Truthy(l) {
			return value.NewBool(true), nil
		}
		r, err := ev.evalExpr(x.Right, e)
		if err != nil {
			return nil, err
		}
		return value.NewBool(value.Truthy(r)), nil
	}

	l, err := ev.evalExpr(x.Left, e)
	if err != nil {
		return nil, err
	}
	r, err := ev.evalExpr(x.Right, e)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "+":
		return value.Add(l, r)
	case "-", "*", "/", "%":
		return value.Arith(x.Op, l, r)
	case "==":
		return value.NewBool(value.Equals(l, r)), nil
	case "!=":
		return value.NewBool(!value.Equals(l, r)), nil
	case "<", ">", "<=", ">=":
		c, err := value.Compare(l, r)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case "<":
			return value.NewBool(c < 0), nil
		case ">":
			return value.NewBool(c > 0), nil
		case "<=":
			return value.NewBool(c <= 0), nil
		default:
			return value.NewBool(c >= 0), nil
		}
	}
	return nil, throwf("RuntimeError: unknown binary operator %q", x.Op)
}

func (ev *Evaluator) evalTernary(x *ast.TernaryExpr, e *env.Environment) (value.Value, error) {
	cond, err := ev.evalExpr(x.Cond, e)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return ev.evalExpr(x.Then, e)
	}
	return ev.evalExpr(x.Else, e)
}

func (ev *Evaluator) evalNullCoalesce(x *ast.NullCoalesceExpr, e *env.Environment) (value.Value, error) {
	v, err := ev.evalExpr(x.X, e)
	if err != nil {
		return nil, err
	}
	if isNull(v) {
		return ev.evalExpr(x.Default, e)
	}
	return v, nil
}

func isNull(v value.Value) bool {
	_, ok := v.(*value.Null)
	return ok
}

func (ev *Evaluator) evalAwait(x *ast.AwaitExpr, e *env.Environment) (value.Value, error) {
	v, err := ev.evalExpr(x.X, e)
	if err != nil {
		return nil, err
	}
	task, ok := v.(*value.Task)
	if !ok {
		return v, nil
	}
	if ev.Tasks == nil {
		return nil, throwf("RuntimeError: task runtime is not configured")
	}
	return ev.Tasks.Join(task)
}

// evalProperty implements spec §3.1's null-propagation invariant:
// `?.` on a null receiver yields null, but plain `.` on null raises.
func (ev *Evaluator) evalProperty(x *ast.PropertyExpr, e *env.Environment) (value.Value, error) {
	obj, err := ev.evalExpr(x.X, e)
	if err != nil {
		return nil, err
	}
	if isNull(obj) {
		if x.Optional {
			return value.NullValue, nil
		}
		return nil, throwf("TypeError: cannot read property %q of null", x.Name)
	}
	return value.GetProperty(obj, x.Name)
}

func (ev *Evaluator) evalIndex(x *ast.IndexExpr, e *env.Environment) (value.Value, error) {
	target, err := ev.evalExpr(x.X, e)
	if err != nil {
		return nil, err
	}
	if isNull(target) {
		if x.Optional {
			return value.NullValue, nil
		}
		return nil, throwf("TypeError: cannot index null")
	}
	idx, err := ev.evalExpr(x.Index, e)
	if err != nil {
		return nil, err
	}
	return value.Index(target, idx)
}

func (ev *Evaluator) evalCall(x *ast.CallExpr, e *env.Environment) (value.Value, error) {
	if pe, ok := x.Callee.(*ast.PropertyExpr); ok {
		return ev.evalMethodCall(pe, x.Args, e)
	}
	callee, err := ev.evalExpr(x.Callee, e)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*value.Function)
	if !ok {
		return nil, throwf("TypeError: not callable")
	}
	args, err := ev.evalArgs(x.Args, e)
	if err != nil {
		return nil, err
	}
	return ev.callFunction(fn, args)
}

func (ev *Evaluator) evalArgs(exprs []ast.Expr, e *env.Environment) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := ev.evalExpr(a, e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// evalMethodCall implements `receiver.name(args...)` call syntax
// (spec §8 scenario 6: `a.push("hello")`). A field on an Object that
// holds a Function is called directly (user-defined "methods" via
// plain data); otherwise a registered MethodFunc for the receiver's
// type is consulted (internal/builtins' array/string/channel methods);
// failing both, the access falls back to plain property evaluation,
// which only succeeds if that yields a callable Function value.
func (ev *Evaluator) evalMethodCall(pe *ast.PropertyExpr, argExprs []ast.Expr, e *env.Environment) (value.Value, error) {
	recv, err := ev.evalExpr(pe.X, e)
	if err != nil {
		return nil, err
	}
	if isNull(recv) {
		if pe.Optional {
			return value.NullValue, nil
		}
		return nil, throwf("TypeError: cannot read property %q of null", pe.Name)
	}
	if obj, ok := recv.(*value.Object); ok {
		if fv, present := obj.Get(pe.Name); present {
			if fn, ok := fv.(*value.Function); ok {
				args, err := ev.evalArgs(argExprs, e)
				if err != nil {
					return nil, err
				}
				return ev.callFunction(fn, args)
			}
		}
	}
	if methods, ok := ev.Methods[recv.Type()]; ok {
		if m, ok := methods[pe.Name]; ok {
			args, err := ev.evalArgs(argExprs, e)
			if err != nil {
				return nil, err
			}
			return m(recv, args)
		}
	}
	propVal, err := value.GetProperty(recv, pe.Name)
	if err != nil {
		return nil, err
	}
	fn, ok := propVal.(*value.Function)
	if !ok {
		return nil, throwf("TypeError: %s has no method %q", recv.Type(), pe.Name)
	}
	args, err := ev.evalArgs(argExprs, e)
	if err != nil {
		return nil, err
	}
	return ev.callFunction(fn, args)
}
