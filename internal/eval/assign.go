package eval

import (
	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/env"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// evalAssign implements plain and compound assignment to an
// Identifier, PropertyExpr, or IndexExpr target (spec §4.1/§4.3).
func (ev *Evaluator) evalAssign(x *ast.AssignExpr, e *env.Environment) (value.Value, error) {
	newVal, err := ev.evalExpr(x.Value, e)
	if err != nil {
		return nil, err
	}
	if x.Op != "=" {
		cur, err := ev.evalExpr(x.Target, e)
		if err != nil {
			return nil, err
		}
		combined, err := applyCompound(x.Op, cur, newVal)
		if err != nil {
			return nil, err
		}
		newVal = combined
	}
	if err := ev.assignTo(x.Target, newVal, e); err != nil {
		return nil, err
	}
	return newVal, nil
}

func applyCompound(op string, cur, rhs value.Value) (value.Value, error) {
	switch op {
	case "+=":
		return value.Add(cur, rhs)
	case "-=":
		return value.Arith("-", cur, rhs)
	case "*=":
		return value.Arith("*", cur, rhs)
	case "/=":
		return value.Arith("/", cur, rhs)
	case "%=":
		return value.Arith("%", cur, rhs)
	}
	return nil, throwf("RuntimeError: unknown compound assignment operator %q", op)
}

// assignTo writes v into the binding/slot that target denotes.
func (ev *Evaluator) assignTo(target ast.Expr, v value.Value, e *env.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := e.Assign(t.Name, v); err != nil {
			return err
		}
		return nil
	case *ast.PropertyExpr:
		obj, err := ev.evalExpr(t.X, e)
		if err != nil {
			return err
		}
		o, ok := obj.(*value.Object)
		if !ok {
			return throwf("TypeError: cannot assign property %q on %s", t.Name, obj.Type())
		}
		o.Set(t.Name, v)
		return nil
	case *ast.IndexExpr:
		target, err := ev.evalExpr(t.X, e)
		if err != nil {
			return err
		}
		idx, err := ev.evalExpr(t.Index, e)
		if err != nil {
			return err
		}
		return value.IndexAssign(target, idx, v)
	}
	return throwf("RuntimeError: invalid assignment target")
}

// evalIncDec implements both prefix (++x) and postfix (x++) forms,
// widening through value.Arith so typed integers keep their width.
func (ev *Evaluator) evalIncDec(x *ast.IncDecExpr, e *env.Environment) (value.Value, error) {
	cur, err := ev.evalExpr(x.X, e)
	if err != nil {
		return nil, err
	}
	op := "+"
	if x.Op == "--" {
		op = "-"
	}
	updated, err := value.Arith(op, cur, value.NewInt(1))
	if err != nil {
		return nil, err
	}
	if err := ev.assignTo(x.X, updated, e); err != nil {
		return nil, err
	}
	if x.Postfix {
		return cur, nil
	}
	return updated, nil
}
