package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/ast"
)

var binOpFn = map[string]string{
	"+": "hml_add", "-": "hml_sub", "*": "hml_mul", "/": "hml_div", "%": "hml_mod",
	"==": "hml_eq", "!=": "hml_neq", "<": "hml_lt", ">": "hml_gt", "<=": "hml_le", ">=": "hml_ge",
	"&&": "hml_and", "||": "hml_or",
}

var unaryOpFn = map[string]string{
	"!": "hml_not", "-": "hml_neg",
}

func (g *Generator) genExpr(e ast.Expr, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	switch v := e.(type) {
	case *ast.NullLit:
		return "hml_null()", nil
	case *ast.BoolLit:
		if v.Value {
			return "hml_bool(1)", nil
		}
		return "hml_bool(0)", nil
	case *ast.IntLit:
		// Literal preserved verbatim from source (see internal/hmlc's
		// same rationale): whatever width the runtime infers for this
		// text at eval time is the width hml_int_lit should infer too.
		return fmt.Sprintf("hml_int_lit(%q)", v.Literal), nil
	case *ast.FloatLit:
		return fmt.Sprintf("hml_float_lit(%q)", v.Literal), nil
	case *ast.StringLit:
		return fmt.Sprintf("hml_string(%s)", cStringLiteral(v.Value)), nil
	case *ast.RuneLit:
		return fmt.Sprintf("hml_rune(%d)", v.Value), nil
	case *ast.Identifier:
		if cexpr, ok := sc.resolve(v.Name); ok {
			return cexpr, nil
		}
		return g.global(v.Name), nil
	case *ast.BinaryExpr:
		fn, ok := binOpFn[v.Op]
		if !ok {
			return "", fmt.Errorf("codegen: unknown binary operator %q", v.Op)
		}
		l, err := g.genExpr(v.Left, sc, fc, d)
		if err != nil {
			return "", err
		}
		r, err := g.genExpr(v.Right, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s, %s)", fn, l, r), nil
	case *ast.UnaryExpr:
		fn, ok := unaryOpFn[v.Op]
		if !ok {
			return "", fmt.Errorf("codegen: unknown unary operator %q", v.Op)
		}
		x, err := g.genExpr(v.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", fn, x), nil
	case *ast.TernaryExpr:
		cond, err := g.genExpr(v.Cond, sc, fc, d)
		if err != nil {
			return "", err
		}
		then, err := g.genExpr(v.Then, sc, fc, d)
		if err != nil {
			return "", err
		}
		els, err := g.genExpr(v.Else, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(hml_truthy(%s) ? %s : %s)", cond, then, els), nil
	case *ast.CallExpr:
		return g.genCallExpr(v, sc, fc, d)
	case *ast.AssignExpr:
		return g.genAssignExpr(v, sc, fc, d)
	case *ast.PropertyExpr:
		x, err := g.genExpr(v.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		if v.Optional {
			return fmt.Sprintf("hml_prop_opt(%s, %q)", x, v.Name), nil
		}
		return fmt.Sprintf("hml_prop(%s, %q)", x, v.Name), nil
	case *ast.IndexExpr:
		x, err := g.genExpr(v.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		idx, err := g.genExpr(v.Index, sc, fc, d)
		if err != nil {
			return "", err
		}
		if v.Optional {
			return fmt.Sprintf("hml_index_opt(%s, %s)", x, idx), nil
		}
		return fmt.Sprintf("hml_index(%s, %s)", x, idx), nil
	case *ast.ArrayLit:
		elems := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			ce, err := g.genExpr(el, sc, fc, d)
			if err != nil {
				return "", err
			}
			elems[i] = ce
		}
		return fmt.Sprintf("hml_array(%d, (Value[]){%s})", len(elems), strings.Join(elems, ", ")), nil
	case *ast.ObjectLit:
		var b strings.Builder
		b.WriteString("hml_object(")
		fmt.Fprintf(&b, "%d", len(v.Fields))
		for _, f := range v.Fields {
			ce, err := g.genExpr(f.Value, sc, fc, d)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, ", %s, %s", cStringLiteral(f.Key), ce)
		}
		b.WriteString(")")
		return b.String(), nil
	case *ast.FunctionLit:
		return g.genNestedClosure(v, sc)
	case *ast.IncDecExpr:
		return g.genIncDecExpr(v, sc, fc, d)
	case *ast.InterpStringExpr:
		return g.genInterpStringExpr(v, sc, fc, d)
	case *ast.AwaitExpr:
		x, err := g.genExpr(v.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("hml_await(%s)", x), nil
	case *ast.NullCoalesceExpr:
		x, err := g.genExpr(v.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		def, err := g.genExpr(v.Default, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("hml_coalesce(%s, %s)", x, def), nil
	default:
		return "", fmt.Errorf("codegen: unhandled expression %T", e)
	}
}

// genCallExpr always goes through the uniform (ClosureEnv*, Value*, int)
// trampoline (§4.7 requirement 1/2): the callee is evaluated to a closure
// value (env pointer + the _call trampoline function pointer bundled
// together by hml_make_closure, or synthesized by hml_close_over_global
// for a plain top-level function reference), so the call site never needs
// to special-case arity or whether the callee happens to be a bare
// top-level function versus a real closure.
func (g *Generator) genCallExpr(v *ast.CallExpr, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	callee, err := g.genExpr(v.Callee, sc, fc, d)
	if err != nil {
		return "", err
	}
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		ce, err := g.genExpr(a, sc, fc, d)
		if err != nil {
			return "", err
		}
		args[i] = ce
	}
	return fmt.Sprintf("hml_call(%s, %d, (Value[]){%s})", callee, len(args), strings.Join(args, ", ")), nil
}

func (g *Generator) genAssignExpr(v *ast.AssignExpr, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	value, err := g.genExpr(v.Value, sc, fc, d)
	if err != nil {
		return "", err
	}
	if v.Op != "=" {
		base := strings.TrimSuffix(v.Op, "=")
		fn, ok := binOpFn[base]
		if !ok {
			return "", fmt.Errorf("codegen: unknown compound assignment operator %q", v.Op)
		}
		target, err := g.genExpr(v.Target, sc, fc, d)
		if err != nil {
			return "", err
		}
		value = fmt.Sprintf("%s(%s, %s)", fn, target, value)
	}
	switch t := v.Target.(type) {
	case *ast.Identifier:
		cexpr, ok := sc.resolve(t.Name)
		if !ok {
			cexpr = g.global(t.Name)
		}
		return fmt.Sprintf("(%s = %s)", cexpr, value), nil
	case *ast.PropertyExpr:
		x, err := g.genExpr(t.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("hml_set_prop(%s, %q, %s)", x, t.Name, value), nil
	case *ast.IndexExpr:
		x, err := g.genExpr(t.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		idx, err := g.genExpr(t.Index, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("hml_set_index(%s, %s, %s)", x, idx, value), nil
	default:
		return "", fmt.Errorf("codegen: unsupported assignment target %T", v.Target)
	}
}

func (g *Generator) genIncDecExpr(v *ast.IncDecExpr, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	id, ok := v.X.(*ast.Identifier)
	if !ok {
		return "", fmt.Errorf("codegen: ++/-- target must be an identifier, got %T", v.X)
	}
	cexpr, ok := sc.resolve(id.Name)
	if !ok {
		cexpr = g.global(id.Name)
	}
	fn := "hml_add"
	if v.Op == "--" {
		fn = "hml_sub"
	}
	update := fmt.Sprintf("(%s = %s(%s, hml_int_lit(\"1\")))", cexpr, fn, cexpr)
	if v.Postfix {
		return fmt.Sprintf("({ Value __old = %s; %s; __old; })", cexpr, update), nil
	}
	return update, nil
}

// genInterpStringExpr concatenates the literal Parts with each
// interleaved Exprs[i] coerced to a string, mirroring ast.InterpStringExpr
// ("${...}" segments; Exprs has one entry fewer than Parts).
func (g *Generator) genInterpStringExpr(v *ast.InterpStringExpr, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	var pieces []string
	for i, part := range v.Parts {
		if part != "" {
			pieces = append(pieces, fmt.Sprintf("hml_string(%s)", cStringLiteral(part)))
		}
		if i < len(v.Exprs) && v.Exprs[i] != nil {
			ce, err := g.genExpr(v.Exprs[i], sc, fc, d)
			if err != nil {
				return "", err
			}
			pieces = append(pieces, fmt.Sprintf("hml_to_string(%s)", ce))
		}
	}
	if len(pieces) == 0 {
		return "hml_string(\"\")", nil
	}
	return fmt.Sprintf("hml_concat(%d, (Value[]){%s})", len(pieces), strings.Join(pieces, ", ")), nil
}

func cStringLiteral(s string) string {
	return strconv.Quote(s)
}
