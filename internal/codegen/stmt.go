package codegen

import (
	"fmt"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/ast"
)

// fnCtx carries the per-function state genStmt/genExpr need beyond the
// variable scope: the defer stack variable for this activation.
type fnCtx struct {
	deferVar string
}

// deferStack exists only to give emitDeferTeardown's caller a typed thing
// to hold; the actual LIFO bookkeeping happens at runtime in the generated
// C (hml_defer_push/hml_defer_run_all), not in this Go struct, because a
// defer inside a conditional branch is only known to have run once the
// generated program actually executes that branch — a static, emit-time
// ordering can't capture that, so the C runtime owns the stack.
type deferStack struct {
	varName string
}

func (g *Generator) newDeferStack() *deferStack {
	g.seq++
	return &deferStack{varName: fmt.Sprintf("__defers%d", g.seq)}
}

func (g *Generator) emitDeferTeardown(d *deferStack) string {
	return fmt.Sprintf("  hml_defer_run_all(&%s);\n", d.varName)
}

// genBlockBody emits fn's body as a function's top-level statement list:
// declares the activation's defer stack, then walks every statement,
// rewriting each ReturnStmt to run that stack (in LIFO order, via the C
// runtime helper) immediately before returning, so every exit path —
// explicit return, the implicit fallthrough the caller appends after this
// call, or a throw unwinding through it — tears down in the same order.
func (g *Generator) genBlockBody(block *ast.BlockStmt, sc *scope, d *deferStack) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "  HmlDeferStack %s = {0};\n", d.varName)
	fc := &fnCtx{deferVar: d.varName}
	for _, s := range block.Statements {
		out, err := g.genStmtIn(s, sc, fc, d)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// genStmt is the entry point used for statements outside any user
// function (top-level side effects, folded into <prefix>init).
func (g *Generator) genStmt(s ast.Stmt, sc *scope) (string, error) {
	d := g.newDeferStack()
	return g.genStmtIn(s, sc, &fnCtx{deferVar: d.varName}, d)
}

func (g *Generator) genStmtIn(s ast.Stmt, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	switch v := s.(type) {
	case *ast.LetStmt:
		return g.genLetLike(v.Name, v.Value, sc, fc, d)
	case *ast.ConstStmt:
		return g.genLetLike(v.Name, v.Value, sc, fc, d)
	case *ast.ExprStmt:
		expr, err := g.genExpr(v.X, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("  %s;\n", expr), nil
	case *ast.BlockStmt:
		var b strings.Builder
		b.WriteString("  {\n")
		inner := newScope(sc)
		for _, st := range v.Statements {
			out, err := g.genStmtIn(st, inner, fc, d)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		}
		b.WriteString("  }\n")
		return b.String(), nil
	case *ast.IfStmt:
		cond, err := g.genExpr(v.Cond, sc, fc, d)
		if err != nil {
			return "", err
		}
		then, err := g.genStmtIn(v.Then, newScope(sc), fc, d)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "  if (hml_truthy(%s)) {\n%s  }", cond, then)
		if v.Else != nil {
			els, err := g.genStmtIn(v.Else, newScope(sc), fc, d)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, " else {\n%s  }", els)
		}
		b.WriteString("\n")
		return b.String(), nil
	case *ast.WhileStmt:
		cond, err := g.genExpr(v.Cond, sc, fc, d)
		if err != nil {
			return "", err
		}
		body, err := g.genStmtIn(v.Body, newScope(sc), fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("  while (hml_truthy(%s)) {\n%s  }\n", cond, body), nil
	case *ast.ForStmt:
		inner := newScope(sc)
		var init, cond, post string
		var err error
		if v.Init != nil {
			init, err = g.genStmtIn(v.Init, inner, fc, d)
			if err != nil {
				return "", err
			}
		}
		if v.Cond != nil {
			cond, err = g.genExpr(v.Cond, inner, fc, d)
			if err != nil {
				return "", err
			}
		} else {
			cond = "hml_bool(1)"
		}
		if v.Post != nil {
			post, err = g.genStmtIn(v.Post, inner, fc, d)
			if err != nil {
				return "", err
			}
		}
		body, err := g.genStmtIn(v.Body, inner, fc, d)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString("  {\n")
		b.WriteString(init)
		fmt.Fprintf(&b, "    while (hml_truthy(%s)) {\n%s%s    }\n", cond, body, post)
		b.WriteString("  }\n")
		return b.String(), nil
	case *ast.ForInStmt:
		iter, err := g.genExpr(v.Iterable, sc, fc, d)
		if err != nil {
			return "", err
		}
		inner := newScope(sc)
		keyVar := "__k"
		if v.KeyName != "" {
			keyVar = "v_" + sanitizeIdent(v.KeyName)
			inner.bind(v.KeyName, keyVar)
		}
		valVar := "v_" + sanitizeIdent(v.ValueName)
		inner.bind(v.ValueName, valVar)
		body, err := g.genStmtIn(v.Body, inner, fc, d)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "  HML_FOR_IN(%s, %s, %s, %s) {\n%s  }\n", iter, keyVar, valVar, "__it", body)
		return b.String(), nil
	case *ast.ReturnStmt:
		var val string
		if v.Value != nil {
			expr, err := g.genExpr(v.Value, sc, fc, d)
			if err != nil {
				return "", err
			}
			val = expr
		} else {
			val = "hml_null()"
		}
		return fmt.Sprintf("  { Value __ret = %s;\n%s    return __ret; }\n", val, g.emitDeferTeardown(d)), nil
	case *ast.BreakStmt:
		return "  break;\n", nil
	case *ast.ContinueStmt:
		return "  continue;\n", nil
	case *ast.ThrowStmt:
		expr, err := g.genExpr(v.Value, sc, fc, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("  { hml_defer_run_all(&%s); hml_throw(%s); }\n", d.varName, expr), nil
	case *ast.TryStmt:
		return g.genTryStmt(v, sc, fc, d)
	case *ast.SwitchStmt:
		return g.genSwitchStmt(v, sc, fc, d)
	case *ast.DeferStmt:
		return g.genDeferStmt(v, sc, fc, d)
	case *ast.DefineObjectStmt, *ast.EnumStmt, *ast.ImportStmt, *ast.ExportStmt, *ast.ImportFFIStmt, *ast.ExternFnStmt:
		// These only matter to the driver linking units; nothing to
		// emit inline inside a function body.
		return "", nil
	default:
		return "", fmt.Errorf("codegen: unhandled statement %T", s)
	}
}

func (g *Generator) genLetLike(name string, value ast.Expr, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	if fn, ok := value.(*ast.FunctionLit); ok {
		closureExpr, err := g.genNestedClosure(fn, sc)
		if err != nil {
			return "", err
		}
		cname := "v_" + sanitizeIdent(name)
		sc.bind(name, cname)
		return fmt.Sprintf("  Value %s = %s;\n", cname, closureExpr), nil
	}
	expr, err := g.genExpr(value, sc, fc, d)
	if err != nil {
		return "", err
	}
	cname := "v_" + sanitizeIdent(name)
	sc.bind(name, cname)
	return fmt.Sprintf("  Value %s = %s;\n", cname, expr), nil
}

// genDeferStmt registers the deferred call with the activation's runtime
// defer stack. The call is wrapped in a freshly emitted zero-argument
// static thunk (C has no way to push an arbitrary expression onto a data
// stack directly) so hml_defer_run_all can invoke it later without the
// generator needing to reconstruct the call expression's free variables a
// second time — the thunk closes over the same locals the defer statement
// itself could see, via its own generated ClosureEnv.
func (g *Generator) genDeferStmt(v *ast.DeferStmt, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	call, ok := v.Call.(*ast.CallExpr)
	if !ok {
		return "", fmt.Errorf("codegen: defer target must be a call, got %T", v.Call)
	}
	synthetic := &ast.FunctionLit{Body: &ast.BlockStmt{Statements: []ast.Stmt{
		&ast.ExprStmt{X: call},
	}}}
	captures := freeVars(synthetic)
	g.seq++
	mangled := fmt.Sprintf("%sdefer_thunk%d", g.prefix, g.seq)
	if err := g.genFunction(mangled, synthetic, captures); err != nil {
		return "", err
	}
	envVar := fmt.Sprintf("__denv%d", g.seq)
	var b strings.Builder
	fmt.Fprintf(&b, "  %sEnv* %s = (%sEnv*)hml_alloc(sizeof(%sEnv));\n", mangled, envVar, mangled, mangled)
	for _, name := range captures {
		src, ok := sc.resolve(name)
		if !ok {
			src = g.global(name)
		}
		fmt.Fprintf(&b, "  %s->%s = %s;\n", envVar, sanitizeIdent(name), src)
	}
	fmt.Fprintf(&b, "  hml_defer_push(&%s, (ClosureEnv*)%s, (HmlFn)%s);\n", d.varName, envVar, mangled)
	return b.String(), nil
}

func (g *Generator) genTryStmt(v *ast.TryStmt, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	tryBody, err := g.genStmtIn(v.Try, newScope(sc), fc, d)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("  if (!hml_setjmp_try()) {\n")
	b.WriteString(tryBody)
	b.WriteString("  } else {\n")
	if v.Catch != nil {
		inner := newScope(sc)
		cname := "v_" + sanitizeIdent(v.Catch.Name)
		inner.bind(v.Catch.Name, cname)
		fmt.Fprintf(&b, "    Value %s = hml_current_exception();\n", cname)
		catchBody, err := g.genStmtIn(v.Catch.Body, inner, fc, d)
		if err != nil {
			return "", err
		}
		b.WriteString(catchBody)
	}
	b.WriteString("  }\n")
	if v.Finally != nil {
		finallyBody, err := g.genStmtIn(v.Finally, newScope(sc), fc, d)
		if err != nil {
			return "", err
		}
		b.WriteString(finallyBody)
	}
	return b.String(), nil
}

func (g *Generator) genSwitchStmt(v *ast.SwitchStmt, sc *scope, fc *fnCtx, d *deferStack) (string, error) {
	disc, err := g.genExpr(v.Discriminant, sc, fc, d)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  { Value __disc = %s;\n", disc)
	for i, cs := range v.Cases {
		inner := newScope(sc)
		var cond string
		if len(cs.Values) == 0 {
			cond = "1"
		} else {
			parts := make([]string, 0, len(cs.Values))
			for _, val := range cs.Values {
				ve, err := g.genExpr(val, inner, fc, d)
				if err != nil {
					return "", err
				}
				parts = append(parts, fmt.Sprintf("hml_truthy(hml_eq(__disc, %s))", ve))
			}
			cond = strings.Join(parts, " || ")
		}
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		fmt.Fprintf(&b, "    %s (%s) {\n", kw, cond)
		for _, st := range cs.Body {
			out, err := g.genStmtIn(st, inner, fc, d)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		}
		b.WriteString("    }\n")
	}
	b.WriteString("  }\n")
	return b.String(), nil
}
