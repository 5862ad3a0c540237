package codegen

import (
	"sort"

	"github.com/hemlock-lang/hemlock/internal/ast"
)

// freeVars returns the names fn's body references that it does not
// bind itself (param, let/const, for/for-in, catch), sorted for
// deterministic struct-field ordering in the generated ClosureEnv.
//
// This is conservative rather than block-precise: a name bound
// *anywhere* in fn's body (even in a sibling block fn's use site can't
// see) is treated as bound everywhere in fn, so a shadowing local could
// in principle suppress a capture that strict lexical scoping would
// still require. Hemlock's evaluator (internal/eval, via internal/env)
// resolves this correctly at tree-walk time; the C transpiler is a
// contract-only surface (§4.7), so this approximation only risks
// leaving out of the environment struct a variable that the real
// lexical analysis would capture — never pulling in an extra one — and
// is documented here rather than silently assumed.
func freeVars(fn *ast.FunctionLit) []string {
	bound := map[string]bool{fn.Name: true}
	for _, p := range fn.Params {
		bound[p.Name] = true
	}
	collectBoundNames(fn.Body, bound)

	used := map[string]bool{}
	collectIdentUses(fn.Body, used)
	for _, p := range fn.Params {
		if p.Default != nil {
			collectIdentUses(p.Default, used)
		}
	}

	var free []string
	for name := range used {
		if !bound[name] {
			free = append(free, name)
		}
	}
	sort.Strings(free)
	return free
}

func collectBoundNames(s ast.Stmt, bound map[string]bool) {
	if s == nil {
		return
	}
	switch v := s.(type) {
	case *ast.LetStmt:
		bound[v.Name] = true
	case *ast.ConstStmt:
		bound[v.Name] = true
	case *ast.BlockStmt:
		for _, st := range v.Statements {
			collectBoundNames(st, bound)
		}
	case *ast.IfStmt:
		collectBoundNames(v.Then, bound)
		collectBoundNames(v.Else, bound)
	case *ast.WhileStmt:
		collectBoundNames(v.Body, bound)
	case *ast.ForStmt:
		collectBoundNames(v.Init, bound)
		collectBoundNames(v.Post, bound)
		collectBoundNames(v.Body, bound)
	case *ast.ForInStmt:
		if v.KeyName != "" {
			bound[v.KeyName] = true
		}
		bound[v.ValueName] = true
		collectBoundNames(v.Body, bound)
	case *ast.TryStmt:
		collectBoundNames(v.Try, bound)
		if v.Catch != nil {
			bound[v.Catch.Name] = true
			collectBoundNames(v.Catch.Body, bound)
		}
		if v.Finally != nil {
			collectBoundNames(v.Finally, bound)
		}
	case *ast.SwitchStmt:
		for _, cs := range v.Cases {
			for _, st := range cs.Body {
				collectBoundNames(st, bound)
			}
		}
	case *ast.ExprStmt:
		collectBoundNamesInNestedFns(v.X, bound)
	case *ast.ReturnStmt:
		collectBoundNamesInNestedFns(v.Value, bound)
	}
}

// collectBoundNamesInNestedFns adds nothing to bound: it neither walks
// the expression nor descends into a nested FunctionLit's own body
// (that closure resolves its own free variables independently).
func collectBoundNamesInNestedFns(e ast.Expr, bound map[string]bool) {
	// Top-level expression statements/returns don't themselves bind
	// names; nested FunctionLit literals bind their own names in their
	// own scope, which freeVars computes separately when that literal
	// is itself transpiled. Nothing to do here beyond the structural
	// statement walk above.
	_ = e
	_ = bound
}

func collectIdentUses(n ast.Node, used map[string]bool) {
	switch v := n.(type) {
	case nil:
		return
	case *ast.Identifier:
		used[v.Name] = true
	case *ast.BinaryExpr:
		collectIdentUses(v.Left, used)
		collectIdentUses(v.Right, used)
	case *ast.UnaryExpr:
		collectIdentUses(v.X, used)
	case *ast.TernaryExpr:
		collectIdentUses(v.Cond, used)
		collectIdentUses(v.Then, used)
		collectIdentUses(v.Else, used)
	case *ast.CallExpr:
		collectIdentUses(v.Callee, used)
		for _, a := range v.Args {
			collectIdentUses(a, used)
		}
	case *ast.AssignExpr:
		collectIdentUses(v.Target, used)
		collectIdentUses(v.Value, used)
	case *ast.PropertyExpr:
		collectIdentUses(v.X, used)
	case *ast.IndexExpr:
		collectIdentUses(v.X, used)
		collectIdentUses(v.Index, used)
	case *ast.ArrayLit:
		for _, el := range v.Elements {
			collectIdentUses(el, used)
		}
	case *ast.ObjectLit:
		for _, f := range v.Fields {
			collectIdentUses(f.Value, used)
		}
	case *ast.FunctionLit:
		// Only the nested closure's own free variables count as uses
		// here; its params and locals stay inside it. Each of those
		// free names is either bound in fn or free in fn too.
		for _, name := range freeVars(v) {
			used[name] = true
		}
	case *ast.IncDecExpr:
		collectIdentUses(v.X, used)
	case *ast.InterpStringExpr:
		for _, e := range v.Exprs {
			collectIdentUses(e, used)
		}
	case *ast.AwaitExpr:
		collectIdentUses(v.X, used)
	case *ast.NullCoalesceExpr:
		collectIdentUses(v.X, used)
		collectIdentUses(v.Default, used)
	case *ast.ExprStmt:
		collectIdentUses(v.X, used)
	case *ast.LetStmt:
		collectIdentUses(v.Value, used)
	case *ast.ConstStmt:
		collectIdentUses(v.Value, used)
	case *ast.ReturnStmt:
		collectIdentUses(v.Value, used)
	case *ast.ThrowStmt:
		collectIdentUses(v.Value, used)
	case *ast.DeferStmt:
		collectIdentUses(v.Call, used)
	case *ast.BlockStmt:
		for _, st := range v.Statements {
			collectIdentUses(st, used)
		}
	case *ast.IfStmt:
		collectIdentUses(v.Cond, used)
		collectIdentUses(v.Then, used)
		collectIdentUses(v.Else, used)
	case *ast.WhileStmt:
		collectIdentUses(v.Cond, used)
		collectIdentUses(v.Body, used)
	case *ast.ForStmt:
		collectIdentUses(v.Init, used)
		collectIdentUses(v.Cond, used)
		collectIdentUses(v.Post, used)
		collectIdentUses(v.Body, used)
	case *ast.ForInStmt:
		collectIdentUses(v.Iterable, used)
		collectIdentUses(v.Body, used)
	case *ast.TryStmt:
		collectIdentUses(v.Try, used)
		if v.Catch != nil {
			collectIdentUses(v.Catch.Body, used)
		}
		if v.Finally != nil {
			collectIdentUses(v.Finally, used)
		}
	case *ast.SwitchStmt:
		collectIdentUses(v.Discriminant, used)
		for _, cs := range v.Cases {
			for _, val := range cs.Values {
				collectIdentUses(val, used)
			}
			for _, st := range cs.Body {
				collectIdentUses(st, used)
			}
		}
	}
}
