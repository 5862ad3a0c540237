package hmlc

import (
	"fmt"
	"io"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/ast"
)

// Disassembler renders a decoded *ast.Program as an indented tree of
// node kinds, one line per node, for the CLI's --debug dump (§4.6).
// Grounded on the teacher's bytecode.Disassembler: an io.Writer-backed
// type with a top-level Disassemble entry point and a ToString
// convenience wrapper, generalized from a flat instruction stream to a
// recursive tree.
type Disassembler struct {
	writer io.Writer
	prog   *ast.Program
}

func NewDisassembler(prog *ast.Program, writer io.Writer) *Disassembler {
	return &Disassembler{writer: writer, prog: prog}
}

// Disassemble prints every top-level statement of the program.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "== program (%d statements) ==\n", len(d.prog.Statements))
	for _, s := range d.prog.Statements {
		d.stmt(s, 0)
	}
}

func (d *Disassembler) line(depth int, format string, args ...interface{}) {
	fmt.Fprintf(d.writer, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *Disassembler) stmt(s ast.Stmt, depth int) {
	if s == nil {
		d.line(depth, "<nil>")
		return
	}
	pos := s.Pos()
	switch v := s.(type) {
	case *ast.LetStmt:
		d.line(depth, "LetStmt %s %s", v.Name, pos)
		d.expr(v.Value, depth+1)
	case *ast.ConstStmt:
		d.line(depth, "ConstStmt %s %s", v.Name, pos)
		d.expr(v.Value, depth+1)
	case *ast.ExprStmt:
		d.line(depth, "ExprStmt %s", pos)
		d.expr(v.X, depth+1)
	case *ast.BlockStmt:
		d.line(depth, "BlockStmt %s", pos)
		for _, st := range v.Statements {
			d.stmt(st, depth+1)
		}
	case *ast.IfStmt:
		d.line(depth, "IfStmt %s", pos)
		d.expr(v.Cond, depth+1)
		d.stmt(v.Then, depth+1)
		if v.Else != nil {
			d.stmt(v.Else, depth+1)
		}
	case *ast.WhileStmt:
		d.line(depth, "WhileStmt %s", pos)
		d.expr(v.Cond, depth+1)
		d.stmt(v.Body, depth+1)
	case *ast.ForStmt:
		d.line(depth, "ForStmt %s", pos)
		if v.Init != nil {
			d.stmt(v.Init, depth+1)
		}
		if v.Cond != nil {
			d.expr(v.Cond, depth+1)
		}
		if v.Post != nil {
			d.stmt(v.Post, depth+1)
		}
		d.stmt(v.Body, depth+1)
	case *ast.ForInStmt:
		d.line(depth, "ForInStmt key=%q value=%q %s", v.KeyName, v.ValueName, pos)
		d.expr(v.Iterable, depth+1)
		d.stmt(v.Body, depth+1)
	case *ast.ReturnStmt:
		d.line(depth, "ReturnStmt %s", pos)
		if v.Value != nil {
			d.expr(v.Value, depth+1)
		}
	case *ast.BreakStmt:
		d.line(depth, "BreakStmt %s", pos)
	case *ast.ContinueStmt:
		d.line(depth, "ContinueStmt %s", pos)
	case *ast.TryStmt:
		d.line(depth, "TryStmt %s", pos)
		d.stmt(v.Try, depth+1)
		if v.Catch != nil {
			d.line(depth+1, "Catch %s", v.Catch.Name)
			d.stmt(v.Catch.Body, depth+2)
		}
		if v.Finally != nil {
			d.line(depth+1, "Finally")
			d.stmt(v.Finally, depth+2)
		}
	case *ast.ThrowStmt:
		d.line(depth, "ThrowStmt %s", pos)
		d.expr(v.Value, depth+1)
	case *ast.SwitchStmt:
		d.line(depth, "SwitchStmt %s", pos)
		d.expr(v.Discriminant, depth+1)
		for _, cs := range v.Cases {
			if len(cs.Values) == 0 {
				d.line(depth+1, "default:")
			} else {
				d.line(depth+1, "case:")
				for _, val := range cs.Values {
					d.expr(val, depth+2)
				}
			}
			for _, st := range cs.Body {
				d.stmt(st, depth+2)
			}
		}
	case *ast.DeferStmt:
		d.line(depth, "DeferStmt %s", pos)
		d.expr(v.Call, depth+1)
	case *ast.EnumStmt:
		d.line(depth, "EnumStmt %s %s", v.Name, pos)
		for _, m := range v.Members {
			d.line(depth+1, "member %s", m.Name)
			if m.Value != nil {
				d.expr(m.Value, depth+2)
			}
		}
	case *ast.DefineObjectStmt:
		d.line(depth, "DefineObjectStmt %s %s", v.Name, pos)
		for _, f := range v.Fields {
			d.line(depth+1, "field %s required=%t", f.Name, f.Required)
		}
	case *ast.ImportStmt:
		d.line(depth, "ImportStmt %q %s", v.Source, pos)
		for _, spec := range v.Specifiers {
			d.line(depth+1, "%s as %s", spec.Original, spec.Local)
		}
	case *ast.ExportStmt:
		d.line(depth, "ExportStmt %s", pos)
		d.stmt(v.Decl, depth+1)
	case *ast.ImportFFIStmt:
		d.line(depth, "ImportFFIStmt %q as %s %s", v.Library, v.Alias, pos)
	case *ast.ExternFnStmt:
		d.line(depth, "ExternFnStmt %s %s", v.Name, pos)
	default:
		d.line(depth, "<unhandled stmt %T>", s)
	}
}

func (d *Disassembler) expr(e ast.Expr, depth int) {
	if e == nil {
		d.line(depth, "<nil>")
		return
	}
	pos := e.Pos()
	switch v := e.(type) {
	case *ast.NullLit:
		d.line(depth, "NullLit %s", pos)
	case *ast.BoolLit:
		d.line(depth, "BoolLit %t %s", v.Value, pos)
	case *ast.IntLit:
		d.line(depth, "IntLit %s %s", v.Literal, pos)
	case *ast.FloatLit:
		d.line(depth, "FloatLit %s %s", v.Literal, pos)
	case *ast.StringLit:
		d.line(depth, "StringLit %q %s", v.Value, pos)
	case *ast.RuneLit:
		d.line(depth, "RuneLit %q %s", v.Value, pos)
	case *ast.Identifier:
		d.line(depth, "Identifier %s %s", v.Name, pos)
	case *ast.BinaryExpr:
		d.line(depth, "BinaryExpr %s %s", v.Op, pos)
		d.expr(v.Left, depth+1)
		d.expr(v.Right, depth+1)
	case *ast.UnaryExpr:
		d.line(depth, "UnaryExpr %s %s", v.Op, pos)
		d.expr(v.X, depth+1)
	case *ast.TernaryExpr:
		d.line(depth, "TernaryExpr %s", pos)
		d.expr(v.Cond, depth+1)
		d.expr(v.Then, depth+1)
		d.expr(v.Else, depth+1)
	case *ast.CallExpr:
		d.line(depth, "CallExpr %s", pos)
		d.expr(v.Callee, depth+1)
		for _, a := range v.Args {
			d.expr(a, depth+1)
		}
	case *ast.AssignExpr:
		d.line(depth, "AssignExpr %s %s", v.Op, pos)
		d.expr(v.Target, depth+1)
		d.expr(v.Value, depth+1)
	case *ast.PropertyExpr:
		d.line(depth, "PropertyExpr .%s optional=%t %s", v.Name, v.Optional, pos)
		d.expr(v.X, depth+1)
	case *ast.IndexExpr:
		d.line(depth, "IndexExpr optional=%t %s", v.Optional, pos)
		d.expr(v.X, depth+1)
		d.expr(v.Index, depth+1)
	case *ast.ArrayLit:
		d.line(depth, "ArrayLit %s", pos)
		for _, el := range v.Elements {
			d.expr(el, depth+1)
		}
	case *ast.ObjectLit:
		d.line(depth, "ObjectLit %s", pos)
		for _, f := range v.Fields {
			d.line(depth+1, "%s:", f.Key)
			d.expr(f.Value, depth+2)
		}
	case *ast.FunctionLit:
		d.line(depth, "FunctionLit %s async=%t %s", v.Name, v.IsAsync, pos)
		d.stmt(v.Body, depth+1)
	case *ast.IncDecExpr:
		d.line(depth, "IncDecExpr %s postfix=%t %s", v.Op, v.Postfix, pos)
		d.expr(v.X, depth+1)
	case *ast.InterpStringExpr:
		d.line(depth, "InterpStringExpr %s", pos)
		for i, p := range v.Parts {
			d.line(depth+1, "part %q", p)
			if i < len(v.Exprs) && v.Exprs[i] != nil {
				d.expr(v.Exprs[i], depth+2)
			}
		}
	case *ast.AwaitExpr:
		d.line(depth, "AwaitExpr %s", pos)
		d.expr(v.X, depth+1)
	case *ast.NullCoalesceExpr:
		d.line(depth, "NullCoalesceExpr %s", pos)
		d.expr(v.X, depth+1)
		d.expr(v.Default, depth+1)
	default:
		d.line(depth, "<unhandled expr %T>", e)
	}
}

// DisassembleToString returns the dump as a string, for callers (tests,
// the `--debug` CLI flag) that don't want to manage an io.Writer.
func DisassembleToString(prog *ast.Program) string {
	var sb strings.Builder
	NewDisassembler(prog, &sb).Disassemble()
	return sb.String()
}
