package parser

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New("t.hml", src)
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors: %v", p.Errors())
	return prog
}

func TestParseLetWithTypeAnnotation(t *testing.T) {
	prog := parseOK(t, "let x: i32 = 5;")
	require.Len(t, prog.Statements, 1)
	let := prog.Statements[0].(*ast.LetStmt)
	assert.Equal(t, "x", let.Name)
	require.NotNil(t, let.Type)
	assert.Equal(t, "i32", let.Type.(*ast.PrimitiveType).Name)
	assert.Equal(t, "5", let.Value.(*ast.IntLit).Literal)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := parseOK(t, "let x = 1 + 2 * 3;")
	bin := prog.Statements[0].(*ast.LetStmt).Value.(*ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	rhs := bin.Right.(*ast.BinaryExpr)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseTernaryAndNullCoalesce(t *testing.T) {
	prog := parseOK(t, "let x = a ? b : c ?? d;")
	tern := prog.Statements[0].(*ast.LetStmt).Value.(*ast.TernaryExpr)
	_, ok := tern.Else.(*ast.NullCoalesceExpr)
	assert.True(t, ok)
}

func TestParseCallIndexPropertyChain(t *testing.T) {
	prog := parseOK(t, "foo(1, 2)[0].bar;")
	expr := prog.Statements[0].(*ast.ExprStmt).X
	prop := expr.(*ast.PropertyExpr)
	assert.Equal(t, "bar", prop.Name)
	idx := prop.X.(*ast.IndexExpr)
	call := idx.X.(*ast.CallExpr)
	assert.Len(t, call.Args, 2)
}

func TestParseOptionalChainAndOptionalIndex(t *testing.T) {
	prog := parseOK(t, "a?.b; a?.[0];")
	prop := prog.Statements[0].(*ast.ExprStmt).X.(*ast.PropertyExpr)
	assert.True(t, prop.Optional)
	idx := prog.Statements[1].(*ast.ExprStmt).X.(*ast.IndexExpr)
	assert.True(t, idx.Optional)
}

func TestParseIfElseIfChain(t *testing.T) {
	prog := parseOK(t, `
		if (a) { x; } else if (b) { y; } else { z; }
	`)
	ifs := prog.Statements[0].(*ast.IfStmt)
	elseIf := ifs.Else.(*ast.IfStmt)
	assert.NotNil(t, elseIf.Else)
}

func TestParseForInWithKeyAndValue(t *testing.T) {
	prog := parseOK(t, "for (let k, v in arr) { x; }")
	f := prog.Statements[0].(*ast.ForInStmt)
	assert.Equal(t, "k", f.KeyName)
	assert.Equal(t, "v", f.ValueName)
}

func TestParseForInDoesNotConsumeCStyleFor(t *testing.T) {
	prog := parseOK(t, "for (let i = 0; i < 10; i = i + 1) { x; }")
	f := prog.Statements[0].(*ast.ForStmt)
	require.NotNil(t, f.Init)
	require.NotNil(t, f.Cond)
	require.NotNil(t, f.Post)
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parseOK(t, `
		try { a; } catch (e) { b; } finally { c; }
	`)
	ts := prog.Statements[0].(*ast.TryStmt)
	require.NotNil(t, ts.Catch)
	assert.Equal(t, "e", ts.Catch.Name)
	require.NotNil(t, ts.Finally)
}

func TestParseSwitchWithMultiValueCase(t *testing.T) {
	prog := parseOK(t, `
		switch (x) {
			case 1, 2: a;
			default: b;
		}
	`)
	sw := prog.Statements[0].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	assert.Len(t, sw.Cases[0].Values, 2)
	assert.Empty(t, sw.Cases[1].Values)
}

func TestParseEnumWithAutoAndExplicitValues(t *testing.T) {
	prog := parseOK(t, `
		enum Color { Red, Green = 5, Blue }
	`)
	e := prog.Statements[0].(*ast.EnumStmt)
	require.Len(t, e.Members, 3)
	assert.Nil(t, e.Members[0].Value)
	assert.NotNil(t, e.Members[1].Value)
}

func TestParseImportWithAlias(t *testing.T) {
	prog := parseOK(t, `import { foo as bar, baz } from "@stdlib/math";`)
	im := prog.Statements[0].(*ast.ImportStmt)
	assert.Equal(t, "@stdlib/math", im.Source)
	require.Len(t, im.Specifiers, 2)
	assert.Equal(t, "bar", im.Specifiers[0].Local)
	assert.Equal(t, "foo", im.Specifiers[0].Original)
}

func TestParseDefineObjectWithOptionalField(t *testing.T) {
	prog := parseOK(t, `
		type Point { x: i32, y?: i32, }
	`)
	def := prog.Statements[0].(*ast.DefineObjectStmt)
	require.Len(t, def.Fields, 2)
	assert.True(t, def.Fields[0].Required)
	assert.False(t, def.Fields[1].Required)
}

func TestParseExternFnAndImportFFI(t *testing.T) {
	prog := parseOK(t, `
		import_ffi "libm.so" as m;
		extern_fn sqrt(f64): f64;
	`)
	ffi := prog.Statements[0].(*ast.ImportFFIStmt)
	assert.Equal(t, "libm.so", ffi.Library)
	assert.Equal(t, "m", ffi.Alias)
	ext := prog.Statements[1].(*ast.ExternFnStmt)
	assert.Equal(t, "sqrt", ext.Name)
	require.Len(t, ext.ParamTypes, 1)
}

func TestParseFunctionLitWithDefaultsAndArrayType(t *testing.T) {
	prog := parseOK(t, `
		let f = fn add(a: array<i32>, b: i32 = 1) { return a + b; };
	`)
	let := prog.Statements[0].(*ast.LetStmt)
	fn := let.Value.(*ast.FunctionLit)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.IsType(t, &ast.ArrayType{}, fn.Params[0].Type)
	assert.NotNil(t, fn.Params[1].Default)
}

func TestParseArrayType(t *testing.T) {
	prog := parseOK(t, `extern_fn sum(array<i32>): i32;`)
	ext := prog.Statements[0].(*ast.ExternFnStmt)
	arr := ext.ParamTypes[0].(*ast.ArrayType)
	assert.Equal(t, "i32", arr.Elem.(*ast.PrimitiveType).Name)
}

func TestParseInterpolatedString(t *testing.T) {
	prog := parseOK(t, `let s = "count: ${n * 2}";`)
	let := prog.Statements[0].(*ast.LetStmt)
	is := let.Value.(*ast.InterpStringExpr)
	require.Len(t, is.Parts, 2)
	assert.Equal(t, "count: ", is.Parts[0])
	require.Len(t, is.Exprs, 1)
	bin := is.Exprs[0].(*ast.BinaryExpr)
	assert.Equal(t, "*", bin.Op)
}

func TestParseDeferAndThrow(t *testing.T) {
	prog := parseOK(t, `
		defer close(f);
		throw "boom";
	`)
	d := prog.Statements[0].(*ast.DeferStmt)
	_, ok := d.Call.(*ast.CallExpr)
	assert.True(t, ok)
	th := prog.Statements[1].(*ast.ThrowStmt)
	assert.Equal(t, "boom", th.Value.(*ast.StringLit).Value)
}

func TestParseArrayAndObjectLiterals(t *testing.T) {
	prog := parseOK(t, `let o = { x: 1, y: [1, 2, 3] };`)
	let := prog.Statements[0].(*ast.LetStmt)
	obj := let.Value.(*ast.ObjectLit)
	require.Len(t, obj.Fields, 2)
	arr := obj.Fields[1].Value.(*ast.ArrayLit)
	assert.Len(t, arr.Elements, 3)
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	prog := parseOK(t, "a = b = 1;")
	assign := prog.Statements[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	_, ok := assign.Value.(*ast.AssignExpr)
	assert.True(t, ok)
}

func TestParseIncDecPrefixAndPostfix(t *testing.T) {
	prog := parseOK(t, "++a; a++;")
	pre := prog.Statements[0].(*ast.ExprStmt).X.(*ast.IncDecExpr)
	assert.False(t, pre.Postfix)
	post := prog.Statements[1].(*ast.ExprStmt).X.(*ast.IncDecExpr)
	assert.True(t, post.Postfix)
}

func TestParseExportWrapsDeclaration(t *testing.T) {
	prog := parseOK(t, "export let x = 1;")
	ex := prog.Statements[0].(*ast.ExportStmt)
	_, ok := ex.Decl.(*ast.LetStmt)
	assert.True(t, ok)
}

func TestParseErrorsAreAccumulatedNotPanicked(t *testing.T) {
	p := New("t.hml", "let = ;")
	assert.NotPanics(t, func() { p.ParseProgram() })
	assert.NotEmpty(t, p.Errors())
}
