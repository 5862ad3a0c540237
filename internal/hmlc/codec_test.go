package hmlc

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTripSrc = `
import { sq } from "./math";

let total: i64 = 0;

fn accumulate(xs) {
	let i = 0;
	while (i < len(xs)) {
		total += xs[i];
		i = i + 1;
	}
	return total;
}

enum Color {
	Red,
	Green,
	Blue = 10,
}

type Point {
	x: i64,
	y?: i64,
}

fn run() {
	let p: Point = { x: 1, y: 2 };
	let arr = [1, 2, 3];
	let msg = "count is ${len(arr)}!";
	try {
		throw "boom";
	} catch (e) {
		print(e);
	} finally {
		print("done");
	}
	switch (p.x) {
	case 1:
		print("one");
	default:
		print("other");
	}
	let c = p?.x ?? 0;
	let d = arr[0]?.y;
	let i = 0;
	i++;
	--i;
	return accumulate(arr);
}

export let exported = run();
`

func TestEncodeDecodeRoundTrip(t *testing.T) {
	prog, err := parser.Parse("roundtrip.hml", roundTripSrc)
	require.NoError(t, err)

	data, err := Encode(prog, false)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, stmtKinds(prog.Statements), stmtKinds(got.Statements))
	assert.Equal(t, len(prog.Statements), len(got.Statements))
}

func TestEncodeDecodeRoundTripWithDebugPositions(t *testing.T) {
	prog, err := parser.Parse("roundtrip.hml", "let x = 1 + 2;")
	require.NoError(t, err)

	data, err := Encode(prog, true)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, got.Statements, 1)
	let, ok := got.Statements[0].(*ast.LetStmt)
	require.True(t, ok)
	assert.Equal(t, "roundtrip.hml", let.Pos().File)
	assert.Equal(t, prog.Statements[0].Pos().Line, let.Pos().Line)
}

func TestDisassembleToStringCoversDecodedProgram(t *testing.T) {
	prog, err := parser.Parse("dump.hml", roundTripSrc)
	require.NoError(t, err)

	data, err := Encode(prog, false)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	out := DisassembleToString(got)
	assert.Contains(t, out, "LetStmt")
	assert.Contains(t, out, "FunctionLit")
	assert.Contains(t, out, "TryStmt")
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := []byte("XXXX\x01\x00\x00\x00\x00\x00\x00\x00")
	_, err := Decode(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "magic")
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	prog, err := parser.Parse("v.hml", "let x = 1;")
	require.NoError(t, err)
	data, err := Encode(prog, false)
	require.NoError(t, err)

	// Version is the two bytes right after the 4-byte magic.
	corrupted := make([]byte, len(data))
	copy(corrupted, data)
	corrupted[4] = 99

	_, err = Decode(corrupted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestIntAndFloatLiteralsPreserveRawText(t *testing.T) {
	prog, err := parser.Parse("lit.hml", "let a = 1_048_576;\nlet b = 3.14159;\n")
	require.NoError(t, err)

	data, err := Encode(prog, false)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	origA := prog.Statements[0].(*ast.LetStmt).Value.(*ast.IntLit).Literal
	gotA := got.Statements[0].(*ast.LetStmt).Value.(*ast.IntLit).Literal
	assert.Equal(t, origA, gotA)

	origB := prog.Statements[1].(*ast.LetStmt).Value.(*ast.FloatLit).Literal
	gotB := got.Statements[1].(*ast.LetStmt).Value.(*ast.FloatLit).Literal
	assert.Equal(t, origB, gotB)
}

func stmtKinds(stmts []ast.Stmt) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = kindName(s)
	}
	return out
}

// kindName mirrors the writeStmt type switch so the test can assert
// structural equality without a full deep-compare helper.
func kindName(s ast.Stmt) string {
	switch s.(type) {
	case *ast.LetStmt:
		return "LetStmt"
	case *ast.ConstStmt:
		return "ConstStmt"
	case *ast.ExprStmt:
		return "ExprStmt"
	case *ast.BlockStmt:
		return "BlockStmt"
	case *ast.IfStmt:
		return "IfStmt"
	case *ast.WhileStmt:
		return "WhileStmt"
	case *ast.ForStmt:
		return "ForStmt"
	case *ast.ForInStmt:
		return "ForInStmt"
	case *ast.ReturnStmt:
		return "ReturnStmt"
	case *ast.BreakStmt:
		return "BreakStmt"
	case *ast.ContinueStmt:
		return "ContinueStmt"
	case *ast.TryStmt:
		return "TryStmt"
	case *ast.ThrowStmt:
		return "ThrowStmt"
	case *ast.SwitchStmt:
		return "SwitchStmt"
	case *ast.DeferStmt:
		return "DeferStmt"
	case *ast.EnumStmt:
		return "EnumStmt"
	case *ast.DefineObjectStmt:
		return "DefineObjectStmt"
	case *ast.ImportStmt:
		return "ImportStmt"
	case *ast.ExportStmt:
		return "ExportStmt"
	case *ast.ImportFFIStmt:
		return "ImportFFIStmt"
	case *ast.ExternFnStmt:
		return "ExternFnStmt"
	default:
		return "?"
	}
}
