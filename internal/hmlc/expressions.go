package hmlc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hemlock-lang/hemlock/internal/ast"
)

func (c *codec) writeExpr(w io.Writer, e ast.Expr) error {
	switch v := e.(type) {
	case *ast.NullLit:
		return c.writeSimpleExpr(w, kNullLit, v.Base)
	case *ast.BoolLit:
		return c.writeBoolLit(w, v)
	case *ast.IntLit:
		return c.writeIntLit(w, v)
	case *ast.FloatLit:
		return c.writeFloatLit(w, v)
	case *ast.StringLit:
		return c.writeStringLit(w, v)
	case *ast.RuneLit:
		return c.writeRuneLit(w, v)
	case *ast.Identifier:
		return c.writeIdentifier(w, v)
	case *ast.BinaryExpr:
		return c.writeBinaryExpr(w, v)
	case *ast.UnaryExpr:
		return c.writeUnaryExpr(w, v)
	case *ast.TernaryExpr:
		return c.writeTernaryExpr(w, v)
	case *ast.CallExpr:
		return c.writeCallExpr(w, v)
	case *ast.AssignExpr:
		return c.writeAssignExpr(w, v)
	case *ast.PropertyExpr:
		return c.writePropertyExpr(w, v)
	case *ast.IndexExpr:
		return c.writeIndexExpr(w, v)
	case *ast.ArrayLit:
		return c.writeArrayLit(w, v)
	case *ast.ObjectLit:
		return c.writeObjectLit(w, v)
	case *ast.FunctionLit:
		return c.writeFunctionLit(w, v)
	case *ast.IncDecExpr:
		return c.writeIncDecExpr(w, v)
	case *ast.InterpStringExpr:
		return c.writeInterpStringExpr(w, v)
	case *ast.AwaitExpr:
		return c.writeAwaitExpr(w, v)
	case *ast.NullCoalesceExpr:
		return c.writeNullCoalesceExpr(w, v)
	default:
		return fmt.Errorf("hmlc: unknown expression type %T", e)
	}
}

func (c *codec) readExpr(r io.Reader) (ast.Expr, error) {
	k, err := c.readKind(r)
	if err != nil {
		return nil, err
	}
	switch k {
	case kNullLit:
		pos, err := c.readPos(r)
		if err != nil {
			return nil, err
		}
		return &ast.NullLit{Base: ast.Base{P: pos}}, nil
	case kBoolLit:
		return c.readBoolLitBody(r)
	case kIntLit:
		return c.readIntLitBody(r)
	case kFloatLit:
		return c.readFloatLitBody(r)
	case kStringLit:
		return c.readStringLitBody(r)
	case kRuneLit:
		return c.readRuneLitBody(r)
	case kIdentifier:
		return c.readIdentifierBody(r)
	case kBinaryExpr:
		return c.readBinaryExprBody(r)
	case kUnaryExpr:
		return c.readUnaryExprBody(r)
	case kTernaryExpr:
		return c.readTernaryExprBody(r)
	case kCallExpr:
		return c.readCallExprBody(r)
	case kAssignExpr:
		return c.readAssignExprBody(r)
	case kPropertyExpr:
		return c.readPropertyExprBody(r)
	case kIndexExpr:
		return c.readIndexExprBody(r)
	case kArrayLit:
		return c.readArrayLitBody(r)
	case kObjectLit:
		return c.readObjectLitBody(r)
	case kFunctionLit:
		return c.readFunctionLitBody(r)
	case kIncDecExpr:
		return c.readIncDecExprBody(r)
	case kInterpStringExpr:
		return c.readInterpStringExprBody(r)
	case kAwaitExpr:
		return c.readAwaitExprBody(r)
	case kNullCoalesceExpr:
		return c.readNullCoalesceExprBody(r)
	default:
		return nil, fmt.Errorf("hmlc: unknown expression kind %d (%s)", k, k)
	}
}

func (c *codec) writeSimpleExpr(w io.Writer, k nodeKind, base ast.Base) error {
	if err := c.writeKind(w, k); err != nil {
		return err
	}
	return c.writePos(w, base.P)
}

func (c *codec) writeBoolLit(w io.Writer, e *ast.BoolLit) error {
	if err := c.writeKind(w, kBoolLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	return c.writeBool(w, e.Value)
}

func (c *codec) readBoolLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	value, err := c.readBool(r)
	if err != nil {
		return nil, err
	}
	return &ast.BoolLit{Base: ast.Base{P: pos}, Value: value}, nil
}

// writeIntLit/writeFloatLit preserve the literal's raw source text
// rather than re-deriving a canonical numeric width: the evaluator's
// own width-inference logic runs on this text either way, so the
// round trip is exact regardless of encoding and a re-parse of the
// decoded program behaves identically to a re-parse of the source.
func (c *codec) writeIntLit(w io.Writer, e *ast.IntLit) error {
	if err := c.writeKind(w, kIntLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	return c.writeString(w, e.Literal)
}

func (c *codec) readIntLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	lit, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	return &ast.IntLit{Base: ast.Base{P: pos}, Literal: lit}, nil
}

func (c *codec) writeFloatLit(w io.Writer, e *ast.FloatLit) error {
	if err := c.writeKind(w, kFloatLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	return c.writeString(w, e.Literal)
}

func (c *codec) readFloatLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	lit, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	return &ast.FloatLit{Base: ast.Base{P: pos}, Literal: lit}, nil
}

func (c *codec) writeStringLit(w io.Writer, e *ast.StringLit) error {
	if err := c.writeKind(w, kStringLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	return c.writeString(w, e.Value)
}

func (c *codec) readStringLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	value, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	return &ast.StringLit{Base: ast.Base{P: pos}, Value: value}, nil
}

func (c *codec) writeRuneLit(w io.Writer, e *ast.RuneLit) error {
	if err := c.writeKind(w, kRuneLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, int32(e.Value))
}

func (c *codec) readRuneLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return nil, err
	}
	return &ast.RuneLit{Base: ast.Base{P: pos}, Value: rune(v)}, nil
}

func (c *codec) writeIdentifier(w io.Writer, e *ast.Identifier) error {
	if err := c.writeKind(w, kIdentifier); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	return c.writeString(w, e.Name)
}

func (c *codec) readIdentifierBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	name, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Base: ast.Base{P: pos}, Name: name}, nil
}

func (c *codec) writeBinaryExpr(w io.Writer, e *ast.BinaryExpr) error {
	if err := c.writeKind(w, kBinaryExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeString(w, e.Op); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.Left); err != nil {
		return err
	}
	return c.writeExpr(w, e.Right)
}

func (c *codec) readBinaryExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	op, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	left, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	right, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Base: ast.Base{P: pos}, Op: op, Left: left, Right: right}, nil
}

func (c *codec) writeUnaryExpr(w io.Writer, e *ast.UnaryExpr) error {
	if err := c.writeKind(w, kUnaryExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeString(w, e.Op); err != nil {
		return err
	}
	return c.writeExpr(w, e.X)
}

func (c *codec) readUnaryExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	op, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	x, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Base: ast.Base{P: pos}, Op: op, X: x}, nil
}

func (c *codec) writeTernaryExpr(w io.Writer, e *ast.TernaryExpr) error {
	if err := c.writeKind(w, kTernaryExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.Cond); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.Then); err != nil {
		return err
	}
	return c.writeExpr(w, e.Else)
}

func (c *codec) readTernaryExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	cond, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	then, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	els, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpr{Base: ast.Base{P: pos}, Cond: cond, Then: then, Else: els}, nil
}

func (c *codec) writeCallExpr(w io.Writer, e *ast.CallExpr) error {
	if err := c.writeKind(w, kCallExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.Callee); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Args))); err != nil {
		return err
	}
	for _, a := range e.Args {
		if err := c.writeExpr(w, a); err != nil {
			return err
		}
	}
	return nil
}

func (c *codec) readCallExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	callee, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	args := make([]ast.Expr, n)
	for i := range args {
		a, err := c.readExpr(r)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return &ast.CallExpr{Base: ast.Base{P: pos}, Callee: callee, Args: args}, nil
}

func (c *codec) writeAssignExpr(w io.Writer, e *ast.AssignExpr) error {
	if err := c.writeKind(w, kAssignExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.Target); err != nil {
		return err
	}
	if err := c.writeString(w, e.Op); err != nil {
		return err
	}
	return c.writeExpr(w, e.Value)
}

func (c *codec) readAssignExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	target, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	op, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	value, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{Base: ast.Base{P: pos}, Target: target, Op: op, Value: value}, nil
}

func (c *codec) writePropertyExpr(w io.Writer, e *ast.PropertyExpr) error {
	if err := c.writeKind(w, kPropertyExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.X); err != nil {
		return err
	}
	if err := c.writeString(w, e.Name); err != nil {
		return err
	}
	return c.writeBool(w, e.Optional)
}

func (c *codec) readPropertyExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	x, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	name, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	optional, err := c.readBool(r)
	if err != nil {
		return nil, err
	}
	return &ast.PropertyExpr{Base: ast.Base{P: pos}, X: x, Name: name, Optional: optional}, nil
}

func (c *codec) writeIndexExpr(w io.Writer, e *ast.IndexExpr) error {
	if err := c.writeKind(w, kIndexExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.X); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.Index); err != nil {
		return err
	}
	return c.writeBool(w, e.Optional)
}

func (c *codec) readIndexExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	x, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	index, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	optional, err := c.readBool(r)
	if err != nil {
		return nil, err
	}
	return &ast.IndexExpr{Base: ast.Base{P: pos}, X: x, Index: index, Optional: optional}, nil
}

func (c *codec) writeArrayLit(w io.Writer, e *ast.ArrayLit) error {
	if err := c.writeKind(w, kArrayLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Elements))); err != nil {
		return err
	}
	for _, el := range e.Elements {
		if err := c.writeExpr(w, el); err != nil {
			return err
		}
	}
	return nil
}

func (c *codec) readArrayLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	elements := make([]ast.Expr, n)
	for i := range elements {
		el, err := c.readExpr(r)
		if err != nil {
			return nil, err
		}
		elements[i] = el
	}
	return &ast.ArrayLit{Base: ast.Base{P: pos}, Elements: elements}, nil
}

func (c *codec) writeObjectLit(w io.Writer, e *ast.ObjectLit) error {
	if err := c.writeKind(w, kObjectLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Fields))); err != nil {
		return err
	}
	for _, f := range e.Fields {
		if err := c.writeString(w, f.Key); err != nil {
			return err
		}
		if err := c.writeExpr(w, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func (c *codec) readObjectLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	fields := make([]ast.ObjectField2, n)
	for i := range fields {
		key, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		value, err := c.readExpr(r)
		if err != nil {
			return nil, err
		}
		fields[i] = ast.ObjectField2{Key: key, Value: value}
	}
	return &ast.ObjectLit{Base: ast.Base{P: pos}, Fields: fields}, nil
}

func (c *codec) writeFunctionLit(w io.Writer, e *ast.FunctionLit) error {
	if err := c.writeKind(w, kFunctionLit); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeString(w, e.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Params))); err != nil {
		return err
	}
	for _, p := range e.Params {
		if err := c.writeString(w, p.Name); err != nil {
			return err
		}
		if err := c.writeOptExpr(w, p.Default); err != nil {
			return err
		}
		if err := c.writeOptType(w, p.Type); err != nil {
			return err
		}
	}
	if err := c.writeBool(w, e.IsAsync); err != nil {
		return err
	}
	return c.writeStmt(w, e.Body)
}

func (c *codec) readFunctionLitBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	name, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	params := make([]ast.Param, n)
	for i := range params {
		pname, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		def, err := c.readOptExpr(r)
		if err != nil {
			return nil, err
		}
		typ, err := c.readOptType(r)
		if err != nil {
			return nil, err
		}
		params[i] = ast.Param{Name: pname, Default: def, Type: typ}
	}
	isAsync, err := c.readBool(r)
	if err != nil {
		return nil, err
	}
	body, err := c.readBlock(r)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLit{Base: ast.Base{P: pos}, Name: name, Params: params, IsAsync: isAsync, Body: body}, nil
}

func (c *codec) writeIncDecExpr(w io.Writer, e *ast.IncDecExpr) error {
	if err := c.writeKind(w, kIncDecExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.X); err != nil {
		return err
	}
	if err := c.writeString(w, e.Op); err != nil {
		return err
	}
	return c.writeBool(w, e.Postfix)
}

func (c *codec) readIncDecExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	x, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	op, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	postfix, err := c.readBool(r)
	if err != nil {
		return nil, err
	}
	return &ast.IncDecExpr{Base: ast.Base{P: pos}, X: x, Op: op, Postfix: postfix}, nil
}

// writeInterpStringExpr: Exprs[i] follows Parts[i] and Exprs has one
// entry fewer than Parts (see ast.InterpStringExpr doc); each slot
// round-trips through writeOptExpr/readOptExpr.
func (c *codec) writeInterpStringExpr(w io.Writer, e *ast.InterpStringExpr) error {
	if err := c.writeKind(w, kInterpStringExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Parts))); err != nil {
		return err
	}
	for _, p := range e.Parts {
		if err := c.writeString(w, p); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Exprs))); err != nil {
		return err
	}
	for _, ex := range e.Exprs {
		if err := c.writeOptExpr(w, ex); err != nil {
			return err
		}
	}
	return nil
}

func (c *codec) readInterpStringExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	var partCount uint32
	if err := binary.Read(r, binary.LittleEndian, &partCount); err != nil {
		return nil, err
	}
	parts := make([]string, partCount)
	for i := range parts {
		p, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	var exprCount uint32
	if err := binary.Read(r, binary.LittleEndian, &exprCount); err != nil {
		return nil, err
	}
	exprs := make([]ast.Expr, exprCount)
	for i := range exprs {
		ex, err := c.readOptExpr(r)
		if err != nil {
			return nil, err
		}
		exprs[i] = ex
	}
	return &ast.InterpStringExpr{Base: ast.Base{P: pos}, Parts: parts, Exprs: exprs}, nil
}

func (c *codec) writeAwaitExpr(w io.Writer, e *ast.AwaitExpr) error {
	if err := c.writeKind(w, kAwaitExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	return c.writeExpr(w, e.X)
}

func (c *codec) readAwaitExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	x, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.AwaitExpr{Base: ast.Base{P: pos}, X: x}, nil
}

func (c *codec) writeNullCoalesceExpr(w io.Writer, e *ast.NullCoalesceExpr) error {
	if err := c.writeKind(w, kNullCoalesceExpr); err != nil {
		return err
	}
	if err := c.writePos(w, e.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, e.X); err != nil {
		return err
	}
	return c.writeExpr(w, e.Default)
}

func (c *codec) readNullCoalesceExprBody(r io.Reader) (ast.Expr, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	x, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	def, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.NullCoalesceExpr{Base: ast.Base{P: pos}, X: x, Default: def}, nil
}
