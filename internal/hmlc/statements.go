package hmlc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hemlock-lang/hemlock/internal/ast"
)

func (c *codec) writeStmt(w io.Writer, s ast.Stmt) error {
	switch v := s.(type) {
	case *ast.LetStmt:
		return c.writeLetStmt(w, v)
	case *ast.ConstStmt:
		return c.writeConstStmt(w, v)
	case *ast.ExprStmt:
		return c.writeExprStmt(w, v)
	case *ast.BlockStmt:
		return c.writeBlockStmt(w, v)
	case *ast.IfStmt:
		return c.writeIfStmt(w, v)
	case *ast.WhileStmt:
		return c.writeWhileStmt(w, v)
	case *ast.ForStmt:
		return c.writeForStmt(w, v)
	case *ast.ForInStmt:
		return c.writeForInStmt(w, v)
	case *ast.ReturnStmt:
		return c.writeReturnStmt(w, v)
	case *ast.BreakStmt:
		return c.writeSimpleStmt(w, kBreakStmt, v.Base)
	case *ast.ContinueStmt:
		return c.writeSimpleStmt(w, kContinueStmt, v.Base)
	case *ast.TryStmt:
		return c.writeTryStmt(w, v)
	case *ast.ThrowStmt:
		return c.writeThrowStmt(w, v)
	case *ast.SwitchStmt:
		return c.writeSwitchStmt(w, v)
	case *ast.DeferStmt:
		return c.writeDeferStmt(w, v)
	case *ast.EnumStmt:
		return c.writeEnumStmt(w, v)
	case *ast.DefineObjectStmt:
		return c.writeDefineObjectStmt(w, v)
	case *ast.ImportStmt:
		return c.writeImportStmt(w, v)
	case *ast.ExportStmt:
		return c.writeExportStmt(w, v)
	case *ast.ImportFFIStmt:
		return c.writeImportFFIStmt(w, v)
	case *ast.ExternFnStmt:
		return c.writeExternFnStmt(w, v)
	default:
		return fmt.Errorf("hmlc: unknown statement type %T", s)
	}
}

func (c *codec) readStmt(r io.Reader) (ast.Stmt, error) {
	k, err := c.readKind(r)
	if err != nil {
		return nil, err
	}
	switch k {
	case kLetStmt:
		return c.readLetStmtBody(r)
	case kConstStmt:
		return c.readConstStmtBody(r)
	case kExprStmt:
		return c.readExprStmtBody(r)
	case kBlockStmt:
		return c.readBlockStmtBody(r)
	case kIfStmt:
		return c.readIfStmtBody(r)
	case kWhileStmt:
		return c.readWhileStmtBody(r)
	case kForStmt:
		return c.readForStmtBody(r)
	case kForInStmt:
		return c.readForInStmtBody(r)
	case kReturnStmt:
		return c.readReturnStmtBody(r)
	case kBreakStmt:
		pos, err := c.readPos(r)
		if err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Base: ast.Base{P: pos}}, nil
	case kContinueStmt:
		pos, err := c.readPos(r)
		if err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Base: ast.Base{P: pos}}, nil
	case kTryStmt:
		return c.readTryStmtBody(r)
	case kThrowStmt:
		return c.readThrowStmtBody(r)
	case kSwitchStmt:
		return c.readSwitchStmtBody(r)
	case kDeferStmt:
		return c.readDeferStmtBody(r)
	case kEnumStmt:
		return c.readEnumStmtBody(r)
	case kDefineObjectStmt:
		return c.readDefineObjectStmtBody(r)
	case kImportStmt:
		return c.readImportStmtBody(r)
	case kExportStmt:
		return c.readExportStmtBody(r)
	case kImportFFIStmt:
		return c.readImportFFIStmtBody(r)
	case kExternFnStmt:
		return c.readExternFnStmtBody(r)
	default:
		return nil, fmt.Errorf("hmlc: unknown statement kind %d (%s)", k, k)
	}
}

func (c *codec) writeSimpleStmt(w io.Writer, k nodeKind, base ast.Base) error {
	if err := c.writeKind(w, k); err != nil {
		return err
	}
	return c.writePos(w, base.P)
}

func (c *codec) writeLetStmt(w io.Writer, s *ast.LetStmt) error {
	if err := c.writeKind(w, kLetStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeString(w, s.Name); err != nil {
		return err
	}
	if err := c.writeOptType(w, s.Type); err != nil {
		return err
	}
	return c.writeExpr(w, s.Value)
}

func (c *codec) readLetStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	name, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	typ, err := c.readOptType(r)
	if err != nil {
		return nil, err
	}
	value, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.LetStmt{Base: ast.Base{P: pos}, Name: name, Type: typ, Value: value}, nil
}

func (c *codec) writeConstStmt(w io.Writer, s *ast.ConstStmt) error {
	if err := c.writeKind(w, kConstStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeString(w, s.Name); err != nil {
		return err
	}
	if err := c.writeOptType(w, s.Type); err != nil {
		return err
	}
	return c.writeExpr(w, s.Value)
}

func (c *codec) readConstStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	name, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	typ, err := c.readOptType(r)
	if err != nil {
		return nil, err
	}
	value, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.ConstStmt{Base: ast.Base{P: pos}, Name: name, Type: typ, Value: value}, nil
}

func (c *codec) writeExprStmt(w io.Writer, s *ast.ExprStmt) error {
	if err := c.writeKind(w, kExprStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	return c.writeExpr(w, s.X)
}

func (c *codec) readExprStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	x, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Base: ast.Base{P: pos}, X: x}, nil
}

func (c *codec) writeBlockStmt(w io.Writer, s *ast.BlockStmt) error {
	if err := c.writeKind(w, kBlockStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Statements))); err != nil {
		return err
	}
	for _, st := range s.Statements {
		if err := c.writeStmt(w, st); err != nil {
			return err
		}
	}
	return nil
}

func (c *codec) readBlockStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	stmts := make([]ast.Stmt, n)
	for i := range stmts {
		s, err := c.readStmt(r)
		if err != nil {
			return nil, err
		}
		stmts[i] = s
	}
	return &ast.BlockStmt{Base: ast.Base{P: pos}, Statements: stmts}, nil
}

// readBlock reads a statement known to be a BlockStmt record (used
// wherever an AST field is typed *ast.BlockStmt directly, e.g.
// IfStmt.Then).
func (c *codec) readBlock(r io.Reader) (*ast.BlockStmt, error) {
	s, err := c.readStmt(r)
	if err != nil {
		return nil, err
	}
	b, ok := s.(*ast.BlockStmt)
	if !ok {
		return nil, fmt.Errorf("hmlc: expected BlockStmt, got %T", s)
	}
	return b, nil
}

func (c *codec) writeIfStmt(w io.Writer, s *ast.IfStmt) error {
	if err := c.writeKind(w, kIfStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, s.Cond); err != nil {
		return err
	}
	if err := c.writeStmt(w, s.Then); err != nil {
		return err
	}
	return c.writeOptStmt(w, s.Else)
}

func (c *codec) readIfStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	cond, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	then, err := c.readBlock(r)
	if err != nil {
		return nil, err
	}
	els, err := c.readOptStmt(r)
	if err != nil {
		return nil, err
	}
	return &ast.IfStmt{Base: ast.Base{P: pos}, Cond: cond, Then: then, Else: els}, nil
}

func (c *codec) writeWhileStmt(w io.Writer, s *ast.WhileStmt) error {
	if err := c.writeKind(w, kWhileStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, s.Cond); err != nil {
		return err
	}
	return c.writeStmt(w, s.Body)
}

func (c *codec) readWhileStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	cond, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	body, err := c.readBlock(r)
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Base: ast.Base{P: pos}, Cond: cond, Body: body}, nil
}

func (c *codec) writeForStmt(w io.Writer, s *ast.ForStmt) error {
	if err := c.writeKind(w, kForStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeOptStmt(w, s.Init); err != nil {
		return err
	}
	if err := c.writeOptExpr(w, s.Cond); err != nil {
		return err
	}
	if err := c.writeOptStmt(w, s.Post); err != nil {
		return err
	}
	return c.writeStmt(w, s.Body)
}

func (c *codec) readForStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	init, err := c.readOptStmt(r)
	if err != nil {
		return nil, err
	}
	cond, err := c.readOptExpr(r)
	if err != nil {
		return nil, err
	}
	post, err := c.readOptStmt(r)
	if err != nil {
		return nil, err
	}
	body, err := c.readBlock(r)
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Base: ast.Base{P: pos}, Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (c *codec) writeForInStmt(w io.Writer, s *ast.ForInStmt) error {
	if err := c.writeKind(w, kForInStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeString(w, s.KeyName); err != nil {
		return err
	}
	if err := c.writeString(w, s.ValueName); err != nil {
		return err
	}
	if err := c.writeExpr(w, s.Iterable); err != nil {
		return err
	}
	return c.writeStmt(w, s.Body)
}

func (c *codec) readForInStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	key, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	val, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	iterable, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	body, err := c.readBlock(r)
	if err != nil {
		return nil, err
	}
	return &ast.ForInStmt{Base: ast.Base{P: pos}, KeyName: key, ValueName: val, Iterable: iterable, Body: body}, nil
}

func (c *codec) writeReturnStmt(w io.Writer, s *ast.ReturnStmt) error {
	if err := c.writeKind(w, kReturnStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	return c.writeOptExpr(w, s.Value)
}

func (c *codec) readReturnStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	value, err := c.readOptExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Base: ast.Base{P: pos}, Value: value}, nil
}

func (c *codec) writeTryStmt(w io.Writer, s *ast.TryStmt) error {
	if err := c.writeKind(w, kTryStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeStmt(w, s.Try); err != nil {
		return err
	}
	hasCatch := s.Catch != nil
	if err := c.writeBool(w, hasCatch); err != nil {
		return err
	}
	if hasCatch {
		if err := c.writeString(w, s.Catch.Name); err != nil {
			return err
		}
		if err := c.writeStmt(w, s.Catch.Body); err != nil {
			return err
		}
	}
	return c.writeOptBlock(w, s.Finally)
}

func (c *codec) readTryStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	tryBlock, err := c.readBlock(r)
	if err != nil {
		return nil, err
	}
	hasCatch, err := c.readBool(r)
	if err != nil {
		return nil, err
	}
	var catch *ast.CatchClause
	if hasCatch {
		name, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		body, err := c.readBlock(r)
		if err != nil {
			return nil, err
		}
		catch = &ast.CatchClause{Name: name, Body: body}
	}
	finally, err := c.readOptBlock(r)
	if err != nil {
		return nil, err
	}
	return &ast.TryStmt{Base: ast.Base{P: pos}, Try: tryBlock, Catch: catch, Finally: finally}, nil
}

func (c *codec) writeThrowStmt(w io.Writer, s *ast.ThrowStmt) error {
	if err := c.writeKind(w, kThrowStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	return c.writeExpr(w, s.Value)
}

func (c *codec) readThrowStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	value, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStmt{Base: ast.Base{P: pos}, Value: value}, nil
}

func (c *codec) writeSwitchStmt(w io.Writer, s *ast.SwitchStmt) error {
	if err := c.writeKind(w, kSwitchStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeExpr(w, s.Discriminant); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Cases))); err != nil {
		return err
	}
	for _, cs := range s.Cases {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(cs.Values))); err != nil {
			return err
		}
		for _, v := range cs.Values {
			if err := c.writeExpr(w, v); err != nil {
				return err
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(cs.Body))); err != nil {
			return err
		}
		for _, st := range cs.Body {
			if err := c.writeStmt(w, st); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *codec) readSwitchStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	disc, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	var caseCount uint32
	if err := binary.Read(r, binary.LittleEndian, &caseCount); err != nil {
		return nil, err
	}
	cases := make([]*ast.SwitchCase, caseCount)
	for i := range cases {
		var valCount uint32
		if err := binary.Read(r, binary.LittleEndian, &valCount); err != nil {
			return nil, err
		}
		values := make([]ast.Expr, valCount)
		for j := range values {
			v, err := c.readExpr(r)
			if err != nil {
				return nil, err
			}
			values[j] = v
		}
		var bodyCount uint32
		if err := binary.Read(r, binary.LittleEndian, &bodyCount); err != nil {
			return nil, err
		}
		body := make([]ast.Stmt, bodyCount)
		for j := range body {
			st, err := c.readStmt(r)
			if err != nil {
				return nil, err
			}
			body[j] = st
		}
		cases[i] = &ast.SwitchCase{Values: values, Body: body}
	}
	return &ast.SwitchStmt{Base: ast.Base{P: pos}, Discriminant: disc, Cases: cases}, nil
}

func (c *codec) writeDeferStmt(w io.Writer, s *ast.DeferStmt) error {
	if err := c.writeKind(w, kDeferStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	return c.writeExpr(w, s.Call)
}

func (c *codec) readDeferStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	call, err := c.readExpr(r)
	if err != nil {
		return nil, err
	}
	return &ast.DeferStmt{Base: ast.Base{P: pos}, Call: call}, nil
}

func (c *codec) writeEnumStmt(w io.Writer, s *ast.EnumStmt) error {
	if err := c.writeKind(w, kEnumStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeString(w, s.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Members))); err != nil {
		return err
	}
	for _, m := range s.Members {
		if err := c.writeString(w, m.Name); err != nil {
			return err
		}
		if err := c.writeOptExpr(w, m.Value); err != nil {
			return err
		}
	}
	return nil
}

func (c *codec) readEnumStmtBody(r io.Reader) (ast.Stmt, error) {
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
	members := make([]ast.EnumMember, n)
	for i := range members {
		mname, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		mval, err := c.readOptExpr(r)
		if err != nil {
			return nil, err
		}
		members[i] = ast.EnumMember{Name: mname, Value: mval}
	}
	return &ast.EnumStmt{Base: ast.Base{P: pos}, Name: name, Members: members}, nil
}

func (c *codec) writeDefineObjectStmt(w io.Writer, s *ast.DefineObjectStmt) error {
	if err := c.writeKind(w, kDefineObjectStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeString(w, s.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Fields))); err != nil {
		return err
	}
	for _, f := range s.Fields {
		if err := c.writeString(w, f.Name); err != nil {
			return err
		}
		if err := c.writeType(w, f.Type); err != nil {
			return err
		}
		if err := c.writeBool(w, f.Required); err != nil {
			return err
		}
	}
	return nil
}

func (c *codec) readDefineObjectStmtBody(r io.Reader) (ast.Stmt, error) {
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
	fields := make([]ast.ObjectField, n)
	for i := range fields {
		fname, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		ftype, err := c.readType(r)
		if err != nil {
			return nil, err
		}
		required, err := c.readBool(r)
		if err != nil {
			return nil, err
		}
		fields[i] = ast.ObjectField{Name: fname, Type: ftype, Required: required}
	}
	return &ast.DefineObjectStmt{Base: ast.Base{P: pos}, Name: name, Fields: fields}, nil
}

func (c *codec) writeImportStmt(w io.Writer, s *ast.ImportStmt) error {
	if err := c.writeKind(w, kImportStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Specifiers))); err != nil {
		return err
	}
	for _, spec := range s.Specifiers {
		if err := c.writeString(w, spec.Local); err != nil {
			return err
		}
		if err := c.writeString(w, spec.Original); err != nil {
			return err
		}
	}
	return c.writeString(w, s.Source)
}

func (c *codec) readImportStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	specs := make([]ast.ImportSpecifier, n)
	for i := range specs {
		local, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		orig, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		specs[i] = ast.ImportSpecifier{Local: local, Original: orig}
	}
	source, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	return &ast.ImportStmt{Base: ast.Base{P: pos}, Specifiers: specs, Source: source}, nil
}

func (c *codec) writeExportStmt(w io.Writer, s *ast.ExportStmt) error {
	if err := c.writeKind(w, kExportStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	return c.writeStmt(w, s.Decl)
}

func (c *codec) readExportStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	decl, err := c.readStmt(r)
	if err != nil {
		return nil, err
	}
	return &ast.ExportStmt{Base: ast.Base{P: pos}, Decl: decl}, nil
}

func (c *codec) writeImportFFIStmt(w io.Writer, s *ast.ImportFFIStmt) error {
	if err := c.writeKind(w, kImportFFIStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeString(w, s.Library); err != nil {
		return err
	}
	return c.writeString(w, s.Alias)
}

func (c *codec) readImportFFIStmtBody(r io.Reader) (ast.Stmt, error) {
	pos, err := c.readPos(r)
	if err != nil {
		return nil, err
	}
	lib, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	alias, err := c.readString(r)
	if err != nil {
		return nil, err
	}
	return &ast.ImportFFIStmt{Base: ast.Base{P: pos}, Library: lib, Alias: alias}, nil
}

func (c *codec) writeExternFnStmt(w io.Writer, s *ast.ExternFnStmt) error {
	if err := c.writeKind(w, kExternFnStmt); err != nil {
		return err
	}
	if err := c.writePos(w, s.P); err != nil {
		return err
	}
	if err := c.writeString(w, s.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.ParamTypes))); err != nil {
		return err
	}
	for _, t := range s.ParamTypes {
		if err := c.writeType(w, t); err != nil {
			return err
		}
	}
	return c.writeType(w, s.ReturnType)
}

func (c *codec) readExternFnStmtBody(r io.Reader) (ast.Stmt, error) {
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
	params := make([]ast.TypeExpr, n)
	for i := range params {
		t, err := c.readType(r)
		if err != nil {
			return nil, err
		}
		params[i] = t
	}
	ret, err := c.readType(r)
	if err != nil {
		return nil, err
	}
	return &ast.ExternFnStmt{Base: ast.Base{P: pos}, Name: name, ParamTypes: params, ReturnType: ret}, nil
}
