// Package hmlc implements Hemlock's binary AST codec (spec §4.6): a
// compact serialization of a parsed *ast.Program so a prior parse can
// be replayed without re-lexing/re-parsing source text. Grounded on
// the teacher's internal/bytecode/serializer.go: a Serializer-shaped
// type with writeX/readX primitive helpers built directly on
// encoding/binary, a fixed magic+version header checked strictly on
// read, and length-prefixed strings — adapted here from a bytecode
// chunk to a statement tree.
package hmlc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/token"
)

const (
	magic = "HMLC"

	// currentVersion is bumped whenever the wire format changes;
	// spec §4.6 "Version policy" calls for strict rejection of any
	// other version, not backward tolerance (unlike the teacher's own
	// bytecode format, which tolerates older minor versions).
	currentVersion uint16 = 1

	flagDebug uint16 = 1 << 0
)

// Encode serializes prog to Hemlock's binary AST format. When debug is
// true, every node's source position is included so diagnostics after
// a deserialize retain file:line:column; otherwise position info is
// omitted and falls back to "unknown" per spec §4.6.
func Encode(prog *ast.Program, debug bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	c := &codec{debug: debug}

	buf.WriteString(magic)
	if err := binary.Write(buf, binary.LittleEndian, currentVersion); err != nil {
		return nil, err
	}
	var flags uint16
	if debug {
		flags |= flagDebug
	}
	if err := binary.Write(buf, binary.LittleEndian, flags); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(prog.Statements))); err != nil {
		return nil, err
	}
	for _, s := range prog.Statements {
		if err := c.writeStmt(buf, s); err != nil {
			return nil, fmt.Errorf("hmlc: encode: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Decode deserializes data produced by Encode back into an
// *ast.Program. A magic mismatch or unrecognized version is a hard
// failure — spec §4.6 "there is no cross-version tolerance".
func Decode(data []byte) (*ast.Program, error) {
	r := bytes.NewReader(data)

	magicBuf := make([]byte, len(magic))
	if _, err := io.ReadFull(r, magicBuf); err != nil {
		return nil, fmt.Errorf("hmlc: decode: cannot read magic: %w", err)
	}
	if string(magicBuf) != magic {
		return nil, fmt.Errorf("hmlc: decode: bad magic %q, expected %q", magicBuf, magic)
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("hmlc: decode: cannot read version: %w", err)
	}
	if version != currentVersion {
		return nil, fmt.Errorf("hmlc: decode: unsupported version %d, this build reads only %d", version, currentVersion)
	}

	var flags uint16
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, fmt.Errorf("hmlc: decode: cannot read flags: %w", err)
	}
	c := &codec{debug: flags&flagDebug != 0}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("hmlc: decode: cannot read statement count: %w", err)
	}

	stmts := make([]ast.Stmt, count)
	for i := range stmts {
		s, err := c.readStmt(r)
		if err != nil {
			return nil, fmt.Errorf("hmlc: decode: statement %d: %w", i, err)
		}
		stmts[i] = s
	}
	return &ast.Program{Statements: stmts}, nil
}

// codec carries the one piece of state shared across a whole
// encode/decode pass: whether source positions are present.
type codec struct {
	debug bool
}

func (c *codec) writePos(w io.Writer, p token.Position) error {
	if !c.debug {
		return nil
	}
	if err := c.writeString(w, p.File); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(p.Line)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(p.Column))
}

func (c *codec) readPos(r io.Reader) (token.Position, error) {
	if !c.debug {
		return token.Position{}, nil
	}
	file, err := c.readString(r)
	if err != nil {
		return token.Position{}, err
	}
	var line, col uint32
	if err := binary.Read(r, binary.LittleEndian, &line); err != nil {
		return token.Position{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &col); err != nil {
		return token.Position{}, err
	}
	return token.Position{File: file, Line: int(line), Column: int(col)}, nil
}

func (c *codec) writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	_, err := w.Write([]byte(s))
	return err
}

func (c *codec) readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (c *codec) writeBool(w io.Writer, b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return binary.Write(w, binary.LittleEndian, v)
}

func (c *codec) readBool(r io.Reader) (bool, error) {
	var v uint8
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return false, err
	}
	return v != 0, nil
}

func (c *codec) writeKind(w io.Writer, k nodeKind) error {
	return binary.Write(w, binary.LittleEndian, byte(k))
}

func (c *codec) readKind(r io.Reader) (nodeKind, error) {
	var b byte
	if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
		return 0, err
	}
	return nodeKind(b), nil
}

// writeOptBlock/readOptBlock handle a *ast.BlockStmt field that may be
// nil (e.g. IfStmt.Else is a plain Stmt, but several fields are
// specifically *BlockStmt and nil means "absent").
func (c *codec) writeOptBlock(w io.Writer, b *ast.BlockStmt) error {
	present := b != nil
	if err := c.writeBool(w, present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return c.writeStmt(w, b)
}

func (c *codec) readOptBlock(r io.Reader) (*ast.BlockStmt, error) {
	present, err := c.readBool(r)
	if err != nil || !present {
		return nil, err
	}
	s, err := c.readStmt(r)
	if err != nil {
		return nil, err
	}
	b, ok := s.(*ast.BlockStmt)
	if !ok {
		return nil, fmt.Errorf("expected BlockStmt, got %T", s)
	}
	return b, nil
}

// writeOptStmt/readOptStmt handle a Stmt field that may be nil
// (IfStmt.Else, ForStmt.Init/Post).
func (c *codec) writeOptStmt(w io.Writer, s ast.Stmt) error {
	present := s != nil
	if err := c.writeBool(w, present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return c.writeStmt(w, s)
}

func (c *codec) readOptStmt(r io.Reader) (ast.Stmt, error) {
	present, err := c.readBool(r)
	if err != nil || !present {
		return nil, err
	}
	return c.readStmt(r)
}

// writeOptExpr/readOptExpr handle an Expr field that may be nil
// (ReturnStmt.Value, LetStmt.Type is a TypeExpr handled separately).
func (c *codec) writeOptExpr(w io.Writer, e ast.Expr) error {
	present := e != nil
	if err := c.writeBool(w, present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return c.writeExpr(w, e)
}

func (c *codec) readOptExpr(r io.Reader) (ast.Expr, error) {
	present, err := c.readBool(r)
	if err != nil || !present {
		return nil, err
	}
	return c.readExpr(r)
}
