package hmlc

import (
	"fmt"
	"io"

	"github.com/hemlock-lang/hemlock/internal/ast"
)

func (c *codec) writeType(w io.Writer, t ast.TypeExpr) error {
	switch v := t.(type) {
	case *ast.PrimitiveType:
		if err := c.writeKind(w, kPrimitiveType); err != nil {
			return err
		}
		if err := c.writePos(w, v.P); err != nil {
			return err
		}
		return c.writeString(w, v.Name)
	case *ast.NamedType:
		if err := c.writeKind(w, kNamedType); err != nil {
			return err
		}
		if err := c.writePos(w, v.P); err != nil {
			return err
		}
		return c.writeString(w, v.Name)
	case *ast.ArrayType:
		if err := c.writeKind(w, kArrayType); err != nil {
			return err
		}
		if err := c.writePos(w, v.P); err != nil {
			return err
		}
		return c.writeType(w, v.Elem)
	default:
		return fmt.Errorf("hmlc: unknown type annotation %T", t)
	}
}

func (c *codec) readType(r io.Reader) (ast.TypeExpr, error) {
	k, err := c.readKind(r)
	if err != nil {
		return nil, err
	}
	switch k {
	case kPrimitiveType:
		pos, err := c.readPos(r)
		if err != nil {
			return nil, err
		}
		name, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		return &ast.PrimitiveType{Base: ast.Base{P: pos}, Name: name}, nil
	case kNamedType:
		pos, err := c.readPos(r)
		if err != nil {
			return nil, err
		}
		name, err := c.readString(r)
		if err != nil {
			return nil, err
		}
		return &ast.NamedType{Base: ast.Base{P: pos}, Name: name}, nil
	case kArrayType:
		pos, err := c.readPos(r)
		if err != nil {
			return nil, err
		}
		elem, err := c.readType(r)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayType{Base: ast.Base{P: pos}, Elem: elem}, nil
	default:
		return nil, fmt.Errorf("hmlc: unknown type kind %d (%s)", k, k)
	}
}

// writeOptType/readOptType handle a TypeExpr field that may be nil
// (LetStmt.Type, ConstStmt.Type, Param.Type — absent means "no
// annotation", not "untyped").
func (c *codec) writeOptType(w io.Writer, t ast.TypeExpr) error {
	present := t != nil
	if err := c.writeBool(w, present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return c.writeType(w, t)
}

func (c *codec) readOptType(r io.Reader) (ast.TypeExpr, error) {
	present, err := c.readBool(r)
	if err != nil || !present {
		return nil, err
	}
	return c.readType(r)
}
