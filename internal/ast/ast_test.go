package ast

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/token"
	"github.com/stretchr/testify/assert"
)

func pos(line int) token.Position {
	return token.Position{File: "t.hml", Line: line, Column: 1}
}

func TestNodesImplementStmtAndExpr(t *testing.T) {
	var _ Stmt = &LetStmt{Base: Base{P: pos(1)}}
	var _ Stmt = &IfStmt{Base: Base{P: pos(1)}}
	var _ Stmt = &TryStmt{Base: Base{P: pos(1)}}
	var _ Expr = &BinaryExpr{Base: Base{P: pos(1)}}
	var _ Expr = &CallExpr{Base: Base{P: pos(1)}}
	var _ Expr = &InterpStringExpr{Base: Base{P: pos(1)}}
}

func TestPositionPropagation(t *testing.T) {
	n := &LetStmt{Base: Base{P: pos(7)}, Name: "x"}
	assert.Equal(t, 7, n.Pos().Line)
}

func TestFunctionLitParamsWithDefaults(t *testing.T) {
	fn := &FunctionLit{
		Base: Base{P: pos(1)},
		Params: []Param{
			{Name: "a"},
			{Name: "b", Default: &IntLit{Literal: "5"}},
		},
	}
	assert.Len(t, fn.Params, 2)
	assert.NotNil(t, fn.Params[1].Default)
}

func TestInterpStringPartsAlternate(t *testing.T) {
	s := &InterpStringExpr{
		Parts: []string{"count: ", ""},
		Exprs: []Expr{&Identifier{Name: "n"}},
	}
	assert.Equal(t, 2, len(s.Parts))
	assert.Equal(t, 1, len(s.Exprs))
}
