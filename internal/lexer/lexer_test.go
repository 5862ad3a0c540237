package lexer

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/token"
	"github.com/stretchr/testify/assert"
)

func kinds(src string) []token.Kind {
	l := New("test.hml", src)
	var out []token.Kind
	for {
		tok := l.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

func TestLexerKeywordsAndOperators(t *testing.T) {
	got := kinds("let x = 1 + 2 * 3;")
	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.PLUS,
		token.INT, token.STAR, token.INT, token.SEMI, token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestLexerCompoundOperators(t *testing.T) {
	got := kinds("a += 1; b?.c ?? d; i++")
	assert.Contains(t, got, token.PLUS_EQ)
	assert.Contains(t, got, token.OPT_DOT)
	assert.Contains(t, got, token.OPT_COALES)
	assert.Contains(t, got, token.INC)
}

func TestLexerStringInterpolation(t *testing.T) {
	l := New("test.hml", `"count: ${n*2}"`)
	tok := l.Next()
	assert.Equal(t, token.ISTRING, tok.Kind)
	assert.Equal(t, "count: ${n*2}", tok.Literal)
}

func TestLexerPlainString(t *testing.T) {
	l := New("test.hml", `"hello\nworld"`)
	tok := l.Next()
	assert.Equal(t, token.STRING, tok.Kind)
	assert.Equal(t, "hello\nworld", tok.Literal)
}

func TestLexerNumbers(t *testing.T) {
	l := New("test.hml", "42 3.14 1_000 2e10")
	assert.Equal(t, token.INT, l.Next().Kind)
	f := l.Next()
	assert.Equal(t, token.FLOAT, f.Kind)
	assert.Equal(t, "3.14", f.Literal)
	i := l.Next()
	assert.Equal(t, "1000", i.Literal)
	assert.Equal(t, token.FLOAT, l.Next().Kind)
}

func TestLexerPositionTracking(t *testing.T) {
	l := New("f.hml", "let\nx")
	first := l.Next()
	assert.Equal(t, 1, first.Pos.Line)
	second := l.Next()
	assert.Equal(t, 2, second.Pos.Line)
}
