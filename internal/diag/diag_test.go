package diag

import (
	"testing"

	"github.com/hemlock-lang/hemlock/internal/token"
	"github.com/stretchr/testify/assert"
)

func TestFormatIncludesFileLineColumnAndCaret(t *testing.T) {
	d := New(TypeError, token.Position{File: "a.hml", Line: 2, Column: 5}, "bad op", "let x = 1;\nlet y = x + \"z\";")
	out := d.Format(false)
	assert.Contains(t, out, "TypeError in a.hml:2:5: bad op")
	assert.Contains(t, out, "let y = x + \"z\";")
	assert.Contains(t, out, "^")
}

func TestFormatWithoutFileUsesLineOnly(t *testing.T) {
	d := New(ParseError, token.Position{Line: 1, Column: 1}, "unexpected token", "")
	out := d.Format(false)
	assert.Contains(t, out, "ParseError at line 1:1")
}

func TestFormatIncludesStackFrames(t *testing.T) {
	d := New(RuntimeError, token.Position{File: "a.hml", Line: 3, Column: 1}, "boom", "")
	d.Frames = []Frame{{FuncName: "fib", Pos: token.Position{File: "a.hml", Line: 1, Column: 1}}}
	out := d.Format(false)
	assert.Contains(t, out, "at fib")
}
