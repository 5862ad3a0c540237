// Package parser implements a recursive-descent, precedence-climbing
// parser producing the internal/ast tree from a token stream. The
// concrete grammar is not part of the language-core contract (see the
// top-level specification §1); this parser exists to drive the
// evaluator, codec, and codegen packages end to end.
//
// Grounded on the teacher's internal/parser package structure: one
// file per syntactic area, a single Parser struct threading current/
// peek tokens, and pos-tagged node construction at every production.
package parser

import (
	"fmt"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/lexer"
	"github.com/hemlock-lang/hemlock/internal/token"
)

// Parser parses a single Hemlock source file into a Program.
type Parser struct {
	l    *lexer.Lexer
	file string
	cur  token.Token
	peek token.Token
	errs []error
}

// New creates a Parser for the given file/source pair.
func New(file, src string) *Parser {
	p := &Parser{l: lexer.New(file, src), file: file}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, &ParseError{Pos: p.cur.Pos, Msg: fmt.Sprintf(format, args...)})
}

// Errors returns every error accumulated while parsing.
func (p *Parser) Errors() []error { return p.errs }

// ParseError carries the position of a parse failure alongside its
// message, so a caller (pkg/hemlock, building a diag.Diagnostic) can
// render a source-line-and-caret view instead of just the flattened
// string Error() produces.
type ParseError struct {
	Pos token.Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError at %s: %s", e.Pos, e.Msg)
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.errorf("expected %s, got %s (%q)", k, p.cur.Kind, p.cur.Literal)
	}
	t := p.cur
	p.next()
	return t
}

func (p *Parser) accept(k token.Kind) bool {
	if p.cur.Kind == k {
		p.next()
		return true
	}
	return false
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		stmt := p.parseStmt()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

// Parse is a package-level convenience that parses src in one call,
// returning the first accumulated error (if any).
func Parse(file, src string) (*ast.Program, error) {
	p := New(file, src)
	prog := p.ParseProgram()
	if len(p.errs) > 0 {
		return prog, p.errs[0]
	}
	return prog, nil
}

// baseAt constructs the ast.Base embedded in every node literal.
func baseAt(pos token.Position) ast.Base { return ast.Base{P: pos} }
