package parser

import (
	"strings"

	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/token"
)

// Operator precedence levels, lowest to highest.
const (
	LOWEST      = iota
	ASSIGNMENT  // = += -= *= /= %=
	TERNARY     // ?:
	NULLCOALES  // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALITY    // == !=
	RELATIONAL  // < > <= >=
	ADDITIVE    // + -
	MULTIPLIC   // * / %
	UNARY       // ! - (prefix)
	POSTFIX     // ++ -- call index property await
)

var precedences = map[token.Kind]int{
	token.ASSIGN: ASSIGNMENT, token.PLUS_EQ: ASSIGNMENT, token.MINUS_EQ: ASSIGNMENT,
	token.STAR_EQ: ASSIGNMENT, token.SLASH_EQ: ASSIGNMENT, token.PERCENT_EQ: ASSIGNMENT,
	token.QUESTION:   TERNARY,
	token.OPT_COALES: NULLCOALES,
	token.OR:         LOGICAL_OR,
	token.AND:        LOGICAL_AND,
	token.EQ:         EQUALITY, token.NEQ: EQUALITY,
	token.LT: RELATIONAL, token.GT: RELATIONAL, token.LE: RELATIONAL, token.GE: RELATIONAL,
	token.PLUS: ADDITIVE, token.MINUS: ADDITIVE,
	token.STAR: MULTIPLIC, token.SLASH: MULTIPLIC, token.PERCENT: MULTIPLIC,
}

// parseExpr implements precedence-climbing: parse a prefix/primary
// expression, then repeatedly fold in infix/postfix operators whose
// precedence exceeds minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePrefix()

	for {
		prec, ok := precedences[p.cur.Kind]
		if !ok || prec <= minPrec {
			break
		}
		left = p.parseInfix(left, prec)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.BANG, token.MINUS:
		op := p.cur.Literal
		p.next()
		x := p.parseExpr(UNARY)
		return &ast.UnaryExpr{Base: baseAt(pos), Op: op, X: x}
	case token.INC, token.DEC:
		op := p.cur.Literal
		p.next()
		x := p.parseExpr(UNARY)
		return &ast.IncDecExpr{Base: baseAt(pos), Op: op, X: x, Postfix: false}
	case token.AWAIT:
		p.next()
		x := p.parseExpr(UNARY)
		return &ast.AwaitExpr{Base: baseAt(pos), X: x}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *Parser) parseInfix(left ast.Expr, prec int) ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ, token.PERCENT_EQ:
		op := p.cur.Literal
		p.next()
		val := p.parseExpr(prec - 1) // right-associative
		return &ast.AssignExpr{Base: baseAt(pos), Target: left, Op: op, Value: val}
	case token.QUESTION:
		p.next()
		then := p.parseExpr(LOWEST)
		p.expect(token.COLON)
		els := p.parseExpr(TERNARY - 1)
		return &ast.TernaryExpr{Base: baseAt(pos), Cond: left, Then: then, Else: els}
	case token.OPT_COALES:
		p.next()
		def := p.parseExpr(prec)
		return &ast.NullCoalesceExpr{Base: baseAt(pos), X: left, Default: def}
	case token.OR, token.AND, token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		op := p.cur.Literal
		p.next()
		right := p.parseExpr(prec)
		return &ast.BinaryExpr{Base: baseAt(pos), Op: op, Left: left, Right: right}
	default:
		return left
	}
}

// parsePostfix handles call, index, property access, and post-inc/dec
// — all left-associative and of the same (highest) precedence, so
// they're folded iteratively right after a primary expression rather
// than through the generic infix table.
func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		pos := p.cur.Pos
		switch p.cur.Kind {
		case token.LPAREN:
			p.next()
			var args []ast.Expr
			for p.cur.Kind != token.RPAREN {
				args = append(args, p.parseExpr(LOWEST))
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
			x = &ast.CallExpr{Base: baseAt(pos), Callee: x, Args: args}
		case token.DOT:
			p.next()
			name := p.expect(token.IDENT).Literal
			x = &ast.PropertyExpr{Base: baseAt(pos), X: x, Name: name}
		case token.OPT_DOT:
			if p.peek.Kind == token.LBRACKET {
				p.next()
				p.next()
				idx := p.parseExpr(LOWEST)
				p.expect(token.RBRACKET)
				x = &ast.IndexExpr{Base: baseAt(pos), X: x, Index: idx, Optional: true}
				break
			}
			p.next()
			name := p.expect(token.IDENT).Literal
			x = &ast.PropertyExpr{Base: baseAt(pos), X: x, Name: name, Optional: true}
		case token.LBRACKET:
			p.next()
			idx := p.parseExpr(LOWEST)
			p.expect(token.RBRACKET)
			x = &ast.IndexExpr{Base: baseAt(pos), X: x, Index: idx}
		case token.INC, token.DEC:
			op := p.cur.Literal
			p.next()
			x = &ast.IncDecExpr{Base: baseAt(pos), X: x, Op: op, Postfix: true}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.INT:
		lit := p.cur.Literal
		p.next()
		return &ast.IntLit{Base: baseAt(pos), Literal: lit}
	case token.FLOAT:
		lit := p.cur.Literal
		p.next()
		return &ast.FloatLit{Base: baseAt(pos), Literal: lit}
	case token.STRING:
		lit := p.cur.Literal
		p.next()
		return &ast.StringLit{Base: baseAt(pos), Value: lit}
	case token.ISTRING:
		raw := p.cur.Literal
		p.next()
		return p.parseInterpString(pos, raw)
	case token.RUNE:
		lit := p.cur.Literal
		p.next()
		r := rune(0)
		for _, rr := range lit {
			r = rr
			break
		}
		return &ast.RuneLit{Base: baseAt(pos), Value: r}
	case token.TRUE:
		p.next()
		return &ast.BoolLit{Base: baseAt(pos), Value: true}
	case token.FALSE:
		p.next()
		return &ast.BoolLit{Base: baseAt(pos), Value: false}
	case token.NULL:
		p.next()
		return &ast.NullLit{Base: baseAt(pos)}
	case token.IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Base: baseAt(pos), Name: name}
	case token.LPAREN:
		p.next()
		x := p.parseExpr(LOWEST)
		p.expect(token.RPAREN)
		return x
	case token.LBRACKET:
		return p.parseArrayLit(pos)
	case token.LBRACE:
		return p.parseObjectLit(pos)
	case token.FN, token.ASYNC:
		return p.parseFunctionLit(pos)
	default:
		p.errorf("unexpected token %s (%q) in expression", p.cur.Kind, p.cur.Literal)
		p.next()
		return &ast.NullLit{Base: baseAt(pos)}
	}
}

func (p *Parser) parseArrayLit(pos token.Position) ast.Expr {
	p.expect(token.LBRACKET)
	lit := &ast.ArrayLit{Base: baseAt(pos)}
	for p.cur.Kind != token.RBRACKET {
		lit.Elements = append(lit.Elements, p.parseExpr(LOWEST))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return lit
}

func (p *Parser) parseObjectLit(pos token.Position) ast.Expr {
	p.expect(token.LBRACE)
	lit := &ast.ObjectLit{Base: baseAt(pos)}
	for p.cur.Kind != token.RBRACE {
		key := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		val := p.parseExpr(LOWEST)
		lit.Fields = append(lit.Fields, ast.ObjectField2{Key: key, Value: val})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return lit
}

func (p *Parser) parseFunctionLit(pos token.Position) ast.Expr {
	isAsync := p.accept(token.ASYNC)
	p.expect(token.FN)
	name := ""
	if p.cur.Kind == token.IDENT {
		name = p.cur.Literal
		p.next()
	}
	p.expect(token.LPAREN)
	var params []ast.Param
	for p.cur.Kind != token.RPAREN {
		pname := p.expect(token.IDENT).Literal
		param := ast.Param{Name: pname}
		if p.accept(token.COLON) {
			param.Type = p.parseTypeExpr()
		}
		if p.accept(token.ASSIGN) {
			param.Default = p.parseExpr(LOWEST)
		}
		params = append(params, param)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.FunctionLit{Base: baseAt(pos), Name: name, Params: params, IsAsync: isAsync, Body: body}
}

// parseInterpString splits the raw "${...}" contents captured by the
// lexer into alternating string/expression parts, each expression
// parsed with a fresh sub-parser over its substring.
func (p *Parser) parseInterpString(pos token.Position, raw string) ast.Expr {
	lit := &ast.InterpStringExpr{Base: baseAt(pos)}
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			lit.Parts = append(lit.Parts, sb.String())
			sb.Reset()
			depth := 1
			j := i + 2
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			exprSrc := raw[i+2 : j]
			sub := New(p.file, exprSrc)
			expr := sub.parseExpr(LOWEST)
			p.errs = append(p.errs, sub.errs...)
			lit.Exprs = append(lit.Exprs, expr)
			i = j + 1
			continue
		}
		sb.WriteByte(raw[i])
		i++
	}
	lit.Parts = append(lit.Parts, sb.String())
	return lit
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	pos := p.cur.Pos
	if p.cur.Kind == token.ARRAY {
		p.next()
		p.expect(token.LT)
		elem := p.parseTypeExpr()
		p.expect(token.GT)
		return &ast.ArrayType{Base: baseAt(pos), Elem: elem}
	}
	name := p.expect(token.IDENT).Literal
	switch name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f32", "f64",
		"bool", "string", "rune":
		return &ast.PrimitiveType{Base: baseAt(pos), Name: name}
	default:
		return &ast.NamedType{Base: baseAt(pos), Name: name}
	}
}
