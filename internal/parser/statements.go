package parser

import (
	"github.com/hemlock-lang/hemlock/internal/ast"
	"github.com/hemlock-lang/hemlock/internal/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.LET:
		return p.parseLet()
	case token.CONST:
		return p.parseConst()
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		pos := p.cur.Pos
		p.next()
		p.accept(token.SEMI)
		return &ast.BreakStmt{Base: baseAt(pos)}
	case token.CONTINUE:
		pos := p.cur.Pos
		p.next()
		p.accept(token.SEMI)
		return &ast.ContinueStmt{Base: baseAt(pos)}
	case token.TRY:
		return p.parseTry()
	case token.THROW:
		return p.parseThrow()
	case token.SWITCH:
		return p.parseSwitch()
	case token.DEFER:
		return p.parseDefer()
	case token.ENUM:
		return p.parseEnum()
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.IMPORT_FFI:
		return p.parseImportFFI()
	case token.EXTERN_FN:
		return p.parseExternFn()
	case token.TYPE:
		return p.parseDefineObject()
	case token.SEMI:
		p.next()
		return nil
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLet() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	var typ ast.TypeExpr
	if p.accept(token.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.LetStmt{Base: baseAt(pos), Name: name, Type: typ, Value: val}
}

func (p *Parser) parseConst() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	var typ ast.TypeExpr
	if p.accept(token.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.ConstStmt{Base: baseAt(pos), Name: name, Type: typ, Value: val}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	b := &ast.BlockStmt{Base: baseAt(pos)}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		if s := p.parseStmt(); s != nil {
			b.Statements = append(b.Statements, s)
		}
	}
	p.expect(token.RBRACE)
	return b
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	then := p.parseBlock()
	var elseStmt ast.Stmt
	if p.accept(token.ELSE) {
		if p.cur.Kind == token.IF {
			elseStmt = p.parseIf()
		} else {
			elseStmt = p.parseBlock()
		}
	}
	return &ast.IfStmt{Base: baseAt(pos), Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.WhileStmt{Base: baseAt(pos), Cond: cond, Body: body}
}

// parseFor handles both the C-style three-clause form and the for-in
// form: `for (let x in arr) { ... }` / `for (let k, v in arr) { ... }`.
func (p *Parser) parseFor() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)

	if p.cur.Kind == token.LET && p.isForIn() {
		p.next() // consume let
		first := p.expect(token.IDENT).Literal
		var second string
		if p.accept(token.COMMA) {
			second = p.expect(token.IDENT).Literal
		}
		p.expect(token.IN)
		iterable := p.parseExpr(LOWEST)
		p.expect(token.RPAREN)
		body := p.parseBlock()
		if second != "" {
			return &ast.ForInStmt{Base: baseAt(pos), KeyName: first, ValueName: second, Iterable: iterable, Body: body}
		}
		return &ast.ForInStmt{Base: baseAt(pos), ValueName: first, Iterable: iterable, Body: body}
	}

	var init ast.Stmt
	if p.cur.Kind != token.SEMI {
		init = p.parseSimpleStmt()
	}
	p.expect(token.SEMI)
	var cond ast.Expr
	if p.cur.Kind != token.SEMI {
		cond = p.parseExpr(LOWEST)
	}
	p.expect(token.SEMI)
	var post ast.Stmt
	if p.cur.Kind != token.RPAREN {
		post = p.parseSimpleStmt()
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.ForStmt{Base: baseAt(pos), Init: init, Cond: cond, Post: post, Body: body}
}

// isForIn performs bounded lookahead (without consuming) to decide
// between `for (let x in ...)` and `for (let x = ...; ...; ...)`. It
// advances p itself, then restores p's lexer state, current/peek tokens
// and error list from a snapshot taken on entry.
func (p *Parser) isForIn() bool {
	savedLexer := *p.l
	savedCur, savedPeek, savedErrs := p.cur, p.peek, len(p.errs)
	defer func() {
		*p.l = savedLexer
		p.cur, p.peek = savedCur, savedPeek
		p.errs = p.errs[:savedErrs]
	}()
	p.next() // let
	if p.cur.Kind != token.IDENT {
		return false
	}
	p.next()
	if p.accept(token.COMMA) {
		if p.cur.Kind != token.IDENT {
			return false
		}
		p.next()
	}
	return p.cur.Kind == token.IN
}

func (p *Parser) parseSimpleStmt() ast.Stmt {
	if p.cur.Kind == token.LET {
		return p.parseLet()
	}
	return p.parseExprStmt()
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	var val ast.Expr
	if p.cur.Kind != token.SEMI && p.cur.Kind != token.RBRACE {
		val = p.parseExpr(LOWEST)
	}
	p.accept(token.SEMI)
	return &ast.ReturnStmt{Base: baseAt(pos), Value: val}
}

func (p *Parser) parseTry() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	tryBlock := p.parseBlock()
	stmt := &ast.TryStmt{Base: baseAt(pos), Try: tryBlock}
	if p.accept(token.CATCH) {
		p.expect(token.LPAREN)
		name := p.expect(token.IDENT).Literal
		p.expect(token.RPAREN)
		body := p.parseBlock()
		stmt.Catch = &ast.CatchClause{Name: name, Body: body}
	}
	if p.accept(token.FINALLY) {
		stmt.Finally = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseThrow() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	val := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.ThrowStmt{Base: baseAt(pos), Value: val}
}

func (p *Parser) parseSwitch() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	disc := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	stmt := &ast.SwitchStmt{Base: baseAt(pos), Discriminant: disc}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		c := &ast.SwitchCase{}
		if p.accept(token.CASE) {
			c.Values = append(c.Values, p.parseExpr(LOWEST))
			for p.accept(token.COMMA) {
				c.Values = append(c.Values, p.parseExpr(LOWEST))
			}
		} else {
			p.expect(token.DEFAULT)
		}
		p.expect(token.COLON)
		for p.cur.Kind != token.CASE && p.cur.Kind != token.DEFAULT && p.cur.Kind != token.RBRACE {
			if s := p.parseStmt(); s != nil {
				c.Body = append(c.Body, s)
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(token.RBRACE)
	return stmt
}

func (p *Parser) parseDefer() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	call := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.DeferStmt{Base: baseAt(pos), Call: call}
}

func (p *Parser) parseEnum() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LBRACE)
	stmt := &ast.EnumStmt{Base: baseAt(pos), Name: name}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		memberName := p.expect(token.IDENT).Literal
		m := ast.EnumMember{Name: memberName}
		if p.accept(token.ASSIGN) {
			m.Value = p.parseExpr(LOWEST)
		}
		stmt.Members = append(stmt.Members, m)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return stmt
}

func (p *Parser) parseImport() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	stmt := &ast.ImportStmt{Base: baseAt(pos)}
	p.expect(token.LBRACE)
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		orig := p.expect(token.IDENT).Literal
		local := orig
		if p.accept(token.AS) {
			local = p.expect(token.IDENT).Literal
		}
		stmt.Specifiers = append(stmt.Specifiers, ast.ImportSpecifier{Local: local, Original: orig})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	p.expect(token.FROM)
	stmt.Source = p.expect(token.STRING).Literal
	p.accept(token.SEMI)
	return stmt
}

func (p *Parser) parseExport() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	decl := p.parseStmt()
	return &ast.ExportStmt{Base: baseAt(pos), Decl: decl}
}

func (p *Parser) parseImportFFI() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	lib := p.expect(token.STRING).Literal
	alias := ""
	if p.accept(token.AS) {
		alias = p.expect(token.IDENT).Literal
	}
	p.accept(token.SEMI)
	return &ast.ImportFFIStmt{Base: baseAt(pos), Library: lib, Alias: alias}
}

func (p *Parser) parseExternFn() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)
	var params []ast.TypeExpr
	for p.cur.Kind != token.RPAREN {
		params = append(params, p.parseTypeExpr())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	var ret ast.TypeExpr
	if p.accept(token.COLON) {
		ret = p.parseTypeExpr()
	}
	p.accept(token.SEMI)
	return &ast.ExternFnStmt{Base: baseAt(pos), Name: name, ParamTypes: params, ReturnType: ret}
}

func (p *Parser) parseDefineObject() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LBRACE)
	stmt := &ast.DefineObjectStmt{Base: baseAt(pos), Name: name}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		fieldName := p.expect(token.IDENT).Literal
		required := true
		if p.accept(token.QUESTION) {
			required = false
		}
		p.expect(token.COLON)
		fieldType := p.parseTypeExpr()
		stmt.Fields = append(stmt.Fields, ast.ObjectField{Name: fieldName, Type: fieldType, Required: required})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return stmt
}

func (p *Parser) parseExprStmt() ast.Stmt {
	pos := p.cur.Pos
	x := p.parseExpr(LOWEST)
	p.accept(token.SEMI)
	return &ast.ExprStmt{Base: baseAt(pos), X: x}
}
