package parser

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/token"
)

func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBrace)
	b := &ast.Block{Node: ast.Node{ID: p.id()}}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		b.Stmts = append(b.Stmts, p.parseStmt())
	}
	end := p.expect(token.RBrace)
	b.Range = rangeFrom(start, end)
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.at(token.LBrace):
		return p.parseBlock()
	case p.at(token.KwIf):
		return p.parseIf()
	case p.at(token.KwWhile):
		return p.parseWhile()
	case p.at(token.KwDo):
		return p.parseDoWhile()
	case p.at(token.KwFor):
		return p.parseFor()
	case p.at(token.KwReturn):
		return p.parseReturn()
	case p.at(token.KwBreak):
		start := p.advance()
		p.accept(token.Semicolon)
		return &ast.BreakStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}}
	case p.at(token.KwContinue):
		start := p.advance()
		p.accept(token.Semicolon)
		return &ast.ContinueStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}}
	case p.at(token.KwRevert):
		return p.parseRevert()
	case p.at(token.KwEmit):
		return p.parseEmit()
	case p.at(token.KwTry):
		return p.parseTry()
	case p.at(token.KwUnchecked):
		return p.parseUnchecked()
	case p.at(token.KwAssembly):
		return p.parseAssembly()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.expect(token.KwIf)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseStmt()
	s := &ast.IfStmt{Node: ast.Node{ID: p.id()}, Cond: cond, Then: then}
	if p.at(token.KwElse) {
		p.advance()
		s.Else = p.parseStmt()
	}
	s.Range = rangeFrom(start, start)
	return s
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseStmt()
	return &ast.WhileStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() ast.Stmt {
	start := p.expect(token.KwDo)
	body := p.parseStmt()
	p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	p.accept(token.Semicolon)
	return &ast.DoWhileStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}, Body: body, Cond: cond}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.expect(token.KwFor)
	p.expect(token.LParen)
	var init ast.Stmt
	if !p.at(token.Semicolon) {
		init = p.parseSimpleStmt()
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.at(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon)
	var post ast.Stmt
	if !p.at(token.RParen) {
		e := p.parseExpr()
		post = &ast.ExprStmt{Node: ast.Node{ID: p.id()}, X: e}
	}
	p.expect(token.RParen)
	body := p.parseStmt()
	return &ast.ForStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}, Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.expect(token.KwReturn)
	r := &ast.ReturnStmt{Node: ast.Node{ID: p.id()}}
	if !p.at(token.Semicolon) {
		r.Values = p.parseExprListUntilSemicolon()
	}
	p.accept(token.Semicolon)
	r.Range = rangeFrom(start, start)
	return r
}

// parseExprListUntilSemicolon parses `return a, b;` by unwrapping a bare
// tuple expression into its elements.
func (p *Parser) parseExprListUntilSemicolon() []ast.Expr {
	first := p.parseExpr()
	if tup, ok := first.(*ast.TupleExpr); ok {
		return tup.Elems
	}
	return []ast.Expr{first}
}

func (p *Parser) parseRevert() ast.Stmt {
	start := p.expect(token.KwRevert)
	r := &ast.RevertStmt{Node: ast.Node{ID: p.id()}}
	if p.at(token.Ident) && p.peekAt(1).Kind == token.LParen {
		name := p.advance()
		r.Error = name.Text
		p.advance() // '('
		for !p.at(token.RParen) && !p.at(token.EOF) {
			r.Args = append(r.Args, p.parseExpr())
			if !p.at(token.RParen) {
				p.expect(token.Comma)
			}
		}
		p.expect(token.RParen)
	} else if !p.at(token.Semicolon) {
		r.Args = append(r.Args, p.parseExpr())
	}
	p.accept(token.Semicolon)
	r.Range = rangeFrom(start, start)
	return r
}

func (p *Parser) parseEmit() ast.Stmt {
	start := p.expect(token.KwEmit)
	name := p.expect(token.Ident)
	e := &ast.EmitStmt{Node: ast.Node{ID: p.id()}, Event: name.Text}
	p.expect(token.LParen)
	for !p.at(token.RParen) && !p.at(token.EOF) {
		e.Args = append(e.Args, p.parseExpr())
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	p.expect(token.RParen)
	p.accept(token.Semicolon)
	e.Range = rangeFrom(start, start)
	return e
}

// parseTry handles `try expr returns (...) { } catch ... { } catch ... {}`
// (spec 4.5).
func (p *Parser) parseTry() ast.Stmt {
	start := p.expect(token.KwTry)
	call := p.parseExpr()
	t := &ast.TryStmt{Node: ast.Node{ID: p.id()}, CallExpr: call}
	if p.at(token.KwReturns) {
		p.advance()
		t.ReturnsDecl = p.parseParamList()
	}
	t.Body = p.parseBlock()
	for p.at(token.KwCatch) {
		p.advance()
		var cc ast.CatchClause
		if p.at(token.Ident) {
			name := p.advance()
			cc.Name = name.Text
			cc.Params = p.parseParamList()
		} else if p.at(token.LParen) {
			cc.Params = p.parseParamList()
		}
		cc.Body = p.parseBlock()
		t.Catches = append(t.Catches, cc)
	}
	t.Range = rangeFrom(start, start)
	return t
}

func (p *Parser) parseUnchecked() ast.Stmt {
	start := p.expect(token.KwUnchecked)
	body := p.parseBlock()
	return &ast.UncheckedStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}, Body: body}
}

// parseAssembly skips the Yul block between balanced braces without losing
// the surrounding statement tree. The block's text is not kept: the
// returned AssemblyStmt carries the placeholder "<yul>" as its Source, and
// internal/irbuild lowers it as an opaque builtin call.
func (p *Parser) parseAssembly() ast.Stmt {
	start := p.expect(token.KwAssembly)
	if p.at(token.StringLiteral) {
		p.advance() // optional "memory-safe" dialect string
	}
	p.expect(token.LBrace)
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		p.advance()
	}
	return &ast.AssemblyStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}, Source: "<yul>"}
}

// parseSimpleStmt resolves the variable-declaration vs. expression-statement
// ambiguity via a backtracking trial parse (spec 4.1's "local backtracking").
func (p *Parser) parseSimpleStmt() ast.Stmt {
	if p.at(token.LParen) {
		if decl, ok := p.tryParseTupleVarDecl(); ok {
			return decl
		}
	}
	if decl, ok := p.tryParseVarDecl(); ok {
		return decl
	}
	start := p.cur()
	e := p.parseExpr()
	p.accept(token.Semicolon)
	return &ast.ExprStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}, X: e}
}

// tryParseVarDecl attempts `Type [location] name [= expr] ;`, reporting no
// diagnostics of its own. On any mismatch it rewinds and returns false so
// the caller can fall back to expression-statement parsing.
func (p *Parser) tryParseVarDecl() (ast.Stmt, bool) {
	m := p.mark()
	start := p.cur()
	if !p.isTypeTok() {
		return nil, false
	}
	ty := p.parseTypeExprNoErrors()
	if ty == nil {
		p.reset(m)
		return nil, false
	}
	loc := ast.LocDefault
	switch {
	case p.at(token.KwStorage):
		p.advance()
		loc = ast.LocStorage
	case p.at(token.KwMemory):
		p.advance()
		loc = ast.LocMemory
	case p.at(token.KwCalldata):
		p.advance()
		loc = ast.LocCalldata
	}
	if !p.at(token.Ident) {
		p.reset(m)
		return nil, false
	}
	name := p.advance()
	v := &ast.VarDeclStmt{Node: ast.Node{ID: p.id()}, Names: []string{name.Text}, Types: []ast.TypeExpr{ty}, Locs: []ast.Location{loc}}
	switch {
	case p.at(token.Assign):
		p.advance()
		v.Init = p.parseExpr()
	case p.at(token.Semicolon):
		// bare declaration, no initialiser
	default:
		p.reset(m)
		return nil, false
	}
	p.accept(token.Semicolon)
	v.Range = rangeFrom(start, start)
	return v, true
}

// tryParseTupleVarDecl attempts `(Type1 a, , Type3 c) = expr;` destructuring
// declarations, where omitted slots are legal per spec 4.3. The caller has
// already confirmed the statement opens with '('.
func (p *Parser) tryParseTupleVarDecl() (ast.Stmt, bool) {
	m := p.mark()
	start := p.cur()
	p.advance() // '('
	var names []string
	var types []ast.TypeExpr
	var locs []ast.Location
	sawType := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.Comma) {
			names = append(names, "")
			types = append(types, nil)
			locs = append(locs, ast.LocDefault)
			p.advance()
			continue
		}
		if !p.isTypeTok() {
			p.reset(m)
			return nil, false
		}
		ty := p.parseTypeExprNoErrors()
		if ty == nil {
			p.reset(m)
			return nil, false
		}
		loc := ast.LocDefault
		switch {
		case p.at(token.KwMemory):
			p.advance()
			loc = ast.LocMemory
		case p.at(token.KwStorage):
			p.advance()
			loc = ast.LocStorage
		case p.at(token.KwCalldata):
			p.advance()
			loc = ast.LocCalldata
		}
		if !p.at(token.Ident) {
			p.reset(m)
			return nil, false
		}
		name := p.advance()
		names = append(names, name.Text)
		types = append(types, ty)
		locs = append(locs, loc)
		sawType = true
		if p.at(token.Comma) {
			p.advance()
		}
	}
	if !p.at(token.RParen) || !sawType {
		p.reset(m)
		return nil, false
	}
	p.advance() // ')'
	if !p.at(token.Assign) {
		p.reset(m)
		return nil, false
	}
	p.advance()
	init := p.parseExpr()
	p.accept(token.Semicolon)
	return &ast.VarDeclStmt{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, start)}, Names: names, Types: types, Locs: locs, Init: init}, true
}

// parseTypeExprNoErrors parses a type expression on a scratch diagnostic bag
// so a failed trial parse never pollutes the real diagnostics stream, and
// reports failure by returning nil instead of the parseTypeExpr error
// sentinel.
func (p *Parser) parseTypeExprNoErrors() ast.TypeExpr {
	save := p.bag
	p.bag = diag.NewBag()
	te := p.parseTypeExpr()
	p.bag = save
	if named, ok := te.(*ast.NamedTypeExpr); ok && named.Name == "<error>" {
		return nil
	}
	return te
}
