package parser

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/token"
)

func (p *Parser) parseContract(annotations []ast.Annotation) *ast.ContractDecl {
	start := p.cur()
	kind := ast.KindConcrete
	if p.at(token.KwAbstract) {
		p.advance()
		kind = ast.KindAbstract
	}
	switch {
	case p.at(token.KwContract):
		p.advance()
	case p.at(token.KwInterface):
		p.advance()
		kind = ast.KindInterface
	case p.at(token.KwLibrary):
		p.advance()
		kind = ast.KindLibrary
	}
	name := p.expect(token.Ident)
	c := &ast.ContractDecl{Node: ast.Node{ID: p.id()}, Name: name.Text, Kind: kind, Annotations: annotations}

	if p.at(token.KwIs) {
		p.advance()
		for {
			baseName := p.expect(token.Ident)
			base := ast.BaseRef{Name: baseName.Text}
			if p.at(token.LParen) {
				p.advance()
				for !p.at(token.RParen) && !p.at(token.EOF) {
					base.Args = append(base.Args, p.parseExpr())
					if !p.at(token.RParen) {
						p.expect(token.Comma)
					}
				}
				p.expect(token.RParen)
			}
			c.Bases = append(c.Bases, base)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}

	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.parseContractMember(c)
	}
	end := p.expect(token.RBrace)
	c.Range = rangeFrom(start, end)
	return c
}

func (p *Parser) parseContractMember(c *ast.ContractDecl) {
	annotations := p.parseAnnotations()
	switch {
	case p.at(token.KwStruct):
		c.Structs = append(c.Structs, p.parseStruct())
	case p.at(token.KwEnum):
		c.Enums = append(c.Enums, p.parseEnum())
	case p.at(token.KwEvent):
		c.Events = append(c.Events, p.parseEvent())
	case p.at(token.KwError):
		c.Errors = append(c.Errors, p.parseErrorDecl())
	case p.at(token.KwUsing):
		c.Usings = append(c.Usings, p.parseUsingFor())
	case p.at(token.KwModifier):
		c.Modifiers = append(c.Modifiers, p.parseModifier())
	case p.at(token.KwConstructor):
		c.Constructor = p.parseConstructor(annotations)
	case p.at(token.KwFunction), p.at(token.KwFallback), p.at(token.KwReceive):
		c.Functions = append(c.Functions, p.parseFunction(annotations))
	case p.isTypeTok() :
		c.StateVars = append(c.StateVars, p.parseStateVar())
	default:
		t := p.cur()
		p.bag.Addf(diag.Error, diag.ESynUnexpectedToken, t.Pos, "unexpected token %s %q in contract body", t.Kind, t.Text)
		p.resyncStatement()
	}
}

func (p *Parser) isTypeTok() bool {
	switch p.cur().Kind {
	case token.Ident, token.KwBool, token.KwString, token.KwBytes, token.KwAddress, token.KwMapping:
		return true
	}
	return false
}

func (p *Parser) parseStruct() *ast.StructDecl {
	start := p.expect(token.KwStruct)
	name := p.expect(token.Ident)
	s := &ast.StructDecl{Node: ast.Node{ID: p.id()}, Name: name.Text}
	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		ty := p.parseTypeExpr()
		fname := p.expect(token.Ident)
		s.Fields = append(s.Fields, ast.StructField{Name: fname.Text, Type: ty})
		p.expect(token.Semicolon)
	}
	end := p.expect(token.RBrace)
	s.Range = rangeFrom(start, end)
	return s
}

func (p *Parser) parseEnum() *ast.EnumDecl {
	start := p.expect(token.KwEnum)
	name := p.expect(token.Ident)
	e := &ast.EnumDecl{Node: ast.Node{ID: p.id()}, Name: name.Text}
	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		v := p.expect(token.Ident)
		e.Variants = append(e.Variants, v.Text)
		if !p.at(token.RBrace) {
			p.expect(token.Comma)
		}
	}
	end := p.expect(token.RBrace)
	e.Range = rangeFrom(start, end)
	return e
}

func (p *Parser) parseEvent() *ast.EventDecl {
	start := p.expect(token.KwEvent)
	name := p.expect(token.Ident)
	ev := &ast.EventDecl{Node: ast.Node{ID: p.id()}, Name: name.Text}
	p.expect(token.LParen)
	for !p.at(token.RParen) && !p.at(token.EOF) {
		ty := p.parseTypeExpr()
		indexed := false
		if p.at(token.KwIndexed) {
			p.advance()
			indexed = true
		}
		fname := ""
		if p.at(token.Ident) {
			fname = p.advance().Text
		}
		ev.Fields = append(ev.Fields, ast.EventField{Param: ast.Param{Name: fname, Type: ty}, Indexed: indexed})
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	p.expect(token.RParen)
	if p.at(token.KwAnonymous) {
		p.advance()
		ev.Anonymous = true
	}
	end := p.cur()
	p.accept(token.Semicolon)
	ev.Range = rangeFrom(start, end)
	return ev
}

func (p *Parser) parseErrorDecl() *ast.ErrorDecl {
	start := p.expect(token.KwError)
	name := p.expect(token.Ident)
	e := &ast.ErrorDecl{Node: ast.Node{ID: p.id()}, Name: name.Text}
	e.Fields = p.parseParamList()
	end := p.cur()
	p.accept(token.Semicolon)
	e.Range = rangeFrom(start, end)
	return e
}

func (p *Parser) parseUsingFor() *ast.UsingForDecl {
	start := p.expect(token.KwUsing)
	u := &ast.UsingForDecl{Node: ast.Node{ID: p.id()}, Operators: map[string]string{}}
	if p.at(token.LBrace) {
		p.advance()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			fn := p.expect(token.Ident)
			name := fn.Text
			if p.at(token.KwAs) {
				p.advance()
				op := p.advance()
				u.Operators[op.Text] = name
			}
			u.LibraryOrFuncs = append(u.LibraryOrFuncs, name)
			if !p.at(token.RBrace) {
				p.expect(token.Comma)
			}
		}
		p.expect(token.RBrace)
	} else {
		lib := p.expect(token.Ident)
		u.LibraryOrFuncs = append(u.LibraryOrFuncs, lib.Text)
	}
	p.expect(token.KwFor)
	if p.at(token.Mul) {
		p.advance()
	} else {
		u.Target = p.parseTypeExpr()
	}
	if p.at(token.Ident) && p.cur().Text == "global" {
		p.advance()
		u.Global = true
	}
	end := p.cur()
	p.accept(token.Semicolon)
	u.Range = rangeFrom(start, end)
	return u
}

func (p *Parser) parseStateVar() *ast.StateVarDecl {
	start := p.cur()
	ty := p.parseTypeExpr()
	v := &ast.StateVarDecl{Node: ast.Node{ID: p.id()}, Type: ty, Visibility: ast.VisInternal}
	for {
		switch {
		case p.at(token.KwPublic), p.at(token.KwInternal), p.at(token.KwPrivate):
			vis, _ := visibilityFromTok(p.advance().Kind)
			v.Visibility = vis
		case p.at(token.KwConstant):
			p.advance()
			v.Constant = true
		case p.at(token.KwImmutable):
			p.advance()
			v.Immutable = true
		default:
			goto doneModifiers
		}
	}
doneModifiers:
	name := p.expect(token.Ident)
	v.Name = name.Text
	if p.at(token.Assign) {
		p.advance()
		v.Init = p.parseExpr()
	}
	end := p.cur()
	p.accept(token.Semicolon)
	v.Range = rangeFrom(start, end)
	return v
}

func (p *Parser) parseOneModifierInvocation() ast.ModifierInvocation {
	name := p.advance()
	mi := ast.ModifierInvocation{Name: name.Text}
	if p.at(token.LParen) {
		p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			mi.Args = append(mi.Args, p.parseExpr())
			if !p.at(token.RParen) {
				p.expect(token.Comma)
			}
		}
		p.expect(token.RParen)
	}
	return mi
}

func (p *Parser) parseModifierInvocations() []ast.ModifierInvocation {
	var out []ast.ModifierInvocation
	for p.at(token.Ident) {
		out = append(out, p.parseOneModifierInvocation())
	}
	return out
}

func (p *Parser) parseFunction(annotations []ast.Annotation) *ast.FunctionDecl {
	start := p.cur()
	name := ""
	switch {
	case p.at(token.KwFunction):
		p.advance()
		if p.at(token.Ident) {
			name = p.advance().Text
		}
	case p.at(token.KwFallback):
		p.advance()
		name = "fallback"
	case p.at(token.KwReceive):
		p.advance()
		name = "receive"
	}
	fn := &ast.FunctionDecl{Node: ast.Node{ID: p.id()}, Name: name, Annotations: annotations}
	fn.Params = p.parseParamList()

	for {
		switch {
		case p.at(token.KwPublic), p.at(token.KwExternal), p.at(token.KwInternal), p.at(token.KwPrivate):
			vis, _ := visibilityFromTok(p.advance().Kind)
			fn.Visibility = vis
		case p.at(token.KwPure), p.at(token.KwView), p.at(token.KwPayable), p.at(token.KwNonpayable):
			mut, _ := mutabilityFromTok(p.advance().Kind)
			fn.Mutability = mut
		case p.at(token.KwVirtual):
			p.advance()
			fn.Virtual = true
		case p.at(token.KwOverride):
			p.advance()
			fn.Override = true
			if p.at(token.LParen) {
				p.advance()
				for !p.at(token.RParen) && !p.at(token.EOF) {
					b := p.expect(token.Ident)
					fn.OverrideSet = append(fn.OverrideSet, b.Text)
					if !p.at(token.RParen) {
						p.expect(token.Comma)
					}
				}
				p.expect(token.RParen)
			}
		case p.at(token.Ident):
			fn.Modifiers = append(fn.Modifiers, p.parseOneModifierInvocation())
		default:
			goto doneSpecifiers
		}
	}
doneSpecifiers:
	if p.at(token.KwReturns) {
		p.advance()
		fn.Returns = p.parseParamList()
	}
	if p.at(token.LBrace) {
		fn.Body = p.parseBlock()
	} else {
		p.accept(token.Semicolon)
	}
	end := p.cur()
	fn.Range = rangeFrom(start, end)
	return fn
}

func (p *Parser) parseConstructor(annotations []ast.Annotation) *ast.ConstructorDecl {
	start := p.expect(token.KwConstructor)
	c := &ast.ConstructorDecl{Node: ast.Node{ID: p.id()}, Annotations: annotations}
	c.Params = p.parseParamList()
	for p.at(token.KwPublic) || p.at(token.KwInternal) || p.at(token.KwPayable) || p.at(token.Ident) {
		switch {
		case p.at(token.KwPayable):
			p.advance()
			c.Mutability = ast.MutPayable
		case p.at(token.KwPublic), p.at(token.KwInternal):
			p.advance()
		default:
			c.Modifiers = append(c.Modifiers, p.parseOneModifierInvocation())
		}
	}
	c.Body = p.parseBlock()
	end := p.cur()
	c.Range = rangeFrom(start, end)
	return c
}

func (p *Parser) parseModifier() *ast.ModifierDecl {
	start := p.expect(token.KwModifier)
	name := p.expect(token.Ident)
	m := &ast.ModifierDecl{Node: ast.Node{ID: p.id()}, Name: name.Text}
	if p.at(token.LParen) {
		m.Params = p.parseParamList()
	}
	if p.at(token.KwVirtual) {
		p.advance()
	}
	if p.at(token.KwOverride) {
		p.advance()
	}
	m.Body = p.parseBlock()
	m.PlaceholderCount = countPlaceholders(m.Body)
	end := p.cur()
	m.Range = rangeFrom(start, end)
	return m
}

func countPlaceholders(b *ast.Block) int {
	n := 0
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch v := s.(type) {
		case *ast.Block:
			for _, st := range v.Stmts {
				walk(st)
			}
		case *ast.ExprStmt:
			if id, ok := v.X.(*ast.Ident); ok && id.Name == "_" {
				n++
			}
		case *ast.IfStmt:
			walk(v.Then)
			if v.Else != nil {
				walk(v.Else)
			}
		case *ast.WhileStmt:
			walk(v.Body)
		case *ast.ForStmt:
			walk(v.Body)
		}
	}
	walk(b)
	return n
}
