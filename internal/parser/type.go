package parser

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/token"
)

// parseTypeExpr parses a type expression and any trailing `[]`/`[N]` array
// suffixes.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	var base ast.TypeExpr
	switch {
	case p.at(token.KwMapping):
		base = p.parseMappingType()
	case p.at(token.Ident), p.at(token.KwBool), p.at(token.KwString), p.at(token.KwBytes), p.at(token.KwAddress):
		name := p.advance()
		text := name.Text
		if name.Kind != token.Ident {
			text = name.Kind.String()
			if name.Kind == token.KwBool {
				text = "bool"
			} else if name.Kind == token.KwString {
				text = "string"
			} else if name.Kind == token.KwBytes {
				text = "bytes"
			} else if name.Kind == token.KwAddress {
				text = "address"
				if p.at(token.KwPayable) {
					p.advance()
					text = "address payable"
				}
			}
		}
		// dotted path for imported/user types, e.g. Lib.Struct
		for p.at(token.Dot) {
			p.advance()
			next := p.expect(token.Ident)
			text = text + "." + next.Text
		}
		base = &ast.NamedTypeExpr{Name: text}
	default:
		t := p.cur()
		p.bag.Addf(diag.Error, diag.ESynUnexpectedToken, t.Pos, "expected type expression, found %s %q", t.Kind, t.Text)
		base = &ast.NamedTypeExpr{Name: "<error>"}
	}

	for p.at(token.LBracket) {
		p.advance()
		arr := &ast.ArrayTypeExpr{Elem: base}
		if !p.at(token.RBracket) {
			arr.Fixed = true
			arr.Len = p.parseExpr()
		}
		p.expect(token.RBracket)
		base = arr
	}
	return base
}

func (p *Parser) parseMappingType() ast.TypeExpr {
	p.expect(token.KwMapping)
	p.expect(token.LParen)
	key := p.parseTypeExpr()
	// optional parameter name on the key, e.g. mapping(address who => uint)
	if p.at(token.Ident) {
		p.advance()
	}
	p.expect(token.Arrow)
	val := p.parseTypeExpr()
	p.expect(token.RParen)
	return &ast.MappingTypeExpr{Key: key, Value: val}
}

// parseParamList parses a parenthesised, comma-separated parameter list
// where each parameter is `Type [location] [name]`.
func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LParen)
	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		ty := p.parseTypeExpr()
		switch {
		case p.at(token.KwStorage), p.at(token.KwMemory), p.at(token.KwCalldata):
			p.advance() // location is re-derived by the resolver from context; parsed here to not choke the grammar
		}
		name := ""
		if p.at(token.Ident) {
			name = p.advance().Text
		}
		params = append(params, ast.Param{Name: name, Type: ty})
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	p.expect(token.RParen)
	return params
}
