// Package parser implements the hand-written, predictive recursive-descent
// parser of component C1 (spec section 4.1). Local backtracking is used only
// to resolve the `type-expr` vs `call-expr` ambiguity at the head of a
// statement (e.g. `Foo.Bar x;` — a variable declaration — versus
// `Foo.Bar(x);` — a call expression statement): the parser saves its token
// cursor, attempts the declaration grammar, and rewinds on failure, mirroring
// the save/restore trial-parse technique used by the retrieved reference
// parser for its own local instruction/operand ambiguity.
package parser

import (
	"strconv"
	"strings"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/lexer"
	"synnergy-network/synthesis/internal/token"
)

// Parser holds the full token stream for one file (tokenised eagerly, since
// Solidity sources are small enough that this is simpler than a streaming
// lexer/parser handshake) plus a cursor and a running NodeID counter.
type Parser struct {
	file   string
	toks   []token.Token
	pos    int
	bag    *diag.Bag
	nextID ast.NodeID
}

// New tokenises src completely and returns a Parser positioned at the start.
func New(file string, src []byte, bag *diag.Bag) *Parser {
	lx := lexer.New(file, src, bag)
	var toks []token.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return &Parser{file: file, toks: toks, bag: bag}
}

func (p *Parser) id() ast.NodeID {
	p.nextID++
	return p.nextID
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

// mark/reset implement the trial-parse backtracking.
func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(m int)    { p.pos = m }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	t := p.cur()
	p.bag.Addf(diag.Error, diag.ESynExpectedToken, t.Pos, "expected %s, found %s %q", k, t.Kind, t.Text)
	p.resyncStatement()
	return t
}

// resyncStatement implements the recovery rule of spec section 7: skip to
// the next ';' or '}' at the current nesting depth.
func (p *Parser) resyncStatement() {
	depth := 0
	for {
		t := p.cur()
		if t.Kind == token.EOF {
			return
		}
		switch t.Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func rangeFrom(start, end token.Token) ast.Range {
	return ast.Range{Start: start.Pos, End: end.End}
}

// ParseFile parses one complete source file.
func (p *Parser) ParseFile() *ast.File {
	start := p.cur()
	f := &ast.File{Node: ast.Node{ID: p.id()}, Path: p.file}
	for !p.at(token.EOF) {
		switch {
		case p.at(token.KwPragma):
			f.Pragmas = append(f.Pragmas, p.parsePragma())
		case p.at(token.KwImport):
			f.Imports = append(f.Imports, p.parseImport())
		default:
			annotations := p.parseAnnotations()
			switch {
			case p.at(token.KwContract), p.at(token.KwInterface), p.at(token.KwLibrary), p.at(token.KwAbstract):
				f.Contracts = append(f.Contracts, p.parseContract(annotations))
			case p.at(token.KwStruct):
				f.Frees = append(f.Frees, p.parseStruct())
			case p.at(token.KwEnum):
				f.Frees = append(f.Frees, p.parseEnum())
			case p.at(token.KwError):
				f.Frees = append(f.Frees, p.parseErrorDecl())
			default:
				t := p.cur()
				p.bag.Addf(diag.Error, diag.ESynUnexpectedToken, t.Pos, "unexpected token %s %q at file scope", t.Kind, t.Text)
				p.resyncStatement()
			}
		}
	}
	end := p.cur()
	f.Range = rangeFrom(start, end)
	return f
}

func (p *Parser) parsePragma() *ast.Pragma {
	start := p.expect(token.KwPragma)
	var b strings.Builder
	for !p.at(token.Semicolon) && !p.at(token.EOF) {
		b.WriteString(p.advance().Text)
		b.WriteByte(' ')
	}
	end := p.cur()
	p.accept(token.Semicolon)
	pr := &ast.Pragma{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, end)}, Text: strings.TrimSpace(b.String())}
	p.bag.Addf(diag.Info, diag.IPragmaIgnored, start.Pos, "pragma %q parsed but not interpreted", pr.Text)
	return pr
}

func (p *Parser) parseImport() *ast.Import {
	start := p.expect(token.KwImport)
	imp := &ast.Import{Node: ast.Node{ID: p.id()}}

	switch {
	case p.at(token.StringLiteral):
		// import "path"; or import "path" as alias;
		lit, _ := p.accept(token.StringLiteral)
		imp.Path = lit.Text
		if p.at(token.KwAs) {
			p.advance()
			alias := p.expect(token.Ident)
			imp.Alias = alias.Text
		}
	case p.cur().Kind == token.Mul:
		p.advance()
		p.expect(token.KwAs)
		alias := p.expect(token.Ident)
		imp.Alias = alias.Text
		imp.Star = true
		p.expect(token.KwFrom)
		lit := p.expect(token.StringLiteral)
		imp.Path = lit.Text
	case p.at(token.LBrace):
		p.advance()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			name := p.expect(token.Ident)
			item := ast.ImportItem{Name: name.Text}
			if p.at(token.KwAs) {
				p.advance()
				alias := p.expect(token.Ident)
				item.Alias = alias.Text
			}
			imp.Items = append(imp.Items, item)
			if !p.at(token.RBrace) {
				p.expect(token.Comma)
			}
		}
		p.expect(token.RBrace)
		p.expect(token.KwFrom)
		lit := p.expect(token.StringLiteral)
		imp.Path = lit.Text
	default:
		t := p.cur()
		p.bag.Addf(diag.Error, diag.ESynUnexpectedToken, t.Pos, "malformed import directive")
		p.resyncStatement()
	}
	end := p.cur()
	p.accept(token.Semicolon)
	imp.Range = rangeFrom(start, end)
	return imp
}

func (p *Parser) parseAnnotations() []ast.Annotation {
	var out []ast.Annotation
	for p.at(token.At) {
		out = append(out, p.parseAnnotation())
	}
	return out
}

func (p *Parser) parseAnnotation() ast.Annotation {
	start := p.advance() // '@'
	name := p.expect(token.Ident)
	an := ast.Annotation{Node: ast.Node{ID: p.id()}, Name: name.Text}
	if p.at(token.LParen) {
		p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			an.Args = append(an.Args, p.parseExpr())
			if !p.at(token.RParen) {
				p.expect(token.Comma)
			}
		}
		p.expect(token.RParen)
	}
	end := p.cur()
	an.Range = rangeFrom(start, end)
	return an
}

func visibilityFromTok(k token.Kind) (ast.Visibility, bool) {
	switch k {
	case token.KwPublic:
		return ast.VisPublic, true
	case token.KwExternal:
		return ast.VisExternal, true
	case token.KwInternal:
		return ast.VisInternal, true
	case token.KwPrivate:
		return ast.VisPrivate, true
	}
	return 0, false
}

func mutabilityFromTok(k token.Kind) (ast.Mutability, bool) {
	switch k {
	case token.KwPure:
		return ast.MutPure, true
	case token.KwView:
		return ast.MutView, true
	case token.KwPayable:
		return ast.MutPayable, true
	case token.KwNonpayable:
		return ast.MutNonpayable, true
	}
	return 0, false
}

func parseIntText(s string) (int64, bool) {
	s = strings.ReplaceAll(s, "_", "")
	n, err := strconv.ParseInt(s, 0, 64)
	return n, err == nil
}
