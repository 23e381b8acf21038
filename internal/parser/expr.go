package parser

import (
	"strconv"
	"strings"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/token"
)

// parseExpr is the entry point for every expression context; it binds at
// assignment precedence, the loosest level short of a bare comma list (which
// only appears inside explicit parens/brackets/argument lists, never as a
// standalone expression).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssign()
}

var assignOps = map[token.Kind]bool{
	token.Assign: true, token.AddAssign: true, token.SubAssign: true,
	token.MulAssign: true, token.DivAssign: true, token.ModAssign: true,
	token.AndAssign: true, token.OrAssign: true, token.XorAssign: true,
	token.ShlAssign: true, token.ShrAssign: true,
}

func (p *Parser) parseAssign() ast.Expr {
	left := p.parseConditional()
	if assignOps[p.cur().Kind] {
		op := p.advance()
		right := p.parseAssign() // right-associative
		return &ast.AssignExpr{Node: ast.Node{ID: p.id()}, Op: op.Kind.String(), LHS: left, RHS: right}
	}
	return left
}

func (p *Parser) parseConditional() ast.Expr {
	cond := p.parseLogicalOr()
	if p.at(token.Question) {
		p.advance()
		then := p.parseExpr()
		p.expect(token.Colon)
		els := p.parseConditional() // right-associative chaining of nested ternaries
		return &ast.ConditionalExpr{Node: ast.Node{ID: p.id()}, Cond: cond, Then: then, Else: els}
	}
	return cond
}

// parseLeftAssoc implements one left-associative binary precedence level.
func (p *Parser) parseLeftAssoc(next func() ast.Expr, ops ...token.Kind) ast.Expr {
	left := next()
	for {
		matched := false
		for _, k := range ops {
			if p.at(k) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		op := p.advance()
		right := next()
		left = &ast.BinaryExpr{Node: ast.Node{ID: p.id()}, Op: op.Kind.String(), Left: left, Right: right}
	}
}

func (p *Parser) parseLogicalOr() ast.Expr {
	return p.parseLeftAssoc(p.parseLogicalAnd, token.Or)
}
func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.parseLeftAssoc(p.parseEquality, token.And)
}
func (p *Parser) parseEquality() ast.Expr {
	return p.parseLeftAssoc(p.parseRelational, token.Eq, token.Neq)
}
func (p *Parser) parseRelational() ast.Expr {
	return p.parseLeftAssoc(p.parseBitOr, token.Lt, token.Lte, token.Gt, token.Gte)
}
func (p *Parser) parseBitOr() ast.Expr {
	return p.parseLeftAssoc(p.parseBitXor, token.BitOr)
}
func (p *Parser) parseBitXor() ast.Expr {
	return p.parseLeftAssoc(p.parseBitAnd, token.BitXor)
}
func (p *Parser) parseBitAnd() ast.Expr {
	return p.parseLeftAssoc(p.parseShift, token.BitAnd)
}
func (p *Parser) parseShift() ast.Expr {
	return p.parseLeftAssoc(p.parseAdditive, token.Shl, token.Shr)
}
func (p *Parser) parseAdditive() ast.Expr {
	return p.parseLeftAssoc(p.parseMultiplicative, token.Add, token.Sub)
}
func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseLeftAssoc(p.parseExponent, token.Mul, token.Div, token.Mod)
}

// parseExponent is right-associative, per spec 4.1's operator table.
func (p *Parser) parseExponent() ast.Expr {
	left := p.parseUnary()
	if p.at(token.Pow) {
		p.advance()
		right := p.parseExponent()
		return &ast.BinaryExpr{Node: ast.Node{ID: p.id()}, Op: "**", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch {
	case p.at(token.Not), p.at(token.Sub), p.at(token.Add), p.at(token.Tilde):
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Node: ast.Node{ID: p.id()}, Op: op.Kind.String(), X: x}
	case p.at(token.Inc), p.at(token.Dec):
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Node: ast.Node{ID: p.id()}, Op: op.Kind.String(), X: x}
	case p.at(token.KwDelete):
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Node: ast.Node{ID: p.id()}, Op: "delete", X: x}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			name := p.expect(token.Ident)
			x = &ast.MemberExpr{Node: ast.Node{ID: p.id()}, X: x, Name: name.Text}
		case p.at(token.LBracket):
			p.advance()
			var idx ast.Expr
			if !p.at(token.RBracket) {
				idx = p.parseExpr()
			}
			p.expect(token.RBracket)
			x = &ast.IndexExpr{Node: ast.Node{ID: p.id()}, X: x, Index: idx}
		case p.at(token.LBrace):
			opts := p.parseCallOptions()
			args := p.parseCallArgs()
			x = &ast.CallExpr{Node: ast.Node{ID: p.id()}, Callee: x, Args: args, Options: opts}
		case p.at(token.LParen):
			args := p.parseCallArgs()
			x = p.foldCastOrCall(x, args)
		case p.at(token.Inc):
			p.advance()
			x = &ast.UnaryExpr{Node: ast.Node{ID: p.id()}, Op: "++", Postfix: true, X: x}
		case p.at(token.Dec):
			p.advance()
			x = &ast.UnaryExpr{Node: ast.Node{ID: p.id()}, Op: "--", Postfix: true, X: x}
		default:
			return x
		}
	}
}

// foldCastOrCall distinguishes `uint256(x)` (an explicit conversion to an
// elementary type, syntactically unambiguous) from an ordinary call `f(x)`.
// Conversions to a user-defined contract/interface type (e.g. `IERC20(addr)`)
// are indistinguishable from a call at this stage and are left as CallExpr
// for internal/resolver to reinterpret once it has resolved `IERC20` to a
// type name.
func (p *Parser) foldCastOrCall(callee ast.Expr, args []ast.CallArg) ast.Expr {
	id, ok := callee.(*ast.Ident)
	if ok && len(args) == 1 && args[0].Name == "" && isElementaryCastName(id.Name) {
		return &ast.CastExpr{Node: ast.Node{ID: p.id()}, Type: &ast.NamedTypeExpr{Name: id.Name}, X: args[0].Expr}
	}
	return &ast.CallExpr{Node: ast.Node{ID: p.id()}, Callee: callee, Args: args}
}

func (p *Parser) parseCallArgs() []ast.CallArg {
	p.expect(token.LParen)
	var args []ast.CallArg
	if p.at(token.LBrace) {
		p.advance()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			name := p.expect(token.Ident)
			p.expect(token.Colon)
			e := p.parseExpr()
			args = append(args, ast.CallArg{Name: name.Text, Expr: e})
			if !p.at(token.RBrace) {
				p.expect(token.Comma)
			}
		}
		p.expect(token.RBrace)
		p.expect(token.RParen)
		return args
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, ast.CallArg{Expr: p.parseExpr()})
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	p.expect(token.RParen)
	return args
}

// parseCallOptions parses the `{value: v, gas: g, ...}` options block
// attached to a low-level call or a `new` expression (spec 4.5).
func (p *Parser) parseCallOptions() *ast.CallOptions {
	p.expect(token.LBrace)
	opts := &ast.CallOptions{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name := p.expect(token.Ident)
		p.expect(token.Colon)
		e := p.parseExpr()
		switch name.Text {
		case "value":
			opts.Value = e
		case "gas":
			opts.Gas = e
		case "salt":
			opts.Salt = e
		case "accounts":
			opts.Accounts = e
		case "seeds":
			opts.Seeds = e
		case "program_id":
			opts.ProgramID = e
		case "address":
			opts.Address = e
		case "space":
			opts.Space = e
		default:
			p.bag.Addf(diag.Warning, diag.WSynUnknownCallOption, name.Pos, "unknown call option %q ignored", name.Text)
		}
		if !p.at(token.RBrace) {
			p.expect(token.Comma)
		}
	}
	p.expect(token.RBrace)
	return opts
}

func (p *Parser) parseNew() ast.Expr {
	start := p.expect(token.KwNew)
	ty := p.parseTypeExpr()
	n := &ast.NewExpr{Node: ast.Node{ID: p.id()}, Type: ty}
	if p.at(token.LBrace) {
		n.Options = p.parseCallOptions()
	}
	n.Args = p.parseCallArgs()
	end := p.cur()
	n.Range = rangeFrom(start, end)
	return n
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.IntLiteral:
		p.advance()
		text := strings.ReplaceAll(t.Text, "_", "")
		hex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
		return &ast.IntLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Text: text, Hex: hex}
	case token.RationalLiteral:
		p.advance()
		return &ast.RationalLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Text: strings.ReplaceAll(t.Text, "_", "")}
	case token.StringLiteral:
		p.advance()
		return &ast.StringLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Value: unescapeString(t.Text)}
	case token.HexStringLiteral:
		p.advance()
		return &ast.HexStringLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, HexDigits: t.Text}
	case token.AddressLiteral:
		p.advance()
		return &ast.AddressLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Text: t.Text, Base58: !isAllHex(t.Text)}
	case token.UnitLiteral:
		p.advance()
		return p.buildUnitLit(t)
	case token.KwTrue:
		p.advance()
		return &ast.BoolLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Value: true}
	case token.KwFalse:
		p.advance()
		return &ast.BoolLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Value: false}
	case token.KwSuper:
		p.advance()
		return &ast.SuperExpr{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}}
	case token.KwThis:
		p.advance()
		return &ast.ThisExpr{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}}
	case token.KwBool:
		p.advance()
		return &ast.Ident{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Name: "bool"}
	case token.KwString:
		p.advance()
		return &ast.Ident{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Name: "string"}
	case token.KwBytes:
		p.advance()
		return &ast.Ident{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Name: "bytes"}
	case token.KwAddress:
		p.advance()
		return &ast.Ident{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Name: "address"}
	case token.KwPayable:
		p.advance()
		return &ast.Ident{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Name: "payable"}
	case token.KwNew:
		return p.parseNew()
	case token.Ident:
		p.advance()
		return &ast.Ident{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Name: t.Text}
	case token.LParen:
		return p.parseParenOrTuple()
	default:
		p.bag.Addf(diag.Error, diag.ESynUnexpectedToken, t.Pos, "expected expression, found %s %q", t.Kind, t.Text)
		p.advance()
		return &ast.Ident{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Name: "<error>"}
	}
}

// parseParenOrTuple parses `(expr)` as a grouped expression (unwrapped, no
// node of its own) or `(a, , c)` as a TupleExpr, including the omitted-slot
// destructuring-target syntax of spec 4.3.
func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.expect(token.LParen)
	var elems []ast.Expr
	multi := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.Comma) {
			elems = append(elems, nil)
			p.advance()
			multi = true
			continue
		}
		elems = append(elems, p.parseExpr())
		if p.at(token.Comma) {
			p.advance()
			multi = true
			if p.at(token.RParen) {
				elems = append(elems, nil)
			}
		}
	}
	end := p.expect(token.RParen)
	if !multi && len(elems) == 1 {
		return elems[0]
	}
	return &ast.TupleExpr{Node: ast.Node{ID: p.id(), Range: rangeFrom(start, end)}, Elems: elems}
}

func (p *Parser) buildUnitLit(t token.Token) ast.Expr {
	fields := strings.Fields(t.Text)
	numText, unit := t.Text, ""
	if len(fields) == 2 {
		numText, unit = fields[0], fields[1]
	}
	numText = strings.ReplaceAll(numText, "_", "")
	var num ast.Expr
	if strings.ContainsAny(numText, ".eE") {
		num = &ast.RationalLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Text: numText}
	} else {
		num = &ast.IntLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Text: numText}
	}
	return &ast.UnitLit{Node: ast.Node{ID: p.id(), Range: rangeFrom(t, t)}, Number: num, Unit: unit}
}

func isAllHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

// isElementaryCastName reports whether name syntactically names an
// elementary value type, which makes `name(x)` an unambiguous explicit
// conversion rather than a function call (spec 4.1).
func isElementaryCastName(name string) bool {
	switch name {
	case "bool", "string", "bytes", "address", "payable":
		return true
	}
	if w, ok := strings.CutPrefix(name, "uint"); ok {
		return isIntWidth(w)
	}
	if w, ok := strings.CutPrefix(name, "int"); ok {
		return isIntWidth(w)
	}
	if w, ok := strings.CutPrefix(name, "bytes"); ok {
		return isBytesWidth(w)
	}
	return false
}

func isIntWidth(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 8 && n <= 256 && n%8 == 0
}

func isBytesWidth(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 32
}

// unescapeString decodes the backslash escapes recognised by internal/lexer
// (spec 4.1): \n \t \r \\ \' \" \0, plus \xHH and \uHHHH.
func unescapeString(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+2 < len(raw) {
				if v, err := strconv.ParseUint(raw[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteString("\\x")
		case 'u':
			if i+4 < len(raw) {
				if v, err := strconv.ParseUint(raw[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			b.WriteString("\\u")
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}
