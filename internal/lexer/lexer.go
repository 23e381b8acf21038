// Package lexer implements the hand-written scanner for component C1
// (spec section 4.1): identifiers, numeric literals with digit separators,
// scientific notation, string/hex-string/address literals, line and block
// comments with doc tags, and unit-suffixed numeric literals.
package lexer

import (
	"strings"
	"unicode/utf8"

	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/token"
)

// Lexer scans one source file into a stream of tokens, one at a time.
type Lexer struct {
	file string
	src  []byte
	pos  int // byte offset of the next unread byte
	line int
	col  int
	bag  *diag.Bag
}

// New creates a Lexer over src, identified by file for diagnostics.
func New(file string, src []byte, bag *diag.Bag) *Lexer {
	return &Lexer{file: file, src: src, pos: 0, line: 1, col: 1, bag: bag}
}

func (l *Lexer) position() token.Position {
	return token.Position{File: l.file, Line: l.line, Col: l.col, Offset: l.pos}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool   { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isIdentStart(c byte) bool { return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf }
func isIdentCont(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// Next scans and returns the next token. It returns a token.EOF token once
// the source is exhausted; subsequent calls keep returning EOF.
func (l *Lexer) Next() token.Token {
	l.skipSpaceAndComments()
	start := l.position()
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Pos: start, End: start}
	}
	c := l.peekByte()

	switch {
	case isIdentStart(c):
		return l.scanIdentOrKeywordOrLiteralPrefixed(start)
	case isDigit(c):
		return l.scanNumber(start)
	case c == '"' || c == '\'':
		return l.scanString(start, c)
	}

	return l.scanOperator(start)
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekByteAt(1) == '/':
			for l.peekByte() != '\n' && l.pos < len(l.src) {
				l.advance()
			}
		case c == '/' && l.peekByteAt(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

// scanIdentOrKeywordOrLiteralPrefixed handles identifiers, keywords, the
// `hex"..."` and `address"..."` literal prefixes, and boolean literals.
func (l *Lexer) scanIdentOrKeywordOrLiteralPrefixed(start token.Position) token.Token {
	for isIdentCont(l.peekByte()) {
		l.advance()
	}
	text := string(l.src[start.Offset:l.pos])

	if text == "hex" && (l.peekByte() == '"' || l.peekByte() == '\'') {
		return l.scanHexString(start)
	}
	if text == "address" && (l.peekByte() == '"' || l.peekByte() == '\'') {
		return l.scanAddressLiteral(start)
	}
	if kw, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kw, Text: text, Pos: start, End: l.position()}
	}
	return token.Token{Kind: token.Ident, Text: text, Pos: start, End: l.position()}
}

func (l *Lexer) scanHexString(start token.Position) token.Token {
	quote := l.advance()
	contentStart := l.pos
	for l.peekByte() != quote && l.pos < len(l.src) {
		l.advance()
	}
	content := string(l.src[contentStart:l.pos])
	if l.pos < len(l.src) {
		l.advance() // closing quote
	} else {
		l.errf(start, diag.ELexUnterminatedLiteral, "unterminated hex string literal")
	}
	if len(content)%2 != 0 {
		l.errf(start, diag.ELexBadNumericForm, "hex string literal must have an even number of digits")
	}
	for i := 0; i < len(content); i++ {
		if !isHexDigit(content[i]) {
			l.errf(start, diag.ELexBadNumericForm, "invalid hex digit in hex string literal")
			break
		}
	}
	return token.Token{Kind: token.HexStringLiteral, Text: content, Pos: start, End: l.position()}
}

func (l *Lexer) scanAddressLiteral(start token.Position) token.Token {
	quote := l.advance()
	contentStart := l.pos
	for l.peekByte() != quote && l.pos < len(l.src) {
		l.advance()
	}
	content := string(l.src[contentStart:l.pos])
	if l.pos < len(l.src) {
		l.advance()
	} else {
		l.errf(start, diag.ELexUnterminatedLiteral, "unterminated address literal")
	}
	return token.Token{Kind: token.AddressLiteral, Text: content, Pos: start, End: l.position()}
}

// scanNumber handles decimal/hex integers with '_' separators, scientific
// notation (integer-valued only), and trailing unit suffixes.
func (l *Lexer) scanNumber(start token.Position) token.Token {
	isHex := false
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		isHex = true
		l.advance()
		l.advance()
		for isHexDigit(l.peekByte()) || l.peekByte() == '_' {
			l.advance()
		}
	} else {
		for isDigit(l.peekByte()) || l.peekByte() == '_' {
			l.advance()
		}
	}

	kind := token.IntLiteral
	if !isHex {
		if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
			kind = token.RationalLiteral
			l.advance()
			for isDigit(l.peekByte()) || l.peekByte() == '_' {
				l.advance()
			}
		}
		if l.peekByte() == 'e' || l.peekByte() == 'E' {
			kind = token.RationalLiteral
			l.advance()
			if l.peekByte() == '+' || l.peekByte() == '-' {
				l.advance()
			}
			for isDigit(l.peekByte()) {
				l.advance()
			}
		}
	}

	text := string(l.src[start.Offset:l.pos])
	if strings.HasPrefix(text, "_") || strings.Contains(text, "x_") || strings.Contains(text, "X_") {
		l.errf(start, diag.ELexBadNumericForm, "leading underscore in numeric literal")
	}

	// optional unit suffix, separated by at least one space per the grammar
	savedPos, savedLine, savedCol := l.pos, l.line, l.col
	spaceSeen := false
	for l.peekByte() == ' ' {
		l.advance()
		spaceSeen = true
	}
	if spaceSeen && isIdentStart(l.peekByte()) {
		unitStart := l.pos
		for isIdentCont(l.peekByte()) {
			l.advance()
		}
		unit := string(l.src[unitStart:l.pos])
		if token.Units[unit] {
			full := string(l.src[start.Offset:l.pos])
			return token.Token{Kind: token.UnitLiteral, Text: full, Pos: start, End: l.position()}
		}
		l.pos, l.line, l.col = savedPos, savedLine, savedCol
	} else {
		l.pos, l.line, l.col = savedPos, savedLine, savedCol
	}

	return token.Token{Kind: kind, Text: text, Pos: start, End: l.position()}
}

func (l *Lexer) scanString(start token.Position, quote byte) token.Token {
	l.advance()
	contentStart := l.pos
	for l.pos < len(l.src) {
		c := l.peekByte()
		if c == quote {
			break
		}
		if c == '\\' {
			l.advance()
			if l.pos >= len(l.src) {
				break
			}
			esc := l.peekByte()
			if !isValidEscape(esc) {
				l.errf(l.position(), diag.ELexInvalidEscape, "invalid escape sequence")
			}
			l.advance()
			continue
		}
		if c == '\n' {
			l.errf(start, diag.ELexUnterminatedLiteral, "unterminated string literal")
			break
		}
		l.advance()
	}
	content := string(l.src[contentStart:l.pos])
	if l.pos < len(l.src) && l.peekByte() == quote {
		l.advance()
	} else if l.pos >= len(l.src) {
		l.errf(start, diag.ELexUnterminatedLiteral, "unterminated string literal")
	}
	return token.Token{Kind: token.StringLiteral, Text: content, Pos: start, End: l.position()}
}

func isValidEscape(c byte) bool {
	switch c {
	case 'n', 't', 'r', '\\', '\'', '"', '0', 'x', 'u':
		return true
	}
	return false
}

func (l *Lexer) scanOperator(start token.Position) token.Token {
	c := l.advance()
	two := func(next byte, k2, k1 token.Kind) token.Token {
		if l.peekByte() == next {
			l.advance()
			return token.Token{Kind: k2, Pos: start, End: l.position()}
		}
		return token.Token{Kind: k1, Pos: start, End: l.position()}
	}
	switch c {
	case '(':
		return token.Token{Kind: token.LParen, Pos: start, End: l.position()}
	case ')':
		return token.Token{Kind: token.RParen, Pos: start, End: l.position()}
	case '{':
		return token.Token{Kind: token.LBrace, Pos: start, End: l.position()}
	case '}':
		return token.Token{Kind: token.RBrace, Pos: start, End: l.position()}
	case '[':
		return token.Token{Kind: token.LBracket, Pos: start, End: l.position()}
	case ']':
		return token.Token{Kind: token.RBracket, Pos: start, End: l.position()}
	case ',':
		return token.Token{Kind: token.Comma, Pos: start, End: l.position()}
	case ';':
		return token.Token{Kind: token.Semicolon, Pos: start, End: l.position()}
	case ':':
		return token.Token{Kind: token.Colon, Pos: start, End: l.position()}
	case '.':
		return token.Token{Kind: token.Dot, Pos: start, End: l.position()}
	case '?':
		return token.Token{Kind: token.Question, Pos: start, End: l.position()}
	case '~':
		return token.Token{Kind: token.Tilde, Pos: start, End: l.position()}
	case '@':
		return token.Token{Kind: token.At, Pos: start, End: l.position()}
	case '+':
		if l.peekByte() == '+' {
			l.advance()
			return token.Token{Kind: token.Inc, Pos: start, End: l.position()}
		}
		return two('=', token.AddAssign, token.Add)
	case '-':
		if l.peekByte() == '-' {
			l.advance()
			return token.Token{Kind: token.Dec, Pos: start, End: l.position()}
		}
		return two('=', token.SubAssign, token.Sub)
	case '*':
		if l.peekByte() == '*' {
			l.advance()
			return token.Token{Kind: token.Pow, Pos: start, End: l.position()}
		}
		return two('=', token.MulAssign, token.Mul)
	case '/':
		return two('=', token.DivAssign, token.Div)
	case '%':
		return two('=', token.ModAssign, token.Mod)
	case '=':
		if l.peekByte() == '=' {
			l.advance()
			return token.Token{Kind: token.Eq, Pos: start, End: l.position()}
		}
		if l.peekByte() == '>' {
			l.advance()
			return token.Token{Kind: token.Arrow, Pos: start, End: l.position()}
		}
		return token.Token{Kind: token.Assign, Pos: start, End: l.position()}
	case '!':
		return two('=', token.Neq, token.Not)
	case '<':
		if l.peekByte() == '<' {
			l.advance()
			return two('=', token.ShlAssign, token.Shl)
		}
		return two('=', token.Lte, token.Lt)
	case '>':
		if l.peekByte() == '>' {
			l.advance()
			return two('=', token.ShrAssign, token.Shr)
		}
		return two('=', token.Gte, token.Gt)
	case '&':
		if l.peekByte() == '&' {
			l.advance()
			return token.Token{Kind: token.And, Pos: start, End: l.position()}
		}
		return two('=', token.AndAssign, token.BitAnd)
	case '|':
		if l.peekByte() == '|' {
			l.advance()
			return token.Token{Kind: token.Or, Pos: start, End: l.position()}
		}
		return two('=', token.OrAssign, token.BitOr)
	case '^':
		return two('=', token.XorAssign, token.BitXor)
	}
	l.errf(start, diag.ELexIllegalChar, "unexpected character %q", string(rune(c)))
	return token.Token{Kind: token.Illegal, Text: string(rune(c)), Pos: start, End: l.position()}
}

func (l *Lexer) errf(pos token.Position, code diag.Code, format string, args ...any) {
	l.bag.Addf(diag.Error, code, pos, format, args...)
}
