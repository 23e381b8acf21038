// Package token defines the lexical token kinds produced by internal/lexer
// and consumed by internal/parser.
package token

import "fmt"

// Kind identifies the lexical category of a Token. It is a small closed enum
// in the style of the teacher's opcode/class enums: a plain integer type
// with a hand-written String method rather than a generated one.
type Kind uint16

const (
	EOF Kind = iota
	Illegal

	Ident
	IntLiteral
	RationalLiteral // scientific-notation decimal, integer-valued only (spec 4.1)
	StringLiteral
	HexStringLiteral
	AddressLiteral // address"..." in hex (EIP-55) or base58 form
	UnitLiteral    // a literal with a trailing unit suffix, e.g. 1 ether

	Comment
	DocComment

	// Punctuation & operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
	Arrow // =>
	Question
	At // '@', introduces an annotation (spec section 6)

	Assign
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	AndAssign
	OrAssign
	XorAssign
	ShlAssign
	ShrAssign

	Eq
	Neq
	Lt
	Lte
	Gt
	Gte

	Add
	Sub
	Mul
	Div
	Mod
	Pow
	Inc
	Dec

	And // &&
	Or  // ||
	Not

	BitAnd
	BitOr
	BitXor
	BitNot
	Shl
	Shr

	Tilde // user-defined-operator '~'

	// Keywords
	KwPragma
	KwImport
	KwAs
	KwFrom
	KwContract
	KwInterface
	KwLibrary
	KwAbstract
	KwIs
	KwFunction
	KwModifier
	KwEvent
	KwError
	KwConstructor
	KwFallback
	KwReceive
	KwReturns
	KwReturn
	KwIf
	KwElse
	KwFor
	KwWhile
	KwDo
	KwBreak
	KwContinue
	KwTry
	KwCatch
	KwRevert
	KwEmit
	KwNew
	KwDelete
	KwUsing
	KwMapping
	KwStruct
	KwEnum
	KwPublic
	KwPrivate
	KwInternal
	KwExternal
	KwPure
	KwView
	KwPayable
	KwNonpayable
	KwConstant
	KwImmutable
	KwOverride
	KwVirtual
	KwStorage
	KwMemory
	KwCalldata
	KwIndexed
	KwAnonymous
	KwUnchecked
	KwAssembly
	KwLet
	KwTrue
	KwFalse
	KwSuper
	KwThis

	// type keywords. Sized integer/bytes types (uint256, bytes32, ...) are
	// not reserved words: they lex as plain identifiers and internal/irbuild
	// parses the width suffix when resolving a NamedTypeExpr.
	KwBool
	KwString
	KwBytes
	KwAddress
)

var names = map[Kind]string{
	EOF: "EOF", Illegal: "ILLEGAL",
	Ident: "IDENT", IntLiteral: "INT", RationalLiteral: "RATIONAL",
	StringLiteral: "STRING", HexStringLiteral: "HEXSTRING", AddressLiteral: "ADDRESS",
	UnitLiteral: "UNIT", Comment: "COMMENT", DocComment: "DOCCOMMENT",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semicolon: ";", Colon: ":", Dot: ".", Arrow: "=>", Question: "?", At: "@",
	Assign: "=", AddAssign: "+=", SubAssign: "-=", MulAssign: "*=", DivAssign: "/=",
	ModAssign: "%=", AndAssign: "&=", OrAssign: "|=", XorAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	Eq: "==", Neq: "!=", Lt: "<", Lte: "<=", Gt: ">", Gte: ">=",
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Pow: "**", Inc: "++", Dec: "--",
	And: "&&", Or: "||", Not: "!",
	BitAnd: "&", BitOr: "|", BitXor: "^", BitNot: "~", Shl: "<<", Shr: ">>",
	Tilde: "~",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Keywords maps the literal spelling to its Kind for lexer lookups.
var Keywords = map[string]Kind{
	"pragma": KwPragma, "import": KwImport, "as": KwAs, "from": KwFrom,
	"contract": KwContract, "interface": KwInterface, "library": KwLibrary,
	"abstract": KwAbstract, "is": KwIs,
	"function": KwFunction, "modifier": KwModifier, "event": KwEvent, "error": KwError,
	"constructor": KwConstructor, "fallback": KwFallback, "receive": KwReceive,
	"returns": KwReturns, "return": KwReturn,
	"if": KwIf, "else": KwElse, "for": KwFor, "while": KwWhile, "do": KwDo,
	"break": KwBreak, "continue": KwContinue,
	"try": KwTry, "catch": KwCatch, "revert": KwRevert, "emit": KwEmit,
	"new": KwNew, "delete": KwDelete, "using": KwUsing,
	"mapping": KwMapping, "struct": KwStruct, "enum": KwEnum,
	"public": KwPublic, "private": KwPrivate, "internal": KwInternal, "external": KwExternal,
	"pure": KwPure, "view": KwView, "payable": KwPayable, "nonpayable": KwNonpayable,
	"constant": KwConstant, "immutable": KwImmutable,
	"override": KwOverride, "virtual": KwVirtual,
	"storage": KwStorage, "memory": KwMemory, "calldata": KwCalldata,
	"indexed": KwIndexed, "anonymous": KwAnonymous, "unchecked": KwUnchecked,
	"assembly": KwAssembly, "let": KwLet,
	"true": KwTrue, "false": KwFalse, "super": KwSuper, "this": KwThis,
	"bool": KwBool, "string": KwString, "bytes": KwBytes, "address": KwAddress,
}

// Units recognised as numeric literal suffixes (spec 4.1).
var Units = map[string]bool{
	"seconds": true, "minutes": true, "hours": true, "days": true, "weeks": true,
	"wei": true, "gwei": true, "ether": true, "lamports": true, "sol": true,
}

// Position locates a byte within a source file.
type Position struct {
	File   string
	Line   int // 1-based
	Col    int // 1-based, in bytes
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Token is a single lexical token with its source range.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
	End  Position
}
