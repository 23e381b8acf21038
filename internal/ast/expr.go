package ast

// Expr is the tagged union of expression kinds.
type Expr interface {
	exprNode()
	ExprRange() Range
}

type BoolLit struct {
	Node
	Value bool
}

// IntLit is an integer literal in its original base; Text preserves the
// source spelling (with '_' separators stripped by the parser) so constant
// evaluation can parse it with exact precision via math/big.
type IntLit struct {
	Node
	Text string
	Hex  bool
}

// RationalLit is scientific-notation decimal; spec 4.1 requires the folded
// value be integer — internal/consteval rejects non-integral results.
type RationalLit struct {
	Node
	Text string
}

type StringLit struct {
	Node
	Value string
}

type HexStringLit struct {
	Node
	HexDigits string
}

type AddressLit struct {
	Node
	Text    string
	Base58  bool
}

// UnitLit is an integer/rational literal with a trailing unit suffix
// (seconds|minutes|hours|days|weeks|wei|gwei|ether|lamports|sol).
type UnitLit struct {
	Node
	Number Expr
	Unit   string
}

type Ident struct {
	Node
	Name string
}

type SuperExpr struct{ Node }
type ThisExpr struct{ Node }

type BinaryExpr struct {
	Node
	Op    string
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Node
	Op      string
	Postfix bool
	X       Expr
}

type AssignExpr struct {
	Node
	Op   string // "=", "+=", ...
	LHS  Expr
	RHS  Expr
}

// CallArg carries an optional name for `f({x: 1, y: 2})`-style calls.
type CallArg struct {
	Name string
	Expr Expr
}

// CallOptions are the named call options attached via
// `f.call{value: v, gas: g, salt: s, accounts: a, seeds: s, program_id: p,
// address: addr, space: n}(...)` (spec 4.5).
type CallOptions struct {
	Value     Expr
	Gas       Expr
	Salt      Expr
	Accounts  Expr
	Seeds     Expr
	ProgramID Expr
	Address   Expr
	Space     Expr
}

type CallExpr struct {
	Node
	Callee  Expr
	Args    []CallArg
	Options *CallOptions // nil if no {…} options given
}

type MemberExpr struct {
	Node
	X    Expr
	Name string
}

type IndexExpr struct {
	Node
	X     Expr
	Index Expr // nil for `x[]` abstract array type use-sites
}

// NewExpr models `new C(args)` and `new T[](n)`.
type NewExpr struct {
	Node
	Type    TypeExpr
	Args    []CallArg
	Options *CallOptions
}

// TupleExpr models `(a, b, )` tuple literals/destructuring targets; nil
// entries represent an omitted slot (spec 4.3 "Tuple destructuring").
type TupleExpr struct {
	Node
	Elems []Expr
}

// ConditionalExpr models `cond ? a : b`.
type ConditionalExpr struct {
	Node
	Cond Expr
	Then Expr
	Else Expr
}

// CastExpr models an explicit type conversion `T(x)`.
type CastExpr struct {
	Node
	Type TypeExpr
	X    Expr
}

func (*BoolLit) exprNode()         {}
func (*IntLit) exprNode()          {}
func (*RationalLit) exprNode()     {}
func (*StringLit) exprNode()       {}
func (*HexStringLit) exprNode()    {}
func (*AddressLit) exprNode()      {}
func (*UnitLit) exprNode()         {}
func (*Ident) exprNode()           {}
func (*SuperExpr) exprNode()       {}
func (*ThisExpr) exprNode()        {}
func (*BinaryExpr) exprNode()      {}
func (*UnaryExpr) exprNode()       {}
func (*AssignExpr) exprNode()      {}
func (*CallExpr) exprNode()        {}
func (*MemberExpr) exprNode()      {}
func (*IndexExpr) exprNode()       {}
func (*NewExpr) exprNode()         {}
func (*TupleExpr) exprNode()       {}
func (*ConditionalExpr) exprNode() {}
func (*CastExpr) exprNode()        {}

func (e *BoolLit) ExprRange() Range         { return e.Range }
func (e *IntLit) ExprRange() Range          { return e.Range }
func (e *RationalLit) ExprRange() Range     { return e.Range }
func (e *StringLit) ExprRange() Range       { return e.Range }
func (e *HexStringLit) ExprRange() Range    { return e.Range }
func (e *AddressLit) ExprRange() Range      { return e.Range }
func (e *UnitLit) ExprRange() Range         { return e.Range }
func (e *Ident) ExprRange() Range           { return e.Range }
func (e *SuperExpr) ExprRange() Range       { return e.Range }
func (e *ThisExpr) ExprRange() Range        { return e.Range }
func (e *BinaryExpr) ExprRange() Range      { return e.Range }
func (e *UnaryExpr) ExprRange() Range       { return e.Range }
func (e *AssignExpr) ExprRange() Range      { return e.Range }
func (e *CallExpr) ExprRange() Range        { return e.Range }
func (e *MemberExpr) ExprRange() Range      { return e.Range }
func (e *IndexExpr) ExprRange() Range       { return e.Range }
func (e *NewExpr) ExprRange() Range         { return e.Range }
func (e *TupleExpr) ExprRange() Range       { return e.Range }
func (e *ConditionalExpr) ExprRange() Range { return e.Range }
func (e *CastExpr) ExprRange() Range        { return e.Range }
