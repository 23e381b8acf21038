// Package ast defines the untyped syntax tree produced by internal/parser
// (component C1) and consumed by internal/resolver and internal/types.
//
// Every node carries a stable NodeID (assigned from a per-file counter) and
// a source Range, so later passes — and eventually debug info handed to the
// backend — can always recover "where did this come from" without needing
// parent pointers. Declarations, statements and expressions are modelled as
// small tagged-union interfaces rather than one generic node type, the way
// the retrieved reference ASTs in this corpus do it; cross-references inside
// a single file are plain Go pointers since the AST itself is a tree, but
// every node still carries its NodeID so later passes (symbol table,
// IR builder) can key side-tables off it instead of off the pointer.
package ast

import "synnergy-network/synthesis/internal/token"

// NodeID is a stable per-file node identity.
type NodeID uint32

// Range is the source extent of a node.
type Range struct {
	Start token.Position
	End   token.Position
}

// Node is the common embeddable base for every AST node.
type Node struct {
	ID    NodeID
	Range Range
}

// File is the root of one parsed source file.
type File struct {
	Node
	Path     string
	Pragmas  []*Pragma
	Imports  []*Import
	Contracts []*ContractDecl
	Frees    []Decl // free functions, errors, structs, enums declared outside a contract
}

// Pragma is parsed but never interpreted (spec 4.1); the parser emits an
// info diagnostic for every one seen.
type Pragma struct {
	Node
	Text string
}

// ImportItem is one (name[, alias]) pair in a named import list.
type ImportItem struct {
	Name  string
	Alias string // empty if not aliased
}

// Import models star, named, and aliased imports (spec 4.2).
type Import struct {
	Node
	Path  string
	Alias string       // `import "x" as y` or `import * as y from "x"`
	Star  bool         // `import * as y from "x"`
	Items []ImportItem // `import {a, b as c} from "x"`; empty if Star or plain
}

// Annotation models the @selector/@program_id/@payer/@account/... family
// from spec section 6. Args holds the raw parsed argument expressions;
// semantic validation happens in internal/resolver / internal/target.
type Annotation struct {
	Node
	Name string
	Args []Expr
}

// Decl is the tagged union of top-level and member declarations.
type Decl interface {
	declNode()
	DeclRange() Range
	DeclID() NodeID
}

func (d *ContractDecl) declNode()    {}
func (d *FunctionDecl) declNode()    {}
func (d *EventDecl) declNode()       {}
func (d *ErrorDecl) declNode()       {}
func (d *ConstructorDecl) declNode() {}
func (d *ModifierDecl) declNode()    {}
func (d *StructDecl) declNode()      {}
func (d *EnumDecl) declNode()        {}
func (d *StateVarDecl) declNode()    {}
func (d *UsingForDecl) declNode()    {}
func (d *UserTypeDecl) declNode()    {}

func (d *ContractDecl) DeclRange() Range    { return d.Range }
func (d *FunctionDecl) DeclRange() Range    { return d.Range }
func (d *EventDecl) DeclRange() Range       { return d.Range }
func (d *ErrorDecl) DeclRange() Range       { return d.Range }
func (d *ConstructorDecl) DeclRange() Range { return d.Range }
func (d *ModifierDecl) DeclRange() Range    { return d.Range }
func (d *StructDecl) DeclRange() Range      { return d.Range }
func (d *EnumDecl) DeclRange() Range        { return d.Range }
func (d *StateVarDecl) DeclRange() Range    { return d.Range }
func (d *UsingForDecl) DeclRange() Range    { return d.Range }
func (d *UserTypeDecl) DeclRange() Range    { return d.Range }

func (d *ContractDecl) DeclID() NodeID    { return d.ID }
func (d *FunctionDecl) DeclID() NodeID    { return d.ID }
func (d *EventDecl) DeclID() NodeID       { return d.ID }
func (d *ErrorDecl) DeclID() NodeID       { return d.ID }
func (d *ConstructorDecl) DeclID() NodeID { return d.ID }
func (d *ModifierDecl) DeclID() NodeID    { return d.ID }
func (d *StructDecl) DeclID() NodeID      { return d.ID }
func (d *EnumDecl) DeclID() NodeID        { return d.ID }
func (d *StateVarDecl) DeclID() NodeID    { return d.ID }
func (d *UsingForDecl) DeclID() NodeID    { return d.ID }
func (d *UserTypeDecl) DeclID() NodeID    { return d.ID }

// ContractKind distinguishes concrete/abstract/interface/library (spec 3.2).
type ContractKind int

const (
	KindConcrete ContractKind = iota
	KindAbstract
	KindInterface
	KindLibrary
)

// BaseRef is one entry of a contract's ordered base list, with optional
// constructor arguments supplied inline (`is B(1, 2)`).
type BaseRef struct {
	Name string
	Args []Expr
}

// ContractDecl models contract/interface/library/abstract contract (spec 3.2).
type ContractDecl struct {
	Node
	Name        string
	Kind        ContractKind
	Bases       []BaseRef
	Annotations []Annotation
	StateVars   []*StateVarDecl
	Structs     []*StructDecl
	Enums       []*EnumDecl
	UserTypes   []*UserTypeDecl
	Events      []*EventDecl
	Errors      []*ErrorDecl
	Usings      []*UsingForDecl
	Functions   []*FunctionDecl
	Modifiers   []*ModifierDecl
	Constructor *ConstructorDecl
}

// Visibility is spec 3.2's function visibility.
type Visibility int

const (
	VisPublic Visibility = iota
	VisExternal
	VisInternal
	VisPrivate
)

// Mutability is spec 3.2's declared state mutability.
type Mutability int

const (
	MutNonpayable Mutability = iota
	MutPure
	MutView
	MutPayable
)

// Param is a (possibly unnamed) typed parameter or return value.
type Param struct {
	Name string // may be empty
	Type TypeExpr
}

// FunctionDecl models a function (spec 3.2).
type FunctionDecl struct {
	Node
	Name        string
	Visibility  Visibility
	Mutability  Mutability
	Virtual     bool
	Override    bool
	OverrideSet []string // explicit override(Base1, Base2) list; empty = unqualified
	Params      []Param
	Returns     []Param
	Modifiers   []ModifierInvocation
	Annotations []Annotation
	Body        *Block // nil for abstract/interface functions
}

// ModifierInvocation is one `m(args)` attached to a function or constructor.
type ModifierInvocation struct {
	Name string
	Args []Expr
}

// ConstructorDecl models a contract's single constructor.
type ConstructorDecl struct {
	Node
	Params      []Param
	Modifiers   []ModifierInvocation
	Mutability  Mutability
	Annotations []Annotation
	Body        *Block
}

// ModifierDecl models a modifier; PlaceholderCount (computed by the parser)
// is the number of `_;` sites in Body, used later to detect multi-inlining
// (spec 4.3, warning only).
type ModifierDecl struct {
	Node
	Name             string
	Params           []Param
	Body             *Block
	PlaceholderCount int
}

// EventField is one event parameter, optionally indexed.
type EventField struct {
	Param
	Indexed bool
}

// EventDecl models an event declaration (spec 3.2).
type EventDecl struct {
	Node
	Name      string
	Fields    []EventField
	Anonymous bool
}

// ErrorDecl models a custom error declaration (spec 3.2).
type ErrorDecl struct {
	Node
	Name   string
	Fields []Param
}

// StructField is one (name, type) pair of a struct.
type StructField struct {
	Name string
	Type TypeExpr
}

// StructDecl models a struct type declaration (spec 3.1).
type StructDecl struct {
	Node
	Name   string
	Fields []StructField
}

// EnumDecl models an enum type declaration (spec 3.1); at most 256 variants.
type EnumDecl struct {
	Node
	Name     string
	Variants []string
}

// UserTypeDecl models `type Foo is uint256;` user-defined value types
// (spec 3.1 UserDefined).
type UserTypeDecl struct {
	Node
	Name       string
	Underlying TypeExpr
}

// StateVarDecl models one storage variable declaration (spec 3.2/3.3); the
// declaration order across the linearised inheritance chain is what
// internal/layout assigns slots from.
type StateVarDecl struct {
	Node
	Name     string
	Type     TypeExpr
	Visibility Visibility
	Constant bool
	Immutable bool
	Init     Expr // nil if uninitialised
}

// UsingForDecl models `using L for T;` / `using L for *;` (spec 4.2) plus
// user-defined-operator bindings `using L for T global` with `operator(...)`.
type UsingForDecl struct {
	Node
	LibraryOrFuncs []string // one library name, or a bracketed list of free functions
	Target         TypeExpr // nil means `for *`
	Global         bool
	Operators      map[string]string // operator symbol -> bound free function name
}

// TypeExpr is the untyped type-expression tagged union (spec 3.1, as written
// by the user, before internal/types resolves it to a Type).
type TypeExpr interface {
	typeExprNode()
}

type NamedTypeExpr struct {
	Name string // bool, string, bytes, address, uintN, intN, bytesN, or a user type name
}

type ArrayTypeExpr struct {
	Elem  TypeExpr
	Fixed bool
	Len   Expr // nil if dynamic
}

type MappingTypeExpr struct {
	Key   TypeExpr
	Value TypeExpr
}

type FunctionTypeExpr struct {
	External   bool
	Params     []TypeExpr
	Returns    []TypeExpr
	Mutability Mutability
}

func (*NamedTypeExpr) typeExprNode()    {}
func (*ArrayTypeExpr) typeExprNode()    {}
func (*MappingTypeExpr) typeExprNode()  {}
func (*FunctionTypeExpr) typeExprNode() {}
