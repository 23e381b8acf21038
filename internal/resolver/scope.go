package resolver

import "synnergy-network/synthesis/internal/ast"

// SymbolKind discriminates what a Scope entry names.
type SymbolKind int

const (
	SymImport SymbolKind = iota
	SymContract
	SymFunction
	SymModifier
	SymEvent
	SymError
	SymStruct
	SymEnum
	SymUserType
	SymStateVar
	SymLocalVar
	SymParam
)

// Symbol is one named entity visible in a Scope.
type Symbol struct {
	Name string
	Kind SymbolKind
	Decl ast.Node // the declaration's Node embed, for position info
}

// ScopeLevel mirrors spec 4.2's global -> file -> contract -> function ->
// block nesting.
type ScopeLevel int

const (
	LevelGlobal ScopeLevel = iota
	LevelFile
	LevelContract
	LevelFunction
	LevelBlock
)

// Scope is one level of the lexical nesting; lookups walk outward through
// Parent until a binding is found or the chain is exhausted.
type Scope struct {
	Level   ScopeLevel
	Parent  *Scope
	symbols map[string]*Symbol
	// order preserves declaration order for diagnostics that need it
	// (e.g. "first declared wins on same-name method conflict").
	order []string
}

// NewScope creates a child scope of parent (nil for the root global scope).
func NewScope(level ScopeLevel, parent *Scope) *Scope {
	return &Scope{Level: level, Parent: parent, symbols: map[string]*Symbol{}}
}

// Declare adds name to this scope. It does not overwrite an existing
// binding and reports false instead; the caller emits WResDuplicateTopLevel
// on false, since "first declared wins" (spec 3.2) is a warning, not a
// silent overwrite.
func (s *Scope) Declare(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym.Name)
	return true
}

// LookupLocal finds name only within this scope, not its ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup finds name in this scope or any ancestor, innermost wins.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Names returns this scope's declared names in declaration order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
