package resolver

import "synnergy-network/synthesis/internal/ast"

// UsingForBinding records one `using L for T;` / `using L for *;` /
// `using {a, b} for T;` declaration, resolved to the set of callable names
// it attaches to a type (or, for `for *`, every type in the file).
type UsingForBinding struct {
	Funcs    []string // library name (its public functions) or the free-function list
	Target   ast.TypeExpr // nil means "for *"
	Global   bool
	Operators map[string]string // operator symbol -> bound function name
}

// UsingForTable is the per-file (type-name | "*") -> bindings index built
// from a file's UsingForDecls; "*" is the wildcard bucket (spec 4.2).
type UsingForTable struct {
	byType map[string][]UsingForBinding
	global []UsingForBinding // `global` bindings, which additionally follow the type through imports
}

const wildcardKey = "*"

// NewUsingForTable builds the index from one file's using-for declarations.
// typeKey renders an ast.TypeExpr to the string key this table indexes by
// (the resolver's caller supplies it, since only internal/types can name a
// resolved type canonically; for NamedTypeExpr the raw name is used here as
// an approximation good enough for same-file dispatch).
func NewUsingForTable(decls []*ast.UsingForDecl, typeKey func(ast.TypeExpr) string) *UsingForTable {
	t := &UsingForTable{byType: map[string][]UsingForBinding{}}
	for _, d := range decls {
		b := UsingForBinding{Funcs: d.LibraryOrFuncs, Target: d.Target, Global: d.Global, Operators: d.Operators}
		key := wildcardKey
		if d.Target != nil {
			key = typeKey(d.Target)
		}
		t.byType[key] = append(t.byType[key], b)
		if d.Global {
			t.global = append(t.global, b)
		}
	}
	return t
}

// Lookup returns every binding attached to typeName, including wildcard
// bindings, in declaration order (last-declared wins on a name collision is
// left to the caller, matching how using-for shadowing works member-call by
// member-call rather than at table-build time).
func (t *UsingForTable) Lookup(typeName string) []UsingForBinding {
	out := append([]UsingForBinding{}, t.byType[typeName]...)
	out = append(out, t.byType[wildcardKey]...)
	return out
}

// GlobalBindings returns every `global` binding in this file, which a
// different file importing a type from here must still honour (spec 4.2:
// "global bindings following the type through imports").
func (t *UsingForTable) GlobalBindings() []UsingForBinding {
	return t.global
}

// ResolveOperator finds the free function bound to operator symbol op for
// typeName, if any.
func (t *UsingForTable) ResolveOperator(typeName, op string) (string, bool) {
	for _, b := range t.Lookup(typeName) {
		if b.Operators == nil {
			continue
		}
		if fn, ok := b.Operators[op]; ok {
			return fn, true
		}
	}
	return "", false
}
