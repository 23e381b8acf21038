package resolver

import (
	"strconv"
	"strings"

	"synnergy-network/synthesis/internal/ast"
)

// OverloadKey is the (length, per-position type) signature used to detect
// overload collisions: spec 4.2 permits same-name functions whenever their
// parameter type sequences differ in length or in any position, and
// forbids return-type-only overloading.
type OverloadKey string

// MangledName renders the exported dispatch name for a function overload:
// the function name followed by underscore-separated parameter-type
// mnemonics (spec 4.2's final paragraph).
func MangledName(funcName string, params []ast.Param) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, funcName)
	for _, p := range params {
		parts = append(parts, mangleTypeExpr(p.Type))
	}
	return strings.Join(parts, "_")
}

func mangleTypeExpr(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.NamedTypeExpr:
		return v.Name
	case *ast.ArrayTypeExpr:
		if v.Fixed {
			return mangleTypeExpr(v.Elem) + strconv.Itoa(fixedLenHint(v))
		}
		return mangleTypeExpr(v.Elem) + "Array"
	case *ast.MappingTypeExpr:
		return "_mapping_" + mangleTypeExpr(v.Key) + "_" + mangleTypeExpr(v.Value)
	case *ast.FunctionTypeExpr:
		return "_fn"
	}
	return "_"
}

// fixedLenHint extracts a literal fixed-array length for the mangled name
// when the length expression is a plain integer literal; non-literal
// lengths (expressions referencing a named constant) fall back to 0, since
// the mangled name is a display aid and constant folding happens later in
// internal/consteval.
func fixedLenHint(a *ast.ArrayTypeExpr) int {
	lit, ok := a.Len.(*ast.IntLit)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(lit.Text)
	if err != nil {
		return 0
	}
	return n
}

// OverloadKeyOf builds the collision key for a parameter list: arity plus
// each parameter's mangled type in order, so two lists differing in length
// or in any position are distinct keys.
func OverloadKeyOf(params []ast.Param) OverloadKey {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = mangleTypeExpr(p.Type)
	}
	return OverloadKey(strconv.Itoa(len(params)) + ":" + strings.Join(parts, ","))
}

// OverloadSet groups every same-named function declared in one contract
// scope and the collision keys they occupy.
type OverloadSet struct {
	Name  string
	byKey map[OverloadKey]*ast.FunctionDecl
}

// NewOverloadSet starts an empty overload set for name.
func NewOverloadSet(name string) *OverloadSet {
	return &OverloadSet{Name: name, byKey: map[OverloadKey]*ast.FunctionDecl{}}
}

// Add registers fn; it reports false (without replacing the existing
// entry) when another function with an identical parameter-type sequence
// already occupies that key — return-type-only overloading, which spec 4.2
// forbids.
func (s *OverloadSet) Add(fn *ast.FunctionDecl) bool {
	key := OverloadKeyOf(fn.Params)
	if _, exists := s.byKey[key]; exists {
		return false
	}
	s.byKey[key] = fn
	return true
}

// Members returns every distinct overload currently registered.
func (s *OverloadSet) Members() []*ast.FunctionDecl {
	out := make([]*ast.FunctionDecl, 0, len(s.byKey))
	for _, fn := range s.byKey {
		out = append(out, fn)
	}
	return out
}
