package irbuild

import (
	"strconv"
	"strings"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/consteval"
	"synnergy-network/synthesis/internal/types"
)

// resolveTypeExpr turns a parsed type expression into a resolved Type,
// consulting the builder's TypeEnv for struct/enum/user-defined/contract
// names. The second return is false when the name is unknown; callers fall
// back to a sensible default (uint256) and keep going so one bad type
// doesn't abort lowering the rest of the function.
func (b *Builder) resolveTypeExpr(te ast.TypeExpr) (*types.Type, bool) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return b.resolveNamedType(t.Name)
	case *ast.ArrayTypeExpr:
		elem, ok := b.resolveTypeExpr(t.Elem)
		if !ok {
			return nil, false
		}
		if !t.Fixed {
			return types.DynamicArray(elem), true
		}
		n, ok := constIntLen(t.Len, b)
		if !ok {
			return nil, false
		}
		return types.FixedArray(elem, n), true
	case *ast.MappingTypeExpr:
		k, ok1 := b.resolveTypeExpr(t.Key)
		v, ok2 := b.resolveTypeExpr(t.Value)
		if !ok1 || !ok2 {
			return nil, false
		}
		return types.Mapping(k, v), true
	case *ast.FunctionTypeExpr:
		sig := &types.FuncSig{External: t.External, Mutability: mutabilityString(t.Mutability)}
		for _, p := range t.Params {
			if pt, ok := b.resolveTypeExpr(p); ok {
				sig.Params = append(sig.Params, pt)
			}
		}
		for _, r := range t.Returns {
			if rt, ok := b.resolveTypeExpr(r); ok {
				sig.Returns = append(sig.Returns, rt)
			}
		}
		return types.FunctionPtr(sig), true
	}
	return nil, false
}

// ResolveTypeExpr exposes resolveTypeExpr to callers outside this package
// (pkg/compiler, typing state variables and event/error fields ahead of
// building a contract's storage layout and metadata) — the same resolution
// lowering itself uses internally, so a state variable's type and the type
// a function body sees for it never drift apart.
func (b *Builder) ResolveTypeExpr(te ast.TypeExpr) (*types.Type, bool) {
	return b.resolveTypeExpr(te)
}

func (b *Builder) resolveNamedType(name string) (*types.Type, bool) {
	switch name {
	case "bool":
		return types.Bool(), true
	case "string":
		return types.String(), true
	case "bytes":
		return types.DynamicBytes(), true
	case "address":
		return types.Address(), true
	}
	if n, ok := parseWidth(name, "uint"); ok {
		return types.Uint(n), true
	}
	if n, ok := parseWidth(name, "bytes"); ok {
		return types.BytesN(n), true
	}
	// "int" must be tried after "bytes" is ruled out (no overlap) but before
	// nothing else collides; order here doesn't matter since the prefixes
	// are disjoint, kept explicit for readability.
	if n, ok := parseWidth(name, "int"); ok {
		return types.Int(n), true
	}
	if t, ok := b.Types.Structs[name]; ok {
		return t, true
	}
	if t, ok := b.Types.Enums[name]; ok {
		return t, true
	}
	if t, ok := b.Types.UserTypes[name]; ok {
		return t, true
	}
	if b.Types.Contracts[name] {
		return types.ContractRef(name), true
	}
	return nil, false
}

// parseWidth strips prefix and parses the remaining digits as a bit/byte
// width; a bare "uint"/"int" (no digits) defaults to 256 per Solidity's own
// convention, carried over since spec 3.1 lists uintN/intN as the family.
func parseWidth(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	rest := name[len(prefix):]
	if rest == "" {
		if prefix == "uint" || prefix == "int" {
			return 256, true
		}
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// constIntLen folds a fixed-array length expression at the only precision
// internal/consteval offers: arbitrary-precision, no storage reads. A
// literal array length is always a constant expression (spec 4.3).
func constIntLen(e ast.Expr, b *Builder) (int, bool) {
	if e == nil {
		return 0, false
	}
	v, ok := consteval.Eval(e, consteval.Env{}, b.Diags)
	if !ok || v.Kind != consteval.VInt {
		return 0, false
	}
	return int(v.Int.Int64()), true
}

func mutabilityString(m ast.Mutability) string {
	switch m {
	case ast.MutPure:
		return "pure"
	case ast.MutView:
		return "view"
	case ast.MutPayable:
		return "payable"
	default:
		return "nonpayable"
	}
}
