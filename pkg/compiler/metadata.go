package compiler

import (
	"strings"

	"synnergy-network/synthesis/internal/abi"
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/backend"
	"synnergy-network/synthesis/internal/irbuild"
	"synnergy-network/synthesis/internal/resolver"
)

// eventSpecs resolves ci's own event declarations (spec 3.2) into the typed
// form internal/backend needs; internal/ir has no representation of events
// beyond the Emit instruction's topic/data value list, so the declared field
// types are resolved here instead of re-derived from IR.
func eventSpecs(b *irbuild.Builder, ci *resolver.ContractInfo) []backend.EventSpec {
	out := make([]backend.EventSpec, 0, len(ci.Decl.Events))
	for _, ev := range ci.Decl.Events {
		fields := make([]backend.FieldSpec, 0, len(ev.Fields))
		for _, f := range ev.Fields {
			t, ok := b.ResolveTypeExpr(f.Type)
			if !ok {
				continue
			}
			fields = append(fields, backend.FieldSpec{Name: f.Name, Type: t, Indexed: f.Indexed})
		}
		out = append(out, backend.EventSpec{Name: ev.Name, Anonymous: ev.Anonymous, Fields: fields})
	}
	return out
}

// errorSpecs resolves ci's own custom error declarations the same way.
func errorSpecs(b *irbuild.Builder, ci *resolver.ContractInfo) []backend.ErrorSpec {
	out := make([]backend.ErrorSpec, 0, len(ci.Decl.Errors))
	for _, er := range ci.Decl.Errors {
		fields := make([]backend.FieldSpec, 0, len(er.Fields))
		for _, f := range er.Fields {
			t, ok := b.ResolveTypeExpr(f.Type)
			if !ok {
				continue
			}
			fields = append(fields, backend.FieldSpec{Name: f.Name, Type: t})
		}
		out = append(out, backend.ErrorSpec{Name: er.Name, Fields: fields})
	}
	return out
}

// selectorOverrides scans every function (and the constructor, which has no
// selector but is harmless to include) for an `@selector(0x....)` annotation
// (spec 6) and returns the literal bytes it names.
func selectorOverrides(ci *resolver.ContractInfo) backend.Overrides {
	out := backend.Overrides{}
	for _, fn := range ci.Decl.Functions {
		if b, ok := selectorAnnotation(fn.Annotations); ok {
			out[fn.Name] = b
		}
	}
	return out
}

// overrideSpecsAcrossMRO gathers one abi.FunctionSpec per @selector-annotated
// function declaration across ci's full inheritance chain (base declaration
// and every overriding implementation), not just the single, already-merged
// declaration ci.Decl.Functions exposes. This is the only place the literal
// per-declaration overrides still exist side by side, which is what
// abi.ValidateOverrideAgreement needs to catch a base and an override
// disagreeing (spec 4.6).
func overrideSpecsAcrossMRO(prog *resolver.Program, ci *resolver.ContractInfo) []abi.FunctionSpec {
	var out []abi.FunctionSpec
	for _, name := range ci.MRO {
		base := prog.Contracts[name]
		if base == nil {
			continue
		}
		for _, fn := range base.Decl.Functions {
			if b, ok := selectorAnnotation(fn.Annotations); ok {
				out = append(out, abi.FunctionSpec{Name: fn.Name, Override: b})
			}
		}
	}
	return out
}

func selectorAnnotation(anns []ast.Annotation) ([]byte, bool) {
	for _, a := range anns {
		if a.Name != "selector" || len(a.Args) == 0 {
			continue
		}
		switch lit := a.Args[0].(type) {
		case *ast.HexStringLit:
			if b, ok := decodeHex(lit.HexDigits); ok {
				return b, true
			}
		case *ast.IntLit:
			if lit.Hex {
				digits := strings.TrimPrefix(strings.TrimPrefix(lit.Text, "0x"), "0X")
				if b, ok := decodeHex(digits); ok {
					return b, true
				}
			}
		}
	}
	return nil, false
}

func decodeHex(s string) ([]byte, bool) {
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, false
		}
		out[i] = hi<<4 | lo
	}
	return out, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
