package abi

import (
	"fmt"

	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// FunctionSpec is the minimal shape Build needs per entry point: its
// name, parameter types (in declaration order, for signature hashing),
// and an optional literal @selector(bytes) override.
type FunctionSpec struct {
	Name     string
	Params   []*types.Type
	Override []byte
}

// Entry is one dispatch-table row.
type Entry struct {
	Selector []byte
	Function string
	Params   []*types.Type
}

// Table is a contract's dispatch table for one dialect (spec 4.6):
// incoming calls carry a selector/discriminator and the runtime looks it
// up here to find which function to route to and how to decode its
// arguments.
type Table struct {
	Dialect target.Dialect
	Entries []Entry
}

// Build computes one Table for fns under dialect d. It returns an error
// on a selector collision between two distinct functions, since that is
// a real dispatch-time ambiguity rather than a simplification this
// package can paper over.
func Build(fns []FunctionSpec, d target.Dialect) (*Table, error) {
	t := &Table{Dialect: d}
	seen := map[string]string{}
	for _, fn := range fns {
		sel := selectorFor(fn, d)
		key := string(sel)
		if other, exists := seen[key]; exists && other != fn.Name {
			return nil, fmt.Errorf("abi: selector collision between %q and %q", other, fn.Name)
		}
		seen[key] = fn.Name
		t.Entries = append(t.Entries, Entry{Selector: sel, Function: fn.Name, Params: fn.Params})
	}
	return t, nil
}

func selectorFor(fn FunctionSpec, d target.Dialect) []byte {
	if fn.Override != nil {
		return fn.Override
	}
	switch d {
	case target.Dialect1Word32:
		s := Selector1(fn.Name, fn.Params)
		return s[:]
	case target.Dialect2CompactLE:
		s := Selector2(fn.Name, fn.Params)
		return s[:]
	default:
		s := Discriminator3(fn.Name)
		return s[:]
	}
}

// Lookup finds the entry bound to selector, matching spec 4.6's stated
// linear-scan dispatch strategy.
func (t *Table) Lookup(selector []byte) (Entry, bool) {
	for _, e := range t.Entries {
		if bytesEqual(e.Selector, selector) {
			return e, true
		}
	}
	return Entry{}, false
}

// ValidateOverrideAgreement checks that every FunctionSpec sharing a name
// (a base declaration and every overriding implementation of it) carries
// the same literal @selector override, or none at all.
func ValidateOverrideAgreement(fns []FunctionSpec) error {
	byName := map[string][]byte{}
	for _, fn := range fns {
		if fn.Override == nil {
			continue
		}
		if existing, ok := byName[fn.Name]; ok {
			if !bytesEqual(existing, fn.Override) {
				return fmt.Errorf("abi: @selector override for %q disagrees across its override set", fn.Name)
			}
			continue
		}
		byName[fn.Name] = fn.Override
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
