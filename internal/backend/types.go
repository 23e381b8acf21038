// Package backend implements component C9 (spec 4.8): assembling the
// final Package a downstream code generator consumes — one Module per
// compilation unit's lowered CFG, a shared type table referenced by
// integer id, a storage layout per contract, and a metadata/IDL document
// — plus the package's two serialisations (JSON, the canonical format;
// YAML, a human-inspection dump).
package backend

import (
	"synnergy-network/synthesis/internal/types"
)

// TypeID names one entry of a TypeTable; it never crosses a package
// boundary as a raw pointer, matching the arena+index discipline spec 9
// applies to ast.NodeID and ir.ValueID/BlockID.
type TypeID uint32

// TypeTable interns every distinct *types.Type referenced by a compiled
// package, deduplicated by canonical signature name so that, e.g., every
// function parameter of type uint256 shares one entry. Types that share a
// canonical name (an enum and uint8, two structs with the same field types)
// share one entry too.
type TypeTable struct {
	entries []*types.Type
	index   map[string]TypeID
}

// NewTypeTable returns an empty table.
func NewTypeTable() *TypeTable {
	return &TypeTable{index: map[string]TypeID{}}
}

// Intern returns t's TypeID, assigning it a fresh one the first time a
// type with t's canonical signature name is seen.
func (tt *TypeTable) Intern(t *types.Type) TypeID {
	key := t.CanonicalSignatureName()
	if id, ok := tt.index[key]; ok {
		return id
	}
	id := TypeID(len(tt.entries))
	tt.entries = append(tt.entries, t)
	tt.index[key] = id
	return id
}

// Type returns the type interned under id.
func (tt *TypeTable) Type(id TypeID) *types.Type {
	if int(id) >= len(tt.entries) {
		return nil
	}
	return tt.entries[id]
}

// Len reports how many distinct types have been interned.
func (tt *TypeTable) Len() int { return len(tt.entries) }

// Entries returns the table's entries in assignment order (TypeID i is
// Entries()[i]), as a flat, index-addressable array.
func (tt *TypeTable) Entries() []*types.Type {
	return tt.entries
}
