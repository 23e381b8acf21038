package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// scale_compact_* back SCALE's compact integer encoding, the compact-u32
// length form of dialect 2 (the default dialect of T1 and T3). They are
// registered on every target, T2 included, so a contract can hand-roll a
// compact-encoded field if it chooses to.
func init() {
	Register(BuiltinSpec{
		Name:       "scale_compact_encode",
		Targets:    allTargets(),
		ReturnType: fixed(types.DynamicBytes()),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "scale_compact_encode", rt, args, r)
		},
	})
	Register(BuiltinSpec{
		Name:       "scale_compact_decode",
		Targets:    allTargets(),
		ReturnType: fixed(types.Uint(256)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "scale_compact_decode", rt, args, r)
		},
	})
	// __malloc backs dynamic-memory allocation (memory arrays/structs/bytes
	// grown at runtime); every target needs a linear-memory bump allocator
	// even T2/T3, which otherwise deal in fixed accounts/slots.
	Register(BuiltinSpec{
		Name:       "__malloc",
		Targets:    allTargets(),
		ReturnType: fixed(types.Uint(256)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "__malloc", rt, args, r)
		},
	})
	// T1-only precompile wrappers: the wasm-contracts pallet family exposes
	// these as host functions the way ink!/Substrate contracts do.
	Register(BuiltinSpec{
		Name:       "ecrecover",
		Targets:    map[target.Name]bool{target.T1WasmContracts: true},
		ReturnType: fixed(types.Address()),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "ecrecover", rt, args, r)
		},
	})
}
