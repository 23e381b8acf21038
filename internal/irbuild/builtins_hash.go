package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

func init() {
	Register(BuiltinSpec{
		Name:       "keccak256",
		Targets:    allTargets(),
		ReturnType: fixed(types.BytesN(32)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "keccak256", rt, args, r)
		},
	})
	Register(BuiltinSpec{
		Name:       "sha256",
		Targets:    allTargets(),
		ReturnType: fixed(types.BytesN(32)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "sha256", rt, args, r)
		},
	})
	// blake2_128/blake2_256 are carried over from the Substrate-style pallet
	// family T1 descends from; neither T2 nor T3 has them.
	Register(BuiltinSpec{
		Name:       "blake2_128",
		Targets:    map[target.Name]bool{target.T1WasmContracts: true},
		ReturnType: fixed(types.BytesN(16)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "blake2_128", rt, args, r)
		},
	})
	Register(BuiltinSpec{
		Name:       "blake2_256",
		Targets:    map[target.Name]bool{target.T1WasmContracts: true},
		ReturnType: fixed(types.BytesN(32)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "blake2_256", rt, args, r)
		},
	})
	// ed25519_verify matches T2's native signature scheme (Solana-style
	// accounts are ed25519 keypairs); T1 and T3 do not have it.
	Register(BuiltinSpec{
		Name:       "ed25519_verify",
		Targets:    map[target.Name]bool{target.T2SBF: true},
		ReturnType: fixed(types.Bool()),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "ed25519_verify", rt, args, r)
		},
	})
}
