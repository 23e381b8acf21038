package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/types"
)

// addmod/mulmod/divmod_* are the emulated wide-arithmetic primitives that
// back integer operations wider than a target's native word (spec 4.5's
// "unchecked{} toggles BinOp.Overflow" contract still applies; these cover
// the cases RequiresEmulatedArithmetic flags in internal/types/conv.go).
func init() {
	Register(BuiltinSpec{
		Name:       "addmod",
		Targets:    allTargets(),
		ReturnType: fixed(types.Uint(256)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "addmod", rt, args, r)
		},
	})
	Register(BuiltinSpec{
		Name:       "mulmod",
		Targets:    allTargets(),
		ReturnType: fixed(types.Uint(256)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "mulmod", rt, args, r)
		},
	})
	// divmod_u256/divmod_i256 return the quotient only, since ir.Builtin
	// carries a single Result value; no builtin for the remainder is
	// registered.
	Register(BuiltinSpec{
		Name:       "divmod_u256",
		Targets:    allTargets(),
		ReturnType: fixed(types.Uint(256)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "divmod_u256", rt, args, r)
		},
	})
	Register(BuiltinSpec{
		Name:       "divmod_i256",
		Targets:    allTargets(),
		ReturnType: fixed(types.Int(256)),
		Emit: func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID {
			return emitBuiltin(fb, "divmod_i256", rt, args, r)
		},
	})
}
