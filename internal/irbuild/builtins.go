package irbuild

import (
	"fmt"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// BuiltinSpec binds a runtime primitive name to the targets it is available
// on and the IR it lowers to, modelled on the teacher's opcode dispatcher
// (core/opcode_dispatcher.go): Register once at package init, panic on a
// duplicate name, look the name up by string at call sites.
type BuiltinSpec struct {
	Name string
	// Targets is nil when the builtin is available on every target.
	Targets    map[target.Name]bool
	ReturnType func(argTypes []*types.Type) *types.Type
	Emit       func(fb *funcBuilder, args []ir.ValueID, argTypes []*types.Type, rt *types.Type, r ast.Range) ir.ValueID
}

var builtinTable = map[string]BuiltinSpec{}

// Register binds spec.Name in the package-level dispatch table. It panics
// on a duplicate name at package-init time, exactly as
// core/opcode_dispatcher.go's Register panics on an opcode collision: a
// name collision here is a defect in this compiler's own source, never a
// user-facing condition, so init() is the right place to catch it.
func Register(spec BuiltinSpec) {
	if _, exists := builtinTable[spec.Name]; exists {
		panic(fmt.Sprintf("irbuild: builtin %q already registered", spec.Name))
	}
	builtinTable[spec.Name] = spec
}

func lookupBuiltin(name string) (BuiltinSpec, bool) {
	spec, ok := builtinTable[name]
	return spec, ok
}

// emitBuiltin is the common case shared by most registrations: a single
// ir.Builtin instruction named after the Solidity-level builtin, with no
// further IR shape needed.
func emitBuiltin(fb *funcBuilder, name string, rt *types.Type, args []ir.ValueID, r ast.Range) ir.ValueID {
	v := fb.newValue()
	fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: rt, Pos: pos(r)}, Name: name, Args: args})
	return v
}

func allTargets() map[target.Name]bool {
	return map[target.Name]bool{
		target.T1WasmContracts: true,
		target.T2SBF:           true,
		target.T3BoundedLedger: true,
	}
}

func fixed(t *types.Type) func([]*types.Type) *types.Type {
	return func([]*types.Type) *types.Type { return t }
}
