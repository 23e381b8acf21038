package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// globalField describes one Solidity-style environment accessor (msg.*,
// block.*, tx.*): the builtin name the backend exposes it under, its
// value type, and the target feature gating its availability — the empty
// Feature means every target supports it (spec 4.5's per-target semantic
// table only restricts tx.origin and the extended block fields).
type globalField struct {
	builtin string
	typ     func() *types.Type
	feature target.Feature
}

var globalMembers = map[string]map[string]globalField{
	"msg": {
		"sender": {builtin: "msg_sender", typ: types.Address},
		"value":  {builtin: "msg_value", typ: uint256Type},
	},
	"block": {
		"timestamp":  {builtin: "block_timestamp", typ: uint256Type},
		"number":     {builtin: "block_number", typ: uint256Type},
		"coinbase":   {builtin: "block_coinbase", typ: types.Address, feature: target.FeatBlockEnvExtended},
		"difficulty": {builtin: "block_difficulty", typ: uint256Type, feature: target.FeatBlockEnvExtended},
		"gaslimit":   {builtin: "block_gaslimit", typ: uint256Type, feature: target.FeatBlockEnvExtended},
	},
	"tx": {
		"origin": {builtin: "tx_origin", typ: types.Address, feature: target.FeatTxOrigin},
	},
}

func uint256Type() *types.Type { return types.Uint(256) }

// lowerGlobalMember recognises `msg.*`, `block.*`, and `tx.*` environment
// accessors ahead of the generic MemberExpr path, since "msg"/"block"/"tx"
// are never declared locals or state variables themselves. The final bool
// is true when x was one of these three names and has been fully handled
// (whether or not it produced a diagnostic); false tells the caller to fall
// through to its ordinary field/array/function-value handling.
func (fb *funcBuilder) lowerGlobalMember(x *ast.MemberExpr) (ir.ValueID, *types.Type, ast.Location, bool, bool) {
	id, ok := x.X.(*ast.Ident)
	if !ok {
		return 0, nil, ast.LocDefault, false, false
	}
	fields, ok := globalMembers[id.Name]
	if !ok {
		return 0, nil, ast.LocDefault, false, false
	}
	// A local or state variable literally named "msg"/"block"/"tx" shadows
	// the environment accessor; defer to the ordinary identifier lowering.
	if _, shadowed := fb.locals[id.Name]; shadowed {
		return 0, nil, ast.LocDefault, false, false
	}
	if _, shadowed := fb.stateVar(id.Name); shadowed {
		return 0, nil, ast.LocDefault, false, false
	}

	gf, ok := fields[x.Name]
	if !ok {
		fb.errorf(x.Range, diag.Error, diag.EResUnknownName, "unknown member %s.%s", id.Name, x.Name)
		return 0, types.Uint(256), ast.LocDefault, false, true
	}
	if gf.feature != "" && !fb.b.Target.HasFeature(gf.feature) {
		fb.errorf(x.Range, diag.Error, diag.ETargetFeatureUnavailable, "%s.%s is not available on %s", id.Name, x.Name, fb.b.Target.Name)
		return 0, gf.typ(), ast.LocDefault, false, true
	}
	v := fb.newValue()
	t := gf.typ()
	fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: t, Pos: pos(x.Range)}, Name: gf.builtin})
	return v, t, ast.LocDefault, true, true
}
