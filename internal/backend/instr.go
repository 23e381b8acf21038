package backend

import (
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/types"
)

// InstrOut is one instruction rendered for serialisation: Kind names the
// concrete ir.Instr type, Fields carries whatever that kind needs. Using
// one flat shape with a free-form Fields map (instead of a Go union type)
// keeps the JSON/YAML encoders trivial at the cost of losing static typing
// on the far side — acceptable here since this is an output format for an
// external code generator, not a Go API.
type InstrOut struct {
	Kind   string                 `json:"kind" yaml:"kind"`
	Result uint32                 `json:"result,omitempty" yaml:"result,omitempty"`
	Type   *TypeID                `json:"type,omitempty" yaml:"type,omitempty"`
	Fields map[string]any         `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// TermOut is one terminator rendered for serialisation.
type TermOut struct {
	Kind   string         `json:"kind" yaml:"kind"`
	Fields map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func renderInstr(instr ir.Instr, tt *TypeTable) InstrOut {
	out := InstrOut{Fields: map[string]any{}}
	result, typ := baseOf(instr)
	out.Result = uint32(result)
	if typ != nil {
		id := tt.Intern(typ)
		out.Type = &id
	}

	switch x := instr.(type) {
	case *ir.ConstInt:
		out.Kind = "const_int"
		out.Fields["value"] = x.Value
		out.Fields["neg"] = x.Neg
		if len(x.Big) > 0 {
			out.Fields["big"] = x.Big
		}
	case *ir.ConstBool:
		out.Kind = "const_bool"
		out.Fields["value"] = x.Value
	case *ir.ConstBytes:
		out.Kind = "const_bytes"
		out.Fields["value"] = x.Value
	case *ir.BinOp:
		out.Kind = "bin_op"
		out.Fields["op"] = string(x.Op)
		out.Fields["left"] = uint32(x.Left)
		out.Fields["right"] = uint32(x.Right)
		out.Fields["overflow"] = x.Overflow
	case *ir.Load:
		out.Kind = "load"
		out.Fields["from"] = locationName(x.From)
		out.Fields["addr"] = uint32(x.Addr)
	case *ir.Store:
		out.Kind = "store"
		out.Fields["to"] = locationName(x.To)
		out.Fields["addr"] = uint32(x.Addr)
		out.Fields["value"] = uint32(x.Value)
	case *ir.Alloc:
		out.Kind = "alloc"
		out.Fields["n"] = uint32(x.N)
		if x.Elem != nil {
			id := tt.Intern(x.Elem)
			out.Fields["elem_type"] = id
		}
	case *ir.Phi:
		out.Kind = "phi"
		edges := make([]map[string]uint32, 0, len(x.Edges))
		for _, e := range x.Edges {
			edges = append(edges, map[string]uint32{"block": uint32(e.Block), "value": uint32(e.Value)})
		}
		out.Fields["edges"] = edges
	case *ir.Call:
		out.Kind = "call"
		out.Fields["call_kind"] = callKindName(x.Kind)
		out.Fields["target"] = x.Target
		out.Fields["callee"] = uint32(x.Callee)
		out.Fields["args"] = valueIDs(x.Args)
		out.Fields["options"] = callOptionsOut(x.Options)
	case *ir.Encode:
		out.Kind = "encode"
		out.Fields["dialect"] = x.Dialect.String()
		out.Fields["packed"] = x.Packed
		out.Fields["selector"] = x.Selector
		out.Fields["args"] = valueIDs(x.Args)
	case *ir.Decode:
		out.Kind = "decode"
		out.Fields["dialect"] = x.Dialect.String()
		out.Fields["bytes"] = uint32(x.Bytes)
		ids := make([]TypeID, 0, len(x.Types))
		for _, t := range x.Types {
			ids = append(ids, tt.Intern(t))
		}
		out.Fields["types"] = ids
	case *ir.Emit:
		out.Kind = "emit"
		out.Fields["event"] = x.Event
		out.Fields["anonymous"] = x.Anonymous
		out.Fields["topics"] = valueIDs(x.Topics)
		out.Fields["data"] = valueIDs(x.Data)
	case *ir.Builtin:
		out.Kind = "builtin"
		out.Fields["name"] = x.Name
		out.Fields["args"] = valueIDs(x.Args)
	case *ir.BoundsCheck:
		out.Kind = "bounds_check"
		out.Fields["index"] = uint32(x.Index)
		out.Fields["length"] = uint32(x.Length)
	case *ir.Conv:
		out.Kind = "conv"
		out.Fields["conv_kind"] = convKindName(x.Kind)
		out.Fields["x"] = uint32(x.X)
	}
	return out
}

func renderTerm(term ir.Terminator) TermOut {
	out := TermOut{Fields: map[string]any{}}
	switch x := term.(type) {
	case *ir.Branch:
		out.Kind = "branch"
		out.Fields["target"] = uint32(x.Target)
	case *ir.CondBranch:
		out.Kind = "cond_branch"
		out.Fields["cond"] = uint32(x.Cond)
		out.Fields["then"] = uint32(x.Then)
		out.Fields["else"] = uint32(x.Else)
	case *ir.Return:
		out.Kind = "return"
		out.Fields["values"] = valueIDs(x.Values)
	case *ir.Revert:
		out.Kind = "revert"
		out.Fields["data"] = uint32(x.Data)
	case *ir.Unreachable:
		out.Kind = "unreachable"
	}
	return out
}

func callOptionsOut(o ir.CallOptions) map[string]uint32 {
	return map[string]uint32{
		"value": uint32(o.Value), "gas": uint32(o.Gas), "salt": uint32(o.Salt),
		"accounts": uint32(o.Accounts), "seeds": uint32(o.Seeds),
		"program_id": uint32(o.ProgramID), "address": uint32(o.Address), "space": uint32(o.Space),
	}
}

func valueIDs(vs []ir.ValueID) []uint32 {
	out := make([]uint32, len(vs))
	for i, v := range vs {
		out[i] = uint32(v)
	}
	return out
}

func locationName(l ir.LoadLocation) string {
	switch l {
	case ir.LocStorage:
		return "storage"
	case ir.LocMemory:
		return "memory"
	case ir.LocCalldata:
		return "calldata"
	}
	return "unknown"
}

func callKindName(k ir.CallKind) string {
	switch k {
	case ir.CallInternalDirect:
		return "internal_direct"
	case ir.CallInternalIndirect:
		return "internal_indirect"
	case ir.CallExternal:
		return "external"
	case ir.CallDelegate:
		return "delegate"
	case ir.CallStatic:
		return "static"
	case ir.CallConstructor:
		return "constructor"
	}
	return "unknown"
}

func convKindName(k ir.ConvKind) string {
	switch k {
	case ir.ConvZeroExt:
		return "zero_ext"
	case ir.ConvSignExt:
		return "sign_ext"
	case ir.ConvTrunc:
		return "trunc"
	case ir.ConvPayableCast:
		return "payable_cast"
	}
	return "unknown"
}

// baseOf extracts the embedded Base (Result, Type) common to every
// instruction kind. ir.Instr has no accessor for its own Base since the
// IR model favours a plain tagged union over an interface with getters
// (spec 3.4's "polymorphic IR nodes as tagged unions" design note), so
// this is the one place that type-switches purely to reach it.
func baseOf(instr ir.Instr) (ir.ValueID, *types.Type) {
	switch x := instr.(type) {
	case *ir.ConstInt:
		return x.Result, x.Type
	case *ir.ConstBool:
		return x.Result, x.Type
	case *ir.ConstBytes:
		return x.Result, x.Type
	case *ir.BinOp:
		return x.Result, x.Type
	case *ir.Load:
		return x.Result, x.Type
	case *ir.Store:
		return x.Result, x.Type
	case *ir.Alloc:
		return x.Result, x.Type
	case *ir.Phi:
		return x.Result, x.Type
	case *ir.Call:
		return x.Result, x.Type
	case *ir.Encode:
		return x.Result, x.Type
	case *ir.Decode:
		return x.Result, x.Type
	case *ir.Emit:
		return x.Result, x.Type
	case *ir.Builtin:
		return x.Result, x.Type
	case *ir.BoundsCheck:
		return x.Result, x.Type
	case *ir.Conv:
		return x.Result, x.Type
	}
	return 0, nil
}
