package backend

import (
	"synnergy-network/synthesis/internal/ir"
)

// ParamOut is one serialised function parameter or return slot.
type ParamOut struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type TypeID `json:"type" yaml:"type"`
}

// BlockOut is one serialised basic block.
type BlockOut struct {
	ID   uint32     `json:"id" yaml:"id"`
	Instr []InstrOut `json:"instr" yaml:"instr"`
	Term  TermOut    `json:"term" yaml:"term"`
}

// FunctionOut is one serialised lowered function body.
type FunctionOut struct {
	Name       string     `json:"name" yaml:"name"`
	External   bool       `json:"external" yaml:"external"`
	Mutability string     `json:"mutability" yaml:"mutability"`
	Params     []ParamOut `json:"params" yaml:"params"`
	Returns    []TypeID   `json:"returns" yaml:"returns"`
	Blocks     []BlockOut `json:"blocks" yaml:"blocks"`
}

// ModuleOut is one serialised compilation unit (spec 4.8: "one module per
// compilation unit with the CFG of every function").
type ModuleOut struct {
	Contract  string        `json:"contract" yaml:"contract"`
	Functions []FunctionOut `json:"functions" yaml:"functions"`
}

// RenderModule converts one internal/ir.Module into its serialisable
// form, interning every type it references into tt.
func RenderModule(m *ir.Module, tt *TypeTable) ModuleOut {
	out := ModuleOut{Contract: m.Contract}
	for _, fn := range m.Functions {
		out.Functions = append(out.Functions, renderFunction(fn, tt))
	}
	return out
}

func renderFunction(fn *ir.Function, tt *TypeTable) FunctionOut {
	out := FunctionOut{
		Name:       fn.Name,
		External:   fn.External,
		Mutability: fn.Mutability,
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, ParamOut{Name: p.Name, Type: tt.Intern(p.Type)})
	}
	for _, r := range fn.Returns {
		out.Returns = append(out.Returns, tt.Intern(r))
	}
	for _, blk := range fn.Blocks {
		bo := BlockOut{ID: uint32(blk.ID)}
		for _, instr := range blk.Instr {
			bo.Instr = append(bo.Instr, renderInstr(instr, tt))
		}
		if blk.Term != nil {
			bo.Term = renderTerm(blk.Term)
		}
		out.Blocks = append(out.Blocks, bo)
	}
	return out
}
