package ir

import (
	"testing"

	"synnergy-network/synthesis/internal/types"
)

func TestFunctionConstructionAndTerminator(t *testing.T) {
	fn := NewFunction("add")
	fn.Params = []Param{{Name: "a", Type: types.Uint(256)}, {Name: "b", Type: types.Uint(256)}}
	fn.Returns = []*types.Type{types.Uint(256)}

	entry := fn.Blocks[0]
	sum := ValueID(1)
	entry.Instr = append(entry.Instr, &BinOp{
		Base:     Base{Result: sum, Type: types.Uint(256)},
		Op:       OpAdd,
		Left:     ValueID(0),
		Right:    ValueID(0),
		Overflow: true,
	})
	entry.Term = &Return{Values: []ValueID{sum}}

	if entry.Term == nil {
		t.Fatal("block must have a terminator")
	}
	ret, ok := entry.Term.(*Return)
	if !ok {
		t.Fatalf("terminator type = %T, want *Return", entry.Term)
	}
	if len(ret.Values) != 1 || ret.Values[0] != sum {
		t.Fatalf("Return.Values = %v, want [%d]", ret.Values, sum)
	}
	if len(entry.Instr) != 1 {
		t.Fatalf("expected exactly one instruction, got %d", len(entry.Instr))
	}
	bo, ok := entry.Instr[0].(*BinOp)
	if !ok || !bo.Overflow {
		t.Fatal("BinOp should be present with the overflow flag set (default checked arithmetic)")
	}
}

func TestModuleHoldsFunctions(t *testing.T) {
	m := &Module{Contract: "C"}
	m.Functions = append(m.Functions, NewFunction("f"), NewFunction("g"))
	if len(m.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(m.Functions))
	}
}

func TestCondBranchAndPhi(t *testing.T) {
	fn := NewFunction("max")
	thenBlock := &Block{ID: 1, Term: &Branch{Target: 3}}
	elseBlock := &Block{ID: 2, Term: &Branch{Target: 3}}
	joinBlock := &Block{ID: 3}
	joinBlock.Instr = append(joinBlock.Instr, &Phi{
		Base:  Base{Result: 10, Type: types.Uint(256)},
		Edges: []PhiEdge{{Block: 1, Value: 1}, {Block: 2, Value: 2}},
	})
	joinBlock.Term = &Return{Values: []ValueID{10}}
	fn.Blocks[0].Term = &CondBranch{Cond: ValueID(0), Then: 1, Else: 2}
	fn.Blocks = append(fn.Blocks, thenBlock, elseBlock, joinBlock)

	if len(fn.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(fn.Blocks))
	}
	phi, ok := joinBlock.Instr[0].(*Phi)
	if !ok || len(phi.Edges) != 2 {
		t.Fatal("join block should carry a 2-edge Phi")
	}
}
