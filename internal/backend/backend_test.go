package backend

import (
	"strings"
	"testing"

	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/layout"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

func incrementModule() *ir.Module {
	fn := ir.NewFunction("increment")
	fn.External = true
	fn.Mutability = "nonpayable"
	fn.Params = []ir.Param{{Name: "n", Type: types.Uint(256)}}
	fn.Returns = []*types.Type{types.Uint(256)}
	fn.NextValue = 1

	entry := fn.Blocks[0]
	entry.Instr = append(entry.Instr, &ir.ConstInt{Base: ir.Base{Result: 1, Type: types.Uint(256)}, Value: 1})
	entry.Instr = append(entry.Instr, &ir.BinOp{Base: ir.Base{Result: 2, Type: types.Uint(256)}, Op: ir.OpAdd, Left: 0, Right: 1, Overflow: true})
	entry.Term = &ir.Return{Values: []ir.ValueID{2}}

	return &ir.Module{Contract: "Counter", Functions: []*ir.Function{fn}}
}

func counterLayout() *layout.Layout {
	return layout.Assign([]layout.ContractVars{{
		Contract: "Counter",
		Vars:     []layout.NamedVar{{Name: "count", Type: types.Uint(256)}},
	}})
}

func TestTypeTableDedup(t *testing.T) {
	tt := NewTypeTable()
	a := tt.Intern(types.Uint(256))
	b := tt.Intern(types.Uint(256))
	if a != b {
		t.Fatalf("two Uint(256) interns should share a TypeID, got %d and %d", a, b)
	}
	c := tt.Intern(types.Uint(8))
	if c == a {
		t.Fatal("Uint(8) should not share a TypeID with Uint(256)")
	}
	if tt.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tt.Len())
	}
}

func TestRenderModuleProducesOneFunction(t *testing.T) {
	tt := NewTypeTable()
	mod := RenderModule(incrementModule(), tt)
	if mod.Contract != "Counter" {
		t.Fatalf("Contract = %q, want Counter", mod.Contract)
	}
	if len(mod.Functions) != 1 || mod.Functions[0].Name != "increment" {
		t.Fatalf("Functions = %+v, want exactly [increment]", mod.Functions)
	}
	fn := mod.Functions[0]
	if len(fn.Params) != 1 || fn.Params[0].Name != "n" {
		t.Fatalf("Params = %+v", fn.Params)
	}
	if len(fn.Blocks) != 1 || len(fn.Blocks[0].Instr) != 2 {
		t.Fatalf("expected one block with two instructions, got %+v", fn.Blocks)
	}
	if fn.Blocks[0].Term.Kind != "return" {
		t.Fatalf("Term.Kind = %q, want return", fn.Blocks[0].Term.Kind)
	}
}

func TestBuildMetadataComputesSelectorsAndStorage(t *testing.T) {
	tt := NewTypeTable()
	mod := RenderModule(incrementModule(), tt)
	lay := counterLayout()

	meta, err := BuildMetadata(mod, tt, lay, target.Dialect1Word32, nil, nil, nil, nil, diag.NewBag())
	if err != nil {
		t.Fatal(err)
	}
	if meta.Contract != "Counter" {
		t.Fatalf("Contract = %q", meta.Contract)
	}
	if len(meta.Functions) != 1 || meta.Functions[0].Name != "increment" {
		t.Fatalf("Functions = %+v", meta.Functions)
	}
	if len(meta.Functions[0].Selector) != 4 {
		t.Fatalf("dialect 1 selector length = %d, want 4", len(meta.Functions[0].Selector))
	}
	if len(meta.Storage) != 1 || meta.Storage[0].Name != "count" {
		t.Fatalf("Storage = %+v", meta.Storage)
	}
}

func TestBuildMetadataHonoursSelectorOverride(t *testing.T) {
	tt := NewTypeTable()
	mod := RenderModule(incrementModule(), tt)
	lay := counterLayout()
	override := []byte{0xaa, 0xbb, 0xcc, 0xdd}

	meta, err := BuildMetadata(mod, tt, lay, target.Dialect1Word32, nil, nil, Overrides{"increment": override}, nil, diag.NewBag())
	if err != nil {
		t.Fatal(err)
	}
	if string(meta.Functions[0].Selector) != string(override) {
		t.Fatalf("Selector = %x, want override %x", meta.Functions[0].Selector, override)
	}
	if string(meta.Functions[0].ComputedSelector) == string(override) {
		t.Fatal("ComputedSelector should hold the would-be-computed value, not the override")
	}
	if len(meta.Functions[0].ComputedSelector) != 4 {
		t.Fatalf("ComputedSelector length = %d, want 4", len(meta.Functions[0].ComputedSelector))
	}
}

func TestBuildMetadataLeavesBagEmptyWhenOverrideIsUncontested(t *testing.T) {
	tt := NewTypeTable()
	mod := RenderModule(incrementModule(), tt)
	lay := counterLayout()
	bag := diag.NewBag()

	_, err := BuildMetadata(mod, tt, lay, target.Dialect1Word32, nil, nil, Overrides{"increment": {1, 2, 3, 4}}, nil, bag)
	if err != nil {
		t.Fatal(err)
	}
	if len(bag.Sorted()) != 0 {
		t.Fatalf("a single override should never raise WCodecSelectorOverrideMismatch, got %+v", bag.Sorted())
	}
}

func TestBuildMetadataDetectsSelectorCollision(t *testing.T) {
	tt := NewTypeTable()
	mod := RenderModule(incrementModule(), tt)
	fn2 := ir.NewFunction("decrement")
	fn2.Params = []ir.Param{{Name: "n", Type: types.Uint(256)}}
	mod.Functions = append(mod.Functions, renderFunction(fn2, tt))
	lay := counterLayout()

	overrides := Overrides{"increment": {1, 2, 3, 4}, "decrement": {1, 2, 3, 4}}
	if _, err := BuildMetadata(mod, tt, lay, target.Dialect1Word32, nil, nil, overrides, nil, diag.NewBag()); err == nil {
		t.Fatal("expected a selector collision error")
	}
}

func TestPackageRoundTripsThroughJSONAndYAML(t *testing.T) {
	b := NewBuilder()
	mod := RenderModule(incrementModule(), b.Types)
	meta, err := BuildMetadata(mod, b.Types, counterLayout(), target.Dialect1Word32, nil, nil, nil, nil, diag.NewBag())
	if err != nil {
		t.Fatal(err)
	}
	b.AddModule(mod, meta)
	pkg := b.Build()

	js, err := pkg.WriteJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(js), "increment") {
		t.Fatal("JSON output should mention the increment function")
	}

	ys, err := pkg.WriteYAML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ys), "increment") {
		t.Fatal("YAML output should mention the increment function")
	}
	if len(pkg.Types) == 0 {
		t.Fatal("expected at least one interned type in the rendered package")
	}
}

func TestEventMetadataComputesTopic0(t *testing.T) {
	tt := NewTypeTable()
	events := []EventSpec{{
		Name:   "Transfer",
		Fields: []FieldSpec{{Name: "to", Type: types.Address(), Indexed: true}, {Name: "amount", Type: types.Uint(256)}},
	}}
	meta, err := BuildMetadata(ModuleOut{Contract: "Token"}, tt, &layout.Layout{ByName: map[string]*layout.VarLayout{}}, target.Dialect1Word32, events, nil, nil, nil, diag.NewBag())
	if err != nil {
		t.Fatal(err)
	}
	if len(meta.Events) != 1 || len(meta.Events[0].Topic0) != 4 {
		t.Fatalf("Events = %+v", meta.Events)
	}
}
