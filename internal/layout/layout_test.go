package layout

import (
	"testing"

	"synnergy-network/synthesis/internal/types"
)

func TestAssignContiguousAndHeaderSlots(t *testing.T) {
	l := Assign([]ContractVars{
		{Contract: "Base", Vars: []NamedVar{
			{Name: "owner", Type: types.Address()},
			{Name: "total", Type: types.Uint(256)},
		}},
		{Contract: "Child", Vars: []NamedVar{
			{Name: "balances", Type: types.Mapping(types.Address(), types.Uint(256))},
			{Name: "history", Type: types.DynamicArray(types.Uint(256))},
			{Name: "point", Type: types.Struct("Point", []types.Field{
				{Name: "x", Type: types.Uint(256)},
				{Name: "y", Type: types.Uint(256)},
			})},
		}},
	})

	want := map[string]struct {
		slot, slots int
		kind        SlotKind
	}{
		"owner":    {0, 1, SlotDirect},
		"total":    {1, 1, SlotDirect},
		"balances": {2, 1, SlotMappingHeader},
		"history":  {3, 1, SlotDynamicArrayHeader},
		"point":    {4, 2, SlotDirect},
	}
	for name, w := range want {
		vl, ok := l.ByName[name]
		if !ok {
			t.Fatalf("missing variable %q in layout", name)
		}
		if vl.Slot != w.slot || vl.Slots != w.slots || vl.Kind != w.kind {
			t.Errorf("%s = {slot:%d slots:%d kind:%v}, want {slot:%d slots:%d kind:%v}",
				name, vl.Slot, vl.Slots, vl.Kind, w.slot, w.slots, w.kind)
		}
	}
}

func TestAppendingAtEndIsStable(t *testing.T) {
	before := Assign([]ContractVars{
		{Contract: "C", Vars: []NamedVar{
			{Name: "a", Type: types.Uint(256)},
			{Name: "b", Type: types.Bool()},
		}},
	})
	after := Assign([]ContractVars{
		{Contract: "C", Vars: []NamedVar{
			{Name: "a", Type: types.Uint(256)},
			{Name: "b", Type: types.Bool()},
			{Name: "c", Type: types.Uint(8)},
		}},
	})
	if !Stable(before, after) {
		t.Fatal("appending a storage variable at the end must not move any previous slot")
	}
}

func TestFixedArrayConsumesContiguousSlots(t *testing.T) {
	l := Assign([]ContractVars{
		{Contract: "C", Vars: []NamedVar{
			{Name: "arr", Type: types.FixedArray(types.Uint(256), 5)},
			{Name: "after", Type: types.Bool()},
		}},
	})
	if l.ByName["arr"].Slots != 5 {
		t.Fatalf("uint256[5] should occupy 5 slots, got %d", l.ByName["arr"].Slots)
	}
	if l.ByName["after"].Slot != 5 {
		t.Fatalf("variable after a uint256[5] should start at slot 5, got %d", l.ByName["after"].Slot)
	}
}
