package types

import (
	"testing"

	"synnergy-network/synthesis/internal/target"
)

func TestStorageSlots(t *testing.T) {
	if got := StorageSlots(Uint(256)); got != 1 {
		t.Fatalf("uint256 StorageSlots = %d, want 1", got)
	}
	if got := StorageSlots(FixedArray(Uint(256), 4)); got != 4 {
		t.Fatalf("uint256[4] StorageSlots = %d, want 4", got)
	}
	if got := StorageSlots(DynamicArray(Uint(256))); got != 1 {
		t.Fatalf("uint256[] StorageSlots = %d, want 1 (header slot)", got)
	}
	if got := StorageSlots(Mapping(Address(), Uint(256))); got != 1 {
		t.Fatalf("mapping StorageSlots = %d, want 1 (header slot)", got)
	}
	s := Struct("Pair", []Field{{Name: "a", Type: Uint(256)}, {Name: "b", Type: Bool()}})
	if got := StorageSlots(s); got != 2 {
		t.Fatalf("struct StorageSlots = %d, want 2", got)
	}
}

func TestMemoryBytesAddressWidthPerTarget(t *testing.T) {
	t1 := target.For(target.T1WasmContracts)
	t2 := target.For(target.T2SBF)
	if got := MemoryBytes(Address(), t1); got != 32 {
		t.Fatalf("T1 address MemoryBytes = %d, want 32", got)
	}
	if got := MemoryBytes(Address(), t2); got != 32 {
		t.Fatalf("T2 address MemoryBytes = %d, want 32", got)
	}
	if got := MemoryBytes(Uint(64), t1); got != 8 {
		t.Fatalf("uint64 MemoryBytes = %d, want 8", got)
	}
	if got := MemoryBytes(Bool(), t1); got != 1 {
		t.Fatalf("bool MemoryBytes = %d, want 1", got)
	}
}

func TestWireSizeDynamicHasNoFixedSize(t *testing.T) {
	ti := target.For(target.T1WasmContracts)
	if _, ok := WireSize(String(), target.Dialect2CompactLE, ti); ok {
		t.Fatal("string should not have a fixed wire size")
	}
	if _, ok := WireSize(DynamicArray(Uint(8)), target.Dialect2CompactLE, ti); ok {
		t.Fatal("dynamic array should not have a fixed wire size")
	}
}

func TestWireSizeWord32PadsEveryPrimitive(t *testing.T) {
	ti := target.For(target.T1WasmContracts)
	n, ok := WireSize(Bool(), target.Dialect1Word32, ti)
	if !ok || n != 32 {
		t.Fatalf("bool under Dialect1Word32 WireSize = (%d,%v), want (32,true)", n, ok)
	}
	n, ok = WireSize(Uint(8), target.Dialect1Word32, ti)
	if !ok || n != 32 {
		t.Fatalf("uint8 under Dialect1Word32 WireSize = (%d,%v), want (32,true)", n, ok)
	}
}

func TestWireSizeCompactLEIsNaturalWidth(t *testing.T) {
	ti := target.For(target.T1WasmContracts)
	n, ok := WireSize(Uint(64), target.Dialect2CompactLE, ti)
	if !ok || n != 8 {
		t.Fatalf("uint64 under Dialect2CompactLE WireSize = (%d,%v), want (8,true)", n, ok)
	}
	n, ok = WireSize(Bool(), target.Dialect2CompactLE, ti)
	if !ok || n != 1 {
		t.Fatalf("bool under Dialect2CompactLE WireSize = (%d,%v), want (1,true)", n, ok)
	}
}

func TestWireSizeFixedArrayAndStruct(t *testing.T) {
	ti := target.For(target.T1WasmContracts)
	n, ok := WireSize(FixedArray(Uint(8), 4), target.Dialect2CompactLE, ti)
	if !ok || n != 4 {
		t.Fatalf("uint8[4] WireSize = (%d,%v), want (4,true)", n, ok)
	}
	s := Struct("Pair", []Field{{Name: "a", Type: Uint(64)}, {Name: "b", Type: Bool()}})
	n, ok = WireSize(s, target.Dialect2CompactLE, ti)
	if !ok || n != 9 {
		t.Fatalf("struct{uint64,bool} WireSize = (%d,%v), want (9,true)", n, ok)
	}
}
