package types

import "synnergy-network/synthesis/internal/target"

// StorageSlots returns the number of 32-byte slots t occupies in contiguous
// storage layout (spec 3.3): one slot for every primitive, contiguous runs
// for fixed arrays/structs, one header slot for mappings and dynamic
// arrays (their elements live at derived/hashed locations, tracked
// separately by internal/layout).
func StorageSlots(t *Type) int {
	switch t.Kind {
	case KMapping, KDynamicArray, KDynamicBytes, KString:
		return 1
	case KFixedArray:
		return t.Len * StorageSlots(t.Elem)
	case KStruct:
		n := 0
		for _, f := range t.Fields {
			n += StorageSlots(f.Type)
		}
		if n == 0 {
			return 1
		}
		return n
	case KUserDefined:
		return StorageSlots(t.Underlying)
	case KStorageRef:
		return StorageSlots(t.Elem)
	default:
		return 1
	}
}

// StorageBytes returns the packed byte width of a value type within a
// single storage slot (used by internal/layout when several small fields
// could in principle share a slot; the current layout policy always
// allocates one full slot per primitive, so this is informational).
func StorageBytes(t *Type) int {
	switch t.Kind {
	case KBool:
		return 1
	case KInt, KUint:
		return (t.Width + 7) / 8
	case KBytesN:
		return t.Width
	case KAddress:
		return 32 // slot width regardless of target address width
	case KEnum:
		return 1
	case KUserDefined:
		return StorageBytes(t.Underlying)
	default:
		return 32
	}
}

// MemoryBytes returns the size of t in the value-heap, given the active
// target's address width (spec 3.1: "Address — 20 or 32 bytes depending on
// target"). Dynamic types have no fixed memory size; callers must not call
// this for a type where IsDynamic() is true.
func MemoryBytes(t *Type, ti *target.Info) int {
	switch t.Kind {
	case KBool:
		return 1
	case KInt, KUint:
		return (t.Width + 7) / 8
	case KBytesN:
		return t.Width
	case KAddress:
		return ti.AddressWidth
	case KEnum:
		return 1
	case KFixedArray:
		return t.Len * MemoryBytes(t.Elem, ti)
	case KStruct:
		n := 0
		for _, f := range t.Fields {
			n += MemoryBytes(f.Type, ti)
		}
		return n
	case KUserDefined:
		return MemoryBytes(t.Underlying, ti)
	case KContractRef:
		return ti.AddressWidth
	case KStorageRef, KMemoryRef, KCalldataRef:
		return MemoryBytes(t.Elem, ti) // reference-typed locals hold the address word (spec 4.5 inline-assembly note)
	default:
		return 0
	}
}

// WireSize returns the fixed wire footprint of t under dialect d, and false
// in the second return if t is dynamically sized (no fixed footprint).
func WireSize(t *Type, d target.Dialect, ti *target.Info) (int, bool) {
	if t.IsDynamic() {
		return 0, false
	}
	switch t.Kind {
	case KBool:
		return wordOr(d, 1), true
	case KInt, KUint:
		n := (t.Width + 7) / 8
		return wordOr(d, n), true
	case KBytesN:
		return wordOr(d, t.Width), true
	case KAddress:
		if d == target.Dialect1Word32 {
			return 32, true
		}
		return ti.AddressWidth, true
	case KEnum:
		return wordOr(d, 1), true
	case KFixedArray:
		elemSize, ok := WireSize(t.Elem, d, ti)
		if !ok {
			return 0, false
		}
		return t.Len * elemSize, true
	case KStruct:
		total := 0
		for _, f := range t.Fields {
			sz, ok := WireSize(f.Type, d, ti)
			if !ok {
				return 0, false
			}
			total += sz
		}
		return total, true
	case KUserDefined:
		return WireSize(t.Underlying, d, ti)
	case KContractRef:
		if d == target.Dialect1Word32 {
			return 32, true
		}
		return ti.AddressWidth, true
	default:
		return 0, false
	}
}

// wordOr returns 32 for dialect 1 (every primitive padded to one 32-byte
// word) and the natural byte width n otherwise.
func wordOr(d target.Dialect, n int) int {
	if d == target.Dialect1Word32 {
		return 32
	}
	return n
}
