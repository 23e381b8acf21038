package abi

import (
	"errors"

	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// ErrNestedDynamicInPacked is returned (and, at the caller's choice, raised
// as diag.ECodecNestedDynamicInPacked) when a packed encoding is asked to
// encode a container — array or struct — whose element/field type is
// itself dynamically sized. Spec 7 flags this as observably ambiguous (an
// encodePacked blob has no length prefixes, so several variable-length
// elements back to back cannot be split apart again) and spec 9 resolves
// the ambiguity by forbidding it outright rather than merely warning.
var ErrNestedDynamicInPacked = errors.New("abi: packed encoding of a container with a dynamically sized element is ambiguous")

// HasNestedDynamic reports whether t, used as a packed-encoding target,
// contains a dynamically sized element/field nested inside an array or
// struct. A bare top-level string/bytes is fine (EncodePacked's KString/
// KDynamicBytes case has nothing to delimit); it is only ambiguous once
// more than one dynamically sized run can appear back to back, which
// happens the moment such a value sits inside a container.
func HasNestedDynamic(t *types.Type) bool {
	r := t.Resolved()
	switch r.Kind {
	case types.KFixedArray, types.KDynamicArray:
		return r.Elem.IsDynamic() || HasNestedDynamic(r.Elem)
	case types.KStruct:
		for _, f := range r.Fields {
			if f.Type.IsDynamic() || HasNestedDynamic(f.Type) {
				return true
			}
		}
		return false
	}
	return false
}

// EncodePacked synthesises abi.encodePacked's output (spec 4.6): no
// lengths, no padding, raw bytes concatenated in each dialect's native
// integer byte order (big-endian for dialect 1, little-endian for
// dialects 2 and 3). Decoding packed output is never supported: a packed
// blob of several dynamic values has no way to recover their individual
// lengths, which is exactly why the spec restricts it to encode-only.
func EncodePacked(v Value, t *types.Type, d target.Dialect) ([]byte, error) {
	r := t.Resolved()
	if HasNestedDynamic(r) {
		return nil, ErrNestedDynamicInPacked
	}
	bigEndian := d == target.Dialect1Word32
	switch r.Kind {
	case types.KBool:
		if v.Bool {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case types.KUint, types.KInt:
		n := natWidth(r.Width)
		signed := r.Kind == types.KInt
		if bigEndian {
			word := intToWord(v.Int, wordSize, signed)
			return append([]byte(nil), word[wordSize-n:]...), nil
		}
		return leBytes(v.Int, n, signed), nil
	case types.KEnum:
		return []byte{byte(v.Int.Int64())}, nil
	case types.KBytesN, types.KDynamicBytes, types.KString, types.KAddress:
		return append([]byte(nil), v.Bytes...), nil
	case types.KFixedArray, types.KDynamicArray:
		var out []byte
		for _, el := range v.Elems {
			enc, err := EncodePacked(el, r.Elem, d)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case types.KStruct:
		var out []byte
		for i, f := range r.Fields {
			enc, err := EncodePacked(v.Elems[i], f.Type, d)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}
	return nil, errUnsupported
}
