package abi

import (
	"encoding/binary"
	"math/big"

	"synnergy-network/synthesis/internal/types"
)

// encodeBorsh implements dialect 3 (spec 4.6): little-endian natural-width
// integers, a 4-byte little-endian length ahead of vectors/strings, fixed
// arrays concatenated with no length, enums as a single discriminant
// byte.
func encodeBorsh(v Value, t *types.Type) ([]byte, error) {
	r := t.Resolved()
	switch r.Kind {
	case types.KBool:
		if v.Bool {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case types.KUint:
		return leBytes(v.Int, natWidth(r.Width), false), nil
	case types.KInt:
		return leBytes(v.Int, natWidth(r.Width), true), nil
	case types.KEnum:
		return []byte{byte(v.Int.Int64())}, nil
	case types.KBytesN:
		out := make([]byte, r.Width)
		copy(out, v.Bytes)
		return out, nil
	case types.KAddress:
		out := make([]byte, wordSize)
		copy(out, v.Bytes)
		return out, nil
	case types.KString, types.KDynamicBytes:
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, uint32(len(v.Bytes)))
		return append(out, v.Bytes...), nil
	case types.KFixedArray:
		out := make([]byte, 0, r.Len)
		for _, el := range v.Elems {
			enc, err := encodeBorsh(el, r.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case types.KDynamicArray:
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, uint32(len(v.Elems)))
		for _, el := range v.Elems {
			enc, err := encodeBorsh(el, r.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case types.KStruct:
		var out []byte
		for i, f := range r.Fields {
			enc, err := encodeBorsh(v.Elems[i], f.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}
	return nil, errUnsupported
}

func decodeBorsh(b []byte, t *types.Type) (Value, int, error) {
	r := t.Resolved()
	switch r.Kind {
	case types.KBool:
		if len(b) < 1 {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bool: b[0] != 0}, 1, nil
	case types.KUint:
		n := natWidth(r.Width)
		if len(b) < n {
			return Value{}, 0, errShortBuffer
		}
		return Value{Int: leToInt(b[:n], false)}, n, nil
	case types.KInt:
		n := natWidth(r.Width)
		if len(b) < n {
			return Value{}, 0, errShortBuffer
		}
		return Value{Int: leToInt(b[:n], true)}, n, nil
	case types.KEnum:
		if len(b) < 1 {
			return Value{}, 0, errShortBuffer
		}
		return Value{Int: big.NewInt(int64(b[0]))}, 1, nil
	case types.KBytesN:
		if len(b) < r.Width {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bytes: append([]byte(nil), b[:r.Width]...)}, r.Width, nil
	case types.KAddress:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bytes: append([]byte(nil), b[:20]...)}, wordSize, nil
	case types.KString, types.KDynamicBytes:
		if len(b) < 4 {
			return Value{}, 0, errShortBuffer
		}
		n := int(binary.LittleEndian.Uint32(b[:4]))
		if len(b) < 4+n {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bytes: append([]byte(nil), b[4:4+n]...)}, 4 + n, nil
	case types.KFixedArray:
		offset := 0
		elems := make([]Value, r.Len)
		for i := 0; i < r.Len; i++ {
			el, n, err := decodeBorsh(b[offset:], r.Elem)
			if err != nil {
				return Value{}, 0, err
			}
			elems[i] = el
			offset += n
		}
		return Value{Elems: elems}, offset, nil
	case types.KDynamicArray:
		if len(b) < 4 {
			return Value{}, 0, errShortBuffer
		}
		n := int(binary.LittleEndian.Uint32(b[:4]))
		offset := 4
		elems := make([]Value, n)
		for i := 0; i < n; i++ {
			el, c, err := decodeBorsh(b[offset:], r.Elem)
			if err != nil {
				return Value{}, 0, err
			}
			elems[i] = el
			offset += c
		}
		return Value{Elems: elems}, offset, nil
	case types.KStruct:
		offset := 0
		elems := make([]Value, len(r.Fields))
		for i, f := range r.Fields {
			el, n, err := decodeBorsh(b[offset:], f.Type)
			if err != nil {
				return Value{}, 0, err
			}
			elems[i] = el
			offset += n
		}
		return Value{Elems: elems}, offset, nil
	}
	return Value{}, 0, errUnsupported
}
