package abi

import (
	"math/big"

	"synnergy-network/synthesis/internal/types"
)

// encodeCompact implements dialect 2 (spec 4.6): little-endian natural-
// width integers, a compact-u32 length prefix ahead of every dynamic
// value, no padding. Address has no natural width of its own in
// internal/types (it carries the target's configured width separately,
// via internal/types/footprint.go's WireSize), so this codec treats it
// as a fixed 32-byte value; a caller that needs the real per-target width
// truncates or extends accordingly.
func encodeCompact(v Value, t *types.Type) ([]byte, error) {
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
		out := encodeCompactU32(uint64(len(v.Bytes)))
		return append(out, v.Bytes...), nil
	case types.KFixedArray:
		var out []byte
		for _, el := range v.Elems {
			enc, err := encodeCompact(el, r.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case types.KDynamicArray:
		out := encodeCompactU32(uint64(len(v.Elems)))
		for _, el := range v.Elems {
			enc, err := encodeCompact(el, r.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case types.KStruct:
		var out []byte
		for i, f := range r.Fields {
			enc, err := encodeCompact(v.Elems[i], f.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}
	return nil, errUnsupported
}

func decodeCompact(b []byte, t *types.Type) (Value, int, error) {
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
		n, c, err := decodeCompactU32(b)
		if err != nil {
			return Value{}, 0, err
		}
		if len(b) < c+int(n) {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bytes: append([]byte(nil), b[c:c+int(n)]...)}, c + int(n), nil
	case types.KFixedArray:
		offset := 0
		elems := make([]Value, r.Len)
		for i := 0; i < r.Len; i++ {
			el, n, err := decodeCompact(b[offset:], r.Elem)
			if err != nil {
				return Value{}, 0, err
			}
			elems[i] = el
			offset += n
		}
		return Value{Elems: elems}, offset, nil
	case types.KDynamicArray:
		n, c, err := decodeCompactU32(b)
		if err != nil {
			return Value{}, 0, err
		}
		offset := c
		elems := make([]Value, n)
		for i := range elems {
			el, consumed, err := decodeCompact(b[offset:], r.Elem)
			if err != nil {
				return Value{}, 0, err
			}
			elems[i] = el
			offset += consumed
		}
		return Value{Elems: elems}, offset, nil
	case types.KStruct:
		offset := 0
		elems := make([]Value, len(r.Fields))
		for i, f := range r.Fields {
			el, n, err := decodeCompact(b[offset:], f.Type)
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

// encodeCompactU32 implements dialect 2's compact length prefix (spec
// 4.6): values below 64 fit in one byte (n<<2), below 2^14 in two
// (n<<2|1), below 2^30 in four (n<<2|2), and anything larger spills into
// a 1-byte tag (3) followed by a 4-byte little-endian length.
func encodeCompactU32(n uint64) []byte {
	switch {
	case n < 1<<6:
		return []byte{byte(n << 2)}
	case n < 1<<14:
		v := uint16(n<<2) | 1
		return []byte{byte(v), byte(v >> 8)}
	case n < 1<<30:
		v := uint32(n<<2) | 2
		return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	default:
		out := make([]byte, 5)
		out[0] = 3
		out[1] = byte(n)
		out[2] = byte(n >> 8)
		out[3] = byte(n >> 16)
		out[4] = byte(n >> 24)
		return out
	}
}

func decodeCompactU32(b []byte) (uint64, int, error) {
	if len(b) < 1 {
		return 0, 0, errShortBuffer
	}
	tag := b[0] & 0x3
	switch tag {
	case 0:
		return uint64(b[0] >> 2), 1, nil
	case 1:
		if len(b) < 2 {
			return 0, 0, errShortBuffer
		}
		v := uint16(b[0]) | uint16(b[1])<<8
		return uint64(v >> 2), 2, nil
	case 2:
		if len(b) < 4 {
			return 0, 0, errShortBuffer
		}
		v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		return uint64(v >> 2), 4, nil
	default:
		if len(b) < 5 {
			return 0, 0, errShortBuffer
		}
		v := uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16 | uint32(b[4])<<24
		return uint64(v), 5, nil
	}
}

func natWidth(bits int) int {
	if bits <= 0 {
		bits = 256
	}
	return (bits + 7) / 8
}

func leBytes(i *big.Int, n int, signed bool) []byte {
	if i == nil {
		i = big.NewInt(0)
	}
	out := make([]byte, n)
	be := make([]byte, n)
	if signed && i.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(n*8))
		twos := new(big.Int).Add(mod, i)
		twos.FillBytes(be)
	} else {
		i.FillBytes(be)
	}
	reverseInto(out, be)
	return out
}

func leToInt(b []byte, signed bool) *big.Int {
	be := make([]byte, len(b))
	reverseInto(be, b)
	v := new(big.Int).SetBytes(be)
	if signed && len(be) > 0 && be[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(be)*8))
		v.Sub(v, mod)
	}
	return v
}

func reverseInto(dst, src []byte) {
	for i := range src {
		dst[len(src)-1-i] = src[i]
	}
}
