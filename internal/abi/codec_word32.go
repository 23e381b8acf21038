package abi

import (
	"math/big"

	"synnergy-network/synthesis/internal/types"
)

const wordSize = 32

// encodeWord32 implements dialect 1 (spec 4.6): every primitive padded to a
// 32-byte word (integers big-endian zero/sign-extended, bytesN left-
// aligned, address right-aligned); dynamic values carry their length as a
// leading word. Multi-argument head/tail offset indirection is a
// dispatch-table-level concern layered on top of this per-value encoding,
// not something a single value's own encoding needs to express.
func encodeWord32(v Value, t *types.Type) ([]byte, error) {
	r := t.Resolved()
	switch r.Kind {
	case types.KBool:
		word := make([]byte, wordSize)
		if v.Bool {
			word[wordSize-1] = 1
		}
		return word, nil
	case types.KUint, types.KEnum:
		return intToWord(v.Int, wordSize, false), nil
	case types.KInt:
		return intToWord(v.Int, wordSize, true), nil
	case types.KBytesN:
		word := make([]byte, wordSize)
		copy(word, v.Bytes)
		return word, nil
	case types.KAddress:
		word := make([]byte, wordSize)
		copy(word[wordSize-len(v.Bytes):], v.Bytes)
		return word, nil
	case types.KString, types.KDynamicBytes:
		out := intToWord(big.NewInt(int64(len(v.Bytes))), wordSize, false)
		return append(out, padTo32(v.Bytes)...), nil
	case types.KFixedArray:
		out := make([]byte, 0, r.Len*wordSize)
		for _, el := range v.Elems {
			enc, err := encodeWord32(el, r.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case types.KDynamicArray:
		out := intToWord(big.NewInt(int64(len(v.Elems))), wordSize, false)
		for _, el := range v.Elems {
			enc, err := encodeWord32(el, r.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case types.KStruct:
		var out []byte
		for i, f := range r.Fields {
			enc, err := encodeWord32(v.Elems[i], f.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}
	return nil, errUnsupported
}

func decodeWord32(b []byte, t *types.Type) (Value, int, error) {
	r := t.Resolved()
	switch r.Kind {
	case types.KBool:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bool: b[wordSize-1] != 0}, wordSize, nil
	case types.KUint, types.KEnum:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		return Value{Int: new(big.Int).SetBytes(b[:wordSize])}, wordSize, nil
	case types.KInt:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		return Value{Int: wordToSignedInt(b[:wordSize])}, wordSize, nil
	case types.KBytesN:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bytes: append([]byte(nil), b[:r.Width]...)}, wordSize, nil
	case types.KAddress:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bytes: append([]byte(nil), b[wordSize-20:wordSize]...)}, wordSize, nil
	case types.KString, types.KDynamicBytes:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		n := int(new(big.Int).SetBytes(b[:wordSize]).Int64())
		consumed := wordSize
		padded := paddedLen(n)
		if len(b) < consumed+padded {
			return Value{}, 0, errShortBuffer
		}
		return Value{Bytes: append([]byte(nil), b[consumed:consumed+n]...)}, consumed + padded, nil
	case types.KFixedArray:
		offset := 0
		elems := make([]Value, r.Len)
		for i := 0; i < r.Len; i++ {
			el, n, err := decodeWord32(b[offset:], r.Elem)
			if err != nil {
				return Value{}, 0, err
			}
			elems[i] = el
			offset += n
		}
		return Value{Elems: elems}, offset, nil
	case types.KDynamicArray:
		if len(b) < wordSize {
			return Value{}, 0, errShortBuffer
		}
		n := int(new(big.Int).SetBytes(b[:wordSize]).Int64())
		offset := wordSize
		elems := make([]Value, n)
		for i := 0; i < n; i++ {
			el, c, err := decodeWord32(b[offset:], r.Elem)
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
			el, n, err := decodeWord32(b[offset:], f.Type)
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

func intToWord(i *big.Int, size int, signed bool) []byte {
	if i == nil {
		i = big.NewInt(0)
	}
	out := make([]byte, size)
	if signed && i.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
		twos := new(big.Int).Add(mod, i)
		twos.FillBytes(out)
		return out
	}
	i.FillBytes(out)
	return out
}

func wordToSignedInt(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		v.Sub(v, mod)
	}
	return v
}

func padTo32(b []byte) []byte {
	out := make([]byte, paddedLen(len(b)))
	copy(out, b)
	return out
}

func paddedLen(n int) int {
	if n%wordSize == 0 {
		return n
	}
	return n + (wordSize - n%wordSize)
}
