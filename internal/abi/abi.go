// Package abi implements component C6: given a (Type, Dialect) pair it
// synthesises the wire encoding/decoding spec section 4.6 describes for the
// three ABI dialects, plus packed encoding, and computes the selector/
// discriminator a dispatch table keys functions by.
//
// internal/irbuild's Encode/Decode IR nodes carry a Dialect and a Selector
// but treat the actual byte layout as opaque (one instruction each); this
// package is where that layout is actually defined; a downstream code
// generator or reference interpreter calls EncodeValue/DecodeValue to
// realise what the IR node means for one argument, and Build
// to realise what it means for a whole contract's entry points.
package abi

import (
	"errors"
	"math/big"

	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// Value is a dialect-independent runtime value, shaped to mirror
// internal/types.Type: exactly the fields relevant to the value's Kind are
// populated. It exists so EncodeValue/DecodeValue have something concrete
// to round-trip in tests without depending on any particular target's
// runtime representation.
type Value struct {
	Bool  bool
	Int   *big.Int // Int, Uint, Enum (as its ordinal)
	Bytes []byte   // BytesN, Address, DynamicBytes, String (UTF-8)
	Elems []Value  // FixedArray, DynamicArray, Struct (field order)
}

func BoolValue(b bool) Value        { return Value{Bool: b} }
func IntValue(i *big.Int) Value     { return Value{Int: i} }
func BytesValue(b []byte) Value     { return Value{Bytes: append([]byte(nil), b...)} }
func StringValue(s string) Value    { return Value{Bytes: []byte(s)} }
func ArrayValue(elems []Value) Value { return Value{Elems: elems} }

var (
	errShortBuffer  = errors.New("abi: buffer too short")
	errUnsupported  = errors.New("abi: unsupported type for this dialect")
)

// EncodeValue synthesises the encoding of v as t under dialect d (spec
// 4.6). Packed encoding is a distinct entry point (EncodePacked) since its
// shape (no lengths, no padding) isn't a parameterisation of the same
// recursion but a genuinely different one.
func EncodeValue(v Value, t *types.Type, d target.Dialect) ([]byte, error) {
	switch d {
	case target.Dialect1Word32:
		return encodeWord32(v, t)
	case target.Dialect2CompactLE:
		return encodeCompact(v, t)
	case target.Dialect3Borsh:
		return encodeBorsh(v, t)
	}
	return nil, errUnsupported
}

// DecodeValue is EncodeValue's inverse: it returns the decoded value and
// the number of bytes of b it consumed, so callers decoding a sequence of
// arguments can advance their own cursor.
func DecodeValue(b []byte, t *types.Type, d target.Dialect) (Value, int, error) {
	switch d {
	case target.Dialect1Word32:
		return decodeWord32(b, t)
	case target.Dialect2CompactLE:
		return decodeCompact(b, t)
	case target.Dialect3Borsh:
		return decodeBorsh(b, t)
	}
	return Value{}, 0, errUnsupported
}
