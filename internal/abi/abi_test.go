package abi

import (
	"errors"
	"math/big"
	"testing"

	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

var allDialects = []target.Dialect{target.Dialect1Word32, target.Dialect2CompactLE, target.Dialect3Borsh}

func roundTrip(t *testing.T, v Value, typ *types.Type, d target.Dialect) Value {
	t.Helper()
	enc, err := EncodeValue(v, typ, d)
	if err != nil {
		t.Fatalf("EncodeValue(%s): %v", d, err)
	}
	dec, n, err := DecodeValue(enc, typ, d)
	if err != nil {
		t.Fatalf("DecodeValue(%s): %v", d, err)
	}
	if n != len(enc) {
		t.Fatalf("DecodeValue(%s) consumed %d of %d bytes", d, n, len(enc))
	}
	return dec
}

func TestRoundTripBool(t *testing.T) {
	for _, d := range allDialects {
		for _, b := range []bool{true, false} {
			got := roundTrip(t, BoolValue(b), types.Bool(), d)
			if got.Bool != b {
				t.Errorf("%s: bool round trip = %v, want %v", d, got.Bool, b)
			}
		}
	}
}

func TestRoundTripUint(t *testing.T) {
	vals := []int64{0, 1, 255, 65535, 1 << 40}
	for _, d := range allDialects {
		for _, v := range vals {
			in := big.NewInt(v)
			got := roundTrip(t, IntValue(in), types.Uint(256), d)
			if got.Int.Cmp(in) != 0 {
				t.Errorf("%s: uint256 round trip = %v, want %v", d, got.Int, in)
			}
		}
	}
}

func TestRoundTripSignedInt(t *testing.T) {
	vals := []int64{0, -1, 42, -42, -(1 << 30)}
	for _, d := range allDialects {
		for _, v := range vals {
			in := big.NewInt(v)
			got := roundTrip(t, IntValue(in), types.Int(256), d)
			if got.Int.Cmp(in) != 0 {
				t.Errorf("%s: int256 round trip = %v, want %v", d, got.Int, in)
			}
		}
	}
}

func TestRoundTripBytesNAndAddress(t *testing.T) {
	addr := make([]byte, 20)
	for i := range addr {
		addr[i] = byte(i + 1)
	}
	b4 := []byte{0xde, 0xad, 0xbe, 0xef}
	for _, d := range allDialects {
		got := roundTrip(t, BytesValue(addr), types.Address(), d)
		if string(got.Bytes) != string(addr) {
			t.Errorf("%s: address round trip mismatch", d)
		}
		got2 := roundTrip(t, BytesValue(b4), types.BytesN(4), d)
		if string(got2.Bytes) != string(b4) {
			t.Errorf("%s: bytes4 round trip mismatch", d)
		}
	}
}

func TestRoundTripStringAndDynamicBytes(t *testing.T) {
	samples := []string{"", "hello", "a longer string that exceeds one word of thirty two bytes in length"}
	for _, d := range allDialects {
		for _, s := range samples {
			got := roundTrip(t, StringValue(s), types.String(), d)
			if string(got.Bytes) != s {
				t.Errorf("%s: string round trip = %q, want %q", d, got.Bytes, s)
			}
		}
	}
}

func TestRoundTripFixedAndDynamicArray(t *testing.T) {
	elemType := types.Uint(64)
	elems := []Value{IntValue(big.NewInt(1)), IntValue(big.NewInt(2)), IntValue(big.NewInt(3))}
	for _, d := range allDialects {
		gotFixed := roundTrip(t, ArrayValue(elems), types.FixedArray(elemType, 3), d)
		if len(gotFixed.Elems) != 3 {
			t.Fatalf("%s: fixed array round trip length = %d, want 3", d, len(gotFixed.Elems))
		}
		gotDyn := roundTrip(t, ArrayValue(elems), types.DynamicArray(elemType), d)
		if len(gotDyn.Elems) != 3 {
			t.Fatalf("%s: dynamic array round trip length = %d, want 3", d, len(gotDyn.Elems))
		}
		for i, e := range gotDyn.Elems {
			if e.Int.Cmp(elems[i].Int) != 0 {
				t.Errorf("%s: dynamic array elem %d = %v, want %v", d, i, e.Int, elems[i].Int)
			}
		}
	}
}

func TestRoundTripStruct(t *testing.T) {
	st := types.Struct("Pair", []types.Field{
		{Name: "a", Type: types.Uint(256)},
		{Name: "b", Type: types.Bool()},
	})
	v := ArrayValue([]Value{IntValue(big.NewInt(7)), BoolValue(true)})
	for _, d := range allDialects {
		got := roundTrip(t, v, st, d)
		if got.Elems[0].Int.Cmp(big.NewInt(7)) != 0 || got.Elems[1].Bool != true {
			t.Errorf("%s: struct round trip mismatch: %+v", d, got)
		}
	}
}

func TestCompactU32Boundaries(t *testing.T) {
	cases := []uint64{0, 1, 63, 64, 16383, 16384, (1 << 30) - 1, 1 << 30, (1 << 32) - 1}
	for _, n := range cases {
		enc := encodeCompactU32(n)
		got, consumed, err := decodeCompactU32(enc)
		if err != nil {
			t.Fatalf("decodeCompactU32(%d): %v", n, err)
		}
		if consumed != len(enc) {
			t.Fatalf("decodeCompactU32(%d) consumed %d of %d", n, consumed, len(enc))
		}
		if got != n {
			t.Fatalf("decodeCompactU32(%d) = %d", n, got)
		}
	}
}

func TestEncodePackedHasNoPadding(t *testing.T) {
	enc, err := EncodePacked(BytesValue([]byte("hi")), types.DynamicBytes(), target.Dialect1Word32)
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) != 2 {
		t.Fatalf("packed bytes length = %d, want 2 (no padding)", len(enc))
	}
}

func TestEncodePackedByteOrderByDialect(t *testing.T) {
	v := IntValue(big.NewInt(1))
	be, err := EncodePacked(v, types.Uint(16), target.Dialect1Word32)
	if err != nil {
		t.Fatal(err)
	}
	if be[0] != 0x00 || be[1] != 0x01 {
		t.Fatalf("dialect1 packed uint16(1) = %x, want big-endian 0001", be)
	}
	le, err := EncodePacked(v, types.Uint(16), target.Dialect2CompactLE)
	if err != nil {
		t.Fatal(err)
	}
	if le[0] != 0x01 || le[1] != 0x00 {
		t.Fatalf("dialect2 packed uint16(1) = %x, want little-endian 0100", le)
	}
}

func TestEncodePackedRejectsNestedDynamicArray(t *testing.T) {
	v := ArrayValue([]Value{StringValue("a"), StringValue("bb")})
	_, err := EncodePacked(v, types.DynamicArray(types.String()), target.Dialect1Word32)
	if !errors.Is(err, ErrNestedDynamicInPacked) {
		t.Fatalf("EncodePacked(string[]) error = %v, want ErrNestedDynamicInPacked", err)
	}
}

func TestEncodePackedAllowsFixedWidthArray(t *testing.T) {
	v := ArrayValue([]Value{IntValue(big.NewInt(1)), IntValue(big.NewInt(2))})
	enc, err := EncodePacked(v, types.DynamicArray(types.Uint(256)), target.Dialect1Word32)
	if err != nil {
		t.Fatalf("uint256[] should pack without ambiguity: %v", err)
	}
	if len(enc) != 64 {
		t.Fatalf("packed uint256[2] length = %d, want 64", len(enc))
	}
}

func TestSelector1MatchesKeccakPrefix(t *testing.T) {
	sel := Selector1("transfer", []*types.Type{types.Address(), types.Uint(256)})
	if sel == ([4]byte{}) {
		t.Fatal("Selector1 should not be all zero for a real signature")
	}
	// Deterministic: two calls must agree.
	sel2 := Selector1("transfer", []*types.Type{types.Address(), types.Uint(256)})
	if sel != sel2 {
		t.Fatal("Selector1 must be deterministic")
	}
}

func TestSelectorsDifferAcrossDialects(t *testing.T) {
	s1 := Selector1("vote", []*types.Type{types.Uint(8)})
	s2 := Selector2("vote", []*types.Type{types.Uint(8)})
	if string(s1[:]) == string(s2[:]) {
		t.Fatal("dialect 1 and dialect 2 selectors should use different hash functions")
	}
}

func TestDispatchTableDetectsCollision(t *testing.T) {
	fns := []FunctionSpec{
		{Name: "foo", Override: []byte{1, 2, 3, 4}},
		{Name: "bar", Override: []byte{1, 2, 3, 4}},
	}
	if _, err := Build(fns, target.Dialect1Word32); err == nil {
		t.Fatal("expected a collision error for two functions sharing an override")
	}
}

func TestDispatchTableLookup(t *testing.T) {
	fns := []FunctionSpec{
		{Name: "foo", Params: []*types.Type{types.Uint(256)}},
		{Name: "bar", Params: nil},
	}
	tbl, err := Build(fns, target.Dialect3Borsh)
	if err != nil {
		t.Fatal(err)
	}
	want := Discriminator3("bar")
	entry, ok := tbl.Lookup(want[:])
	if !ok || entry.Function != "bar" {
		t.Fatalf("Lookup(bar's discriminator) = %+v, %v", entry, ok)
	}
}

func TestValidateOverrideAgreementRejectsDisagreement(t *testing.T) {
	fns := []FunctionSpec{
		{Name: "foo", Override: []byte{1, 2, 3, 4}},
		{Name: "foo", Override: []byte{5, 6, 7, 8}},
	}
	if err := ValidateOverrideAgreement(fns); err == nil {
		t.Fatal("expected disagreement error")
	}
}

func FuzzRoundTripUint256(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(1))
	f.Add(int64(-1))
	f.Add(int64(1 << 40))
	f.Fuzz(func(t *testing.T, n int64) {
		in := big.NewInt(n)
		if in.Sign() < 0 {
			in = in.Neg(in)
		}
		for _, d := range allDialects {
			got := roundTrip(t, IntValue(in), types.Uint(256), d)
			if got.Int.Cmp(in) != 0 {
				t.Fatalf("%s: uint256 fuzz round trip = %v, want %v", d, got.Int, in)
			}
		}
	})
}
