package types

import "testing"

func TestEqualPrimitives(t *testing.T) {
	if !Equal(Uint(256), Uint(256)) {
		t.Fatal("uint256 should equal uint256")
	}
	if Equal(Uint(256), Uint(128)) {
		t.Fatal("uint256 should not equal uint128")
	}
	if Equal(Int(256), Uint(256)) {
		t.Fatal("int256 should not equal uint256")
	}
}

func TestEqualAggregate(t *testing.T) {
	a := Struct("Point", []Field{{Name: "x", Type: Uint(256)}, {Name: "y", Type: Uint(256)}})
	b := Struct("Point", []Field{{Name: "x", Type: Uint(256)}, {Name: "y", Type: Uint(256)}})
	c := Struct("Point", []Field{{Name: "x", Type: Uint(128)}, {Name: "y", Type: Uint(256)}})
	if !Equal(a, b) {
		t.Fatal("identical structs should be equal")
	}
	if Equal(a, c) {
		t.Fatal("structs differing in field type should not be equal")
	}
	if !Equal(FixedArray(Uint(8), 4), FixedArray(Uint(8), 4)) {
		t.Fatal("identical fixed arrays should be equal")
	}
	if Equal(FixedArray(Uint(8), 4), FixedArray(Uint(8), 5)) {
		t.Fatal("fixed arrays of different length should not be equal")
	}
}

func TestIsDynamic(t *testing.T) {
	if Bool().IsDynamic() {
		t.Fatal("bool is not dynamic")
	}
	if !String().IsDynamic() {
		t.Fatal("string is dynamic")
	}
	if !DynamicArray(Uint(256)).IsDynamic() {
		t.Fatal("dynamic array is dynamic")
	}
	if !FixedArray(String(), 3).IsDynamic() {
		t.Fatal("fixed array of a dynamic element is dynamic")
	}
	nested := Struct("S", []Field{{Name: "a", Type: DynamicBytes()}})
	if !nested.IsDynamic() {
		t.Fatal("struct containing a dynamic field is dynamic")
	}
	flat := Struct("S", []Field{{Name: "a", Type: Uint(8)}})
	if flat.IsDynamic() {
		t.Fatal("struct of only fixed fields is not dynamic")
	}
}

func TestCanonicalSignatureName(t *testing.T) {
	cases := []struct {
		t    *Type
		want string
	}{
		{Uint(256), "uint256"},
		{Int(8), "int8"},
		{BytesN(32), "bytes32"},
		{Address(), "address"},
		{DynamicArray(Uint(256)), "uint256[]"},
		{FixedArray(Address(), 3), "address[3]"},
		{Enum("Color", []string{"Red", "Green"}), "uint8"},
		{ContractRef("IERC20"), "address"},
	}
	for _, c := range cases {
		if got := c.t.CanonicalSignatureName(); got != c.want {
			t.Errorf("CanonicalSignatureName() = %q, want %q", got, c.want)
		}
	}
	s := Struct("Point", []Field{{Name: "x", Type: Uint(256)}, {Name: "y", Type: Uint(256)}})
	if got, want := s.CanonicalSignatureName(), "(uint256,uint256)"; got != want {
		t.Errorf("struct CanonicalSignatureName() = %q, want %q", got, want)
	}
}

func TestCanonicalFunctionSignature(t *testing.T) {
	got := CanonicalFunctionSignature("transfer", []*Type{Address(), Uint(256)})
	want := "transfer(address,uint256)"
	if got != want {
		t.Fatalf("CanonicalFunctionSignature() = %q, want %q", got, want)
	}
}

func TestResolvedStripsReferenceWrapper(t *testing.T) {
	base := Uint(256)
	if StorageRef(base).Resolved() != base {
		t.Fatal("Resolved() should strip StorageRef")
	}
	if MemoryRef(base).Resolved() != base {
		t.Fatal("Resolved() should strip MemoryRef")
	}
	if base.Resolved() != base {
		t.Fatal("Resolved() on a plain value type should be a no-op")
	}
}
