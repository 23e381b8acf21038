package target

import "testing"

func TestSelectorWidthMatchesDialect(t *testing.T) {
	cases := []struct {
		name Name
		want int
	}{
		{T1WasmContracts, 4},
		{T2SBF, 8},
		{T3BoundedLedger, 4},
	}
	for _, c := range cases {
		info := For(c.name)
		if info.SelectorWidth != c.want {
			t.Fatalf("%s: selector width = %d, want %d", c.name, info.SelectorWidth, c.want)
		}
		if info.DefaultDialect.SelectorWidth() != c.want {
			t.Fatalf("%s: default dialect %s selector width = %d, want %d", c.name, info.DefaultDialect, info.DefaultDialect.SelectorWidth(), c.want)
		}
	}
}

func TestT2HasNoTryCatch(t *testing.T) {
	if For(T2SBF).HasFeature(FeatTryCatch) {
		t.Fatal("T2SBF must not support try/catch")
	}
	if !For(T1WasmContracts).HasFeature(FeatTryCatch) {
		t.Fatal("T1WasmContracts must support try/catch")
	}
}

func TestT3HasNoAddressWidth(t *testing.T) {
	if For(T3BoundedLedger).AddressWidth != 0 {
		t.Fatal("T3BoundedLedger has no address value type")
	}
}

func TestParseName(t *testing.T) {
	n, ok := ParseName("t2")
	if !ok || n != T2SBF {
		t.Fatalf("ParseName(t2) = %v, %v", n, ok)
	}
	if _, ok := ParseName("bogus"); ok {
		t.Fatal("ParseName(bogus) should fail")
	}
}

func TestAllCoversEveryTarget(t *testing.T) {
	if len(All()) != 3 {
		t.Fatalf("All() = %d entries, want 3", len(All()))
	}
}
