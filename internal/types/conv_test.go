package types

import "testing"

func TestClassifyIdentity(t *testing.T) {
	c := Classify(Uint(256), Uint(256))
	if !c.Identity || c.NeedsExplicit {
		t.Fatalf("identity conversion misclassified: %+v", c)
	}
}

func TestClassifySignMismatchSameWidth(t *testing.T) {
	c := Classify(Uint(256), Int(256))
	if !c.SignMismatch || !c.NeedsExplicit {
		t.Fatalf("same-width sign change should require an explicit cast: %+v", c)
	}
}

func TestClassifyNarrowing(t *testing.T) {
	c := Classify(Uint(256), Uint(128))
	if !c.Truncates || !c.NeedsExplicit {
		t.Fatalf("narrowing conversion should require an explicit cast: %+v", c)
	}
}

func TestClassifyWideningSameSignIsImplicit(t *testing.T) {
	c := Classify(Uint(8), Uint(256))
	if c.NeedsExplicit {
		t.Fatalf("same-signedness widening should be implicit: %+v", c)
	}
}

func TestClassifyWideningWithSignChangeNeedsExplicit(t *testing.T) {
	c := Classify(Uint(8), Int(256))
	if !c.NeedsExplicit {
		t.Fatalf("widening with a sign change should require an explicit cast: %+v", c)
	}
}

func TestClassifyPanicsOnNonIntegerType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Classify should panic on a non-integer type")
		}
	}()
	Classify(Bool(), Uint(256))
}

func TestCanImplicitlyConvert(t *testing.T) {
	if !CanImplicitlyConvert(Uint(8), Uint(256)) {
		t.Fatal("uint8 -> uint256 should be implicit")
	}
	if CanImplicitlyConvert(Uint(256), Uint(8)) {
		t.Fatal("uint256 -> uint8 should not be implicit")
	}
	if CanImplicitlyConvert(Uint(256), Int(256)) {
		t.Fatal("uint256 -> int256 should not be implicit")
	}
	if !CanImplicitlyConvert(Bool(), Bool()) {
		t.Fatal("identical non-numeric types should be implicitly convertible")
	}
}

func TestCanImplicitlyConvertUserDefinedUnwraps(t *testing.T) {
	ud := UserDefined("Balance", Uint(256))
	if !CanImplicitlyConvert(ud, Uint(256)) {
		t.Fatal("a user-defined value type should implicitly convert to its underlying type")
	}
	if !CanImplicitlyConvert(Uint(8), ud) {
		t.Fatal("a type that implicitly converts to the underlying type should implicitly convert to the user-defined type")
	}
}

func TestRequiresEmulatedArithmetic(t *testing.T) {
	if RequiresEmulatedArithmetic(Uint(64)) {
		t.Fatal("uint64 fits in a native register")
	}
	if !RequiresEmulatedArithmetic(Uint(256)) {
		t.Fatal("uint256 requires emulated arithmetic")
	}
	if !RequiresEmulatedArithmetic(Int(128)) {
		t.Fatal("int128 requires emulated arithmetic")
	}
	if RequiresEmulatedArithmetic(Bool()) {
		t.Fatal("bool is not numeric")
	}
}
