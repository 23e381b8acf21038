package types

// Conversion classifies what an implicit or explicit cast from one numeric
// type to another requires (spec 3.1's final invariant).
type Conversion struct {
	Identity     bool
	Truncates    bool // target is narrower than source
	SignMismatch bool // same width, Int <-> Uint: requires an explicit cast
	NeedsExplicit bool
}

// Classify compares two Int/Uint types and reports the conversion shape.
// Callers must only pass KInt/KUint types; anything else panics, since a
// caller asking for a numeric conversion on a non-numeric type is a defect
// in the caller, not a user-facing error.
func Classify(from, to *Type) Conversion {
	if (from.Kind != KInt && from.Kind != KUint) || (to.Kind != KInt && to.Kind != KUint) {
		panic("types: Classify called on non-integer type")
	}
	if from.Kind == to.Kind && from.Width == to.Width {
		return Conversion{Identity: true}
	}
	if from.Width == to.Width && from.Kind != to.Kind {
		return Conversion{SignMismatch: true, NeedsExplicit: true}
	}
	if to.Width < from.Width {
		return Conversion{Truncates: true, NeedsExplicit: true}
	}
	// Widening: zero-extend Uint, sign-extend Int; same-signedness widening
	// is implicit, a signedness change on top of widening still requires a
	// cast.
	if from.Kind != to.Kind {
		return Conversion{NeedsExplicit: true}
	}
	return Conversion{}
}

// CanImplicitlyConvert reports whether a value of type from may be used
// where to is expected without an explicit cast expression.
func CanImplicitlyConvert(from, to *Type) bool {
	if Equal(from, to) {
		return true
	}
	if (from.Kind == KInt || from.Kind == KUint) && (to.Kind == KInt || to.Kind == KUint) {
		c := Classify(from, to)
		return !c.NeedsExplicit
	}
	if from.Kind == KUserDefined {
		return CanImplicitlyConvert(from.Underlying, to)
	}
	if to.Kind == KUserDefined {
		return CanImplicitlyConvert(from, to.Underlying)
	}
	return false
}

// RequiresEmulatedArithmetic reports whether arithmetic on t must go through
// an emulated (non-native-register) code path because its width exceeds 64
// bits (spec 3.1: "larger widths (>64) require emulated arithmetic from
// runtime primitives").
func RequiresEmulatedArithmetic(t *Type) bool {
	return (t.Kind == KInt || t.Kind == KUint) && t.Width > 64
}
