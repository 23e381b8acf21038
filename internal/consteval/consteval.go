// Package consteval implements the constant-folding half of component C3
// (spec section 4.3): arbitrary-precision evaluation of numeric, bitwise,
// logical, and comparison operators at compile time, truncating to a
// declared type only at the point of store or pass. It is built on
// math/big, following the teacher's own use of math/big.Int for balances
// and amounts in core/virtual_machine.go — the corpus's only other
// arbitrary-precision numeric type, github.com/holiman/uint256, is fixed at
// 256 bits and cannot hold the unbounded intermediate values a constant
// expression may take before its final truncation.
package consteval

import (
	"math/big"
	"strings"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/token"
	"synnergy-network/synthesis/internal/types"
)

// ValueKind discriminates the three shapes a folded constant can take.
type ValueKind int

const (
	VInt ValueKind = iota
	VBool
	VString
)

// Value is a folded compile-time constant. Int holds arbitrary-precision
// magnitude and sign; Bool and Str hold the other literal kinds that
// participate in constant folding (strings only through concatenation via
// `+` and equality comparison, never arithmetic).
type Value struct {
	Kind ValueKind
	Int  *big.Int
	Bool bool
	Str  string
}

func IntValue(i *big.Int) *Value   { return &Value{Kind: VInt, Int: i} }
func BoolValue(b bool) *Value      { return &Value{Kind: VBool, Bool: b} }
func StringValue(s string) *Value  { return &Value{Kind: VString, Str: s} }

// Env resolves identifiers that name other already-folded constants
// (spec 4.3: "constant initialisers may not read storage or call non-pure
// functions" — so the only identifiers a constant expression may reference
// are other constants and enum variants, which the resolver pre-populates
// here before calling Eval).
type Env map[string]*Value

// Eval folds e to a constant Value, or returns (nil, false) and records a
// diagnostic in bag when e is not a valid constant expression (reads an
// unresolvable name, calls a function, divides by a constant zero, etc).
func Eval(e ast.Expr, env Env, bag *diag.Bag) (*Value, bool) {
	switch v := e.(type) {
	case *ast.BoolLit:
		return BoolValue(v.Value), true
	case *ast.IntLit:
		n, ok := parseIntLiteral(v.Text, v.Hex)
		if !ok {
			bag.Addf(diag.Error, diag.ELexBadNumericForm, pos(e), "malformed integer literal %q", v.Text)
			return nil, false
		}
		return IntValue(n), true
	case *ast.RationalLit:
		n, ok := parseRationalLiteral(v.Text)
		if !ok {
			bag.Addf(diag.Error, diag.ELexBadNumericForm, pos(e), "rational literal %q does not fold to an integer", v.Text)
			return nil, false
		}
		return IntValue(n), true
	case *ast.StringLit:
		return StringValue(v.Value), true
	case *ast.HexStringLit:
		return StringValue(v.HexDigits), true
	case *ast.UnitLit:
		base, ok := Eval(v.Number, env, bag)
		if !ok {
			return nil, false
		}
		mult, ok := unitMultiplier(v.Unit)
		if !ok {
			bag.Addf(diag.Error, diag.ELexBadNumericForm, pos(e), "unknown unit suffix %q", v.Unit)
			return nil, false
		}
		out := new(big.Int).Mul(base.Int, mult)
		return IntValue(out), true
	case *ast.Ident:
		if val, ok := env[v.Name]; ok {
			return val, true
		}
		bag.Addf(diag.Error, diag.EResUnknownName, pos(e), "%q is not a compile-time constant", v.Name)
		return nil, false
	case *ast.UnaryExpr:
		return evalUnary(v, env, bag)
	case *ast.BinaryExpr:
		return evalBinary(v, env, bag)
	case *ast.ConditionalExpr:
		c, ok := Eval(v.Cond, env, bag)
		if !ok {
			return nil, false
		}
		if c.Kind != VBool {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(e), "ternary condition must be boolean in a constant expression")
			return nil, false
		}
		if c.Bool {
			return Eval(v.Then, env, bag)
		}
		return Eval(v.Else, env, bag)
	case *ast.CastExpr:
		return Eval(v.X, env, bag) // width truncation happens at Truncate, not here
	}
	bag.Addf(diag.Error, diag.EResUnknownName, pos(e), "expression is not a compile-time constant")
	return nil, false
}

func pos(e ast.Expr) token.Position { return e.ExprRange().Start }

func evalUnary(v *ast.UnaryExpr, env Env, bag *diag.Bag) (*Value, bool) {
	x, ok := Eval(v.X, env, bag)
	if !ok {
		return nil, false
	}
	switch v.Op {
	case "-":
		if x.Kind != VInt {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "unary '-' requires an integer constant")
			return nil, false
		}
		return IntValue(new(big.Int).Neg(x.Int)), true
	case "+":
		if x.Kind != VInt {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "unary '+' requires an integer constant")
			return nil, false
		}
		return IntValue(new(big.Int).Set(x.Int)), true
	case "!":
		if x.Kind != VBool {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "'!' requires a boolean constant")
			return nil, false
		}
		return BoolValue(!x.Bool), true
	case "~":
		if x.Kind != VInt {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "'~' requires an integer constant")
			return nil, false
		}
		return IntValue(new(big.Int).Not(x.Int)), true
	}
	bag.Addf(diag.Error, diag.ESynUnexpectedToken, pos(v), "unary operator %q is not valid in a constant expression", v.Op)
	return nil, false
}

func evalBinary(v *ast.BinaryExpr, env Env, bag *diag.Bag) (*Value, bool) {
	l, ok := Eval(v.Left, env, bag)
	if !ok {
		return nil, false
	}
	r, ok := Eval(v.Right, env, bag)
	if !ok {
		return nil, false
	}

	switch v.Op {
	case "&&":
		return boolOp(v, l, r, bag, func(a, b bool) bool { return a && b })
	case "||":
		return boolOp(v, l, r, bag, func(a, b bool) bool { return a || b })
	case "==":
		return equalityOp(v, l, r, bag, true)
	case "!=":
		return equalityOp(v, l, r, bag, false)
	}

	if l.Kind == VString && r.Kind == VString {
		if v.Op == "+" {
			return StringValue(l.Str + r.Str), true
		}
		bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "operator %q is not valid on string constants", v.Op)
		return nil, false
	}

	if l.Kind != VInt || r.Kind != VInt {
		bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "operator %q requires integer constants", v.Op)
		return nil, false
	}
	a, b := l.Int, r.Int

	switch v.Op {
	case "+":
		return IntValue(new(big.Int).Add(a, b)), true
	case "-":
		return IntValue(new(big.Int).Sub(a, b)), true
	case "*":
		return IntValue(new(big.Int).Mul(a, b)), true
	case "/":
		if b.Sign() == 0 {
			bag.Addf(diag.Warning, diag.WRuntimeDivisionByConstantZero, pos(v), "division by constant zero")
			return nil, false
		}
		return IntValue(new(big.Int).Quo(a, b)), true
	case "%":
		if b.Sign() == 0 {
			bag.Addf(diag.Warning, diag.WRuntimeDivisionByConstantZero, pos(v), "modulo by constant zero")
			return nil, false
		}
		return IntValue(new(big.Int).Rem(a, b)), true
	case "**":
		if a.Sign() < 0 {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "'**' is only defined for unsigned constants")
			return nil, false
		}
		if b.Sign() < 0 {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "'**' exponent must be non-negative")
			return nil, false
		}
		return IntValue(new(big.Int).Exp(a, b, nil)), true
	case "&":
		return IntValue(new(big.Int).And(a, b)), true
	case "|":
		return IntValue(new(big.Int).Or(a, b)), true
	case "^":
		return IntValue(new(big.Int).Xor(a, b)), true
	case "<<":
		if !b.IsUint64() {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "shift amount out of range")
			return nil, false
		}
		return IntValue(new(big.Int).Lsh(a, uint(b.Uint64()))), true
	case ">>":
		if !b.IsUint64() {
			bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "shift amount out of range")
			return nil, false
		}
		return IntValue(new(big.Int).Rsh(a, uint(b.Uint64()))), true
	case "<":
		return BoolValue(a.Cmp(b) < 0), true
	case "<=":
		return BoolValue(a.Cmp(b) <= 0), true
	case ">":
		return BoolValue(a.Cmp(b) > 0), true
	case ">=":
		return BoolValue(a.Cmp(b) >= 0), true
	}
	bag.Addf(diag.Error, diag.ESynUnexpectedToken, pos(v), "operator %q is not valid in a constant expression", v.Op)
	return nil, false
}

func boolOp(v *ast.BinaryExpr, l, r *Value, bag *diag.Bag, f func(a, b bool) bool) (*Value, bool) {
	if l.Kind != VBool || r.Kind != VBool {
		bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "operator %q requires boolean constants", v.Op)
		return nil, false
	}
	return BoolValue(f(l.Bool, r.Bool)), true
}

func equalityOp(v *ast.BinaryExpr, l, r *Value, bag *diag.Bag, wantEq bool) (*Value, bool) {
	var eq bool
	switch {
	case l.Kind == VInt && r.Kind == VInt:
		eq = l.Int.Cmp(r.Int) == 0
	case l.Kind == VBool && r.Kind == VBool:
		eq = l.Bool == r.Bool
	case l.Kind == VString && r.Kind == VString:
		eq = l.Str == r.Str
	default:
		bag.Addf(diag.Error, diag.ETypeSignMismatch, pos(v), "operands of %q have incompatible constant kinds", v.Op)
		return nil, false
	}
	if !wantEq {
		eq = !eq
	}
	return BoolValue(eq), true
}

func parseIntLiteral(text string, hex bool) (*big.Int, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	if hex {
		base = 16
		clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")
	}
	n := new(big.Int)
	_, ok := n.SetString(clean, base)
	return n, ok
}

// parseRationalLiteral folds a scientific-notation decimal (e.g. "1.5e2")
// down to *big.Int, failing if the value is not integral (spec 4.1: "folded
// value must be integer").
func parseRationalLiteral(text string) (*big.Int, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	r := new(big.Rat)
	if _, ok := r.SetString(clean); !ok {
		return nil, false
	}
	if !r.IsInt() {
		return nil, false
	}
	return new(big.Int).Set(r.Num()), true
}

var unitMultipliers = map[string]int64{
	"wei": 1, "gwei": 1_000_000_000, "ether": 1_000_000_000_000_000_000,
	"lamports": 1, "sol": 1_000_000_000,
	"seconds": 1, "minutes": 60, "hours": 3600, "days": 86400, "weeks": 604800,
}

func unitMultiplier(unit string) (*big.Int, bool) {
	m, ok := unitMultipliers[unit]
	if !ok {
		return nil, false
	}
	return big.NewInt(m), true
}

// Truncate applies declared-type truncation at the point of store or pass
// (spec 4.3), reinterpreting v.Int as a two's-complement value of t's width
// and signedness. t must be KInt or KUint.
func Truncate(v *Value, t *types.Type) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(t.Width))
	out := new(big.Int).Mod(v.Int, mask)
	if out.Sign() < 0 {
		out.Add(out, mask)
	}
	if t.Kind == types.KInt {
		half := new(big.Int).Rsh(mask, 1)
		if out.Cmp(half) >= 0 {
			out.Sub(out, mask)
		}
	}
	return out
}

// FitsLiteralType reports whether v (an integer constant) fits within t's
// declared width/signedness without truncation, for the
// "value doesn't fit literal type" diagnostic (spec 7).
func FitsLiteralType(v *Value, t *types.Type) bool {
	if v.Kind != VInt || (t.Kind != types.KInt && t.Kind != types.KUint) {
		return false
	}
	if t.Kind == types.KUint {
		if v.Int.Sign() < 0 {
			return false
		}
		max := new(big.Int).Lsh(big.NewInt(1), uint(t.Width))
		return v.Int.Cmp(max) < 0
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(t.Width-1))
	min := new(big.Int).Neg(half)
	max := new(big.Int).Sub(half, big.NewInt(1))
	return v.Int.Cmp(min) >= 0 && v.Int.Cmp(max) <= 0
}
