package consteval

import (
	"math/big"
	"testing"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/types"
)

func intLit(text string) *ast.IntLit { return &ast.IntLit{Text: text} }

func bin(op string, l, r ast.Expr) *ast.BinaryExpr { return &ast.BinaryExpr{Op: op, Left: l, Right: r} }

func mustInt(t *testing.T, v *Value, ok bool) *big.Int {
	t.Helper()
	if !ok {
		t.Fatal("expected successful fold")
	}
	if v.Kind != VInt {
		t.Fatalf("expected integer value, got kind %v", v.Kind)
	}
	return v.Int
}

func TestEvalArithmetic(t *testing.T) {
	bag := diag.NewBag()
	v, ok := Eval(bin("+", intLit("2"), bin("*", intLit("3"), intLit("4"))), nil, bag)
	got := mustInt(t, v, ok)
	if got.Cmp(big.NewInt(14)) != 0 {
		t.Fatalf("2 + 3*4 = %s, want 14", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Sorted())
	}
}

func TestEvalExponentRejectsNegativeBase(t *testing.T) {
	bag := diag.NewBag()
	_, ok := Eval(bin("**", intLit("-2"), intLit("3")), nil, bag)
	if ok {
		t.Fatal("'**' on a negative base should fail to fold")
	}
	if bag.Len() == 0 {
		t.Fatal("expected a diagnostic for negative-base exponentiation")
	}
}

func TestEvalDivisionByConstantZero(t *testing.T) {
	bag := diag.NewBag()
	_, ok := Eval(bin("/", intLit("10"), intLit("0")), nil, bag)
	if ok {
		t.Fatal("division by a constant zero should not fold to a value")
	}
	found := false
	for _, d := range bag.Sorted() {
		if d.Code == diag.WRuntimeDivisionByConstantZero {
			found = true
		}
	}
	if !found {
		t.Fatal("expected WRuntimeDivisionByConstantZero diagnostic")
	}
}

func TestEvalHexLiteral(t *testing.T) {
	bag := diag.NewBag()
	v, ok := Eval(&ast.IntLit{Text: "0xff", Hex: true}, nil, bag)
	got := mustInt(t, v, ok)
	if got.Cmp(big.NewInt(255)) != 0 {
		t.Fatalf("0xff folded to %s, want 255", got)
	}
}

func TestEvalComparisonAndLogical(t *testing.T) {
	bag := diag.NewBag()
	v, ok := Eval(&ast.BinaryExpr{
		Op:   "&&",
		Left: bin("<", intLit("1"), intLit("2")),
		Right: bin(">=", intLit("5"), intLit("5")),
	}, nil, bag)
	if !ok {
		t.Fatal("expected successful fold")
	}
	if v.Kind != VBool || !v.Bool {
		t.Fatalf("(1<2) && (5>=5) = %+v, want true", v)
	}
}

func TestEvalIdentLooksUpEnv(t *testing.T) {
	bag := diag.NewBag()
	env := Env{"MAX": IntValue(big.NewInt(100))}
	v, ok := Eval(bin("+", &ast.Ident{Name: "MAX"}, intLit("1")), env, bag)
	got := mustInt(t, v, ok)
	if got.Cmp(big.NewInt(101)) != 0 {
		t.Fatalf("MAX + 1 = %s, want 101", got)
	}
}

func TestEvalUnknownIdentFails(t *testing.T) {
	bag := diag.NewBag()
	_, ok := Eval(&ast.Ident{Name: "unknown"}, nil, bag)
	if ok {
		t.Fatal("unresolvable identifier should not fold")
	}
	if bag.Len() == 0 {
		t.Fatal("expected a diagnostic for unresolvable identifier")
	}
}

func TestTruncateUnsignedWraps(t *testing.T) {
	v := IntValue(big.NewInt(300))
	got := Truncate(v, types.Uint(8))
	if got.Cmp(big.NewInt(300-256)) != 0 {
		t.Fatalf("300 truncated to uint8 = %s, want 44", got)
	}
}

func TestTruncateSignedWraps(t *testing.T) {
	v := IntValue(big.NewInt(200))
	got := Truncate(v, types.Int(8))
	if got.Cmp(big.NewInt(200-256)) != 0 {
		t.Fatalf("200 truncated to int8 = %s, want -56", got)
	}
}

func TestFitsLiteralType(t *testing.T) {
	if !FitsLiteralType(IntValue(big.NewInt(255)), types.Uint(8)) {
		t.Fatal("255 should fit in uint8")
	}
	if FitsLiteralType(IntValue(big.NewInt(256)), types.Uint(8)) {
		t.Fatal("256 should not fit in uint8")
	}
	if FitsLiteralType(IntValue(big.NewInt(-1)), types.Uint(8)) {
		t.Fatal("-1 should not fit in uint8")
	}
	if !FitsLiteralType(IntValue(big.NewInt(-128)), types.Int(8)) {
		t.Fatal("-128 should fit in int8")
	}
	if FitsLiteralType(IntValue(big.NewInt(-129)), types.Int(8)) {
		t.Fatal("-129 should not fit in int8")
	}
}

func TestEvalUnitLiteral(t *testing.T) {
	bag := diag.NewBag()
	v, ok := Eval(&ast.UnitLit{Number: intLit("2"), Unit: "gwei"}, nil, bag)
	got := mustInt(t, v, ok)
	if got.Cmp(big.NewInt(2_000_000_000)) != 0 {
		t.Fatalf("2 gwei folded to %s, want 2000000000", got)
	}
}
