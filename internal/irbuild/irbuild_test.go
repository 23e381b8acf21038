package irbuild

import (
	"testing"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/layout"
	"synnergy-network/synthesis/internal/resolver"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

func uint256TypeExpr() ast.TypeExpr { return &ast.NamedTypeExpr{Name: "uint256"} }

// counterContract builds, by direct AST construction (no lexer/parser
// involved), a one-state-variable contract with a single function:
//
//	uint256 count;
//	function increment(uint256 n) public returns (uint256) {
//	    count = count + n;
//	    if (n > 0) { return count; }
//	    return 0;
//	}
func counterContract() (*resolver.ContractInfo, *layout.Layout) {
	countIdent := &ast.Ident{Name: "count"}
	nIdent := &ast.Ident{Name: "n"}
	assign := &ast.ExprStmt{X: &ast.AssignExpr{
		Op:  "=",
		LHS: countIdent,
		RHS: &ast.BinaryExpr{Op: "+", Left: countIdent, Right: nIdent},
	}}
	ifStmt := &ast.IfStmt{
		Cond: &ast.BinaryExpr{Op: ">", Left: nIdent, Right: &ast.IntLit{Text: "0"}},
		Then: &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Values: []ast.Expr{countIdent}}}},
	}
	retZero := &ast.ReturnStmt{Values: []ast.Expr{&ast.IntLit{Text: "0"}}}

	fd := &ast.FunctionDecl{
		Name:       "increment",
		Visibility: ast.VisPublic,
		Params:     []ast.Param{{Name: "n", Type: uint256TypeExpr()}},
		Returns:    []ast.Param{{Name: "", Type: uint256TypeExpr()}},
		Body:       &ast.Block{Stmts: []ast.Stmt{assign, ifStmt, retZero}},
	}

	decl := &ast.ContractDecl{
		Name:      "Counter",
		StateVars: []*ast.StateVarDecl{{Name: "count", Type: uint256TypeExpr()}},
		Functions: []*ast.FunctionDecl{fd},
	}
	ci := &resolver.ContractInfo{Decl: decl}

	lay := layout.Assign([]layout.ContractVars{{
		Contract: "Counter",
		Vars:     []layout.NamedVar{{Name: "count", Type: types.Uint(256)}},
	}})
	return ci, lay
}

func newTestBuilder() *Builder {
	return NewBuilder(target.For(target.T1WasmContracts), diag.NewBag(), NewTypeEnv())
}

func TestLowerFunctionBuildsParamsAndStorageAccess(t *testing.T) {
	ci, lay := counterContract()
	b := newTestBuilder()
	fn := b.lowerFunction(ci, lay, ci.Decl.Functions[0])

	if len(fn.Params) != 1 || fn.Params[0].Name != "n" {
		t.Fatalf("Params = %+v, want one param named n", fn.Params)
	}
	if fn.Params[0].Type.Kind != types.KUint {
		t.Fatalf("param type = %v, want uint", fn.Params[0].Type.Kind)
	}
	if len(fn.Returns) != 1 {
		t.Fatalf("Returns = %+v, want one uint256 return", fn.Returns)
	}
	if len(fn.Blocks) < 2 {
		t.Fatalf("expected at least an entry block plus the if's branch blocks, got %d", len(fn.Blocks))
	}

	entry := fn.Blocks[0]
	var sawStorageLoad, sawStorageStore bool
	for _, instr := range entry.Instr {
		switch ld := instr.(type) {
		case *ir.Load:
			if ld.From == ir.LocStorage {
				sawStorageLoad = true
			}
		case *ir.Store:
			if ld.To == ir.LocStorage {
				sawStorageStore = true
			}
		}
	}
	if !sawStorageLoad {
		t.Error("expected a storage Load for the initial read of `count`")
	}
	if !sawStorageStore {
		t.Error("expected a storage Store for `count = count + n`")
	}
	if entry.Term == nil {
		t.Fatal("entry block should end with the if-statement's CondBranch")
	}
}

func TestLowerContractProducesOneFunctionPerBody(t *testing.T) {
	ci, lay := counterContract()
	b := newTestBuilder()
	m := b.LowerContract(ci, lay)

	if m.Contract != "Counter" {
		t.Fatalf("Module.Contract = %q, want Counter", m.Contract)
	}
	if len(m.Functions) != 1 || m.Functions[0].Name != "increment" {
		t.Fatalf("Functions = %+v, want exactly [increment]", m.Functions)
	}
}

func TestEveryBlockHasATerminator(t *testing.T) {
	ci, lay := counterContract()
	b := newTestBuilder()
	fn := b.lowerFunction(ci, lay, ci.Decl.Functions[0])

	for _, blk := range fn.Blocks {
		if blk.Term == nil {
			t.Errorf("block %d has no terminator", blk.ID)
		}
	}
}

func TestShortCircuitAndEmitsPhi(t *testing.T) {
	fb := &funcBuilder{
		b:      newTestBuilder(),
		fn:     ir.NewFunction("f"),
		locals: map[string]*localVar{},
	}
	fb.cur = fb.fn.Blocks[0]
	fb.locals["a"] = &localVar{value: 0, typ: types.Bool()}
	fb.locals["b"] = &localVar{value: 1, typ: types.Bool()}
	fb.fn.NextValue = 2

	x := &ast.BinaryExpr{Op: "&&", Left: &ast.Ident{Name: "a"}, Right: &ast.Ident{Name: "b"}}
	_, rt, _, ok := fb.lowerExpr(x)
	if !ok {
		t.Fatal("lowering && should succeed")
	}
	if rt.Kind != types.KBool {
		t.Fatalf("result type = %v, want bool", rt.Kind)
	}
	if len(fb.fn.Blocks) != 3 {
		t.Fatalf("expected 3 blocks (entry, rhs, join), got %d", len(fb.fn.Blocks))
	}
	join := fb.fn.Blocks[2]
	if len(join.Instr) != 1 {
		t.Fatalf("join block should hold exactly the merging Phi, got %d instrs", len(join.Instr))
	}
	if _, ok := join.Instr[0].(*ir.Phi); !ok {
		t.Fatalf("join block's instruction = %T, want *ir.Phi", join.Instr[0])
	}
}

func TestBuiltinDispatchLooksUpByName(t *testing.T) {
	spec, ok := lookupBuiltin("keccak256")
	if !ok {
		t.Fatal("keccak256 should be registered")
	}
	if spec.Targets != nil && !spec.Targets[target.T1WasmContracts] {
		t.Error("keccak256 should be available on T1")
	}
	if _, ok := lookupBuiltin("not_a_real_builtin"); ok {
		t.Error("unregistered name should not be found")
	}
}

func TestRegisterPanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Register should panic on a duplicate name")
		}
	}()
	Register(BuiltinSpec{Name: "keccak256"})
}

func TestLowerMemberRecognisesMsgSender(t *testing.T) {
	fb := &funcBuilder{
		b:      newTestBuilder(),
		fn:     ir.NewFunction("f"),
		locals: map[string]*localVar{},
	}
	fb.cur = fb.fn.Blocks[0]

	x := &ast.MemberExpr{X: &ast.Ident{Name: "msg"}, Name: "sender"}
	_, rt, _, ok := fb.lowerExpr(x)
	if !ok {
		t.Fatal("msg.sender should lower successfully")
	}
	if rt.Kind != types.KAddress {
		t.Fatalf("msg.sender type = %v, want address", rt.Kind)
	}
	var sawBuiltin bool
	for _, instr := range fb.cur.Instr {
		if bi, ok := instr.(*ir.Builtin); ok && bi.Name == "msg_sender" {
			sawBuiltin = true
		}
	}
	if !sawBuiltin {
		t.Error("expected a msg_sender builtin to be emitted")
	}
}

func TestLowerMemberRejectsTxOriginOnEveryTarget(t *testing.T) {
	for _, tn := range []target.Name{target.T1WasmContracts, target.T2SBF, target.T3BoundedLedger} {
		b := NewBuilder(target.For(tn), diag.NewBag(), NewTypeEnv())
		fb := &funcBuilder{b: b, fn: ir.NewFunction("f"), locals: map[string]*localVar{}}
		fb.cur = fb.fn.Blocks[0]

		x := &ast.MemberExpr{X: &ast.Ident{Name: "tx"}, Name: "origin"}
		_, _, _, ok := fb.lowerExpr(x)
		if ok {
			t.Fatalf("%v: tx.origin should fail to lower, spec 4.5 marks it absent on every target", tn)
		}
		found := false
		for _, d := range b.Diags.Sorted() {
			if d.Code == diag.ETargetFeatureUnavailable {
				found = true
			}
		}
		if !found {
			t.Fatalf("%v: expected an ETargetFeatureUnavailable diagnostic for tx.origin", tn)
		}
	}
}

func TestCheckMutabilityFlagsPureFunctionThatWritesStorage(t *testing.T) {
	ci, lay := counterContract()
	ci.Decl.Functions[0].Mutability = ast.MutPure // increment writes `count`
	b := newTestBuilder()
	b.lowerFunction(ci, lay, ci.Decl.Functions[0])

	var found bool
	for _, d := range b.Diags.Sorted() {
		if d.Code == diag.EMutDeclaredPureButReadsOrWrites {
			found = true
		}
	}
	if !found {
		t.Fatal("expected EMutDeclaredPureButReadsOrWrites for a pure function that writes storage")
	}
}

func TestCheckMutabilityAcceptsCorrectlyDeclaredFunction(t *testing.T) {
	ci, lay := counterContract() // increment is nonpayable and writes storage
	b := newTestBuilder()
	b.lowerFunction(ci, lay, ci.Decl.Functions[0])

	for _, d := range b.Diags.Sorted() {
		if d.Severity == diag.Error {
			t.Fatalf("unexpected error for a correctly declared function: %v", d)
		}
	}
}

func TestLowerAbiEncodePackedEmitsPackedEncode(t *testing.T) {
	fb := &funcBuilder{
		b:      newTestBuilder(),
		fn:     ir.NewFunction("f"),
		locals: map[string]*localVar{},
	}
	fb.cur = fb.fn.Blocks[0]
	fb.locals["n"] = &localVar{value: 0, typ: types.Uint(256)}
	fb.fn.NextValue = 1

	x := &ast.CallExpr{
		Callee: &ast.MemberExpr{X: &ast.Ident{Name: "abi"}, Name: "encodePacked"},
		Args:   []ast.CallArg{{Expr: &ast.Ident{Name: "n"}}},
	}
	_, rt, _, ok := fb.lowerExpr(x)
	if !ok {
		t.Fatal("abi.encodePacked(n) should lower successfully")
	}
	if rt.Kind != types.KDynamicBytes {
		t.Fatalf("result type = %v, want dynamic bytes", rt.Kind)
	}
	var sawPacked bool
	for _, instr := range fb.cur.Instr {
		if enc, ok := instr.(*ir.Encode); ok && enc.Packed {
			sawPacked = true
		}
	}
	if !sawPacked {
		t.Error("expected a packed Encode instruction")
	}
}

func TestLowerAbiEncodePackedRejectsNestedDynamicArg(t *testing.T) {
	fb := &funcBuilder{
		b:      newTestBuilder(),
		fn:     ir.NewFunction("f"),
		locals: map[string]*localVar{},
	}
	fb.cur = fb.fn.Blocks[0]
	fb.locals["names"] = &localVar{value: 0, typ: types.DynamicArray(types.String())}
	fb.fn.NextValue = 1

	x := &ast.CallExpr{
		Callee: &ast.MemberExpr{X: &ast.Ident{Name: "abi"}, Name: "encodePacked"},
		Args:   []ast.CallArg{{Expr: &ast.Ident{Name: "names"}}},
	}
	_, _, _, ok := fb.lowerExpr(x)
	if ok {
		t.Fatal("abi.encodePacked(string[]) should fail to lower")
	}
	var found bool
	for _, d := range fb.b.Diags.Sorted() {
		if d.Code == diag.ECodecNestedDynamicInPacked {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ECodecNestedDynamicInPacked for a nested-dynamic packed argument")
	}
}

func TestLowerExternalCallDecodesCalleesDeclaredReturnType(t *testing.T) {
	b := newTestBuilder()
	b.Types.Functions["Token"] = map[string][]*types.Type{"isApproved": {types.Bool()}}
	fb := &funcBuilder{b: b, fn: ir.NewFunction("f"), locals: map[string]*localVar{}}
	fb.cur = fb.fn.Blocks[0]
	fb.locals["t"] = &localVar{value: 0, typ: types.ContractRef("Token")}
	fb.fn.NextValue = 1

	x := &ast.CallExpr{Callee: &ast.MemberExpr{X: &ast.Ident{Name: "t"}, Name: "isApproved"}}
	_, rt, _, ok := fb.lowerExpr(x)
	if !ok {
		t.Fatal("t.isApproved() should lower successfully")
	}
	if rt.Kind != types.KBool {
		t.Fatalf("result type = %v, want bool", rt.Kind)
	}
	var decode *ir.Decode
	for _, instr := range fb.cur.Instr {
		if d, ok := instr.(*ir.Decode); ok {
			decode = d
		}
	}
	if decode == nil {
		t.Fatal("expected a Decode instruction")
	}
	if decode.Type.Kind != types.KBool {
		t.Fatalf("Decode.Type = %v, want bool", decode.Type.Kind)
	}
	if len(decode.Types) != 1 || decode.Types[0].Kind != types.KBool {
		t.Fatalf("Decode.Types = %+v, want [bool]", decode.Types)
	}
}

func TestLowerExternalCallFallsBackToUint256ForUnknownCallee(t *testing.T) {
	fb := &funcBuilder{b: newTestBuilder(), fn: ir.NewFunction("f"), locals: map[string]*localVar{}}
	fb.cur = fb.fn.Blocks[0]
	fb.locals["t"] = &localVar{value: 0, typ: types.Address()}
	fb.fn.NextValue = 1

	x := &ast.CallExpr{Callee: &ast.MemberExpr{X: &ast.Ident{Name: "t"}, Name: "mystery"}}
	_, rt, _, ok := fb.lowerExpr(x)
	if !ok {
		t.Fatal("external call through an address-typed receiver should still lower")
	}
	if rt.Kind != types.KUint {
		t.Fatalf("result type = %v, want the uint256 fallback", rt.Kind)
	}
}

func TestUncheckedToggleSuppressesOverflowFlag(t *testing.T) {
	fb := &funcBuilder{
		b:      newTestBuilder(),
		fn:     ir.NewFunction("f"),
		locals: map[string]*localVar{},
	}
	fb.cur = fb.fn.Blocks[0]
	fb.locals["x"] = &localVar{value: 0, typ: types.Uint(256)}
	fb.fn.NextValue = 1

	body := &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: &ast.AssignExpr{
		Op:  "+=",
		LHS: &ast.Ident{Name: "x"},
		RHS: &ast.IntLit{Text: "1"},
	}}}}
	fb.lowerStmt(&ast.UncheckedStmt{Body: body})

	var found bool
	for _, instr := range fb.cur.Instr {
		if bo, ok := instr.(*ir.BinOp); ok {
			found = true
			if bo.Overflow {
				t.Error("BinOp inside unchecked{} should have Overflow = false")
			}
		}
	}
	if !found {
		t.Fatal("expected a BinOp to be emitted for x += 1")
	}
}
