package types

import (
	"testing"

	"synnergy-network/synthesis/internal/ast"
)

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func block(stmts ...ast.Stmt) *ast.Block { return &ast.Block{Stmts: stmts} }

func TestInferMutabilityPureBody(t *testing.T) {
	stateVars := map[string]bool{"balance": true}
	body := block(&ast.ReturnStmt{Values: []ast.Expr{
		&ast.BinaryExpr{Op: "+", Left: ident("a"), Right: ident("b")},
	}})
	f := InferMutability(body, stateVars)
	if f.Reads || f.Writes {
		t.Fatalf("pure body misclassified: %+v", f)
	}
}

func TestInferMutabilityView(t *testing.T) {
	stateVars := map[string]bool{"balance": true}
	body := block(&ast.ReturnStmt{Values: []ast.Expr{ident("balance")}})
	f := InferMutability(body, stateVars)
	if !f.Reads || f.Writes {
		t.Fatalf("view body misclassified: %+v", f)
	}
}

func TestInferMutabilityNonpayableAssignment(t *testing.T) {
	stateVars := map[string]bool{"balance": true}
	body := block(&ast.ExprStmt{X: &ast.AssignExpr{
		Op:  "=",
		LHS: ident("balance"),
		RHS: &ast.IntLit{Text: "1"},
	}})
	f := InferMutability(body, stateVars)
	if !f.Writes {
		t.Fatalf("plain assignment to a state variable should be a write: %+v", f)
	}
	if f.Reads {
		t.Fatalf("a plain '=' assignment does not also read the old value: %+v", f)
	}
}

func TestInferMutabilityCompoundAssignmentAlsoReads(t *testing.T) {
	stateVars := map[string]bool{"balance": true}
	body := block(&ast.ExprStmt{X: &ast.AssignExpr{
		Op:  "+=",
		LHS: ident("balance"),
		RHS: &ast.IntLit{Text: "1"},
	}})
	f := InferMutability(body, stateVars)
	if !f.Writes || !f.Reads {
		t.Fatalf("compound assignment should both read and write: %+v", f)
	}
}

func TestInferMutabilityIncrementIsWrite(t *testing.T) {
	stateVars := map[string]bool{"counter": true}
	body := block(&ast.ExprStmt{X: &ast.UnaryExpr{Op: "++", Postfix: true, X: ident("counter")}})
	f := InferMutability(body, stateVars)
	if !f.Writes {
		t.Fatalf("increment of a state variable should be a write: %+v", f)
	}
}

func TestInferMutabilityDetectsMsgValue(t *testing.T) {
	stateVars := map[string]bool{}
	body := block(&ast.ExprStmt{X: &ast.AssignExpr{
		Op:  "=",
		LHS: ident("x"),
		RHS: &ast.MemberExpr{X: ident("msg"), Name: "value"},
	}})
	f := InferMutability(body, stateVars)
	if !f.ReceivesValue {
		t.Fatalf("reading msg.value should set ReceivesValue: %+v", f)
	}
}

func TestInferMutabilityIgnoresLocals(t *testing.T) {
	stateVars := map[string]bool{"balance": true}
	body := block(&ast.VarDeclStmt{
		Names: []string{"x"},
		Init:  ident("y"),
	})
	f := InferMutability(body, stateVars)
	if f.Reads || f.Writes {
		t.Fatalf("references to non-state identifiers should not register: %+v", f)
	}
}
