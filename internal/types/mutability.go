package types

import "synnergy-network/synthesis/internal/ast"

// MutabilityFinding is one observed storage access used to check a
// function's declared mutability against its body (spec 4.3's
// mutability-inference state machine, property law 4).
type MutabilityFinding struct {
	Reads         bool
	Writes        bool
	ReceivesValue bool // body reads msg.value
}

// InferMutability walks body conservatively, treating any Ident appearing
// in stateVars as a storage access: a plain read, or a write if it is the
// target of an assignment, increment/decrement, or the base of an index/
// member expression on the left-hand side of an assignment. The caller
// (internal/irbuild's checkMutability, from the contract's storage layout)
// supplies the full set of storage variable names visible to this
// function, including inherited ones.
func InferMutability(body *ast.Block, stateVars map[string]bool) MutabilityFinding {
	var f MutabilityFinding
	if body == nil {
		return f
	}
	var walkExpr func(e ast.Expr, asLHS bool)
	walkExpr = func(e ast.Expr, asLHS bool) {
		switch v := e.(type) {
		case nil:
			return
		case *ast.Ident:
			if stateVars[v.Name] {
				if asLHS {
					f.Writes = true
				} else {
					f.Reads = true
				}
			}
		case *ast.MemberExpr:
			if id, ok := v.X.(*ast.Ident); ok && id.Name == "msg" && v.Name == "value" {
				f.ReceivesValue = true
			}
			walkExpr(v.X, asLHS)
		case *ast.IndexExpr:
			walkExpr(v.X, asLHS)
			walkExpr(v.Index, false)
		case *ast.UnaryExpr:
			if v.Op == "++" || v.Op == "--" {
				walkExpr(v.X, true)
			} else {
				walkExpr(v.X, false)
			}
		case *ast.BinaryExpr:
			walkExpr(v.Left, false)
			walkExpr(v.Right, false)
		case *ast.AssignExpr:
			walkExpr(v.LHS, true)
			if v.Op != "=" {
				walkExpr(v.LHS, false) // compound assignment also reads
			}
			walkExpr(v.RHS, false)
		case *ast.CallExpr:
			walkExpr(v.Callee, false)
			for _, a := range v.Args {
				walkExpr(a.Expr, false)
			}
		case *ast.NewExpr:
			for _, a := range v.Args {
				walkExpr(a.Expr, false)
			}
		case *ast.TupleExpr:
			for _, el := range v.Elems {
				walkExpr(el, asLHS)
			}
		case *ast.ConditionalExpr:
			walkExpr(v.Cond, false)
			walkExpr(v.Then, asLHS)
			walkExpr(v.Else, asLHS)
		case *ast.CastExpr:
			walkExpr(v.X, false)
		}
	}
	var walkStmt func(s ast.Stmt)
	walkStmt = func(s ast.Stmt) {
		switch v := s.(type) {
		case nil:
			return
		case *ast.Block:
			for _, st := range v.Stmts {
				walkStmt(st)
			}
		case *ast.VarDeclStmt:
			walkExpr(v.Init, false)
		case *ast.ExprStmt:
			walkExpr(v.X, false)
		case *ast.IfStmt:
			walkExpr(v.Cond, false)
			walkStmt(v.Then)
			walkStmt(v.Else)
		case *ast.WhileStmt:
			walkExpr(v.Cond, false)
			walkStmt(v.Body)
		case *ast.DoWhileStmt:
			walkStmt(v.Body)
			walkExpr(v.Cond, false)
		case *ast.ForStmt:
			walkStmt(v.Init)
			walkExpr(v.Cond, false)
			walkStmt(v.Post)
			walkStmt(v.Body)
		case *ast.ReturnStmt:
			for _, e := range v.Values {
				walkExpr(e, false)
			}
		case *ast.RevertStmt:
			for _, e := range v.Args {
				walkExpr(e, false)
			}
		case *ast.EmitStmt:
			for _, e := range v.Args {
				walkExpr(e, false)
			}
		case *ast.TryStmt:
			walkExpr(v.CallExpr, false)
			walkStmt(v.Body)
			for _, c := range v.Catches {
				walkStmt(c.Body)
			}
		case *ast.UncheckedStmt:
			walkStmt(v.Body)
		}
	}
	walkStmt(body)
	return f
}
