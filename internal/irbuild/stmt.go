package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// errorStringSelector/panicSelector are the fixed selectors spec 4.5's
// try/catch dispatch matches against: `Error(string)` and `Panic(uint256)`
// keep the same four bytes on every target, since callers encode them the
// same way regardless of the dialect the call itself used.
var (
	errorStringSelector = []byte{0x08, 0xc3, 0x79, 0xa0}
	panicSelector       = []byte{0x4e, 0x48, 0x7b, 0x71}
)

func (fb *funcBuilder) lowerBlock(b *ast.Block) {
	for _, s := range b.Stmts {
		fb.lowerStmt(s)
	}
}

func (fb *funcBuilder) lowerStmt(s ast.Stmt) {
	if fb.cur.Term != nil {
		return // unreachable: cur already left via an earlier return/revert/break/continue
	}
	switch x := s.(type) {
	case *ast.Block:
		fb.lowerBlock(x)
	case *ast.VarDeclStmt:
		fb.lowerVarDeclStmt(x)
	case *ast.ExprStmt:
		fb.lowerExpr(x.X)
	case *ast.IfStmt:
		fb.lowerIfStmt(x)
	case *ast.WhileStmt:
		fb.lowerWhileStmt(x)
	case *ast.DoWhileStmt:
		fb.lowerDoWhileStmt(x)
	case *ast.ForStmt:
		fb.lowerForStmt(x)
	case *ast.ReturnStmt:
		fb.lowerReturnStmt(x)
	case *ast.BreakStmt:
		if n := len(fb.breakTargets); n > 0 {
			fb.terminate(&ir.Branch{Target: fb.breakTargets[n-1]})
		}
	case *ast.ContinueStmt:
		if n := len(fb.continueTargets); n > 0 {
			fb.terminate(&ir.Branch{Target: fb.continueTargets[n-1]})
		}
	case *ast.RevertStmt:
		fb.lowerRevertStmt(x)
	case *ast.EmitStmt:
		fb.lowerEmitStmt(x)
	case *ast.TryStmt:
		fb.lowerTryStmt(x)
	case *ast.UncheckedStmt:
		fb.uncheckedDepth++
		fb.lowerBlock(x.Body)
		fb.uncheckedDepth--
	case *ast.AssemblyStmt:
		fb.lowerAssemblyStmt(x)
	}
}

func (fb *funcBuilder) lowerVarDeclStmt(s *ast.VarDeclStmt) {
	var inits []ast.Expr
	if tup, ok := s.Init.(*ast.TupleExpr); ok && len(s.Names) > 1 {
		inits = tup.Elems
	} else {
		inits = []ast.Expr{s.Init}
	}
	for i, name := range s.Names {
		if name == "" {
			continue // an omitted destructuring slot, e.g. `(, uint b) = f();`
		}
		var declType *types.Type
		if i < len(s.Types) && s.Types[i] != nil {
			if t, ok := fb.b.resolveTypeExpr(s.Types[i]); ok {
				declType = t
			}
		}
		loc := ast.LocDefault
		if i < len(s.Locs) {
			loc = s.Locs[i]
		}
		var v ir.ValueID
		var initType *types.Type
		if i < len(inits) && inits[i] != nil {
			var ok bool
			v, initType, _, ok = fb.lowerExpr(inits[i])
			if !ok {
				v = fb.newValue()
			}
		} else {
			v = fb.newValue()
		}
		if declType == nil {
			declType = initType
		}
		if declType == nil {
			declType = types.Uint(256)
		}
		fb.locals[name] = &localVar{value: v, typ: declType, loc: loc}
	}
}

func (fb *funcBuilder) lowerIfStmt(x *ast.IfStmt) {
	cond, _, _, ok := fb.lowerExpr(x.Cond)
	if !ok {
		return
	}
	thenBlock := fb.newBlock()
	joinBlock := fb.newBlock()
	if x.Else != nil {
		elseBlock := fb.newBlock()
		fb.cur.Term = &ir.CondBranch{Cond: cond, Then: thenBlock.ID, Else: elseBlock.ID}

		fb.cur = thenBlock
		fb.lowerStmt(x.Then)
		fb.terminate(&ir.Branch{Target: joinBlock.ID})

		fb.cur = elseBlock
		fb.lowerStmt(x.Else)
		fb.terminate(&ir.Branch{Target: joinBlock.ID})
	} else {
		fb.cur.Term = &ir.CondBranch{Cond: cond, Then: thenBlock.ID, Else: joinBlock.ID}

		fb.cur = thenBlock
		fb.lowerStmt(x.Then)
		fb.terminate(&ir.Branch{Target: joinBlock.ID})
	}
	fb.cur = joinBlock
}

func (fb *funcBuilder) lowerWhileStmt(x *ast.WhileStmt) {
	headBlock := fb.newBlock()
	bodyBlock := fb.newBlock()
	exitBlock := fb.newBlock()
	fb.terminate(&ir.Branch{Target: headBlock.ID})

	fb.cur = headBlock
	cond, _, _, ok := fb.lowerExpr(x.Cond)
	if !ok {
		cond = 0
	}
	fb.cur.Term = &ir.CondBranch{Cond: cond, Then: bodyBlock.ID, Else: exitBlock.ID}

	fb.breakTargets = append(fb.breakTargets, exitBlock.ID)
	fb.continueTargets = append(fb.continueTargets, headBlock.ID)
	fb.cur = bodyBlock
	fb.lowerStmt(x.Body)
	fb.terminate(&ir.Branch{Target: headBlock.ID})
	fb.breakTargets = fb.breakTargets[:len(fb.breakTargets)-1]
	fb.continueTargets = fb.continueTargets[:len(fb.continueTargets)-1]

	fb.cur = exitBlock
}

func (fb *funcBuilder) lowerDoWhileStmt(x *ast.DoWhileStmt) {
	bodyBlock := fb.newBlock()
	condBlock := fb.newBlock()
	exitBlock := fb.newBlock()
	fb.terminate(&ir.Branch{Target: bodyBlock.ID})

	fb.breakTargets = append(fb.breakTargets, exitBlock.ID)
	fb.continueTargets = append(fb.continueTargets, condBlock.ID)
	fb.cur = bodyBlock
	fb.lowerStmt(x.Body)
	fb.terminate(&ir.Branch{Target: condBlock.ID})
	fb.breakTargets = fb.breakTargets[:len(fb.breakTargets)-1]
	fb.continueTargets = fb.continueTargets[:len(fb.continueTargets)-1]

	fb.cur = condBlock
	cond, _, _, ok := fb.lowerExpr(x.Cond)
	if !ok {
		cond = 0
	}
	fb.cur.Term = &ir.CondBranch{Cond: cond, Then: bodyBlock.ID, Else: exitBlock.ID}

	fb.cur = exitBlock
}

func (fb *funcBuilder) lowerForStmt(x *ast.ForStmt) {
	if x.Init != nil {
		fb.lowerStmt(x.Init)
	}
	headBlock := fb.newBlock()
	bodyBlock := fb.newBlock()
	postBlock := fb.newBlock()
	exitBlock := fb.newBlock()
	fb.terminate(&ir.Branch{Target: headBlock.ID})

	fb.cur = headBlock
	if x.Cond != nil {
		cond, _, _, ok := fb.lowerExpr(x.Cond)
		if !ok {
			cond = 0
		}
		fb.cur.Term = &ir.CondBranch{Cond: cond, Then: bodyBlock.ID, Else: exitBlock.ID}
	} else {
		fb.cur.Term = &ir.Branch{Target: bodyBlock.ID}
	}

	fb.breakTargets = append(fb.breakTargets, exitBlock.ID)
	fb.continueTargets = append(fb.continueTargets, postBlock.ID)
	fb.cur = bodyBlock
	fb.lowerStmt(x.Body)
	fb.terminate(&ir.Branch{Target: postBlock.ID})
	fb.breakTargets = fb.breakTargets[:len(fb.breakTargets)-1]
	fb.continueTargets = fb.continueTargets[:len(fb.continueTargets)-1]

	fb.cur = postBlock
	if x.Post != nil {
		fb.lowerStmt(x.Post)
	}
	fb.terminate(&ir.Branch{Target: headBlock.ID})

	fb.cur = exitBlock
}

func (fb *funcBuilder) lowerReturnStmt(x *ast.ReturnStmt) {
	values := make([]ir.ValueID, 0, len(x.Values))
	for _, e := range x.Values {
		if v, _, _, ok := fb.lowerExpr(e); ok {
			values = append(values, v)
		}
	}
	fb.terminate(&ir.Return{Values: values})
}

// lowerRevertStmt encodes a bare `revert("msg")` under the Error(string)
// selector; for a named custom error the Encode's Selector is left empty,
// and no later pass in this module sets it.
func (fb *funcBuilder) lowerRevertStmt(s *ast.RevertStmt) {
	args := make([]ir.ValueID, 0, len(s.Args))
	for _, a := range s.Args {
		if v, _, _, ok := fb.lowerExpr(a); ok {
			args = append(args, v)
		}
	}
	var selector []byte
	if s.Error == "" {
		selector = errorStringSelector
	}
	encoded := fb.newValue()
	fb.emit(&ir.Encode{
		Base:     ir.Base{Result: encoded, Type: types.DynamicBytes(), Pos: pos(s.Range)},
		Dialect:  fb.b.Target.DefaultDialect,
		Selector: selector,
		Args:     args,
	})
	fb.terminate(&ir.Revert{Data: encoded})
}

// lowerEmitStmt lowers `emit E(args)` (spec 4.5): the first topic is the
// event's signature hash unless it is declared anonymous, and T3 ignores
// `indexed` entirely, putting every field into the data log.
func (fb *funcBuilder) lowerEmitStmt(s *ast.EmitStmt) {
	var ed *ast.EventDecl
	if fb.contract != nil {
		for _, e := range fb.contract.Decl.Events {
			if e.Name == s.Event {
				ed = e
				break
			}
		}
	}
	args := make([]ir.ValueID, 0, len(s.Args))
	for _, a := range s.Args {
		if v, _, _, ok := fb.lowerExpr(a); ok {
			args = append(args, v)
		}
	}

	anonymous := ed != nil && ed.Anonymous
	var topics, data []ir.ValueID
	if !anonymous {
		sig := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: sig, Type: types.BytesN(32), Pos: pos(s.Range)}, Name: "event_topic0"})
		topics = append(topics, sig)
	}
	onT3 := fb.b.Target != nil && fb.b.Target.Name == target.T3BoundedLedger
	for i, v := range args {
		indexed := ed != nil && i < len(ed.Fields) && ed.Fields[i].Indexed
		if indexed && !onT3 {
			topics = append(topics, v)
		} else {
			data = append(data, v)
		}
	}
	fb.emit(&ir.Emit{Base: ir.Base{Pos: pos(s.Range)}, Event: s.Event, Anonymous: anonymous, Topics: topics, Data: data})
}

// lowerTryStmt splits the current block into a success path (the call's
// return value bound to ReturnsDecl) and a failure path that dispatches to
// matching catch clauses by the error payload's selector (spec 4.5).
func (fb *funcBuilder) lowerTryStmt(x *ast.TryStmt) {
	v, t, _, callOK := fb.lowerExpr(x.CallExpr)
	successBlock := fb.newBlock()
	failBlock := fb.newBlock()
	joinBlock := fb.newBlock()

	cond := fb.newValue()
	fb.emit(&ir.Builtin{Base: ir.Base{Result: cond, Type: types.Bool(), Pos: pos(x.Range)}, Name: "call_succeeded", Args: []ir.ValueID{v}})
	fb.cur.Term = &ir.CondBranch{Cond: cond, Then: successBlock.ID, Else: failBlock.ID}

	fb.cur = successBlock
	if callOK && len(x.ReturnsDecl) > 0 {
		fb.locals[x.ReturnsDecl[0].Name] = &localVar{value: v, typ: t, loc: ast.LocDefault}
	}
	fb.lowerBlock(x.Body)
	fb.terminate(&ir.Branch{Target: joinBlock.ID})

	fb.cur = failBlock
	errData := fb.newValue()
	fb.emit(&ir.Builtin{Base: ir.Base{Result: errData, Type: types.DynamicBytes(), Pos: pos(x.Range)}, Name: "call_error_data", Args: []ir.ValueID{v}})
	fb.lowerCatches(x.Catches, errData, joinBlock.ID, x.Range)

	fb.cur = joinBlock
}

func (fb *funcBuilder) lowerCatches(catches []ast.CatchClause, errData ir.ValueID, joinID ir.BlockID, r ast.Range) {
	for _, c := range catches {
		if c.Name == "" {
			if len(c.Params) > 0 {
				fb.locals[c.Params[0].Name] = &localVar{value: errData, typ: types.DynamicBytes(), loc: ast.LocMemory}
			}
			fb.lowerBlock(c.Body)
			fb.terminate(&ir.Branch{Target: joinID})
			return
		}

		sel := errorStringSelector
		if c.Name == "Panic" {
			sel = panicSelector
		}
		selConst := fb.newValue()
		fb.emit(&ir.ConstBytes{Base: ir.Base{Result: selConst, Type: types.BytesN(4), Pos: pos(r)}, Value: sel})
		matched := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: matched, Type: types.Bool(), Pos: pos(r)}, Name: "selector_matches", Args: []ir.ValueID{errData, selConst}})

		matchBlock := fb.newBlock()
		nextBlock := fb.newBlock()
		fb.cur.Term = &ir.CondBranch{Cond: matched, Then: matchBlock.ID, Else: nextBlock.ID}

		fb.cur = matchBlock
		if len(c.Params) > 0 {
			t, tok := fb.b.resolveTypeExpr(c.Params[0].Type)
			if !tok {
				t = types.Uint(256)
			}
			v := fb.newValue()
			fb.emit(&ir.Decode{Base: ir.Base{Result: v, Type: t, Pos: pos(r)}, Dialect: fb.b.Target.DefaultDialect, Bytes: errData, Types: []*types.Type{t}})
			fb.locals[c.Params[0].Name] = &localVar{value: v, typ: t, loc: ast.LocMemory}
		}
		fb.lowerBlock(c.Body)
		fb.terminate(&ir.Branch{Target: joinID})

		fb.cur = nextBlock
	}
	// No clause matched (no catch-all was given): propagate the original
	// failure rather than falling through silently.
	fb.terminate(&ir.Revert{Data: errData})
}

// lowerAssemblyStmt treats an inline-assembly block as an opaque side
// effect rather than decomposing its Yul operations: the block's distinct
// grammar (local/storage/calldata-reference rules for `.slot`/`.offset`/
// `.length`/`.selector`/`.address`, spec 4.5) is not parsed here. The
// statement's Source (the parser's "<yul>" placeholder, not the block's
// text) is carried into the IR as a single builtin call so its presence
// is still visible to later passes.
func (fb *funcBuilder) lowerAssemblyStmt(x *ast.AssemblyStmt) {
	src := fb.newValue()
	fb.emit(&ir.ConstBytes{Base: ir.Base{Result: src, Type: types.DynamicBytes(), Pos: pos(x.Range)}, Value: []byte(x.Source)})
	fb.emit(&ir.Builtin{Base: ir.Base{Pos: pos(x.Range)}, Name: "inline_assembly", Args: []ir.ValueID{src}})
}
