package irbuild

import (
	"strings"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/consteval"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/types"
)

// lowerExpr lowers e to a value, returning its resolved type and location.
// The final bool is false when lowering failed (an unresolved name, an
// unencodable call, ...); callers keep processing the enclosing statement
// with a zero placeholder value rather than aborting the whole function,
// matching spec 5's "processing may continue past a diagnostic of severity
// error within a component".
func (fb *funcBuilder) lowerExpr(e ast.Expr) (ir.ValueID, *types.Type, ast.Location, bool) {
	switch x := e.(type) {
	case *ast.BoolLit:
		v := fb.newValue()
		fb.emit(&ir.ConstBool{Base: ir.Base{Result: v, Type: types.Bool(), Pos: pos(x.Range)}, Value: x.Value})
		return v, types.Bool(), ast.LocDefault, true

	case *ast.IntLit:
		return fb.lowerIntLit(x)

	case *ast.StringLit:
		v := fb.newValue()
		fb.emit(&ir.ConstBytes{Base: ir.Base{Result: v, Type: types.String(), Pos: pos(x.Range)}, Value: []byte(x.Value)})
		return v, types.String(), ast.LocDefault, true

	case *ast.HexStringLit:
		v := fb.newValue()
		fb.emit(&ir.ConstBytes{Base: ir.Base{Result: v, Type: types.DynamicBytes(), Pos: pos(x.Range)}, Value: decodeHexDigits(x.HexDigits)})
		return v, types.DynamicBytes(), ast.LocDefault, true

	case *ast.AddressLit:
		v := fb.newValue()
		fb.emit(&ir.ConstBytes{Base: ir.Base{Result: v, Type: types.Address(), Pos: pos(x.Range)}, Value: []byte(x.Text)})
		return v, types.Address(), ast.LocDefault, true

	case *ast.UnitLit:
		return fb.lowerExpr(x.Number) // unit scaling is folded by internal/consteval when constant; non-constant unit use is out of scope for this core

	case *ast.Ident:
		return fb.lowerIdent(x)

	case *ast.ThisExpr:
		v := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: types.Address(), Pos: pos(x.Range)}, Name: "self_address"})
		return v, types.Address(), ast.LocDefault, true

	case *ast.SuperExpr:
		// `super` only has meaning as the receiver of a call; lowerExpr is
		// never asked to materialise it as a value on its own.
		fb.errorf(x.Range, diag.Error, diag.EResUnknownName, "super is only valid as a call target")
		return 0, types.Uint(256), ast.LocDefault, false

	case *ast.BinaryExpr:
		return fb.lowerBinary(x)

	case *ast.UnaryExpr:
		return fb.lowerUnary(x)

	case *ast.AssignExpr:
		return fb.lowerAssign(x)

	case *ast.CallExpr:
		return fb.lowerCall(x)

	case *ast.MemberExpr:
		return fb.lowerMember(x)

	case *ast.IndexExpr:
		return fb.lowerIndex(x)

	case *ast.NewExpr:
		return fb.lowerNew(x)

	case *ast.ConditionalExpr:
		return fb.lowerConditional(x)

	case *ast.CastExpr:
		return fb.lowerCast(x)

	case *ast.TupleExpr:
		// Only the first populated slot is materialised as "the" value;
		// tuple destructuring is handled directly by lowerVarDeclStmt/
		// lowerAssign against the RHS tuple's Elems, which is the only
		// context spec 4.3 allows a tuple expression to appear in.
		for _, el := range x.Elems {
			if el != nil {
				return fb.lowerExpr(el)
			}
		}
		return 0, types.Bool(), ast.LocDefault, false
	}
	return 0, types.Uint(256), ast.LocDefault, false
}

func (fb *funcBuilder) lowerIntLit(x *ast.IntLit) (ir.ValueID, *types.Type, ast.Location, bool) {
	v := fb.newValue()
	t := types.Uint(256)
	c := &ir.ConstInt{Base: ir.Base{Result: v, Type: t, Pos: pos(x.Range)}}
	// Folding into the exact arbitrary-precision magnitude is
	// internal/consteval's job; literals that fit an int64 take the fast
	// Value path and everything else is carried as Big.
	if cv, ok := consteval.Eval(x, consteval.Env{}, fb.b.Diags); ok && cv.Kind == consteval.VInt {
		if cv.Int.IsInt64() {
			c.Value = cv.Int.Int64()
		} else {
			c.Big = cv.Int.Bytes()
		}
	}
	fb.emit(c)
	return v, t, ast.LocDefault, true
}

func decodeHexDigits(s string) []byte {
	out := make([]byte, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		out = append(out, hexByte(s[i], s[i+1]))
	}
	return out
}

func hexByte(hi, lo byte) byte { return hexNibble(hi)<<4 | hexNibble(lo) }

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func (fb *funcBuilder) lowerIdent(x *ast.Ident) (ir.ValueID, *types.Type, ast.Location, bool) {
	if lv, ok := fb.locals[x.Name]; ok {
		return lv.value, lv.typ, lv.loc, true
	}
	if vl, ok := fb.stateVar(x.Name); ok {
		slot := fb.newValue()
		fb.emit(&ir.ConstInt{Base: ir.Base{Result: slot, Type: types.Uint(256), Pos: pos(x.Range)}, Value: int64(vl.Slot)})
		v := fb.newValue()
		fb.emit(&ir.Load{Base: ir.Base{Result: v, Type: vl.Type, Pos: pos(x.Range)}, From: ir.LocStorage, Addr: slot})
		return v, vl.Type, ast.LocStorage, true
	}
	fb.errorf(x.Range, diag.Error, diag.EResUnknownName, "undefined name %q", x.Name)
	return 0, types.Uint(256), ast.LocDefault, false
}

func (fb *funcBuilder) lowerBinary(x *ast.BinaryExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	switch x.Op {
	case "&&", "||":
		return fb.lowerShortCircuit(x)
	}
	lv, lt, _, lok := fb.lowerExpr(x.Left)
	rv, _, _, rok := fb.lowerExpr(x.Right)
	if !lok || !rok {
		return 0, types.Bool(), ast.LocDefault, false
	}
	resultType := lt
	switch x.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		resultType = types.Bool()
	}
	v := fb.newValue()
	fb.emit(&ir.BinOp{
		Base:     ir.Base{Result: v, Type: resultType, Pos: pos(x.Range)},
		Op:       ir.ArithOp(x.Op),
		Left:     lv,
		Right:    rv,
		Overflow: fb.uncheckedDepth == 0,
	})
	return v, resultType, ast.LocDefault, true
}

// lowerShortCircuit lowers `&&`/`||` with real control flow (the right-hand
// side must not execute when short-circuited) rather than as a plain BinOp.
func (fb *funcBuilder) lowerShortCircuit(x *ast.BinaryExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	lv, _, _, lok := fb.lowerExpr(x.Left)
	if !lok {
		return 0, types.Bool(), ast.LocDefault, false
	}
	rhsBlock := fb.newBlock()
	joinBlock := fb.newBlock()
	entry := fb.cur
	if x.Op == "&&" {
		entry.Term = &ir.CondBranch{Cond: lv, Then: rhsBlock.ID, Else: joinBlock.ID}
	} else {
		entry.Term = &ir.CondBranch{Cond: lv, Then: joinBlock.ID, Else: rhsBlock.ID}
	}

	fb.cur = rhsBlock
	rv, _, _, rok := fb.lowerExpr(x.Right)
	if !rok {
		rv = lv
	}
	rhsEnd := fb.cur
	rhsEnd.Term = &ir.Branch{Target: joinBlock.ID}

	fb.cur = joinBlock
	v := fb.newValue()
	fb.emit(&ir.Phi{
		Base:  ir.Base{Result: v, Type: types.Bool(), Pos: pos(x.Range)},
		Edges: []ir.PhiEdge{{Block: entry.ID, Value: lv}, {Block: rhsEnd.ID, Value: rv}},
	})
	return v, types.Bool(), ast.LocDefault, true
}

func (fb *funcBuilder) lowerUnary(x *ast.UnaryExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	if x.Op == "++" || x.Op == "--" {
		return fb.lowerIncDec(x)
	}
	xv, xt, _, ok := fb.lowerExpr(x.X)
	if !ok {
		return 0, types.Bool(), ast.LocDefault, false
	}
	resultType := xt
	if x.Op == "!" {
		resultType = types.Bool()
	}
	v := fb.newValue()
	switch x.Op {
	case "-":
		zero := fb.newValue()
		fb.emit(&ir.ConstInt{Base: ir.Base{Result: zero, Type: xt, Pos: pos(x.Range)}})
		fb.emit(&ir.BinOp{Base: ir.Base{Result: v, Type: xt, Pos: pos(x.Range)}, Op: ir.OpSub, Left: zero, Right: xv, Overflow: fb.uncheckedDepth == 0})
	case "!":
		fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: types.Bool(), Pos: pos(x.Range)}, Name: "logical_not", Args: []ir.ValueID{xv}})
	case "~":
		fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: xt, Pos: pos(x.Range)}, Name: "bitwise_not", Args: []ir.ValueID{xv}})
	default:
		return 0, types.Bool(), ast.LocDefault, false
	}
	return v, resultType, ast.LocDefault, true
}

func (fb *funcBuilder) lowerIncDec(x *ast.UnaryExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	old, xt, loc, ok := fb.lowerExpr(x.X)
	if !ok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	one := fb.newValue()
	fb.emit(&ir.ConstInt{Base: ir.Base{Result: one, Type: xt, Pos: pos(x.Range)}, Value: 1})
	op := ir.OpAdd
	if x.Op == "--" {
		op = ir.OpSub
	}
	updated := fb.newValue()
	fb.emit(&ir.BinOp{Base: ir.Base{Result: updated, Type: xt, Pos: pos(x.Range)}, Op: op, Left: old, Right: one, Overflow: fb.uncheckedDepth == 0})
	fb.storeLValue(x.X, updated, xt, loc)
	if x.Postfix {
		return old, xt, ast.LocDefault, true
	}
	return updated, xt, ast.LocDefault, true
}

func (fb *funcBuilder) lowerAssign(x *ast.AssignExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	if x.Op == "=" {
		rv, rt, _, ok := fb.lowerExpr(x.RHS)
		if !ok {
			return 0, rt, ast.LocDefault, false
		}
		_, lt, lloc, _ := fb.lvalueType(x.LHS)
		fb.storeLValue(x.LHS, rv, lt, lloc)
		return rv, rt, ast.LocDefault, true
	}
	// compound assignment: load, binop, store
	old, lt, lloc, ok := fb.lowerExpr(x.LHS)
	if !ok {
		return 0, lt, ast.LocDefault, false
	}
	rv, _, _, rok := fb.lowerExpr(x.RHS)
	if !rok {
		return 0, lt, ast.LocDefault, false
	}
	opStr := strings.TrimSuffix(x.Op, "=")
	v := fb.newValue()
	fb.emit(&ir.BinOp{Base: ir.Base{Result: v, Type: lt, Pos: pos(x.Range)}, Op: ir.ArithOp(opStr), Left: old, Right: rv, Overflow: fb.uncheckedDepth == 0})
	fb.storeLValue(x.LHS, v, lt, lloc)
	return v, lt, ast.LocDefault, true
}

// lvalueType resolves the static type/location of an assignment target
// without emitting a load, for the "=" case where only the store matters.
func (fb *funcBuilder) lvalueType(e ast.Expr) (ir.ValueID, *types.Type, ast.Location, bool) {
	switch x := e.(type) {
	case *ast.Ident:
		if lv, ok := fb.locals[x.Name]; ok {
			return lv.value, lv.typ, lv.loc, true
		}
		if vl, ok := fb.stateVar(x.Name); ok {
			return 0, vl.Type, ast.LocStorage, true
		}
	}
	return fb.lowerExpr(e)
}

// storeLValue writes val into the location named by target (an Ident
// referring to a local or a storage variable, a MemberExpr field, or an
// IndexExpr element). Reference semantics (spec 4.5): assigning through a
// storage-located local writes through to storage; everything else is a
// value copy into the local slot.
func (fb *funcBuilder) storeLValue(target ast.Expr, val ir.ValueID, t *types.Type, loc ast.Location) {
	switch x := target.(type) {
	case *ast.Ident:
		if lv, ok := fb.locals[x.Name]; ok {
			lv.value = val
			return
		}
		if vl, ok := fb.stateVar(x.Name); ok {
			slot := fb.newValue()
			fb.emit(&ir.ConstInt{Base: ir.Base{Result: slot, Type: types.Uint(256), Pos: pos(x.Range)}, Value: int64(vl.Slot)})
			fb.emit(&ir.Store{Base: ir.Base{Pos: pos(x.Range)}, To: ir.LocStorage, Addr: slot, Value: val})
			return
		}
		fb.errorf(x.Range, diag.Error, diag.EResUnknownName, "undefined assignment target %q", x.Name)
	case *ast.IndexExpr:
		base, baseType, baseLoc, ok := fb.lowerExpr(x.X)
		if !ok || x.Index == nil {
			return
		}
		idx, _, _, iok := fb.lowerExpr(x.Index)
		if !iok {
			return
		}
		addr := fb.elementAddr(base, baseType, baseLoc, idx, x.Range)
		fb.emit(&ir.Store{Base: ir.Base{Pos: pos(x.Range)}, To: storeLocOf(baseLoc), Addr: addr, Value: val})
	case *ast.MemberExpr:
		base, baseType, baseLoc, ok := fb.lowerExpr(x.X)
		if !ok {
			return
		}
		addr := fb.fieldAddr(base, baseType, baseLoc, x.Name, x.Range)
		fb.emit(&ir.Store{Base: ir.Base{Pos: pos(x.Range)}, To: storeLocOf(baseLoc), Addr: addr, Value: val})
	}
}

func storeLocOf(l ast.Location) ir.LoadLocation {
	switch l {
	case ast.LocStorage:
		return ir.LocStorage
	case ast.LocCalldata:
		return ir.LocCalldata
	default:
		return ir.LocMemory
	}
}

// elementAddr computes the storage/memory address of base[idx], emitting
// the BoundsCheck spec 4.5 requires for bytes-buffer-style access; mapping
// key derivation and dynamic-array hash addressing are the runtime
// primitives internal/target's Primitives table exposes per target
// (spec 3.3's open question), modelled here as a single opaque builtin call
// so the concrete per-target hash/primitive choice stays in one place.
func (fb *funcBuilder) elementAddr(base ir.ValueID, baseType *types.Type, baseLoc ast.Location, idx ir.ValueID, r ast.Range) ir.ValueID {
	resolved := baseType.Resolved()
	switch resolved.Kind {
	case types.KFixedArray, types.KDynamicArray:
		length := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: length, Type: types.Uint(256), Pos: pos(r)}, Name: "array_length", Args: []ir.ValueID{base}})
		fb.emit(&ir.BoundsCheck{Base: ir.Base{Pos: pos(r)}, Index: idx, Length: length})
		addr := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: addr, Type: types.Uint(256), Pos: pos(r)}, Name: "array_element_addr", Args: []ir.ValueID{base, idx}})
		return addr
	case types.KMapping:
		addr := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: addr, Type: types.Uint(256), Pos: pos(r)}, Name: "mapping_slot", Args: []ir.ValueID{base, idx}})
		return addr
	default:
		length := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: length, Type: types.Uint(256), Pos: pos(r)}, Name: "array_length", Args: []ir.ValueID{base}})
		fb.emit(&ir.BoundsCheck{Base: ir.Base{Pos: pos(r)}, Index: idx, Length: length})
		addr := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: addr, Type: types.Uint(256), Pos: pos(r)}, Name: "buffer_element_addr", Args: []ir.ValueID{base, idx}})
		return addr
	}
}

func (fb *funcBuilder) fieldAddr(base ir.ValueID, baseType *types.Type, baseLoc ast.Location, name string, r ast.Range) ir.ValueID {
	resolved := baseType.Resolved()
	offset := 0
	if resolved.Kind == types.KStruct {
		for _, f := range resolved.Fields {
			if f.Name == name {
				break
			}
			offset += types.StorageSlots(f.Type)
		}
	}
	off := fb.newValue()
	fb.emit(&ir.ConstInt{Base: ir.Base{Result: off, Type: types.Uint(256), Pos: pos(r)}, Value: int64(offset)})
	addr := fb.newValue()
	fb.emit(&ir.BinOp{Base: ir.Base{Result: addr, Type: types.Uint(256), Pos: pos(r)}, Op: ir.OpAdd, Left: base, Right: off, Overflow: false})
	return addr
}

func (fb *funcBuilder) lowerMember(x *ast.MemberExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	// `msg.*`/`block.*`/`tx.*` environment accessors (spec 4.5's per-target
	// semantic table) take priority over every other member-access form,
	// since none of those three names is ever a valid local or state var.
	if v, t, loc, ok, handled := fb.lowerGlobalMember(x); handled {
		return v, t, loc, ok
	}
	// Enum variant access (`Color.Red`): resolved as a constant when X
	// names a known enum, never as a runtime field load.
	if id, ok := x.X.(*ast.Ident); ok {
		if et, ok := fb.b.Types.Enums[id.Name]; ok {
			for i, variant := range et.Variants {
				if variant == x.Name {
					v := fb.newValue()
					fb.emit(&ir.ConstInt{Base: ir.Base{Result: v, Type: et, Pos: pos(x.Range)}, Value: int64(i)})
					return v, et, ast.LocDefault, true
				}
			}
		}
	}
	base, baseType, baseLoc, ok := fb.lowerExpr(x.X)
	if !ok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	resolved := baseType.Resolved()
	if resolved.Kind == types.KStruct {
		for _, f := range resolved.Fields {
			if f.Name == x.Name {
				addr := fb.fieldAddr(base, baseType, baseLoc, x.Name, x.Range)
				v := fb.newValue()
				fb.emit(&ir.Load{Base: ir.Base{Result: v, Type: f.Type, Pos: pos(x.Range)}, From: storeLocOf(baseLoc), Addr: addr})
				return v, f.Type, baseLoc, true
			}
		}
	}
	// `.length` on arrays/bytes, `.selector`/`.address` on external
	// function values (spec 4.5 inline-assembly note carries over to plain
	// member access too).
	switch x.Name {
	case "length":
		v := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: types.Uint(256), Pos: pos(x.Range)}, Name: "array_length", Args: []ir.ValueID{base}})
		return v, types.Uint(256), ast.LocDefault, true
	case "selector":
		v := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: types.BytesN(4), Pos: pos(x.Range)}, Name: "function_selector", Args: []ir.ValueID{base}})
		return v, types.BytesN(4), ast.LocDefault, true
	case "address":
		v := fb.newValue()
		fb.emit(&ir.Builtin{Base: ir.Base{Result: v, Type: types.Address(), Pos: pos(x.Range)}, Name: "function_address", Args: []ir.ValueID{base}})
		return v, types.Address(), ast.LocDefault, true
	}
	fb.errorf(x.Range, diag.Error, diag.EResUnknownName, "unknown member %q", x.Name)
	return 0, types.Uint(256), ast.LocDefault, false
}

func (fb *funcBuilder) lowerIndex(x *ast.IndexExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	base, baseType, baseLoc, ok := fb.lowerExpr(x.X)
	if !ok || x.Index == nil {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	idx, _, _, iok := fb.lowerExpr(x.Index)
	if !iok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	resolved := baseType.Resolved()
	var elemType *types.Type
	switch resolved.Kind {
	case types.KFixedArray, types.KDynamicArray:
		elemType = resolved.Elem
	case types.KMapping:
		elemType = resolved.Value
	default:
		elemType = types.BytesN(1)
	}
	addr := fb.elementAddr(base, baseType, baseLoc, idx, x.Range)
	v := fb.newValue()
	fb.emit(&ir.Load{Base: ir.Base{Result: v, Type: elemType, Pos: pos(x.Range)}, From: storeLocOf(baseLoc), Addr: addr})
	return v, elemType, baseLoc, true
}

func (fb *funcBuilder) lowerConditional(x *ast.ConditionalExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	cond, _, _, ok := fb.lowerExpr(x.Cond)
	if !ok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	thenBlock := fb.newBlock()
	elseBlock := fb.newBlock()
	joinBlock := fb.newBlock()
	entry := fb.cur
	entry.Term = &ir.CondBranch{Cond: cond, Then: thenBlock.ID, Else: elseBlock.ID}

	fb.cur = thenBlock
	tv, tt, _, _ := fb.lowerExpr(x.Then)
	thenEnd := fb.cur
	thenEnd.Term = &ir.Branch{Target: joinBlock.ID}

	fb.cur = elseBlock
	ev, _, _, _ := fb.lowerExpr(x.Else)
	elseEnd := fb.cur
	elseEnd.Term = &ir.Branch{Target: joinBlock.ID}

	fb.cur = joinBlock
	v := fb.newValue()
	fb.emit(&ir.Phi{
		Base:  ir.Base{Result: v, Type: tt, Pos: pos(x.Range)},
		Edges: []ir.PhiEdge{{Block: thenEnd.ID, Value: tv}, {Block: elseEnd.ID, Value: ev}},
	})
	return v, tt, ast.LocDefault, true
}

func (fb *funcBuilder) lowerCast(x *ast.CastExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	xv, xt, _, ok := fb.lowerExpr(x.X)
	if !ok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	toType, tok := fb.b.resolveTypeExpr(x.Type)
	if !tok {
		return xv, xt, ast.LocDefault, false
	}
	xr := xt.Resolved()
	tr := toType.Resolved()
	if (xr.Kind == types.KInt || xr.Kind == types.KUint) && (tr.Kind == types.KInt || tr.Kind == types.KUint) {
		c := types.Classify(xr, tr)
		v := fb.newValue()
		switch {
		case c.Identity:
			return xv, toType, ast.LocDefault, true
		case c.Truncates:
			fb.emit(&ir.Conv{Base: ir.Base{Result: v, Type: toType, Pos: pos(x.Range)}, Kind: ir.ConvTrunc, X: xv})
		case tr.Kind == types.KInt:
			fb.emit(&ir.Conv{Base: ir.Base{Result: v, Type: toType, Pos: pos(x.Range)}, Kind: ir.ConvSignExt, X: xv})
		default:
			fb.emit(&ir.Conv{Base: ir.Base{Result: v, Type: toType, Pos: pos(x.Range)}, Kind: ir.ConvZeroExt, X: xv})
		}
		return v, toType, ast.LocDefault, true
	}
	if tr.Kind == types.KAddress && xr.Kind == types.KUint {
		v := fb.newValue()
		fb.emit(&ir.Conv{Base: ir.Base{Result: v, Type: toType, Pos: pos(x.Range)}, Kind: ir.ConvPayableCast, X: xv})
		return v, toType, ast.LocDefault, true
	}
	return xv, toType, ast.LocDefault, true
}
