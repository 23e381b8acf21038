package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/layout"
	"synnergy-network/synthesis/internal/resolver"
	"synnergy-network/synthesis/internal/token"
	"synnergy-network/synthesis/internal/types"
)

// localVar is one entry of a function's local scope: a parameter, a
// `let`-style declared local, or a storage/memory reference bound to one.
type localVar struct {
	value ir.ValueID
	typ   *types.Type
	loc   ast.Location
}

// funcBuilder lowers one function body; it is created fresh per function
// and discarded once the function's CFG is complete.
type funcBuilder struct {
	b        *Builder
	fn       *ir.Function
	contract *resolver.ContractInfo
	layout   *layout.Layout

	locals         map[string]*localVar
	uncheckedDepth int

	breakTargets    []ir.BlockID
	continueTargets []ir.BlockID

	cur *ir.Block
}

func (b *Builder) lowerFunction(ci *resolver.ContractInfo, lay *layout.Layout, fd *ast.FunctionDecl) *ir.Function {
	fn := ir.NewFunction(fd.Name)
	fn.External = fd.Visibility == ast.VisExternal || fd.Visibility == ast.VisPublic
	fn.Mutability = mutabilityString(fd.Mutability)

	fb := &funcBuilder{b: b, fn: fn, contract: ci, layout: lay, locals: map[string]*localVar{}}
	fb.cur = fn.Blocks[0]

	for i, p := range fd.Params {
		t, ok := b.resolveTypeExpr(p.Type)
		if !ok {
			t = types.Uint(256)
		}
		fn.Params = append(fn.Params, ir.Param{Name: p.Name, Type: t})
		if p.Name != "" {
			fb.locals[p.Name] = &localVar{value: ir.ValueID(i), typ: t, loc: ast.LocDefault}
		}
	}
	fn.NextValue = ir.ValueID(len(fd.Params))

	for _, r := range fd.Returns {
		t, ok := b.resolveTypeExpr(r.Type)
		if !ok {
			t = types.Uint(256)
		}
		fn.Returns = append(fn.Returns, t)
		if r.Name != "" {
			v := fb.newValue()
			fb.locals[r.Name] = &localVar{value: v, typ: t, loc: ast.LocMemory}
		}
	}

	if fd.Body != nil {
		fb.lowerBlock(fd.Body)
		if fb.cur.Term == nil {
			fb.cur.Term = &ir.Return{}
		}
	}
	b.checkMutability(fd.Mutability, fd.Body, lay, fd.Range)
	return fn
}

func (b *Builder) lowerConstructor(ci *resolver.ContractInfo, lay *layout.Layout, cd *ast.ConstructorDecl) *ir.Function {
	fn := ir.NewFunction("constructor")
	fn.Mutability = mutabilityString(cd.Mutability)

	fb := &funcBuilder{b: b, fn: fn, contract: ci, layout: lay, locals: map[string]*localVar{}}
	fb.cur = fn.Blocks[0]

	for i, p := range cd.Params {
		t, ok := b.resolveTypeExpr(p.Type)
		if !ok {
			t = types.Uint(256)
		}
		fn.Params = append(fn.Params, ir.Param{Name: p.Name, Type: t})
		if p.Name != "" {
			fb.locals[p.Name] = &localVar{value: ir.ValueID(i), typ: t, loc: ast.LocDefault}
		}
	}
	fn.NextValue = ir.ValueID(len(cd.Params))

	if cd.Body != nil {
		fb.lowerBlock(cd.Body)
		if fb.cur.Term == nil {
			fb.cur.Term = &ir.Return{}
		}
	}
	b.checkMutability(cd.Mutability, cd.Body, lay, cd.Range)
	return fn
}

func (fb *funcBuilder) newValue() ir.ValueID {
	v := fb.fn.NextValue
	fb.fn.NextValue++
	return v
}

func (fb *funcBuilder) newBlock() *ir.Block {
	blk := &ir.Block{ID: ir.BlockID(len(fb.fn.Blocks))}
	fb.fn.Blocks = append(fb.fn.Blocks, blk)
	return blk
}

func (fb *funcBuilder) emit(i ir.Instr) { fb.cur.Instr = append(fb.cur.Instr, i) }

// terminate sets cur's terminator if it doesn't already have one (a block
// reached via an earlier return/revert/break/continue already has one, and
// trailing dead statements in the same source block must not overwrite it).
func (fb *funcBuilder) terminate(t ir.Terminator) {
	if fb.cur.Term == nil {
		fb.cur.Term = t
	}
}

func pos(r ast.Range) token.Position { return r.Start }

// stateVar looks up name as a storage variable of the lowering contract's
// full linearisation (fb.layout covers the whole MRO, not just fb.contract's
// own declarations).
func (fb *funcBuilder) stateVar(name string) (*layout.VarLayout, bool) {
	if fb.layout == nil {
		return nil, false
	}
	vl, ok := fb.layout.ByName[name]
	return vl, ok
}

func (fb *funcBuilder) errorf(r ast.Range, sev diag.Severity, code diag.Code, format string, args ...any) {
	fb.b.Diags.Addf(sev, code, pos(r), format, args...)
}
