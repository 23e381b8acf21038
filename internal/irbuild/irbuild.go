// Package irbuild implements component C5's lowering half: it walks the
// resolved AST produced by internal/resolver and turns it into internal/ir's
// control-flow graphs (spec section 4.5). It also performs the bottom-up
// expression typing that spec section 4.3 calls "the type checker" — there
// is no separately materialised typed AST; each expression is typed exactly
// once, at the point it is lowered, since that is the only place the
// information is needed.
package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/layout"
	"synnergy-network/synthesis/internal/resolver"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// TypeEnv carries every named type declared across a program: struct,
// enum, and user-defined-value-type names, plus the set of known contract
// names (so a bare contract name used as a type resolves to a ContractRef).
type TypeEnv struct {
	Structs   map[string]*types.Type
	Enums     map[string]*types.Type
	UserTypes map[string]*types.Type
	Contracts map[string]bool
	// Functions maps a contract name to each of its functions' declared
	// return types, in order; an external call's Decode instruction
	// consults this to type its result instead of assuming a single
	// uint256 (spec 4.5's Decode(dialect, ret_bytes, return_types)).
	Functions map[string]map[string][]*types.Type
}

func NewTypeEnv() *TypeEnv {
	return &TypeEnv{
		Structs:   map[string]*types.Type{},
		Enums:     map[string]*types.Type{},
		UserTypes: map[string]*types.Type{},
		Contracts: map[string]bool{},
		Functions: map[string]map[string][]*types.Type{},
	}
}

// Builder lowers one program's contracts against a fixed target and a
// shared type environment. A Builder is reused across every contract and
// function of one compilation (it carries no per-function state of its
// own; that lives in funcBuilder).
type Builder struct {
	Target *target.Info
	Diags  *diag.Bag
	Types  *TypeEnv
}

func NewBuilder(ti *target.Info, bag *diag.Bag, env *TypeEnv) *Builder {
	return &Builder{Target: ti, Diags: bag, Types: env}
}

// BuildTypeEnv walks every contract and free declaration in prog and
// resolves every struct/enum/user-defined-type name, in two passes so that
// mutually-referencing structs (A has a field of type B, B has a field of
// type A behind a reference) resolve: the first pass registers every name
// with an empty body, the second fills in fields and underlying types now
// that every name is known.
func BuildTypeEnv(prog *resolver.Program) *TypeEnv {
	env := NewTypeEnv()
	b := &Builder{Types: env, Diags: diag.NewBag()}

	for _, ci := range prog.Contracts {
		env.Contracts[ci.Decl.Name] = true
		for _, s := range ci.Decl.Structs {
			env.Structs[s.Name] = &types.Type{Kind: types.KStruct, Name: s.Name}
		}
		for _, e := range ci.Decl.Enums {
			env.Enums[e.Name] = types.Enum(e.Name, e.Variants)
		}
	}
	for _, fi := range prog.Files {
		for _, d := range fi.AST.Frees {
			switch v := d.(type) {
			case *ast.StructDecl:
				env.Structs[v.Name] = &types.Type{Kind: types.KStruct, Name: v.Name}
			case *ast.EnumDecl:
				env.Enums[v.Name] = types.Enum(v.Name, v.Variants)
			}
		}
	}

	for _, ci := range prog.Contracts {
		for _, s := range ci.Decl.Structs {
			env.Structs[s.Name].Fields = b.resolveFields(s.Fields)
		}
		for _, ut := range ci.Decl.UserTypes {
			u, ok := b.resolveTypeExpr(ut.Underlying)
			if !ok {
				u = types.Uint(256)
			}
			env.UserTypes[ut.Name] = types.UserDefined(ut.Name, u)
		}
		fns := make(map[string][]*types.Type, len(ci.Decl.Functions))
		for _, fd := range ci.Decl.Functions {
			rets := make([]*types.Type, 0, len(fd.Returns))
			for _, r := range fd.Returns {
				t, ok := b.resolveTypeExpr(r.Type)
				if !ok {
					t = types.Uint(256)
				}
				rets = append(rets, t)
			}
			fns[fd.Name] = rets
		}
		env.Functions[ci.Decl.Name] = fns
	}
	for _, fi := range prog.Files {
		for _, d := range fi.AST.Frees {
			switch v := d.(type) {
			case *ast.StructDecl:
				env.Structs[v.Name].Fields = b.resolveFields(v.Fields)
			case *ast.UserTypeDecl:
				u, ok := b.resolveTypeExpr(v.Underlying)
				if !ok {
					u = types.Uint(256)
				}
				env.UserTypes[v.Name] = types.UserDefined(v.Name, u)
			}
		}
	}
	return env
}

func (b *Builder) resolveFields(fields []ast.StructField) []types.Field {
	out := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		t, ok := b.resolveTypeExpr(f.Type)
		if !ok {
			t = types.Uint(256)
		}
		out = append(out, types.Field{Name: f.Name, Type: t})
	}
	return out
}

// LowerContract builds one ir.Module from ci's own declared constructor and
// functions (abstract/interface bodies are skipped, since they have no CFG
// to build). lay is the storage layout already assigned for ci's full
// linearisation (internal/layout.Assign), used to resolve state-variable
// loads/stores to slots.
//
// A contract's inherited-but-not-overridden functions are not duplicated
// into its own module; each declaring contract's module carries its own
// functions once, the way separate compilation units normally work, and
// the per-program MRO is what a later linking/dispatch stage consults to
// find them.
func (b *Builder) LowerContract(ci *resolver.ContractInfo, lay *layout.Layout) *ir.Module {
	m := &ir.Module{Contract: ci.Decl.Name}
	if ci.Decl.Constructor != nil {
		m.Functions = append(m.Functions, b.lowerConstructor(ci, lay, ci.Decl.Constructor))
	}
	for _, fd := range ci.Decl.Functions {
		if fd.Body == nil {
			continue
		}
		m.Functions = append(m.Functions, b.lowerFunction(ci, lay, fd))
	}
	return m
}
