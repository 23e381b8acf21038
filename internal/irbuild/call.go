package irbuild

import (
	"fmt"

	"synnergy-network/synthesis/internal/abi"
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/ir"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/types"
)

// bufferMethods are the bytes-buffer primitives of spec 4.5, called as
// methods on a dynamic-bytes value (`buf.writeUintNLE(...)`); kept separate
// from the builtin registration table in builtins.go (that table is for
// free-standing runtime primitives like keccak256, not receiver methods).
var bufferMethods = map[string]bool{
	"readUintNLE": true, "writeUintNLE": true,
	"readAddress": true, "writeAddress": true,
	"writeString": true, "writeBytes": true,
}

func (fb *funcBuilder) lowerCall(x *ast.CallExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	switch callee := x.Callee.(type) {
	case *ast.Ident:
		if spec, ok := lookupBuiltin(callee.Name); ok {
			return fb.lowerBuiltinCall(x, spec)
		}
		return fb.lowerDirectCall(x, callee.Name)
	case *ast.MemberExpr:
		if id, ok := callee.X.(*ast.Ident); ok && id.Name == "abi" {
			if _, shadowed := fb.locals[id.Name]; !shadowed {
				if _, shadowed := fb.stateVar(id.Name); !shadowed {
					return fb.lowerAbiCall(x, callee)
				}
			}
		}
		if bufferMethods[callee.Name] {
			return fb.lowerBufferMethod(x, callee)
		}
		return fb.lowerExternalCall(x, callee)
	}
	fb.errorf(x.Range, diag.Error, diag.EResUnknownName, "unsupported call target")
	return 0, types.Uint(256), ast.LocDefault, false
}

func (fb *funcBuilder) lowerBuiltinCall(x *ast.CallExpr, spec BuiltinSpec) (ir.ValueID, *types.Type, ast.Location, bool) {
	if spec.Targets != nil && fb.b.Target != nil && !spec.Targets[fb.b.Target.Name] {
		fb.errorf(x.Range, diag.Error, diag.ETargetFeatureUnavailable, "builtin %q is not available on %s", spec.Name, fb.b.Target.Name)
		return 0, types.Uint(256), ast.LocDefault, false
	}
	args := make([]ir.ValueID, 0, len(x.Args))
	argTypes := make([]*types.Type, 0, len(x.Args))
	ok := true
	for _, a := range x.Args {
		v, t, _, aok := fb.lowerExpr(a.Expr)
		if !aok {
			ok = false
		}
		args = append(args, v)
		argTypes = append(argTypes, t)
	}
	if !ok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	rt := types.Uint(256)
	if spec.ReturnType != nil {
		rt = spec.ReturnType(argTypes)
	}
	v := spec.Emit(fb, args, argTypes, rt, x.Range)
	return v, rt, ast.LocDefault, true
}

func (fb *funcBuilder) lowerDirectCall(x *ast.CallExpr, name string) (ir.ValueID, *types.Type, ast.Location, bool) {
	args := fb.lowerCallArgs(x.Args)
	retType := types.Bool()
	if fb.contract != nil {
		for _, fd := range fb.contract.Decl.Functions {
			if fd.Name == name && len(fd.Returns) > 0 {
				if t, ok := fb.b.resolveTypeExpr(fd.Returns[0].Type); ok {
					retType = t
				}
				break
			}
		}
	}
	v := fb.newValue()
	fb.emit(&ir.Call{Base: ir.Base{Result: v, Type: retType, Pos: pos(x.Range)}, Kind: ir.CallInternalDirect, Target: name, Args: args})
	return v, retType, ast.LocDefault, true
}

// lowerAbiCall lowers `abi.encode(...)`/`abi.encodePacked(...)` (spec 4.6):
// both produce a dynamic-bytes value via the Encode IR node, differing only
// in its Packed flag. encodePacked additionally rejects, at compile time,
// any argument whose type nests a dynamically sized element inside an
// array or struct — internal/abi.EncodePacked enforces the same rule for
// its own (value-level) callers, so a contract and a reference interpreter
// agree on when packed encoding is well-defined.
func (fb *funcBuilder) lowerAbiCall(x *ast.CallExpr, callee *ast.MemberExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	packed := callee.Name == "encodePacked"
	if !packed && callee.Name != "encode" {
		fb.errorf(x.Range, diag.Error, diag.EResUnknownName, "unknown member abi.%s", callee.Name)
		return 0, types.DynamicBytes(), ast.LocDefault, false
	}

	args := make([]ir.ValueID, 0, len(x.Args))
	ok := true
	for _, a := range x.Args {
		v, t, _, aok := fb.lowerExpr(a.Expr)
		if !aok {
			ok = false
			continue
		}
		if packed && abi.HasNestedDynamic(t) {
			fb.errorf(a.Expr.ExprRange(), diag.Error, diag.ECodecNestedDynamicInPacked,
				"abi.encodePacked: a container with a dynamically sized element is ambiguous when packed")
			ok = false
			continue
		}
		args = append(args, v)
	}
	if !ok {
		return 0, types.DynamicBytes(), ast.LocDefault, false
	}

	encoded := fb.newValue()
	fb.emit(&ir.Encode{
		Base:    ir.Base{Result: encoded, Type: types.DynamicBytes(), Pos: pos(x.Range)},
		Dialect: fb.b.Target.DefaultDialect,
		Packed:  packed,
		Args:    args,
	})
	return encoded, types.DynamicBytes(), ast.LocDefault, true
}

// lowerExternalCall lowers `recv.f(args)` as an external call: Encode the
// arguments, Call(external), Decode the return bytes (spec 4.5 "External
// calls"). Selector computation (keccak/blake/sha256 of the canonical
// signature) is internal/abi's job; Encode.Selector is left empty here, and
// no later pass in this module sets it.
func (fb *funcBuilder) lowerExternalCall(x *ast.CallExpr, callee *ast.MemberExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	recv, recvType, _, ok := fb.lowerExpr(callee.X)
	if !ok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	args := fb.lowerCallArgs(x.Args)
	opts := fb.lowerCallOptions(x.Options)
	dialect := fb.b.Target.DefaultDialect

	encoded := fb.newValue()
	fb.emit(&ir.Encode{Base: ir.Base{Result: encoded, Type: types.DynamicBytes(), Pos: pos(x.Range)}, Dialect: dialect, Args: args})

	result := fb.newValue()
	fb.emit(&ir.Call{
		Base:    ir.Base{Result: result, Type: types.DynamicBytes(), Pos: pos(x.Range)},
		Kind:    ir.CallExternal,
		Target:  callee.Name,
		Args:    []ir.ValueID{recv, encoded},
		Options: opts,
	})

	rets, resultType := fb.externalReturnTypes(recvType, callee.Name)
	decoded := fb.newValue()
	fb.emit(&ir.Decode{Base: ir.Base{Result: decoded, Type: resultType, Pos: pos(x.Range)}, Dialect: dialect, Bytes: result, Types: rets})
	return decoded, resultType, ast.LocDefault, true
}

// externalReturnTypes looks up name's declared return types on the
// contract recvType statically names, so an external call's Decode
// honours the callee's actual signature instead of assuming a single
// uint256 (spec 4.5's Decode(dialect, ret_bytes, return_types)). When the
// callee's contract isn't known (an untyped receiver, an interface the
// type environment never recorded) the uint256 fallback still applies,
// matching every other place an unresolved type degrades to it.
func (fb *funcBuilder) externalReturnTypes(recvType *types.Type, name string) ([]*types.Type, *types.Type) {
	fallback := []*types.Type{types.Uint(256)}
	if recvType == nil || fb.b.Types == nil {
		return fallback, types.Uint(256)
	}
	r := recvType.Resolved()
	if r.Kind != types.KContractRef {
		return fallback, types.Uint(256)
	}
	fns, ok := fb.b.Types.Functions[r.Name]
	if !ok {
		return fallback, types.Uint(256)
	}
	rets, ok := fns[name]
	if !ok {
		return fallback, types.Uint(256)
	}
	switch len(rets) {
	case 0:
		return nil, types.Bool() // `call_succeeded` is the only thing a caller can observe
	case 1:
		return rets, rets[0]
	default:
		fields := make([]types.Field, len(rets))
		for i, t := range rets {
			fields[i] = types.Field{Name: fmt.Sprintf("%d", i), Type: t}
		}
		return rets, &types.Type{Kind: types.KStruct, Fields: fields}
	}
}

func (fb *funcBuilder) lowerBufferMethod(x *ast.CallExpr, callee *ast.MemberExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	buf, _, bufLoc, ok := fb.lowerExpr(callee.X)
	if !ok {
		return 0, types.Uint(256), ast.LocDefault, false
	}
	var offsetExpr, valueExpr ast.Expr
	if len(x.Args) > 0 {
		offsetExpr = x.Args[0].Expr
	}
	if len(x.Args) > 1 {
		valueExpr = x.Args[1].Expr
	}
	offset, _, _, _ := fb.lowerExpr(offsetExpr)

	length := fb.newValue()
	fb.emit(&ir.Builtin{Base: ir.Base{Result: length, Type: types.Uint(256), Pos: pos(x.Range)}, Name: "array_length", Args: []ir.ValueID{buf}})
	fb.emit(&ir.BoundsCheck{Base: ir.Base{Pos: pos(x.Range)}, Index: offset, Length: length})

	switch callee.Name {
	case "readUintNLE", "readAddress":
		rt := types.Uint(256)
		if callee.Name == "readAddress" {
			rt = types.Address()
		}
		v := fb.newValue()
		fb.emit(&ir.Load{Base: ir.Base{Result: v, Type: rt, Pos: pos(x.Range)}, From: storeLocOf(bufLoc), Addr: offset})
		return v, rt, ast.LocDefault, true
	default: // writeUintNLE, writeAddress, writeString, writeBytes
		val, _, _, vok := fb.lowerExpr(valueExpr)
		if !vok {
			return 0, types.Bool(), ast.LocDefault, false
		}
		fb.emit(&ir.Store{Base: ir.Base{Pos: pos(x.Range)}, To: storeLocOf(bufLoc), Addr: offset, Value: val})
		return val, types.Bool(), ast.LocDefault, true
	}
}

func (fb *funcBuilder) lowerNew(x *ast.NewExpr) (ir.ValueID, *types.Type, ast.Location, bool) {
	t, ok := fb.b.resolveTypeExpr(x.Type)
	if !ok {
		t = types.Address()
	}
	args := fb.lowerCallArgs(x.Args)
	opts := fb.lowerCallOptions(x.Options)

	switch fb.b.Target.Name {
	case target.T1WasmContracts:
		v := fb.newValue()
		fb.emit(&ir.Call{Base: ir.Base{Result: v, Type: types.Address(), Pos: pos(x.Range)}, Kind: ir.CallConstructor, Target: t.Name, Args: args, Options: opts})
		return v, types.Address(), ast.LocDefault, true
	case target.T2SBF:
		if x.Options == nil || x.Options.Address == nil {
			fb.errorf(x.Range, diag.Error, diag.ETargetFeatureUnavailable, "new %s(...) on T2SBF requires an address: option", t.Name)
			return 0, types.Address(), ast.LocDefault, false
		}
		fb.emit(&ir.Call{Base: ir.Base{Pos: pos(x.Range)}, Kind: ir.CallConstructor, Target: t.Name, Args: args, Options: opts})
		return 0, types.Bool(), ast.LocDefault, true
	default:
		fb.errorf(x.Range, diag.Error, diag.ETargetFeatureUnavailable, "contract construction is not applicable on %s", fb.b.Target.Name)
		return 0, types.Address(), ast.LocDefault, false
	}
}

func (fb *funcBuilder) lowerCallArgs(args []ast.CallArg) []ir.ValueID {
	out := make([]ir.ValueID, 0, len(args))
	for _, a := range args {
		if v, _, _, ok := fb.lowerExpr(a.Expr); ok {
			out = append(out, v)
		}
	}
	return out
}

func (fb *funcBuilder) lowerCallOptions(opts *ast.CallOptions) ir.CallOptions {
	var out ir.CallOptions
	if opts == nil {
		return out
	}
	lower := func(e ast.Expr) ir.ValueID {
		if e == nil {
			return 0
		}
		v, _, _, ok := fb.lowerExpr(e)
		if !ok {
			return 0
		}
		return v
	}
	out.Value = lower(opts.Value)
	out.Gas = lower(opts.Gas)
	out.Salt = lower(opts.Salt)
	out.Accounts = lower(opts.Accounts)
	out.Seeds = lower(opts.Seeds)
	out.ProgramID = lower(opts.ProgramID)
	out.Address = lower(opts.Address)
	out.Space = lower(opts.Space)
	return out
}
