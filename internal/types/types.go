// Package types implements the Type variant of component C3 (spec section
// 3.1): storage/memory/wire footprints and the conversion rules consulted by
// internal/consteval, internal/layout, internal/irbuild and internal/abi.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the tagged Type variant of spec 3.1.
type Kind int

const (
	KBool Kind = iota
	KInt
	KUint
	KBytesN
	KAddress
	KString
	KDynamicBytes
	KFixedArray
	KDynamicArray
	KMapping
	KStruct
	KEnum
	KContractRef
	KFunctionPtr
	KUserDefined
	KStorageRef
	KMemoryRef
	KCalldataRef
)

// Field is one (name, type) pair of a Struct type.
type Field struct {
	Name string
	Type *Type
}

// FuncSig is the shape carried by a FunctionPtr type.
type FuncSig struct {
	External   bool
	Params     []*Type
	Returns    []*Type
	Mutability string // "pure" | "view" | "nonpayable" | "payable"
}

// Type is a single mutually-exclusive tagged value; only the fields
// relevant to Kind are populated. This mirrors the shape of a compiler IR
// type table more than an interface-per-kind hierarchy, since almost every
// pass (footprint, conversion, signature text) needs to switch on Kind
// anyway.
type Type struct {
	Kind Kind

	Width int // Int/Uint: bit width; BytesN: byte count N

	Elem *Type // FixedArray/DynamicArray/StorageRef/MemoryRef/CalldataRef
	Len  int   // FixedArray length

	Key   *Type // Mapping
	Value *Type // Mapping

	Name   string  // Struct/Enum/ContractRef/UserDefined name
	Fields []Field // Struct

	Variants []string // Enum, at most 256

	Func *FuncSig // FunctionPtr

	Underlying *Type // UserDefined
}

func Bool() *Type              { return &Type{Kind: KBool} }
func Int(n int) *Type          { return &Type{Kind: KInt, Width: n} }
func Uint(n int) *Type         { return &Type{Kind: KUint, Width: n} }
func BytesN(n int) *Type       { return &Type{Kind: KBytesN, Width: n} }
func Address() *Type           { return &Type{Kind: KAddress} }
func String() *Type            { return &Type{Kind: KString} }
func DynamicBytes() *Type      { return &Type{Kind: KDynamicBytes} }
func FixedArray(elem *Type, n int) *Type { return &Type{Kind: KFixedArray, Elem: elem, Len: n} }
func DynamicArray(elem *Type) *Type      { return &Type{Kind: KDynamicArray, Elem: elem} }
func Mapping(k, v *Type) *Type           { return &Type{Kind: KMapping, Key: k, Value: v} }
func Struct(name string, fields []Field) *Type {
	return &Type{Kind: KStruct, Name: name, Fields: fields}
}
func Enum(name string, variants []string) *Type {
	return &Type{Kind: KEnum, Name: name, Variants: variants}
}
func ContractRef(name string) *Type { return &Type{Kind: KContractRef, Name: name} }
func FunctionPtr(sig *FuncSig) *Type { return &Type{Kind: KFunctionPtr, Func: sig} }
func UserDefined(name string, underlying *Type) *Type {
	return &Type{Kind: KUserDefined, Name: name, Underlying: underlying}
}
func StorageRef(t *Type) *Type  { return &Type{Kind: KStorageRef, Elem: t} }
func MemoryRef(t *Type) *Type   { return &Type{Kind: KMemoryRef, Elem: t} }
func CalldataRef(t *Type) *Type { return &Type{Kind: KCalldataRef, Elem: t} }

// Resolved is the underlying value type with any Storage/Memory/Calldata
// reference wrapper stripped, per spec 3.1's "every typed expression carries
// exactly one Type and exactly one location" split.
func (t *Type) Resolved() *Type {
	switch t.Kind {
	case KStorageRef, KMemoryRef, KCalldataRef:
		return t.Elem
	}
	return t
}

// IsDynamic reports whether t has no fixed wire/storage size (spec 3.1:
// String, DynamicBytes, DynamicArray, and any aggregate containing one).
func (t *Type) IsDynamic() bool {
	switch t.Kind {
	case KString, KDynamicBytes, KDynamicArray, KMapping:
		return true
	case KFixedArray:
		return t.Elem.IsDynamic()
	case KStruct:
		for _, f := range t.Fields {
			if f.Type.IsDynamic() {
				return true
			}
		}
		return false
	case KUserDefined:
		return t.Underlying.IsDynamic()
	}
	return false
}

// Equal reports structural type equality, used for overload-set signature
// matching and selector-override agreement checks.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KInt, KUint, KBytesN:
		return a.Width == b.Width
	case KFixedArray:
		return a.Len == b.Len && Equal(a.Elem, b.Elem)
	case KDynamicArray, KStorageRef, KMemoryRef, KCalldataRef:
		return Equal(a.Elem, b.Elem)
	case KMapping:
		return Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case KStruct:
		if a.Name != b.Name || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !Equal(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case KEnum, KContractRef:
		return a.Name == b.Name
	case KUserDefined:
		return a.Name == b.Name
	case KFunctionPtr:
		return equalSig(a.Func, b.Func)
	}
	return true // Bool, Address, String, DynamicBytes have no parameters
}

func equalSig(a, b *FuncSig) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.External != b.External || a.Mutability != b.Mutability {
		return false
	}
	if len(a.Params) != len(b.Params) || len(a.Returns) != len(b.Returns) {
		return false
	}
	for i := range a.Params {
		if !Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	for i := range a.Returns {
		if !Equal(a.Returns[i], b.Returns[i]) {
			return false
		}
	}
	return true
}

// CanonicalSignatureName renders t in the normalised form used to build a
// function's canonical signature for selector hashing (spec section 8,
// property law 3): arrays as `T[]`/`T[N]`, structs expanded to tuple form
// `(T1,T2,...)`.
func (t *Type) CanonicalSignatureName() string {
	switch t.Kind {
	case KBool:
		return "bool"
	case KInt:
		return fmt.Sprintf("int%d", t.Width)
	case KUint:
		return fmt.Sprintf("uint%d", t.Width)
	case KBytesN:
		return fmt.Sprintf("bytes%d", t.Width)
	case KAddress:
		return "address"
	case KString:
		return "string"
	case KDynamicBytes:
		return "bytes"
	case KFixedArray:
		return fmt.Sprintf("%s[%d]", t.Elem.CanonicalSignatureName(), t.Len)
	case KDynamicArray:
		return t.Elem.CanonicalSignatureName() + "[]"
	case KStruct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Type.CanonicalSignatureName()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case KEnum:
		return "uint8"
	case KContractRef:
		return "address"
	case KUserDefined:
		return t.Underlying.CanonicalSignatureName()
	case KStorageRef, KMemoryRef, KCalldataRef:
		return t.Elem.CanonicalSignatureName()
	case KFunctionPtr:
		return "function"
	case KMapping:
		return "<mapping>" // never appears in a public signature (spec 3.1 invariant)
	}
	return "<?>"
}

// CanonicalFunctionSignature renders `name(type1,type2,...)` for selector
// hashing (spec section 4.6).
func CanonicalFunctionSignature(name string, params []*Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.CanonicalSignatureName()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}
