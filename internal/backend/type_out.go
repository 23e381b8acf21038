package backend

import (
	"synnergy-network/synthesis/internal/types"
)

// FieldOut is one serialised struct field.
type FieldOut struct {
	Name string `json:"name" yaml:"name"`
	Type TypeID `json:"type" yaml:"type"`
}

// FuncSigOut is one serialised FunctionPtr signature.
type FuncSigOut struct {
	External   bool     `json:"external" yaml:"external"`
	Params     []TypeID `json:"params,omitempty" yaml:"params,omitempty"`
	Returns    []TypeID `json:"returns,omitempty" yaml:"returns,omitempty"`
	Mutability string   `json:"mutability" yaml:"mutability"`
}

// TypeEntryOut is one TypeTable row rendered for serialisation: every
// nested *types.Type (Elem, Key, Value, Underlying, struct field types,
// function-pointer signature types) is itself interned and referenced by
// TypeID, so the whole table stays a flat, pointer-free array.
type TypeEntryOut struct {
	ID       TypeID      `json:"id" yaml:"id"`
	Kind     string      `json:"kind" yaml:"kind"`
	Width    int         `json:"width,omitempty" yaml:"width,omitempty"`
	Elem     *TypeID     `json:"elem,omitempty" yaml:"elem,omitempty"`
	Len      int         `json:"len,omitempty" yaml:"len,omitempty"`
	Key      *TypeID     `json:"key,omitempty" yaml:"key,omitempty"`
	Value    *TypeID     `json:"value,omitempty" yaml:"value,omitempty"`
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Fields   []FieldOut  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Variants []string    `json:"variants,omitempty" yaml:"variants,omitempty"`
	Func     *FuncSigOut `json:"func,omitempty" yaml:"func,omitempty"`
}

// RenderTypeTable renders every entry currently interned in tt. Rendering
// a type can intern further (nested) types, so this is called only after
// every module and metadata document that might reference a new type has
// already been rendered — calling it earlier would silently miss entries
// appended mid-render.
func RenderTypeTable(tt *TypeTable) []TypeEntryOut {
	out := make([]TypeEntryOut, 0, tt.Len())
	for i := 0; i < tt.Len(); i++ {
		out = append(out, renderTypeEntry(TypeID(i), tt.Type(TypeID(i)), tt))
	}
	return out
}

func renderTypeEntry(id TypeID, t *types.Type, tt *TypeTable) TypeEntryOut {
	out := TypeEntryOut{ID: id, Kind: kindName(t.Kind), Width: t.Width, Len: t.Len, Name: t.Name, Variants: t.Variants}
	if t.Elem != nil {
		eid := tt.Intern(t.Elem)
		out.Elem = &eid
	}
	if t.Key != nil {
		kid := tt.Intern(t.Key)
		out.Key = &kid
	}
	if t.Value != nil {
		vid := tt.Intern(t.Value)
		out.Value = &vid
	}
	if t.Underlying != nil {
		uid := tt.Intern(t.Underlying)
		out.Elem = &uid
	}
	for _, f := range t.Fields {
		out.Fields = append(out.Fields, FieldOut{Name: f.Name, Type: tt.Intern(f.Type)})
	}
	if t.Func != nil {
		fo := &FuncSigOut{External: t.Func.External, Mutability: t.Func.Mutability}
		for _, p := range t.Func.Params {
			fo.Params = append(fo.Params, tt.Intern(p))
		}
		for _, r := range t.Func.Returns {
			fo.Returns = append(fo.Returns, tt.Intern(r))
		}
		out.Func = fo
	}
	return out
}

func kindName(k types.Kind) string {
	switch k {
	case types.KBool:
		return "bool"
	case types.KInt:
		return "int"
	case types.KUint:
		return "uint"
	case types.KBytesN:
		return "bytesN"
	case types.KAddress:
		return "address"
	case types.KString:
		return "string"
	case types.KDynamicBytes:
		return "dynamicBytes"
	case types.KFixedArray:
		return "fixedArray"
	case types.KDynamicArray:
		return "dynamicArray"
	case types.KMapping:
		return "mapping"
	case types.KStruct:
		return "struct"
	case types.KEnum:
		return "enum"
	case types.KContractRef:
		return "contractRef"
	case types.KFunctionPtr:
		return "functionPtr"
	case types.KUserDefined:
		return "userDefined"
	case types.KStorageRef:
		return "storageRef"
	case types.KMemoryRef:
		return "memoryRef"
	case types.KCalldataRef:
		return "calldataRef"
	}
	return "unknown"
}
