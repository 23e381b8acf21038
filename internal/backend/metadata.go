package backend

import (
	"synnergy-network/synthesis/internal/abi"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/layout"
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/token"
	"synnergy-network/synthesis/internal/types"
)

// FieldMeta is one event/error field in a metadata document.
type FieldMeta struct {
	Name    string `json:"name" yaml:"name"`
	Type    TypeID `json:"type" yaml:"type"`
	Indexed bool   `json:"indexed,omitempty" yaml:"indexed,omitempty"`
}

// FunctionMeta is one function's entry in a contract's metadata/IDL (spec
// 4.8: "name, selector, mutability, params, returns, docs").
type FunctionMeta struct {
	Name     string `json:"name" yaml:"name"`
	Selector []byte `json:"selector" yaml:"selector"`
	// ComputedSelector is the selector abi.Build would have assigned absent
	// any @selector override — always populated, even when it equals
	// Selector, so an IDL reader can see both the override and the
	// would-be-computed value side by side (spec 6, scenario S3).
	ComputedSelector []byte     `json:"computed_selector" yaml:"computed_selector"`
	Mutability       string     `json:"mutability" yaml:"mutability"`
	Params           []ParamOut `json:"params" yaml:"params"`
	Returns          []TypeID   `json:"returns" yaml:"returns"`
	Docs             []string   `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// EventMeta is one event's metadata entry.
type EventMeta struct {
	Name      string      `json:"name" yaml:"name"`
	Anonymous bool        `json:"anonymous,omitempty" yaml:"anonymous,omitempty"`
	Topic0    []byte      `json:"topic0,omitempty" yaml:"topic0,omitempty"`
	Fields    []FieldMeta `json:"fields" yaml:"fields"`
	Docs      []string    `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// ErrorMeta is one custom error's metadata entry.
type ErrorMeta struct {
	Name     string      `json:"name" yaml:"name"`
	Selector []byte      `json:"selector" yaml:"selector"`
	Fields   []FieldMeta `json:"fields" yaml:"fields"`
	Docs     []string    `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// StorageVarMeta is one storage variable's layout entry.
type StorageVarMeta struct {
	Name  string `json:"name" yaml:"name"`
	Type  TypeID `json:"type" yaml:"type"`
	Slot  int    `json:"slot" yaml:"slot"`
	Slots int    `json:"slots" yaml:"slots"`
	Kind  string `json:"kind" yaml:"kind"`
}

// ContractMetadata is one contract's metadata/IDL document (spec 4.8).
type ContractMetadata struct {
	Contract    string           `json:"contract" yaml:"contract"`
	Dialect     string           `json:"dialect" yaml:"dialect"`
	Constructor *FunctionMeta    `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Functions   []FunctionMeta   `json:"functions" yaml:"functions"`
	Events      []EventMeta      `json:"events" yaml:"events"`
	Errors      []ErrorMeta      `json:"errors" yaml:"errors"`
	UserTypes   []TypeID         `json:"user_types,omitempty" yaml:"user_types,omitempty"`
	Storage     []StorageVarMeta `json:"storage" yaml:"storage"`
}

// FieldSpec is one event/error field, already resolved to a *types.Type by
// the caller (pkg/compiler holds the type environment internal/irbuild
// built; this package only assembles metadata from already-typed input,
// it never walks internal/ast itself).
type FieldSpec struct {
	Name    string
	Type    *types.Type
	Indexed bool
}

// EventSpec is the input BuildMetadata needs for one event declaration.
type EventSpec struct {
	Name      string
	Anonymous bool
	Fields    []FieldSpec
	Docs      []string
}

// ErrorSpec is the input BuildMetadata needs for one custom error
// declaration.
type ErrorSpec struct {
	Name   string
	Fields []FieldSpec
	Docs   []string
}

// Overrides maps a declaration name to its literal @selector(...)
// annotation value, if any (spec 6).
type Overrides map[string][]byte

// Docs maps a declaration name to its doc-comment lines, if any.
type Docs map[string][]string

// BuildMetadata assembles one contract's metadata/IDL document from its
// already-lowered module (function signatures and mutability come
// straight from the IR, not re-derived here), its storage layout, and the
// event/error declarations the IR proper has no typed representation of.
// It calls into internal/abi to compute each function's real dispatch
// selector, honouring @selector overrides exactly the way the generated
// dispatch code itself will, and checks that every override agrees with
// any other override sharing the same function name (spec 4.6), reporting
// a disagreement as a warning on bag rather than failing the build outright.
func BuildMetadata(mod ModuleOut, tt *TypeTable, lay *layout.Layout, dialect target.Dialect, events []EventSpec, errs []ErrorSpec, overrides Overrides, docs Docs, bag *diag.Bag) (*ContractMetadata, error) {
	out := &ContractMetadata{Contract: mod.Contract, Dialect: dialect.String()}

	fnSpecs := make([]abi.FunctionSpec, 0, len(mod.Functions))
	fnParams := make(map[string][]*types.Type, len(mod.Functions))
	for _, fn := range mod.Functions {
		if fn.Name == "constructor" {
			continue
		}
		params := paramTypes(fn.Params, tt)
		fnParams[fn.Name] = params
		fnSpecs = append(fnSpecs, abi.FunctionSpec{Name: fn.Name, Params: params, Override: overrides[fn.Name]})
	}
	if bag != nil {
		if err := abi.ValidateOverrideAgreement(fnSpecs); err != nil {
			bag.Addf(diag.Warning, diag.WCodecSelectorOverrideMismatch, token.Position{}, "%s: %v", mod.Contract, err)
		}
	}
	table, err := abi.Build(fnSpecs, dialect)
	if err != nil {
		return nil, err
	}
	selectorOf := make(map[string][]byte, len(table.Entries))
	for _, e := range table.Entries {
		selectorOf[e.Function] = e.Selector
	}

	for _, fn := range mod.Functions {
		fm := FunctionMeta{
			Name:             fn.Name,
			Selector:         selectorOf[fn.Name],
			ComputedSelector: selectorForDialect(fn.Name, fnParams[fn.Name], dialect),
			Mutability:       fn.Mutability,
			Params:           fn.Params,
			Returns:          fn.Returns,
			Docs:             docs[fn.Name],
		}
		if fn.Name == "constructor" {
			c := fm
			out.Constructor = &c
			continue
		}
		out.Functions = append(out.Functions, fm)
	}

	for _, ev := range events {
		var topic0 []byte
		if !ev.Anonymous {
			topic0 = selectorForDialect(ev.Name, fieldTypes(ev.Fields), dialect)
		}
		fields := make([]FieldMeta, 0, len(ev.Fields))
		for _, f := range ev.Fields {
			fields = append(fields, FieldMeta{Name: f.Name, Type: tt.Intern(f.Type), Indexed: f.Indexed})
		}
		out.Events = append(out.Events, EventMeta{
			Name: ev.Name, Anonymous: ev.Anonymous, Topic0: topic0, Fields: fields, Docs: ev.Docs,
		})
	}

	for _, er := range errs {
		fields := make([]FieldMeta, 0, len(er.Fields))
		for _, f := range er.Fields {
			fields = append(fields, FieldMeta{Name: f.Name, Type: tt.Intern(f.Type)})
		}
		out.Errors = append(out.Errors, ErrorMeta{
			Name: er.Name, Selector: selectorForDialect(er.Name, fieldTypes(er.Fields), dialect), Fields: fields, Docs: er.Docs,
		})
	}

	for _, v := range lay.Vars {
		out.Storage = append(out.Storage, StorageVarMeta{
			Name:  v.Name,
			Type:  tt.Intern(v.Type),
			Slot:  v.Slot,
			Slots: v.Slots,
			Kind:  slotKindName(v.Kind),
		})
	}

	return out, nil
}

func selectorForDialect(name string, params []*types.Type, d target.Dialect) []byte {
	switch d {
	case target.Dialect1Word32:
		s := abi.Selector1(name, params)
		return s[:]
	case target.Dialect2CompactLE:
		s := abi.Selector2(name, params)
		return s[:]
	default:
		s := abi.Discriminator3(name)
		return s[:]
	}
}

func paramTypes(params []ParamOut, tt *TypeTable) []*types.Type {
	out := make([]*types.Type, len(params))
	for i, p := range params {
		out[i] = tt.Type(p.Type)
	}
	return out
}

func fieldTypes(fields []FieldSpec) []*types.Type {
	out := make([]*types.Type, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

func slotKindName(k layout.SlotKind) string {
	switch k {
	case layout.SlotDirect:
		return "direct"
	case layout.SlotMappingHeader:
		return "mapping_header"
	case layout.SlotDynamicArrayHeader:
		return "dynamic_array_header"
	}
	return "unknown"
}
