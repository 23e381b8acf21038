package backend

// Package is the complete output bundle handed to the downstream code
// generator (spec 4.8): every compiled module's CFG, the shared type
// table every TypeID in this bundle indexes into, and one metadata/IDL
// document per contract.
type Package struct {
	Modules  []ModuleOut         `json:"modules" yaml:"modules"`
	Types    []TypeEntryOut      `json:"types" yaml:"types"`
	Metadata []*ContractMetadata `json:"metadata" yaml:"metadata"`
}

// Builder accumulates modules and metadata across however many contracts
// one compilation run produces, sharing a single TypeTable across all of
// them so a type common to two contracts (uint256, address, ...) is
// interned once.
type Builder struct {
	Types    *TypeTable
	modules  []ModuleOut
	metadata []*ContractMetadata
}

// NewBuilder returns an empty Builder with a fresh TypeTable.
func NewBuilder() *Builder {
	return &Builder{Types: NewTypeTable()}
}

// AddModule records one contract's rendered module and metadata.
func (b *Builder) AddModule(mod ModuleOut, meta *ContractMetadata) {
	b.modules = append(b.modules, mod)
	b.metadata = append(b.metadata, meta)
}

// Build finalises the Package. The type table is rendered last, since
// rendering a module or metadata document can itself intern new types
// (struct fields, function-pointer signatures) discovered along the way.
func (b *Builder) Build() Package {
	return Package{
		Modules:  b.modules,
		Types:    RenderTypeTable(b.Types),
		Metadata: b.metadata,
	}
}
