// Package compiler wires the front end, resolver, type checker, IR lowering,
// ABI codec synthesiser, and backend into the single entry point the driver
// (cmd/cli) and any embedder call. Every input it needs — sources, target,
// search paths, import aliases — arrives through Options; this package never
// reads a file, an environment variable, or a config file itself (see pkg/
// config's own doc comment on that boundary).
package compiler

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"synnergy-network/synthesis/internal/abi"
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/backend"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/irbuild"
	"synnergy-network/synthesis/internal/layout"
	"synnergy-network/synthesis/internal/parser"
	"synnergy-network/synthesis/internal/resolver"
	"synnergy-network/synthesis/internal/target"
)

// Options is the explicit input to one compilation run.
type Options struct {
	// Sources maps a file path to its already-read contents. Paths are
	// used as-is for diagnostics and as resolver.Resolve's "fromFile".
	Sources map[string][]byte

	Target      target.Name
	ImportMap   resolver.ImportMap
	SearchPaths []string

	// Dialect overrides the target's default ABI dialect for the
	// generated dispatch table when UseDialect is true; with UseDialect
	// false the target's default is used (see target.Info.DefaultDialect).
	Dialect     target.Dialect
	UseDialect  bool
	EmitYAMLIDL bool

	Log *logrus.Logger // nil means logging is disabled
}

func (o *Options) logger() *logrus.Logger {
	if o.Log != nil {
		return o.Log
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel) // effectively silent when the caller supplies none
	return l
}

// Result is everything one Compile call produces.
type Result struct {
	// RunID identifies this compilation run across its own log lines; it
	// has no meaning beyond this process (it isn't persisted anywhere and
	// carries no relation to any on-chain identifier).
	RunID       string
	Package     backend.Package
	Diagnostics *diag.Bag
}

// Compile runs the full pipeline: parse every source, resolve imports and
// inheritance, build the shared type environment, lower every concrete
// contract to IR, synthesise its dispatch table and metadata, and assemble
// the final backend.Package. It stops and returns after resolution if any
// file failed to parse cleanly enough to resolve, and after lowering if
// diagnostics contain an error — but always returns the diagnostics bag
// collected so far, so a caller can report every error found, not just the
// first.
func Compile(opts Options) (*Result, error) {
	runID := uuid.New().String()
	log := opts.logger().WithField("run", runID)
	bag := diag.NewBag()

	files := make(map[string]*ast.File, len(opts.Sources))
	for _, path := range sortedKeys(opts.Sources) {
		p := parser.New(path, opts.Sources[path], bag)
		files[path] = p.ParseFile()
	}
	log.WithField("files", len(files)).Debug("parse complete")

	prog := resolver.BuildProgram(files, opts.ImportMap, opts.SearchPaths, bag)
	log.WithField("contracts", len(prog.Contracts)).Debug("resolve complete")
	if bag.HasErrors() {
		return &Result{RunID: runID, Diagnostics: bag}, fmt.Errorf("compile: %d error(s) during resolution", countErrors(bag))
	}

	ti := target.For(opts.Target)
	dialect := ti.DefaultDialect
	if opts.UseDialect {
		dialect = opts.Dialect
	}

	env := irbuild.BuildTypeEnv(prog)
	builder := irbuild.NewBuilder(ti, bag, env)
	log.Debug("type environment built")

	pkgBuilder := backend.NewBuilder()
	for _, name := range sortedContractNames(prog) {
		ci := prog.Contracts[name]
		if ci.Decl.Kind != ast.KindConcrete {
			continue // abstract contracts, interfaces, and libraries contribute no module of their own
		}

		lay := buildLayout(prog, ci, builder)
		mod := builder.LowerContract(ci, lay)
		log.WithField("contract", name).Debug("lowered to IR")

		modOut := backend.RenderModule(mod, pkgBuilder.Types)
		events := eventSpecs(builder, ci)
		errs := errorSpecs(builder, ci)
		overrides := selectorOverrides(ci)

		if err := abi.ValidateOverrideAgreement(overrideSpecsAcrossMRO(prog, ci)); err != nil {
			bag.Addf(diag.Warning, diag.WCodecSelectorOverrideMismatch, ci.Decl.Range.Start, "%s: %v", name, err)
		}

		meta, err := backend.BuildMetadata(modOut, pkgBuilder.Types, lay, dialect, events, errs, overrides, nil, bag)
		if err != nil {
			bag.Addf(diag.Error, diag.ECodecSelectorCollision, ci.Decl.Range.Start, "%s: %v", name, err)
			continue
		}
		pkgBuilder.AddModule(modOut, meta)
		log.WithField("contract", name).Debug("metadata assembled")
	}

	if bag.HasErrors() {
		return &Result{RunID: runID, Diagnostics: bag}, fmt.Errorf("compile: %d error(s) during lowering", countErrors(bag))
	}

	pkg := pkgBuilder.Build()
	log.WithField("modules", len(pkg.Modules)).Debug("package assembled")
	return &Result{RunID: runID, Package: pkg, Diagnostics: bag}, nil
}

func sortedKeys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedContractNames(prog *resolver.Program) []string {
	out := make([]string, 0, len(prog.Contracts))
	for name := range prog.Contracts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func countErrors(bag *diag.Bag) int {
	n := 0
	for _, d := range bag.Sorted() {
		if d.Severity == diag.Error {
			n++
		}
	}
	return n
}

// buildLayout assigns storage slots for ci's full linearisation. ci.MRO is
// most-derived-first (spec 3.2's C3 order, name itself first); layout.Assign
// wants root-first, so the chain is walked in reverse.
func buildLayout(prog *resolver.Program, ci *resolver.ContractInfo, b *irbuild.Builder) *layout.Layout {
	mro := ci.MRO
	contractVars := make([]layout.ContractVars, 0, len(mro))
	for i := len(mro) - 1; i >= 0; i-- {
		base := prog.Contracts[mro[i]]
		if base == nil {
			continue
		}
		vars := make([]layout.NamedVar, 0, len(base.Decl.StateVars))
		for _, sv := range base.Decl.StateVars {
			if sv.Constant {
				continue // a compile-time constant occupies no storage slot
			}
			t, ok := b.ResolveTypeExpr(sv.Type)
			if !ok {
				continue
			}
			vars = append(vars, layout.NamedVar{Name: sv.Name, Type: t})
		}
		if len(vars) > 0 {
			contractVars = append(contractVars, layout.ContractVars{Contract: base.Decl.Name, Vars: vars})
		}
	}
	return layout.Assign(contractVars)
}
