package resolver

import (
	"sort"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/token"
)

// ContractInfo is everything the resolver computes about one contract:
// its scope, linearised ancestry, using-for bindings, and per-name
// overload sets.
type ContractInfo struct {
	Decl      *ast.ContractDecl
	File      string
	MRO       []string
	Scope     *Scope
	Overloads map[string]*OverloadSet
}

// FileInfo holds one parsed file plus its file-level scope and using-for
// table.
type FileInfo struct {
	AST      *ast.File
	Scope    *Scope
	UsingFor *UsingForTable
}

// Program is the resolved result of an entire compilation unit: every
// parsed file, its dependency order, and every contract's resolved
// ancestry.
type Program struct {
	Global    *Scope
	Files     map[string]*FileInfo
	Order     []string // file paths in import dependency order (best-effort under cycles)
	Contracts map[string]*ContractInfo
}

// BuildProgram resolves imports, builds the global/file/contract scope
// tree, linearises every contract's inheritance, and constructs per-contract
// overload sets (spec 4.2). files is keyed by resolved file path.
func BuildProgram(files map[string]*ast.File, importMap ImportMap, searchPaths []string, bag *diag.Bag) *Program {
	p := &Program{
		Global:    NewScope(LevelGlobal, nil),
		Files:     map[string]*FileInfo{},
		Contracts: map[string]*ContractInfo{},
	}

	order, cyclic := topoOrderImports(files, importMap, searchPaths, bag)
	p.Order = order
	if cyclic {
		// Cycles are permitted (spec 7 import taxonomy); nothing else to do
		// here beyond the informational diagnostic topoOrderImports already
		// recorded — precise "used before definition through a
		// non-hoistable declaration" tracking needs per-expression data-flow
		// across files and is left to internal/irbuild's lowering pass,
		// which sees every initializer in evaluation order already.
	}

	for _, path := range order {
		f := files[path]
		fi := &FileInfo{AST: f, Scope: NewScope(LevelFile, p.Global)}
		p.Files[path] = fi

		for _, imp := range f.Imports {
			declareImportNames(fi.Scope, imp, bag)
		}
		for _, cd := range f.Contracts {
			declareTopLevel(fi.Scope, cd.Name, SymContract, cd.Node, bag)
		}
		for _, d := range f.Frees {
			declareTopLevel(fi.Scope, freeDeclName(d), freeDeclKind(d), freeDeclNode(d), bag)
		}
		fi.UsingFor = NewUsingForTable(collectUsingFor(f), typeKeyOf)
	}

	mroCache := map[string][]string{}
	contractFile := map[string]string{}
	contractDecl := map[string]*ast.ContractDecl{}
	for path, f := range files {
		for _, cd := range f.Contracts {
			contractFile[cd.Name] = path
			contractDecl[cd.Name] = cd
		}
	}

	var resolveMRO func(name string, visiting map[string]bool) []string
	resolveMRO = func(name string, visiting map[string]bool) []string {
		if mro, ok := mroCache[name]; ok {
			return mro
		}
		cd, ok := contractDecl[name]
		if !ok {
			return []string{name} // unknown base (e.g. a built-in interface); treated as a leaf
		}
		if visiting[name] {
			bag.Addf(diag.Error, diag.EResLinearisationFailure, token.Position{}, "inheritance cycle detected at %q", name)
			return []string{name}
		}
		visiting[name] = true
		bases := make([]string, len(cd.Bases))
		for i, b := range cd.Bases {
			bases[i] = b.Name
		}
		mro, err := LinearizeC3(name, bases, func(b string) []string { return resolveMRO(b, visiting) })
		delete(visiting, name)
		if err != nil {
			bag.Addf(diag.Error, diag.EResLinearisationFailure, cd.Node.Range.Start, "%s", err.Error())
			mro = append([]string{name}, bases...)
		}
		mroCache[name] = mro
		return mro
	}

	for path, f := range files {
		fi := p.Files[path]
		for _, cd := range f.Contracts {
			mro := resolveMRO(cd.Name, map[string]bool{})
			ci := &ContractInfo{
				Decl:      cd,
				File:      path,
				MRO:       mro,
				Scope:     NewScope(LevelContract, fi.Scope),
				Overloads: map[string]*OverloadSet{},
			}
			declareContractMembers(ci, cd, bag)
			p.Contracts[cd.Name] = ci
		}
	}

	return p
}

func declareContractMembers(ci *ContractInfo, cd *ast.ContractDecl, bag *diag.Bag) {
	for _, sv := range cd.StateVars {
		declareOrWarn(ci.Scope, sv.Name, SymStateVar, sv.Node, bag)
	}
	for _, s := range cd.Structs {
		declareOrWarn(ci.Scope, s.Name, SymStruct, s.Node, bag)
	}
	for _, e := range cd.Enums {
		declareOrWarn(ci.Scope, e.Name, SymEnum, e.Node, bag)
	}
	for _, ut := range cd.UserTypes {
		declareOrWarn(ci.Scope, ut.Name, SymUserType, ut.Node, bag)
	}
	for _, ev := range cd.Events {
		declareOrWarn(ci.Scope, ev.Name, SymEvent, ev.Node, bag)
	}
	for _, er := range cd.Errors {
		declareOrWarn(ci.Scope, er.Name, SymError, er.Node, bag)
	}
	for _, m := range cd.Modifiers {
		declareOrWarn(ci.Scope, m.Name, SymModifier, m.Node, bag)
	}
	for _, fn := range cd.Functions {
		set, ok := ci.Overloads[fn.Name]
		if !ok {
			set = NewOverloadSet(fn.Name)
			ci.Overloads[fn.Name] = set
			ci.Scope.Declare(&Symbol{Name: fn.Name, Kind: SymFunction, Decl: fn.Node})
		}
		if !set.Add(fn) {
			bag.Addf(diag.Error, diag.EResAmbiguousOverload, fn.Node.Range.Start,
				"function %q is declared more than once with the same parameter types", fn.Name)
		}
	}
}

func declareOrWarn(s *Scope, name string, kind SymbolKind, node ast.Node, bag *diag.Bag) {
	if !s.Declare(&Symbol{Name: name, Kind: kind, Decl: node}) {
		bag.Addf(diag.Warning, diag.WResDuplicateTopLevel, node.Range.Start, "%q is already declared in this scope", name)
	}
}

func declareTopLevel(s *Scope, name string, kind SymbolKind, node ast.Node, bag *diag.Bag) {
	declareOrWarn(s, name, kind, node, bag)
}

func declareImportNames(s *Scope, imp *ast.Import, bag *diag.Bag) {
	if imp.Star {
		declareOrWarn(s, imp.Alias, SymImport, imp.Node, bag)
		return
	}
	if len(imp.Items) == 0 {
		if imp.Alias != "" {
			declareOrWarn(s, imp.Alias, SymImport, imp.Node, bag)
		}
		return
	}
	for _, it := range imp.Items {
		name := it.Name
		if it.Alias != "" {
			name = it.Alias
		}
		declareOrWarn(s, name, SymImport, imp.Node, bag)
	}
}

func freeDeclName(d ast.Decl) string {
	switch v := d.(type) {
	case *ast.StructDecl:
		return v.Name
	case *ast.EnumDecl:
		return v.Name
	case *ast.ErrorDecl:
		return v.Name
	case *ast.UserTypeDecl:
		return v.Name
	case *ast.FunctionDecl:
		return v.Name
	}
	return ""
}

func freeDeclKind(d ast.Decl) SymbolKind {
	switch d.(type) {
	case *ast.StructDecl:
		return SymStruct
	case *ast.EnumDecl:
		return SymEnum
	case *ast.ErrorDecl:
		return SymError
	case *ast.UserTypeDecl:
		return SymUserType
	case *ast.FunctionDecl:
		return SymFunction
	}
	return SymStruct
}

func freeDeclNode(d ast.Decl) ast.Node {
	switch v := d.(type) {
	case *ast.StructDecl:
		return v.Node
	case *ast.EnumDecl:
		return v.Node
	case *ast.ErrorDecl:
		return v.Node
	case *ast.UserTypeDecl:
		return v.Node
	case *ast.FunctionDecl:
		return v.Node
	}
	return ast.Node{}
}

func collectUsingFor(f *ast.File) []*ast.UsingForDecl {
	var out []*ast.UsingForDecl
	for _, cd := range f.Contracts {
		out = append(out, cd.Usings...)
	}
	return out
}

func typeKeyOf(t ast.TypeExpr) string {
	return mangleTypeExpr(t)
}

// topoOrderImports resolves every file's imports against the other parsed
// files and returns a best-effort dependency order (DFS post-order); the
// second return reports whether any cycle was observed. Cycles are
// permitted (spec 7's import taxonomy), so this only records an Info
// diagnostic rather than failing the build.
func topoOrderImports(files map[string]*ast.File, importMap ImportMap, searchPaths []string, bag *diag.Bag) ([]string, bool) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var order []string
	cyclic := false

	var visit func(path string)
	visit = func(path string) {
		color[path] = gray
		f, ok := files[path]
		if ok {
			for _, imp := range f.Imports {
				target, resolved := Resolve(imp.Path, path, importMap, searchPaths)
				if !resolved {
					bag.Addf(diag.Error, diag.EImportUnresolved, imp.Node.Range.Start, "cannot resolve import %q", imp.Path)
					continue
				}
				if _, known := files[target]; !known {
					bag.Addf(diag.Error, diag.EImportUnresolved, imp.Node.Range.Start, "import %q does not resolve to a parsed source file", imp.Path)
					continue
				}
				switch color[target] {
				case white:
					visit(target)
				case gray:
					cyclic = true
					bag.Addf(diag.Info, diag.EImportCycle, imp.Node.Range.Start, "cyclic import involving %q (permitted)", imp.Path)
				}
			}
		}
		color[path] = black
		order = append(order, path)
	}

	for _, p := range paths {
		if color[p] == white {
			visit(p)
		}
	}
	return order, cyclic
}
