package resolver

import (
	"testing"

	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/parser"
	"synnergy-network/synthesis/internal/testutil"
)

func parseSrc(t *testing.T, path, src string) *ast.File {
	t.Helper()
	bag := diag.NewBag()
	f := parser.New(path, []byte(src), bag).ParseFile()
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %s: %v", path, bag.Sorted())
	}
	return f
}

func TestBuildProgramImportOrderAndLinearisation(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatal(err)
	}
	defer sb.Cleanup()

	baseSrc := `contract Base {
	uint256 public x;
	function get() public view returns (uint256) { return x; }
}`
	midSrc := `import "./base.sol";
contract Mid is Base {
	function getMid() public view returns (uint256) { return x; }
}`
	childSrc := `import "./base.sol";
import "./mid.sol";
contract Child is Mid, Base {
	function getChild() public view returns (uint256) { return x; }
}`

	basePath := sb.Path("base.sol")
	midPath := sb.Path("mid.sol")
	childPath := sb.Path("child.sol")

	files := map[string]*ast.File{
		basePath:  parseSrc(t, basePath, baseSrc),
		midPath:   parseSrc(t, midPath, midSrc),
		childPath: parseSrc(t, childPath, childSrc),
	}

	bag := diag.NewBag()
	prog := BuildProgram(files, ImportMap{}, nil, bag)

	if len(prog.Order) != 3 {
		t.Fatalf("expected 3 files in dependency order, got %d: %v", len(prog.Order), prog.Order)
	}
	// base.sol must precede both its dependents.
	pos := map[string]int{}
	for i, p := range prog.Order {
		pos[p] = i
	}
	if pos[basePath] > pos[midPath] || pos[basePath] > pos[childPath] {
		t.Fatalf("base.sol should be visited before its dependents: order=%v", prog.Order)
	}

	child, ok := prog.Contracts["Child"]
	if !ok {
		t.Fatal("Child contract not resolved")
	}
	if len(child.MRO) != 3 {
		t.Fatalf("Child MRO = %v, want 3 entries (Child, Mid, Base)", child.MRO)
	}
	if child.MRO[0] != "Child" {
		t.Fatalf("Child MRO must start with Child itself: %v", child.MRO)
	}
	if child.MRO[len(child.MRO)-1] != "Base" {
		t.Fatalf("Child MRO must end with the common root Base: %v", child.MRO)
	}
}

func TestBuildProgramDetectsDuplicateOverloadSameSignature(t *testing.T) {
	src := `contract C {
	function f(uint256 a) public pure returns (uint256) { return a; }
	function f(uint256 a) public pure returns (uint256) { return a; }
}`
	path := "/virtual/c.sol"
	files := map[string]*ast.File{path: parseSrc(t, path, src)}
	bag := diag.NewBag()
	BuildProgram(files, ImportMap{}, nil, bag)

	found := false
	for _, d := range bag.Sorted() {
		if d.Code == diag.EResAmbiguousOverload {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a diagnostic for a duplicate same-signature function declaration")
	}
}

func TestBuildProgramAllowsDistinctOverloads(t *testing.T) {
	src := `contract C {
	function f(uint256 a) public pure returns (uint256) { return a; }
	function f(uint256 a, uint256 b) public pure returns (uint256) { return a; }
}`
	path := "/virtual/c2.sol"
	files := map[string]*ast.File{path: parseSrc(t, path, src)}
	bag := diag.NewBag()
	prog := BuildProgram(files, ImportMap{}, nil, bag)

	for _, d := range bag.Sorted() {
		if d.Code == diag.EResAmbiguousOverload {
			t.Fatalf("distinct-arity overloads should not collide: %v", d)
		}
	}
	set := prog.Contracts["C"].Overloads["f"]
	if len(set.Members()) != 2 {
		t.Fatalf("expected 2 distinct overloads of f, got %d", len(set.Members()))
	}
}

func TestLinearizeC3Diamond(t *testing.T) {
	mro := map[string][]string{
		"A": {"A"},
		"B": {"B", "A"},
		"C": {"C", "A"},
	}
	got, err := LinearizeC3("D", []string{"B", "C"}, func(name string) []string { return mro[name] })
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"D", "B", "C", "A"}
	if len(got) != len(want) {
		t.Fatalf("LinearizeC3 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LinearizeC3 = %v, want %v", got, want)
		}
	}
}

func TestLinearizeC3Inconsistent(t *testing.T) {
	mro := map[string][]string{
		"A": {"A", "B"},
		"B": {"B", "A"},
	}
	_, err := LinearizeC3("C", []string{"A", "B"}, func(name string) []string { return mro[name] })
	if err == nil {
		t.Fatal("expected a linearisation failure for an inconsistent base order")
	}
}

func TestMangledNameDistinguishesArrayAndArity(t *testing.T) {
	params1 := []ast.Param{{Type: &ast.NamedTypeExpr{Name: "uint256"}}}
	params2 := []ast.Param{{Type: &ast.ArrayTypeExpr{Elem: &ast.NamedTypeExpr{Name: "uint256"}, Fixed: false}}}
	if MangledName("f", params1) == MangledName("f", params2) {
		t.Fatal("uint256 and uint256[] should mangle differently")
	}
	if OverloadKeyOf(params1) == OverloadKeyOf(params2) {
		t.Fatal("overload keys should differ between uint256 and uint256[]")
	}
}

func TestResolveRelativeImport(t *testing.T) {
	got, ok := Resolve("./base.sol", "/root/mid.sol", ImportMap{}, nil)
	if !ok {
		t.Fatal("relative import should resolve")
	}
	want := "/root/base.sol"
	if got != want {
		t.Fatalf("Resolve(./base.sol) = %q, want %q", got, want)
	}
}

func TestResolveImportMapPrefersLongestPrefix(t *testing.T) {
	im := ImportMap{
		"@oz/":        "/vendor/oz-old/",
		"@oz/token/":  "/vendor/oz-token/",
	}
	got, ok := Resolve("@oz/token/ERC20.sol", "/src/x.sol", im, nil)
	if !ok {
		t.Fatal("import-map resolution should succeed")
	}
	want := "/vendor/oz-token/ERC20.sol"
	if got != want {
		t.Fatalf("Resolve via import map = %q, want %q (longest-prefix rule)", got, want)
	}
}
