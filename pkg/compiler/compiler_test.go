package compiler

import (
	"strings"
	"testing"

	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/resolver"
	"synnergy-network/synthesis/internal/target"
)

const counterSrc = `contract Counter {
	uint256 public count;

	event CountChanged(uint256 indexed newCount);

	function increment(uint256 n) public returns (uint256) {
		count = count + n;
		emit CountChanged(count);
		return count;
	}

	function get() public view returns (uint256) {
		return count;
	}
}`

func TestCompileProducesAPackageForEveryTarget(t *testing.T) {
	for _, tgt := range []target.Name{target.T1WasmContracts, target.T2SBF, target.T3BoundedLedger} {
		opts := Options{
			Sources: map[string][]byte{"/virtual/counter.sol": []byte(counterSrc)},
			Target:  tgt,
		}
		res, err := Compile(opts)
		if err != nil {
			t.Fatalf("%v: Compile returned an error: %v (diagnostics: %v)", tgt, err, res.Diagnostics.Sorted())
		}
		if len(res.Package.Modules) != 1 || res.Package.Modules[0].Contract != "Counter" {
			t.Fatalf("%v: Modules = %+v, want exactly [Counter]", tgt, res.Package.Modules)
		}
		if len(res.Package.Metadata) != 1 {
			t.Fatalf("%v: Metadata = %+v, want exactly one contract", tgt, res.Package.Metadata)
		}
		meta := res.Package.Metadata[0]
		if len(meta.Functions) != 2 {
			t.Fatalf("%v: Functions = %+v, want increment and get", tgt, meta.Functions)
		}
		if len(meta.Storage) != 1 || meta.Storage[0].Name != "count" {
			t.Fatalf("%v: Storage = %+v, want exactly [count]", tgt, meta.Storage)
		}
		if len(meta.Events) != 1 || meta.Events[0].Name != "CountChanged" || len(meta.Events[0].Topic0) == 0 {
			t.Fatalf("%v: Events = %+v, want a non-anonymous CountChanged with a topic0", tgt, meta.Events)
		}

		js, err := res.Package.WriteJSON()
		if err != nil {
			t.Fatalf("%v: WriteJSON: %v", tgt, err)
		}
		if !strings.Contains(string(js), "CountChanged") {
			t.Fatalf("%v: JSON output missing CountChanged", tgt)
		}
	}
}

func TestCompileAssignsADistinctRunIDPerCall(t *testing.T) {
	opts := Options{Sources: map[string][]byte{"/virtual/counter.sol": []byte(counterSrc)}, Target: target.T1WasmContracts}

	res1, err := Compile(opts)
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	res2, err := Compile(opts)
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	if res1.RunID == "" || res2.RunID == "" {
		t.Fatal("RunID should never be empty")
	}
	if res1.RunID == res2.RunID {
		t.Fatal("two separate Compile calls should not share a RunID")
	}
}

func TestCompileHonoursSelectorOverride(t *testing.T) {
	src := `contract C {
	@selector(0xaabbccdd)
	function f(uint256 a) public pure returns (uint256) { return a; }
}`
	opts := Options{
		Sources: map[string][]byte{"/virtual/c.sol": []byte(src)},
		Target:  target.T1WasmContracts,
	}
	res, err := Compile(opts)
	if err != nil {
		t.Fatalf("Compile returned an error: %v (diagnostics: %v)", err, res.Diagnostics.Sorted())
	}
	fn := res.Package.Metadata[0].Functions[0]
	want := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	if string(fn.Selector) != string(want) {
		t.Fatalf("Selector = %x, want override %x", fn.Selector, want)
	}
	if string(fn.ComputedSelector) == string(want) {
		t.Fatal("ComputedSelector should record the would-be-computed value, distinct from the override")
	}
}

func TestCompileWarnsOnDisagreeingSelectorOverrideAcrossInheritance(t *testing.T) {
	src := `contract Base {
	@selector(0xaabbccdd)
	function f(uint256 a) public virtual pure returns (uint256) { return a; }
}

contract Child is Base {
	@selector(0x11223344)
	function f(uint256 a) public override pure returns (uint256) { return a; }
}`
	opts := Options{
		Sources: map[string][]byte{"/virtual/c.sol": []byte(src)},
		Target:  target.T1WasmContracts,
	}
	res, err := Compile(opts)
	if err != nil {
		t.Fatalf("Compile returned an error: %v (diagnostics: %v)", err, res.Diagnostics.Sorted())
	}
	var found bool
	for _, d := range res.Diagnostics.Sorted() {
		if d.Code == diag.WCodecSelectorOverrideMismatch {
			found = true
		}
	}
	if !found {
		t.Fatal("expected WCodecSelectorOverrideMismatch when Base and Child disagree on f's @selector")
	}
}

func TestCompileReportsResolutionErrors(t *testing.T) {
	src := `contract C {
	function f() public pure returns (uint256) { return undeclaredName; }
}`
	opts := Options{
		Sources: map[string][]byte{"/virtual/bad.sol": []byte(src)},
		Target:  target.T1WasmContracts,
	}
	_, err := Compile(opts)
	if err == nil {
		t.Fatal("expected an error compiling a contract that references an undeclared name")
	}
}

func TestCompileSkipsConstantStateVariablesInLayout(t *testing.T) {
	src := `contract C {
	uint256 constant MAX = 100;
	uint256 public total;

	function get() public view returns (uint256) { return total; }
}`
	opts := Options{
		Sources:   map[string][]byte{"/virtual/const.sol": []byte(src)},
		Target:    target.T1WasmContracts,
		ImportMap: resolver.ImportMap{},
	}
	res, err := Compile(opts)
	if err != nil {
		t.Fatalf("Compile returned an error: %v (diagnostics: %v)", err, res.Diagnostics.Sorted())
	}
	storage := res.Package.Metadata[0].Storage
	if len(storage) != 1 || storage[0].Name != "total" {
		t.Fatalf("Storage = %+v, want only the non-constant variable total", storage)
	}
}
