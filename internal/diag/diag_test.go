package diag

import (
	"testing"

	"synnergy-network/synthesis/internal/token"
)

func TestSortedOrdersByFileThenOffsetThenCode(t *testing.T) {
	b := NewBag()
	b.Add(Diagnostic{Severity: Error, Code: ETypeSignMismatch, Pos: token.Position{File: "b.sol", Offset: 5}})
	b.Add(Diagnostic{Severity: Error, Code: ELexIllegalChar, Pos: token.Position{File: "a.sol", Offset: 10}})
	b.Add(Diagnostic{Severity: Warning, Code: WResDuplicateTopLevel, Pos: token.Position{File: "a.sol", Offset: 1}})
	b.Add(Diagnostic{Severity: Error, Code: ETypeSignMismatch, Pos: token.Position{File: "a.sol", Offset: 10}})

	got := b.Sorted()
	want := []struct {
		file   string
		offset int
		code   Code
	}{
		{"a.sol", 1, WResDuplicateTopLevel},
		{"a.sol", 10, ELexIllegalChar},
		{"a.sol", 10, ETypeSignMismatch},
		{"b.sol", 5, ETypeSignMismatch},
	}
	if len(got) != len(want) {
		t.Fatalf("len mismatch: got %d want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Pos.File != w.file || got[i].Pos.Offset != w.offset || got[i].Code != w.code {
			t.Fatalf("index %d: got %+v want %+v", i, got[i], w)
		}
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag()
	if b.HasErrors() {
		t.Fatalf("empty bag must not have errors")
	}
	b.Addf(Warning, WResDuplicateTopLevel, token.Position{}, "shadowed")
	if b.HasErrors() {
		t.Fatalf("warning-only bag must not have errors")
	}
	b.Addf(Error, EResUnknownName, token.Position{}, "unknown %q", "x")
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: Error, Code: ELexIllegalChar, Pos: token.Position{File: "f.sol", Line: 3, Col: 4}, Message: "bad char"}
	want := "f.sol:3:4: error[1000]: bad char"
	if got := d.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
