package irbuild

import (
	"synnergy-network/synthesis/internal/ast"
	"synnergy-network/synthesis/internal/diag"
	"synnergy-network/synthesis/internal/layout"
	"synnergy-network/synthesis/internal/types"
)

// mutabilityRank orders spec 4.3's four declared-mutability levels from
// least to most permissive: a declaration may only sit at or above the
// rank its body actually requires, never below it.
func mutabilityRank(m ast.Mutability) int {
	switch m {
	case ast.MutPure:
		return 0
	case ast.MutView:
		return 1
	case ast.MutPayable:
		return 3
	default: // ast.MutNonpayable
		return 2
	}
}

func stateVarNames(lay *layout.Layout) map[string]bool {
	out := map[string]bool{}
	if lay == nil {
		return out
	}
	for name := range lay.ByName {
		out[name] = true
	}
	return out
}

// checkMutability enforces spec 4.3's property law 4 ("declared mutability
// may only be more permissive than inferred; a less-permissive declaration
// is an error") against one already-parsed function or constructor body.
func (b *Builder) checkMutability(declared ast.Mutability, body *ast.Block, lay *layout.Layout, r ast.Range) {
	finding := types.InferMutability(body, stateVarNames(lay))
	required := 0
	switch {
	case finding.ReceivesValue:
		required = 3
	case finding.Writes:
		required = 2
	case finding.Reads:
		required = 1
	}
	if mutabilityRank(declared) >= required {
		return
	}
	switch declared {
	case ast.MutPure:
		b.Diags.Addf(diag.Error, diag.EMutDeclaredPureButReadsOrWrites, pos(r), "function declared pure but its body reads or writes state")
	case ast.MutView:
		b.Diags.Addf(diag.Error, diag.EMutDeclaredViewButWrites, pos(r), "function declared view but its body writes state")
	case ast.MutNonpayable:
		b.Diags.Addf(diag.Error, diag.EMutNonPayableButReceivesValue, pos(r), "function declared non-payable but its body receives value")
	default:
		// Every declared rank has a dedicated case above except payable,
		// which is never too restrictive; this only exists so the code
		// stays meaningful if mutabilityRank's default branch is ever hit.
		b.Diags.Addf(diag.Error, diag.EMutDeclarationTooRestrictive, pos(r), "declared mutability is more restrictive than the body requires")
	}
}
