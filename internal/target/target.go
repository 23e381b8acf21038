// Package target implements component C7: the single parameterised table of
// per-target feature flags, address/selector widths, default wire dialect,
// required account annotations, and runtime primitive availability that
// internal/irbuild and internal/abi consult throughout lowering (spec
// section 4.7, feature table in section 4.5).
package target

import "fmt"

// Name is the closed enum of supported host runtimes.
type Name int

const (
	T1WasmContracts Name = iota
	T2SBF
	T3BoundedLedger
)

func (n Name) String() string {
	switch n {
	case T1WasmContracts:
		return "T1WasmContracts"
	case T2SBF:
		return "T2SBF"
	case T3BoundedLedger:
		return "T3BoundedLedger"
	}
	return fmt.Sprintf("Name(%d)", int(n))
}

// ParseName accepts the CLI/config spelling of a target name.
func ParseName(s string) (Name, bool) {
	switch s {
	case "T1WasmContracts", "t1", "wasm-contracts":
		return T1WasmContracts, true
	case "T2SBF", "t2", "sbf":
		return T2SBF, true
	case "T3BoundedLedger", "t3", "bounded-ledger":
		return T3BoundedLedger, true
	}
	return 0, false
}

// Dialect is one of the three ABI wire conventions of spec section 4.6.
// A dialect may be requested explicitly by a contract's `abi.encode` call
// regardless of target; each target additionally has one default dialect
// used for its own entry-point dispatch table (see Info.DefaultDialect).
type Dialect int

const (
	Dialect1Word32    Dialect = iota // 32-byte word, keccak256 4-byte selector
	Dialect2CompactLE                // compact-LE, blake2b-256 4-byte selector
	Dialect3Borsh                    // borsh-style, sha256 8-byte discriminator
)

func (d Dialect) String() string {
	switch d {
	case Dialect1Word32:
		return "dialect1-word32"
	case Dialect2CompactLE:
		return "dialect2-compact-le"
	case Dialect3Borsh:
		return "dialect3-borsh"
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// SelectorWidth returns the selector/discriminator width a dialect produces
// by construction (spec section 6: "4 bytes (dialects 1 & 2), 8 bytes
// (dialect 3)").
func (d Dialect) SelectorWidth() int {
	if d == Dialect3Borsh {
		return 8
	}
	return 4
}

// Feature names one row of the per-target semantic table (spec 4.5).
type Feature string

const (
	FeatTxOrigin            Feature = "tx.origin"
	FeatBlockEnvExtended     Feature = "block.coinbase/difficulty/gaslimit"
	FeatSelfdestruct         Feature = "selfdestruct"
	FeatTryCatch             Feature = "try/catch"
	FeatSendTransfer         Feature = "send/transfer"
	FeatLamportsAdjust       Feature = "lamports+=/-="
	FeatNewCallOptionsFull   Feature = "new{value,salt,gas}(full)"
	FeatNewCallOptionsSBF    Feature = "new{address,space,accounts,seeds}"
	FeatBlake2               Feature = "blake2_128/256"
	FeatEd25519Verify        Feature = "ed25519_verify"
	FeatExtendTtl            Feature = "extendTtl"
	FeatContractRefAsValue   Feature = "ContractRef-as-value"
)

// AccountAnnotation is one of the T2 account-metadata annotations (spec
// section 6 "Annotations").
type AccountAnnotation string

const (
	AnnAccount        AccountAnnotation = "account"
	AnnMutableAccount AccountAnnotation = "mutableAccount"
	AnnSigner         AccountAnnotation = "signer"
	AnnMutableSigner  AccountAnnotation = "mutableSigner"
	AnnPayer          AccountAnnotation = "payer"
	AnnProgramID      AccountAnnotation = "program_id"
)

// Primitive names one entry of the per-target runtime primitive inventory.
// internal/irbuild's builtin dispatch table does not consult it; each
// builtin there carries its own target mask.
type Primitive string

const (
	PrimKeccak256      Primitive = "keccak256"
	PrimSha256         Primitive = "sha256"
	PrimBlake2_128     Primitive = "blake2_128"
	PrimBlake2_256     Primitive = "blake2_256"
	PrimEd25519Verify  Primitive = "ed25519_verify"
	PrimAddMod         Primitive = "addmod"
	PrimMulMod         Primitive = "mulmod"
	PrimDivModU256     Primitive = "divmod_u256"
	PrimDivModI256     Primitive = "divmod_i256"
	PrimMalloc         Primitive = "__malloc"
	PrimScaleCompactEnc Primitive = "scale_compact_encode"
	PrimScaleCompactDec Primitive = "scale_compact_decode"
)

// Info is the complete per-target contract.
type Info struct {
	Name Name

	// AddressWidth is 0 on T3, which has no address value type (spec 4.5's
	// "Address length (bytes)" row shows "—" for bounded-ledger).
	AddressWidth int
	SelectorWidth int
	DefaultDialect Dialect

	Features     map[Feature]bool
	RequiredAccountAnnotations []AccountAnnotation
	Primitives   map[Primitive]bool
}

// HasFeature reports whether f is available on this target.
func (i *Info) HasFeature(f Feature) bool { return i.Features[f] }

// HasPrimitive reports whether the named runtime primitive is callable on
// this target.
func (i *Info) HasPrimitive(p Primitive) bool { return i.Primitives[p] }

var table = map[Name]*Info{
	T1WasmContracts: {
		Name:           T1WasmContracts,
		AddressWidth:   32,
		SelectorWidth:  4,
		DefaultDialect: Dialect2CompactLE,
		Features: map[Feature]bool{
			FeatSelfdestruct:       true,
			FeatTryCatch:           true,
			FeatSendTransfer:       true,
			FeatNewCallOptionsFull: true,
			FeatBlake2:             true,
			FeatContractRefAsValue: true,
		},
		Primitives: map[Primitive]bool{
			PrimKeccak256: true, PrimSha256: true,
			PrimBlake2_128: true, PrimBlake2_256: true,
			PrimAddMod: true, PrimMulMod: true,
			PrimDivModU256: true, PrimDivModI256: true,
			PrimMalloc: true,
			PrimScaleCompactEnc: true, PrimScaleCompactDec: true,
		},
	},
	T2SBF: {
		Name:           T2SBF,
		AddressWidth:   32,
		SelectorWidth:  8,
		DefaultDialect: Dialect3Borsh,
		Features: map[Feature]bool{
			FeatLamportsAdjust:    true,
			FeatNewCallOptionsSBF: true,
			FeatEd25519Verify:     true,
		},
		RequiredAccountAnnotations: []AccountAnnotation{
			AnnAccount, AnnMutableAccount, AnnSigner, AnnMutableSigner, AnnPayer, AnnProgramID,
		},
		Primitives: map[Primitive]bool{
			PrimKeccak256: true, PrimSha256: true,
			PrimEd25519Verify: true,
			PrimAddMod:        true, PrimMulMod: true,
			PrimDivModU256: true, PrimDivModI256: true,
			PrimMalloc: true,
		},
	},
	T3BoundedLedger: {
		Name:           T3BoundedLedger,
		AddressWidth:   0,
		SelectorWidth:  4,
		DefaultDialect: Dialect2CompactLE,
		Features: map[Feature]bool{
			FeatTryCatch:  true,
			FeatExtendTtl: true,
		},
		Primitives: map[Primitive]bool{
			PrimKeccak256: true, PrimSha256: true,
			PrimAddMod: true, PrimMulMod: true,
			PrimDivModU256: true, PrimDivModI256: true,
			PrimMalloc: true,
			PrimScaleCompactEnc: true, PrimScaleCompactDec: true,
		},
	},
}

// For returns the fixed Info for n. n is always one of the three declared
// constants, so this never needs an "ok" return.
func For(n Name) *Info { return table[n] }

// All returns every target's Info, ordered T1, T2, T3.
func All() []*Info {
	return []*Info{table[T1WasmContracts], table[T2SBF], table[T3BoundedLedger]}
}
