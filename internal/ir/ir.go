// Package ir defines the control-flow-graph data model of component C5
// (spec section 3.4): basic blocks of SSA-style instructions terminated by
// a terminator, built by internal/irbuild from the resolved, typed AST and
// consumed by internal/backend (for serialisation into compiler metadata).
package ir

import (
	"synnergy-network/synthesis/internal/target"
	"synnergy-network/synthesis/internal/token"
	"synnergy-network/synthesis/internal/types"
)

// ValueID names the result of an instruction (or a block parameter) within
// one function; it is never reused across functions.
type ValueID uint32

// BlockID names one basic block within a function.
type BlockID uint32

// Instr is the tagged union of instruction kinds (spec 3.4's exhaustive
// list for the core). Every instruction that produces a value sets Result
// (ValueID 0 is a valid result when a function has no parameters);
// BoundsCheck, Store, and Emit produce none.
type Instr interface {
	instrNode()
	InstrPos() token.Position
}

// Base is the common embeddable fields of every instruction.
type Base struct {
	Result ValueID
	Type   *types.Type // nil for instructions with no result
	Pos    token.Position
}

func (b Base) InstrPos() token.Position { return b.Pos }

// ConstInt is a folded integer/bool constant materialised as an IR value
// (the final truncated form produced by internal/consteval).
type ConstInt struct {
	Base
	Value int64 // for values needing more than 64 bits, Big is populated instead
	Big   []byte // big-endian magnitude; nil when Value suffices
	Neg   bool
}

// ConstBool is a folded boolean constant.
type ConstBool struct {
	Base
	Value bool
}

// ConstBytes is a folded bytes/string/address constant.
type ConstBytes struct {
	Base
	Value []byte
}

// ArithOp identifies one of spec 3.4's arithmetic/bitwise/comparison/shift
// operators lowered from internal/parser's operator-string spelling.
type ArithOp string

const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
	OpMod ArithOp = "%"
	OpPow ArithOp = "**"
	OpAnd ArithOp = "&"
	OpOr  ArithOp = "|"
	OpXor ArithOp = "^"
	OpShl ArithOp = "<<"
	OpShr ArithOp = ">>"
	OpEq  ArithOp = "=="
	OpNeq ArithOp = "!="
	OpLt  ArithOp = "<"
	OpLte ArithOp = "<="
	OpGt  ArithOp = ">"
	OpGte ArithOp = ">="
)

// BinOp is one arithmetic/bitwise/comparison/shift instruction. Overflow is
// only meaningful for Add/Sub/Mul/Pow on Int/Uint operands (spec 4.5:
// "Integer arithmetic. By default overflow-checked ... inside unchecked{}
// the flag is off").
type BinOp struct {
	Base
	Op       ArithOp
	Left     ValueID
	Right    ValueID
	Overflow bool // trap-on-overflow flag; off inside unchecked{} (irbuild's uncheckedDepth)
}

// Load reads a value out of storage, memory, or calldata.
type Load struct {
	Base
	From LoadLocation
	Addr ValueID // slot number (storage) or byte offset (memory/calldata)
}

// LoadLocation distinguishes where a Load/Store instruction reads or
// writes, independent of ABI dialect.
type LoadLocation int

const (
	LocStorage LoadLocation = iota
	LocMemory
	LocCalldata
)

// Store writes Value into storage or memory at Addr.
type Store struct {
	Base
	To    LoadLocation
	Addr  ValueID
	Value ValueID
}

// Alloc reserves n*sizeof(T) bytes in the value-heap and returns a memory
// reference (spec 3.4: "Alloc(mem, T, n?)").
type Alloc struct {
	Base
	Elem *types.Type
	N    ValueID // zero ValueID means n=1 (a scalar allocation)
}

// PhiEdge is one (predecessor block, incoming value) pair of a Phi.
type PhiEdge struct {
	Block BlockID
	Value ValueID
}

// Phi merges values from multiple predecessor blocks.
type Phi struct {
	Base
	Edges []PhiEdge
}

// CallKind distinguishes the call variants of spec 3.4.
type CallKind int

const (
	CallInternalDirect CallKind = iota
	CallInternalIndirect
	CallExternal
	CallDelegate
	CallStatic
	CallConstructor
)

// CallOptions are the optional named call-site options (spec 4.5); a zero
// ValueID in any field means that option was not supplied.
type CallOptions struct {
	Value     ValueID
	Gas       ValueID
	Salt      ValueID
	Accounts  ValueID
	Seeds     ValueID
	ProgramID ValueID
	Address   ValueID
	Space     ValueID
}

// Call is one call instruction; Callee is a function-pointer value for
// CallInternalIndirect, or unused (target resolved statically by Target)
// otherwise.
type Call struct {
	Base
	Kind    CallKind
	Target  string // statically resolved callee name, empty for indirect calls
	Callee  ValueID
	Args    []ValueID
	Options CallOptions
}

// Encode lowers args into a byte sequence under dialect d; Selector is
// empty for a bare `abi.encode` call with no dispatch selector prefix.
type Encode struct {
	Base
	Dialect  target.Dialect
	Packed   bool
	Selector []byte
	Args     []ValueID
}

// Decode lowers a byte sequence back into a tuple of typed values.
type Decode struct {
	Base
	Dialect target.Dialect
	Bytes   ValueID
	Types   []*types.Type
}

// Emit records an event; Topics[0] is the signature hash unless Anonymous.
type Emit struct {
	Base
	Event     string
	Anonymous bool
	Topics    []ValueID
	Data      []ValueID
}

// Builtin invokes a named runtime primitive (keccak256, blake2_256, sha256,
// ed25519_verify, format, addmod, mulmod, big-int divmod, SCALE compact
// encode, ...; spec 3.4/4.5). The concrete set of names is the registration
// table in internal/irbuild.
type Builtin struct {
	Base
	Name string
	Args []ValueID
}

// BoundsCheck traps if Index is outside [0, Length).
type BoundsCheck struct {
	Base
	Index  ValueID
	Length ValueID
}

// ConvKind distinguishes the four numeric/reference conversion instructions
// of spec 3.4's final bullet.
type ConvKind int

const (
	ConvZeroExt ConvKind = iota
	ConvSignExt
	ConvTrunc
	ConvPayableCast
)

// Conv is a width-changing or payable-reinterpretation conversion.
type Conv struct {
	Base
	Kind ConvKind
	X    ValueID
}

func (*ConstInt) instrNode()     {}
func (*ConstBool) instrNode()    {}
func (*ConstBytes) instrNode()   {}
func (*BinOp) instrNode()        {}
func (*Load) instrNode()         {}
func (*Store) instrNode()        {}
func (*Alloc) instrNode()        {}
func (*Phi) instrNode()          {}
func (*Call) instrNode()         {}
func (*Encode) instrNode()       {}
func (*Decode) instrNode()       {}
func (*Emit) instrNode()         {}
func (*Builtin) instrNode()      {}
func (*BoundsCheck) instrNode()  {}
func (*Conv) instrNode()         {}
