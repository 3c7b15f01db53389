package abi

import (
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Instruction is one step of a marshalling program. The set is closed: only
// types in this package implement it.
//
// Arity reports how many operands the instruction pops and pushes on the
// operand stack of the block it executes in.
type Instruction interface {
	Arity() (pops, pushes int)
	isInstruction()
}

// BlockConsumer is implemented by instructions that consume finished blocks,
// one per case or one per list element body.
type BlockConsumer interface {
	Instruction
	Blocks() int
}

type instr struct{}

func (instr) isInstruction() {}

// Arguments and constants

type GetArg struct {
	instr
	N int
}

type I32Const struct {
	instr
	Val int32
}

// ConstZero pushes one zero per type, used to pad variant payloads.
type ConstZero struct {
	instr
	Types []api.ValueType
}

// Stack discipline

// Pick pushes a copy of the operand Depth positions below the top. It may
// read below the current block's base.
type Pick struct {
	instr
	Depth int
}

// Roll moves the operand Depth positions below the top to the top.
type Roll struct {
	instr
	Depth int
}

// Drop discards the top Count operands.
type Drop struct {
	instr
	Count int
}

// Blocks

type PushBlock struct {
	instr
}

type FinishBlock struct {
	instr
	Results int
}

// Memory. Loads pop an address. Stores pop [value, address].

type I32Load struct {
	instr
	Offset uint32
}

type I32Load8U struct {
	instr
	Offset uint32
}

type I32Load8S struct {
	instr
	Offset uint32
}

type I32Load16U struct {
	instr
	Offset uint32
}

type I32Load16S struct {
	instr
	Offset uint32
}

type I64Load struct {
	instr
	Offset uint32
}

type F32Load struct {
	instr
	Offset uint32
}

type F64Load struct {
	instr
	Offset uint32
}

type PointerLoad struct {
	instr
	Offset uint32
}

type LengthLoad struct {
	instr
	Offset uint32
}

type I32Store struct {
	instr
	Offset uint32
}

type I32Store8 struct {
	instr
	Offset uint32
}

type I32Store16 struct {
	instr
	Offset uint32
}

type I64Store struct {
	instr
	Offset uint32
}

type F32Store struct {
	instr
	Offset uint32
}

type F64Store struct {
	instr
	Offset uint32
}

type PointerStore struct {
	instr
	Offset uint32
}

type LengthStore struct {
	instr
	Offset uint32
}

// Numerics: host to core

type I32FromBool struct{ instr }
type I32FromU8 struct{ instr }
type I32FromS8 struct{ instr }
type I32FromU16 struct{ instr }
type I32FromS16 struct{ instr }
type I32FromU32 struct{ instr }
type I32FromS32 struct{ instr }
type I32FromChar struct{ instr }
type I64FromU64 struct{ instr }
type I64FromS64 struct{ instr }
type CoreF32FromF32 struct{ instr }
type CoreF64FromF64 struct{ instr }

// Numerics: core to host

type BoolFromI32 struct{ instr }
type U8FromI32 struct{ instr }
type S8FromI32 struct{ instr }
type U16FromI32 struct{ instr }
type S16FromI32 struct{ instr }
type U32FromI32 struct{ instr }
type S32FromI32 struct{ instr }
type CharFromI32 struct{ instr }
type U64FromI64 struct{ instr }
type S64FromI64 struct{ instr }
type F32FromCoreF32 struct{ instr }
type F64FromCoreF64 struct{ instr }

// Bitcasts applies Casts[i] to the i-th of the top len(Casts) operands.
type Bitcasts struct {
	instr
	Casts []Bitcast
}

// Strings and lists

type StringLower struct {
	instr
	Realloc string
}

type StringLift struct{ instr }

// ListCanonLower copies a list of numeric elements in one piece.
type ListCanonLower struct {
	instr
	Element wit.Type
	Realloc string
}

type ListCanonLift struct {
	instr
	Element wit.Type
}

// ListLower lowers a list element by element. It consumes one block that
// writes IterElem to IterBasePointer.
type ListLower struct {
	instr
	Element wit.Type
	Realloc string
}

// ListLift lifts a list element by element. It consumes one block that reads
// from IterBasePointer and yields the element.
type ListLift struct {
	instr
	Element wit.Type
}

type IterElem struct{ instr }
type IterBasePointer struct{ instr }

// Compound types

type RecordLower struct {
	instr
	Record *wit.Record
}

type RecordLift struct {
	instr
	Record *wit.Record
}

type TupleLower struct {
	instr
	Tuple *wit.Tuple
}

type TupleLift struct {
	instr
	Tuple *wit.Tuple
}

type FlagsLower struct {
	instr
	Flags *wit.Flags
}

type FlagsLift struct {
	instr
	Flags *wit.Flags
}

type EnumLower struct {
	instr
	Enum *wit.Enum
}

type EnumLift struct {
	instr
	Enum *wit.Enum
}

// Variant-like types. Each consumes one block per case, in case order.

// VariantPayloadName pushes the payload of the case whose block is open.
type VariantPayloadName struct{ instr }

type VariantLower struct {
	instr
	Variant *wit.Variant
	Results []api.ValueType
}

type VariantLift struct {
	instr
	Variant *wit.Variant
}

type OptionLower struct {
	instr
	Payload wit.Type
	Results []api.ValueType
}

type OptionLift struct {
	instr
	Payload wit.Type
}

type ResultLower struct {
	instr
	Result  *wit.Result
	Results []api.ValueType
}

type ResultLift struct {
	instr
	Result *wit.Result
}

// Resources. Handle is a *wit.Own or *wit.Borrow.

type HandleLower struct {
	instr
	Handle wit.TypeDefKind
}

type HandleLift struct {
	instr
	Handle wit.TypeDefKind
}

// Calls

type CallWasm struct {
	instr
	Sig  *Signature
	Name string
}

type CallInterface struct {
	instr
	Func *Func
}

type Return struct {
	instr
	Amt int
}

// Malloc allocates Size bytes at Align in the guest's linear memory.
type Malloc struct {
	instr
	Size  uint32
	Align uint32
}

// Flush binds the top Amt operands to temporaries and pushes them back.
type Flush struct {
	instr
	Amt int
}

// EnterCall opens a call scope for borrows lowered into the callee.
type EnterCall struct{ instr }

// ExitCall closes the call scope; borrows still live are a violation.
type ExitCall struct{ instr }
