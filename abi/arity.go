package abi

import (
	"github.com/wippyai/canon-abi/layout"
	"go.bytecodealliance.org/wit"
)

// Fixed arities

func (GetArg) Arity() (int, int)             { return 0, 1 }
func (I32Const) Arity() (int, int)           { return 0, 1 }
func (IterElem) Arity() (int, int)           { return 0, 1 }
func (IterBasePointer) Arity() (int, int)    { return 0, 1 }
func (VariantPayloadName) Arity() (int, int) { return 0, 1 }
func (Malloc) Arity() (int, int)             { return 0, 1 }

func (I32Load) Arity() (int, int)        { return 1, 1 }
func (I32Load8U) Arity() (int, int)      { return 1, 1 }
func (I32Load8S) Arity() (int, int)      { return 1, 1 }
func (I32Load16U) Arity() (int, int)     { return 1, 1 }
func (I32Load16S) Arity() (int, int)     { return 1, 1 }
func (I64Load) Arity() (int, int)        { return 1, 1 }
func (F32Load) Arity() (int, int)        { return 1, 1 }
func (F64Load) Arity() (int, int)        { return 1, 1 }
func (PointerLoad) Arity() (int, int)    { return 1, 1 }
func (LengthLoad) Arity() (int, int)     { return 1, 1 }
func (I32FromBool) Arity() (int, int)    { return 1, 1 }
func (I32FromU8) Arity() (int, int)      { return 1, 1 }
func (I32FromS8) Arity() (int, int)      { return 1, 1 }
func (I32FromU16) Arity() (int, int)     { return 1, 1 }
func (I32FromS16) Arity() (int, int)     { return 1, 1 }
func (I32FromU32) Arity() (int, int)     { return 1, 1 }
func (I32FromS32) Arity() (int, int)     { return 1, 1 }
func (I32FromChar) Arity() (int, int)    { return 1, 1 }
func (I64FromU64) Arity() (int, int)     { return 1, 1 }
func (I64FromS64) Arity() (int, int)     { return 1, 1 }
func (CoreF32FromF32) Arity() (int, int) { return 1, 1 }
func (CoreF64FromF64) Arity() (int, int) { return 1, 1 }
func (BoolFromI32) Arity() (int, int)    { return 1, 1 }
func (U8FromI32) Arity() (int, int)      { return 1, 1 }
func (S8FromI32) Arity() (int, int)      { return 1, 1 }
func (U16FromI32) Arity() (int, int)     { return 1, 1 }
func (S16FromI32) Arity() (int, int)     { return 1, 1 }
func (U32FromI32) Arity() (int, int)     { return 1, 1 }
func (S32FromI32) Arity() (int, int)     { return 1, 1 }
func (CharFromI32) Arity() (int, int)    { return 1, 1 }
func (U64FromI64) Arity() (int, int)     { return 1, 1 }
func (S64FromI64) Arity() (int, int)     { return 1, 1 }
func (F32FromCoreF32) Arity() (int, int) { return 1, 1 }
func (F64FromCoreF64) Arity() (int, int) { return 1, 1 }
func (EnumLower) Arity() (int, int)      { return 1, 1 }
func (EnumLift) Arity() (int, int)       { return 1, 1 }
func (HandleLower) Arity() (int, int)    { return 1, 1 }
func (HandleLift) Arity() (int, int)     { return 1, 1 }

func (I32Store) Arity() (int, int)     { return 2, 0 }
func (I32Store8) Arity() (int, int)    { return 2, 0 }
func (I32Store16) Arity() (int, int)   { return 2, 0 }
func (I64Store) Arity() (int, int)     { return 2, 0 }
func (F32Store) Arity() (int, int)     { return 2, 0 }
func (F64Store) Arity() (int, int)     { return 2, 0 }
func (PointerStore) Arity() (int, int) { return 2, 0 }
func (LengthStore) Arity() (int, int)  { return 2, 0 }

func (PushBlock) Arity() (int, int)   { return 0, 0 }
func (EnterCall) Arity() (int, int)   { return 0, 0 }
func (ExitCall) Arity() (int, int)    { return 0, 0 }
func (StringLower) Arity() (int, int) { return 1, 2 }
func (StringLift) Arity() (int, int)  { return 2, 1 }

func (ListCanonLower) Arity() (int, int) { return 1, 2 }
func (ListCanonLift) Arity() (int, int)  { return 2, 1 }
func (ListLower) Arity() (int, int)      { return 1, 2 }
func (ListLift) Arity() (int, int)       { return 2, 1 }

// Shape-dependent arities

func (i ConstZero) Arity() (int, int)   { return 0, len(i.Types) }
func (Pick) Arity() (int, int)          { return 0, 1 }
func (i Roll) Arity() (int, int)        { return i.Depth + 1, i.Depth + 1 }
func (i Drop) Arity() (int, int)        { return i.Count, 0 }
func (i FinishBlock) Arity() (int, int) { return i.Results, 0 }
func (i Bitcasts) Arity() (int, int)    { return len(i.Casts), len(i.Casts) }
func (i Return) Arity() (int, int)      { return i.Amt, 0 }
func (i Flush) Arity() (int, int)       { return i.Amt, i.Amt }

func (i RecordLower) Arity() (int, int) { return 1, len(i.Record.Fields) }
func (i RecordLift) Arity() (int, int)  { return len(i.Record.Fields), 1 }
func (i TupleLower) Arity() (int, int)  { return 1, len(i.Tuple.Types) }
func (i TupleLift) Arity() (int, int)   { return len(i.Tuple.Types), 1 }
func (i FlagsLower) Arity() (int, int)  { return 1, flagWords(i.Flags) }
func (i FlagsLift) Arity() (int, int)   { return flagWords(i.Flags), 1 }

func (i VariantLower) Arity() (int, int) { return 1, len(i.Results) }
func (VariantLift) Arity() (int, int)    { return 1, 1 }
func (i OptionLower) Arity() (int, int)  { return 1, len(i.Results) }
func (OptionLift) Arity() (int, int)     { return 1, 1 }
func (i ResultLower) Arity() (int, int)  { return 1, len(i.Results) }
func (ResultLift) Arity() (int, int)     { return 1, 1 }

func (i CallWasm) Arity() (int, int)      { return len(i.Sig.Params), len(i.Sig.Results) }
func (i CallInterface) Arity() (int, int) { return len(i.Func.Params), len(i.Func.Results) }

// Block consumers

func (ListLower) Blocks() int      { return 1 }
func (ListLift) Blocks() int       { return 1 }
func (i VariantLower) Blocks() int { return len(i.Variant.Cases) }
func (i VariantLift) Blocks() int  { return len(i.Variant.Cases) }
func (OptionLower) Blocks() int    { return 2 }
func (OptionLift) Blocks() int     { return 2 }
func (ResultLower) Blocks() int    { return 2 }
func (ResultLift) Blocks() int     { return 2 }

func flagWords(f *wit.Flags) int {
	return layout.FlagsWords(len(f.Flags))
}
