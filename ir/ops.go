package ir

// Runtime helpers. Each maps to one function in package rt.
const (
	// memory
	OpI32Load    Op = "I32Load"
	OpI32Load8U  Op = "I32Load8U"
	OpI32Load8S  Op = "I32Load8S"
	OpI32Load16U Op = "I32Load16U"
	OpI32Load16S Op = "I32Load16S"
	OpI64Load    Op = "I64Load"
	OpF32Load    Op = "F32Load"
	OpF64Load    Op = "F64Load"
	OpI32Store   Op = "I32Store"
	OpI32Store8  Op = "I32Store8"
	OpI32Store16 Op = "I32Store16"
	OpI64Store   Op = "I64Store"
	OpF32Store   Op = "F32Store"
	OpF64Store   Op = "F64Store"
	OpAlloc      Op = "Alloc"
	OpElemAddr   Op = "ElemAddr"

	// host to core
	OpI32FromBool        Op = "I32FromBool"
	OpI32FromU8          Op = "I32FromU8"
	OpI32FromS8          Op = "I32FromS8"
	OpI32FromU16         Op = "I32FromU16"
	OpI32FromS16         Op = "I32FromS16"
	OpI32FromU32         Op = "I32FromU32"
	OpI32FromS32         Op = "I32FromS32"
	OpI32FromChar        Op = "I32FromChar"
	OpI32FromCharTrusted Op = "I32FromCharTrusted"
	OpI64FromU64         Op = "I64FromU64"
	OpI64FromS64         Op = "I64FromS64"
	OpCoreF32FromF32     Op = "CoreF32FromF32"
	OpCoreF64FromF64     Op = "CoreF64FromF64"

	// core to host
	OpBoolFromI32        Op = "BoolFromI32"
	OpBoolFromI32Trusted Op = "BoolFromI32Trusted"
	OpU8FromI32          Op = "U8FromI32"
	OpU8FromI32Trusted   Op = "U8FromI32Trusted"
	OpS8FromI32          Op = "S8FromI32"
	OpS8FromI32Trusted   Op = "S8FromI32Trusted"
	OpU16FromI32         Op = "U16FromI32"
	OpU16FromI32Trusted  Op = "U16FromI32Trusted"
	OpS16FromI32         Op = "S16FromI32"
	OpS16FromI32Trusted  Op = "S16FromI32Trusted"
	OpU32FromI32         Op = "U32FromI32"
	OpS32FromI32         Op = "S32FromI32"
	OpCharFromI32        Op = "CharFromI32"
	OpCharFromI32Trusted Op = "CharFromI32Trusted"
	OpU64FromI64         Op = "U64FromI64"
	OpS64FromI64         Op = "S64FromI64"
	OpF32FromCoreF32     Op = "F32FromCoreF32"
	OpF64FromCoreF64     Op = "F64FromCoreF64"

	// bitcasts
	OpI32ToF32 Op = "I32ToF32"
	OpF32ToI32 Op = "F32ToI32"
	OpI64ToF64 Op = "I64ToF64"
	OpF64ToI64 Op = "F64ToI64"
	OpI32ToI64 Op = "I32ToI64"
	OpI64ToI32 Op = "I64ToI32"

	// strings and lists
	OpStringLower       Op = "StringLower"
	OpStringLift        Op = "StringLift"
	OpStringLiftTrusted Op = "StringLiftTrusted"
	OpLowerCanonList    Op = "LowerCanonList"
	OpLiftCanonList     Op = "LiftCanonList"
	OpListLen           Op = "ListLen"
	OpListElem          Op = "ListElem"
	OpMakeList          Op = "MakeList"
	OpListSet           Op = "ListSet"

	// compound values
	OpField            Op = "Field"
	OpMakeRecord       Op = "MakeRecord"
	OpTupleElem        Op = "TupleElem"
	OpMakeTuple        Op = "MakeTuple"
	OpLowerFlags       Op = "LowerFlags"
	OpLiftFlags        Op = "LiftFlags"
	OpLiftFlagsTrusted Op = "LiftFlagsTrusted"
	OpEnumOrdinal      Op = "EnumOrdinal"
	OpEnumName         Op = "EnumName"
	OpEnumNameTrusted  Op = "EnumNameTrusted"

	// variants
	OpVariantCase    Op = "VariantCase"
	OpVariantPayload Op = "VariantPayload"
	OpMakeVariant    Op = "MakeVariant"
	OpOptionCase     Op = "OptionCase"
	OpOptionPayload  Op = "OptionPayload"
	OpMakeOption     Op = "MakeOption"
	OpResultCase     Op = "ResultCase"
	OpResultPayload  Op = "ResultPayload"
	OpMakeResult     Op = "MakeResult"

	// resources
	OpLowerOwn    Op = "LowerOwn"
	OpLowerBorrow Op = "LowerBorrow"
	OpLiftOwn     Op = "LiftOwn"
	OpLiftBorrow  Op = "LiftBorrow"

	// calls
	OpCallWasm  Op = "CallWasm"
	OpCallHost  Op = "CallHost"
	OpEnterCall Op = "EnterCall"
	OpExitCall  Op = "ExitCall"
)
