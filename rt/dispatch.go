package rt

import (
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/ir"
	"github.com/wippyai/canon-abi/numeric"
)

// Impl is the uniform calling convention used by package eval.
type Impl func(cx *Context, args []any) ([]any, error)

// Lookup returns the helper for op.
func Lookup(op ir.Op) (Impl, bool) {
	impl, ok := ops[op]
	return impl, ok
}

func one(v any, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}

func two(a, b any, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{a, b}, nil
}

func none(err error) ([]any, error) {
	return nil, err
}

func unary(f func(*Context, any) (any, error)) Impl {
	return func(cx *Context, a []any) ([]any, error) {
		return one(f(cx, a[0]))
	}
}

func load(f func(*Context, any, uint32) (any, error)) Impl {
	return func(cx *Context, a []any) ([]any, error) {
		return one(f(cx, a[0], a[1].(uint32)))
	}
}

func store(f func(*Context, any, any, uint32) error) Impl {
	return func(cx *Context, a []any) ([]any, error) {
		return none(f(cx, a[0], a[1], a[2].(uint32)))
	}
}

func named(f func(*Context, any, string) (any, error)) Impl {
	return func(cx *Context, a []any) ([]any, error) {
		return one(f(cx, a[0], a[1].(string)))
	}
}

func withNames(f func(*Context, any, []string) (any, error)) Impl {
	return func(cx *Context, a []any) ([]any, error) {
		return one(f(cx, a[0], a[1].([]string)))
	}
}

func flagsLift(f func(*Context, []string, ...any) (any, error)) Impl {
	return func(cx *Context, a []any) ([]any, error) {
		return one(f(cx, a[0].([]string), a[1:]...))
	}
}

func calls(f func(*Context, string, ...any) ([]any, error)) Impl {
	return func(cx *Context, a []any) ([]any, error) {
		return f(cx, a[0].(string), a[1:]...)
	}
}

var ops = map[ir.Op]Impl{
	ir.OpI32Load:    load(I32Load),
	ir.OpI32Load8U:  load(I32Load8U),
	ir.OpI32Load8S:  load(I32Load8S),
	ir.OpI32Load16U: load(I32Load16U),
	ir.OpI32Load16S: load(I32Load16S),
	ir.OpI64Load:    load(I64Load),
	ir.OpF32Load:    load(F32Load),
	ir.OpF64Load:    load(F64Load),
	ir.OpI32Store:   store(I32Store),
	ir.OpI32Store8:  store(I32Store8),
	ir.OpI32Store16: store(I32Store16),
	ir.OpI64Store:   store(I64Store),
	ir.OpF32Store:   store(F32Store),
	ir.OpF64Store:   store(F64Store),
	ir.OpAlloc: func(cx *Context, a []any) ([]any, error) {
		return one(Alloc(cx, a[0], a[1].(uint32), a[2].(uint32)))
	},
	ir.OpElemAddr: func(cx *Context, a []any) ([]any, error) {
		return one(ElemAddr(cx, a[0], a[1], a[2].(uint32)))
	},

	ir.OpI32FromBool:        unary(I32FromBool),
	ir.OpI32FromU8:          unary(I32FromU8),
	ir.OpI32FromS8:          unary(I32FromS8),
	ir.OpI32FromU16:         unary(I32FromU16),
	ir.OpI32FromS16:         unary(I32FromS16),
	ir.OpI32FromU32:         unary(I32FromU32),
	ir.OpI32FromS32:         unary(I32FromS32),
	ir.OpI32FromChar:        unary(I32FromChar),
	ir.OpI32FromCharTrusted: unary(I32FromCharTrusted),
	ir.OpI64FromU64:         unary(I64FromU64),
	ir.OpI64FromS64:         unary(I64FromS64),
	ir.OpCoreF32FromF32:     unary(CoreF32FromF32),
	ir.OpCoreF64FromF64:     unary(CoreF64FromF64),

	ir.OpBoolFromI32:        unary(BoolFromI32),
	ir.OpBoolFromI32Trusted: unary(BoolFromI32Trusted),
	ir.OpU8FromI32:          unary(U8FromI32),
	ir.OpU8FromI32Trusted:   unary(U8FromI32Trusted),
	ir.OpS8FromI32:          unary(S8FromI32),
	ir.OpS8FromI32Trusted:   unary(S8FromI32Trusted),
	ir.OpU16FromI32:         unary(U16FromI32),
	ir.OpU16FromI32Trusted:  unary(U16FromI32Trusted),
	ir.OpS16FromI32:         unary(S16FromI32),
	ir.OpS16FromI32Trusted:  unary(S16FromI32Trusted),
	ir.OpU32FromI32:         unary(U32FromI32),
	ir.OpS32FromI32:         unary(S32FromI32),
	ir.OpCharFromI32:        unary(CharFromI32),
	ir.OpCharFromI32Trusted: unary(CharFromI32Trusted),
	ir.OpU64FromI64:         unary(U64FromI64),
	ir.OpS64FromI64:         unary(S64FromI64),
	ir.OpF32FromCoreF32:     unary(F32FromCoreF32),
	ir.OpF64FromCoreF64:     unary(F64FromCoreF64),

	ir.OpI32ToF32: unary(I32ToF32),
	ir.OpF32ToI32: unary(F32ToI32),
	ir.OpI64ToF64: unary(I64ToF64),
	ir.OpF64ToI64: unary(F64ToI64),
	ir.OpI32ToI64: unary(I32ToI64),
	ir.OpI64ToI32: unary(I64ToI32),

	ir.OpStringLower: func(cx *Context, a []any) ([]any, error) {
		return two(StringLower(cx, a[0]))
	},
	ir.OpStringLift: func(cx *Context, a []any) ([]any, error) {
		return one(StringLift(cx, a[0], a[1]))
	},
	ir.OpStringLiftTrusted: func(cx *Context, a []any) ([]any, error) {
		return one(StringLiftTrusted(cx, a[0], a[1]))
	},
	ir.OpLowerCanonList: func(cx *Context, a []any) ([]any, error) {
		return two(LowerCanonList(cx, a[0], a[1].(string)))
	},
	ir.OpLiftCanonList: func(cx *Context, a []any) ([]any, error) {
		return one(LiftCanonList(cx, a[0], a[1], a[2].(string)))
	},
	ir.OpListLen: unary(ListLen),
	ir.OpListElem: func(cx *Context, a []any) ([]any, error) {
		return one(ListElem(cx, a[0], a[1]))
	},
	ir.OpMakeList: unary(MakeList),
	ir.OpListSet: func(cx *Context, a []any) ([]any, error) {
		return none(ListSet(cx, a[0], a[1], a[2]))
	},

	ir.OpField: named(Field),
	ir.OpMakeRecord: func(cx *Context, a []any) ([]any, error) {
		return one(MakeRecord(cx, a[0].([]string), a[1:]...))
	},
	ir.OpTupleElem: func(cx *Context, a []any) ([]any, error) {
		return one(TupleElem(cx, a[0], a[1].(int), a[2].(int)))
	},
	ir.OpMakeTuple: func(cx *Context, a []any) ([]any, error) {
		return one(MakeTuple(cx, a...))
	},
	ir.OpLowerFlags: func(cx *Context, a []any) ([]any, error) {
		return one(LowerFlags(cx, a[0], a[1].([]string), a[2].(int)))
	},
	ir.OpLiftFlags:        flagsLift(LiftFlags),
	ir.OpLiftFlagsTrusted: flagsLift(LiftFlagsTrusted),
	ir.OpEnumOrdinal:      withNames(EnumOrdinal),
	ir.OpEnumName:         withNames(EnumName),
	ir.OpEnumNameTrusted:  withNames(EnumNameTrusted),

	ir.OpVariantCase:    withNames(VariantCase),
	ir.OpVariantPayload: unary(VariantPayload),
	ir.OpMakeVariant: func(cx *Context, a []any) ([]any, error) {
		return one(MakeVariant(cx, a[0].(string), a[1]))
	},
	ir.OpOptionCase: func(cx *Context, a []any) ([]any, error) {
		return one(OptionCase(cx, a[0], a[1].(bool)))
	},
	ir.OpOptionPayload: func(cx *Context, a []any) ([]any, error) {
		return one(OptionPayload(cx, a[0], a[1].(bool)))
	},
	ir.OpMakeOption: func(cx *Context, a []any) ([]any, error) {
		return one(MakeOption(cx, a[0].(bool), a[1], a[2].(bool)))
	},
	ir.OpResultCase:    unary(ResultCase),
	ir.OpResultPayload: unary(ResultPayload),
	ir.OpMakeResult: func(cx *Context, a []any) ([]any, error) {
		return one(MakeResult(cx, a[0].(bool), a[1]))
	},

	ir.OpLowerOwn:    named(LowerOwn),
	ir.OpLowerBorrow: named(LowerBorrow),
	ir.OpLiftOwn:     named(LiftOwn),
	ir.OpLiftBorrow:  named(LiftBorrow),

	ir.OpCallWasm: calls(CallWasm),
	ir.OpCallHost: calls(CallHost),
	ir.OpEnterCall: func(cx *Context, a []any) ([]any, error) {
		return none(EnterCall(cx))
	},
	ir.OpExitCall: func(cx *Context, a []any) ([]any, error) {
		return none(ExitCall(cx))
	},
}

// Check verifies that every argument an Impl type-asserts has the expected
// Go type, so that a malformed program fails with an error instead of a
// panic.
func Check(op ir.Op, args []any) error {
	want, ok := constArgs[op]
	if !ok {
		return nil
	}
	for i, kind := range want {
		if i >= len(args) {
			return errors.InvalidInput(errors.PhaseGenerate, string(op)+": missing argument")
		}
		if kind == "" {
			continue
		}
		if got := numeric.TypeName(args[i]); got != kind {
			return errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
				GoType(got).
				Detail("%s argument %d: want %s", op, i, kind).
				Build()
		}
	}
	return nil
}

var constArgs = map[ir.Op][]string{
	ir.OpI32Load:           {"", "uint32"},
	ir.OpI32Load8U:         {"", "uint32"},
	ir.OpI32Load8S:         {"", "uint32"},
	ir.OpI32Load16U:        {"", "uint32"},
	ir.OpI32Load16S:        {"", "uint32"},
	ir.OpI64Load:           {"", "uint32"},
	ir.OpF32Load:           {"", "uint32"},
	ir.OpF64Load:           {"", "uint32"},
	ir.OpI32Store:          {"", "", "uint32"},
	ir.OpI32Store8:         {"", "", "uint32"},
	ir.OpI32Store16:        {"", "", "uint32"},
	ir.OpI64Store:          {"", "", "uint32"},
	ir.OpF32Store:          {"", "", "uint32"},
	ir.OpF64Store:          {"", "", "uint32"},
	ir.OpAlloc:             {"", "uint32", "uint32"},
	ir.OpElemAddr:          {"", "", "uint32"},
	ir.OpLowerCanonList:    {"", "string"},
	ir.OpLiftCanonList:     {"", "", "string"},
	ir.OpField:             {"", "string"},
	ir.OpMakeRecord:        {"[]string"},
	ir.OpTupleElem:         {"", "int", "int"},
	ir.OpLowerFlags:        {"", "[]string", "int"},
	ir.OpLiftFlags:         {"[]string"},
	ir.OpLiftFlagsTrusted:  {"[]string"},
	ir.OpEnumOrdinal:       {"", "[]string"},
	ir.OpEnumName:          {"", "[]string"},
	ir.OpEnumNameTrusted:   {"", "[]string"},
	ir.OpVariantCase:       {"", "[]string"},
	ir.OpMakeVariant:       {"string"},
	ir.OpOptionCase:        {"", "bool"},
	ir.OpOptionPayload:     {"", "bool"},
	ir.OpMakeOption:        {"bool", "", "bool"},
	ir.OpMakeResult:        {"bool"},
	ir.OpLowerOwn:          {"", "string"},
	ir.OpLowerBorrow:       {"", "string"},
	ir.OpLiftOwn:           {"", "string"},
	ir.OpLiftBorrow:        {"", "string"},
	ir.OpCallWasm:          {"string"},
	ir.OpCallHost:          {"string"},
}
