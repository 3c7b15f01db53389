package abi

import (
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/canon-abi/layout"
	"go.bytecodealliance.org/wit"
)

// Options configures instruction generation.
type Options struct {
	// Realloc names the guest allocator recorded on allocating instructions.
	Realloc string
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Realloc: "cabi_realloc"}
}

// Generator produces instruction streams from WIT types. It keeps a shadow of
// the operand stack so that every Pick and Roll depth it emits is exact.
//
// A Generator is reusable but not safe for concurrent use.
type Generator struct {
	calc  *layout.Calculator
	opts  Options
	insts []Instruction
	stack []int
	tags  int
}

// NewGenerator creates a generator sharing calc's layout cache.
func NewGenerator(calc *layout.Calculator, opts Options) *Generator {
	if calc == nil {
		calc = layout.NewCalculator()
	}
	if opts.Realloc == "" {
		opts.Realloc = DefaultOptions().Realloc
	}
	return &Generator{calc: calc, opts: opts}
}

func (g *Generator) reset() {
	g.insts = nil
	g.stack = g.stack[:0]
	g.tags = 0
}

func (g *Generator) take() []Instruction {
	out := g.insts
	g.insts = nil
	return out
}

// emit appends an instruction and applies it to the shadow stack.
func (g *Generator) emit(inst Instruction) {
	g.insts = append(g.insts, inst)
	switch i := inst.(type) {
	case Roll:
		at := len(g.stack) - 1 - i.Depth
		tag := g.stack[at]
		g.stack = append(g.stack[:at], g.stack[at+1:]...)
		g.stack = append(g.stack, tag)
		return
	}
	pops, pushes := inst.Arity()
	g.stack = g.stack[:len(g.stack)-pops]
	for range pushes {
		g.stack = append(g.stack, 0)
	}
}

// mark tags the top operand so its depth can be found later.
func (g *Generator) mark() int {
	g.tags++
	g.stack[len(g.stack)-1] = g.tags
	return g.tags
}

func (g *Generator) depth(tag int) int {
	for i := len(g.stack) - 1; i >= 0; i-- {
		if g.stack[i] == tag {
			return len(g.stack) - 1 - i
		}
	}
	panic("abi: operand tag not on stack")
}

func (g *Generator) pick(tag int) {
	g.emit(Pick{Depth: g.depth(tag)})
}

func (g *Generator) roll(depth int) {
	if depth > 0 {
		g.emit(Roll{Depth: depth})
	}
}

func (g *Generator) drop(n int) {
	if n > 0 {
		g.emit(Drop{Count: n})
	}
}

// LowerFlat builds (value) -> (flat...) for t.
func (g *Generator) LowerFlat(t wit.Type) []Instruction {
	g.reset()
	g.emit(GetArg{N: 0})
	g.lower(t)
	g.emit(Return{Amt: len(layout.Flatten(t))})
	return g.take()
}

// LiftFlat builds (flat...) -> (value) for t.
func (g *Generator) LiftFlat(t wit.Type) []Instruction {
	g.reset()
	for i := range layout.Flatten(t) {
		g.emit(GetArg{N: i})
	}
	g.lift(t)
	g.emit(Return{Amt: 1})
	return g.take()
}

// LowerToMemory builds (value, ptr) -> () writing t at ptr.
func (g *Generator) LowerToMemory(t wit.Type) []Instruction {
	g.reset()
	g.emit(GetArg{N: 0})
	g.emit(GetArg{N: 1})
	ptr := g.mark()
	g.roll(1)
	g.write(t, ptr, 0)
	g.drop(1)
	g.emit(Return{Amt: 0})
	return g.take()
}

// LiftFromMemory builds (ptr) -> (value) reading t at ptr.
func (g *Generator) LiftFromMemory(t wit.Type) []Instruction {
	g.reset()
	g.emit(GetArg{N: 0})
	ptr := g.mark()
	g.read(t, ptr, 0)
	g.roll(1)
	g.drop(1)
	g.emit(Return{Amt: 1})
	return g.take()
}

// Call builds the binding for fn.
//
// With LowerArgsLiftResults the program takes one host value per parameter
// and returns one host value per result. With LiftArgsLowerResults it takes
// the core parameters of the signature and returns its core results.
func (g *Generator) Call(fn *Func, variant Variant, dir LiftLower) []Instruction {
	g.reset()
	sig := SignatureOf(fn, variant)
	if dir == LowerArgsLiftResults {
		g.lowerArgsLiftResults(fn, sig, variant)
	} else {
		g.liftArgsLowerResults(fn, sig, variant)
	}
	return g.take()
}

func (g *Generator) lowerArgsLiftResults(fn *Func, sig *Signature, variant Variant) {
	if variant == GuestExport {
		g.emit(EnterCall{})
	}

	var retptr int
	if sig.Retptr && variant == GuestImport {
		info := g.calc.Struct(fn.Results)
		g.emit(Malloc{Size: info.Size, Align: info.Align})
		retptr = g.mark()
	}

	if !sig.IndirectParams {
		for i, p := range fn.Params {
			g.emit(GetArg{N: i})
			g.lower(p.Type)
		}
	} else {
		info := g.calc.Struct(fn.ParamTypes())
		g.emit(Malloc{Size: info.Size, Align: info.Align})
		args := g.mark()
		for i, p := range fn.Params {
			g.emit(GetArg{N: i})
			g.write(p.Type, args, info.FieldOffs[i])
		}
	}

	if retptr != 0 {
		g.pick(retptr)
	}
	g.emit(CallWasm{Name: fn.Name, Sig: sig})

	if variant == GuestExport {
		g.emit(ExitCall{})
	}

	switch {
	case !sig.Retptr:
		g.liftAll(fn.Results)
	default:
		// the result pointer is on top: returned by the callee, or our own
		// allocation left under the call's arguments
		ptr := g.mark()
		info := g.calc.Struct(fn.Results)
		for i, r := range fn.Results {
			g.read(r, ptr, info.FieldOffs[i])
		}
		g.roll(len(fn.Results))
		g.drop(1)
	}
	g.emit(Return{Amt: len(fn.Results)})
}

func (g *Generator) liftArgsLowerResults(fn *Func, sig *Signature, variant Variant) {
	nparams := 0
	if !sig.IndirectParams {
		for _, p := range fn.Params {
			n := len(layout.Flatten(p.Type))
			for j := range n {
				g.emit(GetArg{N: nparams + j})
			}
			nparams += n
			g.lift(p.Type)
		}
	} else {
		g.emit(GetArg{N: 0})
		nparams = 1
		args := g.mark()
		info := g.calc.Struct(fn.ParamTypes())
		for i, p := range fn.Params {
			g.read(p.Type, args, info.FieldOffs[i])
		}
		g.roll(len(fn.Params))
		g.drop(1)
	}

	g.emit(CallInterface{Func: fn})

	if !sig.Retptr {
		flat := 0
		for i, r := range fn.Results {
			g.roll(len(fn.Results) - 1 - i + flat)
			g.lower(r)
			flat += len(layout.Flatten(r))
		}
		g.emit(Return{Amt: flat})
		return
	}

	info := g.calc.Struct(fn.Results)
	if variant == GuestImport {
		g.emit(GetArg{N: nparams})
	} else {
		g.emit(Malloc{Size: info.Size, Align: info.Align})
	}
	ptr := g.mark()
	for i, r := range fn.Results {
		g.roll(len(fn.Results) - i)
		g.write(r, ptr, info.FieldOffs[i])
	}
	if variant == GuestImport {
		g.drop(1)
		g.emit(Return{Amt: 0})
	} else {
		g.emit(Return{Amt: 1})
	}
}

// liftAll lifts consecutive flat groups for each type in order.
func (g *Generator) liftAll(types []wit.Type) {
	remaining := len(layout.FlattenAll(types))
	for i, t := range types {
		k := len(layout.Flatten(t))
		for range k {
			g.roll(remaining - 1 + i)
		}
		remaining -= k
		g.lift(t)
	}
}

// lower replaces the host value on top with its flat core values.
func (g *Generator) lower(t wit.Type) {
	switch t := t.(type) {
	case wit.Bool:
		g.emit(I32FromBool{})
	case wit.U8:
		g.emit(I32FromU8{})
	case wit.S8:
		g.emit(I32FromS8{})
	case wit.U16:
		g.emit(I32FromU16{})
	case wit.S16:
		g.emit(I32FromS16{})
	case wit.U32:
		g.emit(I32FromU32{})
	case wit.S32:
		g.emit(I32FromS32{})
	case wit.Char:
		g.emit(I32FromChar{})
	case wit.U64:
		g.emit(I64FromU64{})
	case wit.S64:
		g.emit(I64FromS64{})
	case wit.F32:
		g.emit(CoreF32FromF32{})
	case wit.F64:
		g.emit(CoreF64FromF64{})
	case wit.String:
		g.emit(StringLower{Realloc: g.opts.Realloc})
	case *wit.TypeDef:
		g.lowerTypeDef(t)
	}
}

func (g *Generator) lowerTypeDef(td *wit.TypeDef) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		g.emit(RecordLower{Record: k})
		types := make([]wit.Type, len(k.Fields))
		for i, f := range k.Fields {
			types[i] = f.Type
		}
		g.lowerFields(types)
	case *wit.Tuple:
		g.emit(TupleLower{Tuple: k})
		g.lowerFields(k.Types)
	case *wit.Flags:
		g.emit(FlagsLower{Flags: k})
	case *wit.Enum:
		g.emit(EnumLower{Enum: k})
	case *wit.List:
		g.lowerList(k.Type)
	case *wit.Variant:
		payloads := make([]wit.Type, len(k.Cases))
		for i, c := range k.Cases {
			payloads[i] = c.Type
		}
		results := g.lowerCases(payloads)
		g.emit(VariantLower{Variant: k, Results: results})
	case *wit.Option:
		results := g.lowerCases([]wit.Type{nil, k.Type})
		g.emit(OptionLower{Payload: k.Type, Results: results})
	case *wit.Result:
		results := g.lowerCases([]wit.Type{k.OK, k.Err})
		g.emit(ResultLower{Result: k, Results: results})
	case *wit.Own, *wit.Borrow:
		g.emit(HandleLower{Handle: k})
	case wit.Type:
		g.lower(k)
	}
}

// lowerFields lowers the n destructured fields on top, first field deepest.
func (g *Generator) lowerFields(types []wit.Type) {
	n := len(types)
	flats := 0
	for i, t := range types {
		g.roll(n - 1 - i + flats)
		g.lower(t)
		flats += len(layout.Flatten(t))
	}
}

func (g *Generator) lowerList(elem wit.Type) {
	if IsCanonElement(elem) {
		g.emit(ListCanonLower{Element: elem, Realloc: g.opts.Realloc})
		return
	}
	g.emit(PushBlock{})
	g.emit(IterElem{})
	g.emit(IterBasePointer{})
	base := g.mark()
	g.roll(1)
	g.write(elem, base, 0)
	g.drop(1)
	g.emit(FinishBlock{Results: 0})
	g.emit(ListLower{Element: elem, Realloc: g.opts.Realloc})
}

// lowerCases emits one block per case producing [disc, joined payload...].
func (g *Generator) lowerCases(payloads []wit.Type) []api.ValueType {
	joined := layout.JoinedPayload(payloads)
	results := append([]api.ValueType{api.ValueTypeI32}, joined...)

	for i, p := range payloads {
		g.emit(PushBlock{})
		n := 0
		if p != nil {
			g.emit(VariantPayloadName{})
			g.emit(I32Const{Val: int32(i)})
			g.roll(1)
			g.lower(p)
			flat := layout.Flatten(p)
			n = len(flat)
			if casts := CastsBetween(flat, joined[:n]); !IsNone(casts) {
				g.emit(Bitcasts{Casts: casts})
			}
		} else {
			g.emit(I32Const{Val: int32(i)})
		}
		if pad := joined[n:]; len(pad) > 0 {
			g.emit(ConstZero{Types: pad})
		}
		g.emit(FinishBlock{Results: len(results)})
	}
	return results
}

// lift replaces the flat core values on top with one host value.
func (g *Generator) lift(t wit.Type) {
	switch t := t.(type) {
	case wit.Bool:
		g.emit(BoolFromI32{})
	case wit.U8:
		g.emit(U8FromI32{})
	case wit.S8:
		g.emit(S8FromI32{})
	case wit.U16:
		g.emit(U16FromI32{})
	case wit.S16:
		g.emit(S16FromI32{})
	case wit.U32:
		g.emit(U32FromI32{})
	case wit.S32:
		g.emit(S32FromI32{})
	case wit.Char:
		g.emit(CharFromI32{})
	case wit.U64:
		g.emit(U64FromI64{})
	case wit.S64:
		g.emit(S64FromI64{})
	case wit.F32:
		g.emit(F32FromCoreF32{})
	case wit.F64:
		g.emit(F64FromCoreF64{})
	case wit.String:
		g.emit(StringLift{})
	case *wit.TypeDef:
		g.liftTypeDef(t)
	}
}

func (g *Generator) liftTypeDef(td *wit.TypeDef) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		types := make([]wit.Type, len(k.Fields))
		for i, f := range k.Fields {
			types[i] = f.Type
		}
		g.liftAll(types)
		g.emit(RecordLift{Record: k})
	case *wit.Tuple:
		g.liftAll(k.Types)
		g.emit(TupleLift{Tuple: k})
	case *wit.Flags:
		g.emit(FlagsLift{Flags: k})
	case *wit.Enum:
		g.emit(EnumLift{Enum: k})
	case *wit.List:
		g.liftList(k.Type)
	case *wit.Variant:
		payloads := make([]wit.Type, len(k.Cases))
		for i, c := range k.Cases {
			payloads[i] = c.Type
		}
		g.liftCases(payloads)
		g.emit(VariantLift{Variant: k})
	case *wit.Option:
		g.liftCases([]wit.Type{nil, k.Type})
		g.emit(OptionLift{Payload: k.Type})
	case *wit.Result:
		g.liftCases([]wit.Type{k.OK, k.Err})
		g.emit(ResultLift{Result: k})
	case *wit.Own, *wit.Borrow:
		g.emit(HandleLift{Handle: k})
	case wit.Type:
		g.lift(k)
	}
}

func (g *Generator) liftList(elem wit.Type) {
	if IsCanonElement(elem) {
		g.emit(ListCanonLift{Element: elem})
		return
	}
	g.emit(PushBlock{})
	g.emit(IterBasePointer{})
	base := g.mark()
	g.read(elem, base, 0)
	g.roll(1)
	g.drop(1)
	g.emit(FinishBlock{Results: 1})
	g.emit(ListLift{Element: elem})
}

// liftCases expects [disc, joined payload...] on top and leaves [disc],
// having emitted one block per case that yields the case's host payload.
func (g *Generator) liftCases(payloads []wit.Type) {
	joined := layout.JoinedPayload(payloads)
	m := len(joined)

	for _, p := range payloads {
		g.emit(PushBlock{})
		if p == nil {
			g.emit(FinishBlock{Results: 0})
			continue
		}
		flat := layout.Flatten(p)
		for range flat {
			g.emit(Pick{Depth: m - 1})
		}
		if casts := CastsBetween(joined[:len(flat)], flat); !IsNone(casts) {
			g.emit(Bitcasts{Casts: casts})
		}
		g.lift(p)
		g.emit(FinishBlock{Results: 1})
	}
	g.drop(m)
}

// write stores the host value on top at addr+off and consumes it.
func (g *Generator) write(t wit.Type, addr int, off uint32) {
	switch t := t.(type) {
	case wit.Bool, wit.U8, wit.S8:
		g.lower(t)
		g.pick(addr)
		g.emit(I32Store8{Offset: off})
	case wit.U16, wit.S16:
		g.lower(t)
		g.pick(addr)
		g.emit(I32Store16{Offset: off})
	case wit.U32, wit.S32, wit.Char:
		g.lower(t)
		g.pick(addr)
		g.emit(I32Store{Offset: off})
	case wit.U64, wit.S64:
		g.lower(t)
		g.pick(addr)
		g.emit(I64Store{Offset: off})
	case wit.F32:
		g.lower(t)
		g.pick(addr)
		g.emit(F32Store{Offset: off})
	case wit.F64:
		g.lower(t)
		g.pick(addr)
		g.emit(F64Store{Offset: off})
	case wit.String:
		g.emit(StringLower{Realloc: g.opts.Realloc})
		g.storePointerLength(addr, off)
	case *wit.TypeDef:
		g.writeTypeDef(t, addr, off)
	}
}

func (g *Generator) storePointerLength(addr int, off uint32) {
	g.pick(addr)
	g.emit(LengthStore{Offset: off + 4})
	g.pick(addr)
	g.emit(PointerStore{Offset: off})
}

func (g *Generator) writeTypeDef(td *wit.TypeDef, addr int, off uint32) {
	info := g.calc.Calculate(td)

	switch k := td.Kind.(type) {
	case *wit.Record:
		g.emit(RecordLower{Record: k})
		n := len(k.Fields)
		for i, f := range k.Fields {
			g.roll(n - 1 - i)
			g.write(f.Type, addr, off+info.FieldOffs[i])
		}
	case *wit.Tuple:
		g.emit(TupleLower{Tuple: k})
		n := len(k.Types)
		for i, t := range k.Types {
			g.roll(n - 1 - i)
			g.write(t, addr, off+info.FieldOffs[i])
		}
	case *wit.Flags:
		g.emit(FlagsLower{Flags: k})
		words := layout.FlagsWords(len(k.Flags))
		for j := range words {
			g.roll(words - 1 - j)
			g.pick(addr)
			g.emit(storeN(info.Size, off+uint32(4*j)))
		}
	case *wit.Enum:
		g.emit(EnumLower{Enum: k})
		g.pick(addr)
		g.emit(storeN(info.Size, off))
	case *wit.List:
		g.lowerList(k.Type)
		g.storePointerLength(addr, off)
	case *wit.Variant:
		payloads := make([]wit.Type, len(k.Cases))
		for i, c := range k.Cases {
			payloads[i] = c.Type
		}
		g.writeCases(payloads, info, addr, off)
		g.emit(VariantLower{Variant: k})
	case *wit.Option:
		g.writeCases([]wit.Type{nil, k.Type}, info, addr, off)
		g.emit(OptionLower{Payload: k.Type})
	case *wit.Result:
		g.writeCases([]wit.Type{k.OK, k.Err}, info, addr, off)
		g.emit(ResultLower{Result: k})
	case *wit.Own, *wit.Borrow:
		g.emit(HandleLower{Handle: k})
		g.pick(addr)
		g.emit(I32Store{Offset: off})
	case wit.Type:
		g.write(k, addr, off)
	}
}

func (g *Generator) writeCases(payloads []wit.Type, info layout.Info, addr int, off uint32) {
	for i, p := range payloads {
		g.emit(PushBlock{})
		g.emit(I32Const{Val: int32(i)})
		g.pick(addr)
		g.emit(storeN(info.DiscSize, off))
		if p != nil {
			g.emit(VariantPayloadName{})
			g.write(p, addr, off+info.PayloadOff)
		}
		g.emit(FinishBlock{Results: 0})
	}
}

// read pushes the host value of type t stored at addr+off.
func (g *Generator) read(t wit.Type, addr int, off uint32) {
	switch t := t.(type) {
	case wit.Bool, wit.U8:
		g.pick(addr)
		g.emit(I32Load8U{Offset: off})
		g.lift(t)
	case wit.S8:
		g.pick(addr)
		g.emit(I32Load8S{Offset: off})
		g.lift(t)
	case wit.U16:
		g.pick(addr)
		g.emit(I32Load16U{Offset: off})
		g.lift(t)
	case wit.S16:
		g.pick(addr)
		g.emit(I32Load16S{Offset: off})
		g.lift(t)
	case wit.U32, wit.S32, wit.Char:
		g.pick(addr)
		g.emit(I32Load{Offset: off})
		g.lift(t)
	case wit.U64, wit.S64:
		g.pick(addr)
		g.emit(I64Load{Offset: off})
		g.lift(t)
	case wit.F32:
		g.pick(addr)
		g.emit(F32Load{Offset: off})
		g.lift(t)
	case wit.F64:
		g.pick(addr)
		g.emit(F64Load{Offset: off})
		g.lift(t)
	case wit.String:
		g.loadPointerLength(addr, off)
		g.emit(StringLift{})
	case *wit.TypeDef:
		g.readTypeDef(t, addr, off)
	}
}

func (g *Generator) loadPointerLength(addr int, off uint32) {
	g.pick(addr)
	g.emit(PointerLoad{Offset: off})
	g.pick(addr)
	g.emit(LengthLoad{Offset: off + 4})
}

func (g *Generator) readTypeDef(td *wit.TypeDef, addr int, off uint32) {
	info := g.calc.Calculate(td)

	switch k := td.Kind.(type) {
	case *wit.Record:
		for i, f := range k.Fields {
			g.read(f.Type, addr, off+info.FieldOffs[i])
		}
		g.emit(RecordLift{Record: k})
	case *wit.Tuple:
		for i, t := range k.Types {
			g.read(t, addr, off+info.FieldOffs[i])
		}
		g.emit(TupleLift{Tuple: k})
	case *wit.Flags:
		for j := range layout.FlagsWords(len(k.Flags)) {
			g.pick(addr)
			g.emit(loadN(info.Size, off+uint32(4*j)))
		}
		g.emit(FlagsLift{Flags: k})
	case *wit.Enum:
		g.pick(addr)
		g.emit(loadN(info.Size, off))
		g.emit(EnumLift{Enum: k})
	case *wit.List:
		g.loadPointerLength(addr, off)
		g.liftList(k.Type)
	case *wit.Variant:
		payloads := make([]wit.Type, len(k.Cases))
		for i, c := range k.Cases {
			payloads[i] = c.Type
		}
		g.readCases(payloads, info, addr, off)
		g.emit(VariantLift{Variant: k})
	case *wit.Option:
		g.readCases([]wit.Type{nil, k.Type}, info, addr, off)
		g.emit(OptionLift{Payload: k.Type})
	case *wit.Result:
		g.readCases([]wit.Type{k.OK, k.Err}, info, addr, off)
		g.emit(ResultLift{Result: k})
	case *wit.Own, *wit.Borrow:
		g.pick(addr)
		g.emit(I32Load{Offset: off})
		g.emit(HandleLift{Handle: k})
	case wit.Type:
		g.read(k, addr, off)
	}
}

func (g *Generator) readCases(payloads []wit.Type, info layout.Info, addr int, off uint32) {
	g.pick(addr)
	g.emit(loadN(info.DiscSize, off))
	for _, p := range payloads {
		g.emit(PushBlock{})
		if p == nil {
			g.emit(FinishBlock{Results: 0})
			continue
		}
		g.read(p, addr, off+info.PayloadOff)
		g.emit(FinishBlock{Results: 1})
	}
}

// storeN stores the low size bytes of an i32. Sizes above 2 use a full word.
func storeN(size, off uint32) Instruction {
	switch size {
	case 1:
		return I32Store8{Offset: off}
	case 2:
		return I32Store16{Offset: off}
	}
	return I32Store{Offset: off}
}

// loadN zero-extends size bytes into an i32.
func loadN(size, off uint32) Instruction {
	switch size {
	case 1:
		return I32Load8U{Offset: off}
	case 2:
		return I32Load16U{Offset: off}
	}
	return I32Load{Offset: off}
}

// IsCanonElement reports whether a list of t is copied in bulk: t is a
// numeric type whose memory and host representations agree.
func IsCanonElement(t wit.Type) bool {
	switch layout.Resolve(t).(type) {
	case wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.U64, wit.S64, wit.F32, wit.F64:
		return true
	}
	return false
}
