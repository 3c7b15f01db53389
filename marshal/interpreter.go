package marshal

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/ir"
	"github.com/wippyai/canon-abi/layout"
	"go.bytecodealliance.org/wit"
)

// Options configures code emission.
type Options struct {
	// Trusted omits wire validation in lifting code and the default arm of
	// lifted variants.
	Trusted bool
}

// DefaultOptions returns strict options.
func DefaultOptions() Options {
	return Options{}
}

// block is an open or finished instruction block. Names for IterElem,
// IterBasePointer and VariantPayloadName are allocated on first use and
// bound by the consumer.
type block struct {
	stmts    []ir.Stmt
	results  []ir.Expr
	finished []*block
	elem     string
	basePtr  string
	payload  string
	base     int
}

// Interpreter turns an instruction stream into an ir.Func. It is not safe
// for concurrent use; Finish resets it for the next stream.
type Interpreter struct {
	calc     *layout.Calculator
	opts     Options
	stack    []ir.Expr
	blocks   []*block
	temps    int
	maxArg   int
	results  int
	returned bool
}

// New creates an interpreter sharing calc's layout cache.
func New(calc *layout.Calculator, opts Options) *Interpreter {
	if calc == nil {
		calc = layout.NewCalculator()
	}
	in := &Interpreter{calc: calc, opts: opts}
	in.reset()
	return in
}

// Run interprets insts and returns the program named name taking params
// arguments.
func Run(name string, params int, insts []abi.Instruction, opts Options) (*ir.Func, error) {
	in := New(nil, opts)
	for _, inst := range insts {
		if err := in.Emit(inst); err != nil {
			return nil, err
		}
	}
	return in.Finish(name, params)
}

func (in *Interpreter) reset() {
	in.stack = nil
	in.blocks = []*block{{}}
	in.temps = 0
	in.maxArg = -1
	in.results = 0
	in.returned = false
}

// Finish checks that the stream left nothing behind and returns the program.
func (in *Interpreter) Finish(name string, params int) (*ir.Func, error) {
	defer in.reset()

	if len(in.blocks) != 1 {
		return nil, errors.BlockImbalance("%d blocks left open", len(in.blocks)-1)
	}
	root := in.blocks[0]
	if len(root.finished) != 0 {
		return nil, errors.BlockImbalance("%d finished blocks never consumed", len(root.finished))
	}
	if len(in.stack) != 0 {
		return nil, errors.StackImbalance("Finish", 0, len(in.stack))
	}
	if in.maxArg >= params {
		return nil, errors.InvalidInput(errors.PhaseGenerate,
			fmt.Sprintf("argument %d referenced but only %d declared", in.maxArg, params))
	}

	body := root.stmts
	if !in.returned {
		body = append(body, ir.Return{})
	}

	names := make([]string, params)
	for i := range names {
		names[i] = argName(i)
	}
	return &ir.Func{
		Name:    name,
		Params:  names,
		Body:    prune(body),
		Results: in.results,
	}, nil
}

// Emit interprets one instruction.
func (in *Interpreter) Emit(inst abi.Instruction) error {
	if inst == nil {
		return errors.InvalidInput(errors.PhaseGenerate, "nil instruction")
	}
	if what := missingPayload(inst); what != "" {
		return errors.InvalidInput(errors.PhaseGenerate, fmt.Sprintf("%T without a %s", inst, what))
	}
	if in.returned {
		return errors.BlockImbalance("%s after Return", abi.Format(inst))
	}
	if err := in.check(inst); err != nil {
		return err
	}

	switch i := inst.(type) {
	case abi.GetArg:
		in.maxArg = max(in.maxArg, i.N)
		in.push(ir.Var{Name: argName(i.N)})
	case abi.I32Const:
		in.push(ir.Const{Value: i.Val})
	case abi.ConstZero:
		for _, t := range i.Types {
			in.push(ir.Const{Value: zero(t)})
		}
	case abi.Pick:
		in.push(in.stack[len(in.stack)-1-i.Depth])
	case abi.Roll:
		at := len(in.stack) - 1 - i.Depth
		e := in.stack[at]
		in.stack = append(in.stack[:at], in.stack[at+1:]...)
		in.push(e)
	case abi.Drop:
		in.pop(i.Count)

	case abi.PushBlock:
		in.blocks = append(in.blocks, &block{base: len(in.stack)})
	case abi.FinishBlock:
		b := in.top()
		if len(b.finished) != 0 {
			return errors.BlockImbalance("block finished with %d nested blocks unconsumed", len(b.finished))
		}
		b.results = in.pop(i.Results)
		in.blocks = in.blocks[:len(in.blocks)-1]
		parent := in.top()
		parent.finished = append(parent.finished, b)

	case abi.I32Load:
		in.load(ir.OpI32Load, i.Offset)
	case abi.I32Load8U:
		in.load(ir.OpI32Load8U, i.Offset)
	case abi.I32Load8S:
		in.load(ir.OpI32Load8S, i.Offset)
	case abi.I32Load16U:
		in.load(ir.OpI32Load16U, i.Offset)
	case abi.I32Load16S:
		in.load(ir.OpI32Load16S, i.Offset)
	case abi.I64Load:
		in.load(ir.OpI64Load, i.Offset)
	case abi.F32Load:
		in.load(ir.OpF32Load, i.Offset)
	case abi.F64Load:
		in.load(ir.OpF64Load, i.Offset)
	case abi.PointerLoad:
		in.load(ir.OpI32Load, i.Offset)
	case abi.LengthLoad:
		in.load(ir.OpI32Load, i.Offset)

	case abi.I32Store:
		in.store(ir.OpI32Store, i.Offset)
	case abi.I32Store8:
		in.store(ir.OpI32Store8, i.Offset)
	case abi.I32Store16:
		in.store(ir.OpI32Store16, i.Offset)
	case abi.I64Store:
		in.store(ir.OpI64Store, i.Offset)
	case abi.F32Store:
		in.store(ir.OpF32Store, i.Offset)
	case abi.F64Store:
		in.store(ir.OpF64Store, i.Offset)
	case abi.PointerStore:
		in.store(ir.OpI32Store, i.Offset)
	case abi.LengthStore:
		in.store(ir.OpI32Store, i.Offset)

	case abi.I32FromBool:
		in.unary(ir.OpI32FromBool)
	case abi.I32FromU8:
		in.unary(ir.OpI32FromU8)
	case abi.I32FromS8:
		in.unary(ir.OpI32FromS8)
	case abi.I32FromU16:
		in.unary(ir.OpI32FromU16)
	case abi.I32FromS16:
		in.unary(ir.OpI32FromS16)
	case abi.I32FromU32:
		in.unary(ir.OpI32FromU32)
	case abi.I32FromS32:
		in.unary(ir.OpI32FromS32)
	case abi.I32FromChar:
		in.unary(in.mode(ir.OpI32FromChar, ir.OpI32FromCharTrusted))
	case abi.I64FromU64:
		in.unary(ir.OpI64FromU64)
	case abi.I64FromS64:
		in.unary(ir.OpI64FromS64)
	case abi.CoreF32FromF32:
		in.unary(ir.OpCoreF32FromF32)
	case abi.CoreF64FromF64:
		in.unary(ir.OpCoreF64FromF64)

	case abi.BoolFromI32:
		in.unary(in.mode(ir.OpBoolFromI32, ir.OpBoolFromI32Trusted))
	case abi.U8FromI32:
		in.unary(in.mode(ir.OpU8FromI32, ir.OpU8FromI32Trusted))
	case abi.S8FromI32:
		in.unary(in.mode(ir.OpS8FromI32, ir.OpS8FromI32Trusted))
	case abi.U16FromI32:
		in.unary(in.mode(ir.OpU16FromI32, ir.OpU16FromI32Trusted))
	case abi.S16FromI32:
		in.unary(in.mode(ir.OpS16FromI32, ir.OpS16FromI32Trusted))
	case abi.U32FromI32:
		in.unary(ir.OpU32FromI32)
	case abi.S32FromI32:
		in.unary(ir.OpS32FromI32)
	case abi.CharFromI32:
		in.unary(in.mode(ir.OpCharFromI32, ir.OpCharFromI32Trusted))
	case abi.U64FromI64:
		in.unary(ir.OpU64FromI64)
	case abi.S64FromI64:
		in.unary(ir.OpS64FromI64)
	case abi.F32FromCoreF32:
		in.unary(ir.OpF32FromCoreF32)
	case abi.F64FromCoreF64:
		in.unary(ir.OpF64FromCoreF64)

	case abi.Bitcasts:
		vals := in.pop(len(i.Casts))
		for j, c := range i.Casts {
			in.push(in.cast(c, vals[j]))
		}

	case abi.StringLower:
		v := in.pop(1)
		in.push(in.bind(2, ir.OpStringLower, v...)...)
	case abi.StringLift:
		v := in.pop(2)
		in.push(in.bind1(in.mode(ir.OpStringLift, ir.OpStringLiftTrusted), v...))
	case abi.ListCanonLower:
		v := in.pop(1)
		in.push(in.bind(2, ir.OpLowerCanonList, v[0], ir.Const{Value: elemName(i.Element)})...)
	case abi.ListCanonLift:
		v := in.pop(2)
		in.push(in.bind1(ir.OpLiftCanonList, v[0], v[1], ir.Const{Value: elemName(i.Element)}))
	case abi.ListLower:
		return in.listLower(i)
	case abi.ListLift:
		return in.listLift(i)
	case abi.IterElem:
		in.lazy(&in.top().elem)
	case abi.IterBasePointer:
		in.lazy(&in.top().basePtr)
	case abi.VariantPayloadName:
		in.lazy(&in.top().payload)

	case abi.RecordLower:
		v := in.pop(1)[0]
		for _, f := range i.Record.Fields {
			in.push(in.bind1(ir.OpField, v, ir.Const{Value: f.Name}))
		}
	case abi.RecordLift:
		names := make([]string, len(i.Record.Fields))
		for j, f := range i.Record.Fields {
			names[j] = f.Name
		}
		vals := in.pop(len(names))
		in.push(in.bind1(ir.OpMakeRecord, prepend(ir.Const{Value: names}, vals)...))
	case abi.TupleLower:
		v := in.pop(1)[0]
		n := len(i.Tuple.Types)
		for j := range n {
			in.push(in.bind1(ir.OpTupleElem, v, ir.Const{Value: j}, ir.Const{Value: n}))
		}
	case abi.TupleLift:
		vals := in.pop(len(i.Tuple.Types))
		in.push(in.bind1(ir.OpMakeTuple, vals...))
	case abi.FlagsLower:
		v := in.pop(1)[0]
		names := flagNames(i.Flags)
		for w := range layout.FlagsWords(len(names)) {
			in.push(in.bind1(ir.OpLowerFlags, v, ir.Const{Value: names}, ir.Const{Value: w}))
		}
	case abi.FlagsLift:
		names := flagNames(i.Flags)
		words := in.pop(layout.FlagsWords(len(names)))
		op := in.mode(ir.OpLiftFlags, ir.OpLiftFlagsTrusted)
		in.push(in.bind1(op, prepend(ir.Const{Value: names}, words)...))
	case abi.EnumLower:
		v := in.pop(1)[0]
		in.push(in.bind1(ir.OpEnumOrdinal, v, ir.Const{Value: enumNames(i.Enum)}))
	case abi.EnumLift:
		v := in.pop(1)[0]
		op := in.mode(ir.OpEnumName, ir.OpEnumNameTrusted)
		in.push(in.bind1(op, v, ir.Const{Value: enumNames(i.Enum)}))

	case abi.VariantLower:
		names := make([]string, len(i.Variant.Cases))
		for j, c := range i.Variant.Cases {
			names[j] = c.Name
		}
		return in.casesLower(len(names), len(i.Results),
			ir.Call{Op: ir.OpVariantCase, Args: []ir.Expr{nil, ir.Const{Value: names}}},
			ir.Call{Op: ir.OpVariantPayload, Args: []ir.Expr{nil}})
	case abi.OptionLower:
		elide := !layout.IsOption(i.Payload)
		return in.casesLower(2, len(i.Results),
			ir.Call{Op: ir.OpOptionCase, Args: []ir.Expr{nil, ir.Const{Value: elide}}},
			ir.Call{Op: ir.OpOptionPayload, Args: []ir.Expr{nil, ir.Const{Value: elide}}})
	case abi.ResultLower:
		return in.casesLower(2, len(i.Results),
			ir.Call{Op: ir.OpResultCase, Args: []ir.Expr{nil}},
			ir.Call{Op: ir.OpResultPayload, Args: []ir.Expr{nil}})
	case abi.VariantLift:
		return in.casesLift(len(i.Variant.Cases), func(c int, payload ir.Expr) ir.Call {
			return ir.Call{Op: ir.OpMakeVariant, Args: []ir.Expr{ir.Const{Value: i.Variant.Cases[c].Name}, payload}}
		})
	case abi.OptionLift:
		elide := !layout.IsOption(i.Payload)
		return in.casesLift(2, func(c int, payload ir.Expr) ir.Call {
			return ir.Call{Op: ir.OpMakeOption, Args: []ir.Expr{ir.Const{Value: c == 1}, payload, ir.Const{Value: elide}}}
		})
	case abi.ResultLift:
		return in.casesLift(2, func(c int, payload ir.Expr) ir.Call {
			return ir.Call{Op: ir.OpMakeResult, Args: []ir.Expr{ir.Const{Value: c == 1}, payload}}
		})

	case abi.HandleLower:
		v := in.pop(1)[0]
		op := ir.OpLowerOwn
		if _, ok := i.Handle.(*wit.Borrow); ok {
			op = ir.OpLowerBorrow
		}
		in.push(in.bind1(op, v, ir.Const{Value: layout.ResourceName(i.Handle)}))
	case abi.HandleLift:
		v := in.pop(1)[0]
		op := ir.OpLiftOwn
		if _, ok := i.Handle.(*wit.Borrow); ok {
			op = ir.OpLiftBorrow
		}
		in.push(in.bind1(op, v, ir.Const{Value: layout.ResourceName(i.Handle)}))

	case abi.CallWasm:
		args := in.pop(len(i.Sig.Params))
		in.call(ir.OpCallWasm, i.Name, args, len(i.Sig.Results))
	case abi.CallInterface:
		args := in.pop(len(i.Func.Params))
		in.call(ir.OpCallHost, i.Func.Name, args, len(i.Func.Results))
	case abi.EnterCall:
		in.exec(ir.OpEnterCall)
	case abi.ExitCall:
		in.exec(ir.OpExitCall)
	case abi.Malloc:
		in.push(in.bind1(ir.OpAlloc, ir.Const{Value: int32(1)}, ir.Const{Value: i.Size}, ir.Const{Value: i.Align}))
	case abi.Flush:
		for _, e := range in.pop(i.Amt) {
			if _, ok := e.(ir.Const); ok {
				in.push(e)
				continue
			}
			t := in.temp()
			in.emit(ir.Let{Name: t, Value: e})
			in.push(ir.Var{Name: t})
		}
	case abi.Return:
		if len(in.blocks) != 1 {
			return errors.BlockImbalance("Return inside %d open blocks", len(in.blocks)-1)
		}
		in.emit(ir.Return{Values: in.pop(i.Amt)})
		in.results = i.Amt
		in.returned = true

	default:
		return errors.Unsupported(errors.PhaseGenerate, fmt.Sprintf("instruction %T", inst))
	}
	return nil
}

// check validates inst against the operands visible in the current block.
func (in *Interpreter) check(inst abi.Instruction) error {
	pops, _ := inst.Arity()
	top := in.top()
	avail := len(in.stack) - top.base

	switch i := inst.(type) {
	case abi.Pick:
		if i.Depth < 0 || i.Depth >= len(in.stack) {
			return errors.StackImbalance(abi.Format(inst), i.Depth+1, len(in.stack))
		}
		return nil
	case abi.Roll:
		if i.Depth < 0 {
			return errors.InvalidInput(errors.PhaseGenerate, "negative depth in "+abi.Format(inst))
		}
	case abi.FinishBlock:
		if len(in.blocks) == 1 {
			return errors.BlockImbalance("FinishBlock without an open block")
		}
		if avail != i.Results {
			return errors.BlockImbalance("block yields %d operands, want %d", avail, i.Results)
		}
		return nil
	case abi.IterElem, abi.IterBasePointer, abi.VariantPayloadName:
		if len(in.blocks) == 1 {
			return errors.BlockImbalance("%s outside a block", abi.Format(inst))
		}
	}

	if pops < 0 {
		return errors.InvalidInput(errors.PhaseGenerate, "negative operand count in "+abi.Format(inst))
	}
	if pops > avail {
		return errors.StackImbalance(abi.Format(inst), pops, avail)
	}
	if bc, ok := inst.(abi.BlockConsumer); ok && len(top.finished) < bc.Blocks() {
		return errors.BlockImbalance("%s needs %d finished blocks, %d available",
			abi.Format(inst), bc.Blocks(), len(top.finished))
	}
	return nil
}

// missingPayload names the type descriptor inst needs but does not carry.
func missingPayload(inst abi.Instruction) string {
	switch i := inst.(type) {
	case abi.RecordLower:
		if i.Record == nil {
			return "record"
		}
	case abi.RecordLift:
		if i.Record == nil {
			return "record"
		}
	case abi.TupleLower:
		if i.Tuple == nil {
			return "tuple"
		}
	case abi.TupleLift:
		if i.Tuple == nil {
			return "tuple"
		}
	case abi.FlagsLower:
		if i.Flags == nil {
			return "flags"
		}
	case abi.FlagsLift:
		if i.Flags == nil {
			return "flags"
		}
	case abi.EnumLower:
		if i.Enum == nil {
			return "enum"
		}
	case abi.EnumLift:
		if i.Enum == nil {
			return "enum"
		}
	case abi.VariantLower:
		if i.Variant == nil {
			return "variant"
		}
	case abi.VariantLift:
		if i.Variant == nil {
			return "variant"
		}
	case abi.ListCanonLower:
		if i.Element == nil {
			return "element type"
		}
	case abi.ListCanonLift:
		if i.Element == nil {
			return "element type"
		}
	case abi.ListLower:
		if i.Element == nil {
			return "element type"
		}
	case abi.ListLift:
		if i.Element == nil {
			return "element type"
		}
	case abi.HandleLower:
		if i.Handle == nil {
			return "handle kind"
		}
	case abi.HandleLift:
		if i.Handle == nil {
			return "handle kind"
		}
	case abi.CallWasm:
		if i.Sig == nil {
			return "signature"
		}
	case abi.CallInterface:
		if i.Func == nil {
			return "function"
		}
	}
	return ""
}

func (in *Interpreter) top() *block {
	return in.blocks[len(in.blocks)-1]
}

func (in *Interpreter) push(e ...ir.Expr) {
	in.stack = append(in.stack, e...)
}

// pop removes the top n operands and returns them bottom first.
func (in *Interpreter) pop(n int) []ir.Expr {
	at := len(in.stack) - n
	out := append([]ir.Expr(nil), in.stack[at:]...)
	in.stack = in.stack[:at]
	return out
}

// takeBlocks removes the last n finished blocks of the current block.
func (in *Interpreter) takeBlocks(n int) []*block {
	top := in.top()
	at := len(top.finished) - n
	out := top.finished[at:]
	top.finished = top.finished[:at:at]
	return out
}

func (in *Interpreter) emit(s ir.Stmt) {
	top := in.top()
	top.stmts = append(top.stmts, s)
}

func (in *Interpreter) temp() string {
	name := fmt.Sprintf("t%d", in.temps)
	in.temps++
	return name
}

func (in *Interpreter) index() string {
	name := fmt.Sprintf("i%d", in.temps)
	in.temps++
	return name
}

// bind emits a call whose n results are bound to fresh temporaries.
func (in *Interpreter) bind(n int, op ir.Op, args ...ir.Expr) []ir.Expr {
	names := make([]string, n)
	out := make([]ir.Expr, n)
	for j := range names {
		names[j] = in.temp()
		out[j] = ir.Var{Name: names[j]}
	}
	in.emit(ir.Assign{Names: names, Call: ir.Call{Op: op, Args: args}, Define: true})
	return out
}

func (in *Interpreter) bind1(op ir.Op, args ...ir.Expr) ir.Expr {
	return in.bind(1, op, args...)[0]
}

// exec emits a call that returns only an error.
func (in *Interpreter) exec(op ir.Op, args ...ir.Expr) {
	in.emit(ir.Assign{Call: ir.Call{Op: op, Args: args}})
}

func (in *Interpreter) mode(strict, trusted ir.Op) ir.Op {
	if in.opts.Trusted {
		return trusted
	}
	return strict
}

func (in *Interpreter) unary(op ir.Op) {
	v := in.pop(1)
	in.push(in.bind1(op, v...))
}

func (in *Interpreter) load(op ir.Op, off uint32) {
	addr := in.pop(1)[0]
	in.push(in.bind1(op, addr, ir.Const{Value: off}))
}

// store pops [value, addr].
func (in *Interpreter) store(op ir.Op, off uint32) {
	v := in.pop(2)
	in.exec(op, v[1], v[0], ir.Const{Value: off})
}

// lazy pushes the block-scoped name in *slot, allocating it on first use.
func (in *Interpreter) lazy(slot *string) {
	if *slot == "" {
		*slot = in.temp()
	}
	in.push(ir.Var{Name: *slot})
}

var castOps = map[abi.Cast]ir.Op{
	abi.I32ToF32: ir.OpI32ToF32,
	abi.F32ToI32: ir.OpF32ToI32,
	abi.I64ToF64: ir.OpI64ToF64,
	abi.F64ToI64: ir.OpF64ToI64,
	abi.I32ToI64: ir.OpI32ToI64,
	abi.I64ToI32: ir.OpI64ToI32,
}

func (in *Interpreter) cast(c abi.Bitcast, e ir.Expr) ir.Expr {
	switch c := c.(type) {
	case abi.Cast:
		if op, ok := castOps[c]; ok {
			return in.bind1(op, e)
		}
	case abi.Sequence:
		return in.cast(c[1], in.cast(c[0], e))
	}
	return e
}

// call binds the result list of a call and spreads it into n operands.
func (in *Interpreter) call(op ir.Op, name string, args []ir.Expr, n int) {
	list := in.temp()
	in.emit(ir.Assign{
		Names:  []string{list},
		Call:   ir.Call{Op: op, Args: prepend(ir.Const{Value: name}, args)},
		Define: true,
	})
	for j := range n {
		t := in.temp()
		in.emit(ir.Let{Name: t, Value: ir.Index{X: ir.Var{Name: list}, I: j}})
		in.push(ir.Var{Name: t})
	}
}

func argName(n int) string {
	return fmt.Sprintf("a%d", n)
}

func zero(t api.ValueType) any {
	switch t {
	case api.ValueTypeI64:
		return int64(0)
	case api.ValueTypeF32:
		return float32(0)
	case api.ValueTypeF64:
		return float64(0)
	}
	return int32(0)
}

func prepend(e ir.Expr, rest []ir.Expr) []ir.Expr {
	return append([]ir.Expr{e}, rest...)
}

func elemName(t wit.Type) string {
	return layout.String(layout.Resolve(t))
}

func flagNames(f *wit.Flags) []string {
	names := make([]string, len(f.Flags))
	for i, fl := range f.Flags {
		names[i] = fl.Name
	}
	return names
}

func enumNames(e *wit.Enum) []string {
	names := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		names[i] = c.Name
	}
	return names
}
