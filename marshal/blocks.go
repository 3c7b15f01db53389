package marshal

import (
	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/ir"
)

// listLower allocates len*size bytes and runs the element block once per
// element with IterElem and IterBasePointer bound.
func (in *Interpreter) listLower(i abi.ListLower) error {
	b := in.takeBlocks(1)[0]
	if len(b.results) != 0 {
		return errors.BlockImbalance("list element block yields %d operands, want 0", len(b.results))
	}
	v := in.pop(1)[0]
	info := in.calc.Calculate(i.Element)

	n := in.bind1(ir.OpListLen, v)
	ptr := in.bind1(ir.OpAlloc, n, ir.Const{Value: info.Size}, ir.Const{Value: info.Align})

	idx := in.index()
	var body []ir.Stmt
	if b.elem != "" {
		body = append(body, ir.Assign{
			Names:  []string{b.elem},
			Call:   ir.Call{Op: ir.OpListElem, Args: []ir.Expr{v, ir.Var{Name: idx}}},
			Define: true,
		})
	}
	if b.basePtr != "" {
		body = append(body, elemAddr(b.basePtr, ptr, idx, info.Size))
	}
	body = append(body, b.stmts...)

	in.emit(ir.Loop{Count: n, Index: idx, Body: body})
	in.push(ptr, n)
	return nil
}

// listLift builds a list of len elements, each produced by the element
// block reading from IterBasePointer.
func (in *Interpreter) listLift(i abi.ListLift) error {
	b := in.takeBlocks(1)[0]
	if len(b.results) != 1 {
		return errors.BlockImbalance("list element block yields %d operands, want 1", len(b.results))
	}
	v := in.pop(2)
	ptr, n := v[0], v[1]
	info := in.calc.Calculate(i.Element)

	list := in.bind1(ir.OpMakeList, n)

	idx := in.index()
	var body []ir.Stmt
	if b.basePtr != "" {
		body = append(body, elemAddr(b.basePtr, ptr, idx, info.Size))
	}
	body = append(body, b.stmts...)
	body = append(body, ir.Assign{Call: ir.Call{
		Op:   ir.OpListSet,
		Args: []ir.Expr{list, ir.Var{Name: idx}, b.results[0]},
	}})

	in.emit(ir.Loop{Count: n, Index: idx, Body: body})
	in.push(list)
	return nil
}

func elemAddr(name string, ptr ir.Expr, idx string, size uint32) ir.Stmt {
	return ir.Assign{
		Names:  []string{name},
		Call:   ir.Call{Op: ir.OpElemAddr, Args: []ir.Expr{ptr, ir.Var{Name: idx}, ir.Const{Value: size}}},
		Define: true,
	}
}

// casesLower emits the lowering switch shared by variant, option and result.
// tag and payload are calls whose first argument is filled with the value.
// Every case assigns its block results into temporaries declared before the
// switch.
func (in *Interpreter) casesLower(n, results int, tag, payload ir.Call) error {
	blocks := in.takeBlocks(n)
	v := in.pop(1)[0]

	disc := in.bind1(tag.Op, withValue(tag.Args, v)...)

	names := make([]string, results)
	for k := range names {
		names[k] = in.temp()
	}
	if results > 0 {
		in.emit(ir.Declare{Names: names})
	}

	cases := make([]ir.Case, n)
	for c, b := range blocks {
		if len(b.results) != results {
			return errors.BlockImbalance("case %d yields %d operands, want %d", c, len(b.results), results)
		}
		var body []ir.Stmt
		if b.payload != "" {
			body = append(body, ir.Assign{
				Names:  []string{b.payload},
				Call:   ir.Call{Op: payload.Op, Args: withValue(payload.Args, v)},
				Define: true,
			})
		}
		body = append(body, b.stmts...)
		for k, r := range b.results {
			body = append(body, ir.Set{Name: names[k], Value: r})
		}
		cases[c] = ir.Case{Value: int32(c), Body: body}
	}
	in.emit(ir.Switch{Tag: disc, Cases: cases})

	for _, name := range names {
		in.push(ir.Var{Name: name})
	}
	return nil
}

// casesLift emits the lifting switch shared by variant, option and result.
// build makes the constructor call for case c given its payload, or nil.
func (in *Interpreter) casesLift(n int, build func(c int, payload ir.Expr) ir.Call) error {
	blocks := in.takeBlocks(n)
	disc := in.pop(1)[0]

	r := in.temp()
	in.emit(ir.Declare{Names: []string{r}})

	cases := make([]ir.Case, n)
	for c, b := range blocks {
		var payload ir.Expr = ir.Const{}
		switch len(b.results) {
		case 0:
		case 1:
			payload = b.results[0]
		default:
			return errors.BlockImbalance("case %d yields %d operands, want at most 1", c, len(b.results))
		}
		body := append(b.stmts[:len(b.stmts):len(b.stmts)], ir.Assign{
			Names: []string{r},
			Call:  build(c, payload),
		})
		cases[c] = ir.Case{Value: int32(c), Body: body}
	}

	var def []ir.Stmt
	if !in.opts.Trusted {
		def = []ir.Stmt{ir.Fail{Disc: disc, Cases: n}}
	}
	in.emit(ir.Switch{Tag: disc, Cases: cases, Default: def})
	in.push(ir.Var{Name: r})
	return nil
}

// withValue copies args with the first slot set to v.
func withValue(args []ir.Expr, v ir.Expr) []ir.Expr {
	out := append([]ir.Expr(nil), args...)
	out[0] = v
	return out
}
