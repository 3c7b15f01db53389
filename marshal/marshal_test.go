package marshal_test

import (
	"context"
	"math"
	"strings"
	"testing"

	canonabi "github.com/wippyai/canon-abi"
	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/eval"
	"github.com/wippyai/canon-abi/ir"
	"github.com/wippyai/canon-abi/layout"
	"github.com/wippyai/canon-abi/marshal"
	"github.com/wippyai/canon-abi/memory"
	"github.com/wippyai/canon-abi/rt"
	"github.com/wippyai/canon-abi/value"
	"go.bytecodealliance.org/wit"
)

func strp(s string) *string { return &s }

type harness struct {
	t     *testing.T
	cx    *rt.Context
	alloc *memory.BumpAllocator
	calc  *layout.Calculator
	gen   *abi.Generator
	opts  marshal.Options
}

func newHarness(t *testing.T, opts marshal.Options) *harness {
	t.Helper()
	buf := memory.NewBuffer(1 << 12)
	alloc := memory.NewBumpAllocator(buf, 8)
	calc := layout.NewCalculator()
	return &harness{
		t:     t,
		cx:    rt.NewContext(context.Background(), buf, alloc),
		alloc: alloc,
		calc:  calc,
		gen:   abi.NewGenerator(calc, abi.DefaultOptions()),
		opts:  opts,
	}
}

// compile interprets insts and checks the printed program is valid Go.
func (h *harness) compile(insts []abi.Instruction, params int) *ir.Func {
	h.t.Helper()
	fn, err := marshal.Run("marshal", params, insts, h.opts)
	if err != nil {
		h.t.Fatalf("marshal failed: %v", err)
	}
	if src, err := ir.Print(fn); err != nil {
		h.t.Fatalf("print failed: %v\n%s", err, src)
	}
	return fn
}

func (h *harness) run(insts []abi.Instruction, params int, args ...any) ([]any, error) {
	h.t.Helper()
	return eval.Run(context.Background(), h.compile(insts, params), h.cx, args...)
}

func (h *harness) lowerFlat(typ wit.Type, v any) []any {
	h.t.Helper()
	out, err := h.run(h.gen.LowerFlat(typ), 1, v)
	if err != nil {
		h.t.Fatalf("lower failed: %v", err)
	}
	if want := len(layout.Flatten(typ)); len(out) != want {
		h.t.Fatalf("lowered to %d values, want %d", len(out), want)
	}
	return out
}

func (h *harness) liftFlat(typ wit.Type, flat ...any) (any, error) {
	h.t.Helper()
	out, err := h.run(h.gen.LiftFlat(typ), len(flat), flat...)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (h *harness) store(typ wit.Type, v any) int32 {
	h.t.Helper()
	info := h.calc.Calculate(typ)
	ptr, err := h.alloc.Alloc(info.Size, info.Align)
	if err != nil {
		h.t.Fatal(err)
	}
	if _, err := h.run(h.gen.LowerToMemory(typ), 2, v, int32(ptr)); err != nil {
		h.t.Fatalf("store failed: %v", err)
	}
	return int32(ptr)
}

func (h *harness) load(typ wit.Type, ptr int32) (any, error) {
	h.t.Helper()
	out, err := h.run(h.gen.LiftFromMemory(typ), 1, ptr)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func testTypes() map[string]wit.Type {
	rec := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.U8{}},
		{Name: "y", Type: wit.String{}},
	}}}
	return map[string]wit.Type{
		"record": rec,
		"result": &wit.TypeDef{Kind: &wit.Result{OK: wit.U32{}, Err: wit.String{}}},
		"join": &wit.TypeDef{Kind: &wit.Variant{Cases: []wit.Case{
			{Name: "a", Type: wit.F32{}},
			{Name: "b", Type: wit.U64{}},
			{Name: "c", Type: wit.String{}},
			{Name: "d"},
		}}},
		"optopt":    &wit.TypeDef{Kind: &wit.Option{Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}}},
		"option":    &wit.TypeDef{Kind: &wit.Option{Type: wit.String{}}},
		"flags":     &wit.TypeDef{Kind: &wit.Flags{Flags: []wit.Flag{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}}}},
		"enum":      &wit.TypeDef{Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "r"}, {Name: "g"}, {Name: "b"}}}},
		"list<u16>": &wit.TypeDef{Kind: &wit.List{Type: wit.U16{}}},
		"list<rec>": &wit.TypeDef{Kind: &wit.List{Type: rec}},
		"list<str>": &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}},
		"tuple":     &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.Char{}, wit.F64{}, wit.Bool{}}}},
		"alias":     &wit.TypeDef{Name: strp("bytes"), Kind: &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}},
	}
}

func TestRoundTrip(t *testing.T) {
	types := testTypes()
	rec := func(x uint8, y string) value.Record { return value.Record{"x": x, "y": y} }

	tests := []struct {
		name string
		typ  wit.Type
		v    any
	}{
		{"u8", wit.U8{}, uint8(255)},
		{"s16", wit.S16{}, int16(-1234)},
		{"u64", wit.U64{}, uint64(math.MaxUint64)},
		{"f64", wit.F64{}, 2.5},
		{"char", wit.Char{}, 'λ'},
		{"bool", wit.Bool{}, true},
		{"string", wit.String{}, "héllo"},
		{"empty string", wit.String{}, ""},
		{"record", types["record"], rec(255, "ab")},
		{"result ok", types["result"], value.Ok(uint32(7))},
		{"result err", types["result"], value.Err("bad")},
		{"variant f32", types["join"], value.Variant{Case: "a", Value: float32(1.5)}},
		{"variant u64", types["join"], value.Variant{Case: "b", Value: uint64(1 << 40)}},
		{"variant string", types["join"], value.Variant{Case: "c", Value: "hi"}},
		{"variant empty", types["join"], value.Variant{Case: "d"}},
		{"option none", types["option"], nil},
		{"option some", types["option"], "x"},
		{"optopt none", types["optopt"], value.None},
		{"optopt some none", types["optopt"], value.Some(nil)},
		{"optopt some some", types["optopt"], value.Some(uint32(7))},
		{"flags", types["flags"], value.Flags{"a": true, "e": true}},
		{"enum", types["enum"], "g"},
		{"list<u16>", types["list<u16>"], []uint16{1, 2, 65535}},
		{"list<rec>", types["list<rec>"], []any{rec(1, "a"), rec(2, "bc")}},
		{"list<str> empty", types["list<str>"], []any{}},
		{"list<str>", types["list<str>"], []any{"x", "", "yz"}},
		{"tuple", types["tuple"], []any{'x', 0.25, false}},
		{"alias", types["alias"], []uint8("raw")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Run("flat", func(t *testing.T) {
				h := newHarness(t, marshal.DefaultOptions())
				got, err := h.liftFlat(tt.typ, h.lowerFlat(tt.typ, tt.v)...)
				if err != nil {
					t.Fatalf("lift failed: %v", err)
				}
				if !value.Equal(got, tt.v) {
					t.Errorf("got %#v, want %#v", got, tt.v)
				}
			})
			t.Run("memory", func(t *testing.T) {
				h := newHarness(t, marshal.DefaultOptions())
				got, err := h.load(tt.typ, h.store(tt.typ, tt.v))
				if err != nil {
					t.Fatalf("lift failed: %v", err)
				}
				if !value.Equal(got, tt.v) {
					t.Errorf("got %#v, want %#v", got, tt.v)
				}
			})
		})
	}
}

func TestRecordScenario(t *testing.T) {
	h := newHarness(t, marshal.DefaultOptions())
	typ := testTypes()["record"]

	flat := h.lowerFlat(typ, value.Record{"x": uint8(255), "y": "ab"})
	if flat[0] != int32(255) {
		t.Errorf("x lowered to %v, want 255", flat[0])
	}
	if flat[2] != int32(2) {
		t.Errorf("y length = %v, want 2", flat[2])
	}

	got, err := h.liftFlat(typ, flat...)
	if err != nil {
		t.Fatal(err)
	}
	r, ok := got.(value.Record)
	if !ok {
		t.Fatalf("lifted %T, want value.Record", got)
	}
	if r["x"] != uint8(255) || r["y"] != "ab" {
		t.Errorf("got %v", r)
	}
}

func TestResultScenario(t *testing.T) {
	typ := testTypes()["result"]

	t.Run("err payload", func(t *testing.T) {
		h := newHarness(t, marshal.DefaultOptions())
		flat := h.lowerFlat(typ, value.Err("bad"))
		if flat[0] != int32(1) {
			t.Fatalf("discriminant = %v, want 1", flat[0])
		}
		got, err := h.liftFlat(typ, flat...)
		if err != nil {
			t.Fatal(err)
		}
		if !value.Equal(got, value.Err("bad")) {
			t.Errorf("got %#v", got)
		}
	})

	t.Run("discriminant out of range", func(t *testing.T) {
		h := newHarness(t, marshal.DefaultOptions())
		_, err := h.liftFlat(typ, int32(2), int32(0), int32(0))
		if !errors.IsKind(err, errors.KindWireFormat) {
			t.Fatalf("err = %v, want wire format violation", err)
		}
	})

	t.Run("discriminant out of range in memory", func(t *testing.T) {
		h := newHarness(t, marshal.DefaultOptions())
		ptr := h.store(typ, value.Ok(uint32(1)))
		if err := h.cx.Memory.WriteU8(uint32(ptr), 2); err != nil {
			t.Fatal(err)
		}
		if _, err := h.load(typ, ptr); !errors.IsKind(err, errors.KindWireFormat) {
			t.Fatalf("err = %v, want wire format violation", err)
		}
	})
}

func TestFlagsScenario(t *testing.T) {
	typ := testTypes()["flags"]
	wire := int32(0xE0 | 0x01)

	strict := newHarness(t, marshal.DefaultOptions())
	if _, err := strict.liftFlat(typ, wire); !errors.IsKind(err, errors.KindWireFormat) {
		t.Fatalf("strict: err = %v, want wire format violation", err)
	}

	trusted := newHarness(t, marshal.Options{Trusted: true})
	got, err := trusted.liftFlat(typ, wire)
	if err != nil {
		t.Fatalf("trusted: %v", err)
	}
	if !value.Equal(got, value.Flags{"a": true}) {
		t.Errorf("trusted: got %#v", got)
	}
}

func TestTrustedSkipsValidation(t *testing.T) {
	tests := []struct {
		name string
		typ  wit.Type
		wire int32
		want any
	}{
		{"bool", wit.Bool{}, 2, true},
		{"u8", wit.U8{}, 0x1FF, uint8(0xFF)},
		{"char", wit.Char{}, 0xD800, rune(0xD800)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strict := newHarness(t, marshal.DefaultOptions())
			if _, err := strict.liftFlat(tt.typ, tt.wire); !errors.IsKind(err, errors.KindWireFormat) {
				t.Errorf("strict: err = %v, want wire format violation", err)
			}
			trusted := newHarness(t, marshal.Options{Trusted: true})
			got, err := trusted.liftFlat(tt.typ, tt.wire)
			if err != nil {
				t.Fatalf("trusted: %v", err)
			}
			if got != tt.want {
				t.Errorf("trusted: got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTrustedOmitsDefaultArm(t *testing.T) {
	typ := testTypes()["result"]
	h := newHarness(t, marshal.Options{Trusted: true})
	fn := h.compile(h.gen.LiftFlat(typ), 3)
	src, err := ir.Print(fn)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(src), "InvalidDiscriminant") {
		t.Errorf("trusted program validates discriminants:\n%s", src)
	}
	if !strings.Contains(string(src), "rt.StringLiftTrusted(") {
		t.Errorf("trusted program uses strict string lifting:\n%s", src)
	}
}

func TestVariantJoinCasts(t *testing.T) {
	h := newHarness(t, marshal.DefaultOptions())
	typ := testTypes()["join"]

	src, err := ir.Print(h.compile(h.gen.LowerFlat(typ), 1))
	if err != nil {
		t.Fatal(err)
	}
	s := string(src)
	f2i := strings.Index(s, "rt.F32ToI32(")
	widen := strings.Index(s, "rt.I32ToI64(")
	if f2i < 0 || widen < f2i {
		t.Errorf("f32 payload not widened through i32:\n%s", s)
	}

	flat := h.lowerFlat(typ, value.Variant{Case: "a", Value: float32(1.5)})
	if _, ok := flat[1].(int64); !ok {
		t.Fatalf("joined slot is %T, want int64", flat[1])
	}
	if got := uint32(flat[1].(int64)); got != math.Float32bits(1.5) {
		t.Errorf("payload bits = %#x, want %#x", got, math.Float32bits(1.5))
	}
}

func TestNestedOption(t *testing.T) {
	typ := testTypes()["optopt"]
	h := newHarness(t, marshal.DefaultOptions())

	tests := []struct {
		name string
		v    any
		disc []int32
	}{
		{"none", value.None, []int32{0, 0}},
		{"some none", value.Some(nil), []int32{1, 0}},
		{"some some", value.Some(uint32(9)), []int32{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat := h.lowerFlat(typ, tt.v)
			if flat[0] != tt.disc[0] || flat[1] != tt.disc[1] {
				t.Errorf("discriminants = %v %v, want %v", flat[0], flat[1], tt.disc)
			}
			got, err := h.liftFlat(typ, flat...)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := got.(value.Option); !ok {
				t.Fatalf("outer option lifted as %T, want value.Option", got)
			}
			if !value.Equal(got, tt.v) {
				t.Errorf("got %#v, want %#v", got, tt.v)
			}
		})
	}

	t.Run("bare outer value rejected", func(t *testing.T) {
		if _, err := h.run(h.gen.LowerFlat(typ), 1, uint32(9)); !errors.IsKind(err, errors.KindTypeMismatch) {
			t.Errorf("err = %v, want type mismatch", err)
		}
	})
}

func TestCanonListIsTyped(t *testing.T) {
	h := newHarness(t, marshal.DefaultOptions())
	typ := &wit.TypeDef{Kind: &wit.List{Type: wit.F64{}}}

	got, err := h.load(typ, h.store(typ, []float64{1, 2.5}))
	if err != nil {
		t.Fatal(err)
	}
	list, ok := got.([]float64)
	if !ok || len(list) != 2 || list[1] != 2.5 {
		t.Errorf("got %#v, want []float64{1, 2.5}", got)
	}
}

type countingAllocator struct {
	canonabi.Allocator
	calls int
	err   error
}

func (a *countingAllocator) Alloc(size, align uint32) (uint32, error) {
	a.calls++
	if a.err != nil {
		return 0, a.err
	}
	return a.Allocator.Alloc(size, align)
}

func TestAllocatorErrorPassesThrough(t *testing.T) {
	var errExhausted error = errors.AllocationFailed(errors.PhaseLower, 5, 1)
	types := testTypes()

	tests := []struct {
		name string
		typ  wit.Type
		v    any
	}{
		{"string", wit.String{}, "hello"},
		{"canonical list", types["list<u16>"], []uint16{1, 2}},
		{"list of strings", types["list<str>"], []any{"a"}},
		{"record field", types["record"], value.Record{"x": uint8(1), "y": "why"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, marshal.DefaultOptions())
			alloc := &countingAllocator{Allocator: h.alloc, err: errExhausted}
			h.cx.Allocator = alloc

			_, err := h.run(h.gen.LowerFlat(tt.typ), 1, tt.v)
			if err != errExhausted {
				t.Fatalf("err = %v, want the allocator's error unchanged", err)
			}
			if alloc.calls != 1 {
				t.Errorf("allocator called %d times, want 1", alloc.calls)
			}
		})
	}
}

func TestEmptyListsDoNotAllocate(t *testing.T) {
	types := testTypes()

	tests := []struct {
		name string
		typ  wit.Type
		v    any
	}{
		{"string", wit.String{}, ""},
		{"canonical list", types["list<u16>"], []uint16{}},
		{"list of strings", types["list<str>"], []any{}},
		{"list of records", types["list<rec>"], []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, marshal.DefaultOptions())
			alloc := &countingAllocator{Allocator: h.alloc}
			h.cx.Allocator = alloc

			flat := h.lowerFlat(tt.typ, tt.v)
			if flat[0] != int32(0) || flat[1] != int32(0) {
				t.Errorf("lowered to %v, want (0, 0)", flat)
			}
			if alloc.calls != 0 {
				t.Errorf("allocator called %d times", alloc.calls)
			}
		})
	}
}
