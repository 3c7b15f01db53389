package layout

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestCalculatePrimitives(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		typ   wit.Type
		name  string
		size  uint32
		align uint32
	}{
		{wit.Bool{}, "bool", 1, 1},
		{wit.U8{}, "u8", 1, 1},
		{wit.S8{}, "s8", 1, 1},
		{wit.U16{}, "u16", 2, 2},
		{wit.S16{}, "s16", 2, 2},
		{wit.U32{}, "u32", 4, 4},
		{wit.S32{}, "s32", 4, 4},
		{wit.U64{}, "u64", 8, 8},
		{wit.S64{}, "s64", 8, 8},
		{wit.F32{}, "f32", 4, 4},
		{wit.F64{}, "f64", 8, 8},
		{wit.Char{}, "char", 4, 4},
		{wit.String{}, "string", 8, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := c.Calculate(tc.typ)
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func TestCalculateRecord(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		info := c.Calculate(&wit.TypeDef{Kind: &wit.Record{}})
		if info.Size != 0 || info.Align != 1 {
			t.Errorf("got size %d align %d, want 0/1", info.Size, info.Align)
		}
	})

	t.Run("u8_string", func(t *testing.T) {
		rec := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
			{Name: "x", Type: wit.U8{}},
			{Name: "y", Type: wit.String{}},
		}}}
		info := c.Calculate(rec)
		if info.Size != 12 || info.Align != 4 {
			t.Errorf("got size %d align %d, want 12/4", info.Size, info.Align)
		}
		if info.FieldOffs[0] != 0 || info.FieldOffs[1] != 4 {
			t.Errorf("offsets: got %v, want [0 4]", info.FieldOffs)
		}
	})

	t.Run("mixed_alignment", func(t *testing.T) {
		rec := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
			{Name: "a", Type: wit.U8{}},
			{Name: "b", Type: wit.U64{}},
			{Name: "c", Type: wit.U16{}},
		}}}
		info := c.Calculate(rec)
		if info.Size != 24 || info.Align != 8 {
			t.Errorf("got size %d align %d, want 24/8", info.Size, info.Align)
		}
		want := []uint32{0, 8, 16}
		for i, off := range want {
			if info.FieldOffs[i] != off {
				t.Errorf("field %d offset: got %d, want %d", i, info.FieldOffs[i], off)
			}
		}
	})
}

func TestCalculateVariants(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		name       string
		typ        wit.Type
		size       uint32
		align      uint32
		discSize   uint32
		payloadOff uint32
	}{
		{
			name: "result_u32_string",
			typ:  &wit.TypeDef{Kind: &wit.Result{OK: wit.U32{}, Err: wit.String{}}},
			size: 12, align: 4, discSize: 1, payloadOff: 4,
		},
		{
			name: "option_u8",
			typ:  &wit.TypeDef{Kind: &wit.Option{Type: wit.U8{}}},
			size: 2, align: 1, discSize: 1, payloadOff: 1,
		},
		{
			name: "option_u64",
			typ:  &wit.TypeDef{Kind: &wit.Option{Type: wit.U64{}}},
			size: 16, align: 8, discSize: 1, payloadOff: 8,
		},
		{
			name: "variant_no_payload",
			typ: &wit.TypeDef{Kind: &wit.Variant{Cases: []wit.Case{
				{Name: "a"}, {Name: "b"},
			}}},
			size: 1, align: 1, discSize: 1, payloadOff: 1,
		},
		{
			name: "enum",
			typ:  &wit.TypeDef{Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "a"}, {Name: "b"}}}},
			size: 1, align: 1, discSize: 1, payloadOff: 1,
		},
		{
			name: "empty_result",
			typ:  &wit.TypeDef{Kind: &wit.Result{}},
			size: 1, align: 1, discSize: 1, payloadOff: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := c.Calculate(tt.typ)
			if info.Size != tt.size {
				t.Errorf("size: got %d, want %d", info.Size, tt.size)
			}
			if info.Align != tt.align {
				t.Errorf("align: got %d, want %d", info.Align, tt.align)
			}
			if info.DiscSize != tt.discSize {
				t.Errorf("disc size: got %d, want %d", info.DiscSize, tt.discSize)
			}
			if info.PayloadOff != tt.payloadOff {
				t.Errorf("payload offset: got %d, want %d", info.PayloadOff, tt.payloadOff)
			}
		})
	}
}

func TestDiscriminantSize(t *testing.T) {
	tests := []struct {
		cases int
		want  uint32
	}{
		{1, 1}, {256, 1}, {257, 2}, {65536, 2}, {65537, 4},
	}
	for _, tt := range tests {
		if got := DiscriminantSize(tt.cases); got != tt.want {
			t.Errorf("DiscriminantSize(%d) = %d, want %d", tt.cases, got, tt.want)
		}
	}
}

func TestFlagsInfo(t *testing.T) {
	tests := []struct {
		n           int
		size, align uint32
		words       int
	}{
		{0, 0, 1, 0},
		{5, 1, 1, 1},
		{8, 1, 1, 1},
		{9, 2, 2, 1},
		{16, 2, 2, 1},
		{17, 4, 4, 1},
		{32, 4, 4, 1},
		{33, 8, 4, 2},
		{64, 8, 4, 2},
		{65, 12, 4, 3},
	}
	for _, tt := range tests {
		info := FlagsInfo(tt.n)
		if info.Size != tt.size || info.Align != tt.align {
			t.Errorf("FlagsInfo(%d) = %d/%d, want %d/%d", tt.n, info.Size, info.Align, tt.size, tt.align)
		}
		if got := FlagsWords(tt.n); got != tt.words {
			t.Errorf("FlagsWords(%d) = %d, want %d", tt.n, got, tt.words)
		}
	}
}

func TestCalculateAlias(t *testing.T) {
	c := NewCalculator()
	name := "point"
	rec := &wit.TypeDef{Name: &name, Kind: &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.S32{}},
		{Name: "y", Type: wit.S32{}},
	}}}
	alias := &wit.TypeDef{Kind: rec}
	if info := c.Calculate(alias); info.Size != 8 || info.Align != 4 {
		t.Errorf("alias: got %d/%d, want 8/4", info.Size, info.Align)
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		offset, align, want uint32
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 8, 8},
		{3, 1, 3},
		{7, 0, 7},
	}
	for _, tt := range tests {
		if got := Align(tt.offset, tt.align); got != tt.want {
			t.Errorf("Align(%d, %d) = %d, want %d", tt.offset, tt.align, got, tt.want)
		}
	}
}
