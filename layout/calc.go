package layout

import (
	"go.bytecodealliance.org/wit"
)

// Info describes the memory layout of a type.
type Info struct {
	Size  uint32
	Align uint32

	// FieldOffs holds record field or tuple element offsets in declared order.
	FieldOffs []uint32

	// DiscSize and PayloadOff are set for variant, option, result and enum.
	DiscSize   uint32
	PayloadOff uint32
}

type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case wit.String:
		return Info{Size: 8, Align: 4} // [ptr: u32, len: u32]
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{Size: 0, Align: 1}
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info

	switch kind := t.Kind.(type) {
	case *wit.Record:
		types := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			types[i] = f.Type
		}
		info = c.Struct(types)
	case *wit.Tuple:
		info = c.Struct(kind.Types)
	case *wit.Variant:
		payloads := make([]wit.Type, len(kind.Cases))
		for i, cs := range kind.Cases {
			payloads[i] = cs.Type
		}
		info = c.calculateUnion(payloads)
	case *wit.Enum:
		info = c.calculateUnion(make([]wit.Type, len(kind.Cases)))
	case *wit.Option:
		info = c.calculateUnion([]wit.Type{nil, kind.Type})
	case *wit.Result:
		info = c.calculateUnion([]wit.Type{kind.OK, kind.Err})
	case *wit.List:
		info = Info{Size: 8, Align: 4}
	case *wit.Flags:
		info = FlagsInfo(len(kind.Flags))
	case *wit.Own, *wit.Borrow:
		info = Info{Size: 4, Align: 4}
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

// Struct lays out types in order at natural alignment, as for a record or
// a tuple of function parameters.
func (c *Calculator) Struct(types []wit.Type) Info {
	offs := make([]uint32, len(types))
	maxAlign := uint32(1)
	offset := uint32(0)

	for i, typ := range types {
		l := c.Calculate(typ)
		offset = Align(offset, l.Align)
		offs[i] = offset
		if l.Align > maxAlign {
			maxAlign = l.Align
		}
		offset += l.Size
	}

	return Info{
		Size:      Align(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: offs,
	}
}

// calculateUnion lays out a discriminant followed by the largest payload at
// the most-aligned payload's alignment. A nil payload is an empty case.
func (c *Calculator) calculateUnion(payloads []wit.Type) Info {
	discSize := DiscriminantSize(len(payloads))

	maxAlign := discSize
	maxSize := uint32(0)
	for _, p := range payloads {
		if p == nil {
			continue
		}
		l := c.Calculate(p)
		if l.Align > maxAlign {
			maxAlign = l.Align
		}
		if l.Size > maxSize {
			maxSize = l.Size
		}
	}

	payloadOff := Align(discSize, maxAlign)
	return Info{
		Size:       Align(payloadOff+maxSize, maxAlign),
		Align:      maxAlign,
		DiscSize:   discSize,
		PayloadOff: payloadOff,
	}
}

// DiscriminantSize: 1 byte for <=256 cases, 2 for <=65536, else 4.
func DiscriminantSize(numCases int) uint32 {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}

// FlagsInfo returns the layout of a flags type with n flags. Up to 16 flags
// fit a single u8 or u16; beyond that flags are packed 32 per u32 word.
func FlagsInfo(n int) Info {
	switch {
	case n == 0:
		return Info{Size: 0, Align: 1}
	case n <= 8:
		return Info{Size: 1, Align: 1}
	case n <= 16:
		return Info{Size: 2, Align: 2}
	}
	return Info{Size: uint32(FlagsWords(n) * 4), Align: 4}
}

// FlagsWords returns the number of 32-bit words that carry n flags.
func FlagsWords(n int) int {
	return (n + 31) / 32
}

// Align rounds offset up to a multiple of align, a power of two. An align
// of 0 leaves offset unchanged.
func Align(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
