package memory

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	canonabi "github.com/wippyai/canon-abi"
	"github.com/wippyai/canon-abi/errors"
)

// Memory is wazero linear memory seen through canonabi.Memory.
type Memory struct {
	Mem api.Memory
}

// Wrap adapts a wazero memory. It returns nil for a nil memory.
func Wrap(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{Mem: mem}
}

var (
	_ canonabi.Memory      = (*Memory)(nil)
	_ canonabi.MemorySizer = (*Memory)(nil)
	_ canonabi.Allocator   = (*Realloc)(nil)
	_ canonabi.Memory      = (*Buffer)(nil)
	_ canonabi.Allocator   = (*BumpAllocator)(nil)
)

func outOfBounds(offset, length uint32) error {
	return errors.New(errors.PhaseLift, errors.KindOutOfBounds).
		Value(offset).
		Detail("memory access out of bounds: offset=%d, length=%d", offset, length).
		Build()
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.Mem.Size()
}

// Grow extends memory by at least delta bytes, rounded up to whole pages.
func (m *Memory) Grow(delta uint32) bool {
	pages := (uint64(delta) + 65535) / 65536
	_, ok := m.Mem.Grow(uint32(pages))
	return ok
}

// Read returns a copy of length bytes at offset.
func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds(offset, length)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return outOfBounds(offset, uint32(len(data)))
	}
	return nil
}

func (m *Memory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, outOfBounds(offset, 1)
	}
	return v, nil
}

func (m *Memory) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	if !ok {
		return 0, outOfBounds(offset, 2)
	}
	return v, nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, outOfBounds(offset, 4)
	}
	return v, nil
}

func (m *Memory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	if !ok {
		return 0, outOfBounds(offset, 8)
	}
	return v, nil
}

func (m *Memory) WriteU8(offset uint32, value uint8) error {
	if !m.Mem.WriteByte(offset, value) {
		return outOfBounds(offset, 1)
	}
	return nil
}

func (m *Memory) WriteU16(offset uint32, value uint16) error {
	if !m.Mem.WriteUint16Le(offset, value) {
		return outOfBounds(offset, 2)
	}
	return nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return outOfBounds(offset, 4)
	}
	return nil
}

func (m *Memory) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return outOfBounds(offset, 8)
	}
	return nil
}

// Realloc allocates through the guest's cabi_realloc export.
type Realloc struct {
	Ctx context.Context
	Fn  api.Function
}

// WrapRealloc adapts a cabi_realloc export. It returns nil for a nil
// function.
func WrapRealloc(ctx context.Context, fn api.Function) *Realloc {
	if fn == nil {
		return nil
	}
	return &Realloc{Ctx: ctx, Fn: fn}
}

// Alloc calls cabi_realloc(0, 0, align, size). Call errors are returned
// unchanged.
func (a *Realloc) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseLower, size, align)
	}
	return api.DecodeU32(results[0]), nil
}

// Free calls cabi_realloc(ptr, size, align, 0).
func (a *Realloc) Free(ptr, size, align uint32) {
	_, _ = a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0)
}

// WrapFunction turns an exported core function into a call taking and
// returning core values (int32, int64, float32, float64) in the order of
// its wasm signature.
func WrapFunction(fn api.Function) func(ctx context.Context, args []any) ([]any, error) {
	def := fn.Definition()
	params, results := def.ParamTypes(), def.ResultTypes()
	name := def.DebugName()

	return func(ctx context.Context, args []any) ([]any, error) {
		if len(args) != len(params) {
			return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
				Detail("%s: got %d arguments, want %d", name, len(args), len(params)).
				Build()
		}
		stack := make([]uint64, max(len(params), len(results)))
		for i, t := range params {
			v, err := encode(t, args[i])
			if err != nil {
				return nil, errors.New(errors.PhaseCall, errors.KindTypeMismatch).
					Cause(err).
					Detail("%s: argument %d", name, i).
					Build()
			}
			stack[i] = v
		}
		if err := fn.CallWithStack(ctx, stack); err != nil {
			return nil, err
		}
		out := make([]any, len(results))
		for i, t := range results {
			out[i] = decode(t, stack[i])
		}
		return out, nil
	}
}

func encode(t api.ValueType, v any) (uint64, error) {
	switch t {
	case api.ValueTypeI32:
		if n, ok := v.(int32); ok {
			return api.EncodeI32(n), nil
		}
	case api.ValueTypeI64:
		if n, ok := v.(int64); ok {
			return api.EncodeI64(n), nil
		}
	case api.ValueTypeF32:
		if f, ok := v.(float32); ok {
			return api.EncodeF32(f), nil
		}
	case api.ValueTypeF64:
		if f, ok := v.(float64); ok {
			return api.EncodeF64(f), nil
		}
	}
	return 0, errors.New(errors.PhaseCall, errors.KindTypeMismatch).
		Value(v).
		Detail("cannot pass %T as %s", v, api.ValueTypeName(t)).
		Build()
}

func decode(t api.ValueType, v uint64) any {
	switch t {
	case api.ValueTypeI64:
		return int64(v)
	case api.ValueTypeF32:
		return api.DecodeF32(v)
	case api.ValueTypeF64:
		return api.DecodeF64(v)
	}
	return api.DecodeI32(v)
}
