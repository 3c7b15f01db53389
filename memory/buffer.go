package memory

import (
	"encoding/binary"

	"github.com/wippyai/canon-abi/errors"
)

// Buffer is linear memory backed by a byte slice.
type Buffer struct {
	data  []byte
	limit uint32
}

// NewBuffer creates a zeroed buffer of size bytes that may grow without
// limit up to 4 GiB.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size), limit: ^uint32(0)}
}

// NewFixedBuffer creates a zeroed buffer that never grows.
func NewFixedBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size), limit: size}
}

// Bytes returns the underlying slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Size returns the current size in bytes.
func (b *Buffer) Size() uint32 {
	return uint32(len(b.data))
}

// Grow extends the buffer by delta zero bytes. It reports false when the
// limit would be exceeded.
func (b *Buffer) Grow(delta uint32) bool {
	if uint64(len(b.data))+uint64(delta) > uint64(b.limit) {
		return false
	}
	b.data = append(b.data, make([]byte, delta)...)
	return true
}

func (b *Buffer) span(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b.data)) {
		return nil, errors.New(errors.PhaseLift, errors.KindOutOfBounds).
			Value(offset).
			Detail("memory access out of bounds: offset=%d, length=%d, size=%d", offset, length, len(b.data)).
			Build()
	}
	return b.data[offset:end], nil
}

// Read returns a copy of length bytes at offset.
func (b *Buffer) Read(offset, length uint32) ([]byte, error) {
	s, err := b.span(offset, length)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), s...), nil
}

func (b *Buffer) Write(offset uint32, data []byte) error {
	s, err := b.span(offset, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(s, data)
	return nil
}

func (b *Buffer) ReadU8(offset uint32) (uint8, error) {
	s, err := b.span(offset, 1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

func (b *Buffer) ReadU16(offset uint32) (uint16, error) {
	s, err := b.span(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(s), nil
}

func (b *Buffer) ReadU32(offset uint32) (uint32, error) {
	s, err := b.span(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(s), nil
}

func (b *Buffer) ReadU64(offset uint32) (uint64, error) {
	s, err := b.span(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(s), nil
}

func (b *Buffer) WriteU8(offset uint32, value uint8) error {
	s, err := b.span(offset, 1)
	if err != nil {
		return err
	}
	s[0] = value
	return nil
}

func (b *Buffer) WriteU16(offset uint32, value uint16) error {
	s, err := b.span(offset, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(s, value)
	return nil
}

func (b *Buffer) WriteU32(offset uint32, value uint32) error {
	s, err := b.span(offset, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(s, value)
	return nil
}

func (b *Buffer) WriteU64(offset uint32, value uint64) error {
	s, err := b.span(offset, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s, value)
	return nil
}
