// Package binary provides type-safe binary reading primitives with bounds checking
package binary

import (
	"fmt"
	"strings"

	"github.com/simonhull/binmeta/internal/types"
)

// Buffer wraps a byte slice with bounds checking and helpful error messages.
//
// All reads are side-effect free: a Buffer carries no cursor and may be
// shared across goroutines. Sequential access goes through Reader.
type Buffer struct {
	data []byte
}

// NewBuffer creates a Buffer over data. The slice is not copied.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Len returns the buffer length.
func (b *Buffer) Len() int64 {
	return int64(len(b.data))
}

// Bytes returns the n bytes at the given offset without copying.
func (b *Buffer) Bytes(off int64, n int, what string) ([]byte, error) {
	if off < 0 || off >= b.Len() {
		return nil, &types.OutOfBoundsError{
			What:   what,
			Offset: off,
			Length: n,
			Size:   b.Len(),
		}
	}

	if off+int64(n) > b.Len() {
		return nil, &types.OutOfBoundsError{
			What:   what,
			Offset: off,
			Length: n,
			Size:   b.Len(),
		}
	}

	return b.data[off : off+int64(n)], nil
}

// Read reads a value of type T from the given offset in big-endian order.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string) (T, error) {
	return ReadEndian[T](b, off, what, BigEndian)
}

// ReadSyncsafe reads a 4-byte syncsafe integer at the given offset.
//
// Syncsafe integers carry 7 payload bits per byte, most significant group
// first, yielding values in [0, 2^28-1].
func ReadSyncsafe(b *Buffer, off int64, what string) (uint32, error) {
	raw, err := b.Bytes(off, 4, what)
	if err != nil {
		return 0, err
	}
	return DecodeSyncsafe(raw), nil
}

// DecodeSyncsafe decodes 4 syncsafe bytes into a plain integer.
// The high bit of each byte is ignored.
func DecodeSyncsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// FixedString reads an n-byte fixed field and right-trims NUL and space
// padding. Fixed text fields in legacy tag layouts pad with either.
func (b *Buffer) FixedString(off int64, n int, what string) (string, error) {
	raw, err := b.Bytes(off, n, what)
	if err != nil {
		return "", err
	}
	return TrimPadding(raw), nil
}

// CString reads a NUL-terminated string starting at off, scanning at most
// max bytes. Returns the string and the number of bytes consumed including
// the terminator. A missing terminator is an error.
func (b *Buffer) CString(off int64, max int, what string) (string, int, error) {
	if int64(max) > b.Len()-off {
		max = int(b.Len() - off)
	}
	raw, err := b.Bytes(off, max, what)
	if err != nil {
		return "", 0, err
	}

	idx := strings.IndexByte(string(raw), 0)
	if idx < 0 {
		return "", 0, fmt.Errorf("missing NUL terminator while reading %s at offset %d", what, off)
	}

	return string(raw[:idx]), idx + 1, nil
}

// TrimPadding strips trailing NUL and space bytes from a fixed-width field.
func TrimPadding(raw []byte) string {
	end := len(raw)
	for end > 0 && (raw[end-1] == 0 || raw[end-1] == ' ') {
		end--
	}
	return string(raw[:end])
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*Buffer
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(b *Buffer, offset int64) *Reader {
	return &Reader{
		Buffer: b,
		offset: offset,
	}
}

// ReadValue reads a big-endian numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	return readValueEndian[T](r, what, BigEndian)
}

// ReadValueLE reads a little-endian numeric value and advances the offset.
func ReadValueLE[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	return readValueEndian[T](r, what, LittleEndian)
}

func readValueEndian[T uint8 | uint16 | uint32 | uint64](r *Reader, what string, endian Endianness) (T, error) {
	val, err := ReadEndian[T](r.Buffer, r.offset, what, endian)
	if err != nil {
		var zero T
		return zero, err
	}

	// Advance offset based on type size
	var size int64
	var zero T
	switch any(zero).(type) {
	case uint8:
		size = 1
	case uint16:
		size = 2
	case uint32:
		size = 4
	case uint64:
		size = 8
	}

	r.offset += size
	return val, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	raw, err := r.Buffer.Bytes(r.offset, length, what)
	if err != nil {
		return "", err
	}

	r.offset += int64(length)
	return string(raw), nil
}

// ReadBytes reads length bytes and advances the offset.
func (r *Reader) ReadBytes(length int, what string) ([]byte, error) {
	raw, err := r.Buffer.Bytes(r.offset, length, what)
	if err != nil {
		return nil, err
	}

	r.offset += int64(length)
	return raw, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Remaining returns the number of bytes between the offset and buffer end.
func (r *Reader) Remaining() int64 {
	if r.offset >= r.Buffer.Len() {
		return 0
	}
	return r.Buffer.Len() - r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a big-endian value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// ReadChainedLE reads a little-endian value with deferred error checking.
func ReadChainedLE[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValueLE[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	if cr.err != nil {
		return ""
	}

	val, err := cr.Reader.ReadString(length, what)
	if err != nil {
		cr.err = err
		return ""
	}

	return val
}

// FixedString reads a fixed-width field and right-trims padding,
// accumulating any error.
func (cr *ChainReader) FixedString(length int, what string) string {
	if cr.err != nil {
		return ""
	}

	raw, err := cr.Reader.ReadBytes(length, what)
	if err != nil {
		cr.err = err
		return ""
	}

	return TrimPadding(raw)
}

// Bytes reads length raw bytes, accumulating any error.
func (cr *ChainReader) Bytes(length int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	raw, err := cr.Reader.ReadBytes(length, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return raw
}

// Skip advances the offset by n bytes unless an error is pending.
func (cr *ChainReader) Skip(n int64) {
	if cr.err != nil {
		return
	}
	cr.Reader.Skip(n)
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
