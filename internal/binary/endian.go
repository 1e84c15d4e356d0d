package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: ID3v2 sizes, ICC profiles, ISO BMFF boxes, video unit headers.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: APE tag fields, RIFF/WAVE chunk sizes, bext fields.
	LittleEndian
)

// ReadLE reads a numeric value of type T at the given offset using little-endian byte order.
//
// This is a convenience wrapper for ReadEndian with LittleEndian.
// Use for formats like APE tags and RIFF chunks.
//
// Example:
//
//	size, err := binary.ReadLE[uint32](buf, offset, "tag size")
func ReadLE[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string) (T, error) {
	return ReadEndian[T](b, off, what, LittleEndian)
}

// ReadBE reads a numeric value of type T at the given offset using big-endian byte order.
//
// This is a convenience wrapper for ReadEndian with BigEndian.
// Equivalent to Read() but more explicit about byte order.
//
// Example:
//
//	frameSize, err := binary.ReadBE[uint32](buf, offset, "frame size")
func ReadBE[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string) (T, error) {
	return ReadEndian[T](b, off, what, BigEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
//
// This is the low-level function used by Read, ReadLE, and ReadBE.
// Most code should use the convenience wrappers instead.
//
// Example:
//
//	value, err := binary.ReadEndian[uint32](buf, offset, "field", binary.LittleEndian)
func ReadEndian[T uint8 | uint16 | uint32 | uint64](b *Buffer, off int64, what string, endian Endianness) (T, error) {
	var zero T
	var size int

	// Determine size based on type
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

	raw, err := b.Bytes(off, size, what)
	if err != nil {
		return zero, err
	}

	// Convert bytes to value based on endianness
	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(raw[0])
	case uint16:
		if endian == LittleEndian {
			val = T(binary.LittleEndian.Uint16(raw))
		} else {
			val = T(binary.BigEndian.Uint16(raw))
		}
	case uint32:
		if endian == LittleEndian {
			val = T(binary.LittleEndian.Uint32(raw))
		} else {
			val = T(binary.BigEndian.Uint32(raw))
		}
	case uint64:
		if endian == LittleEndian {
			val = T(binary.LittleEndian.Uint64(raw))
		} else {
			val = T(binary.BigEndian.Uint64(raw))
		}
	}

	return val, nil
}
