package types

import (
	"errors"
	"fmt"
)

// NotThisFormatError is returned when a buffer fails a parser's magic or
// minimum-length check. It is recoverable: callers trying several parsers
// against one buffer treat it as "move on to the next format".
type NotThisFormatError struct {
	Format Format
	Reason string
}

func (e *NotThisFormatError) Error() string {
	return fmt.Sprintf("not %s: %s", e.Format, e.Reason)
}

// IsNotThisFormat reports whether err is a format-mismatch rejection.
func IsNotThisFormat(err error) bool {
	var nf *NotThisFormatError
	return errors.As(err, &nf)
}

// OutOfBoundsError is returned when a read would exceed the buffer.
type OutOfBoundsError struct {
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("offset %d out of bounds (buffer size: %d) while reading %s",
			e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("read of %d bytes at offset %d would exceed buffer size %d while reading %s",
		e.Length, e.Offset, e.Size, e.What)
}

// MalformedStructureError is returned when a confirmed structure carries
// internally inconsistent fields.
type MalformedStructureError struct {
	Format Format
	Offset int64
	Reason string
}

func (e *MalformedStructureError) Error() string {
	return fmt.Sprintf("malformed %s structure at offset %d: %s", e.Format, e.Offset, e.Reason)
}

// TruncatedInputError is returned when the buffer ends mid-structure.
type TruncatedInputError struct {
	Format Format
	Offset int64
	What   string
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated %s structure: buffer ends at offset %d while reading %s",
		e.Format, e.Offset, e.What)
}
