// Package isobmff walks ISO-BMFF (MP4) box structures to locate codec
// decoder configuration records and embedded color profiles. The walk
// stays on the box index; compressed samples are never read.
package isobmff

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/binmeta/internal/types"
)

const (
	boxHeaderSize = 8

	// The walk stops past these caps and records an anomaly.
	maxBoxes = 4096
	maxDepth = 16
)

// Box is one ISO-BMFF box.
type Box struct {
	Type     string
	Offset   int64
	Size     uint64 // total size including header
	Extended bool   // uses the 64-bit size field
}

// HeaderLen returns the box header length in bytes.
func (b *Box) HeaderLen() int64 {
	if b.Extended {
		return 16
	}
	return boxHeaderSize
}

// DataOffset returns the offset where the box payload starts.
func (b *Box) DataOffset() int64 {
	return b.Offset + b.HeaderLen()
}

// DataSize returns the payload size excluding the header.
func (b *Box) DataSize() uint64 {
	return b.Size - uint64(b.HeaderLen())
}

// End returns the offset one past the box.
func (b *Box) End() int64 {
	return b.Offset + int64(b.Size)
}

// containerTypes lists the boxes worth descending into on the way to
// sample descriptions.
var containerTypes = map[string]bool{
	"moov": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"stbl": true,
}

// readBox decodes a box header at offset. end bounds the enclosing box.
func readBox(buf []byte, offset, end int64) (*Box, error) {
	if offset+boxHeaderSize > end {
		return nil, &types.TruncatedInputError{
			Format: types.FormatMP4,
			Offset: offset,
			What:   "box header",
		}
	}

	box := &Box{
		Type:   string(buf[offset+4 : offset+8]),
		Offset: offset,
	}

	size32 := binary.BigEndian.Uint32(buf[offset:])
	if size32 == 1 {
		if offset+16 > end {
			return nil, &types.TruncatedInputError{
				Format: types.FormatMP4,
				Offset: offset + boxHeaderSize,
				What:   "extended box size",
			}
		}
		box.Size = binary.BigEndian.Uint64(buf[offset+8:])
		box.Extended = true
	} else {
		box.Size = uint64(size32)
	}

	if box.Size < uint64(box.HeaderLen()) {
		return nil, &types.MalformedStructureError{
			Format: types.FormatMP4,
			Offset: offset,
			Reason: fmt.Sprintf("box %q size %d below its %d-byte header", box.Type, box.Size, box.HeaderLen()),
		}
	}

	return box, nil
}
