package bwf

import (
	"encoding/binary"

	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

// RIFFChunk locates one chunk inside a RIFF/WAVE buffer.
type RIFFChunk struct {
	ID     string
	Offset int64  // Offset of the chunk fourcc in the scanned buffer
	Size   uint32 // Declared data size, excluding the 8-byte header
	Data   []byte // Data bytes, clamped to the buffer end
}

// Truncated reports whether the buffer ended before the declared size.
func (c RIFFChunk) Truncated() bool {
	return uint32(len(c.Data)) < c.Size
}

// maxRIFFChunks bounds the walk against forged chunk lists.
const maxRIFFChunks = 1024

// DetectRIFF reports whether buf starts with a RIFF/WAVE header.
func DetectRIFF(buf []byte) bool {
	return len(buf) >= 12 && string(buf[0:4]) == "RIFF" && string(buf[8:12]) == "WAVE"
}

// ScanRIFF walks the chunk list of a RIFF/WAVE buffer. Chunks are
// returned in file order; data slices alias buf. A final chunk cut off
// by the buffer end is returned clamped.
//
// Chunk data is padded to even sizes on disk; the walk accounts for the
// pad byte, the returned Data does not include it.
func ScanRIFF(buf []byte) ([]RIFFChunk, error) {
	if !DetectRIFF(buf) {
		return nil, &types.NotThisFormatError{
			Format: types.FormatBext,
			Reason: "no RIFF/WAVE header",
		}
	}

	var chunks []RIFFChunk
	offset := int64(12)

	for offset+8 <= int64(len(buf)) && len(chunks) < maxRIFFChunks {
		id := string(buf[offset : offset+4])
		size := binary.LittleEndian.Uint32(buf[offset+4 : offset+8])

		dataStart := offset + 8
		dataEnd := dataStart + int64(size)
		if dataEnd > int64(len(buf)) {
			dataEnd = int64(len(buf))
		}

		chunks = append(chunks, RIFFChunk{
			ID:     id,
			Offset: offset,
			Size:   size,
			Data:   buf[dataStart:dataEnd],
		})

		offset = dataStart + int64(size)
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

// FindChunk returns the first chunk with the given fourcc, or nil.
func FindChunk(chunks []RIFFChunk, id string) *RIFFChunk {
	for i := range chunks {
		if chunks[i].ID == id {
			return &chunks[i]
		}
	}
	return nil
}

func init() {
	// A bext chunk arrives either bare or wrapped in a RIFF/WAVE file.
	registry.Register(registry.Probe{
		Format:   types.FormatBext,
		MinSize:  chunkHeaderSize,
		Priority: 40,
		Detect: func(buf []byte) bool {
			return DetectRIFF(buf) || Detect(buf)
		},
	})
}
