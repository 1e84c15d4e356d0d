package binmeta

import (
	"github.com/simonhull/binmeta/internal/bwf"
)

// BextChunk is an alias to bwf.Chunk.
// Re-exporting from internal/bwf to keep the public API on one import.
type BextChunk = bwf.Chunk

// RIFFChunk is an alias to bwf.RIFFChunk.
type RIFFChunk = bwf.RIFFChunk

// ParseBext decodes the broadcast-extension chunk starting at buf[0]
// ("bext" fourcc, size, then the fixed region and coding history).
// For a whole RIFF/WAVE file, locate the chunk with ScanRIFF first.
func ParseBext(buf []byte) (*BextChunk, error) {
	return bwf.Parse(buf)
}

// ScanRIFF walks the chunk index of a RIFF/WAVE buffer without reading
// chunk payloads beyond their recorded slices.
func ScanRIFF(buf []byte) ([]RIFFChunk, error) {
	return bwf.ScanRIFF(buf)
}

// FindRIFFChunk returns the first chunk with the given fourcc, or nil.
func FindRIFFChunk(chunks []RIFFChunk, id string) *RIFFChunk {
	return bwf.FindChunk(chunks, id)
}
