package binmeta

import (
	"github.com/simonhull/binmeta/internal/id3v1"
	"github.com/simonhull/binmeta/internal/id3v2"
)

// ID3v1Tag is an alias to id3v1.Tag.
// Re-exporting from internal/id3v1 to keep the public API on one import.
type ID3v1Tag = id3v1.Tag

// ID3v2Tag is an alias to id3v2.Tag.
// Re-exporting from internal/id3v2 to keep the public API on one import.
type ID3v2Tag = id3v2.Tag

// ID3v2Header is an alias to id3v2.Header.
type ID3v2Header = id3v2.Header

// ID3v2Frame is an alias to id3v2.Frame.
type ID3v2Frame = id3v2.Frame

// ID3v2Picture is an alias to id3v2.Picture.
type ID3v2Picture = id3v2.Picture

// ID3v2Encoding is an alias to id3v2.Encoding.
type ID3v2Encoding = id3v2.Encoding

// ParseID3v1 decodes the 128-byte trailer tag occupying the last bytes
// of buf. The buffer may hold a whole file or exactly the trailer.
func ParseID3v1(buf []byte) (*ID3v1Tag, error) {
	return id3v1.Parse(buf)
}

// ParseID3v2 decodes the frame-based tag at the start of buf.
func ParseID3v2(buf []byte) (*ID3v2Tag, error) {
	return id3v2.Parse(buf)
}

// ID3v1GenreName returns the genre name for a legacy genre index, or
// "" for indices outside the table.
func ID3v1GenreName(index int) string {
	return id3v1.GenreName(index)
}
