// Package id3v1 parses legacy 128-byte trailer tags.
//
// An ID3v1 tag occupies the last 128 bytes of a file, beginning with the
// magic "TAG". All fields live at fixed offsets; text fields pad with NUL
// or spaces. ID3v1.1 steals the last two comment bytes for a track number.
package id3v1

import (
	"github.com/simonhull/binmeta/internal/binary"
	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

// TagSize is the fixed size of a trailer tag.
const TagSize = 128

// Tag represents a decoded trailer tag.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string // 4 ASCII digits as stored, trimmed
	Comment string

	// Track is nonzero only for ID3v1.1 tags, where the comment field is
	// 28 bytes followed by a zero separator and the track byte.
	Track int

	// Genre is the raw genre index. GenreName is empty when the index
	// falls outside the known table.
	Genre     int
	GenreName string

	Anomalies []types.Anomaly
}

// Version returns "ID3v1.1" when the track-number layout is present,
// "ID3v1" otherwise.
func (t *Tag) Version() string {
	if t.Track > 0 {
		return "ID3v1.1"
	}
	return "ID3v1"
}

// Detect reports whether buf ends with a trailer tag. It works both for
// whole-file buffers and for buffers holding exactly the 128-byte trailer.
func Detect(buf []byte) bool {
	if len(buf) < TagSize {
		return false
	}
	start := len(buf) - TagSize
	return string(buf[start:start+3]) == "TAG"
}

// Parse decodes the trailer tag occupying the last 128 bytes of buf.
//
// A buffer without the trailing magic is not an error in the corrupt
// sense; it simply carries no trailer tag, reported as NotThisFormatError.
func Parse(buf []byte) (*Tag, error) {
	if len(buf) < TagSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatID3v1,
			Reason: "buffer shorter than 128 bytes",
		}
	}

	trailer := buf[len(buf)-TagSize:]
	if string(trailer[0:3]) != "TAG" {
		return nil, &types.NotThisFormatError{
			Format: types.FormatID3v1,
			Reason: "no TAG magic at trailer offset",
		}
	}

	tag := &Tag{
		Title:  binary.TrimPadding(trailer[3:33]),
		Artist: binary.TrimPadding(trailer[33:63]),
		Album:  binary.TrimPadding(trailer[63:93]),
		Year:   binary.TrimPadding(trailer[93:97]),
		Genre:  int(trailer[127]),
	}

	// ID3v1.1 layout: byte 28 of the comment is a zero separator and
	// byte 29 holds the track number. Both conditions must hold; a plain
	// ID3v1 comment may legitimately end in a zero byte.
	comment := trailer[97:127]
	if comment[28] == 0 && comment[29] != 0 {
		tag.Track = int(comment[29])
		tag.Comment = binary.TrimPadding(comment[:28])
	} else {
		tag.Comment = binary.TrimPadding(comment)
	}

	tag.GenreName = GenreName(tag.Genre)

	return tag, nil
}

func init() {
	// Trailing fixed-position magic, probed late so frame-based tags
	// at the front of the buffer win.
	registry.Register(registry.Probe{
		Format:   types.FormatID3v1,
		MinSize:  TagSize,
		Priority: 60,
		Detect:   Detect,
	})
}
