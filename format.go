package binmeta

import (
	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to keep the public API on one import.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatID3v1   = types.FormatID3v1
	FormatID3v2   = types.FormatID3v2
	FormatAPE     = types.FormatAPE
	FormatBext    = types.FormatBext
	FormatADTS    = types.FormatADTS
	FormatICC     = types.FormatICC
	FormatAVC     = types.FormatAVC
	FormatHEVC    = types.FormatHEVC
	FormatAV1     = types.FormatAV1
	FormatMP4     = types.FormatMP4
)

// Detect returns every format whose magic or sync pattern appears at
// its expected position in buf, strongest signal first.
//
// Detection checks magic bytes and minimum lengths only; it never
// validates full structure. A detected format can still turn out
// malformed when parsed. The bitstream unit formats (FormatAVC,
// FormatHEVC, FormatAV1) are never detected here because their headers
// carry no magic; parse them directly with ParseAVCUnit and friends.
func Detect(buf []byte) []Format {
	var formats []Format
	for _, p := range registry.Probes() {
		if len(buf) >= p.MinSize && p.Detect(buf) {
			formats = append(formats, p.Format)
		}
	}
	return formats
}
