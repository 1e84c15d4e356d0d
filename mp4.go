package binmeta

import (
	"github.com/simonhull/binmeta/internal/isobmff"
)

// MP4Container is an alias to isobmff.Container.
// Re-exporting from internal/isobmff to keep the public API on one import.
type MP4Container = isobmff.Container

// MP4DecoderConfig is an alias to isobmff.DecoderConfig.
type MP4DecoderConfig = isobmff.DecoderConfig

// ParseMP4 walks the box index of an ISO-BMFF buffer, collecting the
// file-type brands, codec decoder configuration records, and embedded
// color profiles. Compressed samples are never read.
func ParseMP4(buf []byte) (*MP4Container, error) {
	return isobmff.Parse(buf)
}
