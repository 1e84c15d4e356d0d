package binmeta

import (
	"github.com/simonhull/binmeta/internal/icc"
)

// ICCProfile is an alias to icc.Profile.
// Re-exporting from internal/icc to keep the public API on one import.
type ICCProfile = icc.Profile

// ICCTagEntry is an alias to icc.TagEntry.
type ICCTagEntry = icc.TagEntry

// ParseICC decodes the 128-byte profile header and the tag table of
// the ICC profile starting at buf[0]. Works on standalone .icc files
// and on profile payloads lifted from containers.
func ParseICC(buf []byte) (*ICCProfile, error) {
	return icc.Parse(buf)
}
