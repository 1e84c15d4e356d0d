package binmeta

import (
	"github.com/simonhull/binmeta/internal/adts"
)

// ADTSHeader is an alias to adts.Header.
// Re-exporting from internal/adts to keep the public API on one import.
type ADTSHeader = adts.Header

// ParseADTS decodes the fixed and variable ADTS header of the frame
// starting at buf[0]. The compressed payload is never read.
func ParseADTS(buf []byte) (*ADTSHeader, error) {
	return adts.Parse(buf)
}
