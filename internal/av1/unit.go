// Package av1 decodes AV1 OBU (open bitstream unit) headers.
package av1

import (
	"github.com/simonhull/binmeta/internal/types"
)

// HeaderSize is the OBU header length without the optional extension
// and size fields.
const HeaderSize = 1

// unitTypeNames maps the 4-bit obu_type field.
var unitTypeNames = [...]string{
	0:  "",
	1:  "Sequence Header",
	2:  "Temporal Delimiter",
	3:  "Frame Header",
	4:  "Tile Group",
	5:  "Metadata",
	6:  "Frame",
	7:  "Redundant Frame Header",
	8:  "Tile List",
	15: "Padding",
}

// UnitHeader is one decoded OBU header.
type UnitHeader struct {
	Forbidden    bool  // obu_forbidden_bit
	Type         uint8 // 4-bit obu_type
	TypeName     string
	HasExtension bool // an extension byte follows the header
	HasSizeField bool // a leb128 size field follows

	Anomalies []types.Anomaly
}

// TypeName returns the name for a 4-bit unit type, or "" for reserved
// values.
func TypeName(unitType uint8) string {
	if int(unitType) < len(unitTypeNames) {
		return unitTypeNames[unitType]
	}
	return ""
}

// Detect reports whether buf plausibly starts an OBU: minimum length
// and a clear forbidden bit. This is a weak signal, so callers must
// not treat it as file sniffing.
func Detect(buf []byte) bool {
	return len(buf) >= HeaderSize && buf[0]&0x80 == 0
}

// Parse decodes the OBU header at the start of buf. A set forbidden
// bit is an anomaly, not a rejection.
func Parse(buf []byte) (*UnitHeader, error) {
	if len(buf) < HeaderSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatAV1,
			Reason: "empty buffer",
		}
	}

	h := &UnitHeader{
		Forbidden:    buf[0]&0x80 != 0,
		Type:         (buf[0] >> 3) & 0xF,
		HasExtension: buf[0]&0x4 != 0,
		HasSizeField: buf[0]&0x2 != 0,
	}
	h.TypeName = TypeName(h.Type)

	if h.Forbidden {
		h.Anomalies = append(h.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "unit header",
			Message: "forbidden bit is set",
			Offset:  0,
		})
	}

	return h, nil
}
