// Package hevc decodes HEVC (H.265) NAL unit headers.
package hevc

import (
	"fmt"

	"github.com/simonhull/binmeta/internal/types"
)

// HeaderSize is the NAL unit header length.
const HeaderSize = 2

// unitTypeNames maps the 6-bit nal_unit_type field for the types that
// occur in practice. Reserved and vendor ranges stay unnamed.
var unitTypeNames = map[uint8]string{
	0:  "TRAIL_N slice",
	1:  "TRAIL_R slice",
	2:  "TSA_N slice",
	3:  "TSA_R slice",
	4:  "STSA_N slice",
	5:  "STSA_R slice",
	6:  "RADL_N slice",
	7:  "RADL_R slice",
	8:  "RASL_N slice",
	9:  "RASL_R slice",
	16: "BLA_W_LP slice",
	17: "BLA_W_RADL slice",
	18: "BLA_N_LP slice",
	19: "IDR_W_RADL slice",
	20: "IDR_N_LP slice",
	21: "CRA slice",
	32: "video parameter set",
	33: "sequence parameter set",
	34: "picture parameter set",
	35: "access unit delimiter",
	36: "end of sequence",
	37: "end of bitstream",
	38: "filler data",
	39: "prefix SEI",
	40: "suffix SEI",
}

// UnitHeader is one decoded NAL unit header.
type UnitHeader struct {
	Forbidden       bool  // forbidden_zero_bit
	Type            uint8 // 6-bit nal_unit_type
	TypeName        string
	LayerID         uint8 // 6-bit nuh_layer_id
	TemporalIDPlus1 uint8 // 3-bit nuh_temporal_id_plus1

	Anomalies []types.Anomaly
}

// TypeName returns the name for a 6-bit unit type, or "" for reserved
// values.
func TypeName(unitType uint8) string {
	return unitTypeNames[unitType]
}

// Detect reports whether buf plausibly starts a NAL unit: minimum
// length and a clear forbidden bit. This is a weak signal, so callers
// must not treat it as file sniffing.
func Detect(buf []byte) bool {
	return len(buf) >= HeaderSize && buf[0]&0x80 == 0
}

// Parse decodes the 2-byte big-endian NAL unit header at the start of
// buf. A set forbidden bit is an anomaly, not a rejection.
func Parse(buf []byte) (*UnitHeader, error) {
	if len(buf) < HeaderSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatHEVC,
			Reason: fmt.Sprintf("buffer is %d bytes, header needs %d", len(buf), HeaderSize),
		}
	}

	raw := uint16(buf[0])<<8 | uint16(buf[1])

	h := &UnitHeader{
		Forbidden:       raw&0x8000 != 0,
		Type:            uint8(raw >> 9 & 0x3F),
		LayerID:         uint8(raw >> 3 & 0x3F),
		TemporalIDPlus1: uint8(raw & 0x7),
	}
	h.TypeName = TypeName(h.Type)

	if h.Forbidden {
		h.Anomalies = append(h.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "unit header",
			Message: "forbidden_zero_bit is set",
			Offset:  0,
		})
	}

	return h, nil
}
