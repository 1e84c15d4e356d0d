// Package avc decodes H.264 NAL unit headers. Only the 1-byte header
// and, for sequence parameter sets, the 3 profile bytes behind it are
// read; slice payloads are never decoded.
package avc

import (
	"fmt"

	"github.com/simonhull/binmeta/internal/types"
)

const (
	// HeaderSize is the NAL unit header length.
	HeaderSize = 1

	spsAuxSize = 3
)

// unitTypeNames maps the 5-bit nal_unit_type field.
var unitTypeNames = [...]string{
	0:  "",
	1:  "non-IDR slice",
	2:  "slice data partition A",
	3:  "slice data partition B",
	4:  "slice data partition C",
	5:  "IDR slice",
	6:  "SEI",
	7:  "sequence parameter set",
	8:  "picture parameter set",
	9:  "access unit delimiter",
	10: "end of sequence",
	11: "end of stream",
	12: "filler data",
	13: "sequence parameter set extension",
	14: "prefix NAL unit",
	15: "subset sequence parameter set",
	16: "depth parameter set",
	19: "auxiliary slice",
	20: "slice extension",
	21: "depth slice extension",
}

// profileNames maps profile_idc values from the SPS.
var profileNames = map[uint8]string{
	66:  "Baseline",
	77:  "Main",
	88:  "Extended",
	100: "High",
	110: "High 10",
	122: "High 4:2:2",
	244: "High 4:4:4 Predictive",
}

// SPSInfo is the 3-byte profile prologue of a sequence parameter set.
type SPSInfo struct {
	ProfileIDC      uint8
	ProfileName     string // empty for unknown profile_idc values
	ConstraintFlags uint8  // constraint_set0..5 flags, bits 7..2 of the raw byte
	LevelIDC        uint8
}

// UnitHeader is one decoded NAL unit header.
type UnitHeader struct {
	Forbidden bool  // forbidden_zero_bit, set only on corrupt streams
	RefIdc    uint8 // 2-bit nal_ref_idc
	Type      uint8 // 5-bit nal_unit_type
	TypeName  string

	// SPS is populated for parameter-set units (types 7 and 15) when
	// the profile bytes are present in the buffer.
	SPS *SPSInfo

	Anomalies []types.Anomaly
}

// TypeName returns the name for a 5-bit unit type, or "" for
// unspecified and reserved values.
func TypeName(unitType uint8) string {
	if int(unitType) < len(unitTypeNames) {
		return unitTypeNames[unitType]
	}
	return ""
}

// Detect reports whether buf plausibly starts a NAL unit: minimum
// length and a clear forbidden bit. This is a weak signal, so callers
// must not treat it as file sniffing.
func Detect(buf []byte) bool {
	return len(buf) >= HeaderSize && buf[0]&0x80 == 0
}

// Parse decodes the NAL unit header at the start of buf. A set
// forbidden bit is an anomaly, not a rejection, so damaged units still
// report their type.
func Parse(buf []byte) (*UnitHeader, error) {
	if len(buf) < HeaderSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatAVC,
			Reason: "empty buffer",
		}
	}

	h := &UnitHeader{
		Forbidden: buf[0]&0x80 != 0,
		RefIdc:    (buf[0] >> 5) & 0x3,
		Type:      buf[0] & 0x1F,
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

	if h.Type == 7 || h.Type == 15 {
		if len(buf) >= HeaderSize+spsAuxSize {
			h.SPS = &SPSInfo{
				ProfileIDC:      buf[1],
				ProfileName:     profileNames[buf[1]],
				ConstraintFlags: buf[2] >> 2,
				LevelIDC:        buf[3],
			}
		} else {
			h.Anomalies = append(h.Anomalies, types.Anomaly{
				Kind:    types.AnomalyTruncated,
				Stage:   "unit header",
				Message: fmt.Sprintf("parameter set ends %d bytes before its profile data", HeaderSize+spsAuxSize-len(buf)),
				Offset:  int64(len(buf)),
			})
		}
	}

	return h, nil
}
