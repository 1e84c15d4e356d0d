package binmeta

import (
	"github.com/simonhull/binmeta/internal/av1"
	"github.com/simonhull/binmeta/internal/avc"
	"github.com/simonhull/binmeta/internal/hevc"
)

// AVCUnitHeader is an alias to avc.UnitHeader.
// Re-exporting from internal/avc to keep the public API on one import.
type AVCUnitHeader = avc.UnitHeader

// AVCSPSInfo is an alias to avc.SPSInfo.
type AVCSPSInfo = avc.SPSInfo

// HEVCUnitHeader is an alias to hevc.UnitHeader.
type HEVCUnitHeader = hevc.UnitHeader

// AV1UnitHeader is an alias to av1.UnitHeader.
type AV1UnitHeader = av1.UnitHeader

// ParseAVCUnit decodes the one-byte H.264 NAL unit header at buf[0].
// For SPS-bearing units the next three bytes yield profile and level.
//
// Unit headers carry no magic, so these formats are never part of
// Detect results; call this directly on a known unit boundary, for
// example a parameter set lifted from an MP4 decoder configuration.
func ParseAVCUnit(buf []byte) (*AVCUnitHeader, error) {
	return avc.Parse(buf)
}

// ParseHEVCUnit decodes the two-byte HEVC NAL unit header at buf[0].
func ParseHEVCUnit(buf []byte) (*HEVCUnitHeader, error) {
	return hevc.Parse(buf)
}

// ParseAV1Unit decodes the one-byte AV1 OBU header at buf[0].
func ParseAV1Unit(buf []byte) (*AV1UnitHeader, error) {
	return av1.Parse(buf)
}
