// Package icc decodes ICC color profile headers and tag tables. The
// 128-byte header is read at fixed offsets; tag payloads are decoded
// for the common text and numeric types and retained opaque otherwise.
package icc

import (
	"fmt"
	"time"

	binutil "github.com/simonhull/binmeta/internal/binary"
	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

const (
	// HeaderSize is the fixed profile header length.
	HeaderSize = 128

	magicOffset  = 36
	tagTableSize = 4  // count field
	tagEntrySize = 12 // signature + offset + size
)

// renderingIntentNames maps the header rendering intent field.
var renderingIntentNames = [...]string{
	"Perceptual",
	"Relative Colorimetric",
	"Saturation",
	"Absolute Colorimetric",
}

// Profile is a decoded ICC profile header plus its tag table.
//
// Four-character signatures are right-trimmed, so a color space of
// "RGB " decodes as "RGB". Tag payload slices alias the parsed buffer.
type Profile struct {
	ProfileSize         uint32 // declared total profile size
	CMMType             string
	Version             string // "major.minor.patch"
	DeviceClass         string
	ColorSpace          string
	ConnectionSpace     string
	CreatedAt           time.Time // zero when the header carries no valid timestamp
	Platform            string
	Flags               uint32
	Manufacturer        string
	Model               string
	RenderingIntent     uint32
	RenderingIntentName string
	Illuminant          [3]float64 // XYZ, decoded from s15Fixed16
	Creator             string
	ProfileID           []byte // 16-byte checksum field, all zero when unset

	Tags []TagEntry

	Anomalies []types.Anomaly
}

// Detect reports whether buf holds an ICC profile header. It checks the
// 'acsp' magic and minimum header length only.
func Detect(buf []byte) bool {
	return len(buf) >= HeaderSize && string(buf[magicOffset:magicOffset+4]) == "acsp"
}

// Parse decodes the profile header at the start of buf, then walks the
// tag table. A missing 'acsp' magic returns *types.NotThisFormatError;
// later structural problems degrade to anomalies on the profile.
func Parse(buf []byte) (*Profile, error) {
	if len(buf) < HeaderSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatICC,
			Reason: fmt.Sprintf("buffer is %d bytes, header needs %d", len(buf), HeaderSize),
		}
	}
	if string(buf[magicOffset:magicOffset+4]) != "acsp" {
		return nil, &types.NotThisFormatError{
			Format: types.FormatICC,
			Reason: "no 'acsp' signature",
		}
	}

	p := &Profile{}
	parseHeader(buf, p)

	if int64(p.ProfileSize) > int64(len(buf)) {
		p.Anomalies = append(p.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "header",
			Message: fmt.Sprintf("declared profile size %d exceeds %d-byte buffer", p.ProfileSize, len(buf)),
			Offset:  0,
		})
	}

	parseTagTable(buf, p)

	return p, nil
}

// parseHeader decodes the fixed 128-byte region. Bounds are guaranteed
// by the caller's length check, so the chain cannot fail.
func parseHeader(buf []byte, p *Profile) {
	cr := binutil.NewChainReader(binutil.NewReader(binutil.NewBuffer(buf), 0))

	p.ProfileSize = binutil.ReadChained[uint32](cr, "profile size")
	p.CMMType = cr.FixedString(4, "CMM type")

	major := binutil.ReadChained[uint8](cr, "version major")
	minorPatch := binutil.ReadChained[uint8](cr, "version minor")
	cr.Skip(2) // version reserved bytes
	p.Version = fmt.Sprintf("%d.%d.%d", major, minorPatch>>4, minorPatch&0xF)

	p.DeviceClass = cr.FixedString(4, "device class")
	p.ColorSpace = cr.FixedString(4, "color space")
	p.ConnectionSpace = cr.FixedString(4, "connection space")

	var dt [6]uint16
	for i := range dt {
		dt[i] = binutil.ReadChained[uint16](cr, "creation timestamp")
	}
	p.CreatedAt = decodeDateTime(dt, p)

	cr.Skip(4) // 'acsp' magic, validated by the caller

	p.Platform = cr.FixedString(4, "platform")
	p.Flags = binutil.ReadChained[uint32](cr, "profile flags")
	p.Manufacturer = cr.FixedString(4, "manufacturer")
	p.Model = cr.FixedString(4, "model")
	cr.Skip(8) // device attributes

	p.RenderingIntent = binutil.ReadChained[uint32](cr, "rendering intent")
	if p.RenderingIntent < uint32(len(renderingIntentNames)) {
		p.RenderingIntentName = renderingIntentNames[p.RenderingIntent]
	}

	for i := range p.Illuminant {
		p.Illuminant[i] = s15Fixed16(binutil.ReadChained[uint32](cr, "illuminant"))
	}

	p.Creator = cr.FixedString(4, "creator")
	p.ProfileID = cr.Bytes(16, "profile ID")
}

// decodeDateTime converts the header dateTimeNumber. An all-zero field
// means "not set" and decodes silently to the zero time; out-of-range
// components are an anomaly.
func decodeDateTime(dt [6]uint16, p *Profile) time.Time {
	year, month, day := dt[0], dt[1], dt[2]
	hour, minute, sec := dt[3], dt[4], dt[5]

	if year == 0 && month == 0 && day == 0 && hour == 0 && minute == 0 && sec == 0 {
		return time.Time{}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || sec > 60 {
		p.Anomalies = append(p.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "header",
			Message: fmt.Sprintf("invalid creation timestamp %d-%d-%d %d:%d:%d", year, month, day, hour, minute, sec),
			Offset:  24,
		})
		return time.Time{}
	}

	return time.Date(int(year), time.Month(month), int(day), int(hour), int(minute), int(sec), 0, time.UTC)
}

// s15Fixed16 converts a signed 15.16 fixed-point value to float64.
func s15Fixed16(v uint32) float64 {
	return float64(int32(v)) / 65536.0
}

func init() {
	registry.Register(registry.Probe{
		Format:   types.FormatICC,
		MinSize:  HeaderSize,
		Priority: 20,
		Detect:   Detect,
	})
}
