// Package adts decodes ADTS (Audio Data Transport Stream) frame headers
// as used by AAC elementary streams. Only the fixed and variable header
// are decoded, never the compressed payload.
package adts

import (
	"fmt"

	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

const (
	// HeaderSize is the fixed+variable header length without CRC.
	HeaderSize = 7

	crcSize = 2
)

// profileNames maps the 2-bit profile field to AAC object type names.
var profileNames = [...]string{"Main", "LC", "SSR", "LTP"}

// sampleRates maps the 4-bit sampling frequency index to a rate in Hz.
var sampleRates = []int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000,
	22050, 16000, 12000, 11025, 8000, 7350,
}

// channelCounts maps the 3-bit channel configuration to a channel count.
// Configuration 7 carries 8 channels (7.1).
var channelCounts = [...]int{0, 1, 2, 3, 4, 5, 6, 8}

// Header holds one decoded ADTS frame header.
type Header struct {
	MPEG2            bool  // id bit: true = MPEG-2 variant, false = MPEG-4
	Layer            uint8 // 2 bits, always 0 in a conforming stream
	ProtectionAbsent bool  // false means a 2-byte CRC follows the header
	Profile          uint8 // 2-bit AAC object type minus one
	ProfileName      string
	SamplingIndex    uint8
	SampleRate       int // 0 when the index is outside the rate table
	PrivateBit       bool
	ChannelConfig    uint8
	Channels         int
	Original         bool
	Home             bool
	CopyrightIDBit   bool
	CopyrightIDStart bool
	FrameLength      int // 13 bits, includes the header itself
	BufferFullness   int // 11 bits, 0x7FF signals variable bitrate
	RawDataBlocks    int // AAC frames in this ADTS frame
	CRC              uint16

	Anomalies []types.Anomaly
}

// Size returns the header length in bytes, 7 or 9 depending on whether
// a CRC is present.
func (h *Header) Size() int {
	if h.ProtectionAbsent {
		return HeaderSize
	}
	return HeaderSize + crcSize
}

// Detect reports whether buf starts with an ADTS sync word. It checks
// the 12-bit sync and minimum header length only.
func Detect(buf []byte) bool {
	return len(buf) >= HeaderSize && buf[0] == 0xFF && buf[1]&0xF0 == 0xF0
}

// Parse decodes the ADTS frame header at the start of buf. Every field
// is extracted by explicit shift and mask. A missing sync word returns
// *types.NotThisFormatError; inconsistencies after the sync word are
// recorded as anomalies on the returned header.
func Parse(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatADTS,
			Reason: fmt.Sprintf("buffer is %d bytes, header needs %d", len(buf), HeaderSize),
		}
	}
	if buf[0] != 0xFF || buf[1]&0xF0 != 0xF0 {
		return nil, &types.NotThisFormatError{
			Format: types.FormatADTS,
			Reason: "no 0xFFF sync word",
		}
	}

	h := &Header{}

	// Byte 1: low sync nibble, id bit, 2-bit layer, protection flag.
	h.MPEG2 = buf[1]&0x08 != 0
	h.Layer = (buf[1] >> 1) & 0x3
	h.ProtectionAbsent = buf[1]&0x01 != 0

	if h.Layer != 0 {
		h.Anomalies = append(h.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "header",
			Message: fmt.Sprintf("layer must be 0, got %d", h.Layer),
			Offset:  1,
		})
	}

	// Byte 2: 2-bit profile, 4-bit sampling index, private bit, and the
	// high bit of the channel configuration.
	h.Profile = (buf[2] >> 6) & 0x3
	h.ProfileName = profileNames[h.Profile]
	h.SamplingIndex = (buf[2] >> 2) & 0xF
	if int(h.SamplingIndex) < len(sampleRates) {
		h.SampleRate = sampleRates[h.SamplingIndex]
	}
	h.PrivateBit = buf[2]&0x02 != 0

	// Byte 3: low channel configuration bits, four copyright/origin
	// flags, and the top 2 bits of the 13-bit frame length.
	h.ChannelConfig = (buf[2]&0x01)<<2 | (buf[3]>>6)&0x3
	h.Channels = channelCounts[h.ChannelConfig]
	h.Original = buf[3]&0x20 != 0
	h.Home = buf[3]&0x10 != 0
	h.CopyrightIDBit = buf[3]&0x08 != 0
	h.CopyrightIDStart = buf[3]&0x04 != 0

	// Frame length spans bytes 3..5, buffer fullness bytes 5..6.
	h.FrameLength = int(buf[3]&0x03)<<11 | int(buf[4])<<3 | int(buf[5]>>5)
	h.BufferFullness = int(buf[5]&0x1F)<<6 | int(buf[6]>>2)
	h.RawDataBlocks = int(buf[6]&0x03) + 1

	if h.FrameLength < h.Size() {
		h.Anomalies = append(h.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "header",
			Message: fmt.Sprintf("frame length %d is smaller than the %d-byte header", h.FrameLength, h.Size()),
			Offset:  3,
		})
	}

	if !h.ProtectionAbsent {
		if len(buf) >= HeaderSize+crcSize {
			h.CRC = uint16(buf[7])<<8 | uint16(buf[8])
		} else {
			h.Anomalies = append(h.Anomalies, types.Anomaly{
				Kind:    types.AnomalyTruncated,
				Stage:   "header",
				Message: "CRC declared but buffer ends before it",
				Offset:  HeaderSize,
			})
		}
	}

	return h, nil
}

func init() {
	// Twelve sync bits make a weak signal, so this probe runs last.
	registry.Register(registry.Probe{
		Format:   types.FormatADTS,
		MinSize:  HeaderSize,
		Priority: 70,
		Detect:   Detect,
	})
}
