// Package bwf parses Broadcast Wave Format bext chunks.
//
// The bext chunk carries production metadata inside RIFF/WAVE files: a
// 602-byte fixed region (description, originator, timestamps, a 64-bit
// sample-accurate time reference, UMID, loudness statistics) followed by
// a variable CodingHistory text tail running to the declared chunk size.
// Chunk fields are little-endian throughout.
package bwf

import (
	"fmt"

	"github.com/simonhull/binmeta/internal/binary"
	"github.com/simonhull/binmeta/internal/types"
)

// FixedSize is the size of the bext fixed region preceding CodingHistory.
const FixedSize = 602

// chunkHeaderSize covers the fourcc and the declared size field.
const chunkHeaderSize = 8

// Chunk represents a decoded bext chunk.
//
// UMID is meaningful for version 1 and later; the five loudness values
// for version 2 and later. For earlier versions those bytes are reserved
// and the fields stay zero.
type Chunk struct {
	Size uint32 // Declared chunk body size

	Description         string // Free description, 256-byte field
	Originator          string // Producing entity, 32-byte field
	OriginatorReference string // Unambiguous reference, 32-byte field
	OriginationDate     string // yyyy-mm-dd
	OriginationTime     string // hh:mm:ss

	// TimeReference counts samples since midnight, assembled from the
	// stored low/high 32-bit halves.
	TimeReference uint64

	Version uint16

	UMID []byte // 64-byte SMPTE UMID, version >= 1

	// Loudness statistics in hundredths of LUFS/LU/dBTP, version >= 2.
	LoudnessValue        int16
	LoudnessRange        int16
	MaxTruePeakLevel     int16
	MaxMomentaryLoudness int16
	MaxShortTermLoudness int16

	CodingHistory string

	Anomalies []types.Anomaly
}

// Detect reports whether buf starts with a bext chunk header.
func Detect(buf []byte) bool {
	return len(buf) >= chunkHeaderSize && string(buf[0:4]) == "bext"
}

// Parse decodes the bext chunk at the start of buf. The buffer begins at
// the chunk fourcc; bytes beyond the declared chunk size are ignored.
//
// A body shorter than the declared size or the fixed region decodes as
// far as the buffer allows and records the damage.
func Parse(buf []byte) (*Chunk, error) {
	if len(buf) < chunkHeaderSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatBext,
			Reason: "buffer shorter than an 8-byte chunk header",
		}
	}

	if string(buf[0:4]) != "bext" {
		return nil, &types.NotThisFormatError{
			Format: types.FormatBext,
			Reason: "missing bext fourcc",
		}
	}

	b := binary.NewBuffer(buf)
	size, err := binary.ReadLE[uint32](b, 4, "chunk size")
	if err != nil {
		return nil, err
	}

	chunk := &Chunk{Size: size}

	available := int64(len(buf)) - chunkHeaderSize
	bodyLen := int64(size)
	if bodyLen > available {
		chunk.Anomalies = append(chunk.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "chunk",
			Message: fmt.Sprintf("declared size %d but only %d body bytes present", size, available),
			Offset:  int64(len(buf)),
		})
		bodyLen = available
	}

	if int64(size) < FixedSize {
		chunk.Anomalies = append(chunk.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "chunk",
			Message: fmt.Sprintf("declared size %d smaller than the %d-byte fixed region", size, FixedSize),
			Offset:  4,
		})
	}

	body := binary.NewBuffer(buf[chunkHeaderSize : chunkHeaderSize+bodyLen])
	parseFixedRegion(chunk, body)

	if bodyLen > FixedSize {
		history, err := body.Bytes(FixedSize, int(bodyLen-FixedSize), "coding history")
		if err == nil {
			chunk.CodingHistory = binary.TrimPadding(history)
		}
	}

	return chunk, nil
}

// parseFixedRegion decodes the 602-byte fixed layout. A short body leaves
// the later fields zero and records where the data ran out.
func parseFixedRegion(chunk *Chunk, body *binary.Buffer) {
	cr := binary.NewChainReader(binary.NewReader(body, 0))

	chunk.Description = cr.FixedString(256, "description")
	chunk.Originator = cr.FixedString(32, "originator")
	chunk.OriginatorReference = cr.FixedString(32, "originator reference")
	chunk.OriginationDate = cr.FixedString(10, "origination date")
	chunk.OriginationTime = cr.FixedString(8, "origination time")

	timeRefLow := binary.ReadChainedLE[uint32](cr, "time reference low")
	timeRefHigh := binary.ReadChainedLE[uint32](cr, "time reference high")
	chunk.TimeReference = uint64(timeRefHigh)<<32 | uint64(timeRefLow)

	chunk.Version = binary.ReadChainedLE[uint16](cr, "version")

	umid := cr.Bytes(64, "UMID")

	chunk.LoudnessValue = int16(binary.ReadChainedLE[uint16](cr, "loudness value"))
	chunk.LoudnessRange = int16(binary.ReadChainedLE[uint16](cr, "loudness range"))
	chunk.MaxTruePeakLevel = int16(binary.ReadChainedLE[uint16](cr, "max true peak level"))
	chunk.MaxMomentaryLoudness = int16(binary.ReadChainedLE[uint16](cr, "max momentary loudness"))
	chunk.MaxShortTermLoudness = int16(binary.ReadChainedLE[uint16](cr, "max short term loudness"))

	if err := cr.Error(); err != nil {
		chunk.Anomalies = append(chunk.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "fixed region",
			Message: fmt.Sprintf("body ends inside the fixed region: %v", err),
			Offset:  cr.Offset(),
		})
	}

	// Bytes past the version field are reserved in older versions.
	if chunk.Version >= 1 {
		chunk.UMID = umid
	}
	if chunk.Version < 2 {
		chunk.LoudnessValue = 0
		chunk.LoudnessRange = 0
		chunk.MaxTruePeakLevel = 0
		chunk.MaxMomentaryLoudness = 0
		chunk.MaxShortTermLoudness = 0
	}
}
