package binmeta

import (
	"slices"

	"github.com/simonhull/binmeta/internal/adts"
	"github.com/simonhull/binmeta/internal/ape"
	"github.com/simonhull/binmeta/internal/av1"
	"github.com/simonhull/binmeta/internal/avc"
	"github.com/simonhull/binmeta/internal/bwf"
	"github.com/simonhull/binmeta/internal/hevc"
	"github.com/simonhull/binmeta/internal/icc"
	"github.com/simonhull/binmeta/internal/id3v1"
	"github.com/simonhull/binmeta/internal/id3v2"
	"github.com/simonhull/binmeta/internal/isobmff"
)

// Report aggregates every metadata structure recognized in one buffer.
//
// Each discovered structure lands in its own typed field; absent
// structures stay nil. The report never merges values across formats:
// an ID3v2 title and an APE title travel side by side, and choosing
// between them stays with the caller.
type Report struct {
	// Path of the scanned file. Empty for ParseBuffer.
	Path string

	// Size of the file in bytes (the buffer length for ParseBuffer).
	Size int64

	// Truncated reports that the file exceeded the scan cap and only
	// the leading bytes were read.
	Truncated bool

	// Formats lists every format found in the buffer, strongest
	// detection signal first.
	Formats []Format

	// ID3v2 is the frame-based tag at the buffer start, or one found
	// inside a RIFF id3 chunk.
	ID3v2 *ID3v2Tag

	// ID3v1 is the 128-byte trailer tag.
	ID3v1 *ID3v1Tag

	// APE is the item-list tag, including one hiding in front of a
	// trailing ID3v1 tag.
	APE *APETag

	// Broadcast is the BWF bext chunk, bare or inside a RIFF/WAVE file.
	Broadcast *BextChunk

	// ADTS is the first audio frame header, at the buffer start or
	// right behind a leading ID3v2 tag.
	ADTS *ADTSHeader

	// ICC is the color profile when the buffer itself is one.
	ICC *ICCProfile

	// MP4 describes an ISO-BMFF container: brands, decoder
	// configuration records, embedded color profile payloads.
	MP4 *MP4Container

	// RIFF is the chunk index of a RIFF/WAVE buffer.
	RIFF []RIFFChunk

	// Unit headers decoded from the parameter sets of MP4 decoder
	// configuration records.
	AVCUnits  []*AVCUnitHeader
	HEVCUnits []*HEVCUnitHeader
	AV1Units  []*AV1UnitHeader

	// EmbeddedICC holds profiles decoded from MP4 colr boxes. Offsets
	// inside these records are relative to the embedded payload, not
	// the scanned buffer.
	EmbeddedICC []*ICCProfile

	// Anomalies aggregates every recorded anomaly across all records,
	// each stage prefixed with the record it came from.
	Anomalies []Anomaly
}

// addFormat appends f to Formats if not already listed.
func (r *Report) addFormat(f Format) {
	if !slices.Contains(r.Formats, f) {
		r.Formats = append(r.Formats, f)
	}
}

// absorb copies record anomalies into the flat report list, prefixing
// each stage with a label naming the source record.
func (r *Report) absorb(label string, anomalies []Anomaly) {
	for _, a := range anomalies {
		a.Stage = label + ": " + a.Stage
		r.Anomalies = append(r.Anomalies, a)
	}
}

// fail records a parse failure that occurred after detection. Detection
// confirmed the format, so the failure is structural, not a mismatch.
func (r *Report) fail(label string, err error) {
	r.Anomalies = append(r.Anomalies, Anomaly{
		Kind:    AnomalyMalformed,
		Stage:   label,
		Message: err.Error(),
	})
}

// parseFormat runs the parser for one detected format and files the
// result.
func (r *Report) parseFormat(format Format, buf []byte, options *scanOptions) {
	label := format.String()

	switch format {
	case FormatID3v2:
		tag, err := id3v2.Parse(buf)
		if err != nil {
			r.fail(label, err)
			return
		}
		r.ID3v2 = tag
		r.absorb(label, tag.Anomalies)

	case FormatICC:
		profile, err := icc.Parse(buf)
		if err != nil {
			r.fail(label, err)
			return
		}
		r.ICC = profile
		r.absorb(label, profile.Anomalies)

	case FormatMP4:
		c, err := isobmff.Parse(buf)
		if err != nil {
			r.fail(label, err)
			return
		}
		r.MP4 = c
		r.absorb(label, c.Anomalies)
		r.decodeUnits(c)
		r.decodeEmbeddedProfiles(c)

	case FormatBext:
		if bwf.DetectRIFF(buf) {
			r.parseRIFF(buf, options)
			return
		}
		chunk, err := bwf.Parse(buf)
		if err != nil {
			r.fail(label, err)
			return
		}
		r.Broadcast = chunk
		r.absorb(label, chunk.Anomalies)

	case FormatAPE:
		tag, err := ape.Parse(buf)
		if err != nil {
			r.fail(label, err)
			return
		}
		r.APE = tag
		r.absorb(label, tag.Anomalies)

	case FormatID3v1:
		tag, err := id3v1.Parse(buf)
		if err != nil {
			r.fail(label, err)
			return
		}
		r.ID3v1 = tag
		r.absorb(label, tag.Anomalies)

	case FormatADTS:
		h, err := adts.Parse(buf)
		if err != nil {
			r.fail(label, err)
			return
		}
		r.ADTS = h
		r.absorb(label, h.Anomalies)
	}
}

// followUps probes the positions the buffer-start probes cannot see:
// an APE footer hiding in front of a trailing ID3v1 tag, and an ADTS
// sync pushed behind a leading ID3v2 tag.
func (r *Report) followUps(buf []byte, options *scanOptions) {
	if r.ID3v1 != nil && r.APE == nil && options.wants(FormatAPE) {
		body := buf[:len(buf)-id3v1.TagSize]
		if ape.Detect(body) {
			if tag, err := ape.Parse(body); err == nil {
				r.APE = tag
				r.addFormat(FormatAPE)
				r.absorb(FormatAPE.String(), tag.Anomalies)
			}
		}
	}

	if r.ID3v2 != nil && r.ADTS == nil && options.wants(FormatADTS) {
		after := r.ID3v2.TotalSize()
		if after > 0 && after < int64(len(buf)) && adts.Detect(buf[after:]) {
			if h, err := adts.Parse(buf[after:]); err == nil {
				r.ADTS = h
				r.addFormat(FormatADTS)
				r.absorb(FormatADTS.String(), h.Anomalies)
			}
		}
	}
}

// parseRIFF walks a RIFF/WAVE buffer, decoding the bext chunk and any
// tag chunk it carries.
func (r *Report) parseRIFF(buf []byte, options *scanOptions) {
	chunks, err := bwf.ScanRIFF(buf)
	if err != nil {
		r.fail("RIFF", err)
		return
	}
	r.RIFF = chunks

	if found := bwf.FindChunk(chunks, "bext"); found != nil {
		chunk, err := bwf.Parse(buf[found.Offset:])
		if err != nil {
			r.fail(FormatBext.String(), err)
		} else {
			r.Broadcast = chunk
			r.absorb(FormatBext.String(), chunk.Anomalies)
		}
	}

	if r.ID3v2 != nil || !options.wants(FormatID3v2) {
		return
	}
	// WAVE writers park ID3v2 tags in their own chunk, with either
	// casing of the fourcc.
	for _, id := range []string{"id3 ", "ID3 "} {
		found := bwf.FindChunk(chunks, id)
		if found == nil || !id3v2.Detect(found.Data) {
			continue
		}
		tag, err := id3v2.Parse(found.Data)
		if err != nil {
			continue
		}
		r.ID3v2 = tag
		r.addFormat(FormatID3v2)
		r.absorb(FormatID3v2.String(), tag.Anomalies)
		return
	}
}

// decodeUnits runs the bitstream header parsers over every parameter
// set in the container's decoder configuration records.
func (r *Report) decodeUnits(c *MP4Container) {
	for _, cfg := range c.Configs {
		for _, unit := range cfg.ParameterSets {
			switch cfg.Codec {
			case FormatAVC:
				h, err := avc.Parse(unit)
				if err != nil {
					r.fail("H.264 units", err)
					continue
				}
				r.AVCUnits = append(r.AVCUnits, h)
				r.absorb(FormatAVC.String(), h.Anomalies)

			case FormatHEVC:
				h, err := hevc.Parse(unit)
				if err != nil {
					r.fail("HEVC units", err)
					continue
				}
				r.HEVCUnits = append(r.HEVCUnits, h)
				r.absorb(FormatHEVC.String(), h.Anomalies)

			case FormatAV1:
				h, err := av1.Parse(unit)
				if err != nil {
					r.fail("AV1 units", err)
					continue
				}
				r.AV1Units = append(r.AV1Units, h)
				r.absorb(FormatAV1.String(), h.Anomalies)
			}
		}
	}
}

// decodeEmbeddedProfiles parses the ICC payloads lifted from colr
// boxes.
func (r *Report) decodeEmbeddedProfiles(c *MP4Container) {
	for _, payload := range c.ICCProfiles {
		profile, err := icc.Parse(payload)
		if err != nil {
			r.fail("MP4 colr", err)
			continue
		}
		r.EmbeddedICC = append(r.EmbeddedICC, profile)
		r.absorb("MP4/ICC", profile.Anomalies)
	}
}
