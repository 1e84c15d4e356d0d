package isobmff

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

// visualSampleEntryPrologue is the fixed VisualSampleEntry region
// between the entry header and its child boxes.
const visualSampleEntryPrologue = 78

// visualSampleEntries maps sample entry fourcc codes to the codec
// family of their decoder configuration.
var visualSampleEntries = map[string]types.Format{
	"avc1": types.FormatAVC,
	"avc3": types.FormatAVC,
	"hvc1": types.FormatHEVC,
	"hev1": types.FormatHEVC,
	"av01": types.FormatAV1,
}

// DecoderConfig ties one sample entry to its raw decoder configuration
// record and the parameter sets extracted from it.
type DecoderConfig struct {
	Codec         types.Format // FormatAVC, FormatHEVC, or FormatAV1
	SampleEntry   string       // enclosing sample entry fourcc
	Record        []byte       // raw avcC/hvcC/av1C payload, aliases the buffer
	ParameterSets [][]byte     // SPS/PPS/VPS units or config OBUs, alias the buffer
}

// Container is the result of one box walk.
type Container struct {
	Brand            string
	MinorVersion     uint32
	CompatibleBrands []string

	Configs     []DecoderConfig
	ICCProfiles [][]byte // colr payloads with colour type prof or ricc

	Anomalies []types.Anomaly
}

// Detect reports whether buf starts with an ISO-BMFF file type box.
func Detect(buf []byte) bool {
	return len(buf) >= 12 && string(buf[4:8]) == "ftyp"
}

// Parse walks the box structure of buf, collecting brands, decoder
// configurations, and embedded ICC profiles. Structural damage after
// the ftyp box degrades to anomalies on the container.
func Parse(buf []byte) (*Container, error) {
	if len(buf) < 12 {
		return nil, &types.NotThisFormatError{
			Format: types.FormatMP4,
			Reason: fmt.Sprintf("buffer is %d bytes, file type box needs 12", len(buf)),
		}
	}
	if string(buf[4:8]) != "ftyp" {
		return nil, &types.NotThisFormatError{
			Format: types.FormatMP4,
			Reason: "no file type box",
		}
	}

	c := &Container{}
	w := &walker{buf: buf, c: c}
	w.walk(0, int64(len(buf)), 0)

	return c, nil
}

// DecoderConfigs walks buf and returns only the decoder configuration
// records.
func DecoderConfigs(buf []byte) ([]DecoderConfig, error) {
	c, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	return c.Configs, nil
}

// ColorProfiles walks buf and returns only the embedded ICC payloads.
func ColorProfiles(buf []byte) ([][]byte, error) {
	c, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	return c.ICCProfiles, nil
}

// walker carries the per-parse state of one box walk.
type walker struct {
	buf   []byte
	c     *Container
	boxes int
	entry string // enclosing sample entry fourcc, "" outside stsd
}

func (w *walker) anomaly(kind types.AnomalyKind, stage string, offset int64, message string) {
	w.c.Anomalies = append(w.c.Anomalies, types.Anomaly{
		Kind:    kind,
		Stage:   stage,
		Message: message,
		Offset:  offset,
	})
}

// walk iterates sibling boxes in [start, end), descending into known
// containers.
func (w *walker) walk(start, end int64, depth int) {
	offset := start
	for offset+boxHeaderSize <= end {
		if w.boxes >= maxBoxes {
			w.anomaly(types.AnomalyMalformed, "box walk", offset, "box count cap reached, walk stopped")
			return
		}
		w.boxes++

		box, err := readBox(w.buf, offset, end)
		if err != nil {
			w.anomaly(types.AnomalyMalformed, "box walk", offset, err.Error())
			return
		}

		// Compare in uint64 space; a forged 64-bit size can overflow
		// the offset arithmetic.
		boxEnd := end
		if box.Size <= uint64(end-offset) {
			boxEnd = offset + int64(box.Size)
		} else {
			w.anomaly(types.AnomalyTruncated, "box walk", offset,
				fmt.Sprintf("box %q declares %d bytes but only %d remain", box.Type, box.Size, end-offset))
		}

		switch {
		case containerTypes[box.Type]:
			if depth < maxDepth {
				w.walk(box.DataOffset(), boxEnd, depth+1)
			}
		case box.Type == "ftyp":
			w.parseFtyp(box, boxEnd)
		case box.Type == "stsd":
			w.parseStsd(box, boxEnd, depth)
		case box.Type == "avcC":
			w.parseConfig(box, boxEnd, types.FormatAVC, decodeAVCConfig)
		case box.Type == "hvcC":
			w.parseConfig(box, boxEnd, types.FormatHEVC, decodeHEVCConfig)
		case box.Type == "av1C":
			w.parseConfig(box, boxEnd, types.FormatAV1, decodeAV1Config)
		case box.Type == "colr":
			w.parseColr(box, boxEnd)
		}

		offset = boxEnd
	}
}

// parseFtyp records the major brand, minor version, and compatible
// brands.
func (w *walker) parseFtyp(box *Box, end int64) {
	off := box.DataOffset()
	if off+8 > end {
		w.anomaly(types.AnomalyTruncated, "ftyp", off, "file type box too short for brand and version")
		return
	}

	w.c.Brand = strings.TrimRight(string(w.buf[off:off+4]), " ")
	w.c.MinorVersion = binary.BigEndian.Uint32(w.buf[off+4:])
	for p := off + 8; p+4 <= end; p += 4 {
		w.c.CompatibleBrands = append(w.c.CompatibleBrands, strings.TrimRight(string(w.buf[p:p+4]), " "))
	}
}

// parseStsd iterates sample description entries, descending into the
// child boxes of recognized visual entries past the fixed prologue.
func (w *walker) parseStsd(box *Box, end int64, depth int) {
	off := box.DataOffset()
	if off+8 > end {
		w.anomaly(types.AnomalyTruncated, "stsd", off, "sample description box too short for its prologue")
		return
	}

	// Version and flags, then the entry count.
	count := binary.BigEndian.Uint32(w.buf[off+4:])
	offset := off + 8

	for i := uint32(0); i < count && offset+boxHeaderSize <= end; i++ {
		entry, err := readBox(w.buf, offset, end)
		if err != nil {
			w.anomaly(types.AnomalyMalformed, "stsd", offset, err.Error())
			return
		}

		entryEnd := end
		if entry.Size <= uint64(end-offset) {
			entryEnd = offset + int64(entry.Size)
		} else {
			w.anomaly(types.AnomalyTruncated, "stsd", offset,
				fmt.Sprintf("sample entry %q declares %d bytes but only %d remain", entry.Type, entry.Size, end-offset))
		}

		if _, ok := visualSampleEntries[entry.Type]; ok {
			childStart := entry.DataOffset() + visualSampleEntryPrologue
			if childStart < entryEnd && depth < maxDepth {
				w.entry = entry.Type
				w.walk(childStart, entryEnd, depth+1)
				w.entry = ""
			}
		}

		offset = entryEnd
	}
}

// parseConfig decodes one decoder configuration box.
func (w *walker) parseConfig(box *Box, end int64, codec types.Format, decode func([]byte) ([][]byte, error)) {
	payload := w.buf[box.DataOffset():end]

	units, err := decode(payload)
	if err != nil {
		w.anomaly(types.AnomalyMalformed, box.Type, box.DataOffset(), err.Error())
		return
	}

	w.c.Configs = append(w.c.Configs, DecoderConfig{
		Codec:         codec,
		SampleEntry:   w.entry,
		Record:        payload,
		ParameterSets: units,
	})
}

// parseColr keeps ICC payloads and ignores nclx parameter triples.
func (w *walker) parseColr(box *Box, end int64) {
	off := box.DataOffset()
	if off+4 > end {
		w.anomaly(types.AnomalyTruncated, "colr", off, "colour information box too short for its type")
		return
	}

	colourType := string(w.buf[off : off+4])
	if colourType != "prof" && colourType != "ricc" {
		return
	}
	if off+4 < end {
		w.c.ICCProfiles = append(w.c.ICCProfiles, w.buf[off+4:end])
	}
}

func init() {
	registry.Register(registry.Probe{
		Format:   types.FormatMP4,
		MinSize:  boxHeaderSize + 4,
		Priority: 30,
		Detect:   Detect,
	})
}
