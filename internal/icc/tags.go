package icc

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/simonhull/binmeta/internal/types"
)

// TagEntry is one entry of the profile tag table. Signature is
// right-trimmed; Type keeps the raw 4 characters because type
// signatures like "XYZ " are space-significant.
type TagEntry struct {
	Signature string
	Offset    uint32
	Size      uint32
	Type      string

	Text    string    // desc, text, and mluc payloads
	Numbers []float64 // XYZ , sf32, and curv payloads
	Raw     []byte    // undecoded payloads, aliases the parsed buffer
}

// parseTagTable walks the tag table at offset 128. Entries whose
// declared range falls outside the buffer are excluded before any
// dereference.
func parseTagTable(buf []byte, p *Profile) {
	if len(buf) < HeaderSize+tagTableSize {
		p.Anomalies = append(p.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "tag table",
			Message: "buffer ends before the tag count",
			Offset:  HeaderSize,
		})
		return
	}

	count := binary.BigEndian.Uint32(buf[HeaderSize : HeaderSize+4])
	need := int64(HeaderSize+tagTableSize) + int64(count)*tagEntrySize
	if need > int64(len(buf)) {
		p.Anomalies = append(p.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "tag table",
			Message: fmt.Sprintf("tag count %d overflows %d-byte buffer", count, len(buf)),
			Offset:  HeaderSize,
		})
	}

	offset := HeaderSize + tagTableSize
	for i := uint32(0); i < count && offset+tagEntrySize <= len(buf); i++ {
		entry := TagEntry{
			Signature: strings.TrimRight(string(buf[offset:offset+4]), "\x00 "),
			Offset:    binary.BigEndian.Uint32(buf[offset+4 : offset+8]),
			Size:      binary.BigEndian.Uint32(buf[offset+8 : offset+12]),
		}
		offset += tagEntrySize

		if int64(entry.Offset)+int64(entry.Size) > int64(len(buf)) {
			p.Anomalies = append(p.Anomalies, types.Anomaly{
				Kind:    types.AnomalyOutOfBounds,
				Stage:   "tag table",
				Message: fmt.Sprintf("tag %s at offset %d with size %d exceeds %d-byte buffer", entry.Signature, entry.Offset, entry.Size, len(buf)),
				Offset:  int64(offset - tagEntrySize),
			})
			continue
		}

		payload := buf[int64(entry.Offset) : int64(entry.Offset)+int64(entry.Size)]
		decodeTagPayload(payload, &entry, p)
		p.Tags = append(p.Tags, entry)
	}
}

// decodeTagPayload dispatches on the 4-byte type signature at the start
// of the payload. Unrecognized types are retained opaque, never
// interpreted.
func decodeTagPayload(payload []byte, entry *TagEntry, p *Profile) {
	if len(payload) < 8 {
		if len(payload) >= 4 {
			entry.Type = string(payload[:4])
		}
		entry.Raw = payload
		p.Anomalies = append(p.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "tag table",
			Message: fmt.Sprintf("tag %s payload is %d bytes, too short for a typed element", entry.Signature, len(payload)),
			Offset:  int64(entry.Offset),
		})
		return
	}

	entry.Type = string(payload[:4])
	body := payload[8:]

	switch entry.Type {
	case "desc":
		if !decodeDescription(payload, entry) {
			keepMalformed(payload, entry, p, "length-prefixed description overruns the payload")
		}
	case "text":
		entry.Text = strings.TrimRight(string(body), "\x00")
	case "mluc":
		if !decodeMultiLocalized(payload, entry) {
			keepMalformed(payload, entry, p, "localized string table is inconsistent")
		}
	case "XYZ ", "sf32":
		entry.Numbers = s15Fixed16Array(body)
	case "curv":
		decodeCurve(payload, entry, p)
	default:
		entry.Raw = payload
	}
}

// keepMalformed records a payload anomaly and retains the raw bytes.
func keepMalformed(payload []byte, entry *TagEntry, p *Profile, reason string) {
	entry.Raw = payload
	p.Anomalies = append(p.Anomalies, types.Anomaly{
		Kind:    types.AnomalyMalformed,
		Stage:   "tag table",
		Message: fmt.Sprintf("tag %s: %s", entry.Signature, reason),
		Offset:  int64(entry.Offset),
	})
}

// decodeDescription reads a textDescriptionType payload: a u32 ASCII
// count at offset 8 followed by that many bytes including the NUL.
func decodeDescription(payload []byte, entry *TagEntry) bool {
	if len(payload) < 12 {
		return false
	}
	count := binary.BigEndian.Uint32(payload[8:12])
	end := int64(12) + int64(count)
	if end > int64(len(payload)) {
		return false
	}
	entry.Text = strings.TrimRight(string(payload[12:end]), "\x00")
	return true
}

// decodeMultiLocalized reads the first record of a multiLocalizedUnicodeType
// payload. Records must be the standard 12 bytes.
func decodeMultiLocalized(payload []byte, entry *TagEntry) bool {
	if len(payload) < 28 {
		return false
	}
	count := binary.BigEndian.Uint32(payload[8:12])
	if count == 0 {
		return true
	}
	recLen := binary.BigEndian.Uint32(payload[12:16])
	if recLen != 12 {
		return false
	}

	// First record: language u16, country u16, then string length and
	// offset relative to the payload start.
	strLen := binary.BigEndian.Uint32(payload[20:24])
	strOff := binary.BigEndian.Uint32(payload[24:28])
	if int64(strOff)+int64(strLen) > int64(len(payload)) {
		return false
	}

	entry.Text = decodeUTF16BE(payload[int64(strOff) : int64(strOff)+int64(strLen)])
	return true
}

// decodeCurve reads a curveType payload: u32 point count at offset 8
// followed by u16 values. A count overrunning the payload decodes what
// fits and records an anomaly.
func decodeCurve(payload []byte, entry *TagEntry, p *Profile) {
	if len(payload) < 12 {
		keepMalformed(payload, entry, p, "curve payload too short for a point count")
		return
	}
	count := int64(binary.BigEndian.Uint32(payload[8:12]))
	avail := int64(len(payload)-12) / 2
	if count > avail {
		p.Anomalies = append(p.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "tag table",
			Message: fmt.Sprintf("tag %s: curve declares %d points but payload holds %d", entry.Signature, count, avail),
			Offset:  int64(entry.Offset),
		})
		count = avail
	}

	entry.Numbers = make([]float64, 0, count)
	for i := int64(0); i < count; i++ {
		off := 12 + i*2
		entry.Numbers = append(entry.Numbers, float64(binary.BigEndian.Uint16(payload[off:off+2])))
	}
}

// s15Fixed16Array decodes consecutive signed 15.16 fixed-point values.
func s15Fixed16Array(body []byte) []float64 {
	vals := make([]float64, 0, len(body)/4)
	for i := 0; i+4 <= len(body); i += 4 {
		vals = append(vals, s15Fixed16(binary.BigEndian.Uint32(body[i:i+4])))
	}
	return vals
}

// decodeUTF16BE converts big-endian UTF-16 bytes, dropping a dangling
// final byte.
func decodeUTF16BE(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(u))
}
