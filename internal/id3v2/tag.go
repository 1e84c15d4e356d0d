// Package id3v2 parses frame-based ID3v2.3 and ID3v2.4 tags.
//
// A tag is a 10-byte header ("ID3", version, flags, syncsafe size) followed
// by frames. Frame sizes are syncsafe in v2.4 and plain big-endian in v2.3;
// decoding the wrong way corrupts every following offset, so the version
// gates all size arithmetic.
package id3v2

import (
	"encoding/binary"
	"fmt"
	"strings"

	binutil "github.com/simonhull/binmeta/internal/binary"
	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

// HeaderSize is the fixed size of the tag header.
const HeaderSize = 10

// maxFrames bounds the frame walk against forged headers declaring
// absurd counts.
const maxFrames = 10000

// Header represents an ID3v2 tag header.
type Header struct {
	Version      byte // Major version (3 or 4)
	Revision     byte // Minor version
	Flags        byte
	Size         uint32 // Tag size (excluding header), syncsafe
	ExtendedSize uint32 // Extended header size if present
}

// Unsynchronized reports whether the unsynchronisation flag is set.
// The reverse transform is not applied; frame data is exposed as stored.
func (h Header) Unsynchronized() bool {
	return h.Flags&0x80 != 0
}

// HasExtendedHeader reports whether an extended header follows.
func (h Header) HasExtendedHeader() bool {
	return h.Flags&0x40 != 0
}

// HasFooter reports whether a v2.4 footer trails the tag.
func (h Header) HasFooter() bool {
	return h.Flags&0x10 != 0
}

// Frame represents a single ID3v2 frame.
//
// Data aliases the parsed buffer; callers needing the bytes past the
// buffer's lifetime must copy. Text-bearing frames additionally carry
// their decoded payload.
type Frame struct {
	ID    string // 4-character frame ID (e.g. "TIT2", "TXXX")
	Size  uint32 // Frame size (excluding header)
	Flags uint16 // Frame flags
	Data  []byte // Raw frame data

	Encoding    Encoding // Text encoding for text-bearing frames
	Text        string   // Decoded payload (T*, TXXX value, COMM/USLT text)
	Description string   // TXXX/COMM/USLT description
	Language    string   // COMM/USLT 3-character language code
}

// Tag represents a decoded ID3v2 tag.
type Tag struct {
	Header     Header
	Frames     []Frame
	ReplayGain *types.ReplayGainInfo
	Anomalies  []types.Anomaly
}

// TotalSize returns the stored size of the tag including its header and,
// for v2.4 tags that declare one, the trailing footer.
func (t *Tag) TotalSize() int64 {
	size := int64(HeaderSize) + int64(t.Header.Size)
	if t.Header.HasFooter() {
		size += HeaderSize
	}
	return size
}

// Find returns the first frame with the given ID, or nil.
func (t *Tag) Find(id string) *Frame {
	for i := range t.Frames {
		if t.Frames[i].ID == id {
			return &t.Frames[i]
		}
	}
	return nil
}

// Text returns the decoded text of the first frame with the given ID,
// or "" when the frame is absent.
func (t *Tag) Text(id string) string {
	if f := t.Find(id); f != nil {
		return f.Text
	}
	return ""
}

// Detect reports whether buf starts with an ID3v2 magic.
func Detect(buf []byte) bool {
	return len(buf) >= 3 && string(buf[0:3]) == "ID3"
}

// Parse decodes the ID3v2 tag at the start of buf.
//
// Unsupported major versions yield a header-only tag with a malformed
// anomaly. A frame whose declared size overruns the tag or the buffer
// stops the walk; frames decoded before the cut are kept.
func Parse(buf []byte) (*Tag, error) {
	if len(buf) < HeaderSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatID3v2,
			Reason: "buffer shorter than 10-byte tag header",
		}
	}

	if string(buf[0:3]) != "ID3" {
		return nil, &types.NotThisFormatError{
			Format: types.FormatID3v2,
			Reason: "missing ID3 magic",
		}
	}

	tag := &Tag{
		Header: Header{
			Version:  buf[3],
			Revision: buf[4],
			Flags:    buf[5],
			Size:     binutil.DecodeSyncsafe(buf[6:10]),
		},
	}

	// Only v2.3 and v2.4 frame layouts are decodable. Other majors keep
	// the header so callers still learn the tag's extent.
	if tag.Header.Version != 3 && tag.Header.Version != 4 {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "header",
			Message: fmt.Sprintf("unsupported version 2.%d, frames not decoded", tag.Header.Version),
		})
		return tag, nil
	}

	tagEnd := int64(HeaderSize) + int64(tag.Header.Size)
	if tagEnd > int64(len(buf)) {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "header",
			Message: fmt.Sprintf("declared tag size %d exceeds buffer, decoding available frames", tag.Header.Size),
			Offset:  int64(len(buf)),
		})
		tagEnd = int64(len(buf))
	}

	offset := int64(HeaderSize)
	if tag.Header.HasExtendedHeader() {
		offset = skipExtendedHeader(tag, buf, offset, tagEnd)
	}

	parseFrames(tag, buf, offset, tagEnd)

	return tag, nil
}

// skipExtendedHeader advances past the extended header. The v2.4 size is
// syncsafe and includes its own four size bytes; the v2.3 size is plain
// big-endian and excludes them.
func skipExtendedHeader(tag *Tag, buf []byte, offset, tagEnd int64) int64 {
	if offset+4 > tagEnd {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "extended header",
			Message: "buffer ends before extended header size",
			Offset:  offset,
		})
		return tagEnd
	}

	if tag.Header.Version == 4 {
		tag.Header.ExtendedSize = binutil.DecodeSyncsafe(buf[offset : offset+4])
		offset += int64(tag.Header.ExtendedSize)
	} else {
		tag.Header.ExtendedSize = binary.BigEndian.Uint32(buf[offset : offset+4])
		offset += int64(tag.Header.ExtendedSize) + 4
	}

	if offset > tagEnd {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "extended header",
			Message: fmt.Sprintf("extended header size %d overruns tag", tag.Header.ExtendedSize),
			Offset:  offset,
		})
		return tagEnd
	}

	return offset
}

// parseFrames walks the frame region, decoding known layouts and keeping
// unknown frames raw.
func parseFrames(tag *Tag, buf []byte, offset, tagEnd int64) {
	for offset < tagEnd {
		// Padding (null bytes) ends the frame region silently.
		if buf[offset] == 0 {
			return
		}

		if len(tag.Frames) >= maxFrames {
			tag.Anomalies = append(tag.Anomalies, types.Anomaly{
				Kind:    types.AnomalyMalformed,
				Stage:   "frames",
				Message: fmt.Sprintf("more than %d frames, walk abandoned", maxFrames),
				Offset:  offset,
			})
			return
		}

		if offset+HeaderSize > tagEnd {
			tag.Anomalies = append(tag.Anomalies, types.Anomaly{
				Kind:    types.AnomalyTruncated,
				Stage:   "frames",
				Message: "buffer ends inside a frame header",
				Offset:  offset,
			})
			return
		}

		frameID := string(buf[offset : offset+4])
		var frameSize uint32
		if tag.Header.Version == 4 {
			frameSize = binutil.DecodeSyncsafe(buf[offset+4 : offset+8])
		} else {
			frameSize = binary.BigEndian.Uint32(buf[offset+4 : offset+8])
		}
		frameFlags := binary.BigEndian.Uint16(buf[offset+8 : offset+10])

		dataStart := offset + HeaderSize
		dataEnd := dataStart + int64(frameSize)
		if dataEnd > tagEnd {
			tag.Anomalies = append(tag.Anomalies, types.Anomaly{
				Kind:    types.AnomalyTruncated,
				Stage:   "frames",
				Message: fmt.Sprintf("frame %s declares %d bytes but only %d remain", frameID, frameSize, tagEnd-dataStart),
				Offset:  offset,
			})
			return
		}

		frame := Frame{
			ID:    frameID,
			Size:  frameSize,
			Flags: frameFlags,
			Data:  buf[dataStart:dataEnd],
		}
		decodeFrame(&frame)

		tag.Frames = append(tag.Frames, frame)

		if frame.ID == "TXXX" {
			tag.ReplayGain = types.MergeReplayGain(tag.ReplayGain, frame.Description, frame.Text)
		}

		offset = dataEnd
	}
}

// decodeFrame fills the decoded-text fields for known frame layouts.
// Unknown IDs keep raw data only.
func decodeFrame(frame *Frame) {
	switch {
	case frame.ID == "TXXX":
		decodeUserTextFrame(frame)
	case strings.HasPrefix(frame.ID, "T"):
		decodeTextFrame(frame)
	case frame.ID == "COMM" || frame.ID == "USLT":
		decodeLanguageFrame(frame)
	}
}

// decodeTextFrame decodes standard text frames (TIT2, TPE1, TALB, ...).
// Layout: [encoding][text]
func decodeTextFrame(frame *Frame) {
	if len(frame.Data) < 1 {
		return
	}

	frame.Encoding = Encoding(frame.Data[0])
	frame.Text = frame.Encoding.Decode(frame.Data[1:])
}

// decodeUserTextFrame decodes TXXX frames.
// Layout: [encoding][description\0][value]
func decodeUserTextFrame(frame *Frame) {
	if len(frame.Data) < 2 {
		return
	}

	frame.Encoding = Encoding(frame.Data[0])
	data := frame.Data[1:]

	nullIdx := frame.Encoding.findTerminator(data)
	if nullIdx < 0 {
		frame.Text = frame.Encoding.Decode(data)
		return
	}

	frame.Description = frame.Encoding.Decode(data[:nullIdx])
	frame.Text = frame.Encoding.Decode(data[nullIdx+frame.Encoding.terminatorSize():])
}

// decodeLanguageFrame decodes COMM and USLT frames.
// Layout: [encoding][language(3)][description\0][text]
func decodeLanguageFrame(frame *Frame) {
	if len(frame.Data) < 4 {
		return
	}

	frame.Encoding = Encoding(frame.Data[0])
	frame.Language = string(frame.Data[1:4])
	data := frame.Data[4:]

	nullIdx := frame.Encoding.findTerminator(data)
	if nullIdx < 0 {
		// No separator; treat everything as the text body.
		frame.Text = frame.Encoding.Decode(data)
		return
	}

	frame.Description = frame.Encoding.Decode(data[:nullIdx])
	frame.Text = frame.Encoding.Decode(data[nullIdx+frame.Encoding.terminatorSize():])
}

func init() {
	registry.Register(registry.Probe{
		Format:   types.FormatID3v2,
		MinSize:  HeaderSize,
		Priority: 10,
		Detect:   Detect,
	})
}
