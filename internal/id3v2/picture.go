package id3v2

import (
	"bytes"
	"errors"
)

var (
	errPictureTooShort    = errors.New("APIC frame too short")
	errPictureNoMIMETerm  = errors.New("APIC MIME type not null-terminated")
	errPictureTruncated   = errors.New("APIC frame truncated after MIME type")
	errPictureNoImageData = errors.New("APIC frame has no image data")
)

// Picture represents an attached picture decoded from an APIC frame.
type Picture struct {
	MIMEType    string
	Description string
	Type        byte // Picture type byte (3 = front cover)
	Data        []byte
	Width       int
	Height      int
}

// pictureTypeNames maps the APIC picture type byte to its meaning.
var pictureTypeNames = [...]string{
	"Other",
	"32x32 file icon",
	"Other file icon",
	"Cover (front)",
	"Cover (back)",
	"Leaflet page",
	"Media",
	"Lead artist",
	"Artist",
	"Conductor",
	"Band",
	"Composer",
	"Lyricist",
	"Recording location",
	"During recording",
	"During performance",
	"Movie screen capture",
	"A bright coloured fish",
	"Illustration",
	"Band logotype",
	"Publisher logotype",
}

// TypeName returns the human-readable picture type.
func (p Picture) TypeName() string {
	if int(p.Type) < len(pictureTypeNames) {
		return pictureTypeNames[p.Type]
	}
	return "Unknown"
}

// Pictures decodes every APIC frame in the tag. Frames that fail to
// decode are skipped; the tag's raw frames keep them available.
func (t *Tag) Pictures() []Picture {
	var pictures []Picture
	for i := range t.Frames {
		if t.Frames[i].ID != "APIC" {
			continue
		}
		pic, err := parsePictureFrame(t.Frames[i].Data)
		if err != nil {
			continue
		}
		pictures = append(pictures, pic)
	}
	return pictures
}

// parsePictureFrame parses an APIC (Attached Picture) frame.
// Format:
//
//	[1 byte]              Text encoding
//	[null-terminated]     MIME type
//	[1 byte]              Picture type
//	[null-terminated]     Description
//	[remaining]           Picture data
func parsePictureFrame(data []byte) (Picture, error) {
	if len(data) < 4 {
		return Picture{}, errPictureTooShort
	}

	encoding := Encoding(data[0])
	pos := 1

	// MIME type is always ISO-8859-1 regardless of the encoding byte.
	mimeEnd := bytes.IndexByte(data[pos:], 0)
	if mimeEnd < 0 {
		return Picture{}, errPictureNoMIMETerm
	}
	mimeType := string(data[pos : pos+mimeEnd])
	pos += mimeEnd + 1

	// Handle legacy MIME type markers
	if mimeType == "JPG" || mimeType == "jpg" {
		mimeType = "image/jpeg"
	} else if mimeType == "PNG" || mimeType == "png" {
		mimeType = "image/png"
	} else if mimeType == "" || mimeType == "-->" {
		// Empty or URL reference - fall back until sniffing decides
		mimeType = "image/jpeg"
	}

	if pos >= len(data) {
		return Picture{}, errPictureTruncated
	}

	pictureType := data[pos]
	pos++

	// Description uses the frame's declared encoding.
	descEnd := encoding.findTerminator(data[pos:])
	description := ""
	if descEnd >= 0 {
		description = encoding.Decode(data[pos : pos+descEnd])
		pos += descEnd + encoding.terminatorSize()
	}
	// A missing terminator leaves the rest as image data; some encoders
	// skip the description terminator entirely.

	if pos >= len(data) {
		return Picture{}, errPictureNoImageData
	}

	imageData := data[pos:]

	// Prefer the MIME type the image bytes actually show.
	if detected := detectMIMEType(imageData); detected != "" {
		mimeType = detected
	}

	width, height := detectImageDimensions(imageData, mimeType)

	return Picture{
		MIMEType:    mimeType,
		Description: description,
		Type:        pictureType,
		Data:        imageData,
		Width:       width,
		Height:      height,
	}, nil
}

// detectMIMEType detects image MIME type from magic bytes.
func detectMIMEType(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}

	// PNG: 89 50 4E 47
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}

	// GIF: 47 49 46
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 {
		return "image/gif"
	}

	// BMP: 42 4D
	if data[0] == 0x42 && data[1] == 0x4D {
		return "image/bmp"
	}

	// WebP: RIFF....WEBP
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}

	return ""
}

// detectImageDimensions extracts width/height from image data.
func detectImageDimensions(data []byte, mimeType string) (int, int) {
	switch mimeType {
	case "image/jpeg":
		return detectJPEGDimensions(data)
	case "image/png":
		return detectPNGDimensions(data)
	default:
		return 0, 0
	}
}

// detectJPEGDimensions extracts dimensions from JPEG data.
func detectJPEGDimensions(data []byte) (int, int) {
	// JPEG structure: markers are 0xFF followed by marker type
	// SOF markers contain dimensions: SOF0 (0xC0), SOF1 (0xC1), SOF2 (0xC2)
	for i := 0; i < len(data)-9; i++ {
		if data[i] != 0xFF {
			continue
		}

		marker := data[i+1]
		if marker == 0xC0 || marker == 0xC1 || marker == 0xC2 {
			// SOF format: FF Cn [2 bytes length] [1 byte precision] [2 bytes height] [2 bytes width]
			if i+9 <= len(data) {
				height := int(data[i+5])<<8 | int(data[i+6])
				width := int(data[i+7])<<8 | int(data[i+8])
				return width, height
			}
		}
	}
	return 0, 0
}

// detectPNGDimensions extracts dimensions from PNG data.
func detectPNGDimensions(data []byte) (int, int) {
	// PNG structure: 8-byte signature + IHDR chunk
	// IHDR is at bytes 8-24: [4 len] [4 "IHDR"] [4 width] [4 height] [...]
	if len(data) < 24 {
		return 0, 0
	}

	pngSig := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	for i := 0; i < 8; i++ {
		if data[i] != pngSig[i] {
			return 0, 0
		}
	}

	// Read IHDR dimensions (big-endian)
	width := int(data[16])<<24 | int(data[17])<<16 | int(data[18])<<8 | int(data[19])
	height := int(data[20])<<24 | int(data[21])<<16 | int(data[22])<<8 | int(data[23])

	return width, height
}
