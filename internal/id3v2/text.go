package id3v2

import (
	"bytes"
	"unicode/utf16"
)

// Encoding is the text encoding byte leading text-bearing frame payloads.
type Encoding byte

const (
	// EncodingLatin1 is ISO-8859-1, single-byte.
	EncodingLatin1 Encoding = 0
	// EncodingUTF16 is UTF-16 with a byte-order mark.
	EncodingUTF16 Encoding = 1
	// EncodingUTF16BE is UTF-16 big-endian without BOM (v2.4).
	EncodingUTF16BE Encoding = 2
	// EncodingUTF8 is UTF-8 (v2.4).
	EncodingUTF8 Encoding = 3
)

func (e Encoding) String() string {
	switch e {
	case EncodingLatin1:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return "unknown"
	}
}

// Decode converts frame text bytes to a string according to the encoding.
// Unknown encoding bytes fall back to ISO-8859-1, matching how most
// taggers treat them.
func (e Encoding) Decode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	switch e {
	case EncodingLatin1:
		return decodeLatin1(data)

	case EncodingUTF16:
		return decodeUTF16(data)

	case EncodingUTF16BE:
		return decodeUTF16BE(data)

	case EncodingUTF8:
		return string(trimTrailingNul(data))

	default:
		return decodeLatin1(data)
	}
}

// findTerminator finds the encoding's null terminator in data, or -1.
func (e Encoding) findTerminator(data []byte) int {
	switch e {
	case EncodingUTF16, EncodingUTF16BE:
		// Double-byte null, aligned to code units.
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1

	default:
		return bytes.IndexByte(data, 0)
	}
}

// terminatorSize returns the byte width of the encoding's null terminator.
func (e Encoding) terminatorSize() int {
	switch e {
	case EncodingUTF16, EncodingUTF16BE:
		return 2
	default:
		return 1
	}
}

// decodeLatin1 maps ISO-8859-1 bytes directly to code points.
func decodeLatin1(data []byte) string {
	data = trimTrailingNul(data)
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// decodeUTF16 decodes UTF-16 with BOM. A missing BOM is treated as
// big-endian.
func decodeUTF16(data []byte) string {
	if len(data) < 2 {
		return ""
	}

	if data[0] == 0xFF && data[1] == 0xFE {
		return decodeUTF16LE(data[2:])
	} else if data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16BE(data[2:])
	}

	return decodeUTF16BE(data)
}

// decodeUTF16LE decodes UTF-16 little-endian.
func decodeUTF16LE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2]) | uint16(data[i*2+1])<<8
	}

	return trimNulRunes(string(utf16.Decode(u16)))
}

// decodeUTF16BE decodes UTF-16 big-endian.
func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2])<<8 | uint16(data[i*2+1])
	}

	return trimNulRunes(string(utf16.Decode(u16)))
}

// trimTrailingNul drops trailing NUL bytes. Text frames often include
// their terminator in the stored payload.
func trimTrailingNul(data []byte) []byte {
	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return data[:end]
}

// trimNulRunes drops trailing NUL code points after UTF-16 decoding.
func trimNulRunes(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == 0 {
		end--
	}
	return s[:end]
}
