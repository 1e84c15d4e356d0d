package types

// Format identifies a metadata structure family.
//
//go:generate stringer -type=Format -linecomment
type Format int

const (
	// FormatUnknown represents an unrecognized structure.
	FormatUnknown Format = iota // Unknown
	// FormatID3v1 represents legacy 128-byte ID3v1/v1.1 trailers.
	FormatID3v1 // ID3v1
	// FormatID3v2 represents frame-based ID3v2.3/v2.4 tags.
	FormatID3v2 // ID3v2
	// FormatAPE represents APEv1/v2 item-list tags.
	FormatAPE // APE
	// FormatBext represents Broadcast Wave bext chunks.
	FormatBext // BWF bext
	// FormatADTS represents ADTS audio frame headers.
	FormatADTS // ADTS
	// FormatICC represents ICC color profiles.
	FormatICC // ICC
	// FormatAVC represents H.264 NAL unit headers.
	FormatAVC // H.264
	// FormatHEVC represents HEVC NAL unit headers.
	FormatHEVC // HEVC
	// FormatAV1 represents AV1 OBU headers.
	FormatAV1 // AV1
	// FormatMP4 represents ISO-BMFF containers carrying decoder
	// configuration records and color profiles.
	FormatMP4 // MP4
)

// Extensions returns file extensions commonly carrying this structure.
func (f Format) Extensions() []string {
	switch f {
	case FormatID3v1, FormatID3v2:
		return []string{".mp3"}
	case FormatAPE:
		return []string{".ape", ".mpc", ".wv"}
	case FormatBext:
		return []string{".wav", ".bwf"}
	case FormatADTS:
		return []string{".aac", ".adts"}
	case FormatICC:
		return []string{".icc", ".icm"}
	case FormatAVC:
		return []string{".h264", ".264"}
	case FormatHEVC:
		return []string{".h265", ".265"}
	case FormatAV1:
		return []string{".obu"}
	case FormatMP4:
		return []string{".mp4", ".m4a", ".m4v", ".mov"}
	case FormatUnknown:
		return nil
	default:
		return nil
	}
}

// Embedded reports whether the format is found inside container files
// rather than standing alone. Embedded formats are detected by scanning,
// standalone formats by leading magic bytes.
func (f Format) Embedded() bool {
	switch f {
	case FormatID3v1, FormatBext:
		return true
	default:
		return false
	}
}
