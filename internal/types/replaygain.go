package types

import (
	"strconv"
	"strings"
)

// ReplayGainInfo represents loudness normalization data.
//
// ReplayGain provides information for normalizing playback volume across
// tracks and albums. See https://wiki.hydrogenaud.io/index.php?title=ReplayGain
type ReplayGainInfo struct {
	TrackGain float64 // Track gain adjustment in dB (can be negative)
	TrackPeak float64 // Track peak amplitude (0.0 to 1.0+)
	AlbumGain float64 // Album gain adjustment in dB (can be negative)
	AlbumPeak float64 // Album peak amplitude (0.0 to 1.0+)
}

// MergeReplayGain folds a REPLAYGAIN_* key/value pair into rg, allocating
// it on first match. Keys are matched case-insensitively. Returns rg
// unchanged (possibly nil) when the key is not a ReplayGain key.
func MergeReplayGain(rg *ReplayGainInfo, key, value string) *ReplayGainInfo {
	switch strings.ToUpper(key) {
	case "REPLAYGAIN_TRACK_GAIN":
		rg = ensureReplayGain(rg)
		rg.TrackGain = ParseGain(value)
	case "REPLAYGAIN_TRACK_PEAK":
		rg = ensureReplayGain(rg)
		rg.TrackPeak = ParsePeak(value)
	case "REPLAYGAIN_ALBUM_GAIN":
		rg = ensureReplayGain(rg)
		rg.AlbumGain = ParseGain(value)
	case "REPLAYGAIN_ALBUM_PEAK":
		rg = ensureReplayGain(rg)
		rg.AlbumPeak = ParsePeak(value)
	}
	return rg
}

func ensureReplayGain(rg *ReplayGainInfo) *ReplayGainInfo {
	if rg == nil {
		return &ReplayGainInfo{}
	}
	return rg
}

// ParseGain parses a ReplayGain gain value like "-6.50 dB" or "+1.23 dB".
func ParseGain(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, " dB")
	s = strings.TrimSuffix(s, "dB")
	s = strings.TrimSpace(s)
	val, _ := strconv.ParseFloat(s, 64) //nolint:errcheck // Best effort parsing, zero value is fine
	return val
}

// ParsePeak parses a ReplayGain peak value like "0.988127".
func ParsePeak(s string) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(s), 64) //nolint:errcheck // Best effort parsing, zero value is fine
	return val
}
