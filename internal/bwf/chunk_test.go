package bwf

import (
	"bytes"
	"errors"
	"testing"

	binutil "github.com/simonhull/binmeta/internal/binary"
	"github.com/simonhull/binmeta/internal/types"
)

// bextFields drives the synthetic chunk builder.
type bextFields struct {
	description   string
	originator    string
	origRef       string
	date          string
	time          string
	timeRef       uint64
	version       uint16
	umid          []byte
	loudness      [5]int16
	codingHistory string
}

// writePadded writes s into a fixed field of n bytes, NUL padded.
func writePadded(sw *binutil.SafeWriter, s string, n int) {
	sw.WriteString(s)
	sw.WriteZeros(n - len(s))
}

// buildBext assembles a complete bext chunk including the 8-byte header.
func buildBext(f bextFields) []byte {
	body := &bytes.Buffer{}
	sw := binutil.NewSafeWriter(body)

	writePadded(sw, f.description, 256)
	writePadded(sw, f.originator, 32)
	writePadded(sw, f.origRef, 32)
	writePadded(sw, f.date, 10)
	writePadded(sw, f.time, 8)
	binutil.WriteLE[uint32](sw, uint32(f.timeRef))
	binutil.WriteLE[uint32](sw, uint32(f.timeRef>>32))
	binutil.WriteLE[uint16](sw, f.version)

	umid := make([]byte, 64)
	copy(umid, f.umid)
	sw.WriteBytes(umid)

	for _, l := range f.loudness {
		binutil.WriteLE[uint16](sw, uint16(l))
	}
	sw.WriteZeros(180)
	sw.WriteString(f.codingHistory)

	out := &bytes.Buffer{}
	hw := binutil.NewSafeWriter(out)
	hw.WriteString("bext")
	binutil.WriteLE[uint32](hw, uint32(body.Len()))
	hw.WriteBytes(body.Bytes())

	return out.Bytes()
}

func TestDetect(t *testing.T) {
	chunk := buildBext(bextFields{})

	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"valid chunk", chunk, true},
		{"short buffer", []byte("bext"), false},
		{"wrong fourcc", append([]byte("data"), make([]byte, 16)...), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.buf); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_NotThisFormat(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"too short", []byte("be")},
		{"wrong fourcc", make([]byte, 700)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.buf)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var nf *types.NotThisFormatError
			if !errors.As(err, &nf) {
				t.Fatalf("expected *types.NotThisFormatError, got %T", err)
			}
		})
	}
}

func TestParse_Version2(t *testing.T) {
	umid := bytes.Repeat([]byte{0xAB}, 64)
	buf := buildBext(bextFields{
		description:   "interview take 3",
		originator:    "field recorder",
		origRef:       "DE-RADIO-2024-0117",
		date:          "2024-01-17",
		time:          "09:41:00",
		timeRef:       0x0000000111223344,
		version:       2,
		umid:          umid,
		loudness:      [5]int16{-2300, 650, -120, -1800, -2050},
		codingHistory: "A=PCM,F=48000,W=24,M=stereo\r\n",
	})

	chunk, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chunk.Description != "interview take 3" {
		t.Errorf("expected description 'interview take 3', got %q", chunk.Description)
	}
	if chunk.Originator != "field recorder" {
		t.Errorf("expected originator 'field recorder', got %q", chunk.Originator)
	}
	if chunk.OriginatorReference != "DE-RADIO-2024-0117" {
		t.Errorf("expected reference 'DE-RADIO-2024-0117', got %q", chunk.OriginatorReference)
	}
	if chunk.OriginationDate != "2024-01-17" || chunk.OriginationTime != "09:41:00" {
		t.Errorf("unexpected date/time: %q %q", chunk.OriginationDate, chunk.OriginationTime)
	}
	if chunk.TimeReference != 0x0000000111223344 {
		t.Errorf("expected time reference 0x111223344, got 0x%x", chunk.TimeReference)
	}
	if chunk.Version != 2 {
		t.Errorf("expected version 2, got %d", chunk.Version)
	}
	if !bytes.Equal(chunk.UMID, umid) {
		t.Error("expected UMID to be exposed for version 2")
	}
	if chunk.LoudnessValue != -2300 {
		t.Errorf("expected loudness value -2300, got %d", chunk.LoudnessValue)
	}
	if chunk.LoudnessRange != 650 {
		t.Errorf("expected loudness range 650, got %d", chunk.LoudnessRange)
	}
	if chunk.MaxTruePeakLevel != -120 {
		t.Errorf("expected max true peak -120, got %d", chunk.MaxTruePeakLevel)
	}
	if chunk.CodingHistory != "A=PCM,F=48000,W=24,M=stereo\r\n" {
		t.Errorf("unexpected coding history %q", chunk.CodingHistory)
	}
	if len(chunk.Anomalies) != 0 {
		t.Errorf("expected no anomalies, got %v", chunk.Anomalies)
	}
}

func TestParse_VersionGating(t *testing.T) {
	umid := bytes.Repeat([]byte{0xCD}, 64)

	t.Run("version 0 hides UMID and loudness", func(t *testing.T) {
		buf := buildBext(bextFields{
			version:  0,
			umid:     umid,
			loudness: [5]int16{-100, 200, -300, 400, -500},
		})

		chunk, err := Parse(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if chunk.UMID != nil {
			t.Error("version 0 must not expose UMID bytes")
		}
		if chunk.LoudnessValue != 0 || chunk.LoudnessRange != 0 {
			t.Error("version 0 must not expose loudness values")
		}
	})

	t.Run("version 1 exposes UMID only", func(t *testing.T) {
		buf := buildBext(bextFields{
			version:  1,
			umid:     umid,
			loudness: [5]int16{-100, 200, -300, 400, -500},
		})

		chunk, err := Parse(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(chunk.UMID, umid) {
			t.Error("version 1 must expose UMID")
		}
		if chunk.LoudnessValue != 0 {
			t.Error("version 1 must not expose loudness values")
		}
	})
}

func TestParse_TruncatedFixedRegion(t *testing.T) {
	full := buildBext(bextFields{
		description: "kept",
		originator:  "also kept",
		version:     2,
	})
	// Cut inside the originator reference field.
	cut := full[:8+256+32+10]

	chunk, err := Parse(cut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chunk.Description != "kept" {
		t.Errorf("expected description 'kept', got %q", chunk.Description)
	}
	if chunk.Originator != "also kept" {
		t.Errorf("expected originator 'also kept', got %q", chunk.Originator)
	}
	if chunk.TimeReference != 0 || chunk.Version != 0 {
		t.Error("fields past the cut must stay zero")
	}

	foundTruncated := false
	for _, a := range chunk.Anomalies {
		if a.Kind == types.AnomalyTruncated {
			foundTruncated = true
		}
	}
	if !foundTruncated {
		t.Errorf("expected a truncated anomaly, got %v", chunk.Anomalies)
	}
}

func TestParse_DeclaredSizeTooSmall(t *testing.T) {
	full := buildBext(bextFields{description: "short"})
	// Rewrite the size field to 100, below the fixed region.
	full[4], full[5], full[6], full[7] = 100, 0, 0, 0

	chunk, err := Parse(full)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foundMalformed := false
	for _, a := range chunk.Anomalies {
		if a.Kind == types.AnomalyMalformed {
			foundMalformed = true
		}
	}
	if !foundMalformed {
		t.Errorf("expected a malformed anomaly, got %v", chunk.Anomalies)
	}
}

func TestParse_CodingHistoryBounded(t *testing.T) {
	// The declared size must bound the coding history even when the
	// buffer carries trailing bytes from the next chunk.
	buf := buildBext(bextFields{codingHistory: "A=PCM\r\n"})
	withTrailer := append(buf, []byte("dataXXXX")...)

	chunk, err := Parse(withTrailer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.CodingHistory != "A=PCM\r\n" {
		t.Errorf("coding history leaked past the chunk: %q", chunk.CodingHistory)
	}
}

func TestParse_Idempotent(t *testing.T) {
	buf := buildBext(bextFields{
		description: "same",
		version:     2,
		timeRef:     48000 * 3600,
	})

	first, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Description != second.Description || first.TimeReference != second.TimeReference {
		t.Error("repeated parses must agree")
	}
}
