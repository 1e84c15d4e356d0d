package ape

import (
	"bytes"
	"errors"
	"testing"

	binutil "github.com/simonhull/binmeta/internal/binary"
	"github.com/simonhull/binmeta/internal/types"
)

// buildBlock assembles a 32-byte header or footer block.
func buildBlock(version, size, count, flags uint32) []byte {
	buf := &bytes.Buffer{}
	sw := binutil.NewSafeWriter(buf)
	sw.WriteString(magic)
	binutil.WriteLE[uint32](sw, version)
	binutil.WriteLE[uint32](sw, size)
	binutil.WriteLE[uint32](sw, count)
	binutil.WriteLE[uint32](sw, flags)
	sw.WriteZeros(8)
	return buf.Bytes()
}

// buildItem assembles one item: value size, flags, NUL-terminated key, value.
func buildItem(key string, value []byte, flags uint32) []byte {
	buf := &bytes.Buffer{}
	sw := binutil.NewSafeWriter(buf)
	binutil.WriteLE[uint32](sw, uint32(len(value)))
	binutil.WriteLE[uint32](sw, flags)
	sw.WriteString(key)
	sw.WriteBytes([]byte{0})
	sw.WriteBytes(value)
	return buf.Bytes()
}

// headerLedTag assembles header + items with a consistent size field.
func headerLedTag(version uint32, items ...[]byte) []byte {
	var body bytes.Buffer
	for _, item := range items {
		body.Write(item)
	}
	size := uint32(body.Len() + BlockSize)
	out := buildBlock(version, size, uint32(len(items)), 0)
	return append(out, body.Bytes()...)
}

// footerLedTag assembles items + footer, the usual on-disk layout.
func footerLedTag(version uint32, items ...[]byte) []byte {
	var body bytes.Buffer
	for _, item := range items {
		body.Write(item)
	}
	size := uint32(body.Len() + BlockSize)
	return append(body.Bytes(), buildBlock(version, size, uint32(len(items)), 0)...)
}

func TestDetect(t *testing.T) {
	headerLed := headerLedTag(2000, buildItem("Title", []byte("x"), 0))
	footerLed := footerLedTag(2000, buildItem("Title", []byte("x"), 0))

	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"header led", headerLed, true},
		{"footer led", footerLed, true},
		{"footer at end of larger buffer", append(make([]byte, 100), footerLed...), true},
		{"short buffer", []byte(magic), false},
		{"no magic", make([]byte, 64), false},
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
		{"too short", make([]byte, 16)},
		{"no magic", make([]byte, 64)},
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
			if nf.Format != types.FormatAPE {
				t.Errorf("expected format APE, got %s", nf.Format)
			}
		})
	}
}

func TestParse_HeaderLed(t *testing.T) {
	buf := headerLedTag(2000,
		buildItem("Title", []byte("Maggot Brain"), 0),
		buildItem("Artist", []byte("Funkadelic"), 0),
	)

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tag.Version != 2000 {
		t.Errorf("expected version 2000, got %d", tag.Version)
	}
	if tag.ItemCount != 2 {
		t.Errorf("expected item count 2, got %d", tag.ItemCount)
	}
	if len(tag.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(tag.Items))
	}
	if got := tag.Text("Title"); got != "Maggot Brain" {
		t.Errorf("expected 'Maggot Brain', got %q", got)
	}
	if got := tag.Text("Artist"); got != "Funkadelic" {
		t.Errorf("expected 'Funkadelic', got %q", got)
	}
	if len(tag.Anomalies) != 0 {
		t.Errorf("expected no anomalies, got %v", tag.Anomalies)
	}
}

func TestParse_FooterLed(t *testing.T) {
	buf := footerLedTag(2000,
		buildItem("Album", []byte("Cosmic Slop"), 0),
	)

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tag.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(tag.Items))
	}
	if got := tag.Text("Album"); got != "Cosmic Slop" {
		t.Errorf("expected 'Cosmic Slop', got %q", got)
	}
}

func TestParse_ReplayGainItem(t *testing.T) {
	buf := headerLedTag(2000,
		buildItem("REPLAYGAIN_TRACK_GAIN", []byte("+1.23 dB"), 0),
	)

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tag.ItemCount != 1 {
		t.Errorf("expected item count 1, got %d", tag.ItemCount)
	}
	if len(tag.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(tag.Items))
	}

	item := tag.Items[0]
	if item.Key != "REPLAYGAIN_TRACK_GAIN" {
		t.Errorf("expected key REPLAYGAIN_TRACK_GAIN, got %q", item.Key)
	}
	if item.Text != "+1.23 dB" {
		t.Errorf("expected value '+1.23 dB', got %q", item.Text)
	}

	if tag.ReplayGain == nil {
		t.Fatal("expected replay gain info")
	}
	if tag.ReplayGain.TrackGain != 1.23 {
		t.Errorf("expected track gain 1.23, got %v", tag.ReplayGain.TrackGain)
	}
}

func TestParse_ItemKinds(t *testing.T) {
	buf := headerLedTag(2000,
		buildItem("Title", []byte("text item"), 0x0),
		buildItem("Cover Art (Front)", []byte{0xFF, 0xD8}, 0x2), // binary
		buildItem("Buy URL", []byte("https://example.com"), 0x4), // external
	)

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tag.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(tag.Items))
	}

	if tag.Items[0].Kind != ItemText || tag.Items[0].Text != "text item" {
		t.Errorf("expected text item, got %v %q", tag.Items[0].Kind, tag.Items[0].Text)
	}
	if tag.Items[1].Kind != ItemBinary {
		t.Errorf("expected binary item, got %v", tag.Items[1].Kind)
	}
	if tag.Items[1].Text != "" {
		t.Errorf("binary item should not decode text, got %q", tag.Items[1].Text)
	}
	if tag.Items[2].Kind != ItemExternal || tag.Items[2].Text != "https://example.com" {
		t.Errorf("expected external item, got %v %q", tag.Items[2].Kind, tag.Items[2].Text)
	}
}

func TestParse_Version1000IgnoresKindBits(t *testing.T) {
	// APEv1 predates typed items: flag bits 1-2 carry no meaning there.
	buf := headerLedTag(1000,
		buildItem("Comment", []byte("plain text"), 0x2),
	)

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tag.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(tag.Items))
	}
	if tag.Items[0].Kind != ItemText {
		t.Errorf("v1000 items must always be text, got %v", tag.Items[0].Kind)
	}
	if tag.Items[0].Text != "plain text" {
		t.Errorf("expected 'plain text', got %q", tag.Items[0].Text)
	}
}

func TestParse_UnsupportedVersion(t *testing.T) {
	buf := headerLedTag(3000, buildItem("Title", []byte("x"), 0))

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tag.Version != 3000 {
		t.Errorf("expected version 3000 in record, got %d", tag.Version)
	}
	if len(tag.Items) != 0 {
		t.Errorf("expected no items for unsupported version, got %d", len(tag.Items))
	}
	if len(tag.Anomalies) != 1 || tag.Anomalies[0].Kind != types.AnomalyMalformed {
		t.Errorf("expected one malformed anomaly, got %v", tag.Anomalies)
	}
}

func TestParse_TruncatedFinalItem(t *testing.T) {
	full := headerLedTag(2000,
		buildItem("Title", []byte("kept"), 0),
		buildItem("Artist", []byte("cut off here"), 0),
	)
	// Chop inside the second item's value.
	cut := full[:len(full)-6]

	tag, err := Parse(cut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tag.Items) != 1 {
		t.Fatalf("expected 1 surviving item, got %d", len(tag.Items))
	}
	if got := tag.Text("Title"); got != "kept" {
		t.Errorf("expected 'kept', got %q", got)
	}

	foundTruncated := false
	for _, a := range tag.Anomalies {
		if a.Kind == types.AnomalyTruncated {
			foundTruncated = true
		}
	}
	if !foundTruncated {
		t.Errorf("expected a truncated anomaly, got %v", tag.Anomalies)
	}
}

func TestParse_ItemCountMismatch(t *testing.T) {
	// Declared count of 3 with only 2 items in the region.
	items := append(buildItem("One", []byte("a"), 0), buildItem("Two", []byte("b"), 0)...)
	size := uint32(len(items) + BlockSize)
	buf := append(buildBlock(2000, size, 3, 0), items...)

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tag.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(tag.Items))
	}

	foundMismatch := false
	for _, a := range tag.Anomalies {
		if a.Kind == types.AnomalyMalformed {
			foundMismatch = true
		}
	}
	if !foundMismatch {
		t.Errorf("expected a malformed anomaly for the count mismatch, got %v", tag.Anomalies)
	}
}

func TestTag_GetCaseInsensitive(t *testing.T) {
	buf := headerLedTag(2000, buildItem("Title", []byte("case test"), 0))

	tag, err := Parse(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item := tag.Get("TITLE"); item == nil {
		t.Error("expected case-insensitive key lookup to match")
	}
	if got := tag.Text("title"); got != "case test" {
		t.Errorf("expected 'case test', got %q", got)
	}
	if item := tag.Get("missing"); item != nil {
		t.Error("expected nil for missing key")
	}
}
