package binmeta_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/simonhull/binmeta"
)

// createTaggedFile writes an MP3-shaped file: ID3v2 at the front,
// filler, ID3v1 trailer at the end.
func createTaggedFile(t *testing.T, title string) string {
	t.Helper()

	buf := &bytes.Buffer{}
	buf.Write(buildID3v2(title, "Scan Suite"))
	buf.Write(make([]byte, 512))
	buf.Write(buildID3v1(title, "Scan Suite", 1, 17))

	tmpFile, err := os.CreateTemp("", "scan*.mp3")
	if err != nil {
		t.Fatal(err)
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		t.Fatal(err)
	}

	return tmpFile.Name()
}

func TestScan(t *testing.T) {
	path := createTaggedFile(t, "Open Water")
	defer os.Remove(path)

	report, err := binmeta.Scan(path)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if report.Path != path {
		t.Errorf("Path = %q, want %q", report.Path, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if report.Size != info.Size() {
		t.Errorf("Size = %d, want %d", report.Size, info.Size())
	}
	if report.Truncated {
		t.Error("Truncated should be false for a fully read file")
	}

	if report.ID3v2 == nil || report.ID3v2.Text("TIT2") != "Open Water" {
		t.Errorf("missing or wrong ID3v2 record: %+v", report.ID3v2)
	}
	if report.ID3v1 == nil || report.ID3v1.Title != "Open Water" {
		t.Errorf("missing or wrong ID3v1 record: %+v", report.ID3v1)
	}
}

func TestScan_FileNotFound(t *testing.T) {
	_, err := binmeta.Scan("/nonexistent/file.mp3")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestScan_MaxScanSize(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write(buildID3v2("Capped", "Scan Suite"))
	buf.Write(make([]byte, 4096))
	buf.Write(buildID3v1("Capped", "Scan Suite", 1, 17))

	tmpFile, err := os.CreateTemp("", "scan*.mp3")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	report, err := binmeta.Scan(tmpFile.Name(), binmeta.WithMaxScanSize(1024))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if !report.Truncated {
		t.Error("Truncated should be true when the cap cuts the read short")
	}
	if report.Size != int64(buf.Len()) {
		t.Errorf("Size = %d, want the full file size %d", report.Size, buf.Len())
	}
	if report.ID3v2 == nil {
		t.Error("the leading tag sits inside the cap and should be parsed")
	}
	if report.ID3v1 != nil {
		t.Error("the trailer sits beyond the cap and should be missed")
	}
}

func TestScanContext_Cancelled(t *testing.T) {
	path := createTaggedFile(t, "Never Read")
	defer os.Remove(path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := binmeta.ScanContext(ctx, path); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestScanMany(t *testing.T) {
	titles := []string{"First", "Second", "Third"}
	paths := make([]string, len(titles))
	for i, title := range titles {
		paths[i] = createTaggedFile(t, title)
		defer os.Remove(paths[i])
	}

	reports, err := binmeta.ScanMany(context.Background(), paths...)
	if err != nil {
		t.Fatalf("ScanMany failed: %v", err)
	}

	if len(reports) != len(paths) {
		t.Fatalf("got %d reports, want %d", len(reports), len(paths))
	}
	for i, report := range reports {
		if report.Path != paths[i] {
			t.Errorf("report %d out of order: %q", i, report.Path)
		}
		if report.ID3v2 == nil || report.ID3v2.Text("TIT2") != titles[i] {
			t.Errorf("report %d has wrong tag: %+v", i, report.ID3v2)
		}
	}
}

func TestScanMany_Empty(t *testing.T) {
	reports, err := binmeta.ScanMany(context.Background())
	if err != nil {
		t.Fatalf("ScanMany failed: %v", err)
	}
	if reports != nil {
		t.Errorf("expected nil reports for no paths, got %v", reports)
	}
}

func TestScanMany_Cancellation(t *testing.T) {
	paths := make([]string, 5)
	for i := range paths {
		paths[i] = createTaggedFile(t, "Cancelled")
		defer os.Remove(paths[i])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	reports, err := binmeta.ScanMany(ctx, paths...)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if reports != nil {
		t.Error("expected nil reports on error")
	}
}

func TestScanMany_PartialFailure(t *testing.T) {
	validPath := createTaggedFile(t, "Survivor")
	defer os.Remove(validPath)

	paths := []string{
		validPath,
		"/nonexistent/file.mp3",
		validPath,
	}

	reports, err := binmeta.ScanMany(context.Background(), paths...)
	if err == nil {
		t.Fatal("expected error from nonexistent file")
	}

	// All or nothing.
	if reports != nil {
		t.Error("expected nil reports on partial failure")
	}
}
