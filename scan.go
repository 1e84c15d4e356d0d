package binmeta

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/binmeta/internal/registry"
)

// ParseBuffer scans buf for every recognizable metadata structure and
// returns the aggregated report.
//
// ParseBuffer performs no I/O. The buffer stays the caller's; record
// fields holding byte slices alias it, so the buffer must outlive the
// report.
//
// Example:
//
//	report, err := binmeta.ParseBuffer(buf)
//	if err != nil {
//		return err
//	}
//	if report.ID3v2 != nil {
//		fmt.Println(report.ID3v2.Text("TIT2"))
//	}
func ParseBuffer(buf []byte, opts ...Option) (*Report, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return parseBuffer(buf, "", int64(len(buf)), false, options)
}

// parseBuffer runs detection and parsing over one buffer.
func parseBuffer(buf []byte, path string, size int64, truncated bool, options *scanOptions) (*Report, error) {
	report := &Report{
		Path:      path,
		Size:      size,
		Truncated: truncated,
	}

	for _, probe := range registry.Probes() {
		if !options.wants(probe.Format) {
			continue
		}
		if len(buf) < probe.MinSize || !probe.Detect(buf) {
			continue
		}
		report.Formats = append(report.Formats, probe.Format)
		report.parseFormat(probe.Format, buf, options)
	}

	report.followUps(buf, options)

	if options.ignoreAnomalies {
		report.Anomalies = nil
	}
	if options.strictParsing && len(report.Anomalies) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", report.Anomalies[0])
	}

	return report, nil
}

// Scan opens a file, reads at most the configured scan cap, and parses
// every recognizable structure from that one buffer.
//
// Trailer tags live at the end of the file, so a capped read
// (Report.Truncated) can miss them. Raise the cap with WithMaxScanSize
// when whole-file coverage matters.
//
// Example:
//
//	report, err := binmeta.Scan("track.mp3")
//	if err != nil {
//		return err
//	}
//	fmt.Println(report.Formats)
func Scan(path string, opts ...Option) (*Report, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	size := stat.Size()

	n := size
	truncated := false
	if n > options.maxScanSize {
		n = options.maxScanSize
		truncated = true
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return parseBuffer(buf, path, size, truncated, options)
}

// ScanContext scans a file with context support for cancellation.
//
// This is a thin wrapper around Scan() that checks context before
// starting. Parsing itself is CPU-bound over one buffer and does not
// observe the context.
func ScanContext(ctx context.Context, path string, opts ...Option) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Scan(path, opts...)
}

// ScanMany scans multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to scan, an error naming the failing path is
// returned and the partial results are discarded.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	reports, err := binmeta.ScanMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range reports {
//		fmt.Printf("%s: %v\n", r.Path, r.Formats)
//	}
func ScanMany(ctx context.Context, paths ...string) ([]*Report, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU()) // Limit concurrent operations

	results := make([]*Report, len(paths))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			// Check for cancellation
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report, err := Scan(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
