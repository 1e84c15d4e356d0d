package binmeta

import "slices"

// Option configures behavior when scanning buffers and files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	report, err := binmeta.Scan("track.mp3",
//	    binmeta.WithStrictParsing(),
//	    binmeta.WithMaxScanSize(16*1024*1024),
//	)
type Option func(*scanOptions)

// defaultMaxScanSize caps how much of a file a path-based scan reads.
const defaultMaxScanSize = 64 << 20 // 64 MiB

// scanOptions holds configuration for scanning.
type scanOptions struct {
	maxScanSize     int64    // Cap on bytes read from a file path
	strictParsing   bool     // Fail on any anomaly
	ignoreAnomalies bool     // Suppress the aggregated anomaly list
	formats         []Format // Restrict detection to these formats (nil = all)
}

// defaultOptions returns the default configuration.
func defaultOptions() *scanOptions {
	return &scanOptions{
		maxScanSize: defaultMaxScanSize,
	}
}

// wants reports whether a format passed the WithFormats filter.
func (o *scanOptions) wants(format Format) bool {
	if len(o.formats) == 0 {
		return true
	}
	return slices.Contains(o.formats, format)
}

// WithStrictParsing treats any anomaly as a fatal error.
//
// By default, parsers degrade gracefully: structural damage yields
// partial records plus recorded anomalies. With strict parsing enabled,
// the first anomaly aborts the scan with an error instead.
//
// Example:
//
//	report, err := binmeta.Scan("track.mp3", binmeta.WithStrictParsing())
//	// err != nil if ANY structural issue is encountered
func WithStrictParsing() Option {
	return func(o *scanOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreAnomalies suppresses the aggregated anomaly list.
//
// By default, every anomaly from every parsed record is collected in
// Report.Anomalies. This option discards that flat list; the typed
// records keep their own per-record anomaly slices.
//
// Example:
//
//	report, err := binmeta.Scan("track.mp3", binmeta.WithIgnoreAnomalies())
//	// report.Anomalies will always be empty
func WithIgnoreAnomalies() Option {
	return func(o *scanOptions) {
		o.ignoreAnomalies = true
	}
}

// WithMaxScanSize caps how many bytes Scan reads from a file.
//
// Files larger than the cap are read up to it and the report is marked
// Truncated. Trailer tags (ID3v1, footer-led APE) sit at the end of the
// file, so a truncated scan can miss them.
//
// Default is 64 MiB. The cap applies to path-based scanning only;
// ParseBuffer takes the caller's buffer as is.
//
// Example:
//
//	// Read at most 1 MiB per file
//	report, err := binmeta.Scan("track.mp3",
//	    binmeta.WithMaxScanSize(1024*1024),
//	)
func WithMaxScanSize(n int64) Option {
	return func(o *scanOptions) {
		if n > 0 {
			o.maxScanSize = n
		}
	}
}

// WithFormats restricts detection and parsing to the given formats.
//
// By default every registered format is probed. Restricting the set
// skips both detection and parsing for everything else, which also
// suppresses the follow-up probes (APE behind an ID3v1 trailer, ADTS
// behind a leading ID3v2 tag, tags inside RIFF chunks).
//
// Example:
//
//	// Only look for frame-based tags
//	report, err := binmeta.Scan("track.mp3",
//	    binmeta.WithFormats(binmeta.FormatID3v2),
//	)
func WithFormats(formats ...Format) Option {
	return func(o *scanOptions) {
		o.formats = formats
	}
}
