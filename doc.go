// Package binmeta provides precise decoders for metadata structures
// embedded in binary media buffers.
//
// binmeta reads the structures other libraries skip past: ID3v1
// trailers, ID3v2.3/v2.4 frame tags, APEv1/v2 item lists, Broadcast
// Wave bext chunks, ADTS frame headers, ICC profile headers and tag
// tables, MP4 decoder configuration records, and the one-to-two byte
// unit headers of H.264, HEVC, and AV1 bitstreams. Every decoder works
// on a raw byte buffer with exact offset arithmetic; nothing is
// guessed from file extensions.
//
// # Quick Start
//
// Scanning a file for everything it carries:
//
//	report, err := binmeta.Scan("track.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(report.Formats)
//	if report.ID3v2 != nil {
//		fmt.Printf("%s - %s\n", report.ID3v2.Text("TPE1"), report.ID3v2.Text("TIT2"))
//	}
//	if report.ID3v1 != nil {
//		fmt.Printf("legacy: %s - %s\n", report.ID3v1.Artist, report.ID3v1.Title)
//	}
//
// # Supported Structures
//
//   - ID3v1/v1.1: 128-byte fixed trailers with the track sentinel
//   - ID3v2.3/v2.4: syncsafe sizes, text encodings, APIC pictures
//   - APEv1/v2: header- or footer-led item lists
//   - BWF bext: version-gated broadcast extension chunks, bare or in RIFF/WAVE
//   - ADTS: fixed and variable frame header bit fields
//   - ICC: profile header, tag table, and common tag payload types
//   - MP4/ISO-BMFF: box walk for avcC/hvcC/av1C configs and colr profiles
//   - H.264/HEVC/AV1: access-unit header bit fields
//
// # Philosophy
//
// binmeta embodies three rules:
//
// 1. Detection is honest: Detect answers from magic bytes and minimum
// lengths only. A positive detection can still parse into a damaged
// structure.
//
// 2. Graceful degradation: after a format is confirmed, structural
// damage yields partial records plus recorded anomalies, not errors. A
// record with anomalies still holds every field that decoded cleanly.
//
// 3. Typed results: every format returns its own record struct. No
// dynamic dictionaries, no value merging across formats.
//
// # Error Handling
//
// binmeta distinguishes mismatches from damage:
//
//   - *NotThisFormatError means the magic or minimum length did not
//     match; try the next decoder. Check with IsNotThisFormat.
//   - Anomalies mark structural damage inside a confirmed format. They
//     ride on the records and aggregate, stage-prefixed, in
//     Report.Anomalies.
//
// Always check the report for anomalies when input quality matters:
//
//	for _, a := range report.Anomalies {
//		log.Printf("anomaly: %s", a)
//	}
//
// WithStrictParsing turns the first anomaly into an error instead.
//
// # Buffers and Aliasing
//
// Parsers never copy payload bytes. Frame data, item values, parameter
// sets, and raw tag payloads alias the scanned buffer, so the buffer
// must outlive the records. Copy what you keep.
//
// # Concurrency
//
// Parsers are pure and synchronous over caller-owned buffers, safe for
// arbitrarily many concurrent calls. ScanMany parses files in parallel
// with bounded goroutines:
//
//	reports, err := binmeta.ScanMany(ctx, paths...)
package binmeta
