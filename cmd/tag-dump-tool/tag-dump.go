package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/simonhull/binmeta"
)

// Useful diagnostic tool to confirm what the scanner actually reads from
// the metadata structures in a file.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: tag-dump <file>")
		os.Exit(1)
	}

	report, err := binmeta.Scan(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d bytes", report.Path, report.Size)
	if report.Truncated {
		fmt.Print(" (scan capped, trailing structures may be missing)")
	}
	fmt.Println()

	if len(report.Formats) == 0 {
		fmt.Println("no recognizable metadata structures")
		return
	}

	names := make([]string, len(report.Formats))
	for i, f := range report.Formats {
		names[i] = f.String()
	}
	fmt.Printf("detected: %s\n\n", strings.Join(names, ", "))

	if report.ID3v2 != nil {
		dumpID3v2(report.ID3v2)
	}
	if report.ID3v1 != nil {
		dumpID3v1(report.ID3v1)
	}
	if report.APE != nil {
		dumpAPE(report.APE)
	}
	if report.Broadcast != nil {
		dumpBext(report.Broadcast)
	}
	if report.ADTS != nil {
		dumpADTS(report.ADTS)
	}
	if report.ICC != nil {
		dumpICC(report.ICC)
	}
	if report.MP4 != nil {
		dumpMP4(report.MP4)
	}
	dumpUnits(report)

	if len(report.Anomalies) > 0 {
		fmt.Println("anomalies:")
		for _, a := range report.Anomalies {
			fmt.Printf("  %s\n", a)
		}
	}
}

func dumpID3v2(tag *binmeta.ID3v2Tag) {
	fmt.Printf("ID3v2.%d: %d frames, %d bytes\n", tag.Header.Version, len(tag.Frames), tag.TotalSize())
	for _, frame := range tag.Frames {
		switch {
		case frame.Text != "" && frame.Description != "":
			fmt.Printf("  %s [%s]: %s\n", frame.ID, frame.Description, frame.Text)
		case frame.Text != "":
			fmt.Printf("  %s: %s\n", frame.ID, frame.Text)
		default:
			fmt.Printf("  %s: %d bytes\n", frame.ID, len(frame.Data))
		}
	}
	fmt.Println()
}

func dumpID3v1(tag *binmeta.ID3v1Tag) {
	fmt.Printf("%s trailer\n", tag.Version())
	for _, field := range []struct{ name, value string }{
		{"title", tag.Title},
		{"artist", tag.Artist},
		{"album", tag.Album},
		{"year", tag.Year},
		{"comment", tag.Comment},
		{"genre", tag.GenreName},
	} {
		if field.value != "" {
			fmt.Printf("  %s: %s\n", field.name, field.value)
		}
	}
	if tag.Track > 0 {
		fmt.Printf("  track: %d\n", tag.Track)
	}
	fmt.Println()
}

func dumpAPE(tag *binmeta.APETag) {
	fmt.Printf("APEv%d: %d items\n", tag.Version/1000, len(tag.Items))
	for _, item := range tag.Items {
		if item.Kind == binmeta.APEItemBinary {
			fmt.Printf("  %s: %d bytes (binary)\n", item.Key, len(item.Value))
		} else {
			fmt.Printf("  %s: %s\n", item.Key, item.Text)
		}
	}
	fmt.Println()
}

func dumpBext(c *binmeta.BextChunk) {
	fmt.Printf("bext version %d\n", c.Version)
	if c.Description != "" {
		fmt.Printf("  description: %s\n", c.Description)
	}
	fmt.Printf("  originator: %s\n", c.Originator)
	fmt.Printf("  origination: %s %s\n", c.OriginationDate, c.OriginationTime)
	fmt.Printf("  time reference: %d samples\n", c.TimeReference)
	if c.Version >= 2 {
		fmt.Printf("  integrated loudness: %.2f LUFS\n", float64(c.LoudnessValue)/100)
		fmt.Printf("  max true peak: %.2f dBTP\n", float64(c.MaxTruePeakLevel)/100)
	}
	if c.CodingHistory != "" {
		fmt.Printf("  coding history: %s\n", c.CodingHistory)
	}
	fmt.Println()
}

func dumpADTS(h *binmeta.ADTSHeader) {
	fmt.Printf("ADTS: %s, %d Hz, %d channels, frame length %d\n\n",
		h.ProfileName, h.SampleRate, h.Channels, h.FrameLength)
}

func dumpICC(p *binmeta.ICCProfile) {
	fmt.Printf("ICC %s: class %s, %s -> %s\n", p.Version, p.DeviceClass, p.ColorSpace, p.ConnectionSpace)
	if !p.CreatedAt.IsZero() {
		fmt.Printf("  created: %s\n", p.CreatedAt.Format("2006-01-02"))
	}
	if p.RenderingIntentName != "" {
		fmt.Printf("  rendering intent: %s\n", p.RenderingIntentName)
	}
	fmt.Printf("  %d tags:", len(p.Tags))
	for _, entry := range p.Tags {
		fmt.Printf(" %s", entry.Signature)
	}
	fmt.Println()
	fmt.Println()
}

func dumpMP4(c *binmeta.MP4Container) {
	fmt.Printf("MP4 brand %s", c.Brand)
	if len(c.CompatibleBrands) > 0 {
		fmt.Printf(" (compatible: %s)", strings.Join(c.CompatibleBrands, ", "))
	}
	fmt.Println()
	for _, cfg := range c.Configs {
		fmt.Printf("  %s sample entry %q: %d parameter sets\n",
			cfg.Codec, cfg.SampleEntry, len(cfg.ParameterSets))
	}
	if len(c.ICCProfiles) > 0 {
		fmt.Printf("  %d embedded color profiles\n", len(c.ICCProfiles))
	}
	fmt.Println()
}

func dumpUnits(report *binmeta.Report) {
	for _, u := range report.AVCUnits {
		line := fmt.Sprintf("H.264 unit: %s", u.TypeName)
		if u.SPS != nil {
			line += fmt.Sprintf(" (%s profile, level %d.%d)",
				u.SPS.ProfileName, u.SPS.LevelIDC/10, u.SPS.LevelIDC%10)
		}
		fmt.Println(line)
	}
	for _, u := range report.HEVCUnits {
		fmt.Printf("HEVC unit: %s (layer %d)\n", u.TypeName, u.LayerID)
	}
	for _, u := range report.AV1Units {
		fmt.Printf("AV1 unit: %s\n", u.TypeName)
	}
	if len(report.AVCUnits)+len(report.HEVCUnits)+len(report.AV1Units) > 0 {
		fmt.Println()
	}
}
