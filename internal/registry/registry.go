// Package registry manages format detection probes for tag and container
// structures.
package registry

import (
	"cmp"
	"slices"

	"github.com/simonhull/binmeta/internal/types"
)

// Probe describes how one format announces itself in a raw buffer.
//
// Probes carry detection only. Parsing stays with the format packages,
// which return concrete typed records rather than a shared interface.
type Probe struct {
	// Format the probe recognizes.
	Format types.Format

	// MinSize is the smallest buffer Detect can say yes to.
	MinSize int

	// Priority orders detection, lower values run first. Strong magic
	// comes before weak signals so an ADTS sync pattern inside an
	// ID3v2 tag body never shadows the tag itself.
	Priority int

	// Detect reports whether buf plausibly carries this format. It
	// checks magic bytes and minimum length only, never full structure.
	Detect func(buf []byte) bool
}

// probes holds registered probes sorted by priority.
var probes []Probe

// Register adds a probe for a format.
// This is called by format packages during initialization (init functions).
func Register(p Probe) {
	probes = append(probes, p)
	slices.SortStableFunc(probes, func(a, b Probe) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
}

// Probes returns all registered probes, strongest signal first.
// The returned slice must not be modified.
func Probes() []Probe {
	return probes
}

// Get returns the probe for a given format.
// Returns nil if no probe is registered for the format.
func Get(format types.Format) *Probe {
	for i := range probes {
		if probes[i].Format == format {
			return &probes[i]
		}
	}
	return nil
}
