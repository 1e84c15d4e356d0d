package types

import "fmt"

// AnomalyKind classifies a structural deviation found during parsing.
type AnomalyKind int

const (
	// AnomalyOutOfBounds marks a declared offset or length pointing past
	// the buffer. The affected field is abandoned; parsing continues.
	AnomalyOutOfBounds AnomalyKind = iota
	// AnomalyMalformed marks internally inconsistent fields in a confirmed
	// structure. The partial result remains usable.
	AnomalyMalformed
	// AnomalyTruncated marks a buffer that ends mid-structure. Everything
	// decoded before the cut is returned.
	AnomalyTruncated
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyOutOfBounds:
		return "out-of-bounds"
	case AnomalyMalformed:
		return "malformed"
	case AnomalyTruncated:
		return "truncated"
	default:
		return fmt.Sprintf("AnomalyKind(%d)", int(k))
	}
}

// Anomaly records a non-fatal issue encountered during parsing.
//
// Anomalies indicate problems that don't prevent decoding but mark the
// result as partial or suspect. Examples include:
//   - A frame whose declared size overruns the enclosing tag
//   - A tag-table entry pointing outside the profile buffer
//   - An item count that doesn't match the walkable items
//
// Parsers collect anomalies in their result records; a record with
// anomalies still holds every field that decoded cleanly.
type Anomaly struct {
	// Kind classifies the deviation
	Kind AnomalyKind

	// Stage where the anomaly occurred
	Stage string // "header", "frames", "items", "tag table", ...

	// Anomaly message
	Message string

	// Buffer offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable anomaly message.
func (a Anomaly) String() string {
	if a.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", a.Stage, a.Offset, a.Message)
	}
	return fmt.Sprintf("%s: %s", a.Stage, a.Message)
}
