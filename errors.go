package binmeta

import (
	"github.com/simonhull/binmeta/internal/types"
)

// NotThisFormatError is an alias to types.NotThisFormatError.
// Re-exporting from internal/types to keep the public API on one import.
type NotThisFormatError = types.NotThisFormatError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to keep the public API on one import.
type OutOfBoundsError = types.OutOfBoundsError

// MalformedStructureError is an alias to types.MalformedStructureError.
// Re-exporting from internal/types to keep the public API on one import.
type MalformedStructureError = types.MalformedStructureError

// TruncatedInputError is an alias to types.TruncatedInputError.
// Re-exporting from internal/types to keep the public API on one import.
type TruncatedInputError = types.TruncatedInputError

// Anomaly is an alias to types.Anomaly.
// Re-exporting from internal/types to keep the public API on one import.
type Anomaly = types.Anomaly

// AnomalyKind is an alias to types.AnomalyKind.
// Re-exporting from internal/types to keep the public API on one import.
type AnomalyKind = types.AnomalyKind

// Re-export the anomaly kinds.
const (
	AnomalyOutOfBounds = types.AnomalyOutOfBounds
	AnomalyMalformed   = types.AnomalyMalformed
	AnomalyTruncated   = types.AnomalyTruncated
)

// IsNotThisFormat reports whether err marks a magic or minimum-length
// mismatch, the recoverable "try the next decoder" outcome.
func IsNotThisFormat(err error) bool {
	return types.IsNotThisFormat(err)
}
