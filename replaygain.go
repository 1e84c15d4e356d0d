package binmeta

import (
	"github.com/simonhull/binmeta/internal/types"
)

// ReplayGainInfo is an alias to types.ReplayGainInfo.
// Re-exporting from internal/types to keep the public API on one import.
type ReplayGainInfo = types.ReplayGainInfo
