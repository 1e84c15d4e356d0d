package binmeta

import (
	"github.com/simonhull/binmeta/internal/ape"
)

// APETag is an alias to ape.Tag.
// Re-exporting from internal/ape to keep the public API on one import.
type APETag = ape.Tag

// APEItem is an alias to ape.Item.
type APEItem = ape.Item

// APEItemKind is an alias to ape.ItemKind.
type APEItemKind = ape.ItemKind

// Re-export the item kinds.
const (
	APEItemText     = ape.ItemText
	APEItemBinary   = ape.ItemBinary
	APEItemExternal = ape.ItemExternal
	APEItemReserved = ape.ItemReserved
)

// ParseAPE decodes the APE tag in buf. The tag may be header-led
// (magic at the buffer start) or footer-led (magic in the last 32
// bytes).
func ParseAPE(buf []byte) (*APETag, error) {
	return ape.Parse(buf)
}
