// Package ape parses APEv1 and APEv2 item-list tags.
//
// A tag is a sequence of items bracketed by a 32-byte header and/or
// footer sharing one layout: "APETAGEX", version, tag size, item count,
// flags, reserved. The tag size covers items plus footer but not the
// header. Items carry a little-endian value size, flags, a NUL-terminated
// key, and the value bytes.
package ape

import (
	"fmt"
	"strings"

	"github.com/simonhull/binmeta/internal/binary"
	"github.com/simonhull/binmeta/internal/registry"
	"github.com/simonhull/binmeta/internal/types"
)

// BlockSize is the fixed size of an APE header or footer block.
const BlockSize = 32

// maxItems bounds the item walk against forged counts.
const maxItems = 4096

const magic = "APETAGEX"

// ItemKind classifies an item's value per its flag bits.
type ItemKind int

const (
	// ItemText marks UTF-8 text values.
	ItemText ItemKind = iota
	// ItemBinary marks opaque binary values.
	ItemBinary
	// ItemExternal marks external locator values.
	ItemExternal
	// ItemReserved marks the reserved flag combination.
	ItemReserved
)

func (k ItemKind) String() string {
	switch k {
	case ItemText:
		return "text"
	case ItemBinary:
		return "binary"
	case ItemExternal:
		return "external"
	case ItemReserved:
		return "reserved"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// itemKind decodes bits 1-2 of the item flags. Version 1000 predates
// typed items; everything is text there.
func itemKind(version, flags uint32) ItemKind {
	if version == 1000 {
		return ItemText
	}
	return ItemKind((flags >> 1) & 0x3)
}

// Item represents a single key/value tag item.
type Item struct {
	Key   string
	Value []byte // Raw value bytes, aliasing the parsed buffer
	Flags uint32
	Kind  ItemKind
	Text  string // Decoded value for text and external items
}

// Tag represents a decoded APE tag.
type Tag struct {
	Version   uint32 // 1000 or 2000
	Size      uint32 // Declared size: items plus footer, excluding header
	ItemCount uint32 // Declared item count
	Flags     uint32 // Global flags from the header or footer block
	Items     []Item

	ReplayGain *types.ReplayGainInfo
	Anomalies  []types.Anomaly
}

// Get returns the first item whose key matches case-insensitively, or
// nil. APE keys compare case-insensitive by convention.
func (t *Tag) Get(key string) *Item {
	for i := range t.Items {
		if strings.EqualFold(t.Items[i].Key, key) {
			return &t.Items[i]
		}
	}
	return nil
}

// Text returns the decoded text of the first matching item, or "".
func (t *Tag) Text(key string) string {
	if item := t.Get(key); item != nil {
		return item.Text
	}
	return ""
}

// Detect reports whether buf starts or ends with an APE block magic.
func Detect(buf []byte) bool {
	if len(buf) < BlockSize {
		return false
	}
	if string(buf[0:len(magic)]) == magic {
		return true
	}
	return string(buf[len(buf)-BlockSize:len(buf)-BlockSize+len(magic)]) == magic
}

// Parse decodes the APE tag in buf. The tag may be header-led (magic at
// the buffer start, items following) or footer-led (magic in the last 32
// bytes, items preceding it).
//
// A truncated final item keeps all items decoded before it.
func Parse(buf []byte) (*Tag, error) {
	if len(buf) < BlockSize {
		return nil, &types.NotThisFormatError{
			Format: types.FormatAPE,
			Reason: "buffer shorter than a 32-byte tag block",
		}
	}

	b := binary.NewBuffer(buf)

	headerLed := string(buf[0:len(magic)]) == magic
	footerOff := int64(len(buf) - BlockSize)
	footerLed := !headerLed && string(buf[footerOff:footerOff+int64(len(magic))]) == magic

	if !headerLed && !footerLed {
		return nil, &types.NotThisFormatError{
			Format: types.FormatAPE,
			Reason: "no APETAGEX magic at buffer start or end",
		}
	}

	blockOff := int64(0)
	if footerLed {
		blockOff = footerOff
	}

	tag := &Tag{}
	r := binary.NewReader(b, blockOff+int64(len(magic)))
	cr := binary.NewChainReader(r)
	tag.Version = binary.ReadChainedLE[uint32](cr, "tag version")
	tag.Size = binary.ReadChainedLE[uint32](cr, "tag size")
	tag.ItemCount = binary.ReadChainedLE[uint32](cr, "item count")
	tag.Flags = binary.ReadChainedLE[uint32](cr, "tag flags")
	if err := cr.Error(); err != nil {
		return nil, fmt.Errorf("reading tag block: %w", err)
	}

	if tag.Version != 1000 && tag.Version != 2000 {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "header",
			Message: fmt.Sprintf("unsupported version %d, items not decoded", tag.Version),
			Offset:  blockOff,
		})
		return tag, nil
	}

	if tag.Size < BlockSize {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "header",
			Message: fmt.Sprintf("declared size %d smaller than the footer block", tag.Size),
			Offset:  blockOff,
		})
		return tag, nil
	}

	// The size field counts items plus footer. Locate the items region.
	var itemsStart, itemsEnd int64
	if headerLed {
		itemsStart = BlockSize
		itemsEnd = int64(tag.Size)
	} else {
		itemsStart = footerOff - int64(tag.Size-BlockSize)
		itemsEnd = footerOff
	}

	if itemsStart < 0 {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "items",
			Message: fmt.Sprintf("declared size %d reaches before the buffer start", tag.Size),
		})
		itemsStart = 0
	}
	if itemsEnd > int64(len(buf)) {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyTruncated,
			Stage:   "items",
			Message: fmt.Sprintf("declared size %d runs past the buffer end", tag.Size),
			Offset:  int64(len(buf)),
		})
		itemsEnd = int64(len(buf))
	}

	parseItems(tag, b, itemsStart, itemsEnd)

	return tag, nil
}

// parseItems walks the items region. Structural damage stops the walk,
// keeping every item decoded before it.
func parseItems(tag *Tag, b *binary.Buffer, offset, end int64) {
	truncated := false

	for offset < end && uint32(len(tag.Items)) < tag.ItemCount {
		if len(tag.Items) >= maxItems {
			tag.Anomalies = append(tag.Anomalies, types.Anomaly{
				Kind:    types.AnomalyMalformed,
				Stage:   "items",
				Message: fmt.Sprintf("more than %d items, walk abandoned", maxItems),
				Offset:  offset,
			})
			return
		}

		if offset+8 > end {
			tag.Anomalies = append(tag.Anomalies, types.Anomaly{
				Kind:    types.AnomalyTruncated,
				Stage:   "items",
				Message: "buffer ends inside an item header",
				Offset:  offset,
			})
			truncated = true
			break
		}

		valueSize, err := binary.ReadLE[uint32](b, offset, "item value size")
		if err != nil {
			break
		}
		itemFlags, err := binary.ReadLE[uint32](b, offset+4, "item flags")
		if err != nil {
			break
		}

		key, keyLen, err := b.CString(offset+8, int(end-offset-8), "item key")
		if err != nil {
			tag.Anomalies = append(tag.Anomalies, types.Anomaly{
				Kind:    types.AnomalyTruncated,
				Stage:   "items",
				Message: "item key is not NUL-terminated before the region end",
				Offset:  offset + 8,
			})
			truncated = true
			break
		}

		valueStart := offset + 8 + int64(keyLen)
		if valueStart+int64(valueSize) > end {
			tag.Anomalies = append(tag.Anomalies, types.Anomaly{
				Kind:    types.AnomalyTruncated,
				Stage:   "items",
				Message: fmt.Sprintf("item %q declares %d value bytes but only %d remain", key, valueSize, end-valueStart),
				Offset:  valueStart,
			})
			truncated = true
			break
		}

		value, err := b.Bytes(valueStart, int(valueSize), "item value")
		if err != nil {
			break
		}

		item := Item{
			Key:   key,
			Value: value,
			Flags: itemFlags,
			Kind:  itemKind(tag.Version, itemFlags),
		}
		if item.Kind == ItemText || item.Kind == ItemExternal {
			item.Text = string(value)
		}

		tag.Items = append(tag.Items, item)
		tag.ReplayGain = types.MergeReplayGain(tag.ReplayGain, item.Key, item.Text)

		offset = valueStart + int64(valueSize)
	}

	if !truncated && uint32(len(tag.Items)) != tag.ItemCount {
		tag.Anomalies = append(tag.Anomalies, types.Anomaly{
			Kind:    types.AnomalyMalformed,
			Stage:   "items",
			Message: fmt.Sprintf("declared %d items but decoded %d", tag.ItemCount, len(tag.Items)),
			Offset:  offset,
		})
	}
}

func init() {
	registry.Register(registry.Probe{
		Format:   types.FormatAPE,
		MinSize:  BlockSize,
		Priority: 50,
		Detect:   Detect,
	})
}
