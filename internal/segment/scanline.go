package segment

import "vobscribe/internal/vobsub"

// Extent is the horizontal span of ink pixels on one row, inclusive on both
// ends. A nil *Extent means the row carries no ink.
type Extent struct {
	Left  int
	Right int
}

// InventoryScanlines computes the ink extent of every row. Rows are
// independent; within a row the fold is associative (componentwise min/max),
// so column sub-ranges may be scanned in any order and combined with
// mergeExtents.
func InventoryScanlines(event *vobsub.Event, ink [4]bool) []*Extent {
	extents := make([]*Extent, event.Height)
	for y := 0; y < event.Height; y++ {
		row := event.Pixels[y*event.Width : (y+1)*event.Width]
		extents[y] = scanRow(row, ink, 0)
	}
	return extents
}

// scanRow folds the ink extent over row[offset:], reporting columns relative
// to the full row.
func scanRow(row []uint8, ink [4]bool, offset int) *Extent {
	var extent *Extent
	for x, slot := range row {
		if !ink[slot&0x03] {
			continue
		}
		col := offset + x
		if extent == nil {
			extent = &Extent{Left: col, Right: col}
			continue
		}
		if col < extent.Left {
			extent.Left = col
		}
		if col > extent.Right {
			extent.Right = col
		}
	}
	return extent
}

// mergeExtents combines two partial extents; nil is the identity.
func mergeExtents(a, b *Extent) *Extent {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	merged := &Extent{Left: a.Left, Right: a.Right}
	if b.Left < merged.Left {
		merged.Left = b.Left
	}
	if b.Right > merged.Right {
		merged.Right = b.Right
	}
	return merged
}
