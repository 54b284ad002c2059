package segment

import "vobscribe/internal/vobsub"

// VisibilityMask reports which local palette slots are both present in the
// pixel buffer and not fully transparent. Slots are in natural pixel-slot
// numbering; the alpha array is read through the reversed convention.
//
// Partial alpha counts as visible: only alpha zero hides a slot.
func VisibilityMask(event *vobsub.Event) [4]bool {
	visible := scanSlots(event.Pixels)
	for i := range visible {
		if event.Alpha[3-i] == 0 {
			visible[i] = false
		}
	}
	return visible
}

// scanSlots marks every slot that appears in the buffer. The fold is a
// 4-wide boolean OR, so chunks may be scanned in any order and combined
// with mergeSlots.
func scanSlots(pixels []uint8) [4]bool {
	var seen [4]bool
	for _, slot := range pixels {
		seen[slot&0x03] = true
	}
	return seen
}

func mergeSlots(a, b [4]bool) [4]bool {
	return [4]bool{a[0] || b[0], a[1] || b[1], a[2] || b[2], a[3] || b[3]}
}
