package segment

import (
	"vobscribe/internal/vobsub"
)

// grayscaleRamp is a palette whose entry luminance rises with its index:
// entry 0 black, entry 15 white.
func grayscaleRamp() vobsub.Palette {
	var palette vobsub.Palette
	for i := range palette {
		v := uint8(i * 17)
		palette[i] = [3]uint8{v, v, v}
	}
	return palette
}

// eventFromRows builds an event whose pixel buffer is given row by row.
// All four local slots map straight through the reversed convention onto
// ramp entries 0, 5, 10, 15 and are fully opaque.
func eventFromRows(rows [][]uint8) *vobsub.Event {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	pixels := make([]uint8, 0, width*height)
	for _, row := range rows {
		pixels = append(pixels, row...)
	}
	return &vobsub.Event{
		Width:  width,
		Height: height,
		Pixels: pixels,
		// Reversed order: slot 0 resolves to entry 0, slot 3 to entry 15.
		LocalPalette: [4]uint8{15, 10, 5, 0},
		Alpha:        [4]uint8{15, 15, 15, 15},
	}
}

// uniformRow repeats slot for width columns.
func uniformRow(width int, slot uint8) []uint8 {
	row := make([]uint8, width)
	for i := range row {
		row[i] = slot
	}
	return row
}

// rowWithInk is background (slot 0) except for slot 3 on [left, right].
func rowWithInk(width, left, right int) []uint8 {
	row := make([]uint8, width)
	for x := left; x <= right; x++ {
		row[x] = 3
	}
	return row
}
