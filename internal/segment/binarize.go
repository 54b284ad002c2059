package segment

// BinarizeLocalPalette classifies each local palette slot as ink (true) or
// background (false). Slots are in natural pixel-slot numbering; the local
// palette is read through the reversed convention.
//
// Luminances of visible slots are normalized by their maximum and compared
// strictly against threshold, so threshold 1 yields no ink and threshold 0
// marks every visible slot with non-zero luminance. When nothing is visible
// or the maximum luminance is zero, the whole table is background and the
// event contains no text regions.
func BinarizeLocalPalette(lum [16]float64, localPalette [4]uint8, visible [4]bool, threshold float64) [4]bool {
	var ink [4]bool

	maxLum := 0.0
	for slot := 0; slot < 4; slot++ {
		if !visible[slot] {
			continue
		}
		if l := lum[localPalette[3-slot]&0x0f]; l > maxLum {
			maxLum = l
		}
	}
	if maxLum == 0 {
		return ink
	}

	for slot := 0; slot < 4; slot++ {
		if !visible[slot] {
			continue
		}
		ink[slot] = lum[localPalette[3-slot]&0x0f]/maxLum > threshold
	}
	return ink
}
