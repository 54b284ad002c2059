package segment

import (
	"math"

	"vobscribe/internal/vobsub"
)

// LuminancePalette converts the 16-entry global sRGB palette to linear
// luminance values, one per entry, order preserved.
func LuminancePalette(palette vobsub.Palette) [16]float64 {
	var lum [16]float64
	for i, rgb := range palette {
		r := srgbToLinear(rgb[0])
		g := srgbToLinear(rgb[1])
		b := srgbToLinear(rgb[2])
		lum[i] = 0.2126*r + 0.7152*g + 0.0722*b
	}
	return lum
}

// srgbToLinear applies the standard piecewise sRGB transfer inverse to one
// 8-bit channel.
func srgbToLinear(channel uint8) float64 {
	value := float64(channel) / 255.0
	if value <= 0.04045 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}
