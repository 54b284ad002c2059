package segment

import (
	"image"
	"image/color"

	"vobscribe/internal/vobsub"
)

// RenderRegion rasterizes one region into a grayscale bitmap: ink pixels
// black, everything else white, surrounded by a symmetric white border on
// all four sides. Output dimensions are the region's plus twice the border.
func RenderRegion(event *vobsub.Event, ink [4]bool, region Region, border int) *image.Gray {
	width := region.X.Len() + 2*border
	height := region.Y.Len() + 2*border
	img := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shade := color.Gray{Y: 255}
			if x >= border && x < width-border && y >= border && y < height-border {
				srcX := region.X.Start + x - border
				srcY := region.Y.Start + y - border
				slot := event.Pixels[srcY*event.Width+srcX]
				if ink[slot&0x03] {
					shade = color.Gray{Y: 0}
				}
			}
			img.SetGray(x, y, shade)
		}
	}
	return img
}
