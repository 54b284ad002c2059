package segment

// Region is one line's bounding box, half-open on both axes.
type Region struct {
	X RowRange
	Y RowRange
}

// ExtractRegions computes the tightest bounding box around each row group's
// extents, preserving top-to-bottom group order. Every row inside a group
// has a present extent by construction.
func ExtractRegions(extents []*Extent, groups []RowRange) []Region {
	regions := make([]Region, 0, len(groups))
	for _, group := range groups {
		left, right := extents[group.Start].Left, extents[group.Start].Right
		for y := group.Start + 1; y < group.End; y++ {
			if extents[y].Left < left {
				left = extents[y].Left
			}
			if extents[y].Right > right {
				right = extents[y].Right
			}
		}
		regions = append(regions, Region{
			X: RowRange{Start: left, End: right + 1},
			Y: group,
		})
	}
	return regions
}
