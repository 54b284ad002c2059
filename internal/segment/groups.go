package segment

// RowRange is a half-open range of rows.
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.End - r.Start }

// FindRowGroups collects maximal runs of consecutive ink-bearing rows, top
// to bottom. A fully blank inventory yields no groups.
func FindRowGroups(extents []*Extent) []RowRange {
	var groups []RowRange
	start := -1
	for y, extent := range extents {
		switch {
		case extent != nil && start < 0:
			start = y
		case extent == nil && start >= 0:
			groups = append(groups, RowRange{Start: start, End: y})
			start = -1
		}
	}
	if start >= 0 {
		groups = append(groups, RowRange{Start: start, End: len(extents)})
	}
	return groups
}
