package buffer

// Pos points into the document by (row, col) in runes, both 0-based.
type Pos struct {
	Row int
	Col int
}

// Range is a half-open span [Start, End) in document order.
type Range struct {
	Start Pos
	End   Pos
}

// ComparePos orders positions by row then column.
func ComparePos(a, b Pos) int {
	switch {
	case a.Row != b.Row:
		if a.Row < b.Row {
			return -1
		}
		return 1
	case a.Col < b.Col:
		return -1
	case a.Col > b.Col:
		return 1
	}
	return 0
}

// Normalize returns r with Start before End.
func (r Range) Normalize() Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// LineRange spans columns [start, end) on a single row.
func LineRange(row, start, end int) Range {
	return Range{Start: Pos{Row: row, Col: start}, End: Pos{Row: row, Col: end}}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
