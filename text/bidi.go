package text

import "golang.org/x/text/unicode/bidi"

// Run is a maximal span of runes with one direction, in visual order.
// Start and End are rune indices, End exclusive.
type Run struct {
	Start, End int
	RTL        bool
}

// SegmentRuns splits s into directional runs in visual order. baseRTL
// sets the paragraph direction for neutral text.
func SegmentRuns(s string, baseRTL bool) []Run {
	n := len([]rune(s))
	if n == 0 {
		return nil
	}
	dir := bidi.Neutral
	if baseRTL {
		dir = bidi.RightToLeft
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(dir)); err != nil {
		return []Run{{Start: 0, End: n, RTL: baseRTL}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []Run{{Start: 0, End: n, RTL: baseRTL}}
	}
	runs := make([]Run, 0, ordering.NumRuns())
	for i := range ordering.NumRuns() {
		r := ordering.Run(i)
		// Pos returns rune indices with an inclusive end.
		start, end := r.Pos()
		end++
		if start < 0 || start >= n || end <= start {
			continue
		}
		if end > n {
			end = n
		}
		runs = append(runs, Run{Start: start, End: end, RTL: r.Direction() == bidi.RightToLeft})
	}
	if len(runs) == 0 {
		return []Run{{Start: 0, End: n, RTL: baseRTL}}
	}
	return runs
}
