package transcript

import (
	"sort"
	"strings"
)

// Merge coalesces raw segments into windowed blocks. Segments are first
// ordered by start time, then greedily appended to the current block while
// the block span stays within window seconds and the silence gap between
// consecutive segments stays within gap seconds (gap <= 0 disables the gap
// check). A single segment longer than the window is kept unsplit.
//
// Merge never drops input: the output covers every input segment exactly
// once, ordered by start time, and is deterministic for identical input.
func Merge(segments []Segment, window, gap float64) []Segment {
	if len(segments) == 0 {
		return nil
	}
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var merged []Segment
	cur := sorted[0]
	texts := []string{strings.TrimSpace(cur.Text)}

	flush := func() {
		cur.Text = strings.TrimSpace(strings.Join(texts, " "))
		merged = append(merged, cur)
	}

	for _, seg := range sorted[1:] {
		end := cur.End
		if seg.End > end {
			end = seg.End
		}
		withinWindow := end-cur.Start <= window
		withinGap := gap <= 0 || seg.Start-cur.End <= gap
		if withinWindow && withinGap {
			cur.End = end
			texts = append(texts, strings.TrimSpace(seg.Text))
			continue
		}
		flush()
		cur = seg
		texts = []string{strings.TrimSpace(seg.Text)}
	}
	flush()
	return merged
}
