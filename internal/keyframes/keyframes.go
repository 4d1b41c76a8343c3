package keyframes

// Timestamp is a candidate extraction point in the source video.
type Timestamp struct {
	Seconds float64
	Reason  string
}

// Frame is a retained keyframe image on disk.
type Frame struct {
	// Index is 1-based and contiguous over the retained set, assigned after
	// dedup and capping.
	Index   int
	Seconds float64
	Path    string
	Hash    uint64
}

// Report summarizes a selection pass.
type Report struct {
	Requested      int
	Extracted      int
	DroppedSimilar int
	Failed         int
}

// Degraded reports whether extraction produced fewer usable frames than
// requested because of per-frame failures.
func (r Report) Degraded() bool {
	return r.Failed > 0 || (r.Requested > 0 && r.Extracted == 0)
}

// UniformTimestamps returns n evenly spaced sample points covering
// [0, duration] inclusive. Used when timestamp discovery is skipped or fails.
func UniformTimestamps(duration float64, n int) []Timestamp {
	if n <= 0 || duration <= 0 {
		return nil
	}
	if n == 1 {
		return []Timestamp{{Seconds: duration / 2, Reason: "uniform"}}
	}
	out := make([]Timestamp, 0, n)
	step := duration / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, Timestamp{Seconds: float64(i) * step, Reason: "uniform"})
	}
	return out
}
