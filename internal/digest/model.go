package digest

import "fmt"

// Meta describes the source video. Immutable once fetched.
type Meta struct {
	VideoID         string  `json:"video_id"`
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	DurationSeconds float64 `json:"duration_seconds"`
	Channel         string  `json:"channel"`
}

// Chapter is one time-bounded section of the digest. Chapters partition
// [0, duration]: ordered, non-overlapping, with only small boundary gaps.
type Chapter struct {
	Title   string  `json:"title"`
	Start   float64 `json:"start_seconds"`
	End     float64 `json:"end_seconds"`
	Summary string  `json:"summary"`
}

// Keyframe references a retained frame image. Index is 1-based and matches
// the frame file name under frames/.
type Keyframe struct {
	Index     int     `json:"index"`
	Timestamp float64 `json:"timestamp"`
	Path      string  `json:"path"`
	Hash      uint64  `json:"-"`
}

// NodeKind classifies a diagram node's position in the concept map.
type NodeKind string

const (
	NodeRoot   NodeKind = "root"
	NodeBranch NodeKind = "branch"
	NodeLeaf   NodeKind = "leaf"
)

// DiagramNode is one labelled node of the concept map.
type DiagramNode struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
}

// DiagramEdge links two nodes by id.
type DiagramEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Diagram is the node/edge graph rendered by the consuming surface. An empty
// diagram is a valid degraded output.
type Diagram struct {
	Nodes []DiagramNode `json:"nodes"`
	Edges []DiagramEdge `json:"edges"`
}

// Empty reports whether the diagram carries no nodes.
func (d Diagram) Empty() bool {
	return len(d.Nodes) == 0
}

// Digest is the root artifact of a pipeline run. Assembled once and immutable
// afterwards.
type Digest struct {
	Meta             Meta       `json:"meta"`
	Overview         string     `json:"overview"`
	Chapters         []Chapter  `json:"chapters"`
	Keyframes        []Keyframe `json:"keyframes"`
	Diagram          Diagram    `json:"diagram_data"`
	Language         string     `json:"language"`
	DegradationNotes []string   `json:"degradation_notes,omitempty"`
}

// Degraded reports whether any stage completed at reduced quality.
func (d *Digest) Degraded() bool {
	return len(d.DegradationNotes) > 0
}

// FormatTimestamp renders seconds as [MM:SS], or [HH:MM:SS] past one hour.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("[%02d:%02d:%02d]", h, m, s)
	}
	return fmt.Sprintf("[%02d:%02d]", m, s)
}

// FormatDuration renders seconds as MM:SS, or HH:MM:SS past one hour.
func FormatDuration(seconds float64) string {
	formatted := FormatTimestamp(seconds)
	return formatted[1 : len(formatted)-1]
}
