package digest

import (
	"fmt"
	"math"
	"strings"

	"videodigest/internal/reference"
)

// RenderMarkdown renders the digest as a portable markdown document. Frame
// paths are used verbatim, so the caller must render after the assembler has
// rewritten them relative to the output directory.
func RenderMarkdown(d *Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.Meta.Title)
	fmt.Fprintf(&b, "**Channel**: %s  **Duration**: %s  **Link**: [Watch on YouTube](%s)\n\n",
		d.Meta.Channel,
		FormatDuration(d.Meta.DurationSeconds),
		reference.WatchURL(d.Meta.VideoID))
	b.WriteString("---\n\n")

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "%s\n\n", d.Overview)
	b.WriteString("---\n\n")

	b.WriteString("## Chapters\n\n")
	used := make(map[int]bool, len(d.Keyframes))
	for _, chapter := range d.Chapters {
		fmt.Fprintf(&b, "### [%s](%s) %s\n\n",
			chapter.Title,
			reference.TimedURL(d.Meta.VideoID, int(chapter.Start)),
			FormatTimestamp(chapter.Start))
		if frame, ok := nearestUnusedFrame(d.Keyframes, used, chapter.Start); ok {
			fmt.Fprintf(&b, "![%s](%s)\n\n", chapter.Title, frame.Path)
			used[frame.Index] = true
		}
		fmt.Fprintf(&b, "%s\n\n", chapter.Summary)
	}

	var leftover []Keyframe
	for _, frame := range d.Keyframes {
		if !used[frame.Index] {
			leftover = append(leftover, frame)
		}
	}
	if len(leftover) > 0 {
		b.WriteString("---\n\n")
		b.WriteString("## Additional Screenshots\n\n")
		for _, frame := range leftover {
			ts := FormatTimestamp(frame.Timestamp)
			fmt.Fprintf(&b, "![%s](%s)\n\n*%s*\n\n", ts, frame.Path, ts)
		}
	}

	if len(d.DegradationNotes) > 0 {
		b.WriteString("---\n\n")
		b.WriteString("## Notes\n\n")
		for _, note := range d.DegradationNotes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	return b.String()
}

// nearestUnusedFrame picks the not-yet-embedded keyframe closest in time to
// target so each chapter illustration is unique.
func nearestUnusedFrame(frames []Keyframe, used map[int]bool, target float64) (Keyframe, bool) {
	best := Keyframe{}
	bestDelta := math.MaxFloat64
	found := false
	for _, frame := range frames {
		if used[frame.Index] {
			continue
		}
		delta := math.Abs(frame.Timestamp - target)
		if delta < bestDelta {
			best = frame
			bestDelta = delta
			found = true
		}
	}
	return best, found
}
