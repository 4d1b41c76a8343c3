package analysis

import (
	"os"
	"strings"
	"unicode/utf8"

	"videodigest/internal/digest"
	"videodigest/internal/transcript"
)

// timestampOverhead approximates the "[MM:SS] " prefix added per segment
// when budgeting transcript chunks.
const timestampOverhead = 12

// chunkSegments splits segments into runs whose rendered text fits within
// maxChars. A single oversized segment still forms its own chunk.
func chunkSegments(segments []transcript.Segment, maxChars int) [][]transcript.Segment {
	if len(segments) == 0 {
		return nil
	}
	var chunks [][]transcript.Segment
	var current []transcript.Segment
	currentChars := 0
	for _, seg := range segments {
		segChars := len(seg.Text) + timestampOverhead
		if currentChars+segChars > maxChars && len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			currentChars = 0
		}
		current = append(current, seg)
		currentChars += segChars
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// segmentsToText renders segments as timestamped transcript lines.
func segmentsToText(segments []transcript.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, digest.FormatTimestamp(seg.Start)+" "+seg.Text)
	}
	return strings.Join(lines, "\n")
}

// truncateText trims text to at most maxChars bytes for single-call stages,
// never splitting a multi-byte rune.
func truncateText(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	for maxChars > 0 && !utf8.RuneStart(text[maxChars]) {
		maxChars--
	}
	return text[:maxChars]
}

// framesForSpan returns frames whose timestamps fall within [start, end].
func framesForSpan(frames []digest.Keyframe, start, end float64) []digest.Keyframe {
	var out []digest.Keyframe
	for _, frame := range frames {
		if frame.Timestamp >= start && frame.Timestamp <= end {
			out = append(out, frame)
		}
	}
	return out
}

func readImageFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
