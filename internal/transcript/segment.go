package transcript

import "strings"

// Source identifies where a transcript came from.
type Source string

const (
	// SourceSubtitles marks transcripts parsed from a subtitle track.
	SourceSubtitles Source = "subtitle-track"
	// SourceSpeech marks transcripts produced by speech recognition.
	SourceSpeech Source = "speech-recognition"
)

// Segment is a single timed span of transcript text. Start and End are
// seconds from the beginning of the media.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Transcript is an ordered, non-overlapping sequence of segments plus the
// source that produced it.
type Transcript struct {
	Segments []Segment
	Source   Source
}

// PlainText joins all segment text with single spaces.
func (t Transcript) PlainText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Duration returns the end timestamp of the final segment.
func (t Transcript) Duration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}
