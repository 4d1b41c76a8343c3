// Package reference parses video references into canonical identifiers.
package reference

import (
	"fmt"
	"regexp"
	"strings"

	"videodigest/internal/services"
)

var (
	idPattern     = regexp.MustCompile(`(?:v=|/v/|youtu\.be/|/embed/|/shorts/|/live/)([a-zA-Z0-9_-]{11})`)
	bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// Reference identifies a single video.
type Reference struct {
	VideoID string
	URL     string
}

// Parse extracts a video identifier from a URL or bare 11-character id.
// It accepts the common YouTube URL shapes: watch?v=, youtu.be/, /shorts/,
// /embed/, /live/, and /v/.
func Parse(raw string) (Reference, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Reference{}, services.Wrap(services.ErrValidation, "reference", "parse", "empty reference", nil)
	}
	if match := idPattern.FindStringSubmatch(trimmed); len(match) == 2 {
		return newReference(match[1]), nil
	}
	if bareIDPattern.MatchString(trimmed) {
		return newReference(trimmed), nil
	}
	return Reference{}, services.Wrap(services.ErrValidation, "reference", "parse", fmt.Sprintf("unrecognized video reference %q", trimmed), nil)
}

func newReference(id string) Reference {
	return Reference{
		VideoID: id,
		URL:     WatchURL(id),
	}
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// TimedURL returns a watch URL that deep-links to the given offset.
func TimedURL(id string, seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%s&t=%ds", WatchURL(id), seconds)
}

// WatchURL returns the canonical watch URL for the reference.
func (r Reference) WatchURL() string {
	return r.URL
}

// TimedURL returns a watch URL that deep-links to the given offset.
func (r Reference) TimedURL(seconds int) string {
	return TimedURL(r.VideoID, seconds)
}
