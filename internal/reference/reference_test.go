package reference_test

import (
	"errors"
	"testing"

	"videodigest/internal/reference"
	"videodigest/internal/services"
)

func TestParseAcceptsCommonShapes(t *testing.T) {
	cases := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLx",
	}
	for _, raw := range cases {
		ref, err := reference.Parse(raw)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", raw, err)
			continue
		}
		if ref.VideoID != "dQw4w9WgXcQ" {
			t.Errorf("Parse(%q) id = %q", raw, ref.VideoID)
		}
		if ref.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
			t.Errorf("Parse(%q) url = %q", raw, ref.URL)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "https://example.com/video", "short"} {
		if _, err := reference.Parse(raw); err == nil {
			t.Errorf("Parse(%q) expected error", raw)
		} else if !errors.Is(err, services.ErrValidation) {
			t.Errorf("Parse(%q) expected validation marker, got %v", raw, err)
		}
	}
}

func TestTimedURL(t *testing.T) {
	ref, err := reference.Parse("dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if got := ref.TimedURL(95); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=95s" {
		t.Fatalf("unexpected timed url: %q", got)
	}
	if got := ref.TimedURL(-5); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=0s" {
		t.Fatalf("negative offset should clamp: %q", got)
	}
}
