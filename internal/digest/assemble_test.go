package digest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleDigest(t *testing.T, frameDir string) *Digest {
	t.Helper()
	d := &Digest{
		Meta: Meta{
			VideoID:         "dQw4w9WgXcQ",
			URL:             "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Title:           "Sample Video",
			DurationSeconds: 600,
			Channel:         "Demo Channel",
		},
		Overview: "A video about things.",
		Chapters: []Chapter{
			{Title: "Intro", Start: 0, End: 300, Summary: "the beginning"},
			{Title: "Outro", Start: 300, End: 600, Summary: "the end"},
		},
		Language: "English",
	}
	if frameDir != "" {
		for i, ts := range []float64{10, 310, 590} {
			path := filepath.Join(frameDir, FrameFileName(i+1))
			if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
				t.Fatalf("write fixture frame: %v", err)
			}
			d.Keyframes = append(d.Keyframes, Keyframe{Index: i + 1, Timestamp: ts, Path: path})
		}
	}
	return d
}

func TestAssemblerWritesArtifacts(t *testing.T) {
	workDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	d := sampleDigest(t, workDir)

	if err := NewAssembler(nil).Write(d, outputDir); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		copied := filepath.Join(outputDir, "frames", FrameFileName(i))
		if _, err := os.Stat(copied); err != nil {
			t.Fatalf("expected copied frame %d: %v", i, err)
		}
	}
	if d.Keyframes[0].Path != filepath.Join("frames", "frame_001.jpg") {
		t.Fatalf("expected rewritten relative frame path, got %q", d.Keyframes[0].Path)
	}

	payload, err := os.ReadFile(filepath.Join(outputDir, "summary.json"))
	if err != nil {
		t.Fatalf("read summary.json: %v", err)
	}
	var decoded Digest
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode summary.json: %v", err)
	}
	if decoded.Meta.VideoID != "dQw4w9WgXcQ" || len(decoded.Chapters) != 2 || len(decoded.Keyframes) != 3 {
		t.Fatalf("unexpected decoded digest: %+v", decoded)
	}
	if decoded.Keyframes[1].Index != 2 {
		t.Fatalf("expected frame index preserved, got %d", decoded.Keyframes[1].Index)
	}

	markdown, err := os.ReadFile(filepath.Join(outputDir, "summary.md"))
	if err != nil {
		t.Fatalf("read summary.md: %v", err)
	}
	if !strings.Contains(string(markdown), "# Sample Video") {
		t.Fatal("expected markdown title header")
	}
}

func TestAssemblerSkipsFramesDirWhenNoKeyframes(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	d := sampleDigest(t, "")

	if err := NewAssembler(nil).Write(d, outputDir); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "frames")); !os.IsNotExist(err) {
		t.Fatalf("expected no frames directory, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "summary.json")); err != nil {
		t.Fatalf("expected summary.json: %v", err)
	}
}

func TestRenderMarkdownDeepLinksAndFrames(t *testing.T) {
	d := sampleDigest(t, t.TempDir())
	d.Keyframes[0].Path = "frames/frame_001.jpg"
	d.Keyframes[1].Path = "frames/frame_002.jpg"
	d.Keyframes[2].Path = "frames/frame_003.jpg"
	d.DegradationNotes = []string{"diagram generation failed, digest has no concept map"}

	out := RenderMarkdown(d)

	if !strings.Contains(out, "**Duration**: 10:00") {
		t.Fatal("expected formatted duration in header")
	}
	if !strings.Contains(out, "### [Intro](https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=0s) [00:00]") {
		t.Fatalf("expected intro deep link, got:\n%s", out)
	}
	if !strings.Contains(out, "### [Outro](https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=300s) [05:00]") {
		t.Fatalf("expected outro deep link, got:\n%s", out)
	}
	// Intro picks the 10s frame, Outro the 310s frame, leaving 590s leftover.
	if !strings.Contains(out, "![Intro](frames/frame_001.jpg)") {
		t.Fatal("expected intro to embed nearest frame")
	}
	if !strings.Contains(out, "![Outro](frames/frame_002.jpg)") {
		t.Fatal("expected outro to embed nearest unused frame")
	}
	if !strings.Contains(out, "## Additional Screenshots") ||
		!strings.Contains(out, "![[09:50]](frames/frame_003.jpg)") {
		t.Fatalf("expected leftover frame in additional screenshots, got:\n%s", out)
	}
	if !strings.Contains(out, "## Notes") {
		t.Fatal("expected degradation notes section")
	}
}

func TestRenderMarkdownSameFrameNotReused(t *testing.T) {
	d := sampleDigest(t, t.TempDir())
	d.Keyframes = d.Keyframes[:1]
	d.Keyframes[0].Path = "frames/frame_001.jpg"

	out := RenderMarkdown(d)
	if strings.Count(out, "frames/frame_001.jpg") != 1 {
		t.Fatalf("expected single frame to appear exactly once, got:\n%s", out)
	}
}
