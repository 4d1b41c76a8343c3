package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"videodigest/internal/services"
)

// DefaultBinary is the yt-dlp executable name used when none is configured.
const DefaultBinary = "yt-dlp"

// CommandRunner executes an external command and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Service wraps the yt-dlp external tool for metadata, subtitle, audio, and
// video retrieval.
type Service struct {
	binary string
	runner CommandRunner
}

// NewService creates a yt-dlp service.
func NewService(binary string) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.runner = runner
}

func (s *Service) run(ctx context.Context, args ...string) ([]byte, error) {
	if s.runner != nil {
		return s.runner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", s.binary, err)
	}
	return output, nil
}

func (s *Service) wrapRunError(ctx context.Context, operation string, err error) error {
	marker := services.ErrExternalTool
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		marker = services.ErrTimeout
	}
	return services.Wrap(marker, "media", operation, "", err)
}

// Metadata describes a remote video.
type Metadata struct {
	VideoID           string
	Title             string
	DurationSeconds   int
	Channel           string
	Description       string
	SubtitleLanguages []string
	CaptionLanguages  []string
}

// HasSubtitles reports whether a manual subtitle track exists.
func (m Metadata) HasSubtitles() bool { return len(m.SubtitleLanguages) > 0 }

// HasCaptions reports whether auto-generated captions exist.
func (m Metadata) HasCaptions() bool { return len(m.CaptionLanguages) > 0 }

type metadataPayload struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Duration          float64                    `json:"duration"`
	Channel           string                     `json:"channel"`
	Uploader          string                     `json:"uploader"`
	Description       string                     `json:"description"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// FetchMetadata retrieves video metadata without downloading media.
func (s *Service) FetchMetadata(ctx context.Context, url string) (Metadata, error) {
	var meta Metadata
	output, err := s.run(ctx, "--dump-single-json", "--skip-download", "--no-warnings", url)
	if err != nil {
		return meta, s.wrapRunError(ctx, "fetch-metadata", err)
	}
	var payload metadataPayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return meta, services.Wrap(services.ErrExternalTool, "media", "fetch-metadata", "parse metadata json", err)
	}
	channel := payload.Channel
	if channel == "" {
		channel = payload.Uploader
	}
	meta = Metadata{
		VideoID:           payload.ID,
		Title:             payload.Title,
		DurationSeconds:   int(payload.Duration),
		Channel:           channel,
		Description:       payload.Description,
		SubtitleLanguages: sortedKeys(payload.Subtitles),
		CaptionLanguages:  sortedKeys(payload.AutomaticCaptions),
	}
	return meta, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FetchSubtitles downloads the best available subtitle track as SRT, trying
// the supplied language codes in order. Manual tracks are preferred over
// auto-generated captions by yt-dlp itself. Returns services.ErrNotFound when
// no requested track exists.
func (s *Service) FetchSubtitles(ctx context.Context, url, videoID string, langs []string, dir string) (string, string, error) {
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", strings.Join(langs, ","),
		"--convert-subs", "srt",
		"--no-warnings",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		url,
	}
	if _, err := s.run(ctx, args...); err != nil {
		return "", "", s.wrapRunError(ctx, "fetch-subtitles", err)
	}
	for _, lang := range langs {
		path := filepath.Join(dir, videoID+"."+lang+".srt")
		if fileExists(path) {
			return path, lang, nil
		}
	}
	// yt-dlp may normalize the language tag (en-US vs en); accept any track
	// it produced as a last resort.
	matches, _ := filepath.Glob(filepath.Join(dir, videoID+".*.srt"))
	if len(matches) > 0 {
		sort.Strings(matches)
		path := matches[0]
		lang := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), videoID+"."), ".srt")
		return path, lang, nil
	}
	return "", "", services.Wrap(services.ErrNotFound, "media", "fetch-subtitles", "no subtitle track for requested languages", nil)
}

// FetchAudio downloads the audio stream as a 128 kbps MP3.
func (s *Service) FetchAudio(ctx context.Context, url, videoID, dir string) (string, error) {
	dest := filepath.Join(dir, videoID+".mp3")
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "128K",
		"--no-warnings",
		"-o", filepath.Join(dir, videoID+".%(ext)s"),
		url,
	}
	if _, err := s.run(ctx, args...); err != nil {
		return "", s.wrapRunError(ctx, "fetch-audio", err)
	}
	if !fileExists(dest) {
		return "", services.Wrap(services.ErrExternalTool, "media", "fetch-audio", "expected audio file missing: "+dest, nil)
	}
	return dest, nil
}

// FetchVideo downloads a height-capped MP4 for keyframe extraction.
func (s *Service) FetchVideo(ctx context.Context, url, videoID, dir string, maxHeight int) (string, error) {
	if maxHeight <= 0 {
		maxHeight = 480
	}
	format := fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best", maxHeight, maxHeight)
	args := []string{
		"-f", format,
		"--merge-output-format", "mp4",
		"--no-warnings",
		"-o", filepath.Join(dir, videoID+".%(ext)s"),
		url,
	}
	if _, err := s.run(ctx, args...); err != nil {
		return "", s.wrapRunError(ctx, "fetch-video", err)
	}
	dest := filepath.Join(dir, videoID+".mp4")
	if fileExists(dest) {
		return dest, nil
	}
	for _, ext := range []string{".mkv", ".webm"} {
		if candidate := filepath.Join(dir, videoID+ext); fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrExternalTool, "media", "fetch-video", "expected video file missing", nil)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
