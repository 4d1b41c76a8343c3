package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "videodigest/internal/language"
	"videodigest/internal/services"
	"videodigest/internal/transcript"
)

// DefaultBinary is the whisper executable name used when none is configured.
const DefaultBinary = "whisper"

// DefaultModel is used when no model is configured.
const DefaultModel = "base"

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service provides speech recognition via the whisper CLI.
type Service struct {
	binary string
	model  string
	runner CommandRunner
}

// NewService creates a whisper service with the given binary and model size.
func NewService(binary, model string) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Service{binary: binary, model: model}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.runner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string { return s.model }

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.runner != nil {
		return s.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Result contains the output of a transcription.
type Result struct {
	// JSONPath is the path to the generated segment JSON file.
	JSONPath string
	// Segments are the parsed timed segments.
	Segments []transcript.Segment
}

// Transcribe runs speech recognition over an audio file and returns the timed
// segments. outputDir is where whisper writes its output files; language is an
// optional hint (name or ISO code).
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir, language string) (Result, error) {
	var result Result

	if audioPath == "" {
		return result, services.Wrap(services.ErrValidation, "transcribe", "whisper", "audio path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "ensure output dir", err)
	}

	args := s.buildArgs(audioPath, outputDir, language)
	if err := s.run(ctx, s.binary, args...); err != nil {
		return result, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	result.JSONPath = filepath.Join(outputDir, baseName+".json")

	segments, err := LoadSegments(result.JSONPath)
	if err != nil {
		return result, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "load segments", err)
	}
	result.Segments = segments
	return result, nil
}

// buildArgs constructs the whisper CLI arguments.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := []string{
		source,
		"--model", s.model,
		"--output_dir", outputDir,
		"--output_format", "json",
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

type segmentPayload struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperPayload struct {
	Segments []segmentPayload `json:"segments"`
}

// LoadSegments loads timed segments from a whisper JSON output file.
func LoadSegments(jsonPath string) ([]transcript.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	segments := make([]transcript.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{Start: seg.Start, End: seg.End, Text: text})
	}
	return segments, nil
}
