package analysis

import (
	"context"
	"log/slog"

	"videodigest/internal/logging"
)

const (
	// maxTranscriptChars bounds the transcript text sent per model call.
	defaultMaxTranscriptChars = 60_000
	// defaultMaxImagesPerCall bounds image attachments per model call.
	defaultMaxImagesPerCall = 4
	// minTimestampSpacing collapses discovered timestamps closer than this.
	minTimestampSpacing = 5.0
)

// Completer is the language-model surface the analyzer depends on.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteJSONWithImages(ctx context.Context, systemPrompt, userPrompt string, images [][]byte) (string, error)
}

// Analyzer runs the language-model stages: timestamp discovery, the main
// overview/chapter pass, and diagram generation.
type Analyzer struct {
	client             Completer
	logger             *slog.Logger
	maxTranscriptChars int
	maxImagesPerCall   int
	readImage          func(path string) ([]byte, error)
}

// Option adjusts Analyzer construction.
type Option func(*Analyzer)

// WithMaxTranscriptChars overrides the per-call transcript budget.
func WithMaxTranscriptChars(chars int) Option {
	return func(a *Analyzer) {
		if chars > 0 {
			a.maxTranscriptChars = chars
		}
	}
}

// WithMaxImagesPerCall overrides the per-call image attachment cap.
func WithMaxImagesPerCall(count int) Option {
	return func(a *Analyzer) {
		if count >= 0 {
			a.maxImagesPerCall = count
		}
	}
}

// WithImageReader overrides frame file loading, primarily for tests.
func WithImageReader(fn func(path string) ([]byte, error)) Option {
	return func(a *Analyzer) {
		if fn != nil {
			a.readImage = fn
		}
	}
}

// New builds an Analyzer around the given model client.
func New(client Completer, logger *slog.Logger, opts ...Option) *Analyzer {
	analyzer := &Analyzer{
		client:             client,
		logger:             logging.NewComponentLogger(logger, "analysis"),
		maxTranscriptChars: defaultMaxTranscriptChars,
		maxImagesPerCall:   defaultMaxImagesPerCall,
		readImage:          readImageFile,
	}
	for _, opt := range opts {
		opt(analyzer)
	}
	return analyzer
}
