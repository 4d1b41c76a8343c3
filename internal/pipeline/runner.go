package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"videodigest/internal/analysis"
	"videodigest/internal/config"
	"videodigest/internal/digest"
	"videodigest/internal/keyframes"
	"videodigest/internal/logging"
	"videodigest/internal/mediacache"
	"videodigest/internal/runstore"
	"videodigest/internal/services/llm"
	"videodigest/internal/services/whisper"
	"videodigest/internal/services/ytdlp"
	"videodigest/internal/transcript"
)

// MediaSource is the downloader boundary.
type MediaSource interface {
	FetchMetadata(ctx context.Context, url string) (ytdlp.Metadata, error)
	FetchSubtitles(ctx context.Context, url, videoID string, langs []string, dir string) (string, string, error)
	FetchAudio(ctx context.Context, url, videoID, dir string) (string, error)
	FetchVideo(ctx context.Context, url, videoID, dir string, maxHeight int) (string, error)
}

// Transcriber is the speech-recognition fallback boundary.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputDir, language string) (whisper.Result, error)
}

// Analyzer is the language-model stage boundary.
type Analyzer interface {
	KeyTimestamps(ctx context.Context, title string, t transcript.Transcript, duration float64, count int) ([]keyframes.Timestamp, error)
	Summarize(ctx context.Context, req analysis.SummarizeRequest) (analysis.SummarizeResult, error)
	Diagram(ctx context.Context, title, overview string, chapterTitles []string, language string) (digest.Diagram, error)
}

// FrameSelector is the keyframe extraction boundary.
type FrameSelector interface {
	Select(ctx context.Context, video string, targets []keyframes.Timestamp, dir string) ([]keyframes.Frame, keyframes.Report, error)
}

// Assembler persists the final digest.
type Assembler interface {
	Write(d *digest.Digest, outputDir string) error
}

// Runner executes digest pipeline runs.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger

	media       MediaSource
	transcriber Transcriber
	analyzer    Analyzer
	frames      FrameSelector
	assembler   Assembler
	store       *runstore.Store
	cache       *mediacache.Cache

	newRunID func() string
}

// RunnerOption adjusts Runner construction, primarily to inject fakes.
type RunnerOption func(*Runner)

func WithMediaSource(m MediaSource) RunnerOption {
	return func(r *Runner) { r.media = m }
}

func WithTranscriber(t Transcriber) RunnerOption {
	return func(r *Runner) { r.transcriber = t }
}

func WithAnalyzer(a Analyzer) RunnerOption {
	return func(r *Runner) { r.analyzer = a }
}

func WithFrameSelector(s FrameSelector) RunnerOption {
	return func(r *Runner) { r.frames = s }
}

func WithAssembler(a Assembler) RunnerOption {
	return func(r *Runner) { r.assembler = a }
}

// WithRunStore records run history; nil disables recording.
func WithRunStore(store *runstore.Store) RunnerOption {
	return func(r *Runner) { r.store = store }
}

// WithMediaCache enables the advisory download cache.
func WithMediaCache(cache *mediacache.Cache) RunnerOption {
	return func(r *Runner) { r.cache = cache }
}

// WithRunIDGenerator overrides run id generation for tests.
func WithRunIDGenerator(fn func() string) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// NewRunner wires a Runner over the real external services described by cfg.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...RunnerOption) *Runner {
	runner := &Runner{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		media:     ytdlp.NewService(cfg.YtDlpBinary()),
		assembler: digest.NewAssembler(logger),
		newRunID:  uuid.NewString,
	}
	llmCfg := cfg.GetLLM()
	runner.analyzer = analysis.New(llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	}), logger)
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// transcriberFor returns the injected transcriber or a whisper service using
// the run's model size.
func (r *Runner) transcriberFor(opts Options) Transcriber {
	if r.transcriber != nil {
		return r.transcriber
	}
	return whisper.NewService(r.cfg.WhisperBinary(), opts.WhisperModel)
}

// selectorFor returns the injected selector or an ffmpeg-backed one tuned by
// the run's options.
func (r *Runner) selectorFor(opts Options) FrameSelector {
	if r.frames != nil {
		return r.frames
	}
	return keyframes.NewSelector(r.cfg.FFmpegBinary(), r.logger,
		keyframes.WithThreshold(opts.DedupThreshold),
		keyframes.WithMaxFrames(opts.MaxFrames),
	)
}

func (r *Runner) stageTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}
