package pipeline

import (
	"fmt"
	"strings"

	"videodigest/internal/config"
	"videodigest/internal/keyframes"
	"videodigest/internal/language"
	"videodigest/internal/services"
)

// Options are the per-run inputs of the pipeline entry point. Zero values
// fall back to the loaded configuration defaults.
type Options struct {
	// RunID overrides run id assignment; empty generates one. Callers that
	// launch runs in the background set this to report the id immediately.
	RunID string
	// OutputDir overrides the artifact location; empty places the digest
	// under the configured output directory keyed by video id.
	OutputDir string
	Language  string
	MaxFrames int
	// SkipKeyframes produces a frame-less digest and skips video download.
	SkipKeyframes bool
	// SkipTimestampDiscovery bypasses the discovery model call and samples
	// uniformly.
	SkipTimestampDiscovery bool
	WhisperModel           string
	MergeWindowSeconds     float64
	MergeGapSeconds        float64
	DedupThreshold         int
	VideoMaxHeight         int
	SubtitleLanguages      []string
	KeepTemp               bool
}

// OptionsFromConfig seeds Options with the configured digest defaults.
// OutputDir stays empty so runs land under the configured output directory
// keyed by video id.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Language:           cfg.Digest.Language,
		MaxFrames:          cfg.Digest.MaxFrames,
		SkipKeyframes:      cfg.Digest.SkipKeyframes,
		WhisperModel:       cfg.Whisper.Model,
		MergeWindowSeconds: cfg.Digest.MergeWindowSeconds,
		MergeGapSeconds:    cfg.Digest.MergeGapSeconds,
		DedupThreshold:     cfg.Digest.DedupThreshold,
		VideoMaxHeight:     cfg.Digest.VideoMaxHeight,
		SubtitleLanguages:  append([]string(nil), cfg.Digest.SubtitleLanguages...),
		KeepTemp:           cfg.Digest.KeepTemp,
	}
}

func (o *Options) normalize() {
	if strings.TrimSpace(o.Language) == "" {
		o.Language = "English"
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = keyframes.DefaultMaxFrames
	}
	if o.MergeWindowSeconds <= 0 {
		o.MergeWindowSeconds = 60
	}
	if o.MergeGapSeconds < 0 {
		o.MergeGapSeconds = 0
	}
	if o.DedupThreshold <= 0 {
		o.DedupThreshold = keyframes.DefaultDedupThreshold
	}
	if o.VideoMaxHeight <= 0 {
		o.VideoMaxHeight = 480
	}
	if strings.TrimSpace(o.WhisperModel) == "" {
		o.WhisperModel = "base"
	}
	if len(o.SubtitleLanguages) == 0 {
		o.SubtitleLanguages = language.SubtitlePriority(o.Language)
	}
}

// Validate rejects option combinations the pipeline cannot honor.
func (o Options) Validate() error {
	if !language.IsTarget(o.Language) {
		return services.Wrap(services.ErrValidation, "pipeline", "options",
			fmt.Sprintf("unsupported language %q (supported: %s)",
				o.Language, strings.Join(language.Targets(), ", ")), nil)
	}
	if o.DedupThreshold < 1 || o.DedupThreshold > 64 {
		return services.Wrap(services.ErrValidation, "pipeline", "options",
			fmt.Sprintf("dedup threshold %d outside 1..64", o.DedupThreshold), nil)
	}
	return nil
}
