package config

import (
	"errors"
	"fmt"
	"strings"

	"videodigest/internal/language"
)

var whisperModels = map[string]struct{}{
	"tiny":   {},
	"base":   {},
	"small":  {},
	"medium": {},
	"large":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDigest(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateMediaCache(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDigest() error {
	if !language.IsTarget(c.Digest.Language) {
		return fmt.Errorf("digest.language must be one of %s (got %q)", strings.Join(language.Targets(), ", "), c.Digest.Language)
	}
	if c.Digest.MaxFrames < 1 {
		return errors.New("digest.max_frames must be at least 1")
	}
	if c.Digest.MergeWindowSeconds <= 0 {
		return errors.New("digest.merge_window_seconds must be positive")
	}
	if c.Digest.MergeGapSeconds <= 0 {
		return errors.New("digest.merge_gap_seconds must be positive")
	}
	if c.Digest.DedupThreshold < 1 || c.Digest.DedupThreshold > 64 {
		return errors.New("digest.dedup_threshold must be between 1 and 64")
	}
	if c.Digest.VideoMaxHeight < 144 {
		return errors.New("digest.video_max_height must be at least 144")
	}
	if len(c.Digest.SubtitleLanguages) == 0 {
		return errors.New("digest.subtitle_languages must include at least one language")
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if _, ok := whisperModels[c.Whisper.Model]; !ok {
		return fmt.Errorf("whisper.model must be one of tiny, base, small, medium, large (got %q)", c.Whisper.Model)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	return ensurePositiveMap(map[string]int{
		"workflow.metadata_timeout":   c.Workflow.MetadataTimeout,
		"workflow.download_timeout":   c.Workflow.DownloadTimeout,
		"workflow.transcribe_timeout": c.Workflow.TranscribeTimeout,
		"workflow.analysis_timeout":   c.Workflow.AnalysisTimeout,
		"llm.timeout_seconds":         c.LLM.TimeoutSeconds,
	})
}

func (c *Config) validateMediaCache() error {
	if c.MediaCache.Enabled && strings.TrimSpace(c.MediaCache.Dir) == "" {
		return errors.New("media_cache.dir must be set when media_cache.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
