package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDigest()
	c.normalizeWhisper()
	c.normalizeLLM()
	if err := c.normalizeMediaCache(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeDigest() {
	c.Digest.Language = strings.TrimSpace(c.Digest.Language)
	if c.Digest.Language == "" {
		c.Digest.Language = defaultLanguage
	}
	if c.Digest.MaxFrames <= 0 {
		c.Digest.MaxFrames = defaultMaxFrames
	}
	if c.Digest.MergeWindowSeconds <= 0 {
		c.Digest.MergeWindowSeconds = defaultMergeWindowSeconds
	}
	if c.Digest.MergeGapSeconds <= 0 {
		c.Digest.MergeGapSeconds = defaultMergeGapSeconds
	}
	if c.Digest.DedupThreshold <= 0 {
		c.Digest.DedupThreshold = defaultDedupThreshold
	}
	if c.Digest.VideoMaxHeight <= 0 {
		c.Digest.VideoMaxHeight = defaultVideoMaxHeight
	}
	langs := make([]string, 0, len(c.Digest.SubtitleLanguages))
	seen := make(map[string]struct{}, len(c.Digest.SubtitleLanguages))
	for _, lang := range c.Digest.SubtitleLanguages {
		trimmed := strings.TrimSpace(lang)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		langs = append(langs, trimmed)
	}
	if len(langs) == 0 {
		langs = defaultSubtitleLanguages()
	}
	c.Digest.SubtitleLanguages = langs
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.ToLower(strings.TrimSpace(c.Whisper.Model))
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("VIDEODIGEST_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("ANTHROPIC_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeMediaCache() error {
	var err error
	if strings.TrimSpace(c.MediaCache.Dir) == "" {
		c.MediaCache.Dir = defaultMediaCacheDir()
	}
	if c.MediaCache.Dir, err = expandPath(c.MediaCache.Dir); err != nil {
		return fmt.Errorf("media_cache.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.MetadataTimeout <= 0 {
		c.Workflow.MetadataTimeout = defaultMetadataTimeout
	}
	if c.Workflow.DownloadTimeout <= 0 {
		c.Workflow.DownloadTimeout = defaultDownloadTimeout
	}
	if c.Workflow.TranscribeTimeout <= 0 {
		c.Workflow.TranscribeTimeout = defaultTranscribeTimeout
	}
	if c.Workflow.AnalysisTimeout <= 0 {
		c.Workflow.AnalysisTimeout = defaultAnalysisTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
