package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
}

// Digest contains defaults for digest generation.
type Digest struct {
	Language           string   `toml:"language"`
	MaxFrames          int      `toml:"max_frames"`
	SkipKeyframes      bool     `toml:"skip_keyframes"`
	MergeWindowSeconds float64  `toml:"merge_window_seconds"`
	MergeGapSeconds    float64  `toml:"merge_gap_seconds"`
	DedupThreshold     int      `toml:"dedup_threshold"`
	VideoMaxHeight     int      `toml:"video_max_height"`
	SubtitleLanguages  []string `toml:"subtitle_languages"`
	KeepTemp           bool     `toml:"keep_temp"`
}

// Whisper contains configuration for the speech recognition fallback.
type Whisper struct {
	Model string `toml:"model"`
}

// LLM contains connection settings for the analysis model.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Tools contains executable names for external tools.
type Tools struct {
	YtDlp   string `toml:"ytdlp"`
	FFmpeg  string `toml:"ffmpeg"`
	Whisper string `toml:"whisper"`
}

// MediaCache contains configuration for the downloaded media cache.
type MediaCache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Workflow contains per-stage timeout configuration, in seconds.
type Workflow struct {
	MetadataTimeout   int `toml:"metadata_timeout"`
	DownloadTimeout   int `toml:"download_timeout"`
	TranscribeTimeout int `toml:"transcribe_timeout"`
	AnalysisTimeout   int `toml:"analysis_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for videodigest.
//
// Configuration sections by subsystem:
//   - Paths: output, scratch, and log directories plus the API bind address
//   - Digest: language, keyframe, and transcript merge defaults
//   - Whisper: speech recognition fallback model
//   - LLM: analysis model connection settings
//   - Tools: external executable names (yt-dlp, ffmpeg, whisper)
//   - MediaCache: cached downloads for repeat runs of the same reference
//   - Workflow: per-stage timeouts
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Digest     Digest     `toml:"digest"`
	Whisper    Whisper    `toml:"whisper"`
	LLM        LLM        `toml:"llm"`
	Tools      Tools      `toml:"tools"`
	MediaCache MediaCache `toml:"media_cache"`
	Workflow   Workflow   `toml:"workflow"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/videodigest/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/videodigest/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("videodigest.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.MediaCache.Enabled && strings.TrimSpace(c.MediaCache.Dir) != "" {
		if err := os.MkdirAll(c.MediaCache.Dir, 0o755); err != nil {
			return fmt.Errorf("create media cache directory %q: %w", c.MediaCache.Dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultMediaCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "videodigest", "media")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/videodigest/media"
	}
	return filepath.Join(home, ".cache", "videodigest", "media")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains resolved LLM connection settings.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetLLM returns the analysis model connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}

// YtDlpBinary returns the yt-dlp executable name.
func (c *Config) YtDlpBinary() string {
	if strings.TrimSpace(c.Tools.YtDlp) != "" {
		return c.Tools.YtDlp
	}
	return "yt-dlp"
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Tools.FFmpeg) != "" {
		return c.Tools.FFmpeg
	}
	return "ffmpeg"
}

// WhisperBinary returns the whisper executable name.
func (c *Config) WhisperBinary() string {
	if strings.TrimSpace(c.Tools.Whisper) != "" {
		return c.Tools.Whisper
	}
	return "whisper"
}
