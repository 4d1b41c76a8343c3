package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"videodigest/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("VIDEODIGEST_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "videodigest", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7844" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Digest.Language != "Chinese" {
		t.Fatalf("unexpected default language: %q", cfg.Digest.Language)
	}
	if cfg.Digest.MaxFrames != 12 {
		t.Fatalf("unexpected default max frames: %d", cfg.Digest.MaxFrames)
	}
	if cfg.Digest.MergeWindowSeconds != 60 {
		t.Fatalf("unexpected merge window: %v", cfg.Digest.MergeWindowSeconds)
	}
	if cfg.Whisper.Model != "base" {
		t.Fatalf("unexpected whisper model: %q", cfg.Whisper.Model)
	}
	if len(cfg.Digest.SubtitleLanguages) == 0 || cfg.Digest.SubtitleLanguages[0] != "zh-Hans" {
		t.Fatalf("unexpected subtitle languages: %v", cfg.Digest.SubtitleLanguages)
	}
	if cfg.MediaCache.Enabled {
		t.Fatal("expected media cache disabled by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "videodigest.toml")
	body := `
[digest]
language = "English"
max_frames = 6
dedup_threshold = 12

[whisper]
model = "small"

[llm]
api_key = "abc123"
timeout_seconds = 30
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Digest.Language != "English" {
		t.Fatalf("unexpected language: %q", cfg.Digest.Language)
	}
	if cfg.Digest.MaxFrames != 6 {
		t.Fatalf("unexpected max frames: %d", cfg.Digest.MaxFrames)
	}
	if cfg.Digest.DedupThreshold != 12 {
		t.Fatalf("unexpected dedup threshold: %d", cfg.Digest.DedupThreshold)
	}
	if cfg.Whisper.Model != "small" {
		t.Fatalf("unexpected whisper model: %q", cfg.Whisper.Model)
	}
	if cfg.LLM.APIKey != "abc123" {
		t.Fatalf("unexpected api key: %q", cfg.LLM.APIKey)
	}
	// Defaults still applied for unset sections.
	if cfg.Workflow.DownloadTimeout != config.Default().Workflow.DownloadTimeout {
		t.Fatalf("unexpected download timeout: %d", cfg.Workflow.DownloadTimeout)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"language", func(c *config.Config) { c.Digest.Language = "Klingon" }},
		{"max frames", func(c *config.Config) { c.Digest.MaxFrames = 0 }},
		{"dedup threshold", func(c *config.Config) { c.Digest.DedupThreshold = 65 }},
		{"whisper model", func(c *config.Config) { c.Whisper.Model = "huge" }},
		{"merge window", func(c *config.Config) { c.Digest.MergeWindowSeconds = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected sample contents")
	}
}
