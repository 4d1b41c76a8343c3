package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDepsCommandReportsStubbedTools(t *testing.T) {
	env := setupCLITestEnv(t)

	binDir := t.TempDir()
	script := []byte("#!/bin/sh\nexit 0\n")
	for _, name := range []string{"yt-dlp", "ffmpeg", "whisper"} {
		if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "yt-dlp")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "Whisper")
}

func TestDepsCommandFailsWhenRequiredToolMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	binDir := t.TempDir()
	t.Setenv("PATH", binDir)

	_, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure with no tools on PATH")
	}
	requireContains(t, err.Error(), "missing")
}
