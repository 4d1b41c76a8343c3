package main

import (
	"context"
	"testing"

	"videodigest/internal/config"
	"videodigest/internal/runstore"
)

func TestRunsCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestRunsCommandListsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := runstore.Open(runStorePath(cfg))
	if err != nil {
		t.Fatalf("open run store: %v", err)
	}
	if _, err := store.CreateRun(context.Background(), "run-abc12345", "dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	if err := store.FinishRun(context.Background(), "run-abc12345", runstore.StatusCompleted, "/out/dQw4w9WgXcQ", "", nil); err != nil {
		t.Fatalf("finish run: %v", err)
	}
	store.Close()

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "dQw4w9WgXcQ")
	requireContains(t, out, "completed")
	requireContains(t, out, "run-abc1")
}

func TestRunCommandRejectsBadReference(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "https://example.com/not-a-video"}, env.configPath)
	if err == nil {
		t.Fatal("expected reference parse failure")
	}
}
