package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"videodigest/internal/config"
	"videodigest/internal/runstore"
)

// MustOpenStore opens a runstore.Store under the config's work directory and
// registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.WorkDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	store, err := runstore.Open(filepath.Join(cfg.Paths.WorkDir, "runs.db"))
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
