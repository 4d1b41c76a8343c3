package mediacache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"videodigest/internal/fileutil"
	"videodigest/internal/logging"
	"videodigest/internal/services"
)

// Kind names a cached media artifact for a reference.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"

	lockRetryInterval = 250 * time.Millisecond
)

// Cache stores downloaded media keyed by video id so repeat runs of the same
// reference skip the download. It is advisory only; a miss falls through to
// the downloader.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// New creates a cache rooted at dir.
func New(dir string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "init", "create cache directory", err)
	}
	return &Cache{dir: dir, logger: logging.NewComponentLogger(logger, "mediacache")}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) entryDir(videoID string) string {
	return filepath.Join(c.dir, videoID)
}

// WithLock runs fn while holding an exclusive per-reference file lock, so
// concurrent runs of the same reference across processes do not download the
// same media twice.
func (c *Cache) WithLock(ctx context.Context, videoID string, fn func() error) error {
	lockPath := c.entryDir(videoID) + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "cache", "lock", "acquire media cache lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrTransient, "cache", "lock", "media cache lock unavailable", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

// Get returns the cached path for a reference's artifact, if present.
func (c *Cache) Get(videoID string, kind Kind) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(c.entryDir(videoID), string(kind)+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// Store copies src into the cache under the reference's entry, preserving the
// file extension, and returns the cached path.
func (c *Cache) Store(videoID string, kind Kind, src string) (string, error) {
	entry := c.entryDir(videoID)
	if err := os.MkdirAll(entry, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "cache", "store", "create cache entry", err)
	}
	dest := filepath.Join(entry, string(kind)+filepath.Ext(src))
	if err := fileutil.CopyFileVerified(src, dest); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "cache", "store",
			fmt.Sprintf("cache %s for %s", kind, videoID), err)
	}
	c.logger.Debug("media cached",
		logging.String("video_id", videoID),
		logging.String("kind", string(kind)),
		logging.String("path", dest))
	return dest, nil
}

// Evict removes a reference's cache entry.
func (c *Cache) Evict(videoID string) error {
	if err := os.RemoveAll(c.entryDir(videoID)); err != nil {
		return services.Wrap(services.ErrExternalTool, "cache", "evict", "remove cache entry", err)
	}
	_ = os.Remove(c.entryDir(videoID) + ".lock")
	return nil
}
