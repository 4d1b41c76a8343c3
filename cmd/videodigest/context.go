package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"videodigest/internal/config"
	"videodigest/internal/logging"
	"videodigest/internal/mediacache"
	"videodigest/internal/pipeline"
	"videodigest/internal/runstore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// runStorePath places the run history database alongside the scratch
// workspaces.
func runStorePath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.WorkDir, "runs.db")
}

// buildRunner assembles a pipeline runner with the configured run store and
// media cache. The returned cleanup closes the store.
func buildRunner(cfg *config.Config, logger *slog.Logger) (*pipeline.Runner, *runstore.Store, func(), error) {
	store, err := runstore.Open(runStorePath(cfg))
	if err != nil {
		return nil, nil, nil, err
	}
	opts := []pipeline.RunnerOption{pipeline.WithRunStore(store)}
	if cfg.MediaCache.Enabled {
		cache, err := mediacache.New(cfg.MediaCache.Dir, logger)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		opts = append(opts, pipeline.WithMediaCache(cache))
	}
	runner := pipeline.NewRunner(cfg, logger, opts...)
	return runner, store, func() { store.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
