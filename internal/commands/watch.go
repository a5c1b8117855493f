package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/okra-platform/faux/internal/watch"
)

// Watch generates once, then again on every matching file change until
// interrupted. Failed runs are logged and watching continues.
func (c *Controller) Watch(ctx context.Context, inputs ...string) error {
	cfg, root, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := c.Logger.With().Str("component", "watch").Logger()

	regenerate := func() {
		if _, err := c.generate(ctx, cfg, root, inputs); err != nil {
			logger.Error().Err(err).Msg("generation failed")
		}
	}

	regenerate()

	// Generated files never trigger a run
	exclude := append(slices.Clone(cfg.Watch.Exclude), filepath.Base(cfg.Output))

	w, err := watch.New(cfg.Watch.Patterns, exclude, func(path string, op fsnotify.Op) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		logger.Info().Str("path", rel).Str("op", op.String()).Msg("change detected")
		regenerate()
	}, c.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.AddDirectory(root); err != nil {
		return err
	}

	logger.Info().Str("root", root).Msg("watching for changes")

	err = w.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
