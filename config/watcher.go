package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/docsense/model"
)

// debounceDelay is how long to wait for further writes before reloading.
// Editors often emit several events per save.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads the config file on change and pushes the model section
// into a live registry, so endpoint URLs and fallback chains can be swapped
// without a restart. Server settings are not hot-reloaded.
type Watcher struct {
	path     string
	registry *model.Registry
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
}

// NewWatcher creates a config file watcher targeting the given registry.
func NewWatcher(path string, registry *model.Registry, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		path:     path,
		registry: registry,
		watcher:  fsw,
		logger:   logger,
	}, nil
}

// Start begins watching. It watches the parent directory rather than the
// file itself so atomic-rename saves keep working.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Config watcher started", "path", w.path)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(debounceDelay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", "error", err)

		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

// reload re-reads the config file and applies the model section. A file
// that fails to load or validate leaves the registry untouched.
func (w *Watcher) reload() {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		w.logger.Warn("Config reload failed", "path", w.path, "error", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Warn("Reloaded config invalid, keeping current", "path", w.path, "error", err)
		return
	}

	cfg.ApplyToRegistry(w.registry)
	w.logger.Info("Config reloaded",
		"path", w.path,
		"endpoints", len(cfg.Models.Endpoints),
		"capabilities", len(cfg.Models.Capabilities))
}
