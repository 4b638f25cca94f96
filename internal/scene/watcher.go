package scene

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// configMapDataDir is the symlink Kubernetes swaps when a mounted ConfigMap changes.
const configMapDataDir = "..data"

const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher reloads a prompt file when it changes and swaps the selected
// variant into a Builder. A failed reload keeps the previous template.
type Watcher struct {
	path    string
	variant string
	builder *Builder
	logger  *slog.Logger
	reloads atomic.Uint32
}

func NewWatcher(path, variant string, builder *Builder, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:    path,
		variant: variant,
		builder: builder,
		logger:  logger.With("component", "prompt-watcher", "path", path),
	}
}

// Run blocks until ctx is done or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	if _, err := os.Stat(w.path); err != nil {
		return fmt.Errorf("watch prompt file: %w", err)
	}
	// Editors and ConfigMap mounts replace the file rather than write it,
	// which drops a watch held on the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch prompt directory: %w", err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.affects(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				_ = w.Reload()
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("prompt watcher error", "error", err)
		}
	}
}

func (w *Watcher) affects(event fsnotify.Event) bool {
	if event.Op&reloadOps == 0 {
		return false
	}
	if filepath.Clean(event.Name) == filepath.Clean(w.path) {
		return true
	}
	return filepath.Base(event.Name) == configMapDataDir
}

// Reload reads the file once and swaps the selected template in.
func (w *Watcher) Reload() error {
	count := w.reloads.Add(1)

	catalog, err := LoadCatalog(w.path)
	if err != nil {
		w.logger.Error("prompt reload failed", "error", err, "count", count)
		return err
	}

	t, err := catalog.Get(w.variant)
	if err != nil {
		w.logger.Error("prompt reload failed", "error", err, "count", count)
		return err
	}

	w.builder.Swap(t)
	w.logger.Info("prompt template reloaded", "variant", t.Name(), "count", count)
	return nil
}

func (w *Watcher) ReloadCount() uint32 {
	return w.reloads.Load()
}
