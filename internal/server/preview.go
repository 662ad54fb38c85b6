package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/certwatch/docsite/internal/build"
	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/logfields"
	"github.com/certwatch/docsite/internal/metrics"
	"github.com/certwatch/docsite/internal/sidebar"
)

const rebuildDebounce = 300 * time.Millisecond

// StartPreview builds the site, serves it over HTTP, and watches the docs
// directory for changes, rebuilding with debouncing. Blocks until ctx is
// canceled. Preview works on a local source directory only.
func StartPreview(ctx context.Context, cfg *config.Config, builder *build.Builder, rec metrics.Recorder, promRec *metrics.PrometheusRecorder, port int) error {
	if cfg.Source.Dir == "" {
		return fmt.Errorf("preview requires source.dir pointing at a local docs directory")
	}
	absDocs, err := filepath.Abs(cfg.Source.Dir)
	if err != nil {
		return fmt.Errorf("resolve docs dir: %w", err)
	}
	if st, statErr := os.Stat(absDocs); statErr != nil || !st.IsDir() {
		return fmt.Errorf("docs dir not found or not a directory: %s", absDocs)
	}

	status := &buildStatus{}
	if _, err := builder.Run(ctx, build.Options{}); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
		status.setError(err)
	} else {
		status.setSuccess()
	}

	httpSrv := newHTTPServer(cfg, status, promRec, port)
	httpSrv.start()
	slog.Info("Preview server listening",
		slog.Int("port", port),
		logfields.URL(fmt.Sprintf("http://localhost:%d", port)))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := addDirsRecursive(watcher, absDocs); err != nil {
		return err
	}

	rebuildReq, trigger := newDebouncer(rebuildDebounce)
	startRebuildWorker(ctx, builder, rec, status, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.stop(shutdownCtx)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

// newDebouncer returns a rebuild request channel and a trigger function that
// coalesces bursts of filesystem events into one request.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// startRebuildWorker processes rebuild requests one at a time. A request
// arriving mid-build queues exactly one follow-up build.
func startRebuildWorker(ctx context.Context, builder *build.Builder, rec metrics.Recorder, status *buildStatus, rebuildReq chan struct{}) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected; rebuilding site")
				rec.IncRebuildTrigger("watch")
				if _, err := builder.Run(ctx, build.Options{}); err != nil {
					slog.Warn("Rebuild failed", logfields.Error(err))
					status.setError(err)
				} else {
					status.setSuccess()
				}

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

// handleFileEvent filters noise events and triggers a rebuild. Newly created
// directories are added to the watch set.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that must not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}

	if base == sidebar.IgnoreArtifact || base == "Thumbs.db" {
		return true
	}
	return false
}
