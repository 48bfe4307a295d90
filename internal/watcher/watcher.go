package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/caption-lens/internal/logger"
)

var videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv"}

type implWatcher struct {
	inputDir  string
	handler   Handler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	opts      Options
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu     sync.Mutex
	active map[string]struct{}
}

// Start begins monitoring the input directory for new video files
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.opts.MaxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(videoExtensions, ", "))

	if w.opts.ScanExisting {
		existing, err := scanDir(w.inputDir)
		if err != nil {
			w.logger.Warn(ctx, "Failed to scan %s: %v", w.inputDir, err)
		}
		for _, path := range existing {
			w.logger.Info(ctx, "Queueing existing video: %s", path)
			if err := w.dispatch(ctx, path); err != nil {
				return w.shutdown(ctx)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return w.shutdown(ctx)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isVideoFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New video detected: %s", event.Name)
			if err := w.dispatch(ctx, event.Name); err != nil {
				return w.shutdown(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) shutdown(ctx context.Context) error {
	w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "File watcher stopped")
	return ctx.Err()
}

// dispatch runs the handler for path once the file has settled and a slot
// is free. The settle wait holds no slot, so a copy still in progress never
// blocks other videos. A path already in flight is skipped. Only a cancelled
// ctx returns an error.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !w.claim(path) {
		w.logger.Debug(ctx, "Already processing %s", path)
		return nil
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.release(path)

		if err := waitForStable(ctx, path, w.opts.SettleInterval); err != nil {
			w.logger.Warn(ctx, "Skipping %s: %v", path, err)
			return
		}

		select {
		case w.semaphore <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-w.semaphore }()

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.active[path]; ok {
		return false
	}
	w.active[path] = struct{}{}
	return true
}

func (w *implWatcher) release(path string) {
	w.mu.Lock()
	delete(w.active, path)
	w.mu.Unlock()
}

// emptyPollLimit is how many polls a file may stay at zero bytes before it
// is given up on.
const emptyPollLimit = 20

// errEmptyFile is returned by waitForStable for a file that never grows.
var errEmptyFile = errors.New("file is still empty")

// waitForStable polls the file until two consecutive sizes match, so a copy
// still in progress is not picked up half written.
func waitForStable(ctx context.Context, path string, interval time.Duration) error {
	last := int64(-1)
	empty := 0
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if fi.Size() == 0 {
			empty++
			if empty >= emptyPollLimit {
				return errEmptyFile
			}
		}
		if fi.Size() > 0 && fi.Size() == last {
			return nil
		}
		last = fi.Size()
	}
}

// scanDir lists the videos already present in dir, sorted by name.
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var videos []string
	for _, e := range entries {
		if e.Type().IsRegular() && isVideoFile(e.Name()) {
			videos = append(videos, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(videos)
	return videos, nil
}

// isVideoFile checks if the file has a supported video extension
func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range videoExtensions {
		if ext == format {
			return true
		}
	}
	return false
}
