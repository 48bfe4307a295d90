package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/caption-lens/internal/logger"
)

const defaultSettleInterval = 500 * time.Millisecond

// New creates a Watcher on inputDir.
func New(inputDir string, handler Handler, log logger.Logger, opts Options) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(inputDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.SettleInterval <= 0 {
		opts.SettleInterval = defaultSettleInterval
	}

	return &implWatcher{
		inputDir:  inputDir,
		handler:   handler,
		logger:    log,
		watcher:   fw,
		opts:      opts,
		semaphore: make(chan struct{}, opts.MaxConcurrent),
		active:    make(map[string]struct{}),
	}, nil
}
