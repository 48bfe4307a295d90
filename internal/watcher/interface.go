package watcher

import (
	"context"
	"time"
)

// Watcher hands new video files in a folder to a Handler.
type Watcher interface {
	// Start blocks until ctx is cancelled, then waits for in-flight handlers.
	Start(ctx context.Context) error
	Stop() error
}

// Handler processes one video file.
type Handler func(ctx context.Context, videoPath string) error

// Options configure a Watcher.
type Options struct {
	// MaxConcurrent bounds how many handlers run at once.
	MaxConcurrent int
	// SettleInterval is how often a new file's size is polled until it stops growing.
	SettleInterval time.Duration
	// ScanExisting queues videos already in the folder when Start is called.
	ScanExisting bool
}
