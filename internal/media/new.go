package media

import (
	"github.com/nguyentantai21042004/caption-lens/internal/config"
	"github.com/nguyentantai21042004/caption-lens/internal/logger"
	"github.com/nguyentantai21042004/caption-lens/pkg/executor"
)

type implMedia struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Media instance that shells out through exec.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Media {
	return &implMedia{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
