package pipeline

import (
	"github.com/nguyentantai21042004/caption-lens/internal/config"
	"github.com/nguyentantai21042004/caption-lens/internal/gemini"
	"github.com/nguyentantai21042004/caption-lens/internal/logger"
	"github.com/nguyentantai21042004/caption-lens/internal/media"
)

type implProcessor struct {
	cfg      *config.Config
	media    media.Media
	analyzer gemini.Analyzer
	logger   logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, m media.Media, analyzer gemini.Analyzer, log logger.Logger) Processor {
	return &implProcessor{
		cfg:      cfg,
		media:    m,
		analyzer: analyzer,
		logger:   log,
	}
}
