package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/caption-lens/internal/config"
	"github.com/nguyentantai21042004/caption-lens/internal/gemini"
	"github.com/nguyentantai21042004/caption-lens/internal/logger"
	"github.com/nguyentantai21042004/caption-lens/internal/media"
	"github.com/nguyentantai21042004/caption-lens/internal/pipeline"
	"github.com/nguyentantai21042004/caption-lens/pkg/executor"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     logger.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := "config.yaml"
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load configuration: %w", err)
			return
		}
		c.config = cfg
		c.logger = logger.NewWithOptions(logger.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: os.Stderr,
		})
	})
	return c.config, c.configErr
}

// processor wires the executor, media adapter and Gemini analyzer into a
// pipeline. Flags must be applied to the config before calling it.
func (c *commandContext) processor() (pipeline.Processor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	m := media.New(cfg, executor.New(), c.logger)
	analyzer := gemini.New(cfg, c.logger)
	return pipeline.New(cfg, m, analyzer, c.logger), nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func checkFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("file path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %q not found", path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%q is a directory", path)
	}
	return path, nil
}
