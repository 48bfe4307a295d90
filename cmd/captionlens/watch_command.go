package main

import (
	"context"
	"errors"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-lens/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var existing bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process videos dropped into paths.input and archive them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger
			runCtx := cmd.Context()

			if err := ensureDirectories(cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Archived, cfg.Paths.Temp); err != nil {
				return err
			}

			proc, err := ctx.processor()
			if err != nil {
				return err
			}

			handler := func(ctx context.Context, videoPath string) error {
				if _, err := proc.Process(ctx, videoPath); err != nil {
					return err
				}
				if err := proc.Archive(ctx, videoPath); err != nil {
					log.Warn(ctx, "Failed to archive %s: %v", videoPath, err)
				}
				return nil
			}

			w, err := watcher.New(cfg.Paths.Input, handler, log, watcher.Options{
				MaxConcurrent: cfg.Performance.MaxConcurrent,
				ScanExisting:  existing,
			})
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(runCtx, "========================================")
			log.Info(runCtx, "caption-lens watcher")
			log.Info(runCtx, "========================================")
			log.Info(runCtx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
			log.Info(runCtx, "Model: %s (%d API keys)", cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
			log.Info(runCtx, "Monitoring: %s", cfg.Paths.Input)
			log.Info(runCtx, "Output: %s", cfg.Paths.Output)
			if cfg.Translate.TargetLanguage != "" {
				log.Info(runCtx, "Translating into: %s", cfg.Translate.TargetLanguage)
			}
			log.Info(runCtx, "Press Ctrl+C to stop")
			log.Info(runCtx, "========================================")

			err = w.Start(runCtx)
			if errors.Is(err, context.Canceled) {
				log.Info(context.Background(), "Watcher stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&existing, "existing", false, "Also process videos already in the input folder")

	return cmd
}
