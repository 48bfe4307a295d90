package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var target string
	var outputDir string
	var burnIn bool
	var noFrames bool

	cmd := &cobra.Command{
		Use:   "analyze <video>...",
		Short: "Describe frames, transcribe audio and write subtitle files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("to") {
				cfg.Translate.TargetLanguage = strings.TrimSpace(target)
			}
			if outputDir != "" {
				cfg.Paths.Output = outputDir
			}
			if burnIn {
				cfg.FFmpeg.BurnIn = true
			}
			if noFrames {
				disabled := false
				cfg.Frames.Enabled = &disabled
			}
			if err := ensureDirectories(cfg.Paths.Output, cfg.Paths.Temp); err != nil {
				return err
			}

			proc, err := ctx.processor()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, arg := range args {
				video, err := checkFile(arg)
				if err != nil {
					return err
				}
				result, err := proc.Process(cmd.Context(), video)
				if err != nil {
					return fmt.Errorf("%s: %w", video, err)
				}
				fmt.Fprintf(out, "%s: %d records in %s\n", video, len(result.Subtitles), result.Elapsed.Round(100*time.Millisecond))
				for _, path := range result.Outputs {
					fmt.Fprintf(out, "  %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "Translate subtitles into this language (overrides translate.target_language)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides paths.output)")
	cmd.Flags().BoolVar(&burnIn, "burn", false, "Burn subtitles into a copy of the video")
	cmd.Flags().BoolVar(&noFrames, "no-frames", false, "Skip visual frame descriptions")

	return cmd
}
