package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var target string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "translate <file.json|file.srt|file.vtt>",
		Short: "Translate an existing subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target = strings.TrimSpace(target)
			if target == "" {
				return fmt.Errorf("--to is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.Paths.Output = outputDir
			}

			path, err := checkFile(args[0])
			if err != nil {
				return err
			}
			subs, err := readSubtitles(path)
			if err != nil {
				return err
			}

			proc, err := ctx.processor()
			if err != nil {
				return err
			}
			translated, err := proc.Translate(cmd.Context(), subs, target)
			if err != nil {
				return fmt.Errorf("translate: %w", err)
			}

			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outputs, err := proc.Export(cmd.Context(), base, translated, target)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			for _, out := range outputs {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "Target language")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides paths.output)")

	return cmd
}

func readSubtitles(path string) ([]subtitle.Subtitle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var parse func(io.Reader) ([]subtitle.Subtitle, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parse = subtitle.ReadJSON
	case ".srt", ".vtt":
		parse = subtitle.ParseSRT
	default:
		return nil, fmt.Errorf("unsupported subtitle file %s (want .json, .srt or .vtt)", path)
	}

	subs, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return subs, nil
}
