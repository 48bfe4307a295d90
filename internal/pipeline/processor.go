package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

// Process orchestrates the entire video processing pipeline
func (p *implProcessor) Process(ctx context.Context, videoPath string) (*Result, error) {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting video processing: %s", videoPath)
	p.logger.Info(ctx, "========================================")

	target := p.cfg.Translate.TargetLanguage
	result, err := p.Analyze(ctx, videoPath, Options{TargetLanguage: target})
	if err != nil {
		return nil, err
	}

	baseName := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	outputs, err := p.Export(ctx, baseName, result.Subtitles, target)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Outputs = outputs

	if p.cfg.Output.Summary {
		written, err := p.summarize(ctx, baseName, result.Subtitles, target)
		if err != nil {
			p.logger.Warn(ctx, "Failed to summarize %s: %v", videoPath, err)
		}
		result.Outputs = append(result.Outputs, written...)
	}

	if p.cfg.FFmpeg.BurnIn {
		burned, err := p.burnIn(ctx, videoPath, result.Subtitles, target)
		if err != nil {
			p.logger.Warn(ctx, "Failed to burn subtitles: %v", err)
		} else {
			result.Outputs = append(result.Outputs, burned)
		}
	}

	result.Elapsed = time.Since(startTime)
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Records: %d", len(result.Subtitles))
	for _, out := range result.Outputs {
		p.logger.Info(ctx, "Output: %s", out)
	}
	p.logger.Info(ctx, "Processing time: %s", result.Elapsed)
	p.logger.Info(ctx, "========================================")

	return result, nil
}

// burnIn renders the (translated, when available) track into a copy of the video.
func (p *implProcessor) burnIn(ctx context.Context, videoPath string, subs []subtitle.Subtitle, target string) (string, error) {
	srtFile, err := os.CreateTemp(p.cfg.Paths.Temp, "burn-*.srt")
	if err != nil {
		return "", fmt.Errorf("create temp srt: %w", err)
	}
	srtPath := srtFile.Name()
	defer p.cleanupTempFile(ctx, srtPath)

	err = subtitle.WriteSRT(srtFile, subs, target != "")
	if closeErr := srtFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write temp srt: %w", err)
	}

	outputPath := filepath.Join(p.cfg.Paths.Output, "videos", filepath.Base(videoPath))
	if err := p.media.BurnSubtitles(ctx, videoPath, srtPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}
