package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// BurnSubtitles renders the SRT into the video. The subtitles filter gets a
// relative path inside an isolated temp dir so no escaping is needed.
func (m *implMedia) BurnSubtitles(ctx context.Context, videoPath, srtPath, outputPath string) error {
	m.logger.Info(ctx, "Burning subtitles into video: %s", videoPath)

	tempDir, err := os.MkdirTemp(m.cfg.Paths.Temp, "burn-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	const subFilename = "subtitle.srt"
	if err := copyFile(srtPath, filepath.Join(tempDir, subFilename)); err != nil {
		return fmt.Errorf("copy subtitle to temp: %w", err)
	}

	absVideoPath, err := filepath.Abs(videoPath)
	if err != nil {
		return fmt.Errorf("resolve video path: %w", err)
	}
	tempOutput := filepath.Join(tempDir, "output"+filepath.Ext(outputPath))

	args := []string{
		"-y",
		"-i", absVideoPath,
		"-vf", "subtitles=" + subFilename,
		"-c:v", m.cfg.FFmpeg.Encoder,
		"-b:v", m.cfg.FFmpeg.VideoBitrate,
		"-c:a", m.cfg.FFmpeg.AudioCodec,
		tempOutput,
	}

	if _, err := m.executor.ExecuteInDir(ctx, tempDir, m.cfg.FFmpeg.FFmpegPath, args...); err != nil {
		m.logger.Warn(ctx, "Encoder %s failed, retrying with libx264: %v", m.cfg.FFmpeg.Encoder, err)
		if err := m.burnSoftware(ctx, tempDir, absVideoPath, subFilename, tempOutput); err != nil {
			return fmt.Errorf("both configured and software encoders failed: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Rename(tempOutput, outputPath); err != nil {
		// cross-device rename
		if err := copyFile(tempOutput, outputPath); err != nil {
			return fmt.Errorf("move output to final location: %w", err)
		}
	}

	m.logger.Info(ctx, "Subtitles burned: %s", outputPath)
	return nil
}

func (m *implMedia) burnSoftware(ctx context.Context, workDir, videoPath, subFilename, outputPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", "subtitles=" + subFilename,
		"-c:v", "libx264",
		"-preset", m.cfg.FFmpeg.Preset,
		"-crf", "23",
		"-c:a", "copy",
		outputPath,
	}

	if _, err := m.executor.ExecuteInDir(ctx, workDir, m.cfg.FFmpeg.FFmpegPath, args...); err != nil {
		return fmt.Errorf("software encoder failed: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
