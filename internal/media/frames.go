package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// framePlan returns the sampling interval and frame count for a video.
func (m *implMedia) framePlan(duration time.Duration) (time.Duration, int) {
	interval := m.cfg.Frames.Interval
	if duration <= 0 || interval <= 0 {
		return 0, 1
	}

	count := int(duration / interval)
	if duration%interval != 0 {
		count++
	}

	if max := m.cfg.Frames.MaxFrames; max > 0 && count > max {
		interval = duration / time.Duration(max)
		count = max
	}

	return interval, count
}

// ExtractFrames samples JPEG stills across the video at a fixed interval.
func (m *implMedia) ExtractFrames(ctx context.Context, videoPath string, duration time.Duration) ([]Frame, error) {
	interval, count := m.framePlan(duration)

	tempDir, err := os.MkdirTemp(m.cfg.Paths.Temp, "frames-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	filter := fmt.Sprintf("scale=%d:-2", m.cfg.Frames.Width)
	if interval > 0 {
		filter = fmt.Sprintf("fps=1/%.3f,%s", interval.Seconds(), filter)
	}

	m.logger.Info(ctx, "Extracting %d frames every %s: %s", count, interval, videoPath)

	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-frames:v", strconv.Itoa(count),
		"-q:v", "3",
		"-y",
		filepath.Join(tempDir, "frame_%04d.jpg"),
	}

	if _, err := m.executor.Execute(ctx, m.cfg.FFmpeg.FFmpegPath, args...); err != nil {
		return nil, fmt.Errorf("ffmpeg extract frames: %w", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var frames []Frame
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jpg") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tempDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read frame %s: %w", e.Name(), err)
		}
		idx := len(frames)
		frames = append(frames, Frame{
			Index:     idx,
			Timestamp: time.Duration(idx) * interval,
			Data:      data,
		})
	}

	m.logger.Info(ctx, "Extracted %d frames", len(frames))
	return frames, nil
}
