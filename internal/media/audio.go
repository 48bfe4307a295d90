package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/caption-lens/internal/audio"
)

const wavHeaderSize = 44

// ExtractAudio pulls the audio track out of the video and returns it as
// 16 kHz mono samples. ffmpeg only decodes to PCM at the source rate; the
// audio package downmixes and resamples while reading the file.
func (m *implMedia) ExtractAudio(ctx context.Context, videoPath string) (audio.PCM, error) {
	tempDir, err := os.MkdirTemp(m.cfg.Paths.Temp, "audio-*")
	if err != nil {
		return audio.PCM{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	sourcePath := filepath.Join(tempDir, "source.wav")

	m.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: no video, -c:a pcm_s16le: decode to 16-bit PCM at the source rate
	args := []string{
		"-i", videoPath,
		"-vn",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		"-threads", "0",
		"-y",
		sourcePath,
	}

	if _, err := m.executor.Execute(ctx, m.cfg.FFmpeg.FFmpegPath, args...); err != nil {
		return audio.PCM{}, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	// a bare 44-byte header means the container had no decodable audio
	if st, err := os.Stat(sourcePath); err == nil && st.Size() <= wavHeaderSize {
		return audio.PCM{}, ErrNoAudio
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return audio.PCM{}, fmt.Errorf("open extracted audio: %w", err)
	}
	defer f.Close()

	pcm, source, err := audio.DecodeWAVMono16k(f)
	if err != nil {
		return audio.PCM{}, fmt.Errorf("decode extracted audio: %w", err)
	}
	if len(pcm.Samples) == 0 {
		return audio.PCM{}, ErrNoAudio
	}

	m.logger.Info(ctx, "Audio extracted: %d Hz x%d -> %d Hz mono, %s",
		source.SampleRate, source.Channels, pcm.SampleRate, audio.Duration(pcm))
	return pcm, nil
}
