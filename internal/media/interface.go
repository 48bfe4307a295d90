package media

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/caption-lens/internal/audio"
)

// ErrNoAudio is returned when the video has no audio stream.
var ErrNoAudio = errors.New("video has no audio stream")

// Media wraps the ffmpeg/ffprobe operations the pipeline needs.
type Media interface {
	Probe(ctx context.Context, path string) (*Info, error)
	ExtractAudio(ctx context.Context, videoPath string) (audio.PCM, error)
	ExtractFrames(ctx context.Context, videoPath string, duration time.Duration) ([]Frame, error)
	BurnSubtitles(ctx context.Context, videoPath, srtPath, outputPath string) error
}

// Frame is a JPEG still taken from the video at Timestamp.
type Frame struct {
	Index     int
	Timestamp time.Duration
	Data      []byte
}

// Info is the subset of ffprobe output the pipeline uses.
type Info struct {
	Duration   time.Duration
	VideoCodec string
	AudioCodec string
	Width      int
	Height     int
	FrameRate  string
	SampleRate int
	Channels   int
}

// HasAudio reports whether the probe found an audio stream.
func (i *Info) HasAudio() bool {
	return i != nil && i.AudioCodec != ""
}
