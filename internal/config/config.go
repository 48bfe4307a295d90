package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Gemini      GeminiConfig      `yaml:"gemini"`
	Audio       AudioConfig       `yaml:"audio"`
	Frames      FramesConfig      `yaml:"frames"`
	Translate   TranslateConfig   `yaml:"translate"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Output      OutputConfig      `yaml:"output"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type GeminiConfig struct {
	APIKeys     []string      `yaml:"api_keys"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type AudioConfig struct {
	SampleRate int           `yaml:"sample_rate"`
	Chunk      time.Duration `yaml:"chunk"`
}

type FramesConfig struct {
	Enabled   *bool         `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	MaxFrames int           `yaml:"max_frames"`
	BatchSize int           `yaml:"batch_size"`
	Width     int           `yaml:"width"`
}

type TranslateConfig struct {
	TargetLanguage string `yaml:"target_language"`
	BatchSize      int    `yaml:"batch_size"`
}

type FFmpegConfig struct {
	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFprobePath  string `yaml:"ffprobe_path"`
	BurnIn       bool   `yaml:"burn_in"`
	VideoBitrate string `yaml:"video_bitrate"`
	AudioCodec   string `yaml:"audio_codec"`
	Encoder      string `yaml:"encoder"`
	Preset       string `yaml:"preset"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type OutputConfig struct {
	Formats []string `yaml:"formats"`
	Summary bool     `yaml:"summary"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	MaxUploadMB int64    `yaml:"max_upload_mb"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

var supportedFormats = map[string]bool{
	"srt":  true,
	"vtt":  true,
	"json": true,
	"docx": true,
}

// FramesEnabled reports whether visual frame descriptions are requested.
func (c *Config) FramesEnabled() bool {
	return c.Frames.Enabled == nil || *c.Frames.Enabled
}

func (c *Config) Validate() error {
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required (or set GEMINI_API_KEY)")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	for i, f := range c.Output.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !supportedFormats[f] {
			return fmt.Errorf("output.formats: unsupported format %q", f)
		}
		c.Output.Formats[i] = f
	}
	if c.Audio.SampleRate != 0 && c.Audio.SampleRate != 16000 {
		return fmt.Errorf("audio.sample_rate must be 16000, got %d", c.Audio.SampleRate)
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.3
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 5 * time.Minute
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.Chunk == 0 {
		c.Audio.Chunk = 5 * time.Minute
	}
	if c.Frames.Interval == 0 {
		c.Frames.Interval = 5 * time.Second
	}
	if c.Frames.MaxFrames == 0 {
		c.Frames.MaxFrames = 30
	}
	if c.Frames.BatchSize == 0 {
		c.Frames.BatchSize = 8
	}
	if c.Frames.Width == 0 {
		c.Frames.Width = 640
	}
	if c.Translate.BatchSize == 0 {
		c.Translate.BatchSize = 50
	}
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.FFmpeg.Encoder == "" {
		c.FFmpeg.Encoder = "libx264"
	}
	if c.FFmpeg.VideoBitrate == "" {
		c.FFmpeg.VideoBitrate = "5M"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "copy"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"srt", "vtt", "json"}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 512
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
