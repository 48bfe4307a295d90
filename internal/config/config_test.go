package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
				Paths:  PathsConfig{Output: "data/output"},
			},
			wantErr: false,
		},
		{
			name: "missing api keys",
			config: Config{
				Paths: PathsConfig{Output: "data/output"},
			},
			wantErr: true,
		},
		{
			name: "missing output path",
			config: Config{
				Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
			},
			wantErr: true,
		},
		{
			name: "unsupported output format",
			config: Config{
				Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
				Paths:  PathsConfig{Output: "data/output"},
				Output: OutputConfig{Formats: []string{"srt", "ass"}},
			},
			wantErr: true,
		},
		{
			name: "wrong sample rate",
			config: Config{
				Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
				Paths:  PathsConfig{Output: "data/output"},
				Audio:  AudioConfig{SampleRate: 44100},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Gemini: GeminiConfig{APIKeys: []string{"key-1"}},
		Paths:  PathsConfig{Output: "out"},
		Output: OutputConfig{Formats: []string{" DOCX "}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q, want gemini-2.5-flash", cfg.Gemini.Model)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Chunk != 5*time.Minute {
		t.Errorf("Chunk = %v, want 5m", cfg.Audio.Chunk)
	}
	if cfg.Frames.Interval != 5*time.Second || cfg.Frames.MaxFrames != 30 {
		t.Errorf("Frames = %+v, want 5s interval and 30 frames", cfg.Frames)
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", cfg.Performance.MaxConcurrent)
	}
	if cfg.Output.Formats[0] != "docx" {
		t.Errorf("Formats[0] = %q, want docx", cfg.Output.Formats[0])
	}
	if !cfg.FramesEnabled() {
		t.Error("FramesEnabled() = false, want true by default")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CAPTIONLENS_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
gemini:
  api_keys: ["key-1", "key-2"]
  model: "gemini-2.0-flash"
  timeout: 90s

audio:
  chunk: 2m

frames:
  enabled: false
  interval: 10s

translate:
  target_language: "vi"

paths:
  input: "data/input"
  output: "data/output"

logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Gemini.APIKeys) != 2 {
		t.Errorf("APIKeys = %v, want 2 keys", cfg.Gemini.APIKeys)
	}
	if cfg.Gemini.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Gemini.Timeout)
	}
	if cfg.Audio.Chunk != 2*time.Minute {
		t.Errorf("Chunk = %v, want 2m", cfg.Audio.Chunk)
	}
	if cfg.FramesEnabled() {
		t.Error("FramesEnabled() = true, want false")
	}
	if cfg.Translate.TargetLanguage != "vi" {
		t.Errorf("TargetLanguage = %q, want vi", cfg.Translate.TargetLanguage)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "a, b,,c")
	t.Setenv("CAPTIONLENS_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("paths:\n  output: out\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(cfg.Gemini.APIKeys); got != 3 {
		t.Errorf("len(APIKeys) = %d, want 3", got)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadExampleConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Frames.MaxFrames != 30 || cfg.Audio.Chunk != 5*time.Minute {
		t.Errorf("frames/audio = %+v %+v", cfg.Frames, cfg.Audio)
	}
	if len(cfg.Output.Formats) != 4 || cfg.Output.Summary {
		t.Errorf("output = %+v", cfg.Output)
	}
	if !cfg.FramesEnabled() {
		t.Error("frames should be enabled")
	}
}
