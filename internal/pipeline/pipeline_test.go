package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-lens/internal/audio"
	"github.com/nguyentantai21042004/caption-lens/internal/config"
	"github.com/nguyentantai21042004/caption-lens/internal/logger"
	"github.com/nguyentantai21042004/caption-lens/internal/media"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

type fakeMedia struct {
	info      *media.Info
	pcm       audio.PCM
	frames    []media.Frame
	framesErr error
	burned    []string
}

func (f *fakeMedia) Probe(context.Context, string) (*media.Info, error) {
	return f.info, nil
}

func (f *fakeMedia) ExtractAudio(context.Context, string) (audio.PCM, error) {
	return f.pcm, nil
}

func (f *fakeMedia) ExtractFrames(context.Context, string, time.Duration) ([]media.Frame, error) {
	return f.frames, f.framesErr
}

func (f *fakeMedia) BurnSubtitles(_ context.Context, _, srtPath, outputPath string) error {
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return err
	}
	f.burned = append(f.burned, string(data))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("video"), 0644)
}

type fakeAnalyzer struct {
	mu           sync.Mutex
	audioLengths []time.Duration
	framesErr    error
	audioErr     error
	inFlight     int32
	maxInFlight  int32
	translations int
	summaries    []string
}

func (f *fakeAnalyzer) track() func() {
	n := atomic.AddInt32(&f.inFlight, 1)
	for {
		cur := atomic.LoadInt32(&f.maxInFlight)
		if n <= cur || atomic.CompareAndSwapInt32(&f.maxInFlight, cur, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return func() { atomic.AddInt32(&f.inFlight, -1) }
}

func (f *fakeAnalyzer) DescribeFrames(_ context.Context, frames []media.Frame) ([]subtitle.Subtitle, error) {
	defer f.track()()
	if f.framesErr != nil {
		return nil, f.framesErr
	}
	var subs []subtitle.Subtitle
	for _, fr := range frames {
		subs = append(subs, subtitle.Subtitle{Start: fr.Timestamp, Kind: subtitle.KindVisual, Text: "scene"})
	}
	return subs, nil
}

func (f *fakeAnalyzer) AnalyzeAudio(_ context.Context, wav []byte, length time.Duration) ([]subtitle.Subtitle, error) {
	defer f.track()()
	if f.audioErr != nil {
		return nil, f.audioErr
	}
	if string(wav[:4]) != "RIFF" {
		return nil, errors.New("not a wav")
	}
	f.mu.Lock()
	f.audioLengths = append(f.audioLengths, length)
	f.mu.Unlock()
	return []subtitle.Subtitle{
		{Start: time.Second, End: 2 * time.Second, Kind: subtitle.KindDialogue, Text: "hello", Speaker: "A"},
	}, nil
}

func (f *fakeAnalyzer) Translate(_ context.Context, texts []string, target string) ([]string, error) {
	f.mu.Lock()
	f.translations++
	f.mu.Unlock()
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = target + ":" + t
	}
	return out, nil
}

func (f *fakeAnalyzer) Summarize(_ context.Context, transcript string, language string) (string, error) {
	f.mu.Lock()
	f.summaries = append(f.summaries, transcript)
	f.mu.Unlock()
	return "## Overview\n- summary in " + language, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Gemini: config.GeminiConfig{APIKeys: []string{"k"}},
		Audio:  config.AudioConfig{Chunk: 10 * time.Second},
		Frames: config.FramesConfig{BatchSize: 2},
		Paths: config.PathsConfig{
			Output:   filepath.Join(t.TempDir(), "out"),
			Archived: filepath.Join(t.TempDir(), "archived"),
			Temp:     t.TempDir(),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

// 25 s of silence at 16 kHz and a frame every 5 s.
func newFakes() (*fakeMedia, *fakeAnalyzer) {
	m := &fakeMedia{
		info: &media.Info{Duration: 25 * time.Second, AudioCodec: "aac"},
		pcm:  audio.PCM{SampleRate: 16000, Channels: 1, Samples: make([]float32, 25*16000)},
	}
	for i := 0; i < 5; i++ {
		m.frames = append(m.frames, media.Frame{Index: i, Timestamp: time.Duration(i) * 5 * time.Second})
	}
	return m, &fakeAnalyzer{}
}

func TestAnalyze(t *testing.T) {
	cfg := testConfig(t)
	m, a := newFakes()
	p := New(cfg, m, a, logger.Nop())

	result, err := p.Analyze(context.Background(), "clip.mp4", Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// 3 audio chunks (10s, 10s, 5s) with one line each, plus 5 frames
	if len(result.Subtitles) != 8 {
		t.Fatalf("len = %d, want 8", len(result.Subtitles))
	}
	if len(a.audioLengths) != 3 {
		t.Errorf("audio chunks = %d, want 3", len(a.audioLengths))
	}

	var dialogueStarts []time.Duration
	for i, s := range result.Subtitles {
		if i > 0 && s.Start < result.Subtitles[i-1].Start {
			t.Errorf("records not sorted at %d", i)
		}
		if s.End <= s.Start {
			t.Errorf("record %d has no duration: %+v", i, s)
		}
		if s.Kind == subtitle.KindDialogue {
			dialogueStarts = append(dialogueStarts, s.Start)
		}
	}
	want := []time.Duration{time.Second, 11 * time.Second, 21 * time.Second}
	for i, w := range want {
		if dialogueStarts[i] != w {
			t.Errorf("dialogue %d starts at %v, want %v (chunk offset)", i, dialogueStarts[i], w)
		}
	}

	if a.maxInFlight > int32(cfg.Performance.MaxConcurrent) {
		t.Errorf("max in flight = %d, want <= %d", a.maxInFlight, cfg.Performance.MaxConcurrent)
	}
}

func TestAnalyzeNoAudio(t *testing.T) {
	cfg := testConfig(t)
	m, a := newFakes()
	m.info.AudioCodec = ""

	_, err := New(cfg, m, a, logger.Nop()).Analyze(context.Background(), "clip.mp4", Options{})
	if !errors.Is(err, media.ErrNoAudio) {
		t.Errorf("Analyze() error = %v, want ErrNoAudio", err)
	}
}

func TestAnalyzeAudioFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)
	m, a := newFakes()
	a.audioErr = errors.New("boom")

	_, err := New(cfg, m, a, logger.Nop()).Analyze(context.Background(), "clip.mp4", Options{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Analyze() error = %v, want wrapped boom", err)
	}
}

func TestAnalyzeFrameFailuresAreSkipped(t *testing.T) {
	cfg := testConfig(t)
	m, a := newFakes()
	a.framesErr = errors.New("blocked")

	result, err := New(cfg, m, a, logger.Nop()).Analyze(context.Background(), "clip.mp4", Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for _, s := range result.Subtitles {
		if s.Kind == subtitle.KindVisual {
			t.Fatal("visual records should be dropped when descriptions fail")
		}
	}

	m.framesErr = errors.New("ffmpeg broke")
	a.framesErr = nil
	if _, err := New(cfg, m, a, logger.Nop()).Analyze(context.Background(), "clip.mp4", Options{}); err != nil {
		t.Errorf("frame extraction failure should not be fatal: %v", err)
	}
}

func TestAnalyzeFramesDisabled(t *testing.T) {
	cfg := testConfig(t)
	disabled := false
	cfg.Frames.Enabled = &disabled
	m, a := newFakes()

	result, err := New(cfg, m, a, logger.Nop()).Analyze(context.Background(), "clip.mp4", Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(result.Subtitles) != 3 {
		t.Errorf("len = %d, want only the 3 dialogue records", len(result.Subtitles))
	}
}

func TestTranslateBatches(t *testing.T) {
	cfg := testConfig(t)
	cfg.Translate.BatchSize = 2
	_, a := newFakes()
	p := New(cfg, &fakeMedia{}, a, logger.Nop())

	subs := []subtitle.Subtitle{{Text: "a"}, {Text: " "}, {Text: "b"}, {Text: "c"}}
	got, err := p.Translate(context.Background(), subs, "fr")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if a.translations != 2 {
		t.Errorf("requests = %d, want 2", a.translations)
	}
	want := []string{"fr:a", "", "fr:b", "fr:c"}
	for i := range want {
		if got[i].Translation != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Translation, want[i])
		}
	}
	if subs[0].Translation != "" {
		t.Error("Translate() must not modify its input")
	}
}

func TestProcess(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Formats = []string{"srt", "vtt", "json", "docx"}
	cfg.Translate.TargetLanguage = "Brazilian Portuguese"
	cfg.FFmpeg.BurnIn = true
	m, a := newFakes()

	result, err := New(cfg, m, a, logger.Nop()).Process(context.Background(), filepath.Join("in", "my clip.mp4"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	wantFiles := []string{
		"my clip.srt",
		"my clip.brazilian-portuguese.srt",
		"my clip.vtt",
		"my clip.brazilian-portuguese.vtt",
		"my clip.json",
		"my clip.docx",
		filepath.Join("videos", "my clip.mp4"),
	}
	if len(result.Outputs) != len(wantFiles) {
		t.Fatalf("outputs = %v", result.Outputs)
	}
	for i, name := range wantFiles {
		want := filepath.Join(cfg.Paths.Output, name)
		if result.Outputs[i] != want {
			t.Errorf("output %d = %s, want %s", i, result.Outputs[i], want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("missing %s: %v", want, err)
		}
	}

	translated, _ := os.ReadFile(filepath.Join(cfg.Paths.Output, "my clip.brazilian-portuguese.srt"))
	if !strings.Contains(string(translated), "[A] Brazilian Portuguese:hello") {
		t.Errorf("translated srt:\n%s", translated)
	}
	if len(m.burned) != 1 || !strings.Contains(m.burned[0], "Brazilian Portuguese:hello") {
		t.Errorf("burn-in should use the translated track, got %v", m.burned)
	}
}

func TestProcessSummary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Formats = []string{"json", "docx"}
	cfg.Output.Summary = true
	cfg.Translate.TargetLanguage = "German"
	m, a := newFakes()

	result, err := New(cfg, m, a, logger.Nop()).Process(context.Background(), "talk.mov")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	wantTail := []string{
		filepath.Join(cfg.Paths.Output, "talk.summary.md"),
		filepath.Join(cfg.Paths.Output, "talk.summary.docx"),
	}
	if len(result.Outputs) != 4 {
		t.Fatalf("outputs = %v", result.Outputs)
	}
	for i, want := range wantTail {
		if got := result.Outputs[2+i]; got != want {
			t.Errorf("output = %s, want %s", got, want)
		}
	}

	md, err := os.ReadFile(wantTail[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(md), "# talk\n") || !strings.Contains(string(md), "summary in German") {
		t.Errorf("summary:\n%s", md)
	}
	if len(a.summaries) != 1 || !strings.Contains(a.summaries[0], "[00:01] [A] hello") {
		t.Errorf("transcript = %v", a.summaries)
	}
}

func TestArchive(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(src, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	p := New(cfg, &fakeMedia{}, &fakeAnalyzer{}, logger.Nop())
	if err := p.Archive(context.Background(), src); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "clip.mp4")); err != nil {
		t.Errorf("archived copy missing: %v", err)
	}
}

func TestLanguageTag(t *testing.T) {
	tests := map[string]string{
		"vi":                   "vi",
		"Brazilian Portuguese": "brazilian-portuguese",
		"zh/TW":                "zh-tw",
	}
	for in, want := range tests {
		if got := languageTag(in); got != want {
			t.Errorf("languageTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSemaphoreRespectsContext(t *testing.T) {
	sem := newSemaphore(0)
	if err := sem.acquire(context.Background()); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sem.acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("acquire() = %v, want context.Canceled", err)
	}
}
