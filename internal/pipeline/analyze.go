package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/caption-lens/internal/audio"
	"github.com/nguyentantai21042004/caption-lens/internal/media"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

// Analyze extracts audio and frames, sends them to the model and returns the
// merged records sorted by timestamp.
func (p *implProcessor) Analyze(ctx context.Context, videoPath string, opts Options) (*Result, error) {
	startTime := time.Now()

	// Step 1: Probe
	info, err := p.media.Probe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	if !info.HasAudio() {
		return nil, fmt.Errorf("extract audio: %w", media.ErrNoAudio)
	}

	// Step 2: Extract audio as 16 kHz mono
	pcm, err := p.media.ExtractAudio(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	duration := info.Duration
	if duration <= 0 {
		duration = audio.Duration(pcm)
	}

	// Step 3: Sample frames (the visual track is optional)
	var frames []media.Frame
	if p.cfg.FramesEnabled() {
		frames, err = p.media.ExtractFrames(ctx, videoPath, duration)
		if err != nil {
			p.logger.Warn(ctx, "Failed to extract frames, continuing with audio only: %v", err)
			frames = nil
		}
	}

	// Step 4: Ask the model
	audioSubs, visualSubs, err := p.runAnalysis(ctx, pcm, frames)
	if err != nil {
		return nil, err
	}

	// Step 5: Merge and sort by timestamp
	subs := subtitle.Merge(audioSubs, visualSubs)
	subtitle.Normalize(subs, p.cfg.Frames.Interval)

	// Step 6: Translate
	if opts.TargetLanguage != "" {
		subs, err = p.Translate(ctx, subs, opts.TargetLanguage)
		if err != nil {
			return nil, fmt.Errorf("translate: %w", err)
		}
	}

	p.logger.Info(ctx, "Analysis of %s finished: %d dialogue/music + %d visual records in %s",
		videoPath, len(audioSubs), len(visualSubs), time.Since(startTime))

	return &Result{
		Video:     videoPath,
		Duration:  duration,
		Info:      info,
		Subtitles: subs,
		Elapsed:   time.Since(startTime),
	}, nil
}

// runAnalysis sends audio chunks and frame batches concurrently, at most
// performance.max_concurrent requests at a time. An audio failure cancels
// the rest; frame failures only drop that batch.
func (p *implProcessor) runAnalysis(ctx context.Context, pcm audio.PCM, frames []media.Frame) ([]subtitle.Subtitle, []subtitle.Subtitle, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := audio.Split(pcm, p.cfg.Audio.Chunk)
	batches := batchFrames(frames, p.cfg.Frames.BatchSize)
	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)

	p.logger.Info(ctx, "Sending %d audio chunks and %d frame batches to %s",
		len(chunks), len(batches), p.cfg.Gemini.Model)

	audioResults := make([][]subtitle.Subtitle, len(chunks))
	visualResults := make([][]subtitle.Subtitle, len(batches))

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		audioErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			audioErr = err
			cancel()
		})
	}

	for i, chunk := range chunks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.acquire(ctx); err != nil {
				fail(err)
				return
			}
			defer sem.release()

			subs, err := p.analyzeChunk(ctx, chunk)
			if err != nil {
				fail(fmt.Errorf("analyze audio chunk %d at %s: %w", i+1, subtitle.FormatClock(chunk.Offset), err))
				return
			}
			audioResults[i] = subs
		}()
	}

	for i, batch := range batches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.acquire(ctx); err != nil {
				return
			}
			defer sem.release()

			subs, err := p.analyzer.DescribeFrames(ctx, batch)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Warn(ctx, "Frame batch %d/%d failed, skipping: %v", i+1, len(batches), err)
				}
				return
			}
			visualResults[i] = subs
		}()
	}

	wg.Wait()
	if audioErr != nil {
		return nil, nil, audioErr
	}

	return flatten(audioResults), flatten(visualResults), nil
}

func (p *implProcessor) analyzeChunk(ctx context.Context, chunk audio.Chunk) ([]subtitle.Subtitle, error) {
	wav, err := audio.WAVBytes(chunk.PCM)
	if err != nil {
		return nil, err
	}

	subs, err := p.analyzer.AnalyzeAudio(ctx, wav, audio.Duration(chunk.PCM))
	if err != nil {
		return nil, err
	}

	subtitle.Shift(subs, chunk.Offset)
	return subs, nil
}

func batchFrames(frames []media.Frame, size int) [][]media.Frame {
	if size <= 0 {
		size = len(frames)
	}
	var batches [][]media.Frame
	for start := 0; start < len(frames); start += size {
		end := start + size
		if end > len(frames) {
			end = len(frames)
		}
		batches = append(batches, frames[start:end])
	}
	return batches
}

func flatten(parts [][]subtitle.Subtitle) []subtitle.Subtitle {
	var out []subtitle.Subtitle
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
