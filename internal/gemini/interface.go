package gemini

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/caption-lens/internal/media"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

var (
	ErrNoAPIKey      = errors.New("no Gemini API key configured")
	ErrEmptyResponse = errors.New("empty response from Gemini")
)

// Analyzer sends frames, audio and text to Gemini.
type Analyzer interface {
	// DescribeFrames returns one visual record per described frame.
	DescribeFrames(ctx context.Context, frames []media.Frame) ([]subtitle.Subtitle, error)
	// AnalyzeAudio transcribes speech and characterizes music in a WAV clip.
	// Returned times are relative to the start of the clip.
	AnalyzeAudio(ctx context.Context, wav []byte, length time.Duration) ([]subtitle.Subtitle, error)
	// Translate returns one translation per input text, in order.
	Translate(ctx context.Context, texts []string, target string) ([]string, error)
	// Summarize writes a markdown summary of a timed transcript in language.
	Summarize(ctx context.Context, transcript string, language string) (string, error)
}

// contentGenerator is the part of *genai.Models the analyzer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type clientFactory func(ctx context.Context, apiKey string) (contentGenerator, error)
