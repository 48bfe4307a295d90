package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultSummaryLanguage = "English"

// Summarize sends the transcript and returns the model's markdown summary.
func (a *implAnalyzer) Summarize(ctx context.Context, transcript string, language string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("summarize: transcript is empty")
	}
	if strings.TrimSpace(language) == "" {
		language = defaultSummaryLanguage
	}

	parts := []*genai.Part{genai.NewPartFromText("Transcript:\n---\n" + transcript + "\n---")}
	text, err := a.generate(ctx, fmt.Sprintf(summaryPrompt, language), parts, nil)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return stripFence(text), nil
}

// stripFence removes a ```markdown fence wrapped around the whole reply.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], " ") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}
