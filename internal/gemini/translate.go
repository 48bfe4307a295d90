package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Translate sends numbered lines and maps the returned array back by
// position. Missing or blank translations keep the original text.
func (a *implAnalyzer) Translate(ctx context.Context, texts []string, target string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("translate: target language is required")
	}

	var prompt strings.Builder
	prompt.WriteString("Input lines:\n")
	for i, t := range texts {
		fmt.Fprintf(&prompt, "[%d] %s\n", i+1, strings.ReplaceAll(t, "\n", " "))
	}
	fmt.Fprintf(&prompt, "\nReturn exactly %d translations as a JSON array of strings.", len(texts))

	raw, err := a.generate(ctx, fmt.Sprintf(translatePrompt, target),
		[]*genai.Part{genai.NewPartFromText(prompt.String())}, translateSchema)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	var translations []string
	if err := decodeJSON(raw, &translations); err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	if len(translations) != len(texts) {
		a.logger.Warn(ctx, "Expected %d translations, got %d", len(texts), len(translations))
	}

	result := make([]string, len(texts))
	emptyCount := 0
	for i, t := range texts {
		if i < len(translations) && strings.TrimSpace(translations[i]) != "" {
			result[i] = strings.TrimSpace(translations[i])
		} else {
			result[i] = t
			emptyCount++
		}
	}

	if emptyCount > 0 {
		a.logger.Warn(ctx, "%d/%d translations were empty, kept original text", emptyCount, len(texts))
	}

	return result, nil
}
