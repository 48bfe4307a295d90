package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// generate sends the request and returns the response text. A nil schema
// asks for free text instead of JSON.
// Rotates API keys on 429 / quota errors.
func (a *implAnalyzer) generate(ctx context.Context, system string, parts []*genai.Part, schema *genai.Schema) (string, error) {
	if len(a.apiKeys) == 0 {
		return "", ErrNoAPIKey
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(a.temperature),
	}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}

	var lastErr error
	for range len(a.apiKeys) {
		keyIndex, client, err := a.client(ctx)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			a.rotateKey(keyIndex)
			continue
		}

		text, err := a.call(ctx, client, contents, cfg)
		if err != nil {
			if isRateLimited(err) {
				a.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIndex+1)
				a.rotateKey(keyIndex)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (a *implAnalyzer) call(ctx context.Context, client contentGenerator, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	result, err := client.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}

	if result != nil && result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: blocked (%s)", ErrEmptyResponse, result.PromptFeedback.BlockReason)
	}
	return "", ErrEmptyResponse
}

// client returns the client for the current key, creating it on first use.
func (a *implAnalyzer) client(ctx context.Context) (int, contentGenerator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.currentKey
	key := a.apiKeys[idx]
	if c, ok := a.clients[key]; ok {
		return idx, c, nil
	}

	c, err := a.newClient(ctx, key)
	if err != nil {
		return idx, nil, err
	}
	a.clients[key] = c
	return idx, c, nil
}

// rotateKey advances past the given key. Concurrent callers that saw the
// same failing key only rotate once.
func (a *implAnalyzer) rotateKey(from int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentKey == from {
		a.currentKey = (a.currentKey + 1) % len(a.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

var codeFenceRe = regexp.MustCompile("(?s)```[^\\n]*\\n(.*?)\\n?```")

// decodeJSON unmarshals a model reply, tolerating code fences and prose
// around the JSON payload.
func decodeJSON(raw string, v interface{}) error {
	s := strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	err := json.Unmarshal([]byte(s), v)
	if err == nil {
		return nil
	}

	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(s, pair[0])
		end := strings.LastIndex(s, pair[1])
		if start >= 0 && end > start {
			if err2 := json.Unmarshal([]byte(s[start:end+1]), v); err2 == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("parse model response: %w (raw: %s)", err, truncate(raw, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
