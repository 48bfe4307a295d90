package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

// Translate returns a copy of subs with Translation filled in, batching
// requests by translate.batch_size.
func (p *implProcessor) Translate(ctx context.Context, subs []subtitle.Subtitle, target string) ([]subtitle.Subtitle, error) {
	out := make([]subtitle.Subtitle, len(subs))
	copy(out, subs)

	var idx []int
	for i, s := range out {
		if strings.TrimSpace(s.Text) != "" {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return out, nil
	}

	size := p.cfg.Translate.BatchSize
	if size <= 0 {
		size = len(idx)
	}

	p.logger.Info(ctx, "Translating %d records into %s", len(idx), target)

	for start := 0; start < len(idx); start += size {
		end := start + size
		if end > len(idx) {
			end = len(idx)
		}
		batch := idx[start:end]

		texts := make([]string, len(batch))
		for j, i := range batch {
			texts[j] = out[i].Text
		}

		translated, err := p.analyzer.Translate(ctx, texts, target)
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start+1, end, err)
		}
		for j, i := range batch {
			if j < len(translated) {
				out[i].Translation = translated[j]
			}
		}
	}

	return out, nil
}
