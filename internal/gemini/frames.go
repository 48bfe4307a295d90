package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/caption-lens/internal/media"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

type frameDescription struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
}

// DescribeFrames sends the frames in one request. End times are left for
// subtitle.Normalize to fill from the next frame.
func (a *implAnalyzer) DescribeFrames(ctx context.Context, frames []media.Frame) ([]subtitle.Subtitle, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	byIndex := make(map[int]media.Frame, len(frames))
	parts := make([]*genai.Part, 0, 2*len(frames))
	for _, f := range frames {
		byIndex[f.Index] = f
		parts = append(parts,
			genai.NewPartFromText(fmt.Sprintf("Frame %d at %s:", f.Index, subtitle.FormatClock(f.Timestamp))),
			genai.NewPartFromBytes(f.Data, "image/jpeg"),
		)
	}

	a.logger.Debug(ctx, "Describing %d frames (%s .. %s)", len(frames),
		subtitle.FormatClock(frames[0].Timestamp), subtitle.FormatClock(frames[len(frames)-1].Timestamp))

	raw, err := a.generate(ctx, framesPrompt, parts, framesSchema)
	if err != nil {
		return nil, fmt.Errorf("describe frames: %w", err)
	}

	var descriptions []frameDescription
	if err := decodeJSON(raw, &descriptions); err != nil {
		return nil, fmt.Errorf("describe frames: %w", err)
	}

	subs := make([]subtitle.Subtitle, 0, len(descriptions))
	for _, d := range descriptions {
		f, ok := byIndex[d.Index]
		if !ok {
			a.logger.Warn(ctx, "Skipping description for unknown frame %d", d.Index)
			continue
		}
		text := strings.TrimSpace(d.Description)
		if text == "" {
			a.logger.Warn(ctx, "Frame %d returned an empty description", d.Index)
			continue
		}
		subs = append(subs, subtitle.Subtitle{
			Start: f.Timestamp,
			Kind:  subtitle.KindVisual,
			Text:  text,
		})
	}

	return subs, nil
}
