package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

type audioSegment struct {
	Start   subtitle.Timecode `json:"start"`
	End     subtitle.Timecode `json:"end"`
	Type    string            `json:"type"`
	Text    string            `json:"text"`
	Speaker string            `json:"speaker"`
	Emotion string            `json:"emotion"`
	Music   *musicWire        `json:"music"`
}

type musicWire struct {
	Genre       string   `json:"genre"`
	Mood        string   `json:"mood"`
	Tempo       float64  `json:"tempo"`
	Energy      float64  `json:"energy"`
	Instruments []string `json:"instruments"`
}

// AnalyzeAudio uploads the WAV inline and converts the returned segments.
func (a *implAnalyzer) AnalyzeAudio(ctx context.Context, wav []byte, length time.Duration) ([]subtitle.Subtitle, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf("The clip is %.1f seconds long.", length.Seconds())),
		genai.NewPartFromBytes(wav, "audio/wav"),
	}

	a.logger.Debug(ctx, "Analyzing %s of audio (%d bytes)", length, len(wav))

	raw, err := a.generate(ctx, audioPrompt, parts, audioSchema)
	if err != nil {
		return nil, fmt.Errorf("analyze audio: %w", err)
	}

	var segments []audioSegment
	if err := decodeJSON(raw, &segments); err != nil {
		return nil, fmt.Errorf("analyze audio: %w", err)
	}

	subs := make([]subtitle.Subtitle, 0, len(segments))
	for _, seg := range segments {
		s, ok := toSubtitle(seg, length)
		if !ok {
			continue
		}
		subs = append(subs, s)
	}

	return subs, nil
}

// toSubtitle clamps a segment into [0, length] and drops segments that
// carry nothing to show.
func toSubtitle(seg audioSegment, length time.Duration) (subtitle.Subtitle, bool) {
	start, end := seg.Start.Duration(), seg.End.Duration()
	if start < 0 {
		start = 0
	}
	if length > 0 {
		if start >= length {
			return subtitle.Subtitle{}, false
		}
		if end > length {
			end = length
		}
	}

	text := strings.TrimSpace(seg.Text)
	s := subtitle.Subtitle{
		Start:   start,
		End:     end,
		Text:    text,
		Speaker: strings.TrimSpace(seg.Speaker),
		Emotion: strings.ToLower(strings.TrimSpace(seg.Emotion)),
	}

	switch strings.ToLower(seg.Type) {
	case "speech", "dialogue":
		if text == "" {
			return subtitle.Subtitle{}, false
		}
		s.Kind = subtitle.KindDialogue
	case "music":
		s.Kind = subtitle.KindMusic
		s.Speaker = ""
		if seg.Music != nil {
			s.Music = &subtitle.MusicMetrics{
				Genre:       seg.Music.Genre,
				Mood:        seg.Music.Mood,
				Tempo:       int(seg.Music.Tempo + 0.5),
				Energy:      clamp01(seg.Music.Energy),
				Instruments: seg.Music.Instruments,
			}
		}
		if s.Text == "" {
			s.Text = describeMusic(s.Music)
		}
	default:
		return subtitle.Subtitle{}, false
	}

	return s, true
}

func describeMusic(m *subtitle.MusicMetrics) string {
	if m == nil {
		return "music"
	}
	var words []string
	for _, w := range []string{m.Mood, m.Genre} {
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return "music"
	}
	return strings.Join(words, " ") + " music"
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
