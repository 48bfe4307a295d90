// Package subtitle holds the timed records produced by the analysis and
// renders them as SRT, WebVTT or JSON.
package subtitle

import (
	"encoding/json"
	"math"
	"time"
)

// Kind tells where a record came from.
type Kind string

const (
	KindVisual   Kind = "visual"
	KindDialogue Kind = "dialogue"
	KindMusic    Kind = "music"
)

// MusicMetrics describes a music segment.
type MusicMetrics struct {
	Genre       string   `json:"genre,omitempty"`
	Mood        string   `json:"mood,omitempty"`
	Tempo       int      `json:"tempo,omitempty"`  // BPM
	Energy      float64  `json:"energy,omitempty"` // 0..1
	Instruments []string `json:"instruments,omitempty"`
}

// Subtitle is a single timed record.
type Subtitle struct {
	Start       time.Duration
	End         time.Duration
	Kind        Kind
	Text        string
	Speaker     string
	Emotion     string
	Music       *MusicMetrics
	Translation string
}

type wireSubtitle struct {
	Start       float64       `json:"start"`
	End         float64       `json:"end"`
	Timestamp   string        `json:"timestamp,omitempty"`
	Kind        Kind          `json:"kind"`
	Text        string        `json:"text"`
	Speaker     string        `json:"speaker,omitempty"`
	Emotion     string        `json:"emotion,omitempty"`
	Music       *MusicMetrics `json:"music,omitempty"`
	Translation string        `json:"translation,omitempty"`
}

// MarshalJSON writes times as seconds plus a display timestamp.
func (s Subtitle) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSubtitle{
		Start:       s.Start.Seconds(),
		End:         s.End.Seconds(),
		Timestamp:   FormatClock(s.Start),
		Kind:        s.Kind,
		Text:        s.Text,
		Speaker:     s.Speaker,
		Emotion:     s.Emotion,
		Music:       s.Music,
		Translation: s.Translation,
	})
}

// UnmarshalJSON reads times as seconds; the display timestamp is ignored.
func (s *Subtitle) UnmarshalJSON(data []byte) error {
	var w wireSubtitle
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Subtitle{
		Start:       fromSeconds(w.Start),
		End:         fromSeconds(w.End),
		Kind:        w.Kind,
		Text:        w.Text,
		Speaker:     w.Speaker,
		Emotion:     w.Emotion,
		Music:       w.Music,
		Translation: w.Translation,
	}
	if s.Kind == "" {
		s.Kind = KindDialogue
	}
	return nil
}

func fromSeconds(sec float64) time.Duration {
	return time.Duration(math.Round(sec*1000)) * time.Millisecond
}

// Label renders the record text with its speaker or kind marker.
func Label(s Subtitle, useTranslation bool) string {
	text := s.Text
	if useTranslation && s.Translation != "" {
		text = s.Translation
	}

	switch s.Kind {
	case KindMusic:
		return "♪ " + text
	case KindVisual:
		return "(" + text + ")"
	}
	if s.Speaker != "" {
		return "[" + s.Speaker + "] " + text
	}
	return text
}
