package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// hours are optional in WebVTT cue timings
var cueTimeRe = regexp.MustCompile(`((?:\d+:)?\d{2}:\d{2}[.,]\d{1,3})\s*-->\s*((?:\d+:)?\d{2}:\d{2}[.,]\d{1,3})`)

// WriteSRT renders records as SubRip. With useTranslation the translated
// text replaces the original where present.
func WriteSRT(w io.Writer, subs []Subtitle, useTranslation bool) error {
	bw := bufio.NewWriter(w)
	for i, s := range subs {
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1, formatTimecode(s.Start, ","), formatTimecode(s.End, ","), Label(s, useTranslation))
	}
	return bw.Flush()
}

// ParseSRT reads SubRip (or WebVTT) cues back into records, recovering the
// kind and speaker from the cue labels.
func ParseSRT(r io.Reader) ([]Subtitle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	var subs []Subtitle
	var current *Subtitle
	var text []string

	flush := func() {
		if current != nil && len(text) > 0 {
			current.Text = strings.Join(text, "\n")
			subs = append(subs, unlabel(*current))
		}
		current = nil
		text = nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if m := cueTimeRe.FindStringSubmatch(line); m != nil {
			flush()
			start, err := ParseClock(m[1])
			if err != nil {
				return nil, err
			}
			end, err := ParseClock(m[2])
			if err != nil {
				return nil, err
			}
			current = &Subtitle{Start: start, End: end, Kind: KindDialogue}
			continue
		}

		if line == "" {
			flush()
			continue
		}

		// cue numbers and the WEBVTT header sit outside a cue
		if current == nil {
			continue
		}
		text = append(text, line)
	}
	flush()

	return subs, nil
}

var speakerRe = regexp.MustCompile(`^\[([^\]]+)\]\s*(.*)$`)

func unlabel(s Subtitle) Subtitle {
	switch {
	case strings.HasPrefix(s.Text, "♪ "):
		s.Kind = KindMusic
		s.Text = strings.TrimPrefix(s.Text, "♪ ")
	case strings.HasPrefix(s.Text, "(") && strings.HasSuffix(s.Text, ")"):
		s.Kind = KindVisual
		s.Text = s.Text[1 : len(s.Text)-1]
	default:
		if m := speakerRe.FindStringSubmatch(s.Text); m != nil {
			s.Speaker = m[1]
			s.Text = m[2]
		}
	}
	return s
}
