// Package report exports analyzed subtitles as a readable transcript document.
package report

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteDocx writes one paragraph per record: timestamp, label and text,
// with the translation and music details beneath.
func WriteDocx(title string, subs []subtitle.Subtitle, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	addStyledRun(doc.AddParagraph(""), summaryLine(subs), false, 11)
	doc.AddParagraph("")

	for _, s := range subs {
		p := doc.AddParagraph("")
		addStyledRun(p, "["+subtitle.FormatClock(s.Start)+"] ", true, fontSize)
		if tag := kindTag(s); tag != "" {
			addStyledRun(p, tag+" ", true, fontSize)
		}
		p.AddText(s.Text).Font(fontName).Size(fontSize).Color("000000")

		if s.Translation != "" {
			doc.AddParagraph("").AddText(s.Translation).Font(fontName).Size(fontSize).Color("444444").Italic(true)
		}
		if s.Music != nil {
			addStyledRun(doc.AddParagraph(""), musicLine(s.Music), false, 11)
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func kindTag(s subtitle.Subtitle) string {
	switch s.Kind {
	case subtitle.KindVisual:
		return "Scene:"
	case subtitle.KindMusic:
		return "Music:"
	}
	var tags []string
	if s.Speaker != "" {
		tags = append(tags, s.Speaker)
	}
	if s.Emotion != "" {
		tags = append(tags, "("+s.Emotion+")")
	}
	if len(tags) == 0 {
		return ""
	}
	return strings.Join(tags, " ") + ":"
}

func summaryLine(subs []subtitle.Subtitle) string {
	counts := map[subtitle.Kind]int{}
	for _, s := range subs {
		counts[s.Kind]++
	}
	return fmt.Sprintf("%d dialogue lines, %d music segments, %d scene descriptions",
		counts[subtitle.KindDialogue], counts[subtitle.KindMusic], counts[subtitle.KindVisual])
}

func musicLine(m *subtitle.MusicMetrics) string {
	var fields []string
	if m.Genre != "" {
		fields = append(fields, "genre "+m.Genre)
	}
	if m.Mood != "" {
		fields = append(fields, "mood "+m.Mood)
	}
	if m.Tempo > 0 {
		fields = append(fields, fmt.Sprintf("%d BPM", m.Tempo))
	}
	if m.Energy > 0 {
		fields = append(fields, fmt.Sprintf("energy %.0f%%", m.Energy*100))
	}
	if len(m.Instruments) > 0 {
		fields = append(fields, strings.Join(m.Instruments, ", "))
	}
	return "    " + strings.Join(fields, " · ")
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
