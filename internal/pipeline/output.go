package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/caption-lens/internal/report"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

// Export writes subs under paths.output as <baseName>.<format>. When a
// target language is given and translations exist, translated SRT/VTT
// copies are written as <baseName>.<lang>.<format>.
func (p *implProcessor) Export(ctx context.Context, baseName string, subs []subtitle.Subtitle, target string) ([]string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	translated := target != "" && hasTranslation(subs)
	lang := languageTag(target)

	var outputs []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(p.cfg.Paths.Output, name)
		if err := writeFile(path, fn); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		p.logger.Debug(ctx, "Wrote %s", path)
		outputs = append(outputs, path)
		return nil
	}

	for _, format := range p.cfg.Output.Formats {
		var err error
		switch format {
		case "srt":
			err = write(baseName+".srt", func(w io.Writer) error { return subtitle.WriteSRT(w, subs, false) })
			if err == nil && translated {
				err = write(baseName+"."+lang+".srt", func(w io.Writer) error { return subtitle.WriteSRT(w, subs, true) })
			}
		case "vtt":
			err = write(baseName+".vtt", func(w io.Writer) error { return subtitle.WriteVTT(w, subs, false) })
			if err == nil && translated {
				err = write(baseName+"."+lang+".vtt", func(w io.Writer) error { return subtitle.WriteVTT(w, subs, true) })
			}
		case "json":
			err = write(baseName+".json", func(w io.Writer) error { return subtitle.WriteJSON(w, subs) })
		case "docx":
			path := filepath.Join(p.cfg.Paths.Output, baseName+".docx")
			if err = report.WriteDocx(baseName, subs, path); err == nil {
				outputs = append(outputs, path)
			}
		}
		if err != nil {
			return outputs, err
		}
	}

	return outputs, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func hasTranslation(subs []subtitle.Subtitle) bool {
	for _, s := range subs {
		if s.Translation != "" {
			return true
		}
	}
	return false
}

// languageTag turns a target such as "Brazilian Portuguese" into a file-name
// friendly "brazilian-portuguese".
func languageTag(target string) string {
	fields := strings.Fields(strings.ToLower(target))
	tag := strings.Join(fields, "-")
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '-'
		}
		return r
	}, tag)
}
