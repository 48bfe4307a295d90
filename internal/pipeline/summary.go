package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/nguyentantai21042004/caption-lens/internal/report"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

// summarize asks the model for a markdown summary of the transcript and
// writes <baseName>.summary.md, plus a .summary.docx when docx output is on.
// The summary is written in the target language when one is set.
func (p *implProcessor) summarize(ctx context.Context, baseName string, subs []subtitle.Subtitle, target string) ([]string, error) {
	if len(subs) == 0 {
		return nil, nil
	}

	p.logger.Info(ctx, "Summarizing %s", baseName)
	summary, err := p.analyzer.Summarize(ctx, report.Transcript(subs), target)
	if err != nil {
		return nil, err
	}
	md := report.SummaryMarkdown(baseName, summary)

	var outputs []string
	mdPath := filepath.Join(p.cfg.Paths.Output, baseName+".summary.md")
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	outputs = append(outputs, mdPath)

	if slices.Contains(p.cfg.Output.Formats, "docx") {
		docxPath := filepath.Join(p.cfg.Paths.Output, baseName+".summary.docx")
		if err := report.WriteSummaryDocx(baseName, md, docxPath); err != nil {
			return outputs, fmt.Errorf("write summary docx: %w", err)
		}
		outputs = append(outputs, docxPath)
	}

	return outputs, nil
}
