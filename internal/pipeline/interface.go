package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/caption-lens/internal/media"
	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

// Processor turns a video into timed subtitle records and output files.
type Processor interface {
	// Process analyzes the video and writes every configured output.
	Process(ctx context.Context, videoPath string) (*Result, error)
	// Analyze runs the analysis without writing anything.
	Analyze(ctx context.Context, videoPath string, opts Options) (*Result, error)
	// Translate fills the Translation field of every record with text.
	Translate(ctx context.Context, subs []subtitle.Subtitle, target string) ([]subtitle.Subtitle, error)
	// Export writes subs in the configured formats under paths.output.
	Export(ctx context.Context, baseName string, subs []subtitle.Subtitle, target string) ([]string, error)
	// Archive moves a processed video out of the input folder.
	Archive(ctx context.Context, videoPath string) error
}

// Options override per-run settings.
type Options struct {
	TargetLanguage string
}

// Result is the outcome of one run.
type Result struct {
	Video     string              `json:"video"`
	Duration  time.Duration       `json:"-"`
	Info      *media.Info         `json:"-"`
	Subtitles []subtitle.Subtitle `json:"subtitles"`
	Outputs   []string            `json:"outputs,omitempty"`
	Elapsed   time.Duration       `json:"-"`
}
