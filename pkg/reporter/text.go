package reporter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/turbocop/internal/ui/pretty"
	"github.com/yaklabco/turbocop/pkg/runner"
	"github.com/yaklabco/turbocop/pkg/source"
)

// TextReporter formats results as one line per offense followed by a
// summary line.
type TextReporter struct {
	opts    Options
	styles  *pretty.Styles
	bw      *bufio.Writer
	sources map[string]*source.Source
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:    opts,
		styles:  pretty.NewStyles(colorEnabled),
		bw:      bufio.NewWriterSize(opts.Writer, bufWriterSize),
		sources: make(map[string]*source.Source),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	var corrected int
	for i, offense := range result.Offenses {
		if i%256 == 0 && ctx.Err() != nil {
			return i, fmt.Errorf("report cancelled: %w", ctx.Err())
		}

		fmt.Fprint(r.bw, r.styles.FormatOffense(offense))
		if r.opts.ShowContext {
			if line, ok := r.sourceLine(offense.Path, offense.Line); ok {
				fmt.Fprint(r.bw, r.styles.FormatSourceContext(line, offense.Column))
			}
		}
		if offense.Corrected {
			corrected++
		}
	}

	if len(result.Offenses) > 0 {
		fmt.Fprintln(r.bw)
	}
	fmt.Fprint(r.bw, r.styles.FormatSummaryLine(result.Stats.FilesInspected, len(result.Offenses), corrected))

	if r.opts.ShowStats {
		fmt.Fprint(r.bw, r.styles.FormatStats(result.Stats))
	}

	return len(result.Offenses), nil
}

// sourceLine returns a 1-based line of the file at path. Files that cannot
// be read, such as stdin display paths, yield no context.
func (r *TextReporter) sourceLine(path string, line int) (string, bool) {
	src, seen := r.sources[path]
	if !seen {
		full := path
		if !filepath.IsAbs(full) && r.opts.WorkingDir != "" {
			full = filepath.Join(r.opts.WorkingDir, full)
		}
		if content, err := os.ReadFile(full); err == nil {
			src = source.New(path, content)
		}
		r.sources[path] = src
	}
	if src == nil || line < 1 || line > src.LineCount() {
		return "", false
	}
	return string(src.Line(line)), true
}
