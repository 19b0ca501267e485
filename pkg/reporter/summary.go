package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/turbocop/internal/ui/pretty"
	"github.com/yaklabco/turbocop/pkg/analysis"
	"github.com/yaklabco/turbocop/pkg/config"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90
	copColWidth       = 44
	fileColWidth      = 60
	numColWidth       = 8
	sevColWidth       = 10
	maxCopNameLength  = 42
	maxFilePathLength = 58
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as offense counts per cop and per file.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if !report.Totals.HasOffenses() {
		fmt.Fprint(r.out, r.styles.FormatSummaryLine(report.Totals.Files, 0, 0))
		return nil
	}

	if r.opts.FilesFirst {
		r.renderFileTable(report.ByFile)
		fmt.Fprintln(r.out)
		r.renderCopTable(report.ByCop)
	} else {
		r.renderCopTable(report.ByCop)
		fmt.Fprintln(r.out)
		r.renderFileTable(report.ByFile)
	}

	fmt.Fprintln(r.out)
	fmt.Fprint(r.out, r.styles.FormatSummaryLine(report.Totals.Files, report.Totals.Offenses, report.Totals.Corrected))
	return nil
}

// rowStyle colors a padded cell by the highest severity of its row.
func (r *SummaryRenderer) rowStyle(sev config.Severity, padded string) string {
	switch {
	case sev.AtLeast(config.SeverityError):
		return r.styles.TableErrorRow.Render(padded)
	case sev == config.SeverityWarning:
		return r.styles.TableWarnRow.Render(padded)
	default:
		return padded
	}
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderCopTable(cops []analysis.CopAnalysis) {
	if len(cops) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Offenses by cop"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Cop", copColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Severity", sevColWidth)),
	)
	r.separator()

	for _, cop := range cops {
		name := cop.CopName
		if len(name) > maxCopNameLength {
			name = name[:maxCopNameLength] + "…"
		}
		fmt.Fprintf(r.out, "%s %s %s %s\n",
			r.rowStyle(cop.MaxSeverity, padRight(name, copColWidth)),
			padLeft(strconv.Itoa(cop.Offenses), numColWidth),
			padLeft(strconv.Itoa(len(cop.Files)), numColWidth),
			padLeft(cop.MaxSeverity.String(), sevColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Offenses by file"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Cops", numColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		fmt.Fprintf(r.out, "%s %s %s\n",
			r.rowStyle(file.MaxSeverity, padRight(path, fileColWidth)),
			padLeft(strconv.Itoa(file.Offenses), numColWidth),
			padLeft(strconv.Itoa(len(file.Cops)), numColWidth),
		)
	}
}
