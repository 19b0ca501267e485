package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/yaklabco/turbocop/pkg/lint"
	"github.com/yaklabco/turbocop/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Metadata JSONMetadata     `json:"metadata"`
	Files    []JSONFileResult `json:"files"`
	Summary  JSONSummary      `json:"summary"`
}

// JSONMetadata describes the tool that produced the report.
type JSONMetadata struct {
	TurbocopVersion string `json:"turbocop_version"`
	GoVersion       string `json:"go_version"`
	Platform        string `json:"platform"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string        `json:"path"`
	Offenses []JSONOffense `json:"offenses"`
}

// JSONOffense represents a single offense.
type JSONOffense struct {
	Severity    string       `json:"severity"`
	Message     string       `json:"message"`
	CopName     string       `json:"cop_name"`
	Corrected   bool         `json:"corrected"`
	Correctable bool         `json:"correctable"`
	Location    JSONLocation `json:"location"`
}

// JSONLocation carries 1-based line and column numbers.
type JSONLocation struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	Line        int `json:"line"`
	Column      int `json:"column"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	OffenseCount       int `json:"offense_count"`
	TargetFileCount    int `json:"target_file_count"`
	InspectedFileCount int `json:"inspected_file_count"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.OffenseCount, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Metadata: JSONMetadata{
			TurbocopVersion: r.opts.ToolVersion,
			GoVersion:       runtime.Version(),
			Platform:        runtime.GOOS + "/" + runtime.GOARCH,
		},
		Files: make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	byPath := make(map[string][]JSONOffense)
	for _, offense := range result.Offenses {
		byPath[offense.Path] = append(byPath[offense.Path], jsonOffense(offense))
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		offenses := byPath[file.Path]
		if offenses == nil {
			offenses = make([]JSONOffense, 0)
		}
		output.Files = append(output.Files, JSONFileResult{Path: file.Path, Offenses: offenses})
	}

	output.Summary = JSONSummary{
		OffenseCount:       len(result.Offenses),
		TargetFileCount:    result.Stats.FilesDiscovered,
		InspectedFileCount: result.Stats.FilesInspected,
	}
	return output
}

func jsonOffense(offense lint.Offense) JSONOffense {
	return JSONOffense{
		Severity:  offense.Severity.String(),
		Message:   offense.Message,
		CopName:   offense.CopName,
		Corrected: offense.Corrected,
		Location: JSONLocation{
			StartLine:   offense.Line,
			StartColumn: offense.Column + 1,
			Line:        offense.Line,
			Column:      offense.Column + 1,
		},
	}
}
