package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
	"github.com/yaklabco/turbocop/pkg/reporter"
	"github.com/yaklabco/turbocop/pkg/runner"
)

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.rb"}, {Path: "clean.rb"}},
		Offenses: []lint.Offense{
			{
				Path: "a.rb", Line: 1, Column: 0, Severity: config.SeverityConvention,
				CopName: "Style/FrozenStringLiteralComment", Message: "Missing frozen string literal comment.",
			},
			{
				Path: "a.rb", Line: 1, Column: 5, Severity: config.SeverityConvention,
				CopName: "Layout/TrailingWhitespace", Message: "Trailing whitespace detected.",
			},
		},
		Stats: runner.Stats{FilesDiscovered: 2, FilesInspected: 2, FilesWithOffenses: 1, OffensesTotal: 2},
	}
}

func report(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	if opts.Color == "" {
		opts.Color = "never"
	}
	rep, err := reporter.New(opts)
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), n
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "unknown format", input: "xml", wantErr: true},
		{name: "rubocop json alias", input: "j", want: reporter.FormatJSON},
		{name: "rubocop clang alias", input: "clang", want: reporter.FormatText},
		{name: "rubocop offenses alias", input: "offenses", want: reporter.FormatSummary},
		{name: "case insensitive", input: "JSON", want: reporter.FormatJSON},
		{name: "diff is not a format", input: "diff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: reporter.Format("xml"), Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.False(t, reporter.Format("xml").IsValid())
}

func TestText(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{}, sampleResult())

	assert.Equal(t, 2, n)
	assert.Equal(t, strings.Join([]string{
		"a.rb:1:1: C: Style/FrozenStringLiteralComment: Missing frozen string literal comment.",
		"a.rb:1:6: C: Layout/TrailingWhitespace: Trailing whitespace detected.",
		"",
		"2 files inspected, 2 offenses detected",
		"",
	}, "\n"), out)
}

func TestText_Clean(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{}, &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.rb"}},
		Stats: runner.Stats{FilesInspected: 1},
	})
	assert.Zero(t, n)
	assert.Equal(t, "1 file inspected, no offenses detected\n", out)
}

func TestText_NilResult(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{}, nil)
	assert.Zero(t, n)
	assert.Equal(t, "0 files inspected, no offenses detected\n", out)
}

func TestText_Context(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rb"), []byte("x = 1  \n"), 0o600))

	out, _ := report(t, reporter.Options{ShowContext: true, WorkingDir: dir}, sampleResult())

	assert.Contains(t, out, "Trailing whitespace detected.\nx = 1  \n     ^\n")
	assert.Contains(t, out, "Missing frozen string literal comment.\nx = 1  \n^\n")
}

func TestText_ContextMissingFile(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{ShowContext: true, WorkingDir: t.TempDir()}, sampleResult())
	assert.NotContains(t, out, "^")
}

func TestText_Stats(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{ShowStats: true}, sampleResult())
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Files inspected:     2")
}

func TestJSON(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: reporter.FormatJSON, ToolVersion: "1.2.3"}, sampleResult())
	assert.Equal(t, 2, n)

	var doc reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "1.2.3", doc.Metadata.TurbocopVersion)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "a.rb", doc.Files[0].Path)
	require.Len(t, doc.Files[0].Offenses, 2)

	second := doc.Files[0].Offenses[1]
	assert.Equal(t, "convention", second.Severity)
	assert.Equal(t, "Layout/TrailingWhitespace", second.CopName)
	assert.Equal(t, reporter.JSONLocation{StartLine: 1, StartColumn: 6, Line: 1, Column: 6}, second.Location)

	assert.Equal(t, "clean.rb", doc.Files[1].Path)
	assert.Empty(t, doc.Files[1].Offenses)
	assert.Equal(t, reporter.JSONSummary{OffenseCount: 2, TargetFileCount: 2, InspectedFileCount: 2}, doc.Summary)
}

func TestJSON_EmptyArraysNotNull(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.rb"}},
	})
	assert.Contains(t, out, `"offenses":[]`)
	assert.Equal(t, 1, strings.Count(out, "\n"))

	out, _ = report(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, nil)
	assert.Contains(t, out, `"files":[]`)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: reporter.FormatSummary}, sampleResult())
	assert.Equal(t, 2, n)

	assert.Contains(t, out, "Offenses by cop")
	assert.Contains(t, out, "Offenses by file")
	assert.Contains(t, out, "Layout/TrailingWhitespace")
	assert.Less(t, strings.Index(out, "Offenses by cop"), strings.Index(out, "Offenses by file"))
	assert.True(t, strings.HasSuffix(out, "2 files inspected, 2 offenses detected\n"))
}

func TestSummary_FilesFirst(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatSummary, FilesFirst: true}, sampleResult())
	assert.Less(t, strings.Index(out, "Offenses by file"), strings.Index(out, "Offenses by cop"))
}

func TestSummary_Clean(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatSummary}, &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.rb"}},
	})
	assert.Equal(t, "1 file inspected, no offenses detected\n", out)
}

func TestSARIF(t *testing.T) {
	t.Parallel()

	result := sampleResult()
	result.Offenses = append(result.Offenses, lint.Offense{
		Path: "b.rb", Line: 2, Column: 3, Severity: config.SeverityFatal,
		CopName: "Lint/Syntax", Message: "unexpected end-of-input",
	})

	out, n := report(t, reporter.Options{Format: reporter.FormatSARIF, ToolVersion: "1.2.3"}, result)
	assert.Equal(t, 3, n)

	var doc reporter.SARIFOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "turbocop", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)

	ids := make([]string, 0, len(run.Tool.Driver.Rules))
	for _, rule := range run.Tool.Driver.Rules {
		ids = append(ids, rule.ID)
	}
	assert.Equal(t, []string{"Layout/TrailingWhitespace", "Lint/Syntax", "Style/FrozenStringLiteralComment"}, ids)

	require.Len(t, run.Results, 3)
	syntax := run.Results[2]
	assert.Equal(t, "Lint/Syntax", syntax.RuleID)
	assert.Equal(t, 1, syntax.RuleIndex)
	assert.Equal(t, "error", syntax.Level)
	assert.Equal(t, reporter.SARIFRegion{StartLine: 2, StartColumn: 4}, syntax.Locations[0].PhysicalLocation.Region)
	assert.Equal(t, "note", run.Results[0].Level)
}
