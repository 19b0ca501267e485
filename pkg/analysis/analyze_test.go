package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
	"github.com/yaklabco/turbocop/pkg/runner"
)

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.rb"}, {Path: "b.rb"}, {Path: "clean.rb"}},
		Offenses: []lint.Offense{
			{Path: "a.rb", Line: 1, CopName: "Layout/TrailingWhitespace", Severity: config.SeverityConvention},
			{Path: "a.rb", Line: 2, CopName: "Layout/TrailingWhitespace", Severity: config.SeverityConvention},
			{Path: "a.rb", Line: 3, CopName: "Lint/Debugger", Severity: config.SeverityWarning},
			{Path: "b.rb", Line: 1, CopName: "Layout/TrailingWhitespace", Severity: config.SeverityConvention, Corrected: true},
			{Path: "b.rb", Line: 1, CopName: "Lint/Syntax", Severity: config.SeverityFatal},
		},
	}
}

func TestAnalyze_EmptyResult(t *testing.T) {
	t.Parallel()

	report := Analyze(&runner.Result{}, DefaultOptions())

	require.NotNil(t, report)
	assert.False(t, report.Totals.HasOffenses())
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByCop)
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())
	require.NotNil(t, report)
	assert.Zero(t, report.Totals.Files)
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	totals := Analyze(sampleResult(), DefaultOptions()).Totals

	assert.Equal(t, 3, totals.Files)
	assert.Equal(t, 2, totals.FilesWithOffenses)
	assert.Equal(t, 5, totals.Offenses)
	assert.Equal(t, 1, totals.Corrected)
	assert.Equal(t, 3, totals.Count(config.SeverityConvention))
	assert.Equal(t, 1, totals.Count(config.SeverityWarning))
	assert.Equal(t, 1, totals.Count(config.SeverityFatal))
	assert.Zero(t, totals.Count(config.SeverityError))
}

func TestAnalyze_Offenses(t *testing.T) {
	t.Parallel()

	result := sampleResult()
	assert.Equal(t, result.Offenses, Analyze(result, DefaultOptions()).Offenses)
	assert.Nil(t, Analyze(result, Options{IncludeByCop: true}).Offenses)
}

func TestAnalyze_ByCop(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	require.Len(t, report.ByCop, 3)
	first := report.ByCop[0]
	assert.Equal(t, "Layout/TrailingWhitespace", first.CopName)
	assert.Equal(t, "Layout", first.Department)
	assert.Equal(t, 3, first.Offenses)
	assert.Equal(t, []string{"a.rb", "b.rb"}, first.Files)

	// Ties on count fall back to the cop name.
	assert.Equal(t, "Lint/Debugger", report.ByCop[1].CopName)
	assert.Equal(t, "Lint/Syntax", report.ByCop[2].CopName)
}

func TestAnalyze_ByFile(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "a.rb", report.ByFile[0].Path)
	assert.Equal(t, 3, report.ByFile[0].Offenses)
	assert.Equal(t, config.SeverityWarning, report.ByFile[0].MaxSeverity)
	assert.Equal(t, []string{"Layout/TrailingWhitespace", "Lint/Debugger"}, report.ByFile[0].Cops)
	assert.Equal(t, config.SeverityFatal, report.ByFile[1].MaxSeverity)
}

func TestAnalyze_Sorting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		cops []string
	}{
		{
			name: "alpha",
			opts: Options{IncludeByCop: true, SortBy: SortByAlpha},
			cops: []string{"Layout/TrailingWhitespace", "Lint/Debugger", "Lint/Syntax"},
		},
		{
			name: "severity",
			opts: Options{IncludeByCop: true, SortBy: SortBySeverity},
			cops: []string{"Lint/Syntax", "Lint/Debugger", "Layout/TrailingWhitespace"},
		},
		{
			name: "count ascending",
			opts: Options{IncludeByCop: true, SortBy: SortByCount},
			cops: []string{"Lint/Debugger", "Lint/Syntax", "Layout/TrailingWhitespace"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := Analyze(sampleResult(), tt.opts)
			names := make([]string, 0, len(report.ByCop))
			for _, c := range report.ByCop {
				names = append(names, c.CopName)
			}
			assert.Equal(t, tt.cops, names)
			assert.Empty(t, report.ByFile)
		})
	}
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortByCount.IsValid())
	assert.True(t, SortByAlpha.IsValid())
	assert.True(t, SortBySeverity.IsValid())
	assert.False(t, SortField("size").IsValid())
}
