package analysis

import (
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// Report contains pre-computed views of a run. It is computed once by
// Analyze and shared by every renderer.
type Report struct {
	// Offenses is the flat list in output order.
	Offenses []lint.Offense

	// ByFile groups offenses by file path. Files without offenses are
	// omitted.
	ByFile []FileAnalysis

	// ByCop groups offenses by cop.
	ByCop []CopAnalysis

	// Totals contains aggregate statistics.
	Totals Totals
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files             int
	FilesWithOffenses int
	Offenses          int
	Corrected         int
	BySeverity        map[config.Severity]int
}

// HasOffenses returns true if there are any offenses.
func (t Totals) HasOffenses() bool {
	return t.Offenses > 0
}

// Count returns the number of offenses with the given severity.
func (t Totals) Count(severity config.Severity) int {
	return t.BySeverity[severity]
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path        string
	Offenses    int
	MaxSeverity config.Severity
	Cops        []string
}

// CopAnalysis contains aggregated data for a single cop.
type CopAnalysis struct {
	CopName     string
	Department  string
	Offenses    int
	MaxSeverity config.Severity
	Files       []string
}
