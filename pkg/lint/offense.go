package lint

import (
	"cmp"
	"slices"

	"github.com/yaklabco/turbocop/pkg/config"
)

// SyntaxCopName is the pseudo-cop that reports parse errors, unreadable
// files, and cops that failed while inspecting a file.
const SyntaxCopName = "Lint/Syntax"

// Offense is a single problem found in a file.
type Offense struct {
	// Path is the file path as given to the pipeline.
	Path string

	// Line is the 1-based line number.
	Line int

	// Column is the 0-based byte column.
	Column int

	// Severity is the resolved severity.
	Severity config.Severity

	// CopName is the "Department/Name" of the reporting cop.
	CopName string

	// Message is the human-readable description.
	Message string

	// Corrected is true when the offense was autocorrected.
	Corrected bool
}

// CompareOffenses orders offenses by path, line, column, cop name, and
// finally message.
func CompareOffenses(a, b Offense) int {
	if c := cmp.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Column, b.Column); c != 0 {
		return c
	}
	if c := cmp.Compare(a.CopName, b.CopName); c != 0 {
		return c
	}
	return cmp.Compare(a.Message, b.Message)
}

// SortOffenses sorts offenses in output order. The sort is stable.
func SortOffenses(offenses []Offense) {
	slices.SortStableFunc(offenses, CompareOffenses)
}

// Dedupe removes offenses repeating (path, line, column, cop, message).
// The input must be sorted.
func Dedupe(offenses []Offense) []Offense {
	if len(offenses) < 2 {
		return offenses
	}
	out := offenses[:1]
	for _, o := range offenses[1:] {
		last := out[len(out)-1]
		if o.Path == last.Path && o.Line == last.Line && o.Column == last.Column &&
			o.CopName == last.CopName && o.Message == last.Message {
			continue
		}
		out = append(out, o)
	}
	return out
}

// MaxSeverity returns the highest severity among offenses. ok is false
// when offenses is empty.
func MaxSeverity(offenses []Offense) (config.Severity, bool) {
	if len(offenses) == 0 {
		return config.SeverityInfo, false
	}
	highest := offenses[0].Severity
	for _, o := range offenses[1:] {
		if o.Severity > highest {
			highest = o.Severity
		}
	}
	return highest, true
}

// AnyAtLeast reports whether an offense meets or exceeds level.
func AnyAtLeast(offenses []Offense, level config.Severity) bool {
	highest, ok := MaxSeverity(offenses)
	return ok && highest.AtLeast(level)
}
