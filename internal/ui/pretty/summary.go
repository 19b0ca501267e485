package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/runner"
)

const summaryDividerWidth = 40

// pluralize returns "1 file" / "2 files".
func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// FormatSummaryLine formats the closing line of text output:
// "3 files inspected, 2 offenses detected".
func (s *Styles) FormatSummaryLine(inspected, offenses, corrected int) string {
	var builder strings.Builder

	builder.WriteString(pluralize(inspected, "file") + " inspected, ")
	switch offenses {
	case 0:
		builder.WriteString(s.Success.Render("no offenses"))
	default:
		builder.WriteString(s.Failure.Render(pluralize(offenses, "offense")))
	}
	builder.WriteString(" detected")

	if corrected > 0 {
		builder.WriteString(", " + s.Corrected.Render(pluralize(corrected, "offense")+" corrected"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// summarySeverities lists severities in the order the summary block shows
// them.
//
//nolint:gochecknoglobals // Read-only lookup table.
var summarySeverities = []config.Severity{
	config.SeverityFatal,
	config.SeverityError,
	config.SeverityWarning,
	config.SeverityConvention,
	config.SeverityInfo,
}

// FormatStats formats run statistics as a summary block.
func (s *Styles) FormatStats(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files inspected:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesInspected)) + "\n")
	if stats.FilesWithOffenses > 0 {
		builder.WriteString("  Files with offenses: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithOffenses)) + "\n")
	}
	if stats.FilesUnreadable > 0 {
		builder.WriteString("  Files unreadable:    " +
			s.Failure.Render(strconv.Itoa(stats.FilesUnreadable)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:       " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if hits := stats.CacheStatHits + stats.CacheContentHits; hits > 0 {
		builder.WriteString("  Cache hits:          " +
			s.SummaryValue.Render(fmt.Sprintf("%d (%d stat, %d content)", hits, stats.CacheStatHits, stats.CacheContentHits)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Offenses:            " +
		s.SummaryValue.Render(strconv.Itoa(stats.OffensesTotal)) + "\n")
	for _, sev := range summarySeverities {
		if n := stats.OffensesBySeverity[sev]; n > 0 {
			label := fmt.Sprintf("    %-18s ", sev.String()+":")
			builder.WriteString(label + s.Severity(sev).Render(strconv.Itoa(n)) + "\n")
		}
	}

	return builder.String()
}
