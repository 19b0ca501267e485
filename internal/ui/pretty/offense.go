package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// correctedTag prefixes the message of an autocorrected offense.
const correctedTag = "[Corrected] "

// FormatOffense formats one offense as
// "path:line:col: S: Department/Name: message" with a 1-based column.
func (s *Styles) FormatOffense(offense lint.Offense) string {
	var builder strings.Builder

	builder.WriteString(s.FilePath.Render(offense.Path))
	builder.WriteString(s.Location.Render(fmt.Sprintf(":%d:%d", offense.Line, offense.Column+1)))
	builder.WriteString(": ")
	builder.WriteString(s.FormatSeverity(offense.Severity))
	builder.WriteString(": ")
	if offense.Corrected {
		builder.WriteString(s.Corrected.Render(correctedTag))
	}
	builder.WriteString(s.CopName.Render(offense.CopName))
	builder.WriteString(": ")
	builder.WriteString(s.Message.Render(offense.Message))
	builder.WriteString("\n")

	return builder.String()
}

// FormatSeverity returns the styled severity letter.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	return s.Severity(sev).Render(sev.Letter())
}

// FormatSourceContext formats the source line with a caret under the
// 0-based column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(s.SourceLine.Render(line) + "\n")

	if column >= 0 && column <= len(line) {
		padding := expandTabs(line[:column])
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// expandTabs replaces everything but tabs with spaces so the caret lines up
// with the source line in a terminal.
func expandTabs(prefix string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return '\t'
		}
		return ' '
	}, prefix)
}
