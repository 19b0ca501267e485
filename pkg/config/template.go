package config

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// DefaultConfigName is the project configuration file name.
const DefaultConfigName = ".rubocop.yml"

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every cop with its description. If false, generates a
	// minimal template.
	Full bool

	// IncludeCops restricts the full template to these cop names.
	// If empty, all cops are included.
	IncludeCops []string

	// TargetRubyVersion is written into AllCops; zero uses the default.
	TargetRubyVersion float64
}

// CopInfo contains cop metadata for template generation.
type CopInfo struct {
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
}

// CopInfoProvider returns cop information. It decouples template
// generation from the lint package.
type CopInfoProvider func() []CopInfo

// DefaultCopInfoProvider is set by the cops package during registration.
//
//nolint:gochecknoglobals // Intentional extension point for cop info.
var DefaultCopInfoProvider CopInfoProvider

// GenerateTemplate creates a .rubocop.yml template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer

	version := opts.TargetRubyVersion
	if version == 0 {
		version = DefaultTargetRubyVersion
	}

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	buf.WriteString("# Enable plugin defaults:\n")
	buf.WriteString("# plugins:\n")
	buf.WriteString("#   - rubocop-performance\n")
	buf.WriteString("#   - rubocop-rails\n")
	buf.WriteString("#   - rubocop-rspec\n\n")
	buf.WriteString("# Share settings with other projects:\n")
	buf.WriteString("# inherit_from: .rubocop_todo.yml\n\n")
	buf.WriteString("AllCops:\n")
	fmt.Fprintf(&buf, "  TargetRubyVersion: %s\n", formatVersion(version))
	buf.WriteString("  NewCops: pending\n")
	buf.WriteString("  Exclude:\n")
	buf.WriteString("    - \"vendor/**/*\"\n")
	buf.WriteString("    - \"tmp/**/*\"\n")

	if !opts.Full {
		buf.WriteString("\n# Cop-specific configuration:\n")
		buf.WriteString("# Layout/LineLength:\n")
		buf.WriteString("#   Max: 120\n")
		buf.WriteString("# Style/StringLiterals:\n")
		buf.WriteString("#   EnforcedStyle: double_quotes\n")
		return buf.Bytes(), nil
	}

	cops := selectCops(getCopInfos(), opts.IncludeCops)
	for _, cop := range cops {
		buf.WriteString("\n")
		if cop.Description != "" {
			fmt.Fprintf(&buf, "# %s\n", wrapComment(cop.Description, commentWrapWidth))
		}
		fmt.Fprintf(&buf, "%s:\n", cop.Name)
		fmt.Fprintf(&buf, "  Enabled: %t\n", cop.Enabled)
		fmt.Fprintf(&buf, "  # Severity: %s\n", cop.Severity)
	}

	return buf.Bytes(), nil
}

func selectCops(cops []CopInfo, include []string) []CopInfo {
	if len(include) > 0 {
		filtered := make([]CopInfo, 0, len(include))
		for _, c := range cops {
			if contains(include, c.Name) {
				filtered = append(filtered, c)
			}
		}
		cops = filtered
	}

	sort.Slice(cops, func(i, j int) bool {
		return cops[i].Name < cops[j].Name
	})
	return cops
}

func getCopInfos() []CopInfo {
	if DefaultCopInfoProvider != nil {
		return DefaultCopInfoProvider()
	}
	return nil
}

func formatVersion(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# turbocop configuration
# Compatible with .rubocop.yml; see https://docs.rubocop.org/rubocop/configuration.html`
}
