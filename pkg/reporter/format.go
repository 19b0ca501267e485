package reporter

import (
	"fmt"
	"strings"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
	FormatSARIF   Format = "sarif"
)

// formatAliases maps RuboCop formatter names onto the closest format.
//
//nolint:gochecknoglobals // Read-only lookup table.
var formatAliases = map[string]Format{
	"":         FormatText,
	"text":     FormatText,
	"t":        FormatText,
	"clang":    FormatText,
	"simple":   FormatText,
	"s":        FormatText,
	"json":     FormatJSON,
	"j":        FormatJSON,
	"summary":  FormatSummary,
	"offenses": FormatSummary,
	"o":        FormatSummary,
	"sarif":    FormatSARIF,
}

// ParseFormat parses a format name or RuboCop formatter alias.
func ParseFormat(formatStr string) (Format, error) {
	if format, ok := formatAliases[strings.ToLower(formatStr)]; ok {
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, json, summary, sarif", formatStr)
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary, FormatSARIF:
		return true
	default:
		return false
	}
}
