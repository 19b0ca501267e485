package config

import (
	"fmt"
	"strings"
)

// Severity is the severity level of an offense. Values are ordered so that
// comparisons express "at least as severe as".
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityConvention
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityNames = [...]string{
	SeverityInfo:       "info",
	SeverityConvention: "convention",
	SeverityWarning:    "warning",
	SeverityError:      "error",
	SeverityFatal:      "fatal",
}

// String returns the lowercase severity name.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// Letter returns the single-letter code used by text output.
func (s Severity) Letter() string {
	switch s {
	case SeverityInfo:
		return "I"
	case SeverityConvention:
		return "C"
	case SeverityWarning:
		return "W"
	case SeverityError:
		return "E"
	case SeverityFatal:
		return "F"
	default:
		return "?"
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

// ParseSeverity parses a severity name or letter. "refactor" maps to
// convention.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "info", "i":
		return SeverityInfo, nil
	case "convention", "c", "refactor", "r":
		return SeverityConvention, nil
	case "warning", "w":
		return SeverityWarning, nil
	case "error", "e":
		return SeverityError, nil
	case "fatal", "f":
		return SeverityFatal, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q; must be one of: info, refactor, convention, warning, error, fatal", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DepartmentSeverity returns the default severity for cops in a department.
func DepartmentSeverity(department string) Severity {
	if department == "Lint" {
		return SeverityWarning
	}
	return SeverityConvention
}
