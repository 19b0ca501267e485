package configloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/turbocop/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "Layout/LineLength.Severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (renamed cops, unknown plugins).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownNewCops lists valid AllCops.NewCops values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownNewCops = map[string]bool{
	config.NewCopsEnable:  true,
	config.NewCopsDisable: true,
	config.NewCopsPending: true,
}

// Validate checks a merged configuration.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}
	return ValidateTree(cfg.Tree, "")
}

// ValidateTree checks a single configuration layer and attributes its
// findings to filePath.
func ValidateTree(tree map[string]any, filePath string) *ValidationResult {
	result := &ValidationResult{}

	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := tree[key]
		switch key {
		case config.KeyAllCops:
			validateAllCops(value, result)
		case config.KeyPlugins, config.KeyRequire:
			validatePlugins(key, value, result)
		case config.KeyInheritFrom, config.KeyInheritMode:
		default:
			section, ok := value.(map[string]any)
			if !ok {
				continue
			}
			if strings.Contains(key, "/") {
				validateCop(key, section, result)
			} else {
				validatePatterns(key, section, result)
			}
		}
	}

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

func validateAllCops(value any, result *ValidationResult) {
	section, ok := value.(map[string]any)
	if !ok {
		return
	}

	if raw, has := section["NewCops"]; has {
		s, _ := raw.(string)
		if !knownNewCops[strings.ToLower(s)] {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "AllCops.NewCops",
				Value:   raw,
				Message: fmt.Sprintf("invalid value %v; must be one of: enable, disable, pending", raw),
			})
		}
	}

	validatePatterns(config.KeyAllCops, section, result)
}

func validatePlugins(key string, value any, result *ValidationResult) {
	for _, name := range toStrings(value) {
		if _, ok, _ := config.PluginDefaults(name); ok {
			continue
		}
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   key,
			Value:   name,
			Message: fmt.Sprintf("unknown plugin %q; its cops are not available", name),
		})
	}
}

func validateCop(name string, section map[string]any, result *ValidationResult) {
	if newName, renamed := config.RenamedCop(name); renamed {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   name,
			Value:   name,
			Message: fmt.Sprintf("%s has been renamed to %s; update the configuration", name, newName),
		})
	}

	if raw, has := section["Severity"]; has {
		s, _ := raw.(string)
		if _, err := config.ParseSeverity(s); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   name + ".Severity",
				Value:   raw,
				Message: fmt.Sprintf("invalid severity %v; must be one of: info, refactor, convention, warning, error, fatal", raw),
			})
		}
	}

	if raw, has := section["Enabled"]; has {
		switch v := raw.(type) {
		case bool:
		case string:
			if v != "pending" && v != "true" && v != "false" {
				result.Warnings = append(result.Warnings, ValidationError{
					Field:   name + ".Enabled",
					Value:   raw,
					Message: fmt.Sprintf("unexpected value %q; treating as enabled", v),
				})
			}
		default:
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   name + ".Enabled",
				Value:   raw,
				Message: fmt.Sprintf("unexpected value %v; treating as enabled", raw),
			})
		}
	}

	validatePatterns(name, section, result)
}

// validatePatterns checks that Include and Exclude entries are valid globs.
func validatePatterns(owner string, section map[string]any, result *ValidationResult) {
	for _, key := range []string{"Include", "Exclude"} {
		for i, pattern := range toStrings(section[key]) {
			if doublestar.ValidatePattern(pattern) {
				continue
			}
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("%s.%s[%d]", owner, key, i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}
}

// IsValidSeverity returns true if the severity string is valid.
func IsValidSeverity(s string) bool {
	_, err := config.ParseSeverity(s)
	return err == nil
}
