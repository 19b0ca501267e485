package configloader

import (
	"errors"
	"strings"
)

// Sentinel errors for configuration failures. Every one of them is fatal
// and surfaces wrapped in a ConfigError.
var (
	ErrConfigNotFound     = errors.New("configuration file not found")
	ErrMalformedConfig    = errors.New("malformed configuration")
	ErrInheritanceCycle   = errors.New("inheritance cycle detected")
	ErrUnknownInheritMode = errors.New("unknown inherit_mode key")
)

// ConfigError reports a fatal configuration problem and the file it came
// from.
type ConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
