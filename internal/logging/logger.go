// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Prefix labels diagnostics on stderr so they stand apart from report
// output on stdout.
const Prefix = "turbocop"

//nolint:gochecknoglobals // Package-level logger is intentional for convenience
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		if defaultLogger == nil {
			defaultLogger = New("info")
		}
	})
	return defaultLogger
}

// ParseLevel maps a level name to a log level. It accepts the names
// charmbracelet/log understands plus "warning"; anything else is info.
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// New creates a stderr logger with the given level.
func New(level string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: Prefix,
		Level:  ParseLevel(level),
	})
}

// NewInteractive creates a stdout logger for messages the user asked for,
// such as the result of --init.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{Level: log.InfoLevel})
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	getDefaultLogger()
	defaultLogger = logger
}

// SetLevel updates the log level of the default logger.
func SetLevel(level string) {
	getDefaultLogger().SetLevel(ParseLevel(level))
}
