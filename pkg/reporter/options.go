package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext prints the offending source line with a caret under
	// each text offense.
	ShowContext bool

	// ShowStats appends the detailed statistics block to text output.
	ShowStats bool

	// Compact uses minified output for JSON and SARIF.
	Compact bool

	// FilesFirst puts the file table before the cop table in summary
	// output.
	FilesFirst bool

	// WorkingDir resolves relative offense paths when reading source
	// context.
	WorkingDir string

	// ToolVersion is reported in JSON metadata and the SARIF driver.
	ToolVersion string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ToolVersion: "dev",
	}
}
