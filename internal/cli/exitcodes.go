package cli

import "errors"

// Exit codes for turbocop.
const (
	// ExitSuccess indicates no offense at or above the fail level.
	ExitSuccess = 0

	// ExitOffenses indicates at least one offense at or above the fail
	// level.
	ExitOffenses = 1

	// ExitError indicates a usage, configuration, or internal error.
	ExitError = 2
)

var (
	// ErrOffensesFound signals ExitOffenses. It carries no message worth
	// printing.
	ErrOffensesFound = errors.New("offenses found")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")
)

// ExitCode maps the error returned by the root command to a process exit
// code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrOffensesFound):
		return ExitOffenses
	default:
		return ExitError
	}
}
