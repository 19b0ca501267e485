// Package runner lints many files concurrently and aggregates the results.
package runner

import (
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// Options controls multi-file linting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// to shorten displayed paths. If empty, the process working directory
	// is used.
	WorkingDir string

	// Config is the resolved configuration for this run.
	Config *config.Config

	// Lint carries the --only / --except filter.
	Lint lint.Options

	// Cache is the session cache. Nil disables caching.
	Cache lint.ResultCache

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// FailLevel is the severity threshold for a failing run.
	FailLevel config.Severity

	// FailFast stops scheduling new files once a file has an offense at or
	// above FailLevel. Files already being processed complete.
	FailFast bool

	// ForceExclusion applies AllCops.Exclude to explicitly named files too.
	ForceExclusion bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// IgnoreGitignore disables .gitignore handling during discovery.
	IgnoreGitignore bool
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
