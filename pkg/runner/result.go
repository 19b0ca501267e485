package runner

import (
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the display path of the file.
	Path string

	// Result contains the pipeline result for this file.
	Result *lint.PipelineResult
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files selected for linting.
	FilesDiscovered int

	// FilesInspected is the number of files that produced a result.
	FilesInspected int

	// FilesSkipped is the number of files never started because the run
	// stopped early.
	FilesSkipped int

	// FilesUnreadable is the number of files that could not be read.
	FilesUnreadable int

	// FilesWithOffenses is the number of files with at least one offense.
	FilesWithOffenses int

	// OffensesTotal is the total number of offenses across all files.
	OffensesTotal int

	// OffensesBySeverity maps severity levels to counts.
	OffensesBySeverity map[config.Severity]int

	// CacheStatHits, CacheContentHits and CacheMisses count cache
	// outcomes. They stay zero when the cache is disabled.
	CacheStatHits    int
	CacheContentHits int
	CacheMisses      int

	// CacheErrors counts files whose cache access failed.
	CacheErrors int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Offenses are all offenses of the run, sorted.
	Offenses []lint.Offense

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Stopped is true when fail-fast ended the run early.
	Stopped bool
}

// HasOffenses reports whether any offense was found.
func (r *Result) HasOffenses() bool {
	return r != nil && len(r.Offenses) > 0
}

// Failed reports whether an offense meets or exceeds level.
func (r *Result) Failed(level config.Severity) bool {
	return r != nil && lint.AnyAtLeast(r.Offenses, level)
}

// CacheHits returns the number of files answered from the cache.
func (r *Result) CacheHits() int {
	return r.Stats.CacheStatHits + r.Stats.CacheContentHits
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		OffensesBySeverity: make(map[config.Severity]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	pr := outcome.Result
	if pr == nil {
		return
	}
	r.Stats.FilesInspected++

	if pr.ReadErr != nil {
		r.Stats.FilesUnreadable++
	}
	if pr.CacheErr != nil {
		r.Stats.CacheErrors++
	}
	switch pr.Cache {
	case lint.CacheStatHit:
		r.Stats.CacheStatHits++
	case lint.CacheContentHit:
		r.Stats.CacheContentHits++
	case lint.CacheMiss:
		r.Stats.CacheMisses++
	case lint.CacheDisabled:
	}

	if pr.FileResult == nil || len(pr.Offenses) == 0 {
		return
	}
	r.Stats.FilesWithOffenses++
	r.Stats.OffensesTotal += len(pr.Offenses)
	for _, o := range pr.Offenses {
		r.Stats.OffensesBySeverity[o.Severity]++
	}
	r.Offenses = append(r.Offenses, pr.Offenses...)
}
