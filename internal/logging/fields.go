package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig    = "config"
	FieldLayers    = "layers"
	FieldJobs      = "jobs"
	FieldFormat    = "format"
	FieldFailLevel = "fail_level"
	FieldCacheDir  = "cache_dir"
	FieldSession   = "session"

	// Statistics fields.
	FieldFilesDiscovered   = "files_discovered"
	FieldFilesInspected    = "files_inspected"
	FieldFilesWithOffenses = "files_with_offenses"
	FieldFilesSkipped      = "files_skipped"
	FieldOffensesTotal     = "offenses_total"
	FieldCacheHits         = "cache_hits"
	FieldCacheMisses       = "cache_misses"
	FieldCacheErrors       = "cache_errors"
	FieldElapsed           = "elapsed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Cop fields.
	FieldCop = "cop"
)
