package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by offense count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortBySeverity sorts by highest severity, then by count.
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeOffenses copies the flat, sorted offense list into the report.
	IncludeOffenses bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeByCop includes the per-cop analysis.
	IncludeByCop bool

	// SortBy specifies how to sort ByFile and ByCop.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeOffenses: true,
		IncludeByFile:   true,
		IncludeByCop:    true,
		SortBy:          SortByCount,
		SortDesc:        true,
	}
}
