package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/turbocop/internal/ui/pretty"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/runner"
)

func TestFormatSummaryLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name      string
		inspected int
		offenses  int
		corrected int
		want      string
	}{
		{"clean", 1, 0, 0, "1 file inspected, no offenses detected\n"},
		{"plural", 3, 2, 0, "3 files inspected, 2 offenses detected\n"},
		{"single offense", 2, 1, 0, "2 files inspected, 1 offense detected\n"},
		{"corrected", 2, 4, 1, "2 files inspected, 4 offenses detected, 1 offense corrected\n"},
		{"nothing", 0, 0, 0, "0 files inspected, no offenses detected\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryLine(tt.inspected, tt.offenses, tt.corrected))
		})
	}
}

func TestFormatStats(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatStats(runner.Stats{
		FilesInspected:    4,
		FilesWithOffenses: 2,
		FilesSkipped:      1,
		OffensesTotal:     3,
		OffensesBySeverity: map[config.Severity]int{
			config.SeverityConvention: 2,
			config.SeverityFatal:      1,
		},
		CacheStatHits:    2,
		CacheContentHits: 1,
	})

	assert.Contains(t, out, "Files inspected:     4")
	assert.Contains(t, out, "Files with offenses: 2")
	assert.Contains(t, out, "Files skipped:       1")
	assert.Contains(t, out, "Cache hits:          3 (2 stat, 1 content)")
	assert.Contains(t, out, "convention:")
	assert.Contains(t, out, "fatal:")
	assert.NotContains(t, out, "Files unreadable")
	assert.Less(t, strings.Index(out, "fatal:"), strings.Index(out, "convention:"))
}

func TestFormatStats_Clean(t *testing.T) {
	t.Parallel()

	out := pretty.NewStyles(false).FormatStats(runner.Stats{FilesInspected: 1})
	assert.NotContains(t, out, "Files with offenses")
	assert.NotContains(t, out, "Cache hits")
	assert.Contains(t, out, "Offenses:            0")
}
