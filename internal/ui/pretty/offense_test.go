package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/turbocop/internal/ui/pretty"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

func TestFormatOffense(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name    string
		offense lint.Offense
		want    string
	}{
		{
			name: "one-based column",
			offense: lint.Offense{
				Path: "lib/a.rb", Line: 1, Column: 5, Severity: config.SeverityConvention,
				CopName: "Layout/TrailingWhitespace", Message: "Trailing whitespace detected.",
			},
			want: "lib/a.rb:1:6: C: Layout/TrailingWhitespace: Trailing whitespace detected.\n",
		},
		{
			name: "fatal",
			offense: lint.Offense{
				Path: "b.rb", Line: 3, Severity: config.SeverityFatal,
				CopName: "Lint/Syntax", Message: "unexpected token",
			},
			want: "b.rb:3:1: F: Lint/Syntax: unexpected token\n",
		},
		{
			name: "corrected",
			offense: lint.Offense{
				Path: "c.rb", Line: 2, Column: 2, Severity: config.SeverityWarning,
				CopName: "Lint/Debugger", Message: "Remove debugger entry point `binding.pry`.", Corrected: true,
			},
			want: "c.rb:2:3: W: [Corrected] Lint/Debugger: Remove debugger entry point `binding.pry`.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatOffense(tt.offense))
		})
	}
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "x = 1  \n     ^\n", styles.FormatSourceContext("x = 1  ", 5))
	assert.Equal(t, "\tfoo\n\t^\n", styles.FormatSourceContext("\tfoo", 1))
	assert.Equal(t, "ab\n", styles.FormatSourceContext("ab", 9), "column past the line has no caret")
}

func TestFormatSourceContext_KeepsTabsWithColor(t *testing.T) {
	t.Parallel()

	out := pretty.NewStyles(true).FormatSourceContext("\t\tbar = 1", 2)
	assert.Contains(t, out, "\t\tbar = 1")
	assert.Contains(t, out, "\n\t\t")
	assert.NotContains(t, out, "    ")
}
