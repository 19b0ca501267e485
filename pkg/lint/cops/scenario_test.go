package cops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

func fullRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	RegisterAll(registry)
	return registry
}

type copAt struct {
	Cop    string
	Line   int
	Column int
}

func copsAt(offenses []lint.Offense) []copAt {
	out := make([]copAt, 0, len(offenses))
	for _, o := range offenses {
		out = append(out, copAt{Cop: o.CopName, Line: o.Line, Column: o.Column})
	}
	return out
}

func TestScenarioTrailingWhitespaceAndMagicComment(t *testing.T) {
	offenses := runRegistry(t, fullRegistry(), newTestConfig(t, nil), "lib/example.rb", "x = 1  \ny = 2\n", lint.Options{})

	assert.Equal(t, []copAt{
		{Cop: "Style/FrozenStringLiteralComment", Line: 1, Column: 0},
		{Cop: "Layout/TrailingWhitespace", Line: 1, Column: 5},
	}, copsAt(offenses))
}

func TestScenarioOnlyFilter(t *testing.T) {
	opts := lint.Options{Filter: config.Filter{Only: []string{"Layout/TrailingWhitespace"}}}
	offenses := runRegistry(t, fullRegistry(), newTestConfig(t, nil), "lib/example.rb", "x = 1  \ny = 2\n", opts)

	assert.Equal(t, []copAt{{Cop: "Layout/TrailingWhitespace", Line: 1, Column: 5}}, copsAt(offenses))
}

func TestScenarioCRLF(t *testing.T) {
	opts := lint.Options{Filter: config.Filter{Only: []string{"Layout/EndOfLine"}}}
	content := "# frozen_string_literal: true\r\n\r\nx = 1\r\n"
	offenses := runRegistry(t, fullRegistry(), newTestConfig(t, nil), "lib/example.rb", content, opts)

	require.NotEmpty(t, offenses)
	assert.Equal(t, "Layout/EndOfLine", offenses[0].CopName)
	assert.Equal(t, "Carriage return character detected.", offenses[0].Message)
}

func TestScenarioRedundantDirectiveForExcludedCop(t *testing.T) {
	cfg := newTestConfig(t, map[string]any{
		"Lint/UselessMethodDefinition": map[string]any{"Exclude": []any{"app/controllers/**/*"}},
	})
	content := "# frozen_string_literal: true\n\n" +
		"class T\n" +
		"  def foo # rubocop:disable Lint/UselessMethodDefinition\n" +
		"    super\n" +
		"  end\n" +
		"end\n"

	offenses := runRegistry(t, fullRegistry(), cfg, "app/controllers/t.rb", content, lint.Options{})

	require.Len(t, offenses, 1)
	assert.Equal(t, "Lint/RedundantCopDisableDirective", offenses[0].CopName)
	assert.Contains(t, offenses[0].Message, "Lint/UselessMethodDefinition")
}

func TestDirectiveSuppressesOnlyItsCop(t *testing.T) {
	base := "# frozen_string_literal: true\n\n" +
		"x = 1  \n" +
		"y = \"a\"\n"
	wrapped := "# frozen_string_literal: true\n\n" +
		"# rubocop:disable Layout/TrailingWhitespace\n" +
		"x = 1  \n" +
		"# rubocop:enable Layout/TrailingWhitespace\n" +
		"y = \"a\"\n"

	cfg := newTestConfig(t, nil)
	before := runRegistry(t, fullRegistry(), cfg, "lib/example.rb", base, lint.Options{})
	after := runRegistry(t, fullRegistry(), cfg, "lib/example.rb", wrapped, lint.Options{})

	assert.Equal(t, []copAt{
		{Cop: "Layout/TrailingWhitespace", Line: 3, Column: 5},
		{Cop: "Style/StringLiterals", Line: 4, Column: 4},
	}, copsAt(before))
	assert.Equal(t, []copAt{
		{Cop: "Style/StringLiterals", Line: 6, Column: 4},
	}, copsAt(after))
}

func TestSyntaxErrorsDoNotStopLineCops(t *testing.T) {
	offenses := runRegistry(t, fullRegistry(), newTestConfig(t, nil), "lib/example.rb",
		"# frozen_string_literal: true\n\ndef foo(  \n", lint.Options{})

	var names []string
	for _, o := range offenses {
		names = append(names, o.CopName)
	}
	assert.Contains(t, names, lint.SyntaxCopName)
	assert.Contains(t, names, "Layout/TrailingWhitespace")
}

func TestSyntaxRunsDespiteFilter(t *testing.T) {
	opts := lint.Options{Filter: config.Filter{Only: []string{"Layout/EndOfLine"}}}
	offenses := runRegistry(t, fullRegistry(), newTestConfig(t, nil), "lib/example.rb", "def foo(\n", opts)

	require.NotEmpty(t, offenses)
	for _, o := range offenses {
		assert.Equal(t, lint.SyntaxCopName, o.CopName)
	}
}
