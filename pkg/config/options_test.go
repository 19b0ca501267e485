package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/turbocop/pkg/config"
)

func TestCopConfigGetters(t *testing.T) {
	t.Parallel()

	cc := &config.CopConfig{Options: map[string]any{
		"Bool":      true,
		"BoolStr":   "false",
		"Int":       12,
		"IntFloat":  3.0,
		"IntFrac":   3.5,
		"IntStr":    " 42 ",
		"Negative":  -1,
		"Str":       "single_quotes",
		"StrNum":    80,
		"Slice":     []any{"a", 1, nil},
		"Scalar":    "only",
		"Map":       map[string]any{"Kernel": "binding.irb", "Nil": nil},
		"Malformed": []any{"x"},
	}}

	assert.True(t, cc.GetBool("Bool", false))
	assert.False(t, cc.GetBool("BoolStr", true))
	assert.True(t, cc.GetBool("Missing", true))
	assert.False(t, cc.GetBool("Malformed", false))

	assert.Equal(t, 12, cc.GetInt("Int", 0))
	assert.Equal(t, 3, cc.GetInt("IntFloat", 0))
	assert.Equal(t, 9, cc.GetInt("IntFrac", 9))
	assert.Equal(t, 42, cc.GetInt("IntStr", 0))
	assert.Equal(t, 5, cc.GetInt("Negative", 5))
	assert.Equal(t, 5, cc.GetInt("Str", 5))

	assert.Equal(t, "single_quotes", cc.GetString("Str", ""))
	assert.Equal(t, "80", cc.GetString("StrNum", ""))
	assert.Equal(t, "dflt", cc.GetString("Malformed", "dflt"))

	assert.Equal(t, []string{"a", "1"}, cc.GetStringSlice("Slice"))
	assert.Equal(t, []string{"only"}, cc.GetStringSlice("Scalar"))
	assert.Nil(t, cc.GetStringSlice("Missing"))

	assert.Equal(t, map[string]string{"Kernel": "binding.irb", "Nil": ""}, cc.GetStringMap("Map"))
	assert.Nil(t, cc.GetStringMap("Str"))

	var nilConfig *config.CopConfig
	assert.Equal(t, 3, nilConfig.GetInt("Max", 3))
}

func TestSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want config.Severity
	}{
		{"info", config.SeverityInfo},
		{"R", config.SeverityConvention},
		{"refactor", config.SeverityConvention},
		{"Convention", config.SeverityConvention},
		{"w", config.SeverityWarning},
		{"error", config.SeverityError},
		{"fatal", config.SeverityFatal},
	}
	for _, tt := range tests {
		got, err := config.ParseSeverity(tt.in)
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := config.ParseSeverity("loud")
	assert.Error(t, err)

	assert.True(t, config.SeverityFatal.AtLeast(config.SeverityError))
	assert.False(t, config.SeverityConvention.AtLeast(config.SeverityWarning))
	assert.Equal(t, "W", config.SeverityWarning.Letter())
	assert.Equal(t, "convention", config.SeverityConvention.String())

	assert.Equal(t, config.SeverityWarning, config.DepartmentSeverity("Lint"))
	assert.Equal(t, config.SeverityConvention, config.DepartmentSeverity("Style"))

	var s config.Severity
	assert.NoError(t, s.UnmarshalText([]byte("error")))
	assert.Equal(t, config.SeverityError, s)
	text, err := s.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "error", string(text))
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	m := config.NewMatcher("/project")

	assert.True(t, m.Match("**/*.rb", "app/models/user.rb"))
	assert.True(t, m.Match("**/*.rb", "/project/app/models/user.rb"))
	assert.True(t, m.Match("app/controllers/**/*", "/project/app/controllers/t.rb"))
	assert.True(t, m.Match("app/controllers/**/*", "app/controllers/admin/t.rb"))
	assert.True(t, m.Match("**/Gemfile", "Gemfile"))
	assert.True(t, m.Match("/project/lib/*.rb", "lib/x.rb"))
	assert.True(t, m.Match("**/*.{rb,rake}", "lib/tasks/x.rake"))
	assert.False(t, m.Match("app/controllers/**/*", "/elsewhere/app/models/t.rb"))
	assert.False(t, m.Match("*.rb", "lib/x.rb"))
	assert.False(t, m.Match("", "x.rb"))

	// memoized results are stable
	for range 3 {
		assert.True(t, m.MatchAny([]string{"nope/*", "**/*.rb"}, "x.rb"))
	}
	assert.False(t, m.MatchAny(nil, "x.rb"))
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	minimal, err := config.GenerateTemplate(config.TemplateOptions{})
	assert.NoError(t, err)
	assert.Contains(t, string(minimal), "TargetRubyVersion: 2.7")

	tree, err := config.ParseTree(minimal)
	assert.NoError(t, err)
	assert.Contains(t, tree, "AllCops")

	full, err := config.GenerateTemplate(config.TemplateOptions{Full: true, TargetRubyVersion: 3})
	assert.NoError(t, err)
	assert.Contains(t, string(full), "TargetRubyVersion: 3.0")
}
