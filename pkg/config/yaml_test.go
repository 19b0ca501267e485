package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/config"
)

func TestParseTree(t *testing.T) {
	t.Parallel()

	t.Run("empty document yields empty tree", func(t *testing.T) {
		t.Parallel()
		tree, err := config.ParseTree(nil)
		require.NoError(t, err)
		assert.Empty(t, tree)

		tree, err = config.ParseTree([]byte("# only a comment\n"))
		require.NoError(t, err)
		assert.Empty(t, tree)
	})

	t.Run("normalizes nested values", func(t *testing.T) {
		t.Parallel()
		tree, err := config.ParseTree([]byte(`
Layout/LineLength:
  Max: 100
  URISchemes: [http, https]
AllCops:
  TargetRubyVersion: 3.2
`))
		require.NoError(t, err)

		cop, ok := tree["Layout/LineLength"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 100, cop["Max"])
		assert.Equal(t, []any{"http", "https"}, cop["URISchemes"])

		all, ok := tree["AllCops"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 3.2, all["TargetRubyVersion"], 0.0001)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		t.Parallel()
		_, err := config.ParseTree([]byte("Layout/LineLength: [unclosed"))
		require.Error(t, err)
	})

	t.Run("non-mapping top level fails", func(t *testing.T) {
		t.Parallel()
		_, err := config.ParseTree([]byte("- a\n- b\n"))
		require.Error(t, err)
	})
}

func TestCloneTree(t *testing.T) {
	t.Parallel()

	assert.Nil(t, config.CloneTree(nil))

	original := map[string]any{
		"Style/StringLiterals": map[string]any{
			"EnforcedStyle": "single_quotes",
			"Exclude":       []any{"vendor/**/*"},
		},
	}
	clone := config.CloneTree(original)
	require.Equal(t, original, clone)

	cop := clone["Style/StringLiterals"].(map[string]any)
	cop["EnforcedStyle"] = "double_quotes"
	cop["Exclude"].([]any)[0] = "changed"

	origCop := original["Style/StringLiterals"].(map[string]any)
	assert.Equal(t, "single_quotes", origCop["EnforcedStyle"])
	assert.Equal(t, "vendor/**/*", origCop["Exclude"].([]any)[0])
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("round trips through ParseTree", func(t *testing.T) {
		t.Parallel()
		cfg := config.New(map[string]any{
			"Layout/LineLength": map[string]any{"Max": 80},
		}, "")

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "Layout/LineLength:")
		assert.Contains(t, string(data), "  Max: 80")

		tree, err := config.ParseTree(data)
		require.NoError(t, err)
		assert.Equal(t, cfg.Tree, tree)
	})
}

func TestEmbeddedDefaults(t *testing.T) {
	t.Parallel()

	core, err := config.CoreDefaults()
	require.NoError(t, err)
	assert.Contains(t, core, "AllCops")
	assert.Contains(t, core, "Layout/TrailingWhitespace")

	hashSyntax, ok := core["Style/HashSyntax"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Prefer Ruby 1.9 hash syntax { a: 1, b: 2 } over 1.8 syntax.", hashSyntax["Description"])

	for _, plugin := range config.KnownPlugins() {
		tree, ok, err := config.PluginDefaults(plugin)
		require.NoError(t, err, plugin)
		require.True(t, ok, plugin)
		assert.NotEmpty(t, tree, plugin)
	}

	_, ok, err := config.PluginDefaults("rubocop-unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}
