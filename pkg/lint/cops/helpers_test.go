package cops

import (
	"context"
	"maps"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
	"github.com/yaklabco/turbocop/pkg/parser/treesitter"
)

const testRoot = "/project"

// newTestConfig merges overrides over the built-in defaults. Cop sections
// are merged key by key; plugins listed under "plugins" pull in their
// defaults too.
func newTestConfig(t *testing.T, overrides map[string]any) *config.Config {
	t.Helper()

	tree, err := config.CoreDefaults()
	require.NoError(t, err)

	if plugins, ok := overrides[config.KeyPlugins].([]any); ok {
		for _, p := range plugins {
			name, _ := p.(string)
			pluginTree, known, pluginErr := config.PluginDefaults(name)
			require.NoError(t, pluginErr)
			require.True(t, known, "unknown plugin %s", name)
			mergeSections(tree, pluginTree)
		}
	}
	mergeSections(tree, overrides)

	return config.New(tree, testRoot)
}

func mergeSections(dst, src map[string]any) {
	for key, value := range src {
		section, isMap := value.(map[string]any)
		base, baseIsMap := dst[key].(map[string]any)
		if isMap && baseIsMap {
			merged := maps.Clone(base)
			maps.Copy(merged, section)
			dst[key] = merged
			continue
		}
		dst[key] = value
	}
}

// runCops lints content with only the given cops registered.
func runCops(t *testing.T, cfg *config.Config, path, content string, cops ...lint.Cop) []lint.Offense {
	t.Helper()

	registry := lint.NewRegistry()
	registry.MustRegister(cops...)
	return runRegistry(t, registry, cfg, path, content, lint.Options{})
}

func runRegistry(
	t *testing.T,
	registry *lint.Registry,
	cfg *config.Config,
	path, content string,
	opts lint.Options,
) []lint.Offense {
	t.Helper()

	engine := lint.NewEngine(treesitter.New(), registry)
	result, err := engine.LintFile(context.Background(), path, []byte(content), cfg, opts)
	require.NoError(t, err)
	return result.Offenses
}

// lintWith runs a single cop over content with per-cop options.
func lintWith(t *testing.T, cop lint.Cop, options map[string]any, content string) []lint.Offense {
	t.Helper()

	overrides := map[string]any{}
	if options != nil {
		overrides[cop.Name()] = options
	}
	return runCops(t, newTestConfig(t, overrides), "lib/example.rb", content, cop)
}

// position is a (line, column) pair of an offense.
type position struct {
	Line   int
	Column int
}

func positions(offenses []lint.Offense) []position {
	out := make([]position, 0, len(offenses))
	for _, o := range offenses {
		out = append(out, position{Line: o.Line, Column: o.Column})
	}
	return out
}

func messages(offenses []lint.Offense) []string {
	out := make([]string, 0, len(offenses))
	for _, o := range offenses {
		out = append(out, o.Message)
	}
	return out
}
