package config

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed defaults/*.yml
var defaultsFS embed.FS

// CoreDefaultsName is the pseudo-path reported for the built-in core layer.
const CoreDefaultsName = "<defaults>/default.yml"

// pluginDefaults maps a plugin name to its embedded defaults file.
//
//nolint:gochecknoglobals // Static lookup table.
var pluginDefaults = map[string]string{
	"rubocop-performance": "performance.yml",
	"rubocop-rails":       "rails.yml",
	"rubocop-rspec":       "rspec.yml",
	"rubocop-rspec_rails": "rspec_rails.yml",
}

// CoreDefaults returns the parsed built-in core defaults.
func CoreDefaults() (map[string]any, error) {
	return loadEmbedded("default.yml")
}

// PluginDefaults returns the parsed defaults for a known plugin.
// ok is false for unknown plugin names.
func PluginDefaults(plugin string) (map[string]any, bool, error) {
	file, ok := pluginDefaults[plugin]
	if !ok {
		return nil, false, nil
	}
	tree, err := loadEmbedded(file)
	if err != nil {
		return nil, true, err
	}
	return tree, true, nil
}

// KnownPlugins returns the sorted names of plugins with built-in defaults.
func KnownPlugins() []string {
	names := make([]string, 0, len(pluginDefaults))
	for name := range pluginDefaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PluginDefaultsName is the pseudo-path reported for a plugin layer.
func PluginDefaultsName(plugin string) string {
	return "<defaults>/" + pluginDefaults[plugin]
}

func loadEmbedded(file string) (map[string]any, error) {
	data, err := defaultsFS.ReadFile("defaults/" + file)
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults %s: %w", file, err)
	}
	tree, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("embedded defaults %s: %w", file, err)
	}
	return tree, nil
}

// CopDescription returns the Description key a defaults file declares for a
// cop, or "".
func (c *Config) CopDescription(name string) string {
	return c.Cop(name).GetString("Description", "")
}
