// Package configloader resolves the merged configuration: built-in core
// defaults, plugin defaults, the inherit_from chain, and the project
// .rubocop.yml, merged with inherit_mode semantics.
package configloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// ErrConfigExists is returned by InitConfig when the file is present and
// overwriting was not confirmed.
var ErrConfigExists = errors.New("configuration file already exists")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreUserConfig skips the per-user fallback configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips project-level configuration.
	IgnoreProjectConfig bool
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the layers that were merged (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// layer is one user configuration file of the inheritance chain.
type layer struct {
	path string
	tree map[string]any
}

// Load resolves the final configuration by merging all sources.
// Precedence (lowest to highest):
//  1. Built-in core defaults
//  2. Built-in plugin defaults for every plugin named in the chain
//  3. inherit_from files, depth-first in list order
//  4. The project config (explicit path or nearest .rubocop.yml)
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	if opts.IgnoreProjectConfig {
		paths.Project = ""
	}
	if opts.IgnoreUserConfig {
		paths.User = ""
	}
	if opts.ExplicitPath != "" {
		explicit, absErr := filepath.Abs(opts.ExplicitPath)
		if absErr != nil {
			return nil, &ConfigError{Path: opts.ExplicitPath, Err: absErr}
		}
		if !fileExists(explicit) {
			return nil, &ConfigError{Path: opts.ExplicitPath, Err: ErrConfigNotFound}
		}
		paths.Explicit = explicit
	}
	result.Paths = paths

	resolver := &chainResolver{}
	var layers []layer
	anchor := paths.Effective()
	if anchor != "" {
		layers, err = resolver.resolve(ctx, anchor, nil)
		if err != nil {
			return nil, err
		}
	}
	result.Warnings = append(result.Warnings, resolver.warnings...)

	for _, l := range layers {
		validation := ValidateTree(l.tree, "")
		if !validation.Valid() {
			first := validation.Errors[0]
			return nil, &ConfigError{Path: l.path, Err: &first}
		}
		for _, w := range validation.Warnings {
			w.FilePath = l.path
			result.Warnings = append(result.Warnings, w.Error())
		}
	}

	tree, loadedFrom, userEnabled, err := mergeLayers(layers)
	if err != nil {
		return nil, err
	}
	result.LoadedFrom = loadedFrom

	rootDir := workDir
	if anchor != "" && anchor != paths.User {
		rootDir = filepath.Dir(anchor)
	}

	cfg := config.New(tree, rootDir)
	cfg.LoadedFrom = loadedFrom
	for name := range userEnabled {
		cfg.UserEnabled[name] = true
	}

	result.Config = cfg
	return result, nil
}

// mergeLayers folds defaults, plugin defaults, and the user layers into one
// tree. It also reports which cops had Enabled set by a user layer.
func mergeLayers(layers []layer) (map[string]any, []string, map[string]bool, error) {
	tree, err := config.CoreDefaults()
	if err != nil {
		return nil, nil, nil, err
	}
	loadedFrom := []string{config.CoreDefaultsName}

	plugins := collectPlugins(layers)
	for _, plugin := range plugins {
		pluginTree, known, pluginErr := config.PluginDefaults(plugin)
		if pluginErr != nil {
			return nil, nil, nil, pluginErr
		}
		if !known {
			continue
		}
		tree, err = mergeTrees(tree, pluginTree, inheritMode{})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("merge %s defaults: %w", plugin, err)
		}
		loadedFrom = append(loadedFrom, config.PluginDefaultsName(plugin))
	}

	userEnabled := make(map[string]bool)
	for _, l := range layers {
		mode, modeErr := parseInheritMode(l.tree[config.KeyInheritMode])
		if modeErr != nil {
			return nil, nil, nil, &ConfigError{Path: l.path, Err: modeErr}
		}
		tree, err = mergeTrees(tree, l.tree, mode)
		if err != nil {
			return nil, nil, nil, &ConfigError{Path: l.path, Err: err}
		}
		for key, value := range l.tree {
			section, ok := value.(map[string]any)
			if !ok || !strings.Contains(key, "/") {
				continue
			}
			if _, has := section["Enabled"]; has {
				userEnabled[key] = true
			}
		}
		loadedFrom = append(loadedFrom, l.path)
	}

	if len(plugins) > 0 {
		list := make([]any, len(plugins))
		for i, p := range plugins {
			list[i] = p
		}
		tree[config.KeyPlugins] = list
	}

	return tree, loadedFrom, userEnabled, nil
}

// collectPlugins returns every plugin named by any layer, in order of first
// appearance.
func collectPlugins(layers []layer) []string {
	var plugins []string
	seen := make(map[string]bool)
	for _, l := range layers {
		for _, key := range []string{config.KeyPlugins, config.KeyRequire} {
			for _, name := range toStrings(l.tree[key]) {
				if seen[name] {
					continue
				}
				seen[name] = true
				plugins = append(plugins, name)
			}
		}
	}
	return plugins
}

// chainResolver expands inherit_from depth-first.
type chainResolver struct {
	warnings []string
}

// resolve returns the layers reached from path, lowest precedence first,
// ending with path itself. stack holds the absolute paths being resolved.
func (r *chainResolver) resolve(ctx context.Context, path string, stack []string) ([]layer, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	for _, seen := range stack {
		if seen == abs {
			chain := strings.Join(append(append([]string(nil), stack...), abs), " -> ")
			return nil, &ConfigError{Path: abs, Err: fmt.Errorf("%w: %s", ErrInheritanceCycle, chain)}
		}
	}

	tree, err := loadConfigFile(abs)
	if err != nil {
		return nil, &ConfigError{Path: abs, Err: err}
	}

	stack = append(stack[:len(stack):len(stack)], abs)

	parents, err := inheritFrom(tree)
	if err != nil {
		return nil, &ConfigError{Path: abs, Err: err}
	}
	if _, has := tree["inherit_gem"]; has {
		r.warnings = append(r.warnings, abs+": inherit_gem is not supported; ignoring")
	}

	var layers []layer
	for _, parent := range parents {
		if strings.HasPrefix(parent, "http://") || strings.HasPrefix(parent, "https://") {
			r.warnings = append(r.warnings, fmt.Sprintf("%s: remote inherit_from %q is not supported; ignoring", abs, parent))
			continue
		}
		if !filepath.IsAbs(parent) {
			parent = filepath.Join(filepath.Dir(abs), parent)
		}
		inherited, resolveErr := r.resolve(ctx, parent, stack)
		if resolveErr != nil {
			return nil, resolveErr
		}
		layers = append(layers, inherited...)
	}

	return append(layers, layer{path: abs, tree: tree}), nil
}

func inheritFrom(tree map[string]any) ([]string, error) {
	raw, ok := tree[config.KeyInheritFrom]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, isString := item.(string)
			if !isString {
				return nil, fmt.Errorf("%w: inherit_from entries must be strings, got %T", ErrMalformedConfig, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: inherit_from must be a path or a list of paths, got %T", ErrMalformedConfig, raw)
	}
}

// loadConfigFile reads and parses one YAML config file.
func loadConfigFile(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	tree, err := config.ParseTree(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}
	return tree, nil
}

// InitOptions controls InitConfig.
type InitOptions struct {
	// Dir is the directory to write .rubocop.yml into.
	Dir string

	// Force overwrites an existing file without asking.
	Force bool

	// NonInteractive disables the overwrite prompt.
	NonInteractive bool

	// In and Out carry the prompt; they default to stdin and stdout.
	In  io.Reader
	Out io.Writer

	Template config.TemplateOptions
}

// InitConfig writes a configuration template and returns its path.
func InitConfig(ctx context.Context, opts InitOptions) (string, error) {
	path := filepath.Join(opts.Dir, config.DefaultConfigName)

	if fileExists(path) && !opts.Force {
		if opts.NonInteractive || (opts.In == nil && !isInteractive()) {
			return "", fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
		overwrite, err := promptOverwrite(opts.In, opts.Out, path)
		if err != nil {
			return "", err
		}
		if !overwrite {
			return "", fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
	}

	content, err := config.GenerateTemplate(opts.Template)
	if err != nil {
		return "", fmt.Errorf("generate template: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, content, configFilePermissions); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// promptOverwrite asks the user whether to replace an existing file.
func promptOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	if _, err := fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
