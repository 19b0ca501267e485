// Package config defines the resolved configuration consumed by the
// analysis engine: AllCops settings, per-cop settings with typed option
// access, department settings, and the enablement predicate.
// These types are pure data; loading and merging live in configloader.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Reserved top-level keys that are neither cops nor departments.
const (
	KeyAllCops     = "AllCops"
	KeyInheritFrom = "inherit_from"
	KeyInheritMode = "inherit_mode"
	KeyPlugins     = "plugins"
	KeyRequire     = "require"
)

// NewCops values.
const (
	NewCopsEnable  = "enable"
	NewCopsDisable = "disable"
	NewCopsPending = "pending"
)

// CopConfig holds the merged settings for one cop.
type CopConfig struct {
	Name string

	// Enabled is the configured value; Pending marks "Enabled: pending".
	Enabled bool
	Pending bool

	Severity *Severity

	Include    []string
	IncludeSet bool
	Exclude    []string

	// Options holds every key of the cop's mapping, including the
	// well-known ones above.
	Options map[string]any
}

// DepartmentConfig holds settings for a whole department ("Layout").
type DepartmentConfig struct {
	Enabled *bool
	Include []string
	Exclude []string
}

// AllCops holds the global section.
type AllCops struct {
	Include            []string
	Exclude            []string
	TargetRubyVersion  float64
	TargetRailsVersion float64
	NewCops            string
	DisabledByDefault  bool
}

// Config is the fully merged configuration. It is read-only after New and
// safe for concurrent use.
type Config struct {
	AllCops     AllCops
	Cops        map[string]*CopConfig
	Departments map[string]*DepartmentConfig
	Plugins     []string

	// Tree is the merged YAML tree the typed views were built from.
	Tree map[string]any

	// RootDir anchors relative Include/Exclude patterns.
	RootDir string

	// LoadedFrom lists config files in merge order.
	LoadedFrom []string

	// UserEnabled names cops whose Enabled key is set by a non-default file.
	UserEnabled map[string]bool

	matcher *Matcher

	fingerprintOnce sync.Once
	fingerprint     string
}

// DefaultTargetRubyVersion applies when AllCops.TargetRubyVersion is unset.
const DefaultTargetRubyVersion = 2.7

// New builds a Config from a merged tree.
func New(tree map[string]any, rootDir string) *Config {
	if tree == nil {
		tree = map[string]any{}
	}

	cfg := &Config{
		Cops:        make(map[string]*CopConfig),
		Departments: make(map[string]*DepartmentConfig),
		Tree:        tree,
		RootDir:     rootDir,
		UserEnabled: make(map[string]bool),
		matcher:     NewMatcher(rootDir),
		AllCops:     parseAllCops(nil),
	}

	for key, value := range tree {
		switch key {
		case KeyAllCops:
			cfg.AllCops = parseAllCops(value)
		case KeyPlugins, KeyRequire:
			cfg.Plugins = appendUnique(cfg.Plugins, toStringSlice(value)...)
		case KeyInheritFrom, KeyInheritMode:
			// consumed by the loader
		default:
			section, ok := value.(map[string]any)
			if !ok {
				continue
			}
			if strings.Contains(key, "/") {
				cfg.Cops[key] = parseCopConfig(key, section)
			} else {
				cfg.Departments[key] = parseDepartment(section)
			}
		}
	}

	sort.Strings(cfg.Plugins)
	return cfg
}

func parseAllCops(value any) AllCops {
	section, _ := value.(map[string]any)
	all := AllCops{
		TargetRubyVersion: DefaultTargetRubyVersion,
		NewCops:           NewCopsPending,
	}
	if section == nil {
		return all
	}

	all.Include = toStringSlice(section["Include"])
	all.Exclude = toStringSlice(section["Exclude"])
	if v, ok := toFloat(section["TargetRubyVersion"]); ok {
		all.TargetRubyVersion = v
	}
	if v, ok := toFloat(section["TargetRailsVersion"]); ok {
		all.TargetRailsVersion = v
	}
	if s, ok := section["NewCops"].(string); ok {
		all.NewCops = strings.ToLower(s)
	}
	if b, ok := section["DisabledByDefault"].(bool); ok {
		all.DisabledByDefault = b
	}
	return all
}

func parseCopConfig(name string, section map[string]any) *CopConfig {
	cc := &CopConfig{Name: name, Enabled: true, Options: section}

	switch v := section["Enabled"].(type) {
	case bool:
		cc.Enabled = v
	case string:
		switch strings.ToLower(v) {
		case "pending":
			cc.Enabled = false
			cc.Pending = true
		case "false":
			cc.Enabled = false
		}
	}

	if s, ok := section["Severity"].(string); ok {
		if sev, err := ParseSeverity(s); err == nil {
			cc.Severity = &sev
		}
	}

	if raw, ok := section["Include"]; ok {
		cc.Include = toStringSlice(raw)
		cc.IncludeSet = true
	}
	cc.Exclude = toStringSlice(section["Exclude"])
	return cc
}

func parseDepartment(section map[string]any) *DepartmentConfig {
	dept := &DepartmentConfig{
		Include: toStringSlice(section["Include"]),
		Exclude: toStringSlice(section["Exclude"]),
	}
	if b, ok := section["Enabled"].(bool); ok {
		dept.Enabled = &b
	}
	return dept
}

// Department returns the department part of a "Department/Name" cop name,
// or the whole name when it has no slash.
func Department(name string) string {
	dept, _, found := strings.Cut(name, "/")
	if !found {
		return name
	}
	return dept
}

// Cop returns the settings for name. Cops absent from the configuration
// get default settings.
func (c *Config) Cop(name string) *CopConfig {
	if cc, ok := c.Cops[name]; ok {
		return cc
	}
	return &CopConfig{Name: name, Enabled: true}
}

// CopEnabled resolves whether a cop is enabled by configuration alone,
// honoring pending cops, department switches, and DisabledByDefault.
func (c *Config) CopEnabled(name string) bool {
	cc := c.Cop(name)
	if cc.Pending {
		return c.AllCops.NewCops == NewCopsEnable
	}

	if !c.UserEnabled[name] {
		if dept, ok := c.Departments[Department(name)]; ok && dept.Enabled != nil && !*dept.Enabled {
			return false
		}
		if c.AllCops.DisabledByDefault {
			return false
		}
	}
	return cc.Enabled
}

// SeverityFor returns the configured severity for a cop, or def.
func (c *Config) SeverityFor(name string, def Severity) Severity {
	if cc, ok := c.Cops[name]; ok && cc.Severity != nil {
		return *cc.Severity
	}
	return def
}

// IsCopEnabled reports whether a cop runs on path: it must be enabled,
// admitted by the filter, and its effective Include/Exclude must accept the
// path. defaultInclude is the cop's own file scope; empty means every file.
func (c *Config) IsCopEnabled(name string, defaultInclude []string, path string, filter Filter) bool {
	if !filter.Admits(name) {
		return false
	}
	if !c.CopEnabled(name) {
		return false
	}
	return c.AppliesTo(name, defaultInclude, path)
}

// AppliesTo evaluates a cop's Include and Exclude patterns against path.
func (c *Config) AppliesTo(name string, defaultInclude []string, path string) bool {
	cc := c.Cop(name)
	dept := c.Departments[Department(name)]

	include := defaultInclude
	switch {
	case cc.IncludeSet:
		include = cc.Include
	case dept != nil && len(dept.Include) > 0:
		include = dept.Include
	}
	if len(include) > 0 && !c.matcher.MatchAny(include, path) {
		return false
	}

	if c.matcher.MatchAny(cc.Exclude, path) {
		return false
	}
	if dept != nil && c.matcher.MatchAny(dept.Exclude, path) {
		return false
	}
	return !c.matcher.MatchAny(c.AllCops.Exclude, path)
}

// FileIncluded reports whether path matches AllCops.Include.
func (c *Config) FileIncluded(path string) bool {
	return c.matcher.MatchAny(c.AllCops.Include, path)
}

// FileExcluded reports whether path matches AllCops.Exclude.
func (c *Config) FileExcluded(path string) bool {
	return c.matcher.MatchAny(c.AllCops.Exclude, path)
}

// Matcher returns the shared glob matcher.
func (c *Config) Matcher() *Matcher {
	return c.matcher
}

// TargetRubyVersion returns AllCops.TargetRubyVersion.
func (c *Config) TargetRubyVersion() float64 {
	return c.AllCops.TargetRubyVersion
}

// RailsVersionAtLeast reports whether AllCops.TargetRailsVersion is set
// and at least version.
func (c *Config) RailsVersionAtLeast(version float64) bool {
	return c.AllCops.TargetRailsVersion > 0 && c.AllCops.TargetRailsVersion >= version
}

// HasPlugin reports whether a plugin is enabled.
func (c *Config) HasPlugin(name string) bool {
	for _, p := range c.Plugins {
		if p == name {
			return true
		}
	}
	return false
}

// ReferencedCopNames returns every cop the configuration enables, sorted.
func (c *Config) ReferencedCopNames() []string {
	names := make([]string, 0, len(c.Cops))
	for name := range c.Cops {
		if c.CopEnabled(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Fingerprint returns a hex SHA-256 over the canonical serialization of the
// merged tree. JSON encoding sorts map keys, so equal trees hash equally.
func (c *Config) Fingerprint() string {
	c.fingerprintOnce.Do(func() {
		data, err := json.Marshal(c.Tree)
		if err != nil {
			data = []byte(err.Error())
		}
		sum := sha256.Sum256(data)
		c.fingerprint = hex.EncodeToString(sum[:])
	})
	return c.fingerprint
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
