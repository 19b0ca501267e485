package lint

import "github.com/yaklabco/turbocop/pkg/config"

// ResolvedCop pairs a cop with its per-file settings.
type ResolvedCop struct {
	// Index is the cop's registration index.
	Index int

	// Cop is the underlying implementation.
	Cop Cop

	// Severity is the resolved severity for offenses from this cop.
	Severity config.Severity
}

// ResolveCops returns the cops that run on path, in registration order.
// A cop runs when the configuration enables it, the filter admits it, and
// its Include/Exclude patterns accept the path. Plugin cops also need their
// plugin to be configured. Lint/Syntax always runs.
func ResolveCops(registry *Registry, cfg *config.Config, path string, filter config.Filter) []ResolvedCop {
	return resolveCops(registry.Cops(), cfg, path, filter)
}

func resolveCops(cops []Cop, cfg *config.Config, path string, filter config.Filter) []ResolvedCop {
	var resolved []ResolvedCop
	for idx, cop := range cops {
		if cop.Name() != SyntaxCopName && !cfg.IsCopEnabled(cop.Name(), cop.DefaultInclude(), path, filter) {
			continue
		}
		if pc, ok := cop.(PluginCop); ok && pc.Plugin() != "" && !cfg.HasPlugin(pc.Plugin()) {
			continue
		}
		resolved = append(resolved, ResolvedCop{
			Index:    idx,
			Cop:      cop,
			Severity: cfg.SeverityFor(cop.Name(), cop.DefaultSeverity()),
		})
	}
	return resolved
}

// RanNames returns the names of resolved cops as a set.
func RanNames(resolved []ResolvedCop) map[string]bool {
	names := make(map[string]bool, len(resolved))
	for _, rc := range resolved {
		names[rc.Cop.Name()] = true
	}
	return names
}
