package cops

import (
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// RegisterAll registers all built-in cops with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Layout
	registry.MustRegister(
		NewTrailingWhitespace(),
		NewEndOfLine(),
		NewLineLength(),
		NewTrailingEmptyLines(),
		NewIndentationStyle(),
		NewEmptyLines(),
	)

	// Style
	registry.MustRegister(
		NewFrozenStringLiteralComment(),
		NewStringLiterals(),
		NewNilComparison(),
		NewHashSyntax(),
		NewNegatedIf(),
		NewDoubleNegation(),
		NewGlobalVars(),
	)

	// Lint
	registry.MustRegister(
		NewSyntax(),
		NewUselessMethodDefinition(),
		NewDebugger(),
		NewBooleanSymbol(),
		NewDuplicateMethods(),
		NewRedundantCopDisableDirective(registry),
	)

	// Metrics and Naming
	registry.MustRegister(
		NewMethodLength(),
		NewParameterLists(),
		NewMethodName(),
	)

	// Plugins
	registry.MustRegister(
		NewOutput(),
		NewReverseEach(),
		NewFocus(),
	)
}

// CopInfos describes every cop of registry for configuration templates.
// Plugin cops are listed as disabled.
func CopInfos(registry *lint.Registry) []config.CopInfo {
	cops := registry.Cops()
	infos := make([]config.CopInfo, 0, len(cops))
	for _, cop := range cops {
		enabled := true
		if pc, ok := cop.(lint.PluginCop); ok && pc.Plugin() != "" {
			enabled = false
		}
		infos = append(infos, config.CopInfo{
			Name:        cop.Name(),
			Description: cop.Description(),
			Enabled:     enabled,
			Severity:    cop.DefaultSeverity(),
		})
	}
	return infos
}

// init registers all built-in cops with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic cop registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	config.DefaultCopInfoProvider = func() []config.CopInfo {
		return CopInfos(lint.DefaultRegistry)
	}
}
