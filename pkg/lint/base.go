package lint

import "github.com/yaklabco/turbocop/pkg/config"

// BaseCop provides default implementations of the Cop metadata methods.
// Embed it in cop implementations and override methods as needed.
//
// Fields are unexported to avoid collisions with interface methods.
type BaseCop struct {
	name        string   // "Department/Name"
	desc        string   // One-line description
	include     []string // Default file scope
	autocorrect bool     // Whether offenses can be corrected
	plugin      string   // Plugin that provides the cop, if any
}

// NewBaseCop creates a BaseCop with the given name and description.
func NewBaseCop(name, desc string) BaseCop {
	return BaseCop{name: name, desc: desc}
}

// WithInclude returns a copy of b scoped to the given default globs.
func (b BaseCop) WithInclude(patterns ...string) BaseCop {
	b.include = patterns
	return b
}

// WithAutocorrect returns a copy of b that reports autocorrect support.
func (b BaseCop) WithAutocorrect() BaseCop {
	b.autocorrect = true
	return b
}

// WithPlugin returns a copy of b provided by the named plugin, such as
// "rubocop-rails". Plugin cops run only when the plugin is configured.
func (b BaseCop) WithPlugin(plugin string) BaseCop {
	b.plugin = plugin
	return b
}

// Name returns the cop name.
func (b *BaseCop) Name() string {
	return b.name
}

// Description returns the cop description.
func (b *BaseCop) Description() string {
	return b.desc
}

// DefaultSeverity derives the severity from the department: Lint cops are
// warnings, everything else is a convention. Lint/Syntax is fatal.
func (b *BaseCop) DefaultSeverity() config.Severity {
	if b.name == SyntaxCopName {
		return config.SeverityFatal
	}
	return config.DepartmentSeverity(config.Department(b.name))
}

// DefaultInclude returns the default file scope.
func (b *BaseCop) DefaultInclude() []string {
	return b.include
}

// SupportsAutocorrect reports whether the cop can correct offenses.
func (b *BaseCop) SupportsAutocorrect() bool {
	return b.autocorrect
}

// Plugin returns the plugin that provides the cop, or "" for core cops.
func (b *BaseCop) Plugin() string {
	return b.plugin
}
