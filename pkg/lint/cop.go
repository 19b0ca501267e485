// Package lint provides the cop contract, registry, walker, and per-file
// pipeline of turbocop.
package lint

import (
	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint/directive"
)

// Cop defines the metadata every cop provides. A cop additionally
// implements at least one of LineChecker, NodeChecker, or SourceChecker.
//
// Cops hold no per-file state and must be safe for concurrent use across
// files. Within one file the walker calls them from a single goroutine.
type Cop interface {
	// Name returns the stable "Department/Name" identifier.
	Name() string

	// Description returns a one-line summary of what the cop checks.
	Description() string

	// DefaultSeverity returns the severity used when the configuration
	// does not set one.
	DefaultSeverity() config.Severity

	// DefaultInclude returns the default file scope as glob patterns.
	// Empty means every inspected file.
	DefaultInclude() []string

	// SupportsAutocorrect reports whether the cop can correct offenses.
	SupportsAutocorrect() bool
}

// PluginCop is implemented by cops that belong to a plugin. They run only
// when the configuration lists the plugin.
type PluginCop interface {
	Plugin() string
}

// LineChecker is implemented by cops that inspect the raw lines of a file.
// Line checkers run before the tree walk.
type LineChecker interface {
	CheckLines(ctx *Context)
}

// NodeChecker is implemented by cops dispatched by the central walker.
// CheckNode is called for every node whose kind is listed by
// InterestedNodeTypes.
type NodeChecker interface {
	InterestedNodeTypes() []ast.Kind
	CheckNode(ctx *Context, node *ast.Node)
}

// SourceChecker is implemented by cops that run their own traversal of
// the whole tree. Source checkers run after the walk.
type SourceChecker interface {
	CheckSource(ctx *Context)
}

// DirectiveChecker is implemented by cops that inspect the directive
// comments of a file once every other cop has run. ran holds the names of
// the cops that ran on the file.
type DirectiveChecker interface {
	CheckDirectives(ctx *Context, directives []directive.Directive, ran map[string]bool)
}

// capabilities reports which entry points a cop implements.
func capabilities(cop Cop) (lines, nodes, src bool) {
	_, lines = cop.(LineChecker)
	_, nodes = cop.(NodeChecker)
	_, src = cop.(SourceChecker)
	if _, post := cop.(DirectiveChecker); post {
		src = true
	}
	return lines, nodes, src
}
