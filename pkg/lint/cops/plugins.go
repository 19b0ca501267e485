package cops

import (
	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// Plugin names as they appear in the plugins: configuration key.
const (
	PluginRails       = "rubocop-rails"
	PluginPerformance = "rubocop-performance"
	PluginRSpec       = "rubocop-rspec"
)

// Output reports writes to stdout in Rails application code.
type Output struct {
	lint.BaseCop
}

// NewOutput creates the Rails/Output cop.
func NewOutput() *Output {
	return &Output{
		BaseCop: lint.NewBaseCop("Rails/Output", "Checks for calls to puts, print, etc.").
			WithPlugin(PluginRails).
			WithInclude("**/app/**/*.rb", "**/config/**/*.rb", "db/**/*.rb", "**/lib/**/*.rb"),
	}
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	outputMethods = toSet("ap", "p", "pp", "pretty_print", "print", "puts")
	ioMethods     = toSet("binwrite", "syswrite", "write", "write_nonblock")
)

// InterestedNodeTypes implements lint.NodeChecker.
func (c *Output) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindCall}
}

// CheckNode implements lint.NodeChecker.
func (c *Output) CheckNode(ctx *lint.Context, node *ast.Node) {
	if node.Block != nil || node.Arguments == nil {
		return
	}

	switch recv := node.Receiver; {
	case recv == nil:
		if !outputMethods[node.Name] {
			return
		}
	case recv.Is(ast.KindGlobalVariableRead):
		if !ioMethods[node.Name] || (recv.Name != "$stdout" && recv.Name != "$stderr") {
			return
		}
	case recv.Is(ast.KindConstantRead, ast.KindConstantPath):
		name := lint.ConstName(recv)
		if !ioMethods[node.Name] || (name != "STDOUT" && name != "STDERR" && name != "::STDOUT" && name != "::STDERR") {
			return
		}
	default:
		return
	}
	ctx.AddNode(node, "Do not write to stdout. Use Rails's logger if you want to log.")
}

// ReverseEach prefers reverse_each over reverse.each.
type ReverseEach struct {
	lint.BaseCop
}

// NewReverseEach creates the Performance/ReverseEach cop.
func NewReverseEach() *ReverseEach {
	return &ReverseEach{
		BaseCop: lint.NewBaseCop("Performance/ReverseEach", "Use `reverse_each` instead of `reverse.each`.").
			WithPlugin(PluginPerformance).
			WithAutocorrect(),
	}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *ReverseEach) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindCall}
}

// CheckNode implements lint.NodeChecker.
func (c *ReverseEach) CheckNode(ctx *lint.Context, node *ast.Node) {
	if node.Name != "each" || node.Arguments != nil {
		return
	}
	recv := node.Receiver
	if !lint.IsCall(recv, "reverse") || recv.Arguments != nil || recv.Receiver == nil {
		return
	}
	ctx.Add(recv.MessageLoc, "Use `reverse_each` instead of `reverse.each`.")
}

// Focus reports focused examples and example groups.
type Focus struct {
	lint.BaseCop
}

// NewFocus creates the RSpec/Focus cop.
func NewFocus() *Focus {
	return &Focus{
		BaseCop: lint.NewBaseCop("RSpec/Focus", "Checks if examples are focused.").
			WithPlugin(PluginRSpec).
			WithInclude("**/*_spec.rb", "**/spec/**/*").
			WithAutocorrect(),
	}
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	focusedMethods = toSet("fdescribe", "fcontext", "ffeature", "fexample", "fit", "fspecify", "fscenario", "focus")
	specMethods    = toSet(
		"describe", "context", "feature", "example_group", "shared_examples", "shared_examples_for",
		"shared_context", "it", "specify", "example", "scenario", "its", "xit", "xspecify",
		"xexample", "xscenario", "skip", "pending",
	)
)

const msgFocus = "Focused spec found."

// InterestedNodeTypes implements lint.NodeChecker.
func (c *Focus) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindCall}
}

// CheckNode implements lint.NodeChecker.
func (c *Focus) CheckNode(ctx *lint.Context, node *ast.Node) {
	if node.Receiver != nil && lint.ConstName(node.Receiver) != "RSpec" && lint.ConstName(node.Receiver) != "::RSpec" {
		return
	}

	if focusedMethods[node.Name] {
		ctx.AddNode(node, msgFocus)
		return
	}
	if !specMethods[node.Name] {
		return
	}

	for _, arg := range node.ArgumentList() {
		switch arg.Kind {
		case ast.KindSymbol:
			if arg.Name == "focus" {
				ctx.AddNode(arg, msgFocus)
			}
		case ast.KindKeywordHash, ast.KindHash:
			for _, pair := range arg.Children {
				if pair.Is(ast.KindAssoc) && pair.Key.Is(ast.KindSymbol) && pair.Key.Name == "focus" && pair.Value.Is(ast.KindTrue) {
					ctx.AddNode(pair, msgFocus)
				}
			}
		}
	}
}
