package lint

import (
	"context"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/source"
)

// Context carries everything one cop needs to inspect one file.
//
// Ctx is stored as a field because a Context is a short-lived parameter
// object created per (cop, file) pair.
type Context struct {
	// Ctx is the context for cancellation.
	Ctx context.Context

	// Source is the file being inspected.
	Source *source.Source

	// Parse is the parse result. Root is never nil.
	Parse *ast.ParseResult

	// CodeMap indexes code and non-code ranges of the file.
	CodeMap *CodeMap

	// Config is the merged configuration.
	Config *config.Config

	// CopConfig holds the cop's own settings.
	CopConfig *config.CopConfig

	// Severity is the resolved severity for offenses from this cop.
	Severity config.Severity

	// Filter is the --only / --except selection of the run.
	Filter config.Filter

	cop  string
	sink *[]Offense
}

// NewContext creates a Context whose offenses are appended to sink.
func NewContext(
	ctx context.Context,
	cop Cop,
	src *source.Source,
	result *ast.ParseResult,
	codeMap *CodeMap,
	cfg *config.Config,
	sink *[]Offense,
) *Context {
	return &Context{
		Ctx:       ctx,
		Source:    src,
		Parse:     result,
		CodeMap:   codeMap,
		Config:    cfg,
		CopConfig: cfg.Cop(cop.Name()),
		Severity:  cfg.SeverityFor(cop.Name(), cop.DefaultSeverity()),
		cop:       cop.Name(),
		sink:      sink,
	}
}

// CopName returns the name of the cop this context belongs to.
func (c *Context) CopName() string {
	return c.cop
}

// Root returns the root node of the tree.
func (c *Context) Root() *ast.Node {
	return c.Parse.Root
}

// Cancelled returns true if the context has been cancelled.
func (c *Context) Cancelled() bool {
	select {
	case <-c.Ctx.Done():
		return true
	default:
		return false
	}
}

// Add reports an offense at the start of loc.
func (c *Context) Add(loc source.Range, message string) {
	c.AddOffset(loc.Start, message)
}

// AddNode reports an offense at the start of node.
func (c *Context) AddNode(node *ast.Node, message string) {
	c.AddOffset(node.Loc.Start, message)
}

// AddOffset reports an offense at a byte offset.
func (c *Context) AddOffset(offset int, message string) {
	line, col := c.Source.LineCol(offset)
	c.AddAt(line, col, message)
}

// AddAt reports an offense at a 1-based line and 0-based column.
func (c *Context) AddAt(line, col int, message string) {
	*c.sink = append(*c.sink, Offense{
		Path:     c.Source.Path(),
		Line:     line,
		Column:   col,
		Severity: c.Severity,
		CopName:  c.cop,
		Message:  message,
	})
}

// OptionInt returns an integer option, or the default.
func (c *Context) OptionInt(key string, defaultValue int) int {
	return c.CopConfig.GetInt(key, defaultValue)
}

// OptionString returns a string option, or the default.
func (c *Context) OptionString(key, defaultValue string) string {
	return c.CopConfig.GetString(key, defaultValue)
}

// OptionBool returns a boolean option, or the default.
func (c *Context) OptionBool(key string, defaultValue bool) bool {
	return c.CopConfig.GetBool(key, defaultValue)
}

// OptionStrings returns a string list option.
func (c *Context) OptionStrings(key string) []string {
	return c.CopConfig.GetStringSlice(key)
}
