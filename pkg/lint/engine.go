package lint

import (
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint/directive"
	"github.com/yaklabco/turbocop/pkg/source"
)

// Options controls a single analysis.
type Options struct {
	// Filter is the --only / --except selection.
	Filter config.Filter
}

// FileResult contains the results of analyzing a single file.
type FileResult struct {
	// Path is the display path of the file.
	Path string

	// Offenses are the final offenses: suppressed ones removed,
	// deduplicated, and sorted.
	Offenses []Offense

	// Directives are the directive comments found in the file.
	Directives []directive.Directive

	// Ran lists the cops that ran on the file, in registration order.
	Ran []string

	// ParseErrors is the number of syntax errors the parser recovered from.
	ParseErrors int
}

// HasOffenses returns true if any offenses were found.
func (fr *FileResult) HasOffenses() bool {
	return len(fr.Offenses) > 0
}

// OffenseCount returns the total number of offenses.
func (fr *FileResult) OffenseCount() int {
	return len(fr.Offenses)
}

// Engine coordinates parsing and cop execution for one file at a time.
// An Engine is safe for concurrent use when its Parser is.
type Engine struct {
	// Parser parses Ruby files.
	Parser Parser

	// Registry holds all available cops.
	Registry *Registry
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// LintFile analyzes content under the given display path.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts Options,
) (*FileResult, error) {
	return e.LintSource(ctx, source.New(path, content), cfg, opts)
}

// LintSource analyzes one source buffer. The steps run in a fixed order:
// line cops, a single pre-order walk dispatching node cops by kind,
// source cops, directive cops, then suppression, deduplication, and
// sorting.
//
// A cop that panics is stopped for the rest of the file and its partial
// output is replaced by a fatal Lint/Syntax offense.
func (e *Engine) LintSource(
	ctx context.Context,
	src *source.Source,
	cfg *config.Config,
	opts Options,
) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("linting cancelled: %w", err)
	}

	parsed, err := e.Parser.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Path(), err)
	}

	table := e.Registry.snapshot()
	resolved := resolveCops(table.cops, cfg, src.Path(), opts.Filter)
	codeMap := NewCodeMap(src, parsed)

	var offenses []Offense
	active := make([]*Context, len(table.cops))
	result := &FileResult{
		Path:        src.Path(),
		Ran:         make([]string, 0, len(resolved)),
		ParseErrors: len(parsed.Errors),
	}
	for _, rc := range resolved {
		c := NewContext(ctx, rc.Cop, src, parsed, codeMap, cfg, &offenses)
		c.Severity = rc.Severity
		c.Filter = opts.Filter
		active[rc.Index] = c
		result.Ran = append(result.Ran, rc.Cop.Name())
	}

	d := &dispatcher{cops: table.cops, active: active, sink: &offenses, path: src.Path()}

	for _, rc := range resolved {
		if lc, ok := rc.Cop.(LineChecker); ok {
			d.guard(rc.Index, nil, func(c *Context) { lc.CheckLines(c) })
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("linting cancelled: %w", err)
	}

	d.walk(parsed.Root, &table)

	for _, rc := range resolved {
		if sc, ok := rc.Cop.(SourceChecker); ok {
			d.guard(rc.Index, nil, func(c *Context) { sc.CheckSource(c) })
		}
	}

	directives, oracle := directive.Scan(src, parsed.Comments)
	result.Directives = directives

	ran := make(map[string]bool, len(result.Ran))
	for _, name := range result.Ran {
		ran[name] = true
	}
	for _, rc := range resolved {
		if dc, ok := rc.Cop.(DirectiveChecker); ok {
			d.guard(rc.Index, nil, func(c *Context) { dc.CheckDirectives(c, directives, ran) })
		}
	}

	if !oracle.Empty() {
		offenses = slices.DeleteFunc(offenses, func(o Offense) bool {
			return oracle.IsSuppressed(o.CopName, o.Line)
		})
	}

	SortOffenses(offenses)
	result.Offenses = Dedupe(offenses)
	return result, nil
}

// dispatcher runs cops against one file.
type dispatcher struct {
	cops   []Cop
	active []*Context
	sink   *[]Offense
	path   string
}

// walk visits every node once in pre-order and calls the active node cops
// interested in its kind.
func (d *dispatcher) walk(root *ast.Node, table *dispatch) {
	interested := false
scan:
	for kind := range table.byKind {
		for _, idx := range table.byKind[kind] {
			if d.active[idx] != nil {
				interested = true
				break scan
			}
		}
	}
	if !interested {
		return
	}

	//nolint:errcheck,revive // callback never fails
	ast.Walk(root, func(n *ast.Node) error {
		for _, idx := range table.byKind[n.Kind] {
			if d.active[idx] == nil {
				continue
			}
			nc, _ := d.cops[idx].(NodeChecker)
			d.guard(idx, n, func(c *Context) { nc.CheckNode(c, n) })
		}
		return nil
	})
}

// guard calls fn with the cop's context and converts a panic into a fatal
// Lint/Syntax offense.
func (d *dispatcher) guard(idx int, node *ast.Node, fn func(c *Context)) {
	c := d.active[idx]
	if c == nil {
		return
	}

	mark := len(*d.sink)
	defer func() {
		if r := recover(); r != nil {
			*d.sink = (*d.sink)[:mark]
			d.active[idx] = nil
			d.reportCrash(c, node)
		}
	}()
	fn(c)
}

func (d *dispatcher) reportCrash(c *Context, node *ast.Node) {
	line, col := 1, 0
	where := d.path
	if node != nil {
		line, col = c.Source.LineCol(node.Loc.Start)
		where = fmt.Sprintf("%s:%d:%d", d.path, line, col)
	}
	*d.sink = append(*d.sink, Offense{
		Path:     d.path,
		Line:     line,
		Column:   col,
		Severity: config.SeverityFatal,
		CopName:  SyntaxCopName,
		Message:  fmt.Sprintf("An error occurred while %s cop was inspecting %s.", c.CopName(), where),
	})
}
