package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
	"github.com/yaklabco/turbocop/pkg/lint/directive"
	"github.com/yaklabco/turbocop/pkg/parser/treesitter"
	"github.com/yaklabco/turbocop/pkg/source"
)

// lineCop reports a fixed message on each of lines.
type lineCop struct {
	lint.BaseCop
	lines []int
}

func newLineCop(name string, lines ...int) *lineCop {
	return &lineCop{BaseCop: lint.NewBaseCop(name, "test line cop"), lines: lines}
}

func (c *lineCop) CheckLines(ctx *lint.Context) {
	for _, line := range c.lines {
		ctx.AddAt(line, 0, "line offense")
	}
}

// nodeCop calls visit for every node of kinds.
type nodeCop struct {
	lint.BaseCop
	kinds []ast.Kind
	visit func(ctx *lint.Context, node *ast.Node)
}

func newNodeCop(name string, visit func(ctx *lint.Context, node *ast.Node), kinds ...ast.Kind) *nodeCop {
	return &nodeCop{BaseCop: lint.NewBaseCop(name, "test node cop"), kinds: kinds, visit: visit}
}

func (c *nodeCop) InterestedNodeTypes() []ast.Kind {
	return c.kinds
}

func (c *nodeCop) CheckNode(ctx *lint.Context, node *ast.Node) {
	c.visit(ctx, node)
}

// sourceCop runs check once per file.
type sourceCop struct {
	lint.BaseCop
	check func(ctx *lint.Context)
}

func newSourceCop(base lint.BaseCop, check func(ctx *lint.Context)) *sourceCop {
	return &sourceCop{BaseCop: base, check: check}
}

func (c *sourceCop) CheckSource(ctx *lint.Context) {
	c.check(ctx)
}

// directiveCop records what the engine hands to directive checkers.
type directiveCop struct {
	lint.BaseCop
	directives []directive.Directive
	ran        map[string]bool
}

func newDirectiveCop(name string) *directiveCop {
	return &directiveCop{BaseCop: lint.NewBaseCop(name, "test directive cop")}
}

func (c *directiveCop) CheckDirectives(_ *lint.Context, directives []directive.Directive, ran map[string]bool) {
	c.directives = directives
	c.ran = ran
}

// syntaxCop mirrors the built-in Lint/Syntax cop.
func syntaxCop() *sourceCop {
	return newSourceCop(lint.NewBaseCop(lint.SyntaxCopName, "syntax"), func(ctx *lint.Context) {
		for _, e := range ctx.Parse.Errors {
			ctx.Add(e.Loc, e.Message)
		}
	})
}

// allKinds lists every node kind.
func allKinds() []ast.Kind {
	var kinds []ast.Kind
	for k := ast.KindUnknown; k <= ast.KindAssocSplat; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func newEngine(cops ...lint.Cop) *lint.Engine {
	registry := lint.NewRegistry()
	registry.MustRegister(cops...)
	return lint.NewEngine(treesitter.New(), registry)
}

func emptyConfig() *config.Config {
	return config.New(nil, "/project")
}

func lintString(t *testing.T, engine *lint.Engine, cfg *config.Config, content string, opts lint.Options) *lint.FileResult {
	t.Helper()

	result, err := engine.LintFile(context.Background(), "lib/a.rb", []byte(content), cfg, opts)
	require.NoError(t, err)
	return result
}

func parse(t *testing.T, content string) (*source.Source, *ast.ParseResult) {
	t.Helper()

	src := source.New("lib/a.rb", []byte(content))
	result, err := treesitter.New().Parse(context.Background(), src)
	require.NoError(t, err)
	return src, result
}
