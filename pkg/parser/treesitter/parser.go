// Package treesitter provides a Ruby parser built on the tree-sitter Ruby
// grammar. Concrete syntax trees are mapped into pkg/ast nodes so that
// nothing outside this package depends on tree-sitter types.
package treesitter

import (
	"context"
	"fmt"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/source"
)

// Parser implements lint.Parser. It is safe for concurrent use: every
// goroutine borrows its own tree-sitter parser from a pool.
type Parser struct {
	pool sync.Pool
}

// New creates a Ruby parser.
func New() *Parser {
	p := &Parser{}
	p.pool.New = func() any {
		sp := sitter.NewParser()
		sp.SetLanguage(ruby.GetLanguage())
		return sp
	}
	return p
}

// Parse parses src into a ParseResult. Syntax errors do not fail the
// parse; they are reported in ParseResult.Errors alongside a partial tree.
// An error is returned only when ctx is cancelled.
func (p *Parser) Parse(ctx context.Context, src *source.Source) (*ast.ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	sp, _ := p.pool.Get().(*sitter.Parser)
	if sp == nil {
		sp = sitter.NewParser()
		sp.SetLanguage(ruby.GetLanguage())
	}
	defer p.pool.Put(sp)

	tree, err := sp.ParseCtx(ctx, nil, src.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Path(), err)
	}
	defer tree.Close()

	root := tree.RootNode()
	content := src.Bytes()

	m := newMapper(content)
	result := &ast.ParseResult{
		Root:    m.mapProgram(root),
		DataLoc: m.dataLoc,
	}
	result.Comments, result.Heredocs = collectTrivia(root, content)
	result.Errors = collectErrors(root)

	return result, nil
}

// collectTrivia gathers every comment and heredoc body in source order.
func collectTrivia(root *sitter.Node, content []byte) ([]ast.Comment, []source.Range) {
	var comments []ast.Comment
	var heredocs []source.Range

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "comment" {
			loc := rangeOf(n)
			comments = append(comments, ast.Comment{
				Loc:    loc,
				Inline: hasCodeBefore(content, loc.Start),
			})
			return
		}
		if n.Type() == "heredoc_body" {
			heredocs = append(heredocs, rangeOf(n))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(root)

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Loc.Start < comments[j].Loc.Start
	})
	sort.Slice(heredocs, func(i, j int) bool {
		return heredocs[i].Start < heredocs[j].Start
	})
	return comments, heredocs
}

// hasCodeBefore reports whether non-blank bytes precede offset on its line.
func hasCodeBefore(content []byte, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch content[i] {
		case '\n':
			return false
		case ' ', '\t', '\r':
			continue
		default:
			return true
		}
	}
	return false
}

// collectErrors reports ERROR and missing nodes.
func collectErrors(root *sitter.Node) []ast.ParseError {
	if !root.HasError() {
		return nil
	}

	var errs []ast.ParseError

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			errs = append(errs, ast.ParseError{
				Loc:     rangeOf(n),
				Message: "missing " + describeMissing(n.Type()),
			})
			return
		case n.IsError():
			errs = append(errs, ast.ParseError{
				Loc:     rangeOf(n),
				Message: "unexpected token",
			})
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(root)

	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Loc.Start < errs[j].Loc.Start
	})
	return errs
}

func describeMissing(nodeType string) string {
	switch nodeType {
	case "end":
		return "`end`"
	case "":
		return "token"
	default:
		return "`" + nodeType + "`"
	}
}

func rangeOf(n *sitter.Node) source.Range {
	return source.Range{Start: int(n.StartByte()), End: int(n.EndByte())}
}
