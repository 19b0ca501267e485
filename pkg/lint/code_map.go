package lint

import (
	"sort"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/source"
)

// CodeMap is a per-file index over the parse result. It records which byte
// ranges hold code as opposed to comments, string bodies, heredocs, or the
// __END__ data section, and groups nodes by kind for cops that run their
// own traversal.
//
// The index is built lazily on first use. A CodeMap is not safe for
// concurrent use; each file gets its own.
type CodeMap struct {
	src    *source.Source
	result *ast.ParseResult

	built    bool
	byKind   [ast.KindCount][]*ast.Node
	comments []source.Range
	strings  []source.Range
	heredocs []source.Range
}

// NewCodeMap creates a CodeMap for a parsed source.
func NewCodeMap(src *source.Source, result *ast.ParseResult) *CodeMap {
	return &CodeMap{src: src, result: result}
}

// build walks the tree once and collects everything the map answers.
func (m *CodeMap) build() {
	if m.built {
		return
	}
	m.built = true

	if m.result == nil {
		return
	}

	for _, c := range m.result.Comments {
		m.comments = append(m.comments, c.Loc)
	}
	m.heredocs = mergeRanges(m.result.Heredocs)

	var literals []source.Range
	//nolint:errcheck,revive // callback never fails
	ast.Walk(m.result.Root, func(n *ast.Node) error {
		if int(n.Kind) < ast.KindCount {
			m.byKind[n.Kind] = append(m.byKind[n.Kind], n)
		}
		switch n.Kind {
		case ast.KindString, ast.KindInterpolatedString, ast.KindXString,
			ast.KindRegularExpression, ast.KindSymbol, ast.KindInterpolatedSymbol:
			if !n.Has(ast.FlagHeredoc) {
				literals = append(literals, n.Loc)
			}
		}
		return nil
	})
	literals = append(literals, m.result.Heredocs...)
	m.strings = mergeRanges(literals)
}

// Nodes returns every node of kind in source order.
func (m *CodeMap) Nodes(kind ast.Kind) []*ast.Node {
	m.build()
	if int(kind) >= ast.KindCount {
		return nil
	}
	return m.byKind[kind]
}

// InComment reports whether offset falls inside a comment.
func (m *CodeMap) InComment(offset int) bool {
	m.build()
	return inRanges(m.comments, offset)
}

// InString reports whether offset falls inside a string, symbol, regexp,
// or heredoc literal.
func (m *CodeMap) InString(offset int) bool {
	m.build()
	return inRanges(m.strings, offset)
}

// InHeredoc reports whether offset falls inside a heredoc body.
func (m *CodeMap) InHeredoc(offset int) bool {
	m.build()
	return inRanges(m.heredocs, offset)
}

// InData reports whether offset falls inside the __END__ section.
func (m *CodeMap) InData(offset int) bool {
	if m.result == nil || !ast.HasRange(m.result.DataLoc) {
		return false
	}
	return offset >= m.result.DataLoc.Start
}

// IsCode reports whether offset holds code.
func (m *CodeMap) IsCode(offset int) bool {
	return !m.InComment(offset) && !m.InString(offset) && !m.InData(offset)
}

// LineInHeredoc reports whether any byte of line lies inside a heredoc.
func (m *CodeMap) LineInHeredoc(line int) bool {
	m.build()
	if len(m.heredocs) == 0 {
		return false
	}
	start := m.src.LineStart(line)
	if start < 0 {
		return false
	}
	end := start + len(m.src.RawLine(line))
	i := sort.Search(len(m.heredocs), func(i int) bool { return m.heredocs[i].End > start })
	return i < len(m.heredocs) && m.heredocs[i].Start <= end
}

// inRanges reports whether offset lies in one of the sorted, disjoint
// ranges.
func inRanges(ranges []source.Range, offset int) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].End > offset })
	return i < len(ranges) && ranges[i].Start <= offset
}

// mergeRanges sorts ranges and merges overlapping ones.
func mergeRanges(ranges []source.Range) []source.Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := append([]source.Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := sorted[:1]
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
