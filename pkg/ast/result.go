package ast

import "github.com/yaklabco/turbocop/pkg/source"

// Comment is a single "#" comment or "=begin"/"=end" block.
type Comment struct {
	Loc source.Range
	// Inline is true when code precedes the comment on its line.
	Inline bool
}

// ParseError is a recovered syntax error.
type ParseError struct {
	Loc     source.Range
	Message string
}

// ParseResult is the outcome of parsing one file. Root is never nil;
// inputs with syntax errors produce a partial tree plus Errors.
type ParseResult struct {
	Root     *Node
	Comments []Comment
	Errors   []ParseError

	// Heredocs holds the body ranges of every heredoc, in source order.
	Heredocs []source.Range

	// DataLoc spans the __END__ section, or NoRange.
	DataLoc source.Range
}

// HasErrors reports whether the parse recovered from syntax errors.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// CommentOnLine returns the comment starting on line, if any.
func (r *ParseResult) CommentOnLine(src *source.Source, line int) (Comment, bool) {
	for _, c := range r.Comments {
		l, _ := src.LineCol(c.Loc.Start)
		if l == line {
			return c, true
		}
		if l > line {
			break
		}
	}
	return Comment{}, false
}
