package lint

import (
	"context"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/source"
)

// Parser parses Ruby source into a ParseResult.
//
// The lint package defines this interface in the consumer package.
// Implementations (e.g., parser/treesitter) provide the concrete parsing
// logic.
//
// Implementations must be:
//   - deterministic for a given content,
//   - safe for concurrent use by multiple goroutines,
//   - side-effect free (no I/O, no global state mutation).
type Parser interface {
	// Parse converts a source buffer into a syntax tree.
	//
	// Syntax errors are not returned as errors: the result carries a
	// partial tree plus ParseResult.Errors, and Root is never nil.
	// An error is returned only for failures such as cancellation.
	Parse(ctx context.Context, src *source.Source) (*ast.ParseResult, error)
}
