package lint

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/source"
)

// Naming helpers.

// IsSnakeCase reports whether name is lower_snake_case. Trailing "?", "!"
// and "=" of method names are allowed, as are digits after the first
// character.
func IsSnakeCase(name string) bool {
	name = strings.TrimRight(name, "?!=")
	if name == "" {
		return false
	}
	name = strings.TrimLeft(name, "_")
	if name == "" {
		return true
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r >= utf8.RuneSelf && !unicode.IsUpper(r):
		default:
			return false
		}
	}
	return true
}

// IsCamelCase reports whether name is CamelCase: an upper-case first
// letter followed by letters and digits only.
func IsCamelCase(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsOperatorMethod reports whether name is an operator method such as
// "+", "<=>" or "[]=".
func IsOperatorMethod(name string) bool {
	switch name {
	case "|", "^", "&", "<=>", "==", "===", "=~", "!~", "!", "!=", ">", ">=",
		"<", "<=", "<<", ">>", "+", "-", "*", "/", "%", "**", "~", "+@", "-@",
		"[]", "[]=", "`":
		return true
	default:
		return false
	}
}

// Source helpers.

// NodeSource returns the source text of node.
func NodeSource(src *source.Source, node *ast.Node) string {
	if node == nil {
		return ""
	}
	return string(src.Text(node.Loc))
}

// NodeLines returns the first and last line spanned by node.
func NodeLines(src *source.Source, node *ast.Node) (int, int) {
	first, _ := src.LineCol(node.Loc.Start)
	end := node.Loc.End
	if end > node.Loc.Start {
		end--
	}
	last, _ := src.LineCol(end)
	return first, last
}

// IsSingleLine reports whether node starts and ends on the same line.
func IsSingleLine(src *source.Source, node *ast.Node) bool {
	first, last := NodeLines(src, node)
	return first == last
}

// Line helpers.

// IsBlankLine returns true if the line contains only whitespace.
func IsBlankLine(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

// IsCommentLine returns true if the first non-blank character is "#".
func IsCommentLine(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	return len(trimmed) > 0 && trimmed[0] == '#'
}

// LeadingWhitespace returns the run of spaces and tabs starting the line.
func LeadingWhitespace(line []byte) []byte {
	end := 0
	for end < len(line) && (line[end] == ' ' || line[end] == '\t') {
		end++
	}
	return line[:end]
}

// IndentWidth returns the number of leading whitespace bytes.
func IndentWidth(line []byte) int {
	return len(LeadingWhitespace(line))
}

// TrailingWhitespaceStart returns the column where trailing whitespace
// begins, or -1 if the line has none. A final "\r" is not whitespace here.
func TrailingWhitespaceStart(line []byte) int {
	end := len(line)
	start := end
	for start > 0 {
		c := line[start-1]
		if c != ' ' && c != '\t' && c != '\f' && c != '\v' {
			break
		}
		start--
	}
	if start == end {
		return -1
	}
	return start
}

// CountBlankLinesBefore counts consecutive blank lines before a given line.
func CountBlankLinesBefore(src *source.Source, lineNum int) int {
	count := 0
	for ln := lineNum - 1; ln >= 1; ln-- {
		if !IsBlankLine(src.Line(ln)) {
			break
		}
		count++
	}
	return count
}

// BodyLineCount counts the lines between the first and last line of node,
// excluding both. Blank lines never count; comment lines count only when
// countComments is set. Lines inside heredoc bodies count as code.
func BodyLineCount(src *source.Source, node *ast.Node, countComments bool) int {
	first, last := NodeLines(src, node)
	count := 0
	for ln := first + 1; ln < last; ln++ {
		line := src.Line(ln)
		if IsBlankLine(line) {
			continue
		}
		if !countComments && IsCommentLine(line) {
			continue
		}
		count++
	}
	return count
}

// Node helpers.

// IsCall reports whether node is a method call named one of names. An
// empty names list matches any call.
func IsCall(node *ast.Node, names ...string) bool {
	if node == nil || node.Kind != ast.KindCall {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if node.Name == name {
			return true
		}
	}
	return false
}

// IsCommand reports whether node is a receiver-less call named one of
// names.
func IsCommand(node *ast.Node, names ...string) bool {
	return IsCall(node, names...) && node.Receiver == nil
}

// ReceiverChain returns the receivers of a call chain from the outermost
// call inwards: for "a.b.c" it returns [c-call, b-call, a].
func ReceiverChain(node *ast.Node) []*ast.Node {
	var chain []*ast.Node
	for n := node; n != nil; n = n.Receiver {
		chain = append(chain, n)
		if n.Kind != ast.KindCall {
			break
		}
	}
	return chain
}

// RootReceiver returns the innermost receiver of a call chain.
func RootReceiver(node *ast.Node) *ast.Node {
	chain := ReceiverChain(node)
	if len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}

// ConstName returns the qualified name of a constant read or path, such
// as "Foo::Bar". A leading "::" is kept. Non-constants yield "".
func ConstName(node *ast.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind {
	case ast.KindConstantRead:
		return node.Name
	case ast.KindConstantPath:
		if node.Receiver == nil {
			return "::" + node.Name
		}
		parent := ConstName(node.Receiver)
		if parent == "" {
			return ""
		}
		return parent + "::" + node.Name
	default:
		return ""
	}
}

// IsLiteral reports whether node is a literal value. Arrays, hashes and
// ranges are literals only when every element is.
func IsLiteral(node *ast.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind {
	case ast.KindArray, ast.KindHash, ast.KindRange, ast.KindKeywordHash:
		for _, child := range node.Children {
			if !IsLiteral(child) {
				return false
			}
		}
		return true
	case ast.KindAssoc:
		return IsLiteral(node.Key) && IsLiteral(node.Value)
	case ast.KindInterpolatedString, ast.KindInterpolatedSymbol, ast.KindXString:
		return false
	default:
		return node.Kind.IsLiteral()
	}
}

// IsBooleanLiteral reports whether node is true or false.
func IsBooleanLiteral(node *ast.Node) bool {
	return node.Is(ast.KindTrue, ast.KindFalse)
}

// IsFalsey reports whether node is the literal nil or false.
func IsFalsey(node *ast.Node) bool {
	return node.Is(ast.KindNil, ast.KindFalse)
}

// StatementCount returns the number of statements in a body.
func StatementCount(body *ast.Node) int {
	return len(body.Statements())
}

// EnclosingDef returns the nearest method definition around node, or nil.
func EnclosingDef(node *ast.Node) *ast.Node {
	return node.EnclosingKind(ast.KindDef)
}

// EnclosingScope returns the nearest class, module, or singleton class
// around node, or nil at the top level.
func EnclosingScope(node *ast.Node) *ast.Node {
	return node.EnclosingKind(ast.KindClass, ast.KindModule, ast.KindSingletonClass)
}
