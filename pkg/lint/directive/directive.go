// Package directive scans "# rubocop:disable" style comments and answers
// whether a cop is suppressed on a given line.
package directive

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/source"
)

// Kind is the directive verb.
type Kind uint8

// Directive kinds. Todo suppresses exactly like Disable.
const (
	KindDisable Kind = iota
	KindEnable
	KindTodo
)

// String returns the verb as written in source.
func (k Kind) String() string {
	switch k {
	case KindEnable:
		return "enable"
	case KindTodo:
		return "todo"
	default:
		return "disable"
	}
}

// AllCops is the name matching every cop.
const AllCops = "all"

// CopRef is one name listed by a directive.
type CopRef struct {
	// Name is a cop name, a department name, or "all".
	Name string

	// Line and Column locate the name (1-based line, 0-based column).
	Line   int
	Column int
}

// IsDepartment reports whether the reference names a whole department.
func (r CopRef) IsDepartment() bool {
	return r.Name != AllCops && !strings.Contains(r.Name, "/")
}

// Directive is one parsed directive comment.
type Directive struct {
	Kind Kind
	Cops []CopRef

	// Line and Column locate the comment's "#".
	Line   int
	Column int

	// Inline is true when code precedes the comment; the directive then
	// applies to its own line only.
	Inline bool

	// Reason is the free text after "--", if any.
	Reason string

	// Loc is the byte range of the comment.
	Loc source.Range
}

// Suppresses reports whether the directive disables cops.
func (d Directive) Suppresses() bool {
	return d.Kind != KindEnable
}

// All reports whether the directive names "all".
func (d Directive) All() bool {
	for _, ref := range d.Cops {
		if ref.Name == AllCops {
			return true
		}
	}
	return false
}

var (
	headerPattern = regexp.MustCompile(`^#\s*rubocop\s*:\s*(disable|enable|todo)\b`)
	namePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(?:/[A-Za-z][A-Za-z0-9_]*)?`)
)

// Scan finds every directive in src and builds the suppression oracle.
// comments are the comment ranges reported by the parser; when nil, lines
// are scanned textually.
func Scan(src *source.Source, comments []ast.Comment) ([]Directive, *Oracle) {
	if comments == nil {
		comments = textualComments(src)
	}

	var directives []Directive
	for _, c := range comments {
		if d, ok := parse(src, c); ok {
			directives = append(directives, d)
		}
	}
	sort.SliceStable(directives, func(i, j int) bool {
		return directives[i].Loc.Start < directives[j].Loc.Start
	})
	return directives, buildOracle(directives)
}

// parse reads one comment as a directive.
func parse(src *source.Source, c ast.Comment) (Directive, bool) {
	text := src.Text(c.Loc)
	header := headerPattern.FindSubmatchIndex(text)
	if header == nil {
		return Directive{}, false
	}

	line, col := src.LineCol(c.Loc.Start)
	d := Directive{
		Line:   line,
		Column: col,
		Inline: c.Inline,
		Loc:    c.Loc,
	}
	switch string(text[header[2]:header[3]]) {
	case "enable":
		d.Kind = KindEnable
	case "todo":
		d.Kind = KindTodo
	default:
		d.Kind = KindDisable
	}

	rest := string(text[header[1]:])
	if before, reason, found := strings.Cut(rest, "--"); found {
		d.Reason = strings.TrimSpace(reason)
		rest = before
	}

	pos := header[1]
	for {
		trimmed := strings.TrimLeft(rest, " \t")
		pos += len(rest) - len(trimmed)
		rest = trimmed

		name := namePattern.FindString(rest)
		if name == "" {
			break
		}
		d.Cops = append(d.Cops, CopRef{Name: name, Line: line, Column: col + pos})
		rest = rest[len(name):]
		pos += len(name)

		trimmed = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(trimmed, ",") {
			break
		}
		pos += len(rest) - len(trimmed) + 1
		rest = trimmed[1:]
	}

	if len(d.Cops) == 0 {
		return Directive{}, false
	}
	return d, true
}

// textualComments approximates comments by looking for "# rubocop:" on
// each line. It is used when no parse result is available.
func textualComments(src *source.Source) []ast.Comment {
	var comments []ast.Comment
	for line := 1; line <= src.LineCount(); line++ {
		text := src.Line(line)
		idx := strings.Index(string(text), "#")
		for idx >= 0 {
			if headerPattern.Match(text[idx:]) {
				start := src.LineStart(line) + idx
				comments = append(comments, ast.Comment{
					Loc:    source.Range{Start: start, End: src.LineStart(line) + len(text)},
					Inline: strings.TrimSpace(string(text[:idx])) != "",
				})
				break
			}
			next := strings.Index(string(text[idx+1:]), "#")
			if next < 0 {
				break
			}
			idx += next + 1
		}
	}
	return comments
}
