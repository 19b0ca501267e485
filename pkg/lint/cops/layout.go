package cops

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/turbocop/pkg/lint"
)

// TrailingWhitespace reports spaces and tabs at the end of a line.
type TrailingWhitespace struct {
	lint.BaseCop
}

// NewTrailingWhitespace creates the Layout/TrailingWhitespace cop.
func NewTrailingWhitespace() *TrailingWhitespace {
	return &TrailingWhitespace{
		BaseCop: lint.NewBaseCop("Layout/TrailingWhitespace", "Avoid trailing whitespace.").WithAutocorrect(),
	}
}

// CheckLines implements lint.LineChecker.
func (c *TrailingWhitespace) CheckLines(ctx *lint.Context) {
	allowInHeredoc := ctx.OptionBool("AllowInHeredoc", false)
	last := codeLineLimit(ctx)

	for lineNum := 1; lineNum <= last; lineNum++ {
		col := lint.TrailingWhitespaceStart(ctx.Source.Line(lineNum))
		if col < 0 {
			continue
		}
		if allowInHeredoc && ctx.CodeMap.LineInHeredoc(lineNum) {
			continue
		}
		ctx.AddAt(lineNum, col, "Trailing whitespace detected.")
	}
}

// EndOfLine reports line endings that differ from the configured style.
// Only the first offending line of a file is reported.
type EndOfLine struct {
	lint.BaseCop
}

// NewEndOfLine creates the Layout/EndOfLine cop.
func NewEndOfLine() *EndOfLine {
	return &EndOfLine{
		BaseCop: lint.NewBaseCop("Layout/EndOfLine", "Use Unix-style line endings."),
	}
}

// CheckLines implements lint.LineChecker.
func (c *EndOfLine) CheckLines(ctx *lint.Context) {
	wantCR := ctx.OptionString("EnforcedStyle", "native") == "crlf"
	last := codeLineLimit(ctx)

	for lineNum := 1; lineNum <= last; lineNum++ {
		raw := ctx.Source.RawLine(lineNum)
		hasCR := bytes.HasSuffix(raw, []byte("\r"))

		switch {
		case hasCR && !wantCR:
			ctx.AddAt(lineNum, 0, "Carriage return character detected.")
			return
		case !hasCR && wantCR:
			// A final line without any terminator is not an offense.
			if lineNum == ctx.Source.LineCount() && !ctx.Source.EndsWithNewline() {
				return
			}
			ctx.AddAt(lineNum, 0, "Carriage return character missing.")
			return
		}
	}
}

// LineLength reports lines longer than Max characters.
type LineLength struct {
	lint.BaseCop
}

// NewLineLength creates the Layout/LineLength cop.
func NewLineLength() *LineLength {
	return &LineLength{
		BaseCop: lint.NewBaseCop("Layout/LineLength", "Checks that line length does not exceed the configured limit."),
	}
}

const defaultMaxLineLength = 120

// CheckLines implements lint.LineChecker.
func (c *LineLength) CheckLines(ctx *lint.Context) {
	maxLength := ctx.OptionInt("Max", defaultMaxLineLength)
	allowURI := ctx.OptionBool("AllowURI", true)
	uriPattern := uriRegexp(ctx.OptionStrings("URISchemes"))
	allowed := compilePatterns(ctx.OptionStrings("AllowedPatterns"))
	last := codeLineLimit(ctx)

	for lineNum := 1; lineNum <= last; lineNum++ {
		if ctx.Cancelled() {
			return
		}
		line := ctx.Source.Line(lineNum)
		length := utf8.RuneCount(line)
		if length <= maxLength {
			continue
		}
		if matchesAny(allowed, line) {
			continue
		}
		if allowURI && uriPattern != nil && uriReachesEnd(uriPattern, line, maxLength) {
			continue
		}
		ctx.AddAt(lineNum, runeOffset(line, maxLength), fmt.Sprintf("Line is too long. [%d/%d]", length, maxLength))
	}
}

// uriRegexp builds a matcher for URIs with one of schemes.
func uriRegexp(schemes []string) *regexp.Regexp {
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	quoted := make([]string, len(schemes))
	for i, s := range schemes {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)://\S+`)
}

// uriReachesEnd reports whether a URI starts within the limit and runs to
// the end of the line, ignoring trailing quotes and punctuation.
func uriReachesEnd(pattern *regexp.Regexp, line []byte, maxLength int) bool {
	locs := pattern.FindAllIndex(line, -1)
	if len(locs) == 0 {
		return false
	}
	loc := locs[len(locs)-1]
	if utf8.RuneCount(line[:loc[0]]) > maxLength {
		return false
	}
	rest := bytes.TrimRight(line[loc[1]:], " \t'\"`)]};,.")
	return len(rest) == 0
}

// runeOffset returns the byte offset of the n-th character of line.
func runeOffset(line []byte, n int) int {
	offset := 0
	for i := 0; i < n && offset < len(line); i++ {
		_, size := utf8.DecodeRune(line[offset:])
		offset += size
	}
	return offset
}

// TrailingEmptyLines checks the blank lines at the end of a file.
type TrailingEmptyLines struct {
	lint.BaseCop
}

// NewTrailingEmptyLines creates the Layout/TrailingEmptyLines cop.
func NewTrailingEmptyLines() *TrailingEmptyLines {
	return &TrailingEmptyLines{
		BaseCop: lint.NewBaseCop("Layout/TrailingEmptyLines", "Checks trailing blank lines and final newline.").WithAutocorrect(),
	}
}

// CheckLines implements lint.LineChecker.
func (c *TrailingEmptyLines) CheckLines(ctx *lint.Context) {
	content := ctx.Source.Bytes()
	if len(content) == 0 || hasDataSection(ctx) {
		return
	}

	wanted := 0
	if ctx.OptionString("EnforcedStyle", "final_newline") == "final_blank_line" {
		wanted = 1
	}

	trimmed := bytes.TrimRight(content, " \t\r\n\f\v")
	tail := content[len(trimmed):]
	blank := bytes.Count(tail, []byte("\n")) - 1
	if blank == wanted {
		return
	}

	var message string
	switch {
	case blank < 0:
		message = "Final newline missing."
	case blank == 0:
		message = "Trailing blank line missing."
	default:
		insteadOf := ""
		if wanted > 0 {
			insteadOf = fmt.Sprintf("instead of %d ", wanted)
		}
		message = fmt.Sprintf("%d trailing blank lines %sdetected.", blank, insteadOf)
	}

	line, col := endPosition(ctx, len(trimmed))
	ctx.AddAt(line, col, message)
}

// endPosition converts an offset to a position, mapping the end of a file
// without a final newline onto its last line.
func endPosition(ctx *lint.Context, offset int) (int, int) {
	if offset > 0 && offset >= ctx.Source.Len() {
		line, col := ctx.Source.LineCol(offset - 1)
		return line, col + 1
	}
	return ctx.Source.LineCol(offset)
}

// IndentationStyle reports indentation that mixes in the wrong character.
type IndentationStyle struct {
	lint.BaseCop
}

// NewIndentationStyle creates the Layout/IndentationStyle cop.
func NewIndentationStyle() *IndentationStyle {
	return &IndentationStyle{
		BaseCop: lint.NewBaseCop("Layout/IndentationStyle", "Consistent indentation either with tabs only or spaces only."),
	}
}

// CheckLines implements lint.LineChecker.
func (c *IndentationStyle) CheckLines(ctx *lint.Context) {
	tabs := ctx.OptionString("EnforcedStyle", "spaces") == "tabs"
	last := codeLineLimit(ctx)

	for lineNum := 1; lineNum <= last; lineNum++ {
		indent := lint.LeadingWhitespace(ctx.Source.Line(lineNum))
		if len(indent) == 0 {
			continue
		}

		var bad byte = '\t'
		message := "Tab detected in indentation."
		if tabs {
			bad = ' '
			message = "Space detected in indentation."
		}
		if bytes.IndexByte(indent, bad) < 0 {
			continue
		}
		if ctx.CodeMap.InString(ctx.Source.LineStart(lineNum)) {
			continue
		}
		ctx.AddAt(lineNum, 0, message)
	}
}

// EmptyLines reports consecutive blank lines.
type EmptyLines struct {
	lint.BaseCop
}

// NewEmptyLines creates the Layout/EmptyLines cop.
func NewEmptyLines() *EmptyLines {
	return &EmptyLines{
		BaseCop: lint.NewBaseCop("Layout/EmptyLines", "Don't use several empty lines in a row.").WithAutocorrect(),
	}
}

// CheckLines implements lint.LineChecker.
func (c *EmptyLines) CheckLines(ctx *lint.Context) {
	first, last := 0, 0
	limit := codeLineLimit(ctx)
	for lineNum := 1; lineNum <= limit; lineNum++ {
		if lint.IsBlankLine(ctx.Source.Line(lineNum)) {
			continue
		}
		if first == 0 {
			first = lineNum
		}
		last = lineNum
	}

	for lineNum := first + 2; lineNum < last; lineNum++ {
		if !lint.IsBlankLine(ctx.Source.Line(lineNum)) || !lint.IsBlankLine(ctx.Source.Line(lineNum-1)) {
			continue
		}
		if ctx.CodeMap.InString(ctx.Source.LineStart(lineNum)) {
			continue
		}
		ctx.AddAt(lineNum, 0, "Extra blank line detected.")
	}
}

// codeLineLimit returns the last line before an __END__ marker, or the
// last line of the file.
func codeLineLimit(ctx *lint.Context) int {
	if hasDataSection(ctx) {
		line, _ := ctx.Source.LineCol(ctx.Parse.DataLoc.Start)
		for ; line >= 1; line-- {
			if string(ctx.Source.Line(line)) == "__END__" {
				return line - 1
			}
		}
	}
	return ctx.Source.LineCount()
}

func hasDataSection(ctx *lint.Context) bool {
	loc := ctx.Parse.DataLoc
	return loc.Start >= 0 && loc.End > loc.Start
}

// compilePatterns compiles regular expressions from configuration,
// skipping invalid ones.
func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, text []byte) bool {
	for _, re := range patterns {
		if re.Match(text) {
			return true
		}
	}
	return false
}
