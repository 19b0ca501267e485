// Package source provides the immutable per-file source buffer used by the
// analysis engine: raw bytes, display path, and a line-start index for
// offset and line/column conversion.
package source

import (
	"sort"
	"unicode/utf8"
)

// Range is a half-open byte range [Start, End) in a source buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Source is an immutable view of one file's content.
type Source struct {
	path       string
	content    []byte
	lineStarts []int
	validUTF8  bool
}

// New builds a Source for content. The display path may differ from the
// on-disk path (for example when linting stdin). Invalid UTF-8 does not
// fail: the buffer stays indexable and ValidUTF8 reports false.
func New(path string, content []byte) *Source {
	return &Source{
		path:       path,
		content:    content,
		lineStarts: buildLineStarts(content),
		validUTF8:  utf8.Valid(content),
	}
}

// buildLineStarts records the byte offset at which every line begins.
// A trailing newline does not open a new line.
func buildLineStarts(content []byte) []int {
	if len(content) == 0 {
		return nil
	}

	starts := []int{0}
	for idx, char := range content {
		if char == '\n' && idx+1 < len(content) {
			starts = append(starts, idx+1)
		}
	}
	return starts
}

// Path returns the display path.
func (s *Source) Path() string {
	return s.path
}

// Bytes returns the raw content. Callers must not mutate it.
func (s *Source) Bytes() []byte {
	return s.content
}

// Len returns the content length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// ValidUTF8 reports whether the content decodes as UTF-8.
func (s *Source) ValidUTF8() bool {
	return s.validUTF8
}

// LineCount returns the number of lines.
func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

// LineCol converts a byte offset to a 1-based line and 0-based byte column.
// Empty input yields (1, 0); offsets at or past EOF yield (LineCount()+1, 0).
func (s *Source) LineCol(offset int) (int, int) {
	if len(s.lineStarts) == 0 || offset <= 0 {
		return 1, 0
	}
	if offset >= len(s.content) {
		return len(s.lineStarts) + 1, 0
	}

	// First line whose start is beyond offset; the line before it holds offset.
	idx := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	})
	return idx, offset - s.lineStarts[idx-1]
}

// Offset converts a 1-based line and 0-based column to a byte offset.
// The column may point one past the last byte of the line.
func (s *Source) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(s.lineStarts) || col < 0 {
		return 0, false
	}

	start := s.lineStarts[line-1]
	end := s.lineEnd(line)
	if start+col > end {
		return 0, false
	}
	return start + col, true
}

// lineEnd returns the offset of the line's newline byte, or EOF.
func (s *Source) lineEnd(line int) int {
	if line < len(s.lineStarts) {
		return s.lineStarts[line] - 1
	}
	end := len(s.content)
	if end > 0 && s.content[end-1] == '\n' {
		end--
	}
	return end
}

// LineStart returns the byte offset at which line begins, or -1.
func (s *Source) LineStart(line int) int {
	if line < 1 || line > len(s.lineStarts) {
		return -1
	}
	return s.lineStarts[line-1]
}

// RawLine returns a 1-based line without its '\n' but keeping any '\r'.
func (s *Source) RawLine(line int) []byte {
	if line < 1 || line > len(s.lineStarts) {
		return nil
	}
	return s.content[s.lineStarts[line-1]:s.lineEnd(line)]
}

// Line returns a 1-based line without its line terminator ("\n" or "\r\n").
func (s *Source) Line(line int) []byte {
	raw := s.RawLine(line)
	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		return raw[:n-1]
	}
	return raw
}

// Lines returns every line without its terminator.
// "a\nb\n" and "a\nb" both yield two lines.
func (s *Source) Lines() [][]byte {
	lines := make([][]byte, 0, len(s.lineStarts))
	for line := 1; line <= len(s.lineStarts); line++ {
		lines = append(lines, s.Line(line))
	}
	return lines
}

// Text returns the content covered by r, clamped to the buffer.
func (s *Source) Text(r Range) []byte {
	start := max(r.Start, 0)
	end := min(r.End, len(s.content))
	if start >= end {
		return nil
	}
	return s.content[start:end]
}

// EndsWithNewline reports whether the content ends in '\n'.
func (s *Source) EndsWithNewline() bool {
	return len(s.content) > 0 && s.content[len(s.content)-1] == '\n'
}
