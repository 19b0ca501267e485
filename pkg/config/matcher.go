package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// matchMemoSize bounds the (pattern, path) memo.
const matchMemoSize = 8192

// Matcher matches Include/Exclude globs against paths in both absolute and
// root-relative form. Results are memoized; a Matcher is safe for
// concurrent use.
type Matcher struct {
	root string
	memo *lru.Cache[string, bool]
}

// NewMatcher creates a matcher anchored at root.
func NewMatcher(root string) *Matcher {
	memo, err := lru.New[string, bool](matchMemoSize)
	if err != nil {
		memo = nil
	}
	if root != "" {
		if abs, absErr := filepath.Abs(root); absErr == nil {
			root = abs
		}
	}
	return &Matcher{root: root, memo: memo}
}

// MatchAny reports whether any pattern matches path.
func (m *Matcher) MatchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if m.Match(pattern, path) {
			return true
		}
	}
	return false
}

// Match reports whether pattern matches path.
func (m *Matcher) Match(pattern, path string) bool {
	if pattern == "" || path == "" {
		return false
	}

	key := pattern + "\x00" + path
	if m.memo != nil {
		if hit, ok := m.memo.Get(key); ok {
			return hit
		}
	}

	matched := m.match(pattern, path)
	if m.memo != nil {
		m.memo.Add(key, matched)
	}
	return matched
}

func (m *Matcher) match(pattern, path string) bool {
	abs, rel := m.forms(path)
	pat := filepath.ToSlash(pattern)

	if ok, _ := doublestar.Match(pat, abs); ok {
		return true
	}
	if rel != "" {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	if !filepath.IsAbs(pattern) && m.root != "" {
		anchored := filepath.ToSlash(m.root) + "/" + strings.TrimPrefix(pat, "./")
		if ok, _ := doublestar.Match(anchored, abs); ok {
			return true
		}
	}
	return false
}

// forms returns the slash-separated absolute and root-relative forms of
// path. rel is empty when path lies outside the root.
func (m *Matcher) forms(path string) (string, string) {
	if !filepath.IsAbs(path) {
		clean := filepath.Clean(path)
		abs := clean
		if m.root != "" {
			abs = filepath.Join(m.root, clean)
		}
		return filepath.ToSlash(abs), filepath.ToSlash(clean)
	}

	abs := filepath.Clean(path)
	if m.root == "" {
		return filepath.ToSlash(abs), ""
	}
	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs), ""
	}
	return filepath.ToSlash(abs), filepath.ToSlash(rel)
}
