package config

import (
	"sort"
	"strings"
)

// Filter is the --only / --except selection. Entries are cop names or
// department names.
type Filter struct {
	Only   []string
	Except []string
}

// ParseList splits a comma separated flag value.
func ParseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Active reports whether either list is non-empty.
func (f Filter) Active() bool {
	return len(f.Only) > 0 || len(f.Except) > 0
}

// Admits reports whether the filter lets a cop run.
func (f Filter) Admits(name string) bool {
	dept := Department(name)
	if len(f.Only) > 0 && !contains(f.Only, name) && !contains(f.Only, dept) {
		return false
	}
	return !contains(f.Except, name) && !contains(f.Except, dept)
}

// Key returns a canonical string for the filter, stable under reordering.
func (f Filter) Key() string {
	only := append([]string(nil), f.Only...)
	except := append([]string(nil), f.Except...)
	sort.Strings(only)
	sort.Strings(except)
	return "only=" + strings.Join(only, ",") + ";except=" + strings.Join(except, ",")
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
