package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw returns an option value as decoded from YAML.
func (c *CopConfig) Raw(name string) (any, bool) {
	if c == nil || c.Options == nil {
		return nil, false
	}
	v, ok := c.Options[name]
	return v, ok
}

// GetBool returns a boolean option, coercing "true"/"false" strings.
func (c *CopConfig) GetBool(name string, def bool) bool {
	raw, ok := c.Raw(name)
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// GetInt returns a non-negative integer option. Floats with no fractional
// part and numeric strings are accepted.
func (c *CopConfig) GetInt(name string, def int) int {
	raw, ok := c.Raw(name)
	if !ok {
		return def
	}

	var value int
	switch v := raw.(type) {
	case int:
		value = v
	case int64:
		value = int(v)
	case uint64:
		if v > math.MaxInt32 {
			return def
		}
		value = int(v)
	case float64:
		if v != math.Trunc(v) {
			return def
		}
		value = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		value = parsed
	default:
		return def
	}

	if value < 0 {
		return def
	}
	return value
}

// GetString returns a string option. Scalars are formatted.
func (c *CopConfig) GetString(name, def string) string {
	raw, ok := c.Raw(name)
	if !ok || raw == nil {
		return def
	}
	switch v := raw.(type) {
	case string:
		return v
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v)
	default:
		return def
	}
}

// GetStringSlice returns a sequence option as strings. A scalar becomes a
// one-element slice.
func (c *CopConfig) GetStringSlice(name string) []string {
	raw, ok := c.Raw(name)
	if !ok || raw == nil {
		return nil
	}
	return toStringSlice(raw)
}

// GetStringMap returns a mapping option with scalar values formatted as
// strings.
func (c *CopConfig) GetStringMap(name string) map[string]string {
	raw, ok := c.Raw(name)
	if !ok {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

func toStringSlice(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{v}
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(v)}
	}
}
