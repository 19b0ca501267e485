package configloader

import (
	"fmt"

	"github.com/yaklabco/turbocop/pkg/config"
)

// inheritMode names the keys whose sequences are concatenated rather than
// replaced when a layer is merged over the ones below it.
type inheritMode struct {
	merge    map[string]bool
	override map[string]bool
}

func (m inheritMode) merges(key string) bool {
	return m.merge[key] && !m.override[key]
}

// withLocal layers a cop-level inherit_mode over the file-level one.
func (m inheritMode) withLocal(local inheritMode) inheritMode {
	out := inheritMode{merge: map[string]bool{}, override: map[string]bool{}}
	for k := range m.merge {
		out.merge[k] = true
	}
	for k := range m.override {
		out.override[k] = true
	}
	for k := range local.merge {
		out.merge[k] = true
		delete(out.override, k)
	}
	for k := range local.override {
		out.override[k] = true
		delete(out.merge, k)
	}
	return out
}

// parseInheritMode reads an inherit_mode mapping. Keys other than merge and
// override are rejected.
func parseInheritMode(raw any) (inheritMode, error) {
	mode := inheritMode{merge: map[string]bool{}, override: map[string]bool{}}
	if raw == nil {
		return mode, nil
	}

	section, ok := raw.(map[string]any)
	if !ok {
		return mode, fmt.Errorf("%w: inherit_mode must be a mapping, got %T", ErrMalformedConfig, raw)
	}

	for key, value := range section {
		var target map[string]bool
		switch key {
		case "merge":
			target = mode.merge
		case "override":
			target = mode.override
		default:
			return mode, fmt.Errorf("%w %q", ErrUnknownInheritMode, key)
		}
		for _, name := range toStrings(value) {
			target[name] = true
		}
	}
	return mode, nil
}

// mergeTrees merges override onto base and returns a new tree. base is not
// modified. Mappings merge recursively with override winning, sequences
// are replaced unless the inherit mode names their key.
func mergeTrees(base, override map[string]any, mode inheritMode) (map[string]any, error) {
	result := config.CloneTree(base)
	if result == nil {
		result = make(map[string]any, len(override))
	}

	for key, value := range override {
		if key == config.KeyInheritFrom || key == config.KeyInheritMode {
			continue
		}
		merged, err := mergeValue(result[key], value, key, mode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		result[key] = merged
	}
	return result, nil
}

func mergeValue(base, override any, key string, mode inheritMode) (any, error) {
	switch ov := override.(type) {
	case map[string]any:
		bm, ok := base.(map[string]any)
		if !ok {
			return stripInheritMode(config.CloneTree(ov)), nil
		}

		local := mode
		if raw, has := ov[config.KeyInheritMode]; has {
			parsed, err := parseInheritMode(raw)
			if err != nil {
				return nil, err
			}
			local = mode.withLocal(parsed)
		}
		return mergeTrees(bm, ov, local)

	case []any:
		if bs, ok := base.([]any); ok && mode.merges(key) {
			return concatUnique(bs, ov), nil
		}
		out := make([]any, len(ov))
		copy(out, ov)
		return out, nil

	default:
		return override, nil
	}
}

func stripInheritMode(tree map[string]any) map[string]any {
	delete(tree, config.KeyInheritMode)
	return tree
}

func concatUnique(base, extra []any) []any {
	out := make([]any, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]any{base, extra} {
		for _, item := range list {
			key := fmt.Sprintf("%T:%v", item, item)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}

func toStrings(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
