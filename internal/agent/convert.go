package agent

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/thoreinstein/nexus/internal/errors"
)

// Native documents are decoded into map[string]any by three different
// parsers (encoding/json, go-toml, yaml.v3). These helpers read values back
// regardless of which produced them.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asStrings(v any) ([]string, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return tv, nil
	case []any:
		out := make([]string, 0, len(tv))
		for _, e := range tv {
			s, ok := e.(string)
			if !ok {
				return nil, errors.Newf("expected string element, got %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.Newf("expected array, got %T", v)
	}
}

func asStringMap(v any) (map[string]string, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return tv, nil
	case map[string]any:
		out := make(map[string]string, len(tv))
		for k, e := range tv {
			switch ev := e.(type) {
			case string:
				out[k] = ev
			case bool, int, int64, float64:
				// YAML and TOML users write unquoted scalars in env blocks
				out[k] = fmt.Sprint(ev)
			default:
				return nil, errors.Newf("expected string value for %q, got %T", k, e)
			}
		}
		return out, nil
	default:
		return nil, errors.Newf("expected table, got %T", v)
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asBool(v any) (*bool, error) {
	if v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, errors.Newf("expected boolean, got %T", v)
	}
	return &b, nil
}

func asFloat(v any) (*float64, error) {
	var f float64
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = tv
	case float32:
		f = float64(tv)
	case int:
		f = float64(tv)
	case int64:
		f = float64(tv)
	case uint64:
		f = float64(tv)
	case json.Number:
		parsed, err := tv.Float64()
		if err != nil {
			return nil, err
		}
		f = parsed
	default:
		return nil, errors.Newf("expected number, got %T", v)
	}
	return &f, nil
}

// toAny converts a JSON raw value into the generic form the codecs encode.
func toAny(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// fromAny converts a leftover native value into a raw JSON unknown field.
func fromAny(v any) (json.RawMessage, bool) {
	data, err := json.Marshal(normalizeAny(v))
	if err != nil {
		return nil, false
	}
	return data, true
}

// normalizeAny turns yaml.v3's map[any]any (non-string keys) into
// map[string]any so encoding/json accepts it.
func normalizeAny(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = normalizeAny(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[fmt.Sprint(k)] = normalizeAny(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = normalizeAny(e)
		}
		return out
	default:
		return v
	}
}

// stringMapAny widens a string map for the generic encoders.
func stringMapAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
