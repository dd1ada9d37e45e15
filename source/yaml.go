package source

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlDriver struct{}

func (yamlDriver) Name() string { return "yaml.v3" }

func (yamlDriver) Decode(r io.Reader) (any, []Duplicate, error) {
	var node any
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		return nil, nil, err
	}
	return yamlNormalizeValue(node), nil, nil
}

// yamlAnyToStringMap converts YAML-decoded maps (which may be map[any]any)
// into JSON-like map[string]any recursively. Non-string keys are dropped.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

// yamlNormalizeValue maps YAML scalars onto the same shapes the JSON driver
// produces so the metadata layer sees one representation.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	case int:
		return int64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
