// Package uritemplate expands RFC 6570 URI templates (level 4) as used by
// aboutUrl, propertyUrl and valueUrl. Variables come from the row builder as
// strings, string lists, or nil for null cells.
package uritemplate

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	rfc6570 "github.com/yosida95/uritemplate/v3"
)

// ErrMalformed is returned for templates that do not parse.
var ErrMalformed = errors.New("uritemplate: malformed template")

// Template is a parsed URI template.
type Template struct {
	t *rfc6570.Template
}

// Parse parses a template.
func Parse(raw string) (*Template, error) {
	t, err := rfc6570.New(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformed, raw, err)
	}
	return &Template{t: t}, nil
}

// Raw returns the template text.
func (t *Template) Raw() string { return t.t.Raw() }

// Expand expands the template. A variable that is missing, nil or an empty
// list is undefined and drops out of its expression.
func (t *Template) Expand(vars map[string]any) (string, error) {
	values := rfc6570.Values{}
	for name, v := range vars {
		switch v := v.(type) {
		case nil:
		case string:
			values.Set(name, rfc6570.String(v))
		case []string:
			if len(v) > 0 {
				values.Set(name, rfc6570.List(v...))
			}
		case map[string]string:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			kv := make([]string, 0, 2*len(v))
			for _, k := range keys {
				kv = append(kv, k, v[k])
			}
			values.Set(name, rfc6570.KV(kv...))
		default:
			values.Set(name, rfc6570.String(fmt.Sprint(v)))
		}
	}
	return t.t.Expand(values)
}

var cache sync.Map // raw template -> *Template

// Expand parses tmpl, reusing earlier parses of the same text, and expands
// it with vars.
func Expand(tmpl string, vars map[string]any) (string, error) {
	if t, ok := cache.Load(tmpl); ok {
		return t.(*Template).Expand(vars)
	}
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}
	cache.Store(tmpl, t)
	return t.Expand(vars)
}
