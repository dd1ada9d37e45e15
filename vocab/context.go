// Package vocab resolves identifiers in metadata documents: the base URL,
// the default language and prefixed names from the CSVW initial context.
package vocab

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidContext is returned for an @context the processor does not accept.
var ErrInvalidContext = errors.New("vocab: invalid @context")

// Context is an immutable resolution scope. The zero value has no base and
// no default language.
type Context struct {
	base *url.URL
	lang string
}

// New returns a Context for base (may be empty) and a default language tag.
func New(base, lang string) (*Context, error) {
	c := &Context{lang: lang}
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("vocab: base %q: %w", base, err)
		}
		c.base = u
	}
	return c, nil
}

// FromValue builds a Context from an @context value. Accepted shapes are the
// CSVW context URL, or a two element array of that URL and an object holding
// @base and/or @language. @base is resolved against base.
func FromValue(v any, base string) (*Context, error) {
	switch t := v.(type) {
	case nil:
		return New(base, "")
	case string:
		if t != ContextURL {
			return nil, fmt.Errorf("%w: %q", ErrInvalidContext, t)
		}
		return New(base, "")
	case []any:
		if len(t) != 2 || t[0] != ContextURL {
			return nil, fmt.Errorf("%w: expected [%q, {...}]", ErrInvalidContext, ContextURL)
		}
		obj, ok := t[1].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: second entry must be an object", ErrInvalidContext)
		}
		for k := range obj {
			if k != "@base" && k != "@language" {
				return nil, fmt.Errorf("%w: unexpected key %q", ErrInvalidContext, k)
			}
		}
		c, err := New(base, "")
		if err != nil {
			return nil, err
		}
		if b, ok := obj["@base"]; ok {
			s, ok := b.(string)
			if !ok {
				return nil, fmt.Errorf("%w: @base must be a string", ErrInvalidContext)
			}
			c = c.WithBase(c.Resolve(s))
		}
		if l, ok := obj["@language"]; ok {
			s, ok := l.(string)
			if !ok || !ValidLanguage(s) {
				return nil, fmt.Errorf("%w: invalid @language %v", ErrInvalidContext, l)
			}
			c.lang = s
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidContext, v)
	}
}

// Base returns the base URL or "".
func (c *Context) Base() string {
	if c == nil || c.base == nil {
		return ""
	}
	return c.base.String()
}

// DefaultLanguage returns the default language, "und" when none was set.
func (c *Context) DefaultLanguage() string {
	if c == nil || c.lang == "" {
		return "und"
	}
	return c.lang
}

// HasLanguage reports whether an explicit default language was set.
func (c *Context) HasLanguage() bool { return c != nil && c.lang != "" }

// WithBase returns a copy of c rebased to base. An unparsable base leaves the
// base unchanged.
func (c *Context) WithBase(base string) *Context {
	out := &Context{}
	if c != nil {
		*out = *c
	}
	if u, err := url.Parse(base); err == nil {
		out.base = u
	}
	return out
}

// Resolve resolves ref against the base. Absolute references and an empty
// base return ref unchanged.
func (c *Context) Resolve(ref string) string {
	if c == nil || c.base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// ExpandIRI expands a prefixed name using the initial context. When vocab is
// true a bare term is taken from the CSVW vocabulary, otherwise it is resolved
// against the base.
func (c *Context) ExpandIRI(term string, vocab bool) string {
	if prefix, local, ok := strings.Cut(term, ":"); ok && !strings.HasPrefix(local, "//") {
		if ns, ok := Prefixes[prefix]; ok {
			return ns + local
		}
		return term
	}
	if IsAbsolute(term) {
		return term
	}
	if vocab {
		return CSVW + term
	}
	return c.Resolve(term)
}

// IsAbsolute reports whether s is an absolute IRI.
func IsAbsolute(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && !strings.Contains(s, " ")
}

// IsPrefixed reports whether term uses a prefix from the initial context.
func IsPrefixed(term string) bool {
	prefix, _, ok := strings.Cut(term, ":")
	if !ok {
		return false
	}
	_, known := Prefixes[prefix]
	return known
}
