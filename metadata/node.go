// Package metadata models CSVW metadata documents as a tree of typed nodes
// and reads tabular data under their control.
package metadata

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	tabular "github.com/6a6d74/rdf-tabular"
	"github.com/6a6d74/rdf-tabular/vocab"
)

// Kind is the variant of a metadata node.
type Kind int

const (
	KindUnknown Kind = iota
	KindTableGroup
	KindTable
	KindSchema
	KindColumn
	KindDialect
	KindTransformation
)

var kindNames = map[Kind]string{
	KindTableGroup:     "TableGroup",
	KindTable:          "Table",
	KindSchema:         "Schema",
	KindColumn:         "Column",
	KindDialect:        "Dialect",
	KindTransformation: "Transformation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ParseKind maps a type name ("Table", "Schema", ...) to a Kind.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

func (k Kind) inherits() bool { return k != KindDialect && k != KindTransformation }

// Node is one description in a metadata tree. Children are owned by their
// parent; the parent pointer is a back reference used for inheritance.
type Node struct {
	kind   Kind
	parent *Node

	// props holds declared, inherited and unrecognised keys with their
	// document values. Structural children live in the typed fields below.
	props  map[string]any
	common map[string]any

	tables          []*Node
	schema          *Node
	columns         []*Node
	dialect         *Node
	transformations []*Node

	id        string
	url       string
	base      string
	ctx       *vocab.Context
	filenames []string
	number    int

	// dialectCache memoizes Dialect(); SetDialect and Merge clear it on
	// every descendant.
	dialectCache *Dialect

	issues tabular.Issues
	logger *slog.Logger
	loader Loader

	// embedded is set on a Table whose data header has been merged in.
	embedded bool
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Embedded reports whether the embedded metadata of the table's data has
// already been merged into the receiver.
func (n *Node) Embedded() bool { return n.embedded }

// Parent returns the enclosing node, nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// ID returns the resolved @id or "".
func (n *Node) ID() string { return n.id }

// URL returns the resolved url of a Table or Transformation.
func (n *Node) URL() string { return n.url }

// Base returns the location this node's document was loaded from.
func (n *Node) Base() string {
	for p := n; p != nil; p = p.parent {
		if p.base != "" {
			return p.base
		}
	}
	return ""
}

// Filenames returns the metadata locations this description came from.
func (n *Node) Filenames() []string { return append([]string(nil), n.filenames...) }

// Tables returns the resources of a TableGroup.
func (n *Node) Tables() []*Node { return n.tables }

// Schema returns the tableSchema of a Table or TableGroup, or nil.
func (n *Node) Schema() *Node { return n.schema }

// Columns returns the columns of a Schema.
func (n *Node) Columns() []*Node { return n.columns }

// Transformations returns the transformations of a Table or TableGroup.
func (n *Node) Transformations() []*Node { return n.transformations }

// TableSchema returns the effective schema for a Table, falling back to the
// TableGroup's schema.
func (n *Node) TableSchema() *Node {
	for p := n; p != nil; p = p.parent {
		if p.schema != nil {
			return p.schema
		}
	}
	return nil
}

// Table returns the nearest enclosing Table (n itself for a Table).
func (n *Node) Table() *Node {
	for p := n; p != nil; p = p.parent {
		if p.kind == KindTable {
			return p
		}
	}
	return nil
}

// Context returns the nearest context, a base-only context when the tree
// has none.
func (n *Node) Context() *vocab.Context {
	for p := n; p != nil; p = p.parent {
		if p.ctx != nil {
			return p.ctx
		}
	}
	c, _ := vocab.New(n.Base(), "")
	return c
}

// Get returns the node's own value for key.
func (n *Node) Get(key string) (any, bool) {
	if v, ok := n.props[key]; ok {
		return v, true
	}
	v, ok := n.common[key]
	return v, ok
}

// Inherited returns the value of an inherited property, walking up the
// tree until a node defines it.
func (n *Node) Inherited(key string) (any, bool) {
	for p := n; p != nil; p = p.parent {
		if v, ok := p.props[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set assigns a declared, inherited or common property. Natural-language
// values are stored in language-map form.
func (n *Node) Set(key string, value any) {
	if isCommonKey(key) {
		if n.common == nil {
			n.common = map[string]any{}
		}
		n.common[key] = value
		return
	}
	if n.props == nil {
		n.props = map[string]any{}
	}
	if c, ok := categoryOf(n.kind, key); ok && c == catNaturalLanguage {
		if nl, ok := naturalLanguage(value, n.Context().DefaultLanguage()); ok {
			n.props[key] = nl
			return
		}
	}
	n.props[key] = value
}

// CommonProperties returns the vocabulary-qualified properties (and notes)
// in normalized JSON-LD form.
func (n *Node) CommonProperties() map[string]any {
	out := make(map[string]any, len(n.common))
	for k, v := range n.common {
		out[k] = v
	}
	return out
}

// HasAnnotations reports whether the node or a descendant carries common
// properties.
func (n *Node) HasAnnotations() bool {
	if len(n.common) > 0 {
		return true
	}
	for _, c := range n.children() {
		if c.HasAnnotations() {
			return true
		}
	}
	return false
}

// Notes returns the notes of a Table or TableGroup.
func (n *Node) Notes() []any {
	if v, ok := n.props["notes"].([]any); ok {
		return v
	}
	return nil
}

// Title returns the natural-language title map.
func (n *Node) Title() map[string][]string {
	if v, ok := n.props["title"].(map[string][]string); ok {
		return v
	}
	return nil
}

// Bool returns a boolean-like property (true/false/1/0, case-insensitive).
func (n *Node) Bool(key string) bool {
	v, ok := n.props[key]
	if !ok {
		return false
	}
	b, _ := asBool(v)
	return b
}

// String returns a string property or "".
func (n *Node) String(key string) string {
	s, _ := n.props[key].(string)
	return s
}

func (n *Node) children() []*Node {
	var out []*Node
	out = append(out, n.tables...)
	if n.schema != nil {
		out = append(out, n.schema)
	}
	out = append(out, n.columns...)
	if n.dialect != nil {
		out = append(out, n.dialect)
	}
	return append(out, n.transformations...)
}

func (n *Node) log() *slog.Logger {
	for p := n; p != nil; p = p.parent {
		if p.logger != nil {
			return p.logger
		}
	}
	return discardLogger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// isCommonKey reports whether key is a vocabulary-qualified property.
func isCommonKey(key string) bool {
	return strings.Contains(key, ":") && !strings.HasPrefix(key, "@")
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int64:
		return t == 1, t == 0 || t == 1
	case float64:
		return t == 1, t == 0 || t == 1
	case string:
		switch strings.ToLower(t) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

// naturalLanguage normalizes a string, array of strings or language map into
// language-map form.
func naturalLanguage(v any, lang string) (map[string][]string, bool) {
	switch t := v.(type) {
	case map[string][]string:
		return t, true
	case string:
		return map[string][]string{lang: {t}}, true
	case []any:
		vals := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			vals = append(vals, s)
		}
		return map[string][]string{lang: vals}, true
	case map[string]any:
		out := make(map[string][]string, len(t))
		for k, e := range t {
			switch ev := e.(type) {
			case string:
				out[k] = []string{ev}
			case []any:
				for _, x := range ev {
					s, ok := x.(string)
					if !ok {
						return nil, false
					}
					out[k] = append(out[k], s)
				}
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}
