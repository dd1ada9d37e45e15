package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/6a6d74/rdf-tabular/datatype"
)

// Name returns the column name. Without an explicit name the first title in
// the default language is used, percent-encoded; failing that "_col.N".
func (n *Node) Name() string {
	if s, ok := n.props["name"].(string); ok {
		return s
	}
	if ts := n.Title()[n.Context().DefaultLanguage()]; len(ts) > 0 && ts[0] != "" {
		return encodeName(ts[0])
	}
	return "_col." + strconv.Itoa(n.number)
}

// encodeName percent-encodes a non alphanumeric first character and any
// later character outside [A-Za-z0-9_.].
func encodeName(title string) string {
	var b strings.Builder
	first, size := utf8.DecodeRuneInString(title)
	writeEscaped(&b, title[:size], func(c byte) bool { return isAlnum(c) && first < utf8.RuneSelf })
	writeEscaped(&b, title[size:], func(c byte) bool { return isAlnum(c) || c == '_' || c == '.' })
	return b.String()
}

func writeEscaped(b *strings.Builder, s string, keep func(byte) bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < utf8.RuneSelf && keep(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(b, "%%%02X", c)
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// Number is the 1-based position of a column within its schema.
func (n *Node) Number() int { return n.number }

// SourceNumber is the 1-based physical column, offset by the table's
// skipped and header columns.
func (n *Node) SourceNumber() int {
	if t := n.Table(); t != nil {
		return n.number + t.Dialect().SkippedColumns()
	}
	return n.number
}

// ColumnID identifies a column as a fragment of its table URL.
func (n *Node) ColumnID() string {
	u := ""
	if t := n.Table(); t != nil {
		u = t.url
	}
	return fmt.Sprintf("%s#col=%d", u, n.SourceNumber())
}

// Virtual reports a virtual column.
func (n *Node) Virtual() bool { return n.Bool("virtual") }

// SuppressOutput reports whether the table or column is excluded from
// output.
func (n *Node) SuppressOutput() bool { return n.Bool("suppressOutput") }

// Required reports a required column.
func (n *Node) Required() bool { return n.Bool("required") }

// Null returns the inherited null values, [""] when unset.
func (n *Node) Null() []string {
	v, ok := n.Inherited("null")
	if !ok {
		return []string{""}
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{""}
}

// Lang returns the inherited language tag, "" when unset.
func (n *Node) Lang() string {
	v, _ := n.Inherited("lang")
	s, _ := v.(string)
	return s
}

// Separator returns the inherited list separator.
func (n *Node) Separator() (string, bool) {
	v, ok := n.Inherited("separator")
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Default returns the inherited default value, "" when unset.
func (n *Node) Default() string {
	v, _ := n.Inherited("default")
	s, _ := v.(string)
	return s
}

// Ordered reports whether list values form an ordered list.
func (n *Node) Ordered() bool {
	v, ok := n.Inherited("ordered")
	if !ok {
		return false
	}
	b, _ := asBool(v)
	return b
}

// TextDirection returns the inherited text direction, "ltr" when unset.
func (n *Node) TextDirection() string {
	v, _ := n.Inherited("textDirection")
	if s, ok := v.(string); ok {
		return s
	}
	return "ltr"
}

// Datatypes returns the inherited datatype as normalized descriptors; nil
// when no datatype is declared.
func (n *Node) Datatypes() ([]datatype.Descriptor, error) {
	v, ok := n.Inherited("datatype")
	if !ok {
		return nil, nil
	}
	return datatype.Normalize(v)
}

// AboutURL returns the inherited aboutUrl template.
func (n *Node) AboutURL() (string, bool) { return n.template("aboutUrl") }

// PropertyURL returns the inherited propertyUrl template.
func (n *Node) PropertyURL() (string, bool) { return n.template("propertyUrl") }

// ValueURL returns the inherited valueUrl template.
func (n *Node) ValueURL() (string, bool) { return n.template("valueUrl") }

func (n *Node) template(key string) (string, bool) {
	v, ok := n.Inherited(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
