package metadata

import (
	"strconv"
	"strings"

	"github.com/6a6d74/rdf-tabular/csvsrc"
)

// Dialect reads dialect properties with their defaults applied. Values are
// never stored eagerly; every getter consults the underlying description.
type Dialect struct {
	node *Node
}

// Node returns the Dialect description backing d.
func (d *Dialect) Node() *Node { return d.node }

func (d *Dialect) raw(key string) (any, bool) {
	if d == nil || d.node == nil {
		return nil, false
	}
	v, ok := d.node.props[key]
	return v, ok
}

func (d *Dialect) str(key, def string) string {
	v, _ := d.raw(key)
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func (d *Dialect) flag(key string, def bool) bool {
	v, ok := d.raw(key)
	if !ok {
		return def
	}
	if b, ok := asBool(v); ok {
		return b
	}
	return def
}

func (d *Dialect) count(key string, def int) int {
	v, ok := d.raw(key)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if i, err := strconv.Atoi(t); err == nil {
			return i
		}
	}
	return def
}

// CommentPrefix returns the comment prefix, "" when none.
func (d *Dialect) CommentPrefix() string { return d.str("commentPrefix", "") }

func (d *Dialect) Delimiter() string { return d.str("delimiter", ",") }

func (d *Dialect) DoubleQuote() bool { return d.flag("doubleQuote", true) }

func (d *Dialect) Encoding() string { return d.str("encoding", "utf-8") }

func (d *Dialect) Header() bool { return d.flag("header", true) }

func (d *Dialect) HeaderColumnCount() int { return d.count("headerColumnCount", 0) }

// HeaderRowCount defaults to 1, or 0 when header is false.
func (d *Dialect) HeaderRowCount() int {
	def := 0
	if d.Header() {
		def = 1
	}
	return d.count("headerRowCount", def)
}

// LineTerminator returns the line terminator, "" meaning auto-detect.
func (d *Dialect) LineTerminator() string { return d.str("lineTerminator", "") }

func (d *Dialect) QuoteChar() string { return d.str("quoteChar", `"`) }

func (d *Dialect) SkipBlankRows() bool { return d.flag("skipBlankRows", false) }

func (d *Dialect) SkipColumns() int { return d.count("skipColumns", 0) }

func (d *Dialect) SkipInitialSpace() bool { return d.flag("skipInitialSpace", false) }

func (d *Dialect) SkipRows() int { return d.count("skipRows", 0) }

// Trim returns "true", "false", "start" or "end". It defaults to "start"
// when skipInitialSpace is set.
func (d *Dialect) Trim() string {
	v, ok := d.raw("trim")
	if !ok {
		if d.SkipInitialSpace() {
			return "start"
		}
		return "false"
	}
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case string:
		switch s := strings.ToLower(t); s {
		case "1":
			return "true"
		case "0":
			return "false"
		default:
			return s
		}
	case int64:
		return strconv.FormatBool(t == 1)
	}
	return "false"
}

// EscapeChar is the quote escape: the quote itself under doubleQuote,
// otherwise a backslash.
func (d *Dialect) EscapeChar() string {
	if d.DoubleQuote() {
		return `"`
	}
	return `\`
}

// SkippedColumns is the number of leading physical columns before the
// first described column.
func (d *Dialect) SkippedColumns() int { return d.SkipColumns() + d.HeaderColumnCount() }

// SourceConfig returns the tokenizer configuration for this dialect.
func (d *Dialect) SourceConfig() csvsrc.Config {
	cfg := csvsrc.Config{
		Delimiter:   firstRune(d.Delimiter(), ','),
		QuoteChar:   firstRune(d.QuoteChar(), 0),
		DoubleQuote: d.DoubleQuote(),
		Encoding:    d.Encoding(),
	}
	if lt := d.LineTerminator(); lt != "" {
		cfg.LineTerminators = []string{lt}
	}
	return cfg
}

func firstRune(s string, def rune) rune {
	for _, r := range s {
		return r
	}
	return def
}

// Dialect returns the effective dialect: the node's own, else its
// ancestor's, else the defaults. The result is memoized until SetDialect or
// Merge invalidates it.
func (n *Node) Dialect() *Dialect {
	if n.dialectCache != nil {
		return n.dialectCache
	}
	var d *Dialect
	switch {
	case n.kind == KindDialect:
		d = &Dialect{node: n}
	case n.dialect != nil:
		d = &Dialect{node: n.dialect}
	case n.parent != nil:
		d = n.parent.Dialect()
	default:
		d = &Dialect{node: &Node{kind: KindDialect, parent: n, props: map[string]any{}}}
	}
	n.dialectCache = d
	return d
}

// SetDialect replaces the node's own dialect (nil removes it) and clears the
// memoized dialect on the node and every descendant.
func (n *Node) SetDialect(d *Node) {
	if d != nil {
		d.parent = n
	}
	n.dialect = d
	n.clearDialect()
}

func (n *Node) clearDialect() {
	n.dialectCache = nil
	for _, c := range n.children() {
		c.clearDialect()
	}
}
