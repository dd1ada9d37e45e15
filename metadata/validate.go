package metadata

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	tabular "github.com/6a6d74/rdf-tabular"
	"github.com/6a6d74/rdf-tabular/csvsrc"
	"github.com/6a6d74/rdf-tabular/datatype"
	"github.com/6a6d74/rdf-tabular/vocab"
)

var reName = regexp.MustCompile(`^(?:_col|[a-zA-Z0-9])[a-zA-Z0-9._]*$`)

// Validate checks the node and its descendants and returns every problem
// found as tabular.Issues, or nil. Child issues are folded in with their
// paths rebased under the parent.
func (n *Node) Validate() error {
	v := validator{n: n}
	v.run()
	return v.iss.Err()
}

// Valid reports whether Validate finds no problem.
func (n *Node) Valid() bool { return n.Validate() == nil }

// Errors returns the validation messages, empty when valid.
func (n *Node) Errors() []string {
	iss, ok := tabular.AsIssues(n.Validate())
	if !ok {
		return []string{}
	}
	return iss.Messages()
}

type validator struct {
	n   *Node
	iss tabular.Issues
}

func (v *validator) add(path, code string, params map[string]string) {
	if params == nil {
		params = map[string]string{}
	}
	params["type"] = v.n.kind.String()
	v.iss = append(v.iss, tabular.NewIssue(path, code, params))
}

func (v *validator) invalid(key string, detail string) {
	v.add("/"+key, tabular.CodeInvalidProperty, map[string]string{"key": key, "detail": detail})
}

func (v *validator) child(c *Node, prefix string) {
	if err := c.Validate(); err != nil {
		if iss, ok := tabular.AsIssues(err); ok {
			v.iss = append(v.iss, iss.Rebase(prefix)...)
		}
	}
}

// keys lists every key present on the node as written in the document,
// excluding @id and @context.
func (n *Node) keys() []string {
	set := map[string]bool{}
	for k := range n.props {
		set[k] = true
	}
	for k := range n.common {
		set[k] = true
	}
	if n.columns != nil {
		set["columns"] = true
	}
	if n.tables != nil {
		set["resources"] = true
	}
	if n.transformations != nil {
		set["transformations"] = true
	}
	if n.schema != nil {
		set["tableSchema"] = true
	}
	if n.dialect != nil {
		set["dialect"] = true
	}
	delete(set, "@id")
	delete(set, "@context")
	return sortedKeys(set)
}

func (v *validator) run() {
	n := v.n
	keys := n.keys()
	var unexpected []string
	for _, k := range keys {
		if isCommonKey(k) && n.kind != KindDialect {
			continue
		}
		if _, ok := categoryOf(n.kind, k); !ok {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) > 0 {
		v.add("", tabular.CodeUnexpectedKey, map[string]string{"keys": inspectList(unexpected)})
	}
	var missing []string
	for _, k := range required[n.kind] {
		if !contains(keys, k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		v.add("", tabular.CodeRequired, map[string]string{"keys": inspectList(missing)})
	}

	for _, key := range keys {
		if isCommonKey(key) {
			continue
		}
		if _, ok := inherited[key]; ok {
			v.inherited(key, n.props[key])
			continue
		}
		v.property(key)
	}
	v.iss = append(v.iss, n.issues...)
}

func (v *validator) property(key string) {
	n := v.n
	value, raw := n.props[key]
	switch key {
	case "columns":
		if raw {
			v.invalid(key, "expected array of Columns")
			return
		}
		seen := map[string]bool{}
		for i, c := range n.columns {
			v.child(c, fmt.Sprintf("/columns/%d", i))
			name := c.Name()
			if seen[name] {
				v.add("/columns", tabular.CodeUniqueness, map[string]string{"name": name})
			}
			seen[name] = true
		}
	case "resources":
		if raw {
			v.invalid(key, "expected array of Tables")
			return
		}
		for i, t := range n.tables {
			v.child(t, fmt.Sprintf("/resources/%d", i))
		}
	case "transformations":
		if raw {
			v.invalid(key, "expected array of Transformations")
			return
		}
		for i, t := range n.transformations {
			v.child(t, fmt.Sprintf("/transformations/%d", i))
		}
	case "tableSchema":
		if raw {
			v.invalid(key, "expected Schema")
			return
		}
		v.child(n.schema, "/tableSchema")
	case "dialect":
		if raw {
			v.invalid(key, "expected a Dialect Description")
			return
		}
		v.child(n.dialect, "/dialect")
	case "commentPrefix", "delimiter", "quoteChar":
		if s, ok := value.(string); !ok || utf8Len(s) != 1 {
			v.invalid(key, inspect(value)+", expected a single character string")
		}
	case "format", "lineTerminator", "urlTemplate":
		if _, ok := value.(string); !ok {
			v.invalid(key, inspect(value)+", expected a string")
		}
	case "doubleQuote", "header", "required", "skipInitialSpace", "skipBlankRows", "suppressOutput", "virtual":
		if _, ok := asBool(value); !ok {
			v.invalid(key, inspect(value)+", expected true, false, 1, or 0")
		}
	case "encoding":
		if s, ok := value.(string); !ok || !csvsrc.ValidEncoding(s) {
			v.invalid(key, inspect(value)+", expected a valid encoding")
		}
	case "headerColumnCount", "headerRowCount", "skipColumns", "skipRows":
		if i, ok := integer(value); !ok || i < 0 {
			v.invalid(key, inspect(value)+" must be a non-negative integer")
		}
	case "name":
		if s, ok := value.(string); !ok || !reName.MatchString(s) {
			v.invalid(key, display(value)+", expected proper string format")
		}
	case "notes":
	case "primaryKey":
		for _, ref := range stringList(value) {
			if !n.hasColumn(ref) {
				v.invalid(key, "column reference not found "+ref)
			}
		}
	case "foreignKeys":
		v.foreignKeys(value)
	case "scriptFormat", "targetFormat":
		if s, ok := value.(string); !ok || !vocab.IsAbsolute(s) {
			v.invalid(key, inspect(value)+", expected valid absolute URL")
		}
	case "url":
		s, ok := value.(string)
		if ok {
			_, err := url.Parse(s)
			ok = err == nil
		}
		if !ok {
			v.invalid(key, inspect(value)+", expected valid absolute URL")
		}
	case "source":
		if s, _ := value.(string); s != "json" && s != "rdf" {
			v.invalid(key, inspect(value)+", expected json or rdf")
		}
	case "tableDirection":
		if s, _ := value.(string); s != "rtl" && s != "ltr" && s != "default" {
			v.invalid(key, inspect(value)+", expected rtl, ltr, or default")
		}
	case "title":
		if _, ok := value.(map[string][]string); !ok {
			v.invalid(key, inspect(value)+", expected a valid natural language property")
		}
	case "trim":
		ok := false
		switch t := value.(type) {
		case bool:
			ok = true
		case string:
			switch strings.ToLower(t) {
			case "true", "false", "1", "0", "start", "end":
				ok = true
			}
		case int64:
			ok = t == 0 || t == 1
		}
		if !ok {
			v.invalid(key, inspect(value)+", expected true, false, 1, 0, start or end")
		}
	case "@type":
		if s, _ := value.(string); s != n.kind.String() {
			v.invalid(key, inspect(value)+", expected "+n.kind.String())
		}
	}
}

func (v *validator) foreignKeys(value any) {
	const key = "foreignKeys"
	arr, ok := value.([]any)
	if !ok {
		v.invalid(key, "expected array of foreign key definitions")
		return
	}
	for _, e := range arr {
		fk, ok := e.(map[string]any)
		if !ok {
			v.invalid(key, "reference must be an object: "+inspect(e))
			continue
		}
		cols, hasCols := fk["columns"]
		ref, hasRef := fk["reference"]
		if !hasCols || !hasRef {
			v.invalid(key, "missing columns and reference")
		}
		if len(fk) != 2 {
			v.invalid(key, "has extra entries "+inspectList(sortedKeys(fk)))
		}
		for _, c := range stringList(cols) {
			if !v.n.hasColumn(c) {
				v.invalid(key, "column reference not found "+c)
			}
		}
		if !hasRef {
			continue
		}
		r, ok := ref.(map[string]any)
		if !ok {
			v.invalid(key, "reference must be an object: "+inspect(ref))
			continue
		}
		if _, res := r["resource"]; res {
			if _, ts := r["tableSchema"]; ts {
				v.invalid(key, "reference has a tableSchema: "+inspect(r))
			} else if _, ts := r["schemaReference"]; ts {
				v.invalid(key, "reference has a schemaReference: "+inspect(r))
			}
		}
	}
}

// inherited checks an inherited property's own shape, then its
// compatibility with the value an ancestor defines.
func (v *validator) inherited(key string, value any) {
	n := v.n
	var pv any
	var hasParent bool
	if n.parent != nil {
		pv, hasParent = n.parent.Inherited(key)
	}
	expected := ""
	switch key {
	case "aboutUrl", "default", "propertyUrl", "valueUrl":
		if _, ok := value.(string); !ok {
			expected = "string"
		}
	case "datatype":
		ds, err := datatype.Normalize(value)
		if err == nil {
			for _, d := range ds {
				if err = d.Check(); err != nil {
					break
				}
			}
		}
		if err != nil {
			expected = "valid datatype"
		}
	case "lang":
		if s, ok := value.(string); !ok || !vocab.ValidLanguage(s) {
			expected = "valid BCP47 language tag"
		}
	case "null":
		if _, ok := value.(string); !ok {
			if arr, ok := value.([]any); !ok || len(stringList(arr)) != len(arr) {
				expected = "string or array of strings"
			}
		}
	case "ordered":
		if _, ok := asBool(value); !ok {
			expected = "boolean"
		}
	case "separator":
		if value != nil {
			if s, ok := value.(string); !ok || utf8Len(s) != 1 {
				expected = "single character"
			}
		}
	case "textDirection":
		if s, _ := value.(string); s != "rtl" && s != "ltr" {
			expected = "rtl or ltr"
		}
	}
	if expected == "" && hasParent {
		expected = compatible(key, value, pv)
	}
	if expected != "" {
		v.add("/"+key, tabular.CodeInvalidInherited, map[string]string{
			"key": key, "value": display(value), "expected": expected,
		})
	}
}

func compatible(key string, value, pv any) string {
	switch key {
	case "default", "separator", "textDirection":
		if !equalValue(value, pv) {
			return "same as that defined on parent"
		}
	case "ordered":
		a, _ := asBool(value)
		b, _ := asBool(pv)
		if a != b {
			return "same as that defined on parent"
		}
	case "datatype":
		ds, _ := datatype.Normalize(value)
		ps, err := datatype.Normalize(pv)
		if err != nil {
			return ""
		}
		for _, d := range ds {
			ok := false
			for _, p := range ps {
				if datatype.Derives(baseOf(d), baseOf(p)) {
					ok = true
					break
				}
			}
			if !ok {
				return "compatible datatype of that defined on parent"
			}
		}
	case "lang":
		s, _ := value.(string)
		p, _ := pv.(string)
		if !vocab.RefinesLanguage(s, p) {
			return "lang expected to restrict " + p
		}
	case "null":
		parent := map[string]bool{}
		for _, s := range stringList(pv) {
			parent[s] = true
		}
		for _, s := range stringList(value) {
			if !parent[s] {
				return "subset of that defined on parent"
			}
		}
	}
	return ""
}

func baseOf(d datatype.Descriptor) string {
	if d.Base == "" {
		return "string"
	}
	return d.Base
}

func (n *Node) hasColumn(name string) bool {
	for _, c := range n.columns {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// ForeignKey is a schema foreign key definition.
type ForeignKey struct {
	Columns   []string
	Reference ForeignKeyReference
}

// ForeignKeyReference names the referenced table (Resource) or schema
// (SchemaReference) and its columns.
type ForeignKeyReference struct {
	Resource        string
	SchemaReference string
	ColumnReference []string
}

// ForeignKeys returns the well-formed foreign key definitions of a Schema.
func (n *Node) ForeignKeys() []ForeignKey {
	arr, _ := n.props["foreignKeys"].([]any)
	var out []ForeignKey
	for _, e := range arr {
		fk, ok := e.(map[string]any)
		if !ok {
			continue
		}
		ref, _ := fk["reference"].(map[string]any)
		if ref == nil {
			continue
		}
		r := ForeignKeyReference{ColumnReference: stringList(ref["columnReference"])}
		r.Resource, _ = ref["resource"].(string)
		r.SchemaReference, _ = ref["schemaReference"].(string)
		if r.SchemaReference == "" {
			r.SchemaReference, _ = ref["tableSchema"].(string)
		}
		out = append(out, ForeignKey{Columns: stringList(fk["columns"]), Reference: r})
	}
	return out
}

// PrimaryKey returns the primary key column names of a Schema.
func (n *Node) PrimaryKey() []string { return stringList(n.props["primaryKey"]) }

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func integer(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func utf8Len(s string) int { return len([]rune(s)) }

func equalValue(a, b any) bool { return inspect(a) == inspect(b) }

// display renders a value the way messages quote it: strings bare, anything
// else inspected.
func display(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return inspect(v)
}

// inspect renders JSON-shaped values in a compact literal form used in
// messages, e.g. ["a", "b"] or {"k"=>1}.
func inspect(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = inspect(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return inspectList(t)
	case map[string][]string:
		keys := sortedKeys(t)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + "=>" + inspectList(t[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		keys := sortedKeys(t)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + "=>" + inspect(t[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(v)
}

func inspectList(list []string) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
