package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	tabular "github.com/6a6d74/rdf-tabular"
	"github.com/6a6d74/rdf-tabular/internal/engine"
	"github.com/6a6d74/rdf-tabular/vocab"
)

// Options configure construction of a metadata tree.
type Options struct {
	// Base is the location used to resolve relative references. An @base in
	// the document's @context overrides it.
	Base string
	// Type forces the node kind instead of inferring it.
	Type Kind
	// Parent attaches the new node below an existing one.
	Parent *Node
	// Filenames records where the description was loaded from.
	Filenames []string
	// Loader fetches referenced dialect and schema documents. Defaults to
	// FileLoader.
	Loader Loader
	// Logger receives debug records; nil discards them.
	Logger *slog.Logger
	// Validate makes New return validation issues as an error.
	Validate bool
	// Reason is logged with the construction, e.g. "load user metadata".
	Reason string

	number int
}

// structural keys are handled before the rest so that url and @context are
// known when children are built.
var structuralOrder = []string{"@context", "@id", "url"}

// New builds a node from a decoded JSON object. The kind comes from
// opts.Type, else @type, else the marker rules. An unresolvable kind, an
// invalid @context or a failed load of a referenced document is returned as
// tabular.Issues.
func New(ctx context.Context, raw map[string]any, opts Options) (*Node, error) {
	kind, err := dispatch(raw, opts.Type)
	if err != nil {
		return nil, err
	}
	n := &Node{
		kind:      kind,
		parent:    opts.Parent,
		props:     map[string]any{},
		filenames: append([]string(nil), opts.Filenames...),
		number:    opts.number,
		logger:    opts.Logger,
		base:      opts.Base,
	}
	if opts.Loader == nil {
		opts.Loader = inheritedLoader(opts.Parent)
	}
	n.loader = opts.Loader
	if opts.Parent == nil {
		if _, ok := raw["@context"]; !ok {
			raw = withKey(raw, "@context", vocab.ContextURL)
		}
	}
	if err := n.build(ctx, raw, opts); err != nil {
		return nil, err
	}
	if opts.Reason != "" {
		n.log().Debug("metadata constructed", "reason", opts.Reason, "kind", n.kind.String(), "filenames", n.filenames)
	}
	if opts.Validate {
		if err := n.Validate(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func dispatch(raw map[string]any, hint Kind) (Kind, error) {
	if hint != KindUnknown {
		if _, ok := kindNames[hint]; !ok {
			return KindUnknown, tabular.Issues{tabular.NewIssue("", tabular.CodeUnknownType, map[string]string{"keys": "Kind(" + strconv.Itoa(int(hint)) + ")"})}
		}
		return hint, nil
	}
	if t, ok := raw["@type"].(string); ok {
		if k := ParseKind(t); k != KindUnknown {
			return k, nil
		}
		return KindUnknown, tabular.Issues{tabular.NewIssue("/@type", tabular.CodeUnknownType, map[string]string{"keys": inspect(t)})}
	}
	for _, m := range markers {
		for _, k := range m.keys {
			if _, ok := raw[k]; ok {
				return m.kind, nil
			}
		}
	}
	return KindUnknown, tabular.Issues{tabular.NewIssue("", tabular.CodeUnknownType, map[string]string{"keys": inspectList(sortedKeys(raw))})}
}

func (n *Node) build(ctx context.Context, raw map[string]any, opts Options) error {
	base := opts.Base
	if v, ok := raw["@context"]; ok {
		c, err := vocab.FromValue(v, base)
		if err != nil {
			it := tabular.NewIssue("/@context", tabular.CodeInvalidProperty, map[string]string{
				"type": n.kind.String(), "key": "@context", "detail": err.Error(),
			})
			it.Cause = err
			return tabular.Issues{it}
		}
		n.ctx = c
		n.props["@context"] = v
		if c.Base() != "" {
			base = c.Base()
			n.base = base
		}
	}
	resolve := func(ref string) string {
		if base == "" {
			return ref
		}
		c, _ := vocab.New(base, "")
		return c.Resolve(ref)
	}
	if v, ok := raw["@id"]; ok {
		n.props["@id"] = v
		if s, ok := v.(string); ok {
			n.id = resolve(s)
		}
	}
	if v, ok := raw["url"]; ok {
		n.props["url"] = v
		if s, ok := v.(string); ok {
			n.url = resolve(s)
			if n.ctx != nil {
				n.ctx = n.ctx.WithBase(n.url)
			}
		}
	}

	child := func(kind Kind) Options {
		return Options{Base: base, Type: kind, Parent: n, Loader: opts.Loader}
	}
	var iss tabular.Issues
	for _, key := range sortedKeys(raw) {
		if isStructural(key) {
			continue
		}
		value := raw[key]
		switch key {
		case "columns":
			items, ok := objects(value)
			if !ok {
				n.props[key] = value
				continue
			}
			n.columns = make([]*Node, 0, len(items))
			for i, item := range items {
				o := child(KindColumn)
				o.number = i + 1
				c, err := New(ctx, item, o)
				if err != nil {
					return rebaseErr(err, fmt.Sprintf("/columns/%d", i))
				}
				n.columns = append(n.columns, c)
			}
		case "resources":
			items, ok := objects(value)
			if !ok {
				n.props[key] = value
				continue
			}
			n.tables = make([]*Node, 0, len(items))
			for i, item := range items {
				t, err := New(ctx, item, child(KindTable))
				if err != nil {
					return rebaseErr(err, fmt.Sprintf("/resources/%d", i))
				}
				n.tables = append(n.tables, t)
			}
		case "transformations":
			items, ok := objects(value)
			if !ok {
				n.props[key] = value
				continue
			}
			n.transformations = make([]*Node, 0, len(items))
			for i, item := range items {
				t, err := New(ctx, item, child(KindTransformation))
				if err != nil {
					return rebaseErr(err, fmt.Sprintf("/transformations/%d", i))
				}
				n.transformations = append(n.transformations, t)
			}
		case "dialect", "tableSchema":
			kind := KindDialect
			if key == "tableSchema" {
				kind = KindSchema
			}
			var (
				c   *Node
				err error
			)
			switch t := value.(type) {
			case string:
				o := child(kind)
				o.Reason = "load " + key
				c, err = Open(ctx, resolve(t), o)
			case map[string]any:
				c, err = New(ctx, t, child(kind))
			default:
				n.props[key] = value
				continue
			}
			if err != nil {
				return rebaseErr(err, "/"+key)
			}
			if kind == KindDialect {
				n.dialect = c
			} else {
				n.schema = c
			}
		case "notes":
			nv, err := n.normalizeJSONLD(value)
			if err != nil {
				iss = append(iss, jsonldIssue("/notes", err))
				n.props[key] = value
				continue
			}
			n.props[key] = asArray(nv)
		default:
			if isCommonKey(key) {
				nv, err := n.normalizeJSONLD(value)
				if err != nil {
					iss = append(iss, jsonldIssue("/"+engine.EscapePointer(key), err))
					nv = value
				}
				n.Set(key, nv)
				continue
			}
			if _, ok := categoryOf(n.kind, key); ok {
				n.Set(key, coerceCount(key, value))
				continue
			}
			n.props[key] = value
		}
	}
	n.issues = iss
	return nil
}

func isStructural(key string) bool {
	for _, k := range structuralOrder {
		if k == key {
			return true
		}
	}
	return false
}

func inheritedLoader(p *Node) Loader {
	for ; p != nil; p = p.parent {
		if p.loader != nil {
			return p.loader
		}
	}
	return FileLoader{}
}

func objects(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}

func withKey(m map[string]any, key string, v any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, e := range m {
		out[k] = e
	}
	out[key] = v
	return out
}

func asArray(v any) []any {
	if a, ok := v.([]any); ok {
		return a
	}
	return []any{v}
}

var reDigits = regexp.MustCompile(`^\d+$`)

// coerceCount turns digit-only strings for dialect counts into integers.
func coerceCount(key string, v any) any {
	switch key {
	case "headerColumnCount", "headerRowCount", "skipColumns", "skipRows":
		if s, ok := v.(string); ok && reDigits.MatchString(s) {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i
			}
		}
	}
	return v
}

func rebaseErr(err error, prefix string) error {
	if iss, ok := tabular.AsIssues(err); ok {
		return iss.Rebase(prefix)
	}
	return err
}

func jsonldIssue(path string, err error) tabular.Issue {
	it := tabular.NewIssue(path, tabular.CodeInvalidJSONLD, map[string]string{"detail": err.Error()})
	it.Cause = err
	return it
}
