package metadata

import (
	tabular "github.com/6a6d74/rdf-tabular"
	"github.com/6a6d74/rdf-tabular/vocab"
)

// Merge combines the receiver with others and returns the merged tree. The
// receiver and the arguments are left untouched. A Table without a parent
// is first wrapped in a single-table TableGroup; a Table with a parent is
// replaced by that parent. Descriptions of different kinds cannot be merged.
func (n *Node) Merge(others ...*Node) (*Node, error) {
	if len(others) == 0 {
		return n, nil
	}
	merged := promote(n)
	for _, o := range others {
		b := promote(o)
		if b.kind != merged.kind {
			return nil, tabular.Issues{tabular.NewIssue("", tabular.CodeMergeConflict, map[string]string{
				"left": merged.kind.String(), "right": b.kind.String(),
			})}
		}
		merged.mergeFrom(b)
	}
	merged.props["@context"] = vocab.ContextURL
	merged.clearDialect()
	return merged, nil
}

// promote returns a private copy of n suitable as a merge operand.
func promote(n *Node) *Node {
	if n.kind != KindTable {
		return n.clone(nil)
	}
	if n.parent != nil {
		return n.parent.clone(nil)
	}
	t := n.clone(nil)
	tg := &Node{
		kind:      KindTableGroup,
		props:     map[string]any{"@type": "TableGroup"},
		filenames: t.filenames,
		base:      t.Base(),
		ctx:       t.ctx,
		logger:    t.logger,
		loader:    t.loader,
	}
	if b := tg.base; b != "" && tg.ctx != nil {
		tg.ctx = tg.ctx.WithBase(b)
	}
	if v, ok := t.props["@context"]; ok {
		tg.props["@context"] = v
		delete(t.props, "@context")
	}
	t.ctx = nil
	t.parent = tg
	tg.tables = []*Node{t}
	return tg
}

// clone deep-copies n and its descendants, attaching the copy to parent.
func (n *Node) clone(parent *Node) *Node {
	c := &Node{
		kind:      n.kind,
		parent:    parent,
		props:     cloneMap(n.props),
		id:        n.id,
		url:       n.url,
		base:      n.Base(),
		ctx:       n.ctx,
		filenames: append([]string(nil), n.filenames...),
		number:    n.number,
		issues:    append(tabular.Issues(nil), n.issues...),
		logger:    n.logger,
		loader:    n.loader,
		embedded:  n.embedded,
	}
	if parent == nil && c.ctx == nil {
		c.ctx = n.Context()
	}
	if n.common != nil {
		c.common = cloneMap(n.common)
	}
	c.tables = cloneNodes(n.tables, c)
	c.columns = cloneNodes(n.columns, c)
	c.transformations = cloneNodes(n.transformations, c)
	if n.schema != nil {
		c.schema = n.schema.clone(c)
	}
	if n.dialect != nil {
		c.dialect = n.dialect.clone(c)
	}
	return c
}

func cloneNodes(ns []*Node, parent *Node) []*Node {
	if ns == nil {
		return nil
	}
	out := make([]*Node, len(ns))
	for i, e := range ns {
		out[i] = e.clone(parent)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string][]string:
		out := make(map[string][]string, len(t))
		for k, e := range t {
			out[k] = append([]string(nil), e...)
		}
		return out
	}
	return v
}

// mergeFrom imports b into n in place.
func (n *Node) mergeFrom(b *Node) {
	n.filenames = union(n.filenames, b.filenames)
	n.dialectCache = nil
	if n.id == "" && b.id != "" {
		n.id = b.id
	}
	if n.url == "" && b.url != "" {
		n.url = b.url
	}

	for _, key := range b.keys() {
		switch key {
		case "resources":
			for _, bt := range b.tables {
				if at := n.findTable(bt.url); at != nil {
					at.mergeFrom(bt)
					continue
				}
				n.tables = append(n.tables, bt.clone(n))
			}
		case "transformations":
			for _, bt := range b.transformations {
				if at := n.findTransformation(bt); at != nil {
					at.mergeFrom(bt)
					continue
				}
				n.transformations = append(n.transformations, bt.clone(n))
			}
		case "columns":
			n.mergeColumns(b.columns)
		case "foreignKeys":
			a, _ := n.props[key].([]any)
			bs, _ := b.props[key].([]any)
			for _, fk := range bs {
				found := false
				for _, e := range a {
					if equalValue(e, fk) {
						found = true
						break
					}
				}
				if !found {
					a = append(a, cloneValue(fk))
				}
			}
			n.props[key] = a
		case "notes":
			a, _ := n.props[key].([]any)
			bs, _ := b.props[key].([]any)
			n.props[key] = append(append([]any(nil), a...), cloneValue(bs).([]any)...)
		case "tableSchema":
			if _, raw := n.props[key]; raw {
				continue
			}
			switch {
			case n.schema != nil && b.schema != nil:
				n.schema.mergeFrom(b.schema)
			case n.schema == nil && b.schema != nil:
				n.schema = b.schema.clone(n)
			case n.schema == nil:
				n.props[key] = cloneValue(b.props[key])
			}
		case "dialect":
			if _, raw := n.props[key]; raw {
				continue
			}
			switch {
			case n.dialect != nil && b.dialect != nil:
				n.dialect.mergeFrom(b.dialect)
			case n.dialect == nil && b.dialect != nil:
				n.dialect = b.dialect.clone(n)
			case n.dialect == nil:
				n.props[key] = cloneValue(b.props[key])
			}
		case "title":
			a, _ := n.props[key].(map[string][]string)
			bt, ok := b.props[key].(map[string][]string)
			if !ok {
				if _, set := n.props[key]; !set {
					n.props[key] = cloneValue(b.props[key])
				}
				continue
			}
			n.props[key] = mergeTitles(a, bt)
		default:
			if isCommonKey(key) {
				if _, ok := n.common[key]; !ok {
					if n.common == nil {
						n.common = map[string]any{}
					}
					n.common[key] = cloneValue(b.common[key])
				}
				continue
			}
			if _, ok := n.props[key]; !ok {
				n.props[key] = cloneValue(b.props[key])
			}
		}
	}
	if _, ok := n.props["@id"]; !ok {
		if v, ok := b.props["@id"]; ok {
			n.props["@id"] = v
		}
	}
}

func (n *Node) findTable(u string) *Node {
	for _, t := range n.tables {
		if t.url == u {
			return t
		}
	}
	return nil
}

func (n *Node) findTransformation(b *Node) *Node {
	for _, t := range n.transformations {
		if t.String("targetFormat") == b.String("targetFormat") && t.String("scriptFormat") == b.String("scriptFormat") {
			return t
		}
	}
	return nil
}

// mergeColumns matches columns by position: same explicit name or an
// overlapping title merges, a missing position inserts, anything else is
// ignored.
func (n *Node) mergeColumns(bs []*Node) {
	if n.columns == nil {
		n.columns = []*Node{}
	}
	for i, bc := range bs {
		if i >= len(n.columns) {
			c := bc.clone(n)
			c.number = i + 1
			n.columns = append(n.columns, c)
			n.log().Debug("merge columns", "index", i, "action", "insert")
			continue
		}
		ac := n.columns[i]
		an, aok := ac.props["name"].(string)
		bn, bok := bc.props["name"].(string)
		switch {
		case aok && bok && an == bn:
			n.log().Debug("merge columns", "index", i, "name", an)
			ac.mergeFrom(bc)
		case titlesOverlap(ac.Title(), bc.Title()):
			n.log().Debug("merge columns", "index", i, "title", bc.Title())
			ac.mergeFrom(bc)
		default:
			n.log().Debug("merge columns", "index", i, "action", "ignore")
		}
	}
}

func titlesOverlap(a, b map[string][]string) bool {
	if a == nil || b == nil {
		return false
	}
	for lang, vs := range a {
		if intersects(vs, b[lang]) {
			return true
		}
	}
	return intersects(a["und"], allTitles(b)) || intersects(b["und"], allTitles(a))
}

func allTitles(m map[string][]string) []string {
	var out []string
	for _, vs := range m {
		out = append(out, vs...)
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

// mergeTitles appends values from b not already present per language, then
// drops "und" values that also appear under a specific language.
func mergeTitles(a, b map[string][]string) map[string][]string {
	out := make(map[string][]string, len(a)+len(b))
	for k, vs := range a {
		out[k] = append([]string(nil), vs...)
	}
	for k, vs := range b {
		for _, v := range vs {
			if !contains(out[k], v) {
				out[k] = append(out[k], v)
			}
		}
	}
	if und, ok := out["und"]; ok {
		kept := und[:0]
		for _, v := range und {
			dup := false
			for lang, vs := range out {
				if lang != "und" && contains(vs, v) {
					dup = true
					break
				}
			}
			if !dup {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(out, "und")
		} else {
			out["und"] = kept
		}
	}
	return out
}

func union(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, s := range b {
		if !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
