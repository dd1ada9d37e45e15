package emit

import (
	"context"
	"sort"

	"github.com/6a6d74/rdf-tabular/datatype"
	"github.com/6a6d74/rdf-tabular/metadata"
)

// Hash returns the flat JSON form of md: a Table becomes an object with
// "url" and "row", a TableGroup an object with "tables". Common properties
// are flattened to their values and ids. describedBy lists the metadata
// filenames unless provenance is disabled.
func Hash(ctx context.Context, md *metadata.Node, op Opener, opts Options) (map[string]any, error) {
	ts, err := tables(md)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if md.Kind() == metadata.KindTable {
		out, err = tableHash(ctx, md, op)
		if err != nil {
			return nil, err
		}
		if opts.prov() {
			out["distribution"] = map[string]any{"downloadURL": md.URL()}
		}
	} else {
		list := make([]any, 0, len(ts))
		for _, t := range ts {
			h, err := tableHash(ctx, t, op)
			if err != nil {
				return nil, err
			}
			list = append(list, h)
		}
		out = flatCommon(md)
		out["tables"] = list
	}
	if fns := md.Filenames(); opts.prov() && len(fns) > 0 {
		if len(fns) == 1 {
			out["describedBy"] = fns[0]
		} else {
			out["describedBy"] = fns
		}
	}
	return out, nil
}

func tableHash(ctx context.Context, t *metadata.Node, op Opener) (map[string]any, error) {
	t, err := embed(ctx, op, t)
	if err != nil {
		return nil, err
	}
	out := flatCommon(t)
	out["url"] = t.URL()
	rows := []any{}
	err = eachRow(ctx, op, t, func(row *metadata.Row) error {
		r := map[string]any{"rownum": row.Number}
		if row.Resource != "" {
			r["url"] = row.Resource
		}
		for _, cell := range row.Cells {
			if cell.Column.Virtual() {
				continue
			}
			r[cell.Column.Name()] = cellValue(cell)
		}
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out["row"] = rows
	return out, nil
}

// cellValue is the JSON value of a cell: its valueUrl, the native value,
// a list for list cells, nil when null.
func cellValue(c *metadata.Cell) any {
	if c.ValueURL != "" {
		return c.ValueURL
	}
	if c.IsList {
		out := make([]any, len(c.Value))
		for i, v := range c.Value {
			out[i] = datatype.Native(v)
		}
		return out
	}
	if len(c.Value) == 0 {
		return nil
	}
	return datatype.Native(c.Value[0])
}

func flatCommon(n *metadata.Node) map[string]any {
	out := map[string]any{}
	props := n.CommonProperties()
	if notes := n.Notes(); len(notes) > 0 {
		props["notes"] = notes
	}
	for k, v := range props {
		out[k] = flatten(v)
	}
	return out
}

// flatten replaces value and node objects by their @value or @id and
// unwraps single-element arrays.
func flatten(v any) any {
	arr, ok := v.([]any)
	if !ok {
		arr = []any{v}
	}
	out := make([]any, len(arr))
	for i, e := range arr {
		out[i] = e
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if val, ok := m["@value"]; ok {
			out[i] = val
		} else if id, ok := m["@id"]; ok {
			out[i] = id
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
