package metadata

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/6a6d74/rdf-tabular/datatype"
	"github.com/6a6d74/rdf-tabular/i18n"
	"github.com/6a6d74/rdf-tabular/rdf"
	"github.com/6a6d74/rdf-tabular/uritemplate"
	"github.com/6a6d74/rdf-tabular/vocab"
)

// ErrNotTable is returned when rows are requested from a node that is not a
// Table.
var ErrNotTable = errors.New("metadata: rows require a Table")

// Cell is one value of a row.
type Cell struct {
	Table  *Node
	Column *Node
	Row    *Row

	StringValue string
	// Value holds the cast values; null values are omitted.
	Value []rdf.Literal
	// IsList is set when the column declares a separator.
	IsList bool

	AboutURL    string
	PropertyURL string
	ValueURL    string

	Errors []string
}

// ID identifies the cell as a fragment of the table URL.
func (c *Cell) ID() string {
	return fmt.Sprintf("%s#cell=%d,%d", c.Table.url, c.Row.SourceNumber, c.Column.SourceNumber())
}

// Valid reports a cell without errors.
func (c *Cell) Valid() bool { return len(c.Errors) == 0 }

// Row is one data row of a table.
type Row struct {
	Table        *Node
	Number       int
	SourceNumber int
	// Resource is the aboutUrl of the first cell, "" when it has none.
	Resource string
	Cells    []*Cell
}

// ID identifies the row as a fragment of the table URL.
func (r *Row) ID() string { return fmt.Sprintf("%s#row=%d", r.Table.url, r.SourceNumber) }

// RowReader builds rows from a raw record source under a table's dialect
// and schema.
type RowReader struct {
	table    *Node
	schema   *Node
	dialect  *Dialect
	src      RowSource
	ctx      *vocab.Context
	number   int
	physical int
	comments []string
}

// Rows skips the dialect's skipped and header rows of src and returns a
// reader for the data rows. A table without a schema gets an empty one, or
// a copy of its group's schema; columns missing from it are added as rows
// are read.
func (n *Node) Rows(src RowSource) (*RowReader, error) {
	if n.kind != KindTable {
		return nil, ErrNotTable
	}
	if n.schema == nil {
		if s := n.TableSchema(); s != nil {
			n.schema = s.clone(n)
		} else {
			n.schema = &Node{kind: KindSchema, parent: n, props: map[string]any{}}
		}
	}
	if n.schema.columns == nil {
		n.schema.columns = []*Node{}
	}
	d := n.Dialect()
	p, err := Segment(src, d)
	if err != nil {
		return nil, err
	}
	rr := &RowReader{
		table:    n,
		schema:   n.schema,
		dialect:  d,
		src:      src,
		ctx:      n.Context().WithBase(n.url),
		physical: d.SkipRows() + d.HeaderRowCount(),
	}
	if p.Consumed < rr.physical {
		rr.physical = p.Consumed
	}
	return rr, nil
}

// Comments returns the comment lines met so far.
func (rr *RowReader) Comments() []string { return rr.comments }

// Next returns the next data row, or io.EOF after the last one. Blank rows
// are dropped under skipBlankRows and rows starting with the comment prefix
// are collected as comments.
func (rr *RowReader) Next() (*Row, error) {
	for {
		raw, err := rr.src.Next()
		if err != nil {
			return nil, err
		}
		rr.physical++
		if cp := rr.dialect.CommentPrefix(); cp != "" && len(raw) > 0 && strings.HasPrefix(raw[0], cp) {
			line := strings.Join(raw, rr.dialect.Delimiter())
			rr.comments = append(rr.comments, strings.TrimSpace(strings.TrimPrefix(line, cp)))
			continue
		}
		if rr.dialect.SkipBlankRows() && blank(raw) {
			continue
		}
		rr.number++
		return rr.build(raw), nil
	}
}

// Each calls fn for every remaining row.
func (rr *RowReader) Each(fn func(*Row) error) error {
	for {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func blank(raw []string) bool {
	for _, v := range raw {
		if v != "" {
			return false
		}
	}
	return true
}

func (rr *RowReader) build(raw []string) *Row {
	row := &Row{Table: rr.table, Number: rr.number, SourceNumber: rr.physical}
	skip := rr.dialect.SkippedColumns()
	trim := rr.dialect.Trim()
	for i := len(raw); i < skip+len(rr.schema.columns); i++ {
		if i < skip {
			raw = append(raw, "")
			continue
		}
		pad := ""
		if ns := rr.schema.columns[i-skip].Null(); len(ns) > 0 {
			pad = ns[0]
		}
		raw = append(raw, pad)
	}

	vars := map[string]any{
		"_row":       strconv.Itoa(row.Number),
		"_sourceRow": strconv.Itoa(row.SourceNumber),
	}
	for idx, value := range raw {
		if idx < skip {
			continue
		}
		ci := idx - skip
		if ci >= len(rr.schema.columns) {
			c := &Node{kind: KindColumn, parent: rr.schema, props: map[string]any{}, number: ci + 1}
			rr.schema.columns = append(rr.schema.columns, c)
		}
		col := rr.schema.columns[ci]
		cell := &Cell{Table: rr.table, Column: col, Row: row, StringValue: value}
		row.Cells = append(row.Cells, cell)

		if value == "" {
			value = col.Default()
		}
		parts := []string{value}
		if sep, ok := col.Separator(); ok && sep != "" {
			cell.IsList = true
			parts = strings.Split(value, sep)
			if value == "" {
				parts = nil
			}
		}
		dts, err := col.Datatypes()
		if err != nil {
			cell.Errors = append(cell.Errors, err.Error())
			dts = nil
		}
		nulls := col.Null()
		for _, v := range parts {
			if len(dts) == 0 {
				v = strings.TrimSpace(v)
			}
			if contains(nulls, v) {
				continue
			}
			if len(dts) == 0 {
				cell.Value = append(cell.Value, rdf.NewLangLiteral(v, col.Lang()))
				continue
			}
			res := datatype.Cast(v, dts, datatype.CastOptions{Language: col.Lang(), Trim: trim})
			cell.Value = append(cell.Value, res.Literal)
			cell.Errors = append(cell.Errors, res.Errors...)
		}
		if col.Required() && len(cell.Value) == 0 {
			cell.Errors = append(cell.Errors, i18n.T("cell_required_missing", map[string]string{"column": col.Name()}))
		}
		if len(cell.Errors) > 0 {
			rr.table.log().Debug("cell errors", "row", row.SourceNumber, "column", col.SourceNumber(), "errors", cell.Errors)
		}
		vars[col.Name()] = templateValue(cell)
	}

	for _, cell := range row.Cells {
		col := cell.Column
		name, err := url.PathUnescape(col.Name())
		if err != nil {
			name = col.Name()
		}
		cv := make(map[string]any, len(vars)+3)
		for k, v := range vars {
			cv[k] = v
		}
		cv["_name"] = name
		cv["_column"] = strconv.Itoa(col.Number())
		cv["_sourceColumn"] = strconv.Itoa(col.SourceNumber())

		if t, ok := col.AboutURL(); ok {
			cell.AboutURL = rr.expand(cell, t, cv)
		}
		t, ok := col.PropertyURL()
		if !ok {
			t = "{#_name}"
		}
		cell.PropertyURL = rr.expand(cell, t, cv)
		if t, ok := col.ValueURL(); ok {
			cell.ValueURL = rr.expand(cell, t, cv)
		}
	}
	if len(row.Cells) > 0 {
		row.Resource = row.Cells[0].AboutURL
	}
	return row
}

// templateValue is the cell's contribution to the template variables: the
// lexical forms of its values, a list for list cells, nil when null.
func templateValue(c *Cell) any {
	if c.IsList {
		out := make([]string, len(c.Value))
		for i, l := range c.Value {
			out[i] = l.Lexical
		}
		return out
	}
	if len(c.Value) == 0 {
		return nil
	}
	return c.Value[0].Lexical
}

func (rr *RowReader) expand(cell *Cell, tmpl string, vars map[string]any) string {
	s, err := uritemplate.Expand(tmpl, vars)
	if err != nil {
		cell.Errors = append(cell.Errors, fmt.Sprintf("%s: %v", tmpl, err))
		return ""
	}
	return rr.ctx.ExpandIRI(s, false)
}

// ForTable returns the group's table with the given url, its context
// rebased to that url. It returns nil when no table matches.
func (n *Node) ForTable(u string) *Node {
	t := n.findTable(u)
	if t == nil {
		return nil
	}
	t.ctx = n.Context().WithBase(u)
	return t
}
