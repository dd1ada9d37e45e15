package metadata_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/6a6d74/rdf-tabular"
	"github.com/6a6d74/rdf-tabular/csvsrc"
	"github.com/6a6d74/rdf-tabular/metadata"
	"github.com/6a6d74/rdf-tabular/vocab"
)

func readRows(t *testing.T, table *metadata.Node, src metadata.RowSource) []*metadata.Row {
	t.Helper()
	rr, err := table.Rows(src)
	require.NoError(t, err)
	var rows []*metadata.Row
	require.NoError(t, rr.Each(func(r *metadata.Row) error {
		rows = append(rows, r)
		return nil
	}))
	return rows
}

func TestDialect_Defaults(t *testing.T) {
	n := mustNew(t, `{"url": "t.csv"}`, metadata.Options{Type: metadata.KindTable})
	d := n.Dialect()
	assert.Equal(t, ",", d.Delimiter())
	assert.Equal(t, `"`, d.QuoteChar())
	assert.True(t, d.DoubleQuote())
	assert.True(t, d.Header())
	assert.Equal(t, 1, d.HeaderRowCount())
	assert.Equal(t, "utf-8", d.Encoding())
	assert.Equal(t, "false", d.Trim())
	assert.Equal(t, 0, d.SkipRows())
	assert.Equal(t, "", d.CommentPrefix())
	assert.Same(t, d, n.Dialect())
}

func TestDialect_DerivedDefaults(t *testing.T) {
	d := mustNew(t, `{"header": false, "skipInitialSpace": true}`, metadata.Options{}).Dialect()
	assert.Equal(t, 0, d.HeaderRowCount())
	assert.Equal(t, "start", d.Trim())

	d = mustNew(t, `{"header": false, "headerRowCount": 2, "trim": 1, "doubleQuote": false}`, metadata.Options{}).Dialect()
	assert.Equal(t, 2, d.HeaderRowCount())
	assert.Equal(t, "true", d.Trim())
	assert.Equal(t, `\`, d.EscapeChar())

	cfg := mustNew(t, `{"delimiter": "\t", "lineTerminator": "\r\n"}`, metadata.Options{}).Dialect().SourceConfig()
	assert.Equal(t, '\t', cfg.Delimiter)
	assert.Equal(t, []string{"\r\n"}, cfg.LineTerminators)
}

func TestDialect_SetDialectInvalidates(t *testing.T) {
	g := mustNew(t, `{"resources": [{"url": "http://example.org/t.csv"}]}`, metadata.Options{})
	tbl := g.Tables()[0]
	assert.Equal(t, ",", tbl.Dialect().Delimiter())

	g.SetDialect(mustNew(t, `{"delimiter": ";"}`, metadata.Options{}))
	assert.Equal(t, ";", tbl.Dialect().Delimiter())
	assert.Same(t, g, g.Dialect().Node().Parent())
}

func TestSegment(t *testing.T) {
	d := mustNew(t, `{"skipRows": 2, "commentPrefix": "#", "headerRowCount": 2, "skipColumns": 1, "trim": true}`, metadata.Options{}).Dialect()
	src := csvsrc.FromRows([][]string{
		{"# generated"},
		{""},
		{"x", " a ", "b"},
		{"x", "A", " B"},
		{"x", "1", "2"},
	})
	p, err := metadata.Segment(src, d)
	require.NoError(t, err)
	assert.Equal(t, []string{" generated"}, p.Notes)
	assert.Equal(t, [][]string{{"a", "A"}, {"b", "B"}}, p.Titles)
	assert.Equal(t, 4, p.Consumed)

	rest, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "1", "2"}, rest)
}

func TestSegment_ShortInput(t *testing.T) {
	d := mustNew(t, `{"skipRows": 3}`, metadata.Options{}).Dialect()
	p, err := metadata.Segment(csvsrc.FromStrings("only\n"), d)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, p.Notes)
	assert.Equal(t, 1, p.Consumed)
}

func TestEmbeddedMetadata(t *testing.T) {
	parse := mustNew(t, `{"url": "http://example.org/t.csv", "dialect": {"skipRows": 1}}`, metadata.Options{})
	src := csvsrc.FromStrings("a note\nGiven Name,Family\nJo,Smith\n")
	em, err := parse.EmbeddedMetadata(context.Background(), src, "http://example.org/t.csv")
	require.NoError(t, err)
	require.Equal(t, metadata.KindTable, em.Kind())
	assert.Equal(t, "http://example.org/t.csv", em.URL())
	assert.Len(t, em.Notes(), 1)

	cols := em.Schema().Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, map[string][]string{"und": {"Given Name"}}, cols[0].Title())
	assert.Equal(t, "Given%20Name", cols[0].Name())
	assert.Equal(t, "Family", cols[1].Name())
}

const rowsTable = `{
	"url": "http://example.org/t.csv",
	"dialect": {"skipRows": 1},
	"tableSchema": {
		"aboutUrl": "#row-{id}",
		"columns": [
			{"name": "id", "datatype": "integer"},
			{"name": "tags", "separator": ";", "default": "x;y"},
			{"name": "note", "null": "NA"}
		]
	}
}`

func TestRows(t *testing.T) {
	tbl := mustNew(t, rowsTable, metadata.Options{})
	rows := readRows(t, tbl, csvsrc.FromStrings("skipped\nid,tags,note\n1,a;b,NA\n2,,hello\nz,c,d\n"))
	require.Len(t, rows, 3)

	r := rows[0]
	assert.Equal(t, 1, r.Number)
	assert.Equal(t, 3, r.SourceNumber)
	assert.Equal(t, "http://example.org/t.csv#row=3", r.ID())
	assert.Equal(t, "http://example.org/t.csv#row-1", r.Resource)
	require.Len(t, r.Cells, 3)

	id := r.Cells[0]
	assert.True(t, id.Valid())
	assert.Equal(t, "1", id.Value[0].Lexical)
	assert.Equal(t, vocab.XSD+"integer", id.Value[0].Datatype)
	assert.Equal(t, "http://example.org/t.csv#id", id.PropertyURL)
	assert.Equal(t, "http://example.org/t.csv#cell=3,1", id.ID())

	tags := r.Cells[1]
	assert.True(t, tags.IsList)
	require.Len(t, tags.Value, 2)
	assert.Equal(t, "a", tags.Value[0].Lexical)
	assert.Equal(t, "b", tags.Value[1].Lexical)

	note := r.Cells[2]
	assert.Equal(t, "NA", note.StringValue)
	assert.Empty(t, note.Value)

	r = rows[1]
	assert.Equal(t, 4, r.SourceNumber)
	require.Len(t, r.Cells[1].Value, 2)
	assert.Equal(t, "x", r.Cells[1].Value[0].Lexical)
	assert.Equal(t, "hello", r.Cells[2].Value[0].Lexical)

	r = rows[2]
	assert.False(t, r.Cells[0].Valid())
	assert.Equal(t, "z", r.Cells[0].Value[0].Lexical)
	assert.Equal(t, "http://example.org/t.csv#row-z", r.Resource)
}

func TestRows_PadAndLazyColumns(t *testing.T) {
	tbl := mustNew(t, `{"url": "http://example.org/t.csv", "tableSchema": {"columns": [{"name": "a"}, {"name": "b"}]}}`, metadata.Options{})
	rows := readRows(t, tbl, csvsrc.FromRows([][]string{{"a", "b"}, {"1"}, {"1", "2", "3"}}))
	require.Len(t, rows, 2)

	require.Len(t, rows[0].Cells, 2)
	assert.Empty(t, rows[0].Cells[1].Value)

	require.Len(t, rows[1].Cells, 3)
	extra := rows[1].Cells[2]
	assert.Equal(t, "_col.3", extra.Column.Name())
	assert.Equal(t, "http://example.org/t.csv#_col.3", extra.PropertyURL)
	assert.Len(t, tbl.Schema().Columns(), 3)
}

func TestRows_PadShortRowsWithNull(t *testing.T) {
	tbl := mustNew(t, `{"url": "http://example.org/t.csv", "tableSchema": {"columns": [
		{"name": "a"},
		{"name": "b", "null": ["NA", "-"]},
		{"name": "c", "null": []}
	]}}`, metadata.Options{})
	require.True(t, tbl.Valid(), tbl.Errors())

	var rows []*metadata.Row
	require.NotPanics(t, func() {
		rows = readRows(t, tbl, csvsrc.FromRows([][]string{{"a", "b", "c"}, {"1"}}))
	})
	require.Len(t, rows, 1)
	cells := rows[0].Cells
	require.Len(t, cells, 3)

	assert.Equal(t, "NA", cells[1].StringValue)
	assert.Empty(t, cells[1].Value)
	assert.Equal(t, "", cells[2].StringValue)
	require.Len(t, cells[2].Value, 1)
	assert.Equal(t, "", cells[2].Value[0].Lexical)
}

func TestRows_CommentsAndBlankRows(t *testing.T) {
	tbl := mustNew(t, `{"url": "http://example.org/t.csv", "dialect": {"header": false, "commentPrefix": "#", "skipBlankRows": true}}`, metadata.Options{})
	rr, err := tbl.Rows(csvsrc.FromRows([][]string{{"a", "b"}, {"# hello"}, {"", ""}, {"c", "d"}}))
	require.NoError(t, err)

	var got []int
	for {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, row.SourceNumber)
	}
	assert.Equal(t, []int{1, 4}, got)
	assert.Equal(t, []string{"hello"}, rr.Comments())
}

func TestRows_RequiredAndValueURL(t *testing.T) {
	tbl := mustNew(t, `{"url": "http://example.org/t.csv", "tableSchema": {"columns": [
		{"name": "id", "required": true},
		{"name": "ref", "valueUrl": "http://example.org/ref/{ref}"}
	]}}`, metadata.Options{})
	rows := readRows(t, tbl, csvsrc.FromStrings("id,ref\n,r1\n"))
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Cells[0].Valid())
	assert.Equal(t, "http://example.org/ref/r1", rows[0].Cells[1].ValueURL)
	assert.Equal(t, "", rows[0].Resource)
}

func TestRows_RequiresTable(t *testing.T) {
	g := mustNew(t, `{"resources": []}`, metadata.Options{})
	_, err := g.Rows(csvsrc.FromStrings(""))
	assert.ErrorIs(t, err, metadata.ErrNotTable)
}

func TestOpen(t *testing.T) {
	loader := metadata.MapLoader{
		"http://example.org/meta.json":   `{"url": "t.csv", "tableSchema": "schema.json"}`,
		"http://example.org/schema.json": `{"columns": [{"name": "a"}]}`,
		"http://example.org/meta.yaml":   "url: t.csv\ntableSchema:\n  columns:\n    - name: a\n      datatype: integer\n",
		"http://example.org/dup.json":    `{"url": "t.csv", "url": "u.csv"}`,
	}
	ctx := context.Background()

	n, err := metadata.Open(ctx, "http://example.org/meta.json", metadata.Options{Loader: loader})
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/t.csv", n.URL())
	assert.Equal(t, []string{"http://example.org/meta.json"}, n.Filenames())
	require.NotNil(t, n.Schema())
	assert.Equal(t, "a", n.Schema().Columns()[0].Name())

	n, err = metadata.Open(ctx, "http://example.org/meta.yaml", metadata.Options{Loader: loader})
	require.NoError(t, err)
	assert.True(t, n.Valid(), n.Errors())
	dt, _ := n.Schema().Columns()[0].Get("datatype")
	assert.Equal(t, "integer", dt)

	n, err = metadata.Open(ctx, "http://example.org/dup.json", metadata.Options{Type: metadata.KindTable, Loader: loader})
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/u.csv", n.URL())
	assert.True(t, tabular.HasCode(n.Validate(), tabular.CodeDuplicateKey))

	_, err = metadata.Open(ctx, "http://example.org/none.json", metadata.Options{Loader: loader})
	require.Error(t, err)
	assert.True(t, tabular.HasCode(err, tabular.CodeLoadError))
}

func TestForInput_Sidecar(t *testing.T) {
	loader := metadata.MapLoader{
		"http://example.org/t.csv-metadata.json": `{"url": "t.csv", "dc:title": "people",
			"tableSchema": {"columns": [{"title": "a"}, {"name": "B", "title": "b"}]}}`,
	}
	md, err := metadata.ForInput(context.Background(), csvsrc.FromStrings("a,b\n1,2\n"), "http://example.org/t.csv",
		metadata.DiscoverOptions{Options: metadata.Options{Loader: loader}})
	require.NoError(t, err)
	require.Equal(t, metadata.KindTableGroup, md.Kind())
	require.Len(t, md.Tables(), 1)

	tbl := md.Tables()[0]
	assert.Contains(t, tbl.CommonProperties(), "dc:title")
	var names []string
	for _, c := range tbl.Schema().Columns() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"a", "B"}, names)
	assert.Contains(t, md.Filenames(), "http://example.org/t.csv-metadata.json")
}

func TestForInput_UserMetadataWins(t *testing.T) {
	user := mustNew(t, `{"url": "http://example.org/t.csv", "tableSchema": {"columns": [{"name": "x"}, {"name": "y"}]}}`, metadata.Options{})
	loader := metadata.MapLoader{
		"http://example.org/t.csv-metadata.json": `{"url": "t.csv", "tableSchema": {"columns": [{"name": "p"}, {"name": "q"}]}}`,
	}
	md, err := metadata.ForInput(context.Background(), csvsrc.FromStrings("a,b\n"), "http://example.org/t.csv",
		metadata.DiscoverOptions{Options: metadata.Options{Loader: loader}, User: user})
	require.NoError(t, err)
	cols := md.Tables()[0].Schema().Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "x", cols[0].Name())
	assert.Equal(t, "y", cols[1].Name())
}

func TestForInput_NothingFound(t *testing.T) {
	md, err := metadata.ForInput(context.Background(), csvsrc.FromStrings("a,b\n1,2\n"), "http://example.org/t.csv",
		metadata.DiscoverOptions{Options: metadata.Options{Loader: metadata.MapLoader{}}})
	require.NoError(t, err)
	require.Equal(t, metadata.KindTable, md.Kind())
	assert.Equal(t, "http://example.org/t.csv", md.URL())
	assert.Len(t, md.Schema().Columns(), 2)
}

func TestWithEmbedded(t *testing.T) {
	g := mustNew(t, `{"resources": [
		{"url": "http://example.org/a.csv", "dialect": {"skipRows": 1}},
		{"url": "http://example.org/b.csv", "tableSchema": {"columns": [{"name": "x"}]}}
	]}`, metadata.Options{})
	tbl := g.Tables()[0]

	got, err := tbl.WithEmbedded(context.Background(), csvsrc.FromStrings("generated\nfirst name,age\nAnn,3\n"))
	require.NoError(t, err)
	assert.Equal(t, metadata.KindTable, got.Kind())
	assert.Equal(t, "http://example.org/a.csv", got.URL())
	assert.True(t, got.Embedded())
	assert.Equal(t, []any{"generated"}, got.Notes())

	cols := got.Schema().Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "first%20name", cols[0].Name())
	assert.Equal(t, map[string][]string{"und": {"age"}}, cols[1].Title())
	require.Len(t, got.Parent().Tables(), 2)

	// the receiver is left untouched
	assert.Nil(t, tbl.Schema())
	assert.False(t, tbl.Embedded())

	// already embedded tables are returned as they are
	again, err := got.WithEmbedded(context.Background(), csvsrc.FromStrings("other\n"))
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestWithEmbedded_KeepsDescribedColumns(t *testing.T) {
	tbl := mustNew(t, `{"url": "http://example.org/t.csv", "tableSchema": {"columns": [{"name": "id", "title": "ID"}]}}`, metadata.Options{})
	got, err := tbl.WithEmbedded(context.Background(), csvsrc.FromStrings("ID,extra\n1,2\n"))
	require.NoError(t, err)

	cols := got.Schema().Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name())
	assert.Equal(t, "extra", cols[1].Name())

	rows := readRows(t, got, csvsrc.FromStrings("ID,extra\n1,2\n"))
	require.Len(t, rows, 1)
	assert.Equal(t, "http://example.org/t.csv#extra", rows[0].Cells[1].PropertyURL)
}

func TestWithEmbedded_RequiresTable(t *testing.T) {
	g := mustNew(t, `{"resources": []}`, metadata.Options{})
	_, err := g.WithEmbedded(context.Background(), csvsrc.FromStrings(""))
	assert.ErrorIs(t, err, metadata.ErrNotTable)
}

func TestForInput_MarksEmbedded(t *testing.T) {
	md, err := metadata.ForInput(context.Background(), csvsrc.FromStrings("a\n1\n"), "http://example.org/t.csv",
		metadata.DiscoverOptions{Options: metadata.Options{Loader: metadata.MapLoader{}}})
	require.NoError(t, err)
	assert.True(t, md.Embedded())
}
