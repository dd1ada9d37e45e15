package emit

import (
	"context"

	"github.com/6a6d74/rdf-tabular/metadata"
)

// AnnotatedTableGroup is the annotated tabular data model of a group.
type AnnotatedTableGroup struct {
	ID        string            `json:"@id,omitempty"`
	Type      string            `json:"@type"`
	Resources []*AnnotatedTable `json:"resources"`
}

// AnnotatedTable is the annotated tabular data model of one table.
type AnnotatedTable struct {
	ID      string       `json:"@id,omitempty"`
	Type    string       `json:"@type"`
	URL     string       `json:"url"`
	Columns []*ATDColumn `json:"columns"`
	Rows    []*ATDRow    `json:"rows"`
}

// ATDColumn lists the ids of the cells in one column.
type ATDColumn struct {
	ID           string              `json:"@id"`
	Type         string              `json:"@type"`
	Table        string              `json:"table,omitempty"`
	Number       int                 `json:"number"`
	SourceNumber int                 `json:"sourceNumber"`
	Cells        []string            `json:"cells"`
	Virtual      bool                `json:"virtual"`
	Name         string              `json:"name"`
	Title        map[string][]string `json:"title,omitempty"`
}

type ATDRow struct {
	ID           string     `json:"@id"`
	Type         string     `json:"@type"`
	Table        string     `json:"table,omitempty"`
	Number       int        `json:"number"`
	SourceNumber int        `json:"sourceNumber"`
	Cells        []*ATDCell `json:"cells"`
}

type ATDCell struct {
	ID          string   `json:"@id"`
	Type        string   `json:"@type"`
	Column      string   `json:"column"`
	Row         string   `json:"row"`
	StringValue string   `json:"stringValue"`
	Value       any      `json:"value"`
	Errors      []string `json:"errors"`
}

// Annotated returns the annotated model of md. The result is an
// *AnnotatedTable for a Table and an *AnnotatedTableGroup for a group.
func Annotated(ctx context.Context, md *metadata.Node, op Opener) (any, error) {
	ts, err := tables(md)
	if err != nil {
		return nil, err
	}
	if md.Kind() == metadata.KindTable {
		return annotatedTable(ctx, md, op)
	}
	g := &AnnotatedTableGroup{ID: md.ID(), Type: "AnnotatedTableGroup", Resources: []*AnnotatedTable{}}
	for _, t := range ts {
		at, err := annotatedTable(ctx, t, op)
		if err != nil {
			return nil, err
		}
		g.Resources = append(g.Resources, at)
	}
	return g, nil
}

func annotatedTable(ctx context.Context, t *metadata.Node, op Opener) (*AnnotatedTable, error) {
	t, err := embed(ctx, op, t)
	if err != nil {
		return nil, err
	}
	at := &AnnotatedTable{ID: t.ID(), Type: "AnnotatedTable", URL: t.URL(), Rows: []*ATDRow{}}
	err = eachRow(ctx, op, t, func(row *metadata.Row) error {
		r := &ATDRow{
			ID:           row.ID(),
			Type:         "Row",
			Table:        t.ID(),
			Number:       row.Number,
			SourceNumber: row.SourceNumber,
			Cells:        make([]*ATDCell, 0, len(row.Cells)),
		}
		for _, cell := range row.Cells {
			errs := cell.Errors
			if errs == nil {
				errs = []string{}
			}
			r.Cells = append(r.Cells, &ATDCell{
				ID:          cell.ID(),
				Type:        "Cell",
				Column:      cell.Column.ColumnID(),
				Row:         row.ID(),
				StringValue: cell.StringValue,
				Value:       cellValue(cell),
				Errors:      errs,
			})
		}
		at.Rows = append(at.Rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// columns are collected after reading so lazily added ones are included
	var cols []*metadata.Node
	if s := t.Schema(); s != nil {
		cols = s.Columns()
	}
	at.Columns = make([]*ATDColumn, len(cols))
	for i, c := range cols {
		at.Columns[i] = &ATDColumn{
			ID:           c.ColumnID(),
			Type:         "Column",
			Table:        t.ID(),
			Number:       c.Number(),
			SourceNumber: c.SourceNumber(),
			Cells:        []string{},
			Virtual:      c.Virtual(),
			Name:         c.Name(),
			Title:        c.Title(),
		}
	}
	for _, r := range at.Rows {
		for i, cell := range r.Cells {
			if i < len(at.Columns) {
				at.Columns[i].Cells = append(at.Columns[i].Cells, cell.ID)
			}
		}
	}
	return at, nil
}
