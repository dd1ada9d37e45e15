// Package emit projects described tables as RDF statements, as the flat
// JSON shape, or as the annotated tabular data model.
package emit

import (
	"context"
	"fmt"
	"io"

	"github.com/6a6d74/rdf-tabular/csvsrc"
	"github.com/6a6d74/rdf-tabular/metadata"
)

// Opener provides the raw rows of a table. The returned closer is called
// once the table has been read.
type Opener interface {
	OpenTable(ctx context.Context, table *metadata.Node) (metadata.RowSource, io.Closer, error)
}

type loaderOpener struct {
	loader metadata.Loader
}

// LoaderOpener fetches table data through loader and tokenizes it under
// the table's dialect.
func LoaderOpener(loader metadata.Loader) Opener {
	if loader == nil {
		loader = metadata.FileLoader{}
	}
	return loaderOpener{loader: loader}
}

func (o loaderOpener) OpenTable(ctx context.Context, table *metadata.Node) (metadata.RowSource, io.Closer, error) {
	rc, err := o.loader.Load(ctx, table.URL())
	if err != nil {
		return nil, nil, fmt.Errorf("open table %s: %w", table.URL(), err)
	}
	r, err := csvsrc.New(rc, table.Dialect().SourceConfig())
	if err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("open table %s: %w", table.URL(), err)
	}
	return r, rc, nil
}

// tables returns the tables to process for a Table or TableGroup root,
// skipping suppressed ones.
func tables(md *metadata.Node) ([]*metadata.Node, error) {
	switch md.Kind() {
	case metadata.KindTable:
		return []*metadata.Node{md}, nil
	case metadata.KindTableGroup:
		var out []*metadata.Node
		for _, t := range md.Tables() {
			if t.Bool("suppressOutput") {
				continue
			}
			out = append(out, t)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: got %s", ErrUnsupportedKind, md.Kind())
}

// embed returns table with the embedded metadata of its data merged in.
// The data is read up to the end of its header rows unless the table
// already carries it.
func embed(ctx context.Context, op Opener, table *metadata.Node) (*metadata.Node, error) {
	if table.Embedded() {
		return table, nil
	}
	src, closer, err := op.OpenTable(ctx, table)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	t, err := table.WithEmbedded(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("embedded metadata %s: %w", table.URL(), err)
	}
	return t, nil
}

// eachRow opens table through op and calls fn for every data row. table is
// expected to come from embed.
func eachRow(ctx context.Context, op Opener, table *metadata.Node, fn func(*metadata.Row) error) error {
	src, closer, err := op.OpenTable(ctx, table)
	if err != nil {
		return err
	}
	defer closer.Close()
	rr, err := table.Rows(src)
	if err != nil {
		return err
	}
	return rr.Each(func(r *metadata.Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(r)
	})
}
