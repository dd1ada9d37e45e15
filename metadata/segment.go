package metadata

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/6a6d74/rdf-tabular/datatype"
)

// RowSource yields raw records from a tokenizer; io.EOF ends the stream.
// csvsrc.Reader and csvsrc.Rows satisfy it.
type RowSource interface {
	Next() ([]string, error)
}

// Preamble is what a dialect's leading rows contribute to a table: notes
// from skipped rows and titles from header rows, indexed by column.
type Preamble struct {
	Notes  []string
	Titles [][]string
	// Consumed is the number of physical rows read.
	Consumed int
}

// Segment consumes the skipped and header rows of src under d. Skipped rows
// are joined with the delimiter, trimmed and stripped of the comment prefix;
// non-empty results become notes. Header cells after the skipped columns
// become titles.
func Segment(src RowSource, d *Dialect) (Preamble, error) {
	var p Preamble
	trim := d.Trim()
	for i := 0; i < d.SkipRows(); i++ {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		if err != nil {
			return p, err
		}
		p.Consumed++
		v := datatype.TrimMode(strings.Join(row, d.Delimiter()), trim)
		if cp := d.CommentPrefix(); cp != "" {
			v = strings.TrimPrefix(v, cp)
		}
		if v != "" {
			p.Notes = append(p.Notes, v)
		}
	}
	skip := d.SkippedColumns()
	for i := 0; i < d.HeaderRowCount(); i++ {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		if err != nil {
			return p, err
		}
		p.Consumed++
		for idx, v := range row {
			if idx < skip {
				continue
			}
			ci := idx - skip
			for len(p.Titles) <= ci {
				p.Titles = append(p.Titles, nil)
			}
			p.Titles[ci] = append(p.Titles[ci], datatype.TrimMode(v, trim))
		}
	}
	return p, nil
}

// EmbeddedMetadata reads the preamble of src under the receiver's dialect
// and returns the Table description it implies, with url set to location.
func (n *Node) EmbeddedMetadata(ctx context.Context, src RowSource, location string) (*Node, error) {
	p, err := Segment(src, n.Dialect())
	if err != nil {
		return nil, err
	}
	cols := make([]any, 0, len(p.Titles))
	for _, ts := range p.Titles {
		und := make([]any, 0, len(ts))
		for _, t := range ts {
			und = append(und, t)
		}
		cols = append(cols, map[string]any{"title": map[string]any{"und": und}})
	}
	raw := map[string]any{
		"url":   location,
		"@type": "Table",
		"tableSchema": map[string]any{
			"@type":   "Schema",
			"columns": cols,
		},
	}
	if len(p.Notes) > 0 {
		notes := make([]any, len(p.Notes))
		for i, s := range p.Notes {
			notes[i] = s
		}
		raw["notes"] = notes
	}
	n.log().Debug("embedded metadata", "location", location, "notes", len(p.Notes), "columns", len(cols))
	return New(ctx, raw, Options{
		Base:   location,
		Logger: n.log(),
		Loader: inheritedLoader(n),
		Reason: "load embedded metadata",
	})
}
