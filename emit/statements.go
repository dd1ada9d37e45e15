package emit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/6a6d74/rdf-tabular/metadata"
	"github.com/6a6d74/rdf-tabular/rdf"
	"github.com/6a6d74/rdf-tabular/vocab"
)

var (
	// ErrInvalidStatement is returned in strict mode when a generated
	// statement is not well formed.
	ErrInvalidStatement = errors.New("emit: invalid statement")
	// ErrUnsupportedKind is returned for roots other than Table and
	// TableGroup.
	ErrUnsupportedKind = errors.New("emit: metadata must be a Table or TableGroup")
)

// Options control emission.
type Options struct {
	// Minimal emits only the statements derived from cell values.
	Minimal bool
	// NoProv omits provenance. Minimal implies NoProv.
	NoProv bool
	// Strict fails on an invalid statement instead of dropping it.
	Strict bool
	Logger *slog.Logger
	// Now stamps provenance activities; time.Now when nil.
	Now func() time.Time
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) prov() bool { return !o.Minimal && !o.NoProv }

var (
	csvwTableGroup  = rdf.IRI(vocab.CSVW + "TableGroup")
	csvwTable       = rdf.IRI(vocab.CSVW + "Table")
	csvwTableLink   = rdf.IRI(vocab.CSVW + "table")
	csvwURL         = rdf.IRI(vocab.CSVW + "url")
	csvwRow         = rdf.IRI(vocab.CSVW + "row")
	csvwRownum      = rdf.IRI(vocab.CSVW + "rownum")
	csvwDescribes   = rdf.IRI(vocab.CSVW + "describes")
	dcatDistrib     = rdf.IRI(vocab.DCAT + "distribution")
	dcatDistClass   = rdf.IRI(vocab.DCAT + "Distribution")
	dcatDownloadURL = rdf.IRI(vocab.DCAT + "downloadURL")
	provActivity    = rdf.IRI(vocab.PROV + "activity")
	provActClass    = rdf.IRI(vocab.PROV + "Activity")
	provStarted     = rdf.IRI(vocab.PROV + "startedAtTime")
	provEnded       = rdf.IRI(vocab.PROV + "endedAtTime")
	provUsage       = rdf.IRI(vocab.PROV + "qualifiedUsage")
	provUsageClass  = rdf.IRI(vocab.PROV + "Usage")
	provEntity      = rdf.IRI(vocab.PROV + "entity")
	provHadRole     = rdf.IRI(vocab.PROV + "hadRole")
)

type emitter struct {
	ctx  context.Context
	op   Opener
	opts Options
	log  *slog.Logger
	fn   func(rdf.Statement) error
}

// Statements streams the RDF statements for md, a Table or TableGroup,
// reading each table's data through op.
func Statements(ctx context.Context, md *metadata.Node, op Opener, opts Options, fn func(rdf.Statement) error) error {
	e := &emitter{ctx: ctx, op: op, opts: opts, log: opts.logger(), fn: fn}
	ts, err := tables(md)
	if err != nil {
		return err
	}
	if md.Kind() == metadata.KindTable {
		return e.table(md, subject(md), md.Filenames())
	}

	group := subject(md)
	if !opts.Minimal {
		if err := e.add(group, rdf.Type, csvwTableGroup); err != nil {
			return err
		}
		if err := e.common(md, group); err != nil {
			return err
		}
	}
	for _, t := range ts {
		res := subject(t)
		if !opts.Minimal {
			if err := e.add(group, csvwTableLink, res); err != nil {
				return err
			}
		}
		if err := e.table(t, res, md.Filenames()); err != nil {
			return err
		}
	}
	return nil
}

func subject(n *metadata.Node) rdf.Term {
	if id := n.ID(); id != "" {
		return rdf.IRI(id)
	}
	return rdf.NewBlankNode()
}

func (e *emitter) add(s rdf.Term, p rdf.IRI, o rdf.Term) error {
	return e.emit(rdf.Statement{Subject: s, Predicate: p, Object: o})
}

func (e *emitter) emit(st rdf.Statement) error {
	if !st.Valid() {
		if e.opts.Strict {
			return fmt.Errorf("%w: %s", ErrInvalidStatement, st.NTriples())
		}
		e.log.Warn("dropping invalid statement", "statement", st.NTriples())
		return nil
	}
	return e.fn(st)
}

func (e *emitter) common(n *metadata.Node, s rdf.Term) error {
	props := n.CommonProperties()
	for _, k := range sortedKeys(props) {
		if err := n.CommonStatements(s, k, props[k], e.emit); err != nil {
			return err
		}
	}
	if notes := n.Notes(); len(notes) > 0 {
		return n.CommonStatements(s, "note", notes, e.emit)
	}
	return nil
}

func (e *emitter) table(t *metadata.Node, res rdf.Term, filenames []string) error {
	started := e.opts.now()
	e.log.Debug("emit table", "url", t.URL())
	t, err := embed(e.ctx, e.op, t)
	if err != nil {
		return err
	}
	if !e.opts.Minimal {
		if err := e.add(res, rdf.Type, csvwTable); err != nil {
			return err
		}
		if err := e.add(res, csvwURL, rdf.IRI(t.URL())); err != nil {
			return err
		}
		if err := e.common(t, res); err != nil {
			return err
		}
	}
	err = eachRow(e.ctx, e.op, t, func(row *metadata.Row) error {
		return e.row(res, row)
	})
	if err != nil {
		return err
	}
	if !e.opts.prov() {
		return nil
	}
	return e.provenance(t, res, started, filenames)
}

func (e *emitter) row(table rdf.Term, row *metadata.Row) error {
	rowRes := rdf.NewBlankNode()
	defaultSubject := rdf.NewBlankNode()
	if !e.opts.Minimal {
		if err := e.add(table, csvwRow, rowRes); err != nil {
			return err
		}
		if err := e.add(rowRes, csvwRownum, rdf.NewLiteral(strconv.Itoa(row.Number), vocab.XSD+"integer")); err != nil {
			return err
		}
		if err := e.add(rowRes, csvwURL, rdf.IRI(row.ID())); err != nil {
			return err
		}
	}
	described := map[rdf.Term]bool{}
	for _, cell := range row.Cells {
		if cell.Column.SuppressOutput() {
			continue
		}
		var s rdf.Term = defaultSubject
		if cell.AboutURL != "" {
			s = rdf.IRI(cell.AboutURL)
		}
		if !e.opts.Minimal && !described[s] {
			described[s] = true
			if err := e.add(rowRes, csvwDescribes, s); err != nil {
				return err
			}
		}
		if err := e.cell(s, cell); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) cell(s rdf.Term, cell *metadata.Cell) error {
	p := rdf.IRI(cell.PropertyURL)
	switch {
	case cell.ValueURL != "":
		return e.add(s, p, rdf.IRI(cell.ValueURL))
	case cell.Column.Ordered():
		items := make([]rdf.Term, len(cell.Value))
		for i, v := range cell.Value {
			items[i] = v
		}
		head, sts := rdf.List(items)
		if err := e.add(s, p, head); err != nil {
			return err
		}
		for _, st := range sts {
			if err := e.emit(st); err != nil {
				return err
			}
		}
		return nil
	}
	for _, v := range cell.Value {
		if err := e.add(s, p, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) provenance(t *metadata.Node, res rdf.Term, started time.Time, filenames []string) error {
	dist := rdf.NewBlankNode()
	activity := rdf.NewBlankNode()
	sts := []rdf.Statement{
		{Subject: res, Predicate: dcatDistrib, Object: dist},
		{Subject: dist, Predicate: rdf.Type, Object: dcatDistClass},
		{Subject: dist, Predicate: dcatDownloadURL, Object: rdf.IRI(t.URL())},
		{Subject: res, Predicate: provActivity, Object: activity},
		{Subject: activity, Predicate: rdf.Type, Object: provActClass},
		{Subject: activity, Predicate: provStarted, Object: dateTime(started)},
		{Subject: activity, Predicate: provEnded, Object: dateTime(e.opts.now())},
	}
	sts = append(sts, usage(activity, t.URL(), "csvEncodedTabularData")...)
	for _, fn := range filenames {
		sts = append(sts, usage(activity, fn, "tabularMetadata")...)
	}
	for _, st := range sts {
		if err := e.emit(st); err != nil {
			return err
		}
	}
	return nil
}

func usage(activity rdf.Term, entity, role string) []rdf.Statement {
	u := rdf.NewBlankNode()
	return []rdf.Statement{
		{Subject: activity, Predicate: provUsage, Object: u},
		{Subject: u, Predicate: rdf.Type, Object: provUsageClass},
		{Subject: u, Predicate: provEntity, Object: rdf.IRI(entity)},
		{Subject: u, Predicate: provHadRole, Object: rdf.IRI(vocab.CSVW + role)},
	}
}

func dateTime(t time.Time) rdf.Literal {
	return rdf.NewLiteral(t.Format(time.RFC3339Nano), vocab.XSD+"dateTime")
}
