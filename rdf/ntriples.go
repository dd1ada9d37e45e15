package rdf

import (
	"bufio"
	"io"
)

// NTriplesWriter streams statements in N-Triples format.
type NTriplesWriter struct {
	w *bufio.Writer
}

// NewNTriplesWriter creates a new N-Triples writer on w. Call Flush when done.
func NewNTriplesWriter(w io.Writer) *NTriplesWriter {
	return &NTriplesWriter{w: bufio.NewWriter(w)}
}

// WriteStatement writes a single triple.
func (w *NTriplesWriter) WriteStatement(st Statement) error {
	if _, err := w.w.WriteString(st.NTriples()); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// WriteTriple writes an IRI-subject triple.
func (w *NTriplesWriter) WriteTriple(subject, predicate string, object Term) error {
	return w.WriteStatement(Statement{Subject: IRI(subject), Predicate: IRI(predicate), Object: object})
}

// WriteTypeTriple writes a type assertion triple.
func (w *NTriplesWriter) WriteTypeTriple(subject Term, typeIRI string) error {
	return w.WriteStatement(Statement{Subject: subject, Predicate: Type, Object: IRI(typeIRI)})
}

// Flush writes buffered output.
func (w *NTriplesWriter) Flush() error { return w.w.Flush() }
