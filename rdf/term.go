// Package rdf holds the minimal term and statement model the emitter
// produces, plus an N-Triples writer.
package rdf

import (
	"strings"

	"github.com/google/uuid"

	"github.com/6a6d74/rdf-tabular/vocab"
)

// Term is an IRI, a blank node or a literal.
type Term interface {
	// NTriples renders the term in N-Triples syntax.
	NTriples() string
	isTerm()
}

// IRI is an absolute IRI reference.
type IRI string

func (i IRI) NTriples() string { return "<" + escapeIRI(string(i)) + ">" }
func (IRI) isTerm()            {}
func (i IRI) String() string   { return string(i) }

// BlankNode is a node without a global identifier.
type BlankNode struct{ ID string }

// NewBlankNode allocates a blank node with a fresh label.
func NewBlankNode() BlankNode {
	return BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

func (b BlankNode) NTriples() string { return "_:" + b.ID }
func (BlankNode) isTerm()            {}

// Literal is a lexical form with a datatype or a language tag. An empty
// Datatype with no Language is a plain xsd:string literal.
type Literal struct {
	Lexical  string
	Datatype string
	Language string
}

// NewLiteral returns a typed literal.
func NewLiteral(lexical, datatype string) Literal {
	return Literal{Lexical: lexical, Datatype: datatype}
}

// NewLangLiteral returns a language-tagged string. "und" and "" produce a
// plain literal.
func NewLangLiteral(lexical, lang string) Literal {
	if lang == "und" {
		lang = ""
	}
	return Literal{Lexical: lexical, Language: lang}
}

func (Literal) isTerm() {}

// DatatypeIRI returns the effective datatype, rdf:langString for tagged
// literals and xsd:string for plain ones.
func (l Literal) DatatypeIRI() string {
	switch {
	case l.Language != "":
		return vocab.RDF + "langString"
	case l.Datatype == "":
		return vocab.XSD + "string"
	}
	return l.Datatype
}

// Plain reports whether the literal is an untagged xsd:string.
func (l Literal) Plain() bool {
	return l.Language == "" && (l.Datatype == "" || l.Datatype == vocab.XSD+"string")
}

func (l Literal) NTriples() string {
	s := `"` + escapeLiteral(l.Lexical) + `"`
	switch {
	case l.Language != "":
		return s + "@" + l.Language
	case l.Plain():
		return s
	}
	return s + "^^<" + escapeIRI(l.Datatype) + ">"
}

func (l Literal) String() string { return l.Lexical }

// Statement is a single triple.
type Statement struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

// Valid reports whether the statement is well formed: the subject is an IRI
// or blank node, IRIs are absolute and tagged literals carry a valid tag.
func (s Statement) Valid() bool {
	switch sub := s.Subject.(type) {
	case IRI:
		if !vocab.IsAbsolute(string(sub)) {
			return false
		}
	case BlankNode:
	default:
		return false
	}
	if !vocab.IsAbsolute(string(s.Predicate)) {
		return false
	}
	switch o := s.Object.(type) {
	case IRI:
		return vocab.IsAbsolute(string(o))
	case BlankNode:
		return true
	case Literal:
		return o.Language == "" || vocab.ValidLanguage(o.Language)
	}
	return false
}

func (s Statement) NTriples() string {
	return s.Subject.NTriples() + " " + s.Predicate.NTriples() + " " + s.Object.NTriples() + " ."
}

func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\r\t") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			b.WriteString(`\u00`)
			b.WriteString(hex2(byte(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hex2(c byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}
