package rdf

import "github.com/6a6d74/rdf-tabular/vocab"

// Common predicates and classes.
const (
	Type  = IRI(vocab.RDF + "type")
	First = IRI(vocab.RDF + "first")
	Rest  = IRI(vocab.RDF + "rest")
	Nil   = IRI(vocab.RDF + "nil")
)

// List encodes items as an rdf:List and returns its head together with the
// statements describing it. An empty list is rdf:nil.
func List(items []Term) (Term, []Statement) {
	if len(items) == 0 {
		return Nil, nil
	}
	nodes := make([]BlankNode, len(items))
	for i := range nodes {
		nodes[i] = NewBlankNode()
	}
	sts := make([]Statement, 0, 2*len(items))
	for i, it := range items {
		sts = append(sts, Statement{Subject: nodes[i], Predicate: First, Object: it})
		var rest Term = Nil
		if i+1 < len(nodes) {
			rest = nodes[i+1]
		}
		sts = append(sts, Statement{Subject: nodes[i], Predicate: Rest, Object: rest})
	}
	return nodes[0], sts
}
