package datatype

import (
	"math"
	"strconv"

	"github.com/6a6d74/rdf-tabular/rdf"
)

// Native returns the JSON value for a literal: numbers for numeric kinds
// that fit, booleans for xsd:boolean, the lexical form otherwise.
func Native(l rdf.Literal) any {
	kind := Canonical(l.Datatype)
	switch {
	case IsInteger(kind):
		if n, err := strconv.ParseInt(l.Lexical, 10, 64); err == nil {
			return n
		}
	case kind == "decimal" || kind == "double" || kind == "float":
		if f, err := strconv.ParseFloat(l.Lexical, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	case kind == "boolean":
		switch l.Lexical {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
	}
	return l.Lexical
}
