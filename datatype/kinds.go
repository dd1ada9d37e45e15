// Package datatype casts cell strings to typed literals according to CSVW
// datatype descriptors.
package datatype

import (
	"strings"

	"github.com/6a6d74/rdf-tabular/vocab"
)

// names maps the datatype names usable in metadata to their IRIs.
var names = map[string]string{
	"anyAtomicType":      vocab.XSD + "anyAtomicType",
	"anyURI":             vocab.XSD + "anyURI",
	"base64Binary":       vocab.XSD + "base64Binary",
	"boolean":            vocab.XSD + "boolean",
	"byte":               vocab.XSD + "byte",
	"date":               vocab.XSD + "date",
	"dateTime":           vocab.XSD + "dateTime",
	"dayTimeDuration":    vocab.XSD + "dayTimeDuration",
	"dateTimeStamp":      vocab.XSD + "dateTimeStamp",
	"decimal":            vocab.XSD + "decimal",
	"double":             vocab.XSD + "double",
	"duration":           vocab.XSD + "duration",
	"float":              vocab.XSD + "float",
	"ENTITY":             vocab.XSD + "ENTITY",
	"gDay":               vocab.XSD + "gDay",
	"gMonth":             vocab.XSD + "gMonth",
	"gMonthDay":          vocab.XSD + "gMonthDay",
	"gYear":              vocab.XSD + "gYear",
	"gYearMonth":         vocab.XSD + "gYearMonth",
	"hexBinary":          vocab.XSD + "hexBinary",
	"int":                vocab.XSD + "int",
	"integer":            vocab.XSD + "integer",
	"language":           vocab.XSD + "language",
	"long":               vocab.XSD + "long",
	"Name":               vocab.XSD + "Name",
	"NCName":             vocab.XSD + "NCName",
	"negativeInteger":    vocab.XSD + "negativeInteger",
	"nonNegativeInteger": vocab.XSD + "nonNegativeInteger",
	"nonPositiveInteger": vocab.XSD + "nonPositiveInteger",
	"normalizedString":   vocab.XSD + "normalizedString",
	"NOTATION":           vocab.XSD + "NOTATION",
	"positiveInteger":    vocab.XSD + "positiveInteger",
	"QName":              vocab.XSD + "QName",
	"short":              vocab.XSD + "short",
	"string":             vocab.XSD + "string",
	"time":               vocab.XSD + "time",
	"token":              vocab.XSD + "token",
	"unsignedByte":       vocab.XSD + "unsignedByte",
	"unsignedInt":        vocab.XSD + "unsignedInt",
	"unsignedLong":       vocab.XSD + "unsignedLong",
	"unsignedShort":      vocab.XSD + "unsignedShort",
	"yearMonthDuration":  vocab.XSD + "yearMonthDuration",
	"ID":                 vocab.XSD + "ID",
	"IDREF":              vocab.XSD + "IDREF",
	"IDREFS":             vocab.XSD + "IDREFS",
	"ENTITIES":           vocab.XSD + "ENTITIES",
	"NMTOKEN":            vocab.XSD + "NMTOKEN",
	"NMTOKENS":           vocab.XSD + "NMTOKENS",
	"anyType":            vocab.XSD + "anyType",
	"anySimpleType":      vocab.XSD + "anySimpleType",

	"html": vocab.RDF + "HTML",
	"json": vocab.CSVW + "JSON",
	"xml":  vocab.RDF + "XMLLiteral",
}

// aliases are alternative names resolved to a canonical name.
var aliases = map[string]string{
	"any":      "anyAtomicType",
	"binary":   "base64Binary",
	"datetime": "dateTime",
	"number":   "double",
	"lang":     "language",
}

// parents records the derivation hierarchy used for narrowing checks.
var parents = map[string]string{
	"integer":            "decimal",
	"long":               "integer",
	"int":                "long",
	"short":              "int",
	"byte":               "short",
	"nonNegativeInteger": "integer",
	"positiveInteger":    "nonNegativeInteger",
	"unsignedLong":       "nonNegativeInteger",
	"unsignedInt":        "unsignedLong",
	"unsignedShort":      "unsignedInt",
	"unsignedByte":       "unsignedShort",
	"nonPositiveInteger": "integer",
	"negativeInteger":    "nonPositiveInteger",
	"normalizedString":   "string",
	"token":              "normalizedString",
	"language":           "token",
	"Name":               "token",
	"NMTOKEN":            "token",
	"NCName":             "Name",
	"ID":                 "NCName",
	"IDREF":              "NCName",
	"ENTITY":             "NCName",
	"dateTimeStamp":      "dateTime",
	"dayTimeDuration":    "duration",
	"yearMonthDuration":  "duration",
	"html":               "string",
	"json":               "string",
	"xml":                "string",
	"anySimpleType":      "anyType",
	"anyAtomicType":      "anySimpleType",
}

// Canonical returns the canonical short name for name (resolving aliases
// and XSD IRIs), or "" when the name is not a built-in datatype.
func Canonical(name string) string {
	if a, ok := aliases[name]; ok {
		return a
	}
	if _, ok := names[name]; ok {
		return name
	}
	if strings.HasPrefix(name, vocab.XSD) {
		local := strings.TrimPrefix(name, vocab.XSD)
		if _, ok := names[local]; ok {
			return local
		}
	}
	for short, iri := range names {
		if iri == name {
			return short
		}
	}
	return ""
}

// Known reports whether name is a built-in datatype name or alias.
func Known(name string) bool {
	_, ok := names[name]
	if !ok {
		_, ok = aliases[name]
	}
	return ok
}

// IRI returns the datatype IRI for a name, alias or IRI. Unknown relative
// names return "".
func IRI(name string) string {
	if c := Canonical(name); c != "" {
		return names[c]
	}
	if vocab.IsAbsolute(name) {
		return name
	}
	return ""
}

// Derives reports whether child is ancestor or derived from it. Every
// built-in derives from anyAtomicType; non built-in IRIs only derive from
// themselves.
func Derives(child, ancestor string) bool {
	c, a := Canonical(child), Canonical(ancestor)
	if c == "" || a == "" {
		return child == ancestor
	}
	if a == "anyAtomicType" || a == "anySimpleType" || a == "anyType" {
		return true
	}
	for k := c; k != ""; k = parents[k] {
		if k == a {
			return true
		}
	}
	return false
}

var integerKinds = map[string]bool{
	"integer": true, "long": true, "int": true, "short": true, "byte": true,
	"nonNegativeInteger": true, "positiveInteger": true,
	"unsignedLong": true, "unsignedInt": true, "unsignedShort": true, "unsignedByte": true,
	"nonPositiveInteger": true, "negativeInteger": true,
}

// IsInteger reports whether kind is xsd:integer or one of its subtypes.
func IsInteger(kind string) bool { return integerKinds[kind] }

// IsNumeric reports whether kind is a numeric kind.
func IsNumeric(kind string) bool {
	return integerKinds[kind] || kind == "decimal" || kind == "double" || kind == "float"
}

// IsDateTime reports whether kind is handled by the date/time formatter.
func IsDateTime(kind string) bool {
	switch kind {
	case "date", "time", "dateTime", "dateTimeStamp":
		return true
	}
	return false
}

// IsDuration reports whether kind is a duration kind.
func IsDuration(kind string) bool {
	return kind == "duration" || kind == "dayTimeDuration" || kind == "yearMonthDuration"
}

// Unsupported reports kinds the caster refuses.
func Unsupported(kind string) bool {
	switch kind {
	case "anyType", "anySimpleType", "ENTITIES", "IDREFS", "NMTOKENS", "ENTITY", "ID", "IDREF", "NOTATION":
		return true
	}
	return false
}

// StringLike reports kinds whose values are trimmed per the dialect rather
// than stripped.
func StringLike(name string) bool {
	return name == "string" || name == "anyAtomicType" || name == "any"
}
