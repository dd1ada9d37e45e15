package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/6a6d74/rdf-tabular/rdf"
	"github.com/6a6d74/rdf-tabular/vocab"
)

// ErrInvalidJSONLD reports a common property that is not acceptable
// JSON-LD.
var ErrInvalidJSONLD = errors.New("invalid JSON-LD")

func jsonldErr(format string, v any) error {
	b, _ := json.Marshal(v)
	return fmt.Errorf("%w: "+format, ErrInvalidJSONLD, string(b))
}

// normalizeJSONLD puts a common property value in expanded form: strings
// become value objects in the default language and node identifiers are
// resolved against the document base.
func (n *Node) normalizeJSONLD(value any) (any, error) {
	c := n.Context()
	switch t := value.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			nv, err := n.normalizeJSONLD(e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case string:
		v := map[string]any{"@value": t}
		if c.HasLanguage() {
			v["@language"] = c.DefaultLanguage()
		}
		return v, nil
	case map[string]any:
		if _, ok := t["@value"]; ok {
			_, hasType := t["@type"]
			lang, hasLang := t["@language"]
			switch {
			case hasType && hasLang:
				return nil, jsonldErr("value object may not contain both @type and @language: %s", t)
			case hasLang:
				if s, ok := lang.(string); !ok || !vocab.ValidLanguage(s) {
					return nil, jsonldErr("value object with @language must use valid language: %s", t)
				}
			case hasType:
				if s, ok := t["@type"].(string); !ok || !vocab.IsAbsolute(c.ExpandIRI(s, true)) {
					return nil, jsonldErr("value object with @type must define a type: %s", t)
				}
			}
			return t, nil
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			switch {
			case k == "@id":
				s, ok := e.(string)
				if !ok {
					return nil, jsonldErr("@id must be a string: %s", t)
				}
				id := c.ExpandIRI(s, false)
				if strings.HasPrefix(id, "_:") {
					return nil, jsonldErr("invalid use of explicit blank node on @id: %s", t)
				}
				out[k] = id
			case k == "@type":
				for _, ty := range stringList(e) {
					if !vocab.IsAbsolute(c.ExpandIRI(ty, true)) {
						return nil, jsonldErr("invalid type in JSON-LD content: %s", ty)
					}
				}
				out[k] = e
			case strings.HasPrefix(k, "@") || strings.HasPrefix(k, "_:"):
				return nil, jsonldErr("invalid use of key in JSON-LD content: %s", k)
			default:
				nv, err := n.normalizeJSONLD(e)
				if err != nil {
					return nil, err
				}
				out[k] = nv
			}
		}
		return out, nil
	}
	return value, nil
}

// CommonStatements emits the statements for one common property value with
// subject as the subject. Value objects become literals, node objects a
// resource (its @id or a new blank node) with types and nested properties.
func (n *Node) CommonStatements(subject rdf.Term, property string, value any, fn func(rdf.Statement) error) error {
	c := n.Context()
	pred := rdf.IRI(c.ExpandIRI(property, true))
	switch t := value.(type) {
	case []any:
		for _, e := range t {
			if err := n.CommonStatements(subject, property, e, fn); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		if v, ok := t["@value"]; ok {
			lit := primitiveLiteral(v)
			if lang, ok := t["@language"].(string); ok {
				lit = rdf.NewLangLiteral(lit.Lexical, lang)
			} else if ty, ok := t["@type"].(string); ok {
				lit = rdf.NewLiteral(lit.Lexical, c.ExpandIRI(ty, true))
			}
			return fn(rdf.Statement{Subject: subject, Predicate: pred, Object: lit})
		}
		var node rdf.Term = rdf.NewBlankNode()
		if id, ok := t["@id"].(string); ok {
			node = rdf.IRI(c.ExpandIRI(id, false))
		}
		if err := fn(rdf.Statement{Subject: subject, Predicate: pred, Object: node}); err != nil {
			return err
		}
		for _, ty := range stringList(t["@type"]) {
			if err := fn(rdf.Statement{Subject: node, Predicate: rdf.Type, Object: rdf.IRI(c.ExpandIRI(ty, true))}); err != nil {
				return err
			}
		}
		for _, k := range sortedKeys(t) {
			if strings.HasPrefix(k, "@") {
				continue
			}
			if err := n.CommonStatements(node, k, t[k], fn); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return nil
	}
	return fn(rdf.Statement{Subject: subject, Predicate: pred, Object: primitiveLiteral(value)})
}

func primitiveLiteral(v any) rdf.Literal {
	switch t := v.(type) {
	case string:
		return rdf.Literal{Lexical: t}
	case bool:
		return rdf.NewLiteral(strconv.FormatBool(t), vocab.XSD+"boolean")
	case int64:
		return rdf.NewLiteral(strconv.FormatInt(t, 10), vocab.XSD+"integer")
	case float64:
		return rdf.NewLiteral(strconv.FormatFloat(t, 'E', -1, 64), vocab.XSD+"double")
	}
	return rdf.Literal{Lexical: fmt.Sprint(v)}
}
