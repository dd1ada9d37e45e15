package datatype

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/6a6d74/rdf-tabular/i18n"
	"github.com/6a6d74/rdf-tabular/rdf"
	"github.com/6a6d74/rdf-tabular/vocab"
)

// CastOptions control how a cell string is cast.
type CastOptions struct {
	// Language tags string literals of kind string.
	Language string
	// Trim is the dialect trim mode ("true", "false", "start", "end")
	// applied to string-like kinds; other kinds are always stripped.
	Trim string
}

// Result is the outcome of casting one cell value.
type Result struct {
	Literal rdf.Literal
	// Matched is false when no descriptor accepted the value and Literal is
	// the plain fallback.
	Matched bool
	Errors  []string
}

type cellError struct {
	code string
	data map[string]string
}

func (e cellError) String() string { return i18n.T(e.code, e.data) }

// Cast tries each descriptor in order and returns the first literal that
// satisfies one. When none does, the value becomes a plain literal and the
// errors of every attempt are reported.
func Cast(value string, descs []Descriptor, opts CastOptions) Result {
	if len(descs) == 0 {
		return Result{Literal: rdf.NewLangLiteral(value, opts.Language), Matched: true}
	}
	var errs []string
	fallback := value
	for _, d := range descs {
		v := value
		if StringLike(d.Kind()) {
			v = TrimMode(v, opts.Trim)
		} else {
			v = strings.TrimSpace(v)
		}
		fallback = v
		lit, cerrs := castOne(v, d, opts.Language)
		if len(cerrs) == 0 {
			return Result{Literal: lit, Matched: true}
		}
		for _, e := range cerrs {
			errs = append(errs, e.String())
		}
	}
	return Result{Literal: rdf.Literal{Lexical: fallback}, Errors: errs}
}

// TrimMode applies a dialect trim mode to s.
func TrimMode(s, mode string) string {
	switch mode {
	case "true":
		return strings.TrimSpace(s)
	case "start":
		return strings.TrimLeft(s, " \t\r\n")
	case "end":
		return strings.TrimRight(s, " \t\r\n")
	}
	return s
}

func castOne(value string, d Descriptor, lang string) (rdf.Literal, []cellError) {
	var errs []cellError
	kind := d.Kind()
	dt := d.IRI()

	n := utf8.RuneCountInString(value)
	if d.Length != nil && n != *d.Length {
		errs = append(errs, cellError{"cell_length", map[string]string{"value": value, "length": itoa(*d.Length)}})
	}
	if d.MinLength != nil && n < *d.MinLength {
		errs = append(errs, cellError{"cell_min_length", map[string]string{"value": value, "length": itoa(*d.MinLength)}})
	}
	if d.MaxLength != nil && n > *d.MaxLength {
		errs = append(errs, cellError{"cell_max_length", map[string]string{"value": value, "length": itoa(*d.MaxLength)}})
	}

	var lit rdf.Literal
	switch {
	case IsNumeric(kind):
		v, nerrs := castNumeric(value, d, kind)
		errs = append(errs, nerrs...)
		value = v
		lit = rdf.NewLiteral(v, dt)
	case kind == "boolean":
		if d.Format != "" {
			t, f, _ := strings.Cut(d.Format, "|")
			switch value {
			case t:
				lit = rdf.NewLiteral("true", dt)
			case f:
				lit = rdf.NewLiteral("false", dt)
			default:
				errs = append(errs, cellError{"cell_boolean_format", map[string]string{"value": value, "format": d.Format}})
				lit = rdf.NewLiteral(value, dt)
			}
			break
		}
		switch strings.ToLower(value) {
		case "1", "true":
			lit = rdf.NewLiteral("true", dt)
		case "0", "false":
			lit = rdf.NewLiteral("false", dt)
		default:
			lit = rdf.NewLiteral(value, dt)
		}
	case IsDateTime(kind):
		v, derrs := castDateTime(value, d.Format, kind)
		errs = append(errs, derrs...)
		value = v
		lit = rdf.NewLiteral(v, dt)
	case IsDuration(kind):
		lit = rdf.NewLiteral(value, dt)
	case Unsupported(kind):
		errs = append(errs, cellError{"cell_unsupported", map[string]string{"value": value, "datatype": d.Base}})
		return rdf.Literal{Lexical: value}, errs
	default:
		if d.Format != "" {
			re, err := regexp.Compile(d.Format)
			if err != nil || !re.MatchString(value) {
				errs = append(errs, cellError{"cell_format", map[string]string{"value": value, "format": d.Format}})
			}
		}
		if dt == vocab.XSD+"string" {
			lit = rdf.NewLangLiteral(value, lang)
		} else {
			lit = rdf.NewLiteral(value, dt)
		}
	}

	if !Valid(kind, lit.Lexical) {
		errs = append(errs, cellError{"cell_invalid", map[string]string{"value": value, "datatype": d.Base}})
	} else if len(errs) == 0 {
		errs = append(errs, checkFacets(lit.Lexical, d, kind)...)
	}
	return lit, errs
}

func checkFacets(v string, d Descriptor, kind string) []cellError {
	if !IsNumeric(kind) && !IsDateTime(kind) {
		return nil
	}
	checks := []struct {
		facet string
		limit string
		ok    func(c int) bool
	}{
		{"minimum", d.Minimum, func(c int) bool { return c >= 0 }},
		{"minInclusive", d.MinInclusive, func(c int) bool { return c >= 0 }},
		{"maximum", d.Maximum, func(c int) bool { return c <= 0 }},
		{"maxInclusive", d.MaxInclusive, func(c int) bool { return c <= 0 }},
		{"minExclusive", d.MinExclusive, func(c int) bool { return c > 0 }},
		{"maxExclusive", d.MaxExclusive, func(c int) bool { return c < 0 }},
	}
	var errs []cellError
	for _, ck := range checks {
		if ck.limit == "" {
			continue
		}
		var c int
		var ok bool
		if IsNumeric(kind) {
			c, ok = compareNumeric(v, ck.limit)
		} else {
			c, ok = strings.Compare(v, ck.limit), len(v) == len(ck.limit)
		}
		if ok && !ck.ok(c) {
			errs = append(errs, cellError{"cell_facet", map[string]string{"value": v, "facet": ck.facet, "limit": ck.limit}})
		}
	}
	return errs
}

func itoa(n int) string { return strconv.Itoa(n) }
