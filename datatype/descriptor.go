package datatype

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/6a6d74/rdf-tabular/vocab"
)

// Descriptor is the normalized form of a datatype property value.
type Descriptor struct {
	ID   string
	Base string // name, alias or absolute IRI; "string" when unset

	// Format is the format string. For numeric kinds an object format is
	// split into Pattern, DecimalChar and GroupChar.
	Format      string
	Pattern     string
	DecimalChar string
	GroupChar   string

	Length    *int
	MinLength *int
	MaxLength *int

	Minimum      string
	Maximum      string
	MinInclusive string
	MaxInclusive string
	MinExclusive string
	MaxExclusive string
}

// ErrInvalidDescriptor wraps descriptor shape errors.
var ErrInvalidDescriptor = errors.New("invalid datatype")

// Normalize converts a datatype property value (name, object, or an array of
// either) into descriptors.
func Normalize(v any) ([]Descriptor, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]Descriptor, 0, len(t))
		for _, e := range t {
			d, err := normalizeOne(e)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	default:
		d, err := normalizeOne(v)
		if err != nil {
			return nil, err
		}
		return []Descriptor{d}, nil
	}
}

func normalizeOne(v any) (Descriptor, error) {
	switch t := v.(type) {
	case string:
		return Descriptor{Base: t}, nil
	case Descriptor:
		return t, nil
	case map[string]any:
		d := Descriptor{Base: "string"}
		for k, vv := range t {
			var err error
			switch k {
			case "@id":
				d.ID, err = str(k, vv)
			case "@type":
				if s, _ := vv.(string); s != "Datatype" {
					err = fmt.Errorf("%w: @type must be Datatype", ErrInvalidDescriptor)
				}
			case "base":
				d.Base, err = str(k, vv)
			case "format":
				err = d.setFormat(vv)
			case "length":
				d.Length, err = count(k, vv)
			case "minLength":
				d.MinLength, err = count(k, vv)
			case "maxLength":
				d.MaxLength, err = count(k, vv)
			case "minimum":
				d.Minimum, err = facet(k, vv)
			case "maximum":
				d.Maximum, err = facet(k, vv)
			case "minInclusive":
				d.MinInclusive, err = facet(k, vv)
			case "maxInclusive":
				d.MaxInclusive, err = facet(k, vv)
			case "minExclusive":
				d.MinExclusive, err = facet(k, vv)
			case "maxExclusive":
				d.MaxExclusive, err = facet(k, vv)
			case "decimalChar":
				d.DecimalChar, err = str(k, vv)
			case "groupChar":
				d.GroupChar, err = str(k, vv)
			case "pattern":
				d.Pattern, err = str(k, vv)
			}
			if err != nil {
				return Descriptor{}, err
			}
		}
		return d, nil
	}
	return Descriptor{}, fmt.Errorf("%w: unexpected %T", ErrInvalidDescriptor, v)
}

func (d *Descriptor) setFormat(v any) error {
	switch f := v.(type) {
	case string:
		d.Format = f
		return nil
	case map[string]any:
		for k, vv := range f {
			s, err := str(k, vv)
			if err != nil {
				return err
			}
			switch k {
			case "pattern":
				d.Pattern = s
			case "decimalChar":
				d.DecimalChar = s
			case "groupChar":
				d.GroupChar = s
			}
		}
		return nil
	}
	return fmt.Errorf("%w: format must be a string or object", ErrInvalidDescriptor)
}

func str(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidDescriptor, key)
	}
	return s, nil
}

func count(key string, v any) (*int, error) {
	var n int
	switch t := v.(type) {
	case int64:
		n = int(t)
	case int:
		n = t
	case float64:
		if t != math.Trunc(t) {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidDescriptor, key)
		}
		n = int(t)
	case string:
		i, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidDescriptor, key)
		}
		n = i
	default:
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidDescriptor, key)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %s must be non-negative", ErrInvalidDescriptor, key)
	}
	return &n, nil
}

func facet(key string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %s must be a number or a date/time value", ErrInvalidDescriptor, key)
}

// Kind returns the canonical built-in name of the base, or "" for a custom
// datatype IRI.
func (d Descriptor) Kind() string {
	if d.Base == "" {
		return "string"
	}
	return Canonical(d.Base)
}

// IRI returns the datatype IRI: the @id when given, else the IRI of the base.
func (d Descriptor) IRI() string {
	if d.ID != "" {
		return d.ID
	}
	if d.Base == "" {
		return vocab.XSD + "string"
	}
	return IRI(d.Base)
}

// Check validates the descriptor itself.
func (d Descriptor) Check() error {
	if d.Base != "" && !Known(d.Base) && !vocab.IsAbsolute(d.Base) {
		return fmt.Errorf("%w: unknown base %q", ErrInvalidDescriptor, d.Base)
	}
	if d.Length != nil {
		if d.MinLength != nil && *d.MinLength != *d.Length {
			return fmt.Errorf("%w: minLength must equal length", ErrInvalidDescriptor)
		}
		if d.MaxLength != nil && *d.MaxLength != *d.Length {
			return fmt.Errorf("%w: maxLength must equal length", ErrInvalidDescriptor)
		}
	}
	if d.MinLength != nil && d.MaxLength != nil && *d.MinLength > *d.MaxLength {
		return fmt.Errorf("%w: minLength exceeds maxLength", ErrInvalidDescriptor)
	}
	kind := d.Kind()
	for name, lim := range d.facets() {
		if lim == "" {
			continue
		}
		if IsNumeric(kind) && !Valid("decimal", lim) && !Valid("double", lim) {
			return fmt.Errorf("%w: %s %q is not numeric", ErrInvalidDescriptor, name, lim)
		}
		if IsDateTime(kind) && !Valid(kind, lim) {
			return fmt.Errorf("%w: %s %q is not a valid %s", ErrInvalidDescriptor, name, lim, kind)
		}
	}
	if d.Minimum != "" && d.MinInclusive != "" && d.Minimum != d.MinInclusive {
		return fmt.Errorf("%w: minimum conflicts with minInclusive", ErrInvalidDescriptor)
	}
	if d.Maximum != "" && d.MaxInclusive != "" && d.Maximum != d.MaxInclusive {
		return fmt.Errorf("%w: maximum conflicts with maxInclusive", ErrInvalidDescriptor)
	}
	return nil
}

func (d Descriptor) facets() map[string]string {
	return map[string]string{
		"minimum":      d.Minimum,
		"maximum":      d.Maximum,
		"minInclusive": d.MinInclusive,
		"maxInclusive": d.MaxInclusive,
		"minExclusive": d.MinExclusive,
		"maxExclusive": d.MaxExclusive,
	}
}
