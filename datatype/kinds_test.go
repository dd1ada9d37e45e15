package datatype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/6a6d74/rdf-tabular/datatype"
	"github.com/6a6d74/rdf-tabular/vocab"
)

func TestCanonicalAndIRI(t *testing.T) {
	assert.Equal(t, "double", datatype.Canonical("number"))
	assert.Equal(t, "anyAtomicType", datatype.Canonical("any"))
	assert.Equal(t, "integer", datatype.Canonical(vocab.XSD+"integer"))
	assert.Equal(t, "", datatype.Canonical("foo"))
	assert.Equal(t, vocab.CSVW+"JSON", datatype.IRI("json"))
	assert.Equal(t, vocab.RDF+"XMLLiteral", datatype.IRI("xml"))
	assert.Equal(t, vocab.XSD+"language", datatype.IRI("lang"))
	assert.Equal(t, "http://example.org/dt", datatype.IRI("http://example.org/dt"))
	assert.Equal(t, "", datatype.IRI("foo"))
}

func TestDerives(t *testing.T) {
	assert.True(t, datatype.Derives("short", "integer"))
	assert.True(t, datatype.Derives("integer", "integer"))
	assert.True(t, datatype.Derives("string", "anyAtomicType"))
	assert.True(t, datatype.Derives("token", "string"))
	assert.False(t, datatype.Derives("integer", "short"))
	assert.False(t, datatype.Derives("string", "integer"))
}

func TestValid(t *testing.T) {
	valid := map[string][]string{
		"decimal":           {"1", "-1.5", ".5", "+3."},
		"integer":           {"0", "-12", "+7"},
		"double":            {"1e10", "NaN", "-INF"},
		"date":              {"2016-02-29", "2015-03-22Z", "2015-03-22+01:00"},
		"time":              {"24:00:00", "10:30:00.5"},
		"dateTime":          {"2015-03-22T10:30:00"},
		"gYearMonth":        {"2015-03"},
		"duration":          {"P1Y", "PT1.5S", "-P1DT2H"},
		"dayTimeDuration":   {"P1DT2H"},
		"yearMonthDuration": {"P1Y2M"},
		"hexBinary":         {"0FB7"},
		"base64Binary":      {"aGVsbG8="},
		"language":          {"en-US"},
		"NCName":            {"a_b"},
		"token":             {"a b"},
	}
	for kind, vs := range valid {
		for _, v := range vs {
			assert.True(t, datatype.Valid(kind, v), "%s %q", kind, v)
		}
	}
	invalid := map[string][]string{
		"decimal":           {"1e5", "abc", ""},
		"date":              {"2015-02-29", "2015-3-22"},
		"time":              {"25:00:00"},
		"duration":          {"P", "PT", "P1YT"},
		"dayTimeDuration":   {"P1Y"},
		"yearMonthDuration": {"P1D"},
		"hexBinary":         {"0FB"},
		"NCName":            {"a:b"},
		"token":             {" a", "a  b"},
		"boolean":           {"yes"},
		"json":              {"{"},
	}
	for kind, vs := range invalid {
		for _, v := range vs {
			assert.False(t, datatype.Valid(kind, v), "%s %q", kind, v)
		}
	}
}

func TestDescriptorCheck(t *testing.T) {
	ds, err := datatype.Normalize(map[string]any{"base": "string", "length": 3, "minLength": 2})
	assert.NoError(t, err)
	assert.Error(t, ds[0].Check())

	ds, _ = datatype.Normalize("foo")
	assert.Error(t, ds[0].Check())

	ds, _ = datatype.Normalize("http://example.org/custom")
	assert.NoError(t, ds[0].Check())

	ds, _ = datatype.Normalize(map[string]any{"base": "integer", "minimum": "abc"})
	assert.Error(t, ds[0].Check())

	_, err = datatype.Normalize(map[string]any{"base": "string", "length": -1})
	assert.ErrorIs(t, err, datatype.ErrInvalidDescriptor)
}
