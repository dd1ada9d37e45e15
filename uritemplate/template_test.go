package uritemplate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/6a6d74/rdf-tabular/uritemplate"
)

var rfcVars = map[string]any{
	"var":   "value",
	"hello": "Hello World!",
	"path":  "/foo/bar",
	"empty": "",
	"list":  []string{"red", "green", "blue"},
	"x":     "1024",
	"y":     "768",
}

func TestExpand_RFCExamples(t *testing.T) {
	cases := map[string]string{
		"{var}":          "value",
		"{hello}":        "Hello%20World%21",
		"{+hello}":       "Hello%20World!",
		"{+path}/here":   "/foo/bar/here",
		"{#var}":         "#value",
		"{#hello}":       "#Hello%20World!",
		"{x,y}":          "1024,768",
		"{.var}":         ".value",
		"{/var,x}/here":  "/value/1024/here",
		"{;x,y,empty}":   ";x=1024;y=768;empty",
		"{?x,y,empty}":   "?x=1024&y=768&empty=",
		"?fixed=yes{&x}": "?fixed=yes&x=1024",
		"{var:3}":        "val",
		"{list}":         "red,green,blue",
		"{list*}":        "red,green,blue",
		"{/list*}":       "/red/green/blue",
		"{?list*}":       "?list=red&list=green&list=blue",
		"{undef}":        "",
		"X{.undef}":      "X",
	}
	for tmpl, want := range cases {
		got, err := uritemplate.Expand(tmpl, rfcVars)
		require.NoError(t, err, tmpl)
		assert.Equal(t, want, got, tmpl)
	}
}

func TestExpand_CSVWVariables(t *testing.T) {
	got, err := uritemplate.Expand("#row.{_row}", map[string]any{"_row": "3"})
	require.NoError(t, err)
	assert.Equal(t, "#row.3", got)

	got, err = uritemplate.Expand("{#_name}", map[string]any{"_name": "on street"})
	require.NoError(t, err)
	assert.Equal(t, "#on%20street", got)
}

func TestParse_Malformed(t *testing.T) {
	for _, bad := range []string{"{var", "{a b}"} {
		_, err := uritemplate.Parse(bad)
		assert.ErrorIs(t, err, uritemplate.ErrMalformed, bad)
	}
}

func TestExpand_NullAndEmptyList(t *testing.T) {
	vars := map[string]any{"a": nil, "b": []string{}, "c": "x"}
	got, err := uritemplate.Expand("http://example.org/{a}{/b}{?c}", vars)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/?c=x", got)
}

func TestParse_Raw(t *testing.T) {
	tmpl, err := uritemplate.Parse("#row-{_row}")
	require.NoError(t, err)
	assert.Equal(t, "#row-{_row}", tmpl.Raw())

	got, err := tmpl.Expand(map[string]any{"_row": 7})
	require.NoError(t, err)
	assert.Equal(t, "#row-7", got)
}
