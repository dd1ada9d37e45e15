package csvsrc_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/6a6d74/rdf-tabular/csvsrc"
)

func readAll(t *testing.T, data string, cfg csvsrc.Config) [][]string {
	t.Helper()
	r, err := csvsrc.New(strings.NewReader(data), cfg)
	require.NoError(t, err)
	var out [][]string
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestReader_Default(t *testing.T) {
	got := readAll(t, "\uFEFFa,b,c\r\n1,\"x, \"\"y\"\"\",3\n4,,6", csvsrc.DefaultConfig())
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", `x, "y"`, "3"}, {"4", "", "6"}}, got)
}

func TestReader_QuotedNewline(t *testing.T) {
	got := readAll(t, "a,\"line1\nline2\"\n", csvsrc.DefaultConfig())
	assert.Equal(t, [][]string{{"a", "line1\nline2"}}, got)
}

func TestReader_Dialect(t *testing.T) {
	cfg := csvsrc.Config{Delimiter: '\t', QuoteChar: '\'', DoubleQuote: false, LineTerminators: []string{"|"}}
	got := readAll(t, "a\t'b\\'c'|d\te|", cfg)
	assert.Equal(t, [][]string{{"a", "b'c"}, {"d", "e"}}, got)
}

func TestReader_NoQuoting(t *testing.T) {
	got := readAll(t, "\"a\",b\n", csvsrc.Config{Delimiter: ','})
	assert.Equal(t, [][]string{{"\"a\"", "b"}}, got)
}

func TestReader_Encoding(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("café,1\n")
	require.NoError(t, err)
	cfg := csvsrc.DefaultConfig()
	cfg.Encoding = "iso-8859-1"
	assert.Equal(t, [][]string{{"café", "1"}}, readAll(t, latin1, cfg))

	cfg.Encoding = "no-such-encoding"
	_, err = csvsrc.New(strings.NewReader(""), cfg)
	assert.ErrorIs(t, err, csvsrc.ErrUnknownEncoding)
	assert.True(t, csvsrc.ValidEncoding("utf-8"))
	assert.False(t, csvsrc.ValidEncoding("bogus"))
}

func TestRows(t *testing.T) {
	src := csvsrc.FromStrings("a,b\n1,2\n")
	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rec)
	rec, _ = src.Next()
	assert.Equal(t, []string{"1", "2"}, rec)
	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}
