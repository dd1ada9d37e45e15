package vocab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/6a6d74/rdf-tabular/vocab"
)

func TestFromValue(t *testing.T) {
	c, err := vocab.FromValue(vocab.ContextURL, "http://example.org/dir/m.json")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/dir/m.json", c.Base())
	assert.Equal(t, "und", c.DefaultLanguage())

	c, err = vocab.FromValue([]any{vocab.ContextURL, map[string]any{"@base": "sub/", "@language": "en"}}, "http://example.org/dir/m.json")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/dir/sub/", c.Base())
	assert.Equal(t, "en", c.DefaultLanguage())
	assert.Equal(t, "http://example.org/dir/sub/a.csv", c.Resolve("a.csv"))

	_, err = vocab.FromValue("http://example.org/other", "")
	assert.ErrorIs(t, err, vocab.ErrInvalidContext)
	_, err = vocab.FromValue([]any{vocab.ContextURL, map[string]any{"@vocab": "x"}}, "")
	assert.ErrorIs(t, err, vocab.ErrInvalidContext)
}

func TestExpandIRI(t *testing.T) {
	c, err := vocab.New("http://example.org/base/", "")
	require.NoError(t, err)
	assert.Equal(t, "http://purl.org/dc/terms/title", c.ExpandIRI("dc:title", true))
	assert.Equal(t, vocab.CSVW+"Table", c.ExpandIRI("Table", true))
	assert.Equal(t, "http://example.org/base/x", c.ExpandIRI("x", false))
	assert.Equal(t, "http://example.com/p", c.ExpandIRI("http://example.com/p", true))
	assert.Equal(t, "unknown:thing", c.ExpandIRI("unknown:thing", true))
}

func TestWithBaseDoesNotMutate(t *testing.T) {
	c, _ := vocab.New("http://example.org/a/", "de")
	d := c.WithBase("http://example.org/b/")
	assert.Equal(t, "http://example.org/a/", c.Base())
	assert.Equal(t, "http://example.org/b/", d.Base())
	assert.Equal(t, "de", d.DefaultLanguage())
}

func TestLanguage(t *testing.T) {
	for _, ok := range []string{"en", "en-US", "und", "de-CH-1996"} {
		assert.True(t, vocab.ValidLanguage(ok), ok)
	}
	for _, bad := range []string{"", "1", "foo-bar-baz-bat-bat", "en_US!"} {
		assert.False(t, vocab.ValidLanguage(bad), bad)
	}
	assert.True(t, vocab.RefinesLanguage("en-US", "en"))
	assert.True(t, vocab.RefinesLanguage("EN", "en"))
	assert.False(t, vocab.RefinesLanguage("de", "en"))
	assert.False(t, vocab.RefinesLanguage("english", "en"))
}
