package source_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/6a6d74/rdf-tabular/source"
)

func TestFormatFor(t *testing.T) {
	assert.Equal(t, "yaml", source.FormatFor("tree-ops.csv-metadata.yaml"))
	assert.Equal(t, "yaml", source.FormatFor("http://example.org/m.YML?x=1"))
	assert.Equal(t, "json", source.FormatFor("tree-ops.csv-metadata.json"))
	assert.Equal(t, "json", source.FormatFor("metadata"))
}

func TestDecodeObject_JSONDuplicates(t *testing.T) {
	m, dups, err := source.DecodeObject(strings.NewReader(`{"url": "a.csv", "url": "b.csv"}`), "json")
	require.NoError(t, err)
	assert.Equal(t, "b.csv", m["url"])
	require.Len(t, dups, 1)
	assert.Equal(t, "", dups[0].Path)
	assert.Equal(t, "url", dups[0].Key)
	assert.Greater(t, dups[0].Offset, int64(1))
}

func TestDecodeObject_YAMLMatchesJSONShapes(t *testing.T) {
	doc := "url: tree-ops.csv\ntableSchema:\n  columns:\n    - name: GID\n      required: true\n  headerRowCount: 2\n"
	m, _, err := source.DecodeObject(strings.NewReader(doc), "yaml")
	require.NoError(t, err)
	schema := m["tableSchema"].(map[string]any)
	assert.Equal(t, int64(2), schema["headerRowCount"])
	cols := schema["columns"].([]any)
	assert.Equal(t, map[string]any{"name": "GID", "required": true}, cols[0])
}

func TestDecodeObject_RequiresObject(t *testing.T) {
	_, _, err := source.DecodeObject(strings.NewReader(`[1, 2]`), "json")
	assert.ErrorIs(t, err, source.ErrNotObject)
}
