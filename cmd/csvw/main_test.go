package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleMetadata = `{
  "@context": "http://www.w3.org/ns/csvw",
  "url": "people.csv",
  "tableSchema": {
    "aboutUrl": "#p{id}",
    "columns": [
      {"name": "id", "datatype": "integer"},
      {"name": "name"}
    ]
  }
}`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--no-color"))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "http://example.org/a.csv", location("http://example.org/a.csv"))

	got := location("a.csv")
	assert.True(t, strings.HasPrefix(got, "file:///"), got)
	assert.True(t, strings.HasSuffix(got, "/a.csv"), got)
}

func TestIsMetadata(t *testing.T) {
	assert.True(t, isMetadata("file:///x/meta.json"))
	assert.True(t, isMetadata("file:///x/META.YML"))
	assert.False(t, isMetadata("file:///x/data.csv"))
}

func TestRDFCommand_Minimal(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"people.json": peopleMetadata,
		"people.csv":  "id,name\n1,Alice\n",
	})
	out, _, err := execute(t, "rdf", filepath.Join(dir, "people.json"), "--minimal")
	require.NoError(t, err)

	base := location(filepath.Join(dir, "people.csv"))
	assert.Contains(t, out, "<"+base+"#p1> <"+base+"#id> \"1\"^^<http://www.w3.org/2001/XMLSchema#integer> .")
	assert.Contains(t, out, "<"+base+"#p1> <"+base+"#name> \"Alice\" .")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestRDFCommand_DiscoversSidecar(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"people.csv-metadata.json": peopleMetadata,
		"people.csv":               "id,name\n7,Bob\n",
	})
	out, _, err := execute(t, "rdf", filepath.Join(dir, "people.csv"), "--minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "#p7>")
}

func TestJSONCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"people.json": peopleMetadata,
		"people.csv":  "id,name\n1,Alice\n",
	})
	out, _, err := execute(t, "json", filepath.Join(dir, "people.json"), "--no-prov")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Alice"`)
	assert.Contains(t, out, `"id": 1`)
	assert.NotContains(t, out, "describedBy")

	out, _, err = execute(t, "json", filepath.Join(dir, "people.json"), "--atd")
	require.NoError(t, err)
	assert.Contains(t, out, `"@type": "AnnotatedTable"`)
}

func TestValidateCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"people.json": peopleMetadata,
		"people.csv":  "id,name\n1,Alice\n",
		"bad.json":    strings.Replace(peopleMetadata, "people.csv", "bad.csv", 1),
		"bad.csv":     "id,name\nx,Bob\n",
	})

	out, _, err := execute(t, "validate", filepath.Join(dir, "people.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok ")

	_, errOut, err := execute(t, "validate", filepath.Join(dir, "bad.json"))
	require.ErrorIs(t, err, errValidation)
	assert.Contains(t, errOut, "#cell=2,1")
	assert.Contains(t, errOut, "x is not a valid integer")
}

func TestValidateCommand_MetadataErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"meta.json": `{"@context": "http://www.w3.org/ns/csvw", "url": "d.csv", "tableSchema": {"columns": []}, "foo": 1}`,
		"d.csv":     "a\n1\n",
	})
	_, errOut, err := execute(t, "validate", filepath.Join(dir, "meta.json"))
	require.ErrorIs(t, err, errValidation)
	assert.Contains(t, errOut, "unexpected_key")
}
