package tabular_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/6a6d74/rdf-tabular"
)

func TestNewIssue_RendersMessage(t *testing.T) {
	it := tabular.NewIssue("/tables/0", tabular.CodeRequired, map[string]string{"type": "Table", "keys": `["url"]`})
	assert.Equal(t, "/tables/0", it.Path)
	assert.Equal(t, tabular.CodeRequired, it.Code)
	assert.Equal(t, `Table missing required keys: ["url"]`, it.Message)
	assert.Equal(t, "Table", it.Params["type"])
}

func TestIssues_ErrorAndErr(t *testing.T) {
	var empty tabular.Issues
	assert.NoError(t, empty.Err())
	assert.Equal(t, "", empty.Error())

	iss := tabular.AppendIssues(nil,
		tabular.Issue{Code: "a", Message: "first"},
		tabular.Issue{Code: "b", Message: "second"},
	)
	require.Error(t, iss.Err())
	assert.Equal(t, "first\nsecond", iss.Error())
	assert.Equal(t, []string{"first", "second"}, iss.Messages())
}

func TestIssues_Rebase(t *testing.T) {
	iss := tabular.Issues{{Path: ""}, {Path: "/"}, {Path: "/name"}}
	got := iss.Rebase("/tableSchema/columns/1")
	assert.Equal(t, "/tableSchema/columns/1", got[0].Path)
	assert.Equal(t, "/tableSchema/columns/1", got[1].Path)
	assert.Equal(t, "/tableSchema/columns/1/name", got[2].Path)
	// the receiver is left untouched
	assert.Equal(t, "/name", iss[2].Path)
}

func TestAsIssues_Wrapped(t *testing.T) {
	err := fmt.Errorf("open: %w", tabular.Issues{{Code: tabular.CodeLoadError, Message: "boom"}})
	iss, ok := tabular.AsIssues(err)
	require.True(t, ok)
	assert.Len(t, iss, 1)
	assert.True(t, tabular.HasCode(err, tabular.CodeLoadError))
	assert.False(t, tabular.HasCode(err, tabular.CodeParseError))

	_, ok = tabular.AsIssues(errors.New("plain"))
	assert.False(t, ok)
	_, ok = tabular.AsIssues(nil)
	assert.False(t, ok)
}
