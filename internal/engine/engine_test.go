package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ObjectWithNumbers(t *testing.T) {
	v, iss, err := Decode(NewBytes([]byte(`{"a": 1, "b": 1.5, "c": [true, null, "x"], "d": {"e": "f"}}`)))
	require.NoError(t, err)
	assert.Empty(t, iss)
	m := v.(map[string]any)
	assert.Equal(t, int64(1), m["a"])
	assert.Equal(t, 1.5, m["b"])
	assert.Equal(t, []any{true, nil, "x"}, m["c"])
	assert.Equal(t, map[string]any{"e": "f"}, m["d"])
}

func TestDecode_DuplicateKeys(t *testing.T) {
	v, iss, err := Decode(NewBytes([]byte(`{"tables": [{"url": "a.csv", "url": "b.csv"}]}`)))
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "duplicate_key", iss[0].Code)
	assert.Equal(t, "/tables/0", iss[0].Path)
	assert.Equal(t, "url", iss[0].Key)
	// last occurrence wins
	tbl := v.(map[string]any)["tables"].([]any)[0].(map[string]any)
	assert.Equal(t, "b.csv", tbl["url"])
}

func TestDecode_Truncated(t *testing.T) {
	_, _, err := Decode(NewBytes([]byte(`{"a": [1, 2`)))
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Positive(t, se.Offset)
	assert.Contains(t, err.Error(), "at offset")
}

func TestDecode_DuplicateKeyOffset(t *testing.T) {
	doc := `{"url": "a.csv", "url": "b.csv"}`
	_, iss, err := Decode(NewBytes([]byte(doc)))
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Greater(t, iss[0].Offset, int64(1))
	assert.LessOrEqual(t, iss[0].Offset, int64(len(doc)))
}

type tokens struct {
	toks []Token
	pos  int64
}

func (s *tokens) NextToken() (Token, error) {
	if len(s.toks) == 0 {
		return Token{}, io.EOF
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	s.pos = tok.Offset
	return tok, nil
}

func (s *tokens) Location() int64 { return s.pos }

func TestDecode_UnexpectedTokenOffset(t *testing.T) {
	src := &tokens{toks: []Token{
		{Kind: KindBeginObject, Offset: 0},
		{Kind: KindString, String: "x", Offset: 7},
	}}
	_, _, err := Decode(src)
	require.ErrorIs(t, err, ErrUnexpectedToken)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, int64(7), se.Offset)
}

func TestDecode_EmptyInputKeepsEOF(t *testing.T) {
	_, _, err := Decode(&tokens{})
	assert.ErrorIs(t, err, io.EOF)
}

func TestEscapePointer(t *testing.T) {
	assert.Equal(t, "dc:title", EscapePointer("dc:title"))
	assert.Equal(t, "a~1b~0c", EscapePointer("a/b~c"))
}
