package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Key     string
	Message string
	// Offset is the input offset of the reported token.
	Offset int64
}

// ErrUnexpectedToken is returned when the token stream is not well formed.
var ErrUnexpectedToken = errors.New("engine: unexpected token")

// SyntaxError carries the input offset at which decoding failed.
type SyntaxError struct {
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("%v at offset %d", e.Err, e.Offset) }

func (e *SyntaxError) Unwrap() error { return e.Err }

// Decode builds a JSON-shaped value from src. Object keys that occur more
// than once are reported as duplicate_key issues; the last occurrence wins.
// Integral numbers decode to int64, other numbers to float64.
func Decode(src TokenSource) (any, []SimpleIssue, error) {
	d := &decoder{src: src}
	tok, err := src.NextToken()
	if err != nil {
		return nil, nil, d.locate(err)
	}
	v, err := d.value(tok, "")
	if err != nil {
		return nil, d.issues, d.locate(err)
	}
	return v, d.issues, nil
}

// locate attaches the current input offset to err unless it already has one.
func (d *decoder) locate(err error) error {
	var se *SyntaxError
	if errors.As(err, &se) {
		return err
	}
	return &SyntaxError{Offset: d.src.Location(), Err: err}
}

type decoder struct {
	src    TokenSource
	issues []SimpleIssue
}

func (d *decoder) value(tok Token, path string) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return d.object(path)
	case KindBeginArray:
		return d.array(path)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return convertNumber(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, &SyntaxError{Offset: tok.Offset, Err: ErrUnexpectedToken}
	}
}

func (d *decoder) object(path string) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, eof(err)
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, &SyntaxError{Offset: tok.Offset, Err: ErrUnexpectedToken}
		}
		key := tok.String
		if _, dup := m[key]; dup {
			d.issues = append(d.issues, SimpleIssue{
				Code:    "duplicate_key",
				Path:    path,
				Key:     key,
				Message: "key '" + key + "' duplicated",
				Offset:  tok.Offset,
			})
		}
		vt, err := d.src.NextToken()
		if err != nil {
			return nil, eof(err)
		}
		v, err := d.value(vt, path+"/"+EscapePointer(key))
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
}

func (d *decoder) array(path string) (any, error) {
	arr := []any{}
	for i := 0; ; i++ {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, eof(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.value(tok, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func eof(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func convertNumber(s string) (any, error) {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
	}
	return strconv.ParseFloat(s, 64)
}

// EscapePointer escapes a key for use as a JSON Pointer segment.
func EscapePointer(key string) string {
	if !strings.ContainsAny(key, "~/") {
		return key
	}
	key = strings.ReplaceAll(key, "~", "~0")
	return strings.ReplaceAll(key, "/", "~1")
}
