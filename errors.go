package tabular

import (
	"errors"
	"strings"

	"github.com/6a6d74/rdf-tabular/i18n"
)

// Issue codes
const (
	CodeUnexpectedKey    = "unexpected_key"
	CodeRequired         = "required"
	CodeInvalidProperty  = "invalid_property"
	CodeInvalidInherited = "invalid_inherited"
	CodeUnknownType      = "unknown_type"
	CodeDuplicateKey     = "duplicate_key"
	CodeParseError       = "parse_error"
	CodeLoadError        = "load_error"
	CodeInvalidJSONLD    = "invalid_jsonld"
	CodeMergeConflict    = "merge_conflict"
	CodeUniqueness       = "uniqueness"
)

// Issue represents a single metadata problem.
type Issue struct {
	Path    string // JSON Pointer into the metadata document (for example: /tables/0/tableSchema).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries the values substituted into Message so callers can
	// re-render it with another translator.
	Params map[string]string
}

// NewIssue renders the message for code through the current translator.
func NewIssue(path, code string, params map[string]string) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, params), Params: params}
}

// Issues is a collection of metadata errors that implements error.
type Issues []Issue

// Error joins every message with a newline.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	return strings.Join(iss.Messages(), "\n")
}

// Messages returns the rendered messages in order.
func (iss Issues) Messages() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Message)
	}
	return out
}

// Rebase prefixes every path with prefix, used when folding a child's issues
// into its parent.
func (iss Issues) Rebase(prefix string) Issues {
	if len(iss) == 0 {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := it.Path
		if p == "" || p == "/" {
			p = prefix
		} else {
			p = prefix + p
		}
		it.Path = p
		out[i] = it
	}
	return out
}

// Err returns iss as an error, or nil when empty.
func (iss Issues) Err() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}
