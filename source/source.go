// Package source decodes metadata documents into JSON-shaped values
// (map[string]any, []any, string, int64, float64, bool, nil).
package source

import (
	"errors"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/6a6d74/rdf-tabular/internal/engine"
)

// Duplicate records an object key that occurred more than once. Path is the
// JSON Pointer of the object holding the key; Offset is the input offset of
// the repeated key, 0 when the driver does not track it.
type Duplicate struct {
	Path   string
	Key    string
	Offset int64
}

// Driver decodes one document format. The JSON driver is backed by
// goccy/go-json and the YAML driver by gopkg.in/yaml.v3; either may be
// replaced with Register.
type Driver interface {
	Decode(r io.Reader) (any, []Duplicate, error)
	Name() string
}

// ErrNotObject is returned when a document root is not an object.
var ErrNotObject = errors.New("source: document root is not an object")

var (
	driverMu sync.RWMutex
	drivers  = map[string]Driver{
		"json": jsonDriver{},
		"yaml": yamlDriver{},
	}
)

// Register replaces the driver for a format name ("json", "yaml"); nil
// values are ignored.
func Register(format string, d Driver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	drivers[format] = d
	driverMu.Unlock()
}

// FormatFor picks a format name from a document location. Anything that is
// not .yaml/.yml is treated as JSON.
func FormatFor(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// DecodeObject decodes r in the given format and requires an object root.
func DecodeObject(r io.Reader, format string) (map[string]any, []Duplicate, error) {
	driverMu.RLock()
	d, ok := drivers[format]
	driverMu.RUnlock()
	if !ok {
		d = jsonDriver{}
	}
	v, dups, err := d.Decode(r)
	if err != nil {
		return nil, dups, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, dups, ErrNotObject
	}
	return m, dups, nil
}

type jsonDriver struct{}

func (jsonDriver) Name() string { return "go-json" }

func (jsonDriver) Decode(r io.Reader) (any, []Duplicate, error) {
	v, iss, err := engine.Decode(engine.NewReader(r))
	var dups []Duplicate
	for _, it := range iss {
		if it.Code == "duplicate_key" {
			dups = append(dups, Duplicate{Path: it.Path, Key: it.Key, Offset: it.Offset})
		}
	}
	return v, dups, err
}
