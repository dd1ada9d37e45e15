package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	tabular "github.com/6a6d74/rdf-tabular"
	"github.com/6a6d74/rdf-tabular/source"
)

// Loader fetches documents by location. Load blocks until the document is
// available or fails.
type Loader interface {
	Load(ctx context.Context, location string) (io.ReadCloser, error)
}

// ErrNotFound is returned by loaders for a missing document.
var ErrNotFound = errors.New("metadata: document not found")

// FileLoader reads plain paths and file: URLs from the local filesystem.
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := location
	if strings.HasPrefix(location, "file:") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, err
		}
		p = u.Path
	} else if i := strings.Index(location, "://"); i > 0 {
		return nil, fmt.Errorf("metadata: unsupported scheme in %q", location)
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return f, err
}

// MapLoader serves documents from memory, keyed by location.
type MapLoader map[string]string

func (m MapLoader) Load(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := m[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return io.NopCloser(bytes.NewReader([]byte(s))), nil
}

// Open loads and constructs the metadata document at location. The location
// becomes the base and the sole filename. YAML documents are recognised by
// their .yaml or .yml extension.
func Open(ctx context.Context, location string, opts Options) (*Node, error) {
	if opts.Loader == nil {
		opts.Loader = inheritedLoader(opts.Parent)
	}
	rc, err := opts.Loader.Load(ctx, location)
	if err != nil {
		return nil, loadIssue(location, err)
	}
	defer rc.Close()
	raw, dups, err := source.DecodeObject(rc, source.FormatFor(location))
	if err != nil {
		return nil, loadIssue(location, err)
	}
	if len(dups) > 0 {
		l := opts.Logger
		if l == nil && opts.Parent != nil {
			l = opts.Parent.log()
		}
		if l != nil {
			for _, d := range dups {
				l.Warn("duplicate key in metadata", "location", location, "path", d.Path, "key", d.Key, "offset", d.Offset)
			}
		}
	}
	opts.Base = location
	opts.Filenames = []string{location}
	n, err := New(ctx, raw, opts)
	if n != nil {
		for _, d := range dups {
			n.issues = append(n.issues, tabular.NewIssue(d.Path, tabular.CodeDuplicateKey, map[string]string{"key": d.Key}))
		}
	}
	return n, err
}

func loadIssue(location string, err error) error {
	it := tabular.NewIssue("", tabular.CodeLoadError, map[string]string{"location": location, "detail": err.Error()})
	it.Cause = err
	return tabular.Issues{it}
}
