package metadata

import (
	"context"

	"github.com/6a6d74/rdf-tabular/vocab"
)

// DiscoverOptions select the metadata sources consulted for a tabular file.
type DiscoverOptions struct {
	Options
	// User is metadata supplied by the caller; it takes precedence over
	// everything found.
	User *Node
	// UserLocation loads user metadata from a location when User is nil.
	UserLocation string
	// Link is the target of a describedby link reported for the file.
	Link string
	// NoFound disables the link, sidecar and directory lookups.
	NoFound bool
}

// ForInput assembles the metadata for the tabular file at location. User
// metadata wins, then a describedby link target, then
// "<location>-metadata.json", then "metadata.json" in the same directory.
// The embedded metadata read from src is merged underneath all of them. src
// is consumed up to the end of the header rows.
func ForInput(ctx context.Context, src RowSource, location string, opts DiscoverOptions) (*Node, error) {
	logger := opts.Logger
	user := opts.User
	if user == nil && opts.UserLocation != "" {
		o := opts.Options
		o.Reason = "load user metadata"
		u, err := Open(ctx, opts.UserLocation, o)
		if err != nil {
			return nil, err
		}
		user = u
	}

	var found []*Node
	if !opts.NoFound {
		base, _ := vocab.New(location, "")
		var candidates []string
		if opts.Link != "" {
			candidates = append(candidates, base.Resolve(opts.Link))
		}
		if location != "" {
			candidates = append(candidates, location+"-metadata.json", base.Resolve("metadata.json"))
		}
		for _, loc := range candidates {
			o := opts.Options
			o.Reason = "load found metadata"
			md, err := Open(ctx, loc, o)
			if err != nil {
				if logger != nil {
					logger.Debug("no metadata", "location", loc, "error", err)
				}
				continue
			}
			found = append(found, md)
		}
	}

	var parse *Node
	all := found
	if user != nil {
		all = append([]*Node{user}, found...)
	}
	if len(all) > 0 {
		m, err := all[0].Merge(all[1:]...)
		if err != nil {
			return nil, err
		}
		parse = m
		if parse.kind == KindTableGroup {
			if t := parse.ForTable(location); t != nil {
				parse = t
			}
		}
	} else {
		empty, err := New(ctx, map[string]any{}, Options{Type: KindTable, Logger: logger, Loader: opts.Loader})
		if err != nil {
			return nil, err
		}
		parse = empty
	}

	embedded, err := parse.EmbeddedMetadata(ctx, src, location)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if embedded, err = user.Merge(embedded); err != nil {
			return nil, err
		}
	}
	md, err := embedded.Merge(found...)
	if err != nil {
		return nil, err
	}
	if t := md.findTable(location); t != nil {
		t.embedded = true
	} else if md.kind == KindTable {
		md.embedded = true
	}
	return md, nil
}

// WithEmbedded merges the embedded metadata of src, the table's data, into
// a copy of the receiver, as when the data is read with the receiver as
// user metadata and discovery disabled. Header titles become the titles
// and names of columns the receiver leaves undescribed. The receiver is left
// untouched; the returned Table sits in a copy of its group.
func (n *Node) WithEmbedded(ctx context.Context, src RowSource) (*Node, error) {
	if n.kind != KindTable {
		return nil, ErrNotTable
	}
	if n.embedded {
		return n, nil
	}
	user := promote(n).findTable(n.url)
	if user.schema == nil {
		if s := user.TableSchema(); s != nil {
			user.schema = s.clone(user)
		}
	}
	md, err := ForInput(ctx, src, n.url, DiscoverOptions{
		Options: Options{Logger: n.log(), Loader: inheritedLoader(n)},
		User:    user,
		NoFound: true,
	})
	if err != nil {
		return nil, err
	}
	if md.kind == KindTableGroup {
		if t := md.ForTable(n.url); t != nil {
			return t, nil
		}
	}
	return md, nil
}
