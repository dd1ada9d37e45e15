// Command csvw converts CSV files described by CSVW metadata to RDF or
// JSON, and validates them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/6a6d74/rdf-tabular/csvsrc"
	"github.com/6a6d74/rdf-tabular/emit"
	"github.com/6a6d74/rdf-tabular/metadata"
	"github.com/6a6d74/rdf-tabular/rdf"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "csvw",
		Short:         "CSV on the Web processor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root)
	root.AddCommand(rdfCmd(), jsonCmd(), validateCmd())
	return root
}

func rdfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rdf INPUT",
		Short: "Write N-Triples for a CSV file or metadata document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			w := rdf.NewNTriplesWriter(cmd.OutOrStdout())
			if err := emit.Statements(cmd.Context(), r.md, r.opener, r.emitOptions(), w.WriteStatement); err != nil {
				return err
			}
			return w.Flush()
		},
	}
}

func jsonCmd() *cobra.Command {
	var atd bool
	cmd := &cobra.Command{
		Use:   "json INPUT",
		Short: "Write the JSON form of a CSV file or metadata document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			var out any
			if atd {
				out, err = emit.Annotated(cmd.Context(), r.md, r.opener)
			} else {
				out, err = emit.Hash(cmd.Context(), r.md, r.opener, r.emitOptions())
			}
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().BoolVar(&atd, "atd", false, "write the annotated tabular data model")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate INPUT",
		Short: "Check metadata and cell values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.ErrOrStderr()
			failed := false
			if err := r.md.Validate(); err != nil {
				printError(out, err)
				failed = true
			}
			v, err := emit.Annotated(cmd.Context(), r.md, r.opener)
			if err != nil {
				return err
			}
			for _, t := range annotatedTables(v) {
				for _, row := range t.Rows {
					for _, c := range row.Cells {
						for _, msg := range c.Errors {
							printWarning(out, c.ID, msg)
							failed = true
						}
					}
				}
			}
			if failed {
				return errValidation
			}
			printOK(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

func annotatedTables(v any) []*emit.AnnotatedTable {
	switch t := v.(type) {
	case *emit.AnnotatedTable:
		return []*emit.AnnotatedTable{t}
	case *emit.AnnotatedTableGroup:
		return t.Resources
	}
	return nil
}

type run struct {
	cfg    *Config
	log    *slog.Logger
	md     *metadata.Node
	opener emit.Opener
}

func (r *run) emitOptions() emit.Options {
	return emit.Options{
		Minimal: r.cfg.Minimal,
		NoProv:  r.cfg.NoProv,
		Strict:  r.cfg.Strict,
		Logger:  r.log,
	}
}

// prepare loads configuration and the metadata for input: a metadata
// document is opened directly, anything else is treated as tabular data
// and its metadata discovered.
func prepare(cmd *cobra.Command, input string) (*run, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := cfg.apply()
	ctx := cmd.Context()
	loader := metadata.FileLoader{}
	loc := location(input)
	opts := metadata.Options{Loader: loader, Logger: logger}

	r := &run{cfg: cfg, log: logger, opener: emit.LoaderOpener(loader)}
	if isMetadata(loc) {
		opts.Reason = "load metadata"
		r.md, err = metadata.Open(ctx, loc, opts)
		return r, err
	}

	d := discoverOptions(cfg, opts)
	src, closer, err := openData(ctx, loader, loc, d)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	md, err := metadata.ForInput(ctx, src, loc, d)
	if err != nil {
		return nil, err
	}
	if md.Kind() == metadata.KindTableGroup {
		if t := md.ForTable(loc); t != nil {
			md = t
		}
	}
	r.md = md
	return r, nil
}

// discoverOptions builds the discovery settings from the configuration.
func discoverOptions(cfg *Config, opts metadata.Options) metadata.DiscoverOptions {
	d := metadata.DiscoverOptions{Options: opts}
	if cfg.Metadata != "" {
		d.UserLocation = location(cfg.Metadata)
	}
	return d
}

// openData tokenizes the data at loc with the dialect of the user metadata
// when there is one.
func openData(ctx context.Context, loader metadata.Loader, loc string, d metadata.DiscoverOptions) (metadata.RowSource, io.Closer, error) {
	cfg := csvsrc.DefaultConfig()
	if d.UserLocation != "" {
		user, err := metadata.Open(ctx, d.UserLocation, d.Options)
		if err != nil {
			return nil, nil, err
		}
		cfg = user.Dialect().SourceConfig()
	}
	rc, err := loader.Load(ctx, loc)
	if err != nil {
		return nil, nil, err
	}
	src, err := csvsrc.New(rc, cfg)
	if err != nil {
		rc.Close()
		return nil, nil, err
	}
	return src, rc, nil
}

func isMetadata(loc string) bool {
	for _, ext := range []string{".json", ".jsonld", ".yaml", ".yml"} {
		if strings.HasSuffix(strings.ToLower(loc), ext) {
			return true
		}
	}
	return false
}

// location turns a local path into an absolute file URL so that relative
// references and provenance resolve to absolute IRIs.
func location(arg string) string {
	if u, err := url.Parse(arg); err == nil && len(u.Scheme) > 1 {
		return arg
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return arg
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
