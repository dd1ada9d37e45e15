// Package csvsrc tokenizes delimited text into raw rows for the metadata
// row builder.
package csvsrc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Config mirrors the dialect properties that affect tokenization.
type Config struct {
	Delimiter rune // default ','
	QuoteChar rune // 0 disables quoting
	// DoubleQuote selects "" as the quote escape; otherwise '\' escapes.
	DoubleQuote bool
	Encoding    string // WHATWG label, default utf-8
	// LineTerminators ends records on any of the given strings; empty means
	// CRLF, LF or CR.
	LineTerminators []string
}

// DefaultConfig is RFC 4180 CSV.
func DefaultConfig() Config {
	return Config{Delimiter: ',', QuoteChar: '"', DoubleQuote: true, Encoding: "utf-8"}
}

// ErrUnknownEncoding is returned for encoding labels x/text does not know.
var ErrUnknownEncoding = errors.New("csvsrc: unknown encoding")

// Reader yields one record per Next call.
type Reader struct {
	br  *bufio.Reader
	cfg Config
	bom bool
}

// New wraps r, decoding from cfg.Encoding to UTF-8.
func New(r io.Reader, cfg Config) (*Reader, error) {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}
	enc := strings.ToLower(strings.TrimSpace(cfg.Encoding))
	if enc != "" && enc != "utf-8" && enc != "utf8" {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, cfg.Encoding)
		}
		r = e.NewDecoder().Reader(r)
	}
	return &Reader{br: bufio.NewReader(r), cfg: cfg, bom: true}, nil
}

// ValidEncoding reports whether label names an encoding the reader can decode.
func ValidEncoding(label string) bool {
	_, err := htmlindex.Get(label)
	return err == nil
}

// Next returns the next record or io.EOF.
func (r *Reader) Next() ([]string, error) {
	if r.bom {
		r.bom = false
		if c, _, err := r.br.ReadRune(); err == nil && c != '\uFEFF' {
			_ = r.br.UnreadRune()
		}
	}
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
		started  bool
	)
	quote := r.cfg.QuoteChar
	for {
		c, _, err := r.br.ReadRune()
		if err == io.EOF {
			if !started {
				return nil, io.EOF
			}
			return append(fields, field.String()), nil
		}
		if err != nil {
			return nil, err
		}
		started = true

		if inQuotes {
			switch {
			case c == quote && r.cfg.DoubleQuote:
				next, _, perr := r.br.ReadRune()
				if perr == nil && next == quote {
					field.WriteRune(quote)
					continue
				}
				if perr == nil {
					_ = r.br.UnreadRune()
				}
				inQuotes = false
			case c == quote:
				inQuotes = false
			case c == '\\' && !r.cfg.DoubleQuote:
				next, _, perr := r.br.ReadRune()
				if perr != nil {
					field.WriteRune(c)
					continue
				}
				field.WriteRune(next)
			default:
				field.WriteRune(c)
			}
			continue
		}

		switch {
		case quote != 0 && c == quote:
			inQuotes = true
		case c == r.cfg.Delimiter:
			fields = append(fields, field.String())
			field.Reset()
		case len(r.cfg.LineTerminators) == 0 && (c == '\n' || c == '\r'):
			if c == '\r' {
				if next, _, perr := r.br.ReadRune(); perr == nil && next != '\n' {
					_ = r.br.UnreadRune()
				}
			}
			return append(fields, field.String()), nil
		default:
			field.WriteRune(c)
			if s, ok := r.trimTerminator(field.String()); ok {
				return append(fields, s), nil
			}
		}
	}
}

func (r *Reader) trimTerminator(s string) (string, bool) {
	for _, t := range r.cfg.LineTerminators {
		if t != "" && strings.HasSuffix(s, t) {
			return strings.TrimSuffix(s, t), true
		}
	}
	return s, false
}

// Rows is an in-memory record source.
type Rows struct {
	rows [][]string
	i    int
}

// FromRows returns a source yielding copies of rows.
func FromRows(rows [][]string) *Rows { return &Rows{rows: rows} }

// FromStrings tokenizes each line of data with the default config.
func FromStrings(data string) *Rows {
	r, _ := New(strings.NewReader(data), DefaultConfig())
	var rows [][]string
	for {
		rec, err := r.Next()
		if err != nil {
			break
		}
		rows = append(rows, rec)
	}
	return FromRows(rows)
}

// Next returns the next record or io.EOF.
func (s *Rows) Next() ([]string, error) {
	if s.i >= len(s.rows) {
		return nil, io.EOF
	}
	row := append([]string(nil), s.rows[s.i]...)
	s.i++
	return row, nil
}
