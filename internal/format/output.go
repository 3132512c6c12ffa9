package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Options control how a payload is written.
type Options struct {
	// Format is json (default), edn or text.
	Format string
	Pretty bool
	// Glyphs is used by the text format; the zero value means Unicode.
	Glyphs Glyphs
}

// Formats lists the accepted --format values.
func Formats() []string { return []string{"json", "edn", "text"} }

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	return WriteWith(w, v, Options{Format: format, Pretty: pretty})
}

func WriteWith(w io.Writer, v any, opts Options) error {
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "json":
		return WriteJSON(w, v, opts.Pretty)
	case "edn":
		return WriteEDN(w, v, opts.Pretty)
	case "text":
		g := opts.Glyphs
		if g.Name == "" {
			g = UnicodeGlyphs
		}
		return WriteText(w, v, g)
	default:
		return fmt.Errorf("unknown format: %s (want one of %s)", opts.Format, strings.Join(Formats(), ", "))
	}
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
