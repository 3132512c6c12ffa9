package format

import (
	"strings"

	"menu-admin/internal/tree"
)

// Glyphs are the affordances used to draw a menu tree. Terminals and fonts that
// don't render box drawing cleanly can use the ASCII set.
type Glyphs struct {
	Name string

	Branch    string // "├─ "
	LastChild string // "└─ "
	Pipe      string // "│  "
	Blank     string

	Collapsed string
	Expanded  string
	Leaf      string
}

var (
	UnicodeGlyphs = Glyphs{
		Name:      "unicode",
		Branch:    "├─ ",
		LastChild: "└─ ",
		Pipe:      "│  ",
		Blank:     "   ",
		Collapsed: "▸",
		Expanded:  "▾",
		Leaf:      "•",
	}
	ASCIIGlyphs = Glyphs{
		Name:      "ascii",
		Branch:    "|- ",
		LastChild: "`- ",
		Pipe:      "|  ",
		Blank:     "   ",
		Collapsed: ">",
		Expanded:  "v",
		Leaf:      "*",
	}
)

// GlyphsNamed resolves "unicode" (or "utf8", or empty) and "ascii".
func GlyphsNamed(name string) (Glyphs, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode", "utf8":
		return UnicodeGlyphs, true
	case "ascii":
		return ASCIIGlyphs, true
	default:
		return UnicodeGlyphs, false
	}
}

// Connector returns the indentation and branch drawn before a row's marker.
// The menu row has none.
func (g Glyphs) Connector(r tree.Row) string {
	if r.IsMenu || r.Depth == 0 {
		return ""
	}
	var b strings.Builder
	for _, cont := range r.Guides {
		if cont {
			b.WriteString(g.Pipe)
		} else {
			b.WriteString(g.Blank)
		}
	}
	if r.IsLast {
		b.WriteString(g.LastChild)
	} else {
		b.WriteString(g.Branch)
	}
	return b.String()
}

// Marker is the chevron of a toggleable row, or the leaf bullet.
func (g Glyphs) Marker(r tree.Row) string {
	switch {
	case !r.Toggleable:
		return g.Leaf
	case r.Expanded:
		return g.Expanded
	default:
		return g.Collapsed
	}
}
