package docs

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	renderersMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided since it can block on
	// terminal queries.
	renderers = map[string]*glamour.TermRenderer{}
)

// Render formats markdown for the terminal with the given glamour style ("dark",
// "light", "notty"). On failure the markdown is returned unchanged with the error.
func Render(md string, width int, style string) (string, error) {
	md = strings.TrimSpace(md)
	if md == "" {
		return "", nil
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = Style()
	}

	key := style + ":" + strconv.Itoa(width)
	renderersMu.Lock()
	r, ok := renderers[key]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			renderersMu.Unlock()
			return md, err
		}
		renderers[key] = r
	}
	renderersMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md, err
	}
	return strings.TrimRight(out, "\n"), nil
}

// Style picks a glamour style: MENU_ADMIN_MD_STYLE, then COLORFGBG, then the
// terminal background as lipgloss sees it.
func Style() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("MENU_ADMIN_MD_STYLE"))); v {
	case "dark", "light", "notty":
		return v
	}
	// COLORFGBG is "fg;bg"; xterm palette entries 7-15 are light.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
