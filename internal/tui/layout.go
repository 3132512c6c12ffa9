package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	sidebarWidth   = 28
	minTreeWidth   = 30
	minDetailWidth = 30
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines so
// panes line up when joined horizontally.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates with an ellipsis or pads with spaces to width columns.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w > width {
		if width == 1 {
			return xansi.Cut(s, 0, 1)
		}
		s = xansi.Cut(s, 0, width-1) + "…"
		w = xansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// paneWidths splits the terminal width between the sidebar (when open), the tree
// and the detail pane. Separators take one column each.
func paneWidths(total int, sidebar bool) (side, tree, detail int) {
	avail := total
	if sidebar {
		side = sidebarWidth
		avail -= side + 1
	}
	avail--
	tree = max(avail/2, minTreeWidth)
	detail = max(avail-tree, minDetailWidth)
	return side, tree, detail
}
