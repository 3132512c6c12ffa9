package tui

import (
	"fmt"
	"io"

	"menu-admin/internal/format"
	"menu-admin/internal/model"
	"menu-admin/internal/tree"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// rowItem is a visible tree row in the list.
type rowItem struct {
	row tree.Row
}

func (i rowItem) FilterValue() string { return i.row.Name }

// sidebarEntry is a menu, or one of its root items when the menu is expanded.
type sidebarEntry struct {
	menuID   string
	item     *model.MenuItem
	name     string
	expanded bool
}

func (e sidebarEntry) FilterValue() string { return e.name }

func (e sidebarEntry) id() string {
	if e.item != nil {
		return e.item.ID
	}
	return e.menuID
}

// paneFocus is shared between the app and its delegates so rows know whether to
// draw the cursor and which item is open in the detail pane.
type paneFocus struct {
	focused  bool
	marked   string
	selected string
}

type treeDelegate struct {
	glyphs format.Glyphs
	focus  *paneFocus
}

func (d treeDelegate) Height() int                             { return 1 }
func (d treeDelegate) Spacing() int                            { return 0 }
func (d treeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d treeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(rowItem)
	if !ok || m.Width() < 4 {
		return
	}
	r := ri.row
	name := r.Name
	if r.IsMenu {
		name = styleHeading().Render(name)
	} else if d.focus != nil && r.ID == d.focus.marked {
		name = styleAccent().Render(name)
	}
	line := fmt.Sprintf("%s%s %s", styleMuted().Render(d.glyphs.Connector(r)), d.glyphs.Marker(r), name)
	renderLine(w, line, m.Width(), index == m.Index() && d.focus != nil && d.focus.focused)
}

type sidebarDelegate struct {
	glyphs format.Glyphs
	focus  *paneFocus
}

func (d sidebarDelegate) Height() int                             { return 1 }
func (d sidebarDelegate) Spacing() int                            { return 0 }
func (d sidebarDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d sidebarDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(sidebarEntry)
	if !ok || m.Width() < 4 {
		return
	}
	var line string
	if e.item == nil {
		marker := d.glyphs.Collapsed
		if e.expanded {
			marker = d.glyphs.Expanded
		}
		name := e.name
		if d.focus != nil && e.menuID == d.focus.selected {
			name = styleAccent().Render(name)
		}
		line = marker + " " + name
	} else {
		name := e.name
		if d.focus != nil && e.item.ID == d.focus.marked {
			name = styleAccent().Render(name)
		}
		line = "  " + d.glyphs.Leaf + " " + name
	}
	renderLine(w, line, m.Width(), index == m.Index() && d.focus != nil && d.focus.focused)
}

func renderLine(w io.Writer, line string, width int, cursor bool) {
	line = fitWidth(line, width)
	if cursor {
		line = styleSelected().Render(line)
	}
	fmt.Fprint(w, line)
}

func newList(delegate list.ItemDelegate) list.Model {
	l := list.New([]list.Item{}, delegate, 0, 0)
	// The app draws its own header and footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	return l
}

// selectByID moves the cursor to the entry with id; it reports false when absent.
func selectByID(l *list.Model, id string) bool {
	for i, it := range l.Items() {
		switch v := it.(type) {
		case rowItem:
			if v.row.ID == id {
				l.Select(i)
				return true
			}
		case sidebarEntry:
			if v.id() == id {
				l.Select(i)
				return true
			}
		}
	}
	return false
}
