package tui

import (
	"fmt"
	"strings"

	"menu-admin/internal/docs"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	body := m.frame
	if m.busy == "" {
		body = m.renderBody()
	} else if body == "" {
		body = m.renderHeader() + "\n" + lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, styleMuted().Render(m.busy+"…"))
	}
	return body + "\n" + m.renderFooter()
}

func (m appModel) renderHeader() string {
	parts := []string{styleHeading().Render("menu-admin")}
	if m.apiURL != "" {
		parts = append(parts, styleMuted().Render(m.apiURL))
	}
	if m.busy == "" {
		if menu, ok := m.sess.CurrentMenu(); ok {
			parts = append(parts, "menu: "+menu.Name)
		}
	}
	return fitWidth(strings.Join(parts, "  "), m.width)
}

func (m appModel) renderFooter() string {
	switch {
	case m.busy != "":
		return fitWidth(styleMuted().Render(m.busy+"…"), m.width)
	case m.status != "" && m.statusErr:
		return fitWidth(styleError().Render(m.status), m.width)
	case m.status != "":
		return fitWidth(m.status, m.width)
	}
	hints := "tab: focus  enter: toggle/select  a: add  d: delete  s: save  e/E: expand/collapse all  r: reload  b: sidebar  ?: help  q: quit"
	if m.focus == focusDetail {
		hints = "enter: save  esc: back  tab: focus"
	}
	return fitWidth(styleMuted().Render(hints), m.width)
}

func (m appModel) renderBody() string {
	h := m.bodyHeight()
	var panes string
	switch m.overlay {
	case overlayAdd:
		panes = m.place(m.renderAddModal())
	case overlayConfirmDelete:
		body := fmt.Sprintf("Delete %q and all of its children?", m.pendingDelete.Name)
		panes = m.place(renderConfirmModal(m.width, "Delete item", body, "Delete", "Cancel", m.confirm))
	case overlayHelp:
		panes = m.place(m.renderHelp())
	default:
		panes = m.renderPanes(h)
	}
	return m.renderHeader() + "\n" + panes
}

func (m appModel) place(box string) string {
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) renderPanes(h int) string {
	sideW, treeW, detailW := paneWidths(m.width, m.sess.SidebarOpen())
	sep := styleMuted().Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))

	var cols []string
	if m.sess.SidebarOpen() {
		cols = append(cols, normalizePane(m.renderSidebar(), sideW, h), sep)
	}
	cols = append(cols,
		normalizePane(m.renderTree(), treeW, h), sep,
		normalizePane(m.renderDetail(detailW), detailW, h),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m appModel) paneTitle(title string, f focusArea) string {
	if m.focus == f {
		return styleAccent().Render(title)
	}
	return styleHeading().Render(title)
}

func (m appModel) renderSidebar() string {
	head := m.paneTitle("Menus", focusSidebar)
	if len(m.sidebarList.Items()) == 0 {
		return head + "\n\n" + styleMuted().Render("No menus.")
	}
	return head + "\n\n" + m.sidebarList.View()
}

func (m appModel) renderTree() string {
	head := m.paneTitle("Menu Items", focusTree)
	st := m.sess.State()
	switch {
	case st.Loading:
		return head + "\n\n" + styleMuted().Render("Loading menus…")
	case st.Error != "":
		return head + "\n\n" + styleError().Render("Error: "+st.Error) + "\n\n" + styleMuted().Render("r: retry")
	case len(st.Menus) == 0:
		return head + "\n\n" + styleMuted().Render("No menus yet. Create one with: menu-admin menus create --name <name>")
	case m.sess.SelectedMenuID() == "":
		return head + "\n\n" + styleMuted().Render("Select a menu (b: sidebar).")
	}
	if len(m.treeList.Items()) == 0 {
		return head + "\n\n" + styleMuted().Render("Selected menu no longer exists.")
	}
	return head + "\n\n" + m.treeList.View()
}

func (m appModel) renderDetail(width int) string {
	head := m.paneTitle("Details", focusDetail)
	it, ok := m.sess.SelectedItem()
	if !ok {
		return head + "\n\n" + styleMuted().Render("Select an item to edit it.")
	}

	label := func(s string) string { return styleMuted().Render(fmt.Sprintf("%-8s", s)) }
	name := m.nameInput.View()
	if m.focus != focusDetail {
		name = m.nameInput.Value()
	}
	lines := []string{
		head,
		"",
		label("MenuID") + " " + it.MenuID,
		label("Depth") + " " + fmt.Sprint(it.Depth),
		label("Parent") + " " + m.sess.ParentName(it.ParentID),
		label("Name") + " " + name,
		"",
		styleMuted().Width(width).Render("s: save (enter in this pane)"),
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderAddModal() string {
	under := "(top level)"
	if p, ok := m.sess.AddParent(); ok {
		under = p.Name
	}
	content := strings.Join([]string{
		styleMuted().Render("Under: ") + under,
		"",
		m.addInput.View(),
		"",
		styleMuted().Render("enter: add   esc: cancel"),
	}, "\n")
	return renderModalBox(m.width, "Add item", content)
}

func (m appModel) renderHelp() string {
	md, _ := docs.Get("keys")
	out, err := docs.Render(md, modalWidth(m.width)-4, m.mdStyle)
	if err != nil {
		m.log.Debug("help render failed; showing raw markdown")
	}
	return renderModalBox(m.width, "Help", out+"\n\n"+styleMuted().Render("esc: close"))
}
