package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case opDoneMsg:
		return m.finish(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy != "" {
			return m, nil
		}
		switch m.overlay {
		case overlayAdd:
			return m.updateAdd(msg)
		case overlayConfirmDelete:
			return m.updateConfirm(msg)
		case overlayHelp:
			return m.updateHelp(msg)
		}
		if m.focus == focusDetail {
			return m.updateDetail(msg)
		}
		return m.updateNav(msg)
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	switch {
	case m.overlay == overlayAdd:
		m.addInput, cmd = m.addInput.Update(msg)
	case m.focus == focusDetail:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.statusErr = false

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.overlay = overlayHelp
		return m, nil
	case "tab":
		m.nextFocus()
		return m, nil
	case "b":
		m.sess.ToggleSidebar()
		if !m.sess.SidebarOpen() && m.focus == focusSidebar {
			m.setFocus(focusTree)
		}
		m.resize()
		m.refresh("")
		return m, nil
	case "r":
		return m, m.start(opLoad, func(ctx context.Context) (string, error) {
			return "", m.sess.Load(ctx)
		})
	case "e":
		m.sess.ExpandAll()
		m.refresh("")
		return m, nil
	case "E":
		m.sess.CollapseAll()
		m.refresh("")
		return m, nil
	case "a":
		return m.beginAdd()
	case "d":
		return m.askDelete()
	case "s":
		return m.save()
	case "enter":
		if m.focus == focusSidebar {
			return m.activateSidebar()
		}
		return m.activateRow()
	}

	var cmd tea.Cmd
	if m.focus == focusSidebar {
		m.sidebarList, cmd = m.sidebarList.Update(msg)
		return m, cmd
	}
	before := m.treeList.Index()
	m.treeList, cmd = m.treeList.Update(msg)
	if m.treeList.Index() != before {
		m.syncSelection()
	}
	return m, cmd
}

// activateRow toggles an expandable row; a leaf is opened for editing.
func (m appModel) activateRow() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	if r.Toggleable {
		m.sess.ToggleExpand(r.ID)
		m.refresh("")
		return m, nil
	}
	m.syncSelection()
	m.setFocus(focusDetail)
	return m, nil
}

func (m appModel) activateSidebar() (tea.Model, tea.Cmd) {
	e, ok := m.sidebarList.SelectedItem().(sidebarEntry)
	if !ok {
		return m, nil
	}
	if e.item == nil {
		m.sess.ToggleSidebarMenu(e.menuID)
		m.sess.SelectMenu(e.menuID)
		m.refresh("")
		return m, nil
	}
	m.sess.SelectSidebarItem(e.menuID, e.item.ID)
	// Root items sit right under the menu row.
	m.sess.Expand(e.menuID)
	m.refresh(e.item.ID)
	return m, nil
}

func (m appModel) beginAdd() (tea.Model, tea.Cmd) {
	parentID := ""
	switch m.focus {
	case focusSidebar:
		e, ok := m.sidebarList.SelectedItem().(sidebarEntry)
		if !ok {
			return m, nil
		}
		m.sess.SelectMenu(e.menuID)
		parentID = e.id()
	default:
		if r, ok := m.currentRow(); ok {
			parentID = r.ID
		}
	}
	if m.sess.SelectedMenuID() == "" {
		m.status = "Select a menu first"
		m.statusErr = true
		return m, nil
	}

	m.sess.BeginAddItem(parentID)
	m.addInput.Reset()
	m.addInput.Focus()
	m.overlay = overlayAdd
	return m, nil
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sess.CancelAdd()
		m.addInput.Blur()
		m.overlay = overlayNone
		m.refresh("")
		return m, nil
	case "enter":
		m.sess.SetNewItemName(m.addInput.Value())
		menuID := m.sess.SelectedMenuID()
		parent, hasParent := m.sess.AddParent()
		sess := m.sess
		return m, m.start(opAdd, func(ctx context.Context) (string, error) {
			created, err := sess.SubmitAddItem(ctx)
			if err != nil {
				return "", err
			}
			sess.Expand(menuID)
			if hasParent {
				sess.Expand(parent.ID)
			}
			return created.ID, nil
		})
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m appModel) askDelete() (tea.Model, tea.Cmd) {
	if m.focus != focusTree {
		return m, nil
	}
	r, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	if !r.Deletable {
		m.status = "The menu itself can't be deleted"
		m.statusErr = true
		return m, nil
	}
	m.pendingDelete = r
	m.confirm = confirmFocusCancel
	m.overlay = overlayConfirmDelete
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.overlay = overlayNone
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirm = m.confirm.toggle()
		return m, nil
	case "y":
		m.confirm = confirmFocusConfirm
		fallthrough
	case "enter":
		m.overlay = overlayNone
		if m.confirm != confirmFocusConfirm {
			return m, nil
		}
		id := m.pendingDelete.ID
		sess := m.sess
		return m, m.start(opDelete, func(ctx context.Context) (string, error) {
			_, err := sess.DeleteItem(ctx, id, nil)
			return "", err
		})
	}
	return m, nil
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q", "enter":
		m.overlay = overlayNone
	}
	return m, nil
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setFocus(focusTree)
		return m, nil
	case "tab":
		m.nextFocus()
		return m, nil
	case "enter", "ctrl+s":
		return m.save()
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// save renames the item open in the detail pane to the name field's value.
func (m appModel) save() (tea.Model, tea.Cmd) {
	it, ok := m.sess.SelectedItem()
	if !ok {
		m.status = "Nothing selected"
		m.statusErr = true
		return m, nil
	}
	id, name := it.ID, m.nameInput.Value()
	sess := m.sess
	return m, m.start(opSave, func(ctx context.Context) (string, error) {
		return "", sess.UpdateItem(ctx, id, name)
	})
}
