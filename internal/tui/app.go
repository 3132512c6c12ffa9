package tui

import (
	"context"
	"errors"

	"menu-admin/internal/api"
	"menu-admin/internal/format"
	"menu-admin/internal/session"
	"menu-admin/internal/tree"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type focusArea int

const (
	focusTree focusArea = iota
	focusDetail
	focusSidebar
)

type overlay int

const (
	overlayNone overlay = iota
	overlayAdd
	overlayConfirmDelete
	overlayHelp
)

// Request labels, shown in the footer while running.
const (
	opLoad   = "Loading menus"
	opAdd    = "Adding item"
	opSave   = "Saving"
	opDelete = "Deleting"
)

// opDoneMsg ends a request started with start. id is the item to put the cursor on.
type opDoneMsg struct {
	op  string
	id  string
	err error
}

type appModel struct {
	ctx     context.Context
	sess    *session.Session
	log     *zap.Logger
	glyphs  format.Glyphs
	apiURL  string
	mdStyle string

	width  int
	height int

	focus   focusArea
	overlay overlay

	treeList     list.Model
	sidebarList  list.Model
	treeFocus    *paneFocus
	sidebarFocus *paneFocus

	nameInput textinput.Model
	addInput  textinput.Model

	confirm       confirmFocus
	pendingDelete tree.Row

	// busy is the label of the running request. While it runs the session belongs
	// to the request goroutine, so View shows frame instead of reading it.
	busy  string
	frame string

	status    string
	statusErr bool
}

func newAppModel(ctx context.Context, sess *session.Session, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	g := opts.Glyphs
	if g.Name == "" {
		g = format.UnicodeGlyphs
	}

	m := appModel{
		ctx:          ctx,
		sess:         sess,
		log:          log,
		glyphs:       g,
		apiURL:       opts.APIURL,
		mdStyle:      opts.MarkdownStyle,
		width:        100,
		height:       30,
		focus:        focusTree,
		treeFocus:    &paneFocus{focused: true},
		sidebarFocus: &paneFocus{},
		busy:         opLoad,
	}
	m.treeList = newList(treeDelegate{glyphs: g, focus: m.treeFocus})
	m.sidebarList = newList(sidebarDelegate{glyphs: g, focus: m.sidebarFocus})

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Name"
	m.nameInput.CharLimit = 200
	m.nameInput.Prompt = ""

	m.addInput = textinput.New()
	m.addInput.Placeholder = "New item name"
	m.addInput.CharLimit = 200

	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.request(opLoad, func(ctx context.Context) (string, error) {
		return "", m.sess.Load(ctx)
	})
}

func (m appModel) request(op string, fn func(context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		id, err := fn(ctx)
		return opDoneMsg{op: op, id: id, err: err}
	}
}

// start freezes the current frame and runs fn in a command.
func (m *appModel) start(op string, fn func(context.Context) (string, error)) tea.Cmd {
	m.frame = m.renderBody()
	m.busy = op
	m.status = ""
	m.statusErr = false
	m.log.Debug("request started", zap.String("op", op))
	return m.request(op, fn)
}

func (m appModel) finish(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = ""
	m.frame = ""

	if msg.err != nil {
		m.log.Warn("request failed", zap.String("op", msg.op), zap.Error(msg.err))
		m.setError(msg.err)
	} else {
		m.log.Debug("request done", zap.String("op", msg.op))
	}

	switch msg.op {
	case opLoad:
		if m.sess.SelectedMenuID() == "" {
			if menus := m.sess.Menus(); len(menus) > 0 {
				m.sess.SelectMenu(menus[0].ID)
			}
		}
	case opAdd:
		if msg.err == nil {
			m.overlay = overlayNone
			m.addInput.Reset()
			m.addInput.Blur()
			m.status = "Item added"
		}
	case opSave:
		if msg.err == nil {
			m.status = "Saved"
		}
	case opDelete:
		if msg.err == nil {
			m.status = "Deleted"
		}
	}

	m.refresh(msg.id)
	return m, nil
}

func (m *appModel) setError(err error) {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		m.status = apiErr.Message()
	default:
		m.status = err.Error()
	}
	m.statusErr = true
}

// refresh rebuilds both lists from the session, keeping the cursors on the same
// ids where possible. focusID, when set, moves the tree cursor there instead.
func (m *appModel) refresh(focusID string) {
	curID := focusID
	if curID == "" {
		if r, ok := m.currentRow(); ok {
			curID = r.ID
		}
	}
	idx := m.treeList.Index()

	rows := m.sess.Rows()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, rowItem{row: r})
	}
	m.treeList.SetItems(items)
	if curID == "" || !selectByID(&m.treeList, curID) {
		if len(items) > 0 {
			m.treeList.Select(min(idx, len(items)-1))
		}
	}

	sideID := ""
	if e, ok := m.sidebarList.SelectedItem().(sidebarEntry); ok {
		sideID = e.id()
	}
	var entries []list.Item
	for _, menu := range m.sess.Menus() {
		open := m.sess.SidebarMenuExpanded(menu.ID)
		entries = append(entries, sidebarEntry{menuID: menu.ID, name: menu.Name, expanded: open})
		if !open {
			continue
		}
		for _, it := range session.SidebarRoots(menu) {
			cp := it
			entries = append(entries, sidebarEntry{menuID: menu.ID, item: &cp, name: it.Name})
		}
	}
	m.sidebarList.SetItems(entries)
	if sideID != "" {
		selectByID(&m.sidebarList, sideID)
	}

	if focusID != "" {
		m.syncSelection()
	}
	m.syncMarks()
}

// syncSelection opens the row under the tree cursor in the detail pane.
func (m *appModel) syncSelection() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	if cur, ok := m.sess.SelectedItem(); ok && cur.ID == r.ID && m.nameInput.Value() != "" {
		return
	}
	m.sess.EditItem(r.Item)
	m.nameInput.SetValue(r.Name)
	m.nameInput.CursorEnd()
	m.syncMarks()
}

func (m *appModel) syncMarks() {
	marked := ""
	if it, ok := m.sess.SelectedItem(); ok {
		marked = it.ID
	}
	m.treeFocus.marked = marked
	m.treeFocus.focused = m.focus == focusTree
	m.sidebarFocus.marked = m.sess.SidebarSelected()
	m.sidebarFocus.selected = m.sess.SelectedMenuID()
	m.sidebarFocus.focused = m.focus == focusSidebar
}

func (m *appModel) currentRow() (tree.Row, bool) {
	ri, ok := m.treeList.SelectedItem().(rowItem)
	if !ok {
		return tree.Row{}, false
	}
	return ri.row, true
}

func (m *appModel) setFocus(f focusArea) {
	if f == focusSidebar && !m.sess.SidebarOpen() {
		f = focusTree
	}
	m.focus = f
	if f == focusDetail {
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
		if it, ok := m.sess.SelectedItem(); ok {
			m.nameInput.SetValue(it.Name)
		}
	}
	m.syncMarks()
}

// nextFocus cycles sidebar (when open), tree, detail.
func (m *appModel) nextFocus() {
	switch m.focus {
	case focusSidebar:
		m.setFocus(focusTree)
	case focusTree:
		if _, ok := m.sess.SelectedItem(); ok {
			m.setFocus(focusDetail)
		} else {
			m.setFocus(focusSidebar)
		}
	default:
		m.setFocus(focusSidebar)
	}
}

func (m *appModel) resize() {
	side, treeW, _ := paneWidths(m.width, m.sess.SidebarOpen())
	h := max(m.bodyHeight()-2, 1)
	m.treeList.SetSize(treeW, h)
	m.sidebarList.SetSize(side, h)
	m.nameInput.Width = max(minDetailWidth-12, 10)
	m.addInput.Width = max(modalWidth(m.width)-8, 10)
}

// bodyHeight leaves room for the header and footer lines.
func (m appModel) bodyHeight() int {
	return max(m.height-2, 4)
}
