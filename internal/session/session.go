package session

import (
	"context"
	"errors"
	"strings"

	"menu-admin/internal/model"
	"menu-admin/internal/state"
	"menu-admin/internal/tree"
)

var (
	ErrNoMenuSelected = errors.New("no menu selected")
	ErrEmptyName      = errors.New("name is required")
)

// Session holds the interaction state of the menu management screen and turns
// user intents into store requests.
type Session struct {
	store *state.Store

	selectedMenuID string
	selectedItem   *model.MenuItem

	adding      bool
	newItemName string

	sidebarOpen     bool
	sidebarExpanded tree.ExpandSet
	sidebarSelected string

	expanded tree.ExpandSet
}

func New(store *state.Store) *Session {
	return &Session{store: store}
}

// State is a copy of the store state.
func (s *Session) State() state.State { return s.store.Snapshot() }

func (s *Session) Load(ctx context.Context) error {
	_, err := s.store.FetchMenus(ctx)
	return err
}

func (s *Session) Menus() []model.Menu { return s.store.Snapshot().Menus }

// SelectMenu switches the menu shown in the tree pane.
func (s *Session) SelectMenu(id string) { s.selectedMenuID = id }

func (s *Session) SelectedMenuID() string { return s.selectedMenuID }

// CurrentMenu returns the selected menu with its items rebuilt into a tree.
func (s *Session) CurrentMenu() (model.Menu, bool) {
	if s.selectedMenuID == "" {
		return model.Menu{}, false
	}
	m, ok := s.store.Snapshot().FindMenu(s.selectedMenuID)
	if !ok {
		return model.Menu{}, false
	}
	m.Items = tree.Rebuild(m.Items)
	return m, true
}

// Sidebar

func (s *Session) ToggleSidebar() { s.sidebarOpen = !s.sidebarOpen }

func (s *Session) CloseSidebar() { s.sidebarOpen = false }

func (s *Session) SidebarOpen() bool { return s.sidebarOpen }

func (s *Session) SidebarSelected() string { return s.sidebarSelected }

func (s *Session) ToggleSidebarMenu(menuID string) bool { return s.sidebarExpanded.Toggle(menuID) }

func (s *Session) SidebarMenuExpanded(menuID string) bool { return s.sidebarExpanded.Has(menuID) }

// SidebarRoots lists the menu's top-level items (those without a parent).
func SidebarRoots(menu model.Menu) []model.MenuItem {
	var out []model.MenuItem
	for _, it := range tree.Flatten(menu.Items) {
		if model.IsRoot(it.ParentID) {
			out = append(out, it)
		}
	}
	return out
}

// SelectSidebarItem selects the item's menu and highlights the item.
func (s *Session) SelectSidebarItem(menuID, itemID string) {
	s.selectedMenuID = menuID
	s.sidebarSelected = itemID
}

// Selection and editing

func (s *Session) SelectedItem() (model.MenuItem, bool) {
	if s.selectedItem == nil {
		return model.MenuItem{}, false
	}
	return s.selectedItem.Clone(), true
}

func (s *Session) EditItem(item model.MenuItem) {
	cp := item.Clone()
	s.selectedItem = &cp
	s.adding = false
}

func (s *Session) ClearSelection() { s.selectedItem = nil }

// ParentName resolves the display name of the selected item's parent.
func (s *Session) ParentName(parentID *string) string {
	return tree.ParentName(s.rebuiltMenus(), parentID)
}

func (s *Session) UpdateItem(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	updated, err := s.store.UpdateMenuItem(ctx, id, name)
	if err != nil {
		return err
	}
	if s.selectedItem != nil && s.selectedItem.ID == id {
		s.selectedItem.Name = updated.Name
	}
	_, err = s.store.FetchMenus(ctx)
	return err
}

// DeleteItem removes an item after confirm approves; a declined confirmation is
// not an error. The selection is cleared when it pointed at the deleted item.
func (s *Session) DeleteItem(ctx context.Context, id string, confirm func() bool) (bool, error) {
	if confirm != nil && !confirm() {
		return false, nil
	}
	if _, err := s.store.DeleteMenuItem(ctx, id); err != nil {
		return false, err
	}
	if s.selectedItem != nil && s.selectedItem.ID == id {
		s.selectedItem = nil
	}
	return true, nil
}

// Adding items

func (s *Session) Adding() bool { return s.adding }

func (s *Session) NewItemName() string { return s.newItemName }

func (s *Session) SetNewItemName(name string) { s.newItemName = name }

// BeginAddItem opens the add form under parentID. A parentID that is not an item
// (e.g. the menu itself) adds at the root.
func (s *Session) BeginAddItem(parentID string) {
	s.adding = true
	s.selectedItem = nil
	if parentID == "" {
		return
	}
	if it, ok := tree.FindInMenus(s.rebuiltMenus(), parentID); ok {
		cp := it.Clone()
		s.selectedItem = &cp
	}
}

func (s *Session) CancelAdd() { s.adding = false }

// AddParent returns the parent the form will add under, if any.
func (s *Session) AddParent() (model.MenuItem, bool) {
	if !s.adding || s.selectedItem == nil {
		return model.MenuItem{}, false
	}
	return s.selectedItem.Clone(), true
}

// SubmitAddItem creates the item, then refetches so ids and depths match the server.
// The form stays open with its input when the request fails.
func (s *Session) SubmitAddItem(ctx context.Context) (model.MenuItem, error) {
	name := strings.TrimSpace(s.newItemName)
	if name == "" {
		return model.MenuItem{}, ErrEmptyName
	}
	if s.selectedMenuID == "" {
		return model.MenuItem{}, ErrNoMenuSelected
	}

	in := model.NewMenuItem{
		Name:   name,
		MenuID: s.selectedMenuID,
		Depth:  0,
		Order:  0,
	}
	if s.selectedItem != nil {
		pid := s.selectedItem.ID
		in.ParentID = &pid
		in.Depth = s.selectedItem.Depth + 1
	}

	created, err := s.store.AddMenuItem(ctx, in)
	if err != nil {
		return model.MenuItem{}, err
	}
	if _, err := s.store.FetchMenus(ctx); err != nil {
		return created, err
	}
	s.newItemName = ""
	s.adding = false
	return created, nil
}

// Tree expansion

func (s *Session) ToggleExpand(id string) bool { return s.expanded.Toggle(id) }

func (s *Session) Expand(id string) { s.expanded.Expand(id) }

func (s *Session) ExpandAll() {
	if m, ok := s.CurrentMenu(); ok {
		s.expanded.ExpandAll(m)
	}
}

func (s *Session) CollapseAll() { s.expanded.Clear() }

func (s *Session) AnyExpanded() bool { return s.expanded.Len() > 0 }

// Rows returns the visible rows of the selected menu.
func (s *Session) Rows() []tree.Row {
	m, ok := s.CurrentMenu()
	if !ok {
		return nil
	}
	return tree.Rows(m, &s.expanded)
}

func (s *Session) rebuiltMenus() []model.Menu {
	menus := s.store.Snapshot().Menus
	for i := range menus {
		menus[i].Items = tree.Rebuild(menus[i].Items)
	}
	return menus
}
