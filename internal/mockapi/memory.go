package mockapi

import (
	"errors"
	"strings"
	"sync"

	"menu-admin/internal/model"
	"menu-admin/internal/tree"

	"github.com/google/uuid"
)

var (
	errMenuNotFound   = errors.New("menu not found")
	errItemNotFound   = errors.New("item not found")
	errParentNotFound = errors.New("parent item not found in menu")
)

// Memory is an in-memory menus backend. Items are stored flat per menu, the
// way the real API returns them.
type Memory struct {
	mu    sync.Mutex
	menus []model.Menu
	newID func(prefix string) string
}

func NewMemory() *Memory {
	return &Memory{
		newID: func(prefix string) string { return prefix + "-" + uuid.NewString() },
	}
}

// Menus returns a deep copy of every menu with flat items.
func (m *Memory) Menus() []model.Menu {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := model.CloneMenus(m.menus)
	if out == nil {
		out = []model.Menu{}
	}
	for i := range out {
		if out[i].Items == nil {
			out[i].Items = []model.MenuItem{}
		}
		for j := range out[i].Items {
			out[i].Items[j].Children = []model.MenuItem{}
		}
	}
	return out
}

func (m *Memory) CreateMenu(in model.NewMenu) model.Menu {
	m.mu.Lock()
	defer m.mu.Unlock()
	menu := model.Menu{ID: m.newID("menu"), Name: strings.TrimSpace(in.Name), Items: []model.MenuItem{}}
	m.menus = append(m.menus, menu)
	return menu
}

func (m *Memory) AddItem(in model.NewMenuItem) (model.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mi := m.menuIndex(in.MenuID)
	if mi < 0 {
		return model.MenuItem{}, errMenuNotFound
	}
	var parent *string
	if !model.IsRoot(in.ParentID) {
		pid := strings.TrimSpace(*in.ParentID)
		if !hasItem(m.menus[mi].Items, pid) {
			return model.MenuItem{}, errParentNotFound
		}
		parent = &pid
	}
	it := model.MenuItem{
		ID:       m.newID("item"),
		Name:     strings.TrimSpace(in.Name),
		MenuID:   in.MenuID,
		ParentID: parent,
		Depth:    in.Depth,
		Order:    in.Order,
		Children: []model.MenuItem{},
	}
	stored := it
	stored.Children = nil
	m.menus[mi].Items = append(m.menus[mi].Items, stored)
	return it, nil
}

// RenameItem renames an item. A menu id renames the menu, which is answered in
// item shape the way the menu row presents it.
func (m *Memory) RenameItem(id, name string) (model.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mi := m.menuIndex(id); mi >= 0 {
		m.menus[mi].Name = strings.TrimSpace(name)
		return model.MenuItem{ID: id, Name: m.menus[mi].Name, MenuID: id, Children: []model.MenuItem{}}, nil
	}
	for mi := range m.menus {
		for ii := range m.menus[mi].Items {
			if m.menus[mi].Items[ii].ID == id {
				m.menus[mi].Items[ii].Name = strings.TrimSpace(name)
				out := m.menus[mi].Items[ii].Clone()
				out.Children = []model.MenuItem{}
				return out, nil
			}
		}
	}
	return model.MenuItem{}, errItemNotFound
}

// Delete removes a menu, or an item together with its descendants.
func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mi := m.menuIndex(id); mi >= 0 {
		m.menus = append(m.menus[:mi], m.menus[mi+1:]...)
		return nil
	}
	for mi := range m.menus {
		if !hasItem(m.menus[mi].Items, id) {
			continue
		}
		pruned := tree.Flatten(tree.Delete(tree.Rebuild(m.menus[mi].Items), id))
		if pruned == nil {
			pruned = []model.MenuItem{}
		}
		m.menus[mi].Items = pruned
		return nil
	}
	return errItemNotFound
}

func (m *Memory) menuIndex(id string) int {
	for i := range m.menus {
		if m.menus[i].ID == id {
			return i
		}
	}
	return -1
}

func hasItem(items []model.MenuItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
