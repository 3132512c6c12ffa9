package model

import "strings"

type Menu struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type MenuItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	MenuID string `json:"menuId"`

	// ParentID is nil for root items.
	ParentID *string `json:"parentId"`
	Depth    int     `json:"depth"`
	Order    int     `json:"order"`

	// Children is computed client-side; the API usually returns items flat.
	Children []MenuItem `json:"children"`
}

// NewMenu is the create-menu payload.
type NewMenu struct {
	Name string `json:"name" validate:"required"`
}

// NewMenuItem is the add-item payload (a MenuItem without id and children).
type NewMenuItem struct {
	Name     string  `json:"name" validate:"required"`
	MenuID   string  `json:"menuId" validate:"required"`
	ParentID *string `json:"parentId"`
	Depth    int     `json:"depth" validate:"gte=0"`
	Order    int     `json:"order" validate:"gte=0"`
}

// ItemRename is the update payload; only the name is editable.
type ItemRename struct {
	Name string `json:"name" validate:"required"`
}

// IsRoot reports whether parentID denotes a root item (nil or blank).
func IsRoot(parentID *string) bool {
	return parentID == nil || strings.TrimSpace(*parentID) == ""
}

func StrPtr(s string) *string { return &s }

// ParentIDValue returns the parent id or "" for roots.
func (it MenuItem) ParentIDValue() string {
	if IsRoot(it.ParentID) {
		return ""
	}
	return strings.TrimSpace(*it.ParentID)
}

// Clone returns a deep copy of the item and its subtree.
func (it MenuItem) Clone() MenuItem {
	out := it
	if it.ParentID != nil {
		p := *it.ParentID
		out.ParentID = &p
	}
	if it.Children != nil {
		out.Children = make([]MenuItem, len(it.Children))
		for i, ch := range it.Children {
			out.Children[i] = ch.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the menu.
func (m Menu) Clone() Menu {
	out := m
	if m.Items != nil {
		out.Items = make([]MenuItem, len(m.Items))
		for i, it := range m.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

func CloneMenus(menus []Menu) []Menu {
	if menus == nil {
		return nil
	}
	out := make([]Menu, len(menus))
	for i, m := range menus {
		out[i] = m.Clone()
	}
	return out
}
