package tree

import "menu-admin/internal/model"

// Row is one visible line of a rendered menu tree.
type Row struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Depth int    `json:"depth"`

	// IsMenu marks the pseudo-root row that stands for the menu itself.
	IsMenu bool `json:"isMenu"`
	// Item is the row as an item; the menu row presents the menu as a root item.
	Item model.MenuItem `json:"-"`

	HasChildren bool `json:"hasChildren"`
	Expanded    bool `json:"expanded"`
	// IsLast is true for the last row among its siblings.
	IsLast bool `json:"isLast"`
	// Guides has one entry per ancestor item level (depth 1 .. Depth-1); an entry
	// is true when that ancestor has later siblings, so a vertical guide continues.
	Guides []bool `json:"-"`
	// Toggleable rows show an expand/collapse control: the menu row always,
	// item rows only when they have children.
	Toggleable bool `json:"toggleable"`
	// Deletable is false for the menu row.
	Deletable bool `json:"deletable"`
}

// Rows flattens a menu into its visible rows. The menu itself is row 0 at depth 0;
// its items follow at depth 1 and below. A row's children are visible only when
// the row is expanded.
func Rows(menu model.Menu, expanded *ExpandSet) []Row {
	if expanded == nil {
		expanded = &ExpandSet{}
	}
	roots := Rebuild(menu.Items)

	out := []Row{{
		ID:          menu.ID,
		Name:        menu.Name,
		Depth:       0,
		IsMenu:      true,
		Item:        menuAsItem(menu, roots),
		HasChildren: len(roots) > 0,
		Expanded:    expanded.Has(menu.ID),
		IsLast:      true,
		Toggleable:  true,
	}}
	if !expanded.Has(menu.ID) {
		return out
	}

	var walk func(items []model.MenuItem, depth int, guides []bool)
	walk = func(items []model.MenuItem, depth int, guides []bool) {
		for i, it := range items {
			open := expanded.Has(it.ID)
			last := i == len(items)-1
			out = append(out, Row{
				ID:          it.ID,
				Name:        it.Name,
				Depth:       depth,
				Item:        it,
				HasChildren: len(it.Children) > 0,
				Expanded:    open,
				IsLast:      last,
				Guides:      guides,
				Toggleable:  len(it.Children) > 0,
				Deletable:   true,
			})
			if open && len(it.Children) > 0 {
				next := make([]bool, len(guides), len(guides)+1)
				copy(next, guides)
				walk(it.Children, depth+1, append(next, !last))
			}
		}
	}
	walk(roots, 1, nil)
	return out
}

// menuAsItem presents a menu as a root-level item so the detail view can show it.
func menuAsItem(menu model.Menu, roots []model.MenuItem) model.MenuItem {
	return model.MenuItem{
		ID:       menu.ID,
		Name:     menu.Name,
		MenuID:   menu.ID,
		ParentID: nil,
		Depth:    0,
		Order:    0,
		Children: roots,
	}
}
