package tree

import (
	"sort"
	"strings"

	"menu-admin/internal/model"
)

// Rebuild converts a flat list of items into a nested parent -> children tree.
//
// Items that already carry children are flattened first, so the result is the same
// whether the API returned a flat list or a partially nested one. Items whose parent
// is missing are treated as roots rather than being dropped. Siblings are ordered
// by Order rather than by their position in the API reply; ties keep that position.
// The input is not modified.
func Rebuild(items []model.MenuItem) []model.MenuItem {
	flat := Flatten(items)

	byID := make(map[string]*node, len(flat))
	nodes := make([]*node, 0, len(flat))
	for _, it := range flat {
		if _, dup := byID[it.ID]; dup {
			// First occurrence wins; later duplicates would otherwise appear twice.
			continue
		}
		n := &node{item: it}
		byID[it.ID] = n
		nodes = append(nodes, n)
	}

	var roots []*node
	for _, n := range nodes {
		pid := n.item.ParentIDValue()
		if pid == "" {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[pid]
		if !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.children = append(parent.children, n)
	}

	// A parent cycle leaves its members unreachable from any root; surface them
	// as roots so nothing disappears from the view.
	reached := map[*node]bool{}
	var mark func(n *node)
	mark = func(n *node) {
		if reached[n] {
			return
		}
		reached[n] = true
		for _, ch := range n.children {
			mark(ch)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for _, n := range nodes {
		if reached[n] {
			continue
		}
		if p, ok := byID[n.item.ParentIDValue()]; ok {
			p.children = removeNode(p.children, n)
		}
		roots = append(roots, n)
		mark(n)
	}

	return materialize(roots, map[*node]bool{})
}

type node struct {
	item     model.MenuItem
	children []*node
}

func removeNode(xs []*node, n *node) []*node {
	out := xs[:0]
	for _, x := range xs {
		if x != n {
			out = append(out, x)
		}
	}
	return out
}

func materialize(ns []*node, seen map[*node]bool) []model.MenuItem {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].item.Order < ns[j].item.Order })
	out := make([]model.MenuItem, 0, len(ns))
	for _, n := range ns {
		if seen[n] {
			continue
		}
		seen[n] = true
		it := n.item
		it.Children = materialize(n.children, seen)
		out = append(out, it)
	}
	return out
}

// Flatten returns every item of a (possibly nested) list in pre-order, with
// Children cleared on the copies.
func Flatten(items []model.MenuItem) []model.MenuItem {
	var out []model.MenuItem
	var walk func(xs []model.MenuItem)
	walk = func(xs []model.MenuItem) {
		for _, it := range xs {
			cp := it.Clone()
			cp.Children = nil
			out = append(out, cp)
			walk(it.Children)
		}
	}
	walk(items)
	return out
}

// Find returns a pointer to the first item with the given id, searching depth-first.
// The pointer aliases the tree so callers may edit in place.
func Find(items []model.MenuItem, id string) (*model.MenuItem, bool) {
	for i := range items {
		if items[i].ID == id {
			return &items[i], true
		}
		if found, ok := Find(items[i].Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// FindInMenus searches every menu's items for id.
func FindInMenus(menus []model.Menu, id string) (*model.MenuItem, bool) {
	for i := range menus {
		if found, ok := Find(menus[i].Items, id); ok {
			return found, true
		}
	}
	return nil, false
}

// Insert adds item under its parent, or at the root when it has no parent.
// It reports false when the parent is not in the tree; the item is then dropped.
func Insert(items []model.MenuItem, item model.MenuItem) ([]model.MenuItem, bool) {
	if model.IsRoot(item.ParentID) {
		return append(items, item), true
	}
	parent, ok := Find(items, item.ParentIDValue())
	if !ok {
		return items, false
	}
	parent.Children = append(parent.Children, item)
	return items, true
}

// Update merges patch into the first item whose id matches patch.ID. Fields the
// patch does not carry keep their current value.
func Update(items []model.MenuItem, patch model.ItemPatch) bool {
	for i := range items {
		if items[i].ID == patch.ID {
			items[i] = patch.Apply(items[i])
			return true
		}
		if Update(items[i].Children, patch) {
			return true
		}
	}
	return false
}

// Delete removes the item with the given id, and with it its whole subtree,
// at any depth.
func Delete(items []model.MenuItem, id string) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			continue
		}
		if it.Children != nil {
			it.Children = Delete(it.Children, id)
		}
		out = append(out, it)
	}
	return out
}

// CollectIDs returns every id in pre-order.
func CollectIDs(items []model.MenuItem) []string {
	var ids []string
	var walk func(xs []model.MenuItem)
	walk = func(xs []model.MenuItem) {
		for _, it := range xs {
			ids = append(ids, it.ID)
			walk(it.Children)
		}
	}
	walk(items)
	return ids
}

// ParentName resolves the display name of a parent reference.
func ParentName(menus []model.Menu, parentID *string) string {
	if model.IsRoot(parentID) {
		return "Root"
	}
	if it, ok := FindInMenus(menus, strings.TrimSpace(*parentID)); ok {
		return it.Name
	}
	return "Unknown"
}
