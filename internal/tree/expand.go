package tree

import (
	"sort"

	"menu-admin/internal/model"
)

// ExpandSet tracks which nodes (menus or items) are expanded.
// The zero value is an empty, usable set.
type ExpandSet struct {
	ids map[string]bool
}

func (s *ExpandSet) Has(id string) bool {
	return s.ids[id]
}

func (s *ExpandSet) Len() int { return len(s.ids) }

// Toggle flips id and returns the new state.
func (s *ExpandSet) Toggle(id string) bool {
	if s.ids == nil {
		s.ids = map[string]bool{}
	}
	if s.ids[id] {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = true
	return true
}

func (s *ExpandSet) Expand(id string) {
	if s.ids == nil {
		s.ids = map[string]bool{}
	}
	s.ids[id] = true
}

// Clear collapses everything.
func (s *ExpandSet) Clear() { s.ids = nil }

// ExpandAll replaces the set with the menu id plus every item id of the menu's tree.
func (s *ExpandSet) ExpandAll(menu model.Menu) {
	ids := map[string]bool{menu.ID: true}
	for _, id := range CollectIDs(Rebuild(menu.Items)) {
		ids[id] = true
	}
	s.ids = ids
}

// IDs returns the expanded ids in sorted order.
func (s *ExpandSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
