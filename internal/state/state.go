package state

import (
	"errors"
	"strings"

	"menu-admin/internal/api"
	"menu-admin/internal/model"
	"menu-admin/internal/tree"
)

// State is the client-side view of the remote menus.
type State struct {
	Menus   []model.Menu `json:"menus"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
}

// The reducers below mutate State in place and never fail.

func (s *State) FetchPending() {
	s.Loading = true
	s.Error = ""
}

func (s *State) FetchFulfilled(menus []model.Menu) {
	s.Loading = false
	if menus == nil {
		menus = []model.Menu{}
	}
	s.Menus = menus
}

func (s *State) FetchRejected(err error) {
	s.Loading = false
	s.Error = rejectionMessage(err)
	s.Menus = []model.Menu{}
}

func (s *State) MenuCreated(menu model.Menu) {
	s.Menus = append(s.Menus, menu)
}

// ItemAdded attaches item to its menu: at the root when it has no parent, otherwise
// under the parent wherever it sits. Unknown menus and parents are ignored.
func (s *State) ItemAdded(item model.MenuItem) {
	for i := range s.Menus {
		if s.Menus[i].ID != item.MenuID {
			continue
		}
		s.Menus[i].Items, _ = tree.Insert(s.Menus[i].Items, item)
		return
	}
}

// ItemUpdated merges patch into the matching item of every menu.
func (s *State) ItemUpdated(patch model.ItemPatch) {
	for i := range s.Menus {
		tree.Update(s.Menus[i].Items, patch)
	}
}

func (s *State) ItemDeleted(id string) {
	for i := range s.Menus {
		s.Menus[i].Items = tree.Delete(s.Menus[i].Items, id)
	}
}

// FindMenu returns the menu with id.
func (s State) FindMenu(id string) (model.Menu, bool) {
	for _, m := range s.Menus {
		if m.ID == id {
			return m, true
		}
	}
	return model.Menu{}, false
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Menus = model.CloneMenus(s.Menus)
	return out
}

func rejectionMessage(err error) string {
	if err == nil {
		return api.FailureMessage(api.OpFetchMenus)
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return api.FailureMessage(api.OpFetchMenus)
}
