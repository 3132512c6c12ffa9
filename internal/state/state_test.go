package state

import (
	"encoding/json"
	"errors"
	"testing"

	"menu-admin/internal/api"
	"menu-admin/internal/model"
	"menu-admin/internal/tree"
)

func mkItem(id, menuID, parent string) model.MenuItem {
	it := model.MenuItem{ID: id, Name: id, MenuID: menuID}
	if parent != "" {
		it.ParentID = model.StrPtr(parent)
	}
	return it
}

func TestFetchReducers(t *testing.T) {
	t.Parallel()

	var s State
	s.Error = "old"
	s.FetchPending()
	if !s.Loading || s.Error != "" {
		t.Fatalf("pending: %+v", s)
	}

	s.FetchFulfilled(nil)
	if s.Loading || s.Menus == nil || len(s.Menus) != 0 {
		t.Fatalf("fulfilled(nil): %+v", s)
	}

	s.FetchFulfilled([]model.Menu{{ID: "m"}})
	s.FetchPending()
	s.FetchRejected(&api.Error{Op: api.OpFetchMenus, StatusCode: 500})
	if s.Loading || s.Error != "failed to fetch menus" || len(s.Menus) != 0 || s.Menus == nil {
		t.Fatalf("rejected: %+v", s)
	}

	s.FetchRejected(errors.New("dial tcp: refused"))
	if s.Error != "dial tcp: refused" {
		t.Fatalf("rejected transport: %q", s.Error)
	}
	s.FetchRejected(nil)
	if s.Error != "failed to fetch menus" {
		t.Fatalf("rejected nil: %q", s.Error)
	}
}

func TestItemAdded(t *testing.T) {
	t.Parallel()

	s := State{Menus: []model.Menu{
		{ID: "m1", Items: tree.Rebuild([]model.MenuItem{mkItem("a", "m1", ""), mkItem("b", "m1", "a")})},
		{ID: "m2"},
	}}

	s.ItemAdded(mkItem("c", "m1", "b"))
	s.ItemAdded(mkItem("d", "m1", ""))
	s.ItemAdded(mkItem("e", "m2", ""))
	s.ItemAdded(mkItem("x", "nope", ""))
	s.ItemAdded(mkItem("y", "m1", "missing"))

	if got := tree.CollectIDs(s.Menus[0].Items); len(got) != 4 || got[2] != "c" || got[3] != "d" {
		t.Fatalf("unexpected m1 ids: %v", got)
	}
	if c, ok := tree.Find(s.Menus[0].Items, "c"); !ok || c.ParentIDValue() != "b" {
		t.Fatalf("expected c under b")
	}
	if len(s.Menus[1].Items) != 1 || s.Menus[1].Items[0].ID != "e" {
		t.Fatalf("unexpected m2 items: %+v", s.Menus[1].Items)
	}
}

func TestItemUpdatedAndDeleted(t *testing.T) {
	t.Parallel()

	s := State{Menus: []model.Menu{
		{ID: "m1", Items: tree.Rebuild([]model.MenuItem{mkItem("a", "m1", ""), mkItem("b", "m1", "a"), mkItem("c", "m1", "b")})},
		{ID: "m2", Items: []model.MenuItem{mkItem("z", "m2", "")}},
	}}

	upd := mkItem("b", "m1", "a")
	upd.Name = "Bee"
	s.ItemUpdated(model.PatchOf(upd))
	b, _ := tree.Find(s.Menus[0].Items, "b")
	if b.Name != "Bee" || len(b.Children) != 1 {
		t.Fatalf("unexpected b after update: %+v", b)
	}

	s.ItemDeleted("b")
	if got := tree.CollectIDs(s.Menus[0].Items); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected only a left, got %v", got)
	}
	s.ItemDeleted("z")
	if len(s.Menus[1].Items) != 0 {
		t.Fatalf("expected z removed from m2")
	}
}

func TestMenuCreatedAndFind(t *testing.T) {
	t.Parallel()

	var s State
	s.MenuCreated(model.Menu{ID: "m", Name: "Main"})
	if m, ok := s.FindMenu("m"); !ok || m.Name != "Main" {
		t.Fatalf("expected to find created menu")
	}
	if _, ok := s.FindMenu("x"); ok {
		t.Fatalf("unexpected menu x")
	}
}

func TestItemUpdated_PartialReplyKeepsFields(t *testing.T) {
	t.Parallel()

	b := mkItem("b", "m", "a")
	b.Depth = 1
	b.Order = 3
	s := State{Menus: []model.Menu{
		{ID: "m", Items: tree.Rebuild([]model.MenuItem{mkItem("a", "m", ""), b})},
	}}

	var patch model.ItemPatch
	if err := json.Unmarshal([]byte(`{"id":"b","name":"B2"}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.ItemUpdated(patch)

	got, ok := tree.Find(s.Menus[0].Items, "b")
	if !ok {
		t.Fatalf("expected b to stay under a")
	}
	if got.Name != "B2" || got.MenuID != "m" || got.ParentIDValue() != "a" || got.Depth != 1 || got.Order != 3 {
		t.Fatalf("partial reply wiped fields: %+v", *got)
	}
}

func TestItemUpdated_AppliesToEveryMenu(t *testing.T) {
	t.Parallel()

	s := State{Menus: []model.Menu{
		{ID: "m1", Items: []model.MenuItem{mkItem("x", "m1", "")}},
		{ID: "m2", Items: []model.MenuItem{mkItem("x", "m2", "")}},
	}}
	s.ItemUpdated(model.ItemPatch{ID: "x", Name: model.StrPtr("Renamed")})

	for _, m := range s.Menus {
		if m.Items[0].Name != "Renamed" || m.Items[0].MenuID != m.ID {
			t.Fatalf("menu %s: unexpected item %+v", m.ID, m.Items[0])
		}
	}
}
