package model

import (
	"encoding/json"
	"fmt"
)

// ItemPatch is an update reply. Only the keys the server sent are set; applying
// the patch keeps the current value of everything else.
type ItemPatch struct {
	ID     string
	Name   *string
	MenuID *string
	// HasParent is true when the reply carried parentId; a null ParentID then means root.
	HasParent bool
	ParentID  *string
	Depth     *int
	Order     *int
	Children  []MenuItem
}

func (p *ItemPatch) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = ItemPatch{}
	field := func(key string, dst any) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("item %s: %w", key, err)
		}
		return nil
	}
	_, p.HasParent = raw["parentId"]
	for key, dst := range map[string]any{
		"id":       &p.ID,
		"name":     &p.Name,
		"menuId":   &p.MenuID,
		"parentId": &p.ParentID,
		"depth":    &p.Depth,
		"order":    &p.Order,
		"children": &p.Children,
	} {
		if err := field(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// PatchOf is a patch that sets every field of it.
func PatchOf(it MenuItem) ItemPatch {
	c := it.Clone()
	return ItemPatch{
		ID:        c.ID,
		Name:      &c.Name,
		MenuID:    &c.MenuID,
		HasParent: true,
		ParentID:  c.ParentID,
		Depth:     &c.Depth,
		Order:     &c.Order,
		Children:  c.Children,
	}
}

// Apply lays the sent fields of p over it. A non-empty children list replaces
// the subtree; an absent or empty one keeps it.
func (p ItemPatch) Apply(it MenuItem) MenuItem {
	out := it.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.MenuID != nil {
		out.MenuID = *p.MenuID
	}
	if p.HasParent {
		out.ParentID = nil
		if p.ParentID != nil {
			out.ParentID = StrPtr(*p.ParentID)
		}
	}
	if p.Depth != nil {
		out.Depth = *p.Depth
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if len(p.Children) > 0 {
		out.Children = make([]MenuItem, len(p.Children))
		for i, ch := range p.Children {
			out.Children[i] = ch.Clone()
		}
	}
	return out
}

// Item is the patch on its own, zero where nothing was sent.
func (p ItemPatch) Item() MenuItem {
	return p.Apply(MenuItem{ID: p.ID})
}
