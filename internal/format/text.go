package format

import (
	"fmt"
	"io"
	"strings"

	"menu-admin/internal/model"
	"menu-admin/internal/tree"
)

// WriteText renders menus, items and tree rows for humans. Only the data of a
// {"data": ...} envelope is rendered. Values it doesn't know are written as indented JSON.
func WriteText(w io.Writer, v any, g Glyphs) error {
	if env, ok := v.(map[string]any); ok {
		if data, ok := env["data"]; ok {
			v = data
		}
	}

	var b strings.Builder
	switch t := v.(type) {
	case []model.Menu:
		if len(t) == 0 {
			b.WriteString("(no menus)\n")
		}
		for i, m := range t {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeRows(&b, expandedRows(m), g)
		}
	case model.Menu:
		writeRows(&b, expandedRows(t), g)
	case []tree.Row:
		writeRows(&b, t, g)
	case model.MenuItem:
		writeItem(&b, t)
	case string:
		b.WriteString(t)
		b.WriteByte('\n')
	default:
		return WriteJSON(w, v, true)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RowLine is one rendered tree row without styling.
func RowLine(r tree.Row, g Glyphs) string {
	return fmt.Sprintf("%s%s %s  [%s]", g.Connector(r), g.Marker(r), r.Name, r.ID)
}

func writeRows(b *strings.Builder, rows []tree.Row, g Glyphs) {
	for _, r := range rows {
		b.WriteString(RowLine(r, g))
		b.WriteByte('\n')
	}
}

func expandedRows(m model.Menu) []tree.Row {
	var open tree.ExpandSet
	open.ExpandAll(m)
	return tree.Rows(m, &open)
}

func writeItem(b *strings.Builder, it model.MenuItem) {
	parent := "(root)"
	if !model.IsRoot(it.ParentID) {
		parent = it.ParentIDValue()
	}
	fmt.Fprintf(b, "%s\n", it.Name)
	fmt.Fprintf(b, "  id:     %s\n", it.ID)
	fmt.Fprintf(b, "  menuId: %s\n", it.MenuID)
	fmt.Fprintf(b, "  parent: %s\n", parent)
	fmt.Fprintf(b, "  depth:  %d\n", it.Depth)
	fmt.Fprintf(b, "  order:  %d\n", it.Order)
	if n := len(tree.Flatten(it.Children)); n > 0 {
		fmt.Fprintf(b, "  descendants: %d\n", n)
	}
}
