package cli

import (
	"fmt"
	"os"
	"strings"

	"menu-admin/internal/model"
	"menu-admin/internal/session"
	"menu-admin/internal/tree"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Menu item commands",
	}
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsUpdateCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var (
		menuID   string
		name     string
		parentID string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to a menu (top level, or under --parent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			menuID = strings.TrimSpace(menuID)
			sess.SelectMenu(menuID)
			if _, ok := sess.CurrentMenu(); !ok {
				return writeErr(cmd, errNotFound("menu", menuID))
			}
			parentID = strings.TrimSpace(parentID)
			if parentID != "" && parentID != menuID {
				menu, _ := sess.CurrentMenu()
				if _, ok := tree.Find(menu.Items, parentID); !ok {
					return writeErr(cmd, errNotFound("item", parentID))
				}
			}

			sess.BeginAddItem(parentID)
			sess.SetNewItemName(name)
			created, err := sess.SubmitAddItem(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&menuID, "menu", "", "Menu id")
	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent item id (omit, or pass the menu id, for a top-level item)")
	_ = cmd.MarkFlagRequired("menu")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item with its subtree and parent name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := findItem(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": it,
				"meta": map[string]any{"parentName": sess.ParentName(it.ParentID)},
			})
		},
	}
	return cmd
}

func newItemsUpdateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := findItem(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.EditItem(it)
			if err := sess.UpdateItem(cmd.Context(), it.ID, name); err != nil {
				return writeErr(cmd, err)
			}
			updated, _ := sess.SelectedItem()
			if fresh, err := findItem(sess, it.ID); err == nil {
				updated = fresh
			}
			return writeOut(cmd, app, map[string]any{"data": updated})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item and all of its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := findItem(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !yes && !isTerminal(cmd) {
				return writeErr(cmd, errConfirmRequired)
			}

			var promptErr error
			confirm := func() bool {
				if yes {
					return true
				}
				ok, err := confirmDelete(it)
				promptErr = err
				return ok
			}
			deleted, err := sess.DeleteItem(cmd.Context(), it.ID, confirm)
			if promptErr != nil {
				return writeErr(cmd, promptErr)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if !deleted {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": nil, "cancelled": true}})
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"deleted":     it.ID,
				"descendants": len(tree.Flatten(it.Children)),
			}})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func confirmDelete(it model.MenuItem) (bool, error) {
	var ok bool
	desc := "This item has no children."
	if n := len(tree.Flatten(it.Children)); n > 0 {
		desc = fmt.Sprintf("Its %d descendant item(s) will be deleted too.", n)
	}
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %q?", it.Name)).
		Description(desc).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

func loadSession(cmd *cobra.Command, app *App) (*session.Session, error) {
	sess, err := app.session(false)
	if err != nil {
		return nil, err
	}
	if err := sess.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return sess, nil
}

// findItem looks id up across every menu, rejecting menu ids.
func findItem(sess *session.Session, id string) (model.MenuItem, error) {
	id = strings.TrimSpace(id)
	for _, m := range sess.Menus() {
		if m.ID == id {
			return model.MenuItem{}, notAnItemError{id: id}
		}
	}
	for _, m := range sess.Menus() {
		sess.SelectMenu(m.ID)
		cur, _ := sess.CurrentMenu()
		if it, ok := tree.Find(cur.Items, id); ok {
			return it.Clone(), nil
		}
	}
	return model.MenuItem{}, errNotFound("item", id)
}
