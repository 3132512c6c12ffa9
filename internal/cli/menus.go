package cli

import (
	"strings"
	"time"

	"menu-admin/internal/model"
	"menu-admin/internal/store"
	"menu-admin/internal/tree"

	"github.com/spf13/cobra"
)

func newMenusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menus",
		Short: "Menu commands",
	}
	cmd.AddCommand(newMenusListCmd(app))
	cmd.AddCommand(newMenusCreateCmd(app))
	cmd.AddCommand(newMenusShowCmd(app))
	cmd.AddCommand(newMenusTreeCmd(app))
	return cmd
}

func newMenusListCmd(app *App) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List menus with their items (flat, as the API returns them)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cached {
				cache, err := store.DefaultCache()
				if err != nil {
					return writeErr(cmd, err)
				}
				menus, err := cache.LoadMenus(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				at, err := cache.FetchedAt(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				meta := map[string]any{"cached": true, "fetchedAt": nil}
				if !at.IsZero() {
					meta["fetchedAt"] = at.UTC().Format(time.RFC3339)
				}
				return writeOut(cmd, app, map[string]any{"data": menus, "meta": meta})
			}

			sess, err := app.session(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess.Menus()})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read the last fetched snapshot instead of calling the API")
	return cmd
}

func newMenusCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := c.CreateMenu(cmd.Context(), model.NewMenu{Name: strings.TrimSpace(name)})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": m})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Menu name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMenusShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <menu-id>",
		Short: "Show a menu with its items nested",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menu, err := loadMenu(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": menu})
		},
	}
	return cmd
}

func newMenusTreeCmd(app *App) *cobra.Command {
	var expandAll bool

	cmd := &cobra.Command{
		Use:   "tree <menu-id>",
		Short: "Show the visible rows of a menu (top-level items, or everything with --expand-all)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.session(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			sess.SelectMenu(id)
			if _, ok := sess.CurrentMenu(); !ok {
				return writeErr(cmd, errNotFound("menu", id))
			}
			if expandAll {
				sess.ExpandAll()
			} else {
				sess.ToggleExpand(id)
			}
			rows := sess.Rows()
			if rows == nil {
				rows = []tree.Row{}
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}

	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Expand every item")
	return cmd
}

// loadMenu fetches menus and returns the one with id, items rebuilt into a tree.
func loadMenu(cmd *cobra.Command, app *App, id string) (model.Menu, error) {
	sess, err := app.session(false)
	if err != nil {
		return model.Menu{}, err
	}
	if err := sess.Load(cmd.Context()); err != nil {
		return model.Menu{}, err
	}
	id = strings.TrimSpace(id)
	sess.SelectMenu(id)
	m, ok := sess.CurrentMenu()
	if !ok {
		return model.Menu{}, errNotFound("menu", id)
	}
	if m.Items == nil {
		m.Items = []model.MenuItem{}
	}
	return m, nil
}
