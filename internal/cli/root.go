package cli

import (
	"fmt"
	"os"
	"strings"

	"menu-admin/internal/api"
	"menu-admin/internal/format"
	"menu-admin/internal/logging"
	"menu-admin/internal/session"
	"menu-admin/internal/state"
	"menu-admin/internal/store"
	"menu-admin/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	APIURL     string
	Format     string
	PrettyJSON bool
	LogLevel   string

	cfg *store.GlobalConfig
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "menu-admin",
		Short:        "Manage hierarchical menus behind a menus HTTP API (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  menu-admin --api-url http://localhost:3001

  # Scriptable commands
  menu-admin menus list
  menu-admin items add --menu menu-123 --name "Users" --parent item-456

  # Menu tree (shortcut for: menu-admin menus tree <menu-id>)
  menu-admin menu-123 --format text
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				_ = app.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Base URL of the menus API (default: $"+store.EnvAPIURL+", then config api-url)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MENU_ADMIN_FORMAT", "json"), "Output format ("+strings.Join(format.Formats(), "|")+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr(store.EnvLogLevel, ""), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newMenusCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newMockAPICmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	sess, err := app.session(true)
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, _ := app.config()
	return tui.Run(cmd.Context(), sess, tui.Options{
		APIURL: store.ResolveAPIURL(app.APIURL, cfg),
		Glyphs: app.glyphs(),
		Logger: app.log,
	})
}

// config loads the global config once. A broken config file is an error; a
// missing one is an empty config.
func (app *App) config() (*store.GlobalConfig, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return &store.GlobalConfig{}, err
	}
	app.cfg = cfg
	return cfg, nil
}

// logger builds the process logger. CLI commands log to stderr at warn unless
// configured; the TUI owns the terminal, so it only logs to a configured file.
func (app *App) logger(interactive bool) *zap.Logger {
	if app.log != nil {
		return app.log
	}
	cfg, _ := app.config()
	level := app.LogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	path := envOr(store.EnvLogFile, cfg.LogFile)
	if path == "" && !interactive {
		path = "-"
	}
	l, err := logging.New(level, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "menu-admin: logging disabled: %v\n", err)
		l = zap.NewNop()
	}
	app.log = l
	return l
}

func (app *App) client(interactive bool) (*api.Client, error) {
	cfg, err := app.config()
	if err != nil {
		return nil, err
	}
	return api.New(store.ResolveAPIURL(app.APIURL, cfg), api.WithLogger(app.logger(interactive)))
}

// session wires the API client, the state store and the snapshot cache.
func (app *App) session(interactive bool) (*session.Session, error) {
	c, err := app.client(interactive)
	if err != nil {
		return nil, err
	}
	opts := []state.Option{state.WithLogger(app.log)}
	if cache, err := store.DefaultCache(); err == nil {
		opts = append(opts, state.WithSnapshotter(cache))
	}
	return session.New(state.NewStore(c, opts...)), nil
}

func (app *App) glyphs() format.Glyphs {
	cfg, _ := app.config()
	name := ""
	if cfg.TUI != nil {
		name = cfg.TUI.Glyphs
	}
	g, _ := format.GlyphsNamed(envOr("MENU_ADMIN_TUI_GLYPHS", name))
	return g
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteWith(cmd.OutOrStdout(), v, format.Options{
		Format: app.Format,
		Pretty: app.PrettyJSON,
		Glyphs: app.glyphs(),
	})
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
