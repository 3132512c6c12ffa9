package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"menu-admin/internal/logging"
	"menu-admin/internal/mockapi"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMockAPICmd(app *App) *cobra.Command {
	var (
		host string
		port int
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve an in-memory menus API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := app.LogLevel
			if level == "" {
				level = "info"
			}
			log, err := logging.New(level, envOr("MENU_ADMIN_LOG_FILE", "-"))
			if err != nil {
				log = zap.NewNop()
			}
			defer func() { _ = log.Sync() }()

			srv := mockapi.NewServer(
				mockapi.WithAddr(fmt.Sprintf("%s:%d", host, port)),
				mockapi.WithLogger(log),
			)
			if seed {
				mockapi.Seed(srv.Memory())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ready := make(chan struct{})
			errc := make(chan error, 1)
			go func() { errc <- srv.Serve(ctx, ready) }()

			announce := func() error {
				addr := srv.Addr()
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"addr": addr,
					"url":  "http://" + addr,
				}})
			}

			select {
			case <-ready:
				if err := announce(); err != nil {
					return err
				}
				err = <-errc
			case err = <-errc:
				// Serve closes ready before it can return after binding.
				select {
				case <-ready:
					if aerr := announce(); aerr != nil {
						return aerr
					}
				default:
				}
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Interface to bind")
	cmd.Flags().IntVar(&port, "port", mockapi.DefaultPort, "Port to listen on (0 picks a free port)")
	cmd.Flags().BoolVar(&seed, "seed", false, "Start with a demo menu")
	return cmd
}
