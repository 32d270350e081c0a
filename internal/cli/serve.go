package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"scheduler-cli/internal/server"
	"scheduler-cli/internal/store"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var driver string
	var dsn string
	var token string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference task API (sqlite or mysql)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("driver") {
				cfg.Driver = driver
			}
			if cmd.Flags().Changed("dsn") {
				cfg.DSN = dsn
			}
			if cmd.Flags().Changed("token") {
				cfg.Token = token
			}
			resolved := *app.cfg
			resolved.Server = cfg
			if errs := resolved.Validate(); len(errs) > 0 {
				return writeErr(cmd, errs)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := store.OpenTaskStore(ctx, cfg.Driver, resolved.ServerDSN())
			if err != nil {
				return writeErr(cmd, fmt.Errorf("open store: %w", err))
			}
			defer st.Close()

			log := app.log.With("driver", st.Driver())
			srv := server.New(server.ServerConfig{Addr: cfg.Addr, Token: cfg.Token}, st, log)
			fmt.Fprintf(cmd.ErrOrStderr(), "serving http://%s%s (%s)\n", cfg.Addr, server.BasePath, st.Driver())
			if err := srv.ListenAndServe(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	cmd.Flags().StringVar(&driver, "driver", "", "Store driver: sqlite|mysql (default: server.driver)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "sqlite path or mysql DSN (default: server.dsn)")
	cmd.Flags().StringVar(&token, "token", "", "Require this token on every request (default: server.token)")
	return cmd
}
