package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"scheduler-cli/internal/api"
	"scheduler-cli/internal/config"
	"scheduler-cli/internal/format"
	"scheduler-cli/internal/logging"
	"scheduler-cli/internal/service"
	"scheduler-cli/internal/store"
	"scheduler-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigFile string
	PrettyJSON bool
	Format     string

	cfg            *config.Config
	configFileUsed string
	log            *logging.Logger

	// Seams for tests.
	newService func(ctx context.Context, cfg *config.Config) (service.Service, error)
	runTUI     func(ctx context.Context, opt tui.Options) error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.newService == nil {
		app.newService = newAPIService
	}
	if app.runTUI == nil {
		app.runTUI = tui.Run
	}

	cmd := &cobra.Command{
		Use:          "scheduler",
		Short:        "Task scheduler TUI + CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  scheduler

  # Scriptable commands
  scheduler tasks list --active
  scheduler tasks add Buy milk

  # Shortcut for: scheduler tasks done <id>
  scheduler done 3f2a...

  # Run the reference API locally
  scheduler serve --addr 127.0.0.1:8080
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.load(); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.log.Close()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("SCHEDULER_CONFIG", ""), "Config file (default: $XDG_CONFIG_HOME/scheduler/config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SCHEDULER_FORMAT", format.JSON), "Output format ("+strings.Join(format.Names, "|")+")")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// load reads configuration and opens the log. Called once per invocation.
func (app *App) load() error {
	v, err := config.NewViper(app.ConfigFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.configFileUsed = v.ConfigFileUsed()

	log, err := logging.NewLogger(cfg.LogPath(), cfg.Logging.Level)
	if err != nil {
		return err
	}
	app.log = log.WithComponent("cli")
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	if errs := app.cfg.Validate(); len(errs) > 0 {
		return writeErr(cmd, errs)
	}
	svc, err := app.newService(cmd.Context(), app.cfg)
	if err != nil {
		return writeErr(cmd, err)
	}
	sched, err := config.ParseRefreshSchedule(app.cfg.TUI.RefreshSchedule)
	if err != nil {
		return writeErr(cmd, err)
	}
	return app.runTUI(cmd.Context(), tui.Options{
		Service:         svc,
		Logger:          app.log,
		StateDir:        &store.StateDir{Dir: config.ConfigDir()},
		Glyphs:          app.cfg.TUI.Glyphs,
		RefreshSchedule: sched,
	})
}

func newAPIService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if cfg == nil {
		return nil, errors.New("missing config")
	}
	return api.New(ctx, api.Options{
		BaseURL:    cfg.API.URL,
		Token:      cfg.API.Token,
		AuthScheme: cfg.API.AuthScheme,
		Timeout:    cfg.API.Timeout,
	})
}

// service builds the task service for a command.
func (app *App) service(cmd *cobra.Command) (service.Service, error) {
	return app.newService(cmd.Context(), app.cfg)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes v as is.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// writeData wraps data in the {"data": ...} envelope. Text output skips the envelope.
func writeData(cmd *cobra.Command, app *App, data any, meta map[string]any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), format.Text) {
		return writeOut(cmd, app, data)
	}
	env := map[string]any{"data": data}
	if len(meta) > 0 {
		env["meta"] = meta
	}
	return writeOut(cmd, app, env)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
