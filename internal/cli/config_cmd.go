package cli

import (
	"scheduler-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (tokens redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeData(cmd, app, redacted(app.cfg), map[string]any{
				"file":      app.configFileUsed,
				"configDir": config.ConfigDir(),
				"logFile":   app.cfg.LogPath(),
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := app.cfg.Validate(); len(errs) > 0 {
				return writeErr(cmd, errs)
			}
			return writeData(cmd, app, map[string]any{"valid": true, "file": app.configFileUsed}, nil)
		},
	})
	return cmd
}

func redacted(c *config.Config) map[string]any {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	return map[string]any{
		"api": map[string]any{
			"url":         c.API.URL,
			"token":       mask(c.API.Token),
			"auth_scheme": c.API.AuthScheme,
			"timeout":     c.API.Timeout.String(),
		},
		"logging": map[string]any{
			"level": c.Logging.Level,
			"file":  c.LogPath(),
		},
		"tui": map[string]any{
			"glyphs":           c.TUI.Glyphs,
			"refresh_schedule": c.TUI.RefreshSchedule,
		},
		"server": map[string]any{
			"addr":   c.Server.Addr,
			"driver": c.Server.Driver,
			"dsn":    c.ServerDSN(),
			"token":  mask(c.Server.Token),
		},
	}
}
