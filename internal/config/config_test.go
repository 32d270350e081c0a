package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, "raw", cfg.API.AuthScheme)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Server.Driver)
}

func TestNewViper_ReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  url: https://tasks.example.test/api/tasks
  timeout: 2s
tui:
  glyphs: ascii
  refresh_schedule: "@every 30s"
`), 0o600))
	t.Setenv("SCHEDULER_API_TOKEN", "secret")
	t.Setenv("SCHEDULER_LOGGING_LEVEL", "debug")

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.test/api/tasks", cfg.API.URL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "ascii", cfg.TUI.Glyphs)
	// Untouched keys keep defaults.
	assert.Equal(t, "raw", cfg.API.AuthScheme)
	assert.Empty(t, cfg.Validate())
}

func TestNewViper_MissingExplicitFileFails(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewViper_MissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default().API.URL, cfg.API.URL)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.API.URL = "not a url"
	cfg.API.AuthScheme = "basic"
	cfg.API.Timeout = 0
	cfg.Logging.Level = "loud"
	cfg.TUI.Glyphs = "emoji"
	cfg.TUI.RefreshSchedule = "every now and then"
	cfg.Server.Driver = "mysql"
	cfg.Server.DSN = ""

	errs := cfg.Validate()
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{"api.url", "api.auth_scheme", "api.timeout", "logging.level", "tui.glyphs", "tui.refresh_schedule", "server.dsn"} {
		assert.True(t, fields[f], "expected a validation error for %s", f)
	}
	assert.Contains(t, errs.Error(), "validation errors")
}

func TestParseRefreshSchedule(t *testing.T) {
	s, err := ParseRefreshSchedule("")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = ParseRefreshSchedule("@every 1m")
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Minute), s.Next(now))
}

func TestConfigDir_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "scheduler"), ConfigDir())

	cfg := Default()
	assert.Equal(t, filepath.Join(dir, "scheduler", "scheduler.log"), cfg.LogPath())
	assert.Equal(t, filepath.Join(dir, "scheduler", "tasks.sqlite"), cfg.ServerDSN())

	cfg.Server.DSN = "/tmp/x.sqlite"
	assert.Equal(t, "/tmp/x.sqlite", cfg.ServerDSN())
}
