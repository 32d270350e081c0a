package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName is the configuration directory name and env prefix base.
const AppName = "scheduler"

// Config represents the complete scheduler configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig controls how the client reaches the task API
type APIConfig struct {
	// URL is the tasks collection endpoint (e.g. http://localhost:8080/api/tasks)
	URL string `mapstructure:"url"`
	// Token is sent with every request
	Token string `mapstructure:"token"`
	// AuthScheme selects the Authorization header form: "raw" or "bearer"
	AuthScheme string `mapstructure:"auth_scheme"`
	// Timeout bounds a single API call
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig controls the structured log
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// File is the log path; empty means <config dir>/scheduler.log
	File string `mapstructure:"file"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Glyphs is "unicode" or "ascii"
	Glyphs string `mapstructure:"glyphs"`
	// RefreshSchedule is a cron spec ("@every 1m", "*/5 * * * *"); empty disables periodic refetch
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

// ServerConfig controls `scheduler serve`
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Driver is "sqlite" or "mysql"
	Driver string `mapstructure:"driver"`
	// DSN is a file path for sqlite, a go-sql-driver DSN for mysql. Empty sqlite DSN means <config dir>/tasks.sqlite
	DSN string `mapstructure:"dsn"`
	// Token, when set, is required on every request
	Token string `mapstructure:"token"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:        "http://localhost:8080/api/tasks",
			AuthScheme: "raw",
			Timeout:    5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		TUI: TUIConfig{
			Glyphs:          "unicode",
			RefreshSchedule: "",
		},
		Server: ServerConfig{
			Addr:   "127.0.0.1:8080",
			Driver: "sqlite",
		},
	}
}

// SetDefaults registers defaults on v so they apply without a config file.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.url", d.API.URL)
	v.SetDefault("api.token", d.API.Token)
	v.SetDefault("api.auth_scheme", d.API.AuthScheme)
	v.SetDefault("api.timeout", d.API.Timeout)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)

	v.SetDefault("tui.glyphs", d.TUI.Glyphs)
	v.SetDefault("tui.refresh_schedule", d.TUI.RefreshSchedule)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.driver", d.Server.Driver)
	v.SetDefault("server.dsn", d.Server.DSN)
	v.SetDefault("server.token", d.Server.Token)
}

// NewViper returns a viper instance with defaults, SCHEDULER_* env binding and the
// config file (explicit path, or config.yaml in the config dir / cwd) read if present.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	// SCHEDULER_API_URL for api.url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist; the default location is optional.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LogPath resolves the effective log file path.
func (c *Config) LogPath() string {
	if p := strings.TrimSpace(c.Logging.File); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), AppName+".log")
}

// ServerDSN resolves the effective store DSN.
func (c *Config) ServerDSN() string {
	if dsn := strings.TrimSpace(c.Server.DSN); dsn != "" {
		return dsn
	}
	if strings.EqualFold(c.Server.Driver, "sqlite") {
		return filepath.Join(ConfigDir(), "tasks.sqlite")
	}
	return ""
}
