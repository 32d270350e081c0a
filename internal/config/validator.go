package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "api.url")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func ValidLogLevels() []string   { return []string{"debug", "info", "warn", "error"} }
func ValidAuthSchemes() []string { return []string{"raw", "bearer"} }
func ValidGlyphs() []string      { return []string{"unicode", "ascii"} }
func ValidDrivers() []string     { return []string{"sqlite", "mysql"} }

// ParseRefreshSchedule parses tui.refresh_schedule. Empty returns (nil, nil).
func ParseRefreshSchedule(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	return cron.ParseStandard(spec)
}

// Validate checks the Config and returns every problem found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if u, err := url.Parse(strings.TrimSpace(c.API.URL)); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.url", Value: c.API.URL, Message: "must be an absolute http(s) URL"})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{Field: "api.url", Value: c.API.URL, Message: "scheme must be http or https"})
	}
	if !slices.Contains(ValidAuthSchemes(), strings.ToLower(c.API.AuthScheme)) {
		errs = append(errs, ValidationError{
			Field:   "api.auth_scheme",
			Value:   c.API.AuthScheme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidAuthSchemes(), ", ")),
		})
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "api.timeout", Value: c.API.Timeout, Message: "must be positive"})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if !slices.Contains(ValidGlyphs(), strings.ToLower(c.TUI.Glyphs)) {
		errs = append(errs, ValidationError{
			Field:   "tui.glyphs",
			Value:   c.TUI.Glyphs,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidGlyphs(), ", ")),
		})
	}
	if _, err := ParseRefreshSchedule(c.TUI.RefreshSchedule); err != nil {
		errs = append(errs, ValidationError{Field: "tui.refresh_schedule", Value: c.TUI.RefreshSchedule, Message: err.Error()})
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Value: c.Server.Addr, Message: "must not be empty"})
	}
	if !slices.Contains(ValidDrivers(), strings.ToLower(c.Server.Driver)) {
		errs = append(errs, ValidationError{
			Field:   "server.driver",
			Value:   c.Server.Driver,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDrivers(), ", ")),
		})
	} else if strings.EqualFold(c.Server.Driver, "mysql") && strings.TrimSpace(c.Server.DSN) == "" {
		errs = append(errs, ValidationError{Field: "server.dsn", Value: c.Server.DSN, Message: "required for mysql"})
	}

	return errs
}
