package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/wmconf/internal/config/loader"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WMCONF_"

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// WithFS reads config files from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvLoader replaces the environment source.
func WithEnvLoader(l *loader.EnvLoader) Option {
	return func(o *loadOptions) {
		o.env = l
	}
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.env = nil
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wmconf/wmconf.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "wmconf.toml"
	}
	return filepath.Join(dir, "wmconf", "wmconf.toml")
}

// Load layers the file at path and environment overrides over Default.
// A missing file is not an error. The result is not validated.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if path != "" {
		if _, err := loader.Decode(o.fs, path, cfg); err != nil {
			return nil, err
		}
		cfg.Dir = filepath.Dir(path)
	}

	if o.env != nil {
		if err := cfg.ApplyOverrides(o.env.Load()); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ApplyOverrides sets values by dotted path, e.g. "keys.leader". List
// values are split on whitespace.
func (c *Config) ApplyOverrides(values map[string]string) error {
	fields := c.fields()
	var errs []error
	for _, path := range loader.Paths(values) {
		raw := values[path]
		switch p := fields[path].(type) {
		case *string:
			*p = raw
		case *[]string:
			*p = strings.Fields(raw)
		case *int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			*p = n
		case *bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			*p = b
		case *Duration:
			if err := p.UnmarshalText([]byte(raw)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownEnv, path))
		}
	}
	return errors.Join(errs...)
}

// fields maps every scalar setting to a pointer into c.
func (c *Config) fields() map[string]any {
	return map[string]any{
		"seat.name":           &c.Seat.Name,
		"seat.keymap":         &c.Seat.Keymap,
		"seat.watch_keymap":   &c.Seat.WatchKeymap,
		"keys.leader":         &c.Keys.Leader,
		"keys.cancel":         &c.Keys.Cancel,
		"keys.quit":           &c.Keys.Quit,
		"keys.close":          &c.Keys.Close,
		"keys.fullscreen":     &c.Keys.Fullscreen,
		"keys.focus_left":     &c.Keys.FocusLeft,
		"keys.focus_down":     &c.Keys.FocusDown,
		"keys.focus_up":       &c.Keys.FocusUp,
		"keys.focus_right":    &c.Keys.FocusRight,
		"keys.launch":         &c.Keys.Launch,
		"keys.terminal":       &c.Keys.Terminal,
		"keys.browser":        &c.Keys.Browser,
		"keys.launcher":       &c.Keys.Launcher,
		"keys.power_menu":     &c.Keys.PowerMenu,
		"keys.max_depth":      &c.Keys.MaxDepth,
		"commands.terminal":   &c.Commands.Terminal,
		"commands.browser":    &c.Commands.Browser,
		"commands.launcher":   &c.Commands.Launcher,
		"commands.power_menu": &c.Commands.PowerMenu,
		"outputs.left":        &c.Outputs.Left,
		"outputs.right":       &c.Outputs.Right,
		"status.format":       &c.Status.Format,
		"status.period":       &c.Status.Period,
		"status.script":       &c.Status.Script,
		"logging.level":       &c.Logging.Level,
	}
}

// Resolve expands a leading "~" and makes relative paths relative to the
// config file's directory. Empty stays empty.
func (c *Config) Resolve(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~" || strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
		return path
	case filepath.IsAbs(path) || c.Dir == "":
		return path
	}
	return filepath.Join(c.Dir, path)
}
