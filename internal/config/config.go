package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration.
type Config struct {
	Seat     SeatConfig     `toml:"seat" yaml:"seat"`
	Keys     KeysConfig     `toml:"keys" yaml:"keys"`
	Commands CommandsConfig `toml:"commands" yaml:"commands"`
	Outputs  OutputsConfig  `toml:"outputs" yaml:"outputs"`
	Status   StatusConfig   `toml:"status" yaml:"status"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Bind     []BindConfig   `toml:"bind" yaml:"bind"`

	// Dir is the directory relative paths resolve against. It is set by
	// Load and never read from the file.
	Dir string `toml:"-" yaml:"-"`
}

// SeatConfig selects the seat and its keyboard map.
type SeatConfig struct {
	Name string `toml:"name" yaml:"name"`

	// Keymap is an XKB keymap file. Empty leaves the host's keymap alone.
	Keymap string `toml:"keymap" yaml:"keymap"`

	// WatchKeymap re-applies the keymap when the file changes.
	WatchKeymap bool `toml:"watch_keymap" yaml:"watch_keymap"`
}

// KeysConfig holds chord specs (see key.Parse) for the built-in menu.
type KeysConfig struct {
	Leader     string `toml:"leader" yaml:"leader"`
	Cancel     string `toml:"cancel" yaml:"cancel"`
	Quit       string `toml:"quit" yaml:"quit"`
	Close      string `toml:"close" yaml:"close"`
	Fullscreen string `toml:"fullscreen" yaml:"fullscreen"`
	FocusLeft  string `toml:"focus_left" yaml:"focus_left"`
	FocusDown  string `toml:"focus_down" yaml:"focus_down"`
	FocusUp    string `toml:"focus_up" yaml:"focus_up"`
	FocusRight string `toml:"focus_right" yaml:"focus_right"`

	// Launch opens the launch sub-menu holding Terminal, Browser and
	// Launcher.
	Launch   string `toml:"launch" yaml:"launch"`
	Terminal string `toml:"terminal" yaml:"terminal"`
	Browser  string `toml:"browser" yaml:"browser"`
	Launcher string `toml:"launcher" yaml:"launcher"`

	PowerMenu string `toml:"power_menu" yaml:"power_menu"`

	// Workspaces bind Key to show the workspace and Shift+Key to move the
	// focused window there.
	Workspaces []WorkspaceKey `toml:"workspaces" yaml:"workspaces"`

	// MaxDepth limits how deeply [[bind]] paths may nest layers. The
	// built-in menu needs 2.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
}

// WorkspaceKey pairs a chord with a workspace name.
type WorkspaceKey struct {
	Key  string `toml:"key" yaml:"key"`
	Name string `toml:"name" yaml:"name"`
}

// CommandsConfig holds argv lists for spawned programs.
type CommandsConfig struct {
	Terminal  []string `toml:"terminal" yaml:"terminal"`
	Browser   []string `toml:"browser" yaml:"browser"`
	Launcher  []string `toml:"launcher" yaml:"launcher"`
	PowerMenu []string `toml:"power_menu" yaml:"power_menu"`

	// Startup commands run once graphics are initialized.
	Startup [][]string `toml:"startup" yaml:"startup"`
}

// OutputsConfig names the connectors placed left and right.
type OutputsConfig struct {
	Left  string `toml:"left" yaml:"left"`
	Right string `toml:"right" yaml:"right"`
}

// StatusConfig configures the status clock.
type StatusConfig struct {
	Format string   `toml:"format" yaml:"format"`
	Period Duration `toml:"period" yaml:"period"`

	// Script is a Lua file defining status(now_unix). When set it replaces
	// Format.
	Script string `toml:"script" yaml:"script"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// BindConfig is an extra binding. Keys is a space separated chord path from
// the root layer; intermediate chords reuse or create sub-menus. Exactly one
// of Exec and Lua is set.
type BindConfig struct {
	Keys string   `toml:"keys" yaml:"keys"`
	Name string   `toml:"name" yaml:"name"`
	Exec []string `toml:"exec" yaml:"exec"`
	Lua  string   `toml:"lua" yaml:"lua"`
}

// Duration is a time.Duration written as "5s" in config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String formats like time.Duration.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}
