package config

import (
	"time"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Seat: SeatConfig{
			Name:   "default",
			Keymap: "keymap.xkb",
		},
		Keys: KeysConfig{
			Leader:     "F1",
			Cancel:     "Escape",
			Quit:       "q",
			Close:      "w",
			Fullscreen: "f",
			FocusLeft:  "n",
			FocusDown:  "e",
			FocusUp:    "u",
			FocusRight: "i",
			Launch:     "d",
			Terminal:   "Return",
			Browser:    "b",
			Launcher:   "d",
			PowerMenu:  "l",
			Workspaces: []WorkspaceKey{
				{Key: "b", Name: "1"},
				{Key: "c", Name: "2"},
				{Key: "s", Name: "3"},
				{Key: "t", Name: "4"},
				{Key: "m", Name: "5"},
			},
			MaxDepth: 4,
		},
		Commands: CommandsConfig{
			Terminal:  []string{"alacritty", "-e", "toolbox", "run", "--container", "archlinux-toolbox-latest", "fish"},
			Browser:   []string{"flatpak", "run", "org.mozilla.firefox"},
			Launcher:  []string{"rofi", "-combi-modi", "window,drun", "-show", "combi", "-show-icons"},
			PowerMenu: []string{"~/.config/sway/power-menu"},
			Startup:   [][]string{{"mako"}},
		},
		Outputs: OutputsConfig{
			Left:  "eDP-1",
			Right: "DP-5",
		},
		Status: StatusConfig{
			Format: "%Y-%m-%d %H:%M",
			Period: Duration(5 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
