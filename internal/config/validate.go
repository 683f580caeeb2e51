package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/wmconf/internal/input/key"
	"github.com/dshills/wmconf/internal/logging"
)

// minDepth is the nesting of the built-in launch sub-menu.
const minDepth = 2

// Validate reports every problem found, joined. Each wraps ErrInvalid.
// Chord collisions inside a menu are left to the layer builder.
func (c *Config) Validate() error {
	v := &validator{}

	v.nonEmpty("seat.name", c.Seat.Name)

	k := c.Keys
	for _, f := range []struct{ path, spec string }{
		{"keys.leader", k.Leader},
		{"keys.cancel", k.Cancel},
		{"keys.quit", k.Quit},
		{"keys.close", k.Close},
		{"keys.fullscreen", k.Fullscreen},
		{"keys.focus_left", k.FocusLeft},
		{"keys.focus_down", k.FocusDown},
		{"keys.focus_up", k.FocusUp},
		{"keys.focus_right", k.FocusRight},
		{"keys.launch", k.Launch},
		{"keys.terminal", k.Terminal},
		{"keys.browser", k.Browser},
		{"keys.launcher", k.Launcher},
		{"keys.power_menu", k.PowerMenu},
	} {
		v.chord(f.path, f.spec)
	}

	seen := make(map[string]bool)
	for i, ws := range k.Workspaces {
		path := fmt.Sprintf("keys.workspaces[%d]", i)
		ch, ok := v.chord(path+".key", ws.Key)
		if ok && ch.Mods.Has(key.ModShift) {
			v.errorf("%s.key: %q already has Shift, which is reserved for moving", path, ws.Key)
		}
		v.nonEmpty(path+".name", ws.Name)
		if seen[ws.Name] {
			v.errorf("%s.name: duplicate workspace %q", path, ws.Name)
		}
		seen[ws.Name] = true
	}

	if k.MaxDepth < minDepth {
		v.errorf("keys.max_depth: %d is below %d, the depth of the launch menu", k.MaxDepth, minDepth)
	}

	cmds := c.Commands
	v.command("commands.terminal", cmds.Terminal)
	v.command("commands.browser", cmds.Browser)
	v.command("commands.launcher", cmds.Launcher)
	v.command("commands.power_menu", cmds.PowerMenu)
	for i, cmd := range cmds.Startup {
		v.command(fmt.Sprintf("commands.startup[%d]", i), cmd)
	}

	v.nonEmpty("outputs.left", c.Outputs.Left)
	v.nonEmpty("outputs.right", c.Outputs.Right)
	if c.Outputs.Left != "" && c.Outputs.Left == c.Outputs.Right {
		v.errorf("outputs: left and right are both %q", c.Outputs.Left)
	}

	if c.Status.Script == "" {
		v.nonEmpty("status.format", c.Status.Format)
	}
	if c.Status.Period <= 0 {
		v.errorf("status.period: must be positive, got %v", c.Status.Period)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		v.errorf("logging.level: %v", err)
	}

	for i, b := range c.Bind {
		path := fmt.Sprintf("bind[%d]", i)
		if _, err := key.ParsePath(b.Keys); err != nil {
			v.errorf("%s.keys: %v", path, err)
		}
		hasExec, hasLua := len(b.Exec) > 0, strings.TrimSpace(b.Lua) != ""
		switch {
		case hasExec && hasLua:
			v.errorf("%s: exec and lua are mutually exclusive", path)
		case !hasExec && !hasLua:
			v.errorf("%s: one of exec or lua is required", path)
		case hasExec:
			v.command(path+".exec", b.Exec)
		}
	}

	return v.err()
}

// BindName returns b.Name, or its key path when unnamed.
func (b BindConfig) BindName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Keys
}

type validator struct {
	errs []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
}

func (v *validator) nonEmpty(path, s string) {
	if strings.TrimSpace(s) == "" {
		v.errorf("%s: must not be empty", path)
	}
}

func (v *validator) chord(path, spec string) (key.Chord, bool) {
	c, err := key.Parse(spec)
	if err != nil {
		v.errorf("%s: %v", path, err)
		return key.Chord{}, false
	}
	return c, true
}

func (v *validator) command(path string, argv []string) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		v.errorf("%s: empty command", path)
	}
}

func (v *validator) err() error {
	return errors.Join(v.errs...)
}
