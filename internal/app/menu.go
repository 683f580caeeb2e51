package app

import (
	"errors"
	"fmt"

	"github.com/dshills/wmconf/internal/config"
	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/input/key"
	"github.com/dshills/wmconf/internal/input/layer"
	"github.com/dshills/wmconf/internal/plugin/lua"
)

// BuildRootLayer authors the layer tree for cfg:
//
//	leader
//	├── quit, close, fullscreen
//	├── focus left/down/up/right
//	├── launch ─ terminal, browser, launcher
//	├── power menu
//	└── per workspace: key shows it, Shift+key moves the focused window
//
// followed by the [[bind]] entries. scripts may be nil when no entry uses
// Lua.
func BuildRootLayer(cfg *config.Config, h host.Host, seat host.Seat, scripts *lua.Runtime) (*layer.Tree, error) {
	p := &chordParser{}
	k := cfg.Keys

	b := layer.NewBuilder(p.parse("keys.cancel", k.Cancel), layer.WithMaxDepth(k.MaxDepth))
	root := b.Root()

	menu := root.Sub(p.parse("keys.leader", k.Leader), "menu")
	menu.Run(p.parse("keys.quit", k.Quit), "quit", func() error {
		h.Quit()
		return nil
	})
	menu.Run(p.parse("keys.close", k.Close), "close", func() error {
		seat.Close()
		return nil
	})
	menu.Run(p.parse("keys.fullscreen", k.Fullscreen), "fullscreen", func() error {
		seat.ToggleFullscreen()
		return nil
	})
	for _, f := range []struct {
		path, spec string
		dir        host.Direction
	}{
		{"keys.focus_left", k.FocusLeft, host.Left},
		{"keys.focus_down", k.FocusDown, host.Down},
		{"keys.focus_up", k.FocusUp, host.Up},
		{"keys.focus_right", k.FocusRight, host.Right},
	} {
		dir := f.dir
		menu.Run(p.parse(f.path, f.spec), "focus "+dir.String(), func() error {
			seat.Focus(dir)
			return nil
		})
	}

	launch := menu.Sub(p.parse("keys.launch", k.Launch), "launch")
	launch.Run(p.parse("keys.terminal", k.Terminal), "terminal", spawn(h, cfg.Commands.Terminal))
	launch.Run(p.parse("keys.browser", k.Browser), "browser", spawn(h, cfg.Commands.Browser))
	launch.Run(p.parse("keys.launcher", k.Launcher), "launcher", spawn(h, cfg.Commands.Launcher))

	menu.Run(p.parse("keys.power_menu", k.PowerMenu), "power menu", spawn(h, cfg.Commands.PowerMenu))

	for i, ws := range k.Workspaces {
		c := p.parse(fmt.Sprintf("keys.workspaces[%d]", i), ws.Key)
		handle := h.Workspace(ws.Name)
		menu.Run(c, "show workspace "+ws.Name, func() error {
			seat.ShowWorkspace(handle)
			return nil
		})
		menu.Run(c.With(key.ModShift), "move to workspace "+ws.Name, func() error {
			seat.SetWorkspace(handle)
			return nil
		})
	}

	for i, bc := range cfg.Bind {
		path, err := key.ParsePath(bc.Keys)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("bind[%d]: %w", i, err))
			continue
		}
		effect, err := bindEffect(h, scripts, bc)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("bind[%d]: %w", i, err))
			continue
		}
		root.Path(path, bc.BindName(), effect)
	}

	tree, err := b.Build()
	if err := errors.Join(append(p.errs, err)...); err != nil {
		return nil, err
	}
	return tree, nil
}

func bindEffect(h host.Host, scripts *lua.Runtime, bc config.BindConfig) (layer.Effect, error) {
	if len(bc.Exec) > 0 {
		return spawn(h, bc.Exec), nil
	}
	if scripts == nil {
		return nil, errors.New("lua binding without a script runtime")
	}
	return scripts.Effect(bc.BindName(), bc.Lua)
}

// spawn returns an effect launching argv through the host's launcher.
func spawn(h host.Host, argv []string) layer.Effect {
	return func() error {
		if len(argv) == 0 {
			return ErrEmptyCommand
		}
		return h.Launcher().Spawn(host.Command{Program: argv[0], Args: argv[1:]})
	}
}

// chordParser collects chord spec errors so every bad key is reported.
type chordParser struct {
	errs []error
}

func (p *chordParser) parse(path, spec string) key.Chord {
	c, err := key.Parse(spec)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", path, err))
	}
	return c
}
