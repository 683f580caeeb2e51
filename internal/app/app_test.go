package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/wmconf/internal/config"
	"github.com/dshills/wmconf/internal/dispatcher"
	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/host/memhost"
	"github.com/dshills/wmconf/internal/input/key"
	"github.com/dshills/wmconf/internal/input/layer"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 42, 0, time.Local)

type env struct {
	host    *memhost.Host
	seat    *memhost.Seat
	rec     *memhost.Recorder
	session *Session
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	return cfg
}

func configure(t *testing.T, cfg *config.Config, setup ...func(*memhost.Host)) *env {
	t.Helper()
	e := &env{rec: &memhost.Recorder{}}
	e.host = memhost.New(memhost.WithLauncher(e.rec))
	e.seat = e.host.MustSeat(memhost.DefaultSeat)
	for _, fn := range setup {
		fn(e.host)
	}
	s, err := Configure(e.host, cfg, WithNow(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	e.session = s
	return e
}

func (e *env) press(t *testing.T, specs ...string) {
	t.Helper()
	for _, spec := range specs {
		if !e.seat.Press(key.MustParse(spec)) {
			t.Fatalf("press %q: nothing bound (installed %v)", spec, e.seat.Installed())
		}
	}
}

func chords(specs ...string) []key.Chord {
	out := make([]key.Chord, len(specs))
	for i, s := range specs {
		out[i] = key.MustParse(s)
	}
	memhost.SortChords(out)
	return out
}

func TestRootInstallsOnlyLeader(t *testing.T) {
	e := configure(t, testConfig(t))
	if got, want := e.seat.Installed(), chords("F1"); !reflect.DeepEqual(got, want) {
		t.Errorf("root installed = %v, want %v", got, want)
	}
}

func TestLeaderInstallsMenu(t *testing.T) {
	e := configure(t, testConfig(t))
	e.press(t, "F1")

	want := chords(
		"q", "w", "f", "n", "e", "u", "i", "d", "l",
		"b", "B", "c", "C", "s", "S", "t", "T", "m", "M",
		"Escape",
	)
	if got := e.seat.Installed(); !reflect.DeepEqual(got, want) {
		t.Errorf("menu installed = %v, want %v", got, want)
	}
}

func TestShowWorkspaceThree(t *testing.T) {
	e := configure(t, testConfig(t))
	e.press(t, "F1", "s")

	if n := e.host.CountEvents("show_workspace", "3"); n != 1 {
		t.Errorf("show_workspace 3 = %d, want 1", n)
	}
	if got, want := e.seat.Installed(), chords("F1"); !reflect.DeepEqual(got, want) {
		t.Errorf("installed after action = %v, want %v", got, want)
	}
}

func TestMoveToWorkspace(t *testing.T) {
	e := configure(t, testConfig(t))
	e.press(t, "F1", "Shift+m")

	if n := e.host.CountEvents("set_workspace", "5"); n != 1 {
		t.Errorf("set_workspace 5 = %d, want 1", n)
	}
	if e.seat.IsBound(key.MustParse("M")) {
		t.Error("Shift+m still bound after reset")
	}
}

func TestCancelRunsNothing(t *testing.T) {
	e := configure(t, testConfig(t))
	before := len(e.host.Events())
	e.press(t, "F1", "Escape")

	if got := e.host.Events()[before:]; len(got) != 0 {
		t.Errorf("cancel produced events %v", got)
	}
	if e.session.Dispatcher.Active() != layer.RootID {
		t.Error("not back at root")
	}
}

func TestMenuActions(t *testing.T) {
	tests := []struct {
		keys []string
		op   string
		arg  string
	}{
		{[]string{"F1", "w"}, "close", ""},
		{[]string{"F1", "f"}, "toggle_fullscreen", ""},
		{[]string{"F1", "n"}, "focus", "left"},
		{[]string{"F1", "e"}, "focus", "down"},
		{[]string{"F1", "u"}, "focus", "up"},
		{[]string{"F1", "i"}, "focus", "right"},
		{[]string{"F1", "b"}, "show_workspace", "1"},
		{[]string{"F1", "C"}, "set_workspace", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.op+tt.arg, func(t *testing.T) {
			e := configure(t, testConfig(t))
			e.press(t, tt.keys...)
			if n := e.host.CountEvents(tt.op, tt.arg); n != 1 {
				t.Errorf("%s %s = %d, want 1 (events %v)", tt.op, tt.arg, n, e.host.Events())
			}
		})
	}
}

func TestQuit(t *testing.T) {
	e := configure(t, testConfig(t))
	e.press(t, "F1", "q")
	if !e.host.QuitRequested() {
		t.Error("quit not requested")
	}
}

func TestLaunchSubMenu(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"Return", "alacritty -e toolbox run --container archlinux-toolbox-latest fish"},
		{"b", "flatpak run org.mozilla.firefox"},
		{"d", "rofi -combi-modi window,drun -show combi -show-icons"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			e := configure(t, testConfig(t))
			e.press(t, "F1", "d")
			if got, want := e.seat.Installed(), chords("Return", "b", "d", "Escape"); !reflect.DeepEqual(got, want) {
				t.Fatalf("launch installed = %v, want %v", got, want)
			}
			e.press(t, tt.key)
			cmds := e.rec.Commands()
			if len(cmds) != 1 || cmds[0].String() != tt.want {
				t.Errorf("spawned %v, want %q", cmds, tt.want)
			}
			if e.session.Dispatcher.Active() != layer.RootID {
				t.Error("not back at root")
			}
		})
	}
}

func TestPowerMenu(t *testing.T) {
	e := configure(t, testConfig(t))
	e.press(t, "F1", "l")
	cmds := e.rec.Commands()
	if len(cmds) != 1 || cmds[0].Program != "~/.config/sway/power-menu" {
		t.Errorf("spawned %v", cmds)
	}
}

func TestStartupOnGraphicsInitialized(t *testing.T) {
	e := configure(t, testConfig(t))
	if n := len(e.rec.Commands()); n != 0 {
		t.Fatalf("spawned %d commands before graphics init", n)
	}
	e.host.InitializeGraphics()
	cmds := e.rec.Commands()
	if len(cmds) != 1 || cmds[0].Program != "mako" {
		t.Errorf("startup spawned %v", cmds)
	}
}

func TestInputDevicesJoinSeat(t *testing.T) {
	var existing *memhost.Device
	e := configure(t, testConfig(t), func(h *memhost.Host) {
		existing = h.AddDevice("keyboard", false)
	})
	plugged := e.host.AddDevice("mouse", true)

	for _, d := range []*memhost.Device{existing, plugged} {
		if d.Seat() != host.Seat(e.seat) {
			t.Errorf("device %s seat = %v", d.Name(), d.Seat())
		}
	}
}

func TestStatusAndOutputs(t *testing.T) {
	e := configure(t, testConfig(t), func(h *memhost.Host) {
		h.Connect("eDP-1", 1920)
	})

	if got := e.host.Status(); got != "2024-03-09 14:05" {
		t.Errorf("status = %q", got)
	}
	if _, _, armed := e.host.MustTimer("status_timer").Schedule(); !armed {
		t.Error("status timer not armed")
	}

	right := e.host.Connect("DP-5", 2560)
	if x, y := right.Position(); x != 1920 || y != 0 {
		t.Errorf("DP-5 at %d,%d, want 1920,0", x, y)
	}
}

func TestKeymapApplied(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.Dir, "keymap.xkb"), []byte("xkb_keymap {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	e := configure(t, cfg)
	if got := string(e.seat.Keymap()); got != "xkb_keymap {}" {
		t.Errorf("Keymap() = %q", got)
	}
}

func TestMissingKeymapIsSkipped(t *testing.T) {
	e := configure(t, testConfig(t))
	if n := e.host.CountEvents("set_keymap", ""); n != 0 {
		t.Errorf("set_keymap called %d times", n)
	}
}

func TestUserBindings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bind = []config.BindConfig{
		{Keys: "F1 x", Name: "screenshot", Exec: []string{"grim"}},
		{Keys: "F1 d f", Lua: `wm.show_workspace("files")`},
		{Keys: "Logo+Return", Exec: []string{"foot"}},
	}
	e := configure(t, cfg)

	e.press(t, "F1", "x")
	e.press(t, "F1", "d", "f")
	e.press(t, "Logo+Return")

	cmds := e.rec.Commands()
	if len(cmds) != 2 || cmds[0].Program != "grim" || cmds[1].Program != "foot" {
		t.Errorf("spawned %v", cmds)
	}
	if n := e.host.CountEvents("show_workspace", "files"); n != 1 {
		t.Errorf("lua binding ran %d times", n)
	}
}

func TestConfigureErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		op     string
	}{
		{"invalid", func(c *config.Config) { c.Keys.Leader = "" }, "validate"},
		{"unknown seat", func(c *config.Config) { c.Seat.Name = "seat9" }, "get seat"},
		{"collision", func(c *config.Config) { c.Keys.Close = "q" }, "build layers"},
		{"cancel collision", func(c *config.Config) { c.Keys.Fullscreen = "Escape" }, "build layers"},
		{"bad lua", func(c *config.Config) {
			c.Bind = []config.BindConfig{{Keys: "F1 x", Lua: "wm.quit("}}
		}, "build layers"},
		{"missing status script", func(c *config.Config) { c.Status.Script = "absent.lua" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			h := memhost.New()
			_, err := Configure(h, cfg)
			var oe *OperationError
			if !errors.As(err, &oe) {
				t.Fatalf("Configure() error = %v, want *OperationError", err)
			}
			if oe.Op != tt.op {
				t.Errorf("Op = %q, want %q (%v)", oe.Op, tt.op, err)
			}
			if got := h.MustSeat(memhost.DefaultSeat).Installed(); len(got) != 0 {
				t.Errorf("chords left bound: %v", got)
			}
		})
	}
}

func TestBindFailureLeavesNothingBound(t *testing.T) {
	h := memhost.New()
	seat := h.MustSeat(memhost.DefaultSeat)
	seat.FailBind(key.MustParse("F1"), errors.New("grabbed"))

	_, err := Configure(h, testConfig(t))
	if !errors.Is(err, dispatcher.ErrBindFailed) {
		t.Fatalf("Configure() error = %v, want ErrBindFailed", err)
	}
	if got := seat.Installed(); len(got) != 0 {
		t.Errorf("chords left bound: %v", got)
	}
}

func TestStatusScript(t *testing.T) {
	cfg := testConfig(t)
	cfg.Status.Script = "status.lua"
	code := `function status(now) return "up " .. string.format("%d", now % 60) end`
	if err := os.WriteFile(filepath.Join(cfg.Dir, "status.lua"), []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	e := configure(t, cfg)
	want := fmt.Sprintf("up %d", fixedNow.Unix()%60)
	if got := e.host.Status(); got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}

func TestBindDepthLimit(t *testing.T) {
	deep := []config.BindConfig{{Keys: "F1 d x y z", Exec: []string{"grim"}}}

	cfg := testConfig(t)
	cfg.Keys.MaxDepth = 3
	cfg.Bind = deep
	h := memhost.New()
	_, err := Configure(h, cfg)
	if !errors.Is(err, layer.ErrTooDeep) {
		t.Fatalf("Configure() error = %v, want ErrTooDeep", err)
	}

	cfg = testConfig(t)
	cfg.Keys.MaxDepth = 4
	cfg.Bind = deep
	e := configure(t, cfg)
	e.press(t, "F1", "d", "x", "y", "z")
	if cmds := e.rec.Commands(); len(cmds) != 1 || cmds[0].Program != "grim" {
		t.Errorf("spawned %v", cmds)
	}
}
