package preview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/wmconf/internal/app"
	"github.com/dshills/wmconf/internal/config"
	"github.com/dshills/wmconf/internal/host/memhost"
	"github.com/dshills/wmconf/internal/input/key"
	"github.com/dshills/wmconf/internal/launch"
	"github.com/dshills/wmconf/internal/logging"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{"letter", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), "s", true},
		{"upper letter", tcell.NewEventKey(tcell.KeyRune, 'S', tcell.ModNone), "Shift+s", true},
		{"alt letter", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), "Alt+x", true},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '4', tcell.ModNone), "4", true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space", true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Escape", true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Return", true},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "Shift+Tab", true},
		{"f1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), "F1", true},
		{"f12", tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone), "F12", true},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), "Left", true},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModCtrl), "Ctrl+w", true},
		{"punctuation", tcell.NewEventKey(tcell.KeyRune, '%', tcell.ModNone), "", false},
		{"f13", tcell.NewEventKey(tcell.KeyF13, 0, tcell.ModNone), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.ev)
			if ok != tt.ok {
				t.Fatalf("Translate() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if want := key.MustParse(tt.want); got != want {
				t.Errorf("Translate() = %v, want %v", got, want)
			}
		})
	}
}

type fixture struct {
	screen  tcell.SimulationScreen
	host    *memhost.Host
	dry     *launch.DryRun
	preview *Preview
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dry: launch.NewDryRun(logging.Null)}
	f.host = memhost.New(memhost.WithLauncher(f.dry))
	f.screen = tcell.NewSimulationScreen("UTF-8")
	if err := f.screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(f.screen.Fini)
	f.screen.SetSize(100, 30)

	f.preview = New(f.screen, f.host, WithCommands(f.dry.Commands))

	cfg := config.Default()
	cfg.Dir = t.TempDir()
	s, err := app.Configure(f.host, cfg, app.WithExecutor(f.preview.Post))
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	f.preview.session = s
	return f
}

func (f *fixture) key(k tcell.Key, r rune) bool {
	return f.preview.handle(tcell.NewEventKey(k, r, tcell.ModNone))
}

func (f *fixture) screenText() string {
	f.preview.draw()
	cells, w, h := f.screen.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			runes := cells[y*w+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestHandleDeliversChords(t *testing.T) {
	f := newFixture(t)

	if f.key(tcell.KeyF1, 0) {
		t.Fatal("F1 ended the preview")
	}
	if got := f.preview.session.Dispatcher.Tree(); got == nil {
		t.Fatal("no tree")
	}
	f.key(tcell.KeyRune, 'd')
	f.key(tcell.KeyEnter, 0)

	cmds := f.dry.Commands()
	if len(cmds) != 1 || cmds[0].Program != "alacritty" {
		t.Errorf("spawned %v", cmds)
	}
}

func TestHandleQuit(t *testing.T) {
	f := newFixture(t)
	f.key(tcell.KeyF1, 0)
	if !f.key(tcell.KeyRune, 'q') {
		t.Error("quit binding did not end the preview")
	}
}

func TestHandleCtrlC(t *testing.T) {
	f := newFixture(t)
	if !f.key(tcell.KeyCtrlC, 0) {
		t.Error("Ctrl+C did not end the preview")
	}
}

func TestHandleUnbound(t *testing.T) {
	f := newFixture(t)
	f.key(tcell.KeyRune, 'z')
	if !strings.Contains(f.preview.notice, "not bound") {
		t.Errorf("notice = %q", f.preview.notice)
	}
}

func TestHandleInterrupts(t *testing.T) {
	f := newFixture(t)
	ran := false
	if f.preview.handle(tcell.NewEventInterrupt(call{func() { ran = true }})) {
		t.Error("call ended the preview")
	}
	if !ran {
		t.Error("posted callback did not run")
	}
	if !f.preview.handle(tcell.NewEventInterrupt(stop{})) {
		t.Error("stop did not end the preview")
	}
}

func TestDraw(t *testing.T) {
	f := newFixture(t)
	f.host.Connect("eDP-1", 1920)
	f.host.Connect("DP-5", 2560)
	f.key(tcell.KeyF1, 0)
	f.key(tcell.KeyRune, 's')

	text := f.screenText()
	for _, want := range []string{
		f.host.Status(),
		"layer",
		"F1",
		"menu",
		"DP-5 2560px @1920,0",
		"default show_workspace 3",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
}

func TestDrawShowsOpenLayer(t *testing.T) {
	f := newFixture(t)
	f.key(tcell.KeyF1, 0)
	f.key(tcell.KeyRune, 'd')

	text := f.screenText()
	for _, want := range []string{"root > menu > launch", "Return", "terminal", "Escape", "cancel"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
}

type rejectingScreen struct {
	tcell.Screen
	err error
}

func (s rejectingScreen) PostEvent(tcell.Event) error { return s.err }

func TestPostLogsQueueError(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	screen := rejectingScreen{Screen: tcell.NewSimulationScreen("UTF-8"), err: errors.New("event queue closed")}
	p := New(screen, memhost.New(), WithLogger(log))

	p.Post(func() {})
	if got := buf.String(); !strings.Contains(got, "dropped callback: event queue closed") {
		t.Errorf("log = %q, want the queue error", got)
	}
}
