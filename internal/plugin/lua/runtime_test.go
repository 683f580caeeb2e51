package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/wmconf/internal/host/memhost"
)

func newRuntime(t *testing.T, opts ...Option) (*Runtime, *memhost.Host) {
	t.Helper()
	h := memhost.New()
	r := New(h, h.MustSeat(memhost.DefaultSeat), opts...)
	t.Cleanup(r.Close)
	return r, h
}

func TestWMTableReachesSeat(t *testing.T) {
	r, h := newRuntime(t)
	code := `
wm.show_workspace("3")
wm.set_workspace("4")
wm.focus("left")
wm.close()
wm.fullscreen()
wm.status("hello")
`
	if err := r.DoString(code); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	want := []string{
		"default show_workspace 3",
		"default set_workspace 4",
		"default focus left",
		"default close",
		"default toggle_fullscreen",
	}
	events := h.Events()
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i, e := range events {
		if e.String() != want[i] {
			t.Errorf("event %d = %q, want %q", i, e.String(), want[i])
		}
	}
	if h.Status() != "hello" {
		t.Errorf("Status() = %q", h.Status())
	}
}

func TestSpawnAndQuit(t *testing.T) {
	rec := &memhost.Recorder{}
	h := memhost.New(memhost.WithLauncher(rec))
	r := New(h, h.MustSeat(memhost.DefaultSeat))
	defer r.Close()

	if err := r.DoString(`wm.spawn("rofi", "-show", "combi") wm.quit()`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	cmds := rec.Commands()
	if len(cmds) != 1 || cmds[0].String() != "rofi -show combi" {
		t.Errorf("Commands() = %v", cmds)
	}
	if !h.QuitRequested() {
		t.Error("quit not requested")
	}
}

func TestSpawnFailureRaises(t *testing.T) {
	rec := &memhost.Recorder{}
	rec.FailWith(errors.New("not found"))
	h := memhost.New(memhost.WithLauncher(rec))
	r := New(h, h.MustSeat(memhost.DefaultSeat))
	defer r.Close()

	err := r.DoString(`wm.spawn("nope")`)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("DoString() error = %v, want spawn failure", err)
	}
}

func TestFocusRejectsBadDirection(t *testing.T) {
	r, h := newRuntime(t)
	if err := r.DoString(`wm.focus("sideways")`); err == nil {
		t.Error("DoString() error = nil")
	}
	if len(h.Events()) != 0 {
		t.Errorf("events = %v", h.Events())
	}
}

func TestSandbox(t *testing.T) {
	r, _ := newRuntime(t)
	for _, code := range []string{
		`io.write("x")`,
		`os.execute("true")`,
		`dofile("/etc/passwd")`,
		`loadstring("return 1")()`,
		`require("os")`,
	} {
		if err := r.DoString(code); err == nil {
			t.Errorf("DoString(%q) succeeded in the sandbox", code)
		}
	}
	if err := r.DoString(`assert(string.upper("a") == "A" and math.floor(1.5) == 1 and table.concat({"a"}) == "a")`); err != nil {
		t.Errorf("safe libraries unavailable: %v", err)
	}
}

func TestEffect(t *testing.T) {
	r, h := newRuntime(t)
	eff, err := r.Effect("bind", `wm.show_workspace("web")`)
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}
	if len(h.Events()) != 0 {
		t.Fatal("Effect() ran the code at compile time")
	}
	for i := 0; i < 2; i++ {
		if err := eff(); err != nil {
			t.Fatalf("effect error = %v", err)
		}
	}
	if n := h.CountEvents("show_workspace", "web"); n != 2 {
		t.Errorf("show_workspace web = %d, want 2", n)
	}
}

func TestEffectSyntaxError(t *testing.T) {
	r, _ := newRuntime(t)
	if _, err := r.Effect("bad", `wm.show_workspace(`); err == nil {
		t.Error("Effect() error = nil for a syntax error")
	}
}

func TestTimeout(t *testing.T) {
	r, _ := newRuntime(t, WithTimeout(50*time.Millisecond))
	start := time.Now()
	if err := r.DoString(`while true do end`); err == nil {
		t.Fatal("infinite loop returned nil")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout took %v", time.Since(start))
	}
	if err := r.DoString(`wm.status("still alive")`); err != nil {
		t.Errorf("runtime unusable after timeout: %v", err)
	}
}

func TestClosed(t *testing.T) {
	h := memhost.New()
	r := New(h, h.MustSeat(memhost.DefaultSeat))
	r.Close()
	r.Close()
	if err := r.DoString(`x = 1`); !errors.Is(err, ErrClosed) {
		t.Errorf("DoString() after Close = %v, want ErrClosed", err)
	}
}

func TestStatusScriptAfterClose(t *testing.T) {
	h := memhost.New()
	r := New(h, h.MustSeat(memhost.DefaultSeat))
	if err := r.DoString(`function status(n) return "x" end`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	r.Close()
	_, err := r.statusScript()
	if !errors.Is(err, ErrClosed) {
		t.Errorf("statusScript() after Close = %v, want ErrClosed", err)
	}
	if errors.Is(err, ErrNoStatusFunc) {
		t.Errorf("statusScript() after Close reported ErrNoStatusFunc")
	}
}

func TestStatusScript(t *testing.T) {
	r, _ := newRuntime(t)
	path := filepath.Join(t.TempDir(), "status.lua")
	code := `function status(now) return string.format("t=%d", now) end`
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := r.LoadStatus(path)
	if err != nil {
		t.Fatalf("LoadStatus() error = %v", err)
	}
	got, err := s.Format(time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != "t=1700000000" {
		t.Errorf("Format() = %q", got)
	}
}

func TestStatusScriptErrors(t *testing.T) {
	r, _ := newRuntime(t)
	if _, err := r.LoadStatusString(`x = 1`); !errors.Is(err, ErrNoStatusFunc) {
		t.Errorf("missing status() error = %v, want ErrNoStatusFunc", err)
	}
	s, err := r.LoadStatusString(`function status(now) return nil end`)
	if err != nil {
		t.Fatalf("LoadStatusString() error = %v", err)
	}
	if _, err := s.Format(time.Now()); !errors.Is(err, ErrBadStatus) {
		t.Errorf("Format() error = %v, want ErrBadStatus", err)
	}
}
