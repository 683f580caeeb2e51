package watcher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/wmconf/internal/host/memhost"
)

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func waitFor(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}
	return Event{}
}

func TestWatcherDeliversWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keymap.xkb")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	events := make(chan Event, 16)
	w, err := New(path, func(ev Event) { events <- ev }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	ev := waitFor(t, events)
	if ev.Path != w.Path() {
		t.Errorf("event path = %q, want %q", ev.Path, w.Path())
	}
	if ev.Op == OpRemove {
		t.Errorf("event op = %v, want write or create", ev.Op)
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keymap.xkb")
	events := make(chan Event, 16)
	w, err := New(path, func(ev Event) { events <- ev }, WithDebounce(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		t.Errorf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keymap.xkb")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}
	events := make(chan Event, 16)
	w, err := New(path, func(ev Event) { events <- ev }, WithDebounce(300*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, events)
	select {
	case ev := <-events:
		t.Errorf("burst delivered more than once: %+v", ev)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestCloseTwice(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "k"), func(Event) {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != ErrClosed {
		t.Errorf("second Close() = %v, want ErrClosed", err)
	}
}

func TestKeymapReloader(t *testing.T) {
	h := memhost.New()
	seat := h.MustSeat(memhost.DefaultSeat)
	path := filepath.Join(t.TempDir(), "keymap.xkb")
	if err := os.WriteFile(path, []byte("xkb_keymap {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	reload := KeymapReloader(seat, nil)
	reload(Event{Path: path, Op: OpWrite})
	if !bytes.Equal(seat.Keymap(), []byte("xkb_keymap {}")) {
		t.Errorf("Keymap() = %q", seat.Keymap())
	}

	reload(Event{Path: path, Op: OpRemove})
	reload(Event{Path: filepath.Join(t.TempDir(), "missing"), Op: OpWrite})
	if n := h.CountEvents("set_keymap", ""); n != 1 {
		t.Errorf("set_keymap calls = %d, want 1", n)
	}
}

func TestWatcherReloadsKeymapEndToEnd(t *testing.T) {
	h := memhost.New()
	seat := h.MustSeat(memhost.DefaultSeat)
	path := filepath.Join(t.TempDir(), "keymap.xkb")

	applied := make(chan struct{}, 4)
	reload := KeymapReloader(seat, nil)
	w, err := New(path, func(ev Event) {
		reload(ev)
		applied <- struct{}{}
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("new map"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for string(seat.Keymap()) != "new map" {
		select {
		case <-applied:
		case <-deadline:
			t.Fatalf("Keymap() = %q, want %q", seat.Keymap(), "new map")
		}
	}
}
