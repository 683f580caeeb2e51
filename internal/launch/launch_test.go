package launch

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/dshills/wmconf/internal/host"
)

func TestExpandHome(t *testing.T) {
	home := func() (string, error) { return "/home/me", nil }
	tests := []struct {
		in, want string
	}{
		{"~/.config/sway/power-menu", "/home/me/.config/sway/power-menu"},
		{"~", "/home/me"},
		{"/usr/bin/foot", "/usr/bin/foot"},
		{"~other/bin", "~other/bin"},
		{"alacritty", "alacritty"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in, home)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandHomeError(t *testing.T) {
	boom := errors.New("no home")
	_, err := ExpandHome("~/x", func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestExecSpawnAndReap(t *testing.T) {
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not found")
	}
	exited := make(chan Process, 1)
	l := NewExec(WithExitCallback(func(p Process) { exited <- p }))

	if err := l.Spawn(host.Command{Program: bin}); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	select {
	case p := <-exited:
		if p.ID == "" || p.PID == 0 {
			t.Errorf("process = %+v, want id and pid", p)
		}
		if p.Err != nil {
			t.Errorf("exit error = %v", p.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("child not reaped")
	}
	l.Wait()
	if n := len(l.Running()); n != 0 {
		t.Errorf("Running() len = %d, want 0", n)
	}
}

func TestExecSpawnMissingProgram(t *testing.T) {
	l := NewExec()
	err := l.Spawn(host.Command{Program: "/nonexistent/wmconf-test-binary"})
	if err == nil {
		t.Fatal("Spawn() error = nil for a missing program")
	}
}

func TestSpawnEmpty(t *testing.T) {
	if err := NewExec().Spawn(host.Command{}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("ExecLauncher error = %v, want ErrEmptyCommand", err)
	}
	if err := NewDryRun(nil).Spawn(host.Command{Program: " "}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("DryRun error = %v, want ErrEmptyCommand", err)
	}
}

func TestDryRunRecords(t *testing.T) {
	d := NewDryRun(nil)
	_ = d.Spawn(host.Command{Program: "mako"})
	_ = d.Spawn(host.Command{Program: "rofi", Args: []string{"-show", "combi"}})

	cmds := d.Commands()
	if len(cmds) != 2 || cmds[1].Program != "rofi" {
		t.Errorf("Commands() = %v", cmds)
	}
}
