// Package launch spawns helper programs without waiting for them.
package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/logging"
)

// ErrEmptyCommand indicates a command with no program.
var ErrEmptyCommand = errors.New("launch: empty command")

// Process describes a spawned program.
type Process struct {
	ID      string
	Command host.Command
	PID     int
	Started time.Time
	Exited  time.Time
	Err     error
}

// ExecLauncher starts programs with os/exec in their own session. Exit
// status is ignored but every child is reaped.
type ExecLauncher struct {
	log    *logging.Logger
	home   func() (string, error)
	onExit func(Process)

	mu      sync.Mutex
	running map[string]*Process
	wg      sync.WaitGroup
}

// Option configures an ExecLauncher.
type Option func(*ExecLauncher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *ExecLauncher) {
		e.log = l
	}
}

// WithExitCallback sets a function called after each child is reaped.
func WithExitCallback(fn func(Process)) Option {
	return func(e *ExecLauncher) {
		e.onExit = fn
	}
}

// WithHomeDir overrides how "~" is resolved.
func WithHomeDir(fn func() (string, error)) Option {
	return func(e *ExecLauncher) {
		e.home = fn
	}
}

// NewExec creates an ExecLauncher.
func NewExec(opts ...Option) *ExecLauncher {
	e := &ExecLauncher{
		log:     logging.Null,
		home:    os.UserHomeDir,
		running: make(map[string]*Process),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("launch")
	return e
}

// Spawn implements host.Launcher. It returns once the program has started.
func (e *ExecLauncher) Spawn(cmd host.Command) error {
	if strings.TrimSpace(cmd.Program) == "" {
		return ErrEmptyCommand
	}
	program, err := ExpandHome(cmd.Program, e.home)
	if err != nil {
		return err
	}

	c := exec.Command(program, cmd.Args...)
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := c.Start(); err != nil {
		e.log.Warn("could not start command %q: %v", cmd.String(), err)
		return fmt.Errorf("launch: start %q: %w", cmd.Program, err)
	}

	p := &Process{
		ID:      uuid.New().String(),
		Command: cmd,
		PID:     c.Process.Pid,
		Started: time.Now(),
	}
	e.mu.Lock()
	e.running[p.ID] = p
	e.mu.Unlock()
	e.log.WithField("id", p.ID).Debug("started %q pid %d", cmd.String(), p.PID)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		werr := c.Wait()

		e.mu.Lock()
		delete(e.running, p.ID)
		p.Exited = time.Now()
		p.Err = werr
		done := *p
		e.mu.Unlock()

		if e.onExit != nil {
			e.onExit(done)
		}
	}()
	return nil
}

// Running returns the children not yet reaped.
func (e *ExecLauncher) Running() []Process {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Process, 0, len(e.running))
	for _, p := range e.running {
		out = append(out, *p)
	}
	return out
}

// Wait blocks until every child spawned so far has been reaped.
func (e *ExecLauncher) Wait() {
	e.wg.Wait()
}

// ExpandHome replaces a leading "~" or "~/" with the home directory.
func ExpandHome(path string, home func() (string, error)) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	dir, err := home()
	if err != nil {
		return "", fmt.Errorf("launch: expand %q: %w", path, err)
	}
	return filepath.Join(dir, strings.TrimPrefix(path, "~")), nil
}

// DryRun logs and records commands instead of running them.
type DryRun struct {
	log *logging.Logger

	mu       sync.Mutex
	commands []host.Command
}

// NewDryRun creates a DryRun launcher.
func NewDryRun(l *logging.Logger) *DryRun {
	if l == nil {
		l = logging.Null
	}
	return &DryRun{log: l.WithComponent("launch")}
}

// Spawn implements host.Launcher.
func (d *DryRun) Spawn(cmd host.Command) error {
	if strings.TrimSpace(cmd.Program) == "" {
		return ErrEmptyCommand
	}
	d.mu.Lock()
	d.commands = append(d.commands, cmd)
	d.mu.Unlock()
	d.log.Info("would run %q", cmd.String())
	return nil
}

// Commands returns the recorded commands.
func (d *DryRun) Commands() []host.Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]host.Command(nil), d.commands...)
}
