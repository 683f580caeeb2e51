package host

import (
	"strconv"
	"strings"
	"time"

	"github.com/dshills/wmconf/internal/input/key"
)

// Direction is a focus direction.
type Direction int

const (
	Left Direction = iota
	Down
	Up
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses "left", "down", "up" or "right".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "left":
		return Left, true
	case "down":
		return Down, true
	case "up":
		return Up, true
	case "right":
		return Right, true
	}
	return 0, false
}

// Workspace is an opaque handle resolved from a workspace name.
type Workspace interface {
	Name() string
}

// Seat is a logical input seat. Bind installs a chord→callback mapping
// (last writer wins for the same chord); Unbind retracts it.
type Seat interface {
	Name() string
	Bind(c key.Chord, callback func()) error
	Unbind(c key.Chord)
	SetKeymap(xkb []byte) error

	Focus(d Direction)
	ShowWorkspace(ws Workspace)
	SetWorkspace(ws Workspace)
	Close()
	ToggleFullscreen()
}

// Connector is a physical display output.
type Connector interface {
	Name() string
	Connected() bool
	Width() int
	SetPosition(x, y int)
}

// Timer is a named recurring timer.
type Timer interface {
	// Repeated fires the timer first after initial, then every period.
	Repeated(initial, period time.Duration)
	OnTick(fn func())
}

// InputDevice is a keyboard, pointer or other input device.
type InputDevice interface {
	Name() string
	SetSeat(s Seat)
}

// Command is an external program and its arguments.
type Command struct {
	Program string
	Args    []string
}

// String joins the program and arguments, quoting any containing spaces.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, p := range append([]string{c.Program}, c.Args...) {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			p = strconv.Quote(p)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// Launcher spawns external programs fire-and-forget.
type Launcher interface {
	Spawn(cmd Command) error
}

// Host aggregates the compositor capabilities used by the configuration.
type Host interface {
	Seat(name string) (Seat, error)
	Workspace(name string) Workspace
	Connector(name string) Connector
	OnNewConnector(fn func(Connector))
	OnConnectorConnected(fn func(Connector))
	Timer(name string) Timer
	SetStatus(text string)
	InputDevices() []InputDevice
	OnNewInputDevice(fn func(InputDevice))
	OnGraphicsInitialized(fn func())
	Launcher() Launcher
	Quit()
}
