// Package memhost provides an in-memory implementation of the host
// capabilities. It matches chords exactly, records every seat command and
// lets callers deliver key presses, connector events, timer ticks and
// device hot-plugs by hand.
package memhost

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/input/key"
)

// ErrNoSeat indicates a seat lookup for an unknown name.
var ErrNoSeat = errors.New("memhost: seat not found")

// DefaultSeat is the seat every new Host starts with.
const DefaultSeat = "default"

// Event is one command received from the configuration.
type Event struct {
	Seat string
	Op   string
	Arg  string
}

// String returns "seat op arg".
func (e Event) String() string {
	if e.Arg == "" {
		return e.Seat + " " + e.Op
	}
	return e.Seat + " " + e.Op + " " + e.Arg
}

// Host is an in-memory host.Host.
type Host struct {
	mu sync.Mutex

	seats      map[string]*Seat
	workspaces map[string]*Workspace
	connectors map[string]*Connector
	timers     map[string]*Timer
	devices    []*Device

	status        string
	statusHistory []string
	events        []Event
	quit          bool

	onNewConnector       []func(host.Connector)
	onConnectorConnected []func(host.Connector)
	onNewInputDevice     []func(host.InputDevice)
	onGraphics           []func()

	launcher host.Launcher
	onChange func()
}

// Option configures a Host.
type Option func(*Host)

// WithLauncher sets the launcher returned by Launcher. The default records
// commands without running them.
func WithLauncher(l host.Launcher) Option {
	return func(h *Host) {
		h.launcher = l
	}
}

// WithChangeHandler sets a callback run after every state change.
func WithChangeHandler(fn func()) Option {
	return func(h *Host) {
		h.onChange = fn
	}
}

// New creates a host with one seat named DefaultSeat.
func New(opts ...Option) *Host {
	h := &Host{
		seats:      make(map[string]*Seat),
		workspaces: make(map[string]*Workspace),
		connectors: make(map[string]*Connector),
		timers:     make(map[string]*Timer),
		launcher:   &Recorder{},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.AddSeat(DefaultSeat)
	return h
}

// AddSeat creates a seat and returns it.
func (h *Host) AddSeat(name string) *Seat {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &Seat{
		host:     h,
		name:     name,
		bindings: make(map[key.Chord]func()),
		failBind: make(map[key.Chord]error),
	}
	h.seats[name] = s
	return s
}

// Seat implements host.Host.
func (h *Host) Seat(name string) (host.Seat, error) {
	s, ok := h.lookupSeat(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSeat, name)
	}
	return s, nil
}

// MustSeat returns the named seat or panics.
func (h *Host) MustSeat(name string) *Seat {
	s, ok := h.lookupSeat(name)
	if !ok {
		panic("memhost: no seat " + name)
	}
	return s
}

func (h *Host) lookupSeat(name string) (*Seat, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.seats[name]
	return s, ok
}

// Workspace implements host.Host. The same name always yields the same
// handle.
func (h *Host) Workspace(name string) host.Workspace {
	h.mu.Lock()
	defer h.mu.Unlock()
	ws, ok := h.workspaces[name]
	if !ok {
		ws = &Workspace{name: name}
		h.workspaces[name] = ws
	}
	return ws
}

// Connector implements host.Host. Unknown names yield a disconnected
// connector that is remembered.
func (h *Host) Connector(name string) host.Connector {
	return h.connector(name)
}

func (h *Host) connector(name string) *Connector {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.connectors[name]
	if !ok {
		c = &Connector{host: h, name: name}
		h.connectors[name] = c
	}
	return c
}

// OnNewConnector implements host.Host.
func (h *Host) OnNewConnector(fn func(host.Connector)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNewConnector = append(h.onNewConnector, fn)
}

// OnConnectorConnected implements host.Host.
func (h *Host) OnConnectorConnected(fn func(host.Connector)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConnectorConnected = append(h.onConnectorConnected, fn)
}

// AddConnector makes a connector appear and delivers the new-connector
// event.
func (h *Host) AddConnector(name string, width int) *Connector {
	c := h.connector(name)
	h.mu.Lock()
	c.width = width
	handlers := slices.Clone(h.onNewConnector)
	h.mu.Unlock()
	for _, fn := range handlers {
		fn(c)
	}
	h.changed()
	return c
}

// Connect marks a connector connected and delivers the connected event.
func (h *Host) Connect(name string, width int) *Connector {
	c := h.connector(name)
	h.mu.Lock()
	c.connected = true
	c.width = width
	handlers := slices.Clone(h.onConnectorConnected)
	h.mu.Unlock()
	for _, fn := range handlers {
		fn(c)
	}
	h.changed()
	return c
}

// Disconnect marks a connector disconnected. No event is delivered.
func (h *Host) Disconnect(name string) {
	c := h.connector(name)
	h.mu.Lock()
	c.connected = false
	h.mu.Unlock()
	h.changed()
}

// Connectors returns every known connector sorted by name.
func (h *Host) Connectors() []*Connector {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Connector, 0, len(h.connectors))
	for _, c := range h.connectors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Timer implements host.Host.
func (h *Host) Timer(name string) host.Timer {
	return h.MustTimer(name)
}

// MustTimer returns the named timer, creating it if needed.
func (h *Host) MustTimer(name string) *Timer {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.timers[name]
	if !ok {
		t = &Timer{name: name}
		h.timers[name] = t
	}
	return t
}

// Timers returns every registered timer.
func (h *Host) Timers() []*Timer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Timer, 0, len(h.timers))
	for _, t := range h.timers {
		out = append(out, t)
	}
	return out
}

// SetStatus implements host.Host.
func (h *Host) SetStatus(text string) {
	h.mu.Lock()
	h.status = text
	h.statusHistory = append(h.statusHistory, text)
	h.mu.Unlock()
	h.changed()
}

// Status returns the last status text.
func (h *Host) Status() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// StatusHistory returns every status text written, oldest first.
func (h *Host) StatusHistory() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.statusHistory...)
}

// InputDevices implements host.Host.
func (h *Host) InputDevices() []host.InputDevice {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]host.InputDevice, len(h.devices))
	for i, d := range h.devices {
		out[i] = d
	}
	return out
}

// OnNewInputDevice implements host.Host.
func (h *Host) OnNewInputDevice(fn func(host.InputDevice)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNewInputDevice = append(h.onNewInputDevice, fn)
}

// AddDevice plugs in a device. If announce is true the new-device event is
// delivered, otherwise the device is only listed by InputDevices.
func (h *Host) AddDevice(name string, announce bool) *Device {
	d := &Device{name: name}
	h.mu.Lock()
	h.devices = append(h.devices, d)
	handlers := slices.Clone(h.onNewInputDevice)
	h.mu.Unlock()
	if announce {
		for _, fn := range handlers {
			fn(d)
		}
	}
	h.changed()
	return d
}

// OnGraphicsInitialized implements host.Host.
func (h *Host) OnGraphicsInitialized(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onGraphics = append(h.onGraphics, fn)
}

// InitializeGraphics delivers the graphics-initialized event.
func (h *Host) InitializeGraphics() {
	h.mu.Lock()
	handlers := slices.Clone(h.onGraphics)
	h.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
	h.changed()
}

// Launcher implements host.Host.
func (h *Host) Launcher() host.Launcher {
	return h.launcher
}

// Quit implements host.Host.
func (h *Host) Quit() {
	h.mu.Lock()
	h.quit = true
	h.events = append(h.events, Event{Op: "quit"})
	h.mu.Unlock()
	h.changed()
}

// QuitRequested reports whether Quit was called.
func (h *Host) QuitRequested() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.quit
}

// Events returns every recorded command, oldest first.
func (h *Host) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events...)
}

// CountEvents returns how many recorded commands match op and arg.
func (h *Host) CountEvents(op, arg string) int {
	n := 0
	for _, e := range h.Events() {
		if e.Op == op && e.Arg == arg {
			n++
		}
	}
	return n
}

func (h *Host) record(seat, op, arg string) {
	h.mu.Lock()
	h.events = append(h.events, Event{Seat: seat, Op: op, Arg: arg})
	h.mu.Unlock()
	h.changed()
}

func (h *Host) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

// Workspace is a named workspace handle.
type Workspace struct {
	name string
}

// Name implements host.Workspace.
func (w *Workspace) Name() string { return w.name }

// Connector is an in-memory output.
type Connector struct {
	host      *Host
	name      string
	connected bool
	width     int
	x, y      int
}

// Name implements host.Connector.
func (c *Connector) Name() string { return c.name }

// Connected implements host.Connector.
func (c *Connector) Connected() bool {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()
	return c.connected
}

// Width implements host.Connector.
func (c *Connector) Width() int {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()
	return c.width
}

// SetPosition implements host.Connector.
func (c *Connector) SetPosition(x, y int) {
	c.host.mu.Lock()
	c.x, c.y = x, y
	c.host.mu.Unlock()
	c.host.record("", "set_position", fmt.Sprintf("%s %d,%d", c.name, x, y))
}

// Position returns the connector's last position.
func (c *Connector) Position() (x, y int) {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()
	return c.x, c.y
}

// Timer is a manually driven timer.
type Timer struct {
	mu      sync.Mutex
	name    string
	initial time.Duration
	period  time.Duration
	armed   bool
	ticks   []func()
}

// Repeated implements host.Timer.
func (t *Timer) Repeated(initial, period time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initial, t.period, t.armed = initial, period, true
}

// OnTick implements host.Timer.
func (t *Timer) OnTick(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks = append(t.ticks, fn)
}

// Name returns the timer name.
func (t *Timer) Name() string { return t.name }

// Schedule returns the arguments of the last Repeated call.
func (t *Timer) Schedule() (initial, period time.Duration, armed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initial, t.period, t.armed
}

// Tick delivers one tick to every handler.
func (t *Timer) Tick() {
	t.mu.Lock()
	ticks := slices.Clone(t.ticks)
	t.mu.Unlock()
	for _, fn := range ticks {
		fn()
	}
}

// Device is an in-memory input device.
type Device struct {
	mu   sync.Mutex
	name string
	seat host.Seat
}

// Name implements host.InputDevice.
func (d *Device) Name() string { return d.name }

// SetSeat implements host.InputDevice.
func (d *Device) SetSeat(s host.Seat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seat = s
}

// Seat returns the device's seat, or nil.
func (d *Device) Seat() host.Seat {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seat
}

// Recorder is a host.Launcher that records commands without running them.
type Recorder struct {
	mu       sync.Mutex
	commands []host.Command
	err      error
}

// Spawn implements host.Launcher.
func (r *Recorder) Spawn(cmd host.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// FailWith makes every later Spawn return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Commands returns every recorded command.
func (r *Recorder) Commands() []host.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]host.Command(nil), r.commands...)
}
