package dispatcher

import (
	"fmt"
	"sync"

	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/input/key"
	"github.com/dshills/wmconf/internal/input/layer"
	"github.com/dshills/wmconf/internal/logging"
)

// TransitionFunc observes a change of active layer.
type TransitionFunc func(from, to layer.LayerID)

// Dispatcher binds a layer tree to a seat.
type Dispatcher struct {
	seat host.Seat
	tree *layer.Tree
	log  *logging.Logger

	fatal func(error)

	mu          sync.RWMutex
	active      layer.LayerID
	installed   []key.Chord
	started     bool
	transitions []TransitionFunc
	stats       Stats
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithFatalHandler sets the function receiving fatal errors raised inside
// chord callbacks, where there is no caller to return them to. The default
// logs them.
func WithFatalHandler(fn func(error)) Option {
	return func(d *Dispatcher) {
		d.fatal = fn
	}
}

// WithTransition registers a transition observer.
func WithTransition(fn TransitionFunc) Option {
	return func(d *Dispatcher) {
		d.transitions = append(d.transitions, fn)
	}
}

// New creates a dispatcher for tree on seat. Nothing is bound until Install.
func New(seat host.Seat, tree *layer.Tree, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		seat:   seat,
		tree:   tree,
		log:    logging.Null,
		active: layer.RootID,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.fatal == nil {
		d.fatal = func(err error) {
			d.log.Error("fatal: %v", err)
		}
	}
	d.log = d.log.WithComponent("dispatcher")
	return d
}

// Install binds the root layer's chords. A bind failure is returned wrapped
// in ErrBindFailed.
func (d *Dispatcher) Install() error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return ErrAlreadyInstalled
	}
	d.started = true
	d.mu.Unlock()

	if err := d.install(layer.RootID); err != nil {
		return err
	}
	d.log.Debug("installed root layer (%d chords)", len(d.Installed()))
	return nil
}

// OpenLayer makes id the active layer: every installed chord is retracted
// and id's chords, plus the cancel chord, are bound. Layers left on the way
// run their OnExit cleanup.
func (d *Dispatcher) OpenLayer(id layer.LayerID) error {
	l, ok := d.tree.Layer(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLayer, id)
	}
	if !d.isStarted() {
		return ErrNotInstalled
	}

	from := d.Active()
	d.retract()
	d.exit(from, id)
	d.setActive(id)
	if err := d.install(id); err != nil {
		return err
	}

	d.mu.Lock()
	d.stats.Opens++
	d.mu.Unlock()
	d.log.WithField("layer", l.Name).Debug("open")
	d.notify(from, id)
	return nil
}

// Reset returns to the root layer. It is a no-op when the root layer is
// already active.
func (d *Dispatcher) Reset() error {
	if !d.isStarted() {
		return ErrNotInstalled
	}
	from := d.Active()
	if from == layer.RootID {
		return nil
	}

	d.retract()
	d.exit(from, layer.RootID)
	d.setActive(layer.RootID)
	if err := d.install(layer.RootID); err != nil {
		return err
	}

	d.mu.Lock()
	d.stats.Resets++
	d.mu.Unlock()
	d.log.Debug("reset")
	d.notify(from, layer.RootID)
	return nil
}

// Uninstall retracts every chord the dispatcher has bound and returns it
// to the state before Install. No OnExit cleanups run.
func (d *Dispatcher) Uninstall() {
	d.retract()
	d.mu.Lock()
	d.active = layer.RootID
	d.started = false
	d.mu.Unlock()
}

// Active returns the active layer.
func (d *Dispatcher) Active() layer.LayerID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// Installed returns the chords the dispatcher currently has bound, in bind
// order.
func (d *Dispatcher) Installed() []key.Chord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]key.Chord(nil), d.installed...)
}

// Stats returns a snapshot of the counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats.clone()
}

// Tree returns the dispatcher's layer tree.
func (d *Dispatcher) Tree() *layer.Tree {
	return d.tree
}

// OnTransition registers fn to run after every change of active layer.
func (d *Dispatcher) OnTransition(fn TransitionFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transitions = append(d.transitions, fn)
}

// fire handles a press of c while layer id is installed.
func (d *Dispatcher) fire(id layer.LayerID, c key.Chord) {
	a, ok := d.tree.Action(id, c)
	if !ok {
		return
	}
	d.mu.Lock()
	d.stats.Presses++
	d.mu.Unlock()

	var err error
	switch a.Kind {
	case layer.KindOpen:
		err = d.OpenLayer(a.Child)
	case layer.KindRun:
		effErr := d.run(a)
		d.mu.Lock()
		d.stats.recordRun(a.Name, effErr != nil)
		d.mu.Unlock()
		if effErr != nil {
			d.log.WithField("action", a.Name).Error("effect: %v", effErr)
		}
		err = d.Reset()
	case layer.KindCancel:
		d.mu.Lock()
		d.stats.Cancels++
		d.mu.Unlock()
		err = d.Reset()
	}
	if err != nil {
		d.fatal(err)
	}
}

// run executes an action's effect, converting a panic into an error.
func (d *Dispatcher) run(a layer.Action) (err error) {
	if a.Effect == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrEffectPanic, a.Name, r)
		}
	}()
	return a.Effect()
}

// install binds every chord of layer id. Chords bound before a failure stay
// recorded so the next retract removes them.
func (d *Dispatcher) install(id layer.LayerID) error {
	for _, c := range d.tree.Chords(id) {
		chord := c
		if err := d.seat.Bind(chord, func() { d.fire(id, chord) }); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBindFailed, chord, err)
		}
		d.mu.Lock()
		d.installed = append(d.installed, chord)
		d.mu.Unlock()
	}
	return nil
}

func (d *Dispatcher) retract() {
	d.mu.Lock()
	chords := d.installed
	d.installed = nil
	d.mu.Unlock()
	for _, c := range chords {
		d.seat.Unbind(c)
	}
}

// exit runs OnExit for every layer on from's path that is not on to's path,
// innermost first.
func (d *Dispatcher) exit(from, to layer.LayerID) {
	keep := make(map[layer.LayerID]bool)
	for _, id := range d.tree.Path(to) {
		keep[id] = true
	}
	path := d.tree.Path(from)
	for i := len(path) - 1; i >= 0; i-- {
		if keep[path[i]] {
			continue
		}
		l, _ := d.tree.Layer(path[i])
		if l.OnExit == nil {
			continue
		}
		if err := l.OnExit(); err != nil {
			d.log.WithField("layer", l.Name).Warn("exit: %v", err)
		}
	}
}

func (d *Dispatcher) setActive(id layer.LayerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = id
}

func (d *Dispatcher) isStarted() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.started
}

func (d *Dispatcher) notify(from, to layer.LayerID) {
	d.mu.RLock()
	fns := append([]TransitionFunc(nil), d.transitions...)
	d.mu.RUnlock()
	for _, fn := range fns {
		fn(from, to)
	}
}
