// Package watcher reloads files when they change on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still noticed. Bursts
// of events are coalesced: the handler runs once the file has been quiet
// for the debounce interval.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/logging"
)

// ErrClosed indicates the watcher was closed.
var ErrClosed = errors.New("watcher: closed")

// DefaultDebounce is the quiet period before a change is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Operation is the kind of change delivered.
type Operation int

const (
	OpWrite Operation = iota
	OpCreate
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is a coalesced change to the watched file.
type Event struct {
	Path string
	Op   Operation
	Time time.Time
}

// Handler receives events.
type Handler func(Event)

// Watcher delivers debounced change events for one file.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	run      func(func())
	log      *logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending *Event
	timer   *time.Timer
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero delivers every event at once.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithExecutor runs handlers through run, e.g. to move them onto the host's
// event thread. The default calls them on the watcher goroutine.
func WithExecutor(run func(func())) Option {
	return func(w *Watcher) {
		w.run = run
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New starts watching path. The file need not exist yet.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		handler:  handler,
		debounce: DefaultDebounce,
		run:      func(fn func()) { fn() },
		log:      logging.Null,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("watcher").WithField("path", abs)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if op, ok := convertOp(ev.Op); ok {
				w.queue(Event{Path: w.path, Op: op, Time: time.Now()})
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fsnotify: %v", err)
		}
	}
}

// convertOp maps fsnotify operations. A rename away from the path counts as
// a removal; chmod is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	}
	return 0, false
}

// queue coalesces ev with any pending event: create survives later writes
// and the latest time wins.
func (w *Watcher) queue(ev Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.pending != nil && w.pending.Op == OpCreate && ev.Op == OpWrite {
		ev.Op = OpCreate
	}
	w.pending = &ev

	if w.debounce == 0 {
		w.mu.Unlock()
		w.flush()
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
	} else {
		w.timer.Reset(w.debounce)
	}
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.pending == nil || w.closed {
		w.mu.Unlock()
		return
	}
	ev := *w.pending
	w.pending = nil
	w.mu.Unlock()

	w.log.Debug("%s", ev.Op)
	w.run(func() { w.handler(ev) })
}

// KeymapReloader returns a handler that re-reads the keymap at each write or
// create and applies it to seat. Removals are ignored: the seat keeps its
// current map.
func KeymapReloader(seat host.Seat, log *logging.Logger) Handler {
	if log == nil {
		log = logging.Null
	}
	return func(ev Event) {
		if ev.Op == OpRemove {
			return
		}
		data, err := os.ReadFile(ev.Path)
		if err != nil {
			log.Warn("reload keymap: %v", err)
			return
		}
		if err := seat.SetKeymap(data); err != nil {
			log.Warn("apply keymap: %v", err)
			return
		}
		log.Info("keymap reloaded from %s", ev.Path)
	}
}
