package app

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dshills/wmconf/internal/config"
	"github.com/dshills/wmconf/internal/config/watcher"
	"github.com/dshills/wmconf/internal/dispatcher"
	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/input/layer"
	"github.com/dshills/wmconf/internal/logging"
	"github.com/dshills/wmconf/internal/output"
	"github.com/dshills/wmconf/internal/plugin/lua"
	"github.com/dshills/wmconf/internal/status"
)

// Session is a configuration applied to a host.
type Session struct {
	Seat       host.Seat
	Tree       *layer.Tree
	Dispatcher *dispatcher.Dispatcher
	Clock      *status.Clock
	Outputs    *output.Arranger

	scripts *lua.Runtime
	watcher *watcher.Watcher
	log     *logging.Logger
}

// Option configures Configure.
type Option func(*options)

type options struct {
	log      *logging.Logger
	fatal    func(error)
	executor func(func())
	now      func() time.Time
}

// WithLogger sets the logger handed to every component.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithFatalHandler receives fatal errors raised after Configure returned,
// such as a seat refusing a chord when a layer opens.
func WithFatalHandler(fn func(error)) Option {
	return func(o *options) {
		o.fatal = fn
	}
}

// WithExecutor runs callbacks from background goroutines (the keymap
// watcher) on the host's event thread.
func WithExecutor(run func(func())) Option {
	return func(o *options) {
		o.executor = run
	}
}

// WithNow sets the status clock's time source.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Configure applies cfg to h. It is the single entry point a host adapter
// calls at startup. On error nothing stays bound on the seat and the
// returned error is an *OperationError.
func Configure(h host.Host, cfg *config.Config, opts ...Option) (*Session, error) {
	o := options{
		log: logging.Null,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.WithComponent("app")

	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("validate", "config", err)
	}

	seat, err := h.Seat(cfg.Seat.Name)
	if err != nil {
		return nil, NewOperationError("get seat", cfg.Seat.Name, err)
	}

	keymap := cfg.Resolve(cfg.Seat.Keymap)
	if err := applyKeymap(seat, keymap, log); err != nil {
		return nil, NewOperationError("load keymap", keymap, err)
	}

	s := &Session{
		Seat:    seat,
		scripts: lua.New(h, seat, lua.WithLogger(o.log)),
		log:     log,
	}

	s.Tree, err = BuildRootLayer(cfg, h, seat, s.scripts)
	if err != nil {
		s.scripts.Close()
		return nil, NewOperationError("build layers", "", err)
	}

	dopts := []dispatcher.Option{dispatcher.WithLogger(o.log)}
	if o.fatal != nil {
		dopts = append(dopts, dispatcher.WithFatalHandler(o.fatal))
	}
	s.Dispatcher = dispatcher.New(seat, s.Tree, dopts...)
	if err := s.Dispatcher.Install(); err != nil {
		s.Dispatcher.Uninstall()
		s.scripts.Close()
		return nil, NewOperationError("install", seat.Name(), err)
	}

	for _, dev := range h.InputDevices() {
		dev.SetSeat(seat)
	}
	h.OnNewInputDevice(func(dev host.InputDevice) {
		dev.SetSeat(seat)
	})

	if err := s.setupStatus(h, cfg, o); err != nil {
		s.Dispatcher.Uninstall()
		s.scripts.Close()
		return nil, NewOperationError("status", cfg.Status.Script, err)
	}

	s.Outputs = output.New(h, cfg.Outputs.Left, cfg.Outputs.Right, output.WithLogger(o.log))
	s.Outputs.Setup(h)

	startup := cfg.Commands.Startup
	h.OnGraphicsInitialized(func() {
		for _, argv := range startup {
			if err := spawn(h, argv)(); err != nil {
				log.Warn("startup %v: %v", argv, err)
			}
		}
	})

	if cfg.Seat.WatchKeymap && keymap != "" {
		wopts := []watcher.Option{watcher.WithLogger(o.log)}
		if o.executor != nil {
			wopts = append(wopts, watcher.WithExecutor(o.executor))
		}
		w, err := watcher.New(keymap, watcher.KeymapReloader(seat, log), wopts...)
		if err != nil {
			log.Warn("keymap watcher: %v", err)
		} else {
			s.watcher = w
		}
	}

	log.Info("configured seat %s with %d layers", seat.Name(), s.Tree.Len())
	return s, nil
}

func (s *Session) setupStatus(h host.Host, cfg *config.Config, o options) error {
	sopts := []status.Option{
		status.WithPeriod(cfg.Status.Period.Std()),
		status.WithNow(o.now),
		status.WithLogger(o.log),
	}
	if cfg.Status.Script != "" {
		script, err := s.scripts.LoadStatus(cfg.Resolve(cfg.Status.Script))
		if err != nil {
			return err
		}
		sopts = append(sopts, status.WithFormatter(script))
	}
	clock, err := status.New(cfg.Status.Format, sopts...)
	if err != nil {
		return err
	}
	clock.Setup(h)
	s.Clock = clock
	return nil
}

// applyKeymap loads the XKB file at path into seat. A missing file is
// logged and skipped; an empty path does nothing.
func applyKeymap(seat host.Seat, path string, log *logging.Logger) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("keymap %s not found, keeping the host keymap", path)
		return nil
	}
	if err != nil {
		return err
	}
	return seat.SetKeymap(data)
}

// Close stops the keymap watcher, releases the script runtime and retracts
// every binding.
func (s *Session) Close() error {
	var err error
	if s.watcher != nil {
		err = s.watcher.Close()
	}
	s.Dispatcher.Uninstall()
	s.scripts.Close()
	return err
}
