package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/input/layer"
	"github.com/dshills/wmconf/internal/logging"
)

// DefaultTimeout bounds each script call.
const DefaultTimeout = 2 * time.Second

// Runtime is a sandboxed Lua state bound to a host and seat. gopher-lua
// states are single threaded; the mutex serialises calls.
type Runtime struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool

	host    host.Host
	seat    host.Seat
	timeout time.Duration
	log     *logging.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTimeout sets the per-call execution limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used by print and wm.log.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runtime) {
		r.log = l
	}
}

// New creates a runtime whose wm table acts on h and seat.
func New(h host.Host, seat host.Seat, opts ...Option) *Runtime {
	r := &Runtime{
		host:    h,
		seat:    seat,
		timeout: DefaultTimeout,
		log:     logging.Null,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("lua")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.L.SetGlobal("print", r.L.NewFunction(r.luaPrint))
	r.L.SetGlobal("wm", r.L.SetFuncs(r.L.NewTable(), r.api()))
	return r
}

// openSafeLibraries opens base, table, string and math, then removes the
// base functions that read files or compile arbitrary chunks.
func openSafeLibraries(L *lua.LState) {
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
		L.SetTop(0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString runs a chunk.
func (r *Runtime) DoString(code string) error {
	return r.with(func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// DoFile runs a file.
func (r *Runtime) DoFile(path string) error {
	return r.with(func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// Effect compiles code now and returns an effect that runs it. Syntax
// errors are reported here rather than at the first key press.
func (r *Runtime) Effect(name, code string) (layer.Effect, error) {
	var fn *lua.LFunction
	err := r.with(func(L *lua.LState) error {
		var err error
		fn, err = L.Load(stringReader(code), name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return func() error {
		return r.with(func(L *lua.LState) error {
			return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
		})
	}, nil
}

// Close releases the state.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.L.Close()
	r.closed = true
}

// with runs fn under the lock with the call timeout applied, converting
// panics into errors.
func (r *Runtime) with(fn func(L *lua.LState) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return fn(r.L)
}

func (r *Runtime) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.log.Info("%s", fmt.Sprint(parts...))
	return 0
}
