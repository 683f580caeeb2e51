package lua

import (
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// StatusScript renders the status line by calling status(now_unix).
type StatusScript struct {
	r *Runtime
}

// LoadStatus runs the script at path and checks that it defines status.
func (r *Runtime) LoadStatus(path string) (*StatusScript, error) {
	if err := r.DoFile(path); err != nil {
		return nil, fmt.Errorf("load status script %s: %w", path, err)
	}
	return r.statusScript()
}

// LoadStatusString is LoadStatus for an in-memory chunk.
func (r *Runtime) LoadStatusString(code string) (*StatusScript, error) {
	if err := r.DoString(code); err != nil {
		return nil, fmt.Errorf("load status script: %w", err)
	}
	return r.statusScript()
}

func (r *Runtime) statusScript() (*StatusScript, error) {
	var ok bool
	err := r.with(func(L *lua.LState) error {
		_, ok = L.GetGlobal("status").(*lua.LFunction)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoStatusFunc
	}
	return &StatusScript{r: r}, nil
}

// Format implements status.Formatter.
func (s *StatusScript) Format(t time.Time) (string, error) {
	var out string
	err := s.r.with(func(L *lua.LState) error {
		if err := L.CallByParam(lua.P{
			Fn:      L.GetGlobal("status"),
			NRet:    1,
			Protect: true,
		}, lua.LNumber(t.Unix())); err != nil {
			return err
		}
		ret := L.Get(-1)
		L.Pop(1)
		str, ok := ret.(lua.LString)
		if !ok {
			return fmt.Errorf("%w, got %s", ErrBadStatus, ret.Type())
		}
		out = string(str)
		return nil
	})
	return out, err
}

func stringReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
