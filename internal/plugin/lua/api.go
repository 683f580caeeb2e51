package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wmconf/internal/host"
)

func (r *Runtime) api() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"spawn":          r.wmSpawn,
		"show_workspace": r.wmShowWorkspace,
		"set_workspace":  r.wmSetWorkspace,
		"focus":          r.wmFocus,
		"close":          r.wmClose,
		"fullscreen":     r.wmFullscreen,
		"status":         r.wmStatus,
		"quit":           r.wmQuit,
		"log":            r.wmLog,
	}
}

func (r *Runtime) wmSpawn(L *lua.LState) int {
	cmd := host.Command{Program: L.CheckString(1)}
	for i := 2; i <= L.GetTop(); i++ {
		cmd.Args = append(cmd.Args, L.CheckString(i))
	}
	if err := r.host.Launcher().Spawn(cmd); err != nil {
		L.RaiseError("spawn %s: %v", cmd.Program, err)
	}
	return 0
}

func (r *Runtime) wmShowWorkspace(L *lua.LState) int {
	r.seat.ShowWorkspace(r.host.Workspace(L.CheckString(1)))
	return 0
}

func (r *Runtime) wmSetWorkspace(L *lua.LState) int {
	r.seat.SetWorkspace(r.host.Workspace(L.CheckString(1)))
	return 0
}

func (r *Runtime) wmFocus(L *lua.LState) int {
	name := L.CheckString(1)
	d, ok := host.ParseDirection(strings.ToLower(name))
	if !ok {
		L.ArgError(1, "direction must be left, down, up or right")
	}
	r.seat.Focus(d)
	return 0
}

func (r *Runtime) wmClose(L *lua.LState) int {
	r.seat.Close()
	return 0
}

func (r *Runtime) wmFullscreen(L *lua.LState) int {
	r.seat.ToggleFullscreen()
	return 0
}

func (r *Runtime) wmStatus(L *lua.LState) int {
	r.host.SetStatus(L.CheckString(1))
	return 0
}

func (r *Runtime) wmQuit(L *lua.LState) int {
	r.host.Quit()
	return 0
}

func (r *Runtime) wmLog(L *lua.LState) int {
	r.log.Info("%s", L.CheckString(1))
	return 0
}
