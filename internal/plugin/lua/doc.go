// Package lua runs user scripts against the compositor.
//
// Scripts execute in a sandboxed gopher-lua state with only the base,
// table, string and math libraries. File loading functions are removed and
// print goes to the logger. The global table wm exposes the host:
//
//	wm.spawn(prog, ...)        launch a program
//	wm.show_workspace(name)    show a workspace on the seat
//	wm.set_workspace(name)     move the focused window to a workspace
//	wm.focus(dir)              "left", "down", "up" or "right"
//	wm.close()                 close the focused window
//	wm.fullscreen()            toggle fullscreen
//	wm.status(text)            set the status line
//	wm.quit()                  quit the compositor
//	wm.log(msg)                write to the log
//
// A status script defines status(now_unix) returning the status text.
package lua
