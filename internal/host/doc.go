// Package host defines the capabilities the compositor exposes to this
// configuration: seat key bindings and window commands, workspace lookup,
// connector geometry, timers, input devices, the status line and process
// launching.
//
// Every call is synchronous. The host delivers one event at a time and runs
// the callback registered for it to completion before delivering the next.
package host
