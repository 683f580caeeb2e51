// Package preview runs a configuration inside a terminal.
//
// The preview stands in for the compositor: an in-memory host receives the
// configuration, terminal key presses are translated to chords and
// delivered to the seat, and the screen shows what the compositor would
// have been asked to do.
//
// Every host callback runs on the goroutine polling the screen. Timers and
// the keymap watcher hand their work over through Post.
package preview
