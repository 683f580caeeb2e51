// Package dispatcher runs the modal keybinding state machine.
//
// A Dispatcher owns the active layer of a layer.Tree and keeps the seat's
// installed chords equal to that layer's chord set. Entering a layer
// replaces the installed set; it never overlays the parent's chords. Every
// press fires exactly one action:
//
//	open    retract everything, install the child layer plus cancel
//	run     run the effect, then reset
//	cancel  reset
//
// Reset retracts the active layer's chords, runs the OnExit cleanup of each
// layer being left (innermost first) and reinstalls the root layer. Reset
// while already at the root makes no seat calls.
//
// The dispatcher is driven from the host's event thread. Callbacks may
// re-enter OpenLayer and Reset. Read-only accessors are safe to call from
// other goroutines.
package dispatcher
