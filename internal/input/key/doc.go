// Package key provides the chord model used by the keybinding dispatcher.
//
// This package defines the fundamental types for representing key bindings:
//
//   - Sym: Identifies a key symbol from a closed enumeration
//   - Modifier: Represents modifier keys (Shift, Ctrl, Alt, Logo)
//   - Chord: A modifier set plus one key symbol, compared structurally
//   - Path: A series of chords leading from the root layer to an action
//
// # Chord Specifications
//
// Chord specifications can be written in multiple formats:
//
//   - Simple keys: "a", "1", "Return", "Escape", "F1"
//   - Uppercase letters imply Shift: "S" is the same chord as "Shift+s"
//   - With modifiers: "Ctrl+s", "Alt+F4", "Logo+Shift+Return"
//   - Vim-style: "<C-s>", "<A-F4>", "<S-s>", "<CR>", "<Esc>"
//
// The host matches chords exactly on the modifier set, so "s" and "Shift+s"
// are distinct chords and may be bound at the same time.
package key
