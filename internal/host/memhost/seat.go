package memhost

import (
	"sort"

	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/input/key"
)

// Seat is an in-memory seat with an exact-match chord table.
type Seat struct {
	host *Host
	name string

	bindings map[key.Chord]func()
	failBind map[key.Chord]error
	keymap   []byte

	bindCalls   int
	unbindCalls int
}

// Name implements host.Seat.
func (s *Seat) Name() string { return s.name }

// Bind implements host.Seat. A later Bind of the same chord replaces the
// earlier callback.
func (s *Seat) Bind(c key.Chord, callback func()) error {
	s.host.mu.Lock()
	s.bindCalls++
	if err := s.failBind[c]; err != nil {
		s.host.mu.Unlock()
		return err
	}
	s.bindings[c] = callback
	s.host.mu.Unlock()
	s.host.changed()
	return nil
}

// Unbind implements host.Seat.
func (s *Seat) Unbind(c key.Chord) {
	s.host.mu.Lock()
	s.unbindCalls++
	delete(s.bindings, c)
	s.host.mu.Unlock()
	s.host.changed()
}

// SetKeymap implements host.Seat.
func (s *Seat) SetKeymap(xkb []byte) error {
	s.host.mu.Lock()
	s.keymap = append([]byte(nil), xkb...)
	s.host.mu.Unlock()
	s.host.record(s.name, "set_keymap", "")
	return nil
}

// Keymap returns the last keymap set on the seat.
func (s *Seat) Keymap() []byte {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	return append([]byte(nil), s.keymap...)
}

// Focus implements host.Seat.
func (s *Seat) Focus(d host.Direction) {
	s.host.record(s.name, "focus", d.String())
}

// ShowWorkspace implements host.Seat.
func (s *Seat) ShowWorkspace(ws host.Workspace) {
	s.host.record(s.name, "show_workspace", ws.Name())
}

// SetWorkspace implements host.Seat.
func (s *Seat) SetWorkspace(ws host.Workspace) {
	s.host.record(s.name, "set_workspace", ws.Name())
}

// Close implements host.Seat.
func (s *Seat) Close() {
	s.host.record(s.name, "close", "")
}

// ToggleFullscreen implements host.Seat.
func (s *Seat) ToggleFullscreen() {
	s.host.record(s.name, "toggle_fullscreen", "")
}

// Press delivers a key press. The callback bound to exactly c runs with no
// lock held, so it may bind and unbind chords. Returns false if nothing is
// bound to c.
func (s *Seat) Press(c key.Chord) bool {
	s.host.mu.Lock()
	cb, ok := s.bindings[c]
	s.host.mu.Unlock()
	if !ok {
		return false
	}
	cb()
	return true
}

// Installed returns the bound chords sorted by modifier then symbol.
func (s *Seat) Installed() []key.Chord {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	out := make([]key.Chord, 0, len(s.bindings))
	for c := range s.bindings {
		out = append(out, c)
	}
	SortChords(out)
	return out
}

// IsBound reports whether c has a callback.
func (s *Seat) IsBound(c key.Chord) bool {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	_, ok := s.bindings[c]
	return ok
}

// FailBind makes later Bind calls for c return err.
func (s *Seat) FailBind(c key.Chord, err error) {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	s.failBind[c] = err
}

// Calls returns the number of Bind and Unbind calls received.
func (s *Seat) Calls() (binds, unbinds int) {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	return s.bindCalls, s.unbindCalls
}

// SortChords orders chords by modifier set, then symbol.
func SortChords(chords []key.Chord) {
	sort.Slice(chords, func(i, j int) bool {
		if chords[i].Mods != chords[j].Mods {
			return chords[i].Mods < chords[j].Mods
		}
		return chords[i].Sym < chords[j].Sym
	})
}
