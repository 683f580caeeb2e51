package layer

import (
	"github.com/dshills/wmconf/internal/input/key"
)

// Tree is the explicit layer tree: a table of layers indexed by LayerID
// plus the reserved cancel chord shared by every non-root layer.
type Tree struct {
	layers []*Layer
	cancel key.Chord
}

// Root returns the root layer.
func (t *Tree) Root() *Layer {
	return t.layers[RootID]
}

// Layer returns the layer with the given ID.
func (t *Tree) Layer(id LayerID) (*Layer, bool) {
	if id < 0 || int(id) >= len(t.layers) {
		return nil, false
	}
	return t.layers[id], true
}

// Len returns the number of layers including the root.
func (t *Tree) Len() int {
	return len(t.layers)
}

// Cancel returns the reserved cancel chord.
func (t *Tree) Cancel() key.Chord {
	return t.cancel
}

// Chords returns the chord set installed while layer id is active: its own
// bindings, plus the cancel chord for every layer but the root.
func (t *Tree) Chords(id LayerID) []key.Chord {
	l, ok := t.Layer(id)
	if !ok {
		return nil
	}
	out := make([]key.Chord, 0, len(l.order)+1)
	out = append(out, l.order...)
	if !l.IsRoot() {
		if _, bound := l.bindings[t.cancel]; !bound {
			out = append(out, t.cancel)
		}
	}
	return out
}

// Action returns the action a press of c fires while layer id is active.
// In non-root layers the cancel chord resolves to a KindCancel action.
func (t *Tree) Action(id LayerID, c key.Chord) (Action, bool) {
	l, ok := t.Layer(id)
	if !ok {
		return Action{}, false
	}
	if a, ok := l.Lookup(c); ok {
		return a, true
	}
	if !l.IsRoot() && c == t.cancel {
		return Action{Kind: KindCancel, Name: "cancel"}, true
	}
	return Action{}, false
}

// Resolve follows path from the root and returns the action bound to its
// last chord. Intermediate chords must open layers.
func (t *Tree) Resolve(path key.Path) (Action, bool) {
	id := RootID
	for i, c := range path {
		a, ok := t.Action(id, c)
		if !ok {
			return Action{}, false
		}
		if i == len(path)-1 {
			return a, true
		}
		if a.Kind != KindOpen {
			return Action{}, false
		}
		id = a.Child
	}
	return Action{}, false
}

// Path returns the layers from the root to id, root first.
func (t *Tree) Path(id LayerID) []LayerID {
	var rev []LayerID
	for cur := id; cur != NoLayer; {
		l, ok := t.Layer(cur)
		if !ok {
			return nil
		}
		rev = append(rev, cur)
		cur = l.Parent
	}
	out := make([]LayerID, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// Walk visits the tree depth first starting at the root. via is the chord
// that opens the visited layer (the zero Chord for the root). Walk stops
// early if fn returns false.
func (t *Tree) Walk(fn func(l *Layer, via key.Chord) bool) {
	t.walk(t.Root(), key.Chord{}, fn)
}

func (t *Tree) walk(l *Layer, via key.Chord, fn func(*Layer, key.Chord) bool) bool {
	if !fn(l, via) {
		return false
	}
	for _, c := range l.order {
		a := l.bindings[c]
		if a.Kind != KindOpen {
			continue
		}
		if !t.walk(t.layers[a.Child], c, fn) {
			return false
		}
	}
	return true
}
