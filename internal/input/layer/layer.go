package layer

import (
	"github.com/dshills/wmconf/internal/input/key"
)

// Layer is a named set of chord→Action bindings active during one modal
// context. Layers are immutable once their Tree is built.
type Layer struct {
	// ID is the layer's index in its tree.
	ID LayerID

	// Name identifies the layer in logs and listings.
	Name string

	// Parent is the layer whose OpenLayer action leads here.
	// NoLayer for the root.
	Parent LayerID

	// Depth is the number of OpenLayer actions between the root and this
	// layer.
	Depth int

	// OnExit runs when the dispatcher leaves this layer on a reset.
	OnExit Effect

	bindings map[key.Chord]Action
	order    []key.Chord
}

func newLayer(id LayerID, name string, parent LayerID, depth int) *Layer {
	return &Layer{
		ID:       id,
		Name:     name,
		Parent:   parent,
		Depth:    depth,
		bindings: make(map[key.Chord]Action),
	}
}

// IsRoot returns true for the root layer.
func (l *Layer) IsRoot() bool {
	return l.ID == RootID
}

// Lookup returns the action bound to c in this layer.
func (l *Layer) Lookup(c key.Chord) (Action, bool) {
	a, ok := l.bindings[c]
	return a, ok
}

// Len returns the number of bindings.
func (l *Layer) Len() int {
	return len(l.order)
}

// Bindings returns the layer's bindings in the order they were added.
func (l *Layer) Bindings() []Binding {
	out := make([]Binding, 0, len(l.order))
	for _, c := range l.order {
		out = append(out, Binding{Chord: c, Action: l.bindings[c]})
	}
	return out
}

func (l *Layer) add(c key.Chord, a Action) {
	l.bindings[c] = a
	l.order = append(l.order, c)
}
