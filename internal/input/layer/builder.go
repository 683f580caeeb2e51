package layer

import (
	"errors"
	"fmt"

	"github.com/dshills/wmconf/internal/input/key"
)

// DefaultMaxDepth is the deepest nesting a Builder accepts by default.
const DefaultMaxDepth = 4

// Builder authors a Tree. Errors are collected as bindings are added and
// reported together by Build.
type Builder struct {
	tree     *Tree
	maxDepth int
	errs     []error
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxDepth sets the maximum layer depth (the root is depth 0).
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// NewBuilder creates a builder whose non-root layers reserve cancel.
func NewBuilder(cancel key.Chord, opts ...Option) *Builder {
	b := &Builder{
		tree: &Tree{
			layers: []*Layer{newLayer(RootID, "root", NoLayer, 0)},
			cancel: cancel,
		},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	if !cancel.Valid() {
		b.errorf(ErrInvalidChord, "cancel chord %v", cancel)
	}
	return b
}

// Root returns the builder for the root layer.
func (b *Builder) Root() *LayerBuilder {
	return &LayerBuilder{b: b, layer: b.tree.layers[RootID]}
}

// Build validates the tree and returns it, or every configuration error
// found joined together.
func (b *Builder) Build() (*Tree, error) {
	errs := append([]error(nil), b.errs...)
	for _, l := range b.tree.layers[1:] {
		if l.Len() == 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrEmptyLayer, l.Name))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return b.tree, nil
}

func (b *Builder) errorf(sentinel error, format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

// LayerBuilder adds bindings to one layer.
type LayerBuilder struct {
	b     *Builder
	layer *Layer
}

// Layer returns the layer being built.
func (lb *LayerBuilder) Layer() *Layer {
	return lb.layer
}

// Sub binds c to open a new child layer and returns the child's builder.
func (lb *LayerBuilder) Sub(c key.Chord, name string) *LayerBuilder {
	t := lb.b.tree
	child := newLayer(LayerID(len(t.layers)), name, lb.layer.ID, lb.layer.Depth+1)
	if child.Depth > lb.b.maxDepth {
		lb.b.errorf(ErrTooDeep, "layer %q at depth %d (max %d)", name, child.Depth, lb.b.maxDepth)
	}
	t.layers = append(t.layers, child)
	lb.bind(c, Action{Kind: KindOpen, Name: name, Child: child.ID})
	return &LayerBuilder{b: lb.b, layer: child}
}

// Run binds c to run effect and then return to the root layer.
func (lb *LayerBuilder) Run(c key.Chord, name string, effect Effect) *LayerBuilder {
	if effect == nil {
		lb.b.errorf(ErrNilEffect, "layer %q chord %v", lb.layer.Name, c)
	}
	lb.bind(c, Action{Kind: KindRun, Name: name, Effect: effect})
	return lb
}

// Cancel binds c to return to the root layer.
func (lb *LayerBuilder) Cancel(c key.Chord) *LayerBuilder {
	lb.bind(c, Action{Kind: KindCancel, Name: "cancel"})
	return lb
}

// OnExit sets the cleanup effect run when the dispatcher leaves this layer.
func (lb *LayerBuilder) OnExit(effect Effect) *LayerBuilder {
	lb.layer.OnExit = effect
	return lb
}

// Child returns the builder of the layer c opens, if c is bound to an
// OpenLayer action in this layer.
func (lb *LayerBuilder) Child(c key.Chord) (*LayerBuilder, bool) {
	a, ok := lb.layer.Lookup(c)
	if !ok || a.Kind != KindOpen {
		return nil, false
	}
	return &LayerBuilder{b: lb.b, layer: lb.b.tree.layers[a.Child]}, true
}

// Path binds the last chord of path to effect, reusing the layers opened by
// the leading chords or creating them (named after their chord) if absent.
func (lb *LayerBuilder) Path(path key.Path, name string, effect Effect) *LayerBuilder {
	if len(path) == 0 {
		lb.b.errorf(ErrInvalidChord, "empty path for %q", name)
		return lb
	}
	cur := lb
	for _, c := range path[:len(path)-1] {
		if next, ok := cur.Child(c); ok {
			cur = next
			continue
		}
		cur = cur.Sub(c, c.String())
	}
	cur.Run(path[len(path)-1], name, effect)
	return cur
}

func (lb *LayerBuilder) bind(c key.Chord, a Action) {
	l := lb.layer
	if !c.Valid() {
		lb.b.errorf(ErrInvalidChord, "layer %q chord %v", l.Name, c)
		return
	}
	if _, exists := l.bindings[c]; exists {
		lb.b.errorf(ErrDuplicateChord, "layer %q chord %v", l.Name, c)
		return
	}
	if !l.IsRoot() && c == lb.b.tree.cancel && a.Kind != KindCancel {
		lb.b.errorf(ErrCancelCollision, "layer %q chord %v (%s)", l.Name, c, a.Name)
		return
	}
	l.add(c, a)
}
