package layer

import (
	"fmt"

	"github.com/dshills/wmconf/internal/input/key"
)

// LayerID indexes a layer in a Tree.
type LayerID int

const (
	// RootID is the ID of the root layer.
	RootID LayerID = 0

	// NoLayer is the parent of the root layer.
	NoLayer LayerID = -1
)

// Kind is the variant tag of an Action.
type Kind uint8

const (
	// KindRun runs an effect and then resets to the root layer.
	KindRun Kind = iota

	// KindOpen opens a child layer.
	KindOpen

	// KindCancel resets to the root layer without running anything.
	KindCancel
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindOpen:
		return "open"
	case KindCancel:
		return "cancel"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Effect is a side-effecting unit of work bound to a chord. A returned error
// is reported but does not prevent the return to the root layer.
type Effect func() error

// Action is a tagged variant: exactly one of Child (KindOpen) or Effect
// (KindRun) is meaningful, KindCancel carries neither.
type Action struct {
	Kind Kind

	// Name describes the action for listings and logs.
	Name string

	// Child is the layer opened by a KindOpen action.
	Child LayerID

	// Effect is run by a KindRun action.
	Effect Effect
}

// Binding is a chord and the action it fires.
type Binding struct {
	Chord  key.Chord
	Action Action
}
