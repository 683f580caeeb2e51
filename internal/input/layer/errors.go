package layer

import "errors"

// Configuration errors reported by Builder.Build.
var (
	// ErrDuplicateChord indicates a chord bound twice in one layer.
	ErrDuplicateChord = errors.New("layer: duplicate chord")

	// ErrCancelCollision indicates a child layer binding the reserved
	// cancel chord to something other than cancel.
	ErrCancelCollision = errors.New("layer: chord collides with cancel chord")

	// ErrInvalidChord indicates a chord without a bindable symbol.
	ErrInvalidChord = errors.New("layer: invalid chord")

	// ErrEmptyLayer indicates a child layer with no bindings.
	ErrEmptyLayer = errors.New("layer: empty layer")

	// ErrTooDeep indicates nesting beyond the builder's maximum depth.
	ErrTooDeep = errors.New("layer: nesting too deep")

	// ErrNilEffect indicates a run binding without an effect.
	ErrNilEffect = errors.New("layer: nil effect")
)
