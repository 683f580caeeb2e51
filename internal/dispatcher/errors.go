package dispatcher

import "errors"

var (
	// ErrBindFailed wraps a seat refusing a chord. It is fatal: the
	// configuration cannot be honored.
	ErrBindFailed = errors.New("dispatcher: bind failed")

	// ErrUnknownLayer indicates a LayerID outside the tree.
	ErrUnknownLayer = errors.New("dispatcher: unknown layer")

	// ErrAlreadyInstalled indicates Install was called twice.
	ErrAlreadyInstalled = errors.New("dispatcher: already installed")

	// ErrNotInstalled indicates OpenLayer or Reset before Install.
	ErrNotInstalled = errors.New("dispatcher: not installed")

	// ErrEffectPanic indicates an effect panicked.
	ErrEffectPanic = errors.New("dispatcher: effect panic")
)
