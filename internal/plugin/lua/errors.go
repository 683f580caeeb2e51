package lua

import "errors"

var (
	// ErrClosed is returned when operating on a closed runtime.
	ErrClosed = errors.New("lua: runtime closed")

	// ErrNoStatusFunc indicates a status script that does not define
	// status(now_unix).
	ErrNoStatusFunc = errors.New("lua: status script must define status(now_unix)")

	// ErrBadStatus indicates status() returned something other than a
	// string.
	ErrBadStatus = errors.New("lua: status() must return a string")
)
