package config

import "errors"

var (
	// ErrInvalid wraps every validation problem.
	ErrInvalid = errors.New("config: invalid")

	// ErrUnknownEnv indicates an environment override for a path that does
	// not exist.
	ErrUnknownEnv = errors.New("config: unknown environment override")
)
