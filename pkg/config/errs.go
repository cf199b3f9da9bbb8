package config

import "errors"

var (
	ErrBadInterval = errors.New("config: interval must be > 0")
	ErrBadDuration = errors.New("config: duration must be >= 0")
	ErrBadPID      = errors.New("config: pid must be > 0")

	// ErrNoTarget is returned when neither a pid nor a command is given.
	ErrNoTarget = errors.New("config: either a pid or a command is required")

	// ErrBothTargets is returned when a pid and a command are both given.
	ErrBothTargets = errors.New("config: a pid and a command are mutually exclusive")

	ErrUnknownSource = errors.New("config: unknown stats source")
)
