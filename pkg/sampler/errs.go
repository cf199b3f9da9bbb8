package sampler

import "errors"

var (
	// ErrBadInterval indicates a non-positive sampling interval.
	ErrBadInterval = errors.New("sampler: interval must be > 0")

	// ErrBadDuration indicates a negative duration limit.
	ErrBadDuration = errors.New("sampler: duration must be >= 0")

	// ErrAlreadyRun is returned when Run is called on a used Sampler.
	ErrAlreadyRun = errors.New("sampler: already run")
)
