package proc

import "errors"

var (
	// ErrBadPID indicates a negative or out of range process identifier.
	ErrBadPID = errors.New("proc: invalid pid")

	// ErrNotRunning indicates that the process exited or is a zombie
	// awaiting reaping.
	ErrNotRunning = errors.New("proc: process not running")

	// ErrUnknownSource is returned by NewSource for an unrecognized source name.
	ErrUnknownSource = errors.New("proc: unknown stats source")
)
