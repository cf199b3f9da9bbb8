package tracker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCommand is returned by Spawn when no program was given.
	ErrEmptyCommand = errors.New("tracker: empty command")

	// ErrClosed is returned by queries on a closed Process.
	ErrClosed = errors.New("tracker: process handle closed")
)

// ProcessAccessError means no stats handle could be opened for PID.
type ProcessAccessError struct {
	PID int
	Err error
}

func (e *ProcessAccessError) Error() string {
	return fmt.Sprintf("tracker: cannot access process %d: %v", e.PID, e.Err)
}

func (e *ProcessAccessError) Unwrap() error { return e.Err }

// SpawnError means Command could not be started.
type SpawnError struct {
	Command []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("tracker: cannot spawn %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// StatsUnavailableError means the process stopped answering stats queries,
// normally because it exited.
type StatsUnavailableError struct {
	PID int
	Err error
}

func (e *StatsUnavailableError) Error() string {
	return fmt.Sprintf("tracker: stats unavailable for process %d: %v", e.PID, e.Err)
}

func (e *StatsUnavailableError) Unwrap() error { return e.Err }
