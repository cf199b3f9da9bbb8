//go:build linux

package proc

import (
	"fmt"
	"time"

	"github.com/ja7ad/procrec/pkg/types"
)

// Source names accepted by NewSource.
const (
	SourceProcfs = "procfs"
	SourcePsutil = "psutil"
)

// Memory is a point-in-time memory footprint.
type Memory struct {
	Resident types.Bytes
	Virtual  types.Bytes
}

// Source opens stats handles for process identifiers.
type Source interface {
	Open(pid int) (Handle, error)
	Name() string
}

// Handle answers read-only queries about one process.
type Handle interface {
	Pid() int
	// CPUTime is the cumulative user+system CPU time consumed so far.
	CPUTime() (time.Duration, error)
	MemoryInfo() (Memory, error)
	Alive() bool
}

// PercentReporter is implemented by handles whose backend computes the CPU
// percentage itself (since the previous call). Callers use the figure as-is.
type PercentReporter interface {
	CPUPercent() (float64, error)
}

// ThreadCounter is implemented by handles that can report the thread count.
type ThreadCounter interface {
	NumThreads() (int, error)
}

// NewSource returns the Source registered under name.
func NewSource(name string) (Source, error) {
	switch name {
	case SourceProcfs, "":
		s, err := NewProcfsSource("")
		if err != nil {
			return nil, err
		}
		return s, nil
	case SourcePsutil:
		return NewPsutilSource(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}
