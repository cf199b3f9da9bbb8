//go:build linux

package proc

import (
	"fmt"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/ja7ad/procrec/pkg/types"
)

// PsutilSource is backed by gopsutil. Its handles implement PercentReporter:
// gopsutil keeps its own previous reading and returns the percentage of one
// core used since then.
type PsutilSource struct{}

func NewPsutilSource() *PsutilSource { return &PsutilSource{} }

func (s *PsutilSource) Name() string { return SourcePsutil }

func (s *PsutilSource) Open(pid int) (Handle, error) {
	if err := checkPID(pid); err != nil {
		return nil, err
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("proc: open %d: %w", pid, err)
	}
	h := &psutilHandle{proc: p}
	if !h.Alive() {
		return nil, ErrNotRunning
	}
	return h, nil
}

type psutilHandle struct {
	proc *process.Process
}

func (h *psutilHandle) Pid() int { return int(h.proc.Pid) }

func (h *psutilHandle) CPUTime() (time.Duration, error) {
	if !h.Alive() {
		return 0, ErrNotRunning
	}
	t, err := h.proc.Times()
	if err != nil {
		return 0, fmt.Errorf("proc: times %d: %w", h.proc.Pid, err)
	}
	return time.Duration((t.User + t.System) * float64(time.Second)), nil
}

// CPUPercent returns 0 on the first call.
func (h *psutilHandle) CPUPercent() (float64, error) {
	if !h.Alive() {
		return 0, ErrNotRunning
	}
	pct, err := h.proc.Percent(0)
	if err != nil {
		return 0, fmt.Errorf("proc: cpu percent %d: %w", h.proc.Pid, err)
	}
	return pct, nil
}

// MemoryInfo checks liveness first: statm of a zombie reads as all zeros
// rather than failing.
func (h *psutilHandle) MemoryInfo() (Memory, error) {
	if !h.Alive() {
		return Memory{}, ErrNotRunning
	}
	m, err := h.proc.MemoryInfo()
	if err != nil {
		return Memory{}, fmt.Errorf("proc: memory %d: %w", h.proc.Pid, err)
	}
	return Memory{
		Resident: types.ToBytes(m.RSS),
		Virtual:  types.ToBytes(m.VMS),
	}, nil
}

func (h *psutilHandle) NumThreads() (int, error) {
	n, err := h.proc.NumThreads()
	if err != nil {
		return 0, fmt.Errorf("proc: threads %d: %w", h.proc.Pid, err)
	}
	return int(n), nil
}

func (h *psutilHandle) Alive() bool {
	ok, err := h.proc.IsRunning()
	if err != nil || !ok {
		return false
	}
	st, err := h.proc.Status()
	if err != nil {
		return false
	}
	return !slices.Contains(st, process.Zombie)
}
