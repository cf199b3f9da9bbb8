//go:build linux

package proc

import (
	"fmt"
	"time"

	"github.com/prometheus/procfs"

	"github.com/ja7ad/procrec/pkg/types"
)

// ProcfsSource reads /proc/<pid>/stat through prometheus/procfs and reports
// cumulative CPU time, leaving the percentage math to the caller.
type ProcfsSource struct {
	fs       procfs.FS
	clkTck   int
	pageSize int
}

// NewProcfsSource opens a procfs mount; an empty mountPoint means /proc.
func NewProcfsSource(mountPoint string) (*ProcfsSource, error) {
	if mountPoint == "" {
		mountPoint = procfs.DefaultMountPoint
	}
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("proc: open procfs %s: %w", mountPoint, err)
	}
	return &ProcfsSource{
		fs:       fs,
		clkTck:   ClockTicks(),
		pageSize: PageSize(),
	}, nil
}

func (s *ProcfsSource) Name() string { return SourceProcfs }

// Open fails if pid is unknown, unreadable or already a zombie.
func (s *ProcfsSource) Open(pid int) (Handle, error) {
	if err := checkPID(pid); err != nil {
		return nil, err
	}
	p, err := s.fs.Proc(pid)
	if err != nil {
		return nil, fmt.Errorf("proc: open %d: %w", pid, err)
	}
	st, err := p.Stat()
	if err != nil {
		return nil, fmt.Errorf("proc: stat %d: %w", pid, err)
	}
	if dead(st.State) {
		return nil, ErrNotRunning
	}
	return &procfsHandle{src: s, proc: p}, nil
}

type procfsHandle struct {
	src  *ProcfsSource
	proc procfs.Proc
}

func (h *procfsHandle) Pid() int { return h.proc.PID }

func (h *procfsHandle) stat() (procfs.ProcStat, error) {
	st, err := h.proc.Stat()
	if err != nil {
		return procfs.ProcStat{}, fmt.Errorf("proc: stat %d: %w", h.proc.PID, err)
	}
	if dead(st.State) {
		return procfs.ProcStat{}, ErrNotRunning
	}
	return st, nil
}

func (h *procfsHandle) CPUTime() (time.Duration, error) {
	st, err := h.stat()
	if err != nil {
		return 0, err
	}
	return ticksToDuration(uint64(st.UTime)+uint64(st.STime), h.src.clkTck), nil
}

func (h *procfsHandle) MemoryInfo() (Memory, error) {
	st, err := h.stat()
	if err != nil {
		return Memory{}, err
	}
	rss := st.RSS
	if rss < 0 {
		rss = 0
	}
	return Memory{
		Resident: types.ToBytes(uint64(rss) * uint64(h.src.pageSize)),
		Virtual:  types.ToBytes(uint64(st.VirtualMemory())),
	}, nil
}

func (h *procfsHandle) NumThreads() (int, error) {
	st, err := h.stat()
	if err != nil {
		return 0, err
	}
	return st.NumThreads, nil
}

// Alive is false for exited processes and for zombies.
func (h *procfsHandle) Alive() bool {
	if !Exists(h.proc.PID) {
		return false
	}
	_, err := h.stat()
	return err == nil
}

// dead reports the stat states of a process that will never run again.
func dead(state string) bool {
	return state == "Z" || state == "X" || state == "x"
}
