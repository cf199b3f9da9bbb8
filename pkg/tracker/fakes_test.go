//go:build linux

package tracker

import (
	"errors"
	"time"

	"github.com/ja7ad/procrec/pkg/system/proc"
	"github.com/ja7ad/procrec/pkg/system/spawn"
)

var errNoSuchProcess = errors.New("no such process")

// fakeHandle replays cumulative cpu readings, one per CPUTime call.
type fakeHandle struct {
	pid     int
	alive   bool
	cpu     []time.Duration
	calls   int
	mem     proc.Memory
	threads int
	failCPU error
}

func (h *fakeHandle) Pid() int    { return h.pid }
func (h *fakeHandle) Alive() bool { return h.alive }

func (h *fakeHandle) CPUTime() (time.Duration, error) {
	if h.failCPU != nil {
		return 0, h.failCPU
	}
	if len(h.cpu) == 0 {
		return 0, nil
	}
	i := h.calls
	if i >= len(h.cpu) {
		i = len(h.cpu) - 1
	}
	h.calls++
	return h.cpu[i], nil
}

func (h *fakeHandle) MemoryInfo() (proc.Memory, error) {
	if !h.alive {
		return proc.Memory{}, proc.ErrNotRunning
	}
	return h.mem, nil
}

func (h *fakeHandle) NumThreads() (int, error) { return h.threads, nil }

type percentHandle struct {
	fakeHandle
	pct []float64
	i   int
}

func (h *percentHandle) CPUPercent() (float64, error) {
	v := h.pct[h.i]
	h.i++
	return v, nil
}

type fakeSource struct {
	handles map[int]proc.Handle
	opened  []int
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Open(pid int) (proc.Handle, error) {
	s.opened = append(s.opened, pid)
	h, ok := s.handles[pid]
	if !ok {
		return nil, errNoSuchProcess
	}
	return h, nil
}

type fakeChild struct {
	pid        int
	exited     bool
	reaped     bool
	terminated int
	termErr    error
	waitErr    error
	tryErr     error
	sp         *fakeSpawner
}

func (c *fakeChild) Pid() int { return c.pid }

func (c *fakeChild) TryWait() (bool, error) {
	if c.tryErr != nil {
		return false, c.tryErr
	}
	return c.exited, nil
}

func (c *fakeChild) Terminate() error {
	c.terminated++
	if c.termErr != nil {
		return c.termErr
	}
	c.exited = true
	return nil
}

func (c *fakeChild) Wait() error {
	if !c.exited {
		panic("fakeChild: Wait on a running child would block forever")
	}
	if !c.reaped {
		c.reaped = true
		c.sp.live--
	}
	return c.waitErr
}

type fakeSpawner struct {
	next     *fakeChild
	startErr error
	live     int
	argv     []string
}

func (s *fakeSpawner) Start(argv []string) (spawn.Child, error) {
	s.argv = argv
	if s.startErr != nil {
		return nil, s.startErr
	}
	s.next.sp = s
	s.live++
	return s.next, nil
}
