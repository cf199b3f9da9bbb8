//go:build linux

// Package tracker wraps the process being sampled. A Process is either
// External (attached by pid, never signalled or waited on) or Internal
// (spawned by us and owned: reaped on Close, killed first if still running).
package tracker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"k8s.io/utils/clock"

	"github.com/ja7ad/procrec/pkg/system/proc"
	"github.com/ja7ad/procrec/pkg/system/spawn"
	"github.com/ja7ad/procrec/pkg/system/util"
)

// Kind tells the two ownership modes apart.
type Kind int

const (
	External Kind = iota
	Internal
)

func (k Kind) String() string {
	switch k {
	case External:
		return "external"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// mode is implemented only by external and internal.
type mode interface {
	kind() Kind
}

type external struct {
	stats proc.Handle
}

func (external) kind() Kind { return External }

type internal struct {
	child   spawn.Child
	command []string
}

func (internal) kind() Kind { return Internal }

// Process is the tracked target. It is not safe for concurrent use; the
// sampling loop owns it.
type Process struct {
	pid   int
	stats proc.Handle
	mode  mode

	clock   clock.PassiveClock
	log     *slog.Logger
	numCPU  int // divide CPU% by this; 1 means percent of one core
	exited  bool
	closed  bool
	primed  bool
	lastCPU time.Duration
	lastAt  time.Time

	// exitUnknown is set when the try-join failed: the child counts as
	// gone for sampling but must still be terminated before the reap.
	exitUnknown bool
}

// Option configures a Process.
type Option func(*Process)

// WithClock sets the wall clock used for CPU% derivation.
func WithClock(c clock.PassiveClock) Option { return func(p *Process) { p.clock = c } }

// WithLogger sets the logger used for teardown warnings.
func WithLogger(l *slog.Logger) Option { return func(p *Process) { p.log = l } }

// WithPerCore normalizes CPU% by n logical CPUs so that 100 means the whole
// machine. n <= 1 keeps percent-of-one-core.
func WithPerCore(n int) Option {
	return func(p *Process) {
		if n > 1 {
			p.numCPU = n
		}
	}
}

func newProcess(pid int, stats proc.Handle, m mode, opts []Option) *Process {
	p := &Process{
		pid:    pid,
		stats:  stats,
		mode:   m,
		clock:  clock.RealClock{},
		log:    slog.Default(),
		numCPU: 1,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Attach tracks an already running process. It never spawns.
func Attach(src proc.Source, pid int, opts ...Option) (*Process, error) {
	h, err := src.Open(pid)
	if err != nil {
		return nil, &ProcessAccessError{PID: pid, Err: err}
	}
	return newProcess(pid, h, external{stats: h}, opts), nil
}

// Spawn starts argv and tracks the child. If the child starts but its stats
// cannot be opened, it is killed and reaped before Spawn returns.
func Spawn(src proc.Source, sp spawn.Spawner, argv []string, opts ...Option) (*Process, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}
	command := append([]string(nil), argv...)

	child, err := sp.Start(command)
	if err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	h, err := src.Open(child.Pid())
	if err != nil {
		accessErr := &ProcessAccessError{PID: child.Pid(), Err: err}
		p := newProcess(child.Pid(), nil, internal{child: child, command: command}, opts)
		if cerr := p.Close(); cerr != nil {
			p.log.Warn("cleanup after failed attach", "pid", child.Pid(), "err", cerr)
		}
		return nil, accessErr
	}
	return newProcess(child.Pid(), h, internal{child: child, command: command}, opts), nil
}

func (p *Process) Pid() int { return p.pid }

func (p *Process) Kind() Kind { return p.mode.kind() }

// Command returns the spawned argv, or nil for an External process.
func (p *Process) Command() []string {
	if m, ok := p.mode.(internal); ok {
		return append([]string(nil), m.command...)
	}
	return nil
}

// Stats exposes the read-only stats handle.
func (p *Process) Stats() proc.Handle { return p.stats }

// IsRunning never blocks. For a spawned child only the non-blocking join is
// consulted: the pid may already belong to someone else once it is reaped.
// Once false it stays false.
func (p *Process) IsRunning() bool {
	if p.exited || p.closed {
		return false
	}
	var running bool
	switch m := p.mode.(type) {
	case external:
		running = m.stats.Alive()
	case internal:
		exited, err := m.child.TryWait()
		if err != nil {
			p.log.Warn("try-join failed", "pid", p.pid, "err", err)
			p.exitUnknown = true
		}
		running = err == nil && !exited
	}
	if !running {
		p.exited = true
	}
	return running
}

// CPUPercent returns the CPU utilization since the previous call. The first
// call only sets the baseline and its result is meaningless.
func (p *Process) CPUPercent() (float64, error) {
	if err := p.queryable(); err != nil {
		return 0, err
	}

	if pr, ok := p.stats.(proc.PercentReporter); ok {
		pct, err := pr.CPUPercent()
		if err != nil {
			return 0, &StatsUnavailableError{PID: p.pid, Err: err}
		}
		p.primed = true
		return pct / float64(p.numCPU), nil
	}

	cpu, err := p.stats.CPUTime()
	if err != nil {
		return 0, &StatsUnavailableError{PID: p.pid, Err: err}
	}
	now := p.clock.Now()
	if !p.primed {
		p.primed = true
		p.lastCPU, p.lastAt = cpu, now
		return 0, nil
	}

	pct := Percent(p.lastCPU, cpu, now.Sub(p.lastAt)) / float64(p.numCPU)
	p.lastCPU, p.lastAt = cpu, now
	return pct, nil
}

// MemoryInfo returns the current resident and virtual size.
func (p *Process) MemoryInfo() (proc.Memory, error) {
	if err := p.queryable(); err != nil {
		return proc.Memory{}, err
	}
	m, err := p.stats.MemoryInfo()
	if err != nil {
		return proc.Memory{}, &StatsUnavailableError{PID: p.pid, Err: err}
	}
	return m, nil
}

// NumThreads returns the thread count, or 0 when the source cannot tell.
func (p *Process) NumThreads() (int, error) {
	if err := p.queryable(); err != nil {
		return 0, err
	}
	tc, ok := p.stats.(proc.ThreadCounter)
	if !ok {
		return 0, nil
	}
	n, err := tc.NumThreads()
	if err != nil {
		return 0, &StatsUnavailableError{PID: p.pid, Err: err}
	}
	return n, nil
}

func (p *Process) queryable() error {
	if p.closed {
		return &StatsUnavailableError{PID: p.pid, Err: ErrClosed}
	}
	if p.exited {
		return &StatsUnavailableError{PID: p.pid, Err: proc.ErrNotRunning}
	}
	return nil
}

// Close releases the process. For an Internal process it kills the child if
// it is still running, or if its exit was never confirmed, and then blocks until it is reaped; the returned error
// collects what could not be confirmed and is meant to be logged as a
// warning. Closing an External process does nothing to it. Close is
// idempotent.
func (p *Process) Close() error {
	if p.closed {
		return nil
	}
	m, ok := p.mode.(internal)
	if !ok {
		p.closed = true
		return nil
	}

	var result *multierror.Error
	if p.IsRunning() || p.exitUnknown {
		p.log.Debug("terminating child", "pid", p.pid)
		if err := m.child.Terminate(); err != nil {
			// a child we could not kill may never exit; do not wait on it
			p.closed = true
			result = multierror.Append(result, err, fmt.Errorf("tracker: child %d left unreaped", p.pid))
			return result.ErrorOrNil()
		}
	}
	p.closed = true
	if err := m.child.Wait(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Percent is Δcpu / Δwall as a percentage of one core. A non-positive wall
// delta yields 0.
func Percent(prevCPU, curCPU time.Duration, wall time.Duration) float64 {
	d := util.DeltaU64(uint64(curCPU), uint64(prevCPU))
	return 100 * util.SafeDiv(float64(d), float64(wall))
}
