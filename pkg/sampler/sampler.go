// Package sampler drives a tracked process at a fixed cadence and collects
// a Recording.
//
// Each iteration sleeps for the interval (a fixed delay, late ticks are not
// caught up), then stops if cancellation was requested or the target is no
// longer running, and otherwise measures. Elapsed time starts at the first
// accepted sample. With a duration limit the loop stops right after the
// first sample whose elapsed time exceeds it.
package sampler

import (
	"fmt"
	"log/slog"
	"time"

	"k8s.io/utils/clock"

	"github.com/ja7ad/procrec/pkg/system/proc"
)

// Target is what the loop measures; *tracker.Process implements it.
type Target interface {
	Pid() int
	IsRunning() bool
	CPUPercent() (float64, error)
	MemoryInfo() (proc.Memory, error)
}

// threadCounter is optionally implemented by a Target.
type threadCounter interface {
	NumThreads() (int, error)
}

// Canceller is polled between ticks.
type Canceller interface {
	Cancelled() bool
}

type State int

const (
	Idle State = iota
	Sampling
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sampling:
		return "sampling"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason tells why a run reached Stopped.
type StopReason int

const (
	NotStopped StopReason = iota
	Cancelled
	TargetExited
	DurationElapsed
	Failed
)

func (r StopReason) String() string {
	switch r {
	case NotStopped:
		return "not stopped"
	case Cancelled:
		return "cancelled"
	case TargetExited:
		return "target exited"
	case DurationElapsed:
		return "duration elapsed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds the loop parameters.
type Config struct {
	Interval time.Duration
	// Duration limits the run; zero means until cancelled or exited.
	Duration time.Duration

	Clock  clock.Clock // defaults to the real clock
	Cancel Canceller   // nil never cancels

	// OnSample, when set, sees every sample as soon as it is recorded. Its
	// errors are logged and never stop the loop.
	OnSample func(Sample) error

	Logger *slog.Logger
}

// Sampler runs one sampling loop. It is single use.
type Sampler struct {
	cfg    Config
	state  State
	reason StopReason
}

// New validates cfg and fills in defaults.
func New(cfg Config) (*Sampler, error) {
	if cfg.Interval <= 0 {
		return nil, ErrBadInterval
	}
	if cfg.Duration < 0 {
		return nil, ErrBadDuration
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Sampler{cfg: cfg}, nil
}

func (s *Sampler) State() State { return s.state }

func (s *Sampler) Reason() StopReason { return s.reason }

// Run samples t until a stop condition fires. On a measurement failure it
// returns the samples gathered so far together with the error.
func (s *Sampler) Run(t Target) (Recording, error) {
	if s.state != Idle {
		return nil, ErrAlreadyRun
	}

	var rec Recording
	if !t.IsRunning() {
		s.stop(TargetExited)
		return rec, nil
	}
	if _, err := t.CPUPercent(); err != nil {
		s.stop(Failed)
		return rec, fmt.Errorf("sampler: cpu baseline: %w", err)
	}

	var start time.Time
	for {
		if s.cancelled() {
			s.stop(Cancelled)
			return rec, nil
		}
		s.cfg.Clock.Sleep(s.cfg.Interval)
		if s.cancelled() {
			s.stop(Cancelled)
			return rec, nil
		}
		if !t.IsRunning() {
			s.stop(TargetExited)
			return rec, nil
		}

		now := s.cfg.Clock.Now()
		if s.state == Idle {
			start = now
			s.state = Sampling
		}
		sample, err := measure(t, now.Sub(start).Seconds())
		if err != nil {
			s.stop(Failed)
			return rec, err
		}
		rec = append(rec, sample)
		s.report(sample)

		if s.cfg.Duration > 0 && sample.Elapsed > s.cfg.Duration.Seconds() {
			s.stop(DurationElapsed)
			return rec, nil
		}
	}
}

func measure(t Target, elapsed float64) (Sample, error) {
	cpu, err := t.CPUPercent()
	if err != nil {
		return Sample{}, fmt.Errorf("sampler: cpu: %w", err)
	}
	mem, err := t.MemoryInfo()
	if err != nil {
		return Sample{}, fmt.Errorf("sampler: memory: %w", err)
	}
	var threads int
	if tc, ok := t.(threadCounter); ok {
		if threads, err = tc.NumThreads(); err != nil {
			return Sample{}, fmt.Errorf("sampler: threads: %w", err)
		}
	}
	return Sample{
		Elapsed: elapsed,
		PID:     t.Pid(),
		CPU:     cpu,
		RSS:     mem.Resident,
		VSize:   mem.Virtual,
		Threads: threads,
	}, nil
}

func (s *Sampler) report(sample Sample) {
	if s.cfg.OnSample == nil {
		return
	}
	if err := s.cfg.OnSample(sample); err != nil {
		s.cfg.Logger.Warn("report sample", "err", err)
	}
}

func (s *Sampler) cancelled() bool {
	return s.cfg.Cancel != nil && s.cfg.Cancel.Cancelled()
}

func (s *Sampler) stop(r StopReason) {
	s.state = Stopped
	s.reason = r
	s.cfg.Logger.Debug("sampling stopped", "reason", r.String())
}
