//go:build linux

// Package interrupt turns terminal interrupts into a cancellation flag that
// the sampling loop polls between ticks. The handler goroutine only stores
// to the flag: no I/O and no process cleanup happen there.
package interrupt

import (
	"errors"
	"os"
	"os/signal"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

// ErrAlreadyInstalled is returned by Install when a handler is active.
var ErrAlreadyInstalled = errors.New("interrupt: handler already installed")

// installed guards the one-shot registration.
var installed = atomic.NewBool(false)

// Flag is a cancellation flag, false until Set.
type Flag struct {
	v *atomic.Bool
}

func NewFlag() *Flag { return &Flag{v: atomic.NewBool(false)} }

// Set raises the flag. It reports whether this call raised it.
func (f *Flag) Set() bool { return f.v.CompareAndSwap(false, true) }

// Cancelled reports whether the flag has been raised.
func (f *Flag) Cancelled() bool { return f.v.Load() }

// Install routes sigs (SIGINT and SIGTERM when empty) to f.Set until the
// returned stop is called. Only one handler may be installed at a time.
func Install(f *Flag, sigs ...os.Signal) (stop func(), err error) {
	if f == nil {
		return nil, errors.New("interrupt: nil flag")
	}
	if !installed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInstalled
	}
	if len(sigs) == 0 {
		sigs = []os.Signal{unix.SIGINT, unix.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, sigs...)

	go func() {
		for {
			select {
			case <-ch:
				f.Set()
			case <-done:
				return
			}
		}
	}()

	var stopped = atomic.NewBool(false)
	return func() {
		if !stopped.CompareAndSwap(false, true) {
			return
		}
		signal.Stop(ch)
		close(done)
		installed.Store(false)
	}, nil
}
