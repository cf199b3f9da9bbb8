//go:build linux

// Package spawn starts child processes and exposes a non-blocking join on
// them. A watcher goroutine waits for the child with WNOWAIT, so an exited
// child stays a zombie (and its pid stays taken) until TryWait or Wait
// observes the exit and reaps it, exactly once.
package spawn

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	// ErrEmptyCommand is returned by Start for an empty argv.
	ErrEmptyCommand = errors.New("spawn: empty command")
)

// Child is a process started by a Spawner and owned by the caller.
type Child interface {
	Pid() int
	// TryWait reports whether the child has exited. It never blocks.
	TryWait() (exited bool, err error)
	// Terminate kills the child. Killing an exited child is not an error.
	Terminate() error
	// Wait blocks until the child is reaped. The exit status is not
	// interpreted: a non-zero exit or death by signal is not an error.
	Wait() error
}

// Spawner starts programs.
type Spawner interface {
	Start(argv []string) (Child, error)
}

// ExecSpawner starts programs with os/exec. Nil writers inherit the
// corresponding stream of this process.
type ExecSpawner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
	Dir    string

	// OwnGroup places the child in its own process group so that a terminal
	// interrupt reaches only this process, which then tears the child down.
	OwnGroup bool
}

// Start starts argv[0] with argv[1:]. The child is sent SIGKILL if this
// process dies before it.
func (s ExecSpawner) Start(argv []string) (Child, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = orReader(s.Stdin, os.Stdin)
	cmd.Stdout = orWriter(s.Stdout, os.Stdout)
	cmd.Stderr = orWriter(s.Stderr, os.Stderr)
	cmd.Env = s.Env
	cmd.Dir = s.Dir
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   s.OwnGroup,
		Pdeathsig: unix.SIGKILL,
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn: start %s: %w", strings.Join(argv, " "), err)
	}

	c := &execChild{cmd: cmd, exited: make(chan struct{})}
	go c.watch()
	return c, nil
}

type execChild struct {
	cmd    *exec.Cmd
	exited chan struct{} // closed once the child is waitable

	reapOnce sync.Once
	reaped   atomic.Bool
	err      error // set by reap
}

// watch blocks until the child exits without reaping it.
func (c *execChild) watch() {
	defer close(c.exited)
	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, c.cmd.Process.Pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if !errors.Is(err, unix.EINTR) {
			return
		}
	}
}

func (c *execChild) reap() {
	c.reapOnce.Do(func() {
		err := c.cmd.Wait()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = nil
		}
		c.err = err
		c.reaped.Store(true)
	})
}

func (c *execChild) Pid() int { return c.cmd.Process.Pid }

func (c *execChild) TryWait() (bool, error) {
	select {
	case <-c.exited:
		c.reap()
		return true, nil
	default:
		return false, nil
	}
}

func (c *execChild) Terminate() error {
	if c.reaped.Load() {
		return nil
	}
	err := c.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("spawn: kill %d: %w", c.Pid(), err)
	}
	return nil
}

func (c *execChild) Wait() error {
	<-c.exited
	c.reap()
	if c.err != nil {
		return fmt.Errorf("spawn: wait %d: %w", c.Pid(), c.err)
	}
	return nil
}

func orReader(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
