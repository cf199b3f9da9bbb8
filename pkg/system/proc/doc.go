// Package proc provides point-in-time CPU and memory statistics for a single
// Linux process. It is the read-only stats layer underneath pkg/tracker.
//
// Overview
//
//   - Source interface:
//     Open(pid int) (Handle, error)
//     Name() string
//
//   - Handle interface:
//     Pid() int
//     CPUTime() (time.Duration, error)   cumulative user+system time
//     MemoryInfo() (Memory, error)       resident and virtual size in bytes
//     Alive() bool                       false once exited or zombie
//
//     Handles may additionally implement PercentReporter (a backend-computed
//     CPU percentage since the previous call) and ThreadCounter.
//
//   - Backends:
//
//   - procfs (default): /proc/<pid>/stat via prometheus/procfs. CPU time is
//     utime+stime converted with sysconf(_SC_CLK_TCK); RSS is pages times
//     the page size; VSIZE is reported in bytes by the kernel.
//
//   - psutil: gopsutil's process package. Handles implement PercentReporter,
//     so the percentage math is gopsutil's (percent of one core since the
//     last call, 0 on the first call).
//
//   - Errors (errs.go):
//     ErrBadPID        : pid <= 0 or above the kernel's pid_max ceiling
//     ErrNotRunning    : the process exited or is a zombie
//     ErrUnknownSource : NewSource called with an unknown name
//
// # Liveness
//
// Exists uses kill(pid, 0) and so also reports zombies. Handle.Alive is
// stricter and treats the Z and X states as not alive, which is what a
// sampler attached to a foreign process wants: a zombie has no CPU or memory
// left to measure.
package proc
