//go:build linux

package proc

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// ClockTicks returns the number of jiffies (clock ticks) per second.
// The CLK_TCK env var overrides it (useful for testing); otherwise it asks
// sysconf(_SC_CLK_TCK) and falls back to 100.
func ClockTicks() int {
	if v, _ := strconv.Atoi(os.Getenv("CLK_TCK")); v > 0 {
		return v
	}
	if v, err := sysconf.Sysconf(sysconf.SC_CLK_TCK); err == nil && v > 0 {
		return int(v)
	}
	return 100
}

// PageSize returns the system memory page size in bytes.
// Like ClockTicks, it first checks an env override (PAGE_SIZE).
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return unix.Getpagesize()
}

// Exists reports whether the kernel still knows pid. Zombies exist.
// A permission error from kill(2) still proves existence.
func Exists(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// ticksToDuration converts clock ticks at clkTck Hz without overflowing
// for realistic tick counts.
func ticksToDuration(ticks uint64, clkTck int) time.Duration {
	if clkTck <= 0 {
		clkTck = 100
	}
	hz := uint64(clkTck)
	whole := time.Duration(ticks/hz) * time.Second
	frac := time.Duration(ticks%hz) * time.Second / time.Duration(hz)
	return whole + frac
}

func checkPID(pid int) error {
	if pid <= 0 || pid > 1<<22 {
		return ErrBadPID
	}
	return nil
}
