//go:build linux

package util

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/ja7ad/procrec/pkg/system/cgroup"
	"github.com/ja7ad/procrec/pkg/types"
)

// SystemSummary returns host name, kernel, CPU and memory descriptions for
// the startup banner. Missing facts degrade to "unknown" instead of failing.
func SystemSummary() (hostname, kernel, cpus, memory, cgroups string) {
	hostname, kernel, cpus, memory, cgroups = "unknown", "unknown", "unknown", "unknown", "unknown"

	if info, err := host.Info(); err == nil {
		hostname = info.Hostname
		kernel = fmt.Sprintf("%s %s", info.KernelVersion, info.KernelArch)
	}

	logical := runtime.NumCPU()
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		logical = n
	}
	cpus = fmt.Sprintf("%d logical", logical)
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		cpus = fmt.Sprintf("%d logical / %d physical", logical, n)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%s total, %s available",
			types.ToBytes(vm.Total).Humanized(), types.ToBytes(vm.Available).Humanized())
	}

	if ver, _, err := cgroup.Detect(); err == nil {
		cgroups = ver.String()
	}
	return
}
