package sampler

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// BaseProbe returns the standard resource-usage probe: overall CPU usage in
// percent (cpu_usage) and used RAM in bytes (ram_usage). Readings that fail
// are omitted from the observation set for that tick rather than reported as
// zero.
func BaseProbe() Probe {
	return func() map[string]float64 {
		observations := make(map[string]float64, 2)

		if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
			observations["cpu_usage"] = percentages[0]
		}

		if vm, err := mem.VirtualMemory(); err == nil {
			observations["ram_usage"] = float64(vm.Used)
		}

		return observations
	}
}
