package report

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host describes the machine a run was measured on
type Host struct {
	Hostname         string `json:"hostname" yaml:"hostname"`
	OS               string `json:"os" yaml:"os"`
	Architecture     string `json:"architecture" yaml:"architecture"`
	CPUModel         string `json:"cpu_model,omitempty" yaml:"cpu_model,omitempty"`
	LogicalCPUs      int    `json:"logical_cpus" yaml:"logical_cpus"`
	MemoryTotalBytes uint64 `json:"memory_total_bytes,omitempty" yaml:"memory_total_bytes,omitempty"`
}

// DetectHost gathers host facts. Best effort: fields that cannot be read
// are left empty.
func DetectHost() Host {
	h := Host{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		LogicalCPUs:  runtime.NumCPU(),
	}

	if name, err := os.Hostname(); err == nil {
		h.Hostname = name
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.MemoryTotalBytes = vm.Total
	}

	return h
}
