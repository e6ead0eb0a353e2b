package system

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit so long renders with many
// temp files do not trip the default soft limit (macOS/Linux).
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Could not raise file limit: %v", err)
	}
}

// GetBestH264Encoder probes ffmpeg for hardware H.264 encoders and falls
// back to software x264.
func GetBestH264Encoder() string {
	candidates := []string{"h264_videotoolbox", "h264_nvenc"}

	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, name := range candidates {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// HostSnapshot is a point-in-time view of host resources, reported in the
// performance stats and the health endpoint.
type HostSnapshot struct {
	CPUCount       int     `json:"cpu_count"`
	MemTotalMB     uint64  `json:"mem_total_mb"`
	MemUsedPercent float64 `json:"mem_used_percent"`
}

func Snapshot() HostSnapshot {
	snap := HostSnapshot{CPUCount: runtime.NumCPU()}

	if n, err := cpu.Counts(true); err == nil {
		snap.CPUCount = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotalMB = vm.Total / (1 << 20)
		snap.MemUsedPercent = vm.UsedPercent
	}
	return snap
}

func (s HostSnapshot) String() string {
	return fmt.Sprintf("cpu=%d mem=%dMB used=%.1f%%", s.CPUCount, s.MemTotalMB, s.MemUsedPercent)
}
