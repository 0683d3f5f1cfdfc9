package widget

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// SystemMonitor renders CPU/memory/disk usage read from /proc and statfs,
// each line independently toggleable.
type SystemMonitor struct {
	Base
	showCPU    bool
	showMemory bool
	showDisk   bool
	interval   time.Duration

	prevIdle  uint64
	prevTotal uint64

	cpuPercent float64
	memPercent float64
	diskPercent float64
}

func newSystemMonitor(cfg RawConfig, deps Deps) (Widget, error) {
	const typ = "system_monitor"
	showCPU, err := cfg.getBool(typ, "show_cpu", true)
	if err != nil {
		return nil, err
	}
	showMemory, err := cfg.getBool(typ, "show_memory", true)
	if err != nil {
		return nil, err
	}
	showDisk, err := cfg.getBool(typ, "show_disk", false)
	if err != nil {
		return nil, err
	}
	interval, err := cfg.getInt(typ, "update_interval", 2)
	if err != nil {
		return nil, err
	}
	if interval < 1 {
		interval = 1
	}
	return &SystemMonitor{
		showCPU:    showCPU,
		showMemory: showMemory,
		showDisk:   showDisk,
		interval:   time.Duration(interval) * time.Second,
	}, nil
}

func (s *SystemMonitor) Info() Info {
	lines := 0
	if s.showCPU {
		lines++
	}
	if s.showMemory {
		lines++
	}
	if s.showDisk {
		lines++
	}
	if lines == 0 {
		lines = 1
	}
	return Info{ID: "system_monitor", DisplayName: "System Monitor", PreferredHeight: float64(lines) * 20, MinHeight: 20}
}

func (s *SystemMonitor) UpdateInterval() time.Duration { return s.interval }

func (s *SystemMonitor) Tick() {
	if s.showCPU {
		s.cpuPercent = s.readCPUPercent()
	}
	if s.showMemory {
		s.memPercent = s.readMemPercent()
	}
	if s.showDisk {
		s.diskPercent = s.readDiskPercent("/")
	}
}

func (s *SystemMonitor) Content() Content {
	var lines []Line
	if s.showCPU {
		lines = append(lines, Line{Text: "CPU " + formatPercent(s.cpuPercent), Size: SizeSmall})
	}
	if s.showMemory {
		lines = append(lines, Line{Text: "Mem " + formatPercent(s.memPercent), Size: SizeSmall})
	}
	if s.showDisk {
		lines = append(lines, Line{Text: "Disk " + formatPercent(s.diskPercent), Size: SizeSmall})
	}
	if len(lines) == 0 {
		return EmptyContent()
	}
	if len(lines) == 1 {
		return TextContent(lines[0].Text, lines[0].Size)
	}
	return MultiLineContent(lines)
}

func formatPercent(p float64) string {
	return strconv.Itoa(int(p+0.5)) + "%"
}

// readCPUPercent samples /proc/stat's aggregate line and derives the
// percentage of non-idle time since the previous sample. The first call
// after process start has no baseline and reports 0.
func (s *SystemMonitor) readCPUPercent() float64 {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return s.cpuPercent
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return s.cpuPercent
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 5 || fields[0] != "cpu" {
		return s.cpuPercent
	}
	var total, idle uint64
	for i, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			continue
		}
		total += v
		if i == 3 { // idle field
			idle = v
		}
	}

	defer func() { s.prevTotal, s.prevIdle = total, idle }()
	if s.prevTotal == 0 {
		return 0
	}
	dTotal := total - s.prevTotal
	dIdle := idle - s.prevIdle
	if dTotal == 0 {
		return s.cpuPercent
	}
	return float64(dTotal-dIdle) / float64(dTotal) * 100
}

func (s *SystemMonitor) readMemPercent() float64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return s.memPercent
	}
	defer f.Close()

	var total, available uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch strings.TrimSuffix(fields[0], ":") {
		case "MemTotal":
			total = v
		case "MemAvailable":
			available = v
		}
	}
	if total == 0 {
		return s.memPercent
	}
	return float64(total-available) / float64(total) * 100
}

func (s *SystemMonitor) readDiskPercent(path string) float64 {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return s.diskPercent
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bfree * uint64(stat.Bsize)
	if total == 0 {
		return s.diskPercent
	}
	return float64(total-free) / float64(total) * 100
}
