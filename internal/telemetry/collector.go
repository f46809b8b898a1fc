package telemetry

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"codeberg.org/mutker/agentctl/internal/logger"
)

// service collects host telemetry from the kernel interfaces under /proc
// and /sys plus the systemd journal. Snapshots are cached for a short
// wall-clock window so callers inside one decision cycle see the same data.
type service struct {
	cfg      Config
	procRoot string
	sysRoot  string
	journal  journalRunner
	now      func() time.Time

	mu       sync.Mutex
	cached   *Snapshot
	cachedAt time.Time
	prevCPU  *cpuSample
}

func NewCollector(cfg Config) (Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &service{
		cfg:      cfg,
		procRoot: "/proc",
		sysRoot:  "/sys/class/power_supply",
		journal:  runJournalctl,
		now:      time.Now,
	}, nil
}

func (s *service) Collect(ctx context.Context) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.cachedAt) < time.Duration(s.cfg.CacheWindow)*time.Second {
		return s.cached
	}

	snapshot := &Snapshot{Timestamp: s.now()}

	snapshot.CPUPercent = s.cpuPercent()

	mem, err := readMeminfo(s.procRoot)
	if err != nil {
		logger.Warn().Err(err).Msg("Memory probe failed")
	} else {
		snapshot.Memory = mem
		if mem.TotalBytes > 0 {
			snapshot.MemoryPercent = 100 * float64(mem.UsedBytes) / float64(mem.TotalBytes)
		}
	}

	disk, err := readDiskUsage("/")
	if err != nil {
		logger.Warn().Err(err).Msg("Disk probe failed")
	} else {
		snapshot.Disk = disk
	}

	snapshot.Battery = readBattery(s.sysRoot)

	procs, err := topProcesses(s.procRoot, mem.TotalBytes, s.cfg.ProcessLimit, s.now())
	if err != nil {
		logger.Warn().Err(err).Msg("Process probe failed")
	} else {
		snapshot.Processes = procs
	}

	logs, err := recentLogs(ctx, s.journal, s.cfg.LogLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("Journal probe failed")
	} else {
		snapshot.Logs = logs
	}

	snapshot.Host = hostInfo(mem.TotalBytes)

	s.cached = snapshot
	s.cachedAt = s.now()

	return snapshot
}

const cpuSampleDelay = 200 * time.Millisecond

func (s *service) cpuPercent() float64 {
	current, err := readCPUSample(s.procRoot)
	if err != nil {
		logger.Warn().Err(err).Msg("CPU probe failed")
		return 0
	}

	prev := s.prevCPU
	if prev == nil {
		// No earlier sample to diff against, take a short second one
		time.Sleep(cpuSampleDelay)
		again, err := readCPUSample(s.procRoot)
		if err != nil {
			logger.Warn().Err(err).Msg("CPU probe failed")
			return 0
		}
		first := current
		prev = &first
		current = again
	}
	s.prevCPU = &current

	deltaTotal := current.total - prev.total
	deltaIdle := current.idle - prev.idle
	if deltaTotal == 0 {
		return 0
	}

	return 100 * (1 - float64(deltaIdle)/float64(deltaTotal))
}

func hostInfo(totalMemory uint64) HostInfo {
	hostname, _ := os.Hostname()

	return HostInfo{
		Hostname:         hostname,
		OS:               runtime.GOOS,
		NumCPU:           runtime.NumCPU(),
		TotalMemoryBytes: totalMemory,
	}
}
