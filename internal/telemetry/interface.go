package telemetry

import (
	"context"
	"time"
)

// Collector supplies point-in-time snapshots of host telemetry. Collect
// never fails: probes that error degrade to zero values so one bad sensor
// cannot take down a collection cycle.
type Collector interface {
	Collect(ctx context.Context) *Snapshot
}

// Snapshot is an immutable capture of machine telemetry at one point in
// time. Consumers must not assume two snapshots are comparable beyond
// simple field diffs.
type Snapshot struct {
	Timestamp     time.Time
	CPUPercent    float64
	MemoryPercent float64
	Memory        MemoryUsage
	Disk          DiskUsage
	Battery       BatteryStatus
	Processes     []ProcessRecord
	Logs          []LogRecord
	Host          HostInfo
}

// Domain value objects
type MemoryUsage struct {
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
}

type DiskUsage struct {
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
	Percent    float64
}

type BatteryStatus struct {
	Present  bool
	Percent  float64
	Charging bool
	// SecondsLeft is negative when no estimate is available
	SecondsLeft int64
}

// ProcessRecord describes one running process. CPUPercent is averaged over
// the process lifetime.
type ProcessRecord struct {
	PID           int
	Name          string
	User          string
	CPUPercent    float64
	MemoryPercent float64
}

// Log severity levels retained in a snapshot
const (
	LevelError   = "ERROR"
	LevelWarning = "WARNING"
)

type LogRecord struct {
	Source  string
	Time    time.Time
	Level   string
	EventID int
	Message string
}

type HostInfo struct {
	Hostname         string
	OS               string
	NumCPU           int
	TotalMemoryBytes uint64
}
