package features

import (
	"codeberg.org/mutker/agentctl/internal/telemetry"
)

// ThresholdPolicy holds the usage percentages above (or, for battery,
// below) which a snapshot is considered worth acting on.
type ThresholdPolicy struct {
	CPUUsage    float64
	MemoryUsage float64
	DiskUsage   float64
	BatteryLow  float64
}

func DefaultPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		CPUUsage:    80,
		MemoryUsage: 80,
		DiskUsage:   90,
		BatteryLow:  20,
	}
}

// TopProcess summarizes the most resource-intensive process of a snapshot.
type TopProcess struct {
	Name          string
	CPUPercent    float64
	MemoryPercent float64
}

// FeatureSet is a deterministic derivation from one snapshot and one
// policy. It carries no state of its own.
type FeatureSet struct {
	HighCPU     bool
	HighMemory  bool
	HighDisk    bool
	LowBattery  bool
	IsCharging  bool
	HasErrors   bool
	HasWarnings bool
	TopProcess  *TopProcess
}

// Extract computes the feature flags for a snapshot. It is total: a nil or
// partially empty snapshot yields the policy-safe defaults, in particular
// an absent battery counts as plugged in.
func Extract(snapshot *telemetry.Snapshot, policy ThresholdPolicy) FeatureSet {
	features := FeatureSet{IsCharging: true}
	if snapshot == nil {
		return features
	}

	features.HighCPU = snapshot.CPUPercent > policy.CPUUsage
	features.HighMemory = snapshot.MemoryPercent > policy.MemoryUsage
	features.HighDisk = snapshot.Disk.Percent > policy.DiskUsage

	if snapshot.Battery.Present {
		features.LowBattery = snapshot.Battery.Percent < policy.BatteryLow
		features.IsCharging = snapshot.Battery.Charging
	}

	for _, record := range snapshot.Logs {
		switch record.Level {
		case telemetry.LevelError:
			features.HasErrors = true
		case telemetry.LevelWarning:
			features.HasWarnings = true
		}
	}

	if len(snapshot.Processes) > 0 {
		top := snapshot.Processes[0]
		features.TopProcess = &TopProcess{
			Name:          top.Name,
			CPUPercent:    top.CPUPercent,
			MemoryPercent: top.MemoryPercent,
		}
	}

	return features
}

// ShouldAct is the admission gate for unsolicited background action: true
// when any critical condition holds. A low battery only counts while not
// charging; warnings alone never trigger action.
func ShouldAct(features FeatureSet) bool {
	return features.HighCPU ||
		features.HighMemory ||
		features.HighDisk ||
		(features.LowBattery && !features.IsCharging) ||
		features.HasErrors
}
