package telemetry

import "codeberg.org/mutker/agentctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidCacheWindow = errors.ErrorCode("telemetry_invalid_cache_window")
	ErrInvalidLimit       = errors.ErrorCode("telemetry_invalid_limit")

	// Probe Errors
	ErrCPUProbe     = errors.ErrorCode("telemetry_cpu_probe_failed")
	ErrMemoryProbe  = errors.ErrorCode("telemetry_memory_probe_failed")
	ErrDiskProbe    = errors.ErrorCode("telemetry_disk_probe_failed")
	ErrProcessProbe = errors.ErrorCode("telemetry_process_probe_failed")
	ErrJournalProbe = errors.ErrorCode("telemetry_journal_probe_failed")
)
