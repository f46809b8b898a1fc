package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/agentctl/internal/errors"
	"codeberg.org/mutker/agentctl/internal/features"
	"codeberg.org/mutker/agentctl/internal/logger"
	"codeberg.org/mutker/agentctl/internal/telemetry"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	Store(ctx context.Context, snapshot *telemetry.Snapshot, feats features.FeatureSet) error
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing history repository at: %s", cfg.DBPath)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *telemetry.Snapshot, feats features.FeatureSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topProcess := ""
	if feats.TopProcess != nil {
		topProcess = feats.TopProcess.Name
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO snapshots (
            timestamp, cpu_percent, memory_percent, disk_percent,
            battery_present, battery_percent, battery_charging,
            high_cpu, high_memory, high_disk, low_battery,
            has_errors, has_warnings, top_process
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            cpu_percent = excluded.cpu_percent,
            memory_percent = excluded.memory_percent,
            disk_percent = excluded.disk_percent,
            battery_present = excluded.battery_present,
            battery_percent = excluded.battery_percent,
            battery_charging = excluded.battery_charging,
            high_cpu = excluded.high_cpu,
            high_memory = excluded.high_memory,
            high_disk = excluded.high_disk,
            low_battery = excluded.low_battery,
            has_errors = excluded.has_errors,
            has_warnings = excluded.has_warnings,
            top_process = excluded.top_process
    `,
		snapshot.Timestamp.Unix(),
		snapshot.CPUPercent,
		snapshot.MemoryPercent,
		snapshot.Disk.Percent,
		boolToInt(snapshot.Battery.Present),
		snapshot.Battery.Percent,
		boolToInt(snapshot.Battery.Charging),
		boolToInt(feats.HighCPU),
		boolToInt(feats.HighMemory),
		boolToInt(feats.HighDisk),
		boolToInt(feats.LowBattery),
		boolToInt(feats.HasErrors),
		boolToInt(feats.HasWarnings),
		topProcess,
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
