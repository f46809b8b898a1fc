package history

import (
	"database/sql"

	"codeberg.org/mutker/agentctl/internal/errors"
)

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS snapshots (
            timestamp INTEGER PRIMARY KEY,
            cpu_percent REAL,
            memory_percent REAL,
            disk_percent REAL,
            battery_present INTEGER,
            battery_percent REAL,
            battery_charging INTEGER,
            high_cpu INTEGER,
            high_memory INTEGER,
            high_disk INTEGER,
            low_battery INTEGER,
            has_errors INTEGER,
            has_warnings INTEGER,
            top_process TEXT
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrSchemaInit, err)
	}

	return nil
}
