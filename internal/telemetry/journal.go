package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"time"

	"codeberg.org/mutker/agentctl/internal/errors"
)

// journalRunner produces raw journal output, one JSON object per line.
// Swapped out in tests.
type journalRunner func(ctx context.Context) ([]byte, error)

const journalFetchCount = "100"

func runJournalctl(ctx context.Context) ([]byte, error) {
	// -p warning covers emerg..warning, newest first
	cmd := exec.CommandContext(ctx, "journalctl",
		"-o", "json", "-n", journalFetchCount, "-p", "warning", "-r", "--no-pager")
	return cmd.Output()
}

type journalEntry struct {
	Priority  string `json:"PRIORITY"`
	Message   string `json:"MESSAGE"`
	Source    string `json:"SYSLOG_IDENTIFIER"`
	Comm      string `json:"_COMM"`
	PID       string `json:"_PID"`
	Timestamp string `json:"__REALTIME_TIMESTAMP"`
}

// recentLogs returns the newest journal records with ERROR or WARNING
// severity, capped at limit.
func recentLogs(ctx context.Context, run journalRunner, limit int) ([]LogRecord, error) {
	errFactory := errors.New()

	output, err := run(ctx)
	if err != nil {
		return nil, errFactory.Wrap(ErrJournalProbe, err)
	}

	records := make([]LogRecord, 0, limit)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry journalEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			// Journal fields with binary payloads serialize as arrays;
			// skip anything that does not decode as a flat entry
			continue
		}

		level, ok := severityLevel(entry.Priority)
		if !ok {
			continue
		}

		record := LogRecord{
			Source:  entry.Source,
			Level:   level,
			Message: entry.Message,
		}
		if record.Source == "" {
			record.Source = entry.Comm
		}
		if pid, err := strconv.Atoi(entry.PID); err == nil {
			record.EventID = pid
		}
		if usec, err := strconv.ParseInt(entry.Timestamp, 10, 64); err == nil {
			record.Time = time.UnixMicro(usec)
		}

		records = append(records, record)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errFactory.Wrap(ErrJournalProbe, err)
	}

	return records, nil
}

// severityLevel maps syslog priorities to snapshot levels. Priorities
// below err collapse to ERROR; anything above warning is dropped.
func severityLevel(priority string) (string, bool) {
	p, err := strconv.Atoi(priority)
	if err != nil {
		return "", false
	}
	switch {
	case p <= 3:
		return LevelError, true
	case p == 4:
		return LevelWarning, true
	default:
		return "", false
	}
}
