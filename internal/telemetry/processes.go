package telemetry

import (
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/agentctl/internal/errors"
)

// Clock tick rate assumed for /proc/<pid>/stat time fields. Linux reports
// these in USER_HZ units, fixed at 100 on every supported architecture.
const userHz = 100

// topProcesses lists running processes sorted descending by CPU usage,
// capped at limit. Processes that vanish mid-scan are skipped silently.
func topProcesses(procRoot string, totalMemory uint64, limit int, now time.Time) ([]ProcessRecord, error) {
	errFactory := errors.New()

	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return nil, errFactory.Wrap(ErrProcessProbe, err)
	}

	bootTime, err := readBootTime(procRoot)
	if err != nil {
		return nil, err
	}

	records := make([]ProcessRecord, 0, len(entries))
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || !entry.IsDir() {
			continue
		}

		record, err := readProcess(procRoot, pid, totalMemory, bootTime, now)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CPUPercent > records[j].CPUPercent
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func readProcess(procRoot string, pid int, totalMemory uint64, bootTime, now time.Time) (ProcessRecord, error) {
	errFactory := errors.New()
	dir := filepath.Join(procRoot, strconv.Itoa(pid))

	statData, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		return ProcessRecord{}, errFactory.Wrap(ErrProcessProbe, err)
	}

	name, cpuTicks, startTicks, err := parseProcStat(string(statData))
	if err != nil {
		return ProcessRecord{}, err
	}

	record := ProcessRecord{
		PID:  pid,
		Name: name,
	}

	started := bootTime.Add(time.Duration(startTicks/userHz) * time.Second)
	if age := now.Sub(started).Seconds(); age > 0 {
		record.CPUPercent = 100 * (float64(cpuTicks) / userHz) / age
	}

	if rss, uid, ok := readProcStatus(dir); ok {
		if totalMemory > 0 {
			record.MemoryPercent = 100 * float64(rss) / float64(totalMemory)
		}
		record.User = uid
		if u, err := user.LookupId(uid); err == nil {
			record.User = u.Username
		}
	}

	return record, nil
}

// parseProcStat extracts the comm, utime+stime and starttime fields. The
// comm field may itself contain spaces and parentheses, so fields are
// counted from the closing paren.
func parseProcStat(data string) (name string, cpuTicks, startTicks uint64, err error) {
	errFactory := errors.New()

	open := strings.IndexByte(data, '(')
	closing := strings.LastIndexByte(data, ')')
	if open < 0 || closing < 0 || closing < open {
		return "", 0, 0, errFactory.WithMessage(ErrProcessProbe, "malformed stat line")
	}
	name = data[open+1 : closing]

	fields := strings.Fields(data[closing+1:])
	// fields[0] is state; utime and stime are stat fields 14 and 15,
	// starttime is field 22 (1-based, counting pid as field 1)
	if len(fields) < 20 {
		return "", 0, 0, errFactory.WithMessage(ErrProcessProbe, "truncated stat line")
	}

	utime, _ := strconv.ParseUint(fields[11], 10, 64)
	stime, _ := strconv.ParseUint(fields[12], 10, 64)
	start, _ := strconv.ParseUint(fields[19], 10, 64)

	return name, utime + stime, start, nil
}

// readProcStatus returns the resident set size in bytes and the real uid
func readProcStatus(dir string) (rss uint64, uid string, ok bool) {
	data, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return 0, "", false
	}

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "VmRSS:":
			kb, _ := strconv.ParseUint(fields[1], 10, 64)
			rss = kb * 1024
		case "Uid:":
			uid = fields[1]
		}
	}

	return rss, uid, true
}

func readBootTime(procRoot string) (time.Time, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(filepath.Join(procRoot, "stat"))
	if err != nil {
		return time.Time{}, errFactory.Wrap(ErrProcessProbe, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "btime ") {
			continue
		}
		seconds, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, "btime ")), 10, 64)
		if err != nil {
			return time.Time{}, errFactory.Wrap(ErrProcessProbe, err)
		}
		return time.Unix(seconds, 0), nil
	}

	return time.Time{}, errFactory.WithMessage(ErrProcessProbe, "btime not found")
}
