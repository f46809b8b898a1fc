package telemetry

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/agentctl/internal/errors"
)

type cpuSample struct {
	total uint64
	idle  uint64
}

func readCPUSample(procRoot string) (cpuSample, error) {
	errFactory := errors.New()

	f, err := os.Open(filepath.Join(procRoot, "stat"))
	if err != nil {
		return cpuSample{}, errFactory.Wrap(ErrCPUProbe, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			return cpuSample{}, errFactory.WithMessage(ErrCPUProbe, "malformed cpu line")
		}

		var sample cpuSample
		for i, field := range fields[1:] {
			value, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				return cpuSample{}, errFactory.Wrap(ErrCPUProbe, err)
			}
			sample.total += value
			// idle + iowait
			if i == 3 || i == 4 {
				sample.idle += value
			}
		}

		return sample, nil
	}
	if err := scanner.Err(); err != nil {
		return cpuSample{}, errFactory.Wrap(ErrCPUProbe, err)
	}

	return cpuSample{}, errFactory.WithMessage(ErrCPUProbe, "cpu line not found")
}

func readMeminfo(procRoot string) (MemoryUsage, error) {
	errFactory := errors.New()

	f, err := os.Open(filepath.Join(procRoot, "meminfo"))
	if err != nil {
		return MemoryUsage{}, errFactory.Wrap(ErrMemoryProbe, err)
	}
	defer f.Close()

	var total, available uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total, _ = strconv.ParseUint(fields[1], 10, 64)
		case "MemAvailable:":
			available, _ = strconv.ParseUint(fields[1], 10, 64)
		}
		if total > 0 && available > 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return MemoryUsage{}, errFactory.Wrap(ErrMemoryProbe, err)
	}
	if total == 0 {
		return MemoryUsage{}, errFactory.WithMessage(ErrMemoryProbe, "MemTotal not found")
	}

	// meminfo reports kB
	return MemoryUsage{
		TotalBytes: total * 1024,
		UsedBytes:  (total - available) * 1024,
		FreeBytes:  available * 1024,
	}, nil
}

func readDiskUsage(path string) (DiskUsage, error) {
	errFactory := errors.New()

	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return DiskUsage{}, errFactory.Wrap(ErrDiskProbe, err)
	}

	blockSize := uint64(st.Bsize)
	total := st.Blocks * blockSize
	free := st.Bavail * blockSize
	used := total - st.Bfree*blockSize

	usage := DiskUsage{
		TotalBytes: total,
		UsedBytes:  used,
		FreeBytes:  free,
	}
	if total > 0 {
		usage.Percent = 100 * float64(used) / float64(total)
	}

	return usage, nil
}
