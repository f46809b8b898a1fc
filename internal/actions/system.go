package actions

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Default platform implementations wired by NewDispatcher.

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

func sendSignal(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

// findProcessesByName scans /proc for processes whose comm matches name
// case-insensitively.
func findProcessesByName(name string) ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || !entry.IsDir() {
			continue
		}

		comm, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "comm"))
		if err != nil {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(string(comm)), name) {
			pids = append(pids, pid)
		}
	}

	return pids, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// spawnDetached starts path in its own session so it outlives the agent,
// and releases the handle rather than reaping it.
func spawnDetached(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	_ = cmd.Process.Release()

	return pid, nil
}
