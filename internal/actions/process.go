package actions

import (
	"fmt"
	"syscall"

	"codeberg.org/mutker/agentctl/internal/directive"
	"codeberg.org/mutker/agentctl/internal/errors"
)

// terminateProcess signals termination to the process with the given pid,
// or to every process whose name matches case-insensitively. Zero and
// negative pids address process groups in kill(2), so only positive pids
// count as a target.
func (d *Dispatcher) terminateProcess(params directive.Params) Result {
	if pid, ok := params.Int("pid"); ok && pid > 0 {
		if err := d.signal(pid, syscall.SIGTERM); err != nil {
			return terminationFailure(err)
		}
		return Result(fmt.Sprintf("Process with PID %d terminated", pid))
	}

	if name, ok := params.String("name"); ok {
		count, err := d.terminateByName(name)
		if err != nil {
			return terminationFailure(err)
		}
		return Result(fmt.Sprintf("%d processes named '%s' terminated", count, name))
	}

	return Result("No PID or process name provided")
}

// closeApplication has the same termination semantics as terminate_process
// by name, framed as a graceful close.
func (d *Dispatcher) closeApplication(params directive.Params) Result {
	name, ok := params.String("name")
	if !ok {
		return missingParam(NameCloseApplication, "name")
	}

	count, err := d.terminateByName(name)
	if err != nil {
		return Result(fmt.Sprintf("Error closing application: %v", err))
	}
	if count == 0 {
		return Result(fmt.Sprintf("No running instances of %s found", name))
	}

	return Result(fmt.Sprintf("%d instances of %s closed", count, name))
}

// terminateByName signals every matching process and reports how many
// accepted the signal. Processes that exit between listing and signalling
// are not counted.
func (d *Dispatcher) terminateByName(name string) (int, error) {
	pids, err := d.findByName(name)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, pid := range pids {
		if err := d.signal(pid, syscall.SIGTERM); err == nil {
			count++
		}
	}

	return count, nil
}

func terminationFailure(err error) Result {
	switch {
	case errors.Is(err, syscall.ESRCH):
		return Result("Process not found")
	case errors.Is(err, syscall.EPERM):
		return Result("Access denied when trying to terminate process")
	default:
		return Result(fmt.Sprintf("Error terminating process: %v", err))
	}
}
