package actions

import (
	"fmt"

	"codeberg.org/mutker/agentctl/internal/directive"
)

// startApplication verifies the path exists, then spawns it as a new
// detached process.
func (d *Dispatcher) startApplication(params directive.Params) Result {
	path, ok := params.String("path")
	if !ok {
		return missingParam(NameStartApplication, "path")
	}

	if !d.pathExists(path) {
		return Result(fmt.Sprintf("Application not found: %s", path))
	}

	pid, err := d.spawn(path, argsParam(params))
	if err != nil {
		return Result(fmt.Sprintf("Error starting application: %v", err))
	}

	return Result(fmt.Sprintf("Application started with PID %d", pid))
}

// argsParam reads the optional args parameter. A list of strings is the
// documented form; a bare string is accepted as a single argument since
// the key=value parameter syntax cannot express lists.
func argsParam(params directive.Params) []string {
	if args, ok := params.Strings("args"); ok {
		return args
	}
	if arg, ok := params.String("args"); ok {
		return []string{arg}
	}
	return nil
}
