package actions

import (
	"fmt"
	"syscall"

	"codeberg.org/mutker/agentctl/internal/directive"
	"codeberg.org/mutker/agentctl/internal/logger"
	"github.com/google/uuid"
)

// Result is the outcome of one directive. Failures are rendered into the
// result text instead of raised, so a batch always yields one result per
// directive.
type Result string

// Dispatcher executes directive batches against the fixed action set. The
// platform touchpoints are injectable so operations stay testable without
// mutating the host.
type Dispatcher struct {
	run        commandRunner
	signal     func(pid int, sig syscall.Signal) error
	findByName func(name string) ([]int, error)
	pathExists func(path string) bool
	spawn      func(path string, args []string) (int, error)
}

type commandRunner func(name string, args ...string) ([]byte, error)

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		run:        runCommand,
		signal:     sendSignal,
		findByName: findProcessesByName,
		pathExists: pathExists,
		spawn:      spawnDetached,
	}
}

// Execute runs every directive in order and returns one result per
// directive, same order. A failure in directive i never prevents
// directives i+1..n from being attempted.
func (d *Dispatcher) Execute(directives []directive.Directive) []Result {
	results := make([]Result, 0, len(directives))
	batchID := uuid.NewString()

	for i, dir := range directives {
		result := d.dispatch(dir)

		logger.Info().
			Str("batch_id", batchID).
			Int("index", i).
			Str("action", dir.Name).
			Str("result", string(result)).
			Msg("Action dispatched")

		results = append(results, result)
	}

	return results
}

// dispatch maps one directive onto its operation. The recover is the
// backstop for programming errors inside an operation; expected failures
// are already stringified by the operations themselves.
func (d *Dispatcher) dispatch(dir directive.Directive) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("action", dir.Name).Interface("panic", r).Msg("Action panicked")
			result = Result(fmt.Sprintf("Error executing action %s: %v", dir.Name, r))
		}
	}()

	switch KindFromName(dir.Name) {
	case KindTerminateProcess:
		return d.terminateProcess(dir.Params)
	case KindCloseApplication:
		return d.closeApplication(dir.Params)
	case KindStartApplication:
		return d.startApplication(dir.Params)
	case KindSetPowerPlan:
		return d.setPowerPlan(dir.Params)
	case KindShowNotification:
		return d.showNotification(dir.Params)
	case KindUnknown:
		fallthrough
	default:
		logger.Warn().Str("action", dir.Name).Msg("Unknown action requested")
		return Result(fmt.Sprintf("Unknown action: %s", dir.Name))
	}
}

func missingParam(action, param string) Result {
	return Result(fmt.Sprintf("Error executing action %s: missing required parameter '%s'", action, param))
}
