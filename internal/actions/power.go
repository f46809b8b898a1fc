package actions

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/agentctl/internal/directive"
)

// Fixed scheme GUIDs understood by the platform power configuration tool
var powerPlanGUIDs = map[string]string{
	"balanced":         "381b4222-f694-41f0-9685-ff5bb260df2e",
	"high_performance": "8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c",
	"power_saver":      "a1841308-3541-4fab-bc81-f71556f20b4a",
}

// setPowerPlan switches the active power plan by invoking the platform
// power configuration tool with the plan's fixed GUID.
func (d *Dispatcher) setPowerPlan(params directive.Params) Result {
	plan, ok := params.String("plan")
	if !ok {
		return missingParam(NameSetPowerPlan, "plan")
	}

	guid, ok := powerPlanGUIDs[strings.ToLower(plan)]
	if !ok {
		return Result(fmt.Sprintf("Unknown power plan: %s", plan))
	}

	if output, err := d.run("powercfg", "/s", guid); err != nil {
		return Result(fmt.Sprintf("Error changing power plan: %v: %s", err, strings.TrimSpace(string(output))))
	}

	return Result(fmt.Sprintf("Power plan changed to %s", plan))
}
