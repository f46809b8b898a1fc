package actions

import (
	"fmt"

	"codeberg.org/mutker/agentctl/internal/directive"
)

// showNotification displays a best-effort desktop notification. Failure
// here degrades to a result string like any other operation and never
// disrupts the rest of the batch.
func (d *Dispatcher) showNotification(params directive.Params) Result {
	title, ok := params.String("title")
	if !ok {
		return missingParam(NameShowNotification, "title")
	}
	message, ok := params.String("message")
	if !ok {
		return missingParam(NameShowNotification, "message")
	}

	if _, err := d.run("notify-send", title, message); err != nil {
		return Result(fmt.Sprintf("Error showing notification: %v", err))
	}

	return Result("Notification displayed")
}
