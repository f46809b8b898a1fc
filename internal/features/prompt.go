package features

import (
	"fmt"
	"strings"
)

const (
	systemContext = "You are an AI assistant managing a Linux machine. "

	directiveInstruction = "Use the format ACTION: [action_name] with [parameters]."
)

// BuildPrompt renders a natural-language summary of the current system
// state followed by the user's request, or a generic suggestion
// instruction when userText is empty (background mode). The output is a
// pure function of its inputs.
func BuildPrompt(userText string, features FeatureSet) string {
	var b strings.Builder
	b.WriteString(systemContext)

	var state []string
	if features.HighCPU {
		state = append(state, "CPU usage is high")
	}
	if features.HighMemory {
		state = append(state, "Memory usage is high")
	}
	if features.HighDisk {
		state = append(state, "Disk usage is high")
	}
	if features.LowBattery {
		if features.IsCharging {
			state = append(state, "Battery is low but charging")
		} else {
			state = append(state, "Battery is low and not charging")
		}
	}
	if features.HasErrors {
		state = append(state, "System has error logs")
	}
	if features.HasWarnings {
		state = append(state, "System has warning logs")
	}

	if len(state) > 0 {
		b.WriteString("Current system state: ")
		b.WriteString(strings.Join(state, ", "))
		b.WriteString(". ")
	}

	if top := features.TopProcess; top != nil {
		fmt.Fprintf(&b, "The most resource-intensive process is %s using %.1f%% CPU and %.1f%% memory. ",
			top.Name, top.CPUPercent, top.MemoryPercent)
	}

	if userText != "" {
		fmt.Fprintf(&b, "\n\nUser request: %s\n\n", userText)
		b.WriteString("Provide a helpful response and suggest actions if needed. ")
	} else {
		b.WriteString("\n\n")
		b.WriteString("Based on the system state, suggest any actions that should be taken. ")
	}
	b.WriteString(directiveInstruction)

	return b.String()
}
