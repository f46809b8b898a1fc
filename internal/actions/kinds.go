package actions

// Kind enumerates the closed set of executable actions. The registry is
// fixed at compile time: growing it means adding a variant here and a case
// to the dispatch switch, which the compiler then checks for coverage.
type Kind int

const (
	KindUnknown Kind = iota
	KindTerminateProcess
	KindCloseApplication
	KindStartApplication
	KindSetPowerPlan
	KindShowNotification
)

// Action names as they appear in directives
const (
	NameTerminateProcess = "terminate_process"
	NameCloseApplication = "close_application"
	NameStartApplication = "start_application"
	NameSetPowerPlan     = "set_power_plan"
	NameShowNotification = "show_notification"
)

// KindFromName resolves a directive name to an action kind. This is the
// only string lookup in the dispatch path; unresolved names surface as
// KindUnknown rather than an error.
func KindFromName(name string) Kind {
	switch name {
	case NameTerminateProcess:
		return KindTerminateProcess
	case NameCloseApplication:
		return KindCloseApplication
	case NameStartApplication:
		return KindStartApplication
	case NameSetPowerPlan:
		return KindSetPowerPlan
	case NameShowNotification:
		return KindShowNotification
	default:
		return KindUnknown
	}
}
