package agent

import "codeberg.org/mutker/agentctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig   = errors.ErrorCode("agent_invalid_config")
	ErrInvalidInterval = errors.ErrorCode("agent_invalid_interval")

	// Runtime Errors
	ErrModelFailure = errors.ErrorCode("agent_model_failure")
	ErrInputClosed  = errors.ErrorCode("agent_input_closed")
)
