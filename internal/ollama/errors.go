package ollama

import "codeberg.org/mutker/agentctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("ollama_invalid_config")

	// Transport Errors
	ErrRequestFailed  = errors.ErrorCode("ollama_request_failed")
	ErrBadStatus      = errors.ErrorCode("ollama_bad_status")
	ErrDecodeResponse = errors.ErrorCode("ollama_decode_response_failed")
)
