package history

import "codeberg.org/mutker/agentctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("history_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("history_invalid_db_path")

	// Storage Errors
	ErrStorageInit    = errors.ErrorCode("history_storage_init_failed")
	ErrStorageAccess  = errors.ErrorCode("history_storage_access_failed")
	ErrStorageClose   = errors.ErrorCode("history_storage_close_failed")
	ErrInvalidRecord  = errors.ErrorCode("history_invalid_record")
	ErrServiceClosed  = errors.ErrorCode("history_service_closed")
	ErrSchemaInit     = errors.ErrorCode("history_schema_init_failed")
	ErrOperationAbort = errors.ErrorCode("history_operation_aborted")
)
