package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Vault and config errors
	ErrVaultNotFound = "VAULT_NOT_FOUND"
	ErrConfigInvalid = "CONFIG_INVALID"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrUnknownAction   = "UNKNOWN_ACTION"
	ErrPeriodicInvalid = "PERIODIC_INVALID"

	// Runtime errors
	ErrServerFailed   = "SERVER_FAILED"
	ErrCallbackFailed = "CALLBACK_FAILED"
	ErrInternal       = "INTERNAL_ERROR"
)
