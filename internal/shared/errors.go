package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Generation request errors.
	// ErrValidation covers missing or malformed request fields; no remote
	// calls are attempted once it is raised. ErrNotFound covers unknown
	// course or list references resolved against local caches.
	ErrValidation = fmt.Errorf("invalid request")
	ErrNotFound   = fmt.Errorf("not found")

	// Per-item generation errors. ErrInvalidDueDate marks assignments whose
	// normalized due date is the invalid sentinel; creation is skipped but
	// the item is not counted as a failure. ErrRemoteCall marks non-fatal
	// task-creation failures; the item loop continues.
	ErrInvalidDueDate = fmt.Errorf("invalid due date")
	ErrRemoteCall     = fmt.Errorf("remote call failed")

	// Transport and service errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
