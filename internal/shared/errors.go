package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session and authentication errors
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrUnauthorized       = fmt.Errorf("session rejected")
	ErrVerificationFailed = fmt.Errorf("invalid user id or passphrase")
	ErrConflict           = fmt.Errorf("user id already exists")
	ErrMalformedCallback  = fmt.Errorf("failed to process authentication data")
	ErrDeletionFailed     = fmt.Errorf("account deletion failed")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
