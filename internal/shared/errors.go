package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrFileNotFound       = fmt.Errorf("drive file not found")

	// Catalog and session errors
	ErrTemplateNotFound  = fmt.Errorf("template not found")
	ErrPackageNotFound   = fmt.Errorf("package not found")
	ErrSessionNotFound   = fmt.Errorf("session not found")
	ErrSlotNotFound      = fmt.Errorf("slot not found")
	ErrNoTemplates       = fmt.Errorf("no templates available for this print size")
	ErrGroupNotFound     = fmt.Errorf("print group not found")
	ErrEmptyTemplate     = fmt.Errorf("template has no photo holes")
	ErrPrintSizeMismatch = fmt.Errorf("template print size does not match")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
