// errors/access_errors.go
package errors

import "errors"

var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrTerminalNotFound = errors.New("terminal not found")
	ErrZoneNotFound     = errors.New("zone not found")

	ErrInvalidIntentData = errors.New("invalid intent data")
	ErrStrategyExhausted = errors.New("all strategies exhausted")
	ErrCaptureTimeout    = errors.New("biometric capture timed out")

	ErrDatabaseOperation = errors.New("database operation failed")
	ErrControlPlane      = errors.New("control plane request failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")

	ErrSubjectBusy = errors.New("another operation is in progress for this subject")
)
