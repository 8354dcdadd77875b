// Package errors provides domain-specific error types for fwguard.
//
// Every failure mode of the apply flow has its own code, so callers (and
// tests) can branch on the kind of failure without string matching, and the
// apply command can map each outcome to a distinct exit status.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error (unreadable,
	// unparsable or invalid config file).
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeInvalidRule indicates a rule that fails structural validation
	// at compile time (bad protocol, port out of range, malformed source).
	ErrCodeInvalidRule ErrorCode = "INVALID_RULE"

	// ErrCodePolicyRefused indicates a ruleset that was refused before any
	// firewall mutation because it would lock the operator out (no tcp/22
	// accept rule).
	ErrCodePolicyRefused ErrorCode = "POLICY_REFUSED"

	// ErrCodeBackupFailed indicates the running ruleset could not be
	// snapshotted. The firewall has not been touched.
	ErrCodeBackupFailed ErrorCode = "BACKUP_FAILED"

	// ErrCodeApplyFailed indicates iptables-restore rejected the compiled
	// program. The snapshot restore path decides the final severity.
	ErrCodeApplyFailed ErrorCode = "APPLY_FAILED"

	// ErrCodeValidationFailed indicates the live ruleset does not reflect
	// the declared intent after an apparently successful apply.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// ErrCodeRollbackFailed indicates a restore attempted after a failure
	// (or a declined/expired confirmation) itself failed. The firewall is
	// in an unknown state and needs manual intervention.
	ErrCodeRollbackFailed ErrorCode = "ROLLBACK_FAILED"

	// ErrCodeSnapshot indicates a snapshot store error outside the apply
	// flow (listing, lookup of a named snapshot).
	ErrCodeSnapshot ErrorCode = "SNAPSHOT_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the error code carried by err (unwrapping if needed), or
// ErrCodeInternal when no domain error is in the chain.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewInvalidRuleError creates a new rule validation error.
func NewInvalidRuleError(message string, cause error) *Error {
	return Wrap(ErrCodeInvalidRule, message, cause)
}

// NewPolicyRefusedError creates a new lockout-refusal error.
func NewPolicyRefusedError(message string) *Error {
	return New(ErrCodePolicyRefused, message)
}

// NewBackupFailedError creates a new snapshot capture error.
func NewBackupFailedError(message string, cause error) *Error {
	return Wrap(ErrCodeBackupFailed, message, cause)
}

// NewApplyFailedError creates a new ruleset apply error.
func NewApplyFailedError(message string, cause error) *Error {
	return Wrap(ErrCodeApplyFailed, message, cause)
}

// NewValidationFailedError creates a new post-apply validation error.
func NewValidationFailedError(message string, cause error) *Error {
	return Wrap(ErrCodeValidationFailed, message, cause)
}

// NewRollbackFailedError creates a new restore failure error.
func NewRollbackFailedError(message string, cause error) *Error {
	return Wrap(ErrCodeRollbackFailed, message, cause)
}

// NewSnapshotError creates a new snapshot store error.
func NewSnapshotError(message string, cause error) *Error {
	return Wrap(ErrCodeSnapshot, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
