package api

import (
	"encoding/json"
	"net/http"
)

// ErrorCode classifies API error responses.
type ErrorCode string

const (
	// ErrCodeInvalidRuleset indicates the declared ruleset failed validation
	// or would cut off remote management.
	ErrCodeInvalidRuleset ErrorCode = "invalid_ruleset"

	// ErrCodeForbidden indicates the client address is not allowed to use
	// the API.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeFirewallError indicates the running firewall could not be read.
	ErrCodeFirewallError ErrorCode = "firewall_error"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{Code: code, Message: message}
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// WriteInvalidRuleset writes a 400 Bad Request error.
func WriteInvalidRuleset(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRuleset, message))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// WriteFirewallError writes a 500 Internal Server Error for failed reads of
// the running firewall.
func WriteFirewallError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeFirewallError, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
