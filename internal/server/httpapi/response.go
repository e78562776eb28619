package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orgvault/orgvault/internal/common"
)

// APIError is the standard error response body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common error codes.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeDependency     = "dependency_error"
	ErrCodeInternalError  = "internal_error"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, &APIError{Code: code, Message: message})
}

// WriteErrorWithDetails writes an error response with additional details.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message string, details any) {
	WriteJSON(w, status, &APIError{Code: code, Message: message, Details: details})
}

// writeServiceError maps a service error to the boundary contract. Messages
// stay generic: no payload data, no collaborator details leave the process.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteErrorWithDetails(w, http.StatusBadRequest, ErrCodeInvalidRequest, "validation failed", verr.Fields)
	case errors.Is(err, common.ErrUnsupportedType):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "unsupported secret type")
	case errors.Is(err, common.ErrDecode):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "malformed secret data")
	case errors.Is(err, common.ErrNotFound):
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "user secret not found")
	case errors.Is(err, common.ErrDecrypt), errors.Is(err, common.ErrDependency):
		WriteError(w, http.StatusBadGateway, ErrCodeDependency, "upstream dependency failure")
	default:
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
