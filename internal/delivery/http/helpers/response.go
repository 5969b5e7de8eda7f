package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventmanagement/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeForbidden         = "forbidden"
	ErrCodeNotFound          = "not_found"
	ErrCodeAlreadyRegistered = "already_registered"
	ErrCodeAlreadyCancelled  = "already_cancelled"
	ErrCodeEventNotActive    = "event_not_active"
	ErrCodeAlreadyReviewed   = "already_reviewed"
	ErrCodeInvalidSignature  = "invalid_signature"
	ErrCodeUpstreamFailure   = "upstream_failure"
	ErrCodeTooManyRequests   = "too_many_requests"
	ErrCodeInternalError     = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrDuplicateEmail, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrAlreadyRegistered, http.StatusConflict, ErrCodeAlreadyRegistered},
	{domain.ErrAlreadyCancelled, http.StatusConflict, ErrCodeAlreadyCancelled},
	{domain.ErrEventNotActive, http.StatusConflict, ErrCodeEventNotActive},
	{domain.ErrAlreadyReviewed, http.StatusConflict, ErrCodeAlreadyReviewed},
	{domain.ErrInvalidSignature, http.StatusBadRequest, ErrCodeInvalidSignature},
	{domain.ErrUpstream, http.StatusBadGateway, ErrCodeUpstreamFailure},
}

// WriteServiceError maps a service error onto the response envelope. Domain errors keep
// their message; anything else is logged and answered with a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			message := err.Error()
			if m.err == domain.ErrUpstream {
				logger.WarnContext(r.Context(), "upstream failure", "path", r.URL.Path, "method", r.Method, "err", err)
				message = m.err.Error()
			}
			WriteJSONError(w, m.status, m.code, message)
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
