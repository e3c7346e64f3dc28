package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gatehouselabs/gatehouse/pkg/httpx"
)

// Wire error codes. The bearer-token codes follow RFC 6750; the rest are
// service specific.
const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeValidation             = "validation_failed"
	ErrorCodeInvalidCredentials     = "invalid_credentials"
	ErrorCodeMissingToken           = "missing_token"
	ErrorCodeInvalidToken           = "invalid_token"
	ErrorCodeExpiredToken           = "expired_token"
	ErrorCodeInsufficientPermission = "insufficient_permission"
	ErrorCodeDuplicateEmail         = "duplicate_email"
	ErrorCodeNotFound               = "not_found"
	ErrorCodeServerError            = "server_error"
)

// APIError is the wire shape of every failure the service returns. It
// implements error so the SDK client can hand it straight back to callers.
type APIError struct {
	// StatusCode is the HTTP status this error travels with.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable explanation.
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error as a JSON response body with its status code.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// WithDescription returns a copy carrying a more specific description.
func (e *APIError) WithDescription(description string) *APIError {
	clone := *e
	clone.Description = description
	return &clone
}

var (
	// ErrInvalidRequest covers malformed JSON and missing required fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrValidation covers well-formed requests whose values fail the
	// credential rules.
	ErrValidation = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeValidation,
		Description: "the supplied values failed validation",
	}

	// ErrInvalidCredentials is returned for every failed login, whatever
	// the underlying cause.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is invalid",
	}

	// ErrDuplicateEmail is returned when a signup address is already taken.
	ErrDuplicateEmail = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateEmail,
		Description: "an account with this email already exists",
	}

	// ErrNotFound is returned when a managed resource does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "the requested resource does not exist",
	}

	// ErrServerError is the catch-all for unexpected failures. It carries
	// no internal detail.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "an internal error occurred",
	}
)
