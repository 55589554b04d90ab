package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error that knows the status and message it maps to.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func Unauthorized(msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: msg}
}

// Conflict is reported as 403 to match what existing clients expect.
func Conflict(msg string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: msg}
}

func InvalidCredentials() *APIError {
	return &APIError{Status: http.StatusForbidden, Message: "Incorrect email or password"}
}

func NotFound(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: msg}
}

func BadRequest(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

func ValidationFailed(fields map[string]string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: "Invalid input", Fields: fields}
}

func NoData(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

// Upstream surfaces a third-party failure message to the caller.
func Upstream(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

func Internal(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// AsAPIError maps any error onto the taxonomy. Unknown errors become 500.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}
