// Package apperror defines the error taxonomy shared by the services and the
// HTTP layer. Services return *AppError values; handlers translate them into a
// status code and a machine-readable code without inspecting message text.
package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrAuthentication   = errors.New("authentication error")
	ErrConflict         = errors.New("conflict")
	ErrUnavailable      = errors.New("service unavailable")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNotFound         = errors.New("not found")
)

// Code is the machine-readable value sent in the "code" field of every
// failed response. Clients switch on it instead of the display message.
type Code string

const (
	CodeInvalidData        Code = "invalid_data"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeConflict           Code = "conflict"
	CodeServiceUnavailable Code = "service_unavailable"
	CodeMethodNotAllowed   Code = "method_not_allowed"
	CodeNotFound           Code = "not_found"
)

// UnavailableMessage is the only text a client ever sees for store failures.
const UnavailableMessage = "Service unavailable. Please try again later."

type AppError struct {
	Err     error  // one of the sentinel kinds above
	Code    Code   // sent to the client
	Message string // human-readable, safe to show
	Cause   error  // internal detail, logged but never sent
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func Validation(message string) *AppError {
	return &AppError{Err: ErrValidation, Code: CodeInvalidData, Message: message}
}

// InvalidCredentials is returned by login for both an unknown email and a
// wrong password so the response cannot be used to enumerate accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Code:    CodeInvalidCredentials,
		Message: "Invalid email or password.",
	}
}

func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Code:    CodeUnauthorized,
		Message: "Unauthorized. Session expired or invalid.",
	}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Code: CodeConflict, Message: message}
}

// Unavailable wraps a store failure. The cause stays server-side.
func Unavailable(cause error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Code:    CodeServiceUnavailable,
		Message: UnavailableMessage,
		Cause:   cause,
	}
}

func MethodNotAllowed() *AppError {
	return &AppError{Err: ErrMethodNotAllowed, Code: CodeMethodNotAllowed, Message: "Method not allowed."}
}

func NotFound() *AppError {
	return &AppError{Err: ErrNotFound, Code: CodeNotFound, Message: "Not found."}
}

// From returns err as an *AppError. Anything that is not already one is
// treated as an internal failure.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unavailable(err)
}

// HTTPStatus maps an error kind to its status code. Login credential failures
// are reported as 200 with success=false by the auth handler itself, so the
// Authentication kind maps to 401 here.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
