package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewMissingToken signals that no bearer assertion was presented.
func NewMissingToken() error {
	return NewDomainError("MISSING_TOKEN", "authorization token is missing", http.StatusUnauthorized, nil)
}

// NewInvalidToken covers bad signature, malformed payload, expiry and
// revocation. The conditions are deliberately indistinguishable to the
// caller.
func NewInvalidToken() error {
	return NewDomainError("INVALID_TOKEN", "token is invalid or expired", http.StatusUnauthorized, nil)
}

// NewTokenMissingRole signals a decoded assertion without a role claim.
func NewTokenMissingRole() error {
	return NewDomainError("TOKEN_ROLE_MISSING", "user role is missing from the token", http.StatusUnauthorized, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewInsufficientPermission signals a principal lacking the required role or
// not owning the addressed resource.
func NewInsufficientPermission(message string) error {
	return NewDomainError("INSUFFICIENT_PERMISSION", message, http.StatusForbidden, nil)
}

// NewInvalidRequestState signals a violated business precondition such as
// already-applied, already-liked or an unknown application status.
func NewInvalidRequestState(message string, details map[string]any) error {
	return NewDomainError("INVALID_REQUEST_STATE", message, http.StatusBadRequest, details)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
