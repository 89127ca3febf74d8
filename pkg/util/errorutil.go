package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes shared by the server envelope and the client decoder.
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeAccountRestricted = "ACCOUNT_RESTRICTED"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeTransport         = "TRANSPORT_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Matching is by Code only.
var (
	ErrValidation        = &DomainError{Code: CodeValidation}
	ErrUnauthorized      = &DomainError{Code: CodeUnauthorized}
	ErrForbidden         = &DomainError{Code: CodeForbidden}
	ErrAccountRestricted = &DomainError{Code: CodeAccountRestricted}
	ErrNotFound          = &DomainError{Code: CodeNotFound}
	ErrInvalidState      = &DomainError{Code: CodeInvalidState}
	ErrTransport         = &DomainError{Code: CodeTransport}
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
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsAuthorizationFailure reports whether err denies the caller on role or restriction grounds.
func IsAuthorizationFailure(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrAccountRestricted)
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewAccountRestricted is returned when a restricted account attempts a privileged action.
func NewAccountRestricted(reason string) error {
	if reason == "" {
		reason = "Policy violation"
	}
	return NewDomainError(CodeAccountRestricted,
		fmt.Sprintf("Account restricted by admin: %s", reason),
		http.StatusForbidden,
		map[string]any{"restriction_reason": reason})
}

func NewInvalidState(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidState, message, http.StatusConflict, details)
}

// NewTransportError wraps a network or backend failure unrelated to business rules.
func NewTransportError(err error) error {
	return &DomainError{
		Code:       CodeTransport,
		Message:    "transport failure",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// StatusForCode maps a wire error code back to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeAccountRestricted:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState:
		return http.StatusConflict
	case CodeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
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
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
