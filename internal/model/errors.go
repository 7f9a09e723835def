package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the service-wide error envelope. Code identifies the failure
// class, HTTPStatus the status the HTTP layer should answer with, and
// Cause the underlying error when one exists.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on the error code so sentinel templates below work with
// errors.Is after WithMessage/Wrap copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Copy returns a shallow copy.
func (e *Error) Copy() *Error {
	return &Error{
		Code:       e.Code,
		Message:    e.Message,
		HTTPStatus: e.HTTPStatus,
		Cause:      e.Cause,
	}
}

// WithMessage returns a copy with the message replaced.
func (e *Error) WithMessage(message string) *Error {
	newErr := e.Copy()
	newErr.Message = message
	return newErr
}

// WithMessagef formats and replaces the message.
func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// Wrap returns a copy carrying cause.
func Wrap(template *Error, cause error) *Error {
	newErr := template.Copy()
	newErr.Cause = cause
	return newErr
}

// WrapWithMessage returns a copy carrying cause and a replacement message.
func WrapWithMessage(template *Error, cause error, format string, args ...interface{}) *Error {
	newErr := template.Copy()
	newErr.Cause = cause
	newErr.Message = fmt.Sprintf(format, args...)
	return newErr
}

func newError(code, message string, httpStatus int) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Failure classes. Validation and configuration errors are caller-correctable,
// transport errors identify an unreachable upstream, and transaction errors
// cover signing, broadcast and confirmation failures on the ledger side.
var (
	ErrValidation    = newError("VALIDATION_ERROR", "invalid request", http.StatusBadRequest)
	ErrConfiguration = newError("CONFIGURATION_ERROR", "unsupported or misconfigured input", http.StatusBadRequest)
	ErrTransport     = newError("TRANSPORT_ERROR", "upstream provider unreachable", http.StatusBadGateway)
	ErrTransaction   = newError("TRANSACTION_ERROR", "ledger transaction failed", http.StatusInternalServerError)
	ErrNotFound      = newError("NOT_FOUND", "resource not found", http.StatusNotFound)
	ErrInternal      = newError("INTERNAL_ERROR", "internal error", http.StatusInternalServerError)
)

// HTTPStatus maps any error to the status the HTTP layer should emit.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) && e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Detail extracts the human-readable reason for the HTTP response body.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
