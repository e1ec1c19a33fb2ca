// Package apierr is the closed error taxonomy surfaced to API clients.
// Errors are only built through the constructors below; each carries a
// stable code and, where applicable, the offending input.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthenticated    Kind = "Unauthenticated"
	KindInvalidToken       Kind = "InvalidToken"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindNotFound           Kind = "NotFound"
	KindValidationFailed   Kind = "ValidationFailed"
	KindInternal           Kind = "Internal"
)

const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeBadUserInput       = "BAD_USER_INPUT"
	CodeInternal           = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	// InvalidArgs echoes the offending input; empty when nothing is echoed.
	InvalidArgs string
	// Err is diagnostic detail only. It is never serialized to clients.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated() *Error {
	return &Error{
		Kind:    KindUnauthenticated,
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthenticated,
		Message: "not authenticated",
	}
}

func InvalidToken(err error) *Error {
	return &Error{
		Kind:    KindInvalidToken,
		Status:  http.StatusUnauthorized,
		Code:    CodeInvalidToken,
		Message: "invalid token",
		Err:     err,
	}
}

// InvalidCredentials deliberately carries nothing that tells an unknown
// username apart from a wrong credential.
func InvalidCredentials() *Error {
	return &Error{
		Kind:    KindInvalidCredentials,
		Status:  http.StatusUnauthorized,
		Code:    CodeInvalidCredentials,
		Message: "wrong credentials",
	}
}

func NotFound(message, arg string) *Error {
	return &Error{
		Kind:        KindNotFound,
		Status:      http.StatusNotFound,
		Code:        CodeNotFound,
		Message:     message,
		InvalidArgs: arg,
	}
}

func ValidationFailed(message, arg string, cause error) *Error {
	return &Error{
		Kind:        KindValidationFailed,
		Status:      http.StatusBadRequest,
		Code:        CodeBadUserInput,
		Message:     message,
		InvalidArgs: arg,
		Err:         cause,
	}
}

func Internal(message string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: message,
		Err:     cause,
	}
}

// As returns the taxonomy error inside err, wrapping anything unclassified
// as Internal so nothing raw leaves the system.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("internal error", err)
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
