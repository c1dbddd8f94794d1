// Package apperr classifies failures crossing service boundaries.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type Type string

const (
	TypeAuthentication Type = "authentication"
	TypeTransaction    Type = "transaction"
	TypeDatabase       Type = "database"
	TypeValidation     Type = "validation"
	TypeAPI            Type = "api"
	TypeNetwork        Type = "network"
	TypeUnknown        Type = "unknown"
)

type Error struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithCode returns a copy carrying a machine-readable code.
func (e *Error) WithCode(code string) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap keeps err as the cause. A nil err yields nil.
func Wrap(t Type, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Message: message, Err: err}
}

func Validation(message string) *Error     { return New(TypeValidation, message) }
func Authentication(message string) *Error { return New(TypeAuthentication, message) }

// Transaction keeps the underlying message verbatim, it is shown to the fan as is.
func Transaction(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: TypeTransaction, Message: err.Error(), Err: err}
}

func Database(message string, err error) *Error { return Wrap(TypeDatabase, message, err) }
func API(message string, err error) *Error      { return Wrap(TypeAPI, message, err) }
func Network(message string, err error) *Error  { return Wrap(TypeNetwork, message, err) }

// From returns err as *Error, classifying plain errors.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne):
		return &Error{Type: TypeNetwork, Message: err.Error(), Err: err}
	default:
		return &Error{Type: TypeUnknown, Message: err.Error(), Err: err}
	}
}

func Is(err error, t Type) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Type == t
}

func HTTPStatus(err error) int {
	switch From(err).Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeTransaction:
		return http.StatusUnprocessableEntity
	case TypeAPI, TypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
