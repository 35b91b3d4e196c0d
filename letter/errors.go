package letter

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines letter error kinds.
type ErrorKind string

const (
	KindValidation           ErrorKind = "validation"
	KindMissingField         ErrorKind = "missing_field"
	KindPolicy               ErrorKind = "policy"
	KindAuthz                ErrorKind = "authz"
	KindNotFound             ErrorKind = "not_found"
	KindFontResolution       ErrorKind = "font_resolution"
	KindConverterUnavailable ErrorKind = "converter_unavailable"
	KindTimeout              ErrorKind = "timeout"
	KindCanceled             ErrorKind = "canceled"
	KindStorage              ErrorKind = "storage"
	KindInternal             ErrorKind = "internal"
	KindNotImpl              ErrorKind = "not_implemented"
)

// Error wraps errors with a kind. Field is set for KindMissingField.
type Error struct {
	Kind  ErrorKind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new letter error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// NewMissingFieldError reports a required field that is absent or empty.
func NewMissingFieldError(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Msg: "missing required field " + field}
}

// MissingField returns the field name when err is a missing-field error.
func MissingField(err error) (string, bool) {
	var letterErr *Error
	if errors.As(err, &letterErr) && letterErr.Kind == KindMissingField {
		return letterErr.Field, true
	}
	return "", false
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var letterErr *Error
	if errors.As(err, &letterErr) {
		kind = letterErr.Kind
		if letterErr.Msg != "" {
			msg = letterErr.Msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindMissingField:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("missing_field")
	case KindPolicy:
		return errorslib.New(msg, errorslib.CategoryAuthz).WithTextCode("policy")
	case KindAuthz:
		return errorslib.New(msg, errorslib.CategoryAuthz).WithTextCode("authz")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindFontResolution:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("font_resolution")
	case KindConverterUnavailable:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("converter_unavailable")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindStorage:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("storage")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its letter error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var letterErr *Error
	if errors.As(err, &letterErr) {
		return letterErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
