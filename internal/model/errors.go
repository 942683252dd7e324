package model

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, caller-visible classification of a failure.
type ErrorKind string

const (
	KindValidation  ErrorKind = "ValidationError"
	KindAuth        ErrorKind = "AuthError"
	KindSymbol      ErrorKind = "SymbolError"
	KindTransient   ErrorKind = "TransientError"
	KindFormat      ErrorKind = "FormatError"
	KindEmptySeries ErrorKind = "EmptySeriesError"
)

// Error is a classified pipeline failure. Err, when set, is the underlying
// cause and is never shown to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a classified error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies cause under kind.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// AsError returns err as a classified error. Unclassified errors become
// FormatError so nothing crosses the boundary without a kind.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return WrapError(KindFormat, err, "unexpected failure")
}
