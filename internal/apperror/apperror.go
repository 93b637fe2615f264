package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Kind classifies a failure for the HTTP error boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindArithmetic
	KindRouteNotFound
	KindNumberFormat
	KindNullPointer
	KindUserNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindArithmetic:    "arithmetic",
	KindRouteNotFound: "route_not_found",
	KindNumberFormat:  "number_format",
	KindNullPointer:   "null_pointer",
	KindUserNotFound:  "user_not_found",
}

// String returns the snake_case label used in logs and metrics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Error is a failure tagged with an explicit Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns an Error of the given kind with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. The cause's text is used as the message.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies err. Recovered runtime panics are recognized by their
// runtime message; response encoding failures count as null-pointer failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return KindNumberFormat
	}

	var rtErr runtime.Error
	if errors.As(err, &rtErr) {
		msg := rtErr.Error()
		switch {
		case strings.Contains(msg, "divide by zero"):
			return KindArithmetic
		case strings.Contains(msg, "nil pointer dereference"):
			return KindNullPointer
		}
	}

	var (
		valueErr     *json.UnsupportedValueError
		typeErr      *json.UnsupportedTypeError
		marshalerErr *json.MarshalerError
	)
	if errors.As(err, &valueErr) || errors.As(err, &typeErr) || errors.As(err, &marshalerErr) {
		return KindNullPointer
	}

	return KindUnknown
}

// MessageOf returns the cause text reported to clients. For a tagged Error
// it prefers the explicit message over the wrapped cause.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Message != "" {
			return ae.Message
		}
		if ae.Err != nil {
			return ae.Err.Error()
		}
		return ""
	}
	return err.Error()
}
