// Package apperror defines the failure kinds surfaced by the service layer.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
	KindUpstreamParse
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindUpstreamParse:
		return "upstream_parse_error"
	case KindUpstream:
		return "upstream_error"
	default:
		return "internal"
	}
}

// Error carries a Kind plus the public message. Raw holds the unparsed
// upstream payload for KindUpstreamParse.
type Error struct {
	Kind    Kind
	Message string
	Raw     string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput reports a malformed or missing request field.
func InvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated reports a missing or invalid bearer token.
func Unauthenticated(msg string, err error) error {
	return &Error{Kind: KindUnauthenticated, Message: msg, Err: err}
}

// Unauthorized reports an authenticated caller acting on someone else's data.
func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// NotFound reports a referenced entity that does not exist.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// UpstreamParse reports language model output that does not conform.
func UpstreamParse(raw string, err error) error {
	return &Error{Kind: KindUpstreamParse, Message: err.Error(), Raw: raw, Err: err}
}

// Upstream wraps a failed Data Store or Identity Provider call. The
// message is passed through verbatim. Errors that already carry a kind
// are returned unchanged.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindUpstream, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
