package domain

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes every failure this service surfaces to callers.
// The kind, not the message text, is the contract: callers use it to decide
// between correcting input and retrying.
type ErrorKind string

const (
	// KindNotFound indicates an unknown submission, session or record.
	KindNotFound ErrorKind = "not_found"

	// KindPermissionDenied indicates a role or ownership check failed.
	KindPermissionDenied ErrorKind = "permission_denied"

	// KindValidation indicates malformed input or an unconfigured gateway.
	KindValidation ErrorKind = "validation"

	// KindUpstream indicates the gateway call failed, timed out, or
	// returned an error status. Local state is never mutated on this path.
	KindUpstream ErrorKind = "upstream"

	// KindConflict is reserved for optimistic-concurrency additions.
	KindConflict ErrorKind = "conflict"
)

// Error is the structured failure type shared across the service.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFoundf builds a not_found error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// PermissionDeniedf builds a permission_denied error.
func PermissionDeniedf(format string, args ...any) *Error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// Validationf builds a validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Upstreamf builds an upstream error wrapping the transport cause.
func Upstreamf(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the kind from an error chain, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not_found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsPermissionDenied reports whether err is a permission_denied failure.
func IsPermissionDenied(err error) bool { return KindOf(err) == KindPermissionDenied }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsUpstream reports whether err is an upstream failure.
func IsUpstream(err error) bool { return KindOf(err) == KindUpstream }
