package mlmd

import "fmt"

// Code is the error taxonomy from spec.md §7.
type Code int

const (
	OK Code = iota
	InvalidArgument
	NotFound
	AlreadyExists
	FailedPrecondition
	Cancelled
	Internal
)

func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case NotFound:
		return "NOT_FOUND"
	case AlreadyExists:
		return "ALREADY_EXISTS"
	case FailedPrecondition:
		return "FAILED_PRECONDITION"
	case Cancelled:
		return "CANCELLED"
	case Internal:
		return "INTERNAL"
	default:
		return "OK"
	}
}

// Error is the store's error type. Every component-level error that
// reaches the Request Dispatcher is one of these; the dispatcher never
// translates a Code, it passes it through verbatim (spec.md §7: "errors
// are surfaced verbatim to the caller").
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func ErrInvalidArgument(format string, args ...any) *Error {
	return newError(InvalidArgument, format, args...)
}

func ErrNotFound(format string, args ...any) *Error {
	return newError(NotFound, format, args...)
}

func ErrAlreadyExists(format string, args ...any) *Error {
	return newError(AlreadyExists, format, args...)
}

func ErrFailedPrecondition(format string, args ...any) *Error {
	return newError(FailedPrecondition, format, args...)
}

func ErrCancelled(format string, args ...any) *Error {
	return newError(Cancelled, format, args...)
}

func ErrInternal(format string, args ...any) *Error {
	return newError(Internal, format, args...)
}

// CodeOf extracts the Code of err, returning Internal for any error that
// did not originate as an *Error (e.g. a raw driver error).
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if as(err, &e) {
		return e.Code
	}
	return Internal
}

// as walks err's Unwrap() chain and reports the first *Error it finds,
// storing it in *target.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
