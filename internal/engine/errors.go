package engine

import "errors"

// unavailableError signals a missing backend (e.g. binary built without the
// llama tag) so callers can map it to 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err (or anything it wraps) indicates a
// missing/failed backend.
func IsUnavailable(err error) bool {
	var e unavailableError
	return errors.As(err, &e)
}

// unsupportedArchError signals a model family the loader cannot serve.
type unsupportedArchError struct{ msg string }

func (e unsupportedArchError) Error() string { return e.msg }

// ErrUnsupportedArch constructs an unsupportedArchError.
func ErrUnsupportedArch(msg string) error { return unsupportedArchError{msg: msg} }

// IsUnsupportedArch reports whether err indicates an unsupported model family.
func IsUnsupportedArch(err error) bool {
	var e unsupportedArchError
	return errors.As(err, &e)
}
