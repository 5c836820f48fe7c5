package session

import "fmt"

// validationError signals a malformed or kind-inconsistent request. Surfaced
// to the caller immediately, never retried.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

// ErrValidation constructs a validationError.
func ErrValidation(msg string) error { return validationError{msg: msg} }

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	_, ok := err.(validationError)
	return ok
}

// unsupportedError signals a feature the server deliberately refuses at
// validation time instead of silently degrading.
type unsupportedError struct{ msg string }

func (e unsupportedError) Error() string { return e.msg }

// ErrUnsupported constructs an unsupportedError.
func ErrUnsupported(msg string) error { return unsupportedError{msg: msg} }

// IsUnsupported reports whether err is an unsupported-feature rejection.
func IsUnsupported(err error) bool {
	_, ok := err.(unsupportedError)
	return ok
}

// generationError wraps a mid-stream failure from the external engine.
type generationError struct{ cause error }

func (e generationError) Error() string { return fmt.Sprintf("generation failed: %v", e.cause) }

func (e generationError) Unwrap() error { return e.cause }

// ErrGeneration constructs a generationError.
func ErrGeneration(cause error) error { return generationError{cause: cause} }

// IsGeneration reports whether err is an engine failure mid-generation.
func IsGeneration(err error) bool {
	_, ok := err.(generationError)
	return ok
}

// sinkError marks a failure of the event sink (typically the client went
// away mid-write). It propagates without a terminal event.
type sinkError struct{ cause error }

func (e sinkError) Error() string { return e.cause.Error() }

func (e sinkError) Unwrap() error { return e.cause }
