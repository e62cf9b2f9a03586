package llm

import "errors"

// dependencyUnavailableError signals that the requested backend is missing from
// this build or host (no 'llama' tag, llama-server binary not found).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err is or wraps a dependencyUnavailableError.
func IsDependencyUnavailable(err error) bool {
	var d dependencyUnavailableError
	return errors.As(err, &d)
}

// ErrClosed is returned by engines used after Close.
var ErrClosed = errors.New("engine closed")
