package manager

import (
	"errors"
	"fmt"
)

// ModelLoadError reports that the engine could not be constructed from a
// provisioned artifact.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string { return fmt.Sprintf("load model %s: %v", e.Path, e.Err) }

func (e *ModelLoadError) Unwrap() error { return e.Err }

// IsModelLoadError reports whether err is or wraps a *ModelLoadError.
func IsModelLoadError(err error) bool {
	var le *ModelLoadError
	return errors.As(err, &le)
}

// ErrClosed is returned once the manager has been closed.
var ErrClosed = errors.New("manager closed")

var errNotLoaded = errors.New("model not loaded")
