package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when a remote call succeeded but carried
	// no usable content.
	ErrEmptyResponse = errors.New("no usable content in model response")

	// ErrUnsupportedModel is returned when an operation is requested from a
	// model family that does not support it.
	ErrUnsupportedModel = errors.New("operation not supported by model")
)

// RemoteCallError wraps a network or API failure from the model service.
type RemoteCallError struct {
	Op    string
	Model string
	Err   error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s call to %s failed: %v", e.Op, e.Model, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsRemoteCallError reports whether err is (or wraps) a RemoteCallError.
func IsRemoteCallError(err error) bool {
	var rc *RemoteCallError
	return errors.As(err, &rc)
}
