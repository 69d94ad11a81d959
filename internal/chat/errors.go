package chat

import (
	"errors"
	"fmt"
)

// ErrMessageRequired is returned when the user text is empty.
var ErrMessageRequired = errors.New("message is required")

// BackendError wraps any failure of an inference call.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
