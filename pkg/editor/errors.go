package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingControl matches every MissingControlError.
	ErrMissingControl = errors.New("editor: required control missing")
	// ErrIndexOutOfRange is returned by RemoveField for positions outside the
	// current schema. The schema is left untouched.
	ErrIndexOutOfRange = errors.New("editor: field index out of range")
)

// MissingControlError names the handle that was absent at construction.
type MissingControlError struct {
	Handle string
}

func (e *MissingControlError) Error() string {
	return fmt.Sprintf("editor: required control %q missing", e.Handle)
}

// Is reports ErrMissingControl equivalence.
func (e *MissingControlError) Is(target error) bool {
	return target == ErrMissingControl
}
