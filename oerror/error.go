package oerror

import "fmt"

// MoverError is an error raised by the movement simulation when one of its internal invariants is broken.
type MoverError struct {
	Err string
}

// New returns a new MoverError with a message formatted from the format and args given.
func New(format string, args ...interface{}) *MoverError {
	if len(args) == 0 {
		return &MoverError{Err: format}
	}
	return &MoverError{Err: fmt.Sprintf(format, args...)}
}

func (e *MoverError) Error() string {
	return e.Err
}
