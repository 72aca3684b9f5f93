package value

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch reports a value lacking a required capability or
	// type: boolean conversion, distribution, indexing, iteration,
	// arithmetic or declared-type conversion.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrIndexOutOfRange reports an index outside a container.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// TypeMismatchf returns an error wrapping ErrTypeMismatch.
func TypeMismatchf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}

// IndexOutOfRangef returns an error wrapping ErrIndexOutOfRange.
func IndexOutOfRangef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIndexOutOfRange, fmt.Sprintf(format, args...))
}
