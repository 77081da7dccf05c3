package painter

import (
	"errors"
	"fmt"
)

// Errors returned by layer, stack, compositor and codec operations. They are
// wrapped with context; test for them with errors.Is.
var (
	// ErrLocked is returned when a mutation is attempted on a locked layer.
	ErrLocked = errors.New("painter: layer is locked")

	// ErrBounds is returned when a layer index or region is out of range.
	ErrBounds = errors.New("painter: index out of range")

	// ErrShapeMismatch is returned when buffers of different width, height
	// or depth are combined.
	ErrShapeMismatch = errors.New("painter: buffer shape mismatch")

	// ErrFormat is returned by decoders for a bad magic tag or an
	// unsupported pixel format.
	ErrFormat = errors.New("painter: unsupported format")

	// ErrDecode is returned by decoders for a truncated or corrupt payload.
	ErrDecode = errors.New("painter: corrupt payload")

	// ErrEmptyStack is returned when an operation needs at least one
	// eligible layer and there is none.
	ErrEmptyStack = errors.New("painter: no eligible layers")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("painter: invalid dimensions")
)

func lockedErr(op string) error {
	return fmt.Errorf("%s: %w", op, ErrLocked)
}

func boundsErr(op string, index, n int) error {
	return fmt.Errorf("%s: index %d with %d layers: %w", op, index, n, ErrBounds)
}
