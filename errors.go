package matgrid

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures surfaced by the library.
type ErrorKind int

const (
	// KindShape marks a precondition violation: operand dimensions are
	// incompatible. Raised before any device memory is allocated; it
	// indicates a caller-side logic defect, never a transient state.
	KindShape ErrorKind = iota
	// KindMemory marks device-memory pool misuse or exhaustion.
	KindMemory
	// KindExecution marks a kernel launch or dispatch failure.
	KindExecution
)

// String returns the kind as a string.
func (k ErrorKind) String() string {
	switch k {
	case KindShape:
		return "Shape"
	case KindMemory:
		return "Memory"
	case KindExecution:
		return "Execution"
	default:
		return "Unknown"
	}
}

// Error is a structured error carrying the failing operation and its
// failure category, so callers can distinguish precondition violations
// from resource-acquisition failures.
type Error struct {
	Kind    ErrorKind
	Op      string // operation that failed, e.g. "Multiply"
	Message string
	Err     error // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("matgrid %s error in %s: %s (caused by: %v)",
			e.Kind, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("matgrid %s error in %s: %s", e.Kind, e.Op, e.Message)
}

// Unwrap allows error chain inspection.
func (e *Error) Unwrap() error { return e.Err }

// shapeError creates a precondition-violation error.
func shapeError(op, message string) error {
	return &Error{Kind: KindShape, Op: op, Message: message}
}

// memoryError creates a device-memory error.
func memoryError(op, message string, err error) error {
	return &Error{Kind: KindMemory, Op: op, Message: message, Err: err}
}

// execError creates a kernel execution error.
func execError(op, message string, err error) error {
	return &Error{Kind: KindExecution, Op: op, Message: message, Err: err}
}

// Pre-defined errors.
var (
	// ErrDoubleFree indicates a device buffer was released twice.
	ErrDoubleFree = memoryError("free", "double free detected", nil)

	// ErrUnknownBuffer indicates a release of a buffer the pool never
	// handed out.
	ErrUnknownBuffer = memoryError("free", "buffer not found in pool", nil)

	// ErrContextClosed indicates an operation on a closed context.
	ErrContextClosed = execError("dispatch", "context is closed", nil)
)

// IsShapeError reports whether err is a dimension-mismatch precondition
// violation.
func IsShapeError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindShape
}

// IsMemoryError reports whether err is a device-memory error.
func IsMemoryError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindMemory
}
