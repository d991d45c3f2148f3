package dataset

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by *Error. Match them with errors.Is.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNotText        = errors.New("column is not text")
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrLengthMismatch = errors.New("column length mismatch")
	ErrKindMismatch   = errors.New("value does not match column kind")
)

// Error describes a failed dataset operation.
type Error struct {
	Op      string // operation name, e.g. "rename", "parse_date"
	Column  string // column name if applicable
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Column != "" {
		return fmt.Sprintf("%s on column '%s': %s", e.Op, e.Column, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// NewColumnNotFoundError reports an operation on a column the dataset does not have.
func NewColumnNotFoundError(op, column string) *Error {
	return &Error{Op: op, Column: column, Message: "column does not exist", Cause: ErrColumnNotFound}
}

// NewNotTextError reports a text operation applied to a non-text column.
func NewNotTextError(op, column string, kind Kind) *Error {
	return &Error{Op: op, Column: column, Message: fmt.Sprintf("expected text column, got %s", kind), Cause: ErrNotText}
}

// NewNotNumericError reports a numeric operation applied to a non-numeric column.
func NewNotNumericError(op, column string, kind Kind) *Error {
	return &Error{Op: op, Column: column, Message: fmt.Sprintf("expected numeric column, got %s", kind), Cause: ErrNotNumeric}
}

// NewOpError wraps an arbitrary failure with operation context.
func NewOpError(op, column string, cause error) *Error {
	return &Error{Op: op, Column: column, Cause: cause}
}
