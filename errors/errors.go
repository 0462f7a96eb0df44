package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation          Kind = "allocation"           // OS refused pages
	KindProtection          Kind = "protection"           // OS refused a protection change, or the region is in the wrong state
	KindBufferExhausted     Kind = "buffer_exhausted"     // region capacity exceeded
	KindUnsupportedEncoding Kind = "unsupported_encoding" // no encoding for the opcode/operand pair
	KindInvalidOperand      Kind = "invalid_operand"      // operand shape is known but its value is not encodable
	KindBounds              Kind = "bounds"               // index or offset outside the region
)

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrAllocation          = &Error{Kind: KindAllocation}
	ErrProtection          = &Error{Kind: KindProtection}
	ErrBufferExhausted     = &Error{Kind: KindBufferExhausted}
	ErrUnsupportedEncoding = &Error{Kind: KindUnsupportedEncoding}
	ErrInvalidOperand      = &Error{Kind: KindInvalidOperand}
	ErrBounds              = &Error{Kind: KindBounds}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind}}
}

// Op sets the operation that failed
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unsupported creates an unsupported encoding error for an opcode/operand pair
func Unsupported(op, operand fmt.Stringer) *Error {
	return &Error{
		Kind:   KindUnsupportedEncoding,
		Op:     "encode",
		Detail: fmt.Sprintf("no encoding for %v %v", op, operand),
	}
}

// InvalidOperand creates an invalid operand error
func InvalidOperand(op fmt.Stringer, operand any, detail string) *Error {
	return &Error{
		Kind:   KindInvalidOperand,
		Op:     "encode",
		Detail: fmt.Sprintf("%v: %s", op, detail),
		Value:  operand,
	}
}

// OutOfBounds creates a bounds violation error
func OutOfBounds(op string, index, length int) *Error {
	return &Error{
		Kind:   KindBounds,
		Op:     op,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Exhausted creates a buffer exhausted error
func Exhausted(offset, size int) *Error {
	return &Error{
		Kind:   KindBufferExhausted,
		Op:     "write",
		Detail: fmt.Sprintf("ran out of region space at offset %d (size %d)", offset, size),
		Value:  offset,
	}
}

// Wrap wraps an OS error with a kind and operation
func Wrap(kind Kind, op string, cause error, detail string) *Error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Detail: detail,
		Cause:  cause,
	}
}
