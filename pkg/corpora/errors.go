package corpora

import (
	"errors"
	"fmt"
	"log/slog"
)

// Kind classifies an error by the caller action it implies.
type Kind int

const (
	// KindConfig marks caller bugs: invalid chunk size, overlap, top-k, or
	// an unknown model selector. Not retryable.
	KindConfig Kind = iota + 1

	// KindDimensionMismatch marks a vector whose dimension disagrees with
	// the index. The offending insert is rejected and the index unchanged.
	KindDimensionMismatch

	// KindProvider marks an embedding or synthesis backend failure. The
	// core surfaces it untouched; retry policy belongs to the caller.
	KindProvider

	// KindPersistence marks an I/O failure during persist or restore. A
	// failed restore leaves the index in its prior in-memory state.
	KindPersistence

	// KindNotFound marks a reference to a document the index does not
	// hold. Search and purge treat this as a normal outcome instead.
	KindNotFound
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindProvider:
		return "provider"
	case KindPersistence:
		return "persistence"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks. Any *Error of the matching kind satisfies
// errors.Is against these.
var (
	ErrConfig            = &Error{kind: KindConfig, msg: "invalid configuration"}
	ErrDimensionMismatch = &Error{kind: KindDimensionMismatch, msg: "vector dimension mismatch"}
	ErrProvider          = &Error{kind: KindProvider, msg: "provider failure"}
	ErrPersistence       = &Error{kind: KindPersistence, msg: "persistence failure"}
	ErrNotFound          = &Error{kind: KindNotFound, msg: "not found"}
)

// Error is a kinded error carrying structured metadata for logging.
//
// It supports Go's error wrapping (errors.Is, errors.As, errors.Unwrap) and
// fluent slog.Attr tags so call sites can attach the document name or
// operation that failed.
//
// Example:
//
//	return corpora.Errorf(corpora.KindProvider, "embedding batch failed: %w", err).
//	    Tag(slog.String("document", name))
type Error struct {
	kind  Kind
	msg   string
	cause error
	// inline is set when msg already embeds the cause text (Errorf with %w),
	// so Error() must not append it a second time.
	inline bool
	attrs  []slog.Attr
}

// NewErr creates an error of the given kind with no underlying cause.
func NewErr(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Errorf creates an error of the given kind with fmt.Errorf semantics,
// including %w wrapping.
func Errorf(kind Kind, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{kind: kind, msg: err.Error(), cause: errors.Unwrap(err), inline: true}
}

// WrapErr wraps an existing error under the given kind and message.
func WrapErr(kind Kind, err error, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: err}
}

// Tag attaches a slog.Attr for structured logging. Returns the error for
// fluent chaining.
func (e *Error) Tag(attr slog.Attr) *Error {
	e.attrs = append(e.attrs, attr)
	return e
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Attrs returns the attached slog attributes plus the kind.
func (e *Error) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(e.attrs)+1)
	attrs = append(attrs, slog.String("kind", e.kind.String()))
	attrs = append(attrs, e.attrs...)
	return attrs
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil && !e.inline {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying cause, enabling errors.Is/As traversal.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same kind, so sentinel checks like
// errors.Is(err, corpora.ErrProvider) work regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

// IsKind reports whether err is (or wraps) a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.kind == kind
	}
	return false
}
