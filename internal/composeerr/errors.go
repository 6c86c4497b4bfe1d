package composeerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is one of the six top-level error categories from the pipeline
// invocation contract. Kinds are not types: callers distinguish errors by
// comparing Kind, not by type-asserting a distinct Go error type per kind.
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInput"
	KindSpecUnresolved      Kind = "SpecUnresolved"
	KindPackageFetch        Kind = "PackageFetch"
	KindIntrospectionFailed Kind = "IntrospectionFailed"
	KindCompositionFailed   Kind = "CompositionFailed"
	KindPersistenceFailed   Kind = "PersistenceFailed"
)

// Error is a structured error carrying a taxonomy Kind, an optional Reason
// sub-code, a human message, and arbitrary diagnostic context.
type Error struct {
	Kind    Kind
	Reason  string // e.g. "cycle", "version-mismatch", "not-a-handler", "path-missing"
	Message string
	Context map[string]string // e.g. {"spec": ..., "path": ..., "expected_interface": ...}
	Err     error             // wrapped cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Reason != "" {
		b.WriteString(":")
		b.WriteString(e.Reason)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same Kind (and, if
// target.Reason is set, the same Reason). This lets callers test with
// errors.Is(err, composeerr.New(composeerr.KindSpecUnresolved, "", "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	if t.Reason != "" && e.Reason != t.Reason {
		return false
	}
	return true
}

// New creates a new *Error with the given kind, reason, and message.
func New(kind Kind, reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

// Newf creates a new *Error with a formatted message.
func Newf(kind Kind, reason, format string, args ...interface{}) *Error {
	return New(kind, reason, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error under the given kind/reason.
func Wrap(kind Kind, reason string, err error, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message, Err: err}
}

// WithContext adds the given key/value to e's context in place and returns
// the same *Error for convenient chaining.
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, and a zero
// Kind plus false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// componentIndexKey is the context key naming which pipeline-position
// middleware an error came from.
const componentIndexKey = "component-index"

// AnnotateIndex adds the pipeline position of a failing middleware spec to
// an already-structured error, so a caller can report "component N" without
// parsing error text. Errors that aren't (or don't wrap) a *Error pass
// through unchanged.
func AnnotateIndex(err error, i int) error {
	var ce *Error
	if !errors.As(err, &ce) {
		return err
	}
	return ce.WithContext(componentIndexKey, fmt.Sprintf("%d", i))
}
