package validate

import (
	"fmt"
	"strings"

	"github.com/wasmcp/wasmcp/internal/composeerr"
)

// FieldError is one failed check, named after the field it concerns.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects every FieldError found while validating one request, so a
// caller can report all problems at once instead of stopping at the first.
type Errors []FieldError

// Add appends a FieldError.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Err returns nil if there are no errors, or a single *composeerr.Error of
// kind InvalidInput summarizing every failed check.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	messages := make([]string, len(e))
	for i, fe := range e {
		messages[i] = fe.Error()
	}
	return composeerr.New(composeerr.KindInvalidInput, "validation",
		strings.Join(messages, "; "))
}
