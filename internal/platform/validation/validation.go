// Package validation collects per-field input violations so that handlers
// can report all of them at once.
package validation

import "strings"

// Violation is a single invalid field
type Violation struct {
	Field   string
	Message string
	Code    string
}

// Error is a set of violations. The zero value has none.
type Error struct {
	Violations []Violation
}

// Add records a violation
func (e *Error) Add(field, code, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message, Code: code})
}

// Has reports whether field already has a violation
func (e *Error) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Err returns e when it holds violations and nil otherwise
func (e *Error) Err() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
