package bulk

import "fmt"

// RowError records a single rejected row with its 1-based line number
// and the reason it was skipped. Row failures never abort the import.
type RowError struct {
	Line   int    `json:"line"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d, field %s: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ErrorCollection accumulates row errors across one parse pass.
type ErrorCollection struct {
	Errors []RowError `json:"errors"`
}

// Add appends a row error
func (c *ErrorCollection) Add(line int, field, reason string) {
	c.Errors = append(c.Errors, RowError{Line: line, Field: field, Reason: reason})
}

// HasErrors reports whether any row was rejected
func (c *ErrorCollection) HasErrors() bool {
	return len(c.Errors) > 0
}

// Error implements the error interface
func (c *ErrorCollection) Error() string {
	return fmt.Sprintf("%d rows rejected", len(c.Errors))
}
