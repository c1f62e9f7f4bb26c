package csvimport

import "fmt"

// ParseError reports CSV text whose structure cannot be read at all.
type ParseError struct {
	Reason string
}

func newParseError(reason string) *ParseError {
	return &ParseError{Reason: reason}
}

func (e *ParseError) Error() string {
	return "Failed to parse CSV: " + e.Reason
}

// ValidationError is a business rule violation for a single row.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.label(), e.Reason)
}

func (e *ValidationError) label() string {
	if e.Name == "" {
		return "Unknown"
	}
	return e.Name
}
