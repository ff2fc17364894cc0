// Package parsing recovers a structured diagnosis result from raw model text.
package parsing

import (
	"fmt"
	"strings"
)

// TruncatedOutputError is returned when generation stopped at the token
// ceiling. The text is never parsed in that case.
type TruncatedOutputError struct {
	Length int // length of the discarded text, in bytes
}

func (e *TruncatedOutputError) Error() string {
	return fmt.Sprintf("model output truncated at token ceiling (%d bytes discarded)", e.Length)
}

// MalformedOutputError represents a candidate that is not valid JSON
type MalformedOutputError struct {
	Candidate  string
	Strategies []Strategy
	Cause      error
}

func (e *MalformedOutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model output: %v", e.Cause)
	}
	return "malformed model output"
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

// SchemaMismatchError represents valid JSON that lacks required fields or
// carries fields of the wrong type
type SchemaMismatchError struct {
	Candidate  string
	Strategies []Strategy
	Fields     []string
	Cause      error
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("model output does not match result schema: %s", strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("model output does not match result schema: %v", e.Cause)
	}
	return "model output does not match result schema"
}

func (e *SchemaMismatchError) Unwrap() error {
	return e.Cause
}
