// Package parsererror defines the typed errors raised while reading statements.
package parsererror

import "fmt"

// ParseError represents a field that could not be parsed inside one
// transaction block. It never aborts a whole file.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadError represents a statement stream that could not be fully read.
// Parsing is aborted and no partial result is returned.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("failed to read statement stream: %v", e.Err)
	}
	return fmt.Sprintf("failed to read statement stream %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
