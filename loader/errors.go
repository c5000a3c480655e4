package loader

import (
	"fmt"
)

// ParseError is returned when a book file is not valid YAML or does not match the book
// schema.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
