package tweetcode

import (
	"errors"
	"fmt"
)

// ErrNoSource indicates no input workbook was supplied and the default source is absent.
// It is a configuration error: the session cannot start without a table.
var ErrNoSource = errors.New("no input workbook: supply a file or place the default workbook next to the program")

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// LoadError represents an error while reading or writing a workbook.
type LoadError struct {
	Source string
	Stage  string // "open", "sheet", "read", "write"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("workbook %q (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(source, stage string, err error) *LoadError {
	return &LoadError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}
