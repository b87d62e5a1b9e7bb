package core

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify with errors.Is.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("metadata provider failure")
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitUpstream   = 2
	ExitNotFound   = 5
)

// ExitCode maps an error returned by Lookup to the process exit status.
// Errors of no known kind exit like validation failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrUpstream):
		return ExitUpstream
	default:
		return ExitValidation
	}
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// upstream wraps any provider failure, including provider-side "not found"
// answers to a direct fetch.
func upstream(err error) error {
	if err == nil || errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
