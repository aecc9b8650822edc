package compiler

import (
	"errors"
	"fmt"

	"github.com/Norgate-AV/spvc/internal/codes"
)

// ErrNoTranslator is returned by Build when no translator was configured
var ErrNoTranslator = errors.New("no shader translator configured")

// Error is a terminal compile failure. Code is one of codes.LoadError,
// codes.WriteError or codes.CompileErrors.
type Error struct {
	Code int

	// File is the source file, empty for string compiles
	File string

	// Description is the I/O error text or the translator diagnostic
	Description string

	// Err is the underlying error, if any
	Err error
}

func (e *Error) Error() string {
	switch e.Code {
	case codes.LoadError:
		return fmt.Sprintf("could not load file: %s", e.Description)
	case codes.WriteError:
		return fmt.Sprintf("could not write file: %s", e.Description)
	default:
		if e.File != "" {
			return fmt.Sprintf("file: %s, description: %s", e.File, e.Description)
		}

		return fmt.Sprintf("description: %s", e.Description)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the exit code for err
func CodeOf(err error) int {
	if err == nil {
		return codes.Success
	}

	var compileErr *Error
	if errors.As(err, &compileErr) {
		return compileErr.Code
	}

	return codes.GeneralError
}

func loadError(err error) *Error {
	return &Error{Code: codes.LoadError, Description: err.Error(), Err: err}
}

func writeError(err error) *Error {
	return &Error{Code: codes.WriteError, Description: err.Error(), Err: err}
}

func translationError(file string, err error) *Error {
	return &Error{Code: codes.CompileErrors, File: file, Description: err.Error(), Err: err}
}
