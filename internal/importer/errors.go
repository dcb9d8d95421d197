package importer

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type, upload .xlsx or .csv")
	ErrUnreadable        = errors.New("file could not be read")
)

// ValidationError reports a structural problem with the upload as a whole.
type ValidationError struct {
	Column string // first missing required column; empty when the file has no header
}

func (e *ValidationError) Error() string {
	if e.Column == "" {
		return "file is empty: no header row"
	}
	return "missing required column: " + e.Column
}

// MissingFieldError is a required cell left blank. Row is the spreadsheet
// row number (header is row 1).
type MissingFieldError struct {
	Row   int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: missing required field %s", e.Row, e.Field)
}

type FormatError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IsInvalidInput reports whether err is caused by the uploaded content rather
// than by the server.
func IsInvalidInput(err error) bool {
	var (
		ve *ValidationError
		me *MissingFieldError
		fe *FormatError
	)
	return errors.As(err, &ve) || errors.As(err, &me) || errors.As(err, &fe) ||
		errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrUnreadable)
}
