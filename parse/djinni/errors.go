package djinni

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrMalformed = errors.New("malformed")
)

// FieldExtractionError aborts a whole record: a required field could not be
// extracted from the detail page.
type FieldExtractionError struct {
	Field string
	Err   error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Field, e.Err)
}

func (e *FieldExtractionError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &FieldExtractionError{Field: field, Err: err}
}

// MalformedLinkError reports a listing link that does not resolve to an
// absolute URL. Only that link is skipped.
type MalformedLinkError struct {
	Link string
	Err  error
}

func (e *MalformedLinkError) Error() string {
	return fmt.Sprintf("malformed link %q: %v", e.Link, e.Err)
}

func (e *MalformedLinkError) Unwrap() error {
	return e.Err
}
