package validate

import "errors"

// Sentinel kinds wrapped by every FieldError.
var (
	// ErrInvalidField marks a missing, empty or out-of-range field.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidEncoding marks a field that is not valid base58/base64 or
	// decodes to the wrong length.
	ErrInvalidEncoding = errors.New("invalid encoding")
)

// FieldError reports the first offending field of a request. Its message
// is meant to be shown to API callers verbatim.
type FieldError struct {
	Field string
	Kind  error
	Msg   string
}

func (e *FieldError) Error() string { return e.Msg }

func (e *FieldError) Unwrap() error { return e.Kind }

func fieldErr(field string, kind error, msg string) error {
	return &FieldError{Field: field, Kind: kind, Msg: msg}
}
