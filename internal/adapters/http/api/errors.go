package api

import (
	"errors"

	"github.com/okian/solhttp/internal/domain/ledger"
	"github.com/okian/solhttp/internal/domain/validate"
)

// Sentinel kinds for API errors.
var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrInvalidEncoding  = errors.New("invalid encoding")
	ErrSdkRejection     = errors.New("sdk rejection")
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// KindError ties a failure to the operation that produced it and one of
// the sentinel kinds above.
type KindError struct {
	Op    string
	Kind  error
	Cause error
}

func (e *KindError) Error() string {
	if e.Cause == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Cause.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *KindError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// WrapKind annotates cause with op and kind.
func WrapKind(op string, kind, cause error) error {
	return &KindError{Op: op, Kind: kind, Cause: cause}
}

// classify maps a domain error onto an API kind.
func classify(err error) error {
	switch {
	case errors.Is(err, validate.ErrInvalidEncoding):
		return ErrInvalidEncoding
	case errors.Is(err, ledger.ErrRejected):
		return ErrSdkRejection
	default:
		return ErrMalformedRequest
	}
}

// kindLabel returns a short label for metrics and logs.
func kindLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEncoding):
		return "invalid_encoding"
	case errors.Is(err, ErrSdkRejection):
		return "sdk_rejection"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMethodNotAllowed):
		return "method_not_allowed"
	default:
		return "malformed_request"
	}
}

// publicMessage returns the text shown to API callers: the innermost
// human readable cause, without the operation prefix.
func publicMessage(err error) string {
	var fe *validate.FieldError
	if errors.As(err, &fe) {
		return fe.Msg
	}
	var re *ledger.RejectError
	if errors.As(err, &re) {
		return re.Error()
	}
	var ke *KindError
	if errors.As(err, &ke) {
		if ke.Cause != nil {
			return ke.Cause.Error()
		}
		return capitalize(ke.Kind.Error())
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
