package ledger

import "errors"

// ErrRejected matches every failure reported by the SDK while generating
// keys, signing or building an instruction.
var ErrRejected = errors.New("sdk rejected request")

// RejectError describes an SDK failure. Its message is safe to return to
// API callers.
type RejectError struct {
	Op  string
	Err error
}

func (e *RejectError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *RejectError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRejected.
func (e *RejectError) Is(target error) bool { return target == ErrRejected }

func reject(op string, err error) error {
	return &RejectError{Op: op, Err: err}
}
