package domain

import "errors"

// ValidationError marks caller mistakes that map to a 400 at the transport
// layer, as opposed to upstream/infrastructure failures.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// ErrValidation builds a ValidationError with the given message.
func ErrValidation(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is returned when a referenced entity does not exist upstream.
var ErrNotFound = errors.New("not found")

// ErrSnapshotUnavailable signals that the event catalogue could not be
// fetched. The engine surfaces it to the caller and does not retry; retry
// and backoff belong to the data service.
var ErrSnapshotUnavailable = errors.New("event snapshot unavailable")
