package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidID    = errors.New("invalid identifier")
)

// ValidationError reports a bad input value along with the field that failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// TransitionError reports a campaign lifecycle guard violation.
type TransitionError struct {
	From  CampaignStatus
	Guard string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid lifecycle transition from %q: %s", e.From, e.Guard)
}

// StorageError wraps an opaque persistence failure. Callers may retry; the
// core never does.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorage classifies a repository failure, passing domain errors through
// untouched so callers can still match them.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	var terr *TransitionError
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidID) || errors.Is(err, ErrUnauthorized) ||
		errors.As(err, &verr) || errors.As(err, &terr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
