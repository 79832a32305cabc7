package remote

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind is the closed set of remote failure classes.
type Kind int

const (
	KindRemote Kind = iota
	KindTimeout
	KindAuthRequired
	KindNoConnection
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindAuthRequired:
		return "auth required"
	case KindNoConnection:
		return "no connection"
	case KindPermission:
		return "permission denied"
	default:
		return "remote error"
	}
}

var (
	ErrRemote       = errors.New("remote error")
	ErrTimeout      = errors.New("timeout")
	ErrAuthRequired = errors.New("auth required")
	ErrNoConnection = errors.New("no connection")
	ErrPermission   = errors.New("permission denied")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindAuthRequired:
		return ErrAuthRequired
	case KindNoConnection:
		return ErrNoConnection
	case KindPermission:
		return ErrPermission
	default:
		return ErrRemote
	}
}

// Error is a classified failure of a named remote operation.
type Error struct {
	Op   string
	Kind Kind
	// After is the deadline that expired, set for KindTimeout only.
	After time.Duration
	Err   error
}

func (e *Error) Error() string {
	if e.Kind == KindTimeout {
		return fmt.Sprintf("%s timed out after %s", e.Op, e.After)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind, so callers can write
// errors.Is(err, remote.ErrTimeout).
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindRemote || e.Kind == KindNoConnection
}

// Timeout builds the error returned when op exceeds d.
func Timeout(op string, d time.Duration) *Error {
	return &Error{Op: op, Kind: KindTimeout, After: d}
}

// AuthRequired builds the error for an operation attempted without an owner.
func AuthRequired(op string) *Error {
	return &Error{Op: op, Kind: KindAuthRequired}
}

// KindOf returns the kind of the first *Error in err's chain, and false
// when err carries no classification.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return KindRemote, false
}

// IsRetryable reports whether err is worth another attempt. Unclassified
// errors are retryable; context cancellation is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Retryable()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
