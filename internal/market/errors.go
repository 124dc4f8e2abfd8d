package market

import (
	"errors"
	"fmt"
)

// Terminal conditions surfaced to the user, never retried.
var (
	// ErrNotFound means no listing exists with the given id.
	ErrNotFound = errors.New("listing not found")

	// ErrAlreadySold means the listing was sold before the operation could
	// apply: a lost purchase race, or a delete of a completed sale.
	ErrAlreadySold = errors.New("listing already sold")

	// ErrSelfPurchase means a buyer tried to buy their own listing.
	ErrSelfPurchase = errors.New("cannot purchase your own listing")
)

// ValidationError reports malformed input, caught before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthorizationError reports a mutation attempted by someone other than the
// listing's seller.
type AuthorizationError struct {
	ID        string
	Requester string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("listing %s is not owned by %s", e.ID, e.Requester)
}

// RemoteError wraps a transport, server, or decode failure from the remote
// store. Reads and the purchase conditional update stay idempotent, so
// callers may retry a RemoteError; validation and authorization failures
// are never wrapped in one.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteErr(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
