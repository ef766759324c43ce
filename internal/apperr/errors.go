// Package apperr defines the error vocabulary surfaced by use cases.
// Handlers map these to HTTP status codes; anything outside this set is
// treated as internal and never reaches a response body.
package apperr

import "errors"

var (
	// ErrInvalidCredentials covers every authentication failure with one
	// message so responses cannot distinguish an unknown username from a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned when an authenticated principal is not
	// permitted to perform the operation.
	ErrAccessDenied = errors.New("access denied")

	ErrNotFound = errors.New("resource not found")

	ErrAmountInvalid     = errors.New("amount must be greater than zero")
	ErrAmountTooLarge    = errors.New("amount exceeds transfer limit")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrQueryTooShort     = errors.New("query too short")
	ErrMissingFields     = errors.New("required fields are missing")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrAlreadyExists     = errors.New("record already exists")

	// ErrConcurrentUpdate is returned when a balance write keeps losing the
	// optimistic-concurrency race after retries.
	ErrConcurrentUpdate = errors.New("concurrent update detected, please retry")
)
