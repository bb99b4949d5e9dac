// Package common defines shared constants and sentinel errors used across the
// client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level failure: the server never produced a response.
	ErrTransport = errors.New("transport error")

	// Business-code rejection of a login or registration attempt.
	ErrAuthFailed = errors.New("authentication failed")

	// A protected call was rejected while a token is present. Triggers the
	// logout cascade.
	ErrSessionExpired = errors.New("session expired")

	// A guarded operation was re-entered while one is already in flight.
	ErrOperationInProgress = errors.New("operation already in progress")

	// The operation requires an authenticated session and there is none.
	ErrUnauthenticated = errors.New("not authenticated")
)
